package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/taskhub-dev/taskhub/db"
	"github.com/taskhub-dev/taskhub/internal/authz"
	"github.com/taskhub-dev/taskhub/internal/models"
	"github.com/taskhub-dev/taskhub/internal/store"
	"github.com/taskhub-dev/taskhub/internal/utils"
)

type CreateProjectRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
}

type ReplaceProjectRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
}

type PatchProjectRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
}

type ProjectResponse struct {
	ID          uint   `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

func projectResponse(project models.Project) ProjectResponse {
	return ProjectResponse{
		ID:          project.ID,
		Title:       project.Title,
		Description: project.Description,
	}
}

func ListProjects(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "You need to login first"})
		return
	}

	projects, err := store.ProjectsFor(db.DB, userID)

	if err != nil {
		log.Printf("Failed to list projects: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve projects"})
		return
	}

	response := make([]ProjectResponse, 0, len(projects))

	for _, project := range projects {
		response = append(response, projectResponse(project))
	}

	ctx.JSON(http.StatusOK, response)
}

// CreateProject inserts the project and its creator's OWNER access row in
// one transaction; any authenticated user may create a project.
func CreateProject(ctx *gin.Context) {
	var body CreateProjectRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "You need to login first"})
		return
	}

	project := models.Project{
		Title:       body.Title,
		Description: body.Description,
	}

	if err := store.CreateProject(db.DB, &project, userID); err != nil {
		log.Printf("Failed to create project: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create project"})
		return
	}

	ctx.JSON(http.StatusCreated, projectResponse(project))
}

// resolveProject loads the project within the caller's scope and runs the
// object-level authorization check. It writes the error response itself and
// reports success through ok.
func resolveProject(ctx *gin.Context) (models.Project, uint, bool) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "You need to login first"})
		return models.Project{}, 0, false
	}

	projectID, err := utils.ParamID(ctx, "project_id")

	if err != nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
		return models.Project{}, 0, false
	}

	project, err := store.ProjectInScope(db.DB, userID, projectID)

	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
		} else {
			log.Printf("Failed to retrieve project: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve project"})
		}
		return models.Project{}, 0, false
	}

	memberships, err := store.MembershipsFor(db.DB, userID)

	if err != nil {
		log.Printf("Failed to load memberships: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve project"})
		return models.Project{}, 0, false
	}

	decision := authz.DecideProject(utils.GetPrincipal(ctx), memberships, project.ID)

	if abortForDecision(ctx, decision, true) {
		return models.Project{}, 0, false
	}

	return project, userID, true
}

func GetProject(ctx *gin.Context) {
	project, _, ok := resolveProject(ctx)

	if !ok {
		return
	}

	ctx.JSON(http.StatusOK, projectResponse(project))
}

func UpdateProject(ctx *gin.Context) {
	project, _, ok := resolveProject(ctx)

	if !ok {
		return
	}

	if ctx.Request.Method == http.MethodPatch {
		var body PatchProjectRequest

		if err := ctx.BindJSON(&body); err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}

		if body.Title != nil {
			project.Title = *body.Title
		}
		if body.Description != nil {
			project.Description = *body.Description
		}
	} else {
		var body ReplaceProjectRequest

		if err := ctx.BindJSON(&body); err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}

		project.Title = body.Title
		project.Description = body.Description
	}

	if err := store.SaveProject(db.DB, &project); err != nil {
		log.Printf("Failed to update project: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update project"})
		return
	}

	ctx.JSON(http.StatusOK, projectResponse(project))
}

func DeleteProject(ctx *gin.Context) {
	project, _, ok := resolveProject(ctx)

	if !ok {
		return
	}

	if err := store.DeleteProject(db.DB, &project); err != nil {
		log.Printf("Failed to delete project: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete project"})
		return
	}

	ctx.Status(http.StatusNoContent)
}
