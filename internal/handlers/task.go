package handlers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/taskhub-dev/taskhub/db"
	"github.com/taskhub-dev/taskhub/internal/authz"
	"github.com/taskhub-dev/taskhub/internal/models"
	"github.com/taskhub-dev/taskhub/internal/store"
	"github.com/taskhub-dev/taskhub/internal/utils"
	"gorm.io/datatypes"
)

const dueDateLayout = "2006-01-02"

type CreateTaskRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	Project     uint   `json:"project" binding:"required"`
	Progress    int    `json:"progress" binding:"gte=0,lte=100"`
	DueDate     string `json:"due_date" binding:"omitempty,datetime=2006-01-02"`
}

type ReplaceTaskRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	Project     uint   `json:"project" binding:"required"`
	Progress    int    `json:"progress" binding:"gte=0,lte=100"`
	DueDate     string `json:"due_date" binding:"omitempty,datetime=2006-01-02"`
}

type PatchTaskRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Project     *uint   `json:"project"`
	Progress    *int    `json:"progress" binding:"omitempty,gte=0,lte=100"`
	DueDate     *string `json:"due_date" binding:"omitempty,datetime=2006-01-02"`
}

type TaskResponse struct {
	ID          uint    `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Project     uint    `json:"project"`
	Owner       *string `json:"owner"`
	Progress    int     `json:"progress"`
	DueDate     *string `json:"due_date"`
}

func taskResponse(task models.Task) TaskResponse {
	response := TaskResponse{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Project:     task.ProjectID,
		Progress:    task.Progress,
	}

	if task.Owner != nil {
		owner := task.Owner.Email
		response.Owner = &owner
	}

	if due := time.Time(task.DueDate); !due.IsZero() {
		formatted := due.Format(dueDateLayout)
		response.DueDate = &formatted
	}

	return response
}

func parseDueDate(raw string) datatypes.Date {
	if raw == "" {
		return datatypes.Date{}
	}

	// Format already validated by the binding.
	due, _ := time.Parse(dueDateLayout, raw)
	return datatypes.Date(due)
}

func ListTasks(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "You need to login first"})
		return
	}

	mineOnly := ctx.Query("mine") == "1" || ctx.Query("mine") == "true"

	tasks, err := store.TasksFor(db.DB, userID, mineOnly)

	if err != nil {
		log.Printf("Failed to list tasks: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve tasks"})
		return
	}

	response := make([]TaskResponse, 0, len(tasks))

	for _, task := range tasks {
		response = append(response, taskResponse(task))
	}

	ctx.JSON(http.StatusOK, response)
}

// CreateTask requires membership in the target project; the task owner is
// always the caller, never taken from the payload.
func CreateTask(ctx *gin.Context) {
	var body CreateTaskRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "You need to login first"})
		return
	}

	userID := currentUser.ID

	memberships, err := store.MembershipsFor(db.DB, userID)

	if err != nil {
		log.Printf("Failed to load memberships: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create task"})
		return
	}

	if authz.DecideProject(utils.GetPrincipal(ctx), memberships, body.Project) != authz.Allow {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Could not find that project or you don't have permission"})
		return
	}

	task := models.Task{
		Title:       body.Title,
		Description: body.Description,
		ProjectID:   body.Project,
		OwnerID:     &userID,
		Progress:    body.Progress,
		DueDate:     parseDueDate(body.DueDate),
	}

	if err := store.CreateTask(db.DB, &task); err != nil {
		log.Printf("Failed to create task: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create task"})
		return
	}

	owner := models.User{Name: currentUser.Name, Email: currentUser.Email}
	owner.ID = currentUser.ID
	task.Owner = &owner

	ctx.JSON(http.StatusCreated, taskResponse(task))
}

// resolveTask loads the task within the caller's scope and runs the
// object-level check; out-of-scope and nonexistent ids are identical 404s.
func resolveTask(ctx *gin.Context) (models.Task, authz.Memberships, bool) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "You need to login first"})
		return models.Task{}, nil, false
	}

	taskID, err := utils.ParamID(ctx, "task_id")

	if err != nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		return models.Task{}, nil, false
	}

	task, err := store.TaskInScope(db.DB, userID, taskID)

	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		} else {
			log.Printf("Failed to retrieve task: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve task"})
		}
		return models.Task{}, nil, false
	}

	memberships, err := store.MembershipsFor(db.DB, userID)

	if err != nil {
		log.Printf("Failed to load memberships: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve task"})
		return models.Task{}, nil, false
	}

	decision := authz.DecideTask(utils.GetPrincipal(ctx), memberships, task)

	if abortForDecision(ctx, decision, true) {
		return models.Task{}, nil, false
	}

	return task, memberships, true
}

func GetTask(ctx *gin.Context) {
	task, _, ok := resolveTask(ctx)

	if !ok {
		return
	}

	ctx.JSON(http.StatusOK, taskResponse(task))
}

func UpdateTask(ctx *gin.Context) {
	task, memberships, ok := resolveTask(ctx)

	if !ok {
		return
	}

	principal := utils.GetPrincipal(ctx)

	if ctx.Request.Method == http.MethodPatch {
		var body PatchTaskRequest

		if err := ctx.BindJSON(&body); err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		if body.Project != nil && *body.Project != task.ProjectID {
			// Moving a task is a write into the destination project.
			if authz.DecideProject(principal, memberships, *body.Project) != authz.Allow {
				ctx.JSON(http.StatusForbidden, gin.H{"error": "Could not find that project or you don't have permission"})
				return
			}
			task.ProjectID = *body.Project
		}
		if body.Title != nil {
			task.Title = *body.Title
		}
		if body.Description != nil {
			task.Description = *body.Description
		}
		if body.Progress != nil {
			task.Progress = *body.Progress
		}
		if body.DueDate != nil {
			task.DueDate = parseDueDate(*body.DueDate)
		}
	} else {
		var body ReplaceTaskRequest

		if err := ctx.BindJSON(&body); err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		if body.Project != task.ProjectID {
			if authz.DecideProject(principal, memberships, body.Project) != authz.Allow {
				ctx.JSON(http.StatusForbidden, gin.H{"error": "Could not find that project or you don't have permission"})
				return
			}
			task.ProjectID = body.Project
		}

		task.Title = body.Title
		task.Description = body.Description
		task.Progress = body.Progress
		task.DueDate = parseDueDate(body.DueDate)
	}

	if err := store.SaveTask(db.DB, &task); err != nil {
		log.Printf("Failed to update task: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update task"})
		return
	}

	ctx.JSON(http.StatusOK, taskResponse(task))
}

func DeleteTask(ctx *gin.Context) {
	task, _, ok := resolveTask(ctx)

	if !ok {
		return
	}

	if err := store.DeleteTask(db.DB, &task); err != nil {
		log.Printf("Failed to delete task: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete task"})
		return
	}

	ctx.Status(http.StatusNoContent)
}
