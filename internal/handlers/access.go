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

type CreateAccessRequest struct {
	Project         uint                   `json:"project" binding:"required"`
	User            string                 `json:"user" binding:"required,email"`
	MembershipLevel models.MembershipLevel `json:"membership_level" binding:"required,oneof=1 2"`
}

type ReplaceAccessRequest struct {
	Project         uint                   `json:"project" binding:"required"`
	User            string                 `json:"user" binding:"required,email"`
	MembershipLevel models.MembershipLevel `json:"membership_level" binding:"required,oneof=1 2"`
}

type PatchAccessRequest struct {
	Project         *uint                   `json:"project"`
	User            *string                 `json:"user" binding:"omitempty,email"`
	MembershipLevel *models.MembershipLevel `json:"membership_level" binding:"omitempty,oneof=1 2"`
}

type AccessResponse struct {
	ID              uint                   `json:"id"`
	Project         uint                   `json:"project"`
	User            string                 `json:"user"`
	MembershipLevel models.MembershipLevel `json:"membership_level"`
}

func accessResponse(access models.ProjectAccess) AccessResponse {
	return AccessResponse{
		ID:              access.ID,
		Project:         access.ProjectID,
		User:            access.User.Email,
		MembershipLevel: access.MembershipLevel,
	}
}

func ListAccess(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "You need to login first"})
		return
	}

	rows, err := store.AccessRowsFor(db.DB, userID)

	if err != nil {
		log.Printf("Failed to list access rows: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve access list"})
		return
	}

	response := make([]AccessResponse, 0, len(rows))

	for _, row := range rows {
		response = append(response, accessResponse(row))
	}

	ctx.JSON(http.StatusOK, response)
}

// CreateAccess grants a user membership in a project. Only an OWNER of the
// project may grant; the target user arrives as an email and is resolved by
// lookup so a guessed foreign-key id can never attach access to the wrong
// account.
func CreateAccess(ctx *gin.Context) {
	var body CreateAccessRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "You need to login first"})
		return
	}

	memberships, err := store.MembershipsFor(db.DB, userID)

	if err != nil {
		log.Printf("Failed to load memberships: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create access"})
		return
	}

	decision := authz.DecideGrant(utils.GetPrincipal(ctx), memberships, body.Project)

	if abortForDecision(ctx, decision, false) {
		return
	}

	grantee, err := store.UserByEmail(db.DB, body.User)

	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		} else {
			log.Printf("Failed to resolve user: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create access"})
		}
		return
	}

	access := models.ProjectAccess{
		UserID:          grantee.ID,
		ProjectID:       body.Project,
		MembershipLevel: body.MembershipLevel,
	}

	if err := store.CreateAccess(db.DB, &access); err != nil {
		if errors.Is(err, store.ErrDuplicateAccess) {
			ctx.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		log.Printf("Failed to create access: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create access"})
		return
	}

	access.User = grantee

	ctx.JSON(http.StatusCreated, accessResponse(access))
}

// resolveAccess loads the access row within the caller's scope and runs the
// authorization check. Reads are safe for any member; mutations require an
// OWNER row on the target's project, regardless of the request body.
func resolveAccess(ctx *gin.Context, safe bool) (models.ProjectAccess, bool) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "You need to login first"})
		return models.ProjectAccess{}, false
	}

	accessID, err := utils.ParamID(ctx, "access_id")

	if err != nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Access not found"})
		return models.ProjectAccess{}, false
	}

	access, err := store.AccessInScope(db.DB, userID, accessID)

	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Access not found"})
		} else {
			log.Printf("Failed to retrieve access: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve access"})
		}
		return models.ProjectAccess{}, false
	}

	memberships, err := store.MembershipsFor(db.DB, userID)

	if err != nil {
		log.Printf("Failed to load memberships: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve access"})
		return models.ProjectAccess{}, false
	}

	decision := authz.DecideAccess(utils.GetPrincipal(ctx), safe, memberships, access)

	if abortForDecision(ctx, decision, false) {
		return models.ProjectAccess{}, false
	}

	return access, true
}

func GetAccess(ctx *gin.Context) {
	access, ok := resolveAccess(ctx, true)

	if !ok {
		return
	}

	ctx.JSON(http.StatusOK, accessResponse(access))
}

func UpdateAccess(ctx *gin.Context) {
	access, ok := resolveAccess(ctx, false)

	if !ok {
		return
	}

	if ctx.Request.Method == http.MethodPatch {
		var body PatchAccessRequest

		if err := ctx.BindJSON(&body); err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		if body.User != nil {
			grantee, err := store.UserByEmail(db.DB, *body.User)

			if err != nil {
				if errors.Is(err, store.ErrNotFound) {
					ctx.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
				} else {
					log.Printf("Failed to resolve user: %v", err)
					ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update access"})
				}
				return
			}
			access.UserID = grantee.ID
			access.User = grantee
		}
		if body.Project != nil {
			access.ProjectID = *body.Project
		}
		if body.MembershipLevel != nil {
			access.MembershipLevel = *body.MembershipLevel
		}
	} else {
		var body ReplaceAccessRequest

		if err := ctx.BindJSON(&body); err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		grantee, err := store.UserByEmail(db.DB, body.User)

		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				ctx.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			} else {
				log.Printf("Failed to resolve user: %v", err)
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update access"})
			}
			return
		}

		access.UserID = grantee.ID
		access.User = grantee
		access.ProjectID = body.Project
		access.MembershipLevel = body.MembershipLevel
	}

	if err := store.SaveAccess(db.DB, &access); err != nil {
		if errors.Is(err, store.ErrDuplicateAccess) {
			ctx.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		if errors.Is(err, store.ErrInvalidReference) {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		log.Printf("Failed to update access: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update access"})
		return
	}

	ctx.JSON(http.StatusOK, accessResponse(access))
}

func DeleteAccess(ctx *gin.Context) {
	access, ok := resolveAccess(ctx, false)

	if !ok {
		return
	}

	if err := store.DeleteAccess(db.DB, &access); err != nil {
		log.Printf("Failed to delete access: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete access"})
		return
	}

	ctx.Status(http.StatusNoContent)
}
