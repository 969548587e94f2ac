// Package store is the persistence layer for users, projects, tasks and
// access rows. Every list and detail lookup goes through a scoped query
// derived from the caller's ProjectAccess rows, so an id outside the
// caller's projects resolves exactly like a nonexistent one.
package store

import (
	"github.com/taskhub-dev/taskhub/internal/models"
	"gorm.io/gorm"
)

// projectScope is a subquery selecting the ids of every project the user
// belongs to. It is re-evaluated on each query; membership changes take
// effect on the next request.
func projectScope(db *gorm.DB, userID uint) *gorm.DB {
	return db.Model(&models.ProjectAccess{}).
		Select("project_id").
		Where("user_id = ?", userID)
}
