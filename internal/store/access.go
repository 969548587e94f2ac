package store

import (
	"github.com/taskhub-dev/taskhub/internal/authz"
	"github.com/taskhub-dev/taskhub/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MembershipsFor loads the user's access rows as a project-id -> level map
// for the authorization engine. Loaded fresh on every request.
func MembershipsFor(db *gorm.DB, userID uint) (authz.Memberships, error) {
	var rows []models.ProjectAccess

	if err := db.Where("user_id = ?", userID).Find(&rows).Error; err != nil {
		return nil, err
	}

	memberships := make(authz.Memberships, len(rows))
	for _, row := range rows {
		memberships[row.ProjectID] = row.MembershipLevel
	}

	return memberships, nil
}

// AccessRowsFor lists the access rows of every project the user belongs to,
// not just the user's own rows. Plain members may see who else is in their
// projects; scoping is what keeps other tenants invisible.
func AccessRowsFor(db *gorm.DB, userID uint) ([]models.ProjectAccess, error) {
	rows := make([]models.ProjectAccess, 0)

	err := db.Preload("User").
		Where("project_id IN (?)", projectScope(db, userID)).
		Order("id").
		Find(&rows).Error

	return rows, err
}

// AccessInScope resolves an access row by id within the user's project scope.
func AccessInScope(db *gorm.DB, userID uint, accessID uint) (models.ProjectAccess, error) {
	var row models.ProjectAccess

	err := db.Preload("User").
		Where("project_id IN (?)", projectScope(db, userID)).
		First(&row, accessID).Error

	if err != nil {
		return models.ProjectAccess{}, notFound(err)
	}

	return row, nil
}

func CreateAccess(db *gorm.DB, access *models.ProjectAccess) error {
	return constraint(db.Omit(clause.Associations).Create(access).Error)
}

func SaveAccess(db *gorm.DB, access *models.ProjectAccess) error {
	return constraint(db.Omit(clause.Associations).Save(access).Error)
}

func DeleteAccess(db *gorm.DB, access *models.ProjectAccess) error {
	return db.Delete(access).Error
}
