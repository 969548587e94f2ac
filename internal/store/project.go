package store

import (
	"github.com/taskhub-dev/taskhub/internal/models"
	"gorm.io/gorm"
)

// CreateProject inserts the project together with an OWNER access row for
// the creator. The two writes share one transaction: a project must never
// exist without at least one OWNER, so if the access insert fails the
// project insert rolls back with it.
func CreateProject(db *gorm.DB, project *models.Project, creatorID uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(project).Error; err != nil {
			return err
		}

		access := models.ProjectAccess{
			UserID:          creatorID,
			ProjectID:       project.ID,
			MembershipLevel: models.LevelOwner,
		}

		return tx.Create(&access).Error
	})
}

// ProjectsFor lists every project the user has an access row for.
func ProjectsFor(db *gorm.DB, userID uint) ([]models.Project, error) {
	projects := make([]models.Project, 0)

	err := db.Where("id IN (?)", projectScope(db, userID)).
		Order("id").
		Find(&projects).Error

	return projects, err
}

// ProjectInScope resolves a project by id within the user's scope.
func ProjectInScope(db *gorm.DB, userID uint, projectID uint) (models.Project, error) {
	var project models.Project

	err := db.Where("id IN (?)", projectScope(db, userID)).
		First(&project, projectID).Error

	if err != nil {
		return models.Project{}, notFound(err)
	}

	return project, nil
}

func SaveProject(db *gorm.DB, project *models.Project) error {
	return db.Save(project).Error
}

// DeleteProject removes the project; tasks and access rows go with it via
// the foreign-key cascade.
func DeleteProject(db *gorm.DB, project *models.Project) error {
	return db.Delete(project).Error
}
