package store

import (
	"github.com/taskhub-dev/taskhub/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TasksFor lists tasks across every project the user belongs to. With
// mineOnly set, the list narrows to tasks the user owns directly.
func TasksFor(db *gorm.DB, userID uint, mineOnly bool) ([]models.Task, error) {
	tasks := make([]models.Task, 0)

	query := db.Preload("Owner").
		Where("project_id IN (?)", projectScope(db, userID))

	if mineOnly {
		query = query.Where("owner_id = ?", userID)
	}

	err := query.Order("id").Find(&tasks).Error

	return tasks, err
}

// TasksInProject lists one project's tasks. Callers must have checked the
// user's membership first; there is no scoping here.
func TasksInProject(db *gorm.DB, projectID uint) ([]models.Task, error) {
	tasks := make([]models.Task, 0)

	err := db.Preload("Owner").
		Where("project_id = ?", projectID).
		Order("id").
		Find(&tasks).Error

	return tasks, err
}

// TaskInScope resolves a task by id within the user's project scope.
func TaskInScope(db *gorm.DB, userID uint, taskID uint) (models.Task, error) {
	var task models.Task

	err := db.Preload("Owner").
		Where("project_id IN (?)", projectScope(db, userID)).
		First(&task, taskID).Error

	if err != nil {
		return models.Task{}, notFound(err)
	}

	return task, nil
}

func CreateTask(db *gorm.DB, task *models.Task) error {
	return db.Create(task).Error
}

func SaveTask(db *gorm.DB, task *models.Task) error {
	// Associations may be preloaded on the task; only the row itself is
	// written back.
	return db.Omit(clause.Associations).Save(task).Error
}

func DeleteTask(db *gorm.DB, task *models.Task) error {
	return db.Delete(task).Error
}
