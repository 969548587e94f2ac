package store

import (
	"github.com/taskhub-dev/taskhub/internal/models"
	"gorm.io/gorm"
)

func UserByEmail(db *gorm.DB, email string) (models.User, error) {
	var user models.User

	if err := db.Where("email = ?", email).First(&user).Error; err != nil {
		return models.User{}, notFound(err)
	}

	return user, nil
}

func UserByID(db *gorm.DB, id uint) (models.User, error) {
	var user models.User

	if err := db.First(&user, id).Error; err != nil {
		return models.User{}, notFound(err)
	}

	return user, nil
}
