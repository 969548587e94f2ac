package models

import (
	"gorm.io/datatypes"
)

type Task struct {
	BaseModel

	Title       string `gorm:"not null"`
	Description string
	ProjectID   uint  `gorm:"not null;index"`
	OwnerID     *uint `gorm:"index"` // nulled when the owning user is removed
	Progress    int   `gorm:"not null;default:0"`
	DueDate     datatypes.Date

	// Relationships
	Project Project `gorm:"foreignKey:ProjectID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Owner   *User   `gorm:"foreignKey:OwnerID;constraint:OnUpdate:Cascade,OnDelete:SET NULL"`
}
