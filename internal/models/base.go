package models

import "time"

// BaseModel is the shared identity and timestamp set for every entity.
// Deletes are physical, so there is no DeletedAt column.
type BaseModel struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
