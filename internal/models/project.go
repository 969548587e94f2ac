package models

type Project struct {
	BaseModel

	Title       string `gorm:"not null"`
	Description string

	// Relationships
	ProjectAccesses []ProjectAccess `gorm:"foreignKey:ProjectID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Tasks           []Task          `gorm:"foreignKey:ProjectID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
