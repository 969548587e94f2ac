package models

// MembershipLevel is a user's standing within one project.
type MembershipLevel int

const (
	LevelOwner  MembershipLevel = 1
	LevelMember MembershipLevel = 2
)

func (l MembershipLevel) Valid() bool {
	return l == LevelOwner || l == LevelMember
}

// ProjectAccess joins users to projects. The composite unique index is the
// storage-level guarantee that a (user, project) pair holds at most one row,
// which keeps concurrent duplicate grants correct without application locks.
type ProjectAccess struct {
	BaseModel

	UserID          uint            `gorm:"not null;uniqueIndex:idx_user_project"`
	ProjectID       uint            `gorm:"not null;uniqueIndex:idx_user_project"`
	MembershipLevel MembershipLevel `gorm:"not null"`

	// Relationships
	User    User    `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Project Project `gorm:"foreignKey:ProjectID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
