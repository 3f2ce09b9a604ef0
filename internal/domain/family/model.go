package family

import (
	"time"

	"family-planner/internal/domain/permissions"
	userdomain "family-planner/internal/domain/user"
)

const maxNameLength = 100

type Family struct {
	ID                    string    `gorm:"type:uuid;primaryKey"`
	Name                  string    `gorm:"not null"`
	OwnerID               string    `gorm:"not null;index"`
	IsActive              bool      `gorm:"not null"`
	SubscriptionExpiresAt *time.Time
	CreatedAt             time.Time `gorm:"not null"`
	UpdatedAt             time.Time `gorm:"not null"`
}

func (Family) TableName() string {
	return "families"
}

// FamilyMember is a user record projected onto its membership.
type FamilyMember struct {
	UserID       string
	DisplayName  string
	Email        *string
	PhotoURL     *string
	Role         permissions.Role
	Subscription userdomain.SubscriptionType
	JoinedAt     time.Time
}
