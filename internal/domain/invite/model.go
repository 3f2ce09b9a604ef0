package invite

import (
	"time"

	"family-planner/internal/domain/apperr"
	"family-planner/internal/domain/permissions"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusAccepted Status = "accepted"
	StatusExpired  Status = "expired"
)

func (s Status) IsValid() bool {
	return s == StatusPending || s == StatusAccepted || s == StatusExpired
}

const (
	DefaultExpiresInDays = 7
	MaxExpiresInDays     = 30
)

type Invite struct {
	ID         string           `gorm:"type:uuid;primaryKey"`
	FamilyID   string           `gorm:"type:uuid;not null;index"`
	Email      *string          `gorm:"type:text;index"`
	Role       permissions.Role `gorm:"type:varchar(16);not null"`
	Status     Status           `gorm:"type:varchar(16);not null"`
	Code       string           `gorm:"not null;uniqueIndex"`
	ExpiresAt  time.Time        `gorm:"not null"`
	CreatedAt  time.Time        `gorm:"not null"`
	CreatedBy  string           `gorm:"not null"`
	AcceptedBy *string
	AcceptedAt *time.Time
}

func (Invite) TableName() string {
	return "invites"
}

// Validate checks a record read from storage.
func (i *Invite) Validate() error {
	if i.ID == "" || i.Code == "" || i.FamilyID == "" {
		return ErrCorruptRecord
	}
	if !i.Role.IsInvitable() || !i.Status.IsValid() {
		return ErrCorruptRecord
	}
	return nil
}

type Input struct {
	Email         string
	Role          permissions.Role
	ExpiresInDays int
}

type Created struct {
	Invite      Invite
	JoinLink    string
	FamilyName  string
	InviterName string
}

type Validation struct {
	Valid bool
	Error *apperr.InviteError
}

type Preview struct {
	Invite     Invite
	FamilyName string
	Validation Validation
}

type Accepted struct {
	FamilyID   string
	FamilyName string
	Role       permissions.Role
}

type FamilySummary struct {
	ID       string
	Name     string
	IsActive bool
}

// PendingInvitation is an open invite addressed to a specific email.
type PendingInvitation struct {
	ID          string
	Code        string
	FamilyID    string
	FamilyName  string
	Role        permissions.Role
	InviterName string
	ExpiresAt   time.Time
}
