package user

import (
	"time"

	"family-planner/internal/domain/permissions"
)

type SubscriptionType string

const (
	SubscriptionBase    SubscriptionType = "base"
	SubscriptionPremium SubscriptionType = "premium"
)

func (s SubscriptionType) IsValid() bool {
	return s == SubscriptionBase || s == SubscriptionPremium
}

// User is keyed by the auth provider's subject id. FamilyID and Role are
// either both set or both nil.
type User struct {
	UID              string            `gorm:"column:uid;primaryKey"`
	Email            *string           `gorm:"type:text;index"`
	DisplayName      string            `gorm:"not null"`
	PhotoURL         *string           `gorm:"type:text"`
	FamilyID         *string           `gorm:"type:uuid;index"`
	Role             *permissions.Role `gorm:"type:varchar(16)"`
	SubscriptionType *SubscriptionType `gorm:"type:varchar(16)"`
	JoinedAt         *time.Time
	CreatedAt        time.Time `gorm:"not null"`
	LastSignInAt     time.Time `gorm:"not null"`
}

func (User) TableName() string {
	return "users"
}

type Membership struct {
	UserID       string
	FamilyID     string
	Role         permissions.Role
	Subscription SubscriptionType
	JoinedAt     time.Time
}

// Identity is what the auth provider tells us about a signed-in user.
type Identity struct {
	UID         string
	Email       string
	DisplayName string
	PhotoURL    string
}

// Validate checks enum fields and the membership pair of a record read from storage.
func (u *User) Validate() error {
	if u.UID == "" {
		return ErrCorruptRecord
	}
	if (u.FamilyID == nil) != (u.Role == nil) {
		return ErrCorruptRecord
	}
	if u.Role != nil && !u.Role.IsValid() {
		return ErrCorruptRecord
	}
	if u.SubscriptionType != nil && !u.SubscriptionType.IsValid() {
		return ErrCorruptRecord
	}
	return nil
}

// Membership returns ErrNoMembership when the user belongs to no family.
func (u *User) Membership() (*Membership, error) {
	if err := u.Validate(); err != nil {
		return nil, err
	}
	if u.FamilyID == nil {
		return nil, ErrNoMembership
	}

	m := Membership{
		UserID:       u.UID,
		FamilyID:     *u.FamilyID,
		Role:         *u.Role,
		Subscription: SubscriptionBase,
	}
	if u.SubscriptionType != nil {
		m.Subscription = *u.SubscriptionType
	}
	if u.JoinedAt != nil {
		m.JoinedAt = *u.JoinedAt
	}
	return &m, nil
}
