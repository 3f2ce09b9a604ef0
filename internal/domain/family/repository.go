package family

import (
	"context"

	userdomain "family-planner/internal/domain/user"
)

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error
	GetFamilyByID(ctx context.Context, familyID string) (*Family, error)
	CreateFamily(ctx context.Context, family *Family) error
	UpdateFamilyName(ctx context.Context, familyID, name string) error
	SetFamilyActive(ctx context.Context, familyID string, active bool) error
	ListMembers(ctx context.Context, familyID string) ([]FamilyMember, error)
	CountMembers(ctx context.Context, familyID string) (int64, error)
	// LockUser reads the user row for update inside a transaction.
	LockUser(ctx context.Context, userID string) (*userdomain.User, error)
	SetMembership(ctx context.Context, membership userdomain.Membership) error
	ClearMembership(ctx context.Context, userID string) error
}

type Memberships interface {
	GetMembership(ctx context.Context, uid string) (*userdomain.Membership, error)
	InvalidateMembership(ctx context.Context, uid string)
}
