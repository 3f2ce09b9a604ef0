package invite

import (
	"context"
	"time"

	userdomain "family-planner/internal/domain/user"
)

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error
	CreateInvite(ctx context.Context, invite *Invite) error
	GetInviteByCode(ctx context.Context, code string) (*Invite, error)
	GetInviteByID(ctx context.Context, inviteID string) (*Invite, error)
	// LockInviteByCode reads the invite row for update inside a transaction.
	LockInviteByCode(ctx context.Context, code string) (*Invite, error)
	ListInvitesByFamily(ctx context.Context, familyID string) ([]Invite, error)
	ListPendingInvitesByEmail(ctx context.Context, email string, now time.Time) ([]PendingInvitation, error)
	// MarkAccepted flips a pending invite to accepted and reports whether it did.
	MarkAccepted(ctx context.Context, inviteID, userID string, at time.Time) (bool, error)
	// ExpireInvite flips a pending invite to expired and reports whether it did.
	ExpireInvite(ctx context.Context, inviteID string) (bool, error)
	GetFamilySummary(ctx context.Context, familyID string) (*FamilySummary, error)
	LockUser(ctx context.Context, userID string) (*userdomain.User, error)
	SetMembership(ctx context.Context, membership userdomain.Membership) error
}

type Memberships interface {
	GetMembership(ctx context.Context, uid string) (*userdomain.Membership, error)
	InvalidateMembership(ctx context.Context, uid string)
}
