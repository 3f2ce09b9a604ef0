package invite

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"time"

	"family-planner/internal/domain/permissions"
	userdomain "family-planner/internal/domain/user"
	"github.com/badoux/checkmail"
	"github.com/google/uuid"
)

type Config struct {
	AppOrigin      string
	DefaultTTLDays int
}

type Service struct {
	repo    Repository
	members Memberships
	cfg     Config
	now     func() time.Time
}

func NewService(repo Repository, members Memberships, cfg Config) *Service {
	if cfg.DefaultTTLDays <= 0 {
		cfg.DefaultTTLDays = DefaultExpiresInDays
	}
	cfg.AppOrigin = strings.TrimRight(cfg.AppOrigin, "/")
	return &Service{
		repo:    repo,
		members: members,
		cfg:     cfg,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// JoinLink is the URL a recipient opens to redeem code.
func (s *Service) JoinLink(code string) string {
	return s.cfg.AppOrigin + "/invite?code=" + url.QueryEscape(code)
}

// CreateInvite issues a pending invite for familyID. createdBy must hold an
// invite-managing role in that family at the time of the write.
func (s *Service) CreateInvite(ctx context.Context, familyID string, input Input, createdBy string) (*Created, error) {
	if !input.Role.IsInvitable() {
		return nil, ErrInvalidRole
	}

	days := input.ExpiresInDays
	if days == 0 {
		days = s.cfg.DefaultTTLDays
	}
	if days < 1 || days > MaxExpiresInDays {
		return nil, ErrInvalidExpiry
	}

	var email *string
	if normalized := normalizeEmail(input.Email); normalized != "" {
		if err := checkmail.ValidateFormat(normalized); err != nil {
			return nil, ErrInvalidEmail
		}
		email = &normalized
	}

	var result Created
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		actor, err := tx.LockUser(ctx, createdBy)
		if err != nil {
			return err
		}
		membership, err := actor.Membership()
		if err != nil {
			if errors.Is(err, userdomain.ErrNoMembership) {
				return ErrPermissionDenied
			}
			return err
		}
		if membership.FamilyID != familyID || !permissions.CanManageInvites(membership.Role) {
			return ErrPermissionDenied
		}

		family, err := tx.GetFamilySummary(ctx, familyID)
		if err != nil {
			return err
		}

		now := s.now()
		inv := Invite{
			ID:        uuid.NewString(),
			FamilyID:  familyID,
			Email:     email,
			Role:      input.Role,
			Status:    StatusPending,
			Code:      uuid.NewString(),
			ExpiresAt: now.Add(time.Duration(days) * 24 * time.Hour),
			CreatedAt: now,
			CreatedBy: createdBy,
		}
		if err := tx.CreateInvite(ctx, &inv); err != nil {
			return err
		}

		result = Created{
			Invite:      inv,
			JoinLink:    s.JoinLink(inv.Code),
			FamilyName:  family.Name,
			InviterName: actor.DisplayName,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &result, nil
}

// GetInviteByCode returns nil without an error when no invite has code.
func (s *Service) GetInviteByCode(ctx context.Context, code string) (*Invite, error) {
	inv, err := s.repo.GetInviteByCode(ctx, strings.TrimSpace(code))
	if errors.Is(err, ErrInviteNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return inv, nil
}

func (s *Service) ValidateInvite(inv *Invite) Validation {
	return ValidateInvite(inv, s.now())
}

// PreviewInvite backs the join page: the invite, its family name and whether it can be redeemed.
func (s *Service) PreviewInvite(ctx context.Context, code string) (*Preview, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, ErrCodeRequired
	}

	inv, err := s.GetInviteByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, ErrInvalidCode
	}

	family, err := s.repo.GetFamilySummary(ctx, inv.FamilyID)
	if err != nil {
		return nil, err
	}

	return &Preview{
		Invite:     *inv,
		FamilyName: family.Name,
		Validation: s.ValidateInvite(inv),
	}, nil
}

// AcceptInvite redeems code for userID. The invite and user rows are locked
// for the whole operation, so a code is redeemed at most once and the user
// ends up with exactly one membership.
func (s *Service) AcceptInvite(ctx context.Context, code, userID, userEmail string) (*Accepted, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, ErrCodeRequired
	}

	var result Accepted
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		inv, err := tx.LockInviteByCode(ctx, code)
		if err != nil {
			if errors.Is(err, ErrInviteNotFound) {
				return ErrInvalidCode
			}
			return err
		}

		now := s.now()
		if validation := ValidateInvite(inv, now); !validation.Valid {
			return validation.Error
		}

		invitee, err := tx.LockUser(ctx, userID)
		if err != nil {
			return err
		}
		if invitee.FamilyID != nil {
			if *invitee.FamilyID != inv.FamilyID {
				return ErrInOtherFamily
			}
			return ErrAlreadyMember
		}

		if inv.Email != nil && !strings.EqualFold(*inv.Email, normalizeEmail(userEmail)) {
			return ErrPermissionDenied
		}

		family, err := tx.GetFamilySummary(ctx, inv.FamilyID)
		if err != nil {
			return err
		}
		if !family.IsActive {
			return ErrFamilyNotFound
		}

		if err := tx.SetMembership(ctx, userdomain.Membership{
			UserID:       userID,
			FamilyID:     inv.FamilyID,
			Role:         inv.Role,
			Subscription: userdomain.SubscriptionBase,
			JoinedAt:     now,
		}); err != nil {
			return err
		}

		accepted, err := tx.MarkAccepted(ctx, inv.ID, userID, now)
		if err != nil {
			return err
		}
		if !accepted {
			return ErrAlreadyUsed
		}

		result = Accepted{FamilyID: family.ID, FamilyName: family.Name, Role: inv.Role}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.members.InvalidateMembership(ctx, userID)
	return &result, nil
}

// GetFamilyInvites lists every invite of the actor's family, newest first.
func (s *Service) GetFamilyInvites(ctx context.Context, actorID string) ([]Invite, error) {
	membership, err := s.members.GetMembership(ctx, actorID)
	if err != nil {
		if errors.Is(err, userdomain.ErrNoMembership) {
			return nil, ErrPermissionDenied
		}
		return nil, err
	}
	if !permissions.CanManageInvites(membership.Role) {
		return nil, ErrPermissionDenied
	}
	return s.repo.ListInvitesByFamily(ctx, membership.FamilyID)
}

// RevokeInvite expires a pending invite. Accepted and already expired
// invites are returned unchanged; the membership an accepted invite created
// is removed through the family instead.
func (s *Service) RevokeInvite(ctx context.Context, actorID, inviteID string) (*Invite, error) {
	var result Invite
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		inv, err := tx.GetInviteByID(ctx, inviteID)
		if err != nil {
			return err
		}

		actor, err := tx.LockUser(ctx, actorID)
		if err != nil {
			return err
		}
		if actor.FamilyID == nil || *actor.FamilyID != inv.FamilyID || actor.Role == nil || !permissions.CanManageInvites(*actor.Role) {
			return ErrPermissionDenied
		}

		if inv.Status == StatusPending {
			expired, err := tx.ExpireInvite(ctx, inv.ID)
			if err != nil {
				return err
			}
			if expired {
				inv.Status = StatusExpired
			}
		}

		result = *inv
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// PendingInvitations lists unexpired pending invites addressed to email.
func (s *Service) PendingInvitations(ctx context.Context, email string) ([]PendingInvitation, error) {
	email = normalizeEmail(email)
	if email == "" {
		return nil, ErrInvalidEmail
	}
	if err := checkmail.ValidateFormat(email); err != nil {
		return nil, ErrInvalidEmail
	}
	return s.repo.ListPendingInvitesByEmail(ctx, email, s.now())
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
