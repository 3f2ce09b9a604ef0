package family

import (
	"context"
	"errors"
	"time"

	"family-planner/internal/domain/permissions"
	"family-planner/internal/domain/sanitize"
	userdomain "family-planner/internal/domain/user"
	"github.com/google/uuid"
)

type Service struct {
	repo    Repository
	members Memberships
	now     func() time.Time
}

func NewService(repo Repository, members Memberships) *Service {
	return &Service{
		repo:    repo,
		members: members,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// CreateFamily creates a family owned by ownerID and makes ownerID its owner.
// A user that already belongs to a family gets ErrAlreadyMember and nothing is written.
func (s *Service) CreateFamily(ctx context.Context, ownerID, name string) (*Family, error) {
	name, err := cleanName(name)
	if err != nil {
		return nil, err
	}

	var result Family
	err = s.repo.Transaction(ctx, func(tx Repository) error {
		owner, err := tx.LockUser(ctx, ownerID)
		if err != nil {
			return err
		}
		if owner.FamilyID != nil {
			return ErrAlreadyMember
		}

		now := s.now()
		family := Family{
			ID:        uuid.NewString(),
			Name:      name,
			OwnerID:   ownerID,
			IsActive:  true,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := tx.CreateFamily(ctx, &family); err != nil {
			return err
		}

		if err := tx.SetMembership(ctx, userdomain.Membership{
			UserID:       ownerID,
			FamilyID:     family.ID,
			Role:         permissions.RoleOwner,
			Subscription: userdomain.SubscriptionBase,
			JoinedAt:     now,
		}); err != nil {
			return err
		}

		result = family
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.members.InvalidateMembership(ctx, ownerID)
	return &result, nil
}

func (s *Service) GetFamilyByID(ctx context.Context, familyID string) (*Family, error) {
	return s.repo.GetFamilyByID(ctx, familyID)
}

// GetFamilyForMember returns the family only when actorID belongs to it.
func (s *Service) GetFamilyForMember(ctx context.Context, actorID, familyID string) (*Family, error) {
	membership, err := s.membership(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if membership.FamilyID != familyID {
		return nil, ErrPermissionDenied
	}
	return s.repo.GetFamilyByID(ctx, familyID)
}

func (s *Service) GetFamilyByUser(ctx context.Context, userID string) (*Family, error) {
	membership, err := s.membership(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.repo.GetFamilyByID(ctx, membership.FamilyID)
}

// UpdateFamily renames the actor's family. The actor's row is read under
// lock so a membership revoked elsewhere is honoured even if a cache is stale.
func (s *Service) UpdateFamily(ctx context.Context, actorID, name string) (*Family, error) {
	name, err := cleanName(name)
	if err != nil {
		return nil, err
	}

	var result *Family
	err = s.repo.Transaction(ctx, func(tx Repository) error {
		actor, err := tx.LockUser(ctx, actorID)
		if err != nil {
			return err
		}
		membership, err := actor.Membership()
		if err != nil {
			return membershipErr(err)
		}
		if !permissions.HasRoleOrHigher(membership.Role, permissions.RoleEditor) {
			return ErrPermissionDenied
		}

		family, err := tx.GetFamilyByID(ctx, membership.FamilyID)
		if err != nil {
			return err
		}
		if err := tx.UpdateFamilyName(ctx, family.ID, name); err != nil {
			return err
		}

		family.Name = name
		result = family
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *Service) ListMembers(ctx context.Context, actorID string) ([]FamilyMember, error) {
	membership, err := s.membership(ctx, actorID)
	if err != nil {
		return nil, err
	}
	return s.repo.ListMembers(ctx, membership.FamilyID)
}

// RemoveMember clears memberID's membership. Only the owner may do this and
// never to themselves.
func (s *Service) RemoveMember(ctx context.Context, actorID, memberID string) error {
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		actor, err := tx.LockUser(ctx, actorID)
		if err != nil {
			return err
		}
		actorMembership, err := actor.Membership()
		if err != nil {
			return membershipErr(err)
		}
		if !permissions.CanManageMembers(actorMembership.Role) {
			return ErrNotOwner
		}
		if memberID == actorID {
			return ErrCannotRemoveSelf
		}

		target, err := tx.LockUser(ctx, memberID)
		if err != nil {
			if errors.Is(err, userdomain.ErrUserNotFound) {
				return ErrMemberNotFound
			}
			return err
		}
		if target.FamilyID == nil || *target.FamilyID != actorMembership.FamilyID {
			return ErrMemberNotFound
		}

		return tx.ClearMembership(ctx, memberID)
	})
	if err != nil {
		return err
	}

	s.members.InvalidateMembership(ctx, memberID)
	return nil
}

// LeaveFamily drops the caller's membership. The owner may only leave as the
// last member, in which case the family is deactivated.
func (s *Service) LeaveFamily(ctx context.Context, userID string) error {
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		record, err := tx.LockUser(ctx, userID)
		if err != nil {
			return err
		}
		membership, err := record.Membership()
		if err != nil {
			return membershipErr(err)
		}

		if membership.Role == permissions.RoleOwner {
			count, err := tx.CountMembers(ctx, membership.FamilyID)
			if err != nil {
				return err
			}
			if count > 1 {
				return ErrOwnerMustTransfer
			}
			if err := tx.SetFamilyActive(ctx, membership.FamilyID, false); err != nil {
				return err
			}
		}

		return tx.ClearMembership(ctx, userID)
	})
	if err != nil {
		return err
	}

	s.members.InvalidateMembership(ctx, userID)
	return nil
}

func (s *Service) membership(ctx context.Context, userID string) (*userdomain.Membership, error) {
	membership, err := s.members.GetMembership(ctx, userID)
	if err != nil {
		return nil, membershipErr(err)
	}
	return membership, nil
}

func membershipErr(err error) error {
	if errors.Is(err, userdomain.ErrNoMembership) {
		return ErrFamilyNotFound
	}
	return err
}

func cleanName(name string) (string, error) {
	name = sanitize.Text(name)
	if name == "" {
		return "", ErrNameRequired
	}
	if sanitize.TooLong(name, maxNameLength) {
		return "", ErrNameTooLong
	}
	return name, nil
}
