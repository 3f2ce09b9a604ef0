package user

import (
	"context"
	"errors"
	"strings"
	"time"

	"family-planner/internal/domain/apperr"
	"family-planner/pkg/logger"
)

const (
	defaultDisplayName = "User"
	syncRetries        = 2
	syncRetryBase      = 100 * time.Millisecond
)

type Service struct {
	repo     Repository
	cache    MembershipCache
	cacheTTL time.Duration
	log      logger.Logger
	now      func() time.Time
}

func NewService(repo Repository, cache MembershipCache, cacheTTL time.Duration, log logger.Logger) *Service {
	if cache == nil {
		cache = NoopMembershipCache{}
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &Service{
		repo:     repo,
		cache:    cache,
		cacheTTL: cacheTTL,
		log:      log,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// SyncUser creates the record on first sign-in and refreshes the profile and
// last sign-in time afterwards. Membership fields are never touched.
func (s *Service) SyncUser(ctx context.Context, identity Identity) (*User, error) {
	uid := strings.TrimSpace(identity.UID)
	if uid == "" {
		return nil, apperr.NewValidationError("uid", "user id is required")
	}

	now := s.now()
	record := User{
		UID:          uid,
		DisplayName:  resolveDisplayName(identity),
		CreatedAt:    now,
		LastSignInAt: now,
	}
	if email := strings.TrimSpace(identity.Email); email != "" {
		record.Email = &email
	}
	if photo := strings.TrimSpace(identity.PhotoURL); photo != "" {
		record.PhotoURL = &photo
	}

	if err := s.repo.UpsertUser(ctx, &record); err != nil {
		return nil, err
	}
	return s.repo.GetUser(ctx, uid)
}

// UpsertUser runs SyncUser with retries and only logs failures, so sign-in is never blocked.
func (s *Service) UpsertUser(ctx context.Context, identity Identity) {
	err := apperr.RetryWithBackoff(ctx, syncRetries, syncRetryBase, func(ctx context.Context) error {
		_, err := s.SyncUser(ctx, identity)
		var validationErr *apperr.ValidationError
		if errors.As(err, &validationErr) {
			return nil
		}
		return err
	})
	if err != nil {
		s.log.InternalError("users.upsert: sync user failed", err, "user_id", identity.UID)
	}
}

func (s *Service) GetUser(ctx context.Context, uid string) (*User, error) {
	return s.repo.GetUser(ctx, uid)
}

func (s *Service) GetMembership(ctx context.Context, uid string) (*Membership, error) {
	if cached, ok := s.cache.Get(ctx, uid); ok {
		return cached, nil
	}

	record, err := s.repo.GetUser(ctx, uid)
	if err != nil {
		return nil, err
	}
	membership, err := record.Membership()
	if err != nil {
		return nil, err
	}

	s.cache.Set(ctx, uid, membership, s.cacheTTL)
	return membership, nil
}

func (s *Service) InvalidateMembership(ctx context.Context, uid string) {
	s.cache.Delete(ctx, uid)
}

func resolveDisplayName(identity Identity) string {
	if name := strings.TrimSpace(identity.DisplayName); name != "" {
		return name
	}
	if local, _, ok := strings.Cut(strings.TrimSpace(identity.Email), "@"); ok && local != "" {
		return local
	}
	return defaultDisplayName
}
