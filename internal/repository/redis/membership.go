package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"family-planner/internal/domain/permissions"
	userdomain "family-planner/internal/domain/user"
	"family-planner/pkg/logger"
	goredis "github.com/redis/go-redis/v9"
)

const defaultKeyPrefix = "family-planner:membership:"

// MembershipCache shares memberships between instances. Redis failures are
// logged and treated as misses; the database stays the source of truth.
type MembershipCache struct {
	client    goredis.UniversalClient
	keyPrefix string
	log       logger.Logger
}

func NewMembershipCache(client goredis.UniversalClient, keyPrefix string, log logger.Logger) *MembershipCache {
	if keyPrefix == "" {
		keyPrefix = defaultKeyPrefix
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &MembershipCache{client: client, keyPrefix: keyPrefix, log: log}
}

type cachedMembership struct {
	UserID       string    `json:"user_id"`
	FamilyID     string    `json:"family_id"`
	Role         string    `json:"role"`
	Subscription string    `json:"subscription"`
	JoinedAt     time.Time `json:"joined_at"`
}

func (c *MembershipCache) key(userID string) string {
	return c.keyPrefix + userID
}

func (c *MembershipCache) Get(ctx context.Context, userID string) (*userdomain.Membership, bool) {
	raw, err := c.client.Get(ctx, c.key(userID)).Bytes()
	if err != nil {
		if !errors.Is(err, goredis.Nil) {
			c.log.Warn("membership cache: get failed", "user_id", userID, "err", err.Error())
		}
		return nil, false
	}

	membership, ok := decodeMembership(raw)
	if !ok {
		c.log.Warn("membership cache: dropping unreadable entry", "user_id", userID)
		c.Delete(ctx, userID)
		return nil, false
	}
	return membership, true
}

func (c *MembershipCache) Set(ctx context.Context, userID string, membership *userdomain.Membership, ttl time.Duration) {
	if membership == nil || ttl <= 0 {
		c.Delete(ctx, userID)
		return
	}

	raw, err := encodeMembership(membership)
	if err != nil {
		c.log.Warn("membership cache: encode failed", "user_id", userID, "err", err.Error())
		return
	}
	if err := c.client.Set(ctx, c.key(userID), raw, ttl).Err(); err != nil {
		c.log.Warn("membership cache: set failed", "user_id", userID, "err", err.Error())
	}
}

func (c *MembershipCache) Delete(ctx context.Context, userID string) {
	if err := c.client.Del(ctx, c.key(userID)).Err(); err != nil {
		c.log.Warn("membership cache: delete failed", "user_id", userID, "err", err.Error())
	}
}

func encodeMembership(m *userdomain.Membership) ([]byte, error) {
	return json.Marshal(cachedMembership{
		UserID:       m.UserID,
		FamilyID:     m.FamilyID,
		Role:         string(m.Role),
		Subscription: string(m.Subscription),
		JoinedAt:     m.JoinedAt,
	})
}

// decodeMembership rejects entries whose enums no longer parse.
func decodeMembership(raw []byte) (*userdomain.Membership, bool) {
	var cached cachedMembership
	if err := json.Unmarshal(raw, &cached); err != nil {
		return nil, false
	}

	record := userdomain.User{UID: cached.UserID, FamilyID: &cached.FamilyID}
	role := permissions.Role(cached.Role)
	sub := userdomain.SubscriptionType(cached.Subscription)
	record.Role = &role
	record.SubscriptionType = &sub
	record.JoinedAt = &cached.JoinedAt

	membership, err := record.Membership()
	if err != nil {
		return nil, false
	}
	return membership, true
}
