package user

import (
	"context"
	"time"
)

type MembershipCache interface {
	Get(ctx context.Context, userID string) (*Membership, bool)
	Set(ctx context.Context, userID string, membership *Membership, ttl time.Duration)
	Delete(ctx context.Context, userID string)
}

type NoopMembershipCache struct{}

func (NoopMembershipCache) Get(context.Context, string) (*Membership, bool) {
	return nil, false
}

func (NoopMembershipCache) Set(context.Context, string, *Membership, time.Duration) {}

func (NoopMembershipCache) Delete(context.Context, string) {}
