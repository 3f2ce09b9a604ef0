package inmemory

import (
	"context"
	"sync"
	"time"

	userdomain "family-planner/internal/domain/user"
)

// MembershipCache keeps memberships per process. Entries expire lazily on read.
type MembershipCache struct {
	mu    sync.RWMutex
	items map[string]membershipItem
	now   func() time.Time
}

type membershipItem struct {
	value     userdomain.Membership
	expiresAt time.Time
}

func NewMembershipCache() *MembershipCache {
	return &MembershipCache{
		items: make(map[string]membershipItem),
		now:   time.Now,
	}
}

func (c *MembershipCache) Get(ctx context.Context, userID string) (*userdomain.Membership, bool) {
	now := c.now()

	c.mu.RLock()
	item, ok := c.items[userID]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}

	if !item.expiresAt.After(now) {
		c.mu.Lock()
		item, ok = c.items[userID]
		if ok && !item.expiresAt.After(now) {
			delete(c.items, userID)
		}
		c.mu.Unlock()
		return nil, false
	}

	value := item.value
	return &value, true
}

func (c *MembershipCache) Set(ctx context.Context, userID string, membership *userdomain.Membership, ttl time.Duration) {
	if membership == nil || ttl <= 0 {
		c.Delete(ctx, userID)
		return
	}

	c.mu.Lock()
	c.items[userID] = membershipItem{
		value:     *membership,
		expiresAt: c.now().Add(ttl),
	}
	c.mu.Unlock()
}

func (c *MembershipCache) Delete(ctx context.Context, userID string) {
	c.mu.Lock()
	delete(c.items, userID)
	c.mu.Unlock()
}

func (c *MembershipCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}
