package inmemory

import (
	"context"
	"sync"
	"testing"
	"time"

	"family-planner/internal/domain/permissions"
	userdomain "family-planner/internal/domain/user"
)

func TestMembershipCacheSetGet(t *testing.T) {
	cache := NewMembershipCache()
	ctx := context.Background()

	cache.Set(ctx, "u1", &userdomain.Membership{UserID: "u1", FamilyID: "f1", Role: permissions.RoleEditor}, time.Minute)

	got, ok := cache.Get(ctx, "u1")
	if !ok {
		t.Fatalf("expected cache hit")
	}
	if got.FamilyID != "f1" || got.Role != permissions.RoleEditor {
		t.Fatalf("unexpected membership: %+v", got)
	}

	got.FamilyID = "mutated"
	again, _ := cache.Get(ctx, "u1")
	if again.FamilyID != "f1" {
		t.Fatalf("cache must hand out copies")
	}
}

func TestMembershipCacheExpires(t *testing.T) {
	cache := NewMembershipCache()
	current := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return current }
	ctx := context.Background()

	cache.Set(ctx, "u1", &userdomain.Membership{UserID: "u1", FamilyID: "f1"}, time.Minute)
	current = current.Add(2 * time.Minute)

	if _, ok := cache.Get(ctx, "u1"); ok {
		t.Fatalf("expected expired entry to miss")
	}
	if cache.Len() != 0 {
		t.Fatalf("expected expired entry evicted, have %d", cache.Len())
	}
}

func TestMembershipCacheDeleteAndNil(t *testing.T) {
	cache := NewMembershipCache()
	ctx := context.Background()

	cache.Set(ctx, "u1", &userdomain.Membership{UserID: "u1", FamilyID: "f1"}, time.Minute)
	cache.Delete(ctx, "u1")
	if _, ok := cache.Get(ctx, "u1"); ok {
		t.Fatalf("expected miss after delete")
	}

	cache.Set(ctx, "u2", &userdomain.Membership{UserID: "u2", FamilyID: "f1"}, time.Minute)
	cache.Set(ctx, "u2", nil, time.Minute)
	if _, ok := cache.Get(ctx, "u2"); ok {
		t.Fatalf("expected nil set to clear the entry")
	}
}

func TestMembershipCacheConcurrentAccess(t *testing.T) {
	cache := NewMembershipCache()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				cache.Set(ctx, "u1", &userdomain.Membership{UserID: "u1", FamilyID: "f1"}, time.Minute)
				cache.Get(ctx, "u1")
				cache.Delete(ctx, "u1")
			}
		}()
	}
	wg.Wait()
}
