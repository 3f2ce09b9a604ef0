package family

import (
	"context"
	"errors"
	"time"

	familydomain "family-planner/internal/domain/family"
	userdomain "family-planner/internal/domain/user"
	"family-planner/internal/repository/postgres/pgutil"
	"gorm.io/gorm"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(familydomain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

func (r *PostgresRepository) GetFamilyByID(ctx context.Context, familyID string) (*familydomain.Family, error) {
	var family familydomain.Family
	if err := r.db.WithContext(ctx).Where("id = ?", familyID).First(&family).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, familydomain.ErrFamilyNotFound
		}
		return nil, pgutil.Translate(err, "get family")
	}
	return &family, nil
}

func (r *PostgresRepository) CreateFamily(ctx context.Context, family *familydomain.Family) error {
	return pgutil.Translate(r.db.WithContext(ctx).Create(family).Error, "create family")
}

func (r *PostgresRepository) UpdateFamilyName(ctx context.Context, familyID, name string) error {
	return r.updateFamily(ctx, familyID, map[string]interface{}{"name": name})
}

func (r *PostgresRepository) SetFamilyActive(ctx context.Context, familyID string, active bool) error {
	return r.updateFamily(ctx, familyID, map[string]interface{}{"is_active": active})
}

func (r *PostgresRepository) updateFamily(ctx context.Context, familyID string, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now().UTC()
	result := r.db.WithContext(ctx).Model(&familydomain.Family{}).Where("id = ?", familyID).Updates(updates)
	if result.Error != nil {
		return pgutil.Translate(result.Error, "update family")
	}
	if result.RowsAffected == 0 {
		return familydomain.ErrFamilyNotFound
	}
	return nil
}

func (r *PostgresRepository) ListMembers(ctx context.Context, familyID string) ([]familydomain.FamilyMember, error) {
	var records []userdomain.User
	if err := r.db.WithContext(ctx).
		Where("family_id = ?", familyID).
		Order("joined_at asc, uid asc").
		Find(&records).Error; err != nil {
		return nil, pgutil.Translate(err, "list members")
	}

	members := make([]familydomain.FamilyMember, 0, len(records))
	for i := range records {
		membership, err := records[i].Membership()
		if err != nil {
			return nil, err
		}
		members = append(members, familydomain.FamilyMember{
			UserID:       records[i].UID,
			DisplayName:  records[i].DisplayName,
			Email:        records[i].Email,
			PhotoURL:     records[i].PhotoURL,
			Role:         membership.Role,
			Subscription: membership.Subscription,
			JoinedAt:     membership.JoinedAt,
		})
	}
	return members, nil
}

func (r *PostgresRepository) CountMembers(ctx context.Context, familyID string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&userdomain.User{}).Where("family_id = ?", familyID).Count(&count).Error; err != nil {
		return 0, pgutil.Translate(err, "count members")
	}
	return count, nil
}

func (r *PostgresRepository) LockUser(ctx context.Context, userID string) (*userdomain.User, error) {
	return pgutil.LockUser(ctx, r.db, userID)
}

func (r *PostgresRepository) SetMembership(ctx context.Context, membership userdomain.Membership) error {
	return pgutil.SetMembership(ctx, r.db, membership)
}

func (r *PostgresRepository) ClearMembership(ctx context.Context, userID string) error {
	return pgutil.ClearMembership(ctx, r.db, userID)
}
