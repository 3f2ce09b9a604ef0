package user

import (
	"context"

	domain "family-planner/internal/domain/user"
	"family-planner/internal/repository/postgres/pgutil"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// UpsertUser inserts the user or refreshes its profile fields. Membership
// columns and created_at are left alone on conflict.
func (r *PostgresRepository) UpsertUser(ctx context.Context, user *domain.User) error {
	updates := map[string]interface{}{
		"display_name":    user.DisplayName,
		"last_sign_in_at": user.LastSignInAt,
	}
	if user.Email != nil {
		updates["email"] = user.Email
	}
	if user.PhotoURL != nil {
		updates["photo_url"] = user.PhotoURL
	}

	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "uid"}},
			DoUpdates: clause.Assignments(updates),
		}).
		Create(user).Error
	return pgutil.Translate(err, "upsert user")
}

func (r *PostgresRepository) GetUser(ctx context.Context, uid string) (*domain.User, error) {
	return pgutil.GetUser(ctx, r.db, uid)
}
