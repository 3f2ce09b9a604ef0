package pgutil

import (
	"context"
	"errors"

	userdomain "family-planner/internal/domain/user"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GetUser reads one user row and checks it before handing it out.
func GetUser(ctx context.Context, db *gorm.DB, uid string) (*userdomain.User, error) {
	return readUser(db.WithContext(ctx), uid, "get user")
}

// LockUser reads the user row with FOR UPDATE. Only meaningful inside a transaction.
func LockUser(ctx context.Context, db *gorm.DB, uid string) (*userdomain.User, error) {
	return readUser(db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), uid, "lock user")
}

func readUser(query *gorm.DB, uid, op string) (*userdomain.User, error) {
	var record userdomain.User
	if err := query.Where("uid = ?", uid).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, userdomain.ErrUserNotFound
		}
		return nil, Translate(err, op)
	}
	if err := record.Validate(); err != nil {
		return nil, err
	}
	return &record, nil
}

func SetMembership(ctx context.Context, db *gorm.DB, membership userdomain.Membership) error {
	result := db.WithContext(ctx).
		Model(&userdomain.User{}).
		Where("uid = ?", membership.UserID).
		Updates(map[string]interface{}{
			"family_id":         membership.FamilyID,
			"role":              string(membership.Role),
			"subscription_type": string(membership.Subscription),
			"joined_at":         membership.JoinedAt,
		})
	if result.Error != nil {
		return Translate(result.Error, "set membership")
	}
	if result.RowsAffected == 0 {
		return userdomain.ErrUserNotFound
	}
	return nil
}

func ClearMembership(ctx context.Context, db *gorm.DB, uid string) error {
	result := db.WithContext(ctx).
		Model(&userdomain.User{}).
		Where("uid = ?", uid).
		Updates(map[string]interface{}{
			"family_id":         gorm.Expr("NULL"),
			"role":              gorm.Expr("NULL"),
			"subscription_type": gorm.Expr("NULL"),
			"joined_at":         gorm.Expr("NULL"),
		})
	if result.Error != nil {
		return Translate(result.Error, "clear membership")
	}
	if result.RowsAffected == 0 {
		return userdomain.ErrUserNotFound
	}
	return nil
}
