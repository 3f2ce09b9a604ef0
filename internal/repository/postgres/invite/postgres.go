package invite

import (
	"context"
	"errors"
	"time"

	familydomain "family-planner/internal/domain/family"
	invitedomain "family-planner/internal/domain/invite"
	"family-planner/internal/domain/permissions"
	userdomain "family-planner/internal/domain/user"
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

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(invitedomain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

func (r *PostgresRepository) CreateInvite(ctx context.Context, inv *invitedomain.Invite) error {
	return pgutil.Translate(r.db.WithContext(ctx).Create(inv).Error, "create invite")
}

func (r *PostgresRepository) GetInviteByCode(ctx context.Context, code string) (*invitedomain.Invite, error) {
	return r.first(r.db.WithContext(ctx).Where("code = ?", code), "get invite by code")
}

func (r *PostgresRepository) GetInviteByID(ctx context.Context, inviteID string) (*invitedomain.Invite, error) {
	return r.first(r.db.WithContext(ctx).Where("id = ?", inviteID), "get invite")
}

func (r *PostgresRepository) LockInviteByCode(ctx context.Context, code string) (*invitedomain.Invite, error) {
	query := r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}).Where("code = ?", code)
	return r.first(query, "lock invite")
}

func (r *PostgresRepository) first(query *gorm.DB, op string) (*invitedomain.Invite, error) {
	var inv invitedomain.Invite
	if err := query.First(&inv).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, invitedomain.ErrInviteNotFound
		}
		return nil, pgutil.Translate(err, op)
	}
	if err := inv.Validate(); err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *PostgresRepository) ListInvitesByFamily(ctx context.Context, familyID string) ([]invitedomain.Invite, error) {
	var invites []invitedomain.Invite
	if err := r.db.WithContext(ctx).
		Where("family_id = ?", familyID).
		Order("created_at desc").
		Find(&invites).Error; err != nil {
		return nil, pgutil.Translate(err, "list invites")
	}
	for i := range invites {
		if err := invites[i].Validate(); err != nil {
			return nil, err
		}
	}
	return invites, nil
}

func (r *PostgresRepository) ListPendingInvitesByEmail(ctx context.Context, email string, now time.Time) ([]invitedomain.PendingInvitation, error) {
	type pendingRow struct {
		ID          string    `gorm:"column:id"`
		Code        string    `gorm:"column:code"`
		FamilyID    string    `gorm:"column:family_id"`
		FamilyName  string    `gorm:"column:family_name"`
		Role        string    `gorm:"column:role"`
		InviterName *string   `gorm:"column:inviter_name"`
		ExpiresAt   time.Time `gorm:"column:expires_at"`
	}

	var rows []pendingRow
	if err := r.db.WithContext(ctx).
		Table("invites").
		Select("invites.id, invites.code, invites.family_id, families.name AS family_name, invites.role, users.display_name AS inviter_name, invites.expires_at").
		Joins("join families on families.id = invites.family_id").
		Joins("left join users on users.uid = invites.created_by").
		Where("invites.email = ? AND invites.status = ? AND invites.expires_at > ?", email, string(invitedomain.StatusPending), now).
		Where("families.is_active = ?", true).
		Order("invites.created_at desc").
		Scan(&rows).Error; err != nil {
		return nil, pgutil.Translate(err, "list pending invites")
	}

	result := make([]invitedomain.PendingInvitation, 0, len(rows))
	for _, row := range rows {
		role := permissions.Role(row.Role)
		if !role.IsInvitable() {
			return nil, invitedomain.ErrCorruptRecord
		}
		inviter := ""
		if row.InviterName != nil {
			inviter = *row.InviterName
		}
		result = append(result, invitedomain.PendingInvitation{
			ID:          row.ID,
			Code:        row.Code,
			FamilyID:    row.FamilyID,
			FamilyName:  row.FamilyName,
			Role:        role,
			InviterName: inviter,
			ExpiresAt:   row.ExpiresAt,
		})
	}
	return result, nil
}

func (r *PostgresRepository) MarkAccepted(ctx context.Context, inviteID, userID string, at time.Time) (bool, error) {
	return r.transition(ctx, inviteID, map[string]interface{}{
		"status":      string(invitedomain.StatusAccepted),
		"accepted_by": userID,
		"accepted_at": at,
	})
}

func (r *PostgresRepository) ExpireInvite(ctx context.Context, inviteID string) (bool, error) {
	return r.transition(ctx, inviteID, map[string]interface{}{
		"status": string(invitedomain.StatusExpired),
	})
}

// transition only touches the row while it is still pending.
func (r *PostgresRepository) transition(ctx context.Context, inviteID string, updates map[string]interface{}) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&invitedomain.Invite{}).
		Where("id = ? AND status = ?", inviteID, string(invitedomain.StatusPending)).
		Updates(updates)
	if result.Error != nil {
		return false, pgutil.Translate(result.Error, "update invite status")
	}
	return result.RowsAffected == 1, nil
}

func (r *PostgresRepository) GetFamilySummary(ctx context.Context, familyID string) (*invitedomain.FamilySummary, error) {
	var family familydomain.Family
	if err := r.db.WithContext(ctx).
		Select("id", "name", "is_active").
		Where("id = ?", familyID).
		First(&family).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, invitedomain.ErrFamilyNotFound
		}
		return nil, pgutil.Translate(err, "get family summary")
	}
	return &invitedomain.FamilySummary{ID: family.ID, Name: family.Name, IsActive: family.IsActive}, nil
}

func (r *PostgresRepository) LockUser(ctx context.Context, userID string) (*userdomain.User, error) {
	return pgutil.LockUser(ctx, r.db, userID)
}

func (r *PostgresRepository) SetMembership(ctx context.Context, membership userdomain.Membership) error {
	return pgutil.SetMembership(ctx, r.db, membership)
}
