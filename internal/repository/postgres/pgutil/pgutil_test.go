package pgutil

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"family-planner/internal/domain/apperr"
	"family-planner/internal/domain/permissions"
	userdomain "family-planner/internal/domain/user"
	"family-planner/internal/repository/postgres/pgtest"
	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranslate(t *testing.T) {
	assert.NoError(t, Translate(nil, "noop"))

	err := Translate(&pgconn.PgError{Code: "23505"}, "create invite")
	assert.Equal(t, http.StatusConflict, apperr.HTTPStatus(err))
	assert.Equal(t, "already_exists", apperr.ResponseCode(err))

	err = Translate(&pgconn.PgError{Code: "40001"}, "accept invite")
	assert.Equal(t, http.StatusServiceUnavailable, apperr.HTTPStatus(err))
	assert.False(t, apperr.IsBusiness(err))

	err = Translate(&pgconn.PgError{Code: "42501"}, "update")
	assert.Equal(t, http.StatusForbidden, apperr.HTTPStatus(err))

	cause := errors.New("connection reset")
	err = Translate(cause, "get user")
	assert.True(t, errors.Is(err, cause))
	assert.Equal(t, "get user: connection reset", err.Error())
}

func TestLockUserUsesForUpdate(t *testing.T) {
	db, mock, _ := pgtest.NewMock(t)

	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{"uid", "display_name", "family_id", "role", "created_at", "last_sign_in_at"}).
		AddRow("u1", "Alex", "f1", "owner", now, now)
	mock.ExpectQuery(`SELECT \* FROM "users" WHERE uid = \$1 ORDER BY "users"\."uid" LIMIT \$2 FOR UPDATE`).
		WithArgs("u1", 1).
		WillReturnRows(rows)

	record, err := LockUser(context.Background(), db, "u1")
	require.NoError(t, err)
	assert.Equal(t, "Alex", record.DisplayName)
	require.NotNil(t, record.Role)
	assert.Equal(t, permissions.RoleOwner, *record.Role)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetUserRejectsCorruptMembership(t *testing.T) {
	db, mock, _ := pgtest.NewMock(t)

	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{"uid", "display_name", "family_id", "role", "created_at", "last_sign_in_at"}).
		AddRow("u1", "Alex", "f1", nil, now, now)
	mock.ExpectQuery(`SELECT \* FROM "users" WHERE uid = \$1`).WillReturnRows(rows)

	_, err := GetUser(context.Background(), db, "u1")
	assert.ErrorIs(t, err, userdomain.ErrCorruptRecord)
}

func TestGetUserNotFound(t *testing.T) {
	db := pgtest.NewSQLite(t)

	_, err := GetUser(context.Background(), db, "missing")
	assert.ErrorIs(t, err, userdomain.ErrUserNotFound)
}

func TestSetAndClearMembership(t *testing.T) {
	db := pgtest.NewSQLite(t)
	ctx := context.Background()
	pgtest.SeedUser(t, db, "u1", "Alex")

	joined := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, SetMembership(ctx, db, userdomain.Membership{
		UserID:       "u1",
		FamilyID:     "f1",
		Role:         permissions.RoleEditor,
		Subscription: userdomain.SubscriptionBase,
		JoinedAt:     joined,
	}))

	record, err := GetUser(ctx, db, "u1")
	require.NoError(t, err)
	membership, err := record.Membership()
	require.NoError(t, err)
	assert.Equal(t, "f1", membership.FamilyID)
	assert.Equal(t, permissions.RoleEditor, membership.Role)

	require.NoError(t, ClearMembership(ctx, db, "u1"))
	record, err = GetUser(ctx, db, "u1")
	require.NoError(t, err)
	assert.Nil(t, record.FamilyID)
	assert.Nil(t, record.Role)

	assert.ErrorIs(t, ClearMembership(ctx, db, "ghost"), userdomain.ErrUserNotFound)
}
