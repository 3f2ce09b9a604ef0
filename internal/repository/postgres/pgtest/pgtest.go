// Package pgtest opens throwaway databases for repository tests.
package pgtest

import (
	"database/sql"
	"testing"
	"time"

	"family-planner/internal/domain/family"
	"family-planner/internal/domain/invite"
	"family-planner/internal/domain/permissions"
	"family-planner/internal/domain/tasks"
	"family-planner/internal/domain/user"
	"github.com/DATA-DOG/go-sqlmock"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// NewSQLite returns an in-memory database with every table migrated. Row
// locks are not enforced by SQLite, everything else behaves like Postgres.
func NewSQLite(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sqlite handle: %v", err)
	}
	// every connection to :memory: is its own database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.AutoMigrate(&user.User{}, &family.Family{}, &invite.Invite{}, &tasks.Task{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// NewMock returns a gorm handle backed by sqlmock speaking the Postgres dialect.
func NewMock(t testing.TB) (*gorm.DB, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { _ = mockDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open gorm: %v", err)
	}
	return db, mock, mockDB
}

// SeedUser inserts a signed-in user with no family.
func SeedUser(t testing.TB, db *gorm.DB, uid, name string) *user.User {
	t.Helper()

	now := time.Now().UTC()
	email := uid + "@example.com"
	record := user.User{UID: uid, Email: &email, DisplayName: name, CreatedAt: now, LastSignInAt: now}
	if err := db.Create(&record).Error; err != nil {
		t.Fatalf("seed user %s: %v", uid, err)
	}
	return &record
}

// SeedFamily inserts an active family and makes ownerID its owner.
func SeedFamily(t testing.TB, db *gorm.DB, familyID, name, ownerID string) *family.Family {
	t.Helper()

	now := time.Now().UTC()
	record := family.Family{ID: familyID, Name: name, OwnerID: ownerID, IsActive: true, CreatedAt: now, UpdatedAt: now}
	if err := db.Create(&record).Error; err != nil {
		t.Fatalf("seed family %s: %v", familyID, err)
	}
	Join(t, db, ownerID, familyID, permissions.RoleOwner)
	return &record
}

// Join sets the membership columns of uid directly.
func Join(t testing.TB, db *gorm.DB, uid, familyID string, role permissions.Role) {
	t.Helper()

	err := db.Model(&user.User{}).Where("uid = ?", uid).Updates(map[string]interface{}{
		"family_id":         familyID,
		"role":              string(role),
		"subscription_type": string(user.SubscriptionBase),
		"joined_at":         time.Now().UTC(),
	}).Error
	if err != nil {
		t.Fatalf("join %s: %v", uid, err)
	}
}
