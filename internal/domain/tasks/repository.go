package tasks

import (
	"context"
	"time"

	userdomain "family-planner/internal/domain/user"
)

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error
	CreateTask(ctx context.Context, task *Task) error
	GetTask(ctx context.Context, familyID, taskID string) (*Task, error)
	ListTasks(ctx context.Context, familyID string) ([]Task, error)
	UpdateTask(ctx context.Context, task *Task) error
	// UpdateStatus moves the task from one status to another and reports
	// whether the row was still in the expected status.
	UpdateStatus(ctx context.Context, familyID, taskID string, from, to Status, approverID *string, at time.Time) (bool, error)
	CountByStatus(ctx context.Context, familyID string) (map[Status]int64, error)
	IsFamilyMember(ctx context.Context, familyID, userID string) (bool, error)
	// LockUser reads the user row with a row lock held until the transaction ends.
	LockUser(ctx context.Context, userID string) (*userdomain.User, error)
}

type Memberships interface {
	GetMembership(ctx context.Context, uid string) (*userdomain.Membership, error)
}
