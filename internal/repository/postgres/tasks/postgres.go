package tasks

import (
	"context"
	"errors"
	"time"

	tasksdomain "family-planner/internal/domain/tasks"
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

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(tasksdomain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

func (r *PostgresRepository) CreateTask(ctx context.Context, task *tasksdomain.Task) error {
	return pgutil.Translate(r.db.WithContext(ctx).Create(task).Error, "create task")
}

func (r *PostgresRepository) GetTask(ctx context.Context, familyID, taskID string) (*tasksdomain.Task, error) {
	var task tasksdomain.Task
	if err := r.db.WithContext(ctx).
		Where("family_id = ? AND id = ?", familyID, taskID).
		First(&task).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, tasksdomain.ErrTaskNotFound
		}
		return nil, pgutil.Translate(err, "get task")
	}
	if err := task.Validate(); err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *PostgresRepository) ListTasks(ctx context.Context, familyID string) ([]tasksdomain.Task, error) {
	var list []tasksdomain.Task
	if err := r.db.WithContext(ctx).
		Where("family_id = ?", familyID).
		Order("deadline asc, created_at asc").
		Find(&list).Error; err != nil {
		return nil, pgutil.Translate(err, "list tasks")
	}
	for i := range list {
		if err := list[i].Validate(); err != nil {
			return nil, err
		}
	}
	return list, nil
}

func (r *PostgresRepository) UpdateTask(ctx context.Context, task *tasksdomain.Task) error {
	result := r.db.WithContext(ctx).
		Model(&tasksdomain.Task{}).
		Where("family_id = ? AND id = ?", task.FamilyID, task.ID).
		Updates(map[string]interface{}{
			"title":          task.Title,
			"description":    task.Description,
			"assignee_id":    task.AssigneeID,
			"assignee_color": task.AssigneeColor,
			"deadline":       task.Deadline,
			"updated_at":     task.UpdatedAt,
		})
	if result.Error != nil {
		return pgutil.Translate(result.Error, "update task")
	}
	if result.RowsAffected == 0 {
		return tasksdomain.ErrTaskNotFound
	}
	return nil
}

func (r *PostgresRepository) UpdateStatus(ctx context.Context, familyID, taskID string, from, to tasksdomain.Status, approverID *string, at time.Time) (bool, error) {
	updates := map[string]interface{}{
		"status":     string(to),
		"updated_at": at,
	}
	if approverID != nil {
		updates["approver_id"] = *approverID
	}

	result := r.db.WithContext(ctx).
		Model(&tasksdomain.Task{}).
		Where("family_id = ? AND id = ? AND status = ?", familyID, taskID, string(from)).
		Updates(updates)
	if result.Error != nil {
		return false, pgutil.Translate(result.Error, "update task status")
	}
	return result.RowsAffected == 1, nil
}

func (r *PostgresRepository) CountByStatus(ctx context.Context, familyID string) (map[tasksdomain.Status]int64, error) {
	type statusRow struct {
		Status string `gorm:"column:status"`
		Total  int64  `gorm:"column:total"`
	}

	var rows []statusRow
	if err := r.db.WithContext(ctx).
		Model(&tasksdomain.Task{}).
		Select("status, count(*) AS total").
		Where("family_id = ?", familyID).
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, pgutil.Translate(err, "count tasks")
	}

	counts := make(map[tasksdomain.Status]int64, len(rows))
	for _, row := range rows {
		status := tasksdomain.Status(row.Status)
		if !status.IsValid() {
			return nil, tasksdomain.ErrCorruptRecord
		}
		counts[status] = row.Total
	}
	return counts, nil
}

func (r *PostgresRepository) IsFamilyMember(ctx context.Context, familyID, userID string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&userdomain.User{}).
		Where("uid = ? AND family_id = ?", userID, familyID).
		Count(&count).Error; err != nil {
		return false, pgutil.Translate(err, "check member")
	}
	return count > 0, nil
}

func (r *PostgresRepository) LockUser(ctx context.Context, userID string) (*userdomain.User, error) {
	return pgutil.LockUser(ctx, r.db, userID)
}
