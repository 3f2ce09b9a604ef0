package tasks

import (
	"context"
	"errors"
	"sort"
	"time"

	"family-planner/internal/domain/apperr"
	"family-planner/internal/domain/permissions"
	"family-planner/internal/domain/sanitize"
	userdomain "family-planner/internal/domain/user"
	"github.com/google/uuid"
)

type Service struct {
	repo    Repository
	members Memberships
	now     func() time.Time
}

func NewService(repo Repository, members Memberships) *Service {
	return &Service{
		repo:    repo,
		members: members,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// CreateTask adds a pending task to the actor's family.
func (s *Service) CreateTask(ctx context.Context, actorID string, input CreateTaskInput) (*Task, error) {
	input.Title = sanitize.Text(input.Title)
	input.Description = sanitize.Text(input.Description)

	var result Task
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		membership, err := lockActor(ctx, tx, actorID)
		if err != nil {
			return err
		}

		if err := apperr.ValidateStruct(input); err != nil {
			return err
		}
		if input.Deadline.IsZero() {
			return ErrDeadlineRequired
		}
		if err := ensureMember(ctx, tx, membership.FamilyID, input.AssigneeID); err != nil {
			return err
		}

		now := s.now()
		task := Task{
			ID:            uuid.NewString(),
			FamilyID:      membership.FamilyID,
			Title:         input.Title,
			Description:   input.Description,
			AssigneeID:    input.AssigneeID,
			AssigneeColor: colorOrDefault(input.AssigneeColor),
			CreatorID:     actorID,
			CreatorColor:  colorOrDefault(input.CreatorColor),
			Deadline:      truncateDay(input.Deadline),
			Status:        StatusPending,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if err := tx.CreateTask(ctx, &task); err != nil {
			return err
		}
		result = task
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// ListTasks returns the family's tasks by deadline, oldest created first on ties.
func (s *Service) ListTasks(ctx context.Context, actorID string) ([]Task, error) {
	membership, err := s.membership(ctx, actorID)
	if err != nil {
		return nil, err
	}

	list, err := s.repo.ListTasks(ctx, membership.FamilyID)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(list, func(i, j int) bool {
		if !list[i].Deadline.Equal(list[j].Deadline) {
			return list[i].Deadline.Before(list[j].Deadline)
		}
		return list[i].CreatedAt.Before(list[j].CreatedAt)
	})
	return list, nil
}

func (s *Service) GetTask(ctx context.Context, actorID, taskID string) (*Task, error) {
	membership, err := s.membership(ctx, actorID)
	if err != nil {
		return nil, err
	}
	return s.repo.GetTask(ctx, membership.FamilyID, taskID)
}

func (s *Service) UpdateTask(ctx context.Context, actorID, taskID string, input UpdateTaskInput) (*Task, error) {
	var result *Task
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		membership, err := lockActor(ctx, tx, actorID)
		if err != nil {
			return err
		}
		if !permissions.CanEditTasks(membership.Role) {
			return ErrPermissionDenied
		}
		if err := apperr.ValidateStruct(input); err != nil {
			return err
		}

		task, err := tx.GetTask(ctx, membership.FamilyID, taskID)
		if err != nil {
			return err
		}
		if err := s.applyUpdate(ctx, tx, task, input); err != nil {
			return err
		}

		task.UpdatedAt = s.now()
		if err := tx.UpdateTask(ctx, task); err != nil {
			return err
		}
		result = task
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *Service) applyUpdate(ctx context.Context, tx Repository, task *Task, input UpdateTaskInput) error {
	if input.Title != nil {
		title := sanitize.Text(*input.Title)
		if title == "" {
			return ErrTitleRequired
		}
		if sanitize.TooLong(title, maxTitleLength) {
			return ErrTitleTooLong
		}
		task.Title = title
	}
	if input.Description != nil {
		desc := sanitize.Text(*input.Description)
		if sanitize.TooLong(desc, maxDescLength) {
			return ErrDescriptionTooLong
		}
		task.Description = desc
	}
	if input.AssigneeID != nil && *input.AssigneeID != task.AssigneeID {
		if err := ensureMember(ctx, tx, task.FamilyID, *input.AssigneeID); err != nil {
			return err
		}
		task.AssigneeID = *input.AssigneeID
	}
	if input.AssigneeColor != nil {
		task.AssigneeColor = colorOrDefault(*input.AssigneeColor)
	}
	if input.Deadline != nil {
		if input.Deadline.IsZero() {
			return ErrDeadlineRequired
		}
		task.Deadline = truncateDay(*input.Deadline)
	}
	return nil
}

// ChangeStatus advances a task by exactly one stage. Approval needs an
// approving role; the other steps are open to the assignee and to editors.
func (s *Service) ChangeStatus(ctx context.Context, actorID, taskID string, next Status) (*Task, error) {
	if !next.IsValid() {
		return nil, ErrInvalidTransition
	}

	var result *Task
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		membership, err := lockActor(ctx, tx, actorID)
		if err != nil {
			return err
		}

		task, err := tx.GetTask(ctx, membership.FamilyID, taskID)
		if err != nil {
			return err
		}

		allowed, ok := task.Status.Next()
		if !ok || allowed != next {
			return ErrInvalidTransition
		}

		var approverID *string
		if next == StatusApproved {
			if !permissions.CanApproveTasks(membership.Role) {
				return ErrPermissionDenied
			}
			approverID = &actorID
		} else if task.AssigneeID != actorID && !permissions.CanEditTasks(membership.Role) {
			return ErrPermissionDenied
		}

		now := s.now()
		updated, err := tx.UpdateStatus(ctx, task.FamilyID, task.ID, task.Status, next, approverID, now)
		if err != nil {
			return err
		}
		if !updated {
			return ErrStatusConflict
		}

		task.Status = next
		task.UpdatedAt = now
		if approverID != nil {
			task.ApproverID = approverID
		}
		result = task
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *Service) Stats(ctx context.Context, actorID string) (*Stats, error) {
	membership, err := s.membership(ctx, actorID)
	if err != nil {
		return nil, err
	}

	counts, err := s.repo.CountByStatus(ctx, membership.FamilyID)
	if err != nil {
		return nil, err
	}

	stats := Stats{
		Pending:    counts[StatusPending],
		InProgress: counts[StatusInProgress],
		Completed:  counts[StatusCompleted],
		Approved:   counts[StatusApproved],
	}
	stats.Total = stats.Pending + stats.InProgress + stats.Completed + stats.Approved
	return &stats, nil
}

// membership serves reads from the membership cache.
func (s *Service) membership(ctx context.Context, userID string) (*userdomain.Membership, error) {
	membership, err := s.members.GetMembership(ctx, userID)
	if err != nil {
		return nil, membershipErr(err)
	}
	if !permissions.CanViewTasks(membership.Role) {
		return nil, ErrPermissionDenied
	}
	return membership, nil
}

// lockActor resolves the actor from its locked row so writes never act on a
// cached membership that was revoked in the meantime.
func lockActor(ctx context.Context, tx Repository, userID string) (*userdomain.Membership, error) {
	actor, err := tx.LockUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	membership, err := actor.Membership()
	if err != nil {
		return nil, membershipErr(err)
	}
	if !permissions.CanViewTasks(membership.Role) {
		return nil, ErrPermissionDenied
	}
	return membership, nil
}

func membershipErr(err error) error {
	if errors.Is(err, userdomain.ErrNoMembership) {
		return ErrNoFamily
	}
	return err
}

func ensureMember(ctx context.Context, repo Repository, familyID, userID string) error {
	ok, err := repo.IsFamilyMember(ctx, familyID, userID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrAssigneeNotMember
	}
	return nil
}

func colorOrDefault(color string) string {
	if color == "" {
		return DefaultColor
	}
	return color
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
