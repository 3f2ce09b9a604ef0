package tasks

import (
	"errors"

	"family-planner/internal/domain/apperr"
)

var (
	ErrTaskNotFound       = apperr.NewBackendError(apperr.BackendNotFound, "task not found", nil)
	ErrPermissionDenied   = apperr.NewInviteError(apperr.CodePermissionDenied, "permission denied")
	ErrNoFamily           = apperr.NewPermissionError("Join a family to manage tasks.")
	ErrAssigneeNotMember  = apperr.NewValidationError("assignee_id", "assignee must be a member of the family")
	ErrDeadlineRequired   = apperr.NewValidationError("deadline", "deadline is required")
	ErrInvalidTransition  = apperr.NewValidationError("status", "status can only advance one step: pending, in-progress, completed, approved")
	ErrStatusConflict     = apperr.NewValidationError("status", "task status was changed by someone else")
	ErrTitleRequired      = apperr.NewValidationError("title", "title is required")
	ErrTitleTooLong       = apperr.NewValidationError("title", "title must be at most 200 characters")
	ErrDescriptionTooLong = apperr.NewValidationError("description", "description must be at most 2000 characters")

	ErrCorruptRecord = errors.New("task record failed validation")
)
