package user

import (
	"errors"

	"family-planner/internal/domain/apperr"
)

var (
	ErrUserNotFound  = apperr.NewInviteError(apperr.CodeUserNotFound, "user not found")
	ErrNoMembership  = errors.New("user has no family membership")
	ErrCorruptRecord = errors.New("user record failed validation")
)
