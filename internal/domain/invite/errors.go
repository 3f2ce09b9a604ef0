package invite

import (
	"errors"

	"family-planner/internal/domain/apperr"
	userdomain "family-planner/internal/domain/user"
)

var (
	ErrInvalidCode      = apperr.NewInviteError(apperr.CodeInvalidCode, "invite code not found")
	ErrExpired          = apperr.NewInviteError(apperr.CodeExpired, "invite expired")
	ErrAlreadyUsed      = apperr.NewInviteError(apperr.CodeAlreadyUsed, "invite already used")
	ErrAlreadyMember    = apperr.NewInviteError(apperr.CodeAlreadyMember, "user already belongs to this family")
	ErrInOtherFamily    = apperr.NewInviteError(apperr.CodeAlreadyMember, "user already belongs to another family").WithUserMessage("You already belong to another family. Leave it before accepting this invite.")
	ErrPermissionDenied = apperr.NewInviteError(apperr.CodePermissionDenied, "permission denied")
	ErrFamilyNotFound   = apperr.NewInviteError(apperr.CodeFamilyNotFound, "invite family not found")
	ErrUserNotFound     = userdomain.ErrUserNotFound

	ErrInviteNotFound = apperr.NewBackendError(apperr.BackendNotFound, "invite not found", nil)

	ErrCodeRequired  = apperr.NewValidationError("code", "invite code is required")
	ErrInvalidRole   = apperr.NewValidationError("role", "role must be one of viewer, editor, approver")
	ErrInvalidEmail  = apperr.NewValidationError("email", "email address is not valid")
	ErrInvalidExpiry = apperr.NewValidationError("expires_in_days", "expiry must be between 1 and 30 days")

	ErrCorruptRecord = errors.New("invite record failed validation")
)
