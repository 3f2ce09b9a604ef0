package family

import "family-planner/internal/domain/apperr"

var (
	ErrFamilyNotFound    = apperr.NewInviteError(apperr.CodeFamilyNotFound, "family not found")
	ErrAlreadyMember     = apperr.NewInviteError(apperr.CodeAlreadyMember, "user already belongs to a family")
	ErrPermissionDenied  = apperr.NewInviteError(apperr.CodePermissionDenied, "permission denied")
	ErrMemberNotFound    = apperr.NewBackendError(apperr.BackendNotFound, "member not found", nil)
	ErrNotOwner          = apperr.NewPermissionError("Only the family owner can remove members.")
	ErrCannotRemoveSelf  = apperr.NewValidationError("user_id", "you cannot remove yourself from the family")
	ErrOwnerMustTransfer = apperr.NewValidationError("", "the owner cannot leave while other members remain")
	ErrNameRequired      = apperr.NewValidationError("name", "family name is required")
	ErrNameTooLong       = apperr.NewValidationError("name", "family name must be at most 100 characters")
)
