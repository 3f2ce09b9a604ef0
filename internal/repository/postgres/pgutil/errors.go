package pgutil

import (
	"family-planner/internal/domain/apperr"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pkg/errors"
)

// SQLSTATE codes the repositories react to.
const (
	uniqueViolation      = "23505"
	serializationFailure = "40001"
	deadlockDetected     = "40P01"
	insufficientPrivs    = "42501"
)

// Translate maps driver errors onto backend errors. Anything it does not
// recognise is returned wrapped with op.
func Translate(err error, op string) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case uniqueViolation:
			return apperr.NewBackendError(apperr.BackendAlreadyExists, "", errors.Wrap(err, op))
		case serializationFailure, deadlockDetected:
			return apperr.NewBackendError(apperr.BackendUnavailable, "", errors.Wrap(err, op))
		case insufficientPrivs:
			return apperr.NewBackendError(apperr.BackendPermissionDenied, "", errors.Wrap(err, op))
		}
	}

	return errors.Wrap(err, op)
}
