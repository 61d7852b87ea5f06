// Package pgerr translates low-level postgres errors into domain error
// types shared by all repository implementations.
package pgerr

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"ordercore/internal/pkg/errs"
)

// SQLSTATE codes that indicate a transient concurrency conflict: the caller
// can safely retry the whole transaction.
const (
	serializationFailure = "40001"
	deadlockDetected     = "40P01"
	lockNotAvailable     = "55P03"
)

// Translate maps serialization failures, deadlocks and lock timeouts onto a
// ConflictError. Any other error is returned unchanged.
func Translate(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case serializationFailure, deadlockDetected, lockNotAvailable:
			return errs.NewConflictErrorWithCause("concurrent write conflict", err)
		}
	}

	return err
}
