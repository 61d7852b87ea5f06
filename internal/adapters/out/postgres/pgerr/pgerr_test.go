package pgerr_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ordercore/internal/adapters/out/postgres/pgerr"
	"ordercore/internal/pkg/errs"
)

func TestTranslate_ConcurrencyConflicts(t *testing.T) {
	for _, code := range []string{"40001", "40P01", "55P03"} {
		t.Run(code, func(t *testing.T) {
			cause := &pgconn.PgError{Code: code, Message: "contention"}

			err := pgerr.Translate(cause)

			require.Error(t, err)
			assert.ErrorIs(t, err, errs.ErrConflict)
			assert.Contains(t, err.Error(), "concurrent write conflict")
		})
	}
}

func TestTranslate_WrappedPgErrorIsStillDetected(t *testing.T) {
	cause := &pgconn.PgError{Code: "40001"}
	wrapped := fmt.Errorf("commit failed: %w", cause)

	err := pgerr.Translate(wrapped)

	assert.ErrorIs(t, err, errs.ErrConflict)
}

func TestTranslate_OtherPgErrorsPassThrough(t *testing.T) {
	cause := &pgconn.PgError{Code: "23505", Message: "duplicate key"}

	err := pgerr.Translate(cause)

	assert.Equal(t, cause, err)
	assert.NotErrorIs(t, err, errs.ErrConflict)
}

func TestTranslate_NonPgErrorsPassThrough(t *testing.T) {
	cause := errors.New("connection reset")

	assert.Equal(t, cause, pgerr.Translate(cause))
}

func TestTranslate_Nil(t *testing.T) {
	assert.NoError(t, pgerr.Translate(nil))
}
