package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/inventario-envios/internal/domain"
)

func TestWrap_SQLStateAConflicto(t *testing.T) {
	cases := []struct {
		code     string
		conflict bool
	}{
		{sqlStateSerializationFailure, true},
		{sqlStateDeadlockDetected, true},
		{sqlStateLockNotAvailable, true},
		{sqlStateUniqueViolation, false},
		{sqlStateInvalidText, false},
		{"23503", false},
	}
	for _, tc := range cases {
		t.Run(tc.code, func(t *testing.T) {
			pgErr := &pgconn.PgError{Code: tc.code, Message: "fallo"}
			// El driver suele entregar el error envuelto.
			err := wrap("debitar stock item", fmt.Errorf("exec: %w", pgErr))

			assert.Equal(t, tc.conflict, errors.Is(err, domain.ErrConflict))
			assert.Contains(t, err.Error(), "debitar stock item")
			if !tc.conflict {
				var got *pgconn.PgError
				assert.True(t, errors.As(err, &got), "el PgError original debe seguir accesible")
				assert.Equal(t, tc.code, got.Code)
			}
		})
	}
}

func TestWrap_Nil(t *testing.T) {
	assert.NoError(t, wrap("op", nil))
}

func TestIsMissing(t *testing.T) {
	assert.True(t, isMissing(pgx.ErrNoRows))
	assert.True(t, isMissing(fmt.Errorf("scan: %w", pgx.ErrNoRows)))
	assert.True(t, isMissing(&pgconn.PgError{Code: sqlStateInvalidText}))

	assert.False(t, isMissing(&pgconn.PgError{Code: sqlStateLockNotAvailable}))
	assert.False(t, isMissing(&pgconn.PgError{Code: sqlStateUniqueViolation}))
	assert.False(t, isMissing(errors.New("conexión cerrada")))
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, isUniqueViolation(fmt.Errorf("insert: %w", &pgconn.PgError{Code: sqlStateUniqueViolation})))
	assert.False(t, isUniqueViolation(&pgconn.PgError{Code: sqlStateSerializationFailure}))
	assert.False(t, isUniqueViolation(pgx.ErrNoRows))
}
