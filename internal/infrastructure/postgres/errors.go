package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jhoicas/inventario-envios/internal/domain"
)

// SQLSTATE relevantes.
const (
	sqlStateUniqueViolation      = "23505"
	sqlStateInvalidText          = "22P02" // p.ej. un id que no es UUID
	sqlStateSerializationFailure = "40001"
	sqlStateDeadlockDetected     = "40P01"
	sqlStateLockNotAvailable     = "55P03" // lock_timeout / NOWAIT
)

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	return pgCode(err) == sqlStateUniqueViolation
}

// isMissing: sin filas, o una referencia que no puede existir (id mal formado).
func isMissing(err error) bool {
	return errors.Is(err, pgx.ErrNoRows) || pgCode(err) == sqlStateInvalidText
}

// isTransient indica contención de bloqueos o fallo de serialización: el llamador puede reintentar.
func isTransient(err error) bool {
	switch pgCode(err) {
	case sqlStateSerializationFailure, sqlStateDeadlockDetected, sqlStateLockNotAvailable:
		return true
	}
	return false
}

// wrap agrega contexto a un error de BD; los conflictos de bloqueo se reportan como domain.ErrConflict.
func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	if isTransient(err) {
		return fmt.Errorf("%w: %s: %v", domain.ErrConflict, op, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
