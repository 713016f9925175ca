package postgres

import (
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/backoffice-api/internal/domain"
)

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return strings.Contains(err.Error(), "23505")
}

// wrap convierte errores del driver en TransportError; los errores de dominio pasan sin cambios.
func wrap(op string, err error) error {
	if err == nil || errors.Is(err, pgx.ErrNoRows) {
		return err
	}
	return domain.Transport(op, err)
}

// nullTime convierte *time.Time en un valor apto para columnas DATE nulas.
func nullTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return *t
}
