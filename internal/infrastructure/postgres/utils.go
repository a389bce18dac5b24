package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/activos-ti-api/internal/domain"
)

// querier lo cumplen *pgxpool.Pool y pgx.Tx: los repositorios funcionan igual dentro
// y fuera de una transacción.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return false
}

// mapError traduce un error de pgx a la taxonomía del dominio.
//
//   - 23505 unique_violation      → ErrConflict
//   - 23503 foreign_key_violation → ErrInvalidReference
//   - clase 08, 53, 57P01 y todo error que no venga del servidor → ErrStorageUnavailable
//
// El resto se envuelve tal cual (se reporta como INTERNAL).
func mapError(op string, err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		if errors.Is(err, context.Canceled) {
			return fmt.Errorf("%s: %w", op, err)
		}
		return fmt.Errorf("%w: %s: %v", domain.ErrStorageUnavailable, op, err)
	}
	switch {
	case pgErr.Code == "23505":
		return fmt.Errorf("%w: %s (%s)", domain.ErrConflict, op, pgErr.ConstraintName)
	case pgErr.Code == "23503":
		return fmt.Errorf("%w: %s (%s)", domain.ErrInvalidReference, op, pgErr.ConstraintName)
	case strings.HasPrefix(pgErr.Code, "08"), strings.HasPrefix(pgErr.Code, "53"), pgErr.Code == "57P01":
		return fmt.Errorf("%w: %s: %s", domain.ErrStorageUnavailable, op, pgErr.Message)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
