// AngelaMos | 2026
// postgres.go

package core

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pgUniqueViolation   = "23505"
	pgCheckViolation    = "23514"
	pgNumericOutOfRange = "22003"
)

func IsDuplicateKeyError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	return false
}

// IsConstraintViolation reports whether a write was rejected by a CHECK
// constraint or a numeric column's precision.
func IsConstraintViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgCheckViolation || pgErr.Code == pgNumericOutOfRange
	}
	return false
}

// EscapeLike quotes LIKE metacharacters so user input matches literally.
func EscapeLike(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "%", "\\%")
	s = strings.ReplaceAll(s, "_", "\\_")
	return s
}

// ContainsPattern wraps s for a case-insensitive substring ILIKE match.
func ContainsPattern(s string) string {
	return "%" + EscapeLike(s) + "%"
}
