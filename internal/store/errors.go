package store

import (
	"errors"

	"github.com/lib/pq"
)

var (
	// ErrNotFound is returned when a record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicate is returned on unique constraint violations.
	ErrDuplicate = errors.New("duplicate key")

	// ErrForeignKey is returned when a referenced row does not exist.
	ErrForeignKey = errors.New("foreign key violation")

	// ErrCheckViolation is returned when a CHECK constraint rejects a value.
	ErrCheckViolation = errors.New("check constraint violation")
)

// Postgres error codes, see https://www.postgresql.org/docs/current/errcodes-appendix.html
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
)

// mapConstraintError translates pq constraint violations into package
// sentinels so callers can use errors.Is without importing the driver.
func mapConstraintError(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return err
	}
	switch string(pqErr.Code) {
	case pgUniqueViolation:
		return ErrDuplicate
	case pgForeignKeyViolation:
		return ErrForeignKey
	case pgCheckViolation:
		return ErrCheckViolation
	default:
		return err
	}
}
