// Package repository holds what the per-entity stores share: sentinels, pagination and
// postgres error translation.
package repository

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrNotFound is returned when a lookup by key matched nothing.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a write would break a uniqueness constraint.
	ErrDuplicate = errors.New("record violates a unique constraint")
	// ErrReferenced is returned when a delete is blocked by rows that reference the record.
	ErrReferenced = errors.New("record is still referenced")
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// Translate maps pgx and postgres errors onto the package sentinels.
// Other errors are returned unchanged.
func Translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return &ConstraintError{Constraint: pgErr.ConstraintName, Err: ErrDuplicate}
		case pgForeignKeyViolation:
			return &ConstraintError{Constraint: pgErr.ConstraintName, Err: ErrReferenced}
		}
	}
	return err
}

// ConstraintError names the constraint behind ErrDuplicate or ErrReferenced.
type ConstraintError struct {
	Constraint string
	Err        error
}

func (e *ConstraintError) Error() string {
	return e.Err.Error() + ": " + e.Constraint
}

func (e *ConstraintError) Unwrap() error {
	return e.Err
}

// ConstraintField reports the column a duplicate error is about, when it can tell.
// Constraint names follow the <table>_<column>_key convention.
func ConstraintField(err error) string {
	var ce *ConstraintError
	if !errors.As(err, &ce) {
		return ""
	}
	name := strings.TrimSuffix(ce.Constraint, "_key")
	if i := strings.Index(name, "_"); i >= 0 {
		return name[i+1:]
	}
	return name
}

// Duplicate builds an ErrDuplicate for field, as the in-memory stores report it.
func Duplicate(table, field string) error {
	return &ConstraintError{Constraint: table + "_" + field + "_key", Err: ErrDuplicate}
}

// ContainsFold reports whether substr is within s, ignoring case. An empty substr matches.
func ContainsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
