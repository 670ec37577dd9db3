package repository

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestTranslate(t *testing.T) {
	assert.Nil(t, Translate(nil))
	assert.ErrorIs(t, Translate(pgx.ErrNoRows), ErrNotFound)
	assert.ErrorIs(t, Translate(fmt.Errorf("scan: %w", pgx.ErrNoRows)), ErrNotFound)

	dup := Translate(&pgconn.PgError{Code: "23505", ConstraintName: "clients_name_key"})
	assert.ErrorIs(t, dup, ErrDuplicate)
	assert.Equal(t, "name", ConstraintField(dup))

	ref := Translate(&pgconn.PgError{Code: "23503", ConstraintName: "users_role_id_fkey"})
	assert.ErrorIs(t, ref, ErrReferenced)

	other := errors.New("connection reset")
	assert.Same(t, other, Translate(other))
}

func TestDuplicateMatchesPostgresShape(t *testing.T) {
	err := Duplicate("users", "email")
	assert.ErrorIs(t, err, ErrDuplicate)
	assert.Equal(t, "email", ConstraintField(err))
	assert.Equal(t, "", ConstraintField(errors.New("plain")))
}

func TestNewPaginated(t *testing.T) {
	p := NewPaginated([]int{1, 2, 3}, NewPage(2, 3), 7)
	assert.Equal(t, Pagination{Page: 2, Limit: 3, Total: 7, TotalPages: 3}, p.Pagination)

	empty := NewPaginated[int](nil, NewPage(0, 0), 0)
	assert.NotNil(t, empty.Data)
	assert.Equal(t, 1, empty.Pagination.Page)
	assert.Equal(t, 10, empty.Pagination.Limit)
	assert.Equal(t, 0, empty.Pagination.TotalPages)
}

func TestPageWindow(t *testing.T) {
	start, end := NewPage(2, 10).Window(15)
	assert.Equal(t, 10, start)
	assert.Equal(t, 15, end)

	start, end = NewPage(5, 10).Window(15)
	assert.Equal(t, 15, start)
	assert.Equal(t, 15, end)
}

func TestPageOffsetSaturates(t *testing.T) {
	assert.Equal(t, 0, NewPage(1, 10).Offset())
	assert.Equal(t, 20, NewPage(3, 10).Offset())
	assert.Equal(t, math.MaxInt, NewPage(math.MaxInt, 100).Offset())
	assert.Equal(t, math.MaxInt, NewPage(1e17, 100).Offset())

	start, end := NewPage(1e17, 100).Window(5)
	assert.Equal(t, 5, start)
	assert.Equal(t, 5, end)

	start, end = Page{Page: 2, Limit: math.MaxInt}.Window(5)
	assert.Equal(t, 5, start)
	assert.Equal(t, 5, end)
}

func TestMap(t *testing.T) {
	p := Map(NewPaginated([]int{1, 2}, NewPage(1, 10), 2), func(v int) string { return fmt.Sprint(v * 10) })
	assert.Equal(t, []string{"10", "20"}, p.Data)
	assert.Equal(t, 2, p.Pagination.Total)
}

func TestContainsFold(t *testing.T) {
	assert.True(t, ContainsFold("Acme Corp", "acme"))
	assert.True(t, ContainsFold("Acme", ""))
	assert.False(t, ContainsFold("Acme", "globex"))
}
