package client

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tendant/simple-crm/pkg/repository"
)

const clientColumns = `id, name, email, birth_date, phone, notes, created_at, updated_at`

// PostgresRepository implements Repository using PostgreSQL
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL client repository
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{
		pool: pool,
	}
}

func (r *PostgresRepository) FindByID(ctx context.Context, id uuid.UUID) (Client, error) {
	c, err := scanClient(r.pool.QueryRow(ctx, `SELECT `+clientColumns+` FROM clients WHERE id = $1`, id))
	if err != nil {
		return Client{}, repository.Translate(err)
	}
	return c, nil
}

func (r *PostgresRepository) FindByName(ctx context.Context, name string) (Client, error) {
	c, err := scanClient(r.pool.QueryRow(ctx, `SELECT `+clientColumns+` FROM clients WHERE name = $1`, name))
	if err != nil {
		return Client{}, repository.Translate(err)
	}
	return c, nil
}

func (r *PostgresRepository) Create(ctx context.Context, c Client) (Client, error) {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	birthDate, err := parseDate(c.BirthDate)
	if err != nil {
		return Client{}, err
	}
	query := `
		INSERT INTO clients (id, name, email, birth_date, phone, notes)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + clientColumns

	created, err := scanClient(r.pool.QueryRow(ctx, query, c.ID, c.Name, c.Email, birthDate, c.Phone, c.Notes))
	if err != nil {
		return Client{}, repository.Translate(err)
	}
	return created, nil
}

func (r *PostgresRepository) Update(ctx context.Context, c Client) (Client, error) {
	birthDate, err := parseDate(c.BirthDate)
	if err != nil {
		return Client{}, err
	}
	query := `
		UPDATE clients
		SET name = $2, email = $3, birth_date = $4, phone = $5, notes = $6, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + clientColumns

	updated, err := scanClient(r.pool.QueryRow(ctx, query, c.ID, c.Name, c.Email, birthDate, c.Phone, c.Notes))
	if err != nil {
		return Client{}, repository.Translate(err)
	}
	return updated, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM clients WHERE id = $1`, id)
	if err != nil {
		return repository.Translate(err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// List returns one page of clients ordered by name, and the total number of matches
func (r *PostgresRepository) List(ctx context.Context, filter Filter, page repository.Page) ([]Client, int, error) {
	var (
		where []string
		args  []interface{}
	)
	for _, f := range []struct{ column, value string }{
		{"name", filter.Name},
		{"email", filter.Email},
		{"phone", filter.Phone},
	} {
		if f.value != "" {
			args = append(args, "%"+f.value+"%")
			where = append(where, fmt.Sprintf("%s ILIKE $%d", f.column, len(args)))
		}
	}
	clause := ""
	if len(where) > 0 {
		clause = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM clients`+clause, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count clients: %w", err)
	}

	args = append(args, page.Limit, page.Offset())
	query := fmt.Sprintf(`SELECT %s FROM clients%s ORDER BY name LIMIT $%d OFFSET $%d`,
		clientColumns, clause, len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list clients: %w", err)
	}
	defer rows.Close()

	clients := []Client{}
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan client: %w", err)
		}
		clients = append(clients, c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to list clients: %w", err)
	}
	return clients, total, nil
}

func scanClient(row pgx.Row) (Client, error) {
	var (
		c         Client
		birthDate *time.Time
	)
	err := row.Scan(&c.ID, &c.Name, &c.Email, &birthDate, &c.Phone, &c.Notes, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return Client{}, err
	}
	if birthDate != nil {
		s := birthDate.Format(DateLayout)
		c.BirthDate = &s
	}
	return c, nil
}

func parseDate(s *string) (*time.Time, error) {
	if s == nil {
		return nil, nil
	}
	t, err := time.Parse(DateLayout, *s)
	if err != nil {
		return nil, fmt.Errorf("invalid birth date %q: %w", *s, err)
	}
	return &t, nil
}
