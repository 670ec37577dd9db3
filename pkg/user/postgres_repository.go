package user

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tendant/simple-crm/pkg/repository"
)

const userColumns = `id, name, username, email, password_hash, active, role_id, created_at, updated_at`

// PostgresRepository implements Repository using PostgreSQL
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL user repository
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{
		pool: pool,
	}
}

func (r *PostgresRepository) FindByID(ctx context.Context, id uuid.UUID) (User, error) {
	return r.findOne(ctx, `id = $1`, id)
}

func (r *PostgresRepository) FindByUsername(ctx context.Context, username string) (User, error) {
	return r.findOne(ctx, `username = $1`, username)
}

func (r *PostgresRepository) FindByEmail(ctx context.Context, email string) (User, error) {
	return r.findOne(ctx, `email = $1`, email)
}

func (r *PostgresRepository) findOne(ctx context.Context, where string, arg interface{}) (User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE `+where, arg))
	if err != nil {
		return User{}, repository.Translate(err)
	}
	return u, nil
}

// Create inserts a new user. An unknown role yields repository.ErrReferenced.
func (r *PostgresRepository) Create(ctx context.Context, u User) (User, error) {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	query := `
		INSERT INTO users (id, name, username, email, password_hash, active, role_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + userColumns

	created, err := scanUser(r.pool.QueryRow(ctx, query,
		u.ID, u.Name, u.Username, u.Email, u.PasswordHash, u.Active, u.RoleID))
	if err != nil {
		return User{}, repository.Translate(err)
	}
	return created, nil
}

func (r *PostgresRepository) Update(ctx context.Context, u User) (User, error) {
	query := `
		UPDATE users
		SET name = $2, username = $3, email = $4, password_hash = $5, active = $6, role_id = $7,
		    updated_at = NOW()
		WHERE id = $1
		RETURNING ` + userColumns

	updated, err := scanUser(r.pool.QueryRow(ctx, query,
		u.ID, u.Name, u.Username, u.Email, u.PasswordHash, u.Active, u.RoleID))
	if err != nil {
		return User{}, repository.Translate(err)
	}
	return updated, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return repository.Translate(err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// List returns one page of users ordered by username, and the total number of matches
func (r *PostgresRepository) List(ctx context.Context, filter Filter, page repository.Page) ([]User, int, error) {
	var (
		where []string
		args  []interface{}
	)
	for column, value := range map[string]string{
		"name":     filter.Name,
		"username": filter.Username,
		"email":    filter.Email,
	} {
		if value != "" {
			args = append(args, "%"+value+"%")
			where = append(where, fmt.Sprintf("%s ILIKE $%d", column, len(args)))
		}
	}
	if filter.RoleID != nil {
		args = append(args, *filter.RoleID)
		where = append(where, fmt.Sprintf("role_id = $%d", len(args)))
	}
	if filter.Active != nil {
		args = append(args, *filter.Active)
		where = append(where, fmt.Sprintf("active = $%d", len(args)))
	}
	clause := ""
	if len(where) > 0 {
		clause = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users`+clause, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	args = append(args, page.Limit, page.Offset())
	query := fmt.Sprintf(`SELECT %s FROM users%s ORDER BY username LIMIT $%d OFFSET $%d`,
		userColumns, clause, len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	users := []User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}
	return users, total, nil
}

func (r *PostgresRepository) CountByRole(ctx context.Context, roleID uuid.UUID) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users WHERE role_id = $1`, roleID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count users by role: %w", err)
	}
	return n, nil
}

func scanUser(row pgx.Row) (User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Name, &u.Username, &u.Email, &u.PasswordHash, &u.Active, &u.RoleID,
		&u.CreatedAt, &u.UpdatedAt)
	return u, err
}
