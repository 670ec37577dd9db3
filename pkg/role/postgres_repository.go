package role

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tendant/simple-crm/pkg/repository"
)

const roleColumns = `id, name, description, permissions, created_at, updated_at`

// PostgresRepository implements Repository using PostgreSQL
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL role repository
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{
		pool: pool,
	}
}

// FindByID retrieves a role by its ID
func (r *PostgresRepository) FindByID(ctx context.Context, id uuid.UUID) (Role, error) {
	query := `SELECT ` + roleColumns + ` FROM roles WHERE id = $1`
	role, err := scanRole(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		return Role{}, repository.Translate(err)
	}
	return role, nil
}

// FindByName retrieves a role by its exact name
func (r *PostgresRepository) FindByName(ctx context.Context, name string) (Role, error) {
	query := `SELECT ` + roleColumns + ` FROM roles WHERE name = $1`
	role, err := scanRole(r.pool.QueryRow(ctx, query, name))
	if err != nil {
		return Role{}, repository.Translate(err)
	}
	return role, nil
}

// Create inserts a new role
func (r *PostgresRepository) Create(ctx context.Context, role Role) (Role, error) {
	if role.ID == uuid.Nil {
		role.ID = uuid.New()
	}
	query := `
		INSERT INTO roles (id, name, description, permissions)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + roleColumns

	created, err := scanRole(r.pool.QueryRow(ctx, query,
		role.ID, role.Name, role.Description, permissionStrings(role.Permissions)))
	if err != nil {
		return Role{}, repository.Translate(err)
	}
	return created, nil
}

// Update replaces the mutable fields of a role
func (r *PostgresRepository) Update(ctx context.Context, role Role) (Role, error) {
	query := `
		UPDATE roles
		SET name = $2, description = $3, permissions = $4, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + roleColumns

	updated, err := scanRole(r.pool.QueryRow(ctx, query,
		role.ID, role.Name, role.Description, permissionStrings(role.Permissions)))
	if err != nil {
		return Role{}, repository.Translate(err)
	}
	return updated, nil
}

// Delete removes a role. A role still assigned to users yields repository.ErrReferenced.
func (r *PostgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM roles WHERE id = $1`, id)
	if err != nil {
		return repository.Translate(err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// List returns one page of roles ordered by name, and the total number of matches
func (r *PostgresRepository) List(ctx context.Context, filter Filter, page repository.Page) ([]Role, int, error) {
	var (
		where []string
		args  []interface{}
	)
	if filter.Name != "" {
		args = append(args, "%"+filter.Name+"%")
		where = append(where, fmt.Sprintf("name ILIKE $%d", len(args)))
	}
	clause := ""
	if len(where) > 0 {
		clause = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM roles`+clause, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count roles: %w", err)
	}

	args = append(args, page.Limit, page.Offset())
	query := fmt.Sprintf(`SELECT %s FROM roles%s ORDER BY name LIMIT $%d OFFSET $%d`,
		roleColumns, clause, len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list roles: %w", err)
	}
	defer rows.Close()

	roles := []Role{}
	for rows.Next() {
		role, err := scanRole(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan role: %w", err)
		}
		roles = append(roles, role)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to list roles: %w", err)
	}
	return roles, total, nil
}

func scanRole(row pgx.Row) (Role, error) {
	var (
		role  Role
		perms []string
	)
	err := row.Scan(&role.ID, &role.Name, &role.Description, &perms, &role.CreatedAt, &role.UpdatedAt)
	if err != nil {
		return Role{}, err
	}
	role.Permissions = make([]Permission, len(perms))
	for i, p := range perms {
		role.Permissions[i] = Permission(p)
	}
	return role, nil
}

func permissionStrings(perms []Permission) []string {
	out := make([]string, len(perms))
	for i, p := range perms {
		out[i] = string(p)
	}
	return out
}
