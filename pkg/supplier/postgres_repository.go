package supplier

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tendant/simple-crm/pkg/repository"
)

const supplierColumns = `id, name, phone, notes, created_at, updated_at`

// PostgresRepository implements Repository using PostgreSQL
type PostgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

func (r *PostgresRepository) FindByID(ctx context.Context, id uuid.UUID) (Supplier, error) {
	s, err := scanSupplier(r.pool.QueryRow(ctx, `SELECT `+supplierColumns+` FROM suppliers WHERE id = $1`, id))
	return s, repository.Translate(err)
}

func (r *PostgresRepository) FindByName(ctx context.Context, name string) (Supplier, error) {
	s, err := scanSupplier(r.pool.QueryRow(ctx, `SELECT `+supplierColumns+` FROM suppliers WHERE name = $1`, name))
	return s, repository.Translate(err)
}

func (r *PostgresRepository) Create(ctx context.Context, s Supplier) (Supplier, error) {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	query := `
		INSERT INTO suppliers (id, name, phone, notes)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + supplierColumns

	created, err := scanSupplier(r.pool.QueryRow(ctx, query, s.ID, s.Name, s.Phone, s.Notes))
	return created, repository.Translate(err)
}

func (r *PostgresRepository) Update(ctx context.Context, s Supplier) (Supplier, error) {
	query := `
		UPDATE suppliers
		SET name = $2, phone = $3, notes = $4, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + supplierColumns

	updated, err := scanSupplier(r.pool.QueryRow(ctx, query, s.ID, s.Name, s.Phone, s.Notes))
	return updated, repository.Translate(err)
}

func (r *PostgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM suppliers WHERE id = $1`, id)
	if err != nil {
		return repository.Translate(err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) List(ctx context.Context, filter Filter, page repository.Page) ([]Supplier, int, error) {
	var (
		where []string
		args  []interface{}
	)
	if filter.Name != "" {
		args = append(args, "%"+filter.Name+"%")
		where = append(where, fmt.Sprintf("name ILIKE $%d", len(args)))
	}
	if filter.Phone != "" {
		args = append(args, "%"+filter.Phone+"%")
		where = append(where, fmt.Sprintf("phone ILIKE $%d", len(args)))
	}
	clause := ""
	if len(where) > 0 {
		clause = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM suppliers`+clause, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count suppliers: %w", err)
	}

	args = append(args, page.Limit, page.Offset())
	query := fmt.Sprintf(`SELECT %s FROM suppliers%s ORDER BY name LIMIT $%d OFFSET $%d`,
		supplierColumns, clause, len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list suppliers: %w", err)
	}
	suppliers, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Supplier, error) {
		return scanSupplier(row)
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list suppliers: %w", err)
	}
	if suppliers == nil {
		suppliers = []Supplier{}
	}
	return suppliers, total, nil
}

func scanSupplier(row pgx.Row) (Supplier, error) {
	var s Supplier
	err := row.Scan(&s.ID, &s.Name, &s.Phone, &s.Notes, &s.CreatedAt, &s.UpdatedAt)
	return s, err
}
