package maintenance

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	Create(ctx context.Context, t *Task) error
	GetByID(ctx context.Context, id string) (*Task, error)
	List(ctx context.Context, filter Filter) ([]*Task, int, error)
	Update(ctx context.Context, t *Task) error
	Delete(ctx context.Context, id string) error
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

func (r *pgxRepository) Create(ctx context.Context, t *Task) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.maintenance_tasks").
		Columns("resource_id", "title", "description", "status", "reported_by").
		Values(t.ResourceID, t.Title, t.Description, t.Status, t.ReportedBy).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create maintenance task query failed: %w", err)
	}

	return r.pool.QueryRow(ctx, query, args...).
		Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Task, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(
		"t.id", "t.resource_id", "r.name", "t.title", "t.description",
		"t.status", "t.reported_by", "t.created_at", "t.updated_at").
		From("public.maintenance_tasks t").
		Join("public.resources r ON r.id = t.resource_id").
		Where(squirrel.Eq{"t.id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get maintenance task query failed: %w", err)
	}

	row := r.pool.QueryRow(ctx, query, args...)

	var t Task
	if err := row.Scan(
		&t.ID, &t.ResourceID, &t.ResourceName, &t.Title, &t.Description,
		&t.Status, &t.ReportedBy, &t.CreatedAt, &t.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get maintenance task failed: %w", err)
	}
	return &t, nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Task, int, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select(
		"t.id", "t.resource_id", "r.name", "t.title", "t.description",
		"t.status", "t.reported_by", "t.created_at", "t.updated_at",
		"count(*) OVER() as total_count").
		From("public.maintenance_tasks t").
		Join("public.resources r ON r.id = t.resource_id")

	if filter.ResourceID != "" {
		query = query.Where(squirrel.Eq{"t.resource_id": filter.ResourceID})
	}
	if filter.Status != "" {
		query = query.Where(squirrel.Eq{"t.status": filter.Status})
	}

	query = query.OrderBy("t.created_at DESC")

	// Pagination
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}
	offset := (filter.Page - 1) * filter.PageSize

	query = query.Limit(uint64(filter.PageSize)).Offset(uint64(offset))

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list maintenance tasks query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list maintenance tasks failed: %w", err)
	}
	defer rows.Close()

	var result []*Task
	var total int

	for rows.Next() {
		var t Task
		if err := rows.Scan(
			&t.ID, &t.ResourceID, &t.ResourceName, &t.Title, &t.Description,
			&t.Status, &t.ReportedBy, &t.CreatedAt, &t.UpdatedAt, &total,
		); err != nil {
			return nil, 0, fmt.Errorf("scan maintenance task failed: %w", err)
		}
		result = append(result, &t)
	}

	return result, total, nil
}

func (r *pgxRepository) Update(ctx context.Context, t *Task) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("public.maintenance_tasks").
		Set("title", t.Title).
		Set("description", t.Description).
		Set("status", t.Status).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": t.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update maintenance task query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update maintenance task failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) Delete(ctx context.Context, id string) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Delete("public.maintenance_tasks").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete maintenance task query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete maintenance task failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
