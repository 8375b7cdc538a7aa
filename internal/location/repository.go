package location

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	Create(ctx context.Context, loc *Location) error
	GetByID(ctx context.Context, id string) (*Location, error)
	List(ctx context.Context, filter Filter) ([]*Location, int, error)
	Update(ctx context.Context, loc *Location) error
	Delete(ctx context.Context, id string) error
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

func (r *pgxRepository) Create(ctx context.Context, loc *Location) error {
	const query = `
		INSERT INTO public.locations (name, campus, address, description)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`
	err := r.pool.QueryRow(ctx, query, loc.Name, loc.Campus, loc.Address, loc.Description).
		Scan(&loc.ID, &loc.CreatedAt)
	if err != nil {
		return fmt.Errorf("create location failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Location, error) {
	const query = `
		SELECT id, name, campus, address, description, created_at
		FROM public.locations
		WHERE id = $1
	`
	row := r.pool.QueryRow(ctx, query, id)

	var loc Location
	if err := row.Scan(&loc.ID, &loc.Name, &loc.Campus, &loc.Address, &loc.Description, &loc.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get location failed: %w", err)
	}
	return &loc, nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Location, int, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select(
		"id", "name", "campus", "address", "description", "created_at",
		"count(*) OVER() as total_count",
	).From("public.locations")

	if filter.Campus != "" {
		query = query.Where(squirrel.Eq{"campus": filter.Campus})
	}
	if filter.Keyword != "" {
		like := "%" + filter.Keyword + "%"
		query = query.Where(squirrel.Or{
			squirrel.ILike{"name": like},
			squirrel.ILike{"address": like},
		})
	}

	query = query.OrderBy("name ASC")

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
		return nil, 0, fmt.Errorf("build list locations query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list locations failed: %w", err)
	}
	defer rows.Close()

	var result []*Location
	var total int

	for rows.Next() {
		var loc Location
		if err := rows.Scan(
			&loc.ID, &loc.Name, &loc.Campus, &loc.Address, &loc.Description, &loc.CreatedAt, &total,
		); err != nil {
			return nil, 0, fmt.Errorf("scan location failed: %w", err)
		}
		result = append(result, &loc)
	}

	return result, total, nil
}

func (r *pgxRepository) Update(ctx context.Context, loc *Location) error {
	const query = `
		UPDATE public.locations
		SET name = $1, campus = $2, address = $3, description = $4
		WHERE id = $5
	`
	ct, err := r.pool.Exec(ctx, query, loc.Name, loc.Campus, loc.Address, loc.Description, loc.ID)
	if err != nil {
		return fmt.Errorf("update location failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM public.locations WHERE id = $1`
	ct, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete location failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
