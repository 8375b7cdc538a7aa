package resource

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	Create(ctx context.Context, res *Resource) error
	GetByID(ctx context.Context, id string) (*Resource, error)
	GetByName(ctx context.Context, name string) (*Resource, error)
	List(ctx context.Context, filter Filter) ([]*Resource, int, error)
	Update(ctx context.Context, res *Resource) error
	Delete(ctx context.Context, id string) error
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

func (r *pgxRepository) Create(ctx context.Context, res *Resource) error {
	specs, err := json.Marshal(res.Specs)
	if err != nil {
		return fmt.Errorf("marshal resource specs failed: %w", err)
	}

	const query = `
		INSERT INTO public.resources (name, category, quantity, status, location_id, description, specifications)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`
	err = r.pool.QueryRow(ctx, query,
		res.Name, res.Category, res.Quantity, res.Status, res.LocationID, res.Description, specs,
	).Scan(&res.ID, &res.CreatedAt, &res.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create resource failed: %w", err)
	}
	return nil
}

const resourceSelect = `
	SELECT r.id, r.name, r.category, r.quantity, r.status, r.location_id,
	       COALESCE(l.name, ''), r.description, r.specifications, r.photo_file_id,
	       r.created_at, r.updated_at
	FROM public.resources r
	LEFT JOIN public.locations l ON r.location_id = l.id
`

func scanResource(row pgx.Row, res *Resource) error {
	var specs []byte
	if err := row.Scan(
		&res.ID, &res.Name, &res.Category, &res.Quantity, &res.Status, &res.LocationID,
		&res.LocationName, &res.Description, &specs, &res.PhotoFileID,
		&res.CreatedAt, &res.UpdatedAt,
	); err != nil {
		return err
	}
	if len(specs) > 0 {
		if err := json.Unmarshal(specs, &res.Specs); err != nil {
			return fmt.Errorf("unmarshal resource specs failed: %w", err)
		}
	}
	return nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Resource, error) {
	row := r.pool.QueryRow(ctx, resourceSelect+` WHERE r.id = $1`, id)

	var res Resource
	if err := scanResource(row, &res); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get resource failed: %w", err)
	}
	return &res, nil
}

// GetByName resolves a resource by its exact name (case-insensitive).
// Used by the assistant to map spoken names onto resource ids.
func (r *pgxRepository) GetByName(ctx context.Context, name string) (*Resource, error) {
	row := r.pool.QueryRow(ctx, resourceSelect+` WHERE lower(r.name) = lower($1)`, name)

	var res Resource
	if err := scanResource(row, &res); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get resource by name failed: %w", err)
	}
	return &res, nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Resource, int, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select(
		"r.id", "r.name", "r.category", "r.quantity", "r.status", "r.location_id",
		"COALESCE(l.name, '')", "r.description", "r.specifications", "r.photo_file_id",
		"r.created_at", "r.updated_at",
		"count(*) OVER() as total_count",
	).
		From("public.resources r").
		LeftJoin("public.locations l ON r.location_id = l.id")

	if filter.Category != "" {
		query = query.Where(squirrel.Eq{"r.category": filter.Category})
	}
	if filter.Status != "" {
		query = query.Where(squirrel.Eq{"r.status": filter.Status})
	}
	if filter.LocationID != "" {
		query = query.Where(squirrel.Eq{"r.location_id": filter.LocationID})
	}
	if filter.Keyword != "" {
		like := "%" + filter.Keyword + "%"
		query = query.Where(squirrel.Or{
			squirrel.ILike{"r.name": like},
			squirrel.ILike{"r.description": like},
		})
	}

	// Sorting
	orderBy := "r.created_at"
	if filter.SortBy != "" {
		orderBy = "r." + filter.SortBy
	}
	orderDir := "DESC"
	if filter.SortOrder != "" {
		orderDir = filter.SortOrder
	}
	query = query.OrderBy(orderBy + " " + orderDir)

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
		return nil, 0, fmt.Errorf("build list resources query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list resources failed: %w", err)
	}
	defer rows.Close()

	var result []*Resource
	var total int

	for rows.Next() {
		var res Resource
		var specs []byte
		if err := rows.Scan(
			&res.ID, &res.Name, &res.Category, &res.Quantity, &res.Status, &res.LocationID,
			&res.LocationName, &res.Description, &specs, &res.PhotoFileID,
			&res.CreatedAt, &res.UpdatedAt, &total,
		); err != nil {
			return nil, 0, fmt.Errorf("scan resource failed: %w", err)
		}
		if len(specs) > 0 {
			if err := json.Unmarshal(specs, &res.Specs); err != nil {
				return nil, 0, fmt.Errorf("unmarshal resource specs failed: %w", err)
			}
		}
		result = append(result, &res)
	}

	return result, total, nil
}

func (r *pgxRepository) Update(ctx context.Context, res *Resource) error {
	specs, err := json.Marshal(res.Specs)
	if err != nil {
		return fmt.Errorf("marshal resource specs failed: %w", err)
	}

	const query = `
		UPDATE public.resources
		SET name = $1, quantity = $2, status = $3, location_id = $4,
		    description = $5, specifications = $6, photo_file_id = $7, updated_at = now()
		WHERE id = $8
	`
	ct, err := r.pool.Exec(ctx, query,
		res.Name, res.Quantity, res.Status, res.LocationID,
		res.Description, specs, res.PhotoFileID, res.ID,
	)
	if err != nil {
		return fmt.Errorf("update resource failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM public.resources WHERE id = $1`
	ct, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete resource failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
