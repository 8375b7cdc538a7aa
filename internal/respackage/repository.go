package respackage

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	Create(ctx context.Context, pkg *Package) error
	GetByID(ctx context.Context, id string) (*Package, error)
	GetByName(ctx context.Context, name string) (*Package, error)
	List(ctx context.Context, filter Filter) ([]*Package, int, error)
	Delete(ctx context.Context, id string) error

	// GetMembers returns the member resources of a package with their names,
	// in insertion order. An empty slice means the package has no members or
	// does not exist; callers treat both as PackageNotFound.
	GetMembers(ctx context.Context, packageID string) ([]Member, error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

func (r *pgxRepository) Create(ctx context.Context, pkg *Package) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction failed: %w", err)
	}
	defer tx.Rollback(ctx)

	const insertPkg = `
		INSERT INTO public.resource_packages (name, subject, created_by)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`
	if err := tx.QueryRow(ctx, insertPkg, pkg.Name, pkg.Subject, pkg.CreatedBy).
		Scan(&pkg.ID, &pkg.CreatedAt); err != nil {
		return fmt.Errorf("create package failed: %w", err)
	}

	const insertMember = `
		INSERT INTO public.package_resources (package_id, resource_id, quantity_needed, position)
		VALUES ($1, $2, $3, $4)
	`
	for i, m := range pkg.Members {
		if _, err := tx.Exec(ctx, insertMember, pkg.ID, m.ResourceID, m.QuantityNeeded, i); err != nil {
			return fmt.Errorf("create package member failed: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit package failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) getBy(ctx context.Context, field, value string) (*Package, error) {
	query := fmt.Sprintf(`
		SELECT id, name, subject, created_by, created_at
		FROM public.resource_packages
		WHERE %s = $1
	`, field)

	var pkg Package
	if err := r.pool.QueryRow(ctx, query, value).
		Scan(&pkg.ID, &pkg.Name, &pkg.Subject, &pkg.CreatedBy, &pkg.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get package failed: %w", err)
	}

	members, err := r.GetMembers(ctx, pkg.ID)
	if err != nil {
		return nil, err
	}
	pkg.Members = members
	return &pkg, nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Package, error) {
	return r.getBy(ctx, "id", id)
}

// GetByName resolves a package by its exact name (case-insensitive).
// Used by the assistant to map spoken names onto package ids.
func (r *pgxRepository) GetByName(ctx context.Context, name string) (*Package, error) {
	return r.getBy(ctx, "lower(name)", name)
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Package, int, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select(
		"id", "name", "subject", "created_by", "created_at",
		"count(*) OVER() as total_count",
	).From("public.resource_packages")

	if filter.Subject != "" {
		query = query.Where(squirrel.Eq{"subject": filter.Subject})
	}
	if filter.CreatedBy != "" {
		query = query.Where(squirrel.Eq{"created_by": filter.CreatedBy})
	}
	if filter.Keyword != "" {
		query = query.Where(squirrel.ILike{"name": "%" + filter.Keyword + "%"})
	}

	query = query.OrderBy("created_at DESC")

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
		return nil, 0, fmt.Errorf("build list packages query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list packages failed: %w", err)
	}
	defer rows.Close()

	var packages []*Package
	var total int

	for rows.Next() {
		var pkg Package
		if err := rows.Scan(&pkg.ID, &pkg.Name, &pkg.Subject, &pkg.CreatedBy, &pkg.CreatedAt, &total); err != nil {
			return nil, 0, fmt.Errorf("scan package failed: %w", err)
		}
		packages = append(packages, &pkg)
	}

	return packages, total, nil
}

func (r *pgxRepository) Delete(ctx context.Context, id string) error {
	// Members are removed by ON DELETE CASCADE.
	const query = `DELETE FROM public.resource_packages WHERE id = $1`
	ct, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete package failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) GetMembers(ctx context.Context, packageID string) ([]Member, error) {
	const query = `
		SELECT pr.resource_id, r.name, pr.quantity_needed
		FROM public.package_resources pr
		JOIN public.resources r ON pr.resource_id = r.id
		WHERE pr.package_id = $1
		ORDER BY pr.position
	`
	rows, err := r.pool.Query(ctx, query, packageID)
	if err != nil {
		return nil, fmt.Errorf("get package members failed: %w", err)
	}
	defer rows.Close()

	var members []Member
	for rows.Next() {
		var m Member
		if err := rows.Scan(&m.ResourceID, &m.ResourceName, &m.QuantityNeeded); err != nil {
			return nil, fmt.Errorf("scan package member failed: %w", err)
		}
		members = append(members, m)
	}
	return members, nil
}
