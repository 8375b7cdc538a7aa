package reservation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	GetByID(ctx context.Context, id string) (*Reservation, error)
	List(ctx context.Context, filter Filter) ([]*Reservation, int, error)

	// CountOverlapping counts active (pending or approved) reservations of the
	// resource whose window intersects [start, end). excludeID is skipped when
	// non-empty, used while re-checking an edit.
	CountOverlapping(ctx context.Context, resourceID string, start, end time.Time, excludeID string) (int, error)

	// CountActiveByUser counts the user's active reservations that have not
	// ended yet, for the per-user limit.
	CountActiveByUser(ctx context.Context, userID string, asOf time.Time) (int, error)

	// CreateGuarded inserts the reservation only if the overlap count is below
	// capacity, holding a per-resource lock across count and insert. It always
	// returns the overlap count it observed; on a full window the count comes
	// with ErrNoCapacity and nothing is written.
	CreateGuarded(ctx context.Context, resv *Reservation, capacity int) (int, error)

	UpdateStatus(ctx context.Context, id string, status Status) error
	Delete(ctx context.Context, id string) error
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

// querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// countOverlapping runs the half-open interval overlap count:
// existing.start < end AND existing.end > start. Touching windows do not
// overlap, so back-to-back bookings are legal.
func countOverlapping(ctx context.Context, q querier, resourceID string, start, end time.Time, excludeID string) (int, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select("count(*)").
		From("public.reservations").
		Where(squirrel.Eq{"resource_id": resourceID}).
		Where(squirrel.Eq{"status": []Status{StatusPending, StatusApproved}}).
		Where(squirrel.Lt{"start_date": end}).
		Where(squirrel.Gt{"end_date": start})

	if excludeID != "" {
		query = query.Where(squirrel.NotEq{"id": excludeID})
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build overlap count query failed: %w", err)
	}

	var count int
	if err := q.QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("overlap count failed: %w", err)
	}
	return count, nil
}

func (r *pgxRepository) CountOverlapping(ctx context.Context, resourceID string, start, end time.Time, excludeID string) (int, error) {
	return countOverlapping(ctx, r.pool, resourceID, start, end, excludeID)
}

func (r *pgxRepository) CountActiveByUser(ctx context.Context, userID string, asOf time.Time) (int, error) {
	const query = `
		SELECT count(*)
		FROM public.reservations
		WHERE user_id = $1
		  AND status IN ('pending', 'approved')
		  AND end_date > $2
	`
	var count int
	if err := r.pool.QueryRow(ctx, query, userID, asOf).Scan(&count); err != nil {
		return 0, fmt.Errorf("active-by-user count failed: %w", err)
	}
	return count, nil
}

func (r *pgxRepository) CreateGuarded(ctx context.Context, resv *Reservation, capacity int) (int, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin transaction failed: %w", err)
	}
	defer tx.Rollback(ctx)

	// Serialize bookings per resource: the advisory lock is released at commit
	// or rollback, so the overlap count below cannot go stale before the insert.
	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1::text))`, resv.ResourceID); err != nil {
		return 0, fmt.Errorf("acquire resource lock failed: %w", err)
	}

	count, err := countOverlapping(ctx, tx, resv.ResourceID, resv.StartDate, resv.EndDate, "")
	if err != nil {
		return 0, err
	}
	if count >= capacity {
		return count, ErrNoCapacity
	}

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.reservations").
		Columns("user_id", "resource_id", "start_date", "end_date", "status", "priority",
			"purpose", "description", "attendees", "requirements").
		Values(resv.UserID, resv.ResourceID, resv.StartDate, resv.EndDate, resv.Status, resv.Priority,
			resv.Purpose, resv.Description, resv.Attendees, resv.Requirements).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return count, fmt.Errorf("build create reservation query failed: %w", err)
	}

	if err := tx.QueryRow(ctx, query, args...).Scan(&resv.ID, &resv.CreatedAt, &resv.UpdatedAt); err != nil {
		return count, fmt.Errorf("insert reservation failed: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return count, fmt.Errorf("commit reservation failed: %w", err)
	}
	return count, nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Reservation, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(
		"rv.id", "rv.user_id", "COALESCE(u.display_name, u.email)", "rv.resource_id", "r.name",
		"rv.start_date", "rv.end_date", "rv.status", "rv.priority",
		"rv.purpose", "rv.description", "rv.attendees", "rv.requirements",
		"rv.created_at", "rv.updated_at",
	).
		From("public.reservations rv").
		Join("public.resources r ON rv.resource_id = r.id").
		Join("public.users u ON rv.user_id = u.id").
		Where(squirrel.Eq{"rv.id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get reservation query failed: %w", err)
	}

	row := r.pool.QueryRow(ctx, query, args...)

	var resv Reservation
	if err := row.Scan(
		&resv.ID, &resv.UserID, &resv.UserName, &resv.ResourceID, &resv.ResourceName,
		&resv.StartDate, &resv.EndDate, &resv.Status, &resv.Priority,
		&resv.Purpose, &resv.Description, &resv.Attendees, &resv.Requirements,
		&resv.CreatedAt, &resv.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get reservation failed: %w", err)
	}
	return &resv, nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Reservation, int, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select(
		"rv.id", "rv.user_id", "COALESCE(u.display_name, u.email)", "rv.resource_id", "r.name",
		"rv.start_date", "rv.end_date", "rv.status", "rv.priority",
		"rv.purpose", "rv.description", "rv.attendees", "rv.requirements",
		"rv.created_at", "rv.updated_at",
		"count(*) OVER() as total_count",
	).
		From("public.reservations rv").
		Join("public.resources r ON rv.resource_id = r.id").
		Join("public.users u ON rv.user_id = u.id")

	if filter.UserID != "" {
		query = query.Where(squirrel.Eq{"rv.user_id": filter.UserID})
	}
	if filter.ResourceID != "" {
		query = query.Where(squirrel.Eq{"rv.resource_id": filter.ResourceID})
	}
	if filter.Status != "" {
		query = query.Where(squirrel.Eq{"rv.status": filter.Status})
	}
	// Date range filtering (intersection logic)
	if filter.StartTime != nil {
		query = query.Where(squirrel.GtOrEq{"rv.end_date": filter.StartTime})
	}
	if filter.EndTime != nil {
		query = query.Where(squirrel.LtOrEq{"rv.start_date": filter.EndTime})
	}

	// Sorting
	orderBy := "rv.start_date"
	if filter.SortBy != "" {
		orderBy = "rv." + filter.SortBy
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
		return nil, 0, fmt.Errorf("build list reservations query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list reservations failed: %w", err)
	}
	defer rows.Close()

	var reservations []*Reservation
	var total int

	for rows.Next() {
		var resv Reservation
		if err := rows.Scan(
			&resv.ID, &resv.UserID, &resv.UserName, &resv.ResourceID, &resv.ResourceName,
			&resv.StartDate, &resv.EndDate, &resv.Status, &resv.Priority,
			&resv.Purpose, &resv.Description, &resv.Attendees, &resv.Requirements,
			&resv.CreatedAt, &resv.UpdatedAt, &total,
		); err != nil {
			return nil, 0, fmt.Errorf("scan reservation failed: %w", err)
		}
		reservations = append(reservations, &resv)
	}

	return reservations, total, nil
}

func (r *pgxRepository) UpdateStatus(ctx context.Context, id string, status Status) error {
	const query = `
		UPDATE public.reservations
		SET status = $1, updated_at = now()
		WHERE id = $2
	`
	ct, err := r.pool.Exec(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("update reservation status failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM public.reservations WHERE id = $1`
	ct, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete reservation failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
