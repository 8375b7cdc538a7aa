package settings

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	Get(ctx context.Context) (*Policy, error)
	Save(ctx context.Context, p *Policy) error
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

// Get returns the stored policy, or the defaults when no row exists yet.
func (r *pgxRepository) Get(ctx context.Context) (*Policy, error) {
	const query = `
		SELECT max_active_reservations_per_user, max_advance_booking_days, updated_at
		FROM public.booking_policy
		WHERE id = 1
	`
	var p Policy
	if err := r.pool.QueryRow(ctx, query).Scan(
		&p.MaxActiveReservationsPerUser, &p.MaxAdvanceBookingDays, &p.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return DefaultPolicy(), nil
		}
		return nil, fmt.Errorf("get booking policy failed: %w", err)
	}
	return &p, nil
}

func (r *pgxRepository) Save(ctx context.Context, p *Policy) error {
	const query = `
		INSERT INTO public.booking_policy (id, max_active_reservations_per_user, max_advance_booking_days, updated_at)
		VALUES (1, $1, $2, now())
		ON CONFLICT (id) DO UPDATE
		SET max_active_reservations_per_user = EXCLUDED.max_active_reservations_per_user,
		    max_advance_booking_days = EXCLUDED.max_advance_booking_days,
		    updated_at = now()
		RETURNING updated_at
	`
	if err := r.pool.QueryRow(ctx, query,
		p.MaxActiveReservationsPerUser, p.MaxAdvanceBookingDays,
	).Scan(&p.UpdatedAt); err != nil {
		return fmt.Errorf("save booking policy failed: %w", err)
	}
	return nil
}
