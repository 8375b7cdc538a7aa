package settings

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	stored *Policy
}

func (r *fakeRepo) Get(_ context.Context) (*Policy, error) {
	if r.stored == nil {
		return DefaultPolicy(), nil
	}
	copied := *r.stored
	return &copied, nil
}

func (r *fakeRepo) Save(_ context.Context, p *Policy) error {
	copied := *p
	r.stored = &copied
	return nil
}

func intPtr(v int) *int { return &v }

func TestPolicyDefaults(t *testing.T) {
	svc := NewService(&fakeRepo{})

	p, err := svc.Get(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 0, p.MaxActiveReservationsPerUser, "limit disabled by default")
	assert.Equal(t, 0, p.MaxAdvanceBookingDays, "horizon disabled by default")
}

func TestPolicyUpdate(t *testing.T) {
	ctx := context.Background()

	t.Run("sets both limits", func(t *testing.T) {
		repo := &fakeRepo{}
		svc := NewService(repo)

		p, err := svc.Update(ctx, UpdateRequest{
			MaxActiveReservationsPerUser: intPtr(5),
			MaxAdvanceBookingDays:        intPtr(30),
		})
		require.NoError(t, err)
		assert.Equal(t, 5, p.MaxActiveReservationsPerUser)
		assert.Equal(t, 30, p.MaxAdvanceBookingDays)

		stored, err := svc.Get(ctx)
		require.NoError(t, err)
		assert.Equal(t, p.MaxActiveReservationsPerUser, stored.MaxActiveReservationsPerUser)
	})

	t.Run("partial update keeps the other field", func(t *testing.T) {
		repo := &fakeRepo{stored: &Policy{MaxActiveReservationsPerUser: 5, MaxAdvanceBookingDays: 30}}
		svc := NewService(repo)

		p, err := svc.Update(ctx, UpdateRequest{MaxAdvanceBookingDays: intPtr(14)})
		require.NoError(t, err)
		assert.Equal(t, 5, p.MaxActiveReservationsPerUser)
		assert.Equal(t, 14, p.MaxAdvanceBookingDays)
	})

	t.Run("negative values are refused", func(t *testing.T) {
		svc := NewService(&fakeRepo{})

		_, err := svc.Update(ctx, UpdateRequest{MaxActiveReservationsPerUser: intPtr(-1)})
		assert.ErrorIs(t, err, ErrInvalidLimit)

		_, err = svc.Update(ctx, UpdateRequest{MaxAdvanceBookingDays: intPtr(-1)})
		assert.ErrorIs(t, err, ErrInvalidLimit)
	})

	t.Run("zero disables a limit", func(t *testing.T) {
		repo := &fakeRepo{stored: &Policy{MaxActiveReservationsPerUser: 5}}
		svc := NewService(repo)

		p, err := svc.Update(ctx, UpdateRequest{MaxActiveReservationsPerUser: intPtr(0)})
		require.NoError(t, err)
		assert.Equal(t, 0, p.MaxActiveReservationsPerUser)
	})
}
