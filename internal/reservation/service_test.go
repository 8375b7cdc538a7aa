package reservation

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opencampus/reservation-backend/internal/resource"
	"github.com/opencampus/reservation-backend/internal/settings"
)

// ==== In-memory fakes ====

type fakeRepo struct {
	mu   sync.Mutex
	rows map[string]*Reservation
	seq  int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{rows: make(map[string]*Reservation)}
}

func (r *fakeRepo) countOverlapping(resourceID string, start, end time.Time, excludeID string) int {
	count := 0
	for _, row := range r.rows {
		if row.ResourceID != resourceID || row.ID == excludeID {
			continue
		}
		if !row.Status.IsActive() {
			continue
		}
		if Overlaps(row.StartDate, row.EndDate, start, end) {
			count++
		}
	}
	return count
}

func (r *fakeRepo) CountOverlapping(_ context.Context, resourceID string, start, end time.Time, excludeID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.countOverlapping(resourceID, start, end, excludeID), nil
}

func (r *fakeRepo) CountActiveByUser(_ context.Context, userID string, asOf time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for _, row := range r.rows {
		if row.UserID == userID && row.Status.IsActive() && row.EndDate.After(asOf) {
			count++
		}
	}
	return count, nil
}

func (r *fakeRepo) CreateGuarded(_ context.Context, resv *Reservation, capacity int) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	count := r.countOverlapping(resv.ResourceID, resv.StartDate, resv.EndDate, "")
	if count >= capacity {
		return count, ErrNoCapacity
	}

	r.seq++
	resv.ID = fmt.Sprintf("resv-%d", r.seq)
	resv.CreatedAt = time.Now()
	resv.UpdatedAt = resv.CreatedAt
	stored := *resv
	r.rows[resv.ID] = &stored
	return count, nil
}

func (r *fakeRepo) GetByID(_ context.Context, id string) (*Reservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *row
	return &copied, nil
}

func (r *fakeRepo) List(_ context.Context, filter Filter) ([]*Reservation, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*Reservation
	for _, row := range r.rows {
		if filter.UserID != "" && row.UserID != filter.UserID {
			continue
		}
		if filter.ResourceID != "" && row.ResourceID != filter.ResourceID {
			continue
		}
		copied := *row
		result = append(result, &copied)
	}
	return result, len(result), nil
}

func (r *fakeRepo) UpdateStatus(_ context.Context, id string, status Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[id]
	if !ok {
		return ErrNotFound
	}
	row.Status = status
	return nil
}

func (r *fakeRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[id]; !ok {
		return ErrNotFound
	}
	delete(r.rows, id)
	return nil
}

type fakeResourceService struct {
	resources map[string]*resource.Resource
}

func (s *fakeResourceService) GetByID(_ context.Context, id string) (*resource.Resource, error) {
	res, ok := s.resources[id]
	if !ok {
		return nil, resource.ErrNotFound
	}
	return res, nil
}

func (s *fakeResourceService) GetByName(_ context.Context, name string) (*resource.Resource, error) {
	for _, res := range s.resources {
		if res.Name == name {
			return res, nil
		}
	}
	return nil, resource.ErrNotFound
}

func (s *fakeResourceService) Create(context.Context, resource.CreateRequest) (*resource.Resource, error) {
	return nil, errors.New("not implemented")
}

func (s *fakeResourceService) List(context.Context, resource.Filter) ([]*resource.Resource, int, error) {
	return nil, 0, nil
}

func (s *fakeResourceService) Update(context.Context, string, resource.UpdateRequest) (*resource.Resource, error) {
	return nil, errors.New("not implemented")
}

func (s *fakeResourceService) Delete(context.Context, string) error { return nil }

type fakeSettingsService struct {
	policy settings.Policy
}

func (s *fakeSettingsService) Get(context.Context) (*settings.Policy, error) {
	p := s.policy
	return &p, nil
}

func (s *fakeSettingsService) Update(context.Context, settings.UpdateRequest) (*settings.Policy, error) {
	return nil, errors.New("not implemented")
}

// ==== Test setup ====

type testEnv struct {
	repo      *fakeRepo
	resources *fakeResourceService
	settings  *fakeSettingsService
	service   *service
}

func newTestEnv() *testEnv {
	env := &testEnv{
		repo:     newFakeRepo(),
		settings: &fakeSettingsService{},
		resources: &fakeResourceService{resources: map[string]*resource.Resource{
			"projector": {
				ID:       "projector",
				Name:     "Projetor Epson",
				Category: resource.CategoryEquipment,
				Quantity: 2,
				Status:   resource.StatusAvailable,
			},
			"room-101": {
				ID:       "room-101",
				Name:     "Sala 101",
				Category: resource.CategoryRooms,
				Quantity: 1,
				Status:   resource.StatusAvailable,
			},
			"broken-camera": {
				ID:       "broken-camera",
				Name:     "Camera Sony",
				Category: resource.CategoryAV,
				Quantity: 1,
				Status:   resource.StatusMaintenance,
			},
			"phantom": {
				ID:       "phantom",
				Name:     "Phantom Kit",
				Category: resource.CategoryEquipment,
				Quantity: 0,
				Status:   resource.StatusAvailable,
			},
		}},
	}
	env.service = NewService(env.repo, env.resources, env.settings).(*service)
	return env
}

func window(dayOffset, startHour, hours int) (time.Time, time.Time) {
	base := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, dayOffset)
	start := base.Add(time.Duration(startHour) * time.Hour)
	return start, start.Add(time.Duration(hours) * time.Hour)
}

func mustCreate(t *testing.T, env *testEnv, userID, resourceID string, start, end time.Time) *Reservation {
	t.Helper()
	resv, err := env.service.Create(context.Background(), CreateRequest{
		UserID:     userID,
		ResourceID: resourceID,
		StartDate:  start,
		EndDate:    end,
		Purpose:    "Aula de teste",
	})
	require.NoError(t, err)
	return resv
}

// ==== Availability ====

func TestCheckAvailability(t *testing.T) {
	ctx := context.Background()

	t.Run("free resource reports all slots available", func(t *testing.T) {
		env := newTestEnv()
		start, end := window(0, 9, 2)

		avail, err := env.service.CheckAvailability(ctx, "projector", start, end, "")
		require.NoError(t, err)

		assert.False(t, avail.HasConflict)
		assert.Equal(t, 2, avail.TotalQuantity)
		assert.Equal(t, 0, avail.ReservedSlots)
		assert.Equal(t, 2, avail.AvailableSlots)
	})

	t.Run("unknown resource", func(t *testing.T) {
		env := newTestEnv()
		start, end := window(0, 9, 2)

		_, err := env.service.CheckAvailability(ctx, "missing", start, end, "")
		assert.ErrorIs(t, err, ErrResourceNotFound)
	})

	t.Run("partial occupancy leaves remaining slots", func(t *testing.T) {
		env := newTestEnv()
		start, end := window(0, 9, 2)
		mustCreate(t, env, "alice", "projector", start, end)

		avail, err := env.service.CheckAvailability(ctx, "projector", start, end, "")
		require.NoError(t, err)

		assert.False(t, avail.HasConflict)
		assert.Equal(t, 1, avail.ReservedSlots)
		assert.Equal(t, 1, avail.AvailableSlots)
	})

	t.Run("maintenance forces zero available slots", func(t *testing.T) {
		env := newTestEnv()
		start, end := window(0, 9, 2)

		avail, err := env.service.CheckAvailability(ctx, "broken-camera", start, end, "")
		require.NoError(t, err)

		assert.True(t, avail.HasConflict)
		assert.Equal(t, 1, avail.TotalQuantity)
		assert.Equal(t, 0, avail.AvailableSlots)
	})
}

// ==== Creation and capacity ====

func TestCreateCapacity(t *testing.T) {
	ctx := context.Background()

	t.Run("bookings up to quantity succeed, the next is refused", func(t *testing.T) {
		env := newTestEnv()
		start, end := window(0, 14, 2)

		mustCreate(t, env, "alice", "projector", start, end)
		mustCreate(t, env, "bob", "projector", start, end)

		_, err := env.service.Create(ctx, CreateRequest{
			UserID: "carol", ResourceID: "projector",
			StartDate: start, EndDate: end, Purpose: "Terceiro pedido",
		})

		var conflict *ConflictError
		require.ErrorAs(t, err, &conflict)
		assert.True(t, conflict.Availability.HasConflict)
		assert.Equal(t, 2, conflict.Availability.TotalQuantity)
		assert.Equal(t, 2, conflict.Availability.ReservedSlots)
		assert.Equal(t, 0, conflict.Availability.AvailableSlots)
	})

	t.Run("disjoint windows do not consume each other's slots", func(t *testing.T) {
		env := newTestEnv()
		morningStart, morningEnd := window(0, 9, 2)
		afternoonStart, afternoonEnd := window(0, 14, 2)

		mustCreate(t, env, "alice", "room-101", morningStart, morningEnd)
		mustCreate(t, env, "bob", "room-101", afternoonStart, afternoonEnd)
	})

	t.Run("back-to-back windows touching at one instant both succeed", func(t *testing.T) {
		env := newTestEnv()
		start1, end1 := window(0, 9, 2)
		// Second window starts exactly when the first ends.
		mustCreate(t, env, "alice", "room-101", start1, end1)
		mustCreate(t, env, "bob", "room-101", end1, end1.Add(2*time.Hour))
	})

	t.Run("partially overlapping window is refused on a full resource", func(t *testing.T) {
		env := newTestEnv()
		start, end := window(0, 9, 3)
		mustCreate(t, env, "alice", "room-101", start, end)

		_, err := env.service.Create(ctx, CreateRequest{
			UserID: "bob", ResourceID: "room-101",
			StartDate: start.Add(time.Hour), EndDate: end.Add(2 * time.Hour),
			Purpose: "Sobreposto",
		})

		var conflict *ConflictError
		require.ErrorAs(t, err, &conflict)
		assert.Equal(t, 0, conflict.Availability.AvailableSlots)
	})

	t.Run("rejected reservations free their slot", func(t *testing.T) {
		env := newTestEnv()
		start, end := window(0, 9, 2)
		first := mustCreate(t, env, "alice", "room-101", start, end)

		_, err := env.service.UpdateStatus(ctx, first.ID, StatusRejected)
		require.NoError(t, err)

		mustCreate(t, env, "bob", "room-101", start, end)
	})

	t.Run("invalid window", func(t *testing.T) {
		env := newTestEnv()
		start, end := window(0, 9, 2)

		_, err := env.service.Create(ctx, CreateRequest{
			UserID: "alice", ResourceID: "room-101",
			StartDate: end, EndDate: start, Purpose: "Invertido",
		})
		assert.ErrorIs(t, err, ErrInvalidTimeRange)
	})

	t.Run("invalid priority", func(t *testing.T) {
		env := newTestEnv()
		start, end := window(0, 9, 2)

		_, err := env.service.Create(ctx, CreateRequest{
			UserID: "alice", ResourceID: "room-101",
			StartDate: start, EndDate: end, Purpose: "Teste", Priority: "extreme",
		})
		assert.ErrorIs(t, err, ErrInvalidPriority)
	})

	t.Run("zero-quantity resource conflicts with an all-zero breakdown", func(t *testing.T) {
		env := newTestEnv()
		start, end := window(0, 9, 2)

		_, err := env.service.Create(ctx, CreateRequest{
			UserID: "alice", ResourceID: "phantom",
			StartDate: start, EndDate: end, Purpose: "Nunca",
		})

		var conflict *ConflictError
		require.ErrorAs(t, err, &conflict)
		assert.True(t, conflict.Availability.HasConflict)
		assert.Equal(t, 0, conflict.Availability.TotalQuantity)
		assert.Equal(t, 0, conflict.Availability.ReservedSlots)
		assert.Equal(t, 0, conflict.Availability.AvailableSlots)
	})

	t.Run("maintenance blocks creation regardless of occupancy", func(t *testing.T) {
		env := newTestEnv()
		start, end := window(0, 9, 2)

		_, err := env.service.Create(ctx, CreateRequest{
			UserID: "alice", ResourceID: "broken-camera",
			StartDate: start, EndDate: end, Purpose: "Indisponivel",
		})

		var conflict *ConflictError
		require.ErrorAs(t, err, &conflict)
		assert.True(t, conflict.Availability.HasConflict)
	})

	t.Run("new reservation starts pending", func(t *testing.T) {
		env := newTestEnv()
		start, end := window(0, 9, 2)
		resv := mustCreate(t, env, "alice", "room-101", start, end)

		assert.Equal(t, StatusPending, resv.Status)
		assert.Equal(t, PriorityNormal, resv.Priority)
		assert.NotEmpty(t, resv.ID)
	})
}

// ==== Booking policy ====

func TestCreatePolicy(t *testing.T) {
	ctx := context.Background()

	t.Run("per-user active limit", func(t *testing.T) {
		env := newTestEnv()
		env.settings.policy.MaxActiveReservationsPerUser = 2
		env.service.nowFn = func() time.Time {
			return time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
		}

		s1, e1 := window(0, 9, 1)
		s2, e2 := window(1, 9, 1)
		mustCreate(t, env, "alice", "projector", s1, e1)
		mustCreate(t, env, "alice", "projector", s2, e2)

		s3, e3 := window(2, 9, 1)
		_, err := env.service.Create(ctx, CreateRequest{
			UserID: "alice", ResourceID: "projector",
			StartDate: s3, EndDate: e3, Purpose: "Acima do limite",
		})
		assert.ErrorIs(t, err, ErrReservationLimit)

		// Another user is unaffected.
		mustCreate(t, env, "bob", "projector", s3, e3)
	})

	t.Run("advance booking horizon", func(t *testing.T) {
		env := newTestEnv()
		env.settings.policy.MaxAdvanceBookingDays = 7
		now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
		env.service.nowFn = func() time.Time { return now }

		// 10 days out: beyond the horizon.
		farStart := now.AddDate(0, 0, 10)
		_, err := env.service.Create(ctx, CreateRequest{
			UserID: "alice", ResourceID: "room-101",
			StartDate: farStart, EndDate: farStart.Add(time.Hour), Purpose: "Longe demais",
		})
		assert.ErrorIs(t, err, ErrTooFarAhead)

		// 5 days out: inside the horizon.
		nearStart := now.AddDate(0, 0, 5)
		mustCreate(t, env, "alice", "room-101", nearStart, nearStart.Add(time.Hour))
	})

	t.Run("zero values disable both limits", func(t *testing.T) {
		env := newTestEnv()
		now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
		env.service.nowFn = func() time.Time { return now }

		farStart := now.AddDate(0, 0, 365)
		mustCreate(t, env, "alice", "projector", farStart, farStart.Add(time.Hour))
	})
}

// ==== Lifecycle ====

func TestUpdateStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("pending to approved", func(t *testing.T) {
		env := newTestEnv()
		start, end := window(0, 9, 2)
		resv := mustCreate(t, env, "alice", "room-101", start, end)

		updated, err := env.service.UpdateStatus(ctx, resv.ID, StatusApproved)
		require.NoError(t, err)
		assert.Equal(t, StatusApproved, updated.Status)
	})

	t.Run("pending to rejected", func(t *testing.T) {
		env := newTestEnv()
		start, end := window(0, 9, 2)
		resv := mustCreate(t, env, "alice", "room-101", start, end)

		updated, err := env.service.UpdateStatus(ctx, resv.ID, StatusRejected)
		require.NoError(t, err)
		assert.Equal(t, StatusRejected, updated.Status)
	})

	t.Run("approved and rejected are terminal", func(t *testing.T) {
		env := newTestEnv()
		start, end := window(0, 9, 2)

		approved := mustCreate(t, env, "alice", "room-101", start, end)
		_, err := env.service.UpdateStatus(ctx, approved.ID, StatusApproved)
		require.NoError(t, err)

		_, err = env.service.UpdateStatus(ctx, approved.ID, StatusRejected)
		assert.ErrorIs(t, err, ErrInvalidTransition)
		_, err = env.service.UpdateStatus(ctx, approved.ID, StatusApproved)
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})

	t.Run("cannot set a reservation back to pending", func(t *testing.T) {
		env := newTestEnv()
		start, end := window(0, 9, 2)
		resv := mustCreate(t, env, "alice", "room-101", start, end)

		_, err := env.service.UpdateStatus(ctx, resv.ID, StatusPending)
		assert.ErrorIs(t, err, ErrInvalidStatus)
	})

	t.Run("unknown reservation", func(t *testing.T) {
		env := newTestEnv()
		_, err := env.service.UpdateStatus(ctx, "missing", StatusApproved)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

// ==== Concurrency ====

func TestCreateGuardedRace(t *testing.T) {
	// Many goroutines racing for a single slot: exactly one must win.
	env := newTestEnv()
	start, end := window(0, 9, 2)

	const attempts = 16
	var wg sync.WaitGroup
	results := make(chan error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_, err := env.service.Create(context.Background(), CreateRequest{
				UserID:     fmt.Sprintf("user-%d", n),
				ResourceID: "room-101",
				StartDate:  start,
				EndDate:    end,
				Purpose:    "Corrida",
			})
			results <- err
		}(i)
	}
	wg.Wait()
	close(results)

	wins := 0
	for err := range results {
		if err == nil {
			wins++
		} else {
			var conflict *ConflictError
			assert.ErrorAs(t, err, &conflict)
		}
	}
	assert.Equal(t, 1, wins, "exactly one racer should get the slot")
}
