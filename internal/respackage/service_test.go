package respackage

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opencampus/reservation-backend/internal/reservation"
	"github.com/opencampus/reservation-backend/internal/resource"
)

// ==== In-memory fakes ====

type fakePkgRepo struct {
	packages map[string]*Package
	seq      int
}

func newFakePkgRepo() *fakePkgRepo {
	return &fakePkgRepo{packages: make(map[string]*Package)}
}

func (r *fakePkgRepo) Create(_ context.Context, pkg *Package) error {
	r.seq++
	pkg.ID = fmt.Sprintf("pkg-%d", r.seq)
	pkg.CreatedAt = time.Now()
	stored := *pkg
	r.packages[pkg.ID] = &stored
	return nil
}

func (r *fakePkgRepo) GetByID(_ context.Context, id string) (*Package, error) {
	pkg, ok := r.packages[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *pkg
	return &copied, nil
}

func (r *fakePkgRepo) GetByName(_ context.Context, name string) (*Package, error) {
	for _, pkg := range r.packages {
		if pkg.Name == name {
			copied := *pkg
			return &copied, nil
		}
	}
	return nil, ErrNotFound
}

func (r *fakePkgRepo) List(_ context.Context, _ Filter) ([]*Package, int, error) {
	var result []*Package
	for _, pkg := range r.packages {
		copied := *pkg
		result = append(result, &copied)
	}
	return result, len(result), nil
}

func (r *fakePkgRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.packages[id]; !ok {
		return ErrNotFound
	}
	delete(r.packages, id)
	return nil
}

func (r *fakePkgRepo) GetMembers(_ context.Context, packageID string) ([]Member, error) {
	pkg, ok := r.packages[packageID]
	if !ok {
		return nil, nil
	}
	return pkg.Members, nil
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

// fakeReservationService records created and deleted reservations and can be
// told to refuse availability for some resources, fail the Nth create, or
// fail deletes.
type fakeReservationService struct {
	busy        map[string]bool // resource IDs with no free slot
	failCreateN int             // 1-based index of the Create call that fails (0 = never)
	failDelete  bool

	createCalls int
	created     []*reservation.Reservation
	deleted     []string
	seq         int
}

func newFakeReservationService() *fakeReservationService {
	return &fakeReservationService{busy: make(map[string]bool)}
}

func (s *fakeReservationService) CheckAvailability(_ context.Context, resourceID string, _, _ time.Time, _ string) (*reservation.Availability, error) {
	if s.busy[resourceID] {
		return &reservation.Availability{HasConflict: true, TotalQuantity: 1, ReservedSlots: 1}, nil
	}
	return &reservation.Availability{TotalQuantity: 1, AvailableSlots: 1}, nil
}

func (s *fakeReservationService) Create(_ context.Context, req reservation.CreateRequest) (*reservation.Reservation, error) {
	s.createCalls++
	if s.failCreateN > 0 && s.createCalls == s.failCreateN {
		return nil, &reservation.ConflictError{Availability: reservation.Availability{HasConflict: true, TotalQuantity: 1, ReservedSlots: 1}}
	}
	s.seq++
	resv := &reservation.Reservation{
		ID:         fmt.Sprintf("resv-%d", s.seq),
		UserID:     req.UserID,
		ResourceID: req.ResourceID,
		StartDate:  req.StartDate,
		EndDate:    req.EndDate,
		Status:     reservation.StatusPending,
		Purpose:    req.Purpose,
	}
	s.created = append(s.created, resv)
	return resv, nil
}

func (s *fakeReservationService) GetByID(context.Context, string) (*reservation.Reservation, error) {
	return nil, reservation.ErrNotFound
}

func (s *fakeReservationService) List(context.Context, reservation.Filter) ([]*reservation.Reservation, int, error) {
	return nil, 0, nil
}

func (s *fakeReservationService) UpdateStatus(context.Context, string, reservation.Status) (*reservation.Reservation, error) {
	return nil, errors.New("not implemented")
}

func (s *fakeReservationService) Delete(_ context.Context, id string) error {
	if s.failDelete {
		return errors.New("connection lost")
	}
	s.deleted = append(s.deleted, id)
	return nil
}

// ==== Test setup ====

type testEnv struct {
	repo       *fakePkgRepo
	resources  *fakeResourceService
	rsvService *fakeReservationService
	service    Service
}

func newTestEnv() *testEnv {
	env := &testEnv{
		repo:       newFakePkgRepo(),
		rsvService: newFakeReservationService(),
		resources: &fakeResourceService{resources: map[string]*resource.Resource{
			"cam":    {ID: "cam", Name: "Camera Canon", Quantity: 1},
			"tripod": {ID: "tripod", Name: "Tripe Manfrotto", Quantity: 1},
			"mic":    {ID: "mic", Name: "Microfone Shure", Quantity: 1},
			"light":  {ID: "light", Name: "Kit de Luz", Quantity: 1},
			"lens":   {ID: "lens", Name: "Lente 50mm", Quantity: 1},
		}},
	}
	env.service = NewService(env.repo, env.resources, env.rsvService, zerolog.Nop())
	return env
}

func (env *testEnv) createPackage(t *testing.T, name string, resourceIDs ...string) *Package {
	t.Helper()
	members := make([]Member, len(resourceIDs))
	for i, id := range resourceIDs {
		members[i] = Member{ResourceID: id, QuantityNeeded: 1}
	}
	pkg, err := env.service.Create(context.Background(), CreateRequest{
		Name:      name,
		Subject:   "Audiovisual",
		CreatedBy: "prof-1",
		Members:   members,
	})
	require.NoError(t, err)
	return pkg
}

func testWindow() (time.Time, time.Time) {
	start := time.Date(2026, 9, 10, 9, 0, 0, 0, time.UTC)
	return start, start.Add(3 * time.Hour)
}

// ==== Package CRUD ====

func TestPackageCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("resolves member resource names", func(t *testing.T) {
		env := newTestEnv()
		pkg := env.createPackage(t, "Kit Filmagem", "cam", "tripod")

		require.Len(t, pkg.Members, 2)
		assert.Equal(t, "Camera Canon", pkg.Members[0].ResourceName)
		assert.Equal(t, "Tripe Manfrotto", pkg.Members[1].ResourceName)
	})

	t.Run("empty name", func(t *testing.T) {
		env := newTestEnv()
		_, err := env.service.Create(ctx, CreateRequest{
			Name:    "   ",
			Members: []Member{{ResourceID: "cam"}},
		})
		assert.ErrorIs(t, err, ErrEmptyName)
	})

	t.Run("no members", func(t *testing.T) {
		env := newTestEnv()
		_, err := env.service.Create(ctx, CreateRequest{Name: "Vazio"})
		assert.ErrorIs(t, err, ErrNoMembers)
	})

	t.Run("unknown member resource", func(t *testing.T) {
		env := newTestEnv()
		_, err := env.service.Create(ctx, CreateRequest{
			Name:    "Fantasma",
			Members: []Member{{ResourceID: "nope"}},
		})
		assert.ErrorIs(t, err, resource.ErrNotFound)
	})

	t.Run("negative quantity", func(t *testing.T) {
		env := newTestEnv()
		_, err := env.service.Create(ctx, CreateRequest{
			Name:    "Negativo",
			Members: []Member{{ResourceID: "cam", QuantityNeeded: -1}},
		})
		assert.ErrorIs(t, err, ErrBadQuantity)
	})
}

func TestPackageDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("owner can delete", func(t *testing.T) {
		env := newTestEnv()
		pkg := env.createPackage(t, "Kit", "cam")

		require.NoError(t, env.service.Delete(ctx, pkg.ID, "prof-1", false))
		_, err := env.service.GetByID(ctx, pkg.ID)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("stranger cannot delete", func(t *testing.T) {
		env := newTestEnv()
		pkg := env.createPackage(t, "Kit", "cam")

		err := env.service.Delete(ctx, pkg.ID, "someone-else", false)
		assert.ErrorIs(t, err, ErrNotOwner)
	})

	t.Run("admin can delete anyone's package", func(t *testing.T) {
		env := newTestEnv()
		pkg := env.createPackage(t, "Kit", "cam")

		assert.NoError(t, env.service.Delete(ctx, pkg.ID, "admin-1", true))
	})
}

// ==== All-or-nothing booking ====

func TestPackageReserve(t *testing.T) {
	ctx := context.Background()

	t.Run("books every member of the package", func(t *testing.T) {
		env := newTestEnv()
		pkg := env.createPackage(t, "Kit Filmagem", "cam", "tripod", "mic")
		start, end := testWindow()

		reservations, err := env.service.Reserve(ctx, ReserveRequest{
			PackageID: pkg.ID, UserID: "prof-1",
			StartDate: start, EndDate: end, Purpose: "Aula de cinema",
		})
		require.NoError(t, err)
		require.Len(t, reservations, 3)

		for _, resv := range reservations {
			assert.Contains(t, resv.Purpose, "(Pacote)")
		}
	})

	t.Run("unknown package", func(t *testing.T) {
		env := newTestEnv()
		start, end := testWindow()

		_, err := env.service.Reserve(ctx, ReserveRequest{
			PackageID: "missing", UserID: "prof-1",
			StartDate: start, EndDate: end,
		})
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("one busy member blocks the whole package with zero writes", func(t *testing.T) {
		env := newTestEnv()
		pkg := env.createPackage(t, "Kit Filmagem", "cam", "tripod", "mic")
		env.rsvService.busy["tripod"] = true
		start, end := testWindow()

		_, err := env.service.Reserve(ctx, ReserveRequest{
			PackageID: pkg.ID, UserID: "prof-1",
			StartDate: start, EndDate: end,
		})

		var conflict *ConflictError
		require.ErrorAs(t, err, &conflict)
		assert.Equal(t, []string{"Tripe Manfrotto"}, conflict.ConflictingResourceNames)
		assert.Empty(t, env.rsvService.created, "no reservation may be written on a pre-check conflict")
	})

	t.Run("all busy members are named", func(t *testing.T) {
		env := newTestEnv()
		pkg := env.createPackage(t, "Kit Filmagem", "cam", "tripod", "mic")
		env.rsvService.busy["cam"] = true
		env.rsvService.busy["mic"] = true
		start, end := testWindow()

		_, err := env.service.Reserve(ctx, ReserveRequest{
			PackageID: pkg.ID, UserID: "prof-1",
			StartDate: start, EndDate: end,
		})

		var conflict *ConflictError
		require.ErrorAs(t, err, &conflict)
		assert.ElementsMatch(t, []string{"Camera Canon", "Microfone Shure"}, conflict.ConflictingResourceNames)
	})

	t.Run("mid-sequence failure rolls back every created reservation", func(t *testing.T) {
		env := newTestEnv()
		pkg := env.createPackage(t, "Kit Grande", "cam", "tripod", "mic", "light", "lens")
		// Pre-check passes, but the third insert loses the race.
		env.rsvService.failCreateN = 3
		start, end := testWindow()

		_, err := env.service.Reserve(ctx, ReserveRequest{
			PackageID: pkg.ID, UserID: "prof-1",
			StartDate: start, EndDate: end,
		})

		var failed *BookingFailedError
		require.ErrorAs(t, err, &failed)
		assert.Equal(t, "Microfone Shure", failed.ResourceName)

		// The two rows created before the failure were compensated.
		require.Len(t, env.rsvService.created, 2)
		assert.ElementsMatch(t,
			[]string{env.rsvService.created[0].ID, env.rsvService.created[1].ID},
			env.rsvService.deleted)
	})

	t.Run("failed compensation reports the orphaned reservations", func(t *testing.T) {
		env := newTestEnv()
		pkg := env.createPackage(t, "Kit Grande", "cam", "tripod", "mic")
		env.rsvService.failCreateN = 3
		env.rsvService.failDelete = true
		start, end := testWindow()

		_, err := env.service.Reserve(ctx, ReserveRequest{
			PackageID: pkg.ID, UserID: "prof-1",
			StartDate: start, EndDate: end,
		})

		var orphan *OrphanError
		require.ErrorAs(t, err, &orphan)
		assert.Len(t, orphan.OrphanedReservationIDs, 2)
	})

	t.Run("purpose gets the package tag appended", func(t *testing.T) {
		env := newTestEnv()
		pkg := env.createPackage(t, "Kit", "cam")
		start, end := testWindow()

		reservations, err := env.service.Reserve(ctx, ReserveRequest{
			PackageID: pkg.ID, UserID: "prof-1",
			StartDate: start, EndDate: end, Purpose: "Documentario",
		})
		require.NoError(t, err)
		assert.Equal(t, "Documentario (Pacote)", reservations[0].Purpose)
	})
}
