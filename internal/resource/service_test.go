package resource

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opencampus/reservation-backend/internal/location"
)

type fakeRepo struct {
	resources map[string]*Resource
	seq       int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{resources: make(map[string]*Resource)}
}

func (r *fakeRepo) Create(_ context.Context, res *Resource) error {
	r.seq++
	res.ID = fmt.Sprintf("res-%d", r.seq)
	res.CreatedAt = time.Now()
	res.UpdatedAt = res.CreatedAt
	stored := *res
	r.resources[res.ID] = &stored
	return nil
}

func (r *fakeRepo) GetByID(_ context.Context, id string) (*Resource, error) {
	res, ok := r.resources[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *res
	return &copied, nil
}

func (r *fakeRepo) GetByName(_ context.Context, name string) (*Resource, error) {
	for _, res := range r.resources {
		if res.Name == name {
			copied := *res
			return &copied, nil
		}
	}
	return nil, ErrNotFound
}

func (r *fakeRepo) List(_ context.Context, _ Filter) ([]*Resource, int, error) {
	var result []*Resource
	for _, res := range r.resources {
		copied := *res
		result = append(result, &copied)
	}
	return result, len(result), nil
}

func (r *fakeRepo) Update(_ context.Context, res *Resource) error {
	if _, ok := r.resources[res.ID]; !ok {
		return ErrNotFound
	}
	stored := *res
	r.resources[res.ID] = &stored
	return nil
}

func (r *fakeRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.resources[id]; !ok {
		return ErrNotFound
	}
	delete(r.resources, id)
	return nil
}

type fakeLocationService struct {
	known map[string]bool
}

func (s *fakeLocationService) GetByID(_ context.Context, id string) (*location.Location, error) {
	if !s.known[id] {
		return nil, location.ErrNotFound
	}
	return &location.Location{ID: id, Name: "Bloco A"}, nil
}

func (s *fakeLocationService) Create(context.Context, location.CreateRequest) (*location.Location, error) {
	return nil, location.ErrNotFound
}

func (s *fakeLocationService) List(context.Context, location.Filter) ([]*location.Location, int, error) {
	return nil, 0, nil
}

func (s *fakeLocationService) Update(context.Context, string, location.UpdateRequest) (*location.Location, error) {
	return nil, location.ErrNotFound
}

func (s *fakeLocationService) Delete(context.Context, string) error { return nil }

func newTestService() (Service, *fakeRepo) {
	repo := newFakeRepo()
	svc := NewService(repo, &fakeLocationService{known: map[string]bool{"loc-1": true}})
	return svc, repo
}

func TestSpecsMatchesCategory(t *testing.T) {
	cases := []struct {
		name     string
		specs    Specs
		category Category
		want     bool
	}{
		{"empty specs match any category", Specs{}, CategoryEquipment, true},
		{"room spec on rooms", Specs{Room: &RoomSpec{Capacity: 30}}, CategoryRooms, true},
		{"room spec on equipment", Specs{Room: &RoomSpec{Capacity: 30}}, CategoryEquipment, false},
		{"equipment spec on equipment", Specs{Equipment: &EquipmentSpec{Brand: "Epson"}}, CategoryEquipment, true},
		{"equipment spec on av", Specs{Equipment: &EquipmentSpec{Brand: "Epson"}}, CategoryAV, false},
		{"av spec on av", Specs{AV: &AVSpec{Resolution: "4K"}}, CategoryAV, true},
		{"av spec on rooms", Specs{AV: &AVSpec{Resolution: "4K"}}, CategoryRooms, false},
		{"extra keys alone match any category", Specs{Extra: map[string]string{"color": "black"}}, CategoryAV, true},
		{"mixed specs fail on single category", Specs{Room: &RoomSpec{}, AV: &AVSpec{}}, CategoryRooms, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.specs.MatchesCategory(tc.category))
		})
	}
}

func TestResourceCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("valid resource starts available", func(t *testing.T) {
		svc, _ := newTestService()
		res, err := svc.Create(ctx, CreateRequest{
			Name:     "Sala 101",
			Category: "rooms",
			Quantity: 1,
			Specs:    Specs{Room: &RoomSpec{Capacity: 40, HasProjector: true}},
		})
		require.NoError(t, err)

		assert.Equal(t, StatusAvailable, res.Status)
		assert.Equal(t, CategoryRooms, res.Category)
		assert.NotEmpty(t, res.ID)
	})

	t.Run("empty name", func(t *testing.T) {
		svc, _ := newTestService()
		_, err := svc.Create(ctx, CreateRequest{Name: "  ", Category: "rooms", Quantity: 1})
		assert.ErrorIs(t, err, ErrEmptyName)
	})

	t.Run("unknown category", func(t *testing.T) {
		svc, _ := newTestService()
		_, err := svc.Create(ctx, CreateRequest{Name: "Drone", Category: "vehicles", Quantity: 1})
		assert.ErrorIs(t, err, ErrInvalidCategory)
	})

	t.Run("negative quantity", func(t *testing.T) {
		svc, _ := newTestService()
		_, err := svc.Create(ctx, CreateRequest{Name: "Sala", Category: "rooms", Quantity: -1})
		assert.ErrorIs(t, err, ErrInvalidQuantity)
	})

	t.Run("zero quantity is allowed", func(t *testing.T) {
		svc, _ := newTestService()
		res, err := svc.Create(ctx, CreateRequest{Name: "Fora de linha", Category: "equipment", Quantity: 0})
		require.NoError(t, err)
		assert.Equal(t, 0, res.Quantity)
	})

	t.Run("spec category mismatch", func(t *testing.T) {
		svc, _ := newTestService()
		_, err := svc.Create(ctx, CreateRequest{
			Name:     "Projetor",
			Category: "equipment",
			Quantity: 1,
			Specs:    Specs{Room: &RoomSpec{Capacity: 10}},
		})
		assert.ErrorIs(t, err, ErrSpecMismatch)
	})

	t.Run("unknown location", func(t *testing.T) {
		svc, _ := newTestService()
		_, err := svc.Create(ctx, CreateRequest{
			Name: "Sala", Category: "rooms", Quantity: 1, LocationID: "loc-404",
		})
		assert.ErrorIs(t, err, ErrInvalidLocation)
	})
}

func TestResourceUpdate(t *testing.T) {
	ctx := context.Background()

	t.Run("status can move to maintenance and back", func(t *testing.T) {
		svc, _ := newTestService()
		res, err := svc.Create(ctx, CreateRequest{Name: "Camera", Category: "av", Quantity: 1})
		require.NoError(t, err)

		maintenance := string(StatusMaintenance)
		updated, err := svc.Update(ctx, res.ID, UpdateRequest{Status: &maintenance})
		require.NoError(t, err)
		assert.Equal(t, StatusMaintenance, updated.Status)

		available := string(StatusAvailable)
		updated, err = svc.Update(ctx, res.ID, UpdateRequest{Status: &available})
		require.NoError(t, err)
		assert.Equal(t, StatusAvailable, updated.Status)
	})

	t.Run("invalid status", func(t *testing.T) {
		svc, _ := newTestService()
		res, err := svc.Create(ctx, CreateRequest{Name: "Camera", Category: "av", Quantity: 1})
		require.NoError(t, err)

		bad := "broken"
		_, err = svc.Update(ctx, res.ID, UpdateRequest{Status: &bad})
		assert.ErrorIs(t, err, ErrInvalidStatus)
	})

	t.Run("spec update must still match category", func(t *testing.T) {
		svc, _ := newTestService()
		res, err := svc.Create(ctx, CreateRequest{Name: "Camera", Category: "av", Quantity: 1})
		require.NoError(t, err)

		_, err = svc.Update(ctx, res.ID, UpdateRequest{
			Specs: &Specs{Equipment: &EquipmentSpec{Brand: "Sony"}},
		})
		assert.ErrorIs(t, err, ErrSpecMismatch)
	})
}
