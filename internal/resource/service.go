package resource

import (
	"context"
	"strings"

	"github.com/opencampus/reservation-backend/internal/location"
)

type CreateRequest struct {
	Name        string
	Category    string
	Quantity    int
	LocationID  string
	Description string
	Specs       Specs
}

type UpdateRequest struct {
	Name        *string
	Quantity    *int
	Status      *string
	LocationID  *string
	Description *string
	Specs       *Specs
	PhotoFileID *string
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Resource, error)
	GetByID(ctx context.Context, id string) (*Resource, error)
	GetByName(ctx context.Context, name string) (*Resource, error)
	List(ctx context.Context, filter Filter) ([]*Resource, int, error)
	Update(ctx context.Context, id string, req UpdateRequest) (*Resource, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	repo       Repository
	locService location.Service
}

func NewService(repo Repository, locService location.Service) Service {
	return &service{
		repo:       repo,
		locService: locService,
	}
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Resource, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, ErrEmptyName
	}

	category := Category(req.Category)
	if !category.IsValid() {
		return nil, ErrInvalidCategory
	}
	if req.Quantity < 0 {
		return nil, ErrInvalidQuantity
	}
	if !req.Specs.MatchesCategory(category) {
		return nil, ErrSpecMismatch
	}

	var locationID *string
	if req.LocationID != "" {
		// Validation: Check if Location exists
		if _, err := s.locService.GetByID(ctx, req.LocationID); err != nil {
			return nil, ErrInvalidLocation
		}
		locationID = &req.LocationID
	}

	res := &Resource{
		Name:        req.Name,
		Category:    category,
		Quantity:    req.Quantity,
		Status:      StatusAvailable,
		LocationID:  locationID,
		Description: req.Description,
		Specs:       req.Specs,
	}

	if err := s.repo.Create(ctx, res); err != nil {
		return nil, err
	}
	return res, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*Resource, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) GetByName(ctx context.Context, name string) (*Resource, error) {
	return s.repo.GetByName(ctx, strings.TrimSpace(name))
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Resource, int, error) {
	return s.repo.List(ctx, filter)
}

func (s *service) Update(ctx context.Context, id string, req UpdateRequest) (*Resource, error) {
	res, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return nil, ErrEmptyName
		}
		res.Name = *req.Name
	}
	if req.Quantity != nil {
		if *req.Quantity < 0 {
			return nil, ErrInvalidQuantity
		}
		res.Quantity = *req.Quantity
	}
	if req.Status != nil {
		status := Status(*req.Status)
		if !status.IsValid() {
			return nil, ErrInvalidStatus
		}
		res.Status = status
	}
	if req.LocationID != nil {
		if *req.LocationID == "" {
			res.LocationID = nil
		} else {
			if _, err := s.locService.GetByID(ctx, *req.LocationID); err != nil {
				return nil, ErrInvalidLocation
			}
			res.LocationID = req.LocationID
		}
	}
	if req.Description != nil {
		res.Description = *req.Description
	}
	if req.Specs != nil {
		if !req.Specs.MatchesCategory(res.Category) {
			return nil, ErrSpecMismatch
		}
		res.Specs = *req.Specs
	}
	if req.PhotoFileID != nil {
		if *req.PhotoFileID == "" {
			res.PhotoFileID = nil
		} else {
			res.PhotoFileID = req.PhotoFileID
		}
	}

	if err := s.repo.Update(ctx, res); err != nil {
		return nil, err
	}
	return res, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}
