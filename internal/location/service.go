package location

import (
	"context"
	"strings"
)

// CreateRequest carries data to create a location.
type CreateRequest struct {
	Name        string
	Campus      string
	Address     string
	Description string
}

// UpdateRequest carries data for partial updates.
type UpdateRequest struct {
	Name        *string
	Campus      *string
	Address     *string
	Description *string
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Location, error)
	GetByID(ctx context.Context, id string) (*Location, error)
	List(ctx context.Context, filter Filter) ([]*Location, int, error)
	Update(ctx context.Context, id string, req UpdateRequest) (*Location, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Location, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, ErrEmptyName
	}

	loc := &Location{
		Name:        req.Name,
		Campus:      req.Campus,
		Address:     req.Address,
		Description: req.Description,
	}

	if err := s.repo.Create(ctx, loc); err != nil {
		return nil, err
	}
	return loc, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*Location, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Location, int, error) {
	return s.repo.List(ctx, filter)
}

func (s *service) Update(ctx context.Context, id string, req UpdateRequest) (*Location, error) {
	loc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return nil, ErrEmptyName
		}
		loc.Name = *req.Name
	}
	if req.Campus != nil {
		loc.Campus = *req.Campus
	}
	if req.Address != nil {
		loc.Address = *req.Address
	}
	if req.Description != nil {
		loc.Description = *req.Description
	}

	if err := s.repo.Update(ctx, loc); err != nil {
		return nil, err
	}
	return loc, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}
