package maintenance

import (
	"context"
	"strings"

	"github.com/opencampus/reservation-backend/internal/resource"
)

type CreateRequest struct {
	ResourceID  string
	Title       string
	Description string
	ReportedBy  string
}

type UpdateRequest struct {
	Title       *string
	Description *string
	Status      *string
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Task, error)
	GetByID(ctx context.Context, id string) (*Task, error)
	List(ctx context.Context, filter Filter) ([]*Task, int, error)
	Update(ctx context.Context, id string, req UpdateRequest) (*Task, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	repo       Repository
	resService resource.Service
}

func NewService(repo Repository, resService resource.Service) Service {
	return &service{repo: repo, resService: resService}
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Task, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, ErrTitleRequired
	}
	// Task must reference an existing resource.
	if _, err := s.resService.GetByID(ctx, req.ResourceID); err != nil {
		return nil, err
	}

	t := &Task{
		ResourceID:  req.ResourceID,
		Title:       req.Title,
		Description: req.Description,
		Status:      StatusOpen,
		ReportedBy:  req.ReportedBy,
	}

	if err := s.repo.Create(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*Task, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Task, int, error) {
	return s.repo.List(ctx, filter)
}

func (s *service) Update(ctx context.Context, id string, req UpdateRequest) (*Task, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		if strings.TrimSpace(*req.Title) == "" {
			return nil, ErrTitleRequired
		}
		t.Title = *req.Title
	}
	if req.Description != nil {
		t.Description = *req.Description
	}
	if req.Status != nil {
		status := TaskStatus(*req.Status)
		if !status.IsValid() {
			return nil, ErrInvalidStatus
		}
		t.Status = status
	}

	if err := s.repo.Update(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}
