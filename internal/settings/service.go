package settings

import (
	"context"
)

// UpdateRequest carries partial policy updates.
type UpdateRequest struct {
	MaxActiveReservationsPerUser *int
	MaxAdvanceBookingDays        *int
}

type Service interface {
	Get(ctx context.Context) (*Policy, error)
	Update(ctx context.Context, req UpdateRequest) (*Policy, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Get(ctx context.Context) (*Policy, error) {
	return s.repo.Get(ctx)
}

func (s *service) Update(ctx context.Context, req UpdateRequest) (*Policy, error) {
	p, err := s.repo.Get(ctx)
	if err != nil {
		return nil, err
	}

	if req.MaxActiveReservationsPerUser != nil {
		if *req.MaxActiveReservationsPerUser < 0 {
			return nil, ErrInvalidLimit
		}
		p.MaxActiveReservationsPerUser = *req.MaxActiveReservationsPerUser
	}
	if req.MaxAdvanceBookingDays != nil {
		if *req.MaxAdvanceBookingDays < 0 {
			return nil, ErrInvalidLimit
		}
		p.MaxAdvanceBookingDays = *req.MaxAdvanceBookingDays
	}

	if err := s.repo.Save(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}
