package reservation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/opencampus/reservation-backend/internal/resource"
	"github.com/opencampus/reservation-backend/internal/settings"
)

// CreateRequest carries everything needed to book a single resource.
type CreateRequest struct {
	UserID       string
	ResourceID   string
	StartDate    time.Time
	EndDate      time.Time
	Purpose      string
	Description  string
	Priority     string
	Attendees    int
	Requirements string
}

type Service interface {
	// CheckAvailability computes the slot arithmetic for one resource and one
	// window. Read-only; the result is a point-in-time snapshot and does not
	// reserve anything. excludeID skips one reservation from the count, used
	// when re-checking an edit of an existing row.
	CheckAvailability(ctx context.Context, resourceID string, start, end time.Time, excludeID string) (*Availability, error)

	// Create books one resource, enforcing capacity atomically: the overlap
	// count and the insert run under a per-resource lock, so two sessions
	// racing for the last slot cannot both win.
	Create(ctx context.Context, req CreateRequest) (*Reservation, error)

	GetByID(ctx context.Context, id string) (*Reservation, error)
	List(ctx context.Context, filter Filter) ([]*Reservation, int, error)

	// UpdateStatus moves a pending reservation to approved or rejected.
	// Any other transition fails with ErrInvalidTransition.
	UpdateStatus(ctx context.Context, id string, status Status) (*Reservation, error)

	// Delete removes a reservation row. Exposed for the package coordinator's
	// compensating rollback; there is no user-facing cancellation.
	Delete(ctx context.Context, id string) error
}

type service struct {
	repo        Repository
	resService  resource.Service
	polService  settings.Service
	nowFn       func() time.Time
}

func NewService(repo Repository, resService resource.Service, polService settings.Service) Service {
	return &service{
		repo:       repo,
		resService: resService,
		polService: polService,
		nowFn:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *service) CheckAvailability(ctx context.Context, resourceID string, start, end time.Time, excludeID string) (*Availability, error) {
	res, err := s.resService.GetByID(ctx, resourceID)
	if err != nil {
		if errors.Is(err, resource.ErrNotFound) {
			return nil, ErrResourceNotFound
		}
		return nil, err
	}

	reserved, err := s.repo.CountOverlapping(ctx, resourceID, start, end, excludeID)
	if err != nil {
		return nil, err
	}

	avail := &Availability{
		TotalQuantity: res.Quantity,
		ReservedSlots: reserved,
	}
	avail.AvailableSlots = res.Quantity - reserved
	if avail.AvailableSlots < 0 {
		avail.AvailableSlots = 0
	}

	// A resource under maintenance is blocked outright, whatever the count says.
	if res.Status == resource.StatusMaintenance {
		avail.AvailableSlots = 0
	}
	avail.HasConflict = avail.AvailableSlots <= 0

	return avail, nil
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Reservation, error) {
	// 1. Validate the window and priority.
	if !req.StartDate.Before(req.EndDate) {
		return nil, ErrInvalidTimeRange
	}

	priority := Priority(req.Priority)
	if req.Priority == "" {
		priority = PriorityNormal
	}
	if !priority.IsValid() {
		return nil, ErrInvalidPriority
	}

	// 2. Validate the resource.
	res, err := s.resService.GetByID(ctx, req.ResourceID)
	if err != nil {
		if errors.Is(err, resource.ErrNotFound) {
			return nil, ErrResourceNotFound
		}
		return nil, err
	}

	// A zero-quantity resource can never satisfy a reservation.
	if res.Quantity == 0 {
		return nil, &ConflictError{Availability{HasConflict: true}}
	}

	if res.Status == resource.StatusMaintenance {
		reserved, err := s.repo.CountOverlapping(ctx, req.ResourceID, req.StartDate, req.EndDate, "")
		if err != nil {
			return nil, err
		}
		return nil, &ConflictError{Availability{
			HasConflict:   true,
			TotalQuantity: res.Quantity,
			ReservedSlots: reserved,
		}}
	}

	// 3. Enforce the booking policy.
	if err := s.checkPolicy(ctx, req); err != nil {
		return nil, err
	}

	// 4. Insert under the per-resource lock. The repository re-counts inside
	// the same transaction, so the availability seen here is authoritative.
	resv := &Reservation{
		UserID:       req.UserID,
		ResourceID:   req.ResourceID,
		ResourceName: res.Name,
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
		Status:       StatusPending,
		Priority:     priority,
		Purpose:      strings.TrimSpace(req.Purpose),
		Description:  req.Description,
		Attendees:    req.Attendees,
		Requirements: req.Requirements,
	}

	reserved, err := s.repo.CreateGuarded(ctx, resv, res.Quantity)
	if err != nil {
		if errors.Is(err, ErrNoCapacity) {
			available := res.Quantity - reserved
			if available < 0 {
				available = 0
			}
			return nil, &ConflictError{Availability{
				HasConflict:    true,
				TotalQuantity:  res.Quantity,
				ReservedSlots:  reserved,
				AvailableSlots: available,
			}}
		}
		return nil, fmt.Errorf("create reservation failed: %w", err)
	}

	return resv, nil
}

func (s *service) checkPolicy(ctx context.Context, req CreateRequest) error {
	policy, err := s.polService.Get(ctx)
	if err != nil {
		return fmt.Errorf("load booking policy failed: %w", err)
	}

	now := s.nowFn()

	if limit := policy.MaxActiveReservationsPerUser; limit > 0 {
		active, err := s.repo.CountActiveByUser(ctx, req.UserID, now)
		if err != nil {
			return err
		}
		if active >= limit {
			return ErrReservationLimit
		}
	}

	if days := policy.MaxAdvanceBookingDays; days > 0 {
		horizon := now.AddDate(0, 0, days)
		if req.StartDate.After(horizon) {
			return ErrTooFarAhead
		}
	}

	return nil
}

func (s *service) GetByID(ctx context.Context, id string) (*Reservation, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Reservation, int, error) {
	return s.repo.List(ctx, filter)
}

func (s *service) UpdateStatus(ctx context.Context, id string, status Status) (*Reservation, error) {
	if status != StatusApproved && status != StatusRejected {
		return nil, ErrInvalidStatus
	}

	resv, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// One-way gate: approved and rejected are terminal.
	if resv.Status != StatusPending {
		return nil, ErrInvalidTransition
	}

	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}

	resv.Status = status
	return resv, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
