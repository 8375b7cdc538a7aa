package respackage

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/opencampus/reservation-backend/internal/reservation"
	"github.com/opencampus/reservation-backend/internal/resource"
)

// packagePurposeTag marks reservations that belong to a package booking.
const packagePurposeTag = "(Pacote)"

// CreateRequest carries data to define a new package.
type CreateRequest struct {
	Name      string
	Subject   string
	CreatedBy string
	Members   []Member
}

// ReserveRequest books every member of a package for one shared window.
type ReserveRequest struct {
	PackageID   string
	UserID      string
	StartDate   time.Time
	EndDate     time.Time
	Purpose     string
	Description string
	Priority    string
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Package, error)
	GetByID(ctx context.Context, id string) (*Package, error)
	GetByName(ctx context.Context, name string) (*Package, error)
	List(ctx context.Context, filter Filter) ([]*Package, int, error)
	Delete(ctx context.Context, id string, deleterUserID string, isAdmin bool) error

	// Reserve books all members of a package for one shared window,
	// all-or-nothing. Either every member gets a reservation row or none do.
	Reserve(ctx context.Context, req ReserveRequest) ([]*reservation.Reservation, error)
}

type service struct {
	repo       Repository
	resService resource.Service
	rsvService reservation.Service
	log        zerolog.Logger
}

func NewService(repo Repository, resService resource.Service, rsvService reservation.Service, log zerolog.Logger) Service {
	return &service{
		repo:       repo,
		resService: resService,
		rsvService: rsvService,
		log:        log,
	}
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Package, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, ErrEmptyName
	}
	if len(req.Members) == 0 {
		return nil, ErrNoMembers
	}

	for i := range req.Members {
		if req.Members[i].QuantityNeeded == 0 {
			req.Members[i].QuantityNeeded = 1
		}
		if req.Members[i].QuantityNeeded < 1 {
			return nil, ErrBadQuantity
		}
		// Every member must reference an existing resource.
		res, err := s.resService.GetByID(ctx, req.Members[i].ResourceID)
		if err != nil {
			return nil, err
		}
		req.Members[i].ResourceName = res.Name
	}

	pkg := &Package{
		Name:      req.Name,
		Subject:   req.Subject,
		CreatedBy: req.CreatedBy,
		Members:   req.Members,
	}

	if err := s.repo.Create(ctx, pkg); err != nil {
		return nil, err
	}
	return pkg, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*Package, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) GetByName(ctx context.Context, name string) (*Package, error) {
	return s.repo.GetByName(ctx, strings.ToLower(strings.TrimSpace(name)))
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Package, int, error) {
	return s.repo.List(ctx, filter)
}

func (s *service) Delete(ctx context.Context, id string, deleterUserID string, isAdmin bool) error {
	pkg, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if pkg.CreatedBy != deleterUserID && !isAdmin {
		return ErrNotOwner
	}
	return s.repo.Delete(ctx, id)
}

// Reserve implements the two-phase all-or-nothing package booking.
//
// Phase 1 checks every member against the requested window and refuses the
// whole booking if any member has no free slot, naming every conflicting
// resource so the caller can offer alternatives.
//
// Phase 2 books the members sequentially through the capacity-guarded single
// reservation path. Each insert is individually race-free, so the only
// partial-failure window is between member inserts; a failure there triggers
// compensating deletion of every row created by this invocation. If a
// compensating delete itself fails, the remaining rows are orphaned and the
// condition is escalated for operator attention instead of auto-healed.
func (s *service) Reserve(ctx context.Context, req ReserveRequest) ([]*reservation.Reservation, error) {
	members, err := s.repo.GetMembers(ctx, req.PackageID)
	if err != nil {
		return nil, err
	}
	if len(members) == 0 {
		return nil, ErrNotFound
	}

	// Phase 1: all-or-nothing availability gate.
	var conflicting []string
	for _, m := range members {
		avail, err := s.rsvService.CheckAvailability(ctx, m.ResourceID, req.StartDate, req.EndDate, "")
		if err != nil {
			return nil, err
		}
		if avail.HasConflict {
			conflicting = append(conflicting, m.ResourceName)
		}
	}
	if len(conflicting) > 0 {
		return nil, &ConflictError{ConflictingResourceNames: conflicting}
	}

	purpose := strings.TrimSpace(req.Purpose)
	if purpose == "" {
		purpose = packagePurposeTag
	} else {
		purpose += " " + packagePurposeTag
	}

	// Phase 2: sequential booking with compensating rollback.
	created := make([]*reservation.Reservation, 0, len(members))
	for _, m := range members {
		resv, err := s.rsvService.Create(ctx, reservation.CreateRequest{
			UserID:      req.UserID,
			ResourceID:  m.ResourceID,
			StartDate:   req.StartDate,
			EndDate:     req.EndDate,
			Purpose:     purpose,
			Description: req.Description,
			Priority:    req.Priority,
		})
		if err != nil {
			return nil, s.rollback(ctx, created, m.ResourceName, err)
		}
		created = append(created, resv)
	}

	return created, nil
}

// rollback deletes every reservation created by the failed invocation and
// wraps the original cause. A delete failure leaves orphans behind, which is
// logged loudly and reported as a distinct error.
func (s *service) rollback(ctx context.Context, created []*reservation.Reservation, failedResource string, cause error) error {
	var orphaned []string
	var deleteErr error

	for _, resv := range created {
		if err := s.rsvService.Delete(ctx, resv.ID); err != nil {
			orphaned = append(orphaned, resv.ID)
			deleteErr = errors.Join(deleteErr, err)
		}
	}

	if len(orphaned) > 0 {
		s.log.Error().
			Strs("orphaned_reservation_ids", orphaned).
			Str("failed_resource", failedResource).
			AnErr("cause", cause).
			AnErr("delete_error", deleteErr).
			Msg("package rollback failed, partial package left behind")
		return &OrphanError{OrphanedReservationIDs: orphaned, Cause: deleteErr}
	}

	s.log.Warn().
		Int("rolled_back", len(created)).
		Str("failed_resource", failedResource).
		AnErr("cause", cause).
		Msg("package booking rolled back")
	return &BookingFailedError{ResourceName: failedResource, Cause: cause}
}
