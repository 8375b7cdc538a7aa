package assistant

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/opencampus/reservation-backend/internal/reservation"
	"github.com/opencampus/reservation-backend/internal/resource"
	"github.com/opencampus/reservation-backend/internal/respackage"
)

const systemPromptTemplate = `You are a booking assistant for a university resource reservation system.
Turn the user's request into a single JSON object, with no surrounding text, shaped as:
{
  "action": "check_availability" | "reserve_resource" | "reserve_package" | "none",
  "resource_name": "<resource name, for resource actions>",
  "package_name": "<package name, for reserve_package>",
  "start_date": "<RFC 3339 timestamp>",
  "end_date": "<RFC 3339 timestamp>",
  "purpose": "<short purpose, for reservations>",
  "reply": "<what to tell the user, for action none>"
}
Use action "none" with a helpful reply when the request is not about checking or booking resources.
The current time is %s.`

type Service interface {
	// Chat interprets one natural-language message and executes the booking
	// action it implies on behalf of userID.
	Chat(ctx context.Context, userID, message string) (*Reply, error)
}

type service struct {
	completer  Completer
	resService resource.Service
	rsvService reservation.Service
	pkgService respackage.Service
	log        zerolog.Logger
	nowFn      func() time.Time
}

func NewService(completer Completer, resService resource.Service, rsvService reservation.Service, pkgService respackage.Service, log zerolog.Logger) Service {
	return &service{
		completer:  completer,
		resService: resService,
		rsvService: rsvService,
		pkgService: pkgService,
		log:        log,
		nowFn:      time.Now,
	}
}

func (s *service) Chat(ctx context.Context, userID, message string) (*Reply, error) {
	if s.completer == nil {
		return nil, ErrDisabled
	}

	prompt := fmt.Sprintf(systemPromptTemplate, s.nowFn().Format(time.RFC3339))
	raw, err := s.completer.Complete(ctx, prompt, message)
	if err != nil {
		return nil, err
	}

	intent, err := DecodeIntent(raw)
	if err != nil {
		s.log.Warn().Err(err).Str("raw", raw).Msg("undecodable assistant output")
		return nil, err
	}

	return s.execute(ctx, userID, intent)
}

func (s *service) execute(ctx context.Context, userID string, intent *BookingIntent) (*Reply, error) {
	switch intent.Action {
	case ActionNone:
		msg := intent.Reply
		if msg == "" {
			msg = "I can check availability and book resources or packages. What do you need?"
		}
		return &Reply{Message: msg, Intent: intent}, nil

	case ActionCheckAvailability:
		res, err := s.resService.GetByName(ctx, intent.ResourceName)
		if err != nil {
			if errors.Is(err, resource.ErrNotFound) {
				return &Reply{Message: fmt.Sprintf("I could not find a resource called %q.", intent.ResourceName), Intent: intent}, nil
			}
			return nil, err
		}
		start, end, err := intent.Window()
		if err != nil {
			return nil, err
		}
		avail, err := s.rsvService.CheckAvailability(ctx, res.ID, start, end, "")
		if err != nil {
			return nil, err
		}
		msg := fmt.Sprintf("%s is available for that window (%d of %d slots free).",
			res.Name, avail.AvailableSlots, avail.TotalQuantity)
		if avail.HasConflict {
			msg = fmt.Sprintf("%s is fully booked for that window (%d of %d slots taken).",
				res.Name, avail.ReservedSlots, avail.TotalQuantity)
		}
		return &Reply{Message: msg, Intent: intent, Data: avail}, nil

	case ActionReserveResource:
		res, err := s.resService.GetByName(ctx, intent.ResourceName)
		if err != nil {
			if errors.Is(err, resource.ErrNotFound) {
				return &Reply{Message: fmt.Sprintf("I could not find a resource called %q.", intent.ResourceName), Intent: intent}, nil
			}
			return nil, err
		}
		start, end, err := intent.Window()
		if err != nil {
			return nil, err
		}
		resv, err := s.rsvService.Create(ctx, reservation.CreateRequest{
			UserID:     userID,
			ResourceID: res.ID,
			StartDate:  start,
			EndDate:    end,
			Purpose:    orDefault(intent.Purpose, "Booked via assistant"),
		})
		if err != nil {
			var conflict *reservation.ConflictError
			if errors.As(err, &conflict) {
				return &Reply{
					Message: fmt.Sprintf("%s has no free slot for that window.", res.Name),
					Intent:  intent,
					Data:    conflict.Availability,
				}, nil
			}
			return nil, err
		}
		return &Reply{
			Message: fmt.Sprintf("Booked %s from %s to %s. The reservation is pending approval.",
				res.Name, start.Format(time.RFC3339), end.Format(time.RFC3339)),
			Intent: intent,
			Data:   resv,
		}, nil

	case ActionReservePackage:
		pkg, err := s.pkgService.GetByName(ctx, intent.PackageName)
		if err != nil {
			if errors.Is(err, respackage.ErrNotFound) {
				return &Reply{Message: fmt.Sprintf("I could not find a package called %q.", intent.PackageName), Intent: intent}, nil
			}
			return nil, err
		}
		start, end, err := intent.Window()
		if err != nil {
			return nil, err
		}
		reservations, err := s.pkgService.Reserve(ctx, respackage.ReserveRequest{
			PackageID: pkg.ID,
			UserID:    userID,
			StartDate: start,
			EndDate:   end,
			Purpose:   orDefault(intent.Purpose, "Booked via assistant"),
		})
		if err != nil {
			var conflict *respackage.ConflictError
			if errors.As(err, &conflict) {
				return &Reply{
					Message: fmt.Sprintf("The package %s cannot be booked: no free slot for %v.",
						pkg.Name, conflict.ConflictingResourceNames),
					Intent: intent,
				}, nil
			}
			return nil, err
		}
		return &Reply{
			Message: fmt.Sprintf("Booked all %d resources of package %s.", len(reservations), pkg.Name),
			Intent:  intent,
			Data:    reservations,
		}, nil

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownAction, intent.Action)
	}
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
