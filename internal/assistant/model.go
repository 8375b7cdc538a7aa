package assistant

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrDisabled      = errors.New("assistant is not configured")
	ErrBadIntent     = errors.New("could not understand the request")
	ErrUnknownAction = errors.New("unknown assistant action")
)

// Actions the assistant may decide on.
const (
	ActionCheckAvailability = "check_availability"
	ActionReserveResource   = "reserve_resource"
	ActionReservePackage    = "reserve_package"
	ActionNone              = "none"
)

// BookingIntent is the structured decision decoded from the model output.
// Resources and packages are referenced by name, the way a person asks for
// them; resolution to IDs happens at execution time.
type BookingIntent struct {
	Action       string `json:"action"`
	ResourceName string `json:"resource_name,omitempty"`
	PackageName  string `json:"package_name,omitempty"`
	StartDate    string `json:"start_date,omitempty"`
	EndDate      string `json:"end_date,omitempty"`
	Purpose      string `json:"purpose,omitempty"`
	Reply        string `json:"reply,omitempty"`
}

// Window parses the intent's start/end into times. RFC 3339 only; the system
// prompt instructs the model to emit that format.
func (i *BookingIntent) Window() (start, end time.Time, err error) {
	start, err = time.Parse(time.RFC3339, i.StartDate)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: bad start date %q", ErrBadIntent, i.StartDate)
	}
	end, err = time.Parse(time.RFC3339, i.EndDate)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: bad end date %q", ErrBadIntent, i.EndDate)
	}
	return start, end, nil
}

// DecodeIntent extracts a BookingIntent from raw model output. Models often
// wrap JSON in a markdown code fence; strip it before decoding.
func DecodeIntent(raw string) (*BookingIntent, error) {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		if idx := strings.LastIndex(s, "```"); idx >= 0 {
			s = s[:idx]
		}
		s = strings.TrimSpace(s)
	}

	var intent BookingIntent
	if err := json.Unmarshal([]byte(s), &intent); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadIntent, err)
	}
	if intent.Action == "" {
		return nil, fmt.Errorf("%w: missing action", ErrBadIntent)
	}
	return &intent, nil
}

// Reply is what the assistant returns to the caller: a human-readable message
// plus the structured intent and any data produced by executing it.
type Reply struct {
	Message string         `json:"message"`
	Intent  *BookingIntent `json:"intent,omitempty"`
	Data    any            `json:"data,omitempty"`
}
