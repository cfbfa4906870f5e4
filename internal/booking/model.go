package booking

import (
	"net/http"
	"time"

	"github.com/lumabook/scheduling-backend/internal/pkg/apperror"
)

var (
	ErrNotFound          = apperror.New(http.StatusNotFound, "booking not found")
	ErrEventTypeNotFound = apperror.New(http.StatusNotFound, "event type not found")
	ErrTimeConflict      = apperror.New(http.StatusConflict, "time slot already booked")
	ErrAlreadyCancelled  = apperror.New(http.StatusConflict, "booking is already cancelled")
	ErrStartTimePast     = apperror.New(http.StatusBadRequest, "cannot create booking in the past")
	ErrTooSoon           = apperror.New(http.StatusBadRequest, "booking does not meet the minimum advance notice")
	ErrTooFarAhead       = apperror.New(http.StatusBadRequest, "booking is beyond the maximum advance window")
	ErrInvalidInput      = apperror.New(http.StatusBadRequest, "invalid input parameters")
)

type Status string

const (
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
)

// Booking is a guest's reservation of a specific instant against an
// event type. EndTime is derived from the event type duration at
// creation or reschedule time and never independently mutated.
type Booking struct {
	ID                string
	EventTypeID       string
	OwnerID           string
	GuestName         string
	GuestEmail        string
	GuestPhone        string
	GuestTimezone     string
	StartTime         time.Time
	EndTime           time.Time
	Status            Status
	MeetingLink       *string
	ExternalMeetingID *string
	CancelReason      *string
	CancelledAt       *time.Time
	DeletedAt         *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Filter defines parameters for listing bookings.
type Filter struct {
	OwnerID     string
	EventTypeID string
	Status      string
	StartFrom   *time.Time
	StartTo     *time.Time
	Page        int
	PageSize    int
}

// EffectResult captures the outcome of one best-effort side effect.
type EffectResult struct {
	Name string
	Err  error
}

// SideEffectReport collects the outcomes of the post-commit side
// effects. Failures here never surface as the primary call's error and
// never reverse the committed booking.
type SideEffectReport struct {
	Results []EffectResult
}

func (r *SideEffectReport) record(name string, err error) {
	r.Results = append(r.Results, EffectResult{Name: name, Err: err})
}

// Failed returns the effects that reported an error.
func (r *SideEffectReport) Failed() []EffectResult {
	var failed []EffectResult
	for _, res := range r.Results {
		if res.Err != nil {
			failed = append(failed, res)
		}
	}
	return failed
}
