package analytics

import (
	"net/http"
	"time"

	"github.com/lumabook/scheduling-backend/internal/pkg/apperror"
)

var (
	ErrInvalidField = apperror.New(http.StatusBadRequest, "invalid counter field")
	ErrInvalidDelta = apperror.New(http.StatusBadRequest, "delta must be positive")
	ErrInvalidRange = apperror.New(http.StatusBadRequest, "from date must not be after to date")
)

// Field selects which counter an increment applies to.
type Field string

const (
	FieldBookingCount      Field = "booking_count"
	FieldCancellationCount Field = "cancellation_count"
)

func (f Field) Valid() bool {
	return f == FieldBookingCount || f == FieldCancellationCount
}

// Counter is the per-(owner, event type, date) accumulator row. Counters
// only ever grow; cancellation adds to CancellationCount, it does not
// subtract BookingCount.
type Counter struct {
	OwnerID           string
	EventTypeID       string
	Date              time.Time
	BookingCount      int
	CancellationCount int
	UpdatedAt         time.Time
}

// Summary is the dashboard totals over a window.
type Summary struct {
	TotalBookings      int
	TotalCancellations int
}

// EventTypeBreakdown is the per-event aggregate over a window.
type EventTypeBreakdown struct {
	EventTypeID       string
	EventTypeName     string
	BookingCount      int
	CancellationCount int
}

// DailyPoint is one date bucket of the series endpoint.
type DailyPoint struct {
	Date              time.Time
	BookingCount      int
	CancellationCount int
}
