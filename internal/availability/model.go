package availability

import (
	"net/http"
	"time"

	"github.com/lumabook/scheduling-backend/internal/pkg/apperror"
	"github.com/lumabook/scheduling-backend/internal/pkg/localtime"
)

var (
	ErrSlotNotFound     = apperror.New(http.StatusNotFound, "availability slot not found")
	ErrBlockedNotFound  = apperror.New(http.StatusNotFound, "blocked time not found")
	ErrInvalidTimeRange = apperror.New(http.StatusBadRequest, "start time must be before end time")
	ErrInvalidDay       = apperror.New(http.StatusBadRequest, "invalid day of week")
	ErrSlotOverlap      = apperror.New(http.StatusBadRequest, "slots within a day must not overlap")
	ErrPermissionDenied = apperror.New(http.StatusForbidden, "permission denied")
)

// Slot is one row of the recurring weekly template for an event type.
// Start and End are local times of day in the owner's configured zone,
// never absolute instants.
type Slot struct {
	ID          string
	EventTypeID string
	Day         localtime.DayOfWeek
	Start       localtime.TimeOfDay
	End         localtime.TimeOfDay
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// BlockedTime is an owner-level absolute blackout window. It is advisory:
// conflict rejection never consults it, display does.
type BlockedTime struct {
	ID        string
	OwnerID   string
	StartTime time.Time
	EndTime   time.Time
	Reason    string
	CreatedAt time.Time
}
