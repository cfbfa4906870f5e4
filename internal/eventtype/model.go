package eventtype

import (
	"net/http"
	"time"

	"github.com/lumabook/scheduling-backend/internal/pkg/apperror"
)

var (
	ErrNotFound         = apperror.New(http.StatusNotFound, "event type not found")
	ErrSlugTaken        = apperror.New(http.StatusConflict, "slug already in use for this owner")
	ErrEmptyName        = apperror.New(http.StatusBadRequest, "name cannot be empty")
	ErrInvalidSlug      = apperror.New(http.StatusBadRequest, "slug must be lowercase letters, digits and hyphens")
	ErrInvalidDuration  = apperror.New(http.StatusBadRequest, "duration must be a positive number of minutes")
	ErrInvalidTimezone  = apperror.New(http.StatusBadRequest, "timezone must be a valid IANA zone name")
	ErrInvalidWindow    = apperror.New(http.StatusBadRequest, "advance notice and booking window must not be negative")
	ErrPermissionDenied = apperror.New(http.StatusForbidden, "permission denied")
)

// EventType is an owner-defined bookable service with a fixed duration.
// DurationMinutes is immutable for the lifetime of bookings derived from
// it: changing it never resizes existing bookings.
type EventType struct {
	ID                  string
	OwnerID             string
	Name                string
	Slug                string
	Description         string
	DurationMinutes     int
	BufferBeforeMinutes int
	BufferAfterMinutes  int
	MinNoticeMinutes    int
	MaxWindowDays       int
	Timezone            string
	IsActive            bool
	DeletedAt           *time.Time
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// Location resolves the owner's configured IANA zone.
func (e *EventType) Location() (*time.Location, error) {
	return time.LoadLocation(e.Timezone)
}

// Duration returns the event duration as a time.Duration.
func (e *EventType) Duration() time.Duration {
	return time.Duration(e.DurationMinutes) * time.Minute
}

// Filter defines parameters for listing event types.
type Filter struct {
	OwnerID  string
	Active   *bool
	Page     int
	PageSize int
}
