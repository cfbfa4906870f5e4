// Package meeting abstracts the external conferencing provider that issues
// meeting links for bookings. Provisioning is best-effort: a failed call
// leaves the booking without a link, it never fails the booking itself.
package meeting

import (
	"context"
	"errors"
	"time"
)

// ErrNotConfigured is returned when no provider endpoint is configured.
var ErrNotConfigured = errors.New("meeting provider is not configured")

// Spec describes the meeting to provision for a booking.
type Spec struct {
	BookingID     string
	EventTypeName string
	GuestName     string
	GuestEmail    string
	StartTime     time.Time
	EndTime       time.Time
}

// Details is the provider's handle on a provisioned meeting.
type Details struct {
	Link       string
	ExternalID string
}

// Provisioner creates, updates and deletes external meeting resources.
type Provisioner interface {
	Create(ctx context.Context, spec Spec) (*Details, error)
	Update(ctx context.Context, externalID string, spec Spec) error
	Delete(ctx context.Context, externalID string) error
}

type disabled struct{}

func (disabled) Create(context.Context, Spec) (*Details, error) { return nil, ErrNotConfigured }
func (disabled) Update(context.Context, string, Spec) error     { return ErrNotConfigured }
func (disabled) Delete(context.Context, string) error           { return ErrNotConfigured }

// NewDisabled returns a Provisioner that always reports ErrNotConfigured.
// Used when MEETING_PROVIDER_URL is empty; bookings then commit with a
// null meeting link.
func NewDisabled() Provisioner {
	return disabled{}
}
