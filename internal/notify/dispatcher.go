// Package notify abstracts outbound guest and owner messaging. Rendering
// of the actual message content is the delivery service's concern; this
// package only carries the structured payload. All sends are best-effort.
package notify

import (
	"context"
	"time"
)

// Kind identifies the notification template to render downstream.
type Kind string

const (
	KindConfirmation Kind = "confirmation"
	KindCancellation Kind = "cancellation"
	KindReschedule   Kind = "reschedule"
	KindReminder     Kind = "reminder"
)

// Message is the payload handed to the delivery service. Owner copies
// carry only OwnerID; the delivery service resolves the owner's contact
// details from its own profile store.
type Message struct {
	Kind           Kind
	BookingID      string
	OwnerID        string
	EventTypeName  string
	RecipientName  string
	RecipientEmail string
	StartTime      time.Time
	EndTime        time.Time
	Timezone       string
	MeetingLink    string
	Reason         string
}

// Dispatcher sends booking lifecycle notifications. A failed send is
// logged by the caller and never affects booking state.
type Dispatcher interface {
	SendConfirmation(ctx context.Context, msg Message) error
	SendCancellation(ctx context.Context, msg Message) error
	SendReminder(ctx context.Context, msg Message) error
}
