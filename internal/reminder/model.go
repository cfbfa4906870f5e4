package reminder

import (
	"time"
)

// Status tracks a reminder row through its lifecycle.
type Status string

const (
	StatusPending   Status = "pending"
	StatusSent      Status = "sent"
	StatusCancelled Status = "cancelled"
)

// DefaultOffsets are the lead times before the booking start at which
// reminders fire.
var DefaultOffsets = []time.Duration{24 * time.Hour, time.Hour}

// Reminder is a persisted deferred notification. The row carries the
// full message payload so the poller needs no join at fire time, and it
// is keyed by booking id so cancellation and reschedule can retract
// pending rows.
type Reminder struct {
	ID            string
	BookingID     string
	FireAt        time.Time
	Status        Status
	GuestName     string
	GuestEmail    string
	EventTypeName string
	EventStart    time.Time
	EventEnd      time.Time
	Timezone      string
	MeetingLink   string
	CreatedAt     time.Time
}

// BookingInfo is what the booking engine hands over when arming reminders.
type BookingInfo struct {
	BookingID     string
	GuestName     string
	GuestEmail    string
	EventTypeName string
	StartTime     time.Time
	EndTime       time.Time
	Timezone      string
	MeetingLink   string
}
