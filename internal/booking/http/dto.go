package http

import (
	"time"

	"github.com/lumabook/scheduling-backend/internal/booking"
	"github.com/lumabook/scheduling-backend/internal/pkg/request"
)

type CreateBookingBody struct {
	EventTypeID   string    `json:"event_type_id" binding:"required,uuid"`
	GuestName     string    `json:"guest_name" binding:"required,max=200"`
	GuestEmail    string    `json:"guest_email" binding:"required,email"`
	GuestPhone    string    `json:"guest_phone" binding:"omitempty,max=50"`
	GuestTimezone string    `json:"guest_timezone" binding:"omitempty,max=100"`
	StartTime     time.Time `json:"start_time" binding:"required"`
}

type CancelBookingBody struct {
	Reason string `json:"reason" binding:"omitempty,max=500"`
}

type RescheduleBookingBody struct {
	StartTime time.Time `json:"start_time" binding:"required"`
}

type ListBookingsRequest struct {
	request.ListParams
	EventTypeID string     `form:"event_type_id" binding:"omitempty,uuid"`
	Status      string     `form:"status" binding:"omitempty,oneof=confirmed cancelled"`
	StartFrom   *time.Time `form:"start_from" time_format:"2006-01-02T15:04:05Z07:00"`
	StartTo     *time.Time `form:"start_to" time_format:"2006-01-02T15:04:05Z07:00"`
}

type BookingResponse struct {
	ID            string     `json:"id"`
	EventTypeID   string     `json:"event_type_id"`
	OwnerID       string     `json:"owner_id"`
	GuestName     string     `json:"guest_name"`
	GuestEmail    string     `json:"guest_email"`
	GuestPhone    string     `json:"guest_phone,omitempty"`
	GuestTimezone string     `json:"guest_timezone,omitempty"`
	StartTime     time.Time  `json:"start_time"`
	EndTime       time.Time  `json:"end_time"`
	Status        string     `json:"status"`
	MeetingLink   *string    `json:"meeting_link"`
	CancelReason  *string    `json:"cancel_reason,omitempty"`
	CancelledAt   *time.Time `json:"cancelled_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

func NewBookingResponse(b *booking.Booking) BookingResponse {
	return BookingResponse{
		ID:            b.ID,
		EventTypeID:   b.EventTypeID,
		OwnerID:       b.OwnerID,
		GuestName:     b.GuestName,
		GuestEmail:    b.GuestEmail,
		GuestPhone:    b.GuestPhone,
		GuestTimezone: b.GuestTimezone,
		StartTime:     b.StartTime,
		EndTime:       b.EndTime,
		Status:        string(b.Status),
		MeetingLink:   b.MeetingLink,
		CancelReason:  b.CancelReason,
		CancelledAt:   b.CancelledAt,
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}
}

// EffectResponse reports one post-commit side effect outcome so clients
// can see, for example, that the booking committed but no meeting link
// could be provisioned.
type EffectResponse struct {
	Name  string `json:"name"`
	Ok    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// BookingWithEffectsResponse wraps the booking with its side-effect
// report. The report is informational; the booking itself is committed.
type BookingWithEffectsResponse struct {
	Booking BookingResponse  `json:"booking"`
	Effects []EffectResponse `json:"effects"`
}

func NewBookingWithEffectsResponse(b *booking.Booking, report *booking.SideEffectReport) BookingWithEffectsResponse {
	effects := make([]EffectResponse, 0, len(report.Results))
	for _, res := range report.Results {
		e := EffectResponse{Name: res.Name, Ok: res.Err == nil}
		if res.Err != nil {
			e.Error = res.Err.Error()
		}
		effects = append(effects, e)
	}
	return BookingWithEffectsResponse{
		Booking: NewBookingResponse(b),
		Effects: effects,
	}
}
