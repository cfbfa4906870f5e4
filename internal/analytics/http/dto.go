package http

import (
	"time"

	"github.com/lumabook/scheduling-backend/internal/analytics"
)

type RangeQuery struct {
	From time.Time `form:"from" time_format:"2006-01-02" binding:"required"`
	To   time.Time `form:"to" time_format:"2006-01-02" binding:"required"`
}

type SummaryResponse struct {
	TotalBookings      int `json:"total_bookings"`
	TotalCancellations int `json:"total_cancellations"`
}

type BreakdownItem struct {
	EventTypeID       string `json:"event_type_id"`
	EventTypeName     string `json:"event_type_name"`
	BookingCount      int    `json:"booking_count"`
	CancellationCount int    `json:"cancellation_count"`
}

type DailyPointResponse struct {
	Date              string `json:"date"`
	BookingCount      int    `json:"booking_count"`
	CancellationCount int    `json:"cancellation_count"`
}

func newDailyPointResponse(p *analytics.DailyPoint) DailyPointResponse {
	return DailyPointResponse{
		Date:              p.Date.Format("2006-01-02"),
		BookingCount:      p.BookingCount,
		CancellationCount: p.CancellationCount,
	}
}

type ConversionResponse struct {
	ConversionRate float64 `json:"conversion_rate"`
}
