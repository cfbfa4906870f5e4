package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lumabook/scheduling-backend/internal/analytics"
	"github.com/lumabook/scheduling-backend/internal/auth"
	"github.com/lumabook/scheduling-backend/internal/pkg/response"
)

type Handler struct {
	service analytics.Service
}

func NewHandler(service analytics.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) bindRange(c *gin.Context) (*RangeQuery, bool) {
	var q RangeQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "from and to dates are required (YYYY-MM-DD)"})
		return nil, false
	}
	return &q, true
}

func (h *Handler) Summary(c *gin.Context) {
	q, ok := h.bindRange(c)
	if !ok {
		return
	}

	s, err := h.service.Summary(c.Request.Context(), auth.GetOwnerID(c), q.From, q.To)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, SummaryResponse{
		TotalBookings:      s.TotalBookings,
		TotalCancellations: s.TotalCancellations,
	})
}

func (h *Handler) Breakdown(c *gin.Context) {
	q, ok := h.bindRange(c)
	if !ok {
		return
	}

	items, err := h.service.BreakdownByEventType(c.Request.Context(), auth.GetOwnerID(c), q.From, q.To)
	if err != nil {
		response.Error(c, err)
		return
	}

	out := make([]BreakdownItem, len(items))
	for i, b := range items {
		out[i] = BreakdownItem{
			EventTypeID:       b.EventTypeID,
			EventTypeName:     b.EventTypeName,
			BookingCount:      b.BookingCount,
			CancellationCount: b.CancellationCount,
		}
	}
	c.JSON(http.StatusOK, gin.H{"items": out})
}

func (h *Handler) Series(c *gin.Context) {
	q, ok := h.bindRange(c)
	if !ok {
		return
	}

	points, err := h.service.DailySeries(c.Request.Context(), auth.GetOwnerID(c), q.From, q.To)
	if err != nil {
		response.Error(c, err)
		return
	}

	out := make([]DailyPointResponse, len(points))
	for i, p := range points {
		out[i] = newDailyPointResponse(p)
	}
	c.JSON(http.StatusOK, gin.H{"points": out})
}

func (h *Handler) Conversion(c *gin.Context) {
	q, ok := h.bindRange(c)
	if !ok {
		return
	}

	rate, err := h.service.ConversionRate(c.Request.Context(), auth.GetOwnerID(c), q.From, q.To)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, ConversionResponse{ConversionRate: rate})
}
