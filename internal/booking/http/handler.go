package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/lumabook/scheduling-backend/internal/auth"
	"github.com/lumabook/scheduling-backend/internal/booking"
	"github.com/lumabook/scheduling-backend/internal/pkg/response"
)

type Handler struct {
	service booking.Service
}

func NewHandler(service booking.Service) *Handler {
	return &Handler{service: service}
}

// Create is the guest-facing booking endpoint. No token is required; the
// event type id acts as the public booking-page handle.
func (h *Handler) Create(c *gin.Context) {
	var body CreateBookingBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	b, report, err := h.service.Create(c.Request.Context(), booking.CreateRequest{
		EventTypeID:   body.EventTypeID,
		GuestName:     body.GuestName,
		GuestEmail:    body.GuestEmail,
		GuestPhone:    body.GuestPhone,
		GuestTimezone: body.GuestTimezone,
		StartTime:     body.StartTime,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewBookingWithEffectsResponse(b, report))
}

func (h *Handler) List(c *gin.Context) {
	var req ListBookingsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters"})
		return
	}

	filter := booking.Filter{
		OwnerID:     auth.GetOwnerID(c),
		EventTypeID: req.EventTypeID,
		Status:      req.Status,
		StartFrom:   req.StartFrom,
		StartTo:     req.StartTo,
		Page:        req.Page,
		PageSize:    req.PageSize,
	}

	items, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	out := make([]BookingResponse, len(items))
	for i, b := range items {
		out[i] = NewBookingResponse(b)
	}

	c.JSON(http.StatusOK, response.NewPageResponse(out, filter.Page, filter.PageSize, total))
}

func (h *Handler) Get(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	b, err := h.service.GetByID(c.Request.Context(), id, auth.GetOwnerID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewBookingResponse(b))
}

func (h *Handler) Cancel(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	var body CancelBookingBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	b, report, err := h.service.Cancel(c.Request.Context(), id, auth.GetOwnerID(c), body.Reason)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewBookingWithEffectsResponse(b, report))
}

func (h *Handler) Reschedule(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	var body RescheduleBookingBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	b, report, err := h.service.Reschedule(c.Request.Context(), id, auth.GetOwnerID(c), body.StartTime)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewBookingWithEffectsResponse(b, report))
}
