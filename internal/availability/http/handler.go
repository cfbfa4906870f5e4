package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/lumabook/scheduling-backend/internal/auth"
	"github.com/lumabook/scheduling-backend/internal/availability"
	"github.com/lumabook/scheduling-backend/internal/pkg/response"
)

type Handler struct {
	service availability.Service
}

func NewHandler(service availability.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) ReplaceSlots(c *gin.Context) {
	eventTypeID := c.Param("id")
	if _, err := uuid.Parse(eventTypeID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	var body ReplaceSlotsBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	inputs, err := toSlotInputs(body.Slots)
	if err != nil {
		response.Error(c, err)
		return
	}

	slots, err := h.service.ReplaceSlots(c.Request.Context(), eventTypeID, auth.GetOwnerID(c), inputs)
	if err != nil {
		response.Error(c, err)
		return
	}

	out := make([]SlotResponse, len(slots))
	for i, s := range slots {
		out[i] = NewSlotResponse(s)
	}
	c.JSON(http.StatusOK, gin.H{"slots": out})
}

// ListActiveSlots is public: the guest booking page reads the active
// template to render openings.
func (h *Handler) ListActiveSlots(c *gin.Context) {
	eventTypeID := c.Param("id")
	if _, err := uuid.Parse(eventTypeID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	slots, err := h.service.GetActiveSlots(c.Request.Context(), eventTypeID)
	if err != nil {
		response.Error(c, err)
		return
	}

	out := make([]SlotResponse, len(slots))
	for i, s := range slots {
		out[i] = NewSlotResponse(s)
	}
	c.JSON(http.StatusOK, gin.H{"slots": out})
}

func (h *Handler) CreateBlocked(c *gin.Context) {
	var body CreateBlockedBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	bt, err := h.service.CreateBlocked(c.Request.Context(), availability.BlockedTimeInput{
		OwnerID:   auth.GetOwnerID(c),
		StartTime: body.StartTime,
		EndTime:   body.EndTime,
		Reason:    body.Reason,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewBlockedTimeResponse(bt))
}

func (h *Handler) ListBlocked(c *gin.Context) {
	var from, to *time.Time
	if v := c.Query("from"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			from = &t
		}
	}
	if v := c.Query("to"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			to = &t
		}
	}

	items, err := h.service.ListBlocked(c.Request.Context(), auth.GetOwnerID(c), from, to)
	if err != nil {
		response.Error(c, err)
		return
	}

	out := make([]BlockedTimeResponse, len(items))
	for i, bt := range items {
		out[i] = NewBlockedTimeResponse(bt)
	}
	c.JSON(http.StatusOK, gin.H{"blocked_times": out})
}

func (h *Handler) DeleteBlocked(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	if err := h.service.DeleteBlocked(c.Request.Context(), id, auth.GetOwnerID(c)); err != nil {
		response.Error(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
