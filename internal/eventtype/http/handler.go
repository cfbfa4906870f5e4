package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/lumabook/scheduling-backend/internal/auth"
	"github.com/lumabook/scheduling-backend/internal/eventtype"
	"github.com/lumabook/scheduling-backend/internal/pkg/response"
)

type Handler struct {
	service eventtype.Service
}

func NewHandler(service eventtype.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Create(c *gin.Context) {
	var body CreateEventTypeBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	ownerID := auth.GetOwnerID(c)
	if ownerID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	et, err := h.service.Create(c.Request.Context(), eventtype.CreateRequest{
		OwnerID:             ownerID,
		Name:                body.Name,
		Slug:                body.Slug,
		Description:         body.Description,
		DurationMinutes:     body.DurationMinutes,
		BufferBeforeMinutes: body.BufferBeforeMinutes,
		BufferAfterMinutes:  body.BufferAfterMinutes,
		MinNoticeMinutes:    body.MinNoticeMinutes,
		MaxWindowDays:       body.MaxWindowDays,
		Timezone:            body.Timezone,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewEventTypeResponse(et))
}

func (h *Handler) List(c *gin.Context) {
	var req ListEventTypesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters"})
		return
	}

	filter := eventtype.Filter{
		OwnerID:  auth.GetOwnerID(c),
		Active:   req.Active,
		Page:     req.Page,
		PageSize: req.PageSize,
	}

	items, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	out := make([]EventTypeResponse, len(items))
	for i, et := range items {
		out[i] = NewEventTypeResponse(et)
	}

	c.JSON(http.StatusOK, response.NewPageResponse(out, filter.Page, filter.PageSize, total))
}

func (h *Handler) Get(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	et, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	if et.OwnerID != auth.GetOwnerID(c) {
		c.JSON(http.StatusForbidden, gin.H{"error": "permission denied"})
		return
	}

	c.JSON(http.StatusOK, NewEventTypeResponse(et))
}

// GetPublic exposes the guest-facing shape without requiring a token.
// Inactive and soft-deleted event types are reported as not found.
func (h *Handler) GetPublic(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	et, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	if !et.IsActive {
		response.Error(c, eventtype.ErrNotFound)
		return
	}

	c.JSON(http.StatusOK, NewPublicEventTypeResponse(et))
}

// GetPublicBySlug is the booking-page lookup by owner id and slug.
func (h *Handler) GetPublicBySlug(c *gin.Context) {
	ownerID := c.Param("owner")
	if _, err := uuid.Parse(ownerID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	et, err := h.service.GetByOwnerSlug(c.Request.Context(), ownerID, c.Param("slug"))
	if err != nil {
		response.Error(c, err)
		return
	}
	if !et.IsActive {
		response.Error(c, eventtype.ErrNotFound)
		return
	}

	c.JSON(http.StatusOK, NewPublicEventTypeResponse(et))
}

func (h *Handler) Update(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	var body UpdateEventTypeBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	et, err := h.service.Update(c.Request.Context(), id, auth.GetOwnerID(c), eventtype.UpdateRequest{
		Name:                body.Name,
		Slug:                body.Slug,
		Description:         body.Description,
		DurationMinutes:     body.DurationMinutes,
		BufferBeforeMinutes: body.BufferBeforeMinutes,
		BufferAfterMinutes:  body.BufferAfterMinutes,
		MinNoticeMinutes:    body.MinNoticeMinutes,
		MaxWindowDays:       body.MaxWindowDays,
		Timezone:            body.Timezone,
		IsActive:            body.IsActive,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewEventTypeResponse(et))
}

func (h *Handler) Delete(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	if err := h.service.Delete(c.Request.Context(), id, auth.GetOwnerID(c)); err != nil {
		response.Error(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
