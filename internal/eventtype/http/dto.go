package http

import (
	"time"

	"github.com/lumabook/scheduling-backend/internal/eventtype"
	"github.com/lumabook/scheduling-backend/internal/pkg/request"
)

type CreateEventTypeBody struct {
	Name                string `json:"name" binding:"required"`
	Slug                string `json:"slug" binding:"required"`
	Description         string `json:"description"`
	DurationMinutes     int    `json:"duration_minutes" binding:"required,min=1"`
	BufferBeforeMinutes int    `json:"buffer_before_minutes" binding:"omitempty,min=0"`
	BufferAfterMinutes  int    `json:"buffer_after_minutes" binding:"omitempty,min=0"`
	MinNoticeMinutes    int    `json:"min_notice_minutes" binding:"omitempty,min=0"`
	MaxWindowDays       int    `json:"max_window_days" binding:"omitempty,min=0"`
	Timezone            string `json:"timezone"`
}

type UpdateEventTypeBody struct {
	Name                *string `json:"name"`
	Slug                *string `json:"slug"`
	Description         *string `json:"description"`
	DurationMinutes     *int    `json:"duration_minutes" binding:"omitempty,min=1"`
	BufferBeforeMinutes *int    `json:"buffer_before_minutes" binding:"omitempty,min=0"`
	BufferAfterMinutes  *int    `json:"buffer_after_minutes" binding:"omitempty,min=0"`
	MinNoticeMinutes    *int    `json:"min_notice_minutes" binding:"omitempty,min=0"`
	MaxWindowDays       *int    `json:"max_window_days" binding:"omitempty,min=0"`
	Timezone            *string `json:"timezone"`
	IsActive            *bool   `json:"is_active"`
}

type ListEventTypesRequest struct {
	request.ListParams
	Active *bool `form:"active"`
}

type EventTypeResponse struct {
	ID                  string    `json:"id"`
	OwnerID             string    `json:"owner_id"`
	Name                string    `json:"name"`
	Slug                string    `json:"slug"`
	Description         string    `json:"description"`
	DurationMinutes     int       `json:"duration_minutes"`
	BufferBeforeMinutes int       `json:"buffer_before_minutes"`
	BufferAfterMinutes  int       `json:"buffer_after_minutes"`
	MinNoticeMinutes    int       `json:"min_notice_minutes"`
	MaxWindowDays       int       `json:"max_window_days"`
	Timezone            string    `json:"timezone"`
	IsActive            bool      `json:"is_active"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

func NewEventTypeResponse(et *eventtype.EventType) EventTypeResponse {
	return EventTypeResponse{
		ID:                  et.ID,
		OwnerID:             et.OwnerID,
		Name:                et.Name,
		Slug:                et.Slug,
		Description:         et.Description,
		DurationMinutes:     et.DurationMinutes,
		BufferBeforeMinutes: et.BufferBeforeMinutes,
		BufferAfterMinutes:  et.BufferAfterMinutes,
		MinNoticeMinutes:    et.MinNoticeMinutes,
		MaxWindowDays:       et.MaxWindowDays,
		Timezone:            et.Timezone,
		IsActive:            et.IsActive,
		CreatedAt:           et.CreatedAt,
		UpdatedAt:           et.UpdatedAt,
	}
}

// PublicEventTypeResponse is the reduced shape exposed on the guest-facing
// booking page lookup.
type PublicEventTypeResponse struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Slug            string `json:"slug"`
	Description     string `json:"description"`
	DurationMinutes int    `json:"duration_minutes"`
	Timezone        string `json:"timezone"`
}

func NewPublicEventTypeResponse(et *eventtype.EventType) PublicEventTypeResponse {
	return PublicEventTypeResponse{
		ID:              et.ID,
		Name:            et.Name,
		Slug:            et.Slug,
		Description:     et.Description,
		DurationMinutes: et.DurationMinutes,
		Timezone:        et.Timezone,
	}
}
