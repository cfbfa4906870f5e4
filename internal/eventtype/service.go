package eventtype

import (
	"context"
	"regexp"
	"strings"
	"time"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

type CreateRequest struct {
	OwnerID             string
	Name                string
	Slug                string
	Description         string
	DurationMinutes     int
	BufferBeforeMinutes int
	BufferAfterMinutes  int
	MinNoticeMinutes    int
	MaxWindowDays       int
	Timezone            string
}

type UpdateRequest struct {
	Name                *string
	Slug                *string
	Description         *string
	DurationMinutes     *int
	BufferBeforeMinutes *int
	BufferAfterMinutes  *int
	MinNoticeMinutes    *int
	MaxWindowDays       *int
	Timezone            *string
	IsActive            *bool
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*EventType, error)
	GetByID(ctx context.Context, id string) (*EventType, error)
	GetByOwnerSlug(ctx context.Context, ownerID, slug string) (*EventType, error)
	List(ctx context.Context, filter Filter) ([]*EventType, int, error)
	Update(ctx context.Context, id, ownerID string, req UpdateRequest) (*EventType, error)
	Delete(ctx context.Context, id, ownerID string) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func validateTimezone(tz string) error {
	if _, err := time.LoadLocation(tz); err != nil {
		return ErrInvalidTimezone
	}
	return nil
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*EventType, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, ErrEmptyName
	}
	if !slugPattern.MatchString(req.Slug) {
		return nil, ErrInvalidSlug
	}
	if req.DurationMinutes <= 0 {
		return nil, ErrInvalidDuration
	}
	if req.MinNoticeMinutes < 0 || req.MaxWindowDays < 0 ||
		req.BufferBeforeMinutes < 0 || req.BufferAfterMinutes < 0 {
		return nil, ErrInvalidWindow
	}
	if req.Timezone == "" {
		req.Timezone = "UTC"
	}
	if err := validateTimezone(req.Timezone); err != nil {
		return nil, err
	}

	et := &EventType{
		OwnerID:             req.OwnerID,
		Name:                req.Name,
		Slug:                req.Slug,
		Description:         req.Description,
		DurationMinutes:     req.DurationMinutes,
		BufferBeforeMinutes: req.BufferBeforeMinutes,
		BufferAfterMinutes:  req.BufferAfterMinutes,
		MinNoticeMinutes:    req.MinNoticeMinutes,
		MaxWindowDays:       req.MaxWindowDays,
		Timezone:            req.Timezone,
		IsActive:            true,
	}

	if err := s.repo.Create(ctx, et); err != nil {
		return nil, err
	}
	return et, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*EventType, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) GetByOwnerSlug(ctx context.Context, ownerID, slug string) (*EventType, error) {
	return s.repo.GetByOwnerSlug(ctx, ownerID, slug)
}

func (s *service) List(ctx context.Context, filter Filter) ([]*EventType, int, error) {
	return s.repo.List(ctx, filter)
}

func (s *service) Update(ctx context.Context, id, ownerID string, req UpdateRequest) (*EventType, error) {
	et, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if et.OwnerID != ownerID {
		return nil, ErrPermissionDenied
	}

	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return nil, ErrEmptyName
		}
		et.Name = *req.Name
	}
	if req.Slug != nil {
		if !slugPattern.MatchString(*req.Slug) {
			return nil, ErrInvalidSlug
		}
		et.Slug = *req.Slug
	}
	if req.Description != nil {
		et.Description = *req.Description
	}
	if req.DurationMinutes != nil {
		// Existing bookings keep the end time computed at their creation;
		// a duration change only affects future bookings.
		if *req.DurationMinutes <= 0 {
			return nil, ErrInvalidDuration
		}
		et.DurationMinutes = *req.DurationMinutes
	}
	if req.BufferBeforeMinutes != nil {
		if *req.BufferBeforeMinutes < 0 {
			return nil, ErrInvalidWindow
		}
		et.BufferBeforeMinutes = *req.BufferBeforeMinutes
	}
	if req.BufferAfterMinutes != nil {
		if *req.BufferAfterMinutes < 0 {
			return nil, ErrInvalidWindow
		}
		et.BufferAfterMinutes = *req.BufferAfterMinutes
	}
	if req.MinNoticeMinutes != nil {
		if *req.MinNoticeMinutes < 0 {
			return nil, ErrInvalidWindow
		}
		et.MinNoticeMinutes = *req.MinNoticeMinutes
	}
	if req.MaxWindowDays != nil {
		if *req.MaxWindowDays < 0 {
			return nil, ErrInvalidWindow
		}
		et.MaxWindowDays = *req.MaxWindowDays
	}
	if req.Timezone != nil {
		if err := validateTimezone(*req.Timezone); err != nil {
			return nil, err
		}
		et.Timezone = *req.Timezone
	}
	if req.IsActive != nil {
		et.IsActive = *req.IsActive
	}

	if err := s.repo.Update(ctx, et); err != nil {
		return nil, err
	}
	return et, nil
}

func (s *service) Delete(ctx context.Context, id, ownerID string) error {
	et, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if et.OwnerID != ownerID {
		return ErrPermissionDenied
	}
	return s.repo.SoftDelete(ctx, id)
}
