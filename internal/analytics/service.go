package analytics

import (
	"context"
	"time"
)

type Service interface {
	// Increment is the write path used by the booking engine. Deltas are
	// always positive; reversal logic does not exist.
	Increment(ctx context.Context, ownerID, eventTypeID string, date time.Time, field Field, delta int) error

	Summary(ctx context.Context, ownerID string, from, to time.Time) (*Summary, error)
	BreakdownByEventType(ctx context.Context, ownerID string, from, to time.Time) ([]*EventTypeBreakdown, error)
	DailySeries(ctx context.Context, ownerID string, from, to time.Time) ([]*DailyPoint, error)

	// ConversionRate = confirmed bookings / distinct guest emails over the
	// window. Zero distinct guests yields a zero rate.
	ConversionRate(ctx context.Context, ownerID string, from, to time.Time) (float64, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Increment(ctx context.Context, ownerID, eventTypeID string, date time.Time, field Field, delta int) error {
	if !field.Valid() {
		return ErrInvalidField
	}
	if delta <= 0 {
		return ErrInvalidDelta
	}
	return s.repo.Increment(ctx, ownerID, eventTypeID, date, field, delta)
}

func validateRange(from, to time.Time) error {
	if from.After(to) {
		return ErrInvalidRange
	}
	return nil
}

func (s *service) Summary(ctx context.Context, ownerID string, from, to time.Time) (*Summary, error) {
	if err := validateRange(from, to); err != nil {
		return nil, err
	}
	return s.repo.Summary(ctx, ownerID, from, to)
}

func (s *service) BreakdownByEventType(ctx context.Context, ownerID string, from, to time.Time) ([]*EventTypeBreakdown, error) {
	if err := validateRange(from, to); err != nil {
		return nil, err
	}
	return s.repo.BreakdownByEventType(ctx, ownerID, from, to)
}

func (s *service) DailySeries(ctx context.Context, ownerID string, from, to time.Time) ([]*DailyPoint, error) {
	if err := validateRange(from, to); err != nil {
		return nil, err
	}
	return s.repo.DailySeries(ctx, ownerID, from, to)
}

func (s *service) ConversionRate(ctx context.Context, ownerID string, from, to time.Time) (float64, error) {
	if err := validateRange(from, to); err != nil {
		return 0, err
	}

	confirmed, distinctGuests, err := s.repo.ConversionStats(ctx, ownerID, from, to)
	if err != nil {
		return 0, err
	}
	if distinctGuests == 0 {
		return 0, nil
	}
	return float64(confirmed) / float64(distinctGuests), nil
}
