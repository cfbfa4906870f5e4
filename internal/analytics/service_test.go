package analytics

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type counterKey struct {
	ownerID     string
	eventTypeID string
	date        string
}

type fakeAnalyticsRepo struct {
	counters       map[counterKey]*Counter
	confirmed      int
	distinctGuests int
}

func newFakeAnalyticsRepo() *fakeAnalyticsRepo {
	return &fakeAnalyticsRepo{counters: make(map[counterKey]*Counter)}
}

func (r *fakeAnalyticsRepo) Increment(_ context.Context, ownerID, eventTypeID string, date time.Time, field Field, delta int) error {
	key := counterKey{ownerID: ownerID, eventTypeID: eventTypeID, date: date.Format("2006-01-02")}
	c, ok := r.counters[key]
	if !ok {
		c = &Counter{OwnerID: ownerID, EventTypeID: eventTypeID, Date: date}
		r.counters[key] = c
	}
	switch field {
	case FieldBookingCount:
		c.BookingCount += delta
	case FieldCancellationCount:
		c.CancellationCount += delta
	}
	return nil
}

func (r *fakeAnalyticsRepo) Summary(_ context.Context, ownerID string, _, _ time.Time) (*Summary, error) {
	s := &Summary{}
	for _, c := range r.counters {
		if c.OwnerID != ownerID {
			continue
		}
		s.TotalBookings += c.BookingCount
		s.TotalCancellations += c.CancellationCount
	}
	return s, nil
}

func (r *fakeAnalyticsRepo) BreakdownByEventType(_ context.Context, _ string, _, _ time.Time) ([]*EventTypeBreakdown, error) {
	return nil, nil
}

func (r *fakeAnalyticsRepo) DailySeries(_ context.Context, _ string, _, _ time.Time) ([]*DailyPoint, error) {
	return nil, nil
}

func (r *fakeAnalyticsRepo) ConversionStats(_ context.Context, _ string, _, _ time.Time) (int, int, error) {
	return r.confirmed, r.distinctGuests, nil
}

func TestIncrementValidation(t *testing.T) {
	svc := NewService(newFakeAnalyticsRepo())
	date := time.Date(2025, time.March, 3, 0, 0, 0, 0, time.UTC)

	err := svc.Increment(context.Background(), "owner-1", "et-1", date, Field("page_views"), 1)
	assert.ErrorIs(t, err, ErrInvalidField)

	err = svc.Increment(context.Background(), "owner-1", "et-1", date, FieldBookingCount, 0)
	assert.ErrorIs(t, err, ErrInvalidDelta)

	err = svc.Increment(context.Background(), "owner-1", "et-1", date, FieldBookingCount, -3)
	assert.ErrorIs(t, err, ErrInvalidDelta)

	err = svc.Increment(context.Background(), "owner-1", "et-1", date, FieldBookingCount, 1)
	assert.NoError(t, err)
}

func TestIncrementAccumulates(t *testing.T) {
	repo := newFakeAnalyticsRepo()
	svc := NewService(repo)
	date := time.Date(2025, time.March, 3, 0, 0, 0, 0, time.UTC)

	require.NoError(t, svc.Increment(context.Background(), "owner-1", "et-1", date, FieldBookingCount, 1))
	require.NoError(t, svc.Increment(context.Background(), "owner-1", "et-1", date, FieldBookingCount, 1))
	require.NoError(t, svc.Increment(context.Background(), "owner-1", "et-1", date, FieldCancellationCount, 1))

	summary, err := svc.Summary(context.Background(), "owner-1", date, date.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Equal(t, 2, summary.TotalBookings)
	assert.Equal(t, 1, summary.TotalCancellations)
}

func TestSummaryRejectsInvertedRange(t *testing.T) {
	svc := NewService(newFakeAnalyticsRepo())
	from := time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)

	_, err := svc.Summary(context.Background(), "owner-1", from, from.AddDate(0, 0, -7))
	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestConversionRate(t *testing.T) {
	repo := newFakeAnalyticsRepo()
	svc := NewService(repo)
	from := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	// No guests yet: rate is zero, not a division error.
	rate, err := svc.ConversionRate(context.Background(), "owner-1", from, to)
	require.NoError(t, err)
	assert.Zero(t, rate)

	repo.confirmed = 6
	repo.distinctGuests = 8
	rate, err = svc.ConversionRate(context.Background(), "owner-1", from, to)
	require.NoError(t, err)
	assert.InDelta(t, 0.75, rate, 1e-9)
}
