package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	// Increment upserts the counter row for the key, adding delta to the
	// selected field. The row is created on first touch.
	Increment(ctx context.Context, ownerID, eventTypeID string, date time.Time, field Field, delta int) error

	Summary(ctx context.Context, ownerID string, from, to time.Time) (*Summary, error)
	BreakdownByEventType(ctx context.Context, ownerID string, from, to time.Time) ([]*EventTypeBreakdown, error)
	DailySeries(ctx context.Context, ownerID string, from, to time.Time) ([]*DailyPoint, error)

	// ConversionStats reads the booking table directly: confirmed bookings
	// and distinct guest emails created inside the window.
	ConversionStats(ctx context.Context, ownerID string, from, to time.Time) (confirmed int, distinctGuests int, err error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

func (r *pgxRepository) Increment(ctx context.Context, ownerID, eventTypeID string, date time.Time, field Field, delta int) error {
	if !field.Valid() {
		return ErrInvalidField
	}

	day := date.UTC().Truncate(24 * time.Hour)

	bookingDelta, cancellationDelta := 0, 0
	switch field {
	case FieldBookingCount:
		bookingDelta = delta
	case FieldCancellationCount:
		cancellationDelta = delta
	}

	// Increment-only upsert keyed by (owner, event type, date).
	query := `
		INSERT INTO public.analytics_counters
			(owner_id, event_type_id, date, booking_count, cancellation_count)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (owner_id, event_type_id, date) DO UPDATE SET
			booking_count      = analytics_counters.booking_count + EXCLUDED.booking_count,
			cancellation_count = analytics_counters.cancellation_count + EXCLUDED.cancellation_count,
			updated_at         = now()`

	if _, err := r.pool.Exec(ctx, query, ownerID, eventTypeID, day, bookingDelta, cancellationDelta); err != nil {
		return fmt.Errorf("increment analytics counter failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) Summary(ctx context.Context, ownerID string, from, to time.Time) (*Summary, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(
		"coalesce(sum(booking_count), 0)",
		"coalesce(sum(cancellation_count), 0)",
	).
		From("public.analytics_counters").
		Where(squirrel.Eq{"owner_id": ownerID}).
		Where(squirrel.GtOrEq{"date": from}).
		Where(squirrel.LtOrEq{"date": to}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build analytics summary query failed: %w", err)
	}

	var s Summary
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&s.TotalBookings, &s.TotalCancellations); err != nil {
		return nil, fmt.Errorf("analytics summary failed: %w", err)
	}
	return &s, nil
}

func (r *pgxRepository) BreakdownByEventType(ctx context.Context, ownerID string, from, to time.Time) ([]*EventTypeBreakdown, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(
		"c.event_type_id",
		"e.name",
		"coalesce(sum(c.booking_count), 0)",
		"coalesce(sum(c.cancellation_count), 0)",
	).
		From("public.analytics_counters c").
		Join("public.event_types e ON c.event_type_id = e.id").
		Where(squirrel.Eq{"c.owner_id": ownerID}).
		Where(squirrel.GtOrEq{"c.date": from}).
		Where(squirrel.LtOrEq{"c.date": to}).
		GroupBy("c.event_type_id", "e.name").
		OrderBy("sum(c.booking_count) DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build analytics breakdown query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("analytics breakdown failed: %w", err)
	}
	defer rows.Close()

	var items []*EventTypeBreakdown
	for rows.Next() {
		var b EventTypeBreakdown
		if err := rows.Scan(&b.EventTypeID, &b.EventTypeName, &b.BookingCount, &b.CancellationCount); err != nil {
			return nil, fmt.Errorf("scan analytics breakdown failed: %w", err)
		}
		items = append(items, &b)
	}
	return items, nil
}

func (r *pgxRepository) DailySeries(ctx context.Context, ownerID string, from, to time.Time) ([]*DailyPoint, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(
		"date",
		"coalesce(sum(booking_count), 0)",
		"coalesce(sum(cancellation_count), 0)",
	).
		From("public.analytics_counters").
		Where(squirrel.Eq{"owner_id": ownerID}).
		Where(squirrel.GtOrEq{"date": from}).
		Where(squirrel.LtOrEq{"date": to}).
		GroupBy("date").
		OrderBy("date ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build analytics series query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("analytics series failed: %w", err)
	}
	defer rows.Close()

	var items []*DailyPoint
	for rows.Next() {
		var p DailyPoint
		if err := rows.Scan(&p.Date, &p.BookingCount, &p.CancellationCount); err != nil {
			return nil, fmt.Errorf("scan analytics series failed: %w", err)
		}
		items = append(items, &p)
	}
	return items, nil
}

func (r *pgxRepository) ConversionStats(ctx context.Context, ownerID string, from, to time.Time) (int, int, error) {
	query := `
		SELECT
			count(*) FILTER (WHERE status = 'confirmed'),
			count(DISTINCT guest_email)
		FROM public.bookings
		WHERE owner_id = $1
		  AND deleted_at IS NULL
		  AND created_at >= $2
		  AND created_at <= $3`

	var confirmed, distinctGuests int
	if err := r.pool.QueryRow(ctx, query, ownerID, from, to).Scan(&confirmed, &distinctGuests); err != nil {
		return 0, 0, fmt.Errorf("conversion stats failed: %w", err)
	}
	return confirmed, distinctGuests, nil
}
