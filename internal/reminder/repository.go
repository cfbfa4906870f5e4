package reminder

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	CreateBatch(ctx context.Context, reminders []*Reminder) error
	// CancelPendingByBooking retracts all not-yet-fired reminders for a
	// booking. Returns the number of rows cancelled.
	CancelPendingByBooking(ctx context.Context, bookingID string) (int, error)
	// ClaimDue atomically transitions due pending reminders to sent and
	// returns them. SKIP LOCKED keeps concurrent pollers from double
	// claiming.
	ClaimDue(ctx context.Context, now time.Time, limit int) ([]*Reminder, error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

func (r *pgxRepository) CreateBatch(ctx context.Context, reminders []*Reminder) error {
	if len(reminders) == 0 {
		return nil
	}

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	ins := psql.Insert("public.reminders").
		Columns(
			"booking_id", "fire_at", "status",
			"guest_name", "guest_email", "event_type_name",
			"event_start", "event_end", "timezone", "meeting_link",
		)
	for _, rem := range reminders {
		ins = ins.Values(
			rem.BookingID, rem.FireAt, string(rem.Status),
			rem.GuestName, rem.GuestEmail, rem.EventTypeName,
			rem.EventStart, rem.EventEnd, rem.Timezone, rem.MeetingLink,
		)
	}

	query, args, err := ins.ToSql()
	if err != nil {
		return fmt.Errorf("build create reminders query failed: %w", err)
	}

	if _, err := r.pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("create reminders failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) CancelPendingByBooking(ctx context.Context, bookingID string) (int, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("public.reminders").
		Set("status", string(StatusCancelled)).
		Where(squirrel.Eq{"booking_id": bookingID, "status": string(StatusPending)}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build cancel reminders query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("cancel reminders failed: %w", err)
	}
	return int(ct.RowsAffected()), nil
}

func (r *pgxRepository) ClaimDue(ctx context.Context, now time.Time, limit int) ([]*Reminder, error) {
	query := `
		UPDATE public.reminders
		SET status = 'sent'
		WHERE id IN (
			SELECT id FROM public.reminders
			WHERE status = 'pending' AND fire_at <= $1
			ORDER BY fire_at
			LIMIT $2
			FOR UPDATE SKIP LOCKED
		)
		RETURNING id, booking_id, fire_at, status,
			guest_name, guest_email, event_type_name,
			event_start, event_end, timezone, meeting_link, created_at`

	rows, err := r.pool.Query(ctx, query, now, limit)
	if err != nil {
		return nil, fmt.Errorf("claim due reminders failed: %w", err)
	}
	defer rows.Close()

	var items []*Reminder
	for rows.Next() {
		var rem Reminder
		var status string
		if err := rows.Scan(
			&rem.ID, &rem.BookingID, &rem.FireAt, &status,
			&rem.GuestName, &rem.GuestEmail, &rem.EventTypeName,
			&rem.EventStart, &rem.EventEnd, &rem.Timezone, &rem.MeetingLink, &rem.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan reminder failed: %w", err)
		}
		rem.Status = Status(status)
		items = append(items, &rem)
	}
	return items, nil
}
