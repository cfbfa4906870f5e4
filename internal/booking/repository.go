package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	// CreateIfFree inserts the booking inside one transaction that first
	// re-checks no confirmed booking on the event type overlaps
	// [StartTime, EndTime). Returns ErrTimeConflict without writing when
	// one does.
	CreateIfFree(ctx context.Context, b *Booking) error

	// UpdateTimeIfFree moves the booking to its new interval under the
	// same transactional conflict check, excluding the booking itself.
	UpdateTimeIfFree(ctx context.Context, b *Booking) error

	GetByID(ctx context.Context, id string) (*Booking, error)
	List(ctx context.Context, filter Filter) ([]*Booking, int, error)
	Update(ctx context.Context, b *Booking) error
	SetMeeting(ctx context.Context, id, link, externalID string) error
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

var bookingColumns = []string{
	"id", "event_type_id", "owner_id",
	"guest_name", "guest_email", "guest_phone", "guest_timezone",
	"start_time", "end_time", "status",
	"meeting_link", "external_meeting_id",
	"cancel_reason", "cancelled_at", "deleted_at",
	"created_at", "updated_at",
}

func scanBooking(row pgx.Row) (*Booking, error) {
	var b Booking
	var status string
	err := row.Scan(
		&b.ID, &b.EventTypeID, &b.OwnerID,
		&b.GuestName, &b.GuestEmail, &b.GuestPhone, &b.GuestTimezone,
		&b.StartTime, &b.EndTime, &status,
		&b.MeetingLink, &b.ExternalMeetingID,
		&b.CancelReason, &b.CancelledAt, &b.DeletedAt,
		&b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan booking failed: %w", err)
	}
	b.Status = Status(status)
	return &b, nil
}

// hasOverlapTx runs the half-open overlap check against confirmed
// bookings of the event type inside the caller's transaction:
// existing.start < end AND existing.end > start.
func hasOverlapTx(ctx context.Context, tx pgx.Tx, eventTypeID string, start, end time.Time, excludeID string) (bool, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	subQuery := psql.Select("1").
		From("public.bookings").
		Where(squirrel.Eq{"event_type_id": eventTypeID, "status": string(StatusConfirmed), "deleted_at": nil}).
		Where(squirrel.Lt{"start_time": end}).
		Where(squirrel.Gt{"end_time": start})

	if excludeID != "" {
		subQuery = subQuery.Where(squirrel.NotEq{"id": excludeID})
	}

	sql, args, err := subQuery.ToSql()
	if err != nil {
		return false, fmt.Errorf("build check overlap query failed: %w", err)
	}

	var exists bool
	if err := tx.QueryRow(ctx, "SELECT EXISTS ("+sql+")", args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("check overlap failed: %w", err)
	}
	return exists, nil
}

// lockEventType serializes writers on the same event type. Bookings on
// different event types never contend.
func lockEventType(ctx context.Context, tx pgx.Tx, eventTypeID string) error {
	var id string
	err := tx.QueryRow(ctx,
		"SELECT id FROM public.event_types WHERE id = $1 AND deleted_at IS NULL FOR UPDATE",
		eventTypeID,
	).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrEventTypeNotFound
		}
		return fmt.Errorf("lock event type failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) CreateIfFree(ctx context.Context, b *Booking) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin create booking tx failed: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := lockEventType(ctx, tx, b.EventTypeID); err != nil {
		return err
	}

	overlap, err := hasOverlapTx(ctx, tx, b.EventTypeID, b.StartTime, b.EndTime, "")
	if err != nil {
		return err
	}
	if overlap {
		return ErrTimeConflict
	}

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.bookings").
		Columns(
			"event_type_id", "owner_id",
			"guest_name", "guest_email", "guest_phone", "guest_timezone",
			"start_time", "end_time", "status",
		).
		Values(
			b.EventTypeID, b.OwnerID,
			b.GuestName, b.GuestEmail, b.GuestPhone, b.GuestTimezone,
			b.StartTime, b.EndTime, string(b.Status),
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create booking query failed: %w", err)
	}

	if err := tx.QueryRow(ctx, query, args...).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return fmt.Errorf("create booking failed: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit create booking tx failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) UpdateTimeIfFree(ctx context.Context, b *Booking) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin reschedule tx failed: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := lockEventType(ctx, tx, b.EventTypeID); err != nil {
		return err
	}

	overlap, err := hasOverlapTx(ctx, tx, b.EventTypeID, b.StartTime, b.EndTime, b.ID)
	if err != nil {
		return err
	}
	if overlap {
		return ErrTimeConflict
	}

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("public.bookings").
		Set("start_time", b.StartTime).
		Set("end_time", b.EndTime).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": b.ID, "deleted_at": nil}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build reschedule query failed: %w", err)
	}

	ct, err := tx.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("reschedule booking failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit reschedule tx failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Booking, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(bookingColumns...).
		From("public.bookings").
		Where(squirrel.Eq{"id": id, "deleted_at": nil}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get booking query failed: %w", err)
	}

	return scanBooking(r.pool.QueryRow(ctx, query, args...))
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Booking, int, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	cols := append(append([]string{}, bookingColumns...), "count(*) OVER() as total_count")
	query := psql.Select(cols...).
		From("public.bookings").
		Where(squirrel.Eq{"deleted_at": nil})

	if filter.OwnerID != "" {
		query = query.Where(squirrel.Eq{"owner_id": filter.OwnerID})
	}
	if filter.EventTypeID != "" {
		query = query.Where(squirrel.Eq{"event_type_id": filter.EventTypeID})
	}
	if filter.Status != "" {
		query = query.Where(squirrel.Eq{"status": filter.Status})
	}
	if filter.StartFrom != nil {
		query = query.Where(squirrel.GtOrEq{"start_time": *filter.StartFrom})
	}
	if filter.StartTo != nil {
		query = query.Where(squirrel.LtOrEq{"start_time": *filter.StartTo})
	}

	// Newest upcoming work first.
	query = query.OrderBy("start_time DESC")

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}
	offset := (filter.Page - 1) * filter.PageSize
	query = query.Limit(uint64(filter.PageSize)).Offset(uint64(offset))

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list bookings query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list bookings failed: %w", err)
	}
	defer rows.Close()

	var bookings []*Booking
	var total int

	for rows.Next() {
		var b Booking
		var status string
		if err := rows.Scan(
			&b.ID, &b.EventTypeID, &b.OwnerID,
			&b.GuestName, &b.GuestEmail, &b.GuestPhone, &b.GuestTimezone,
			&b.StartTime, &b.EndTime, &status,
			&b.MeetingLink, &b.ExternalMeetingID,
			&b.CancelReason, &b.CancelledAt, &b.DeletedAt,
			&b.CreatedAt, &b.UpdatedAt, &total,
		); err != nil {
			return nil, 0, fmt.Errorf("scan booking failed: %w", err)
		}
		b.Status = Status(status)
		bookings = append(bookings, &b)
	}

	return bookings, total, nil
}

func (r *pgxRepository) Update(ctx context.Context, b *Booking) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("public.bookings").
		Set("status", string(b.Status)).
		Set("cancel_reason", b.CancelReason).
		Set("cancelled_at", b.CancelledAt).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": b.ID, "deleted_at": nil}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update booking query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update booking failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) SetMeeting(ctx context.Context, id, link, externalID string) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("public.bookings").
		Set("meeting_link", link).
		Set("external_meeting_id", externalID).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": id, "deleted_at": nil}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build set meeting query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("set meeting failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
