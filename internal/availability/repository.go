package availability

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lumabook/scheduling-backend/internal/pkg/localtime"
)

type Repository interface {
	ReplaceSlots(ctx context.Context, eventTypeID string, slots []*Slot) error
	ListSlots(ctx context.Context, eventTypeID string, activeOnly bool) ([]*Slot, error)
	DeactivateOverlapping(ctx context.Context, eventTypeID string, day localtime.DayOfWeek, start, end localtime.TimeOfDay) (int, error)
	ActivateByExactStart(ctx context.Context, eventTypeID string, day localtime.DayOfWeek, start localtime.TimeOfDay) (int, error)

	CreateBlocked(ctx context.Context, bt *BlockedTime) error
	ListBlocked(ctx context.Context, ownerID string, from, to *time.Time) ([]*BlockedTime, error)
	DeleteBlocked(ctx context.Context, id, ownerID string) error
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

func (r *pgxRepository) ReplaceSlots(ctx context.Context, eventTypeID string, slots []*Slot) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin replace slots tx failed: %w", err)
	}
	defer tx.Rollback(ctx)

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

	delQuery, delArgs, err := psql.Delete("public.availability_slots").
		Where(squirrel.Eq{"event_type_id": eventTypeID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete slots query failed: %w", err)
	}
	if _, err := tx.Exec(ctx, delQuery, delArgs...); err != nil {
		return fmt.Errorf("delete slots failed: %w", err)
	}

	if len(slots) > 0 {
		ins := psql.Insert("public.availability_slots").
			Columns("event_type_id", "day_of_week", "start_minutes", "end_minutes", "is_active")
		for _, s := range slots {
			ins = ins.Values(eventTypeID, int(s.Day), int(s.Start), int(s.End), s.IsActive)
		}
		insQuery, insArgs, err := ins.ToSql()
		if err != nil {
			return fmt.Errorf("build insert slots query failed: %w", err)
		}
		if _, err := tx.Exec(ctx, insQuery, insArgs...); err != nil {
			return fmt.Errorf("insert slots failed: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit replace slots tx failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) ListSlots(ctx context.Context, eventTypeID string, activeOnly bool) ([]*Slot, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select(
		"id", "event_type_id", "day_of_week", "start_minutes", "end_minutes",
		"is_active", "created_at", "updated_at",
	).
		From("public.availability_slots").
		Where(squirrel.Eq{"event_type_id": eventTypeID}).
		OrderBy("day_of_week ASC", "start_minutes ASC")

	if activeOnly {
		query = query.Where(squirrel.Eq{"is_active": true})
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list slots query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list slots failed: %w", err)
	}
	defer rows.Close()

	var slots []*Slot
	for rows.Next() {
		var s Slot
		var day, start, end int
		if err := rows.Scan(
			&s.ID, &s.EventTypeID, &day, &start, &end,
			&s.IsActive, &s.CreatedAt, &s.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan slot failed: %w", err)
		}
		s.Day = localtime.DayOfWeek(day)
		s.Start = localtime.TimeOfDay(start)
		s.End = localtime.TimeOfDay(end)
		slots = append(slots, &s)
	}

	return slots, nil
}

func (r *pgxRepository) DeactivateOverlapping(ctx context.Context, eventTypeID string, day localtime.DayOfWeek, start, end localtime.TimeOfDay) (int, error) {
	// Same half-open intersection test as booking conflicts, applied to
	// minutes-of-day instead of instants.
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("public.availability_slots").
		Set("is_active", false).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"event_type_id": eventTypeID, "day_of_week": int(day)}).
		Where(squirrel.Lt{"start_minutes": int(end)}).
		Where(squirrel.Gt{"end_minutes": int(start)}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build deactivate slots query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("deactivate slots failed: %w", err)
	}
	return int(ct.RowsAffected()), nil
}

func (r *pgxRepository) ActivateByExactStart(ctx context.Context, eventTypeID string, day localtime.DayOfWeek, start localtime.TimeOfDay) (int, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("public.availability_slots").
		Set("is_active", true).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{
			"event_type_id": eventTypeID,
			"day_of_week":   int(day),
			"start_minutes": int(start),
		}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build activate slots query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("activate slots failed: %w", err)
	}
	return int(ct.RowsAffected()), nil
}

func (r *pgxRepository) CreateBlocked(ctx context.Context, bt *BlockedTime) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.blocked_times").
		Columns("owner_id", "start_time", "end_time", "reason").
		Values(bt.OwnerID, bt.StartTime, bt.EndTime, bt.Reason).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create blocked time query failed: %w", err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&bt.ID, &bt.CreatedAt); err != nil {
		return fmt.Errorf("create blocked time failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) ListBlocked(ctx context.Context, ownerID string, from, to *time.Time) ([]*BlockedTime, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select("id", "owner_id", "start_time", "end_time", "reason", "created_at").
		From("public.blocked_times").
		Where(squirrel.Eq{"owner_id": ownerID}).
		OrderBy("start_time ASC")

	if from != nil {
		query = query.Where(squirrel.Gt{"end_time": *from})
	}
	if to != nil {
		query = query.Where(squirrel.Lt{"start_time": *to})
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list blocked times query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list blocked times failed: %w", err)
	}
	defer rows.Close()

	var items []*BlockedTime
	for rows.Next() {
		var bt BlockedTime
		if err := rows.Scan(&bt.ID, &bt.OwnerID, &bt.StartTime, &bt.EndTime, &bt.Reason, &bt.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan blocked time failed: %w", err)
		}
		items = append(items, &bt)
	}

	return items, nil
}

func (r *pgxRepository) DeleteBlocked(ctx context.Context, id, ownerID string) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Delete("public.blocked_times").
		Where(squirrel.Eq{"id": id, "owner_id": ownerID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete blocked time query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete blocked time failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrBlockedNotFound
	}
	return nil
}
