package eventtype

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	Create(ctx context.Context, et *EventType) error
	GetByID(ctx context.Context, id string) (*EventType, error)
	GetByOwnerSlug(ctx context.Context, ownerID, slug string) (*EventType, error)
	List(ctx context.Context, filter Filter) ([]*EventType, int, error)
	Update(ctx context.Context, et *EventType) error
	SoftDelete(ctx context.Context, id string) error
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

var eventTypeColumns = []string{
	"id", "owner_id", "name", "slug", "description",
	"duration_minutes", "buffer_before_minutes", "buffer_after_minutes",
	"min_notice_minutes", "max_window_days", "timezone",
	"is_active", "deleted_at", "created_at", "updated_at",
}

func scanEventType(row pgx.Row) (*EventType, error) {
	var et EventType
	err := row.Scan(
		&et.ID, &et.OwnerID, &et.Name, &et.Slug, &et.Description,
		&et.DurationMinutes, &et.BufferBeforeMinutes, &et.BufferAfterMinutes,
		&et.MinNoticeMinutes, &et.MaxWindowDays, &et.Timezone,
		&et.IsActive, &et.DeletedAt, &et.CreatedAt, &et.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan event type failed: %w", err)
	}
	return &et, nil
}

func (r *pgxRepository) Create(ctx context.Context, et *EventType) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.event_types").
		Columns(
			"owner_id", "name", "slug", "description",
			"duration_minutes", "buffer_before_minutes", "buffer_after_minutes",
			"min_notice_minutes", "max_window_days", "timezone", "is_active",
		).
		Values(
			et.OwnerID, et.Name, et.Slug, et.Description,
			et.DurationMinutes, et.BufferBeforeMinutes, et.BufferAfterMinutes,
			et.MinNoticeMinutes, et.MaxWindowDays, et.Timezone, et.IsActive,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create event type query failed: %w", err)
	}

	err = r.pool.QueryRow(ctx, query, args...).Scan(&et.ID, &et.CreatedAt, &et.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return ErrSlugTaken
		}
		return fmt.Errorf("create event type failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*EventType, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(eventTypeColumns...).
		From("public.event_types").
		Where(squirrel.Eq{"id": id, "deleted_at": nil}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get event type query failed: %w", err)
	}

	return scanEventType(r.pool.QueryRow(ctx, query, args...))
}

func (r *pgxRepository) GetByOwnerSlug(ctx context.Context, ownerID, slug string) (*EventType, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(eventTypeColumns...).
		From("public.event_types").
		Where(squirrel.Eq{"owner_id": ownerID, "slug": slug, "deleted_at": nil}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get event type by slug query failed: %w", err)
	}

	return scanEventType(r.pool.QueryRow(ctx, query, args...))
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*EventType, int, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	cols := append(append([]string{}, eventTypeColumns...), "count(*) OVER() as total_count")
	query := psql.Select(cols...).
		From("public.event_types").
		Where(squirrel.Eq{"deleted_at": nil})

	if filter.OwnerID != "" {
		query = query.Where(squirrel.Eq{"owner_id": filter.OwnerID})
	}
	if filter.Active != nil {
		query = query.Where(squirrel.Eq{"is_active": *filter.Active})
	}

	query = query.OrderBy("created_at DESC")

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
		return nil, 0, fmt.Errorf("build list event types query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list event types failed: %w", err)
	}
	defer rows.Close()

	var items []*EventType
	var total int

	for rows.Next() {
		var et EventType
		if err := rows.Scan(
			&et.ID, &et.OwnerID, &et.Name, &et.Slug, &et.Description,
			&et.DurationMinutes, &et.BufferBeforeMinutes, &et.BufferAfterMinutes,
			&et.MinNoticeMinutes, &et.MaxWindowDays, &et.Timezone,
			&et.IsActive, &et.DeletedAt, &et.CreatedAt, &et.UpdatedAt, &total,
		); err != nil {
			return nil, 0, fmt.Errorf("scan event type failed: %w", err)
		}
		items = append(items, &et)
	}

	return items, total, nil
}

func (r *pgxRepository) Update(ctx context.Context, et *EventType) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("public.event_types").
		Set("name", et.Name).
		Set("slug", et.Slug).
		Set("description", et.Description).
		Set("duration_minutes", et.DurationMinutes).
		Set("buffer_before_minutes", et.BufferBeforeMinutes).
		Set("buffer_after_minutes", et.BufferAfterMinutes).
		Set("min_notice_minutes", et.MinNoticeMinutes).
		Set("max_window_days", et.MaxWindowDays).
		Set("timezone", et.Timezone).
		Set("is_active", et.IsActive).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": et.ID, "deleted_at": nil}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update event type query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return ErrSlugTaken
		}
		return fmt.Errorf("update event type failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) SoftDelete(ctx context.Context, id string) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("public.event_types").
		Set("deleted_at", squirrel.Expr("now()")).
		Set("is_active", false).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": id, "deleted_at": nil}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete event type query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete event type failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
