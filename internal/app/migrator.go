package app

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"go.uber.org/zap"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Migrator wraps goose over the embedded migration files so the binary
// carries its own schema.
type Migrator struct {
	db     *sql.DB
	logger *zap.Logger
}

func NewMigrator(pool *pgxpool.Pool, logger *zap.Logger) (*Migrator, error) {
	if err := goose.SetDialect("postgres"); err != nil {
		return nil, fmt.Errorf("set goose dialect: %w", err)
	}
	goose.SetBaseFS(migrationsFS)

	// goose works against *sql.DB, built from the same pool.
	db := stdlib.OpenDBFromPool(pool)

	return &Migrator{db: db, logger: logger}, nil
}

// Run applies all pending migrations.
func (mg *Migrator) Run(ctx context.Context) error {
	mg.logger.Info("applying database migrations")

	if err := goose.UpContext(ctx, mg.db, "migrations"); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}

	version, err := goose.GetDBVersionContext(ctx, mg.db)
	if err != nil {
		return fmt.Errorf("get migration version: %w", err)
	}
	mg.logger.Info("migrations applied", zap.Int64("version", version))
	return nil
}

// Close closes the migrator's sql.DB handle, not the underlying pool.
func (mg *Migrator) Close() error {
	if mg.db != nil {
		return mg.db.Close()
	}
	return nil
}
