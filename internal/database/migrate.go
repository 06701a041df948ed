package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"log/slog"

	"bloghub/internal/middleware"

	"github.com/pressly/goose/v3"
	"gorm.io/gorm"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

const migrationsDir = "migrations"

// MigrationInfo identifies one embedded SQL migration.
type MigrationInfo struct {
	Version int64
	Source  string
}

// gooseUp and gooseDownTo are seams for tests.
var (
	gooseUp = func(ctx context.Context, db *sql.DB, dir string) error {
		return goose.UpContext(ctx, db, dir)
	}
	gooseDownTo = func(ctx context.Context, db *sql.DB, dir string, version int64) error {
		return goose.DownToContext(ctx, db, dir, version)
	}
)

func prepareGoose(db *gorm.DB) (*sql.DB, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}
	goose.SetBaseFS(migrationFS)
	if err := goose.SetDialect("postgres"); err != nil {
		return nil, err
	}
	return sqlDB, nil
}

// RunMigrations applies every pending embedded SQL migration.
func RunMigrations(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := prepareGoose(db)
	if err != nil {
		return err
	}
	if err := gooseUp(ctx, sqlDB, migrationsDir); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}
	middleware.Logger.InfoContext(ctx, "SQL migrations applied")
	return nil
}

// RollbackTo migrates down until version is the latest applied migration.
func RollbackTo(ctx context.Context, db *gorm.DB, version int64) error {
	sqlDB, err := prepareGoose(db)
	if err != nil {
		return err
	}
	if err := gooseDownTo(ctx, sqlDB, migrationsDir, version); err != nil {
		return fmt.Errorf("goose down to %d: %w", version, err)
	}
	middleware.Logger.InfoContext(ctx, "SQL migrations rolled back", slog.Int64("version", version))
	return nil
}

// EmbeddedMigrations lists the SQL migrations compiled into the binary.
func EmbeddedMigrations() ([]MigrationInfo, error) {
	goose.SetBaseFS(migrationFS)
	migrations, err := goose.CollectMigrations(migrationsDir, 0, goose.MaxVersion)
	if err != nil {
		return nil, fmt.Errorf("collect migrations: %w", err)
	}

	out := make([]MigrationInfo, 0, len(migrations))
	for _, m := range migrations {
		out = append(out, MigrationInfo{Version: m.Version, Source: m.Source})
	}
	return out, nil
}

// PendingMigrations returns the current database version and the migrations above it.
func PendingMigrations(ctx context.Context, db *gorm.DB) (int64, []MigrationInfo, error) {
	sqlDB, err := prepareGoose(db)
	if err != nil {
		return 0, nil, err
	}
	current, err := goose.GetDBVersionContext(ctx, sqlDB)
	if err != nil {
		return 0, nil, fmt.Errorf("read db version: %w", err)
	}

	all, err := EmbeddedMigrations()
	if err != nil {
		return 0, nil, err
	}
	var pending []MigrationInfo
	for _, m := range all {
		if m.Version > current {
			pending = append(pending, m)
		}
	}
	return current, pending, nil
}
