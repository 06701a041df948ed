// Package testutil provides shared fixtures for package tests.
package testutil

import (
	"context"
	"testing"

	"bloghub/internal/config"
	"bloghub/internal/database"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// TestSecret signs tokens in tests.
const TestSecret = "test-secret-key-12345678901234567890123456789012"

// Config returns a valid test configuration backed by in-memory SQLite.
func Config() *config.Config {
	return &config.Config{
		Env:          "test",
		Port:         "3000",
		JWTSecret:    TestSecret,
		BcryptCost:   4,
		DBDriver:     config.DriverSQLite,
		DBPath:       ":memory:",
		DBSchemaMode: database.SchemaModeAuto,
	}
}

// NewSQLiteDB returns a migrated in-memory database closed at test cleanup.
func NewSQLiteDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := database.Connect(context.Background(), Config())
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })
	return db
}

// NewRedis starts a miniredis server and returns a client for it.
func NewRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}
