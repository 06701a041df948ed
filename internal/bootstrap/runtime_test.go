package bootstrap

import (
	"context"
	"testing"

	"bloghub/internal/database"
	"bloghub/internal/models"
	"bloghub/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitRuntime_SQLiteWithoutRedis(t *testing.T) {
	ctx := context.Background()

	rt, err := InitRuntime(ctx, testutil.Config(), Options{Tracing: true})
	require.NoError(t, err)
	assert.Nil(t, rt.Redis)
	require.NoError(t, database.Ping(ctx, rt.DB))

	// Schema is applied.
	assert.True(t, rt.DB.Migrator().HasTable(&models.Post{}))

	assert.NoError(t, rt.Close(ctx))
}

func TestInitRuntime_WithRedis(t *testing.T) {
	ctx := context.Background()
	mr, _ := testutil.NewRedis(t)

	cfg := testutil.Config()
	cfg.RedisURL = mr.Addr()

	rt, err := InitRuntime(ctx, cfg, Options{})
	require.NoError(t, err)
	require.NotNil(t, rt.Redis)
	assert.NoError(t, rt.Redis.Ping(ctx).Err())
	assert.NoError(t, rt.Close(ctx))
}

func TestInitRuntime_BadDriver(t *testing.T) {
	cfg := testutil.Config()
	cfg.DBDriver = "oracle"

	_, err := InitRuntime(context.Background(), cfg, Options{})
	assert.Error(t, err)
}
