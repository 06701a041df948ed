// Package bootstrap prepares the shared process runtime for the commands.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"bloghub/internal/cache"
	"bloghub/internal/config"
	"bloghub/internal/database"
	"bloghub/internal/middleware"
	"bloghub/internal/observability"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Options control runtime initialization behavior.
type Options struct {
	ServiceName string
	// Tracing installs the OpenTelemetry provider described by the config.
	Tracing bool
	// SkipSchema connects without applying migrations.
	SkipSchema bool
}

// Runtime holds the connections a command needs.
type Runtime struct {
	DB    *gorm.DB
	Redis *redis.Client

	shutdownTracing func(context.Context) error
}

// InitRuntime configures logging, then connects the database and Redis.
// Redis is nil when disabled or unreachable.
func InitRuntime(ctx context.Context, cfg *config.Config, opts Options) (*Runtime, error) {
	middleware.ConfigureLogger(cfg.Env, cfg.LogLevel, cfg.LogFormat)

	if opts.ServiceName == "" {
		opts.ServiceName = "bloghub"
	}

	rt := &Runtime{shutdownTracing: func(context.Context) error { return nil }}

	if opts.Tracing {
		shutdown, err := observability.InitTracing(ctx, observability.TracingConfig{
			ServiceName:  opts.ServiceName,
			Environment:  cfg.Env,
			Enabled:      cfg.TracingEnabled,
			Exporter:     cfg.TracingExporter,
			OTLPEndpoint: cfg.OTLPEndpoint,
			SamplerRatio: cfg.TracingSampleRatio,
		})
		if err != nil {
			return nil, fmt.Errorf("tracing init failed: %w", err)
		}
		rt.shutdownTracing = shutdown
	}

	db, err := database.ConnectWithOptions(ctx, cfg, database.ConnectOptions{ApplySchema: !opts.SkipSchema})
	if err != nil {
		_ = rt.shutdownTracing(ctx)
		return nil, fmt.Errorf("database connection failed: %w", err)
	}
	rt.DB = db
	rt.Redis = cache.Connect(ctx, cfg.RedisURL)

	middleware.Logger.Info("runtime ready",
		slog.String("env", cfg.Env),
		slog.String("db_driver", cfg.DBDriver),
		slog.Bool("redis", rt.Redis != nil))
	return rt, nil
}

// ShutdownTracing flushes pending spans.
func (r *Runtime) ShutdownTracing(ctx context.Context) error {
	return r.shutdownTracing(ctx)
}

// Close releases every connection and flushes tracing.
func (r *Runtime) Close(ctx context.Context) error {
	var errs []error
	if r.Redis != nil {
		errs = append(errs, r.Redis.Close())
	}
	if r.DB != nil {
		errs = append(errs, database.Close(r.DB))
	}
	errs = append(errs, r.shutdownTracing(ctx))
	return errors.Join(errs...)
}
