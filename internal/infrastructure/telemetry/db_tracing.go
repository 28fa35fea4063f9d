package telemetry

import (
	"context"
	"errors"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DBTracingConfig holds database tracing settings
type DBTracingConfig struct {
	Enabled         bool
	LogFullSQL      bool // include bind variables in spans
	SlowQueryThresh time.Duration
	DBSystem        string
}

// DBTracingPlugin registers otelgorm plus a callback that flags slow queries
// and records the table and affected rows on the query span.
type DBTracingPlugin struct {
	config DBTracingConfig
	logger *zap.Logger
}

func NewDBTracingPlugin(cfg DBTracingConfig, logger *zap.Logger) *DBTracingPlugin {
	if cfg.SlowQueryThresh <= 0 {
		cfg.SlowQueryThresh = 200 * time.Millisecond
	}
	if cfg.DBSystem == "" {
		cfg.DBSystem = "postgresql"
	}
	return &DBTracingPlugin{config: cfg, logger: logger}
}

type startTimeKey struct{}

// Register installs the plugin on db. It is a no-op when disabled.
func (p *DBTracingPlugin) Register(db *gorm.DB) error {
	if !p.config.Enabled {
		return nil
	}

	opts := []otelgorm.Option{otelgorm.WithDBName(p.config.DBSystem)}
	if !p.config.LogFullSQL {
		opts = append(opts, otelgorm.WithoutQueryVariables())
	}
	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return err
	}

	before := func(tx *gorm.DB) {
		if tx.Statement.Context != nil {
			tx.Statement.Context = context.WithValue(tx.Statement.Context, startTimeKey{}, time.Now())
		}
	}

	// after callbacks must run while the otelgorm span is still open
	cb := db.Callback()
	for _, reg := range []func() error{
		func() error { return cb.Create().Before("gorm:create").Register("market_timing:before_create", before) },
		func() error { return cb.Query().Before("gorm:query").Register("market_timing:before_query", before) },
		func() error { return cb.Update().Before("gorm:update").Register("market_timing:before_update", before) },
		func() error { return cb.Delete().Before("gorm:delete").Register("market_timing:before_delete", before) },
		func() error { return cb.Row().Before("gorm:row").Register("market_timing:before_row", before) },
		func() error { return cb.Raw().Before("gorm:raw").Register("market_timing:before_raw", before) },
		func() error { return cb.Create().After("gorm:create").Before("otel:after_create").Register("market_timing:after_create", p.after) },
		func() error { return cb.Query().After("gorm:query").Before("otel:after_query").Register("market_timing:after_query", p.after) },
		func() error { return cb.Update().After("gorm:update").Before("otel:after_update").Register("market_timing:after_update", p.after) },
		func() error { return cb.Delete().After("gorm:delete").Before("otel:after_delete").Register("market_timing:after_delete", p.after) },
		func() error { return cb.Row().After("gorm:row").Before("otel:after_row").Register("market_timing:after_row", p.after) },
		func() error { return cb.Raw().After("gorm:raw").Before("otel:after_raw").Register("market_timing:after_raw", p.after) },
	} {
		if err := reg(); err != nil {
			return err
		}
	}

	p.logger.Info("Database tracing enabled",
		zap.Bool("log_full_sql", p.config.LogFullSQL),
		zap.Duration("slow_query_threshold", p.config.SlowQueryThresh),
	)
	return nil
}

func (p *DBTracingPlugin) after(tx *gorm.DB) {
	ctx := tx.Statement.Context
	if ctx == nil {
		return
	}
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}

	span.SetAttributes(attribute.Int64("db.rows_affected", tx.Statement.RowsAffected))
	if tx.Statement.Table != "" {
		span.SetAttributes(attribute.String("db.sql.table", tx.Statement.Table))
	}
	if tx.Error != nil && !errors.Is(tx.Error, gorm.ErrRecordNotFound) {
		span.RecordError(tx.Error)
	}

	start, ok := ctx.Value(startTimeKey{}).(time.Time)
	if !ok {
		return
	}
	if elapsed := time.Since(start); elapsed > p.config.SlowQueryThresh {
		span.SetAttributes(
			attribute.Bool("db.slow_query", true),
			attribute.Int64("db.query_duration_ms", elapsed.Milliseconds()),
		)
	}
}
