package telemetry

import (
	"context"
	"errors"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DBTracingConfig holds configuration for database tracing
type DBTracingConfig struct {
	Enabled bool
	// LogFullSQL keeps bound variables in span statements (development only)
	LogFullSQL      bool
	SlowQueryThresh time.Duration
	DBName          string
}

type queryStartKey struct{}

// RegisterDBTracing installs the otelgorm plugin plus callbacks that mark
// failed and slow statements on the active span.
func RegisterDBTracing(db *gorm.DB, cfg DBTracingConfig, logger *zap.Logger) error {
	if !cfg.Enabled {
		return nil
	}
	if cfg.SlowQueryThresh <= 0 {
		cfg.SlowQueryThresh = 200 * time.Millisecond
	}

	opts := []otelgorm.Option{otelgorm.WithDBName(cfg.DBName)}
	if !cfg.LogFullSQL {
		opts = append(opts, otelgorm.WithoutQueryVariables())
	}
	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return err
	}

	before := func(tx *gorm.DB) {
		if tx.Statement.Context != nil {
			tx.Statement.Context = context.WithValue(tx.Statement.Context, queryStartKey{}, time.Now())
		}
	}
	after := func(tx *gorm.DB) { annotateSpan(tx, cfg.SlowQueryThresh) }

	cb := db.Callback()
	if err := errors.Join(
		cb.Create().Before("gorm:create").Register("erp_trace:before_create", before),
		cb.Create().After("gorm:create").Register("erp_trace:after_create", after),
		cb.Query().Before("gorm:query").Register("erp_trace:before_query", before),
		cb.Query().After("gorm:query").Register("erp_trace:after_query", after),
		cb.Update().Before("gorm:update").Register("erp_trace:before_update", before),
		cb.Update().After("gorm:update").Register("erp_trace:after_update", after),
		cb.Delete().Before("gorm:delete").Register("erp_trace:before_delete", before),
		cb.Delete().After("gorm:delete").Register("erp_trace:after_delete", after),
		cb.Row().Before("gorm:row").Register("erp_trace:before_row", before),
		cb.Row().After("gorm:row").Register("erp_trace:after_row", after),
		cb.Raw().Before("gorm:raw").Register("erp_trace:before_raw", before),
		cb.Raw().After("gorm:raw").Register("erp_trace:after_raw", after),
	); err != nil {
		return err
	}

	logger.Info("Database tracing enabled",
		zap.Bool("log_full_sql", cfg.LogFullSQL),
		zap.Duration("slow_query_threshold", cfg.SlowQueryThresh),
	)
	return nil
}

func annotateSpan(tx *gorm.DB, slowThreshold time.Duration) {
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
		span.SetStatus(codes.Error, tx.Error.Error())
		span.RecordError(tx.Error)
	}
	if start, ok := ctx.Value(queryStartKey{}).(time.Time); ok {
		if elapsed := time.Since(start); elapsed > slowThreshold {
			span.SetAttributes(
				attribute.Bool("db.slow_query", true),
				attribute.Int64("db.query_duration_ms", elapsed.Milliseconds()),
			)
		}
	}
}
