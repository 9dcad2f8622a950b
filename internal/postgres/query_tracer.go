package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/jmoiron/sqlx"
	"github.com/taktakmenu/platform/internal/logger"
	"github.com/taktakmenu/platform/internal/types"
)

// SlowQueryThreshold is the duration above which a completed query is logged
// at warn level
const SlowQueryThreshold = 250 * time.Millisecond

// queryTrace follows one statement from start to completion. Every record
// carries the request and tenant the statement ran for.
type queryTrace struct {
	ctx    context.Context
	logger *logger.Logger
	query  string
	txID   string
	start  time.Time
	span   *sentry.Span
}

func startQuery(ctx context.Context, logger *logger.Logger, query string, txID string) *queryTrace {
	span := sentry.StartSpan(ctx, "db.sql.query")
	span.Description = query
	if txID != "" {
		span.SetTag("tx_id", txID)
	}

	return &queryTrace{
		ctx:    ctx,
		logger: logger,
		query:  query,
		txID:   txID,
		start:  time.Now(),
		span:   span,
	}
}

func (qt *queryTrace) done(err error) {
	elapsed := time.Since(qt.start)

	fields := []interface{}{
		"duration_ms", elapsed.Milliseconds(),
		"query", qt.query,
	}
	if qt.txID != "" {
		fields = append(fields, "tx_id", qt.txID)
	}
	if id := types.GetRequestID(qt.ctx); id != "" {
		fields = append(fields, "request_id", id)
	}
	if id := types.GetTenantID(qt.ctx); id != "" {
		fields = append(fields, "tenant_id", id)
	}

	switch {
	case err != nil && !errors.Is(err, sql.ErrNoRows):
		qt.span.Status = sentry.SpanStatusInternalError
		qt.logger.Errorw("database query failed", append(fields, "error", err.Error())...)
	case elapsed > SlowQueryThreshold:
		qt.span.Status = sentry.SpanStatusOK
		qt.logger.Warnw("slow database query", fields...)
	default:
		qt.span.Status = sentry.SpanStatusOK
		qt.logger.Debugw("database query completed", fields...)
	}
	qt.span.Finish()
}

// TracedQuerier logs and traces every statement sent through the wrapped
// Querier. Parameters are never logged since they carry password hashes and
// contact details.
type TracedQuerier struct {
	Querier
	logger *logger.Logger
	txID   string
}

func NewTracedQuerier(q Querier, logger *logger.Logger, txID string) *TracedQuerier {
	return &TracedQuerier{
		Querier: q,
		logger:  logger,
		txID:    txID,
	}
}

func (tq *TracedQuerier) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	trace := startQuery(ctx, tq.logger, query, tq.txID)
	result, err := tq.Querier.ExecContext(ctx, query, args...)
	trace.done(err)
	return result, err
}

func (tq *TracedQuerier) NamedExecContext(ctx context.Context, query string, arg interface{}) (sql.Result, error) {
	trace := startQuery(ctx, tq.logger, query, tq.txID)
	result, err := tq.Querier.NamedExecContext(ctx, query, arg)
	trace.done(err)
	return result, err
}

func (tq *TracedQuerier) QueryxContext(ctx context.Context, query string, args ...interface{}) (*sqlx.Rows, error) {
	trace := startQuery(ctx, tq.logger, query, tq.txID)
	rows, err := tq.Querier.QueryxContext(ctx, query, args...)
	trace.done(err)
	return rows, err
}

func (tq *TracedQuerier) GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	trace := startQuery(ctx, tq.logger, query, tq.txID)
	err := tq.Querier.GetContext(ctx, dest, query, args...)
	trace.done(err)
	return err
}

func (tq *TracedQuerier) SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	trace := startQuery(ctx, tq.logger, query, tq.txID)
	err := tq.Querier.SelectContext(ctx, dest, query, args...)
	trace.done(err)
	return err
}
