package observability

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Operation ties one logical unit of work (a processing pass, an API
// request) to a span, a scoped logger, and the duration metrics.
type Operation struct {
	ctx   context.Context
	span  trace.Span
	m     *Metrics
	name  string
	began time.Time
	log   *slog.Logger
}

// StartOperation opens a span for name and returns the tracked operation
// plus the span-carrying context to pass downstream.
func StartOperation(ctx context.Context, m *Metrics, name string, attrs ...attribute.KeyValue) (*Operation, context.Context) {
	ctx, span := StartSpan(ctx, name, attrs...)
	log := slog.Default().With("operation", name)
	log.DebugContext(ctx, "operation started")

	op := &Operation{
		ctx:   ctx,
		span:  span,
		m:     m,
		name:  name,
		began: time.Now(),
		log:   log,
	}
	return op, ctx
}

// End closes the span and records duration and outcome under the "ok" or
// "error" status label.
func (o *Operation) End(err error) {
	elapsed := time.Since(o.began).Seconds()
	status := "ok"
	if err != nil {
		status = "error"
		o.log.ErrorContext(o.ctx, "operation failed", "error", err, "duration", elapsed)
	} else {
		o.log.DebugContext(o.ctx, "operation completed", "duration", elapsed)
	}

	EndSpan(o.span, err)
	o.m.OperationDuration.WithLabelValues(o.name, status).Observe(elapsed)
	o.m.OperationTotal.WithLabelValues(o.name, status).Inc()
}
