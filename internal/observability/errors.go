package observability

import (
	"context"
	"net/http"

	"calc-history-api/internal/handlers"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// RecordError centralises error handling across all domains: records the error
// on the span, increments the provided error counter, logs with trace context,
// and writes a JSON error envelope. Extra attributes are attached to both the
// span and the counter.
func RecordError(ctx context.Context, span trace.Span, logger *zap.Logger, counter metric.Int64Counter, opName, msg string, err error, status int, w http.ResponseWriter, attrs ...attribute.KeyValue) {
	span.RecordError(err)
	span.SetStatus(codes.Error, msg)
	span.SetAttributes(attrs...)

	counterAttrs := append([]attribute.KeyValue{attribute.String("operation", opName)}, attrs...)
	counter.Add(ctx, 1, metric.WithAttributes(counterAttrs...))

	fields := []zap.Field{
		zap.String("operation", opName),
		zap.Int("status", status),
		zap.Error(err),
		zap.String("request_id", RequestIDFromContext(ctx)),
	}
	if status >= http.StatusInternalServerError {
		logger.Error(msg, fields...)
	} else {
		logger.Warn(msg, fields...)
	}

	handlers.WriteError(w, status, msg)
}
