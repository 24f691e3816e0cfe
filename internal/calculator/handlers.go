package calculator

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"calc-history-api/internal/handlers"
	"calc-history-api/internal/history"
	"calc-history-api/internal/observability"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// tracer is the calculator's dedicated OpenTelemetry tracer.
var tracer = otel.Tracer("calculator")

const opCalculate = "calculate"

// MaxBodyBytes caps the size of a /calculate request body.
const MaxBodyBytes = 100 << 10

// Recorder stores successful evaluations. *history.Log satisfies it.
type Recorder interface {
	AppendResult(ctx context.Context, expression string, result float64) (history.Record, error)
}

// Handler serves the calculate endpoint.
type Handler struct {
	history Recorder
}

func NewHandler(history Recorder) *Handler {
	return &Handler{history: history}
}

// Calculate handles POST /calculate: evaluates the expression and, on
// success, appends it to the history. Rejected expressions leave no record.
func (h *Handler) Calculate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := observability.LoggerWithTrace(ctx)
	requestID := observability.RequestIDFromContext(ctx)

	ctx, span := tracer.Start(ctx, "calculator.evaluate",
		trace.WithAttributes(
			attribute.String("request.id", requestID),
		),
	)
	defer span.End()

	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)

	var req CalculateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			observability.RecordError(ctx, span, logger, errorCounter, opCalculate, "request body too large", err, http.StatusRequestEntityTooLarge, w)
			return
		}
		observability.RecordError(ctx, span, logger, errorCounter, opCalculate, "invalid request body", err, http.StatusBadRequest, w)
		return
	}

	expression, err := req.Text()
	if err != nil {
		msg := err.Error()
		if !errors.Is(err, errExpressionRequired) && !errors.Is(err, errExpressionType) {
			msg = "invalid request body"
		}
		observability.RecordError(ctx, span, logger, errorCounter, opCalculate, msg, err, http.StatusBadRequest, w)
		return
	}

	span.SetAttributes(attribute.String("calculator.expression", expression))

	start := time.Now()
	result, err := Evaluate(expression)
	elapsed := float64(time.Since(start).Microseconds()) / 1000.0 // ms

	if err != nil {
		// Only the Kind message reaches the client; the cause goes to the log.
		observability.RecordError(ctx, span, logger, errorCounter, opCalculate, err.Error(), errors.Unwrap(err), http.StatusBadRequest, w,
			attribute.String("kind", KindOf(err).String()),
		)
		return
	}

	rec, err := h.history.AppendResult(ctx, expression, result)
	if err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, opCalculate, "failed to persist history", err, http.StatusInternalServerError, w,
			attribute.String("kind", "persistence"),
		)
		return
	}

	attrs := metric.WithAttributes(attribute.String("operation", opCalculate))
	evalCounter.Add(ctx, 1, attrs)
	evalHistogram.Record(ctx, elapsed, attrs)
	resultGauge.Record(ctx, result, attrs)

	span.AddEvent("computation.complete", trace.WithAttributes(
		attribute.Float64("result", result),
		attribute.Float64("duration_ms", elapsed),
	))
	span.SetAttributes(
		attribute.Float64("calculator.result", result),
		attribute.Int64("history.record.id", rec.ID),
	)
	span.SetStatus(codes.Ok, "")

	logger.Info("expression evaluated",
		zap.String("expression", expression),
		zap.Float64("result", result),
		zap.Int64("record_id", rec.ID),
		zap.String("request_id", requestID),
		zap.Float64("duration_ms", elapsed),
	)

	handlers.WriteData(w, rec)
}
