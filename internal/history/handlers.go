package history

import (
	"net/http"

	"calc-history-api/internal/handlers"
	"calc-history-api/internal/observability"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
)

// Handler serves the history endpoints for one Log.
type Handler struct {
	log *Log
}

func NewHandler(log *Log) *Handler {
	return &Handler{log: log}
}

// List handles GET /history.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracer.Start(r.Context(), "history.list")
	defer span.End()

	records := h.log.List()
	span.SetAttributes(attribute.Int("history.entries", len(records)))
	span.SetStatus(codes.Ok, "")

	handlers.WriteData(w, records)

	observability.LoggerWithTrace(ctx).Debug("history listed",
		zap.Int("entries", len(records)),
		zap.String("request_id", observability.RequestIDFromContext(ctx)),
	)
}

// Clear handles POST /history/clear.
func (h *Handler) Clear(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := observability.LoggerWithTrace(ctx)

	ctx, span := tracer.Start(ctx, "history.clear.request")
	defer span.End()

	if err := h.log.Clear(ctx); err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "clear", "failed to persist history", err, http.StatusInternalServerError, w)
		return
	}

	span.SetStatus(codes.Ok, "")
	logger.Info("history cleared",
		zap.String("request_id", observability.RequestIDFromContext(ctx)),
	)

	handlers.WriteMessage(w, "history cleared")
}
