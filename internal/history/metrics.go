package history

import (
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// Metric instruments, set by InitMetrics.
var (
	entriesGauge    metric.Int64Gauge
	persistFailures metric.Int64Counter
	errorCounter    metric.Int64Counter
)

// InitMetrics registers the history metric instruments.
// Call this once at startup (after observability.InitMetrics).
func InitMetrics() error {
	meter := otel.Meter("history")

	var err error

	entriesGauge, err = meter.Int64Gauge("history.entries",
		metric.WithDescription("Number of records currently held in the history log"),
		metric.WithUnit("{record}"),
	)
	if err != nil {
		return fmt.Errorf("creating entries gauge: %w", err)
	}

	persistFailures, err = meter.Int64Counter("history.persist.failures.total",
		metric.WithDescription("Total number of failed history writes"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return fmt.Errorf("creating persist failure counter: %w", err)
	}

	errorCounter, err = meter.Int64Counter("history.errors.total",
		metric.WithDescription("Total number of failed history requests"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return fmt.Errorf("creating error counter: %w", err)
	}

	return nil
}
