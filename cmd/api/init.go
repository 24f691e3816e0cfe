package main

import (
	"context"

	"calc-history-api/internal/calculator"
	"calc-history-api/internal/history"
	"calc-history-api/internal/observability"

	"go.uber.org/zap"
)

// initMetrics initialises all metric providers and application-specific
// metric instruments. Add new domain InitMetrics calls here as the project grows.
func initMetrics(ctx context.Context) (func(context.Context) error, error) {
	shutdown, err := observability.InitMetrics(ctx)
	if err != nil {
		return nil, err
	}

	if err := calculator.InitMetrics(); err != nil {
		return nil, err
	}

	if err := history.InitMetrics(); err != nil {
		return nil, err
	}

	return shutdown, nil
}

// initHistory opens the configured store and loads the history from it.
// A broken history file never stops startup.
func initHistory(ctx context.Context, cfg config) (*history.Log, error) {
	var store history.Store = history.NewMemoryStore()

	if cfg.HistoryPath != "" {
		fileStore, err := history.NewFileStore(cfg.HistoryPath)
		if err != nil {
			return nil, err
		}
		store = fileStore
	}

	logger := observability.Logger.With(zap.String("component", "history"))
	logger.Info("loading history",
		zap.String("path", cfg.HistoryPath),
		zap.Int("capacity", cfg.HistoryCapacity),
	)

	return history.Load(ctx, store,
		history.WithCapacity(cfg.HistoryCapacity),
		history.WithLogger(logger),
	), nil
}
