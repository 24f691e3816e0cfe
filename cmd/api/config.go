package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"calc-history-api/internal/history"
)

// config is read from the environment after .env has been loaded.
type config struct {
	Port            string
	HistoryPath     string
	HistoryCapacity int
	ShutdownTimeout time.Duration
}

func loadConfig() (config, error) {
	cfg := config{
		Port:            envOr("PORT", "5000"),
		HistoryPath:     "history.json",
		HistoryCapacity: history.DefaultCapacity,
		ShutdownTimeout: 5 * time.Second,
	}

	// An explicitly empty HISTORY_PATH selects the in-memory store.
	if path, ok := os.LookupEnv("HISTORY_PATH"); ok {
		cfg.HistoryPath = path
	}

	if v := os.Getenv("HISTORY_CAPACITY"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return config{}, fmt.Errorf("HISTORY_CAPACITY: want a positive integer, got %q", v)
		}
		cfg.HistoryCapacity = n
	}

	if v := os.Getenv("SHUTDOWN_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return config{}, fmt.Errorf("SHUTDOWN_TIMEOUT: %w", err)
		}
		cfg.ShutdownTimeout = d
	}

	return cfg, nil
}

func (c config) Addr() string {
	return ":" + c.Port
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
