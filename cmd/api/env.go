package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// loadDotEnv loads environment variables from ENV_FILE, or .env when unset,
// if the file exists. Existing process environment variables are not
// overridden.
func loadDotEnv() error {
	path := envOr("ENV_FILE", ".env")

	err := godotenv.Load(path)
	if err == nil {
		return nil
	}

	if errors.Is(err, os.ErrNotExist) {
		return nil
	}

	return fmt.Errorf("load %s: %w", path, err)
}
