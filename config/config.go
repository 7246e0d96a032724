// Package config reads runtime settings from the environment and an optional .env file.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds settings shared by every command. Flags override these values.
type Config struct {
	Env string
	// DBPath is the SQLite file. Empty keeps the directory and lead log in memory.
	DBPath      string
	RosterPath  string
	MetricsAddr string
	PushURL     string
	Workers     int
}

// Load reads .env (when present) and then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv builds a Config from the current environment only.
func FromEnv() (*Config, error) {
	workers, err := strconv.Atoi(getEnv("LEADROUTER_WORKERS", "4"))
	if err != nil || workers <= 0 {
		return nil, fmt.Errorf("LEADROUTER_WORKERS must be a positive integer")
	}

	cfg := &Config{
		Env:         getEnv("APP_ENV", "development"),
		DBPath:      getEnv("LEADROUTER_DB", ""),
		RosterPath:  getEnv("LEADROUTER_ROSTER", ""),
		MetricsAddr: getEnv("LEADROUTER_METRICS_ADDR", ""),
		PushURL:     getEnv("LEADROUTER_PUSH_URL", ""),
		Workers:     workers,
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}
