// Package config loads runtime settings from the environment, with an
// optional .env file for local runs.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	DefaultModel      = "gpt-4o"
	DefaultTemp       = 0.7
	DefaultTimezone   = "America/New_York"
	DefaultSpendLimit = 5.0 // dollars per day
)

type Config struct {
	// Store
	DatabaseURL string

	// AI service
	OpenAIAPIKey  string
	OpenAIBaseURL string
	Model         string
	Temperature   float64

	// Local journal sources: a directory holding one subdirectory per
	// source channel (notebook/, voice/, notes/).
	DataDir string

	Timezone        string
	JWTSecret       string
	DailySpendLimit float64
}

// Load reads configuration from the environment. A .env file in the
// working directory is applied first when present; real environment
// variables win over it.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		OpenAIAPIKey:    os.Getenv("OPENAI_API_KEY"),
		OpenAIBaseURL:   os.Getenv("OPENAI_BASE_URL"),
		Model:           envOr("JOURNAL_AI_MODEL", DefaultModel),
		Temperature:     DefaultTemp,
		DataDir:         os.Getenv("JOURNAL_DATA_DIR"),
		Timezone:        envOr("TIMEZONE", DefaultTimezone),
		JWTSecret:       os.Getenv("JWT_SECRET"),
		DailySpendLimit: DefaultSpendLimit,
	}

	if raw := os.Getenv("JOURNAL_AI_TEMPERATURE"); raw != "" {
		temp, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return Config{}, fmt.Errorf("invalid JOURNAL_AI_TEMPERATURE %q: %w", raw, err)
		}
		cfg.Temperature = temp
	}

	if raw := os.Getenv("JOURNAL_DAILY_SPEND_LIMIT"); raw != "" {
		limit, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return Config{}, fmt.Errorf("invalid JOURNAL_DAILY_SPEND_LIMIT %q: %w", raw, err)
		}
		cfg.DailySpendLimit = limit
	}

	return cfg, nil
}

// Location resolves the configured timezone.
func (c Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
