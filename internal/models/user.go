package models

import (
	"time"
)

type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Password  string    `json:"-"` // Password is never exposed in JSON
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SpendRecord tracks per-day LLM usage against a daily dollar limit.
type SpendRecord struct {
	Date        string    `json:"date"` // YYYY-MM-DD format
	LLMRequests int       `json:"llm_requests"`
	LLMCost     float64   `json:"llm_cost"`
	DailyLimit  float64   `json:"daily_limit"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// RunRecord marks a processing run for one date so identical input is not
// reprocessed when an invocation is retriggered.
type RunRecord struct {
	Key         string    `json:"key"`
	Date        string    `json:"date"`
	ContentHash string    `json:"content_hash"`
	Status      string    `json:"status"` // "pending", "completed", "failed"
	CreatedAt   time.Time `json:"created_at"`
	ExpiresAt   time.Time `json:"expires_at"`
}
