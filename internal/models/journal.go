package models

import (
	"time"
)

// DailyEntry is one processed day of journal content, keyed by date.
type DailyEntry struct {
	Date           string    `json:"date"` // YYYY-MM-DD, unique across the store
	RawContent     string    `json:"raw_content"`
	Summary        string    `json:"summary"`
	Mood           string    `json:"mood"`
	MoodConfidence string    `json:"mood_confidence"`
	Energy         int       `json:"energy"` // 1-10
	Themes         string    `json:"themes"` // comma-joined
	Wins           string    `json:"wins"`
	Challenges     string    `json:"challenges"`
	Sources        string    `json:"sources"`
	WordCount      int       `json:"word_count"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Task statuses.
const (
	TaskStatusCompleted = "completed"
	TaskStatusPending   = "pending"
	TaskStatusSuggested = "suggested"
)

// Task sources.
const (
	TaskSourceExtracted   = "extracted"
	TaskSourceAISuggested = "ai_suggested"
	TaskSourceManual      = "manual"
)

// Task priorities.
const (
	TaskPriorityHigh   = "high"
	TaskPriorityMedium = "medium"
	TaskPriorityLow    = "low"
)

// TaskRecord is a single task row. The ID is assigned by the store at
// insertion time ("T" + zero-padded sequence value).
type TaskRecord struct {
	ID          string     `json:"id"`
	Date        string     `json:"date"`
	Task        string     `json:"task"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	Category    string     `json:"category,omitempty"`
	Deadline    string     `json:"deadline,omitempty"`
	Reason      string     `json:"reason,omitempty"`
	Source      string     `json:"source"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// WeeklyReview is the AI-generated rollup for one calendar week.
type WeeklyReview struct {
	WeekStart       string         `json:"week_start"`
	WeekEnd         string         `json:"week_end"`
	Overview        string         `json:"overview"`
	Accomplishments []string       `json:"accomplishments"`
	Patterns        WeeklyPatterns `json:"patterns"`
	Challenges      []string       `json:"challenges"`
	Insights        []string       `json:"insights"`
	NextWeek        []Suggestion   `json:"next_week_suggestions"`
	Highlight       string         `json:"highlight_of_week"`
	WordOfWeek      string         `json:"word_of_week"`
	CreatedAt       time.Time      `json:"created_at"`
}

type WeeklyPatterns struct {
	MoodTrend       string   `json:"mood_trend"`
	EnergyTrend     string   `json:"energy_trend"`
	RecurringThemes []string `json:"recurring_themes"`
}

// InsightRecord persists the raw insight annotations for one date,
// including fields the daily entry does not carry.
type InsightRecord struct {
	Date            string    `json:"date"`
	Mood            string    `json:"mood"`
	Energy          int       `json:"energy"`
	Themes          string    `json:"themes"`
	PeopleMentioned string    `json:"people_mentioned"`
	NotableQuotes   []string  `json:"notable_quotes"`
	CreatedAt       time.Time `json:"created_at"`
}

// ContentStats describes the merged content for one date.
type ContentStats struct {
	TotalCharacters int                      `json:"total_characters"`
	TotalWords      int                      `json:"total_words"`
	SourcesUsed     []string                 `json:"sources_used"`
	BySource        map[string]SourceCounts  `json:"by_source"`
}

type SourceCounts struct {
	Characters int `json:"characters"`
	Words      int `json:"words"`
}

// Mood is the AI's read on the day's predominant mood.
type Mood struct {
	Primary    string `json:"primary"`
	Secondary  string `json:"secondary,omitempty"`
	Confidence string `json:"confidence"`
}

// InsightsPayload is the structured annotation set returned by the AI
// service for one day.
type InsightsPayload struct {
	Mood            Mood     `json:"mood"`
	EnergyLevel     FlexInt  `json:"energy_level"`
	Themes          []string `json:"themes"`
	Wins            []string `json:"wins"`
	Challenges      []string `json:"challenges"`
	PeopleMentioned []string `json:"people_mentioned"`
	NotableQuotes   []string `json:"notable_quotes"`
}

// TasksPayload is the categorized task extraction returned by the AI
// service. Entries may arrive as plain strings or structured objects.
type TasksPayload struct {
	Completed []TaskInput `json:"completed"`
	Pending   []TaskInput `json:"pending"`
	Ideas     []TaskInput `json:"ideas"`
}

// Suggestion is one next-day task proposal from the AI service.
type Suggestion struct {
	Task          string `json:"task"`
	Priority      string `json:"priority"`
	Reason        string `json:"reason"`
	EstimatedTime string `json:"estimated_time"`
	Category      string `json:"category"`
}
