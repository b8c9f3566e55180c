package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/journalbackend/internal/models"
)

// weeklyReviewTemperature runs hotter than the default so reviews read
// less templated.
const weeklyReviewTemperature = 0.8

// DailySummary produces the 3-5 sentence summary for one day's merged
// content.
func (p *Processor) DailySummary(ctx context.Context, content string) (string, error) {
	summary, err := p.call(ctx, summarySystemPrompt, "Today's journal entries:\n\n"+content, p.cfg.Temperature)
	if err != nil {
		return "", fmt.Errorf("daily summary: %w", err)
	}
	return strings.TrimSpace(summary), nil
}

// ExtractTasks pulls completed/pending/idea tasks out of the content.
// Unparseable output degrades to an empty payload.
func (p *Processor) ExtractTasks(ctx context.Context, content string) (models.TasksPayload, error) {
	raw, err := p.call(ctx, tasksSystemPrompt, content, p.cfg.Temperature)
	if err != nil {
		return models.TasksPayload{}, fmt.Errorf("extract tasks: %w", err)
	}
	return parseTasksPayload(raw), nil
}

// ExtractInsights annotates the content with mood, energy, themes, wins,
// challenges, people, and quotes. Unparseable output degrades to the
// neutral payload.
func (p *Processor) ExtractInsights(ctx context.Context, content string) (models.InsightsPayload, error) {
	raw, err := p.call(ctx, insightsSystemPrompt, content, p.cfg.Temperature)
	if err != nil {
		return models.InsightsPayload{}, fmt.Errorf("extract insights: %w", err)
	}
	return parseInsightsPayload(raw), nil
}

// SuggestTasks proposes next-day tasks given today's content, the open
// task list, and the trailing week of entries.
func (p *Processor) SuggestTasks(ctx context.Context, content string, pending []string, history []models.DailyEntry) ([]models.Suggestion, error) {
	var sb strings.Builder
	sb.WriteString("TODAY'S JOURNAL:\n")
	sb.WriteString(content)

	if len(pending) > 0 {
		sb.WriteString("\n\nCURRENT PENDING TASKS:\n")
		for _, t := range pending {
			sb.WriteString("- " + t + "\n")
		}
	}

	if len(history) > 0 {
		sb.WriteString("\n\nRECENT PATTERNS (last 7 days):\n")
		start := 0
		if len(history) > 7 {
			start = len(history) - 7
		}
		for _, entry := range history[start:] {
			summary := entry.Summary
			if runes := []rune(summary); len(runes) > 100 {
				summary = string(runes[:100])
			}
			sb.WriteString(fmt.Sprintf("- %s: %s...\n", entry.Date, summary))
		}
	}

	raw, err := p.call(ctx, suggestionsSystemPrompt, sb.String(), p.cfg.Temperature)
	if err != nil {
		return nil, fmt.Errorf("suggest tasks: %w", err)
	}
	return parseSuggestions(raw), nil
}

// WeeklyReview rolls a week of daily entries into one review.
func (p *Processor) WeeklyReview(ctx context.Context, entries []models.DailyEntry) (models.WeeklyReview, error) {
	var sb strings.Builder
	for _, entry := range entries {
		fmt.Fprintf(&sb, "\n--- %s ---\nSummary: %s\nMood: %s\nEnergy: %d\nThemes: %s\n",
			entry.Date, entry.Summary, entry.Mood, entry.Energy, entry.Themes)
	}

	raw, err := p.call(ctx, weeklyReviewSystemPrompt, sb.String(), weeklyReviewTemperature)
	if err != nil {
		return models.WeeklyReview{}, fmt.Errorf("weekly review: %w", err)
	}
	return parseWeeklyReview(raw), nil
}

func parseTasksPayload(raw string) models.TasksPayload {
	var payload models.TasksPayload
	if err := json.Unmarshal([]byte(extractJSONFromText(raw)), &payload); err != nil {
		return models.TasksPayload{
			Completed: []models.TaskInput{},
			Pending:   []models.TaskInput{},
			Ideas:     []models.TaskInput{},
		}
	}
	return payload
}

// NeutralInsights is the degraded payload used when the model's output
// cannot be parsed.
func NeutralInsights() models.InsightsPayload {
	return models.InsightsPayload{
		Mood:            models.Mood{Primary: "unknown", Confidence: "low"},
		EnergyLevel:     5,
		Themes:          []string{},
		Wins:            []string{},
		Challenges:      []string{},
		PeopleMentioned: []string{},
		NotableQuotes:   []string{},
	}
}

func parseInsightsPayload(raw string) models.InsightsPayload {
	var payload models.InsightsPayload
	if err := json.Unmarshal([]byte(extractJSONFromText(raw)), &payload); err != nil {
		return NeutralInsights()
	}
	return payload
}

func parseSuggestions(raw string) []models.Suggestion {
	var parsed struct {
		Suggestions []models.Suggestion `json:"suggestions"`
	}
	if err := json.Unmarshal([]byte(extractJSONFromText(raw)), &parsed); err != nil {
		return []models.Suggestion{}
	}
	if parsed.Suggestions == nil {
		return []models.Suggestion{}
	}
	return parsed.Suggestions
}

func parseWeeklyReview(raw string) models.WeeklyReview {
	var review models.WeeklyReview
	if err := json.Unmarshal([]byte(extractJSONFromText(raw)), &review); err != nil {
		return models.WeeklyReview{Overview: "Could not generate weekly review"}
	}
	return review
}
