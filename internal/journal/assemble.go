package journal

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/journalbackend/internal/models"
)

// MaxStoredContentLength is the hard ceiling for persisted raw content,
// in characters. Oversized merged documents are truncated silently to
// stay inside backing-store cell limits.
const MaxStoredContentLength = 50000

// AssembleDailyRecord combines merged content, its statistics, the AI
// summary, and the insight annotations into one persistable daily entry.
// Missing insight sub-fields come through as zero values; list fields are
// joined into comma-separated strings (empty lists become empty strings).
// Both timestamps are set to now; the store preserves the original
// creation timestamp when a record for the date already exists.
func AssembleDailyRecord(date string, merged string, stats models.ContentStats, summary string, insights models.InsightsPayload) (models.DailyEntry, error) {
	if _, err := time.Parse(DateFormat, date); err != nil {
		return models.DailyEntry{}, fmt.Errorf("assemble daily record: invalid date %q: %w", date, err)
	}

	// The limit counts characters, not bytes; cutting on a byte offset
	// could split a rune and store invalid UTF-8.
	if utf8.RuneCountInString(merged) > MaxStoredContentLength {
		merged = string([]rune(merged)[:MaxStoredContentLength])
	}

	now := time.Now()
	return models.DailyEntry{
		Date:           date,
		RawContent:     merged,
		Summary:        summary,
		Mood:           insights.Mood.Primary,
		MoodConfidence: insights.Mood.Confidence,
		Energy:         int(insights.EnergyLevel),
		Themes:         strings.Join(insights.Themes, ", "),
		Wins:           strings.Join(insights.Wins, ", "),
		Challenges:     strings.Join(insights.Challenges, ", "),
		Sources:        strings.Join(stats.SourcesUsed, ", "),
		WordCount:      stats.TotalWords,
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}
