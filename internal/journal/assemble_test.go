package journal

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/journalbackend/internal/models"
)

func sampleInsights() models.InsightsPayload {
	return models.InsightsPayload{
		Mood:        models.Mood{Primary: "calm", Confidence: "high"},
		EnergyLevel: 7,
		Themes:      []string{"work", "family"},
		Wins:        []string{"shipped release"},
		Challenges:  []string{"slept badly"},
	}
}

func TestAssembleDailyRecord_Basic(t *testing.T) {
	stats := models.ContentStats{
		TotalWords:  42,
		SourcesUsed: []string{"notebook", "voice"},
	}

	entry, err := AssembleDailyRecord("2024-01-05", "merged body", stats, "a fine day", sampleInsights())
	require.NoError(t, err)

	assert.Equal(t, "2024-01-05", entry.Date)
	assert.Equal(t, "merged body", entry.RawContent)
	assert.Equal(t, "a fine day", entry.Summary)
	assert.Equal(t, "calm", entry.Mood)
	assert.Equal(t, "high", entry.MoodConfidence)
	assert.Equal(t, 7, entry.Energy)
	assert.Equal(t, "work, family", entry.Themes)
	assert.Equal(t, "shipped release", entry.Wins)
	assert.Equal(t, "slept badly", entry.Challenges)
	assert.Equal(t, "notebook, voice", entry.Sources)
	assert.Equal(t, 42, entry.WordCount)
	assert.False(t, entry.CreatedAt.IsZero())
	assert.Equal(t, entry.CreatedAt, entry.UpdatedAt)
}

func TestAssembleDailyRecord_TruncatesOversizedContent(t *testing.T) {
	big := strings.Repeat("x", 60000)

	entry, err := AssembleDailyRecord("2024-01-05", big, models.ContentStats{}, "", models.InsightsPayload{})
	require.NoError(t, err)

	assert.Len(t, entry.RawContent, MaxStoredContentLength)
}

func TestAssembleDailyRecord_TruncatesByCharactersNotBytes(t *testing.T) {
	// Three bytes per character; a byte-offset cut would split a rune.
	big := strings.Repeat("日", 60000)

	entry, err := AssembleDailyRecord("2024-01-05", big, models.ContentStats{}, "", models.InsightsPayload{})
	require.NoError(t, err)

	assert.Equal(t, MaxStoredContentLength, utf8.RuneCountInString(entry.RawContent))
	assert.True(t, utf8.ValidString(entry.RawContent))
}

func TestAssembleDailyRecord_KeepsMultibyteContentUnderLimit(t *testing.T) {
	// 20,000 characters even though 60,000 bytes.
	content := strings.Repeat("日", 20000)

	entry, err := AssembleDailyRecord("2024-01-05", content, models.ContentStats{}, "", models.InsightsPayload{})
	require.NoError(t, err)

	assert.Equal(t, content, entry.RawContent)
}

func TestAssembleDailyRecord_KeepsContentAtLimit(t *testing.T) {
	exact := strings.Repeat("x", MaxStoredContentLength)

	entry, err := AssembleDailyRecord("2024-01-05", exact, models.ContentStats{}, "", models.InsightsPayload{})
	require.NoError(t, err)

	assert.Len(t, entry.RawContent, MaxStoredContentLength)
}

func TestAssembleDailyRecord_EmptyListsBecomeEmptyStrings(t *testing.T) {
	entry, err := AssembleDailyRecord("2024-01-05", "", models.ContentStats{}, "", models.InsightsPayload{})
	require.NoError(t, err)

	assert.Equal(t, "", entry.Themes)
	assert.Equal(t, "", entry.Wins)
	assert.Equal(t, "", entry.Challenges)
	assert.Equal(t, "", entry.Mood)
	assert.Equal(t, "", entry.MoodConfidence)
}

func TestAssembleDailyRecord_AcceptsDefaultedPayload(t *testing.T) {
	// A degraded upstream payload (parse failure) must assemble without
	// special-casing.
	neutral := models.InsightsPayload{
		Mood:        models.Mood{Primary: "unknown", Confidence: "low"},
		EnergyLevel: 5,
	}

	entry, err := AssembleDailyRecord("2024-01-05", "content", models.ContentStats{}, "", neutral)
	require.NoError(t, err)

	assert.Equal(t, "unknown", entry.Mood)
	assert.Equal(t, 5, entry.Energy)
}

func TestAssembleDailyRecord_RejectsMalformedDate(t *testing.T) {
	_, err := AssembleDailyRecord("05/01/2024", "content", models.ContentStats{}, "", models.InsightsPayload{})
	assert.Error(t, err)

	_, err = AssembleDailyRecord("", "content", models.ContentStats{}, "", models.InsightsPayload{})
	assert.Error(t, err)
}
