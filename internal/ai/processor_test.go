package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/journalbackend/internal/models"
)

func TestExtractJSONFromText(t *testing.T) {
	t.Run("plain object passes through", func(t *testing.T) {
		assert.Equal(t, `{"a":1}`, extractJSONFromText(`{"a":1}`))
	})

	t.Run("strips code fences", func(t *testing.T) {
		raw := "```json\n{\"a\": 1}\n```"
		assert.Equal(t, `{"a": 1}`, extractJSONFromText(raw))
	})

	t.Run("pulls object out of prose", func(t *testing.T) {
		raw := `Here is the result: {"a": 1} hope that helps!`
		assert.Equal(t, `{"a": 1}`, extractJSONFromText(raw))
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Equal(t, "", extractJSONFromText("  "))
	})
}

func TestParseTasksPayload(t *testing.T) {
	raw := `{
		"completed": ["walked the dog"],
		"pending": [{"task": "call dentist", "priority": "high"}],
		"ideas": [{"task": "learn piano"}]
	}`

	payload := parseTasksPayload(raw)
	require.Len(t, payload.Completed, 1)
	require.Len(t, payload.Pending, 1)
	require.Len(t, payload.Ideas, 1)
	assert.Equal(t, "call dentist", payload.Pending[0].Task)
	assert.Equal(t, "high", payload.Pending[0].Priority)
}

func TestParseTasksPayload_DegradesToEmpty(t *testing.T) {
	payload := parseTasksPayload("the model rambled instead of answering")

	assert.Empty(t, payload.Completed)
	assert.Empty(t, payload.Pending)
	assert.Empty(t, payload.Ideas)
	assert.NotNil(t, payload.Completed)
}

func TestParseInsightsPayload(t *testing.T) {
	raw := `{
		"mood": {"primary": "calm", "confidence": "high"},
		"energy_level": "7",
		"themes": ["rest"],
		"wins": ["finished the book"],
		"challenges": [],
		"people_mentioned": ["Sam"],
		"notable_quotes": []
	}`

	payload := parseInsightsPayload(raw)
	assert.Equal(t, "calm", payload.Mood.Primary)
	assert.Equal(t, models.FlexInt(7), payload.EnergyLevel, "string energy levels must parse")
	assert.Equal(t, []string{"Sam"}, payload.PeopleMentioned)
}

func TestParseInsightsPayload_DegradesToNeutral(t *testing.T) {
	payload := parseInsightsPayload("not json at all")

	assert.Equal(t, "unknown", payload.Mood.Primary)
	assert.Equal(t, "low", payload.Mood.Confidence)
	assert.Equal(t, models.FlexInt(5), payload.EnergyLevel)
	assert.Empty(t, payload.Themes)
}

func TestParseSuggestions(t *testing.T) {
	raw := "```json\n" + `{"suggestions": [{"task": "morning run", "priority": "low", "reason": "energy dipped", "category": "health"}]}` + "\n```"

	suggestions := parseSuggestions(raw)
	require.Len(t, suggestions, 1)
	assert.Equal(t, "morning run", suggestions[0].Task)
	assert.Equal(t, "health", suggestions[0].Category)
}

func TestParseSuggestions_DegradesToEmpty(t *testing.T) {
	assert.Empty(t, parseSuggestions("nope"))
	assert.NotNil(t, parseSuggestions("nope"))
}

func TestParseWeeklyReview(t *testing.T) {
	raw := `{
		"overview": "A steady week.",
		"accomplishments": ["shipped the feature"],
		"patterns": {"mood_trend": "improving", "energy_trend": "stable", "recurring_themes": ["work"]},
		"challenges": ["short nights"],
		"insights": ["mornings are productive"],
		"next_week_suggestions": [{"task": "block focus time", "reason": "it worked"}],
		"highlight_of_week": "Friday demo",
		"word_of_week": "momentum"
	}`

	review := parseWeeklyReview(raw)
	assert.Equal(t, "A steady week.", review.Overview)
	assert.Equal(t, "improving", review.Patterns.MoodTrend)
	require.Len(t, review.NextWeek, 1)
	assert.Equal(t, "block focus time", review.NextWeek[0].Task)
	assert.Equal(t, "momentum", review.WordOfWeek)
}

func TestParseWeeklyReview_DegradesToStub(t *testing.T) {
	review := parseWeeklyReview("total garbage")
	assert.Equal(t, "Could not generate weekly review", review.Overview)
}

func TestEstimateCost(t *testing.T) {
	known := EstimateCost(1000, 1000, "gpt-4o")
	assert.InDelta(t, 0.0125, known, 1e-9)

	mini := EstimateCost(1000, 1000, "gpt-4o-mini")
	assert.Less(t, mini, known)

	unknown := EstimateCost(1000, 1000, "mystery-model")
	assert.InDelta(t, known, unknown, 1e-9, "unknown models use gpt-4o pricing")
}

func TestEstimateTokens(t *testing.T) {
	assert.Equal(t, 25, EstimateTokens(string(make([]byte, 100))))
}

func TestNewProcessor_RequiresAPIKey(t *testing.T) {
	_, err := NewProcessor(configWithKey(""))
	assert.Error(t, err)

	p, err := NewProcessor(configWithKey("sk-test"))
	require.NoError(t, err)
	assert.NotNil(t, p)
}
