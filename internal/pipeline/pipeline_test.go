package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/journalbackend/internal/ai"
	"github.com/journalbackend/internal/config"
	"github.com/journalbackend/internal/journal"
	"github.com/journalbackend/internal/models"
	"github.com/journalbackend/internal/store"
)

type stubReader map[string]string

func (r stubReader) ReadSource(_ context.Context, source string, _ time.Time) (string, error) {
	return r[source], nil
}

type stubAnalyzer struct {
	summary     string
	tasks       models.TasksPayload
	insights    models.InsightsPayload
	suggestions []models.Suggestion
	review      models.WeeklyReview

	summaryErr error
	suggestErr error

	suggestPending []string
	suggestHistory []models.DailyEntry
}

func (a *stubAnalyzer) DailySummary(context.Context, string) (string, error) {
	return a.summary, a.summaryErr
}

func (a *stubAnalyzer) ExtractTasks(context.Context, string) (models.TasksPayload, error) {
	return a.tasks, nil
}

func (a *stubAnalyzer) ExtractInsights(context.Context, string) (models.InsightsPayload, error) {
	return a.insights, nil
}

func (a *stubAnalyzer) SuggestTasks(_ context.Context, _ string, pending []string, history []models.DailyEntry) ([]models.Suggestion, error) {
	a.suggestPending = pending
	a.suggestHistory = history
	return a.suggestions, a.suggestErr
}

func (a *stubAnalyzer) WeeklyReview(context.Context, []models.DailyEntry) (models.WeeklyReview, error) {
	return a.review, nil
}

func testConfig() config.Config {
	return config.Config{Model: "gpt-4o", DailySpendLimit: 5.0}
}

func fullAnalyzer() *stubAnalyzer {
	return &stubAnalyzer{
		summary: "A productive day with steady focus.",
		tasks: models.TasksPayload{
			Completed: []models.TaskInput{models.PlainTask("sent the invoice")},
			Pending:   []models.TaskInput{{Task: "file taxes", Priority: models.TaskPriorityHigh}},
			Ideas:     []models.TaskInput{models.PlainTask("maybe learn piano")},
		},
		insights: models.InsightsPayload{
			Mood:        models.Mood{Primary: "focused", Confidence: "high"},
			EnergyLevel: 7,
			Themes:      []string{"work", "health"},
			Wins:        []string{"shipped the report"},
		},
		suggestions: []models.Suggestion{
			{Task: "follow up on invoice", Priority: models.TaskPriorityMedium, Reason: "payment pending"},
		},
	}
}

func newTestPipeline(t *testing.T, mem *store.Memory, analyzer Analyzer, reader stubReader) *Pipeline {
	t.Helper()
	p, err := New(testConfig(), mem, analyzer, reader, zap.NewNop())
	require.NoError(t, err)
	return p
}

func TestProcessDay_FullRun(t *testing.T) {
	mem := store.NewMemory()
	analyzer := fullAnalyzer()
	reader := stubReader{journal.SourceNotebook: "wrote three pages this morning"}
	p := newTestPipeline(t, mem, analyzer, reader)

	date := time.Date(2024, 1, 5, 8, 0, 0, 0, time.UTC)
	result, err := p.ProcessDay(context.Background(), date)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.False(t, result.Skipped)
	assert.Equal(t, "2024-01-05", result.Date)
	assert.Equal(t, 3, result.TasksSaved)

	entries, err := mem.ListDailyEntries(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "2024-01-05", entries[0].Date)
	assert.Equal(t, "A productive day with steady focus.", entries[0].Summary)
	assert.Equal(t, "focused", entries[0].Mood)
	assert.Equal(t, 7, entries[0].Energy)
	assert.Contains(t, entries[0].RawContent, "wrote three pages")

	tasks := mem.Tasks()
	require.Len(t, tasks, 3)
	assert.Equal(t, models.TaskStatusCompleted, tasks[0].Status)
	assert.Equal(t, models.TaskStatusPending, tasks[1].Status)
	assert.Equal(t, models.TaskPriorityHigh, tasks[1].Priority)
	assert.Equal(t, models.TaskStatusSuggested, tasks[2].Status)
	assert.Equal(t, models.TaskSourceAISuggested, tasks[2].Source)

	insights := mem.Insights()
	require.Len(t, insights, 1)
	assert.Equal(t, "focused", insights[0].Mood)
	assert.Equal(t, "work, health", insights[0].Themes)
}

func TestProcessDay_IdeasAreNotPersisted(t *testing.T) {
	mem := store.NewMemory()
	analyzer := fullAnalyzer()
	analyzer.suggestions = nil
	p := newTestPipeline(t, mem, analyzer, stubReader{journal.SourceNotes: "jotting"})

	_, err := p.ProcessDay(context.Background(), time.Date(2024, 1, 5, 8, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	for _, task := range mem.Tasks() {
		assert.NotEqual(t, "maybe learn piano", task.Task)
	}
}

func TestProcessDay_EmptyContentSkips(t *testing.T) {
	mem := store.NewMemory()
	p := newTestPipeline(t, mem, fullAnalyzer(), stubReader{})

	result, err := p.ProcessDay(context.Background(), time.Date(2024, 1, 5, 8, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.True(t, result.Skipped)

	entries, err := mem.ListDailyEntries(context.Background())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestProcessDay_UnchangedContentSkipsSecondRun(t *testing.T) {
	mem := store.NewMemory()
	analyzer := fullAnalyzer()
	p := newTestPipeline(t, mem, analyzer, stubReader{journal.SourceNotes: "same entry"})
	date := time.Date(2024, 1, 5, 8, 0, 0, 0, time.UTC)

	first, err := p.ProcessDay(context.Background(), date)
	require.NoError(t, err)
	assert.False(t, first.Skipped)

	second, err := p.ProcessDay(context.Background(), date)
	require.NoError(t, err)
	assert.True(t, second.Skipped)

	// No duplicate tasks from the second run.
	assert.Len(t, mem.Tasks(), 3)
}

func TestProcessDay_ChangedContentReprocesses(t *testing.T) {
	mem := store.NewMemory()
	analyzer := fullAnalyzer()
	reader := stubReader{journal.SourceNotes: "first draft"}
	p := newTestPipeline(t, mem, analyzer, reader)
	date := time.Date(2024, 1, 5, 8, 0, 0, 0, time.UTC)

	_, err := p.ProcessDay(context.Background(), date)
	require.NoError(t, err)

	reader[journal.SourceNotes] = "first draft plus an evening note"
	result, err := p.ProcessDay(context.Background(), date)
	require.NoError(t, err)
	assert.False(t, result.Skipped)

	entries, err := mem.ListDailyEntries(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Contains(t, entries[0].RawContent, "evening note")
}

func TestProcessDay_SummaryErrorFailsRun(t *testing.T) {
	mem := store.NewMemory()
	analyzer := fullAnalyzer()
	analyzer.summaryErr = errors.New("upstream timeout")
	p := newTestPipeline(t, mem, analyzer, stubReader{journal.SourceNotes: "entry"})

	_, err := p.ProcessDay(context.Background(), time.Date(2024, 1, 5, 8, 0, 0, 0, time.UTC))
	require.Error(t, err)

	entries, lerr := mem.ListDailyEntries(context.Background())
	require.NoError(t, lerr)
	assert.Empty(t, entries)

	// A failed run must not block the retry.
	analyzer.summaryErr = nil
	result, err := p.ProcessDay(context.Background(), time.Date(2024, 1, 5, 8, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.False(t, result.Skipped)
}

func TestProcessDay_SuggestionFailureDegrades(t *testing.T) {
	mem := store.NewMemory()
	analyzer := fullAnalyzer()
	analyzer.suggestErr = errors.New("upstream timeout")
	p := newTestPipeline(t, mem, analyzer, stubReader{journal.SourceNotes: "entry"})

	result, err := p.ProcessDay(context.Background(), time.Date(2024, 1, 5, 8, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Empty(t, result.Suggestions)
	assert.Equal(t, 2, result.TasksSaved)
}

func TestProcessDay_SuggestionBudgetSkipLogsReason(t *testing.T) {
	mem := store.NewMemory()
	analyzer := fullAnalyzer()
	reader := stubReader{journal.SourceNotes: "entry"}

	// Budget covers the three core calls but not the suggestion call.
	merged := journal.Merge(journal.SourceBundle{journal.SourceNotes: reader[journal.SourceNotes]})
	perCall := ai.EstimateCost(ai.EstimateTokens(merged), completionTokenBudget, "gpt-4o")
	cfg := config.Config{Model: "gpt-4o", DailySpendLimit: 3.5 * perCall}

	obsCore, logs := observer.New(zap.WarnLevel)
	p, err := New(cfg, mem, analyzer, reader, zap.New(obsCore))
	require.NoError(t, err)

	result, err := p.ProcessDay(context.Background(), time.Date(2024, 1, 5, 8, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Empty(t, result.Suggestions)
	assert.Equal(t, 2, result.TasksSaved)

	skips := logs.FilterMessage("skipping suggestions").All()
	require.Len(t, skips, 1)
	reason, ok := skips[0].ContextMap()["reason"].(string)
	require.True(t, ok, "skip log must carry the denial reason")
	assert.Contains(t, reason, "limit")
}

func TestProcessDay_SpendLimitBlocksRun(t *testing.T) {
	mem := store.NewMemory()
	require.NoError(t, mem.SaveSpend(context.Background(), models.SpendRecord{
		Date: "2024-01-05", LLMCost: 100.0, DailyLimit: 5.0,
	}))
	p := newTestPipeline(t, mem, fullAnalyzer(), stubReader{journal.SourceNotes: "entry"})

	_, err := p.ProcessDay(context.Background(), time.Date(2024, 1, 5, 8, 0, 0, 0, time.UTC))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "spend limit")
}

func TestProcessDay_PassesPendingAndHistoryToSuggestions(t *testing.T) {
	mem := store.NewMemory()
	ctx := context.Background()
	_, err := mem.AddTask(ctx, models.TaskRecord{
		Date: "2024-01-04", Task: "water the plants",
		Status: models.TaskStatusPending, Priority: models.TaskPriorityLow,
		Source: models.TaskSourceManual,
	})
	require.NoError(t, err)
	require.NoError(t, mem.UpsertDailyEntry(ctx, models.DailyEntry{
		Date: "2024-01-04", Summary: "quiet day", CreatedAt: time.Now(), UpdatedAt: time.Now(),
	}))

	analyzer := fullAnalyzer()
	p := newTestPipeline(t, mem, analyzer, stubReader{journal.SourceNotes: "entry"})

	_, err = p.ProcessDay(ctx, time.Date(2024, 1, 5, 8, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	assert.Contains(t, analyzer.suggestPending, "water the plants")
	require.Len(t, analyzer.suggestHistory, 1)
	assert.Equal(t, "2024-01-04", analyzer.suggestHistory[0].Date)
}

func TestProcessWeek_SavesStampedReview(t *testing.T) {
	mem := store.NewMemory()
	ctx := context.Background()
	for _, d := range []string{"2024-01-01", "2024-01-03", "2024-01-07"} {
		require.NoError(t, mem.UpsertDailyEntry(ctx, models.DailyEntry{
			Date: d, Summary: "day " + d, CreatedAt: time.Now(), UpdatedAt: time.Now(),
		}))
	}

	analyzer := fullAnalyzer()
	analyzer.review = models.WeeklyReview{Overview: "A steady week."}
	p := newTestPipeline(t, mem, analyzer, stubReader{})

	review, err := p.ProcessWeek(ctx, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.NotNil(t, review)
	assert.Equal(t, "2024-01-01", review.WeekStart)
	assert.Equal(t, "2024-01-07", review.WeekEnd)
	assert.False(t, review.CreatedAt.IsZero())

	saved := mem.WeeklyReviews()
	require.Len(t, saved, 1)
	assert.Equal(t, "A steady week.", saved[0].Overview)
}

func TestProcessWeek_EmptyWeekReturnsNil(t *testing.T) {
	p := newTestPipeline(t, store.NewMemory(), fullAnalyzer(), stubReader{})

	review, err := p.ProcessWeek(context.Background(), time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Nil(t, review)
}

func TestDefaultWeekStart_PreviousMonday(t *testing.T) {
	// Wednesday 2024-01-17 -> previous full week starts Monday 2024-01-08.
	now := time.Date(2024, 1, 17, 15, 0, 0, 0, time.UTC)
	start := DefaultWeekStart(now, time.UTC)
	assert.Equal(t, "2024-01-08", start.Format(journal.DateFormat))

	// Monday itself still rolls back a full week.
	monday := time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)
	assert.Equal(t, "2024-01-08", DefaultWeekStart(monday, time.UTC).Format(journal.DateFormat))
}
