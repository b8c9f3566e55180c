// Package pipeline orchestrates the daily and weekly processing runs:
// collect raw content, run the AI annotations under the spend limit, and
// persist the assembled records.
package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/journalbackend/internal/ai"
	"github.com/journalbackend/internal/config"
	"github.com/journalbackend/internal/encryption"
	"github.com/journalbackend/internal/idempotency"
	"github.com/journalbackend/internal/journal"
	"github.com/journalbackend/internal/models"
	"github.com/journalbackend/internal/sources"
	"github.com/journalbackend/internal/store"
)

// completionTokenBudget approximates the response size for one call when
// estimating cost ahead of time.
const completionTokenBudget = 500

// Analyzer is the AI surface the pipeline depends on.
type Analyzer interface {
	DailySummary(ctx context.Context, content string) (string, error)
	ExtractTasks(ctx context.Context, content string) (models.TasksPayload, error)
	ExtractInsights(ctx context.Context, content string) (models.InsightsPayload, error)
	SuggestTasks(ctx context.Context, content string, pending []string, history []models.DailyEntry) ([]models.Suggestion, error)
	WeeklyReview(ctx context.Context, entries []models.DailyEntry) (models.WeeklyReview, error)
}

// DayResult reports what a daily run produced.
type DayResult struct {
	Date        string                 `json:"date"`
	Skipped     bool                   `json:"skipped"`
	Stats       models.ContentStats    `json:"stats"`
	Summary     string                 `json:"summary"`
	Tasks       models.TasksPayload    `json:"tasks"`
	Suggestions []models.Suggestion    `json:"suggestions"`
	Insights    models.InsightsPayload `json:"insights"`
	TasksSaved  int                    `json:"tasks_saved"`
}

type Pipeline struct {
	cfg      config.Config
	store    store.Store
	analyzer Analyzer
	reader   sources.Reader
	cost     *ai.CostControl
	guard    *idempotency.Service
	cipher   *encryption.Cipher
	logger   *zap.Logger
}

// New wires a pipeline over the given store, analyzer, and source
// reader. Content encryption is enabled when a key is configured.
func New(cfg config.Config, s store.Store, analyzer Analyzer, reader sources.Reader, logger *zap.Logger) (*Pipeline, error) {
	p := &Pipeline{
		cfg:      cfg,
		store:    s,
		analyzer: analyzer,
		reader:   reader,
		cost:     ai.NewCostControl(s, cfg.DailySpendLimit),
		guard:    idempotency.NewService(s),
		logger:   logger,
	}
	if encryption.Enabled() {
		cipher, err := encryption.NewCipher()
		if err != nil {
			return nil, fmt.Errorf("init content cipher: %w", err)
		}
		p.cipher = cipher
	}
	return p, nil
}

// ProcessDay runs the full daily pipeline for one date. A date with no
// source content returns a skipped result without error, as does a date
// whose content was already processed.
func (p *Pipeline) ProcessDay(ctx context.Context, date time.Time) (*DayResult, error) {
	dateStr := date.Format(journal.DateFormat)
	log := p.logger.With(zap.String("date", dateStr), zap.String("run_id", uuid.NewString()))

	bundle, err := sources.Collect(ctx, p.reader, date)
	if err != nil {
		return nil, fmt.Errorf("process day %s: %w", dateStr, err)
	}
	if len(bundle) == 0 {
		log.Info("no content found, skipping")
		return &DayResult{Date: dateStr, Skipped: true}, nil
	}

	merged := journal.Merge(bundle)
	stats := journal.Stats(bundle)
	log.Info("content collected",
		zap.Int("words", stats.TotalWords),
		zap.Strings("sources", stats.SourcesUsed))

	contentHash := p.guard.GenerateContentHash(merged)
	skip, err := p.guard.CheckRun(ctx, dateStr, contentHash)
	if err != nil {
		return nil, fmt.Errorf("process day %s: %w", dateStr, err)
	}
	if skip {
		log.Info("content unchanged since last run, skipping")
		return &DayResult{Date: dateStr, Skipped: true, Stats: stats}, nil
	}
	if err := p.guard.BeginRun(ctx, dateStr, contentHash); err != nil {
		return nil, fmt.Errorf("process day %s: %w", dateStr, err)
	}

	result, err := p.runDay(ctx, dateStr, merged, stats, log)
	status := idempotency.StatusCompleted
	if err != nil {
		status = idempotency.StatusFailed
	}
	if ferr := p.guard.FinishRun(ctx, dateStr, contentHash, status); ferr != nil {
		log.Warn("failed to record run outcome", zap.Error(ferr))
	}
	if err != nil {
		return nil, fmt.Errorf("process day %s: %w", dateStr, err)
	}
	return result, nil
}

func (p *Pipeline) runDay(ctx context.Context, dateStr, merged string, stats models.ContentStats, log *zap.Logger) (*DayResult, error) {
	perCall := ai.EstimateCost(ai.EstimateTokens(merged), completionTokenBudget, p.cfg.Model)

	// Summary, tasks, and insights are the core of the run; refuse the
	// whole day when their budget is gone so a later invocation can
	// retry against a fresh limit.
	check, err := p.cost.CheckSpendLimit(ctx, dateStr, 3*perCall)
	if err != nil {
		return nil, err
	}
	if !check.Allowed {
		return nil, fmt.Errorf("daily spend limit reached: %s", check.Reason)
	}

	summary, err := p.analyzer.DailySummary(ctx, merged)
	if err != nil {
		return nil, err
	}
	tasksPayload, err := p.analyzer.ExtractTasks(ctx, merged)
	if err != nil {
		return nil, err
	}
	insights, err := p.analyzer.ExtractInsights(ctx, merged)
	if err != nil {
		return nil, err
	}
	if err := p.cost.RecordRequest(ctx, dateStr, 3*perCall); err != nil {
		log.Warn("failed to record spend", zap.Error(err))
	}

	suggestions := p.suggest(ctx, dateStr, merged, perCall, log)

	entry, err := journal.AssembleDailyRecord(dateStr, merged, stats, summary, insights)
	if err != nil {
		return nil, err
	}
	if p.cipher != nil {
		encrypted, err := p.cipher.Encrypt(entry.RawContent)
		if err != nil {
			return nil, fmt.Errorf("encrypt content: %w", err)
		}
		entry.RawContent = encrypted
	}
	if err := p.store.UpsertDailyEntry(ctx, entry); err != nil {
		return nil, err
	}

	taskRecords, err := p.normalizeAll(dateStr, tasksPayload, suggestions)
	if err != nil {
		return nil, err
	}
	if len(taskRecords) > 0 {
		if _, err := p.store.AddTasksBatch(ctx, taskRecords); err != nil {
			return nil, err
		}
	}

	if err := p.store.AppendInsights(ctx, insightRecord(dateStr, insights)); err != nil {
		return nil, err
	}

	log.Info("day processed",
		zap.Int("tasks_saved", len(taskRecords)),
		zap.Int("suggestions", len(suggestions)))

	return &DayResult{
		Date:        dateStr,
		Stats:       stats,
		Summary:     summary,
		Tasks:       tasksPayload,
		Suggestions: suggestions,
		Insights:    insights,
		TasksSaved:  len(taskRecords),
	}, nil
}

// suggest runs the next-day suggestion call when budget remains. The run
// survives without suggestions, so failures here only log.
func (p *Pipeline) suggest(ctx context.Context, dateStr, merged string, perCall float64, log *zap.Logger) []models.Suggestion {
	check, err := p.cost.CheckSpendLimit(ctx, dateStr, perCall)
	if err != nil {
		log.Warn("skipping suggestions", zap.Error(err))
		return nil
	}
	if !check.Allowed {
		log.Warn("skipping suggestions", zap.String("reason", check.Reason))
		return nil
	}

	pending, err := p.store.PendingTasks(ctx)
	if err != nil {
		log.Warn("skipping suggestions", zap.Error(err))
		return nil
	}
	pendingTexts := make([]string, 0, len(pending))
	for _, t := range pending {
		pendingTexts = append(pendingTexts, t.Task)
	}

	history, err := p.recentHistory(ctx, dateStr)
	if err != nil {
		log.Warn("skipping suggestions", zap.Error(err))
		return nil
	}

	suggestions, err := p.analyzer.SuggestTasks(ctx, merged, pendingTexts, history)
	if err != nil {
		log.Warn("skipping suggestions", zap.Error(err))
		return nil
	}
	if err := p.cost.RecordRequest(ctx, dateStr, perCall); err != nil {
		log.Warn("failed to record spend", zap.Error(err))
	}
	return suggestions
}

func (p *Pipeline) recentHistory(ctx context.Context, dateStr string) ([]models.DailyEntry, error) {
	entries, err := p.store.ListDailyEntries(ctx)
	if err != nil {
		return nil, err
	}
	asOf, err := time.Parse(journal.DateFormat, dateStr)
	if err != nil {
		return nil, err
	}
	return journal.Recent(entries, 7, asOf)
}

func (p *Pipeline) normalizeAll(dateStr string, payload models.TasksPayload, suggestions []models.Suggestion) ([]models.TaskRecord, error) {
	completed, err := journal.NormalizeTasks(payload.Completed, dateStr, models.TaskStatusCompleted, models.TaskSourceExtracted)
	if err != nil {
		return nil, err
	}
	pending, err := journal.NormalizeTasks(payload.Pending, dateStr, models.TaskStatusPending, models.TaskSourceExtracted)
	if err != nil {
		return nil, err
	}
	suggested, err := journal.NormalizeTasks(journal.SuggestionInputs(suggestions), dateStr, models.TaskStatusSuggested, models.TaskSourceAISuggested)
	if err != nil {
		return nil, err
	}

	records := make([]models.TaskRecord, 0, len(completed)+len(pending)+len(suggested))
	records = append(records, completed...)
	records = append(records, pending...)
	records = append(records, suggested...)
	return records, nil
}

func insightRecord(dateStr string, insights models.InsightsPayload) models.InsightRecord {
	return models.InsightRecord{
		Date:            dateStr,
		Mood:            insights.Mood.Primary,
		Energy:          int(insights.EnergyLevel),
		Themes:          strings.Join(insights.Themes, ", "),
		PeopleMentioned: strings.Join(insights.PeopleMentioned, ", "),
		NotableQuotes:   insights.NotableQuotes,
		CreatedAt:       time.Now(),
	}
}

// ProcessWeek builds the weekly review for the week starting at
// weekStart. A week with no entries returns nil without error.
func (p *Pipeline) ProcessWeek(ctx context.Context, weekStart time.Time) (*models.WeeklyReview, error) {
	startStr := weekStart.Format(journal.DateFormat)
	endStr := weekStart.AddDate(0, 0, 6).Format(journal.DateFormat)
	log := p.logger.With(zap.String("week_start", startStr), zap.String("week_end", endStr))

	entries, err := p.store.ListDailyEntries(ctx)
	if err != nil {
		return nil, fmt.Errorf("process week %s: %w", startStr, err)
	}
	week, err := journal.ForWeek(entries, weekStart)
	if err != nil {
		return nil, fmt.Errorf("process week %s: %w", startStr, err)
	}
	if len(week) == 0 {
		log.Info("no entries found for this week")
		return nil, nil
	}
	log.Info("generating weekly review", zap.Int("entries", len(week)))

	review, err := p.analyzer.WeeklyReview(ctx, week)
	if err != nil {
		return nil, fmt.Errorf("process week %s: %w", startStr, err)
	}
	review.WeekStart = startStr
	review.WeekEnd = endStr
	review.CreatedAt = time.Now()

	if err := p.store.AppendWeeklyReview(ctx, review); err != nil {
		return nil, fmt.Errorf("process week %s: %w", startStr, err)
	}
	log.Info("weekly review saved")
	return &review, nil
}

// DefaultWeekStart returns the Monday of the previous full week in loc.
func DefaultWeekStart(now time.Time, loc *time.Location) time.Time {
	today := now.In(loc)
	weekday := int(today.Weekday()+6) % 7 // Monday = 0
	start := today.AddDate(0, 0, -weekday-7)
	return time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, loc)
}
