// Package store persists journal records. Two implementations share one
// contract: Postgres for deployments and an in-memory store for tests and
// dry runs. Task identifiers are store-assigned from a reserved sequence
// so concurrent batch inserts cannot collide.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/journalbackend/internal/models"
)

var ErrTaskNotFound = errors.New("task not found")

// Store is the persistence contract for journal data.
type Store interface {
	// UpsertDailyEntry inserts the entry or overwrites the existing row
	// for the same date. The original creation timestamp is preserved on
	// update; the update timestamp always moves.
	UpsertDailyEntry(ctx context.Context, entry models.DailyEntry) error

	// ListDailyEntries returns every daily entry in the store.
	ListDailyEntries(ctx context.Context) ([]models.DailyEntry, error)

	// AddTask persists one task and returns its assigned identifier.
	AddTask(ctx context.Context, task models.TaskRecord) (string, error)

	// AddTasksBatch persists all tasks or none of them. Identifiers are
	// reserved atomically for the whole batch and returned in insertion
	// order.
	AddTasksBatch(ctx context.Context, tasks []models.TaskRecord) ([]string, error)

	// PendingTasks returns tasks whose status is pending.
	PendingTasks(ctx context.Context) ([]models.TaskRecord, error)

	// CompleteTask marks a task completed and stamps its completion time.
	// Returns ErrTaskNotFound for an unknown identifier.
	CompleteTask(ctx context.Context, id string) error

	// AppendWeeklyReview appends a weekly review row.
	AppendWeeklyReview(ctx context.Context, review models.WeeklyReview) error

	// AppendInsights appends a daily insight row.
	AppendInsights(ctx context.Context, rec models.InsightRecord) error

	// SpendForDate returns the LLM spend record for a date, or nil when
	// none exists yet.
	SpendForDate(ctx context.Context, date string) (*models.SpendRecord, error)

	// SaveSpend inserts or overwrites the spend record for its date.
	SaveSpend(ctx context.Context, rec models.SpendRecord) error

	// RunRecord returns the processing-run record for a key, or nil.
	RunRecord(ctx context.Context, key string) (*models.RunRecord, error)

	// SaveRunRecord inserts or overwrites a processing-run record.
	SaveRunRecord(ctx context.Context, rec models.RunRecord) error
}

// TaskID formats a reserved sequence value as a task identifier.
func TaskID(seq int64) string {
	return fmt.Sprintf("T%05d", seq)
}
