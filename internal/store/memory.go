package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/journalbackend/internal/models"
)

// Memory is an in-memory Store for tests and CLI dry runs.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]models.DailyEntry
	tasks   []models.TaskRecord
	reviews []models.WeeklyReview
	notes   []models.InsightRecord
	spend   map[string]models.SpendRecord
	runs    map[string]models.RunRecord
	nextSeq int64
}

func NewMemory() *Memory {
	return &Memory{
		entries: map[string]models.DailyEntry{},
		spend:   map[string]models.SpendRecord{},
		runs:    map[string]models.RunRecord{},
		nextSeq: 1,
	}
}

func (s *Memory) UpsertDailyEntry(_ context.Context, entry models.DailyEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.entries[entry.Date]; ok {
		entry.CreatedAt = existing.CreatedAt
	}
	s.entries[entry.Date] = entry
	return nil
}

func (s *Memory) ListDailyEntries(_ context.Context) ([]models.DailyEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := make([]models.DailyEntry, 0, len(s.entries))
	for _, e := range s.entries {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Date < entries[j].Date })
	return entries, nil
}

func (s *Memory) AddTask(ctx context.Context, task models.TaskRecord) (string, error) {
	ids, err := s.AddTasksBatch(ctx, []models.TaskRecord{task})
	if err != nil {
		return "", err
	}
	return ids[0], nil
}

func (s *Memory) AddTasksBatch(_ context.Context, tasks []models.TaskRecord) ([]string, error) {
	if len(tasks) == 0 {
		return nil, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	ids := make([]string, 0, len(tasks))
	for _, task := range tasks {
		task.ID = TaskID(s.nextSeq)
		s.nextSeq++
		task.CreatedAt = now
		task.UpdatedAt = now
		s.tasks = append(s.tasks, task)
		ids = append(ids, task.ID)
	}
	return ids, nil
}

func (s *Memory) PendingTasks(_ context.Context) ([]models.TaskRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var pending []models.TaskRecord
	for _, t := range s.tasks {
		if t.Status == models.TaskStatusPending {
			pending = append(pending, t)
		}
	}
	return pending, nil
}

func (s *Memory) CompleteTask(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.tasks {
		if s.tasks[i].ID == id {
			now := time.Now()
			s.tasks[i].Status = models.TaskStatusCompleted
			s.tasks[i].CompletedAt = &now
			s.tasks[i].UpdatedAt = now
			return nil
		}
	}
	return ErrTaskNotFound
}

func (s *Memory) AppendWeeklyReview(_ context.Context, review models.WeeklyReview) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reviews = append(s.reviews, review)
	return nil
}

func (s *Memory) AppendInsights(_ context.Context, rec models.InsightRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notes = append(s.notes, rec)
	return nil
}

func (s *Memory) SpendForDate(_ context.Context, date string) (*models.SpendRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.spend[date]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (s *Memory) SaveSpend(_ context.Context, rec models.SpendRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.spend[rec.Date] = rec
	return nil
}

func (s *Memory) RunRecord(_ context.Context, key string) (*models.RunRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.runs[key]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (s *Memory) SaveRunRecord(_ context.Context, rec models.RunRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs[rec.Key] = rec
	return nil
}

// Tasks returns a copy of every task, newest last. Test helper surface.
func (s *Memory) Tasks() []models.TaskRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.TaskRecord(nil), s.tasks...)
}

// WeeklyReviews returns a copy of every stored review.
func (s *Memory) WeeklyReviews() []models.WeeklyReview {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.WeeklyReview(nil), s.reviews...)
}

// Insights returns a copy of every stored insight record.
func (s *Memory) Insights() []models.InsightRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.InsightRecord(nil), s.notes...)
}
