// Package idempotency guards date processing against duplicate runs.
// A scheduled invocation can be retriggered; reprocessing is allowed
// only when the raw content for the date has changed since the last
// completed run.
package idempotency

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/journalbackend/internal/models"
	"github.com/journalbackend/internal/store"
)

const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// recordLifetime bounds how long a run record blocks reprocessing.
const recordLifetime = 24 * time.Hour

type Service struct {
	store store.Store
}

func NewService(s store.Store) *Service {
	return &Service{store: s}
}

// GenerateRunKey creates a stable key for one date's processing run.
func (s *Service) GenerateRunKey(date string) string {
	hash := sha256.Sum256([]byte(fmt.Sprintf("process-day:%s", date)))
	return hex.EncodeToString(hash[:])
}

// GenerateContentHash hashes the merged raw content for comparison.
func (s *Service) GenerateContentHash(content string) string {
	hash := sha256.Sum256([]byte(content))
	return hex.EncodeToString(hash[:])
}

// CheckRun reports whether a run for this date and content should be
// skipped. A completed run with the same content hash means the work is
// already done; an expired or failed record never blocks.
func (s *Service) CheckRun(ctx context.Context, date, contentHash string) (bool, error) {
	rec, err := s.store.RunRecord(ctx, s.GenerateRunKey(date))
	if err != nil {
		return false, fmt.Errorf("check run record: %w", err)
	}
	if rec == nil {
		return false, nil
	}
	if time.Now().After(rec.ExpiresAt) {
		return false, nil
	}
	return rec.Status == StatusCompleted && rec.ContentHash == contentHash, nil
}

// BeginRun marks the run pending before processing starts.
func (s *Service) BeginRun(ctx context.Context, date, contentHash string) error {
	return s.saveRun(ctx, date, contentHash, StatusPending)
}

// FinishRun records the outcome of a processing run.
func (s *Service) FinishRun(ctx context.Context, date, contentHash, status string) error {
	return s.saveRun(ctx, date, contentHash, status)
}

func (s *Service) saveRun(ctx context.Context, date, contentHash, status string) error {
	now := time.Now()
	rec := models.RunRecord{
		Key:         s.GenerateRunKey(date),
		Date:        date,
		ContentHash: contentHash,
		Status:      status,
		CreatedAt:   now,
		ExpiresAt:   now.Add(recordLifetime),
	}
	if err := s.store.SaveRunRecord(ctx, rec); err != nil {
		return fmt.Errorf("save run record: %w", err)
	}
	return nil
}
