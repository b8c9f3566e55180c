package ai

import (
	"context"
	"fmt"
	"time"

	"github.com/journalbackend/internal/models"
	"github.com/journalbackend/internal/store"
)

// CostControl tracks per-day LLM spend against a daily dollar limit and
// lets the pipeline degrade gracefully instead of overspending.
type CostControl struct {
	store      store.Store
	dailyLimit float64
}

type CostCheckResult struct {
	Allowed     bool    `json:"allowed"`
	Remaining   float64 `json:"remaining"`
	CurrentCost float64 `json:"current_cost"`
	DailyLimit  float64 `json:"daily_limit"`
	Reason      string  `json:"reason,omitempty"`
}

func NewCostControl(s store.Store, dailyLimit float64) *CostControl {
	return &CostControl{store: s, dailyLimit: dailyLimit}
}

// CheckSpendLimit reports whether an estimated request cost fits within
// the remaining budget for the date.
func (c *CostControl) CheckSpendLimit(ctx context.Context, date string, estimatedCost float64) (*CostCheckResult, error) {
	rec, err := c.store.SpendForDate(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("failed to get spend record: %w", err)
	}
	if rec == nil {
		rec = &models.SpendRecord{Date: date, DailyLimit: c.dailyLimit}
	}

	result := &CostCheckResult{
		CurrentCost: rec.LLMCost,
		DailyLimit:  rec.DailyLimit,
		Remaining:   rec.DailyLimit - rec.LLMCost,
	}

	if rec.LLMCost+estimatedCost > rec.DailyLimit {
		result.Allowed = false
		result.Reason = fmt.Sprintf("Daily limit exceeded. Current: $%.4f, Request: $%.4f, Limit: $%.4f",
			rec.LLMCost, estimatedCost, rec.DailyLimit)
		return result, nil
	}

	result.Allowed = true
	return result, nil
}

// RecordRequest adds one request and its cost to the date's spend record.
func (c *CostControl) RecordRequest(ctx context.Context, date string, cost float64) error {
	rec, err := c.store.SpendForDate(ctx, date)
	if err != nil {
		return fmt.Errorf("failed to get spend record: %w", err)
	}

	now := time.Now()
	if rec == nil {
		rec = &models.SpendRecord{Date: date, DailyLimit: c.dailyLimit, CreatedAt: now}
	}

	rec.LLMRequests++
	rec.LLMCost += cost
	rec.UpdatedAt = now

	if err := c.store.SaveSpend(ctx, *rec); err != nil {
		return fmt.Errorf("failed to save spend record: %w", err)
	}
	return nil
}

// EstimateCost estimates the dollar cost of one request from rough
// input/output token counts.
func EstimateCost(inputTokens, outputTokens int, model string) float64 {
	// Cost per 1K tokens. Unknown models fall back to gpt-4o pricing.
	costs := map[string]struct {
		input  float64
		output float64
	}{
		"gpt-4o": {
			input:  0.0025, // $2.50 per 1M input tokens
			output: 0.01,   // $10.00 per 1M output tokens
		},
		"gpt-4o-mini": {
			input:  0.00015, // $0.15 per 1M input tokens
			output: 0.0006,  // $0.60 per 1M output tokens
		},
	}

	modelCosts, exists := costs[model]
	if !exists {
		modelCosts = costs["gpt-4o"]
	}

	inputCost := (float64(inputTokens) / 1000.0) * modelCosts.input
	outputCost := (float64(outputTokens) / 1000.0) * modelCosts.output
	return inputCost + outputCost
}

// EstimateTokens approximates the token count of prompt text.
func EstimateTokens(text string) int {
	// Rough heuristic: four characters per token.
	return len(text) / 4
}
