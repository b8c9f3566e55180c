package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"go.uber.org/zap"

	"github.com/journalbackend/internal/ai"
	"github.com/journalbackend/internal/config"
	"github.com/journalbackend/internal/journal"
	"github.com/journalbackend/internal/models"
	"github.com/journalbackend/internal/pipeline"
	"github.com/journalbackend/internal/sources"
	"github.com/journalbackend/internal/store"
)

// scheduleDetail carries an optional week-start override. Without one
// the run reviews the previous full week, Monday to Sunday.
type scheduleDetail struct {
	WeekStart string `json:"week_start"`
}

var (
	cfg    config.Config
	pipe   *pipeline.Pipeline
	logger *zap.Logger
)

func handler(ctx context.Context, event events.CloudWatchEvent) (*models.WeeklyReview, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, fmt.Errorf("load timezone: %w", err)
	}

	weekStart := pipeline.DefaultWeekStart(time.Now(), loc)
	if len(event.Detail) > 0 {
		var detail scheduleDetail
		if err := json.Unmarshal(event.Detail, &detail); err == nil && detail.WeekStart != "" {
			parsed, err := time.ParseInLocation(journal.DateFormat, detail.WeekStart, loc)
			if err != nil {
				return nil, fmt.Errorf("invalid week_start override %q: %w", detail.WeekStart, err)
			}
			weekStart = parsed
		}
	}

	review, err := pipe.ProcessWeek(ctx, weekStart)
	if err != nil {
		logger.Error("weekly review failed", zap.Error(err))
		return nil, err
	}
	return review, nil
}

func init() {
	var err error
	logger, err = zap.NewProduction()
	if err != nil {
		fmt.Printf("Error initializing logger: %v\n", err)
		os.Exit(1)
	}

	cfg, err = config.Load()
	if err != nil {
		logger.Fatal("failed to load config", zap.Error(err))
	}

	st, err := store.Open(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("failed to initialize database", zap.Error(err))
	}

	processor, err := ai.NewProcessor(cfg)
	if err != nil {
		logger.Fatal("failed to initialize AI processor", zap.Error(err))
	}

	pipe, err = pipeline.New(cfg, st, processor, sources.LocalReader{Root: cfg.DataDir}, logger)
	if err != nil {
		logger.Fatal("failed to initialize pipeline", zap.Error(err))
	}
}

func main() {
	lambda.Start(handler)
}
