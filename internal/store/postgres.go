package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/journalbackend/internal/models"
)

// Postgres is the production Store backed by lib/pq.
type Postgres struct {
	db *sql.DB
}

// Open connects to Postgres and bootstraps the schema.
func Open(databaseURL string) (*Postgres, error) {
	if databaseURL == "" {
		return nil, fmt.Errorf("database URL is not set")
	}

	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	if err = db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("error connecting to the database: %w", err)
	}

	s := &Postgres{db: db}
	if err := s.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("error creating tables: %w", err)
	}

	return s, nil
}

// Close releases the underlying connection pool.
func (s *Postgres) Close() error {
	return s.db.Close()
}

func (s *Postgres) createTables() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS daily_entries (
			date TEXT PRIMARY KEY,
			raw_content TEXT NOT NULL DEFAULT '',
			summary TEXT NOT NULL DEFAULT '',
			mood TEXT NOT NULL DEFAULT '',
			mood_confidence TEXT NOT NULL DEFAULT '',
			energy INTEGER NOT NULL DEFAULT 0,
			themes TEXT NOT NULL DEFAULT '',
			wins TEXT NOT NULL DEFAULT '',
			challenges TEXT NOT NULL DEFAULT '',
			sources TEXT NOT NULL DEFAULT '',
			word_count INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS tasks (
			id TEXT PRIMARY KEY,
			date TEXT NOT NULL,
			task TEXT NOT NULL,
			status TEXT NOT NULL,
			priority TEXT NOT NULL,
			category TEXT NOT NULL DEFAULT '',
			deadline TEXT NOT NULL DEFAULT '',
			reason TEXT NOT NULL DEFAULT '',
			source TEXT NOT NULL,
			completed_at TIMESTAMP WITH TIME ZONE,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS task_counter (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			next_seq BIGINT NOT NULL
		)`,
		`INSERT INTO task_counter (id, next_seq) VALUES (1, 1)
			ON CONFLICT (id) DO NOTHING`,
		`CREATE TABLE IF NOT EXISTS weekly_reviews (
			week_start TEXT NOT NULL,
			week_end TEXT NOT NULL,
			overview TEXT NOT NULL DEFAULT '',
			accomplishments TEXT NOT NULL DEFAULT '[]',
			patterns TEXT NOT NULL DEFAULT '{}',
			challenges TEXT NOT NULL DEFAULT '[]',
			insights TEXT NOT NULL DEFAULT '[]',
			suggestions TEXT NOT NULL DEFAULT '[]',
			highlight TEXT NOT NULL DEFAULT '',
			word_of_week TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS insights (
			date TEXT NOT NULL,
			mood TEXT NOT NULL DEFAULT '',
			energy INTEGER NOT NULL DEFAULT 0,
			themes TEXT NOT NULL DEFAULT '',
			people_mentioned TEXT NOT NULL DEFAULT '',
			notable_quotes TEXT NOT NULL DEFAULT '[]',
			created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS llm_spend (
			date TEXT PRIMARY KEY,
			llm_requests INTEGER NOT NULL DEFAULT 0,
			llm_cost DOUBLE PRECISION NOT NULL DEFAULT 0,
			daily_limit DOUBLE PRECISION NOT NULL DEFAULT 0,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS runs (
			key TEXT PRIMARY KEY,
			date TEXT NOT NULL,
			content_hash TEXT NOT NULL,
			status TEXT NOT NULL,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
			expires_at TIMESTAMP WITH TIME ZONE
		)`,
		`CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			email VARCHAR(255) UNIQUE NOT NULL,
			password VARCHAR(255) NOT NULL,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
		)`,
	}

	for _, query := range queries {
		if _, err := s.db.Exec(query); err != nil {
			return err
		}
	}

	return nil
}

func (s *Postgres) UpsertDailyEntry(ctx context.Context, entry models.DailyEntry) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO daily_entries
			(date, raw_content, summary, mood, mood_confidence, energy,
			 themes, wins, challenges, sources, word_count, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (date) DO UPDATE SET
			raw_content = EXCLUDED.raw_content,
			summary = EXCLUDED.summary,
			mood = EXCLUDED.mood,
			mood_confidence = EXCLUDED.mood_confidence,
			energy = EXCLUDED.energy,
			themes = EXCLUDED.themes,
			wins = EXCLUDED.wins,
			challenges = EXCLUDED.challenges,
			sources = EXCLUDED.sources,
			word_count = EXCLUDED.word_count,
			updated_at = EXCLUDED.updated_at`,
		entry.Date, entry.RawContent, entry.Summary, entry.Mood, entry.MoodConfidence,
		entry.Energy, entry.Themes, entry.Wins, entry.Challenges, entry.Sources,
		entry.WordCount, entry.CreatedAt, entry.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert daily entry %s: %w", entry.Date, err)
	}
	return nil
}

func (s *Postgres) ListDailyEntries(ctx context.Context) ([]models.DailyEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT date, raw_content, summary, mood, mood_confidence, energy,
		       themes, wins, challenges, sources, word_count, created_at, updated_at
		FROM daily_entries`)
	if err != nil {
		return nil, fmt.Errorf("list daily entries: %w", err)
	}
	defer rows.Close()

	var entries []models.DailyEntry
	for rows.Next() {
		var e models.DailyEntry
		if err := rows.Scan(&e.Date, &e.RawContent, &e.Summary, &e.Mood, &e.MoodConfidence,
			&e.Energy, &e.Themes, &e.Wins, &e.Challenges, &e.Sources,
			&e.WordCount, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan daily entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (s *Postgres) AddTask(ctx context.Context, task models.TaskRecord) (string, error) {
	ids, err := s.AddTasksBatch(ctx, []models.TaskRecord{task})
	if err != nil {
		return "", err
	}
	return ids[0], nil
}

func (s *Postgres) AddTasksBatch(ctx context.Context, tasks []models.TaskRecord) ([]string, error) {
	if len(tasks) == 0 {
		return nil, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("add tasks: begin: %w", err)
	}
	defer tx.Rollback()

	// Reserve the whole identifier range in one statement so concurrent
	// writers cannot interleave.
	var newNext int64
	err = tx.QueryRowContext(ctx,
		`UPDATE task_counter SET next_seq = next_seq + $1 WHERE id = 1 RETURNING next_seq`,
		len(tasks)).Scan(&newNext)
	if err != nil {
		return nil, fmt.Errorf("add tasks: reserve ids: %w", err)
	}
	start := newNext - int64(len(tasks))

	now := time.Now()
	ids := make([]string, 0, len(tasks))
	for i, task := range tasks {
		id := TaskID(start + int64(i))
		ids = append(ids, id)
		_, err = tx.ExecContext(ctx, `
			INSERT INTO tasks
				(id, date, task, status, priority, category, deadline, reason,
				 source, completed_at, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
			id, task.Date, task.Task, task.Status, task.Priority, task.Category,
			task.Deadline, task.Reason, task.Source, task.CompletedAt, now, now)
		if err != nil {
			return nil, fmt.Errorf("add tasks: insert %s: %w", id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("add tasks: commit: %w", err)
	}
	return ids, nil
}

func (s *Postgres) PendingTasks(ctx context.Context) ([]models.TaskRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, date, task, status, priority, category, deadline, reason,
		       source, completed_at, created_at, updated_at
		FROM tasks WHERE status = $1 ORDER BY id`, models.TaskStatusPending)
	if err != nil {
		return nil, fmt.Errorf("pending tasks: %w", err)
	}
	defer rows.Close()

	var tasks []models.TaskRecord
	for rows.Next() {
		var t models.TaskRecord
		if err := rows.Scan(&t.ID, &t.Date, &t.Task, &t.Status, &t.Priority, &t.Category,
			&t.Deadline, &t.Reason, &t.Source, &t.CompletedAt, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (s *Postgres) CompleteTask(ctx context.Context, id string) error {
	now := time.Now()
	result, err := s.db.ExecContext(ctx, `
		UPDATE tasks SET status = $1, completed_at = $2, updated_at = $2 WHERE id = $3`,
		models.TaskStatusCompleted, now, id)
	if err != nil {
		return fmt.Errorf("complete task %s: %w", id, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("complete task %s: %w", id, err)
	}
	if affected == 0 {
		return ErrTaskNotFound
	}
	return nil
}

func (s *Postgres) AppendWeeklyReview(ctx context.Context, review models.WeeklyReview) error {
	accomplishments, err := json.Marshal(review.Accomplishments)
	if err != nil {
		return fmt.Errorf("append weekly review: %w", err)
	}
	patterns, err := json.Marshal(review.Patterns)
	if err != nil {
		return fmt.Errorf("append weekly review: %w", err)
	}
	challenges, err := json.Marshal(review.Challenges)
	if err != nil {
		return fmt.Errorf("append weekly review: %w", err)
	}
	insights, err := json.Marshal(review.Insights)
	if err != nil {
		return fmt.Errorf("append weekly review: %w", err)
	}
	suggestions, err := json.Marshal(review.NextWeek)
	if err != nil {
		return fmt.Errorf("append weekly review: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO weekly_reviews
			(week_start, week_end, overview, accomplishments, patterns,
			 challenges, insights, suggestions, highlight, word_of_week, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		review.WeekStart, review.WeekEnd, review.Overview, string(accomplishments),
		string(patterns), string(challenges), string(insights), string(suggestions),
		review.Highlight, review.WordOfWeek, review.CreatedAt)
	if err != nil {
		return fmt.Errorf("append weekly review: %w", err)
	}
	return nil
}

func (s *Postgres) AppendInsights(ctx context.Context, rec models.InsightRecord) error {
	quotes, err := json.Marshal(rec.NotableQuotes)
	if err != nil {
		return fmt.Errorf("append insights: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO insights
			(date, mood, energy, themes, people_mentioned, notable_quotes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		rec.Date, rec.Mood, rec.Energy, rec.Themes, rec.PeopleMentioned, string(quotes), rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("append insights: %w", err)
	}
	return nil
}

func (s *Postgres) SpendForDate(ctx context.Context, date string) (*models.SpendRecord, error) {
	var rec models.SpendRecord
	err := s.db.QueryRowContext(ctx, `
		SELECT date, llm_requests, llm_cost, daily_limit, created_at, updated_at
		FROM llm_spend WHERE date = $1`, date).
		Scan(&rec.Date, &rec.LLMRequests, &rec.LLMCost, &rec.DailyLimit,
			&rec.CreatedAt, &rec.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("spend for %s: %w", date, err)
	}
	return &rec, nil
}

func (s *Postgres) SaveSpend(ctx context.Context, rec models.SpendRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO llm_spend (date, llm_requests, llm_cost, daily_limit, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (date) DO UPDATE SET
			llm_requests = EXCLUDED.llm_requests,
			llm_cost = EXCLUDED.llm_cost,
			daily_limit = EXCLUDED.daily_limit,
			updated_at = EXCLUDED.updated_at`,
		rec.Date, rec.LLMRequests, rec.LLMCost, rec.DailyLimit, rec.CreatedAt, rec.UpdatedAt)
	if err != nil {
		return fmt.Errorf("save spend for %s: %w", rec.Date, err)
	}
	return nil
}

func (s *Postgres) RunRecord(ctx context.Context, key string) (*models.RunRecord, error) {
	var rec models.RunRecord
	err := s.db.QueryRowContext(ctx, `
		SELECT key, date, content_hash, status, created_at, expires_at
		FROM runs WHERE key = $1`, key).
		Scan(&rec.Key, &rec.Date, &rec.ContentHash, &rec.Status, &rec.CreatedAt, &rec.ExpiresAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("run record %s: %w", key, err)
	}
	return &rec, nil
}

func (s *Postgres) SaveRunRecord(ctx context.Context, rec models.RunRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (key, date, content_hash, status, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (key) DO UPDATE SET
			content_hash = EXCLUDED.content_hash,
			status = EXCLUDED.status,
			expires_at = EXCLUDED.expires_at`,
		rec.Key, rec.Date, rec.ContentHash, rec.Status, rec.CreatedAt, rec.ExpiresAt)
	if err != nil {
		return fmt.Errorf("save run record %s: %w", rec.Key, err)
	}
	return nil
}

// CreateUser inserts a user row and returns the generated ID.
func (s *Postgres) CreateUser(ctx context.Context, email, passwordHash string) (string, error) {
	var userID string
	err := s.db.QueryRowContext(ctx,
		"INSERT INTO users (email, password) VALUES ($1, $2) RETURNING id",
		email, passwordHash).Scan(&userID)
	if err != nil {
		return "", fmt.Errorf("create user: %w", err)
	}
	return userID, nil
}

// UserByEmail returns the stored user for a login check.
func (s *Postgres) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	err := s.db.QueryRowContext(ctx,
		"SELECT id, email, password, created_at, updated_at FROM users WHERE email = $1",
		email).Scan(&u.ID, &u.Email, &u.Password, &u.CreatedAt, &u.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("user by email: %w", err)
	}
	return &u, nil
}
