package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/journalbackend/internal/ai"
	"github.com/journalbackend/internal/config"
	"github.com/journalbackend/internal/journal"
	"github.com/journalbackend/internal/models"
	"github.com/journalbackend/internal/pipeline"
	"github.com/journalbackend/internal/sources"
	"github.com/journalbackend/internal/store"
)

var (
	// Global flags
	debug bool

	// Subcommand flags
	processDate string
	weekStart   string

	// Logger
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "journal",
	Short: "Personal journal processing pipeline",
	Long: `journal collects handwritten, voice, and digital notes for a date,
runs AI summarization and task extraction, and stores the results.

Set DATABASE_URL, OPENAI_API_KEY, and JOURNAL_DATA_DIR before running;
a .env file in the working directory is also read.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if debug {
			logger, err = zap.NewDevelopment()
		} else {
			logger, err = zap.NewProduction()
		}
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Process one day's journal content",
	Long: `Collects source content for the date, runs the AI annotations, and
saves the daily entry, tasks, and insights. Defaults to today.`,
	RunE: runProcess,
}

var weekCmd = &cobra.Command{
	Use:   "week",
	Short: "Generate a weekly review",
	Long: `Rolls a week of daily entries into one review. Defaults to the
previous full week, Monday to Sunday.`,
	RunE: runWeek,
}

var tasksCmd = &cobra.Command{
	Use:   "tasks",
	Short: "Inspect and update tasks",
}

var tasksListCmd = &cobra.Command{
	Use:   "list",
	Short: "List pending tasks",
	RunE:  runTasksList,
}

var tasksDoneCmd = &cobra.Command{
	Use:   "done [task-id]",
	Short: "Mark a task completed",
	Args:  cobra.ExactArgs(1),
	RunE:  runTasksDone,
}

func newPipeline(cfg config.Config, st store.Store) (*pipeline.Pipeline, error) {
	processor, err := ai.NewProcessor(cfg)
	if err != nil {
		return nil, err
	}
	return pipeline.New(cfg, st, processor, sources.LocalReader{Root: cfg.DataDir}, logger)
}

func openStore(cfg config.Config) (*store.Postgres, error) {
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is not set")
	}
	return store.Open(cfg.DatabaseURL)
}

func runProcess(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	date := time.Now().In(loc)
	if processDate != "" {
		date, err = time.ParseInLocation(journal.DateFormat, processDate, loc)
		if err != nil {
			return fmt.Errorf("invalid --date %q: %w", processDate, err)
		}
	}

	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	pipe, err := newPipeline(cfg, st)
	if err != nil {
		return err
	}

	result, err := pipe.ProcessDay(cmd.Context(), date)
	if err != nil {
		return err
	}
	if result.Skipped {
		fmt.Printf("Nothing to do for %s.\n", result.Date)
		return nil
	}

	printDayResult(result)
	return nil
}

func runWeek(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	start := pipeline.DefaultWeekStart(time.Now(), loc)
	if weekStart != "" {
		start, err = time.ParseInLocation(journal.DateFormat, weekStart, loc)
		if err != nil {
			return fmt.Errorf("invalid --start %q: %w", weekStart, err)
		}
	}

	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	pipe, err := newPipeline(cfg, st)
	if err != nil {
		return err
	}

	review, err := pipe.ProcessWeek(cmd.Context(), start)
	if err != nil {
		return err
	}
	if review == nil {
		fmt.Println("No entries found for this week.")
		return nil
	}

	printWeeklyReview(review)
	return nil
}

func runTasksList(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	tasks, err := st.PendingTasks(cmd.Context())
	if err != nil {
		return err
	}
	if len(tasks) == 0 {
		fmt.Println("No pending tasks.")
		return nil
	}

	fmt.Printf("PENDING TASKS (%d):\n", len(tasks))
	for _, t := range tasks {
		line := fmt.Sprintf("  %s  [%s] %s", t.ID, t.Priority, t.Task)
		if t.Deadline != "" {
			line += fmt.Sprintf(" (due %s)", t.Deadline)
		}
		fmt.Println(line)
	}
	return nil
}

func runTasksDone(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	id := args[0]
	if err := st.CompleteTask(cmd.Context(), id); err != nil {
		return err
	}
	fmt.Printf("Task %s marked completed.\n", id)
	return nil
}

func printDayResult(result *pipeline.DayResult) {
	rule := strings.Repeat("=", 60)
	fmt.Printf("\n%s\nDAILY SUMMARY - %s\n%s\n", rule, result.Date, rule)
	fmt.Printf("\n%s\n", result.Summary)

	fmt.Printf("\nMood: %s | Energy: %d/10\n",
		orUnknown(result.Insights.Mood.Primary), int(result.Insights.EnergyLevel))
	if len(result.Insights.Themes) > 0 {
		fmt.Printf("Themes: %s\n", strings.Join(result.Insights.Themes, ", "))
	}

	printTaskGroup("COMPLETED", result.Tasks.Completed)
	printTaskGroup("PENDING", result.Tasks.Pending)
	printTaskGroup("IDEAS", result.Tasks.Ideas)

	if len(result.Suggestions) > 0 {
		fmt.Printf("\nSUGGESTED FOR TOMORROW (%d):\n", len(result.Suggestions))
		for _, s := range result.Suggestions {
			fmt.Printf("  [%s] %s\n", s.Priority, s.Task)
			if s.Reason != "" {
				fmt.Printf("      %s\n", s.Reason)
			}
		}
	}

	if len(result.Insights.Wins) > 0 {
		fmt.Printf("\nWINS:\n")
		for _, w := range result.Insights.Wins {
			fmt.Printf("  - %s\n", w)
		}
	}

	fmt.Printf("\n%d words from %d sources, %d tasks saved\n",
		result.Stats.TotalWords, len(result.Stats.SourcesUsed), result.TasksSaved)
}

func printTaskGroup(label string, tasks []models.TaskInput) {
	if len(tasks) == 0 {
		return
	}
	fmt.Printf("\n%s (%d):\n", label, len(tasks))
	for _, t := range tasks {
		fmt.Printf("  - %s\n", t.Task)
	}
}

func printWeeklyReview(review *models.WeeklyReview) {
	rule := strings.Repeat("=", 60)
	fmt.Printf("\n%s\nWEEKLY REVIEW: %s to %s\n%s\n", rule, review.WeekStart, review.WeekEnd, rule)
	fmt.Printf("\n%s\n", review.Overview)

	if len(review.Accomplishments) > 0 {
		fmt.Printf("\nACCOMPLISHMENTS:\n")
		for _, a := range review.Accomplishments {
			fmt.Printf("  - %s\n", a)
		}
	}

	if review.Patterns.MoodTrend != "" {
		fmt.Printf("\nMood trend: %s | Energy trend: %s\n",
			review.Patterns.MoodTrend, review.Patterns.EnergyTrend)
	}
	if len(review.Patterns.RecurringThemes) > 0 {
		fmt.Printf("Recurring themes: %s\n", strings.Join(review.Patterns.RecurringThemes, ", "))
	}

	if len(review.NextWeek) > 0 {
		fmt.Printf("\nNEXT WEEK:\n")
		for _, s := range review.NextWeek {
			fmt.Printf("  - %s\n", s.Task)
		}
	}

	if review.Highlight != "" {
		fmt.Printf("\nHighlight: %s\n", review.Highlight)
	}
	if review.WordOfWeek != "" {
		fmt.Printf("Word of the week: %s\n", review.WordOfWeek)
	}
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")

	processCmd.Flags().StringVar(&processDate, "date", "", "Date to process (YYYY-MM-DD, default today)")
	weekCmd.Flags().StringVar(&weekStart, "start", "", "Week start date (YYYY-MM-DD, default previous Monday)")

	tasksCmd.AddCommand(tasksListCmd)
	tasksCmd.AddCommand(tasksDoneCmd)

	rootCmd.AddCommand(processCmd)
	rootCmd.AddCommand(weekCmd)
	rootCmd.AddCommand(tasksCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
