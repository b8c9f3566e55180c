package journal

import (
	"fmt"
	"sort"
	"time"

	"github.com/journalbackend/internal/models"
)

// DateFormat is the canonical date key format. Lexicographic comparison of
// dates in this format matches chronological order, which the window
// queries depend on.
const DateFormat = "2006-01-02"

// Recent returns the entries dated within the trailing window
// [asOf - days, +inf), sorted ascending by date. The upper bound is
// deliberately unenforced: asOf itself and future-dated entries are
// included. Entries whose date does not parse as YYYY-MM-DD are dropped
// without error.
func Recent(records []models.DailyEntry, days int, asOf time.Time) ([]models.DailyEntry, error) {
	if days < 0 {
		return nil, fmt.Errorf("recent entries: days must be >= 0, got %d", days)
	}
	if asOf.IsZero() {
		return nil, fmt.Errorf("recent entries: as-of time is zero")
	}

	cutoff := asOf.AddDate(0, 0, -days).Format(DateFormat)

	var matched []models.DailyEntry
	for _, rec := range records {
		if _, err := time.Parse(DateFormat, rec.Date); err != nil {
			continue
		}
		if rec.Date >= cutoff {
			matched = append(matched, rec)
		}
	}

	sortByDate(matched)
	return matched, nil
}

// ForWeek returns the entries dated within the fixed seven-day window
// [weekStart, weekStart+6] inclusive, sorted ascending by date. Same
// malformed-date drop policy as Recent.
func ForWeek(records []models.DailyEntry, weekStart time.Time) ([]models.DailyEntry, error) {
	if weekStart.IsZero() {
		return nil, fmt.Errorf("week entries: week start is zero")
	}

	start := weekStart.Format(DateFormat)
	end := weekStart.AddDate(0, 0, 6).Format(DateFormat)

	var matched []models.DailyEntry
	for _, rec := range records {
		if _, err := time.Parse(DateFormat, rec.Date); err != nil {
			continue
		}
		if rec.Date >= start && rec.Date <= end {
			matched = append(matched, rec)
		}
	}

	sortByDate(matched)
	return matched, nil
}

func sortByDate(records []models.DailyEntry) {
	sort.Slice(records, func(i, j int) bool {
		return records[i].Date < records[j].Date
	})
}
