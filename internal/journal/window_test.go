package journal

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/journalbackend/internal/models"
)

func entriesForDates(dates ...string) []models.DailyEntry {
	entries := make([]models.DailyEntry, 0, len(dates))
	for _, d := range dates {
		entries = append(entries, models.DailyEntry{Date: d})
	}
	return entries
}

func datesOf(entries []models.DailyEntry) []string {
	dates := make([]string, 0, len(entries))
	for _, e := range entries {
		dates = append(dates, e.Date)
	}
	return dates
}

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse(DateFormat, s)
	require.NoError(t, err)
	return d
}

func TestRecent_TrailingWindow(t *testing.T) {
	var dates []string
	for i := 1; i <= 10; i++ {
		dates = append(dates, fmt.Sprintf("2024-01-%02d", i))
	}
	records := entriesForDates(dates...)

	got, err := Recent(records, 7, mustDate(t, "2024-01-10"))
	require.NoError(t, err)

	assert.Equal(t, []string{
		"2024-01-03", "2024-01-04", "2024-01-05", "2024-01-06",
		"2024-01-07", "2024-01-08", "2024-01-09", "2024-01-10",
	}, datesOf(got))
}

func TestRecent_IncludesFutureDates(t *testing.T) {
	records := entriesForDates("2024-01-05", "2024-03-01")

	got, err := Recent(records, 7, mustDate(t, "2024-01-10"))
	require.NoError(t, err)

	// No upper bound: future-dated entries stay in.
	assert.Equal(t, []string{"2024-01-05", "2024-03-01"}, datesOf(got))
}

func TestRecent_SortsAscending(t *testing.T) {
	records := entriesForDates("2024-01-09", "2024-01-07", "2024-01-08")

	got, err := Recent(records, 7, mustDate(t, "2024-01-10"))
	require.NoError(t, err)

	assert.Equal(t, []string{"2024-01-07", "2024-01-08", "2024-01-09"}, datesOf(got))
}

func TestRecent_DropsMalformedDates(t *testing.T) {
	records := entriesForDates("not-a-date", "2024-01-09", "01/08/2024", "")

	got, err := Recent(records, 7, mustDate(t, "2024-01-10"))
	require.NoError(t, err)

	assert.Equal(t, []string{"2024-01-09"}, datesOf(got))
}

func TestRecent_RejectsNegativeDays(t *testing.T) {
	_, err := Recent(entriesForDates("2024-01-01"), -1, mustDate(t, "2024-01-10"))
	assert.Error(t, err)
}

func TestRecent_RejectsZeroAsOf(t *testing.T) {
	_, err := Recent(entriesForDates("2024-01-01"), 7, time.Time{})
	assert.Error(t, err)
}

func TestRecent_ZeroDaysIncludesAsOfOnly(t *testing.T) {
	records := entriesForDates("2024-01-09", "2024-01-10")

	got, err := Recent(records, 0, mustDate(t, "2024-01-10"))
	require.NoError(t, err)

	assert.Equal(t, []string{"2024-01-10"}, datesOf(got))
}

func TestForWeek_InclusiveSevenDayWindow(t *testing.T) {
	records := entriesForDates(
		"2023-12-31", "2024-01-01", "2024-01-04", "2024-01-07", "2024-01-08",
	)

	got, err := ForWeek(records, mustDate(t, "2024-01-01"))
	require.NoError(t, err)

	assert.Equal(t, []string{"2024-01-01", "2024-01-04", "2024-01-07"}, datesOf(got))
}

func TestForWeek_SortsAscending(t *testing.T) {
	records := entriesForDates("2024-01-06", "2024-01-02", "2024-01-04")

	got, err := ForWeek(records, mustDate(t, "2024-01-01"))
	require.NoError(t, err)

	assert.Equal(t, []string{"2024-01-02", "2024-01-04", "2024-01-06"}, datesOf(got))
}

func TestForWeek_DropsMalformedDates(t *testing.T) {
	records := entriesForDates("garbage", "2024-01-03")

	got, err := ForWeek(records, mustDate(t, "2024-01-01"))
	require.NoError(t, err)

	assert.Equal(t, []string{"2024-01-03"}, datesOf(got))
}

func TestForWeek_RejectsZeroWeekStart(t *testing.T) {
	_, err := ForWeek(entriesForDates("2024-01-01"), time.Time{})
	assert.Error(t, err)
}

func TestForWeek_EmptyInput(t *testing.T) {
	got, err := ForWeek(nil, mustDate(t, "2024-01-01"))
	require.NoError(t, err)
	assert.Empty(t, got)
}
