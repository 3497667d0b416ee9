package progress

import (
	"testing"
	"time"

	"github.com/AnshRaj112/promisu-backend/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var day5 = models.Date{Year: 2026, Month: time.March, Day: 5}

func promiseWith(status models.PromiseStatus, duration int) models.Promise {
	return models.Promise{
		ID:       uuid.New(),
		Title:    "Stretch",
		Duration: duration,
		Status:   status,
	}
}

func entry(p models.Promise, d models.Date, completed bool) models.JournalEntry {
	return models.JournalEntry{
		ID:        uuid.New(),
		PromiseID: p.ID,
		Date:      d,
		Completed: completed,
	}
}

func completedEntries(p models.Promise, n int) []models.JournalEntry {
	out := make([]models.JournalEntry, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, entry(p, day5.AddDays(-i), true))
	}
	return out
}

// =============================================================================
// CalculateProgress
// =============================================================================

func TestCalculateProgressCompletedIsAlways100(t *testing.T) {
	p := promiseWith(models.StatusCompleted, 30)

	assert.Equal(t, 100.0, CalculateProgress(p, nil))
	assert.Equal(t, 100.0, CalculateProgress(p, []models.JournalEntry{entry(p, day5, false)}))
	assert.Equal(t, 100.0, CalculateProgress(p, completedEntries(p, 3)))
}

func TestCalculateProgressFailedIsAlways0(t *testing.T) {
	p := promiseWith(models.StatusFailed, 10)

	assert.Equal(t, 0.0, CalculateProgress(p, nil))
	assert.Equal(t, 0.0, CalculateProgress(p, completedEntries(p, 10)))
}

func TestCalculateProgressActive(t *testing.T) {
	tests := []struct {
		duration  int
		completed int
		want      float64
	}{
		{10, 0, 0},
		{10, 3, 30},
		{4, 1, 25},
		{8, 1, 12.5},
		{4, 3, 75},
		{30, 30, 100},
	}

	for _, tt := range tests {
		p := promiseWith(models.StatusActive, tt.duration)
		got := CalculateProgress(p, completedEntries(p, tt.completed))
		assert.Equal(t, tt.want, got, "duration=%d completed=%d", tt.duration, tt.completed)
	}
}

func TestCalculateProgressScenario(t *testing.T) {
	p := promiseWith(models.StatusActive, 10)
	entries := []models.JournalEntry{
		entry(p, day5, true),
		entry(p, day5.AddDays(-1), false),
		entry(p, day5.AddDays(-2), true),
		entry(p, day5.AddDays(-3), false),
		entry(p, day5.AddDays(-4), true),
	}

	assert.Equal(t, 30.0, CalculateProgress(p, entries))
}

func TestCalculateProgressIgnoresOtherPromises(t *testing.T) {
	p := promiseWith(models.StatusActive, 10)
	other := promiseWith(models.StatusActive, 10)

	entries := append(completedEntries(other, 5), entry(p, day5, true))
	assert.Equal(t, 10.0, CalculateProgress(p, entries))
}

func TestCalculateProgressPausedCountsEntries(t *testing.T) {
	p := promiseWith(models.StatusPaused, 5)
	assert.Equal(t, 40.0, CalculateProgress(p, completedEntries(p, 2)))
}

func TestCalculateProgressZeroDuration(t *testing.T) {
	p := promiseWith(models.StatusActive, 0)
	assert.Equal(t, 0.0, CalculateProgress(p, completedEntries(p, 3)))
}

func TestCalculateProgressClampsOverCompletion(t *testing.T) {
	p := promiseWith(models.StatusActive, 2)
	assert.Equal(t, 100.0, CalculateProgress(p, completedEntries(p, 5)))
}

func TestCalculateProgressCountsEachDayOnce(t *testing.T) {
	p := promiseWith(models.StatusActive, 10)

	twiceDone := []models.JournalEntry{entry(p, day5, true), entry(p, day5, true)}
	assert.Equal(t, 10.0, CalculateProgress(p, twiceDone))
	assert.Equal(t, 1, CompletedCount(p.ID, twiceDone))
	assert.Equal(t, 1, PromiseStreak(p, twiceDone))

	missFirst := []models.JournalEntry{entry(p, day5, false), entry(p, day5, true)}
	assert.Equal(t, 0.0, CalculateProgress(p, missFirst))
	assert.Equal(t, 0, CompletedCount(p.ID, missFirst))
	assert.Equal(t, 0, PromiseStreak(p, missFirst))

	doneFirst := []models.JournalEntry{entry(p, day5, true), entry(p, day5, false)}
	assert.Equal(t, 10.0, CalculateProgress(p, doneFirst))
}

// =============================================================================
// Streaks
// =============================================================================

func TestPromiseStreakStopsAtFirstMiss(t *testing.T) {
	p := promiseWith(models.StatusActive, 30)
	entries := []models.JournalEntry{
		entry(p, day5, true),
		entry(p, day5.AddDays(-1), true),
		entry(p, day5.AddDays(-2), false),
		entry(p, day5.AddDays(-3), true),
	}

	assert.Equal(t, 2, PromiseStreak(p, entries))
}

func TestPromiseStreakSortsByDate(t *testing.T) {
	p := promiseWith(models.StatusActive, 30)
	entries := []models.JournalEntry{
		entry(p, day5.AddDays(-3), true),
		entry(p, day5.AddDays(-2), false),
		entry(p, day5, true),
		entry(p, day5.AddDays(-1), true),
	}

	assert.Equal(t, 2, PromiseStreak(p, entries))
}

func TestPromiseStreakEmpty(t *testing.T) {
	p := promiseWith(models.StatusActive, 30)
	assert.Equal(t, 0, PromiseStreak(p, nil))
	assert.Equal(t, 0, PromiseStreak(p, []models.JournalEntry{}))
}

func TestPromiseStreakMostRecentIncomplete(t *testing.T) {
	p := promiseWith(models.StatusActive, 30)
	entries := []models.JournalEntry{
		entry(p, day5, false),
		entry(p, day5.AddDays(-1), true),
	}
	assert.Equal(t, 0, PromiseStreak(p, entries))
}

func TestPromiseStreakBreaksOnCalendarGap(t *testing.T) {
	p := promiseWith(models.StatusActive, 30)
	entries := []models.JournalEntry{
		entry(p, day5, true),
		entry(p, day5.AddDays(-1), true),
		entry(p, day5.AddDays(-5), true),
		entry(p, day5.AddDays(-6), true),
	}

	assert.Equal(t, 2, PromiseStreak(p, entries))
}

func TestPromiseStreakDuplicateDayFirstWins(t *testing.T) {
	p := promiseWith(models.StatusActive, 30)

	missFirst := []models.JournalEntry{
		entry(p, day5, false),
		entry(p, day5, true),
		entry(p, day5.AddDays(-1), true),
	}
	assert.Equal(t, 0, PromiseStreak(p, missFirst))

	doneFirst := []models.JournalEntry{
		entry(p, day5, true),
		entry(p, day5, false),
		entry(p, day5.AddDays(-1), true),
	}
	assert.Equal(t, 2, PromiseStreak(p, doneFirst))
}

func TestPromiseStreakIgnoresOtherPromises(t *testing.T) {
	p := promiseWith(models.StatusActive, 30)
	other := promiseWith(models.StatusActive, 30)

	entries := []models.JournalEntry{
		entry(p, day5, true),
		entry(other, day5.AddDays(-1), false),
		entry(p, day5.AddDays(-1), true),
	}
	assert.Equal(t, 2, PromiseStreak(p, entries))
}

func TestLongestStreak(t *testing.T) {
	p := promiseWith(models.StatusActive, 30)
	entries := []models.JournalEntry{
		entry(p, day5, true),
		entry(p, day5.AddDays(-1), false),
		entry(p, day5.AddDays(-2), true),
		entry(p, day5.AddDays(-3), true),
		entry(p, day5.AddDays(-4), true),
		entry(p, day5.AddDays(-6), true),
		entry(p, day5.AddDays(-7), true),
	}

	assert.Equal(t, 3, LongestStreak(p, entries))
	assert.Equal(t, 1, PromiseStreak(p, entries))
	assert.Equal(t, 0, LongestStreak(p, nil))
}

// =============================================================================
// Purity
// =============================================================================

func TestFunctionsArePure(t *testing.T) {
	p := promiseWith(models.StatusActive, 10)
	entries := []models.JournalEntry{
		entry(p, day5.AddDays(-2), true),
		entry(p, day5, true),
		entry(p, day5.AddDays(-1), true),
	}
	before := append([]models.JournalEntry(nil), entries...)

	assert.Equal(t, CalculateProgress(p, entries), CalculateProgress(p, entries))
	assert.Equal(t, PromiseStreak(p, entries), PromiseStreak(p, entries))
	assert.Equal(t, 3, PromiseStreak(p, entries))
	require.Equal(t, before, entries, "input order must not change")
}
