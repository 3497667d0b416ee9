// Package progress derives read-only metrics from promises and their journal
// entries. Every function is pure: it performs no I/O, keeps no state and
// degrades to zero values on empty input instead of returning errors.
package progress

import (
	"sort"

	"github.com/AnshRaj112/promisu-backend/internal/models"
	"github.com/google/uuid"
)

// CalculateProgress returns the share of the promise's duration covered by
// completed entries, in [0, 100]. Completed and failed promises report 100
// and 0 regardless of their entries.
func CalculateProgress(p models.Promise, entries []models.JournalEntry) float64 {
	switch p.Status {
	case models.StatusCompleted:
		return 100
	case models.StatusFailed:
		return 0
	}
	if p.Duration <= 0 {
		return 0
	}

	pct := float64(CompletedCount(p.ID, entries)) / float64(p.Duration) * 100
	if pct > 100 {
		return 100
	}
	return pct
}

// PromiseStreak counts the completed entries walking back from the most
// recent one. The walk stops at the first incomplete entry or at the first
// missing calendar day.
func PromiseStreak(p models.Promise, entries []models.JournalEntry) int {
	days := entriesByDay(p.ID, entries)

	streak := 0
	for i, e := range days {
		if !e.Completed {
			break
		}
		if i > 0 && days[i-1].Date.DaysSince(e.Date) != 1 {
			break
		}
		streak++
	}
	return streak
}

// LongestStreak returns the longest run of completed entries on consecutive
// calendar days.
func LongestStreak(p models.Promise, entries []models.JournalEntry) int {
	days := entriesByDay(p.ID, entries)

	longest, run := 0, 0
	for i, e := range days {
		switch {
		case !e.Completed:
			run = 0
		case i > 0 && days[i-1].Completed && days[i-1].Date.DaysSince(e.Date) == 1:
			run++
		default:
			run = 1
		}
		if run > longest {
			longest = run
		}
	}
	return longest
}

// CompletedCount returns the number of calendar days on which the promise's
// first entry for that day is completed.
func CompletedCount(promiseID uuid.UUID, entries []models.JournalEntry) int {
	n := 0
	for _, e := range entriesByDay(promiseID, entries) {
		if e.Completed {
			n++
		}
	}
	return n
}

// entriesByDay keeps the promise's entries, one per calendar day (the first
// seen in input order wins), most recent day first.
func entriesByDay(promiseID uuid.UUID, entries []models.JournalEntry) []models.JournalEntry {
	seen := make(map[models.Date]struct{})
	days := make([]models.JournalEntry, 0, len(entries))
	for _, e := range entries {
		if e.PromiseID != promiseID {
			continue
		}
		if _, dup := seen[e.Date]; dup {
			continue
		}
		seen[e.Date] = struct{}{}
		days = append(days, e)
	}

	sort.SliceStable(days, func(i, j int) bool {
		return days[i].Date.After(days[j].Date)
	})
	return days
}
