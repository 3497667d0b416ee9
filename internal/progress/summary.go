package progress

import (
	"math"

	"github.com/AnshRaj112/promisu-backend/internal/models"
	"github.com/google/uuid"
)

// Snapshot is everything the promise card shows.
type Snapshot struct {
	PromiseID       uuid.UUID  `json:"promise_id"`
	Progress        float64    `json:"progress"`
	ProgressRounded int        `json:"progress_rounded"`
	CompletedDays   int        `json:"completed_days"`
	Streak          int        `json:"streak"`
	LongestStreak   int        `json:"longest_streak"`
	DaysElapsed     int        `json:"days_elapsed"`
	DaysRemaining   int        `json:"days_remaining"`
	CompletedToday  bool       `json:"completed_today"`
	TodayEntryID    *uuid.UUID `json:"today_entry_id,omitempty"`
}

// Snapshot computes the card metrics of one promise.
func (c Calendar) Snapshot(p models.Promise, entries []models.JournalEntry) Snapshot {
	pct := CalculateProgress(p, entries)
	s := Snapshot{
		PromiseID:       p.ID,
		Progress:        pct,
		ProgressRounded: int(math.Round(pct)),
		CompletedDays:   CompletedCount(p.ID, entries),
		Streak:          PromiseStreak(p, entries),
		LongestStreak:   LongestStreak(p, entries),
		DaysElapsed:     c.DaysElapsed(p),
		DaysRemaining:   c.DaysRemaining(p),
	}
	if e, ok := c.TodayEntry(p.ID, entries); ok {
		id := e.ID
		s.TodayEntryID = &id
		s.CompletedToday = e.Completed
	}
	return s
}

// Summary holds the dashboard counters.
type Summary struct {
	Active           int `json:"active"`
	Paused           int `json:"paused"`
	Completed        int `json:"completed"`
	Failed           int `json:"failed"`
	BestStreak       int `json:"best_streak"`
	CompletedToday   int `json:"completed_today"`
	DueToday         int `json:"due_today"`
	CompletedEntries int `json:"completed_entries"`
}

// Summarize aggregates the dashboard counters over all of a user's promises.
func (c Calendar) Summarize(promises []models.Promise, entries []models.JournalEntry) Summary {
	var s Summary
	for _, p := range promises {
		s.CompletedEntries += CompletedCount(p.ID, entries)
		switch p.Status {
		case models.StatusActive:
			s.Active++
			s.DueToday++
			if streak := PromiseStreak(p, entries); streak > s.BestStreak {
				s.BestStreak = streak
			}
			if e, ok := c.TodayEntry(p.ID, entries); ok && e.Completed {
				s.CompletedToday++
			}
		case models.StatusPaused:
			s.Paused++
		case models.StatusCompleted:
			s.Completed++
		case models.StatusFailed:
			s.Failed++
		}
	}
	return s
}

// DueItem is one line of today's journal.
type DueItem struct {
	Promise models.Promise       `json:"promise"`
	Entry   *models.JournalEntry `json:"entry,omitempty"`
}

// Done reports whether today's entry is completed.
func (d DueItem) Done() bool {
	return d.Entry != nil && d.Entry.Completed
}

// DueToday lists the active promises, in the given order, with today's entry
// when one exists.
func (c Calendar) DueToday(promises []models.Promise, entries []models.JournalEntry) []DueItem {
	items := make([]DueItem, 0, len(promises))
	for _, p := range promises {
		if p.Status != models.StatusActive {
			continue
		}
		item := DueItem{Promise: p}
		if e, ok := c.TodayEntry(p.ID, entries); ok {
			entry := e
			item.Entry = &entry
		}
		items = append(items, item)
	}
	return items
}
