package models

import (
	"time"

	"github.com/google/uuid"
)

// Mood is a self-reported rating from 1 (very bad) to 5 (excellent).
type Mood int

const (
	MinMood Mood = 1
	MaxMood Mood = 5
)

func (m Mood) Valid() bool {
	return m >= MinMood && m <= MaxMood
}

// ValidateMood converts a raw rating into a Mood.
func ValidateMood(v int) (Mood, error) {
	m := Mood(v)
	if !m.Valid() {
		return 0, invalid("mood", "Mood must be between 1 and 5")
	}
	return m, nil
}

// JournalEntry records one day of a user's interaction with one promise.
type JournalEntry struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"-"`
	PromiseID uuid.UUID `json:"promise_id"`
	Date      Date      `json:"date"`
	Completed bool      `json:"completed"`
	Notes     string    `json:"notes,omitempty"`
	Mood      *Mood     `json:"mood,omitempty"`
	PhotoURL  string    `json:"photo_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewJournalEntry builds an entry for promiseID on date.
func NewJournalEntry(userID, promiseID uuid.UUID, date Date, completed bool, notes string, now time.Time) JournalEntry {
	return JournalEntry{
		ID:        uuid.New(),
		UserID:    userID,
		PromiseID: promiseID,
		Date:      date,
		Completed: completed,
		Notes:     notes,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// DailyJournal gathers the general notes and entries of one calendar day.
type DailyJournal struct {
	UserID       uuid.UUID      `json:"-"`
	Date         Date           `json:"date"`
	GeneralNotes string         `json:"general_notes,omitempty"`
	Entries      []JournalEntry `json:"entries"`
	CreatedAt    time.Time      `json:"created_at,omitempty"`
	UpdatedAt    time.Time      `json:"updated_at,omitempty"`
}

// MaxNotesLength bounds entry and general notes.
const MaxNotesLength = 5000

// ValidateNotes rejects oversized notes.
func ValidateNotes(notes string) error {
	if len(notes) > MaxNotesLength {
		return invalid("notes", "Notes must be at most 5000 characters")
	}
	return nil
}
