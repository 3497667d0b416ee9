package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/AnshRaj112/promisu-backend/internal/models"
	"github.com/google/uuid"
)

const entryColumns = `id, user_id, promise_id, entry_date, completed, notes, mood, photo_url, created_at, updated_at`

// EntryFilter narrows a journal listing. Zero fields match everything.
type EntryFilter struct {
	PromiseID uuid.UUID
	From      models.Date // inclusive
	To        models.Date // inclusive
}

// JournalStore reads and writes the journal_entries table.
type JournalStore struct {
	db      *sql.DB
	dialect Dialect
}

func NewJournalStore(db *sql.DB, dialect Dialect) *JournalStore {
	return &JournalStore{db: db, dialect: dialect}
}

func scanEntry(row rowScanner) (models.JournalEntry, error) {
	var e models.JournalEntry
	var mood sql.NullInt64
	err := row.Scan(&e.ID, &e.UserID, &e.PromiseID, &e.Date, &e.Completed, &e.Notes, &mood, &e.PhotoURL, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return models.JournalEntry{}, err
	}
	if mood.Valid {
		m := models.Mood(mood.Int64)
		e.Mood = &m
	}
	e.CreatedAt = utc(e.CreatedAt)
	e.UpdatedAt = utc(e.UpdatedAt)
	return e, nil
}

// Upsert inserts e, or when the user already has an entry for the same
// promise and day, overwrites its completion and notes. The stored row is
// returned; its ID is the original one on update.
func (s *JournalStore) Upsert(ctx context.Context, e models.JournalEntry) (models.JournalEntry, error) {
	query := s.dialect.rebind(`INSERT INTO journal_entries (` + entryColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id, promise_id, entry_date) DO UPDATE SET
			completed = excluded.completed,
			notes = excluded.notes,
			updated_at = excluded.updated_at
		RETURNING ` + entryColumns)

	var mood interface{}
	if e.Mood != nil {
		mood = int64(*e.Mood)
	}

	stored, err := scanEntry(s.db.QueryRowContext(ctx, query,
		e.ID, e.UserID, e.PromiseID, e.Date, e.Completed, e.Notes, mood, e.PhotoURL,
		utc(e.CreatedAt), utc(e.UpdatedAt),
	))
	if err != nil {
		return models.JournalEntry{}, err
	}
	return stored, nil
}

// Get loads one entry owned by userID.
func (s *JournalStore) Get(ctx context.Context, userID, id uuid.UUID) (models.JournalEntry, error) {
	query := s.dialect.rebind(`SELECT ` + entryColumns + ` FROM journal_entries WHERE id = ? AND user_id = ?`)
	e, err := scanEntry(s.db.QueryRowContext(ctx, query, id, userID))
	if err != nil {
		return models.JournalEntry{}, notFound(err)
	}
	return e, nil
}

// FindByDay returns the entry of promiseID on date, or ErrNotFound.
func (s *JournalStore) FindByDay(ctx context.Context, userID, promiseID uuid.UUID, date models.Date) (models.JournalEntry, error) {
	query := s.dialect.rebind(`SELECT ` + entryColumns + ` FROM journal_entries
		WHERE user_id = ? AND promise_id = ? AND entry_date = ?`)
	e, err := scanEntry(s.db.QueryRowContext(ctx, query, userID, promiseID, date))
	if err != nil {
		return models.JournalEntry{}, notFound(err)
	}
	return e, nil
}

// List returns the entries of userID matching f, most recent day first.
func (s *JournalStore) List(ctx context.Context, userID uuid.UUID, f EntryFilter) ([]models.JournalEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM journal_entries WHERE user_id = ?`
	args := []interface{}{userID}
	if f.PromiseID != uuid.Nil {
		query += ` AND promise_id = ?`
		args = append(args, f.PromiseID)
	}
	if !f.From.IsZero() {
		query += ` AND entry_date >= ?`
		args = append(args, f.From)
	}
	if !f.To.IsZero() {
		query += ` AND entry_date <= ?`
		args = append(args, f.To)
	}
	query += ` ORDER BY entry_date DESC, created_at ASC`

	rows, err := s.db.QueryContext(ctx, s.dialect.rebind(query), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []models.JournalEntry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// UpdateMood sets the mood of an entry owned by userID.
func (s *JournalStore) UpdateMood(ctx context.Context, userID, id uuid.UUID, mood models.Mood, updatedAt time.Time) error {
	query := s.dialect.rebind(`UPDATE journal_entries SET mood = ?, updated_at = ? WHERE id = ? AND user_id = ?`)
	return expectOne(s.db.ExecContext(ctx, query, int64(mood), utc(updatedAt), id, userID))
}

// UpdateNotes replaces the notes of an entry owned by userID.
func (s *JournalStore) UpdateNotes(ctx context.Context, userID, id uuid.UUID, notes string, updatedAt time.Time) error {
	query := s.dialect.rebind(`UPDATE journal_entries SET notes = ?, updated_at = ? WHERE id = ? AND user_id = ?`)
	return expectOne(s.db.ExecContext(ctx, query, notes, utc(updatedAt), id, userID))
}

// UpdatePhoto stores the URL of the photo attached to an entry.
func (s *JournalStore) UpdatePhoto(ctx context.Context, userID, id uuid.UUID, photoURL string, updatedAt time.Time) error {
	query := s.dialect.rebind(`UPDATE journal_entries SET photo_url = ?, updated_at = ? WHERE id = ? AND user_id = ?`)
	return expectOne(s.db.ExecContext(ctx, query, photoURL, utc(updatedAt), id, userID))
}
