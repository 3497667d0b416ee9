package store

import (
	"context"
	"database/sql"
	"strings"

	"github.com/AnshRaj112/promisu-backend/internal/logger"
)

// schema is written once with placeholders for the column types that differ
// between dialects: {uuid} and {ts}.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id {uuid} PRIMARY KEY,
		username VARCHAR(20) NOT NULL UNIQUE,
		password_hash VARCHAR(255) NOT NULL,
		recovery_email_encrypted TEXT NOT NULL DEFAULT '',
		notifications_enabled BOOLEAN NOT NULL DEFAULT TRUE,
		default_reminder_time VARCHAR(5) NOT NULL DEFAULT '09:00',
		timezone VARCHAR(64) NOT NULL DEFAULT 'UTC',
		week_start_day INTEGER NOT NULL DEFAULT 1,
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at {ts} NOT NULL,
		updated_at {ts} NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS promises (
		id {uuid} PRIMARY KEY,
		user_id {uuid} NOT NULL,
		title VARCHAR(255) NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		duration INTEGER NOT NULL CHECK (duration BETWEEN 1 AND 365),
		start_date {ts} NOT NULL,
		end_date {ts} NOT NULL,
		time_specific BOOLEAN NOT NULL DEFAULT FALSE,
		promise_time VARCHAR(5) NOT NULL DEFAULT '',
		place_specific BOOLEAN NOT NULL DEFAULT FALSE,
		place VARCHAR(255) NOT NULL DEFAULT '',
		category VARCHAR(50) NOT NULL DEFAULT 'personal',
		status VARCHAR(20) NOT NULL DEFAULT 'active',
		created_at {ts} NOT NULL,
		updated_at {ts} NOT NULL
	)`,

	// Entries are kept when their promise is deleted.
	`CREATE TABLE IF NOT EXISTS journal_entries (
		id {uuid} PRIMARY KEY,
		user_id {uuid} NOT NULL,
		promise_id {uuid} NOT NULL,
		entry_date DATE NOT NULL,
		completed BOOLEAN NOT NULL DEFAULT FALSE,
		notes TEXT NOT NULL DEFAULT '',
		mood INTEGER CHECK (mood BETWEEN 1 AND 5),
		photo_url TEXT NOT NULL DEFAULT '',
		created_at {ts} NOT NULL,
		updated_at {ts} NOT NULL,
		UNIQUE (user_id, promise_id, entry_date)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_promises_user_id ON promises(user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_promises_user_status ON promises(user_id, status)`,
	`CREATE INDEX IF NOT EXISTS idx_promises_created_at ON promises(created_at)`,
	`CREATE INDEX IF NOT EXISTS idx_journal_entries_user_date ON journal_entries(user_id, entry_date)`,
	`CREATE INDEX IF NOT EXISTS idx_journal_entries_promise_id ON journal_entries(promise_id)`,
}

// Migrate creates every table and index that does not exist yet.
func Migrate(ctx context.Context, db *sql.DB, dialect Dialect) error {
	if err := execAll(ctx, db, dialect.ddl(schema)); err != nil {
		return err
	}
	logger.Info("✅ Database tables initialized", "dialect", string(dialect))
	return nil
}

func (d Dialect) ddl(statements []string) []string {
	uuidType, tsType := "TEXT", "TIMESTAMP"
	if d == Postgres {
		uuidType, tsType = "UUID", "TIMESTAMPTZ"
	}
	r := strings.NewReplacer("{uuid}", uuidType, "{ts}", tsType)

	out := make([]string, len(statements))
	for i, s := range statements {
		out[i] = r.Replace(s)
	}
	return out
}
