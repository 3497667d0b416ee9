package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/AnshRaj112/promisu-backend/internal/models"
	"github.com/google/uuid"
)

const userColumns = `id, username, password_hash, recovery_email_encrypted, notifications_enabled,
	default_reminder_time, timezone, week_start_day, is_active, created_at`

// UserStore reads and writes the users table. Usernames are stored normalized.
type UserStore struct {
	db      *sql.DB
	dialect Dialect
}

func NewUserStore(db *sql.DB, dialect Dialect) *UserStore {
	return &UserStore{db: db, dialect: dialect}
}

func scanUser(row rowScanner) (models.User, error) {
	var u models.User
	err := row.Scan(
		&u.ID, &u.Username, &u.PasswordHash, &u.RecoveryEmailEncrypted,
		&u.Settings.NotificationsEnabled, &u.Settings.DefaultReminderTime, &u.Settings.Timezone,
		&u.Settings.WeekStartDay, &u.IsActive, &u.CreatedAt,
	)
	if err != nil {
		return models.User{}, err
	}
	u.CreatedAt = utc(u.CreatedAt)
	return u, nil
}

// Create stores a new user. A clash on the username yields ErrUsernameTaken.
func (s *UserStore) Create(ctx context.Context, u models.User) error {
	query := s.dialect.rebind(`INSERT INTO users (` + userColumns + `, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)

	_, err := s.db.ExecContext(ctx, query,
		u.ID, models.NormalizeUsername(u.Username), u.PasswordHash, u.RecoveryEmailEncrypted,
		u.Settings.NotificationsEnabled, u.Settings.DefaultReminderTime, u.Settings.Timezone,
		u.Settings.WeekStartDay, u.IsActive, utc(u.CreatedAt), utc(u.CreatedAt),
	)
	if isUniqueViolation(err) {
		return models.ErrUsernameTaken
	}
	return err
}

// GetByUsername looks up an active user, case-insensitively.
func (s *UserStore) GetByUsername(ctx context.Context, username string) (models.User, error) {
	query := s.dialect.rebind(`SELECT ` + userColumns + ` FROM users WHERE username = ? AND is_active = ?`)
	u, err := scanUser(s.db.QueryRowContext(ctx, query, models.NormalizeUsername(username), true))
	if err != nil {
		return models.User{}, notFound(err)
	}
	return u, nil
}

func (s *UserStore) GetByID(ctx context.Context, id uuid.UUID) (models.User, error) {
	query := s.dialect.rebind(`SELECT ` + userColumns + ` FROM users WHERE id = ? AND is_active = ?`)
	u, err := scanUser(s.db.QueryRowContext(ctx, query, id, true))
	if err != nil {
		return models.User{}, notFound(err)
	}
	return u, nil
}

// UsernameTaken reports whether any account, active or not, holds username.
func (s *UserStore) UsernameTaken(ctx context.Context, username string) (bool, error) {
	query := s.dialect.rebind(`SELECT COUNT(*) FROM users WHERE username = ?`)
	var n int
	if err := s.db.QueryRowContext(ctx, query, models.NormalizeUsername(username)).Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}

// UpdateSettings overwrites the preferences of a user.
func (s *UserStore) UpdateSettings(ctx context.Context, id uuid.UUID, settings models.UserSettings, updatedAt time.Time) error {
	query := s.dialect.rebind(`UPDATE users SET notifications_enabled = ?, default_reminder_time = ?,
		timezone = ?, week_start_day = ?, updated_at = ? WHERE id = ? AND is_active = ?`)
	return expectOne(s.db.ExecContext(ctx, query,
		settings.NotificationsEnabled, settings.DefaultReminderTime, settings.Timezone,
		settings.WeekStartDay, utc(updatedAt), id, true,
	))
}
