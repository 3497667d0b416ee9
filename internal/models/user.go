package models

import (
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
)

const (
	MinUsernameLength = 3
	MaxUsernameLength = 20
	MinPasswordLength = 8
)

var usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

// User represents an account. Only the public profile is serialized.
type User struct {
	ID        uuid.UUID    `json:"id"`
	Username  string       `json:"username"`
	Settings  UserSettings `json:"settings"`
	CreatedAt time.Time    `json:"created_at"`
	IsActive  bool         `json:"-"`

	// Internal only - never returned in JSON
	PasswordHash           string `json:"-"`
	RecoveryEmailEncrypted string `json:"-"`
}

// UserSettings holds per-user preferences.
type UserSettings struct {
	NotificationsEnabled bool   `json:"notifications_enabled"`
	DefaultReminderTime  string `json:"default_reminder_time"`
	Timezone             string `json:"timezone"`
	WeekStartDay         int    `json:"week_start_day"` // 0 = Sunday, 1 = Monday
}

// DefaultSettings returns the settings of a new account.
func DefaultSettings() UserSettings {
	return UserSettings{
		NotificationsEnabled: true,
		DefaultReminderTime:  "09:00",
		Timezone:             "UTC",
		WeekStartDay:         1,
	}
}

func (s UserSettings) Validate() error {
	if _, err := time.Parse(TimeOfDayLayout, s.DefaultReminderTime); err != nil {
		return invalid("default_reminder_time", "Reminder time must use the HH:MM format")
	}
	if _, err := time.LoadLocation(s.Timezone); err != nil || s.Timezone == "" {
		return invalid("timezone", "Unknown timezone")
	}
	if s.WeekStartDay != 0 && s.WeekStartDay != 1 {
		return invalid("week_start_day", "Week start day must be 0 (Sunday) or 1 (Monday)")
	}
	return nil
}

// Location resolves the user's timezone, falling back to UTC.
func (s UserSettings) Location() *time.Location {
	if s.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// ValidateUsername validates username format
// Rules: 3-20 characters, letters, numbers, underscores only
func ValidateUsername(username string) error {
	username = strings.TrimSpace(username)

	if len(username) < MinUsernameLength {
		return invalid("username", "Username must be at least 3 characters")
	}
	if len(username) > MaxUsernameLength {
		return invalid("username", "Username must be at most 20 characters")
	}
	if !usernameRegex.MatchString(username) {
		return invalid("username", "Username can only contain letters, numbers, and underscores")
	}
	if !(unicode.IsLetter(rune(username[0])) || unicode.IsNumber(rune(username[0]))) {
		return invalid("username", "Username must start with a letter or number")
	}
	return nil
}

// NormalizeUsername converts username to lowercase for storage
func NormalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

// ValidatePassword enforces the minimum password length.
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return invalid("password", "Password must be at least 8 characters")
	}
	return nil
}
