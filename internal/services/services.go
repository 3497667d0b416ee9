// Package services holds the business operations behind the HTTP API. Every
// operation that touches user records takes an explicit models.Session.
package services

import (
	"context"
	"time"

	"github.com/AnshRaj112/promisu-backend/internal/logger"
	"github.com/AnshRaj112/promisu-backend/internal/models"
	"github.com/AnshRaj112/promisu-backend/internal/progress"
	"github.com/AnshRaj112/promisu-backend/internal/store"
	"github.com/google/uuid"
)

// PromiseRepository is the persistence PromiseService needs.
type PromiseRepository interface {
	Insert(ctx context.Context, p models.Promise) error
	Get(ctx context.Context, userID, id uuid.UUID) (models.Promise, error)
	List(ctx context.Context, userID uuid.UUID, opts store.ListOptions) ([]models.Promise, error)
	UpdateStatus(ctx context.Context, userID, id uuid.UUID, from, to models.PromiseStatus, updatedAt time.Time) error
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

// EntryRepository is the persistence JournalService needs.
type EntryRepository interface {
	Upsert(ctx context.Context, e models.JournalEntry) (models.JournalEntry, error)
	Get(ctx context.Context, userID, id uuid.UUID) (models.JournalEntry, error)
	FindByDay(ctx context.Context, userID, promiseID uuid.UUID, date models.Date) (models.JournalEntry, error)
	List(ctx context.Context, userID uuid.UUID, f store.EntryFilter) ([]models.JournalEntry, error)
	UpdateMood(ctx context.Context, userID, id uuid.UUID, mood models.Mood, updatedAt time.Time) error
	UpdateNotes(ctx context.Context, userID, id uuid.UUID, notes string, updatedAt time.Time) error
	UpdatePhoto(ctx context.Context, userID, id uuid.UUID, photoURL string, updatedAt time.Time) error
}

// UserRepository is the persistence AuthService needs.
type UserRepository interface {
	Create(ctx context.Context, u models.User) error
	GetByUsername(ctx context.Context, username string) (models.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (models.User, error)
	UsernameTaken(ctx context.Context, username string) (bool, error)
	UpdateSettings(ctx context.Context, id uuid.UUID, settings models.UserSettings, updatedAt time.Time) error
}

// Clock returns the current instant. Tests pin it.
type Clock func() time.Time

func (c Clock) now() time.Time {
	if c == nil {
		return time.Now().UTC()
	}
	return c().UTC()
}

// calendars resolves the day boundaries of a user from their timezone setting.
type calendars struct {
	users UserRepository
	clock Clock
}

func (c calendars) forUser(ctx context.Context, userID uuid.UUID) (progress.Calendar, error) {
	loc := time.UTC
	if c.users != nil {
		u, err := c.users.GetByID(ctx, userID)
		if err != nil {
			return progress.Calendar{}, err
		}
		loc = u.Settings.Location()
	}
	return progress.NewCalendar(loc).WithClock(c.clock.now), nil
}

// publish sends a record event and only logs a failure.
func publish(ctx context.Context, p EventPublisher, userID uuid.UUID, kind EventType, data interface{}) {
	if p == nil {
		return
	}
	if err := p.Publish(ctx, userID, NewRecordEvent(kind, data)); err != nil {
		logger.Warn("failed to publish record event", "type", kind, "user_id", userID, "error", err)
	}
}
