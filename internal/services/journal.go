package services

import (
	"context"
	"io"

	"github.com/AnshRaj112/promisu-backend/internal/logger"
	"github.com/AnshRaj112/promisu-backend/internal/models"
	"github.com/AnshRaj112/promisu-backend/internal/progress"
	"github.com/AnshRaj112/promisu-backend/internal/store"
	"github.com/google/uuid"
)

// JournalService records the daily completion of promises.
type JournalService struct {
	promises  PromiseRepository
	entries   EntryRepository
	events    EventPublisher
	photos    PhotoUploader
	calendars calendars
}

func NewJournalService(promises PromiseRepository, entries EntryRepository, users UserRepository, events EventPublisher, photos PhotoUploader, clock Clock) *JournalService {
	return &JournalService{
		promises:  promises,
		entries:   entries,
		events:    events,
		photos:    photos,
		calendars: calendars{users: users, clock: clock},
	}
}

// ToggleToday sets today's completion of an active promise. The first call of
// a day creates the entry; later calls update that same entry.
func (s *JournalService) ToggleToday(ctx context.Context, sess models.Session, promiseID uuid.UUID, completed bool, notes string) (models.JournalEntry, error) {
	if err := sess.Require(); err != nil {
		return models.JournalEntry{}, err
	}
	if err := models.ValidateNotes(notes); err != nil {
		return models.JournalEntry{}, err
	}

	p, err := s.promises.Get(ctx, sess.UserID, promiseID)
	if err != nil {
		return models.JournalEntry{}, err
	}
	if p.Status != models.StatusActive {
		return models.JournalEntry{}, models.ErrPromiseNotActive
	}

	cal, err := s.calendars.forUser(ctx, sess.UserID)
	if err != nil {
		return models.JournalEntry{}, err
	}

	entry := models.NewJournalEntry(sess.UserID, promiseID, cal.Today(), completed, notes, cal.Now())
	stored, err := s.entries.Upsert(ctx, entry)
	if err != nil {
		logger.Error("failed to upsert journal entry", "user_id", sess.UserID, "promise_id", promiseID, "error", err)
		return models.JournalEntry{}, err
	}

	publish(ctx, s.events, sess.UserID, EventEntryUpserted, stored)
	return stored, nil
}

// UpdateMood rates an existing entry from 1 to 5.
func (s *JournalService) UpdateMood(ctx context.Context, sess models.Session, entryID uuid.UUID, rating int) (models.JournalEntry, error) {
	if err := sess.Require(); err != nil {
		return models.JournalEntry{}, err
	}
	mood, err := models.ValidateMood(rating)
	if err != nil {
		return models.JournalEntry{}, err
	}

	if err := s.entries.UpdateMood(ctx, sess.UserID, entryID, mood, s.calendars.clock.now()); err != nil {
		return models.JournalEntry{}, err
	}
	return s.reload(ctx, sess, entryID)
}

func (s *JournalService) UpdateNotes(ctx context.Context, sess models.Session, entryID uuid.UUID, notes string) (models.JournalEntry, error) {
	if err := sess.Require(); err != nil {
		return models.JournalEntry{}, err
	}
	if err := models.ValidateNotes(notes); err != nil {
		return models.JournalEntry{}, err
	}

	if err := s.entries.UpdateNotes(ctx, sess.UserID, entryID, notes, s.calendars.clock.now()); err != nil {
		return models.JournalEntry{}, err
	}
	return s.reload(ctx, sess, entryID)
}

// AttachPhoto uploads an image and links it to an entry.
func (s *JournalService) AttachPhoto(ctx context.Context, sess models.Session, entryID uuid.UUID, photo io.Reader) (models.JournalEntry, error) {
	if err := sess.Require(); err != nil {
		return models.JournalEntry{}, err
	}
	if s.photos == nil {
		return models.JournalEntry{}, ErrUploadsDisabled
	}

	// Upload only for an entry the user owns.
	if _, err := s.entries.Get(ctx, sess.UserID, entryID); err != nil {
		return models.JournalEntry{}, err
	}

	url, err := s.photos.UploadPhoto(ctx, photo, EntryPhotoFolder)
	if err != nil {
		logger.Error("failed to upload entry photo", "user_id", sess.UserID, "entry_id", entryID, "error", err)
		return models.JournalEntry{}, err
	}
	if err := s.entries.UpdatePhoto(ctx, sess.UserID, entryID, url, s.calendars.clock.now()); err != nil {
		return models.JournalEntry{}, err
	}
	return s.reload(ctx, sess, entryID)
}

func (s *JournalService) List(ctx context.Context, sess models.Session, f store.EntryFilter) ([]models.JournalEntry, error) {
	if err := sess.Require(); err != nil {
		return nil, err
	}
	if !f.From.IsZero() && !f.To.IsZero() && f.From.After(f.To) {
		return nil, &models.ValidationError{Field: "from", Message: "from must not be after to"}
	}
	return s.entries.List(ctx, sess.UserID, f)
}

// Today lists the active promises with today's entry, if any.
func (s *JournalService) Today(ctx context.Context, sess models.Session) ([]progress.DueItem, error) {
	if err := sess.Require(); err != nil {
		return nil, err
	}

	cal, err := s.calendars.forUser(ctx, sess.UserID)
	if err != nil {
		return nil, err
	}
	promises, err := s.promises.List(ctx, sess.UserID, store.ListOptions{Status: models.StatusActive})
	if err != nil {
		return nil, err
	}
	today := cal.Today()
	entries, err := s.entries.List(ctx, sess.UserID, store.EntryFilter{From: today, To: today})
	if err != nil {
		return nil, err
	}
	return cal.DueToday(promises, entries), nil
}

func (s *JournalService) reload(ctx context.Context, sess models.Session, entryID uuid.UUID) (models.JournalEntry, error) {
	e, err := s.entries.Get(ctx, sess.UserID, entryID)
	if err != nil {
		return models.JournalEntry{}, err
	}
	publish(ctx, s.events, sess.UserID, EventEntryUpserted, e)
	return e, nil
}
