package services

import (
	"context"
	"errors"
	"time"

	"github.com/AnshRaj112/promisu-backend/internal/logger"
	"github.com/AnshRaj112/promisu-backend/internal/models"
	"github.com/AnshRaj112/promisu-backend/internal/store"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const dailyJournalCollection = "daily_journals"

// DailyNote is the free-form text a user writes about a whole day.
type DailyNote struct {
	UserID       string    `bson:"user_id"`
	Date         string    `bson:"date"` // YYYY-MM-DD
	GeneralNotes string    `bson:"general_notes"`
	CreatedAt    time.Time `bson:"created_at"`
	UpdatedAt    time.Time `bson:"updated_at"`
}

// DailyNoteStore persists one DailyNote per user and day.
type DailyNoteStore interface {
	Get(ctx context.Context, userID uuid.UUID, date models.Date) (DailyNote, error)
	Save(ctx context.Context, userID uuid.UUID, date models.Date, notes string, now time.Time) (DailyNote, error)
}

// MongoDailyNoteStore keeps daily notes in the daily_journals collection.
type MongoDailyNoteStore struct {
	col *mongo.Collection
}

func NewMongoDailyNoteStore(db *mongo.Database) *MongoDailyNoteStore {
	return &MongoDailyNoteStore{col: db.Collection(dailyJournalCollection)}
}

// EnsureIndexes configures indexes for the daily_journals collection.
// Called on startup from main after Mongo has connected.
func (s *MongoDailyNoteStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "user_id", Value: 1},
			{Key: "date", Value: -1},
		},
		Options: options.Index().SetName("idx_user_date").SetUnique(true),
	})
	return err
}

func (s *MongoDailyNoteStore) Get(ctx context.Context, userID uuid.UUID, date models.Date) (DailyNote, error) {
	var note DailyNote
	err := s.col.FindOne(ctx, bson.M{"user_id": userID.String(), "date": date.String()}).Decode(&note)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return DailyNote{}, models.ErrNotFound
	}
	if err != nil {
		return DailyNote{}, err
	}
	return note, nil
}

func (s *MongoDailyNoteStore) Save(ctx context.Context, userID uuid.UUID, date models.Date, notes string, now time.Time) (DailyNote, error) {
	filter := bson.M{"user_id": userID.String(), "date": date.String()}
	update := bson.M{
		"$set":         bson.M{"general_notes": notes, "updated_at": now.UTC()},
		"$setOnInsert": bson.M{"created_at": now.UTC()},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var note DailyNote
	if err := s.col.FindOneAndUpdate(ctx, filter, update, opts).Decode(&note); err != nil {
		return DailyNote{}, err
	}
	return note, nil
}

// DailyJournalService assembles the journal page of one day.
type DailyJournalService struct {
	notes     DailyNoteStore
	entries   EntryRepository
	events    EventPublisher
	calendars calendars
}

func NewDailyJournalService(notes DailyNoteStore, entries EntryRepository, users UserRepository, events EventPublisher, clock Clock) *DailyJournalService {
	return &DailyJournalService{
		notes:     notes,
		entries:   entries,
		events:    events,
		calendars: calendars{users: users, clock: clock},
	}
}

// Get returns the general notes and the entries of date.
func (s *DailyJournalService) Get(ctx context.Context, sess models.Session, date models.Date) (models.DailyJournal, error) {
	if err := sess.Require(); err != nil {
		return models.DailyJournal{}, err
	}
	if date.IsZero() {
		return models.DailyJournal{}, &models.ValidationError{Field: "date", Message: "Date is required"}
	}

	journal := models.DailyJournal{UserID: sess.UserID, Date: date}

	if s.notes != nil {
		note, err := s.notes.Get(ctx, sess.UserID, date)
		switch {
		case err == nil:
			journal.GeneralNotes = note.GeneralNotes
			journal.CreatedAt = note.CreatedAt
			journal.UpdatedAt = note.UpdatedAt
		case errors.Is(err, models.ErrNotFound):
		default:
			logger.Error("failed to load daily notes", "user_id", sess.UserID, "date", date, "error", err)
			return models.DailyJournal{}, err
		}
	}

	entries, err := s.entries.List(ctx, sess.UserID, store.EntryFilter{From: date, To: date})
	if err != nil {
		return models.DailyJournal{}, err
	}
	journal.Entries = entries
	return journal, nil
}

// Today returns the journal of the user's current day.
func (s *DailyJournalService) Today(ctx context.Context, sess models.Session) (models.DailyJournal, error) {
	if err := sess.Require(); err != nil {
		return models.DailyJournal{}, err
	}
	cal, err := s.calendars.forUser(ctx, sess.UserID)
	if err != nil {
		return models.DailyJournal{}, err
	}
	return s.Get(ctx, sess, cal.Today())
}

// SaveNotes replaces the general notes of date.
func (s *DailyJournalService) SaveNotes(ctx context.Context, sess models.Session, date models.Date, notes string) (models.DailyJournal, error) {
	if err := sess.Require(); err != nil {
		return models.DailyJournal{}, err
	}
	if date.IsZero() {
		return models.DailyJournal{}, &models.ValidationError{Field: "date", Message: "Date is required"}
	}
	if err := models.ValidateNotes(notes); err != nil {
		return models.DailyJournal{}, err
	}
	if s.notes == nil {
		return models.DailyJournal{}, ErrNotesDisabled
	}

	if _, err := s.notes.Save(ctx, sess.UserID, date, notes, s.calendars.clock.now()); err != nil {
		logger.Error("failed to save daily notes", "user_id", sess.UserID, "date", date, "error", err)
		return models.DailyJournal{}, err
	}

	journal, err := s.Get(ctx, sess, date)
	if err != nil {
		return models.DailyJournal{}, err
	}
	publish(ctx, s.events, sess.UserID, EventJournalUpdated, journal)
	return journal, nil
}

// ErrNotesDisabled is returned when no daily note store is configured.
var ErrNotesDisabled = errors.New("daily notes are not configured")
