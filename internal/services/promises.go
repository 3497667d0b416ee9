package services

import (
	"context"
	"errors"

	"github.com/AnshRaj112/promisu-backend/internal/logger"
	"github.com/AnshRaj112/promisu-backend/internal/models"
	"github.com/AnshRaj112/promisu-backend/internal/progress"
	"github.com/AnshRaj112/promisu-backend/internal/store"
	"github.com/google/uuid"
)

// PromiseService manages a user's promises and computes their progress.
type PromiseService struct {
	promises  PromiseRepository
	entries   EntryRepository
	events    EventPublisher
	calendars calendars
}

func NewPromiseService(promises PromiseRepository, entries EntryRepository, users UserRepository, events EventPublisher, clock Clock) *PromiseService {
	return &PromiseService{
		promises:  promises,
		entries:   entries,
		events:    events,
		calendars: calendars{users: users, clock: clock},
	}
}

// PromiseView pairs a promise with its current metrics.
type PromiseView struct {
	models.Promise
	Progress progress.Snapshot `json:"progress"`
}

// Dashboard is the overview of every promise of a user.
type Dashboard struct {
	Summary  progress.Summary   `json:"summary"`
	Promises []PromiseView      `json:"promises"`
	DueToday []progress.DueItem `json:"due_today"`
}

// Create validates input and stores a new active promise.
func (s *PromiseService) Create(ctx context.Context, sess models.Session, in models.PromiseInput) (models.Promise, error) {
	if err := sess.Require(); err != nil {
		return models.Promise{}, err
	}

	p, err := models.NewPromise(sess.UserID, in, s.calendars.clock.now())
	if err != nil {
		return models.Promise{}, err
	}
	if err := s.promises.Insert(ctx, p); err != nil {
		logger.Error("failed to insert promise", "user_id", sess.UserID, "error", err)
		return models.Promise{}, err
	}

	publish(ctx, s.events, sess.UserID, EventPromiseCreated, p)
	return p, nil
}

func (s *PromiseService) List(ctx context.Context, sess models.Session, opts store.ListOptions) ([]models.Promise, error) {
	if err := sess.Require(); err != nil {
		return nil, err
	}
	if opts.Status != "" && !opts.Status.Valid() {
		return nil, &models.ValidationError{Field: "status", Message: "status must be one of active, completed, failed, paused"}
	}
	return s.promises.List(ctx, sess.UserID, opts)
}

func (s *PromiseService) Get(ctx context.Context, sess models.Session, id uuid.UUID) (models.Promise, error) {
	if err := sess.Require(); err != nil {
		return models.Promise{}, err
	}
	return s.promises.Get(ctx, sess.UserID, id)
}

// UpdateStatus moves a promise through its lifecycle. Completed and failed
// promises cannot change again.
func (s *PromiseService) UpdateStatus(ctx context.Context, sess models.Session, id uuid.UUID, status models.PromiseStatus) (models.Promise, error) {
	if err := sess.Require(); err != nil {
		return models.Promise{}, err
	}
	if !status.Valid() {
		return models.Promise{}, &models.ValidationError{Field: "status", Message: "status must be one of active, completed, failed, paused"}
	}

	p, err := s.promises.Get(ctx, sess.UserID, id)
	if err != nil {
		return models.Promise{}, err
	}
	from := p.Status
	if err := p.SetStatus(status, s.calendars.clock.now()); err != nil {
		return models.Promise{}, err
	}
	err = s.promises.UpdateStatus(ctx, sess.UserID, id, from, p.Status, p.UpdatedAt)
	if errors.Is(err, models.ErrInvalidTransition) || errors.Is(err, models.ErrNotFound) {
		return models.Promise{}, err
	}
	if err != nil {
		logger.Error("failed to update promise status", "user_id", sess.UserID, "promise_id", id, "error", err)
		return models.Promise{}, err
	}

	publish(ctx, s.events, sess.UserID, EventPromiseUpdated, p)
	return p, nil
}

// Delete removes a promise. Its journal entries are left untouched.
func (s *PromiseService) Delete(ctx context.Context, sess models.Session, id uuid.UUID) error {
	if err := sess.Require(); err != nil {
		return err
	}
	if err := s.promises.Delete(ctx, sess.UserID, id); err != nil {
		return err
	}

	publish(ctx, s.events, sess.UserID, EventPromiseDeleted, map[string]uuid.UUID{"id": id})
	return nil
}

// Progress returns the metrics of one promise as of today in the user's timezone.
func (s *PromiseService) Progress(ctx context.Context, sess models.Session, id uuid.UUID) (progress.Snapshot, error) {
	if err := sess.Require(); err != nil {
		return progress.Snapshot{}, err
	}

	p, err := s.promises.Get(ctx, sess.UserID, id)
	if err != nil {
		return progress.Snapshot{}, err
	}
	entries, err := s.entries.List(ctx, sess.UserID, store.EntryFilter{PromiseID: id})
	if err != nil {
		return progress.Snapshot{}, err
	}
	cal, err := s.calendars.forUser(ctx, sess.UserID)
	if err != nil {
		return progress.Snapshot{}, err
	}
	return cal.Snapshot(p, entries), nil
}

// Dashboard summarizes all promises of the user.
func (s *PromiseService) Dashboard(ctx context.Context, sess models.Session) (Dashboard, error) {
	if err := sess.Require(); err != nil {
		return Dashboard{}, err
	}

	promises, err := s.promises.List(ctx, sess.UserID, store.ListOptions{})
	if err != nil {
		return Dashboard{}, err
	}
	entries, err := s.entries.List(ctx, sess.UserID, store.EntryFilter{})
	if err != nil {
		return Dashboard{}, err
	}
	cal, err := s.calendars.forUser(ctx, sess.UserID)
	if err != nil {
		return Dashboard{}, err
	}

	views := make([]PromiseView, 0, len(promises))
	for _, p := range promises {
		views = append(views, PromiseView{Promise: p, Progress: cal.Snapshot(p, entries)})
	}

	return Dashboard{
		Summary:  cal.Summarize(promises, entries),
		Promises: views,
		DueToday: cal.DueToday(promises, entries),
	}, nil
}

// Templates returns the built-in promise suggestions.
func (s *PromiseService) Templates() []models.PromiseTemplate {
	out := make([]models.PromiseTemplate, len(models.Templates))
	copy(out, models.Templates)
	return out
}
