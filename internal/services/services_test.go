package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/AnshRaj112/promisu-backend/internal/models"
	"github.com/AnshRaj112/promisu-backend/internal/store"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

// recordingPublisher captures published events.
type recordingPublisher struct {
	mu     sync.Mutex
	events []RecordEvent
	users  []uuid.UUID
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, userID uuid.UUID, ev RecordEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, ev)
	p.users = append(p.users, userID)
	return nil
}

func (p *recordingPublisher) types() []EventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]EventType, len(p.events))
	for i, ev := range p.events {
		out[i] = ev.Type
	}
	return out
}

// memorySessions is an in-process SessionStore.
type memorySessions struct {
	mu      sync.Mutex
	tokens  map[string]uuid.UUID
	counter int
}

func newMemorySessions() *memorySessions {
	return &memorySessions{tokens: make(map[string]uuid.UUID)}
}

func (m *memorySessions) Create(_ context.Context, userID uuid.UUID) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for token, owner := range m.tokens {
		if owner == userID {
			delete(m.tokens, token)
		}
	}
	m.counter++
	token := fmt.Sprintf("token-%d", m.counter)
	m.tokens[token] = userID
	return token, nil
}

func (m *memorySessions) Resolve(_ context.Context, token string) (uuid.UUID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	userID, ok := m.tokens[token]
	if !ok {
		return uuid.Nil, models.ErrNotAuthenticated
	}
	return userID, nil
}

func (m *memorySessions) Invalidate(_ context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.tokens, token)
	return nil
}

// memoryNotes is an in-process DailyNoteStore.
type memoryNotes struct {
	notes map[string]DailyNote
}

func (m *memoryNotes) key(userID uuid.UUID, date models.Date) string {
	return userID.String() + "/" + date.String()
}

func (m *memoryNotes) Get(_ context.Context, userID uuid.UUID, date models.Date) (DailyNote, error) {
	n, ok := m.notes[m.key(userID, date)]
	if !ok {
		return DailyNote{}, models.ErrNotFound
	}
	return n, nil
}

func (m *memoryNotes) Save(_ context.Context, userID uuid.UUID, date models.Date, notes string, now time.Time) (DailyNote, error) {
	if m.notes == nil {
		m.notes = make(map[string]DailyNote)
	}
	n, ok := m.notes[m.key(userID, date)]
	if !ok {
		n = DailyNote{UserID: userID.String(), Date: date.String(), CreatedAt: now}
	}
	n.GeneralNotes = notes
	n.UpdatedAt = now
	m.notes[m.key(userID, date)] = n
	return n, nil
}

// fakeUploader records uploads and returns a fixed URL.
type fakeUploader struct {
	uploads int
	folder  string
	err     error
}

func (f *fakeUploader) UploadPhoto(_ context.Context, file io.Reader, folder string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	if _, err := io.ReadAll(file); err != nil {
		return "", err
	}
	f.uploads++
	f.folder = folder
	return "https://res.cloudinary.com/demo/image/upload/entry.jpg", nil
}

var errBoom = errors.New("boom")

// fixture wires the services over a temporary SQLite database.
type fixture struct {
	db       *sql.DB
	promises *store.PromiseStore
	entries  *store.JournalStore
	users    *store.UserStore
	events   *recordingPublisher

	now  time.Time
	user models.User
	sess models.Session
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, store.Migrate(context.Background(), db, store.SQLite))

	f := &fixture{
		db:       db,
		promises: store.NewPromiseStore(db, store.SQLite),
		entries:  store.NewJournalStore(db, store.SQLite),
		users:    store.NewUserStore(db, store.SQLite),
		events:   &recordingPublisher{},
		now:      time.Date(2026, time.March, 5, 9, 0, 0, 0, time.UTC),
	}
	f.user = f.addUser(t, "tester", "UTC")
	f.sess = models.Session{UserID: f.user.ID, Token: "t"}
	return f
}

func (f *fixture) addUser(t *testing.T, username, timezone string) models.User {
	t.Helper()
	settings := models.DefaultSettings()
	settings.Timezone = timezone
	u := models.User{
		ID:           uuid.New(),
		Username:     username,
		PasswordHash: "unused",
		Settings:     settings,
		IsActive:     true,
		CreatedAt:    f.now,
	}
	require.NoError(t, f.users.Create(context.Background(), u))
	return u
}

func (f *fixture) clock() Clock {
	return func() time.Time { return f.now }
}

func (f *fixture) today() models.Date {
	return models.DateOf(f.now, time.UTC)
}

func (f *fixture) promiseService() *PromiseService {
	return NewPromiseService(f.promises, f.entries, f.users, f.events, f.clock())
}

func (f *fixture) journalService(photos PhotoUploader) *JournalService {
	return NewJournalService(f.promises, f.entries, f.users, f.events, photos, f.clock())
}

func (f *fixture) createPromise(t *testing.T, title string, duration int) models.Promise {
	t.Helper()
	p, err := f.promiseService().Create(context.Background(), f.sess, models.PromiseInput{Title: title, Duration: duration})
	require.NoError(t, err)
	return p
}
