package store

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/AnshRaj112/promisu-backend/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

var (
	testNow   = time.Date(2026, time.March, 5, 8, 30, 0, 0, time.UTC)
	testToday = models.Date{Year: 2026, Month: time.March, Day: 5}
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, Migrate(context.Background(), db, SQLite))
	return db
}

func newTestPromise(t *testing.T, userID uuid.UUID, title string, createdAt time.Time) models.Promise {
	t.Helper()
	p, err := models.NewPromise(userID, models.PromiseInput{Title: title, Duration: 30}, createdAt)
	require.NoError(t, err)
	return p
}

// =============================================================================
// Dialect
// =============================================================================

func TestRebind(t *testing.T) {
	q := `SELECT * FROM promises WHERE id = ? AND user_id = ?`
	assert.Equal(t, q, SQLite.rebind(q))
	assert.Equal(t, `SELECT * FROM promises WHERE id = $1 AND user_id = $2`, Postgres.rebind(q))
}

func TestParseDialect(t *testing.T) {
	d, err := ParseDialect(" Postgres ")
	require.NoError(t, err)
	assert.Equal(t, Postgres, d)

	d, err = ParseDialect("sqlite")
	require.NoError(t, err)
	assert.Equal(t, SQLite, d)

	_, err = ParseDialect("oracle")
	assert.Error(t, err)
}

func TestDDLPerDialect(t *testing.T) {
	pg := Postgres.ddl(schema)
	assert.Contains(t, pg[0], "id UUID PRIMARY KEY")
	assert.Contains(t, pg[0], "TIMESTAMPTZ")

	lite := SQLite.ddl(schema)
	assert.Contains(t, lite[0], "id TEXT PRIMARY KEY")
	assert.NotContains(t, lite[0], "{ts}")
}

func TestMigrateIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	assert.NoError(t, Migrate(context.Background(), db, SQLite))
}

// =============================================================================
// Promises
// =============================================================================

func TestPromiseInsertAndGet(t *testing.T) {
	ctx := context.Background()
	s := NewPromiseStore(setupTestDB(t), SQLite)
	userID := uuid.New()

	p, err := models.NewPromise(userID, models.PromiseInput{
		Title: "Run", Duration: 10, TimeSpecific: true, Time: "06:30", Category: "health",
	}, testNow)
	require.NoError(t, err)
	require.NoError(t, s.Insert(ctx, p))

	got, err := s.Get(ctx, userID, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)
	assert.Equal(t, "Run", got.Title)
	assert.Equal(t, 10, got.Duration)
	assert.Equal(t, "06:30", got.Time)
	assert.True(t, got.TimeSpecific)
	assert.Equal(t, models.StatusActive, got.Status)
	assert.True(t, got.StartDate.Equal(testNow))
	assert.True(t, got.EndDate.Equal(testNow.AddDate(0, 0, 10)))
}

func TestPromiseGetIsScopedToOwner(t *testing.T) {
	ctx := context.Background()
	s := NewPromiseStore(setupTestDB(t), SQLite)
	owner := uuid.New()

	p := newTestPromise(t, owner, "Read", testNow)
	require.NoError(t, s.Insert(ctx, p))

	_, err := s.Get(ctx, uuid.New(), p.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)

	_, err = s.Get(ctx, owner, uuid.New())
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestPromiseListOrderAndFilter(t *testing.T) {
	ctx := context.Background()
	s := NewPromiseStore(setupTestDB(t), SQLite)
	userID := uuid.New()

	older := newTestPromise(t, userID, "Older", testNow.Add(-48*time.Hour))
	newer := newTestPromise(t, userID, "Newer", testNow)
	paused := newTestPromise(t, userID, "Paused", testNow.Add(-24*time.Hour))
	paused.Status = models.StatusPaused
	foreign := newTestPromise(t, uuid.New(), "Foreign", testNow)

	for _, p := range []models.Promise{older, newer, paused, foreign} {
		require.NoError(t, s.Insert(ctx, p))
	}

	all, err := s.List(ctx, userID, ListOptions{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"Newer", "Paused", "Older"}, titles(all))

	asc, err := s.List(ctx, userID, ListOptions{OrderBy: "title", Ascending: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"Newer", "Older", "Paused"}, titles(asc))

	active, err := s.List(ctx, userID, ListOptions{Status: models.StatusActive})
	require.NoError(t, err)
	assert.Equal(t, []string{"Newer", "Older"}, titles(active))

	none, err := s.List(ctx, uuid.New(), ListOptions{})
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)

	_, err = s.List(ctx, userID, ListOptions{OrderBy: "password"})
	assert.ErrorIs(t, err, models.ErrInvalidInput)
}

func titles(ps []models.Promise) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.Title
	}
	return out
}

func TestPromiseUpdateStatus(t *testing.T) {
	ctx := context.Background()
	s := NewPromiseStore(setupTestDB(t), SQLite)
	userID := uuid.New()

	p := newTestPromise(t, userID, "Meditate", testNow)
	require.NoError(t, s.Insert(ctx, p))

	later := testNow.Add(time.Hour)
	require.NoError(t, s.UpdateStatus(ctx, userID, p.ID, models.StatusActive, models.StatusCompleted, later))

	got, err := s.Get(ctx, userID, p.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, got.Status)
	assert.True(t, got.UpdatedAt.Equal(later))

	err = s.UpdateStatus(ctx, uuid.New(), p.ID, models.StatusCompleted, models.StatusFailed, later)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestPromiseUpdateStatusRejectsStaleStatus(t *testing.T) {
	ctx := context.Background()
	s := NewPromiseStore(setupTestDB(t), SQLite)
	userID := uuid.New()

	p := newTestPromise(t, userID, "Journal", testNow)
	require.NoError(t, s.Insert(ctx, p))
	require.NoError(t, s.UpdateStatus(ctx, userID, p.ID, models.StatusActive, models.StatusCompleted, testNow.Add(time.Hour)))

	err := s.UpdateStatus(ctx, userID, p.ID, models.StatusActive, models.StatusFailed, testNow.Add(2*time.Hour))
	assert.ErrorIs(t, err, models.ErrInvalidTransition)

	got, err := s.Get(ctx, userID, p.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, got.Status)

	err = s.UpdateStatus(ctx, userID, uuid.New(), models.StatusActive, models.StatusFailed, testNow)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestPromiseDeleteKeepsEntries(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	promises := NewPromiseStore(db, SQLite)
	journal := NewJournalStore(db, SQLite)
	userID := uuid.New()

	p := newTestPromise(t, userID, "Walk", testNow)
	require.NoError(t, promises.Insert(ctx, p))
	_, err := journal.Upsert(ctx, models.NewJournalEntry(userID, p.ID, testToday, true, "", testNow))
	require.NoError(t, err)

	assert.ErrorIs(t, promises.Delete(ctx, uuid.New(), p.ID), models.ErrNotFound)
	require.NoError(t, promises.Delete(ctx, userID, p.ID))
	assert.ErrorIs(t, promises.Delete(ctx, userID, p.ID), models.ErrNotFound)

	_, err = promises.Get(ctx, userID, p.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)

	entries, err := journal.List(ctx, userID, EntryFilter{PromiseID: p.ID})
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

// =============================================================================
// Journal entries
// =============================================================================

func TestJournalUpsertKeepsOneRowPerDay(t *testing.T) {
	ctx := context.Background()
	s := NewJournalStore(setupTestDB(t), SQLite)
	userID, promiseID := uuid.New(), uuid.New()

	first, err := s.Upsert(ctx, models.NewJournalEntry(userID, promiseID, testToday, true, "felt great", testNow))
	require.NoError(t, err)
	assert.True(t, first.Completed)
	assert.Equal(t, testToday, first.Date)

	require.NoError(t, s.UpdateMood(ctx, userID, first.ID, 4, testNow))

	later := testNow.Add(2 * time.Hour)
	second, err := s.Upsert(ctx, models.NewJournalEntry(userID, promiseID, testToday, false, "", later))
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.False(t, second.Completed)
	assert.Empty(t, second.Notes)
	require.NotNil(t, second.Mood)
	assert.Equal(t, models.Mood(4), *second.Mood)
	assert.True(t, second.CreatedAt.Equal(testNow))
	assert.True(t, second.UpdatedAt.Equal(later))

	entries, err := s.List(ctx, userID, EntryFilter{})
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestJournalUpsertSeparatesUsersAndDays(t *testing.T) {
	ctx := context.Background()
	s := NewJournalStore(setupTestDB(t), SQLite)
	userID, otherUser, promiseID := uuid.New(), uuid.New(), uuid.New()

	_, err := s.Upsert(ctx, models.NewJournalEntry(userID, promiseID, testToday, true, "", testNow))
	require.NoError(t, err)
	_, err = s.Upsert(ctx, models.NewJournalEntry(userID, promiseID, testToday.AddDays(-1), true, "", testNow))
	require.NoError(t, err)
	_, err = s.Upsert(ctx, models.NewJournalEntry(otherUser, promiseID, testToday, true, "", testNow))
	require.NoError(t, err)

	mine, err := s.List(ctx, userID, EntryFilter{})
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, testToday, mine[0].Date)
	assert.Equal(t, testToday.AddDays(-1), mine[1].Date)
}

func TestJournalFindByDayAndGet(t *testing.T) {
	ctx := context.Background()
	s := NewJournalStore(setupTestDB(t), SQLite)
	userID, promiseID := uuid.New(), uuid.New()

	stored, err := s.Upsert(ctx, models.NewJournalEntry(userID, promiseID, testToday, true, "", testNow))
	require.NoError(t, err)

	found, err := s.FindByDay(ctx, userID, promiseID, testToday)
	require.NoError(t, err)
	assert.Equal(t, stored.ID, found.ID)

	_, err = s.FindByDay(ctx, userID, promiseID, testToday.AddDays(-1))
	assert.ErrorIs(t, err, models.ErrNotFound)

	got, err := s.Get(ctx, userID, stored.ID)
	require.NoError(t, err)
	assert.Nil(t, got.Mood)

	_, err = s.Get(ctx, uuid.New(), stored.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestJournalListFilters(t *testing.T) {
	ctx := context.Background()
	s := NewJournalStore(setupTestDB(t), SQLite)
	userID, p1, p2 := uuid.New(), uuid.New(), uuid.New()

	for i := 0; i < 5; i++ {
		_, err := s.Upsert(ctx, models.NewJournalEntry(userID, p1, testToday.AddDays(-i), i%2 == 0, "", testNow))
		require.NoError(t, err)
	}
	_, err := s.Upsert(ctx, models.NewJournalEntry(userID, p2, testToday, true, "", testNow))
	require.NoError(t, err)

	byPromise, err := s.List(ctx, userID, EntryFilter{PromiseID: p1})
	require.NoError(t, err)
	assert.Len(t, byPromise, 5)

	ranged, err := s.List(ctx, userID, EntryFilter{From: testToday.AddDays(-3), To: testToday.AddDays(-1)})
	require.NoError(t, err)
	require.Len(t, ranged, 3)
	assert.Equal(t, testToday.AddDays(-1), ranged[0].Date)
	assert.Equal(t, testToday.AddDays(-3), ranged[2].Date)

	today, err := s.List(ctx, userID, EntryFilter{From: testToday, To: testToday})
	require.NoError(t, err)
	assert.Len(t, today, 2)
}

func TestJournalUpdates(t *testing.T) {
	ctx := context.Background()
	s := NewJournalStore(setupTestDB(t), SQLite)
	userID, promiseID := uuid.New(), uuid.New()

	e, err := s.Upsert(ctx, models.NewJournalEntry(userID, promiseID, testToday, true, "", testNow))
	require.NoError(t, err)

	require.NoError(t, s.UpdateNotes(ctx, userID, e.ID, "ran 5k", testNow))
	require.NoError(t, s.UpdatePhoto(ctx, userID, e.ID, "https://res.cloudinary.com/x.jpg", testNow))
	require.NoError(t, s.UpdateMood(ctx, userID, e.ID, models.MaxMood, testNow))

	got, err := s.Get(ctx, userID, e.ID)
	require.NoError(t, err)
	assert.Equal(t, "ran 5k", got.Notes)
	assert.Equal(t, "https://res.cloudinary.com/x.jpg", got.PhotoURL)
	require.NotNil(t, got.Mood)
	assert.Equal(t, models.MaxMood, *got.Mood)

	stranger := uuid.New()
	assert.ErrorIs(t, s.UpdateNotes(ctx, stranger, e.ID, "x", testNow), models.ErrNotFound)
	assert.ErrorIs(t, s.UpdateMood(ctx, stranger, e.ID, 1, testNow), models.ErrNotFound)
	assert.ErrorIs(t, s.UpdatePhoto(ctx, stranger, e.ID, "x", testNow), models.ErrNotFound)
}

// =============================================================================
// Users
// =============================================================================

func newTestUser(username string) models.User {
	return models.User{
		ID:           uuid.New(),
		Username:     username,
		PasswordHash: "hash",
		Settings:     models.DefaultSettings(),
		IsActive:     true,
		CreatedAt:    testNow,
	}
}

func TestUserCreateAndLookup(t *testing.T) {
	ctx := context.Background()
	s := NewUserStore(setupTestDB(t), SQLite)

	u := newTestUser("Alice_01")
	require.NoError(t, s.Create(ctx, u))

	byName, err := s.GetByUsername(ctx, "ALICE_01")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byName.ID)
	assert.Equal(t, "alice_01", byName.Username)
	assert.Equal(t, models.DefaultSettings(), byName.Settings)

	byID, err := s.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice_01", byID.Username)

	_, err = s.GetByUsername(ctx, "bob")
	assert.ErrorIs(t, err, models.ErrNotFound)
	_, err = s.GetByID(ctx, uuid.New())
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestUserUsernameTaken(t *testing.T) {
	ctx := context.Background()
	s := NewUserStore(setupTestDB(t), SQLite)
	require.NoError(t, s.Create(ctx, newTestUser("carol")))

	taken, err := s.UsernameTaken(ctx, "Carol")
	require.NoError(t, err)
	assert.True(t, taken)

	taken, err = s.UsernameTaken(ctx, "dave")
	require.NoError(t, err)
	assert.False(t, taken)

	assert.ErrorIs(t, s.Create(ctx, newTestUser("CAROL")), models.ErrUsernameTaken)
}

func TestUserUpdateSettings(t *testing.T) {
	ctx := context.Background()
	s := NewUserStore(setupTestDB(t), SQLite)
	u := newTestUser("erin")
	require.NoError(t, s.Create(ctx, u))

	settings := models.UserSettings{
		NotificationsEnabled: false,
		DefaultReminderTime:  "21:15",
		Timezone:             "Europe/Berlin",
		WeekStartDay:         0,
	}
	require.NoError(t, s.UpdateSettings(ctx, u.ID, settings, testNow))

	got, err := s.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, settings, got.Settings)

	assert.ErrorIs(t, s.UpdateSettings(ctx, uuid.New(), settings, testNow), models.ErrNotFound)
}
