package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/AnshRaj112/promisu-backend/internal/models"
	"github.com/AnshRaj112/promisu-backend/internal/store"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToggleTodayCreatesThenUpdates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := f.journalService(nil)
	p := f.createPromise(t, "Run", 30)

	first, err := svc.ToggleToday(ctx, f.sess, p.ID, true, "easy 5k")
	require.NoError(t, err)
	assert.True(t, first.Completed)
	assert.Equal(t, f.today(), first.Date)
	assert.Equal(t, "easy 5k", first.Notes)

	f.now = f.now.Add(3 * time.Hour)
	second, err := svc.ToggleToday(ctx, f.sess, p.ID, false, "")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.False(t, second.Completed)

	entries, err := svc.List(ctx, f.sess, store.EntryFilter{PromiseID: p.ID})
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	f.now = f.now.Add(24 * time.Hour)
	third, err := svc.ToggleToday(ctx, f.sess, p.ID, true, "")
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, third.ID)
	assert.Equal(t, f.today(), third.Date)
}

func TestToggleTodayUsesUserTimezone(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tokyo := f.addUser(t, "tokyo_user", "Asia/Tokyo")
	sess := models.Session{UserID: tokyo.ID, Token: "tk"}

	// 20:00 UTC on March 5 is already March 6 in Tokyo.
	f.now = time.Date(2026, time.March, 5, 20, 0, 0, 0, time.UTC)
	p, err := f.promiseService().Create(ctx, sess, models.PromiseInput{Title: "Tea", Duration: 5})
	require.NoError(t, err)

	e, err := f.journalService(nil).ToggleToday(ctx, sess, p.ID, true, "")
	require.NoError(t, err)
	assert.Equal(t, models.Date{Year: 2026, Month: time.March, Day: 6}, e.Date)
}

func TestToggleTodayRejects(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := f.journalService(nil)
	p := f.createPromise(t, "Run", 30)

	_, err := svc.ToggleToday(ctx, models.Session{}, p.ID, true, "")
	assert.ErrorIs(t, err, models.ErrNotAuthenticated)

	_, err = svc.ToggleToday(ctx, f.sess, uuid.New(), true, "")
	assert.ErrorIs(t, err, models.ErrNotFound)

	_, err = svc.ToggleToday(ctx, f.sess, p.ID, true, strings.Repeat("x", models.MaxNotesLength+1))
	assert.ErrorIs(t, err, models.ErrInvalidInput)

	_, err = f.promiseService().UpdateStatus(ctx, f.sess, p.ID, models.StatusPaused)
	require.NoError(t, err)
	_, err = svc.ToggleToday(ctx, f.sess, p.ID, true, "")
	assert.ErrorIs(t, err, models.ErrPromiseNotActive)

	entries, err := svc.List(ctx, f.sess, store.EntryFilter{})
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestUpdateMoodAndNotes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := f.journalService(nil)
	p := f.createPromise(t, "Read", 30)

	e, err := svc.ToggleToday(ctx, f.sess, p.ID, true, "")
	require.NoError(t, err)

	rated, err := svc.UpdateMood(ctx, f.sess, e.ID, 5)
	require.NoError(t, err)
	require.NotNil(t, rated.Mood)
	assert.Equal(t, models.Mood(5), *rated.Mood)

	_, err = svc.UpdateMood(ctx, f.sess, e.ID, 0)
	assert.ErrorIs(t, err, models.ErrInvalidInput)
	_, err = svc.UpdateMood(ctx, f.sess, e.ID, 6)
	assert.ErrorIs(t, err, models.ErrInvalidInput)

	noted, err := svc.UpdateNotes(ctx, f.sess, e.ID, "chapter 3")
	require.NoError(t, err)
	assert.Equal(t, "chapter 3", noted.Notes)

	other := f.addUser(t, "nosy", "UTC")
	_, err = svc.UpdateMood(ctx, models.Session{UserID: other.ID, Token: "n"}, e.ID, 3)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestAttachPhoto(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.createPromise(t, "Cook", 30)

	uploader := &fakeUploader{}
	svc := f.journalService(uploader)
	e, err := svc.ToggleToday(ctx, f.sess, p.ID, true, "")
	require.NoError(t, err)

	withPhoto, err := svc.AttachPhoto(ctx, f.sess, e.ID, strings.NewReader("jpeg bytes"))
	require.NoError(t, err)
	assert.Equal(t, "https://res.cloudinary.com/demo/image/upload/entry.jpg", withPhoto.PhotoURL)
	assert.Equal(t, EntryPhotoFolder, uploader.folder)

	_, err = svc.AttachPhoto(ctx, f.sess, uuid.New(), strings.NewReader("x"))
	assert.ErrorIs(t, err, models.ErrNotFound)
	assert.Equal(t, 1, uploader.uploads, "no upload for a missing entry")

	uploader.err = errBoom
	_, err = svc.AttachPhoto(ctx, f.sess, e.ID, strings.NewReader("x"))
	assert.ErrorIs(t, err, errBoom)

	_, err = f.journalService(nil).AttachPhoto(ctx, f.sess, e.ID, strings.NewReader("x"))
	assert.ErrorIs(t, err, ErrUploadsDisabled)
}

func TestJournalToday(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := f.journalService(nil)

	run := f.createPromise(t, "Run", 30)
	f.createPromise(t, "Read", 30)
	done := f.createPromise(t, "Done", 30)
	_, err := f.promiseService().UpdateStatus(ctx, f.sess, done.ID, models.StatusCompleted)
	require.NoError(t, err)

	_, err = svc.ToggleToday(ctx, f.sess, run.ID, true, "")
	require.NoError(t, err)

	items, err := svc.Today(ctx, f.sess)
	require.NoError(t, err)
	require.Len(t, items, 2)

	doneCount := 0
	for _, item := range items {
		if item.Done() {
			doneCount++
			assert.Equal(t, run.ID, item.Promise.ID)
		}
	}
	assert.Equal(t, 1, doneCount)

	// Yesterday's entries do not count for today.
	f.now = f.now.Add(24 * time.Hour)
	items, err = svc.Today(ctx, f.sess)
	require.NoError(t, err)
	for _, item := range items {
		assert.False(t, item.Done())
	}
}

func TestJournalListRejectsInvertedRange(t *testing.T) {
	f := newFixture(t)
	_, err := f.journalService(nil).List(context.Background(), f.sess, store.EntryFilter{
		From: f.today(), To: f.today().AddDays(-1),
	})
	assert.ErrorIs(t, err, models.ErrInvalidInput)
}

func TestJournalEventsPublished(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := f.journalService(nil)
	p := f.createPromise(t, "Run", 30)

	e, err := svc.ToggleToday(ctx, f.sess, p.ID, true, "")
	require.NoError(t, err)
	_, err = svc.UpdateMood(ctx, f.sess, e.ID, 3)
	require.NoError(t, err)

	assert.Equal(t, []EventType{EventPromiseCreated, EventEntryUpserted, EventEntryUpserted}, f.events.types())
	for _, userID := range f.events.users {
		assert.Equal(t, f.user.ID, userID)
	}
}
