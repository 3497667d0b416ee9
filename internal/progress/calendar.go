package progress

import (
	"math"
	"time"

	"github.com/AnshRaj112/promisu-backend/internal/models"
	"github.com/google/uuid"
)

// Calendar pins "today" to a location and a clock. The zero value uses
// time.Local and time.Now.
type Calendar struct {
	loc *time.Location
	now func() time.Time
}

// NewCalendar returns a calendar for loc using the wall clock.
func NewCalendar(loc *time.Location) Calendar {
	return Calendar{loc: loc, now: time.Now}
}

// WithClock returns a copy of c reading the current time from now.
func (c Calendar) WithClock(now func() time.Time) Calendar {
	c.now = now
	return c
}

func (c Calendar) Location() *time.Location {
	if c.loc == nil {
		return time.Local
	}
	return c.loc
}

// Now returns the current instant in the calendar's location.
func (c Calendar) Now() time.Time {
	now := time.Now
	if c.now != nil {
		now = c.now
	}
	return now().In(c.Location())
}

func (c Calendar) Today() models.Date {
	return models.DateOf(c.Now(), c.Location())
}

// IsToday compares calendar days, not a 24 hour window.
func (c Calendar) IsToday(t time.Time) bool {
	return models.DateOf(t, c.Location()) == c.Today()
}

func (c Calendar) IsTodayDate(d models.Date) bool {
	return d == c.Today()
}

// TodayEntry returns the first entry, in the given order, logged today for
// the promise.
func (c Calendar) TodayEntry(promiseID uuid.UUID, entries []models.JournalEntry) (models.JournalEntry, bool) {
	today := c.Today()
	for _, e := range entries {
		if e.PromiseID == promiseID && e.Date == today {
			return e, true
		}
	}
	return models.JournalEntry{}, false
}

// DaysRemaining returns the whole days left until the promise ends, rounded
// up and never negative.
func (c Calendar) DaysRemaining(p models.Promise) int {
	left := p.EndDate.Sub(c.Now())
	if left <= 0 {
		return 0
	}
	return int(math.Ceil(left.Hours() / 24))
}

// DaysElapsed returns the calendar days since the promise started.
func (c Calendar) DaysElapsed(p models.Promise) int {
	start := models.DateOf(p.StartDate, c.Location())
	elapsed := c.Today().DaysSince(start)
	if elapsed < 0 {
		return 0
	}
	return elapsed
}
