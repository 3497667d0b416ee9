package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	MinPromiseDuration = 1
	MaxPromiseDuration = 365

	// TimeOfDayLayout is the format of Promise.Time and reminder times.
	TimeOfDayLayout = "15:04"

	DefaultCategory = "personal"
)

// PromiseStatus is the lifecycle state of a promise.
type PromiseStatus string

const (
	StatusActive    PromiseStatus = "active"
	StatusCompleted PromiseStatus = "completed"
	StatusFailed    PromiseStatus = "failed"
	StatusPaused    PromiseStatus = "paused"
)

var transitions = map[PromiseStatus][]PromiseStatus{
	StatusActive: {StatusCompleted, StatusFailed, StatusPaused},
	StatusPaused: {StatusActive},
}

// ParseStatus validates a status name.
func ParseStatus(s string) (PromiseStatus, error) {
	st := PromiseStatus(strings.ToLower(strings.TrimSpace(s)))
	if !st.Valid() {
		return "", invalid("status", "status must be one of active, completed, failed, paused")
	}
	return st, nil
}

func (s PromiseStatus) Valid() bool {
	switch s {
	case StatusActive, StatusCompleted, StatusFailed, StatusPaused:
		return true
	}
	return false
}

// Terminal reports whether no transition leaves s.
func (s PromiseStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

func (s PromiseStatus) CanTransition(to PromiseStatus) bool {
	for _, next := range transitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

// Transition returns the new status or an error matching ErrInvalidTransition.
func (s PromiseStatus) Transition(to PromiseStatus) (PromiseStatus, error) {
	if !s.CanTransition(to) {
		return s, &transitionError{from: s, to: to}
	}
	return to, nil
}

// Promise is a time-bound personal commitment.
type Promise struct {
	ID            uuid.UUID     `json:"id"`
	UserID        uuid.UUID     `json:"-"`
	Title         string        `json:"title"`
	Description   string        `json:"description,omitempty"`
	Duration      int           `json:"duration"`
	StartDate     time.Time     `json:"start_date"`
	EndDate       time.Time     `json:"end_date"`
	TimeSpecific  bool          `json:"time_specific"`
	Time          string        `json:"time,omitempty"`
	PlaceSpecific bool          `json:"place_specific"`
	Place         string        `json:"place,omitempty"`
	Category      string        `json:"category"`
	Status        PromiseStatus `json:"status"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// PromiseInput is what a user supplies when creating a promise.
type PromiseInput struct {
	Title         string `json:"title"`
	Description   string `json:"description"`
	Duration      int    `json:"duration"`
	TimeSpecific  bool   `json:"time_specific"`
	Time          string `json:"time"`
	PlaceSpecific bool   `json:"place_specific"`
	Place         string `json:"place"`
	Category      string `json:"category"`
}

// Validate checks the input without building a promise.
func (in PromiseInput) Validate() error {
	if strings.TrimSpace(in.Title) == "" {
		return invalid("title", "Title is required")
	}
	if in.Duration < MinPromiseDuration || in.Duration > MaxPromiseDuration {
		return invalid("duration", "Duration must be between 1 and 365 days")
	}
	if in.TimeSpecific {
		if _, err := time.Parse(TimeOfDayLayout, strings.TrimSpace(in.Time)); err != nil {
			return invalid("time", "Time must use the HH:MM format")
		}
	}
	if in.PlaceSpecific && strings.TrimSpace(in.Place) == "" {
		return invalid("place", "Place is required for a place-specific promise")
	}
	return nil
}

// NewPromise builds an active promise for userID starting at now.
func NewPromise(userID uuid.UUID, in PromiseInput, now time.Time) (Promise, error) {
	if err := in.Validate(); err != nil {
		return Promise{}, err
	}

	p := Promise{
		ID:            uuid.New(),
		UserID:        userID,
		Title:         strings.TrimSpace(in.Title),
		Description:   strings.TrimSpace(in.Description),
		Duration:      in.Duration,
		StartDate:     now,
		EndDate:       now.AddDate(0, 0, in.Duration),
		TimeSpecific:  in.TimeSpecific,
		PlaceSpecific: in.PlaceSpecific,
		Category:      strings.TrimSpace(in.Category),
		Status:        StatusActive,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if p.TimeSpecific {
		p.Time = strings.TrimSpace(in.Time)
	}
	if p.PlaceSpecific {
		p.Place = strings.TrimSpace(in.Place)
	}
	if p.Category == "" {
		p.Category = DefaultCategory
	}
	return p, nil
}

// SetStatus applies a transition and bumps UpdatedAt.
func (p *Promise) SetStatus(to PromiseStatus, now time.Time) error {
	next, err := p.Status.Transition(to)
	if err != nil {
		return err
	}
	p.Status = next
	p.UpdatedAt = now
	return nil
}

// ScheduledTime returns the time of day only when the promise is time specific.
func (p Promise) ScheduledTime() (string, bool) {
	if !p.TimeSpecific || p.Time == "" {
		return "", false
	}
	return p.Time, true
}

// ScheduledPlace returns the place only when the promise is place specific.
func (p Promise) ScheduledPlace() (string, bool) {
	if !p.PlaceSpecific || p.Place == "" {
		return "", false
	}
	return p.Place, true
}

// PromiseTemplate is a suggested promise offered when creating a new one.
type PromiseTemplate struct {
	ID                string `json:"id"`
	Title             string `json:"title"`
	Description       string `json:"description,omitempty"`
	SuggestedDuration int    `json:"suggested_duration"`
	Category          string `json:"category"`
	TimeSpecific      bool   `json:"time_specific"`
	PlaceSpecific     bool   `json:"place_specific"`
}

// Templates is the built-in catalogue.
var Templates = []PromiseTemplate{
	{ID: "morning-run", Title: "Go for a morning run", SuggestedDuration: 30, Category: "health", TimeSpecific: true},
	{ID: "read-daily", Title: "Read for 20 minutes", SuggestedDuration: 30, Category: "learning"},
	{ID: "no-social", Title: "No social media before noon", SuggestedDuration: 14, Category: "social"},
	{ID: "gym", Title: "Work out at the gym", SuggestedDuration: 60, Category: "health", PlaceSpecific: true},
	{ID: "deep-work", Title: "Two hours of deep work", Description: "No notifications, no meetings.", SuggestedDuration: 21, Category: "work"},
	{ID: "call-family", Title: "Call a family member", SuggestedDuration: 7, Category: "personal"},
}
