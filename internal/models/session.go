package models

import "github.com/google/uuid"

// Session identifies the authenticated user of a request. It is passed
// explicitly to every operation that reads or writes user records.
type Session struct {
	UserID uuid.UUID
	Token  string
}

// Authenticated reports whether s carries a user.
func (s Session) Authenticated() bool {
	return s.UserID != uuid.Nil
}

// Require returns ErrNotAuthenticated for an anonymous session.
func (s Session) Require() error {
	if !s.Authenticated() {
		return ErrNotAuthenticated
	}
	return nil
}
