package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/AnshRaj112/promisu-backend/internal/models"
	"github.com/google/uuid"
)

const promiseColumns = `id, user_id, title, description, duration, start_date, end_date,
	time_specific, promise_time, place_specific, place, category, status, created_at, updated_at`

// ListOptions filters and orders a promise listing.
type ListOptions struct {
	Status    models.PromiseStatus // empty lists every status
	OrderBy   string               // created_at, end_date, title or status
	Ascending bool
}

var promiseOrderColumns = map[string]string{
	"":           "created_at",
	"created_at": "created_at",
	"end_date":   "end_date",
	"start_date": "start_date",
	"title":      "title",
	"status":     "status",
}

func (o ListOptions) orderClause() (string, error) {
	col, ok := promiseOrderColumns[strings.ToLower(strings.TrimSpace(o.OrderBy))]
	if !ok {
		return "", &models.ValidationError{Field: "order_by", Message: fmt.Sprintf("Cannot order promises by %q", o.OrderBy)}
	}
	dir := "DESC"
	if o.Ascending {
		dir = "ASC"
	}
	return " ORDER BY " + col + " " + dir + ", id " + dir, nil
}

// PromiseStore reads and writes the promises table.
type PromiseStore struct {
	db      *sql.DB
	dialect Dialect
}

func NewPromiseStore(db *sql.DB, dialect Dialect) *PromiseStore {
	return &PromiseStore{db: db, dialect: dialect}
}

func scanPromise(row rowScanner) (models.Promise, error) {
	var p models.Promise
	var status string
	err := row.Scan(
		&p.ID, &p.UserID, &p.Title, &p.Description, &p.Duration, &p.StartDate, &p.EndDate,
		&p.TimeSpecific, &p.Time, &p.PlaceSpecific, &p.Place, &p.Category, &status,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return models.Promise{}, err
	}
	p.Status = models.PromiseStatus(status)
	p.StartDate = utc(p.StartDate)
	p.EndDate = utc(p.EndDate)
	p.CreatedAt = utc(p.CreatedAt)
	p.UpdatedAt = utc(p.UpdatedAt)
	return p, nil
}

// Insert stores a new promise.
func (s *PromiseStore) Insert(ctx context.Context, p models.Promise) error {
	query := s.dialect.rebind(`INSERT INTO promises (` + promiseColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)

	_, err := s.db.ExecContext(ctx, query,
		p.ID, p.UserID, p.Title, p.Description, p.Duration, utc(p.StartDate), utc(p.EndDate),
		p.TimeSpecific, p.Time, p.PlaceSpecific, p.Place, p.Category, string(p.Status),
		utc(p.CreatedAt), utc(p.UpdatedAt),
	)
	return err
}

// Get loads one promise owned by userID.
func (s *PromiseStore) Get(ctx context.Context, userID, id uuid.UUID) (models.Promise, error) {
	query := s.dialect.rebind(`SELECT ` + promiseColumns + ` FROM promises WHERE id = ? AND user_id = ?`)
	p, err := scanPromise(s.db.QueryRowContext(ctx, query, id, userID))
	if err != nil {
		return models.Promise{}, notFound(err)
	}
	return p, nil
}

// List returns the promises of userID, newest first unless opts says otherwise.
func (s *PromiseStore) List(ctx context.Context, userID uuid.UUID, opts ListOptions) ([]models.Promise, error) {
	order, err := opts.orderClause()
	if err != nil {
		return nil, err
	}

	query := `SELECT ` + promiseColumns + ` FROM promises WHERE user_id = ?`
	args := []interface{}{userID}
	if opts.Status != "" {
		query += ` AND status = ?`
		args = append(args, string(opts.Status))
	}
	query += order

	rows, err := s.db.QueryContext(ctx, s.dialect.rebind(query), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	promises := []models.Promise{}
	for rows.Next() {
		p, err := scanPromise(rows)
		if err != nil {
			return nil, err
		}
		promises = append(promises, p)
	}
	return promises, rows.Err()
}

// UpdateStatus moves a promise owned by userID from one status to another.
// It fails with ErrInvalidTransition when the stored status is no longer from.
func (s *PromiseStore) UpdateStatus(ctx context.Context, userID, id uuid.UUID, from, to models.PromiseStatus, updatedAt time.Time) error {
	query := s.dialect.rebind(`UPDATE promises SET status = ?, updated_at = ? WHERE id = ? AND user_id = ? AND status = ?`)
	err := expectOne(s.db.ExecContext(ctx, query, string(to), utc(updatedAt), id, userID, string(from)))
	if !errors.Is(err, models.ErrNotFound) {
		return err
	}
	// No row matched: the promise is gone or its status moved on since it was read.
	current, getErr := s.Get(ctx, userID, id)
	if getErr != nil {
		return getErr
	}
	return fmt.Errorf("%w: promise is %s, expected %s", models.ErrInvalidTransition, current.Status, from)
}

// Delete removes a promise owned by userID. Its journal entries are kept.
func (s *PromiseStore) Delete(ctx context.Context, userID, id uuid.UUID) error {
	query := s.dialect.rebind(`DELETE FROM promises WHERE id = ? AND user_id = ?`)
	return expectOne(s.db.ExecContext(ctx, query, id, userID))
}
