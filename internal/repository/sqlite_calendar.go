package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/estudio/internal/db"
	"github.com/alexanderramin/estudio/internal/domain"
)

// SQLiteCalendarRepo implements CalendarRepo using a SQLite database.
// Every query is scoped to the owning user.
type SQLiteCalendarRepo struct {
	db db.DBTX
}

// NewSQLiteCalendarRepo creates a new SQLiteCalendarRepo.
func NewSQLiteCalendarRepo(conn db.DBTX) *SQLiteCalendarRepo {
	return &SQLiteCalendarRepo{db: conn}
}

const entryColumns = `id, user_id, date, subject, topic, detailed_agenda, expertise, audience,
	goal, tone, format, keywords, brand_voice, status, created_at, updated_at`

func (r *SQLiteCalendarRepo) ListByUser(ctx context.Context, userID string) ([]*domain.CalendarEntry, error) {
	return r.query(ctx, `SELECT `+entryColumns+` FROM calendar_entries
		WHERE user_id = ? ORDER BY date`, userID)
}

// ListRange returns entries with from <= date < to.
func (r *SQLiteCalendarRepo) ListRange(ctx context.Context, userID string, from, to time.Time) ([]*domain.CalendarEntry, error) {
	return r.query(ctx, `SELECT `+entryColumns+` FROM calendar_entries
		WHERE user_id = ? AND date >= ? AND date < ? ORDER BY date`,
		userID, from.Format(domain.DateLayout), to.Format(domain.DateLayout))
}

// Search matches subject, topic and agenda case-insensitively.
func (r *SQLiteCalendarRepo) Search(ctx context.Context, userID, q string) ([]*domain.CalendarEntry, error) {
	like := "%" + strings.ToLower(strings.TrimSpace(q)) + "%"
	return r.query(ctx, `SELECT `+entryColumns+` FROM calendar_entries
		WHERE user_id = ? AND (LOWER(subject) LIKE ? OR LOWER(topic) LIKE ? OR LOWER(detailed_agenda) LIKE ?)
		ORDER BY date`, userID, like, like, like)
}

func (r *SQLiteCalendarRepo) GetByID(ctx context.Context, userID, id string) (*domain.CalendarEntry, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+entryColumns+` FROM calendar_entries
		WHERE user_id = ? AND id = ?`, userID, id)
	return scanEntry(row)
}

func (r *SQLiteCalendarRepo) GetByDate(ctx context.Context, userID string, day time.Time) (*domain.CalendarEntry, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+entryColumns+` FROM calendar_entries
		WHERE user_id = ? AND date = ?`, userID, day.Format(domain.DateLayout))
	return scanEntry(row)
}

// Upsert inserts the entry or replaces the one with the same id. A different
// entry already occupying the day, or an id owned by another user, yields
// ErrConflict.
func (r *SQLiteCalendarRepo) Upsert(ctx context.Context, e *domain.CalendarEntry) error {
	now := nowUTC()
	created := now
	if !e.CreatedAt.IsZero() {
		created = e.CreatedAt.UTC().Format(time.RFC3339)
	}
	query := `INSERT INTO calendar_entries (` + entryColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			date = excluded.date, subject = excluded.subject, topic = excluded.topic,
			detailed_agenda = excluded.detailed_agenda, expertise = excluded.expertise,
			audience = excluded.audience, goal = excluded.goal, tone = excluded.tone,
			format = excluded.format, keywords = excluded.keywords,
			brand_voice = excluded.brand_voice, status = excluded.status,
			updated_at = excluded.updated_at
		WHERE calendar_entries.user_id = excluded.user_id`
	res, err := r.db.ExecContext(ctx, query,
		e.ID,
		e.UserID,
		e.Date.Format(domain.DateLayout),
		e.Subject,
		e.Topic,
		e.DetailedAgenda,
		e.Expertise,
		e.Audience,
		e.Goal,
		e.Tone,
		e.Format,
		e.Keywords,
		e.BrandVoice,
		string(e.Status),
		created,
		now,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("saving entry for %s: %w", e.DateKey(), ErrConflict)
		}
		return fmt.Errorf("upserting calendar entry: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("entry %s belongs to another user: %w", e.ID, ErrConflict)
	}
	return nil
}

func (r *SQLiteCalendarRepo) UpdateStatus(ctx context.Context, userID, id string, status domain.ContentStatus) error {
	res, err := r.db.ExecContext(ctx, `UPDATE calendar_entries SET status = ?, updated_at = ?
		WHERE user_id = ? AND id = ?`, string(status), nowUTC(), userID, id)
	if err != nil {
		return fmt.Errorf("updating entry status: %w", err)
	}
	return expectOneRow(res, "calendar entry")
}

func (r *SQLiteCalendarRepo) Delete(ctx context.Context, userID, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM calendar_entries WHERE user_id = ? AND id = ?`, userID, id)
	if err != nil {
		return fmt.Errorf("deleting calendar entry: %w", err)
	}
	return expectOneRow(res, "calendar entry")
}

func (r *SQLiteCalendarRepo) DeleteAllForUser(ctx context.Context, userID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM calendar_entries WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("clearing calendar: %w", err)
	}
	return nil
}

func (r *SQLiteCalendarRepo) query(ctx context.Context, q string, args ...any) ([]*domain.CalendarEntry, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("listing calendar entries: %w", err)
	}
	defer rows.Close()

	var entries []*domain.CalendarEntry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating calendar entries: %w", err)
	}
	return entries, nil
}

func scanEntry(row rowScanner) (*domain.CalendarEntry, error) {
	var e domain.CalendarEntry
	var date, status, createdAt, updatedAt string
	err := row.Scan(
		&e.ID, &e.UserID, &date,
		&e.Subject, &e.Topic, &e.DetailedAgenda, &e.Expertise, &e.Audience,
		&e.Goal, &e.Tone, &e.Format, &e.Keywords, &e.BrandVoice,
		&status, &createdAt, &updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("calendar entry: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning calendar entry: %w", err)
	}
	d, err := time.ParseInLocation(domain.DateLayout, date, time.UTC)
	if err != nil {
		return nil, fmt.Errorf("parsing date: %w", err)
	}
	e.Date = d
	e.Status = domain.NormalizeContentStatus(status)
	e.CreatedAt = parseTimeOrZero(createdAt)
	e.UpdatedAt = parseTimeOrZero(updatedAt)
	return &e, nil
}
