/*
Package sqlite provides a SQLite-backed implementation of the storage
interfaces.

PURPOSE:
  Implements timesheet.EntryStore and timesheet.ConfirmationStore using
  SQLite. In production the same patterns apply to PostgreSQL - only minor
  SQL dialect differences.

KEY TABLES:
  time_entries:       One row per logged work segment
  week_confirmations: One row per (user, ISO week Monday)

UPSERT SEMANTICS:
  week_confirmations is written with INSERT ... ON CONFLICT DO UPDATE,
  which is the atomic last-writer-wins upsert the engine's concurrency
  contract expects. A worker confirming and an admin unlocking the same
  week race to the same row; whichever commit lands second wins.

INDEXES:
  - idx_entries_user_date: range queries behind week views and reports

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) so readers don't block
  the single writer.

USAGE:
  store, err := sqlite.New("./data/timesheets.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

MIGRATION:
  Schema is auto-migrated on New(). For production, use a proper migration
  tool (golang-migrate, goose) with versioned migrations.

SEE ALSO:
  - timesheet/store.go: Interface definitions
  - timesheet/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
	"github.com/warp/timesheet-engine/timesheet"
)

// Store implements the persistence interfaces using SQLite.
type Store struct {
	db *sql.DB
	mu sync.Mutex
}

// Interface checks.
var _ timesheet.EntryStore = (*Store)(nil)
var _ timesheet.ConfirmationStore = (*Store)(nil)

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS time_entries (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		date TEXT NOT NULL,
		work_type INTEGER NOT NULL,
		project_id TEXT NOT NULL DEFAULT '',
		project_name TEXT NOT NULL DEFAULT '',
		start_time TEXT,
		end_time TEXT,
		hours TEXT NOT NULL,
		lunch_deducted INTEGER NOT NULL DEFAULT 0,
		notes TEXT NOT NULL DEFAULT '',
		updated_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_entries_user_date
		ON time_entries(user_id, date);
	CREATE INDEX IF NOT EXISTS idx_entries_date
		ON time_entries(date);

	CREATE TABLE IF NOT EXISTS week_confirmations (
		user_id TEXT NOT NULL,
		week_start TEXT NOT NULL,
		confirmed INTEGER NOT NULL DEFAULT 0,
		admin_approved INTEGER NOT NULL DEFAULT 0,
		admin_reviewed INTEGER NOT NULL DEFAULT 0,
		updated_at TEXT NOT NULL,
		PRIMARY KEY (user_id, week_start)
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// ENTRY STORE
// =============================================================================

const entryColumns = `id, user_id, date, work_type, project_id, project_name,
	start_time, end_time, hours, lunch_deducted, notes`

func (s *Store) LoadEntries(ctx context.Context, userID timesheet.UserID, period timesheet.Period) ([]timesheet.TimeEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+entryColumns+`
		FROM time_entries
		WHERE user_id = ? AND date >= ? AND date <= ?
		ORDER BY date, start_time IS NULL, start_time, id`,
		string(userID), period.From.String(), period.To.String())
	if err != nil {
		return nil, fmt.Errorf("failed to load entries: %w", err)
	}
	defer rows.Close()
	return scanEntries(rows)
}

func (s *Store) LoadAllEntries(ctx context.Context, period timesheet.Period) ([]timesheet.TimeEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+entryColumns+`
		FROM time_entries
		WHERE date >= ? AND date <= ?
		ORDER BY user_id, date, start_time IS NULL, start_time, id`,
		period.From.String(), period.To.String())
	if err != nil {
		return nil, fmt.Errorf("failed to load entries: %w", err)
	}
	defer rows.Close()
	return scanEntries(rows)
}

func (s *Store) GetEntry(ctx context.Context, id timesheet.EntryID) (*timesheet.TimeEntry, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+entryColumns+`
		FROM time_entries WHERE id = ?`, string(id))

	entry, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("entry %s: %w", id, timesheet.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get entry: %w", err)
	}
	return entry, nil
}

func (s *Store) SaveEntries(ctx context.Context, entries []timesheet.TimeEntry) ([]timesheet.TimeEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	out, err := insertEntries(ctx, tx, entries)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit entries: %w", err)
	}
	return out, nil
}

// ReplaceDay swaps a user's entries on one date inside a single
// transaction: the delete and the inserts commit together, so a failed
// write never leaves the day half-cleared.
func (s *Store) ReplaceDay(ctx context.Context, userID timesheet.UserID, date timesheet.Date, entries []timesheet.TimeEntry) ([]timesheet.TimeEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		DELETE FROM time_entries WHERE user_id = ? AND date = ?`,
		string(userID), date.String())
	if err != nil {
		return nil, fmt.Errorf("failed to clear day: %w", err)
	}

	out, err := insertEntries(ctx, tx, entries)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit entries: %w", err)
	}
	return out, nil
}

// insertEntries upserts entries within tx, assigning IDs to new ones.
func insertEntries(ctx context.Context, tx *sql.Tx, entries []timesheet.TimeEntry) ([]timesheet.TimeEntry, error) {
	now := time.Now().UTC().Format(time.RFC3339)
	out := make([]timesheet.TimeEntry, len(entries))
	for i := range entries {
		e := entries[i].Clone()
		if e.ID == "" {
			e.ID = timesheet.EntryID(fmt.Sprintf("entry-%d-%d", time.Now().UnixNano(), i))
		}

		var start, end interface{}
		if e.Start != nil {
			start = e.Start.String()
		}
		if e.End != nil {
			end = e.End.String()
		}

		_, err := tx.ExecContext(ctx, `
			INSERT INTO time_entries (id, user_id, date, work_type, project_id,
				project_name, start_time, end_time, hours, lunch_deducted, notes, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				user_id = excluded.user_id,
				date = excluded.date,
				work_type = excluded.work_type,
				project_id = excluded.project_id,
				project_name = excluded.project_name,
				start_time = excluded.start_time,
				end_time = excluded.end_time,
				hours = excluded.hours,
				lunch_deducted = excluded.lunch_deducted,
				notes = excluded.notes,
				updated_at = excluded.updated_at`,
			string(e.ID), string(e.UserID), e.Date.String(), int(e.WorkType),
			string(e.ProjectID), e.ProjectName, start, end,
			e.Hours.String(), boolToInt(e.LunchDeducted), e.Notes, now)
		if err != nil {
			return nil, fmt.Errorf("failed to save entry: %w", err)
		}
		out[i] = e
	}
	return out, nil
}

func (s *Store) DeleteEntry(ctx context.Context, id timesheet.EntryID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM time_entries WHERE id = ?`, string(id))
	if err != nil {
		return fmt.Errorf("failed to delete entry: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("entry %s: %w", id, timesheet.ErrNotFound)
	}
	return nil
}

// =============================================================================
// CONFIRMATION STORE
// =============================================================================

func (s *Store) LoadConfirmation(ctx context.Context, userID timesheet.UserID, weekStart timesheet.Date) (*timesheet.WeekConfirmation, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT user_id, week_start, confirmed, admin_approved, admin_reviewed
		FROM week_confirmations
		WHERE user_id = ? AND week_start = ?`,
		string(userID), weekStart.String())

	var (
		uid, ws                       string
		confirmed, approved, reviewed int
	)
	err := row.Scan(&uid, &ws, &confirmed, &approved, &reviewed)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load confirmation: %w", err)
	}

	start, err := timesheet.ParseDate(ws)
	if err != nil {
		return nil, fmt.Errorf("corrupt week_start %q: %w", ws, err)
	}
	return &timesheet.WeekConfirmation{
		UserID:        timesheet.UserID(uid),
		WeekStart:     start,
		Confirmed:     confirmed != 0,
		AdminApproved: approved != 0,
		AdminReviewed: reviewed != 0,
	}, nil
}

// UpsertConfirmation writes the row atomically. Concurrent upserts on the
// same (user, week) key resolve last-writer-wins, per the store contract.
func (s *Store) UpsertConfirmation(ctx context.Context, wc *timesheet.WeekConfirmation) error {
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO week_confirmations (user_id, week_start, confirmed,
			admin_approved, admin_reviewed, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id, week_start) DO UPDATE SET
			confirmed = excluded.confirmed,
			admin_approved = excluded.admin_approved,
			admin_reviewed = excluded.admin_reviewed,
			updated_at = excluded.updated_at`,
		string(wc.UserID), wc.WeekStart.String(),
		boolToInt(wc.Confirmed), boolToInt(wc.AdminApproved), boolToInt(wc.AdminReviewed), now)
	if err != nil {
		return fmt.Errorf("failed to upsert confirmation: %w", err)
	}
	return nil
}

// =============================================================================
// ROW SCANNING
// =============================================================================

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanEntry(row rowScanner) (*timesheet.TimeEntry, error) {
	var (
		id, userID, date, projectID, projectName, notes string
		workType, lunch                                 int
		startStr, endStr                                sql.NullString
		hoursStr                                        string
	)
	err := row.Scan(&id, &userID, &date, &workType, &projectID, &projectName,
		&startStr, &endStr, &hoursStr, &lunch, &notes)
	if err != nil {
		return nil, err
	}

	d, err := timesheet.ParseDate(date)
	if err != nil {
		return nil, fmt.Errorf("corrupt date %q: %w", date, err)
	}
	hours, err := decimal.NewFromString(hoursStr)
	if err != nil {
		return nil, fmt.Errorf("corrupt hours %q: %w", hoursStr, err)
	}

	entry := &timesheet.TimeEntry{
		ID:            timesheet.EntryID(id),
		UserID:        timesheet.UserID(userID),
		Date:          d,
		WorkType:      timesheet.WorkType(workType),
		ProjectID:     timesheet.ProjectID(projectID),
		ProjectName:   projectName,
		Hours:         hours,
		LunchDeducted: lunch != 0,
		Notes:         notes,
	}
	if startStr.Valid {
		ct, err := timesheet.ParseClockTime(startStr.String)
		if err != nil {
			return nil, fmt.Errorf("corrupt start_time %q: %w", startStr.String, err)
		}
		entry.Start = &ct
	}
	if endStr.Valid {
		ct, err := timesheet.ParseClockTime(endStr.String)
		if err != nil {
			return nil, fmt.Errorf("corrupt end_time %q: %w", endStr.String, err)
		}
		entry.End = &ct
	}
	return entry, nil
}

func scanEntries(rows *sql.Rows) ([]timesheet.TimeEntry, error) {
	var out []timesheet.TimeEntry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *entry)
	}
	return out, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
