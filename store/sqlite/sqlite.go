/*
Package sqlite provides the SQLite-backed implementation of the
storage interfaces.

PURPOSE:
  Implements persistence for punch events, users and salary profiles,
  holidays, and payroll records using SQLite. The same patterns apply
  to PostgreSQL - only minor SQL dialect differences.

INTERFACES IMPLEMENTED:
  attendance.Store:        Append-only punch events
  payroll.UserDirectory:   User and salary profile snapshots
  payroll.HolidayCalendar: Holiday lookups by window
  payroll.RecordStore:     Insert-only payroll records

APPEND-ONLY ENFORCEMENT:
  - No UPDATE or DELETE statements on attendance_events
  - No UPDATE or DELETE statements on payroll_records
  - payroll_records has NO uniqueness on (user_id, month): repeated
    computations for the same period accumulate by design

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) so readers do not
  block the single writer.

USAGE:
  store, err := sqlite.New("./data/payroll.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

MIGRATION:
  Schema is auto-migrated on New(). For production, use a proper
  migration tool (golang-migrate, goose) with versioned migrations.

SEE ALSO:
  - attendance/types.go: Store interface definition
  - payroll/types.go: Port definitions
  - store/memory: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/kwan/payroll-engine/attendance"
	"github.com/kwan/payroll-engine/payroll"
)

// tsLayout is fixed-width (unlike RFC3339Nano, which drops trailing
// zeros) so lexicographic ORDER BY on the column matches time order.
const tsLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Store implements all storage interfaces using SQLite.
type Store struct {
	db *sql.DB
}

// Compile-time interface checks.
var (
	_ attendance.Store        = (*Store)(nil)
	_ payroll.UserDirectory   = (*Store)(nil)
	_ payroll.HolidayCalendar = (*Store)(nil)
	_ payroll.RecordStore     = (*Store)(nil)
)

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
	-- Users (salary composition lives alongside identity)
	CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		uid TEXT UNIQUE,
		email TEXT,
		name TEXT,
		role TEXT NOT NULL DEFAULT 'user',
		base_salary TEXT NOT NULL DEFAULT '0',
		yearly_bonus TEXT NOT NULL DEFAULT '0',
		client_bonus TEXT NOT NULL DEFAULT '0',
		created_at TEXT NOT NULL
	);

	-- Attendance events (append-only punch ledger)
	CREATE TABLE IF NOT EXISTS attendance_events (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		kind TEXT NOT NULL,
		timestamp TEXT NOT NULL,
		note TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_events_user_timestamp
		ON attendance_events(user_id, timestamp);
	CREATE INDEX IF NOT EXISTS idx_events_user_kind_timestamp
		ON attendance_events(user_id, kind, timestamp DESC);

	-- Holidays (reference calendar)
	CREATE TABLE IF NOT EXISTS holidays (
		id TEXT PRIMARY KEY,
		date TEXT NOT NULL,
		kind TEXT NOT NULL,
		name TEXT,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_holidays_date ON holidays(date);

	-- Payroll records (insert-only; duplicates per (user_id, month)
	-- are allowed by design)
	CREATE TABLE IF NOT EXISTS payroll_records (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		month TEXT NOT NULL,
		total_hours TEXT NOT NULL,
		overtime_hours TEXT NOT NULL,
		night_hours TEXT NOT NULL,
		holiday_hours TEXT NOT NULL,
		gross TEXT NOT NULL,
		deductions TEXT NOT NULL,
		net TEXT NOT NULL,
		sss TEXT NOT NULL,
		philhealth TEXT NOT NULL,
		pagibig TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_records_month ON payroll_records(month);
	CREATE INDEX IF NOT EXISTS idx_records_user_month
		ON payroll_records(user_id, month);
	`
	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// ATTENDANCE EVENTS
// =============================================================================

func (s *Store) AppendEvent(ctx context.Context, ev attendance.Event) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO attendance_events (id, user_id, kind, timestamp, note)
		VALUES (?, ?, ?, ?, ?)`,
		ev.ID, ev.UserID, string(ev.Kind), ev.Timestamp.UTC().Format(tsLayout), ev.Note)
	return err
}

func (s *Store) LastInOut(ctx context.Context, userID string) (*attendance.Event, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, kind, timestamp, note
		FROM attendance_events
		WHERE user_id = ? AND kind IN ('in', 'out')
		ORDER BY timestamp DESC
		LIMIT 1`, userID)

	ev, err := scanEvent(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return ev, nil
}

func (s *Store) LoadEvents(ctx context.Context, userID string, from, to time.Time) ([]attendance.Event, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, kind, timestamp, note
		FROM attendance_events
		WHERE user_id = ? AND timestamp >= ? AND timestamp < ?
		ORDER BY timestamp ASC`,
		userID, from.UTC().Format(tsLayout), to.UTC().Format(tsLayout))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []attendance.Event
	for rows.Next() {
		ev, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, *ev)
	}
	return events, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEvent(row scanner) (*attendance.Event, error) {
	var ev attendance.Event
	var kind, ts string
	var note sql.NullString
	if err := row.Scan(&ev.ID, &ev.UserID, &kind, &ts, &note); err != nil {
		return nil, err
	}
	t, err := time.Parse(tsLayout, ts)
	if err != nil {
		return nil, fmt.Errorf("corrupt event timestamp %q: %w", ts, err)
	}
	ev.Kind = attendance.Kind(kind)
	ev.Timestamp = t
	ev.Note = note.String
	return &ev, nil
}

// =============================================================================
// USERS & SALARY PROFILES
// =============================================================================

func (s *Store) SaveUser(ctx context.Context, u payroll.User) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, uid, email, name, role, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			email = excluded.email,
			name = excluded.name,
			role = excluded.role`,
		u.ID, u.UID, u.Email, u.Name, u.Role, time.Now().UTC().Format(time.RFC3339))
	return err
}

func (s *Store) GetUser(ctx context.Context, userID string) (*payroll.User, error) {
	return s.getUserWhere(ctx, "id = ?", userID)
}

func (s *Store) GetUserByUID(ctx context.Context, uid string) (*payroll.User, error) {
	return s.getUserWhere(ctx, "uid = ?", uid)
}

func (s *Store) getUserWhere(ctx context.Context, where string, arg any) (*payroll.User, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, uid, email, name, role FROM users WHERE `+where, arg)

	var u payroll.User
	var uid, email, name sql.NullString
	err := row.Scan(&u.ID, &uid, &email, &name, &u.Role)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	u.UID = uid.String
	u.Email = email.String
	u.Name = name.String
	return &u, nil
}

func (s *Store) ListUsers(ctx context.Context) ([]payroll.User, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, uid, email, name, role FROM users ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []payroll.User
	for rows.Next() {
		var u payroll.User
		var uid, email, name sql.NullString
		if err := rows.Scan(&u.ID, &uid, &email, &name, &u.Role); err != nil {
			return nil, err
		}
		u.UID = uid.String
		u.Email = email.String
		u.Name = name.String
		users = append(users, u)
	}
	return users, rows.Err()
}

func (s *Store) SetSalaryProfile(ctx context.Context, userID string, p payroll.SalaryProfile) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE users
		SET base_salary = ?, yearly_bonus = ?, client_bonus = ?
		WHERE id = ?`,
		p.BaseSalary.String(), p.YearlyBonus.String(), p.ClientBonus.String(), userID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return &payroll.UserNotFoundError{UserID: userID}
	}
	return nil
}

func (s *Store) GetSalaryProfile(ctx context.Context, userID string) (*payroll.SalaryProfile, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT base_salary, yearly_bonus, client_bonus FROM users WHERE id = ?`, userID)

	var base, yearly, client string
	err := row.Scan(&base, &yearly, &client)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	profile := payroll.SalaryProfile{}
	if profile.BaseSalary, err = decimal.NewFromString(base); err != nil {
		return nil, fmt.Errorf("corrupt base_salary %q: %w", base, err)
	}
	if profile.YearlyBonus, err = decimal.NewFromString(yearly); err != nil {
		return nil, fmt.Errorf("corrupt yearly_bonus %q: %w", yearly, err)
	}
	if profile.ClientBonus, err = decimal.NewFromString(client); err != nil {
		return nil, fmt.Errorf("corrupt client_bonus %q: %w", client, err)
	}
	return &profile, nil
}

// =============================================================================
// HOLIDAYS
// =============================================================================

func (s *Store) SaveHoliday(ctx context.Context, h payroll.Holiday) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO holidays (id, date, kind, name, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		h.ID, h.Date.Format("2006-01-02"), string(h.Kind), h.Name,
		time.Now().UTC().Format(time.RFC3339))
	return err
}

func (s *Store) Holidays(ctx context.Context, from, to time.Time) ([]payroll.Holiday, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, date, kind, name
		FROM holidays
		WHERE date >= ? AND date < ?
		ORDER BY date ASC`,
		from.Format("2006-01-02"), to.Format("2006-01-02"))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var holidays []payroll.Holiday
	for rows.Next() {
		var h payroll.Holiday
		var date string
		var name sql.NullString
		if err := rows.Scan(&h.ID, &date, &h.Kind, &name); err != nil {
			return nil, err
		}
		d, err := time.Parse("2006-01-02", date)
		if err != nil {
			return nil, fmt.Errorf("corrupt holiday date %q: %w", date, err)
		}
		h.Date = d
		h.Name = name.String
		holidays = append(holidays, h)
	}
	return holidays, rows.Err()
}

// =============================================================================
// PAYROLL RECORDS
// =============================================================================

func (s *Store) SaveRecord(ctx context.Context, rec *payroll.Record) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO payroll_records (
			id, user_id, month,
			total_hours, overtime_hours, night_hours, holiday_hours,
			gross, deductions, net, sss, philhealth, pagibig, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.UserID, rec.Month.String(),
		rec.TotalHours.String(), rec.OvertimeHours.String(),
		rec.NightHours.String(), rec.HolidayHours.String(),
		rec.Gross.String(), rec.Deductions.String(), rec.Net.String(),
		rec.SSS.String(), rec.PhilHealth.String(), rec.PagIbig.String(),
		rec.CreatedAt.Format(tsLayout))
	return err
}

func (s *Store) RecordsByMonth(ctx context.Context, month payroll.Month) ([]payroll.Record, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, month,
			total_hours, overtime_hours, night_hours, holiday_hours,
			gross, deductions, net, sss, philhealth, pagibig, created_at
		FROM payroll_records
		WHERE month = ?
		ORDER BY created_at ASC`, month.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []payroll.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}
	return records, rows.Err()
}

func scanRecord(rows *sql.Rows) (*payroll.Record, error) {
	var rec payroll.Record
	var monthStr, createdAt string
	raw := make([]string, 10)

	if err := rows.Scan(&rec.ID, &rec.UserID, &monthStr,
		&raw[0], &raw[1], &raw[2], &raw[3],
		&raw[4], &raw[5], &raw[6], &raw[7], &raw[8], &raw[9],
		&createdAt); err != nil {
		return nil, err
	}

	month, err := payroll.ParseMonth(monthStr)
	if err != nil {
		return nil, err
	}
	rec.Month = month

	dsts := []*decimal.Decimal{
		&rec.TotalHours, &rec.OvertimeHours, &rec.NightHours, &rec.HolidayHours,
		&rec.Gross, &rec.Deductions, &rec.Net,
		&rec.SSS, &rec.PhilHealth, &rec.PagIbig,
	}
	for i, dst := range dsts {
		d, err := decimal.NewFromString(raw[i])
		if err != nil {
			return nil, fmt.Errorf("corrupt decimal %q: %w", raw[i], err)
		}
		*dst = d
	}

	t, err := time.Parse(tsLayout, createdAt)
	if err != nil {
		return nil, fmt.Errorf("corrupt created_at %q: %w", createdAt, err)
	}
	rec.CreatedAt = t
	return &rec, nil
}
