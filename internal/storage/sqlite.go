package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/yourname/habittracker/internal"

	_ "modernc.org/sqlite"
)

// SQLiteStorage is the embedded backend: zero-infrastructure deployments and
// the test suite run on it. Schema is created on open.
type SQLiteStorage struct {
	db     *sql.DB
	logger internal.Logger
}

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS users (
	id       TEXT PRIMARY KEY,
	email    TEXT NOT NULL,
	name     TEXT NOT NULL,
	timezone TEXT NOT NULL DEFAULT 'UTC',
	token    TEXT NOT NULL UNIQUE
);
CREATE TABLE IF NOT EXISTS habits (
	id               TEXT PRIMARY KEY,
	user_id          TEXT NOT NULL REFERENCES users(id),
	name             TEXT NOT NULL,
	description      TEXT NOT NULL DEFAULT '',
	frequency_type   TEXT NOT NULL,
	frequency_config TEXT NOT NULL DEFAULT '{}',
	reminder_enabled INTEGER NOT NULL DEFAULT 0,
	reminder_time    TEXT NOT NULL DEFAULT '',
	color            TEXT NOT NULL DEFAULT '',
	icon             TEXT NOT NULL DEFAULT '',
	archived         INTEGER NOT NULL DEFAULT 0,
	created_at       TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS completions (
	id             TEXT PRIMARY KEY,
	habit_id       TEXT NOT NULL REFERENCES habits(id),
	completed_date TEXT NOT NULL,
	notes          TEXT NOT NULL DEFAULT '',
	created_at     TEXT NOT NULL,
	UNIQUE (habit_id, completed_date)
);
CREATE TABLE IF NOT EXISTS streaks (
	habit_id            TEXT PRIMARY KEY REFERENCES habits(id),
	current_streak      INTEGER NOT NULL DEFAULT 0,
	longest_streak      INTEGER NOT NULL DEFAULT 0,
	last_completed_date TEXT
);
`

func NewSQLiteStorage(path string, logger internal.Logger) (*SQLiteStorage, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		logger.Errorf("failed to open sqlite database: %v", err)
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		logger.Errorf("failed to create sqlite schema: %v", err)
		return nil, fmt.Errorf("failed to create sqlite schema: %w", err)
	}
	return &SQLiteStorage{db: db, logger: logger}, nil
}

func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// --- HabitRepository ---

func (s *SQLiteStorage) CreateHabit(ctx context.Context, habit *internal.Habit) error {
	ftype, fconfig, err := encodePolicy(habit.Frequency)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO habits
		(id, user_id, name, description, frequency_type, frequency_config,
		 reminder_enabled, reminder_time, color, icon, archived, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		habit.ID, habit.UserID, habit.Name, habit.Description, ftype, string(fconfig),
		boolToInt(habit.ReminderEnabled), habit.ReminderTime, habit.Color, habit.Icon,
		boolToInt(habit.Archived), habit.CreatedAt.Format(time.RFC3339))
	if err != nil {
		s.logger.Errorf("failed to insert habit: %v", err)
		return err
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSQLiteHabit(row rowScanner) (*internal.Habit, error) {
	var h internal.Habit
	var ftype, fconfig, createdAt string
	var reminderEnabled, archived int64
	err := row.Scan(&h.ID, &h.UserID, &h.Name, &h.Description, &ftype, &fconfig,
		&reminderEnabled, &h.ReminderTime, &h.Color, &h.Icon, &archived, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, internal.ErrHabitNotFound
	}
	if err != nil {
		return nil, err
	}
	h.Frequency, err = decodePolicy(ftype, []byte(fconfig))
	if err != nil {
		return nil, err
	}
	h.ReminderEnabled = reminderEnabled != 0
	h.Archived = archived != 0
	h.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return &h, nil
}

const sqliteHabitColumns = `id, user_id, name, description, frequency_type, frequency_config,
	reminder_enabled, reminder_time, color, icon, archived, created_at`

func (s *SQLiteStorage) GetHabit(ctx context.Context, habitID string) (*internal.Habit, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+sqliteHabitColumns+` FROM habits WHERE id = ?`, habitID)
	return scanSQLiteHabit(row)
}

func (s *SQLiteStorage) GetUserHabit(ctx context.Context, habitID, userID string) (*internal.Habit, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+sqliteHabitColumns+` FROM habits WHERE id = ? AND user_id = ?`,
		habitID, userID)
	return scanSQLiteHabit(row)
}

func (s *SQLiteStorage) listHabits(ctx context.Context, query string, args ...any) ([]internal.Habit, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		s.logger.Errorf("failed to query habits: %v", err)
		return nil, err
	}
	defer rows.Close()

	var habits []internal.Habit
	for rows.Next() {
		h, err := scanSQLiteHabit(rows)
		if err != nil {
			return nil, err
		}
		habits = append(habits, *h)
	}
	return habits, rows.Err()
}

func (s *SQLiteStorage) ListUserHabits(ctx context.Context, userID string) ([]internal.Habit, error) {
	return s.listHabits(ctx, `SELECT `+sqliteHabitColumns+` FROM habits
		WHERE user_id = ? AND archived = 0 ORDER BY created_at DESC`, userID)
}

func (s *SQLiteStorage) ListActiveHabits(ctx context.Context) ([]internal.Habit, error) {
	return s.listHabits(ctx, `SELECT `+sqliteHabitColumns+` FROM habits
		WHERE archived = 0 ORDER BY created_at DESC`)
}

func (s *SQLiteStorage) UpdateHabit(ctx context.Context, habit *internal.Habit) error {
	ftype, fconfig, err := encodePolicy(habit.Frequency)
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, `UPDATE habits SET name = ?, description = ?,
		frequency_type = ?, frequency_config = ?, reminder_enabled = ?,
		reminder_time = ?, color = ?, icon = ? WHERE id = ?`,
		habit.Name, habit.Description, ftype, string(fconfig),
		boolToInt(habit.ReminderEnabled), habit.ReminderTime, habit.Color, habit.Icon, habit.ID)
	if err != nil {
		s.logger.Errorf("failed to update habit: %v", err)
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return internal.ErrHabitNotFound
	}
	return nil
}

func (s *SQLiteStorage) ArchiveHabit(ctx context.Context, habitID string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE habits SET archived = 1 WHERE id = ?`, habitID)
	if err != nil {
		s.logger.Errorf("failed to archive habit: %v", err)
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return internal.ErrHabitNotFound
	}
	return nil
}

func (s *SQLiteStorage) CountActiveHabits(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM habits WHERE archived = 0`).Scan(&n)
	return n, err
}

// --- CompletionRepository ---

func (s *SQLiteStorage) CreateCompletion(ctx context.Context, c *internal.CompletionRecord) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO completions (id, habit_id, completed_date, notes, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		c.ID, c.HabitID, c.CompletedDate, c.Notes, c.CreatedAt.Format(time.RFC3339))
	if isUniqueViolation(err) {
		return internal.ErrDuplicateCompletion
	}
	if err != nil {
		s.logger.Errorf("failed to insert completion: %v", err)
		return err
	}
	return nil
}

func (s *SQLiteStorage) DeleteCompletion(ctx context.Context, habitID, completedDate string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM completions WHERE habit_id = ? AND completed_date = ?`,
		habitID, completedDate)
	if err != nil {
		s.logger.Errorf("failed to delete completion: %v", err)
	}
	return err
}

func (s *SQLiteStorage) HasCompletion(ctx context.Context, habitID, completedDate string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM completions
		WHERE habit_id = ? AND completed_date = ?`, habitID, completedDate).Scan(&n)
	return n > 0, err
}

func (s *SQLiteStorage) ListCompletionDates(ctx context.Context, habitID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT completed_date FROM completions
		WHERE habit_id = ? ORDER BY completed_date DESC`, habitID)
	if err != nil {
		s.logger.Errorf("failed to query completion dates: %v", err)
		return nil, err
	}
	defer rows.Close()

	var dates []string
	for rows.Next() {
		var d string
		if err := rows.Scan(&d); err != nil {
			return nil, err
		}
		dates = append(dates, d)
	}
	return dates, rows.Err()
}

func (s *SQLiteStorage) ListCompletions(ctx context.Context, habitID string, limit int) ([]internal.CompletionRecord, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, habit_id, completed_date, notes, created_at
		FROM completions WHERE habit_id = ? ORDER BY completed_date DESC LIMIT ?`, habitID, limit)
	if err != nil {
		s.logger.Errorf("failed to query completions: %v", err)
		return nil, err
	}
	defer rows.Close()

	var recs []internal.CompletionRecord
	for rows.Next() {
		var c internal.CompletionRecord
		var createdAt string
		if err := rows.Scan(&c.ID, &c.HabitID, &c.CompletedDate, &c.Notes, &createdAt); err != nil {
			return nil, err
		}
		c.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		recs = append(recs, c)
	}
	return recs, rows.Err()
}

func (s *SQLiteStorage) CountCompletions(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM completions`).Scan(&n)
	return n, err
}

// --- StreakRepository ---

func (s *SQLiteStorage) UpsertStreakSummary(ctx context.Context, sum *internal.StreakSummary) error {
	var last any
	if sum.LastCompletedDate != nil {
		last = *sum.LastCompletedDate
	}
	_, err := s.db.ExecContext(ctx, `INSERT INTO streaks (habit_id, current_streak, longest_streak, last_completed_date)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (habit_id) DO UPDATE SET
			current_streak = excluded.current_streak,
			longest_streak = excluded.longest_streak,
			last_completed_date = excluded.last_completed_date`,
		sum.HabitID, sum.CurrentStreak, sum.LongestStreak, last)
	if err != nil {
		s.logger.Errorf("failed to upsert streak summary: %v", err)
	}
	return err
}

func (s *SQLiteStorage) GetStreakSummary(ctx context.Context, habitID string) (*internal.StreakSummary, error) {
	var sum internal.StreakSummary
	var last sql.NullString
	err := s.db.QueryRowContext(ctx, `SELECT habit_id, current_streak, longest_streak, last_completed_date
		FROM streaks WHERE habit_id = ?`, habitID).
		Scan(&sum.HabitID, &sum.CurrentStreak, &sum.LongestStreak, &last)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if last.Valid {
		sum.LastCompletedDate = &last.String
	}
	return &sum, nil
}

// --- UserRepository ---

func (s *SQLiteStorage) CreateUser(ctx context.Context, user *internal.User) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO users (id, email, name, timezone, token)
		VALUES (?, ?, ?, ?, ?)`,
		user.ID, user.Email, user.Name, user.Timezone, user.Token)
	if err != nil {
		s.logger.Errorf("failed to insert user: %v", err)
	}
	return err
}

func (s *SQLiteStorage) GetUser(ctx context.Context, userID string) (*internal.User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id, email, name, timezone, token FROM users WHERE id = ?`, userID)
	return scanSQLiteUser(row)
}

func (s *SQLiteStorage) GetUserByToken(ctx context.Context, token string) (*internal.User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id, email, name, timezone, token FROM users WHERE token = ?`, token)
	return scanSQLiteUser(row)
}

func scanSQLiteUser(row *sql.Row) (*internal.User, error) {
	var u internal.User
	err := row.Scan(&u.ID, &u.Email, &u.Name, &u.Timezone, &u.Token)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, internal.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *SQLiteStorage) CountUsers(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n)
	return n, err
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// --- Compile-time assertions ---
var _ HabitRepository = (*SQLiteStorage)(nil)
var _ CompletionRepository = (*SQLiteStorage)(nil)
var _ StreakRepository = (*SQLiteStorage)(nil)
var _ UserRepository = (*SQLiteStorage)(nil)
