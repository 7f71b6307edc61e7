package storage

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yourname/habittracker/internal"
)

// PostgresStorage implements every repository on a pgx pool. Schema is
// managed externally (see deploy/schema.sql); tables: users, habits,
// completions (unique on habit_id+completed_date), streaks.
type PostgresStorage struct {
	pool   *pgxpool.Pool
	logger internal.Logger
}

func NewPostgresStorage(dsn string, logger internal.Logger) (*PostgresStorage, error) {
	pool, err := pgxpool.New(context.Background(), dsn)
	if err != nil {
		logger.Errorf("failed to connect to postgres: %v", err)
		return nil, err
	}
	return &PostgresStorage{pool: pool, logger: logger}, nil
}

func (p *PostgresStorage) Close() error {
	p.pool.Close()
	return nil
}

// --- HabitRepository ---

const habitColumns = `id, user_id, name, description, frequency_type, frequency_config,
	reminder_enabled, reminder_time, color, icon, archived, created_at`

func (p *PostgresStorage) CreateHabit(ctx context.Context, habit *internal.Habit) error {
	ftype, fconfig, err := encodePolicy(habit.Frequency)
	if err != nil {
		return err
	}
	_, err = p.pool.Exec(ctx, `INSERT INTO habits (`+habitColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		habit.ID, habit.UserID, habit.Name, habit.Description, ftype, fconfig,
		habit.ReminderEnabled, habit.ReminderTime, habit.Color, habit.Icon,
		habit.Archived, habit.CreatedAt)
	if err != nil {
		p.logger.Errorf("failed to insert habit: %v", err)
		return err
	}
	return nil
}

func (p *PostgresStorage) scanHabit(row pgx.Row) (*internal.Habit, error) {
	var h internal.Habit
	var ftype string
	var fconfig []byte
	err := row.Scan(&h.ID, &h.UserID, &h.Name, &h.Description, &ftype, &fconfig,
		&h.ReminderEnabled, &h.ReminderTime, &h.Color, &h.Icon, &h.Archived, &h.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, internal.ErrHabitNotFound
	}
	if err != nil {
		return nil, err
	}
	h.Frequency, err = decodePolicy(ftype, fconfig)
	if err != nil {
		return nil, err
	}
	return &h, nil
}

func (p *PostgresStorage) GetHabit(ctx context.Context, habitID string) (*internal.Habit, error) {
	row := p.pool.QueryRow(ctx, `SELECT `+habitColumns+` FROM habits WHERE id = $1`, habitID)
	return p.scanHabit(row)
}

func (p *PostgresStorage) GetUserHabit(ctx context.Context, habitID, userID string) (*internal.Habit, error) {
	row := p.pool.QueryRow(ctx, `SELECT `+habitColumns+` FROM habits WHERE id = $1 AND user_id = $2`,
		habitID, userID)
	return p.scanHabit(row)
}

func (p *PostgresStorage) listHabits(ctx context.Context, query string, args ...any) ([]internal.Habit, error) {
	rows, err := p.pool.Query(ctx, query, args...)
	if err != nil {
		p.logger.Errorf("failed to query habits: %v", err)
		return nil, err
	}
	defer rows.Close()

	var habits []internal.Habit
	for rows.Next() {
		h, err := p.scanHabit(rows)
		if err != nil {
			p.logger.Errorf("failed to scan habit: %v", err)
			return nil, err
		}
		habits = append(habits, *h)
	}
	return habits, rows.Err()
}

func (p *PostgresStorage) ListUserHabits(ctx context.Context, userID string) ([]internal.Habit, error) {
	return p.listHabits(ctx, `SELECT `+habitColumns+` FROM habits
		WHERE user_id = $1 AND archived = false ORDER BY created_at DESC`, userID)
}

func (p *PostgresStorage) ListActiveHabits(ctx context.Context) ([]internal.Habit, error) {
	return p.listHabits(ctx, `SELECT `+habitColumns+` FROM habits
		WHERE archived = false ORDER BY created_at DESC`)
}

func (p *PostgresStorage) UpdateHabit(ctx context.Context, habit *internal.Habit) error {
	ftype, fconfig, err := encodePolicy(habit.Frequency)
	if err != nil {
		return err
	}
	tag, err := p.pool.Exec(ctx, `UPDATE habits SET name = $2, description = $3,
		frequency_type = $4, frequency_config = $5, reminder_enabled = $6,
		reminder_time = $7, color = $8, icon = $9 WHERE id = $1`,
		habit.ID, habit.Name, habit.Description, ftype, fconfig,
		habit.ReminderEnabled, habit.ReminderTime, habit.Color, habit.Icon)
	if err != nil {
		p.logger.Errorf("failed to update habit: %v", err)
		return err
	}
	if tag.RowsAffected() == 0 {
		return internal.ErrHabitNotFound
	}
	return nil
}

func (p *PostgresStorage) ArchiveHabit(ctx context.Context, habitID string) error {
	tag, err := p.pool.Exec(ctx, `UPDATE habits SET archived = true WHERE id = $1`, habitID)
	if err != nil {
		p.logger.Errorf("failed to archive habit: %v", err)
		return err
	}
	if tag.RowsAffected() == 0 {
		return internal.ErrHabitNotFound
	}
	return nil
}

func (p *PostgresStorage) CountActiveHabits(ctx context.Context) (int, error) {
	var n int
	err := p.pool.QueryRow(ctx, `SELECT COUNT(*) FROM habits WHERE archived = false`).Scan(&n)
	return n, err
}

// --- CompletionRepository ---

func (p *PostgresStorage) CreateCompletion(ctx context.Context, c *internal.CompletionRecord) error {
	_, err := p.pool.Exec(ctx, `INSERT INTO completions (id, habit_id, completed_date, notes, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		c.ID, c.HabitID, c.CompletedDate, c.Notes, c.CreatedAt)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return internal.ErrDuplicateCompletion
	}
	if err != nil {
		p.logger.Errorf("failed to insert completion: %v", err)
		return err
	}
	return nil
}

func (p *PostgresStorage) DeleteCompletion(ctx context.Context, habitID, completedDate string) error {
	_, err := p.pool.Exec(ctx, `DELETE FROM completions WHERE habit_id = $1 AND completed_date = $2`,
		habitID, completedDate)
	if err != nil {
		p.logger.Errorf("failed to delete completion: %v", err)
	}
	return err
}

func (p *PostgresStorage) HasCompletion(ctx context.Context, habitID, completedDate string) (bool, error) {
	var exists bool
	err := p.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM completions
		WHERE habit_id = $1 AND completed_date = $2)`, habitID, completedDate).Scan(&exists)
	return exists, err
}

func (p *PostgresStorage) ListCompletionDates(ctx context.Context, habitID string) ([]string, error) {
	rows, err := p.pool.Query(ctx, `SELECT completed_date FROM completions
		WHERE habit_id = $1 ORDER BY completed_date DESC`, habitID)
	if err != nil {
		p.logger.Errorf("failed to query completion dates: %v", err)
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

func (p *PostgresStorage) ListCompletions(ctx context.Context, habitID string, limit int) ([]internal.CompletionRecord, error) {
	rows, err := p.pool.Query(ctx, `SELECT id, habit_id, completed_date, notes, created_at
		FROM completions WHERE habit_id = $1 ORDER BY completed_date DESC LIMIT $2`, habitID, limit)
	if err != nil {
		p.logger.Errorf("failed to query completions: %v", err)
		return nil, err
	}
	defer rows.Close()

	var recs []internal.CompletionRecord
	for rows.Next() {
		var c internal.CompletionRecord
		if err := rows.Scan(&c.ID, &c.HabitID, &c.CompletedDate, &c.Notes, &c.CreatedAt); err != nil {
			return nil, err
		}
		recs = append(recs, c)
	}
	return recs, rows.Err()
}

func (p *PostgresStorage) CountCompletions(ctx context.Context) (int, error) {
	var n int
	err := p.pool.QueryRow(ctx, `SELECT COUNT(*) FROM completions`).Scan(&n)
	return n, err
}

// --- StreakRepository ---

func (p *PostgresStorage) UpsertStreakSummary(ctx context.Context, s *internal.StreakSummary) error {
	_, err := p.pool.Exec(ctx, `INSERT INTO streaks (habit_id, current_streak, longest_streak, last_completed_date)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (habit_id) DO UPDATE SET
			current_streak = EXCLUDED.current_streak,
			longest_streak = EXCLUDED.longest_streak,
			last_completed_date = EXCLUDED.last_completed_date`,
		s.HabitID, s.CurrentStreak, s.LongestStreak, s.LastCompletedDate)
	if err != nil {
		p.logger.Errorf("failed to upsert streak summary: %v", err)
	}
	return err
}

func (p *PostgresStorage) GetStreakSummary(ctx context.Context, habitID string) (*internal.StreakSummary, error) {
	var s internal.StreakSummary
	err := p.pool.QueryRow(ctx, `SELECT habit_id, current_streak, longest_streak, last_completed_date
		FROM streaks WHERE habit_id = $1`, habitID).
		Scan(&s.HabitID, &s.CurrentStreak, &s.LongestStreak, &s.LastCompletedDate)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// --- UserRepository ---

func (p *PostgresStorage) CreateUser(ctx context.Context, user *internal.User) error {
	_, err := p.pool.Exec(ctx, `INSERT INTO users (id, email, name, timezone, token)
		VALUES ($1, $2, $3, $4, $5)`,
		user.ID, user.Email, user.Name, user.Timezone, user.Token)
	if err != nil {
		p.logger.Errorf("failed to insert user: %v", err)
	}
	return err
}

func (p *PostgresStorage) GetUser(ctx context.Context, userID string) (*internal.User, error) {
	row := p.pool.QueryRow(ctx, `SELECT id, email, name, timezone, token FROM users WHERE id = $1`, userID)
	return scanPgUser(row)
}

func (p *PostgresStorage) GetUserByToken(ctx context.Context, token string) (*internal.User, error) {
	row := p.pool.QueryRow(ctx, `SELECT id, email, name, timezone, token FROM users WHERE token = $1`, token)
	return scanPgUser(row)
}

func scanPgUser(row pgx.Row) (*internal.User, error) {
	var u internal.User
	err := row.Scan(&u.ID, &u.Email, &u.Name, &u.Timezone, &u.Token)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, internal.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (p *PostgresStorage) CountUsers(ctx context.Context) (int, error) {
	var n int
	err := p.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&n)
	return n, err
}

// --- Compile-time assertions ---
var _ HabitRepository = (*PostgresStorage)(nil)
var _ CompletionRepository = (*PostgresStorage)(nil)
var _ StreakRepository = (*PostgresStorage)(nil)
var _ UserRepository = (*PostgresStorage)(nil)
