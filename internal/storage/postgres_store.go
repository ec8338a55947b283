package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"github.com/julianstephens/habitbot/internal/migration"
	"github.com/julianstephens/habitbot/internal/models"
	"github.com/julianstephens/habitbot/migrations"
)

// PostgresStore implements Provider against a shared PostgreSQL database.
// The single-writer assumption still holds: only one habitbot process may
// serve a given database.
type PostgresStore struct {
	connStr string
	db      *sql.DB
}

func NewPostgresStore(connStr string) *PostgresStore {
	return &PostgresStore{
		connStr: connStr,
	}
}

// ErrEmbeddedCredentials is returned for connection strings carrying an
// inline password.
var ErrEmbeddedCredentials = errors.New("connection string must not contain a password")

// HasEmbeddedCredentials reports whether a connection string carries a
// password inline. Credentials belong in the environment or .pgpass, not in
// command lines.
func HasEmbeddedCredentials(connStr string) bool {
	if u, err := url.Parse(connStr); err == nil && u.User != nil {
		if _, set := u.User.Password(); set {
			return true
		}
	}

	// DSN format: space-separated key=value pairs
	for _, part := range strings.Fields(connStr) {
		kv := strings.SplitN(part, "=", 2)
		if len(kv) == 2 && strings.EqualFold(kv[0], "password") {
			return true
		}
	}
	return false
}

func (s *PostgresStore) Init() error {
	db, err := sql.Open("postgres", s.connStr)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	s.db = db

	subFS, err := fs.Sub(migrations.FS, "postgres")
	if err != nil {
		return fmt.Errorf("failed to access postgres migrations: %w", err)
	}

	runner := migration.NewRunner(s.db, subFS)
	if _, err := runner.ApplyMigrations(func(msg string) {
		fmt.Println(msg)
	}); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

func (s *PostgresStore) Load() error {
	if s.db != nil {
		return nil
	}

	db, err := sql.Open("postgres", s.connStr)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	s.db = db

	subFS, err := fs.Sub(migrations.FS, "postgres")
	if err != nil {
		return fmt.Errorf("failed to access postgres migrations: %w", err)
	}
	return migration.NewRunner(s.db, subFS).ValidateVersion()
}

func (s *PostgresStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *PostgresStore) GetConfigPath() string {
	return s.connStr
}

// GetDB returns the underlying database connection.
func (s *PostgresStore) GetDB() *sql.DB {
	return s.db
}

// Users

func (s *PostgresStore) UpsertUser(u models.User) (models.User, error) {
	_, err := s.db.Exec(`
		INSERT INTO users (id, chat_id, username, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (chat_id) DO UPDATE SET username = EXCLUDED.username`,
		u.ID, u.ChatID, u.Username, u.CreatedAt.Format(timeLayout))
	if err != nil {
		return models.User{}, err
	}

	return s.GetUserByChatID(u.ChatID)
}

func (s *PostgresStore) GetUserByChatID(chatID int64) (models.User, error) {
	row := s.db.QueryRow(`
		SELECT id, chat_id, username, created_at
		FROM users WHERE chat_id = $1`, chatID)
	return scanUser(row)
}

// Habits

func (s *PostgresStore) AddHabit(habit models.Habit) error {
	_, err := s.db.Exec(`
		INSERT INTO habits (id, owner_id, name, created_at)
		VALUES ($1, $2, $3, $4)`,
		habit.ID, habit.OwnerID, habit.Name, habit.CreatedAt.Format(timeLayout))
	return err
}

func (s *PostgresStore) GetHabit(id string) (models.Habit, error) {
	row := s.db.QueryRow(`
		SELECT id, owner_id, name, created_at
		FROM habits WHERE id = $1`, id)
	return scanHabit(row)
}

func (s *PostgresStore) GetHabitByName(ownerID, name string) (models.Habit, error) {
	row := s.db.QueryRow(`
		SELECT id, owner_id, name, created_at
		FROM habits WHERE owner_id = $1 AND LOWER(name) = LOWER($2)`,
		ownerID, name)
	return scanHabit(row)
}

func (s *PostgresStore) GetAllHabits(ownerID string) ([]models.Habit, error) {
	rows, err := s.db.Query(`
		SELECT id, owner_id, name, created_at
		FROM habits WHERE owner_id = $1
		ORDER BY created_at, id`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var habits []models.Habit
	for rows.Next() {
		var h models.Habit
		var createdAt string

		if err := rows.Scan(&h.ID, &h.OwnerID, &h.Name, &createdAt); err != nil {
			return nil, err
		}

		h.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
		if err != nil {
			return nil, fmt.Errorf("failed to parse created_at for habit %s: %w", h.ID, err)
		}

		habits = append(habits, h)
	}

	return habits, rows.Err()
}

func (s *PostgresStore) DeleteHabit(id string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}

	if _, err := tx.Exec("DELETE FROM completions WHERE habit_id = $1", id); err != nil {
		_ = tx.Rollback()
		return err
	}

	result, err := tx.Exec("DELETE FROM habits WHERE id = $1", id)
	if err != nil {
		_ = tx.Rollback()
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		_ = tx.Rollback()
		return err
	}
	if rows == 0 {
		_ = tx.Rollback()
		return ErrNotFound
	}

	return tx.Commit()
}

// Completions

func (s *PostgresStore) AddCompletion(c models.Completion) (bool, error) {
	result, err := s.db.Exec(`
		INSERT INTO completions (habit_id, day, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (habit_id, day) DO NOTHING`,
		c.HabitID, c.Day, c.CreatedAt.Format(timeLayout))
	if err != nil {
		return false, err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

func (s *PostgresStore) HasCompletion(habitID, day string) (bool, error) {
	var count int
	row := s.db.QueryRow(`
		SELECT count(*) FROM completions WHERE habit_id = $1 AND day = $2`,
		habitID, day)
	if err := row.Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *PostgresStore) GetCompletions(habitID, startDay, endDay string) ([]models.Completion, error) {
	rows, err := s.db.Query(`
		SELECT habit_id, day, created_at
		FROM completions
		WHERE habit_id = $1 AND day >= $2 AND day <= $3
		ORDER BY day`, habitID, startDay, endDay)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var completions []models.Completion
	for rows.Next() {
		var c models.Completion
		var createdAt string

		if err := rows.Scan(&c.HabitID, &c.Day, &createdAt); err != nil {
			return nil, err
		}

		c.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
		if err != nil {
			return nil, fmt.Errorf("failed to parse created_at for completion on %s: %w", c.Day, err)
		}

		completions = append(completions, c)
	}

	return completions, rows.Err()
}

var _ Provider = (*PostgresStore)(nil)
var _ Provider = (*SQLiteStore)(nil)
