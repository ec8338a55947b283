package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/julianstephens/habitbot/internal/migration"
	"github.com/julianstephens/habitbot/internal/models"
	"github.com/julianstephens/habitbot/migrations"
)

type SQLiteStore struct {
	path string
	db   *sql.DB
}

func NewSQLiteStore(path string) *SQLiteStore {
	return &SQLiteStore{
		path: path,
	}
}

func (s *SQLiteStore) Init() error {
	// Create config directory if it doesn't exist
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	s.db = db

	if err := s.runMigrations(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

func (s *SQLiteStore) Load() error {
	if s.db != nil {
		return nil
	}

	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return fmt.Errorf("storage not initialized, run 'habitbot init' first")
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	s.db = db

	return s.validateSchemaVersion()
}

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *SQLiteStore) GetConfigPath() string {
	return s.path
}

// GetDB returns the underlying database connection.
// Returns nil if the database has not been initialized or loaded.
func (s *SQLiteStore) GetDB() *sql.DB {
	return s.db
}

func (s *SQLiteStore) runMigrations() error {
	subFS, err := fs.Sub(migrations.FS, "sqlite")
	if err != nil {
		return fmt.Errorf("failed to access sqlite migrations: %w", err)
	}

	runner := migration.NewRunner(s.db, subFS)
	_, err = runner.ApplyMigrations(func(msg string) {
		fmt.Println(msg)
	})
	return err
}

func (s *SQLiteStore) validateSchemaVersion() error {
	subFS, err := fs.Sub(migrations.FS, "sqlite")
	if err != nil {
		return fmt.Errorf("failed to access sqlite migrations: %w", err)
	}

	return migration.NewRunner(s.db, subFS).ValidateVersion()
}

// Users

func (s *SQLiteStore) UpsertUser(u models.User) (models.User, error) {
	_, err := s.db.Exec(`
		INSERT INTO users (id, chat_id, username, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(chat_id) DO UPDATE SET username = excluded.username`,
		u.ID, u.ChatID, u.Username, u.CreatedAt.Format(timeLayout))
	if err != nil {
		return models.User{}, err
	}

	return s.GetUserByChatID(u.ChatID)
}

func (s *SQLiteStore) GetUserByChatID(chatID int64) (models.User, error) {
	row := s.db.QueryRow(`
		SELECT id, chat_id, username, created_at
		FROM users WHERE chat_id = ?`, chatID)
	return scanUser(row)
}

func scanUser(row *sql.Row) (models.User, error) {
	var u models.User
	var createdAt string

	err := row.Scan(&u.ID, &u.ChatID, &u.Username, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, ErrNotFound
		}
		return models.User{}, err
	}

	u.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to parse created_at: %w", err)
	}
	return u, nil
}

// Habits

func (s *SQLiteStore) AddHabit(habit models.Habit) error {
	_, err := s.db.Exec(`
		INSERT INTO habits (id, owner_id, name, created_at)
		VALUES (?, ?, ?, ?)`,
		habit.ID, habit.OwnerID, habit.Name, habit.CreatedAt.Format(timeLayout))
	return err
}

func (s *SQLiteStore) GetHabit(id string) (models.Habit, error) {
	row := s.db.QueryRow(`
		SELECT id, owner_id, name, created_at
		FROM habits WHERE id = ?`, id)
	return scanHabit(row)
}

func (s *SQLiteStore) GetHabitByName(ownerID, name string) (models.Habit, error) {
	row := s.db.QueryRow(`
		SELECT id, owner_id, name, created_at
		FROM habits WHERE owner_id = ? AND name = ? COLLATE NOCASE`,
		ownerID, name)
	return scanHabit(row)
}

func scanHabit(row *sql.Row) (models.Habit, error) {
	var h models.Habit
	var createdAt string

	err := row.Scan(&h.ID, &h.OwnerID, &h.Name, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Habit{}, ErrNotFound
		}
		return models.Habit{}, err
	}

	h.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return models.Habit{}, fmt.Errorf("failed to parse created_at: %w", err)
	}
	return h, nil
}

func (s *SQLiteStore) GetAllHabits(ownerID string) ([]models.Habit, error) {
	rows, err := s.db.Query(`
		SELECT id, owner_id, name, created_at
		FROM habits WHERE owner_id = ?
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

func (s *SQLiteStore) DeleteHabit(id string) error {
	// Delete the ledger rows and the habit in one transaction so a partial
	// failure can never orphan completions.
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}

	if _, err := tx.Exec("DELETE FROM completions WHERE habit_id = ?", id); err != nil {
		_ = tx.Rollback()
		return err
	}

	result, err := tx.Exec("DELETE FROM habits WHERE id = ?", id)
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

func (s *SQLiteStore) AddCompletion(c models.Completion) (bool, error) {
	result, err := s.db.Exec(`
		INSERT INTO completions (habit_id, day, created_at)
		VALUES (?, ?, ?)
		ON CONFLICT(habit_id, day) DO NOTHING`,
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

func (s *SQLiteStore) HasCompletion(habitID, day string) (bool, error) {
	var count int
	row := s.db.QueryRow(`
		SELECT count(*) FROM completions WHERE habit_id = ? AND day = ?`,
		habitID, day)
	if err := row.Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *SQLiteStore) GetCompletions(habitID, startDay, endDay string) ([]models.Completion, error) {
	rows, err := s.db.Query(`
		SELECT habit_id, day, created_at
		FROM completions
		WHERE habit_id = ? AND day >= ? AND day <= ?
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
