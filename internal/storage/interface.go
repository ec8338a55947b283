package storage

import (
	"errors"

	"github.com/julianstephens/habitbot/internal/models"
)

// ErrNotFound is returned by lookups that match no record.
var ErrNotFound = errors.New("record not found")

// timeLayout is RFC 3339 with fixed-width nanoseconds. created_at columns are
// TEXT and get sorted lexicographically, so the fraction must not drop
// trailing zeros; second precision would tie rows created in the same second.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Users
	UpsertUser(models.User) (models.User, error)
	GetUserByChatID(chatID int64) (models.User, error)

	// Habits
	AddHabit(models.Habit) error
	GetHabit(id string) (models.Habit, error)
	GetHabitByName(ownerID, name string) (models.Habit, error)
	GetAllHabits(ownerID string) ([]models.Habit, error)
	// DeleteHabit removes the habit and all its completions.
	DeleteHabit(id string) error

	// Completions
	// AddCompletion inserts the completion if absent. Returns false when a
	// row already exists for (habit_id, day).
	AddCompletion(models.Completion) (bool, error)
	HasCompletion(habitID, day string) (bool, error)
	GetCompletions(habitID, startDay, endDay string) ([]models.Completion, error)

	// Utils
	GetConfigPath() string
}
