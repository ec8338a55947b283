// Package tracker implements the habit store and daily-completion ledger.
// All writes go through a single Service backed by a storage.Provider; the
// store is single-process, single-writer.
package tracker

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/habitbot/internal/constants"
	"github.com/julianstephens/habitbot/internal/logger"
	"github.com/julianstephens/habitbot/internal/models"
	"github.com/julianstephens/habitbot/internal/storage"
)

type Service struct {
	store storage.Provider
}

func New(store storage.Provider) *Service {
	return &Service{store: store}
}

// UpsertUser registers or refreshes the chat identity. Called on every
// incoming interaction so habits always have a valid owner row.
func (s *Service) UpsertUser(chatID int64, username string) (models.User, error) {
	return s.store.UpsertUser(models.User{
		ID:        uuid.New().String(),
		ChatID:    chatID,
		Username:  username,
		CreatedAt: time.Now(),
	})
}

// CreateHabit registers a new habit for the owner. The name is trimmed before
// validation; duplicate detection is case-insensitive per owner.
func (s *Service) CreateHabit(ownerID, name string) (models.Habit, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Habit{}, ErrInvalidName
	}

	if _, err := s.store.GetHabitByName(ownerID, name); err == nil {
		return models.Habit{}, fmt.Errorf("%w: %s", ErrDuplicateHabit, name)
	} else if !errors.Is(err, storage.ErrNotFound) {
		return models.Habit{}, err
	}

	habit := models.Habit{
		ID:        uuid.New().String(),
		OwnerID:   ownerID,
		Name:      name,
		CreatedAt: time.Now(),
	}

	if err := s.store.AddHabit(habit); err != nil {
		return models.Habit{}, err
	}

	logger.Info("Habit created", "owner", ownerID, "name", name)
	return habit, nil
}

// ListHabits returns the owner's habits ordered by creation time.
func (s *Service) ListHabits(ownerID string) ([]models.Habit, error) {
	return s.store.GetAllHabits(ownerID)
}

// GetHabit looks a habit up by name, case-insensitively.
func (s *Service) GetHabit(ownerID, name string) (models.Habit, error) {
	habit, err := s.store.GetHabitByName(ownerID, strings.TrimSpace(name))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return models.Habit{}, fmt.Errorf("habit %q: %w", name, ErrNotFound)
		}
		return models.Habit{}, err
	}
	return habit, nil
}

// GetHabitByID resolves a habit id, as carried in callback payloads.
// Callback data cannot be trusted to reference the sender's own habits, so
// ids owned by anyone else come back as ErrNotFound.
func (s *Service) GetHabitByID(ownerID, id string) (models.Habit, error) {
	habit, err := s.store.GetHabit(id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return models.Habit{}, ErrNotFound
		}
		return models.Habit{}, err
	}
	if habit.OwnerID != ownerID {
		return models.Habit{}, ErrNotFound
	}
	return habit, nil
}

// DeleteHabit removes a habit and its entire completion ledger.
func (s *Service) DeleteHabit(ownerID, name string) error {
	habit, err := s.GetHabit(ownerID, name)
	if err != nil {
		return err
	}

	if err := s.store.DeleteHabit(habit.ID); err != nil {
		return err
	}

	logger.Info("Habit deleted", "owner", ownerID, "name", habit.Name)
	return nil
}

// MarkDone records a completion for the given day. Marking is idempotent:
// the second mark on the same day returns created=false, never an error.
func (s *Service) MarkDone(habitID string, day Day) (created bool, err error) {
	if _, err := s.store.GetHabit(habitID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return false, ErrNotFound
		}
		return false, err
	}

	created, err = s.store.AddCompletion(models.Completion{
		HabitID:   habitID,
		Day:       day.String(),
		CreatedAt: time.Now(),
	})
	if err != nil {
		return false, err
	}

	logger.Debug("Completion marked", "habit", habitID, "day", day, "created", created)
	return created, nil
}

// IsDone reports whether the habit was completed on the given day.
func (s *Service) IsDone(habitID string, day Day) (bool, error) {
	return s.store.HasCompletion(habitID, day.String())
}

// WeekCompletions returns completion flags for the 7 consecutive days ending
// at ref inclusive, oldest first: index 0 is ref-6, index 6 is ref.
func (s *Service) WeekCompletions(habitID string, ref Day) ([]bool, error) {
	var days []Day
	for i := constants.WeekLength - 1; i >= 0; i-- {
		days = append(days, ref.Add(-i))
	}
	return s.DaysDone(habitID, days)
}

// DaysDone returns one completion flag per requested day, in order. The days
// must be sorted ascending; a single ranged ledger query covers them all.
func (s *Service) DaysDone(habitID string, days []Day) ([]bool, error) {
	if _, err := s.store.GetHabit(habitID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if len(days) == 0 {
		return nil, nil
	}

	completions, err := s.store.GetCompletions(habitID, days[0].String(), days[len(days)-1].String())
	if err != nil {
		return nil, err
	}

	done := make(map[string]bool, len(completions))
	for _, c := range completions {
		done[c.Day] = true
	}

	flags := make([]bool, len(days))
	for i, d := range days {
		flags[i] = done[d.String()]
	}
	return flags, nil
}
