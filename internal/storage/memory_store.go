package storage

import (
	"sort"
	"strings"

	"github.com/julianstephens/habitbot/internal/models"
)

// MemoryStore is an in-memory Provider used by tests and dry runs. It mirrors
// the SQL providers' semantics, including case-insensitive name lookup and
// deterministic habit ordering.
type MemoryStore struct {
	users  map[int64]models.User   // keyed by chat id
	habits map[string]models.Habit // keyed by habit id
	// completions maps habit id to a set of days
	completions map[string]map[string]models.Completion
	// habitOrder preserves insertion order for deterministic listing
	habitOrder []string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Init() error {
	s.users = make(map[int64]models.User)
	s.habits = make(map[string]models.Habit)
	s.completions = make(map[string]map[string]models.Completion)
	s.habitOrder = nil
	return nil
}

func (s *MemoryStore) Load() error {
	if s.users == nil {
		return s.Init()
	}
	return nil
}

func (s *MemoryStore) Close() error {
	return nil
}

func (s *MemoryStore) GetConfigPath() string {
	return ":memory:"
}

// Users

func (s *MemoryStore) UpsertUser(u models.User) (models.User, error) {
	if existing, ok := s.users[u.ChatID]; ok {
		existing.Username = u.Username
		s.users[u.ChatID] = existing
		return existing, nil
	}
	s.users[u.ChatID] = u
	return u, nil
}

func (s *MemoryStore) GetUserByChatID(chatID int64) (models.User, error) {
	u, ok := s.users[chatID]
	if !ok {
		return models.User{}, ErrNotFound
	}
	return u, nil
}

// Habits

func (s *MemoryStore) AddHabit(habit models.Habit) error {
	s.habits[habit.ID] = habit
	s.habitOrder = append(s.habitOrder, habit.ID)
	return nil
}

func (s *MemoryStore) GetHabit(id string) (models.Habit, error) {
	h, ok := s.habits[id]
	if !ok {
		return models.Habit{}, ErrNotFound
	}
	return h, nil
}

func (s *MemoryStore) GetHabitByName(ownerID, name string) (models.Habit, error) {
	for _, h := range s.habits {
		if h.OwnerID == ownerID && strings.EqualFold(h.Name, name) {
			return h, nil
		}
	}
	return models.Habit{}, ErrNotFound
}

func (s *MemoryStore) GetAllHabits(ownerID string) ([]models.Habit, error) {
	var habits []models.Habit
	for _, id := range s.habitOrder {
		h, ok := s.habits[id]
		if ok && h.OwnerID == ownerID {
			habits = append(habits, h)
		}
	}
	sort.SliceStable(habits, func(i, j int) bool {
		return habits[i].CreatedAt.Before(habits[j].CreatedAt)
	})
	return habits, nil
}

func (s *MemoryStore) DeleteHabit(id string) error {
	if _, ok := s.habits[id]; !ok {
		return ErrNotFound
	}
	delete(s.habits, id)
	delete(s.completions, id)
	for i, hid := range s.habitOrder {
		if hid == id {
			s.habitOrder = append(s.habitOrder[:i], s.habitOrder[i+1:]...)
			break
		}
	}
	return nil
}

// Completions

func (s *MemoryStore) AddCompletion(c models.Completion) (bool, error) {
	days, ok := s.completions[c.HabitID]
	if !ok {
		days = make(map[string]models.Completion)
		s.completions[c.HabitID] = days
	}
	if _, exists := days[c.Day]; exists {
		return false, nil
	}
	days[c.Day] = c
	return true, nil
}

func (s *MemoryStore) HasCompletion(habitID, day string) (bool, error) {
	_, ok := s.completions[habitID][day]
	return ok, nil
}

func (s *MemoryStore) GetCompletions(habitID, startDay, endDay string) ([]models.Completion, error) {
	var completions []models.Completion
	for day, c := range s.completions[habitID] {
		if day >= startDay && day <= endDay {
			completions = append(completions, c)
		}
	}
	sort.Slice(completions, func(i, j int) bool {
		return completions[i].Day < completions[j].Day
	})
	return completions, nil
}

var _ Provider = (*MemoryStore)(nil)
