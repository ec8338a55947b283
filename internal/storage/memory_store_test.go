package storage

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/habitbot/internal/models"
)

// The memory store must mirror the SQL providers' semantics so tests against
// it stay meaningful.

func setupMemoryStore(t *testing.T) *MemoryStore {
	store := NewMemoryStore()
	if err := store.Init(); err != nil {
		t.Fatalf("failed to initialize memory store: %v", err)
	}
	return store
}

func TestMemoryGetHabitByNameCaseInsensitive(t *testing.T) {
	store := setupMemoryStore(t)

	habit := models.Habit{
		ID:        uuid.New().String(),
		OwnerID:   "owner-1",
		Name:      "Morning Run",
		CreatedAt: time.Now(),
	}
	if err := store.AddHabit(habit); err != nil {
		t.Fatalf("failed to add habit: %v", err)
	}

	got, err := store.GetHabitByName("owner-1", "MORNING RUN")
	if err != nil {
		t.Fatalf("case-insensitive lookup failed: %v", err)
	}
	if got.ID != habit.ID {
		t.Errorf("got habit %s, want %s", got.ID, habit.ID)
	}

	if _, err := store.GetHabitByName("owner-2", "Morning Run"); !errors.Is(err, ErrNotFound) {
		t.Errorf("other owner lookup error = %v, want ErrNotFound", err)
	}
}

func TestMemoryCompletionRange(t *testing.T) {
	store := setupMemoryStore(t)

	habitID := uuid.New().String()
	for _, day := range []string{"2025-06-05", "2025-06-01", "2025-06-03"} {
		if _, err := store.AddCompletion(models.Completion{
			HabitID: habitID, Day: day, CreatedAt: time.Now(),
		}); err != nil {
			t.Fatalf("failed to add completion: %v", err)
		}
	}

	got, err := store.GetCompletions(habitID, "2025-06-01", "2025-06-03")
	if err != nil {
		t.Fatalf("GetCompletions failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d completions, want 2", len(got))
	}
	// Sorted ascending regardless of insertion order
	if got[0].Day != "2025-06-01" || got[1].Day != "2025-06-03" {
		t.Errorf("days = %s, %s; want 2025-06-01, 2025-06-03", got[0].Day, got[1].Day)
	}
}

func TestMemoryDeleteHabit(t *testing.T) {
	store := setupMemoryStore(t)

	habit := models.Habit{
		ID:        uuid.New().String(),
		OwnerID:   "owner-1",
		Name:      "Read",
		CreatedAt: time.Now(),
	}
	if err := store.AddHabit(habit); err != nil {
		t.Fatalf("failed to add habit: %v", err)
	}
	if _, err := store.AddCompletion(models.Completion{
		HabitID: habit.ID, Day: "2025-06-04", CreatedAt: time.Now(),
	}); err != nil {
		t.Fatalf("failed to add completion: %v", err)
	}

	if err := store.DeleteHabit(habit.ID); err != nil {
		t.Fatalf("failed to delete habit: %v", err)
	}

	has, err := store.HasCompletion(habit.ID, "2025-06-04")
	if err != nil {
		t.Fatalf("HasCompletion failed: %v", err)
	}
	if has {
		t.Error("completion survived habit deletion")
	}

	if err := store.DeleteHabit(habit.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second delete error = %v, want ErrNotFound", err)
	}
}
