package tracker

import (
	"errors"
	"testing"

	"github.com/julianstephens/habitbot/internal/storage"
)

func setupService(t *testing.T) (*Service, string) {
	store := storage.NewMemoryStore()
	if err := store.Init(); err != nil {
		t.Fatalf("failed to initialize store: %v", err)
	}

	svc := New(store)
	u, err := svc.UpsertUser(100, "tester")
	if err != nil {
		t.Fatalf("failed to upsert user: %v", err)
	}
	return svc, u.ID
}

func TestCreateThenGetHabit(t *testing.T) {
	svc, owner := setupService(t)

	created, err := svc.CreateHabit(owner, "Read")
	if err != nil {
		t.Fatalf("failed to create habit: %v", err)
	}

	// Lookup is case-insensitive
	for _, name := range []string{"Read", "read", "READ"} {
		got, err := svc.GetHabit(owner, name)
		if err != nil {
			t.Fatalf("failed to get habit by %q: %v", name, err)
		}
		if got.ID != created.ID {
			t.Errorf("lookup %q: got habit %s, want %s", name, got.ID, created.ID)
		}
	}
}

func TestGetHabitByIDScopedToOwner(t *testing.T) {
	svc, owner := setupService(t)

	habit, err := svc.CreateHabit(owner, "Read")
	if err != nil {
		t.Fatalf("failed to create habit: %v", err)
	}

	got, err := svc.GetHabitByID(owner, habit.ID)
	if err != nil {
		t.Fatalf("owner lookup failed: %v", err)
	}
	if got.ID != habit.ID {
		t.Errorf("got habit %s, want %s", got.ID, habit.ID)
	}

	// Another user presenting the same id must not see the habit.
	other, err := svc.UpsertUser(200, "other")
	if err != nil {
		t.Fatalf("failed to upsert user: %v", err)
	}
	if _, err := svc.GetHabitByID(other.ID, habit.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("cross-owner lookup error = %v, want ErrNotFound", err)
	}
}

func TestCreateHabitInvalidName(t *testing.T) {
	svc, owner := setupService(t)

	for _, name := range []string{"", "   ", "\t\n"} {
		if _, err := svc.CreateHabit(owner, name); !errors.Is(err, ErrInvalidName) {
			t.Errorf("CreateHabit(%q) error = %v, want ErrInvalidName", name, err)
		}
	}
}

func TestCreateHabitDuplicateName(t *testing.T) {
	svc, owner := setupService(t)

	if _, err := svc.CreateHabit(owner, "Water 2L"); err != nil {
		t.Fatalf("failed to create habit: %v", err)
	}

	// A name differing only in case is still a duplicate
	if _, err := svc.CreateHabit(owner, "water 2l"); !errors.Is(err, ErrDuplicateHabit) {
		t.Errorf("duplicate create error = %v, want ErrDuplicateHabit", err)
	}

	// A different owner may reuse the name
	other, err := svc.UpsertUser(200, "other")
	if err != nil {
		t.Fatalf("failed to upsert second user: %v", err)
	}
	if _, err := svc.CreateHabit(other.ID, "Water 2L"); err != nil {
		t.Errorf("second owner create failed: %v", err)
	}
}

func TestCreateHabitTrimsName(t *testing.T) {
	svc, owner := setupService(t)

	habit, err := svc.CreateHabit(owner, "  Stretch  ")
	if err != nil {
		t.Fatalf("failed to create habit: %v", err)
	}
	if habit.Name != "Stretch" {
		t.Errorf("name = %q, want %q", habit.Name, "Stretch")
	}
}

func TestMarkDoneIdempotent(t *testing.T) {
	svc, owner := setupService(t)

	habit, err := svc.CreateHabit(owner, "Read")
	if err != nil {
		t.Fatalf("failed to create habit: %v", err)
	}

	day := Day("2025-06-04")

	created, err := svc.MarkDone(habit.ID, day)
	if err != nil {
		t.Fatalf("first mark failed: %v", err)
	}
	if !created {
		t.Error("first mark: created = false, want true")
	}

	created, err = svc.MarkDone(habit.ID, day)
	if err != nil {
		t.Fatalf("second mark failed: %v", err)
	}
	if created {
		t.Error("second mark: created = true, want false")
	}

	done, err := svc.IsDone(habit.ID, day)
	if err != nil {
		t.Fatalf("IsDone failed: %v", err)
	}
	if !done {
		t.Error("IsDone = false after marking, want true")
	}
}

func TestMarkDoneUnknownHabit(t *testing.T) {
	svc, _ := setupService(t)

	if _, err := svc.MarkDone("no-such-id", Day("2025-06-04")); !errors.Is(err, ErrNotFound) {
		t.Errorf("MarkDone on unknown habit error = %v, want ErrNotFound", err)
	}
}

func TestWeekCompletionsWindow(t *testing.T) {
	svc, owner := setupService(t)

	habit, err := svc.CreateHabit(owner, "Read")
	if err != nil {
		t.Fatalf("failed to create habit: %v", err)
	}

	ref := Day("2025-06-08")

	if _, err := svc.MarkDone(habit.ID, ref); err != nil {
		t.Fatalf("failed to mark ref day: %v", err)
	}
	if _, err := svc.MarkDone(habit.ID, ref.Add(-6)); err != nil {
		t.Fatalf("failed to mark oldest day: %v", err)
	}
	// Just outside the window: must not appear
	if _, err := svc.MarkDone(habit.ID, ref.Add(-7)); err != nil {
		t.Fatalf("failed to mark out-of-window day: %v", err)
	}

	flags, err := svc.WeekCompletions(habit.ID, ref)
	if err != nil {
		t.Fatalf("WeekCompletions failed: %v", err)
	}

	if len(flags) != 7 {
		t.Fatalf("len = %d, want 7", len(flags))
	}
	if !flags[6] {
		t.Error("index 6 = false, want true (marked on ref)")
	}
	if !flags[0] {
		t.Error("index 0 = false, want true (marked on ref-6)")
	}
	for i := 1; i <= 5; i++ {
		if flags[i] {
			t.Errorf("index %d = true, want false", i)
		}
	}
}

func TestWeekCompletionsExample(t *testing.T) {
	svc, owner := setupService(t)

	habit, err := svc.CreateHabit(owner, "Read")
	if err != nil {
		t.Fatalf("failed to create habit: %v", err)
	}

	// Done on days 1, 3, 5 of a 7-day window ending day 7
	ref := Day("2025-06-07")
	for _, day := range []Day{"2025-06-01", "2025-06-03", "2025-06-05"} {
		if _, err := svc.MarkDone(habit.ID, day); err != nil {
			t.Fatalf("failed to mark %s: %v", day, err)
		}
	}

	flags, err := svc.WeekCompletions(habit.ID, ref)
	if err != nil {
		t.Fatalf("WeekCompletions failed: %v", err)
	}

	want := []bool{true, false, true, false, true, false, false}
	for i := range want {
		if flags[i] != want[i] {
			t.Errorf("index %d = %v, want %v", i, flags[i], want[i])
		}
	}
}

func TestMarkDoneOnlyAffectsRefIndex(t *testing.T) {
	svc, owner := setupService(t)

	habit, err := svc.CreateHabit(owner, "Read")
	if err != nil {
		t.Fatalf("failed to create habit: %v", err)
	}

	ref := Day("2025-06-08")

	before, err := svc.WeekCompletions(habit.ID, ref)
	if err != nil {
		t.Fatalf("WeekCompletions failed: %v", err)
	}

	if _, err := svc.MarkDone(habit.ID, ref); err != nil {
		t.Fatalf("failed to mark: %v", err)
	}

	after, err := svc.WeekCompletions(habit.ID, ref)
	if err != nil {
		t.Fatalf("WeekCompletions failed: %v", err)
	}

	if !after[6] {
		t.Error("index 6 = false after marking ref, want true")
	}
	for i := 0; i < 6; i++ {
		if after[i] != before[i] {
			t.Errorf("index %d changed from %v to %v", i, before[i], after[i])
		}
	}
}

func TestDeleteHabitCascades(t *testing.T) {
	svc, owner := setupService(t)

	habit, err := svc.CreateHabit(owner, "Read")
	if err != nil {
		t.Fatalf("failed to create habit: %v", err)
	}

	if _, err := svc.MarkDone(habit.ID, Day("2025-06-04")); err != nil {
		t.Fatalf("failed to mark: %v", err)
	}

	if err := svc.DeleteHabit(owner, "read"); err != nil {
		t.Fatalf("failed to delete habit: %v", err)
	}

	if _, err := svc.GetHabit(owner, "Read"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetHabit after delete error = %v, want ErrNotFound", err)
	}
	if _, err := svc.WeekCompletions(habit.ID, Day("2025-06-08")); !errors.Is(err, ErrNotFound) {
		t.Errorf("WeekCompletions after delete error = %v, want ErrNotFound", err)
	}
}

func TestListHabitsOrder(t *testing.T) {
	svc, owner := setupService(t)

	names := []string{"First", "Second", "Third"}
	for _, name := range names {
		if _, err := svc.CreateHabit(owner, name); err != nil {
			t.Fatalf("failed to create %q: %v", name, err)
		}
	}

	habits, err := svc.ListHabits(owner)
	if err != nil {
		t.Fatalf("ListHabits failed: %v", err)
	}
	if len(habits) != len(names) {
		t.Fatalf("got %d habits, want %d", len(habits), len(names))
	}
	for i, name := range names {
		if habits[i].Name != name {
			t.Errorf("habit %d = %q, want %q", i, habits[i].Name, name)
		}
	}
}

func TestUpsertUserKeepsID(t *testing.T) {
	svc, _ := setupService(t)

	first, err := svc.UpsertUser(300, "old-name")
	if err != nil {
		t.Fatalf("first upsert failed: %v", err)
	}

	second, err := svc.UpsertUser(300, "new-name")
	if err != nil {
		t.Fatalf("second upsert failed: %v", err)
	}

	if second.ID != first.ID {
		t.Errorf("upsert changed user ID from %s to %s", first.ID, second.ID)
	}
	if second.Username != "new-name" {
		t.Errorf("username = %q, want %q", second.Username, "new-name")
	}
}
