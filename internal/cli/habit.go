package cli

import (
	"fmt"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/habitbot/internal/matrix"
	"github.com/julianstephens/habitbot/internal/tracker"
)

// HabitCmd operates on the store directly, without going through Telegram.
// Useful for seeding and inspecting a local database.
type HabitCmd struct {
	Add    HabitAddCmd    `cmd:"" help:"Add a new habit."`
	List   HabitListCmd   `cmd:"" help:"List habits."`
	Mark   HabitMarkCmd   `cmd:"" help:"Mark a habit as done for a day."`
	Week   HabitWeekCmd   `cmd:"" help:"Show the weekly completion matrix."`
	Delete HabitDeleteCmd `cmd:"" help:"Delete a habit and its history."`
}

type HabitAddCmd struct {
	Name  string `arg:"" optional:"" help:"Habit name."`
	Owner int64  `help:"Owner chat id." env:"HABITBOT_OWNER" default:"0"`
}

func (c *HabitAddCmd) Run(ctx *Context) error {
	name := c.Name
	if name == "" {
		form := huh.NewForm(huh.NewGroup(
			huh.NewInput().Title("Habit name").Value(&name),
		))
		if err := form.Run(); err != nil {
			return err
		}
	}

	owner, err := ctx.ResolveOwner(c.Owner)
	if err != nil {
		return err
	}

	habit, err := ctx.Tracker.CreateHabit(owner, name)
	if err != nil {
		return err
	}

	fmt.Printf("Added habit: %s\n", habit.Name)
	return nil
}

type HabitListCmd struct {
	Owner int64 `help:"Owner chat id." env:"HABITBOT_OWNER" default:"0"`
}

func (c *HabitListCmd) Run(ctx *Context) error {
	owner, err := ctx.ResolveOwner(c.Owner)
	if err != nil {
		return err
	}

	habits, err := ctx.Tracker.ListHabits(owner)
	if err != nil {
		return err
	}

	if len(habits) == 0 {
		fmt.Println("No habits found.")
		return nil
	}

	for _, habit := range habits {
		fmt.Printf("%s (since %s)\n", habit.Name, habit.CreatedAt.Format("2006-01-02"))
	}
	return nil
}

type HabitMarkCmd struct {
	Name  string `arg:"" help:"Habit name."`
	Date  string `help:"Date in YYYY-MM-DD format (default: today)." default:""`
	Owner int64  `help:"Owner chat id." env:"HABITBOT_OWNER" default:"0"`
}

func (c *HabitMarkCmd) Run(ctx *Context) error {
	owner, err := ctx.ResolveOwner(c.Owner)
	if err != nil {
		return err
	}

	habit, err := ctx.Tracker.GetHabit(owner, c.Name)
	if err != nil {
		return err
	}

	day := tracker.Today()
	if c.Date != "" {
		day, err = tracker.ParseDay(c.Date)
		if err != nil {
			return err
		}
	}

	created, err := ctx.Tracker.MarkDone(habit.ID, day)
	if err != nil {
		return err
	}

	if created {
		fmt.Printf("Marked habit %q for %s\n", habit.Name, day)
	} else {
		fmt.Printf("Habit %q was already done on %s\n", habit.Name, day)
	}
	return nil
}

type HabitWeekCmd struct {
	Name  string `arg:"" optional:"" help:"Habit name. Omit for the all-habits table."`
	Owner int64  `help:"Owner chat id." env:"HABITBOT_OWNER" default:"0"`
}

func (c *HabitWeekCmd) Run(ctx *Context) error {
	owner, err := ctx.ResolveOwner(c.Owner)
	if err != nil {
		return err
	}

	today := tracker.Today()

	if c.Name != "" {
		habit, err := ctx.Tracker.GetHabit(owner, c.Name)
		if err != nil {
			return err
		}

		flags, err := ctx.Tracker.WeekCompletions(habit.ID, today)
		if err != nil {
			return err
		}

		fmt.Println(habit.Name)
		fmt.Println(matrix.TerminalRow(matrix.TrailingWeek(today), flags))
		return nil
	}

	habits, err := ctx.Tracker.ListHabits(owner)
	if err != nil {
		return err
	}
	if len(habits) == 0 {
		fmt.Println("No habits found.")
		return nil
	}

	days := matrix.MondayWeek(today)
	rows := make([]matrix.TableRow, 0, len(habits))
	for _, h := range habits {
		done, err := ctx.Tracker.DaysDone(h.ID, days)
		if err != nil {
			return err
		}
		rows = append(rows, matrix.TableRow{Name: h.Name, Done: done})
	}

	fmt.Println(matrix.Table(days, rows))
	return nil
}

type HabitDeleteCmd struct {
	Name  string `arg:"" help:"Habit name."`
	Owner int64  `help:"Owner chat id." env:"HABITBOT_OWNER" default:"0"`
}

func (c *HabitDeleteCmd) Run(ctx *Context) error {
	owner, err := ctx.ResolveOwner(c.Owner)
	if err != nil {
		return err
	}

	if err := ctx.Tracker.DeleteHabit(owner, c.Name); err != nil {
		return err
	}

	fmt.Printf("Deleted habit %q and its history\n", c.Name)
	return nil
}
