package bot

import (
	"errors"
	"fmt"
	"html"
	"strings"

	tele "gopkg.in/telebot.v3"

	"github.com/julianstephens/habitbot/internal/logger"
	"github.com/julianstephens/habitbot/internal/matrix"
	"github.com/julianstephens/habitbot/internal/models"
	"github.com/julianstephens/habitbot/internal/tracker"
)

const helpText = `Habit tracker bot.

Commands:
/add <name> - add a new habit
/done <name> - mark a habit done today
/delete <name> - delete a habit
/week - weekly matrix`

func (b *Bot) handleStart(c tele.Context) error {
	if _, err := b.user(c); err != nil {
		return b.reportError(c, err)
	}
	return c.Send(helpText, b.menu)
}

func (b *Bot) handleAdd(c tele.Context) error {
	u, err := b.user(c)
	if err != nil {
		return b.reportError(c, err)
	}

	name := strings.TrimSpace(c.Message().Payload)
	if name == "" {
		b.pendingAdd[c.Chat().ID] = true
		return c.Send("Send habit name (example: Water 2L)")
	}

	return b.createHabit(c, u, name)
}

// handleText consumes the follow-up message after a bare /add.
func (b *Bot) handleText(c tele.Context) error {
	if !b.pendingAdd[c.Chat().ID] {
		return nil
	}
	delete(b.pendingAdd, c.Chat().ID)

	u, err := b.user(c)
	if err != nil {
		return b.reportError(c, err)
	}
	return b.createHabit(c, u, c.Text())
}

func (b *Bot) createHabit(c tele.Context, u models.User, name string) error {
	habit, err := b.svc.CreateHabit(u.ID, name)
	if err != nil {
		return b.reportError(c, err)
	}

	if err := c.Send(fmt.Sprintf("Added habit: %s", habit.Name), b.menu); err != nil {
		return err
	}
	return b.sendWeek(c, u)
}

func (b *Bot) handleDone(c tele.Context) error {
	u, err := b.user(c)
	if err != nil {
		return b.reportError(c, err)
	}

	name := strings.TrimSpace(c.Message().Payload)
	if name == "" {
		return b.sendDoneKeyboard(c, u)
	}

	habit, err := b.svc.GetHabit(u.ID, name)
	if err != nil {
		return b.reportError(c, err)
	}

	created, err := b.svc.MarkDone(habit.ID, tracker.Today())
	if err != nil {
		return b.reportError(c, err)
	}

	if !created {
		return c.Send(fmt.Sprintf("%q is already done today.", habit.Name))
	}
	if err := c.Send(fmt.Sprintf("Marked %q done for today ✅", habit.Name)); err != nil {
		return err
	}
	return b.sendWeek(c, u)
}

// sendDoneKeyboard offers one button per habit, marked with today's status.
func (b *Bot) sendDoneKeyboard(c tele.Context, u models.User) error {
	habits, err := b.svc.ListHabits(u.ID)
	if err != nil {
		return b.reportError(c, err)
	}
	if len(habits) == 0 {
		return c.Send("No habits yet. Use /add first.")
	}

	today := tracker.Today()
	markup := &tele.ReplyMarkup{}
	var rows []tele.Row
	for _, h := range habits {
		done, err := b.svc.IsDone(h.ID, today)
		if err != nil {
			return b.reportError(c, err)
		}
		marker := "⬜"
		if done {
			marker = "✅"
		}
		rows = append(rows, markup.Row(markup.Data(marker+" "+h.Name, b.btnDone.Unique, h.ID)))
	}
	markup.Inline(rows...)

	return c.Send("Mark a habit done for today:", markup)
}

func (b *Bot) handleDoneCallback(c tele.Context) error {
	u, err := b.user(c)
	if err != nil {
		return b.reportError(c, err)
	}

	habit, err := b.svc.GetHabitByID(u.ID, c.Data())
	var created bool
	if err == nil {
		created, err = b.svc.MarkDone(habit.ID, tracker.Today())
	}
	if err != nil {
		if errors.Is(err, tracker.ErrNotFound) {
			return c.Respond(&tele.CallbackResponse{Text: "Habit not found", ShowAlert: true})
		}
		return b.reportError(c, err)
	}

	if !created {
		return c.Respond(&tele.CallbackResponse{Text: "Already done today"})
	}
	if err := c.Respond(&tele.CallbackResponse{Text: "Saved"}); err != nil {
		return err
	}
	if err := c.Send("Marked done for today ✅"); err != nil {
		return err
	}
	return b.sendWeek(c, u)
}

func (b *Bot) handleDelete(c tele.Context) error {
	u, err := b.user(c)
	if err != nil {
		return b.reportError(c, err)
	}

	name := strings.TrimSpace(c.Message().Payload)
	if name == "" {
		return b.sendDeleteKeyboard(c, u)
	}

	if err := b.svc.DeleteHabit(u.ID, name); err != nil {
		return b.reportError(c, err)
	}
	if err := c.Send(fmt.Sprintf("Deleted habit %q 🗑️", name)); err != nil {
		return err
	}
	return b.sendWeek(c, u)
}

func (b *Bot) sendDeleteKeyboard(c tele.Context, u models.User) error {
	habits, err := b.svc.ListHabits(u.ID)
	if err != nil {
		return b.reportError(c, err)
	}
	if len(habits) == 0 {
		return c.Send("No habits to delete.")
	}

	markup := &tele.ReplyMarkup{}
	var rows []tele.Row
	for _, h := range habits {
		rows = append(rows, markup.Row(markup.Data("❌ "+h.Name, b.btnDelete.Unique, h.ID)))
	}
	markup.Inline(rows...)

	return c.Send("Pick a habit to delete:", markup)
}

func (b *Bot) handleDeleteCallback(c tele.Context) error {
	u, err := b.user(c)
	if err != nil {
		return b.reportError(c, err)
	}

	habit, err := b.svc.GetHabitByID(u.ID, c.Data())
	if err == nil {
		err = b.svc.DeleteHabit(u.ID, habit.Name)
	}
	if err != nil {
		if errors.Is(err, tracker.ErrNotFound) {
			return c.Respond(&tele.CallbackResponse{Text: "Habit not found", ShowAlert: true})
		}
		return b.reportError(c, err)
	}

	if err := c.Respond(&tele.CallbackResponse{Text: "Deleted"}); err != nil {
		return err
	}
	if err := c.Send("Habit deleted 🗑️"); err != nil {
		return err
	}
	return b.sendWeek(c, u)
}

func (b *Bot) handleWeek(c tele.Context) error {
	u, err := b.user(c)
	if err != nil {
		return b.reportError(c, err)
	}

	name := strings.TrimSpace(c.Message().Payload)
	if name == "" {
		return b.sendWeek(c, u)
	}

	// Single habit: the trailing 7-day window ending today.
	habit, err := b.svc.GetHabit(u.ID, name)
	if err != nil {
		return b.reportError(c, err)
	}

	today := tracker.Today()
	flags, err := b.svc.WeekCompletions(habit.ID, today)
	if err != nil {
		return b.reportError(c, err)
	}

	days := matrix.TrailingWeek(today)
	body := habit.Name + "\n" + matrix.DayHeader(days) + "\n" + matrix.Row(flags)
	return c.Send("<pre>"+html.EscapeString(body)+"</pre>", tele.ModeHTML)
}

// sendWeek renders the all-habits week table, Monday-aligned.
func (b *Bot) sendWeek(c tele.Context, u models.User) error {
	habits, err := b.svc.ListHabits(u.ID)
	if err != nil {
		return b.reportError(c, err)
	}
	if len(habits) == 0 {
		return c.Send("No habits yet. Use /add first.")
	}

	days := matrix.MondayWeek(tracker.Today())
	rows := make([]matrix.TableRow, 0, len(habits))
	for _, h := range habits {
		done, err := b.svc.DaysDone(h.ID, days)
		if err != nil {
			return b.reportError(c, err)
		}
		rows = append(rows, matrix.TableRow{Name: h.Name, Done: done})
	}

	table := matrix.Table(days, rows)
	return c.Send("<pre>"+html.EscapeString(table)+"</pre>", tele.ModeHTML)
}

// reportError maps tracker sentinels onto user-facing replies. Nothing here
// is fatal to the process.
func (b *Bot) reportError(c tele.Context, err error) error {
	switch {
	case errors.Is(err, tracker.ErrInvalidName):
		return c.Send("Habit name cannot be empty. Try again.")
	case errors.Is(err, tracker.ErrDuplicateHabit):
		return c.Send("You already track a habit with that name.")
	case errors.Is(err, tracker.ErrNotFound):
		return c.Send("Habit not found. Use /week to see your habits.")
	default:
		logger.Error("Handler failed", "error", err)
		return c.Send("Something went wrong. Please try again.")
	}
}
