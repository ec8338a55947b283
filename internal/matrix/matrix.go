// Package matrix renders weekly completion matrices. It is pure
// presentation: the ledger supplies ordered completion flags and this package
// lays them out as colored squares with their calendar labels.
package matrix

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/habitbot/internal/constants"
	"github.com/julianstephens/habitbot/internal/tracker"
)

const (
	// DoneCell marks a completed day, MissedCell everything else.
	DoneCell   = "🟩"
	MissedCell = "🟥"

	nameWidth = 15
)

var (
	doneStyle   = lipgloss.NewStyle().Background(lipgloss.Color("2"))
	missedStyle = lipgloss.NewStyle().Background(lipgloss.Color("1"))
)

// TrailingWeek returns the 7 consecutive days ending at ref inclusive,
// oldest first.
func TrailingWeek(ref tracker.Day) []tracker.Day {
	days := make([]tracker.Day, constants.WeekLength)
	for i := range days {
		days[i] = ref.Add(i - (constants.WeekLength - 1))
	}
	return days
}

// MondayWeek returns the calendar week containing ref, Monday first.
func MondayWeek(ref tracker.Day) []tracker.Day {
	offset := (int(ref.Weekday()) + 6) % 7 // days since Monday
	monday := ref.Add(-offset)

	days := make([]tracker.Day, constants.WeekLength)
	for i := range days {
		days[i] = monday.Add(i)
	}
	return days
}

// Row renders completion flags as a run of colored squares.
func Row(done []bool) string {
	var b strings.Builder
	for _, d := range done {
		if d {
			b.WriteString(DoneCell)
		} else {
			b.WriteString(MissedCell)
		}
	}
	return b.String()
}

// DayHeader renders one-letter weekday labels, space-separated, matching the
// visual width of a square row.
func DayHeader(days []tracker.Day) string {
	letters := make([]string, len(days))
	for i, d := range days {
		letters[i] = d.Format("Mon")[:1]
	}
	return " " + strings.Join(letters, " ")
}

// TableRow pairs a habit name with its completion flags for the week.
type TableRow struct {
	Name string
	Done []bool
}

// Table renders the all-habits week view as a fixed-width text table, one
// habit per line. Meant to be wrapped in a monospace block by the front end.
func Table(days []tracker.Day, rows []TableRow) string {
	lines := []string{
		fmt.Sprintf("Week %s - %s", days[0].Format("02 Jan"), days[len(days)-1].Format("02 Jan")),
		fmt.Sprintf("%16s%s", "", DayHeader(days)),
	}

	for _, row := range rows {
		lines = append(lines, fmt.Sprintf("%s %s", padName(row.Name), Row(row.Done)))
	}

	return strings.Join(lines, "\n")
}

// padName truncates or pads a habit name to nameWidth. Counts runes, not
// bytes, so non-ASCII names stay valid UTF-8 and columns stay aligned.
func padName(name string) string {
	runes := []rune(name)
	if len(runes) > nameWidth {
		return string(runes[:nameWidth])
	}
	return name + strings.Repeat(" ", nameWidth-len(runes))
}

// TerminalRow renders a single habit's week for the terminal: a weekday
// label line over lipgloss-colored cells.
func TerminalRow(days []tracker.Day, done []bool) string {
	labels := make([]string, len(days))
	cells := make([]string, len(days))
	for i, d := range days {
		labels[i] = d.Format("Mon")[:2]
		if done[i] {
			cells[i] = doneStyle.Render("  ")
		} else {
			cells[i] = missedStyle.Render("  ")
		}
	}
	return strings.Join(labels, " ") + "\n" + strings.Join(cells, " ")
}
