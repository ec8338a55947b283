package matrix

import (
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/julianstephens/habitbot/internal/tracker"
)

func TestTrailingWeek(t *testing.T) {
	days := TrailingWeek(tracker.Day("2025-06-08"))

	if len(days) != 7 {
		t.Fatalf("len = %d, want 7", len(days))
	}
	if days[0] != "2025-06-02" {
		t.Errorf("days[0] = %s, want 2025-06-02", days[0])
	}
	if days[6] != "2025-06-08" {
		t.Errorf("days[6] = %s, want 2025-06-08", days[6])
	}
}

func TestMondayWeek(t *testing.T) {
	tests := []struct {
		ref    tracker.Day
		monday tracker.Day
	}{
		{"2025-06-02", "2025-06-02"}, // Monday anchors itself
		{"2025-06-04", "2025-06-02"}, // Wednesday
		{"2025-06-08", "2025-06-02"}, // Sunday belongs to the preceding Monday
	}

	for _, tt := range tests {
		days := MondayWeek(tt.ref)
		if len(days) != 7 {
			t.Fatalf("MondayWeek(%s): len = %d, want 7", tt.ref, len(days))
		}
		if days[0] != tt.monday {
			t.Errorf("MondayWeek(%s): days[0] = %s, want %s", tt.ref, days[0], tt.monday)
		}
		if want := tt.monday.Add(6); days[6] != want {
			t.Errorf("MondayWeek(%s): days[6] = %s, want %s", tt.ref, days[6], want)
		}
	}
}

func TestRow(t *testing.T) {
	got := Row([]bool{true, false, true})
	want := DoneCell + MissedCell + DoneCell
	if got != want {
		t.Errorf("Row = %s, want %s", got, want)
	}
}

func TestDayHeader(t *testing.T) {
	// Monday through Sunday
	days := MondayWeek(tracker.Day("2025-06-02"))
	if got := DayHeader(days); got != " M T W T F S S" {
		t.Errorf("DayHeader = %q, want %q", got, " M T W T F S S")
	}
}

func TestTable(t *testing.T) {
	days := MondayWeek(tracker.Day("2025-06-02"))
	rows := []TableRow{
		{Name: "Read", Done: []bool{true, false, true, false, true, false, false}},
		{Name: "A very long habit name here", Done: make([]bool, 7)},
	}

	table := Table(days, rows)
	lines := strings.Split(table, "\n")

	if len(lines) != 4 {
		t.Fatalf("got %d lines, want 4", len(lines))
	}
	if lines[0] != "Week 02 Jun - 08 Jun" {
		t.Errorf("header = %q, want %q", lines[0], "Week 02 Jun - 08 Jun")
	}
	wantRow := fmt.Sprintf("%-15s %s", "Read", Row(rows[0].Done))
	if lines[2] != wantRow {
		t.Errorf("row = %q, want %q", lines[2], wantRow)
	}
	// Long names are truncated to the name column
	if !strings.HasPrefix(lines[3], "A very long hab ") {
		t.Errorf("long name not truncated: %q", lines[3])
	}
}

func TestTableNonASCIINames(t *testing.T) {
	days := MondayWeek(tracker.Day("2025-06-02"))
	rows := []TableRow{
		{Name: "Утренняя зарядка", Done: make([]bool, 7)}, // 16 runes, 31 bytes
		{Name: "Вода", Done: make([]bool, 7)},             // 4 runes, 8 bytes
	}

	table := Table(days, rows)
	if !utf8.ValidString(table) {
		t.Fatalf("table is not valid UTF-8: %q", table)
	}

	lines := strings.Split(table, "\n")
	if !strings.HasPrefix(lines[2], "Утренняя зарядк "+MissedCell) {
		t.Errorf("long name not cut on a rune boundary: %q", lines[2])
	}
	// Padding counts runes, so the short name's row starts at the same column
	if got := padName("Вода"); utf8.RuneCountInString(got) != nameWidth {
		t.Errorf("padName rune width = %d, want %d", utf8.RuneCountInString(got), nameWidth)
	}
}
