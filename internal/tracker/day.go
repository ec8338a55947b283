package tracker

import (
	"fmt"
	"time"

	"github.com/julianstephens/habitbot/internal/constants"
)

// Day is a calendar date in YYYY-MM-DD form with no time or timezone
// component. Completion bookkeeping happens at day granularity only.
type Day string

// Today returns the current calendar day in local time. Callers derive it
// once per request and pass it down so a request never straddles midnight.
func Today() Day {
	return DayOf(time.Now())
}

// DayOf truncates a time to its calendar day.
func DayOf(t time.Time) Day {
	return Day(t.Format(constants.DayFormat))
}

// ParseDay validates a YYYY-MM-DD string.
func ParseDay(s string) (Day, error) {
	if _, err := time.Parse(constants.DayFormat, s); err != nil {
		return "", fmt.Errorf("invalid date format: %s (expected YYYY-MM-DD)", s)
	}
	return Day(s), nil
}

// Add returns the day shifted by n calendar days.
func (d Day) Add(n int) Day {
	return DayOf(d.Time().AddDate(0, 0, n))
}

// Time returns the day as a midnight UTC time, for formatting.
func (d Day) Time() time.Time {
	t, _ := time.Parse(constants.DayFormat, string(d))
	return t
}

// Weekday returns the day of the week.
func (d Day) Weekday() time.Weekday {
	return d.Time().Weekday()
}

// Format formats the day with the given time layout.
func (d Day) Format(layout string) string {
	return d.Time().Format(layout)
}

func (d Day) String() string {
	return string(d)
}
