package periods

import "time"

// Window is one computed reporting window before persistence.
type Window struct {
	Year         int
	Month        int
	PeriodNumber int
	StartsOn     time.Time
	EndsOn       time.Time
	Deadline     time.Time
}

// WindowsFor computes the three reporting windows of a month: days 1-10,
// 11-20 and 21 to end of month. The first two deadlines land two days
// after the window closes; the third lands on the 2nd of the next month.
func WindowsFor(year int, month time.Month) []Window {
	lastDay := daysIn(year, month)
	mk := func(day int) time.Time {
		return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	}

	first := Window{
		Year:         year,
		Month:        int(month),
		PeriodNumber: 1,
		StartsOn:     mk(1),
		EndsOn:       mk(10),
		Deadline:     mk(12),
	}
	second := Window{
		Year:         year,
		Month:        int(month),
		PeriodNumber: 2,
		StartsOn:     mk(11),
		EndsOn:       mk(20),
		Deadline:     mk(22),
	}
	third := Window{
		Year:         year,
		Month:        int(month),
		PeriodNumber: 3,
		StartsOn:     mk(21),
		EndsOn:       mk(lastDay),
		// time.Date normalizes month overflow, so December rolls into
		// January of the next year.
		Deadline: time.Date(year, month+1, 2, 0, 0, 0, 0, time.UTC),
	}
	return []Window{first, second, third}
}

// WindowAt returns the window containing the given instant.
func WindowAt(t time.Time) Window {
	t = t.UTC()
	for _, w := range WindowsFor(t.Year(), t.Month()) {
		if !t.Before(w.StartsOn) && !truncateDay(t).After(w.EndsOn) {
			return w
		}
	}
	// Unreachable: the three windows cover every day of the month.
	return Window{}
}

// PreviousWindow returns the window immediately before the given one.
func PreviousWindow(w Window) Window {
	if w.PeriodNumber > 1 {
		windows := WindowsFor(w.Year, time.Month(w.Month))
		return windows[w.PeriodNumber-2]
	}
	prev := time.Date(w.Year, time.Month(w.Month), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -1, 0)
	windows := WindowsFor(prev.Year(), prev.Month())
	return windows[2]
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
