package periods

import (
	"testing"
	"time"
)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func TestWindowsForCoversWholeMonth(t *testing.T) {
	months := []struct {
		year    int
		month   time.Month
		lastDay int
	}{
		{2026, time.January, 31},
		{2026, time.February, 28},
		{2024, time.February, 29},
		{2026, time.April, 30},
	}
	for _, m := range months {
		windows := WindowsFor(m.year, m.month)
		if len(windows) != 3 {
			t.Fatalf("WindowsFor(%d, %s) returned %d windows, want 3", m.year, m.month, len(windows))
		}
		if !windows[0].StartsOn.Equal(date(m.year, m.month, 1)) {
			t.Errorf("%s: first window starts %v, want day 1", m.month, windows[0].StartsOn)
		}
		if !windows[0].EndsOn.Equal(date(m.year, m.month, 10)) {
			t.Errorf("%s: first window ends %v, want day 10", m.month, windows[0].EndsOn)
		}
		if !windows[1].StartsOn.Equal(date(m.year, m.month, 11)) || !windows[1].EndsOn.Equal(date(m.year, m.month, 20)) {
			t.Errorf("%s: second window spans %v to %v, want 11 to 20", m.month, windows[1].StartsOn, windows[1].EndsOn)
		}
		if !windows[2].StartsOn.Equal(date(m.year, m.month, 21)) {
			t.Errorf("%s: third window starts %v, want day 21", m.month, windows[2].StartsOn)
		}
		if !windows[2].EndsOn.Equal(date(m.year, m.month, m.lastDay)) {
			t.Errorf("%s: third window ends %v, want day %d", m.month, windows[2].EndsOn, m.lastDay)
		}
		for i, w := range windows {
			if w.PeriodNumber != i+1 {
				t.Errorf("%s: window %d carries period number %d", m.month, i, w.PeriodNumber)
			}
			if w.Year != m.year || w.Month != int(m.month) {
				t.Errorf("%s: window %d carries key %d-%d", m.month, i, w.Year, w.Month)
			}
		}
	}
}

func TestWindowsForDeadlines(t *testing.T) {
	windows := WindowsFor(2026, time.March)
	if !windows[0].Deadline.Equal(date(2026, time.March, 12)) {
		t.Errorf("first deadline %v, want March 12", windows[0].Deadline)
	}
	if !windows[1].Deadline.Equal(date(2026, time.March, 22)) {
		t.Errorf("second deadline %v, want March 22", windows[1].Deadline)
	}
	if !windows[2].Deadline.Equal(date(2026, time.April, 2)) {
		t.Errorf("third deadline %v, want April 2", windows[2].Deadline)
	}
}

func TestWindowsForDecemberDeadlineRollsIntoNextYear(t *testing.T) {
	windows := WindowsFor(2026, time.December)
	want := date(2027, time.January, 2)
	if !windows[2].Deadline.Equal(want) {
		t.Fatalf("December third deadline %v, want %v", windows[2].Deadline, want)
	}
}

func TestWindowAt(t *testing.T) {
	cases := []struct {
		at   time.Time
		want int
	}{
		{date(2026, time.May, 1), 1},
		{date(2026, time.May, 10), 1},
		{time.Date(2026, time.May, 10, 23, 59, 0, 0, time.UTC), 1},
		{date(2026, time.May, 11), 2},
		{date(2026, time.May, 20), 2},
		{date(2026, time.May, 21), 3},
		{date(2026, time.May, 31), 3},
		{date(2024, time.February, 29), 3},
	}
	for _, tc := range cases {
		got := WindowAt(tc.at)
		if got.PeriodNumber != tc.want {
			t.Errorf("WindowAt(%v) = period %d, want %d", tc.at, got.PeriodNumber, tc.want)
		}
	}
}

func TestPreviousWindow(t *testing.T) {
	windows := WindowsFor(2026, time.June)

	prev := PreviousWindow(windows[1])
	if prev.PeriodNumber != 1 || prev.Month != 6 {
		t.Fatalf("previous of June P2 = %d-%02d P%d, want June P1", prev.Year, prev.Month, prev.PeriodNumber)
	}

	prev = PreviousWindow(windows[0])
	if prev.Year != 2026 || prev.Month != 5 || prev.PeriodNumber != 3 {
		t.Fatalf("previous of June P1 = %d-%02d P%d, want May P3", prev.Year, prev.Month, prev.PeriodNumber)
	}

	january := WindowsFor(2026, time.January)
	prev = PreviousWindow(january[0])
	if prev.Year != 2025 || prev.Month != 12 || prev.PeriodNumber != 3 {
		t.Fatalf("previous of January P1 = %d-%02d P%d, want December 2025 P3", prev.Year, prev.Month, prev.PeriodNumber)
	}
}
