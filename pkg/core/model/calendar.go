package model

import "time"

// Week is a calendar week overlapping a month.
// Days holds the day of month for each offset from the week start, or 0 when
// that date belongs to the adjacent month.
type Week struct {
	Start time.Time
	Days  [7]int
}

// IsComplete reports whether all seven days fall inside the month
func (w Week) IsComplete() bool {
	for _, d := range w.Days {
		if d == 0 {
			return false
		}
	}
	return true
}

// InMonthDays returns the days of the week that belong to the month
func (w Week) InMonthDays() []int {
	days := make([]int, 0, 7)
	for _, d := range w.Days {
		if d != 0 {
			days = append(days, d)
		}
	}
	return days
}

// Weeks partitions the month into calendar weeks starting on Sunday or Monday
func Weeks(m Month, startsOnSunday bool) []Week {
	first := m.Date(1)
	startDay := time.Monday
	if startsOnSunday {
		startDay = time.Sunday
	}

	back := (int(first.Weekday()) - int(startDay) + 7) % 7
	weekStart := first.AddDate(0, 0, -back)
	last := m.Date(m.DaysInMonth())

	var weeks []Week
	for !weekStart.After(last) {
		week := Week{Start: weekStart}
		for offset := range 7 {
			date := weekStart.AddDate(0, 0, offset)
			if date.Year() == m.Year && date.Month() == m.Month {
				week.Days[offset] = date.Day()
			}
		}
		weeks = append(weeks, week)
		weekStart = weekStart.AddDate(0, 0, 7)
	}
	return weeks
}
