package validator

import "github.com/riha-rota/riha-rota/pkg/core/model"

// DayCoverage is the staffing level of one day
type DayCoverage struct {
	Day          int
	WorkingCount int
	Minimum      int
}

// UnderCovered reports whether fewer staff work than the minimum
func (d DayCoverage) UnderCovered() bool {
	return d.WorkingCount < d.Minimum
}

// Shortage returns how many more working staff the day needs
func (d DayCoverage) Shortage() int {
	return max(d.Minimum-d.WorkingCount, 0)
}

// WorkingCount counts entries for day with IsWorking set
func WorkingCount(entries []model.ShiftEntry, day int) int {
	count := 0
	for _, e := range entries {
		if e.Date == day && e.IsWorking {
			count++
		}
	}
	return count
}

// CoverageByDay returns the coverage of every day 1..daysInMonth
func CoverageByDay(entries []model.ShiftEntry, daysInMonth, minimum int) []DayCoverage {
	counts := make([]int, daysInMonth+1)
	for _, e := range entries {
		if e.IsWorking && e.Date >= 1 && e.Date <= daysInMonth {
			counts[e.Date]++
		}
	}

	coverage := make([]DayCoverage, daysInMonth)
	for day := 1; day <= daysInMonth; day++ {
		coverage[day-1] = DayCoverage{Day: day, WorkingCount: counts[day], Minimum: minimum}
	}
	return coverage
}

// UnderCoveredDays returns the days, ascending, with fewer than minimum working staff
func UnderCoveredDays(entries []model.ShiftEntry, daysInMonth, minimum int) []int {
	days := []int{}
	for _, d := range CoverageByDay(entries, daysInMonth, minimum) {
		if d.UnderCovered() {
			days = append(days, d.Day)
		}
	}
	return days
}
