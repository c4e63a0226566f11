// Package validator checks a set of shift entries against the staffing rules.
//
// The checks are independent pure functions. Callers combine them as needed:
// the consecutive-day check produces the ValidationResult shown to operators,
// coverage drives under-staffed highlighting and the auto-adjust pass, and the
// weekly leave check verifies generator output.
package validator

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/riha-rota/riha-rota/pkg/core/model"
)

const (
	// DefaultConsecutiveDayLimit is the streak length that fails validation
	DefaultConsecutiveDayLimit = 5

	// DefaultMinimumStaff is the number of working staff a day needs to be covered
	DefaultMinimumStaff = 8
)

// Validate runs the consecutive-working-day check with the default limit
func Validate(entries []model.ShiftEntry) model.ValidationResult {
	return CheckConsecutiveDays(entries, DefaultConsecutiveDayLimit)
}

// CheckConsecutiveDays reports every staff member whose longest run of working days reaches limit.
// A day with no entry breaks a run the same way a leave day does.
func CheckConsecutiveDays(entries []model.ShiftEntry, limit int) model.ValidationResult {
	result := model.ValidationResult{
		IsValid:    true,
		Errors:     []string{},
		Violations: []model.StreakViolation{},
	}

	byStaff := groupByStaff(entries)
	staffIDs := make([]string, 0, len(byStaff))
	for id := range byStaff {
		staffIDs = append(staffIDs, id)
	}
	slices.Sort(staffIDs)

	for _, id := range staffIDs {
		longest := longestStreak(byStaff[id])
		if longest.Streak < limit {
			continue
		}
		result.Violations = append(result.Violations, longest)
		result.Errors = append(result.Errors, fmt.Sprintf(
			"staff %s: %d consecutive working days (days %d-%d)", id, longest.Streak, longest.StartDay, longest.EndDay))
	}

	result.IsValid = len(result.Errors) == 0
	return result
}

// longestStreak scans one staff member's entries in date order
func longestStreak(entries []model.ShiftEntry) model.StreakViolation {
	sorted := slices.Clone(entries)
	slices.SortStableFunc(sorted, func(a, b model.ShiftEntry) int {
		return cmp.Compare(a.Date, b.Date)
	})

	var best model.StreakViolation
	streak, start, prevDay := 0, 0, 0

	for _, e := range sorted {
		if streak > 0 && e.Date != prevDay+1 {
			// Missing day between entries
			streak = 0
		}
		prevDay = e.Date

		if !e.CountsAsWorking() {
			streak = 0
			continue
		}

		if streak == 0 {
			start = e.Date
		}
		streak++

		if streak > best.Streak {
			best = model.StreakViolation{StaffID: e.StaffID, Streak: streak, StartDay: start, EndDay: e.Date}
		}
	}

	return best
}

func groupByStaff(entries []model.ShiftEntry) map[string][]model.ShiftEntry {
	byStaff := make(map[string][]model.ShiftEntry)
	for _, e := range entries {
		byStaff[e.StaffID] = append(byStaff[e.StaffID], e)
	}
	return byStaff
}
