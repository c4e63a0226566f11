// Package adjuster repairs under-covered days by adding working entries for idle staff.
package adjuster

import (
	"errors"
	"math/rand/v2"
	"slices"

	"github.com/riha-rota/riha-rota/pkg/core/model"
	"github.com/riha-rota/riha-rota/pkg/core/validator"
)

// Config contains the inputs for an auto-adjust pass
type Config struct {
	// Entries is the current entry set; it is not modified
	Entries []model.ShiftEntry

	// Staff is the roster the pass may draw from
	Staff []model.StaffMember

	DaysInMonth int

	// MinimumStaff is the coverage threshold (defaults to validator.DefaultMinimumStaff)
	MinimumStaff int

	// Rand drives the choice among eligible staff
	Rand *rand.Rand
}

// Outcome is the result of an auto-adjust pass
type Outcome struct {
	// Adjusted is the original entries followed by the added ones
	Adjusted []model.ShiftEntry

	// Added holds only the new working entries
	Added []model.ShiftEntry

	// BeforeCount is the number of under-covered days before the pass
	BeforeCount int

	// AfterCount is the number of under-covered days after the pass
	AfterCount int

	// RemainingProblemDays are the days still under-covered
	RemainingProblemDays []int
}

// Improved reports whether the pass reduced the number of under-covered days.
// Callers commit Adjusted only when this is true.
func (o *Outcome) Improved() bool {
	return o.AfterCount < o.BeforeCount
}

// AutoAdjust fills under-covered days with staff whose cell is blank on that day.
// Existing entries are never modified or removed. When a day has fewer blank
// staff than its shortage, all of them are placed and the day stays under-covered.
func AutoAdjust(cfg Config) (*Outcome, error) {
	if cfg.Rand == nil {
		return nil, errors.New("auto-adjust requires a random source")
	}
	if cfg.DaysInMonth < 1 || cfg.DaysInMonth > 31 {
		return nil, model.ErrInvalidRange
	}
	minimum := cfg.MinimumStaff
	if minimum <= 0 {
		minimum = validator.DefaultMinimumStaff
	}

	problemDays := validator.UnderCoveredDays(cfg.Entries, cfg.DaysInMonth, minimum)
	outcome := &Outcome{
		Added:       []model.ShiftEntry{},
		BeforeCount: len(problemDays),
	}

	occupied := make(map[model.EntryKey]bool, len(cfg.Entries))
	for _, e := range cfg.Entries {
		occupied[e.Key()] = true
	}

	coverage := validator.CoverageByDay(cfg.Entries, cfg.DaysInMonth, minimum)

	for _, day := range problemDays {
		shortage := coverage[day-1].Shortage()

		var eligible []string
		for _, s := range cfg.Staff {
			key := model.EntryKey{StaffID: s.ID, Date: day}
			if !occupied[key] && !slices.Contains(eligible, s.ID) {
				eligible = append(eligible, s.ID)
			}
		}

		cfg.Rand.Shuffle(len(eligible), func(i, j int) {
			eligible[i], eligible[j] = eligible[j], eligible[i]
		})

		for _, staffID := range eligible[:min(shortage, len(eligible))] {
			entry := model.NewWorkingEntry(staffID, day)
			occupied[entry.Key()] = true
			outcome.Added = append(outcome.Added, entry)
		}
	}

	outcome.Adjusted = make([]model.ShiftEntry, 0, len(cfg.Entries)+len(outcome.Added))
	outcome.Adjusted = append(outcome.Adjusted, cfg.Entries...)
	outcome.Adjusted = append(outcome.Adjusted, outcome.Added...)

	outcome.RemainingProblemDays = validator.UnderCoveredDays(outcome.Adjusted, cfg.DaysInMonth, minimum)
	outcome.AfterCount = len(outcome.RemainingProblemDays)

	return outcome, nil
}
