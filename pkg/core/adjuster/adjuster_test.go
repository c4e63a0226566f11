package adjuster

import (
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riha-rota/riha-rota/pkg/core/model"
	"github.com/riha-rota/riha-rota/pkg/core/validator"
)

func newRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed+1))
}

func makeStaff(n int) []model.StaffMember {
	staff := make([]model.StaffMember, n)
	for i := range staff {
		staff[i] = model.StaffMember{ID: fmt.Sprintf("s%02d", i+1), Position: model.PositionGeneral}
	}
	return staff
}

// fullyCovered gives every day 1..days minimum working entries from staff s01..s08
func fullyCovered(days int) []model.ShiftEntry {
	var entries []model.ShiftEntry
	for day := 1; day <= days; day++ {
		for i := 1; i <= 8; i++ {
			entries = append(entries, model.NewWorkingEntry(fmt.Sprintf("s%02d", i), day))
		}
	}
	return entries
}

func TestAutoAdjust_FillsShortageFromBlankStaff(t *testing.T) {
	staff := makeStaff(10)

	// Day 1: five working, two on leave, three blank (s08, s09, s10)
	entries := []model.ShiftEntry{
		model.NewWorkingEntry("s01", 1),
		model.NewWorkingEntry("s02", 1),
		model.NewWorkingEntry("s03", 1),
		model.NewWorkingEntry("s04", 1),
		model.NewWorkingEntry("s05", 1),
		model.NewLeaveEntry("s06", 1, model.LeaveOff),
		model.NewLeaveEntry("s07", 1, model.LeavePaid),
	}

	outcome, err := AutoAdjust(Config{Entries: entries, Staff: staff, DaysInMonth: 1, MinimumStaff: 8, Rand: newRand(1)})
	require.NoError(t, err)

	assert.Equal(t, 1, outcome.BeforeCount)
	assert.Equal(t, 0, outcome.AfterCount)
	assert.True(t, outcome.Improved())
	assert.Empty(t, outcome.RemainingProblemDays)

	require.Len(t, outcome.Added, 3)
	var added []string
	for _, e := range outcome.Added {
		assert.Equal(t, 1, e.Date)
		assert.True(t, e.IsWorking)
		assert.Nil(t, e.LeaveType)
		assert.False(t, e.ManuallyEdited)
		added = append(added, e.StaffID)
	}
	assert.ElementsMatch(t, []string{"s08", "s09", "s10"}, added)

	assert.Len(t, outcome.Adjusted, len(entries)+3)
	assert.False(t, model.HasDuplicateKeys(outcome.Adjusted))
}

func TestAutoAdjust_InsufficientEligibleStaff(t *testing.T) {
	staff := makeStaff(6)
	var entries []model.ShiftEntry
	for i := 1; i <= 3; i++ {
		entries = append(entries, model.NewWorkingEntry(fmt.Sprintf("s%02d", i), 1))
	}

	outcome, err := AutoAdjust(Config{Entries: entries, Staff: staff, DaysInMonth: 1, MinimumStaff: 8, Rand: newRand(2)})
	require.NoError(t, err)

	assert.Len(t, outcome.Added, 3)
	assert.Equal(t, 1, outcome.BeforeCount)
	assert.Equal(t, 1, outcome.AfterCount)
	assert.False(t, outcome.Improved())
	assert.Equal(t, []int{1}, outcome.RemainingProblemDays)
}

func TestAutoAdjust_TakesOnlyShortage(t *testing.T) {
	staff := makeStaff(20)
	var entries []model.ShiftEntry
	for i := 1; i <= 6; i++ {
		entries = append(entries, model.NewWorkingEntry(fmt.Sprintf("s%02d", i), 1))
	}

	outcome, err := AutoAdjust(Config{Entries: entries, Staff: staff, DaysInMonth: 1, MinimumStaff: 8, Rand: newRand(3)})
	require.NoError(t, err)

	assert.Len(t, outcome.Added, 2)
	assert.Equal(t, 8, validator.WorkingCount(outcome.Adjusted, 1))
}

func TestAutoAdjust_DoesNotTouchCoveredDaysOrExistingEntries(t *testing.T) {
	staff := makeStaff(12)
	entries := fullyCovered(5)

	// Remove coverage from day 3 so it becomes a problem day
	var withGap []model.ShiftEntry
	for _, e := range entries {
		if e.Date == 3 && (e.StaffID == "s01" || e.StaffID == "s02") {
			continue
		}
		withGap = append(withGap, e)
	}
	snapshot := append([]model.ShiftEntry(nil), withGap...)

	outcome, err := AutoAdjust(Config{Entries: withGap, Staff: staff, DaysInMonth: 5, Rand: newRand(4)})
	require.NoError(t, err)

	assert.Equal(t, snapshot, withGap, "input is not modified")
	assert.Equal(t, snapshot, outcome.Adjusted[:len(snapshot)], "existing entries are kept as-is")

	for _, day := range []int{1, 2, 4, 5} {
		assert.Equal(t, validator.WorkingCount(withGap, day), validator.WorkingCount(outcome.Adjusted, day))
	}
	for _, e := range outcome.Added {
		assert.Equal(t, 3, e.Date)
	}
}

func TestAutoAdjust_Monotonic(t *testing.T) {
	staff := makeStaff(9)

	for seed := range uint64(25) {
		r := newRand(seed)
		var entries []model.ShiftEntry
		for day := 1; day <= 30; day++ {
			for _, s := range staff {
				switch r.IntN(3) {
				case 0:
					entries = append(entries, model.NewWorkingEntry(s.ID, day))
				case 1:
					entries = append(entries, model.NewLeaveEntry(s.ID, day, model.LeaveOff))
				}
			}
		}

		outcome, err := AutoAdjust(Config{Entries: entries, Staff: staff, DaysInMonth: 30, MinimumStaff: 8, Rand: newRand(seed)})
		require.NoError(t, err)

		assert.LessOrEqual(t, outcome.AfterCount, outcome.BeforeCount)
		assert.False(t, model.HasDuplicateKeys(outcome.Adjusted))
	}
}

func TestAutoAdjust_NoProblemDays(t *testing.T) {
	outcome, err := AutoAdjust(Config{Entries: fullyCovered(3), Staff: makeStaff(8), DaysInMonth: 3, Rand: newRand(1)})
	require.NoError(t, err)

	assert.Equal(t, 0, outcome.BeforeCount)
	assert.Equal(t, 0, outcome.AfterCount)
	assert.Empty(t, outcome.Added)
	assert.False(t, outcome.Improved())
}

func TestAutoAdjust_InvalidInput(t *testing.T) {
	_, err := AutoAdjust(Config{DaysInMonth: 30})
	assert.Error(t, err)

	_, err = AutoAdjust(Config{DaysInMonth: 0, Rand: newRand(1)})
	assert.ErrorIs(t, err, model.ErrInvalidRange)
}
