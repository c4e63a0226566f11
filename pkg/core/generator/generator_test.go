package generator

import (
	"fmt"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riha-rota/riha-rota/pkg/core/model"
)

// June 2025 starts on a Sunday and has 30 days
var june2025 = model.Month{Year: 2025, Month: time.June}

func newRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

func generalStaff(n int) []model.StaffMember {
	staff := make([]model.StaffMember, n)
	for i := range staff {
		staff[i] = model.StaffMember{
			ID:         fmt.Sprintf("s%02d", i+1),
			Name:       fmt.Sprintf("Staff %d", i+1),
			Team:       "A",
			Position:   model.PositionGeneral,
			Profession: model.ProfessionPT,
			Years:      i,
		}
	}
	return staff
}

func withSeniorPair(n int) []model.StaffMember {
	staff := generalStaff(n)
	staff[0].ID = "chief"
	staff[0].Position = model.PositionChief
	staff[1].ID = "deputy"
	staff[1].Position = model.PositionDeputyChief
	return staff
}

func entriesByKey(entries []model.ShiftEntry) map[model.EntryKey]model.ShiftEntry {
	m := make(map[model.EntryKey]model.ShiftEntry, len(entries))
	for _, e := range entries {
		m[e.Key()] = e
	}
	return m
}

func leaveCount(entries map[model.EntryKey]model.ShiftEntry, staffID string, days []int) int {
	count := 0
	for _, d := range days {
		if e, ok := entries[model.EntryKey{StaffID: staffID, Date: d}]; ok && e.IsLeave() {
			count++
		}
	}
	return count
}

func TestGenerate_TenStaffFiveShiftMonth(t *testing.T) {
	staff := generalStaff(10)

	entries, err := Generate(Config{
		Staff:  staff,
		Month:  june2025,
		Policy: model.PolicySettings{WeeklyFiveShifts: true, WeekStartsOnSunday: true},
		Rand:   newRand(1),
	})
	require.NoError(t, err)

	require.Len(t, entries, 300)
	assert.False(t, model.HasDuplicateKeys(entries))

	byKey := entriesByKey(entries)
	for _, week := range model.Weeks(june2025, true) {
		if !week.IsComplete() {
			continue
		}
		for _, s := range staff {
			assert.Equal(t, 2, leaveCount(byKey, s.ID, week.InMonthDays()),
				"staff %s week starting %s", s.ID, week.Start.Format("2006-01-02"))
		}
	}
}

func TestGenerate_OneLeaveDayPerWeekPolicy(t *testing.T) {
	staff := generalStaff(6)
	policy := model.PolicySettings{WeeklyFiveShifts: false, WeekStartsOnSunday: false}

	entries, err := Generate(Config{Staff: staff, Month: june2025, Policy: policy, Rand: newRand(7)})
	require.NoError(t, err)

	byKey := entriesByKey(entries)
	for _, week := range model.Weeks(june2025, false) {
		if !week.IsComplete() {
			continue
		}
		for _, s := range staff {
			assert.Equal(t, 1, leaveCount(byKey, s.ID, week.InMonthDays()))
		}
	}
}

func TestGenerate_PartialWeeksNeverExceedWeeklyLeave(t *testing.T) {
	staff := generalStaff(5)

	for seed := range uint64(20) {
		entries, err := Generate(Config{
			Staff:  staff,
			Month:  june2025,
			Policy: model.DefaultPolicySettings(),
			Rand:   newRand(seed),
		})
		require.NoError(t, err)

		byKey := entriesByKey(entries)
		for _, week := range model.Weeks(june2025, true) {
			for _, s := range staff {
				assert.LessOrEqual(t, leaveCount(byKey, s.ID, week.InMonthDays()), 2)
			}
		}
	}
}

func TestGenerate_EntryShape(t *testing.T) {
	entries, err := Generate(Config{
		Staff:  generalStaff(3),
		Month:  june2025,
		Policy: model.DefaultPolicySettings(),
		Rand:   newRand(3),
	})
	require.NoError(t, err)

	for _, e := range entries {
		require.NoError(t, e.Validate())
		assert.False(t, e.ManuallyEdited)
		assert.Empty(t, e.OriginalStatus)
		if e.IsWorking {
			assert.Nil(t, e.LeaveType)
		} else {
			require.NotNil(t, e.LeaveType)
			assert.Equal(t, model.LeaveOff, *e.LeaveType, "generated leave uses the canonical leave type")
		}
	}
}

func TestGenerate_CustomLeaveType(t *testing.T) {
	entries, err := Generate(Config{
		Staff:     generalStaff(2),
		Month:     june2025,
		Policy:    model.DefaultPolicySettings(),
		LeaveType: model.LeaveRequested,
		Rand:      newRand(3),
	})
	require.NoError(t, err)

	for _, e := range entries {
		if e.IsLeave() {
			assert.Equal(t, model.LeaveRequested, *e.LeaveType)
		}
	}
}

func TestGenerate_SeniorPairCoverage(t *testing.T) {
	staff := withSeniorPair(8)

	for seed := range uint64(50) {
		entries, err := Generate(Config{
			Staff:  staff,
			Month:  june2025,
			Policy: model.DefaultPolicySettings(),
			Rand:   newRand(seed),
		})
		require.NoError(t, err)

		byKey := entriesByKey(entries)
		for day := 1; day <= june2025.DaysInMonth(); day++ {
			chief := byKey[model.EntryKey{StaffID: "chief", Date: day}]
			deputy := byKey[model.EntryKey{StaffID: "deputy", Date: day}]
			assert.True(t, chief.IsWorking || deputy.IsWorking, "seed %d day %d: both seniors off", seed, day)
		}
	}
}

func TestGenerate_SeniorPairKeepsWeeklyLeaveCount(t *testing.T) {
	staff := withSeniorPair(4)

	entries, err := Generate(Config{
		Staff:  staff,
		Month:  june2025,
		Policy: model.DefaultPolicySettings(),
		Rand:   newRand(11),
	})
	require.NoError(t, err)

	byKey := entriesByKey(entries)
	for _, week := range model.Weeks(june2025, true) {
		if !week.IsComplete() {
			continue
		}
		assert.Equal(t, 2, leaveCount(byKey, "chief", week.InMonthDays()))
		assert.Equal(t, 2, leaveCount(byKey, "deputy", week.InMonthDays()))
	}
}

func TestGenerate_SeniorWorksWhenPartnerManuallyOnLeave(t *testing.T) {
	staff := withSeniorPair(4)

	var existing []model.ShiftEntry
	for day := 1; day <= 7; day++ {
		e := model.NewLeaveEntry("chief", day, model.LeavePaid)
		e.ManuallyEdited = true
		existing = append(existing, e)
	}

	entries, err := Generate(Config{
		Staff:           staff,
		Month:           june2025,
		ExistingEntries: existing,
		Policy:          model.DefaultPolicySettings(),
		Rand:            newRand(5),
	})
	require.NoError(t, err)

	byKey := entriesByKey(entries)
	for day := 1; day <= 7; day++ {
		assert.True(t, byKey[model.EntryKey{StaffID: "deputy", Date: day}].IsWorking, "day %d", day)
	}
}

func TestGenerate_PreservesManualEdits(t *testing.T) {
	staff := generalStaff(4)

	paid := model.NewLeaveEntry("s01", 3, model.LeavePaid)
	paid.ManuallyEdited = true
	paid.OriginalStatus = "出勤"

	working := model.NewWorkingEntry("s02", 10)
	working.ManuallyEdited = true
	working.OriginalStatus = "休み"

	notManual := model.NewLeaveEntry("s03", 12, model.LeaveSummer)

	entries, err := Generate(Config{
		Staff:           staff,
		Month:           june2025,
		ExistingEntries: []model.ShiftEntry{paid, working, notManual},
		Policy:          model.DefaultPolicySettings(),
		Rand:            newRand(9),
	})
	require.NoError(t, err)
	require.Len(t, entries, 4*30)
	assert.False(t, model.HasDuplicateKeys(entries))

	byKey := entriesByKey(entries)
	assert.True(t, paid.Equal(byKey[paid.Key()]))
	assert.True(t, working.Equal(byKey[working.Key()]))

	regenerated := byKey[notManual.Key()]
	assert.False(t, regenerated.ManuallyEdited)
	if regenerated.IsLeave() {
		assert.Equal(t, model.LeaveOff, *regenerated.LeaveType)
	}
}

func TestGenerate_ManualDayDoesNotTakeLeaveSlot(t *testing.T) {
	staff := generalStaff(1)

	// A manual working day inside the first full week leaves six candidate days for two leave slots
	manual := model.NewWorkingEntry("s01", 2)
	manual.ManuallyEdited = true

	for seed := range uint64(30) {
		entries, err := Generate(Config{
			Staff:           staff,
			Month:           june2025,
			ExistingEntries: []model.ShiftEntry{manual},
			Policy:          model.DefaultPolicySettings(),
			Rand:            newRand(seed),
		})
		require.NoError(t, err)

		byKey := entriesByKey(entries)
		assert.Equal(t, 2, leaveCount(byKey, "s01", []int{1, 2, 3, 4, 5, 6, 7}), "seed %d", seed)
	}
}

func TestGenerate_SameSeedSameOutput(t *testing.T) {
	cfg := func() Config {
		return Config{
			Staff:  withSeniorPair(10),
			Month:  june2025,
			Policy: model.DefaultPolicySettings(),
			Rand:   newRand(42),
		}
	}

	first, err := Generate(cfg())
	require.NoError(t, err)
	second, err := Generate(cfg())
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestGenerate_RosterOrder(t *testing.T) {
	staff := withSeniorPair(3)
	// Put the general member first in the input
	staff[0], staff[2] = staff[2], staff[0]

	entries, err := Generate(Config{Staff: staff, Month: june2025, Policy: model.DefaultPolicySettings(), Rand: newRand(1)})
	require.NoError(t, err)

	assert.Equal(t, "chief", entries[0].StaffID)
	assert.Equal(t, 1, entries[0].Date)
	assert.Equal(t, "deputy", entries[30].StaffID)
}

func TestGenerate_InvalidInput(t *testing.T) {
	_, err := Generate(Config{Staff: generalStaff(1), Month: model.Month{Year: 2025, Month: 0}, Rand: newRand(1)})
	assert.ErrorIs(t, err, model.ErrInvalidMonth)

	_, err = Generate(Config{Staff: generalStaff(1), Month: june2025})
	assert.Error(t, err)

	_, err = Generate(Config{Staff: generalStaff(1), Month: june2025, LeaveType: "休", Rand: newRand(1)})
	assert.ErrorIs(t, err, model.ErrInvalidStatus)
}

func TestGenerate_EmptyRoster(t *testing.T) {
	entries, err := Generate(Config{Month: june2025, Policy: model.DefaultPolicySettings(), Rand: newRand(1)})
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestGenerate_RejectsManualEntryOutsideMonth(t *testing.T) {
	for _, day := range []int{0, 31, -3} {
		t.Run(fmt.Sprintf("day %d", day), func(t *testing.T) {
			manual := model.NewLeaveEntry("s01", day, model.LeavePaid)
			manual.ManuallyEdited = true

			_, err := Generate(Config{
				Staff:           generalStaff(2),
				Month:           june2025,
				ExistingEntries: []model.ShiftEntry{manual},
				Policy:          model.DefaultPolicySettings(),
				Rand:            newRand(1),
			})
			assert.ErrorIs(t, err, model.ErrInvalidRange)
		})
	}
}

func TestGenerate_IgnoresGeneratedEntryOutsideMonth(t *testing.T) {
	stale := model.NewLeaveEntry("s01", 31, model.LeaveOff)

	entries, err := Generate(Config{
		Staff:           generalStaff(2),
		Month:           june2025,
		ExistingEntries: []model.ShiftEntry{stale},
		Policy:          model.DefaultPolicySettings(),
		Rand:            newRand(1),
	})
	require.NoError(t, err)

	assert.Len(t, entries, 2*30)
	for _, e := range entries {
		assert.True(t, june2025.Contains(e.Date))
	}
}
