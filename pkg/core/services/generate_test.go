package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/riha-rota/riha-rota/internal/config"
	"github.com/riha-rota/riha-rota/pkg/core/model"
	"github.com/riha-rota/riha-rota/pkg/core/validator"
	"github.com/riha-rota/riha-rota/pkg/db"
)

func TestGenerateMonth_SavesEveryCell(t *testing.T) {
	mock := newMockDB(teamRoster("north", 10)...)

	results, err := GenerateMonth(context.Background(), mock, testConfig(), zap.NewNop(), "north", june2025, 42, false)
	require.NoError(t, err)
	require.Len(t, results, 1)

	result := results[0]
	assert.Equal(t, "north", result.Team)
	assert.True(t, result.Committed)
	assert.Len(t, result.Entries, 10*30)
	assert.True(t, result.Report.WeeklyCompliant)
	require.NotNil(t, result.Report.Coverage)

	stored := mock.stored("north", june2025)
	assert.Equal(t, result.Entries, stored)
	assert.False(t, model.HasDuplicateKeys(stored))
	assert.Equal(t, 1, mock.updateCalls)
}

func TestGenerateMonth_DryRunDoesNotSave(t *testing.T) {
	mock := newMockDB(teamRoster("north", 4)...)

	results, err := GenerateMonth(context.Background(), mock, testConfig(), zap.NewNop(), "north", june2025, 1, true)
	require.NoError(t, err)

	assert.False(t, results[0].Committed)
	assert.Len(t, results[0].Entries, 4*30)
	assert.Zero(t, mock.updateCalls)
}

func TestGenerateMonth_SameSeedSameResult(t *testing.T) {
	run := func() []model.ShiftEntry {
		mock := newMockDB(teamRoster("north", 6)...)
		results, err := GenerateMonth(context.Background(), mock, testConfig(), zap.NewNop(), "north", june2025, 7, true)
		require.NoError(t, err)
		return results[0].Entries
	}

	assert.Equal(t, run(), run())
}

func TestGenerateMonth_PreservesManualEntries(t *testing.T) {
	staff := teamRoster("north", 5)
	mock := newMockDB(staff...)

	manual := model.NewLeaveEntry("north-03", 10, model.LeavePaid)
	manual.ManuallyEdited = true
	manual.OriginalStatus = "出勤"
	generated := model.NewLeaveEntry("north-04", 11, model.LeaveOff)
	mock.seed("north", june2025, manual, generated)

	results, err := GenerateMonth(context.Background(), mock, testConfig(), zap.NewNop(), "north", june2025, 3, false)
	require.NoError(t, err)

	assert.Equal(t, 1, results[0].ManualCount)

	kept, ok := find(mock.stored("north", june2025), "north-03", 10)
	require.True(t, ok)
	assert.Equal(t, manual, kept)

	regenerated, ok := find(mock.stored("north", june2025), "north-04", 11)
	require.True(t, ok)
	assert.False(t, regenerated.ManuallyEdited)
}

func TestGenerateMonth_AllTeams(t *testing.T) {
	staff := append(teamRoster("south", 3), teamRoster("north", 4)...)
	mock := newMockDB(staff...)

	results, err := GenerateMonth(context.Background(), mock, testConfig(), zap.NewNop(), "", june2025, 5, false)
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, "north", results[0].Team)
	assert.Equal(t, "south", results[1].Team)
	assert.Len(t, mock.stored("north", june2025), 4*30)
	assert.Len(t, mock.stored("south", june2025), 3*30)

	for _, e := range mock.stored("south", june2025) {
		assert.Contains(t, e.StaffID, "south-")
	}
}

func TestGenerateMonth_StandingLeave(t *testing.T) {
	mock := newMockDB(teamRoster("north", 6)...)

	// Manual edit on a Saturday wins over the standing rule
	manual := model.NewWorkingEntry("north-05", 7)
	manual.ManuallyEdited = true
	mock.seed("north", june2025, manual)

	cfg := testConfig()
	cfg.StandingLeave = []config.StandingLeave{
		{RRule: "FREQ=WEEKLY;BYDAY=SA", StaffIDs: []string{"north-05", "someone-else"}, Status: "希望休"},
	}

	results, err := GenerateMonth(context.Background(), mock, cfg, zap.NewNop(), "north", june2025, 9, false)
	require.NoError(t, err)

	// June 2025 Saturdays: 7, 14, 21, 28
	assert.Equal(t, 3, results[0].StandingCount)

	stored := mock.stored("north", june2025)
	for _, day := range []int{14, 21, 28} {
		e, ok := find(stored, "north-05", day)
		require.True(t, ok)
		require.NotNil(t, e.LeaveType, "day %d", day)
		assert.Equal(t, model.LeaveRequested, *e.LeaveType)
		assert.True(t, e.ManuallyEdited)
	}

	saturday, ok := find(stored, "north-05", 7)
	require.True(t, ok)
	assert.True(t, saturday.IsWorking)
}

func TestGenerateMonth_PolicyFetchFailureUsesDefaults(t *testing.T) {
	mock := newMockDB(teamRoster("north", 3)...)
	mock.getPolicyErr = errors.New("connection refused")

	results, err := GenerateMonth(context.Background(), mock, testConfig(), zap.NewNop(), "north", june2025, 11, true)
	require.NoError(t, err)

	assert.True(t, validator.WeeklyLeaveCompliant(results[0].Entries, june2025, model.DefaultPolicySettings()))
}

func TestGenerateMonth_UsesStoredPolicy(t *testing.T) {
	mock := newMockDB(teamRoster("north", 3)...)
	policy := model.PolicySettings{WeeklyFiveShifts: false, WeekStartsOnSunday: false}
	mock.policy = &db.PolicySettings{WeeklyFiveShifts: false, WeekStartsOnSunday: false}

	results, err := GenerateMonth(context.Background(), mock, testConfig(), zap.NewNop(), "north", june2025, 11, true)
	require.NoError(t, err)

	assert.True(t, validator.WeeklyLeaveCompliant(results[0].Entries, june2025, policy))
}

func TestGenerateMonth_Errors(t *testing.T) {
	mock := newMockDB(teamRoster("north", 3)...)
	ctx := context.Background()

	_, err := GenerateMonth(ctx, mock, testConfig(), zap.NewNop(), "west", june2025, 1, true)
	assert.ErrorIs(t, err, ErrUnknownTeam)

	_, err = GenerateMonth(ctx, mock, testConfig(), zap.NewNop(), "north", model.Month{Year: 2025, Month: 13}, 1, true)
	assert.ErrorIs(t, err, model.ErrInvalidMonth)

	mock.updateErr = errors.New("deadlock")
	_, err = GenerateMonth(ctx, mock, testConfig(), zap.NewNop(), "north", june2025, 1, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to save entries")
}

func TestGenerateMonth_FailedTeamReturnsSavedTeams(t *testing.T) {
	mock := newMockDB(append(teamRoster("north", 3), teamRoster("south", 3)...)...)
	mock.updateErr = errors.New("connection reset")
	mock.updateErrTeam = "south"

	results, err := GenerateMonth(context.Background(), mock, testConfig(), zap.NewNop(), "", june2025, 4, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "south")

	require.Len(t, results, 1)
	assert.Equal(t, "north", results[0].Team)
	assert.True(t, results[0].Committed)
	assert.Equal(t, results[0].Entries, mock.stored("north", june2025))
	assert.Empty(t, mock.stored("south", june2025))
}

func TestGenerateMonth_KeepsManualEntrySavedDuringRun(t *testing.T) {
	mock := newMockDB(teamRoster("north", 5)...)
	ctx := context.Background()

	mock.beforeUpdate = func(team string) {
		mock.beforeUpdate = nil
		_, err := SetCell(ctx, mock, testConfig(), zap.NewNop(), "north", june2025, "north-02", 17, model.Status(model.LeavePaid))
		require.NoError(t, err)
	}

	results, err := GenerateMonth(ctx, mock, testConfig(), zap.NewNop(), "north", june2025, 8, false)
	require.NoError(t, err)
	assert.Equal(t, 1, results[0].ManualCount)

	e, ok := find(mock.stored("north", june2025), "north-02", 17)
	require.True(t, ok)
	assert.True(t, e.ManuallyEdited)
	require.NotNil(t, e.LeaveType)
	assert.Equal(t, model.LeavePaid, *e.LeaveType)
}

func TestOccurrenceDays(t *testing.T) {
	days, err := occurrenceDays("FREQ=WEEKLY;BYDAY=SA,SU", june2025)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 7, 8, 14, 15, 21, 22, 28, 29}, days)

	days, err = occurrenceDays("FREQ=MONTHLY;BYMONTHDAY=-1", june2025)
	require.NoError(t, err)
	assert.Equal(t, []int{30}, days)

	_, err = occurrenceDays("NOT_A_RULE", june2025)
	assert.Error(t, err)
}
