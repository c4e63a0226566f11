package services

import (
	"cmp"
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/riha-rota/riha-rota/internal/config"
	"github.com/riha-rota/riha-rota/pkg/core/model"
	"github.com/riha-rota/riha-rota/pkg/core/roster"
	"github.com/riha-rota/riha-rota/pkg/core/validator"
	"github.com/riha-rota/riha-rota/pkg/db"
)

var (
	// ErrTeamRequired is returned by operations that edit a single team's month
	ErrTeamRequired = errors.New("team is required")

	// ErrUnknownTeam is returned when no staff belong to the requested team
	ErrUnknownTeam = errors.New("unknown team")

	// ErrUnknownStaff is returned when an edit names staff outside the team
	ErrUnknownStaff = errors.New("unknown staff")
)

// MonthReport holds the diagnostics for one team's month
type MonthReport struct {
	Team             string
	Month            model.Month
	Validation       model.ValidationResult
	Coverage         []validator.DayCoverage
	UnderCoveredDays []int
	WeeklyCompliant  bool
}

// buildReport runs every check over a team's entries
func buildReport(team string, month model.Month, entries []model.ShiftEntry, policy model.PolicySettings, cfg *config.Config) *MonthReport {
	minimum := minimumStaff(cfg, team)
	days := month.DaysInMonth()

	return &MonthReport{
		Team:             team,
		Month:            month,
		Validation:       validator.CheckConsecutiveDays(entries, cmp.Or(cfg.ConsecutiveDayLimit, validator.DefaultConsecutiveDayLimit)),
		Coverage:         validator.CoverageByDay(entries, days, minimum),
		UnderCoveredDays: validator.UnderCoveredDays(entries, days, minimum),
		WeeklyCompliant:  validator.WeeklyLeaveCompliant(entries, month, policy),
	}
}

func minimumStaff(cfg *config.Config, team string) int {
	return cmp.Or(cfg.MinimumStaffFor(team), validator.DefaultMinimumStaff)
}

func logReport(logger *zap.Logger, report *MonthReport) {
	fields := []zap.Field{
		zap.String("team", report.Team),
		zap.String("month", report.Month.String()),
		zap.Bool("valid", report.Validation.IsValid),
		zap.Int("streak_errors", len(report.Validation.Errors)),
		zap.Ints("under_covered_days", report.UnderCoveredDays),
		zap.Bool("weekly_compliant", report.WeeklyCompliant),
	}
	if report.Validation.IsValid && len(report.UnderCoveredDays) == 0 {
		logger.Info("Month passes all checks", fields...)
		return
	}
	logger.Warn("Month has problems", fields...)
}

// ValidateStore defines the database operations needed for validating a month
type ValidateStore interface {
	db.StaffStore
	db.PolicyStore
	entryReader
}

// ValidateMonth reports diagnostics for one team, or every team when team is empty
func ValidateMonth(
	ctx context.Context,
	store ValidateStore,
	cfg *config.Config,
	logger *zap.Logger,
	team string,
	month model.Month,
) ([]*MonthReport, error) {
	if err := month.Validate(); err != nil {
		return nil, err
	}

	staff, err := fetchStaff(ctx, store, logger)
	if err != nil {
		return nil, err
	}
	teams, err := resolveTeams(staff, team)
	if err != nil {
		return nil, err
	}

	policy := LoadPolicy(ctx, store, logger)

	reports := make([]*MonthReport, 0, len(teams))
	for _, t := range teams {
		entries, err := fetchEntries(ctx, store, t, month)
		if err != nil {
			return nil, err
		}
		report := buildReport(t, month, entries, policy, cfg)
		logReport(logger, report)
		reports = append(reports, report)
	}
	return reports, nil
}

func fetchStaff(ctx context.Context, store db.StaffStore, logger *zap.Logger) ([]model.StaffMember, error) {
	rows, err := store.GetStaff(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch staff: %w", err)
	}

	staff := make([]model.StaffMember, len(rows))
	for i, r := range rows {
		staff[i] = r.ToModel()
	}
	logger.Debug("Fetched staff", zap.Int("count", len(staff)))
	return staff, nil
}

type entryReader interface {
	GetShiftEntries(ctx context.Context, team, month string) ([]db.ShiftEntry, error)
}

func fetchEntries(ctx context.Context, store entryReader, team string, month model.Month) ([]model.ShiftEntry, error) {
	rows, err := store.GetShiftEntries(ctx, team, month.String())
	if err != nil {
		return nil, fmt.Errorf("failed to fetch shift entries for %s %s: %w", team, month, err)
	}
	entries, err := db.ShiftEntriesToModel(rows)
	if err != nil {
		return nil, fmt.Errorf("stored entries for %s %s are invalid: %w", team, month, err)
	}
	return entries, nil
}

// updateEntries runs edit over a team's month inside the store's (team, month) lock and saves
// what it returns. Errors from edit come back unchanged and leave the month as it was;
// returning db.SkipUpdate from edit is not an error.
func updateEntries(
	ctx context.Context,
	store db.ShiftEntryStore,
	team string,
	month model.Month,
	edit func(entries []model.ShiftEntry) ([]model.ShiftEntry, error),
) error {
	var editErr error
	err := store.UpdateShiftEntries(ctx, team, month.String(), func(rows []db.ShiftEntry) ([]db.ShiftEntry, error) {
		entries, err := db.ShiftEntriesToModel(rows)
		if err != nil {
			editErr = fmt.Errorf("stored entries for %s %s are invalid: %w", team, month, err)
			return nil, editErr
		}
		updated, err := edit(entries)
		if err != nil {
			editErr = err
			return nil, err
		}
		return db.ShiftEntriesFromModel(team, month, updated), nil
	})

	switch {
	case errors.Is(editErr, db.SkipUpdate):
		return nil
	case editErr != nil:
		return editErr
	case err != nil:
		return fmt.Errorf("failed to save entries for %s %s: %w", team, month, err)
	}
	return nil
}

// resolveTeams returns the requested team, or every team on the roster when team is empty
func resolveTeams(staff []model.StaffMember, team string) ([]string, error) {
	teams := roster.Teams(staff)
	if team == "" {
		if len(teams) == 0 {
			return nil, errors.New("no staff on the roster")
		}
		return teams, nil
	}
	for _, t := range teams {
		if t == team {
			return []string{team}, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownTeam, team)
}

// teamStaff returns the sorted roster of one team
func teamStaff(staff []model.StaffMember, team string) []model.StaffMember {
	return roster.ByTeam(staff)[team]
}
