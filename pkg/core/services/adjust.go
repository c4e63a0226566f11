package services

import (
	"context"
	"fmt"
	"math/rand/v2"

	"go.uber.org/zap"

	"github.com/riha-rota/riha-rota/internal/config"
	"github.com/riha-rota/riha-rota/pkg/core/adjuster"
	"github.com/riha-rota/riha-rota/pkg/core/model"
	"github.com/riha-rota/riha-rota/pkg/db"
)

// AdjustResult represents the outcome of an auto-adjust pass over one team's month
type AdjustResult struct {
	Team      string
	Outcome   *adjuster.Outcome
	Report    *MonthReport
	Committed bool
}

// AutoAdjustMonth fills under-covered days for one team, or every team when team is empty.
// The adjusted entries are saved only when the pass reduced the number of under-covered days.
// If a team fails, the results of the teams before it are returned with the error.
func AutoAdjustMonth(
	ctx context.Context,
	store MonthStore,
	cfg *config.Config,
	logger *zap.Logger,
	team string,
	month model.Month,
	seed uint64,
	dryRun bool,
) ([]*AdjustResult, error) {
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
	r := newRand(seed)

	results := make([]*AdjustResult, 0, len(teams))
	for _, t := range teams {
		result, err := adjustTeamMonth(ctx, store, cfg, logger, t, teamStaff(staff, t), month, policy, r, dryRun)
		if err != nil {
			logger.Error("Auto-adjust stopped",
				zap.String("failed_team", t),
				zap.Strings("done_teams", resultTeams(results)),
				zap.Error(err))
			return results, err
		}
		results = append(results, result)
	}

	return results, nil
}

func adjustTeamMonth(
	ctx context.Context,
	store MonthStore,
	cfg *config.Config,
	logger *zap.Logger,
	team string,
	members []model.StaffMember,
	month model.Month,
	policy model.PolicySettings,
	r *rand.Rand,
	dryRun bool,
) (*AdjustResult, error) {
	var entries []model.ShiftEntry
	var outcome *adjuster.Outcome

	adjust := func(current []model.ShiftEntry) error {
		var err error
		entries = current
		outcome, err = adjuster.AutoAdjust(adjuster.Config{
			Entries:      current,
			Staff:        members,
			DaysInMonth:  month.DaysInMonth(),
			MinimumStaff: minimumStaff(cfg, team),
			Rand:         r,
		})
		if err != nil {
			return fmt.Errorf("failed to auto-adjust %s %s: %w", team, month, err)
		}
		return nil
	}

	if dryRun {
		current, err := fetchEntries(ctx, store, team, month)
		if err != nil {
			return nil, err
		}
		if err := adjust(current); err != nil {
			return nil, err
		}
	} else {
		err := updateEntries(ctx, store, team, month, func(current []model.ShiftEntry) ([]model.ShiftEntry, error) {
			if err := adjust(current); err != nil {
				return nil, err
			}
			if !outcome.Improved() {
				return nil, db.SkipUpdate
			}
			return outcome.Adjusted, nil
		})
		if err != nil {
			return nil, err
		}
	}

	logger.Info("Auto-adjust pass complete",
		zap.String("team", team),
		zap.String("month", month.String()),
		zap.Int("before", outcome.BeforeCount),
		zap.Int("after", outcome.AfterCount),
		zap.Int("added", len(outcome.Added)),
		zap.Ints("remaining_days", outcome.RemainingProblemDays))

	result := &AdjustResult{Team: team, Outcome: outcome}

	if !outcome.Improved() {
		logger.Info("No improvement, discarding adjustment", zap.String("team", team))
		result.Report = buildReport(team, month, entries, policy, cfg)
		return result, nil
	}

	result.Report = buildReport(team, month, outcome.Adjusted, policy, cfg)
	logReport(logger, result.Report)

	if dryRun {
		logger.Info("Dry run, adjustment not saved", zap.String("team", team))
		return result, nil
	}
	result.Committed = true

	return result, nil
}

func resultTeams[R interface{ teamName() string }](results []R) []string {
	teams := make([]string, len(results))
	for i, r := range results {
		teams[i] = r.teamName()
	}
	return teams
}

func (r *AdjustResult) teamName() string { return r.Team }
