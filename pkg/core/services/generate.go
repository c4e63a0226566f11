package services

import (
	"context"
	"fmt"
	"math/rand/v2"

	"go.uber.org/zap"

	"github.com/riha-rota/riha-rota/internal/config"
	"github.com/riha-rota/riha-rota/pkg/core/generator"
	"github.com/riha-rota/riha-rota/pkg/core/model"
	"github.com/riha-rota/riha-rota/pkg/db"
)

// MonthStore defines the database operations needed to rewrite a team's month
type MonthStore interface {
	db.StaffStore
	db.PolicyStore
	db.ShiftEntryStore
}

// GenerateResult represents the outcome of generating one team's month
type GenerateResult struct {
	Team          string
	Entries       []model.ShiftEntry
	ManualCount   int
	StandingCount int
	Report        *MonthReport
	Committed     bool
}

// newRand returns the seeded source shared by every team of a run
func newRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// GenerateMonth generates entries for one team, or every team when team is empty.
// Manual entries already stored for the month are preserved and standing leave from
// the config is applied as manual entries before generation.
// If dryRun is true, nothing is written. If a team fails, the results of the teams
// before it are returned with the error; those teams stay saved.
func GenerateMonth(
	ctx context.Context,
	store MonthStore,
	cfg *config.Config,
	logger *zap.Logger,
	team string,
	month model.Month,
	seed uint64,
	dryRun bool,
) ([]*GenerateResult, error) {
	if err := month.Validate(); err != nil {
		return nil, err
	}

	logger.Debug("Starting generateMonth",
		zap.String("team", team),
		zap.String("month", month.String()),
		zap.Uint64("seed", seed),
		zap.Bool("dry_run", dryRun))

	staff, err := fetchStaff(ctx, store, logger)
	if err != nil {
		return nil, err
	}
	teams, err := resolveTeams(staff, team)
	if err != nil {
		return nil, err
	}

	// Fetch-or-default happens once per run, outside the algorithm
	policy := LoadPolicy(ctx, store, logger)
	r := newRand(seed)

	results := make([]*GenerateResult, 0, len(teams))
	for _, t := range teams {
		result, err := generateTeamMonth(ctx, store, cfg, logger, t, teamStaff(staff, t), month, policy, r, dryRun)
		if err != nil {
			logger.Error("Generation stopped",
				zap.String("failed_team", t),
				zap.Strings("done_teams", resultTeams(results)),
				zap.Error(err))
			return results, err
		}
		results = append(results, result)
	}

	return results, nil
}

func generateTeamMonth(
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
) (*GenerateResult, error) {
	var result *GenerateResult

	generate := func(existing []model.ShiftEntry) error {
		standing, err := standingLeaveEntries(cfg.StandingLeave, month, members, existing, logger)
		if err != nil {
			return err
		}

		frozen := append(manualEntries(existing), standing...)

		entries, err := generator.Generate(generator.Config{
			Staff:           members,
			Month:           month,
			ExistingEntries: frozen,
			Policy:          policy,
			LeaveType:       model.LeaveType(cfg.GeneratedLeaveType),
			Rand:            r,
		})
		if err != nil {
			return fmt.Errorf("failed to generate %s %s: %w", team, month, err)
		}

		result = &GenerateResult{
			Team:          team,
			Entries:       entries,
			ManualCount:   len(frozen) - len(standing),
			StandingCount: len(standing),
		}
		return nil
	}

	if dryRun {
		existing, err := fetchEntries(ctx, store, team, month)
		if err != nil {
			return nil, err
		}
		if err := generate(existing); err != nil {
			return nil, err
		}
	} else {
		err := updateEntries(ctx, store, team, month, func(existing []model.ShiftEntry) ([]model.ShiftEntry, error) {
			if err := generate(existing); err != nil {
				return nil, err
			}
			return result.Entries, nil
		})
		if err != nil {
			return nil, err
		}
		result.Committed = true
	}

	result.Report = buildReport(team, month, result.Entries, policy, cfg)

	logger.Info("Generated month",
		zap.String("team", team),
		zap.String("month", month.String()),
		zap.Int("staff", len(members)),
		zap.Int("entries", len(result.Entries)),
		zap.Int("manual", result.ManualCount),
		zap.Int("standing", result.StandingCount),
		zap.Bool("saved", result.Committed))
	logReport(logger, result.Report)

	if dryRun {
		logger.Info("Dry run, entries not saved", zap.String("team", team))
	}

	return result, nil
}

func (r *GenerateResult) teamName() string { return r.Team }

func manualEntries(entries []model.ShiftEntry) []model.ShiftEntry {
	var manual []model.ShiftEntry
	for _, e := range entries {
		if e.ManuallyEdited {
			manual = append(manual, e)
		}
	}
	return manual
}
