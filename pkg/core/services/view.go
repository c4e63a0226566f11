package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/riha-rota/riha-rota/internal/config"
	"github.com/riha-rota/riha-rota/pkg/clients/sheetsclient"
	"github.com/riha-rota/riha-rota/pkg/core/model"
)

// MonthView pairs a team's grid with its diagnostics
type MonthView struct {
	Grid   *sheetsclient.MonthGrid
	Report *MonthReport
}

// ViewMonth builds the grid and report of one team, or every team when team is empty
func ViewMonth(
	ctx context.Context,
	store ValidateStore,
	cfg *config.Config,
	logger *zap.Logger,
	team string,
	month model.Month,
) ([]*MonthView, error) {
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

	views := make([]*MonthView, 0, len(teams))
	for _, t := range teams {
		entries, err := fetchEntries(ctx, store, t, month)
		if err != nil {
			return nil, err
		}
		views = append(views, &MonthView{
			Grid:   sheetsclient.BuildMonthGrid(t, month, teamStaff(staff, t), entries),
			Report: buildReport(t, month, entries, policy, cfg),
		})
	}
	return views, nil
}
