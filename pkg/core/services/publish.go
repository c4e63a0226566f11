package services

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/riha-rota/riha-rota/internal/config"
	"github.com/riha-rota/riha-rota/pkg/clients/sheetsclient"
	"github.com/riha-rota/riha-rota/pkg/core/model"
	"github.com/riha-rota/riha-rota/pkg/db"
)

// Publisher writes a month grid to a spreadsheet
type Publisher interface {
	PublishMonth(ctx context.Context, spreadsheetID string, grid *sheetsclient.MonthGrid) error
}

// PublishStore defines the database operations needed for publishing a month
type PublishStore interface {
	db.StaffStore
	entryReader
}

// PublishMonth publishes the staff × day grid of one team, or every team when team is empty.
// The titles of the written tabs are returned.
func PublishMonth(
	ctx context.Context,
	store PublishStore,
	publisher Publisher,
	cfg *config.Config,
	logger *zap.Logger,
	team string,
	month model.Month,
) ([]string, error) {
	if cfg.PublishSheetID == "" {
		return nil, errors.New("publishSheetID is not configured")
	}
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

	titles := make([]string, 0, len(teams))
	for _, t := range teams {
		entries, err := fetchEntries(ctx, store, t, month)
		if err != nil {
			return nil, err
		}

		grid := sheetsclient.BuildMonthGrid(t, month, teamStaff(staff, t), entries)
		if err := publisher.PublishMonth(ctx, cfg.PublishSheetID, grid); err != nil {
			return nil, fmt.Errorf("failed to publish %s: %w", grid.Title, err)
		}

		logger.Info("Published month", zap.String("team", t), zap.String("tab", grid.Title), zap.Int("rows", len(grid.Rows)))
		titles = append(titles, grid.Title)
	}

	return titles, nil
}
