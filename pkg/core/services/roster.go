package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/riha-rota/riha-rota/internal/config"
	"github.com/riha-rota/riha-rota/pkg/core/model"
	"github.com/riha-rota/riha-rota/pkg/core/roster"
	"github.com/riha-rota/riha-rota/pkg/db"
)

var validate = validator.New()

// RosterProvider supplies staff records from an external roster
type RosterProvider interface {
	ListStaff(ctx context.Context, spreadsheetID, tab string) ([]model.StaffMember, error)
}

// ListStaff returns the roster sorted by team then rank. A non-empty team filters the result.
func ListStaff(ctx context.Context, store db.StaffStore, logger *zap.Logger, team string) ([]model.StaffMember, error) {
	staff, err := fetchStaff(ctx, store, logger)
	if err != nil {
		return nil, err
	}

	byTeam := roster.ByTeam(staff)
	if team != "" {
		return byTeam[team], nil
	}

	var sorted []model.StaffMember
	for _, t := range roster.Teams(staff) {
		sorted = append(sorted, byTeam[t]...)
	}
	return sorted, nil
}

// UpsertStaff validates and stores staff members, generating ids for new members.
// The stored members are returned with their ids.
func UpsertStaff(ctx context.Context, store db.StaffStore, logger *zap.Logger, members []model.StaffMember) ([]model.StaffMember, error) {
	if len(members) == 0 {
		return nil, errors.New("no staff to store")
	}

	stored := make([]model.StaffMember, len(members))
	rows := make([]db.Staff, len(members))
	seen := make(map[string]bool, len(members))
	for i, m := range members {
		if m.ID == "" {
			m.ID = uuid.NewString()
		}
		if seen[m.ID] {
			return nil, fmt.Errorf("duplicate staff id %s", m.ID)
		}
		seen[m.ID] = true

		if err := validate.Struct(m); err != nil {
			return nil, fmt.Errorf("invalid staff member %q: %w", m.Name, err)
		}
		stored[i] = m
		rows[i] = db.StaffFromModel(m)
	}

	if err := store.UpsertStaff(ctx, rows); err != nil {
		return nil, fmt.Errorf("failed to store staff: %w", err)
	}

	logger.Info("Stored staff", zap.Int("count", len(stored)))
	return stored, nil
}

// ImportRoster copies the configured roster sheet into the staff store
func ImportRoster(
	ctx context.Context,
	store db.StaffStore,
	provider RosterProvider,
	cfg *config.Config,
	logger *zap.Logger,
) ([]model.StaffMember, error) {
	if cfg.RosterSheetID == "" {
		return nil, errors.New("rosterSheetID is not configured")
	}

	logger.Debug("Fetching roster sheet", zap.String("sheet_id", cfg.RosterSheetID), zap.String("tab", cfg.RosterTab))
	members, err := provider.ListStaff(ctx, cfg.RosterSheetID, cfg.RosterTab)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch roster: %w", err)
	}

	return UpsertStaff(ctx, store, logger, members)
}
