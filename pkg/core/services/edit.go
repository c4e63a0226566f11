package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/riha-rota/riha-rota/internal/config"
	"github.com/riha-rota/riha-rota/pkg/core/editor"
	"github.com/riha-rota/riha-rota/pkg/core/model"
	"github.com/riha-rota/riha-rota/pkg/core/roster"
)

// EditResult represents a team's month after an operator edit
type EditResult struct {
	Team    string
	Entries []model.ShiftEntry
	Report  *MonthReport
}

// BulkEditRequest selects the cells of a bulk edit. An empty StaffIDs selects the whole team.
type BulkEditRequest struct {
	StartDay int
	EndDay   int
	Status   model.Status
	StaffIDs []string
}

// BulkEditMonth writes one status across a day range for the selected staff of a team
func BulkEditMonth(
	ctx context.Context,
	store MonthStore,
	cfg *config.Config,
	logger *zap.Logger,
	team string,
	month model.Month,
	req BulkEditRequest,
) (*EditResult, error) {
	return editMonth(ctx, store, cfg, logger, team, month, func(members []model.StaffMember, entries []model.ShiftEntry) ([]model.ShiftEntry, error) {
		staffIDs := req.StaffIDs
		if len(staffIDs) == 0 {
			staffIDs = roster.IDs(members)
		}
		if err := requireMembers(members, staffIDs...); err != nil {
			return nil, err
		}

		logger.Debug("Applying bulk edit",
			zap.Int("start_day", req.StartDay),
			zap.Int("end_day", req.EndDay),
			zap.String("status", string(req.Status)),
			zap.Strings("staff", staffIDs))

		return editor.BulkEdit(entries, editor.BulkEditRequest{
			StartDay:    req.StartDay,
			EndDay:      req.EndDay,
			DaysInMonth: month.DaysInMonth(),
			Status:      req.Status,
			StaffIDs:    staffIDs,
		})
	})
}

// SetCell writes a status into one cell of a team's month
func SetCell(
	ctx context.Context,
	store MonthStore,
	cfg *config.Config,
	logger *zap.Logger,
	team string,
	month model.Month,
	staffID string,
	day int,
	status model.Status,
) (*EditResult, error) {
	return editMonth(ctx, store, cfg, logger, team, month, func(members []model.StaffMember, entries []model.ShiftEntry) ([]model.ShiftEntry, error) {
		if err := requireMembers(members, staffID); err != nil {
			return nil, err
		}
		return editor.SetCell(entries, staffID, day, month.DaysInMonth(), status)
	})
}

// MoveEntry moves the entry at from to to within a team's month
func MoveEntry(
	ctx context.Context,
	store MonthStore,
	cfg *config.Config,
	logger *zap.Logger,
	team string,
	month model.Month,
	from, to model.EntryKey,
) (*EditResult, error) {
	return editMonth(ctx, store, cfg, logger, team, month, func(members []model.StaffMember, entries []model.ShiftEntry) ([]model.ShiftEntry, error) {
		if err := requireMembers(members, from.StaffID, to.StaffID); err != nil {
			return nil, err
		}
		return editor.MoveEntry(entries, from, to, month.DaysInMonth())
	})
}

// editMonth applies edit to a team's month under the store's (team, month) lock,
// saves the result and re-validates it
func editMonth(
	ctx context.Context,
	store MonthStore,
	cfg *config.Config,
	logger *zap.Logger,
	team string,
	month model.Month,
	edit func(members []model.StaffMember, entries []model.ShiftEntry) ([]model.ShiftEntry, error),
) (*EditResult, error) {
	if team == "" {
		return nil, ErrTeamRequired
	}
	if err := month.Validate(); err != nil {
		return nil, err
	}

	staff, err := fetchStaff(ctx, store, logger)
	if err != nil {
		return nil, err
	}
	if _, err := resolveTeams(staff, team); err != nil {
		return nil, err
	}

	members := teamStaff(staff, team)
	var before, edited []model.ShiftEntry
	err = updateEntries(ctx, store, team, month, func(entries []model.ShiftEntry) ([]model.ShiftEntry, error) {
		before = entries
		var err error
		edited, err = edit(members, entries)
		return edited, err
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Saved edit",
		zap.String("team", team),
		zap.String("month", month.String()),
		zap.Int("entries_before", len(before)),
		zap.Int("entries_after", len(edited)))

	report := buildReport(team, month, edited, LoadPolicy(ctx, store, logger), cfg)
	logReport(logger, report)

	return &EditResult{Team: team, Entries: edited, Report: report}, nil
}

func requireMembers(members []model.StaffMember, staffIDs ...string) error {
	for _, id := range staffIDs {
		if _, ok := roster.Find(members, id); !ok {
			return fmt.Errorf("%w: %s", ErrUnknownStaff, id)
		}
	}
	return nil
}
