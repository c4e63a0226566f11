package services

import (
	"fmt"
	"time"

	"github.com/teambition/rrule-go"
	"go.uber.org/zap"

	"github.com/riha-rota/riha-rota/internal/config"
	"github.com/riha-rota/riha-rota/pkg/core/model"
)

// occurrenceDays expands an rrule into the days of month it matches.
// A rule without DTSTART is anchored at the first day of the month.
func occurrenceDays(rule string, month model.Month) ([]int, error) {
	opt, err := rrule.StrToROption(rule)
	if err != nil {
		return nil, fmt.Errorf("failed to parse rrule %q: %w", rule, err)
	}

	start := month.Date(1)
	if opt.Dtstart.IsZero() {
		opt.Dtstart = start
	}

	r, err := rrule.NewRRule(*opt)
	if err != nil {
		return nil, fmt.Errorf("failed to build rrule %q: %w", rule, err)
	}

	end := start.AddDate(0, 1, 0).Add(-time.Nanosecond)
	var days []int
	for _, occurrence := range r.Between(start, end, true) {
		if occurrence.Year() == month.Year && occurrence.Month() == month.Month {
			days = append(days, occurrence.Day())
		}
	}
	return days, nil
}

// standingLeaveEntries turns the configured standing leave into frozen entries for the
// given staff. Cells already holding a manual entry are left to the operator's edit,
// and when two rules hit the same cell the earlier rule wins.
func standingLeaveEntries(
	rules []config.StandingLeave,
	month model.Month,
	staff []model.StaffMember,
	existing []model.ShiftEntry,
	logger *zap.Logger,
) ([]model.ShiftEntry, error) {
	onRoster := make(map[string]bool, len(staff))
	for _, s := range staff {
		onRoster[s.ID] = true
	}

	taken := make(map[model.EntryKey]bool)
	for _, e := range existing {
		if e.ManuallyEdited {
			taken[e.Key()] = true
		}
	}

	var entries []model.ShiftEntry
	for i, rule := range rules {
		status, err := model.ParseStatus(rule.Status)
		if err != nil {
			return nil, fmt.Errorf("standingLeave[%d]: %w", i, err)
		}

		days, err := occurrenceDays(rule.RRule, month)
		if err != nil {
			return nil, fmt.Errorf("standingLeave[%d]: %w", i, err)
		}

		applied := 0
		for _, staffID := range rule.StaffIDs {
			if !onRoster[staffID] {
				continue
			}
			for _, day := range days {
				key := model.EntryKey{StaffID: staffID, Date: day}
				if taken[key] {
					continue
				}
				entry, err := model.NewStatusEntry(staffID, day, status)
				if err != nil {
					return nil, fmt.Errorf("standingLeave[%d]: %w", i, err)
				}
				entry.ManuallyEdited = true
				entries = append(entries, entry)
				taken[key] = true
				applied++
			}
		}

		logger.Debug("Applied standing leave",
			zap.Int("index", i),
			zap.String("rrule", rule.RRule),
			zap.Int("days", len(days)),
			zap.Int("entries", applied))
	}

	return entries, nil
}
