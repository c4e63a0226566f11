// Package editor applies operator edits to an entry set.
//
// Edits replace whole cells (delete then insert) and mark the new entry as
// manually edited so later generation and auto-adjust passes leave it alone.
// No coverage or streak rules are applied here; callers re-run the validator.
package editor

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/riha-rota/riha-rota/pkg/core/model"
)

// BulkEditRequest describes one status applied across a day range and staff subset
type BulkEditRequest struct {
	// StartDay and EndDay are inclusive days of the month
	StartDay int
	EndDay   int

	DaysInMonth int

	// Status is 出勤, a leave type, or 取消 to clear the cells
	Status model.Status

	StaffIDs []string
}

// BulkEdit writes Status into every (staff, day) cell of the request
func BulkEdit(entries []model.ShiftEntry, req BulkEditRequest) ([]model.ShiftEntry, error) {
	if err := checkRange(req.StartDay, req.EndDay, req.DaysInMonth); err != nil {
		return nil, err
	}
	if _, err := model.ParseStatus(string(req.Status)); err != nil {
		return nil, err
	}

	targets := make(map[model.EntryKey]bool)
	for _, staffID := range req.StaffIDs {
		for day := req.StartDay; day <= req.EndDay; day++ {
			targets[model.EntryKey{StaffID: staffID, Date: day}] = true
		}
	}

	return replaceCells(entries, targets, func(key model.EntryKey, previous *model.ShiftEntry) (*model.ShiftEntry, error) {
		return editedEntry(key, req.Status, previous)
	})
}

// SetCell writes status into a single cell, the way the grid's cell editor does
func SetCell(entries []model.ShiftEntry, staffID string, day, daysInMonth int, status model.Status) ([]model.ShiftEntry, error) {
	return BulkEdit(entries, BulkEditRequest{
		StartDay:    day,
		EndDay:      day,
		DaysInMonth: daysInMonth,
		Status:      status,
		StaffIDs:    []string{staffID},
	})
}

// MoveEntry removes the entry at from and writes its status at to.
// The target cell is replaced exactly as a bulk edit would replace it.
func MoveEntry(entries []model.ShiftEntry, from, to model.EntryKey, daysInMonth int) ([]model.ShiftEntry, error) {
	if err := checkRange(from.Date, from.Date, daysInMonth); err != nil {
		return nil, fmt.Errorf("move source: %w", err)
	}
	if err := checkRange(to.Date, to.Date, daysInMonth); err != nil {
		return nil, fmt.Errorf("move target: %w", err)
	}

	idx := slices.IndexFunc(entries, func(e model.ShiftEntry) bool { return e.Key() == from })
	if idx == -1 {
		return nil, fmt.Errorf("%w: staff %s day %d", model.ErrEntryNotFound, from.StaffID, from.Date)
	}
	if from == to {
		return slices.Clone(entries), nil
	}

	status := entries[idx].Status()
	if status == "" {
		return nil, fmt.Errorf("%w: entry for staff %s day %d has no status", model.ErrInvalidStatus, from.StaffID, from.Date)
	}

	targets := map[model.EntryKey]bool{from: true, to: true}
	return replaceCells(entries, targets, func(key model.EntryKey, previous *model.ShiftEntry) (*model.ShiftEntry, error) {
		if key == from {
			return nil, nil
		}
		return editedEntry(key, status, previous)
	})
}

// replaceCells drops every entry whose key is targeted and appends the
// replacement built for each target, in (staff, day) order
func replaceCells(
	entries []model.ShiftEntry,
	targets map[model.EntryKey]bool,
	build func(key model.EntryKey, previous *model.ShiftEntry) (*model.ShiftEntry, error),
) ([]model.ShiftEntry, error) {
	previous := make(map[model.EntryKey]model.ShiftEntry)
	result := make([]model.ShiftEntry, 0, len(entries)+len(targets))
	for _, e := range entries {
		if targets[e.Key()] {
			previous[e.Key()] = e
			continue
		}
		result = append(result, e)
	}

	keys := make([]model.EntryKey, 0, len(targets))
	for key := range targets {
		keys = append(keys, key)
	}
	slices.SortFunc(keys, func(a, b model.EntryKey) int {
		return cmp.Or(cmp.Compare(a.StaffID, b.StaffID), cmp.Compare(a.Date, b.Date))
	})

	var added []model.ShiftEntry
	for _, key := range keys {
		var prev *model.ShiftEntry
		if p, ok := previous[key]; ok {
			prev = &p
		}
		replacement, err := build(key, prev)
		if err != nil {
			return nil, err
		}
		if replacement != nil {
			added = append(added, *replacement)
		}
	}

	return append(result, added...), nil
}

// editedEntry builds the manually edited entry for a cell, or nil when the status clears it
func editedEntry(key model.EntryKey, status model.Status, previous *model.ShiftEntry) (*model.ShiftEntry, error) {
	if status == model.StatusCancel {
		return nil, nil
	}

	entry, err := model.NewStatusEntry(key.StaffID, key.Date, status)
	if err != nil {
		return nil, err
	}
	entry.ManuallyEdited = true
	entry.OriginalStatus = originalStatus(previous)
	return &entry, nil
}

// originalStatus keeps the value the cell had before its first manual edit
func originalStatus(previous *model.ShiftEntry) string {
	if previous == nil {
		return ""
	}
	if previous.ManuallyEdited {
		return previous.OriginalStatus
	}
	return string(previous.Status())
}

func checkRange(startDay, endDay, daysInMonth int) error {
	if daysInMonth < 1 || daysInMonth > 31 {
		return fmt.Errorf("%w: month has %d days", model.ErrInvalidRange, daysInMonth)
	}
	if endDay < startDay {
		return fmt.Errorf("%w: end day %d is before start day %d", model.ErrInvalidRange, endDay, startDay)
	}
	if startDay < 1 || endDay > daysInMonth {
		return fmt.Errorf("%w: days %d-%d outside 1-%d", model.ErrInvalidRange, startDay, endDay, daysInMonth)
	}
	return nil
}
