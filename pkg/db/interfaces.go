package db

import (
	"context"
	"errors"
)

// StaffStore defines the interface for staff database operations
type StaffStore interface {
	GetStaff(ctx context.Context) ([]Staff, error)
	UpsertStaff(ctx context.Context, staff []Staff) error
}

// PolicyStore defines the interface for policy settings operations.
// GetPolicy returns nil with no error when no settings have been stored.
type PolicyStore interface {
	GetPolicy(ctx context.Context) (*PolicySettings, error)
	SetPolicy(ctx context.Context, policy PolicySettings) error
}

// SkipUpdate is returned by an UpdateShiftEntries callback to leave the stored entries as they are
var SkipUpdate = errors.New("skip update")

// ShiftEntryStore defines the interface for shift entry operations.
// UpdateShiftEntries holds an exclusive lock on (team, month) while it reads the
// current entries, calls fn and stores the returned set in their place. Writers
// of the same (team, month) run one at a time. When fn fails nothing is written
// and its error is returned unchanged.
type ShiftEntryStore interface {
	GetShiftEntries(ctx context.Context, team, month string) ([]ShiftEntry, error)
	UpdateShiftEntries(ctx context.Context, team, month string, fn func(current []ShiftEntry) ([]ShiftEntry, error)) error
}

// Database defines the interface for all database operations.
// postgres.DB implements this interface.
type Database interface {
	StaffStore
	PolicyStore
	ShiftEntryStore
}
