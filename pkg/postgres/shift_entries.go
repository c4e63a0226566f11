package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/riha-rota/riha-rota/pkg/db"
)

var _ db.Database = (*DB)(nil)

// querier is satisfied by both the pool and a transaction
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// GetShiftEntries retrieves the entries of one (team, month) ordered by staff and day
func (d *DB) GetShiftEntries(ctx context.Context, team, month string) ([]db.ShiftEntry, error) {
	return queryShiftEntries(ctx, d.pool, team, month)
}

func queryShiftEntries(ctx context.Context, q querier, team, month string) ([]db.ShiftEntry, error) {
	rows, err := q.Query(ctx, `
		SELECT id, team, month, staff_id, day, is_working, leave_type, manually_edited, original_status
		FROM shift_entry
		WHERE team = $1 AND month = $2
		ORDER BY staff_id, day
	`, team, month)
	if err != nil {
		return nil, fmt.Errorf("failed to query shift entries: %w", err)
	}
	defer rows.Close()

	var entries []db.ShiftEntry
	for rows.Next() {
		var e db.ShiftEntry
		var leaveType, originalStatus *string
		if err := rows.Scan(&e.ID, &e.Team, &e.Month, &e.StaffID, &e.Day, &e.IsWorking, &leaveType, &e.ManuallyEdited, &originalStatus); err != nil {
			return nil, fmt.Errorf("failed to scan shift entry: %w", err)
		}
		if leaveType != nil {
			e.LeaveType = *leaveType
		}
		if originalStatus != nil {
			e.OriginalStatus = *originalStatus
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating shift entries: %w", err)
	}

	return entries, nil
}

// UpdateShiftEntries reads, rewrites and stores the entries of (team, month) in one transaction.
// A transaction-scoped advisory lock taken before the read serialises concurrent writers,
// so each fn sees every entry committed before it.
func (d *DB) UpdateShiftEntries(ctx context.Context, team, month string, fn func([]db.ShiftEntry) ([]db.ShiftEntry, error)) error {
	err := d.inTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, lockKey(team, month)); err != nil {
			return fmt.Errorf("failed to lock %s %s: %w", team, month, err)
		}

		current, err := queryShiftEntries(ctx, tx, team, month)
		if err != nil {
			return err
		}

		entries, err := fn(current)
		if err != nil {
			return err
		}

		if _, err := tx.Exec(ctx, `DELETE FROM shift_entry WHERE team = $1 AND month = $2`, team, month); err != nil {
			return fmt.Errorf("failed to clear shift entries: %w", err)
		}

		if len(entries) == 0 {
			return nil
		}

		_, err = tx.CopyFrom(ctx,
			pgx.Identifier{"shift_entry"},
			[]string{"id", "team", "month", "staff_id", "day", "is_working", "leave_type", "manually_edited", "original_status"},
			pgx.CopyFromSlice(len(entries), func(i int) ([]any, error) {
				e := entries[i]
				if e.Team != team || e.Month != month {
					return nil, fmt.Errorf("entry %s belongs to %s %s, not %s %s", e.ID, e.Team, e.Month, team, month)
				}
				return []any{e.ID, e.Team, e.Month, e.StaffID, e.Day, e.IsWorking, nullable(e.LeaveType), e.ManuallyEdited, nullable(e.OriginalStatus)}, nil
			}),
		)
		if err != nil {
			return fmt.Errorf("failed to insert shift entries: %w", err)
		}
		return nil
	})
	if errors.Is(err, db.SkipUpdate) {
		return nil
	}
	return err
}

func lockKey(team, month string) string {
	return "shift_entry:" + team + ":" + month
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
