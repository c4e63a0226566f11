package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/riha-rota/riha-rota/pkg/db"
)

// GetPolicy returns the stored policy settings, or nil when none have been set
func (d *DB) GetPolicy(ctx context.Context) (*db.PolicySettings, error) {
	var p db.PolicySettings
	err := d.pool.QueryRow(ctx, `
		SELECT weekly_five_shifts, week_starts_on_sunday
		FROM policy_settings
		WHERE id = 1
	`).Scan(&p.WeeklyFiveShifts, &p.WeekStartsOnSunday)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query policy settings: %w", err)
	}
	return &p, nil
}

// SetPolicy stores the policy settings, replacing any previous value
func (d *DB) SetPolicy(ctx context.Context, policy db.PolicySettings) error {
	_, err := d.pool.Exec(ctx, `
		INSERT INTO policy_settings (id, weekly_five_shifts, week_starts_on_sunday)
		VALUES (1, $1, $2)
		ON CONFLICT (id) DO UPDATE SET
			weekly_five_shifts = EXCLUDED.weekly_five_shifts,
			week_starts_on_sunday = EXCLUDED.week_starts_on_sunday,
			updated_at = NOW()
	`, policy.WeeklyFiveShifts, policy.WeekStartsOnSunday)
	if err != nil {
		return fmt.Errorf("failed to set policy settings: %w", err)
	}
	return nil
}
