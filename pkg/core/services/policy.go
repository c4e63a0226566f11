package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/riha-rota/riha-rota/pkg/core/model"
	"github.com/riha-rota/riha-rota/pkg/db"
)

// LoadPolicy fetches the stored policy settings.
// A failed fetch or a missing row falls back to the defaults and is never returned as an error.
func LoadPolicy(ctx context.Context, store db.PolicyStore, logger *zap.Logger) model.PolicySettings {
	stored, err := store.GetPolicy(ctx)
	if err != nil {
		logger.Warn("Failed to fetch policy settings, using defaults", zap.Error(err))
		return model.DefaultPolicySettings()
	}
	if stored == nil {
		logger.Debug("No policy settings stored, using defaults")
		return model.DefaultPolicySettings()
	}

	policy := stored.ToModel()
	logger.Debug("Loaded policy settings",
		zap.Bool("weekly_five_shifts", policy.WeeklyFiveShifts),
		zap.Bool("week_starts_on_sunday", policy.WeekStartsOnSunday))
	return policy
}

// SetPolicy stores new policy settings
func SetPolicy(ctx context.Context, store db.PolicyStore, logger *zap.Logger, policy model.PolicySettings) error {
	if err := store.SetPolicy(ctx, db.PolicyFromModel(policy)); err != nil {
		return fmt.Errorf("failed to store policy settings: %w", err)
	}

	logger.Info("Policy settings updated",
		zap.Bool("weekly_five_shifts", policy.WeeklyFiveShifts),
		zap.Bool("week_starts_on_sunday", policy.WeekStartsOnSunday))
	return nil
}
