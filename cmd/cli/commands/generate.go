package commands

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/riha-rota/riha-rota/pkg/core/services"
)

// GenerateCmd creates the generate command
func GenerateCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate <month>",
		Short: "Generate the shift table for a month (YYYY-MM), keeping manual edits",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			month, err := parseMonthArg(args[0])
			if err != nil {
				return err
			}
			team, _ := cmd.Flags().GetString("team")
			rawSeed, _ := cmd.Flags().GetString("seed")
			dryRun, _ := cmd.Flags().GetBool("dry-run")

			seed, err := parseSeed(rawSeed, time.Now())
			if err != nil {
				return err
			}
			app.Logger.Info("generate command",
				zap.String("month", month.String()),
				zap.String("team", team),
				zap.Uint64("seed", seed),
				zap.Bool("dry_run", dryRun))

			results, err := services.GenerateMonth(app.Ctx, app.Database, app.Cfg, app.Logger, team, month, seed, dryRun)
			if err != nil {
				for _, result := range results {
					if result.Committed {
						fmt.Printf("\n%s was saved before the failure\n", result.Team)
					}
				}
				return err
			}

			for _, result := range results {
				fmt.Printf("\n%s: %d entries (%d manual, %d standing leave)\n",
					result.Team, len(result.Entries), result.ManualCount, result.StandingCount)
				writeReport(os.Stdout, result.Report)
			}

			fmt.Printf("\nSeed: %d\n", seed)
			if dryRun {
				fmt.Println("Dry run, nothing was saved.")
			} else {
				fmt.Printf("\n✓ Saved %d team(s) for %s\n", len(results), month)
			}
			return nil
		},
	}

	cmd.Flags().StringP("team", "t", "", "Team to generate (default: every team)")
	cmd.Flags().String("seed", "", "Seed for random decisions (default: time based)")
	cmd.Flags().Bool("dry-run", false, "Run without saving to database")

	return cmd
}

// AutoAdjustCmd creates the autoAdjust command
func AutoAdjustCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "autoAdjust <month>",
		Short: "Fill under-covered days with idle staff, saving only when coverage improves",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			month, err := parseMonthArg(args[0])
			if err != nil {
				return err
			}
			team, _ := cmd.Flags().GetString("team")
			rawSeed, _ := cmd.Flags().GetString("seed")
			dryRun, _ := cmd.Flags().GetBool("dry-run")

			seed, err := parseSeed(rawSeed, time.Now())
			if err != nil {
				return err
			}
			app.Logger.Info("autoAdjust command",
				zap.String("month", month.String()),
				zap.String("team", team),
				zap.Uint64("seed", seed),
				zap.Bool("dry_run", dryRun))

			results, err := services.AutoAdjustMonth(app.Ctx, app.Database, app.Cfg, app.Logger, team, month, seed, dryRun)
			if err != nil {
				for _, result := range results {
					if result.Committed {
						fmt.Printf("\n%s was saved before the failure\n", result.Team)
					}
				}
				return err
			}

			for _, result := range results {
				outcome := result.Outcome
				fmt.Printf("\n%s: under-covered days %d → %d, %d working entries added\n",
					result.Team, outcome.BeforeCount, outcome.AfterCount, len(outcome.Added))
				switch {
				case !outcome.Improved():
					fmt.Printf("  %sNo improvement, nothing changed%s\n", colorDim, colorReset)
				case result.Committed:
					fmt.Printf("  %s✓ Saved%s\n", colorGreen, colorReset)
				default:
					fmt.Println("  Dry run, not saved")
				}
				writeReport(os.Stdout, result.Report)
			}

			fmt.Printf("\nSeed: %d\n", seed)
			return nil
		},
	}

	cmd.Flags().StringP("team", "t", "", "Team to adjust (default: every team)")
	cmd.Flags().String("seed", "", "Seed for random decisions (default: time based)")
	cmd.Flags().Bool("dry-run", false, "Run without saving to database")

	return cmd
}
