package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/riha-rota/riha-rota/pkg/core/services"
	"github.com/riha-rota/riha-rota/pkg/export"
)

// ValidateCmd creates the validate command
func ValidateCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <month>",
		Short: "Check a month for consecutive-day violations and under-covered days",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			month, err := parseMonthArg(args[0])
			if err != nil {
				return err
			}
			team, _ := cmd.Flags().GetString("team")

			reports, err := services.ValidateMonth(app.Ctx, app.Database, app.Cfg, app.Logger, team, month)
			if err != nil {
				return err
			}

			for _, report := range reports {
				writeReport(os.Stdout, report)
			}
			fmt.Println()
			return nil
		},
	}

	cmd.Flags().StringP("team", "t", "", "Team to validate (default: every team)")

	return cmd
}

// ViewMonthCmd creates the viewMonth command
func ViewMonthCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "viewMonth <month>",
		Short: "Print the staff × day table of a month",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			month, err := parseMonthArg(args[0])
			if err != nil {
				return err
			}
			team, _ := cmd.Flags().GetString("team")

			views, err := services.ViewMonth(app.Ctx, app.Database, app.Cfg, app.Logger, team, month)
			if err != nil {
				return err
			}

			for _, view := range views {
				writeGrid(os.Stdout, view.Grid, view.Report.UnderCoveredDays)
				writeReport(os.Stdout, view.Report)
			}
			fmt.Println()
			return nil
		},
	}

	cmd.Flags().StringP("team", "t", "", "Team to show (default: every team)")

	return cmd
}

// ExportCmd creates the export command
func ExportCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export <month>",
		Short: "Write the month table to an xlsx file, one tab per team",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			month, err := parseMonthArg(args[0])
			if err != nil {
				return err
			}
			team, _ := cmd.Flags().GetString("team")
			out, _ := cmd.Flags().GetString("out")
			if out == "" {
				out = fmt.Sprintf("shifts_%s.xlsx", month)
			}

			views, err := services.ViewMonth(app.Ctx, app.Database, app.Cfg, app.Logger, team, month)
			if err != nil {
				return err
			}

			sheets := make([]export.Sheet, len(views))
			for i, view := range views {
				sheets[i] = export.Sheet{Grid: view.Grid, UnderCovered: view.Report.UnderCoveredDays}
			}

			file, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", out, err)
			}
			defer file.Close()

			if err := export.WriteMonthWorkbook(file, sheets); err != nil {
				return err
			}

			app.Logger.Info("Exported month", zap.String("month", month.String()), zap.String("file", out), zap.Int("tabs", len(sheets)))
			fmt.Printf("\n✓ Wrote %d tab(s) to %s\n\n", len(sheets), out)
			return nil
		},
	}

	cmd.Flags().StringP("team", "t", "", "Team to export (default: every team)")
	cmd.Flags().StringP("out", "o", "", "Output file (default: shifts_<month>.xlsx)")

	return cmd
}
