package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/riha-rota/riha-rota/pkg/core/model"
	"github.com/riha-rota/riha-rota/pkg/core/services"
)

// BulkEditCmd creates the bulkEdit command
func BulkEditCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bulkEdit <month> <team> <start_day> <end_day> <status>",
		Short: "Set one status across a day range (取消 clears the cells)",
		Args:  cobra.ExactArgs(5),
		RunE: func(cmd *cobra.Command, args []string) error {
			month, err := parseMonthArg(args[0])
			if err != nil {
				return err
			}
			team := args[1]
			startDay, err := parseDayArg("start_day", args[2])
			if err != nil {
				return err
			}
			endDay, err := parseDayArg("end_day", args[3])
			if err != nil {
				return err
			}
			status, err := model.ParseStatus(args[4])
			if err != nil {
				return err
			}
			rawStaff, _ := cmd.Flags().GetString("staff")

			req := services.BulkEditRequest{
				StartDay: startDay,
				EndDay:   endDay,
				Status:   status,
				StaffIDs: splitIDs(rawStaff),
			}
			app.Logger.Info("bulkEdit command",
				zap.String("month", month.String()),
				zap.String("team", team),
				zap.Int("start_day", startDay),
				zap.Int("end_day", endDay),
				zap.String("status", string(status)),
				zap.Strings("staff", req.StaffIDs))

			result, err := services.BulkEditMonth(app.Ctx, app.Database, app.Cfg, app.Logger, team, month, req)
			if err != nil {
				return err
			}

			fmt.Printf("\n✓ Set %s on days %d-%d\n", status, startDay, endDay)
			writeReport(os.Stdout, result.Report)
			return nil
		},
	}

	cmd.Flags().String("staff", "", "Comma-separated staff ids (default: the whole team)")

	return cmd
}

// SetCellCmd creates the setCell command
func SetCellCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "setCell <month> <team> <staff_id> <day> <status>",
		Short: "Set the status of a single cell (取消 clears it)",
		Args:  cobra.ExactArgs(5),
		RunE: func(cmd *cobra.Command, args []string) error {
			month, err := parseMonthArg(args[0])
			if err != nil {
				return err
			}
			day, err := parseDayArg("day", args[3])
			if err != nil {
				return err
			}
			status, err := model.ParseStatus(args[4])
			if err != nil {
				return err
			}

			result, err := services.SetCell(app.Ctx, app.Database, app.Cfg, app.Logger, args[1], month, args[2], day, status)
			if err != nil {
				return err
			}

			fmt.Printf("\n✓ %s day %d set to %s\n", args[2], day, status)
			writeReport(os.Stdout, result.Report)
			return nil
		},
	}
}

// MoveCmd creates the move command
func MoveCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "move <month> <team> <from_staff_id> <from_day> <to_staff_id> <to_day>",
		Short: "Move an entry to another cell, replacing whatever is there",
		Args:  cobra.ExactArgs(6),
		RunE: func(cmd *cobra.Command, args []string) error {
			month, err := parseMonthArg(args[0])
			if err != nil {
				return err
			}
			fromDay, err := parseDayArg("from_day", args[3])
			if err != nil {
				return err
			}
			toDay, err := parseDayArg("to_day", args[5])
			if err != nil {
				return err
			}

			from := model.EntryKey{StaffID: args[2], Date: fromDay}
			to := model.EntryKey{StaffID: args[4], Date: toDay}
			result, err := services.MoveEntry(app.Ctx, app.Database, app.Cfg, app.Logger, args[1], month, from, to)
			if err != nil {
				return err
			}

			fmt.Printf("\n✓ Moved %s day %d to %s day %d\n", from.StaffID, from.Date, to.StaffID, to.Date)
			writeReport(os.Stdout, result.Report)
			return nil
		},
	}
}
