package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/riha-rota/riha-rota/pkg/core/model"
	"github.com/riha-rota/riha-rota/pkg/core/services"
)

// ListStaffCmd creates the listStaff command
func ListStaffCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "listStaff",
		Short: "List the stored roster by team and rank",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			team, _ := cmd.Flags().GetString("team")

			staff, err := services.ListStaff(app.Ctx, app.Database, app.Logger, team)
			if err != nil {
				return err
			}

			fmt.Printf("\nFound %d staff:\n", len(staff))
			current := ""
			for _, s := range staff {
				if s.Team != current {
					current = s.Team
					fmt.Printf("\n[%s]\n", current)
				}
				fmt.Printf("- %s (%s) - %s %s - %d years\n", s.Name, s.ID, s.Position, s.Profession, s.Years)
			}
			fmt.Println()
			return nil
		},
	}

	cmd.Flags().StringP("team", "t", "", "Only list this team")

	return cmd
}

// AddStaffCmd creates the addStaff command
func AddStaffCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "addStaff <name> <team> <position> <profession>",
		Short: "Add or update a staff member (position: 主任, 副主任, 一般; profession: PT, OT, ST, DH)",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, _ := cmd.Flags().GetString("id")
			years, _ := cmd.Flags().GetInt("years")

			member := model.StaffMember{
				ID:         id,
				Name:       args[0],
				Team:       args[1],
				Position:   model.Position(args[2]),
				Profession: model.Profession(strings.ToUpper(args[3])),
				Years:      years,
			}

			stored, err := services.UpsertStaff(app.Ctx, app.Database, app.Logger, []model.StaffMember{member})
			if err != nil {
				return err
			}

			fmt.Printf("\n✓ Stored %s (%s)\n\n", stored[0].Name, stored[0].ID)
			return nil
		},
	}

	cmd.Flags().String("id", "", "Existing staff id to update (default: new id)")
	cmd.Flags().Int("years", 0, "Years of experience")

	return cmd
}

// ImportRosterCmd creates the importRoster command
func ImportRosterCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "importRoster",
		Short: "Import staff from the configured roster sheet",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := app.SheetsClient()
			if err != nil {
				return err
			}

			imported, err := services.ImportRoster(app.Ctx, app.Database, client, app.Cfg, app.Logger)
			if err != nil {
				return err
			}

			fmt.Printf("\n✓ Imported %d staff from the roster sheet\n\n", len(imported))
			return nil
		},
	}
}

// SetPolicyCmd creates the setPolicy command
func SetPolicyCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "setPolicy",
		Short: "Store the leave policy used by generation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			policy := services.LoadPolicy(app.Ctx, app.Database, app.Logger)
			if cmd.Flags().Changed("five-shifts") {
				policy.WeeklyFiveShifts, _ = cmd.Flags().GetBool("five-shifts")
			}
			if cmd.Flags().Changed("sunday-start") {
				policy.WeekStartsOnSunday, _ = cmd.Flags().GetBool("sunday-start")
			}

			if err := services.SetPolicy(app.Ctx, app.Database, app.Logger, policy); err != nil {
				return err
			}

			fmt.Printf("\n✓ Policy saved: %d leave days per week, weeks start on %s\n\n",
				policy.LeaveDaysPerWeek(), weekStart(policy))
			return nil
		},
	}

	cmd.Flags().Bool("five-shifts", true, "Five working days per week (two leave days)")
	cmd.Flags().Bool("sunday-start", true, "Weeks start on Sunday (otherwise Monday)")

	return cmd
}

func weekStart(policy model.PolicySettings) string {
	if policy.WeekStartsOnSunday {
		return "Sunday"
	}
	return "Monday"
}

// PublishCmd creates the publish command
func PublishCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "publish <month>",
		Short: "Write the month table to the publish spreadsheet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			month, err := parseMonthArg(args[0])
			if err != nil {
				return err
			}
			team, _ := cmd.Flags().GetString("team")

			client, err := app.SheetsClient()
			if err != nil {
				return err
			}

			titles, err := services.PublishMonth(app.Ctx, app.Database, client, app.Cfg, app.Logger, team, month)
			if err != nil {
				return err
			}

			fmt.Printf("\n✓ Published %d tab(s):\n", len(titles))
			for _, title := range titles {
				fmt.Printf("  - %s\n", title)
			}
			fmt.Println()
			return nil
		},
	}

	cmd.Flags().StringP("team", "t", "", "Team to publish (default: every team)")

	return cmd
}
