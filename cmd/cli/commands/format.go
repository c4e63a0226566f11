package commands

import (
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/riha-rota/riha-rota/pkg/clients/sheetsclient"
	"github.com/riha-rota/riha-rota/pkg/core/model"
	"github.com/riha-rota/riha-rota/pkg/core/services"
)

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorGreen  = "\033[32m"
	colorRed    = "\033[31m"
	colorYellow = "\033[33m"
	colorDim    = "\033[2m"
)

func parseMonthArg(arg string) (model.Month, error) {
	month, err := model.ParseMonth(arg)
	if err != nil {
		return model.Month{}, fmt.Errorf("month must be YYYY-MM, got: %s", arg)
	}
	return month, nil
}

func parseDayArg(name, arg string) (int, error) {
	day, err := strconv.Atoi(arg)
	if err != nil || day < 1 {
		return 0, fmt.Errorf("%s must be a positive day of the month, got: %s", name, arg)
	}
	return day, nil
}

// parseSeed reads the --seed flag; an empty value seeds from the clock
func parseSeed(raw string, now time.Time) (uint64, error) {
	if raw == "" {
		return uint64(now.UnixNano()), nil
	}
	seed, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("seed must be a non-negative integer, got: %s", raw)
	}
	return seed, nil
}

// splitIDs parses a comma-separated staff id list
func splitIDs(raw string) []string {
	var ids []string
	for _, id := range strings.Split(raw, ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

func writeReport(w io.Writer, report *services.MonthReport) {
	fmt.Fprintf(w, "\n%s %s\n", report.Team, report.Month)

	if report.Validation.IsValid {
		fmt.Fprintf(w, "  %s✓ No consecutive-day violations%s\n", colorGreen, colorReset)
	} else {
		for _, msg := range report.Validation.Errors {
			fmt.Fprintf(w, "  %s✗ %s%s\n", colorRed, msg, colorReset)
		}
	}

	if len(report.UnderCoveredDays) == 0 {
		fmt.Fprintf(w, "  %s✓ Every day is covered%s\n", colorGreen, colorReset)
	} else {
		days := make([]string, len(report.UnderCoveredDays))
		for i, d := range report.UnderCoveredDays {
			days[i] = strconv.Itoa(d)
		}
		fmt.Fprintf(w, "  %s⚠ Under-covered days: %s%s\n", colorYellow, strings.Join(days, ", "), colorReset)
	}

	if !report.WeeklyCompliant {
		fmt.Fprintf(w, "  %s⚠ Weekly leave count differs from policy%s\n", colorYellow, colorReset)
	}
}

// writeGrid prints a month grid, dimming blank cells and marking under-covered day columns
func writeGrid(w io.Writer, grid *sheetsclient.MonthGrid, underCovered []int) {
	if len(grid.Rows) == 0 {
		return
	}

	nameWidth := 12
	for _, row := range grid.Rows {
		nameWidth = max(nameWidth, len(fmt.Sprint(row[0]))+2)
	}
	const cellWidth = 8

	fmt.Fprintf(w, "\n%s\n", grid.Title)
	for r, row := range grid.Rows {
		fmt.Fprintf(w, "%-*s", nameWidth, fmt.Sprint(row[0]))
		for c, cell := range row[2:] {
			text := fmt.Sprint(cell)
			day := c + 1
			switch {
			case r == len(grid.Rows)-1 && slices.Contains(underCovered, day):
				fmt.Fprintf(w, "%s%-*s%s", colorRed, cellWidth, text, colorReset)
			case text == "":
				fmt.Fprintf(w, "%s%-*s%s", colorDim, cellWidth, "-", colorReset)
			default:
				fmt.Fprintf(w, "%-*s", cellWidth, text)
			}
		}
		fmt.Fprintln(w)
	}
}
