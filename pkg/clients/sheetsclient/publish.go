package sheetsclient

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/riha-rota/riha-rota/pkg/core/model"
)

var weekdayLabels = [7]string{"日", "月", "火", "水", "木", "金", "土"}

// WorkingCountLabel heads the footer row holding the per-day working count
const WorkingCountLabel = "出勤数"

// MonthGrid is a staff × day table ready to be written to a tab
type MonthGrid struct {
	Title string
	Rows  [][]interface{}
}

// GridTitle names the tab a month is published to
func GridTitle(team string, month model.Month) string {
	if team == "" {
		return month.String()
	}
	return month.String() + " " + team
}

// BuildMonthGrid lays out entries with one row per staff member (in the given order)
// and one column per day, followed by a working-count footer row.
// Cells without an entry are left blank.
func BuildMonthGrid(team string, month model.Month, staff []model.StaffMember, entries []model.ShiftEntry) *MonthGrid {
	days := month.DaysInMonth()

	header := make([]interface{}, 0, days+2)
	header = append(header, "Name", "Position")
	for day := 1; day <= days; day++ {
		header = append(header, fmt.Sprintf("%d(%s)", day, weekdayLabels[month.Date(day).Weekday()]))
	}

	index := model.IndexEntries(entries)
	working := make([]int, days+1)

	rows := make([][]interface{}, 0, len(staff)+2)
	rows = append(rows, header)
	for _, s := range staff {
		row := make([]interface{}, 0, days+2)
		row = append(row, s.Name, string(s.Position))
		for day := 1; day <= days; day++ {
			cell := ""
			if i, ok := index[model.EntryKey{StaffID: s.ID, Date: day}]; ok {
				e := entries[i]
				cell = string(e.Status())
				if e.CountsAsWorking() {
					working[day]++
				}
			}
			row = append(row, cell)
		}
		rows = append(rows, row)
	}

	footer := make([]interface{}, 0, days+2)
	footer = append(footer, WorkingCountLabel, "")
	for day := 1; day <= days; day++ {
		footer = append(footer, working[day])
	}
	rows = append(rows, footer)

	return &MonthGrid{Title: GridTitle(team, month), Rows: rows}
}

// PublishMonth writes the grid to its tab, creating the tab when missing.
// An existing tab is cleared and overwritten.
func (c *Client) PublishMonth(ctx context.Context, spreadsheetID string, grid *MonthGrid) error {
	exists, err := c.HasSheet(ctx, spreadsheetID, grid.Title)
	if err != nil {
		return err
	}

	if !exists {
		if _, err := c.CreateSheet(ctx, spreadsheetID, grid.Title); err != nil {
			return fmt.Errorf("failed to create tab: %w", err)
		}
		c.logger.Debug("Created tab", zap.String("title", grid.Title))
	}

	if err := c.ReplaceValues(ctx, spreadsheetID, grid.Title, grid.Rows); err != nil {
		return fmt.Errorf("failed to publish %s: %w", grid.Title, err)
	}
	return nil
}
