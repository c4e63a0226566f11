package sheetsclient

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/riha-rota/riha-rota/pkg/core/model"
)

// Expected column names in the roster sheet
var staffFields = []string{
	"ID",
	"Name",
	"Team",
	"Position",
	"Profession",
	"Years",
}

// ListStaff reads and parses the roster tab of a spreadsheet
func (c *Client) ListStaff(ctx context.Context, spreadsheetID, tab string) ([]model.StaffMember, error) {
	values, err := c.GetValues(ctx, spreadsheetID, tab)
	if err != nil {
		return nil, fmt.Errorf("failed to get roster data: %w", err)
	}

	if len(values) == 0 {
		return nil, errors.New("spreadsheet is empty")
	}

	staff, err := parseStaff(values)
	if err != nil {
		return nil, fmt.Errorf("failed to parse roster: %w", err)
	}

	c.logger.Debug("Parsed roster sheet", zap.Int("rows", len(values)-1), zap.Int("staff", len(staff)))
	return staff, nil
}

// parseStaff converts raw rows into staff members, locating columns by header name.
// Rows without a name are skipped.
func parseStaff(raw [][]interface{}) ([]model.StaffMember, error) {
	if len(raw) < 1 {
		return nil, errors.New("no header row found")
	}

	fieldIndexes := make(map[string]int, len(staffFields))
	for _, field := range staffFields {
		index := -1
		for i, cell := range raw[0] {
			if cellStr, ok := cell.(string); ok && strings.TrimSpace(cellStr) == field {
				index = i
				break
			}
		}
		if index == -1 {
			return nil, fmt.Errorf("missing required field in header: %s", field)
		}
		fieldIndexes[field] = index
	}

	getField := func(field string, row []interface{}) string {
		index := fieldIndexes[field]
		if index >= len(row) || row[index] == nil {
			return ""
		}
		return strings.TrimSpace(fmt.Sprint(row[index]))
	}

	staff := make([]model.StaffMember, 0, len(raw)-1)
	for i := 1; i < len(raw); i++ {
		row := raw[i]

		name := getField("Name", row)
		if name == "" {
			continue
		}

		position := model.Position(getField("Position", row))
		if !position.IsValid() {
			return nil, fmt.Errorf("invalid position %q in row %d", position, i+1)
		}

		profession := model.Profession(strings.ToUpper(getField("Profession", row)))
		if !profession.IsValid() {
			return nil, fmt.Errorf("invalid profession %q in row %d", profession, i+1)
		}

		years := 0
		if yearsStr := getField("Years", row); yearsStr != "" {
			y, err := strconv.Atoi(yearsStr)
			if err != nil || y < 0 {
				return nil, fmt.Errorf("invalid years %q in row %d", yearsStr, i+1)
			}
			years = y
		}

		staff = append(staff, model.StaffMember{
			ID:         getField("ID", row),
			Name:       name,
			Team:       getField("Team", row),
			Position:   position,
			Profession: profession,
			Years:      years,
		})
	}

	return staff, nil
}
