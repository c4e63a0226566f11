package db

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/riha-rota/riha-rota/pkg/core/model"
)

// Staff represents a database staff record
type Staff struct {
	ID         string
	Name       string
	Team       string
	Position   string
	Profession string
	Years      int
}

// PolicySettings represents the single policy settings record
type PolicySettings struct {
	WeeklyFiveShifts   bool
	WeekStartsOnSunday bool
}

// ShiftEntry represents a database shift entry record.
// Month is formatted as 2006-01 and Day is the day of that month.
type ShiftEntry struct {
	ID             string
	Team           string
	Month          string
	StaffID        string
	Day            int
	IsWorking      bool
	LeaveType      string
	ManuallyEdited bool
	OriginalStatus string
}

// StaffFromModel converts a staff member to a record, assigning an ID when missing
func StaffFromModel(s model.StaffMember) Staff {
	id := s.ID
	if id == "" {
		id = uuid.NewString()
	}
	return Staff{
		ID:         id,
		Name:       s.Name,
		Team:       s.Team,
		Position:   string(s.Position),
		Profession: string(s.Profession),
		Years:      s.Years,
	}
}

// ToModel converts the record to a staff member
func (s Staff) ToModel() model.StaffMember {
	return model.StaffMember{
		ID:         s.ID,
		Name:       s.Name,
		Team:       s.Team,
		Position:   model.Position(s.Position),
		Profession: model.Profession(s.Profession),
		Years:      s.Years,
	}
}

// ToModel converts the record to policy settings
func (p PolicySettings) ToModel() model.PolicySettings {
	return model.PolicySettings{
		WeeklyFiveShifts:   p.WeeklyFiveShifts,
		WeekStartsOnSunday: p.WeekStartsOnSunday,
	}
}

// PolicyFromModel converts policy settings to a record
func PolicyFromModel(p model.PolicySettings) PolicySettings {
	return PolicySettings{
		WeeklyFiveShifts:   p.WeeklyFiveShifts,
		WeekStartsOnSunday: p.WeekStartsOnSunday,
	}
}

// ShiftEntryFromModel converts an entry for (team, month) to a record with a fresh ID
func ShiftEntryFromModel(team string, month model.Month, e model.ShiftEntry) ShiftEntry {
	row := ShiftEntry{
		ID:             uuid.NewString(),
		Team:           team,
		Month:          month.String(),
		StaffID:        e.StaffID,
		Day:            e.Date,
		IsWorking:      e.IsWorking,
		ManuallyEdited: e.ManuallyEdited,
		OriginalStatus: e.OriginalStatus,
	}
	if e.LeaveType != nil {
		row.LeaveType = string(*e.LeaveType)
	}
	return row
}

// ToModel converts the record to a shift entry, rejecting unknown leave types
func (r ShiftEntry) ToModel() (model.ShiftEntry, error) {
	e := model.ShiftEntry{
		StaffID:        r.StaffID,
		Date:           r.Day,
		IsWorking:      r.IsWorking,
		ManuallyEdited: r.ManuallyEdited,
		OriginalStatus: r.OriginalStatus,
	}
	if r.LeaveType != "" {
		lt := model.LeaveType(r.LeaveType)
		e.LeaveType = &lt
	}
	if err := e.Validate(); err != nil {
		return model.ShiftEntry{}, fmt.Errorf("shift entry %s: %w", r.ID, err)
	}
	return e, nil
}

// ShiftEntriesToModel converts records to entries
func ShiftEntriesToModel(rows []ShiftEntry) ([]model.ShiftEntry, error) {
	entries := make([]model.ShiftEntry, 0, len(rows))
	for _, r := range rows {
		e, err := r.ToModel()
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// ShiftEntriesFromModel converts entries for (team, month) to records
func ShiftEntriesFromModel(team string, month model.Month, entries []model.ShiftEntry) []ShiftEntry {
	rows := make([]ShiftEntry, len(entries))
	for i, e := range entries {
		rows[i] = ShiftEntryFromModel(team, month, e)
	}
	return rows
}
