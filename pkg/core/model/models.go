package model

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrInvalidRange is returned when a day range is reversed or a day falls outside the month
	ErrInvalidRange = errors.New("invalid range")

	// ErrInvalidStatus is returned for a status value outside the known vocabulary
	ErrInvalidStatus = errors.New("invalid status")

	// ErrEntryNotFound is returned when an operation needs an entry that does not exist
	ErrEntryNotFound = errors.New("entry not found")

	// ErrInvalidMonth is returned for a month outside 1..12 or a non-positive year
	ErrInvalidMonth = errors.New("invalid month")
)

// Position is the seniority rank of a staff member
type Position string

const (
	PositionChief       Position = "主任"
	PositionDeputyChief Position = "副主任"
	PositionGeneral     Position = "一般"
)

func (p Position) IsValid() bool {
	return p == PositionChief || p == PositionDeputyChief || p == PositionGeneral
}

// IsSenior reports whether the position takes part in the senior pair
func (p Position) IsSenior() bool {
	return p == PositionChief || p == PositionDeputyChief
}

// Profession is the therapist discipline of a staff member
type Profession string

const (
	ProfessionPT Profession = "PT"
	ProfessionOT Profession = "OT"
	ProfessionST Profession = "ST"
	ProfessionDH Profession = "DH"
)

func (p Profession) IsValid() bool {
	switch p {
	case ProfessionPT, ProfessionOT, ProfessionST, ProfessionDH:
		return true
	}
	return false
}

// StaffMember represents a member of the rehabilitation roster
type StaffMember struct {
	ID         string     `validate:"required"`
	Name       string     `validate:"required"`
	Team       string     `validate:"required"`
	Position   Position   `validate:"required,oneof=主任 副主任 一般"`
	Profession Profession `validate:"required,oneof=PT OT ST DH"`
	Years      int        `validate:"min=0"`
}

// PolicySettings are the install-wide shift policy switches
type PolicySettings struct {
	// WeeklyFiveShifts gives every staff member two leave days per week when true, one otherwise
	WeeklyFiveShifts bool

	// WeekStartsOnSunday sets week boundaries for the weekly leave rule (Monday otherwise)
	WeekStartsOnSunday bool
}

// DefaultPolicySettings is used when no settings have been stored
func DefaultPolicySettings() PolicySettings {
	return PolicySettings{
		WeeklyFiveShifts:   true,
		WeekStartsOnSunday: true,
	}
}

// LeaveDaysPerWeek returns the number of leave days each staff member gets per calendar week
func (p PolicySettings) LeaveDaysPerWeek() int {
	if p.WeeklyFiveShifts {
		return 2
	}
	return 1
}

// Month identifies a calendar month
type Month struct {
	Year  int
	Month time.Month
}

// ParseMonth parses a "2006-01" formatted month
func ParseMonth(s string) (Month, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return Month{}, fmt.Errorf("%w: %q must be formatted YYYY-MM", ErrInvalidMonth, s)
	}
	return Month{Year: t.Year(), Month: t.Month()}, nil
}

func (m Month) Validate() error {
	if m.Year <= 0 || m.Month < time.January || m.Month > time.December {
		return fmt.Errorf("%w: %d-%02d", ErrInvalidMonth, m.Year, int(m.Month))
	}
	return nil
}

// DaysInMonth returns the number of days in the month
func (m Month) DaysInMonth() int {
	return time.Date(m.Year, m.Month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// Date returns the calendar date for a day of the month
func (m Month) Date(day int) time.Time {
	return time.Date(m.Year, m.Month, day, 0, 0, 0, 0, time.UTC)
}

// Contains reports whether day is a valid day of the month
func (m Month) Contains(day int) bool {
	return day >= 1 && day <= m.DaysInMonth()
}

func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}
