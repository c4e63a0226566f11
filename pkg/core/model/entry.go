package model

import (
	"cmp"
	"fmt"
	"slices"
)

// LeaveType is the reason an entry represents a non-working day
type LeaveType string

const (
	LeaveRequested LeaveType = "希望休"
	LeaveOff       LeaveType = "休み"
	LeavePaid      LeaveType = "有給"
	LeaveSummer    LeaveType = "夏季"
	LeaveSpecial   LeaveType = "特別休暇"
)

// LeaveTypes lists every leave type in display order
var LeaveTypes = []LeaveType{LeaveRequested, LeaveOff, LeavePaid, LeaveSummer, LeaveSpecial}

func (l LeaveType) IsValid() bool {
	return slices.Contains(LeaveTypes, l)
}

// Status is the value an operator picks for a cell
type Status string

const (
	StatusWorking Status = "出勤"
	// StatusCancel removes the entry, leaving the cell blank
	StatusCancel Status = "取消"
)

// ParseStatus accepts 出勤, 取消 or any leave type
func ParseStatus(s string) (Status, error) {
	status := Status(s)
	if status == StatusWorking || status == StatusCancel || LeaveType(s).IsValid() {
		return status, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
}

// LeaveType returns the leave type for leave statuses
func (s Status) LeaveType() (LeaveType, bool) {
	l := LeaveType(s)
	return l, l.IsValid()
}

// EntryKey is the natural key of a shift entry
type EntryKey struct {
	StaffID string
	Date    int
}

// ShiftEntry is one staff member's status for one day of the month
type ShiftEntry struct {
	StaffID   string
	Date      int
	IsWorking bool

	// LeaveType is only set when IsWorking is false
	LeaveType *LeaveType

	// ManuallyEdited entries were set by an operator and are never regenerated
	ManuallyEdited bool

	// OriginalStatus is the display value before the first manual edit
	OriginalStatus string
}

// NewWorkingEntry creates a working entry
func NewWorkingEntry(staffID string, date int) ShiftEntry {
	return ShiftEntry{StaffID: staffID, Date: date, IsWorking: true}
}

// NewLeaveEntry creates a leave entry
func NewLeaveEntry(staffID string, date int, leave LeaveType) ShiftEntry {
	return ShiftEntry{StaffID: staffID, Date: date, LeaveType: &leave}
}

// NewStatusEntry creates an entry for a non-cancel status
func NewStatusEntry(staffID string, date int, status Status) (ShiftEntry, error) {
	if status == StatusWorking {
		return NewWorkingEntry(staffID, date), nil
	}
	if leave, ok := status.LeaveType(); ok {
		return NewLeaveEntry(staffID, date, leave), nil
	}
	return ShiftEntry{}, fmt.Errorf("%w: %q cannot be stored as an entry", ErrInvalidStatus, status)
}

func (e ShiftEntry) Key() EntryKey {
	return EntryKey{StaffID: e.StaffID, Date: e.Date}
}

// IsLeave reports whether the entry carries a leave marker
func (e ShiftEntry) IsLeave() bool {
	return e.LeaveType != nil
}

// CountsAsWorking reports whether the entry is a working day for streak purposes
func (e ShiftEntry) CountsAsWorking() bool {
	return e.IsWorking && e.LeaveType == nil
}

// Status returns the display value of the entry
func (e ShiftEntry) Status() Status {
	if e.LeaveType != nil {
		return Status(*e.LeaveType)
	}
	if e.IsWorking {
		return StatusWorking
	}
	return ""
}

// Equal compares every field, dereferencing the leave type
func (e ShiftEntry) Equal(other ShiftEntry) bool {
	if e.StaffID != other.StaffID || e.Date != other.Date || e.IsWorking != other.IsWorking ||
		e.ManuallyEdited != other.ManuallyEdited || e.OriginalStatus != other.OriginalStatus {
		return false
	}
	if (e.LeaveType == nil) != (other.LeaveType == nil) {
		return false
	}
	return e.LeaveType == nil || *e.LeaveType == *other.LeaveType
}

// Validate checks the working/leave invariant
func (e ShiftEntry) Validate() error {
	if e.StaffID == "" {
		return fmt.Errorf("entry on day %d has no staff id", e.Date)
	}
	if e.IsWorking && e.LeaveType != nil {
		return fmt.Errorf("entry for %s on day %d is working but has leave type %s", e.StaffID, e.Date, *e.LeaveType)
	}
	if e.LeaveType != nil && !e.LeaveType.IsValid() {
		return fmt.Errorf("entry for %s on day %d: %w: %q", e.StaffID, e.Date, ErrInvalidStatus, *e.LeaveType)
	}
	return nil
}

// IndexEntries maps each key to its position in entries. Later duplicates win.
func IndexEntries(entries []ShiftEntry) map[EntryKey]int {
	index := make(map[EntryKey]int, len(entries))
	for i, e := range entries {
		index[e.Key()] = i
	}
	return index
}

// HasDuplicateKeys reports whether two entries share a (staff, date) key
func HasDuplicateKeys(entries []ShiftEntry) bool {
	seen := make(map[EntryKey]bool, len(entries))
	for _, e := range entries {
		if seen[e.Key()] {
			return true
		}
		seen[e.Key()] = true
	}
	return false
}

// SortEntries orders entries by staff id then date
func SortEntries(entries []ShiftEntry) {
	slices.SortStableFunc(entries, func(a, b ShiftEntry) int {
		return cmp.Or(cmp.Compare(a.StaffID, b.StaffID), cmp.Compare(a.Date, b.Date))
	})
}

// StreakViolation describes a run of consecutive working days at or above the limit
type StreakViolation struct {
	StaffID  string
	Streak   int
	StartDay int
	EndDay   int
}

// ValidationResult is the outcome of the consecutive-working-day check
type ValidationResult struct {
	IsValid    bool
	Errors     []string
	Violations []StreakViolation
}
