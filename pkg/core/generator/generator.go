// Package generator builds a month of shift entries for one team.
//
// Every staff member gets a working or leave entry for every day of the month.
// Leave days are drawn at random per calendar week, the senior pair (主任/副主任)
// is kept from being on leave on the same day, and entries an operator has
// edited by hand are carried through untouched.
package generator

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"

	"github.com/riha-rota/riha-rota/pkg/core/model"
	"github.com/riha-rota/riha-rota/pkg/core/roster"
)

// Config contains the inputs for a generation run
type Config struct {
	// Staff is the roster of a single team
	Staff []model.StaffMember

	// Month is the target month
	Month model.Month

	// ExistingEntries are the previously stored entries for the team and month.
	// Only entries with ManuallyEdited set are used.
	ExistingEntries []model.ShiftEntry

	// Policy controls leave days per week and week boundaries
	Policy model.PolicySettings

	// LeaveType is written on generated leave entries (defaults to 休み)
	LeaveType model.LeaveType

	// Rand drives the leave day draw
	Rand *rand.Rand
}

type generator struct {
	cfg     Config
	staff   []model.StaffMember
	partner map[string]string
	manual  map[model.EntryKey]model.ShiftEntry
	entries map[model.EntryKey]model.ShiftEntry
}

// Generate produces a complete set of entries for every staff member on every day of the month
func Generate(cfg Config) ([]model.ShiftEntry, error) {
	if err := cfg.Month.Validate(); err != nil {
		return nil, err
	}
	if cfg.Rand == nil {
		return nil, errors.New("generator requires a random source")
	}
	if cfg.LeaveType == "" {
		cfg.LeaveType = model.LeaveOff
	}
	if !cfg.LeaveType.IsValid() {
		return nil, fmt.Errorf("%w: generated leave type %q", model.ErrInvalidStatus, cfg.LeaveType)
	}

	g := &generator{
		cfg:     cfg,
		staff:   roster.Sort(cfg.Staff),
		partner: make(map[string]string),
		manual:  make(map[model.EntryKey]model.ShiftEntry),
		entries: make(map[model.EntryKey]model.ShiftEntry),
	}

	if pair := roster.SeniorPair(g.staff); len(pair) == 2 {
		g.partner[pair[0].ID] = pair[1].ID
		g.partner[pair[1].ID] = pair[0].ID
	}

	// Manual entries are in place before any draw so the senior rule sees them
	for _, e := range cfg.ExistingEntries {
		if e.ManuallyEdited {
			if !cfg.Month.Contains(e.Date) {
				return nil, fmt.Errorf("%w: manual entry for staff %s on day %d is outside %s",
					model.ErrInvalidRange, e.StaffID, e.Date, cfg.Month)
			}
			g.manual[e.Key()] = e
			g.entries[e.Key()] = e
		}
	}

	for _, week := range model.Weeks(cfg.Month, cfg.Policy.WeekStartsOnSunday) {
		for _, s := range g.staff {
			g.fillWeek(s, week)
		}
	}

	return g.buildOutput(), nil
}

// fillWeek draws leave offsets for one staff member and writes the in-month days of the week
func (g *generator) fillWeek(s model.StaffMember, week model.Week) {
	leaveOffsets := g.drawLeaveOffsets(s, week)

	for offset, day := range week.Days {
		if day == 0 {
			continue
		}
		key := model.EntryKey{StaffID: s.ID, Date: day}
		if _, frozen := g.manual[key]; frozen {
			continue
		}

		onLeave := slices.Contains(leaveOffsets, offset)
		if onLeave && g.partnerOnLeave(s.ID, day) {
			onLeave = false
		}

		if onLeave {
			g.entries[key] = model.NewLeaveEntry(s.ID, day, g.cfg.LeaveType)
		} else {
			g.entries[key] = model.NewWorkingEntry(s.ID, day)
		}
	}
}

// drawLeaveOffsets picks distinct offsets within the week as leave days.
// Offsets of manually edited days never take a leave slot. For a senior pair
// member, offsets on which the partner is already on leave are used last.
func (g *generator) drawLeaveOffsets(s model.StaffMember, week model.Week) []int {
	var preferred, conflicting []int
	for offset, day := range week.Days {
		if day != 0 {
			if _, frozen := g.manual[model.EntryKey{StaffID: s.ID, Date: day}]; frozen {
				continue
			}
			if g.partnerOnLeave(s.ID, day) {
				conflicting = append(conflicting, offset)
				continue
			}
		}
		preferred = append(preferred, offset)
	}

	want := g.cfg.Policy.LeaveDaysPerWeek()
	offsets := g.pick(preferred, want)
	if len(offsets) < want {
		offsets = append(offsets, g.pick(conflicting, want-len(offsets))...)
	}
	return offsets
}

// pick returns up to n distinct values drawn at random from candidates
func (g *generator) pick(candidates []int, n int) []int {
	shuffled := slices.Clone(candidates)
	g.cfg.Rand.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	return shuffled[:min(n, len(shuffled))]
}

// partnerOnLeave reports whether the other senior pair member is off on day
func (g *generator) partnerOnLeave(staffID string, day int) bool {
	partnerID, ok := g.partner[staffID]
	if !ok {
		return false
	}
	e, ok := g.entries[model.EntryKey{StaffID: partnerID, Date: day}]
	return ok && !e.IsWorking
}

// buildOutput orders entries by roster position then day, followed by manual
// entries for staff outside the roster
func (g *generator) buildOutput() []model.ShiftEntry {
	output := make([]model.ShiftEntry, 0, len(g.entries))
	written := make(map[model.EntryKey]bool, len(g.entries))

	for _, s := range g.staff {
		for day := 1; day <= g.cfg.Month.DaysInMonth(); day++ {
			key := model.EntryKey{StaffID: s.ID, Date: day}
			if e, ok := g.entries[key]; ok {
				output = append(output, e)
				written[key] = true
			}
		}
	}

	var rest []model.ShiftEntry
	for key, e := range g.entries {
		if !written[key] {
			rest = append(rest, e)
		}
	}
	model.SortEntries(rest)

	return append(output, rest...)
}
