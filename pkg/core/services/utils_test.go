package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/riha-rota/riha-rota/internal/config"
	"github.com/riha-rota/riha-rota/pkg/core/model"
	"github.com/riha-rota/riha-rota/pkg/db"
)

// mockDB is an in-memory db.Database. UpdateShiftEntries holds mu for the whole
// read-modify-write, the way the Postgres advisory lock does.
type mockDB struct {
	mu sync.Mutex

	staff   []db.Staff
	policy  *db.PolicySettings
	entries map[string][]db.ShiftEntry

	getPolicyErr error

	// updateErr fails writes to updateErrTeam, or to every team when it is empty
	updateErr     error
	updateErrTeam string

	// beforeUpdate runs at the start of every UpdateShiftEntries call, before the lock
	beforeUpdate func(team string)

	updateCalls int
}

func newMockDB(staff ...model.StaffMember) *mockDB {
	m := &mockDB{entries: make(map[string][]db.ShiftEntry)}
	for _, s := range staff {
		m.staff = append(m.staff, db.StaffFromModel(s))
	}
	return m
}

func monthKey(team, month string) string {
	return team + "/" + month
}

func (m *mockDB) GetStaff(ctx context.Context) ([]db.Staff, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.staff), nil
}

func (m *mockDB) UpsertStaff(ctx context.Context, staff []db.Staff) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range staff {
		if i := slices.IndexFunc(m.staff, func(existing db.Staff) bool { return existing.ID == s.ID }); i >= 0 {
			m.staff[i] = s
		} else {
			m.staff = append(m.staff, s)
		}
	}
	return nil
}

func (m *mockDB) GetPolicy(ctx context.Context) (*db.PolicySettings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getPolicyErr != nil {
		return nil, m.getPolicyErr
	}
	return m.policy, nil
}

func (m *mockDB) SetPolicy(ctx context.Context, policy db.PolicySettings) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.policy = &policy
	return nil
}

func (m *mockDB) GetShiftEntries(ctx context.Context, team, month string) ([]db.ShiftEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.entries[monthKey(team, month)]), nil
}

func (m *mockDB) UpdateShiftEntries(ctx context.Context, team, month string, fn func([]db.ShiftEntry) ([]db.ShiftEntry, error)) error {
	if m.beforeUpdate != nil {
		m.beforeUpdate(team)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.updateErr != nil && (m.updateErrTeam == "" || m.updateErrTeam == team) {
		return m.updateErr
	}

	updated, err := fn(slices.Clone(m.entries[monthKey(team, month)]))
	if errors.Is(err, db.SkipUpdate) {
		return nil
	}
	if err != nil {
		return err
	}

	m.updateCalls++
	m.entries[monthKey(team, month)] = updated
	return nil
}

// stored returns the saved entries of a team's month as model entries
func (m *mockDB) stored(team string, month model.Month) []model.ShiftEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	entries, err := db.ShiftEntriesToModel(m.entries[monthKey(team, month.String())])
	if err != nil {
		panic(err)
	}
	return entries
}

func (m *mockDB) seed(team string, month model.Month, entries ...model.ShiftEntry) {
	m.entries[monthKey(team, month.String())] = db.ShiftEntriesFromModel(team, month, entries)
}

var june2025 = model.Month{Year: 2025, Month: time.June}

func testConfig() *config.Config {
	return &config.Config{
		DatabaseURL:         "postgres://localhost/test",
		MinimumStaff:        8,
		ConsecutiveDayLimit: 5,
		GeneratedLeaveType:  "休み",
	}
}

// teamRoster builds n staff for team; the first two are the senior pair
func teamRoster(team string, n int) []model.StaffMember {
	staff := make([]model.StaffMember, n)
	for i := range staff {
		position := model.PositionGeneral
		switch i {
		case 0:
			position = model.PositionChief
		case 1:
			position = model.PositionDeputyChief
		}
		staff[i] = model.StaffMember{
			ID:         fmt.Sprintf("%s-%02d", team, i+1),
			Name:       fmt.Sprintf("%s staff %d", team, i+1),
			Team:       team,
			Position:   position,
			Profession: model.ProfessionPT,
			Years:      n - i,
		}
	}
	return staff
}

func find(entries []model.ShiftEntry, staffID string, day int) (model.ShiftEntry, bool) {
	for _, e := range entries {
		if e.StaffID == staffID && e.Date == day {
			return e, true
		}
	}
	return model.ShiftEntry{}, false
}
