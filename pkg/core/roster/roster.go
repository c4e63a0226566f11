// Package roster provides ordering and lookup helpers over the staff roster.
package roster

import (
	"cmp"
	"slices"

	"github.com/riha-rota/riha-rota/pkg/core/model"
)

// PositionRank orders positions from most to least senior
func PositionRank(p model.Position) int {
	switch p {
	case model.PositionChief:
		return 0
	case model.PositionDeputyChief:
		return 1
	case model.PositionGeneral:
		return 2
	}
	return 3
}

// ProfessionRank orders professions the way the roster table lists them
func ProfessionRank(p model.Profession) int {
	switch p {
	case model.ProfessionPT:
		return 0
	case model.ProfessionOT:
		return 1
	case model.ProfessionST:
		return 2
	case model.ProfessionDH:
		return 3
	}
	return 4
}

// Compare orders staff by position, profession, tenure (longest first) then name and id
func Compare(a, b model.StaffMember) int {
	return cmp.Or(
		cmp.Compare(PositionRank(a.Position), PositionRank(b.Position)),
		cmp.Compare(ProfessionRank(a.Profession), ProfessionRank(b.Profession)),
		cmp.Compare(b.Years, a.Years),
		cmp.Compare(a.Name, b.Name),
		cmp.Compare(a.ID, b.ID),
	)
}

// Sort returns a sorted copy of staff
func Sort(staff []model.StaffMember) []model.StaffMember {
	sorted := slices.Clone(staff)
	slices.SortStableFunc(sorted, Compare)
	return sorted
}

// SeniorPair returns up to two staff holding 主任 or 副主任, most senior first
func SeniorPair(staff []model.StaffMember) []model.StaffMember {
	pair := make([]model.StaffMember, 0, 2)
	for _, s := range Sort(staff) {
		if !s.Position.IsSenior() {
			continue
		}
		pair = append(pair, s)
		if len(pair) == 2 {
			break
		}
	}
	return pair
}

// ByTeam groups staff by team, each group sorted
func ByTeam(staff []model.StaffMember) map[string][]model.StaffMember {
	teams := make(map[string][]model.StaffMember)
	for _, s := range staff {
		teams[s.Team] = append(teams[s.Team], s)
	}
	for team, members := range teams {
		teams[team] = Sort(members)
	}
	return teams
}

// Teams returns the distinct team names in sorted order
func Teams(staff []model.StaffMember) []string {
	var teams []string
	for _, s := range staff {
		if !slices.Contains(teams, s.Team) {
			teams = append(teams, s.Team)
		}
	}
	slices.Sort(teams)
	return teams
}

// IDs returns the ids of staff in order
func IDs(staff []model.StaffMember) []string {
	ids := make([]string, len(staff))
	for i, s := range staff {
		ids[i] = s.ID
	}
	return ids
}

// Find returns the staff member with the given id
func Find(staff []model.StaffMember, id string) (model.StaffMember, bool) {
	for _, s := range staff {
		if s.ID == id {
			return s, true
		}
	}
	return model.StaffMember{}, false
}
