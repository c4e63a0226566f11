package validator

import "github.com/riha-rota/riha-rota/pkg/core/model"

// WeeklyLeaveCompliant reports whether every staff member has exactly the
// policy's leave count in every week that lies fully inside the month.
// Weeks in which a staff member has a manually edited entry are not checked for that member.
func WeeklyLeaveCompliant(entries []model.ShiftEntry, month model.Month, policy model.PolicySettings) bool {
	want := policy.LeaveDaysPerWeek()
	byStaff := groupByStaff(entries)

	for _, week := range model.Weeks(month, policy.WeekStartsOnSunday) {
		if !week.IsComplete() {
			continue
		}

		for _, staffEntries := range byStaff {
			leave, manual := 0, false
			for _, e := range staffEntries {
				if e.Date < week.Days[0] || e.Date > week.Days[6] {
					continue
				}
				if e.ManuallyEdited {
					manual = true
					break
				}
				if e.IsLeave() {
					leave++
				}
			}
			if !manual && leave != want {
				return false
			}
		}
	}

	return true
}
