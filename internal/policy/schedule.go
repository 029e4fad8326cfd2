package policy

import (
	"slices"

	"github.com/udisondev/hearth/internal/model"
)

// Schedule answers time-dependent rule questions for agents.
type Schedule struct {
	t Tables
}

// NewSchedule wraps rule tables.
func NewSchedule(t Tables) *Schedule {
	return &Schedule{t: t}
}

// Tables returns the underlying rule tables.
func (s *Schedule) Tables() Tables {
	return s.t
}

// IsHoliday reports whether day is a public holiday.
func (s *Schedule) IsHoliday(day int) bool {
	if s.t.YearDays > 0 {
		day %= s.t.YearDays
	}
	return slices.Contains(s.t.Holidays, day)
}

// OnLeave reports whether the agent is on personal leave at minute.
func (s *Schedule) OnLeave(a *model.Agent, minute float64) bool {
	return Day(minute) < a.LeaveUntilDay
}

// WorkShift returns the shift of a workplace.
func (s *Schedule) WorkShift(id model.WorkplaceID) Shift {
	if sh, ok := s.t.Shifts[id]; ok {
		return sh
	}
	return s.t.Work
}

// Obligation returns the duty the agent should be attending at minute:
// IntentWork, IntentSchool, or false when free. The agent's ScheduleOffset
// shifts both boundaries so a household does not move in lockstep.
func (s *Schedule) Obligation(a *model.Agent, minute float64) (model.Intent, bool) {
	return s.obligationAt(a, minute+a.ScheduleOffset)
}

// Upcoming reports the obligation starting within CommuteLead minutes, so
// agents set off in time.
func (s *Schedule) Upcoming(a *model.Agent, minute float64) (model.Intent, bool) {
	if in, ok := s.Obligation(a, minute); ok {
		return in, true
	}
	return s.obligationAt(a, minute+a.ScheduleOffset+s.t.CommuteLead)
}

func (s *Schedule) obligationAt(a *model.Agent, m float64) (model.Intent, bool) {
	if m < 0 {
		m = 0
	}
	day := Day(m)
	if s.IsHoliday(day) || day < a.LeaveUntilDay {
		return model.IntentWander, false
	}
	wd := day % DaysPerWeek
	mod := MinuteOfDay(m)

	if a.Employed() && a.Role != model.RoleChild {
		sh := s.WorkShift(a.Job.WorkplaceID)
		if sh.runsOn(wd) && sh.contains(mod) {
			return model.IntentWork, true
		}
	}
	if a.InSchool && s.SchoolAge(a.Age) {
		if s.t.School.runsOn(wd) && s.t.School.contains(mod) {
			return model.IntentSchool, true
		}
	}
	return model.IntentWander, false
}

// SchoolAge reports whether age is within compulsory schooling.
func (s *Schedule) SchoolAge(age int) bool {
	return age >= s.t.SchoolMinAge && age <= s.t.SchoolMaxAge
}

// IsAdult reports whether the agent is old enough to work and live alone.
func (s *Schedule) IsAdult(a *model.Agent) bool {
	return a.Role != model.RoleChild && a.Age >= s.t.AdultAge
}

// CurfewActive reports whether a child must stay home at minute.
func (s *Schedule) CurfewActive(a *model.Agent, minute float64) bool {
	if a.Role != model.RoleChild {
		return false
	}
	c := Shift{Start: s.t.Curfew.From, End: s.t.Curfew.Until}
	return c.contains(MinuteOfDay(minute))
}

// HourlyWage returns what the agent earns per sim hour of work.
func (s *Schedule) HourlyWage(a *model.Agent) float64 {
	if a.Job == nil {
		return 0
	}
	if w, ok := s.t.Wages[a.Job.Title]; ok {
		return w
	}
	return s.t.DefaultWage
}
