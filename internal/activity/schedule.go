package activity

import (
	"github.com/udisondev/hearth/internal/model"
	"github.com/udisondev/hearth/internal/world"
)

// ScheduleCheck enforces work and school boundaries, accounting for holidays,
// leave and the agent's schedule offset. It stops duty activities once duty is
// over and pulls agents out of leisure when duty is about to start.
// Returns true when it interrupted the agent.
func (m *Machine) ScheduleCheck(a *model.Agent, w *world.World) bool {
	if a.Role == model.RoleHelper || a.Activity.State == model.StateEscorted {
		return false
	}
	upcoming, soon := w.Schedule().Upcoming(a, w.Clock())
	planned := a.Queue.Context.Intent

	switch {
	case onDutyActivity(a) && !soon:
		m.Interrupt(a, w, "duty over")
		return true
	case a.Activity.State == model.StateCommuting && isDuty(planned) && !soon:
		m.Interrupt(a, w, "duty cancelled")
		return true
	}

	ctx := a.Queue.Context
	if !soon || planned == upcoming || ctx.Urgent || ctx.DutyAware {
		return false
	}
	if a.Activity.State == model.StateIdle {
		a.DecisionCooldown = 0
		return false
	}
	if onDutyActivity(a) {
		return false
	}
	m.Interrupt(a, w, "duty starts")
	return true
}

func onDutyActivity(a *model.Agent) bool {
	return a.Activity.State == model.StateInteracting &&
		(a.Activity.Key == model.KeyWork || a.Activity.Key == model.KeyStudy)
}

func isDuty(in model.Intent) bool {
	return in == model.IntentWork || in == model.IntentSchool
}
