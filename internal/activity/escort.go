package activity

import (
	"github.com/udisondev/hearth/internal/model"
	"github.com/udisondev/hearth/internal/world"
)

// Escort tuning.
const (
	babysitMinutes = 120.0
	followOffset   = 12.0
)

// escortEnter starts a caregiver task. The plan context on the caregiver's
// queue names the task and the destination.
func escortEnter(a *model.Agent, w *world.World) Status {
	ward, ok := escortWard(a, w)
	if !ok {
		return StatusStale
	}
	ctx := a.Queue.Context
	act := &a.Activity

	if ctx.Task == model.TaskBabysit {
		act.Timer = babysitMinutes
		return StatusRunning
	}

	path := w.Grid().FindPath(a.Pos, ctx.Destination)
	if len(path) == 0 {
		if !w.Grid().LineClear(a.Pos, ctx.Destination) {
			return StatusStale
		}
		path = []model.Point{ctx.Destination}
	}
	act.Path = path
	act.PathIndex = 0
	act.Timer = profileFor(model.KeyEscort, nil).Duration

	w.ReleaseAll(ward.ID)
	ward.Queue.Clear()
	ward.Activity = model.Activity{State: model.StateEscorted, EscortedBy: a.ID}
	return StatusRunning
}

func escortUpdate(a *model.Agent, w *world.World, dt float64) Status {
	ward, ok := escortWard(a, w)
	if !ok {
		return StatusStale
	}
	act := &a.Activity
	act.Timer -= dt

	if a.Queue.Context.Task == model.TaskBabysit {
		ward.Needs.Add(model.NeedSocial, listenerSocial*dt)
		ward.Needs.Add(model.NeedFun, 0.5*dt)
		if act.Timer <= 0 {
			ward.Remember(w.Clock(), "was looked after by "+a.Name)
			return StatusDone
		}
		return StatusRunning
	}

	// The ward may have been pulled away, by an emergency for instance.
	if ward.Activity.State != model.StateEscorted || ward.Activity.EscortedBy != a.ID {
		return StatusStale
	}
	arrived := Advance(a, a.MoveSpeed*dt)
	ward.Pos = model.Pt(a.Pos.X+followOffset, a.Pos.Y)
	ward.Facing = a.Facing
	if arrived || act.Timer <= 0 {
		return StatusDone
	}
	return StatusRunning
}

// escortExit lets go of the ward so it can re-evaluate on its own.
func escortExit(a *model.Agent, w *world.World) {
	a.Activity.Path = nil
	ward, ok := escortWard(a, w)
	if !ok {
		return
	}
	if ward.Activity.State == model.StateEscorted && ward.Activity.EscortedBy == a.ID {
		ward.Activity = model.Activity{}
		ward.Pos = w.Walkable(ward.Pos)
		ward.DecisionCooldown = 0
	}
}

func escortWard(a *model.Agent, w *world.World) (*model.Agent, bool) {
	id, ok := a.Activity.Target.Agent()
	if !ok {
		return nil, false
	}
	return w.Agent(id)
}

// escortedHandler keeps the ward in place while its caregiver leads.
type escortedHandler struct{}

func (escortedHandler) Enter(a *model.Agent, w *world.World) Status {
	if _, ok := w.Agent(a.Activity.EscortedBy); !ok {
		return StatusDone
	}
	return StatusRunning
}

func (escortedHandler) Update(a *model.Agent, w *world.World, _ float64) Status {
	c, ok := w.Agent(a.Activity.EscortedBy)
	if !ok {
		return StatusDone
	}
	if c.Activity.State != model.StateInteracting || c.Activity.Key != model.KeyEscort || c.Activity.Target != model.AgentTarget(a.ID) {
		return StatusDone
	}
	return StatusRunning
}

func (escortedHandler) Exit(a *model.Agent, _ *world.World) {
	a.Activity.EscortedBy = 0
}
