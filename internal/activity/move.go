package activity

import (
	"github.com/udisondev/hearth/internal/model"
	"github.com/udisondev/hearth/internal/world"
)

// moveHandler follows Activity.Path. It serves both Moving and Commuting.
type moveHandler struct{}

func (moveHandler) Enter(a *model.Agent, w *world.World) Status {
	if !TargetAlive(a.Activity.Target, w) {
		return StatusStale
	}
	if a.Activity.PathIndex >= len(a.Activity.Path) {
		return StatusDone
	}
	return StatusRunning
}

func (moveHandler) Update(a *model.Agent, w *world.World, dt float64) Status {
	if !TargetAlive(a.Activity.Target, w) {
		return StatusStale
	}
	if Advance(a, a.MoveSpeed*dt) {
		return StatusDone
	}
	return StatusRunning
}

func (moveHandler) Exit(a *model.Agent, _ *world.World) {
	a.Activity.Path = nil
	a.Activity.PathIndex = 0
}

// Advance moves a along its path by at most budget world units and updates
// facing. Returns true once the last waypoint is reached.
func Advance(a *model.Agent, budget float64) bool {
	path := a.Activity.Path
	for a.Activity.PathIndex < len(path) {
		next := path[a.Activity.PathIndex]
		d := a.Pos.Distance(next)
		if d > 0 {
			a.Facing = model.FacingFromDelta(next.X-a.Pos.X, next.Y-a.Pos.Y)
		}
		if d > budget {
			f := budget / d
			a.Pos = model.Pt(a.Pos.X+(next.X-a.Pos.X)*f, a.Pos.Y+(next.Y-a.Pos.Y)*f)
			return false
		}
		a.Pos = next
		budget -= d
		a.Activity.PathIndex++
	}
	return true
}

// TargetAlive reports whether t still resolves in w. An empty target is always alive.
func TargetAlive(t model.Target, w *world.World) bool {
	switch t.Kind {
	case model.TargetFurniture:
		id, _ := t.Furniture()
		_, ok := w.Interactable(id)
		return ok
	case model.TargetAgent:
		id, _ := t.Agent()
		_, ok := w.Agent(id)
		return ok
	default:
		return true
	}
}
