package ai

import (
	"log/slog"

	"github.com/udisondev/hearth/internal/activity"
	"github.com/udisondev/hearth/internal/game/geo"
	"github.com/udisondev/hearth/internal/model"
	"github.com/udisondev/hearth/internal/world"
)

// Outcome is the result of dispatching the queue head.
type Outcome uint8

const (
	// OutcomeStarted - the head action is now the agent's activity
	OutcomeStarted Outcome = iota
	// OutcomeIdle - the queue was empty; the agent is idle and may be re-evaluated
	OutcomeIdle
	// OutcomeStale - the head referenced a target that no longer resolves; replan
	OutcomeStale
	// OutcomeUnreachable - no path to the destination right now; back off and retry later
	OutcomeUnreachable
)

func (o Outcome) String() string {
	switch o {
	case OutcomeStarted:
		return "started"
	case OutcomeIdle:
		return "idle"
	case OutcomeStale:
		return "stale"
	case OutcomeUnreachable:
		return "unreachable"
	default:
		return "unknown"
	}
}

// Executor steps agents through their queues.
type Executor struct {
	machine *activity.Machine
}

// NewExecutor creates an executor driving m.
func NewExecutor(m *activity.Machine) *Executor {
	return &Executor{machine: m}
}

// ExecuteNext pops the queue head and dispatches it to the state machine.
// Stale targets are an expected condition, reported as OutcomeStale.
func (e *Executor) ExecuteNext(a *model.Agent, w *world.World) Outcome {
	head, ok := a.Queue.Pop()
	if !ok {
		a.Activity = model.Activity{}
		return OutcomeIdle
	}

	var st activity.Status
	switch head.Kind() {
	case model.ActionWalk:
		dest := head.Dest()
		if head.HasTarget() {
			p, ok := targetPoint(head.Target(), w)
			if !ok {
				return e.stale(a, head)
			}
			dest = p
		}
		path, ok := route(w.Grid(), a.Pos, dest)
		if !ok {
			slog.Debug("destination unreachable", "agent", a.ID, "dest", dest)
			return OutcomeUnreachable
		}
		state := model.StateMoving
		if ctx := a.Queue.Context; ctx.Intent == model.IntentWork || ctx.Intent == model.IntentSchool {
			state = model.StateCommuting
		}
		st = e.machine.Start(a, w, model.Activity{State: state, Target: head.Target(), Path: path})

	case model.ActionInteract:
		if !activity.TargetAlive(head.Target(), w) {
			return e.stale(a, head)
		}
		st = e.machine.Start(a, w, model.Activity{
			State:  model.StateInteracting,
			Key:    head.Key(),
			Target: head.Target(),
		})

	case model.ActionWait:
		st = e.machine.Start(a, w, model.Activity{State: model.StateWaiting, Timer: head.Duration()})
	}

	if st == activity.StatusStale {
		return e.stale(a, head)
	}
	return OutcomeStarted
}

func (e *Executor) stale(a *model.Agent, head model.QueuedAction) Outcome {
	slog.Debug("stale target, replanning",
		"agent", a.ID,
		"action", head.String())
	return OutcomeStale
}

// targetPoint resolves where to walk for t.
func targetPoint(t model.Target, w *world.World) (model.Point, bool) {
	switch t.Kind {
	case model.TargetFurniture:
		id, _ := t.Furniture()
		it, ok := w.Interactable(id)
		if !ok {
			return model.Point{}, false
		}
		return it.Center(), true
	case model.TargetAgent:
		id, _ := t.Agent()
		o, ok := w.Agent(id)
		if !ok {
			return model.Point{}, false
		}
		return o.Pos, true
	default:
		return model.Point{}, false
	}
}

// route finds a path, substituting a straight hop for short clear distances
// when the search comes back empty.
func route(g *geo.Grid, from, to model.Point) ([]model.Point, bool) {
	if path := g.FindPath(from, to); len(path) > 0 {
		return path, true
	}
	if from.Distance(to) <= geo.ShortHopCells*g.CellSize() && g.LineClear(from, to) {
		return []model.Point{to}, true
	}
	return nil, false
}
