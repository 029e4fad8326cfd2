// Package activity implements the per-agent finite-state machine that carries
// out queued actions: idle, moving, commuting, waiting, escorted and
// interacting (parameterized by interaction key).
package activity

import (
	"log/slog"

	"github.com/udisondev/hearth/internal/model"
	"github.com/udisondev/hearth/internal/world"
)

// Status is the result of entering or updating a state.
type Status uint8

const (
	// StatusRunning - the state keeps going next tick
	StatusRunning Status = iota
	// StatusDone - the state completed, the agent is idle and may take the next action
	StatusDone
	// StatusStale - a referenced target vanished or was invalidated; the agent must replan
	StatusStale
)

func (s Status) String() string {
	switch s {
	case StatusRunning:
		return "running"
	case StatusDone:
		return "done"
	case StatusStale:
		return "stale"
	default:
		return "unknown"
	}
}

// Handler defines one state's behavior. Update receives dt in sim minutes.
type Handler interface {
	Enter(a *model.Agent, w *world.World) Status
	Update(a *model.Agent, w *world.World, dt float64) Status
	Exit(a *model.Agent, w *world.World)
}

// Machine dispatches agents to state handlers.
type Machine struct {
	handlers map[model.ActivityState]Handler
}

// NewMachine creates a machine with the built-in handlers.
func NewMachine() *Machine {
	return &Machine{
		handlers: map[model.ActivityState]Handler{
			model.StateIdle:        idleHandler{},
			model.StateMoving:      moveHandler{},
			model.StateCommuting:   moveHandler{},
			model.StateWaiting:     waitHandler{},
			model.StateEscorted:    escortedHandler{},
			model.StateInteracting: interactHandler{},
		},
	}
}

func (m *Machine) handler(s model.ActivityState) Handler {
	if h, ok := m.handlers[s]; ok {
		return h
	}
	return idleHandler{}
}

// Start exits the current state and enters next. A stale or instantly
// finished entry leaves the agent idle.
func (m *Machine) Start(a *model.Agent, w *world.World, next model.Activity) Status {
	m.handler(a.Activity.State).Exit(a, w)
	a.Activity = next
	st := m.handler(next.State).Enter(a, w)
	if st != StatusRunning {
		m.handler(a.Activity.State).Exit(a, w)
		a.Activity = model.Activity{}
	}
	return st
}

// Update advances the current state by dt sim minutes. When the state ends
// the agent is returned to Idle before Update returns.
func (m *Machine) Update(a *model.Agent, w *world.World, dt float64) Status {
	if a.Activity.State == model.StateIdle {
		return StatusDone
	}
	st := m.handler(a.Activity.State).Update(a, w, dt)
	if st != StatusRunning {
		m.handler(a.Activity.State).Exit(a, w)
		a.Activity = model.Activity{}
	}
	return st
}

// Interrupt aborts whatever the agent is doing, including long-running states
// such as sleeping or working. Only reservations are cleaned up; the queue is
// discarded and the agent becomes eligible for re-evaluation immediately.
func (m *Machine) Interrupt(a *model.Agent, w *world.World, reason string) {
	slog.Debug("activity interrupted",
		"agent", a.ID,
		"activity", a.Activity.Label(),
		"reason", reason)
	m.handler(a.Activity.State).Exit(a, w)
	w.ReleaseAll(a.ID)
	a.Activity = model.Activity{}
	a.Queue.Clear()
	a.DecisionCooldown = 0
}
