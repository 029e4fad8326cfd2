package ai

import (
	"log/slog"

	"github.com/udisondev/hearth/internal/activity"
	"github.com/udisondev/hearth/internal/game/wellbeing"
	"github.com/udisondev/hearth/internal/model"
	"github.com/udisondev/hearth/internal/world"
)

// Brain runs the full decision cycle for one agent per tick.
type Brain struct {
	cfg       Config
	evaluator *Evaluator
	planner   *Planner
	executor  *Executor
	machine   *activity.Machine
}

// NewBrain wires evaluator, planner, executor and state machine.
// All randomness comes from rnd.
func NewBrain(cfg Config, rnd Rand) *Brain {
	m := activity.NewMachine()
	return &Brain{
		cfg:       cfg,
		evaluator: NewEvaluator(cfg.Evaluator),
		planner:   NewPlanner(cfg.Planner, rnd),
		executor:  NewExecutor(m),
		machine:   m,
	}
}

// Evaluator returns the intent evaluator.
func (b *Brain) Evaluator() *Evaluator { return b.evaluator }

// Planner returns the planner.
func (b *Brain) Planner() *Planner { return b.planner }

// Machine returns the state machine.
func (b *Brain) Machine() *activity.Machine { return b.machine }

// Tick advances one agent by dt sim minutes:
// emergency interrupt, schedule check, state update, then either the next
// queued action or a fresh decision once the cooldown has elapsed.
func (b *Brain) Tick(a *model.Agent, w *world.World, dt float64) {
	if d, ok := b.evaluator.Emergency(a); ok && preempts(a, d) {
		b.machine.Interrupt(a, w, d.Justification)
		w.Logf("%s: %s", a.Name, d.Justification)
		b.apply(a, w, d)
		return
	}

	if b.machine.ScheduleCheck(a, w) {
		b.Decide(a, w)
		return
	}

	if b.machine.Update(a, w, dt) == activity.StatusStale {
		b.Decide(a, w)
		return
	}
	if a.Activity.State != model.StateIdle {
		return
	}

	if !a.Queue.Empty() {
		switch b.executor.ExecuteNext(a, w) {
		case OutcomeStale:
			b.Decide(a, w)
		case OutcomeUnreachable:
			w.ReleaseAll(a.ID)
			a.Queue.Clear()
			a.DecisionCooldown = b.cfg.UnreachableCooldownTicks
		}
		return
	}

	if a.DecisionCooldown > 0 {
		a.DecisionCooldown--
		return
	}
	b.Decide(a, w)
}

// preempts reports whether emergency d replaces the agent's current plan.
// A running urgent plan keeps priority until its own need recovers, so two
// critical needs cannot starve each other by taking turns. A health
// emergency only waits until the plan's need is out of the critical range.
func preempts(a *model.Agent, d Decision) bool {
	ctx := a.Queue.Context
	if !ctx.Urgent {
		return true
	}
	if ctx.Intent == d.Intent && ctx.Need == d.Need {
		return false
	}
	if a.Queue.Empty() && a.Activity.State == model.StateIdle {
		return true
	}
	if ctx.Intent == model.IntentSurvive {
		return a.Health >= wellbeing.HealthRecovered
	}
	recovered := wellbeing.NeedRecovered
	if d.Critical {
		recovered = wellbeing.NeedCritical
	}
	return a.Needs.Get(ctx.Need) >= recovered
}

// Decide evaluates and plans, replacing any previous queue. Execution of the
// new queue starts on the agent's next tick.
func (b *Brain) Decide(a *model.Agent, w *world.World) {
	b.apply(a, w, b.evaluator.Evaluate(a, w))
}

func (b *Brain) apply(a *model.Agent, w *world.World, d Decision) {
	a.Intent = d.Intent
	a.Queue = b.planner.Plan(a, d, w)
	a.DecisionCooldown = b.cfg.CooldownTicks

	if IsDebugEnabled() {
		slog.Debug("agent decided",
			"agent", a.ID,
			"justification", d.Justification,
			"queue", a.Queue.Actions())
	}
}

// AssignEscort interrupts caregiver and hands it an escort plan for ward.
func (b *Brain) AssignEscort(caregiver, ward *model.Agent, task model.CaregiverTask, dest model.Point, w *world.World) {
	b.machine.Interrupt(caregiver, w, "caregiver request")
	caregiver.Intent = model.IntentEscort
	caregiver.Queue = b.planner.PlanEscort(caregiver, ward, task, dest, w)
	caregiver.DecisionCooldown = b.cfg.CooldownTicks
}
