package activity

import (
	"fmt"
	"log/slog"

	"github.com/udisondev/hearth/internal/game/wellbeing"
	"github.com/udisondev/hearth/internal/model"
	"github.com/udisondev/hearth/internal/world"
)

// TalkRange is the maximum distance at which two agents can hold a conversation.
const TalkRange = 80.0

type interactHandler struct{}

func (interactHandler) Enter(a *model.Agent, w *world.World) Status {
	act := &a.Activity
	if act.Key == model.KeyEscort {
		return escortEnter(a, w)
	}

	switch act.Target.Kind {
	case model.TargetFurniture:
		id, _ := act.Target.Furniture()
		it, ok := w.Interactable(id)
		if !ok {
			return StatusStale
		}
		if !w.Reserve(id, a.ID) {
			return StatusStale
		}
		act.Reserved = id
		if it.Cost > 0 && (it.HomeID == 0 || it.HomeID != a.HomeID) {
			if a.Money < it.Cost {
				return StatusStale
			}
			a.Money -= it.Cost
		}
		act.Timer = profileFor(act.Key, it).Duration

	case model.TargetAgent:
		id, _ := act.Target.Agent()
		other, ok := w.Agent(id)
		if !ok || other.Pos.Distance(a.Pos) > TalkRange {
			return StatusStale
		}
		a.Facing = model.FacingFromDelta(other.Pos.X-a.Pos.X, other.Pos.Y-a.Pos.Y)
		act.Timer = profileFor(act.Key, nil).Duration

	default:
		act.Timer = profileFor(act.Key, nil).Duration
	}
	return StatusRunning
}

func (interactHandler) Update(a *model.Agent, w *world.World, dt float64) Status {
	act := &a.Activity
	if act.Key == model.KeyEscort {
		return escortUpdate(a, w, dt)
	}

	var (
		it    *model.Interactable
		other *model.Agent
		label string
	)
	switch act.Target.Kind {
	case model.TargetFurniture:
		id, _ := act.Target.Furniture()
		var ok bool
		it, ok = w.Interactable(id)
		if !ok || !it.ReservedBy(a.ID) {
			return StatusStale
		}
		label = it.Kind
	case model.TargetAgent:
		id, _ := act.Target.Agent()
		var ok bool
		other, ok = w.Agent(id)
		if !ok {
			return StatusStale
		}
		label = other.Name
	}

	p := profileFor(act.Key, it)
	for need, rate := range p.Restores {
		a.Needs.Add(need, rate*dt)
	}
	if p.Health != 0 {
		a.Health = model.ClampNeed(a.Health + p.Health*dt)
	}

	switch act.Key {
	case model.KeyWork:
		a.Money += w.Schedule().HourlyWage(a) / 60 * dt
	case model.KeyTalk:
		if other != nil {
			converse(a, other, w, dt)
		}
	}

	act.Timer -= dt
	satisfied := p.UntilSatisfied && a.Needs.Get(p.Need) >= wellbeing.NeedSatisfied
	if act.Timer > 0 && !satisfied {
		return StatusRunning
	}

	if p.Buff != "" {
		wellbeing.Apply(a, p.Buff)
	}
	if p.Memory != "" && label != "" {
		a.Remember(w.Clock(), fmt.Sprintf(p.Memory, label))
	}
	slog.Debug("interaction finished",
		"agent", a.ID,
		"key", act.Key,
		"target", act.Target)
	return StatusDone
}

func (interactHandler) Exit(a *model.Agent, w *world.World) {
	act := &a.Activity
	if act.Key == model.KeyEscort {
		escortExit(a, w)
	}
	if act.Reserved != 0 {
		w.Release(act.Reserved, a.ID)
		act.Reserved = 0
	}
}
