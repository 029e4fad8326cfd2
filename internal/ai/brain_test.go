package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/hearth/internal/game/wellbeing"
	"github.com/udisondev/hearth/internal/model"
	"github.com/udisondev/hearth/internal/policy"
	"github.com/udisondev/hearth/internal/world"
)

func TestBrainDecidesWhenIdle(t *testing.T) {
	w := newWorld(dayOneAt(13, 0), homeFridge())
	b := NewBrain(DefaultConfig(), NewRand(7))
	a := resident(1, 50, 50)
	a.Needs.Set(model.NeedHunger, 10)
	w.AddAgent(a)

	b.Tick(a, w, 0.1)

	assert.Equal(t, model.IntentEat, a.Intent)
	assert.True(t, a.Queue.References(model.FurnitureTarget(1)))
	assert.Equal(t, DefaultConfig().CooldownTicks, a.DecisionCooldown)
	assert.Equal(t, model.StateIdle, a.Activity.State, "execution starts next tick")

	b.Tick(a, w, 0.1)
	assert.Equal(t, model.StateMoving, a.Activity.State)
}

func TestBrainReplansAfterTargetRemoved(t *testing.T) {
	w := newWorld(dayOneAt(13, 0), homeFridge())
	b := NewBrain(DefaultConfig(), NewRand(7))
	a := resident(1, 50, 50)
	a.Needs.Set(model.NeedHunger, 10)
	w.AddAgent(a)

	b.Tick(a, w, 0.1)
	require.True(t, a.Queue.References(model.FurnitureTarget(1)))

	require.True(t, w.RemoveInteractable(1))
	b.Tick(a, w, 0.1)

	assert.False(t, a.Queue.Empty(), "a fresh plan replaces the stale one")
	assert.False(t, a.Queue.References(model.FurnitureTarget(1)))
	assert.Contains(t, a.Queue.Context.Reason, "fallback")
}

func TestBrainEmergencyInterruptsSleep(t *testing.T) {
	bed := item(3, model.UtilityBed, 100, 300)
	bed.HomeID = 1
	w := newWorld(dayOneAt(2, 0), homeFridge(), bed)
	b := NewBrain(DefaultConfig(), NewRand(7))
	a := resident(1, 70, 300)
	w.AddAgent(a)
	require.True(t, w.Reserve(3, 1))
	a.Intent = model.IntentSleep
	a.Activity = model.Activity{
		State:    model.StateInteracting,
		Key:      model.KeySleep,
		Target:   model.FurnitureTarget(3),
		Reserved: 3,
		Timer:    300,
	}
	a.Needs.Set(model.NeedHunger, 2)

	b.Tick(a, w, 0.1)

	assert.Equal(t, model.StateIdle, a.Activity.State)
	assert.Equal(t, model.IntentEat, a.Intent)
	assert.True(t, a.Queue.Context.Urgent)
	assert.True(t, a.Queue.References(model.FurnitureTarget(1)))
	assert.Contains(t, a.Queue.Context.Reason, "emergency hunger 2.0")

	it, _ := w.Interactable(3)
	assert.Empty(t, it.Reservations())

	// The urgent plan is not interrupted again on the next tick.
	b.Tick(a, w, 0.1)
	assert.Equal(t, model.StateMoving, a.Activity.State)
}

func TestBrainUnreachableBacksOff(t *testing.T) {
	w := world.New(world.Options{
		Layout: model.Layout{
			Width: 600, Height: 600, CellSize: 20,
			Walls: []model.Rect{{X: 280, Y: 0, W: 40, H: 600}},
		},
		Tables: policy.DefaultTables(),
	})
	b := NewBrain(DefaultConfig(), NewRand(7))
	a := resident(1, 100, 300)
	w.AddAgent(a)
	a.Queue = queueOf(model.IntentWander, model.Walk(model.Pt(500, 300)))

	b.Tick(a, w, 0.1)

	assert.True(t, a.Queue.Empty())
	assert.Equal(t, model.StateIdle, a.Activity.State)
	assert.Equal(t, DefaultConfig().UnreachableCooldownTicks, a.DecisionCooldown)
}

func TestBrainAssignEscort(t *testing.T) {
	w := newWorld(dayOneAt(7, 30))
	b := NewBrain(DefaultConfig(), NewRand(7))
	nanny := resident(1, 50, 50)
	nanny.Role = model.RoleHelper
	kid := resident(2, 200, 200)
	kid.Role = model.RoleChild
	w.AddAgent(nanny)
	w.AddAgent(kid)
	nanny.Activity = model.Activity{State: model.StateWaiting, Timer: 10}

	b.AssignEscort(nanny, kid, model.TaskEscortSchool, model.Pt(500, 500), w)

	assert.Equal(t, model.IntentEscort, nanny.Intent)
	assert.Equal(t, model.StateIdle, nanny.Activity.State)
	assert.Equal(t, model.AgentID(2), nanny.Queue.Context.Partner)

	b.Tick(nanny, w, 0.1)
	assert.Equal(t, model.StateMoving, nanny.Activity.State)
	assert.Equal(t, model.AgentTarget(2), nanny.Activity.Target)
}

func TestBrainTwoCriticalNeedsDoNotStarveEachOther(t *testing.T) {
	bed := item(3, model.UtilityBed, 100, 300)
	bed.HomeID = 1
	w := newWorld(dayOneAt(13, 0), homeFridge(), bed)
	b := NewBrain(DefaultConfig(), NewRand(7))
	m := NewTickManager(b, wellbeing.Default())
	a := resident(1, 50, 50)
	a.Needs.Set(model.NeedHunger, 3)
	a.Needs.Set(model.NeedEnergy, 3.5)
	w.AddAgent(a)

	var urgent []model.Intent
	for range 480 {
		m.TickAll(w, 1)
		ctx := a.Queue.Context
		if ctx.Urgent && (len(urgent) == 0 || urgent[len(urgent)-1] != ctx.Intent) {
			urgent = append(urgent, ctx.Intent)
		}
	}

	assert.Equal(t, []model.Intent{model.IntentEat, model.IntentSleep}, urgent)
	assert.Greater(t, a.Needs.Get(model.NeedHunger), wellbeing.NeedCritical)
	assert.Greater(t, a.Needs.Get(model.NeedEnergy), wellbeing.NeedRecovered)
	assert.Greater(t, a.Health, 90.0)
}

func TestBrainUrgentPlanHoldsUntilRecovered(t *testing.T) {
	w := newWorld(dayOneAt(13, 0), homeFridge())
	b := NewBrain(DefaultConfig(), NewRand(7))
	a := resident(1, 50, 50)
	a.Needs.Set(model.NeedHunger, 2)
	w.AddAgent(a)

	b.Tick(a, w, 0.1)
	require.Equal(t, model.IntentEat, a.Intent)
	require.True(t, a.Queue.Context.Urgent)

	a.Needs.Set(model.NeedHunger, 10)
	a.Needs.Set(model.NeedEnergy, 1)
	b.Tick(a, w, 0.1)
	assert.Equal(t, model.IntentEat, a.Intent, "hunger has not recovered yet")

	a.Needs.Set(model.NeedHunger, wellbeing.NeedRecovered)
	b.Tick(a, w, 0.1)
	assert.Equal(t, model.IntentSleep, a.Intent)
	assert.True(t, a.Queue.Context.Urgent)
}

func TestBrainStarvingAgentEatsInsteadOfSleeping(t *testing.T) {
	bed := item(3, model.UtilityBed, 100, 300)
	bed.HomeID = 1
	w := newWorld(dayOneAt(13, 0), homeFridge(), bed)
	b := NewBrain(DefaultConfig(), NewRand(7))
	a := resident(1, 50, 50)
	a.Needs.Set(model.NeedHunger, 0)
	a.Health = 15
	w.AddAgent(a)

	b.Tick(a, w, 0.1)

	assert.Equal(t, model.IntentEat, a.Intent)
	assert.True(t, a.Queue.References(model.FurnitureTarget(1)))
	assert.Contains(t, a.Queue.Context.Reason, "health 15.0 (hunger empty)")
}
