package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/hearth/internal/activity"
	"github.com/udisondev/hearth/internal/model"
	"github.com/udisondev/hearth/internal/policy"
	"github.com/udisondev/hearth/internal/world"
)

func queueOf(in model.Intent, actions ...model.QueuedAction) model.ActionQueue {
	return model.NewActionQueue(model.PlanContext{Intent: in}, actions...)
}

func TestExecuteNextEmptyQueue(t *testing.T) {
	w := newWorld(dayOneAt(13, 0))
	e := NewExecutor(activity.NewMachine())
	a := resident(1, 100, 100)
	a.Activity = model.Activity{State: model.StateWaiting, Timer: 3}

	assert.Equal(t, OutcomeIdle, e.ExecuteNext(a, w))
	assert.Equal(t, model.StateIdle, a.Activity.State)
}

func TestExecuteNextWait(t *testing.T) {
	w := newWorld(dayOneAt(13, 0))
	e := NewExecutor(activity.NewMachine())
	a := resident(1, 100, 100)
	a.Queue = queueOf(model.IntentWander, model.Wait(15))

	assert.Equal(t, OutcomeStarted, e.ExecuteNext(a, w))
	assert.Equal(t, model.StateWaiting, a.Activity.State)
	assert.InDelta(t, 15, a.Activity.Timer, 1e-9)
	assert.True(t, a.Queue.Empty())
}

func TestExecuteNextWalkMoving(t *testing.T) {
	w := newWorld(dayOneAt(13, 0))
	e := NewExecutor(activity.NewMachine())
	a := resident(1, 50, 50)
	a.Queue = queueOf(model.IntentWander, model.Walk(model.Pt(350, 250)))

	require.Equal(t, OutcomeStarted, e.ExecuteNext(a, w))
	assert.Equal(t, model.StateMoving, a.Activity.State)
	require.NotEmpty(t, a.Activity.Path)
	assert.Equal(t, model.Pt(350, 250), a.Activity.Path[len(a.Activity.Path)-1])
}

func TestExecuteNextWalkToWorkIsCommuting(t *testing.T) {
	desk := item(4, model.UtilityWork, 400, 400)
	w := newWorld(dayOneAt(8, 40), desk)
	e := NewExecutor(activity.NewMachine())
	a := resident(1, 50, 50)
	target := model.FurnitureTarget(4)
	a.Queue = queueOf(model.IntentWork, model.WalkTo(target), model.Interact(target, model.KeyWork))

	require.Equal(t, OutcomeStarted, e.ExecuteNext(a, w))
	assert.Equal(t, model.StateCommuting, a.Activity.State)
	assert.Equal(t, target, a.Activity.Target)
	assert.Equal(t, 1, a.Queue.Len())
}

func TestExecuteNextStaleTarget(t *testing.T) {
	w := newWorld(dayOneAt(13, 0), homeFridge())
	e := NewExecutor(activity.NewMachine())
	a := resident(1, 50, 50)
	target := model.FurnitureTarget(1)
	a.Queue = queueOf(model.IntentEat, model.WalkTo(target), model.Interact(target, model.KeyEat))

	require.True(t, w.RemoveInteractable(1))

	assert.Equal(t, OutcomeStale, e.ExecuteNext(a, w))
	assert.Equal(t, model.StateIdle, a.Activity.State)

	// The interaction step is stale too.
	assert.Equal(t, OutcomeStale, e.ExecuteNext(a, w))
}

func TestExecuteNextMissingAgentTarget(t *testing.T) {
	w := newWorld(dayOneAt(13, 0))
	e := NewExecutor(activity.NewMachine())
	a := resident(1, 50, 50)
	a.Queue = queueOf(model.IntentSocialize, model.WalkTo(model.AgentTarget(99)))

	assert.Equal(t, OutcomeStale, e.ExecuteNext(a, w))
}

func TestExecuteNextInteractStarts(t *testing.T) {
	w := newWorld(dayOneAt(13, 0), homeFridge())
	e := NewExecutor(activity.NewMachine())
	a := resident(1, 95, 95)
	a.Queue = queueOf(model.IntentEat, model.Interact(model.FurnitureTarget(1), model.KeyEat))

	require.Equal(t, OutcomeStarted, e.ExecuteNext(a, w))
	assert.Equal(t, model.StateInteracting, a.Activity.State)
	assert.Equal(t, model.KeyEat, a.Activity.Key)

	it, _ := w.Interactable(1)
	assert.True(t, it.ReservedBy(1))
}

func TestExecuteNextUnreachable(t *testing.T) {
	w := world.New(world.Options{
		Layout: model.Layout{
			Width: 600, Height: 600, CellSize: 20,
			Walls: []model.Rect{{X: 280, Y: 0, W: 40, H: 600}},
		},
		Tables: policy.DefaultTables(),
	})
	e := NewExecutor(activity.NewMachine())
	a := resident(1, 100, 300)
	a.Queue = queueOf(model.IntentWander, model.Walk(model.Pt(500, 300)))

	assert.Equal(t, OutcomeUnreachable, e.ExecuteNext(a, w))
	assert.Equal(t, model.StateIdle, a.Activity.State)
}

func TestOutcomeString(t *testing.T) {
	assert.Equal(t, "stale", OutcomeStale.String())
	assert.Equal(t, "unknown", Outcome(42).String())
}
