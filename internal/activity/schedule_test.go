package activity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/hearth/internal/model"
	"github.com/udisondev/hearth/internal/policy"
)

func clock(day int, hour, minute float64) float64 {
	return float64(day)*policy.MinutesPerDay + hour*policy.MinutesPerHour + minute
}

func employed(id model.AgentID) *model.Agent {
	a := model.NewAgent(id, "Worker")
	a.Job = &model.Job{WorkplaceID: 4, Title: "clerk"}
	return a
}

func TestScheduleCheckStopsWorkAfterShift(t *testing.T) {
	m := NewMachine()
	w := testWorld(clock(1, 18, 0))
	a := employed(1)
	a.Activity = model.Activity{State: model.StateInteracting, Key: model.KeyWork}

	require.True(t, m.ScheduleCheck(a, w))
	assert.Equal(t, model.StateIdle, a.Activity.State)
}

func TestScheduleCheckKeepsEarlyArrivalWorking(t *testing.T) {
	m := NewMachine()
	w := testWorld(clock(1, 8, 45))
	a := employed(1)
	a.Activity = model.Activity{State: model.StateInteracting, Key: model.KeyWork}
	a.Queue = model.NewActionQueue(model.PlanContext{Intent: model.IntentWork})

	assert.False(t, m.ScheduleCheck(a, w))
	assert.Equal(t, model.StateInteracting, a.Activity.State)
}

func TestScheduleCheckWakesSleeperBeforeShift(t *testing.T) {
	m := NewMachine()
	w := testWorld(clock(1, 8, 45))
	a := employed(1)
	a.Activity = model.Activity{State: model.StateInteracting, Key: model.KeySleep, Timer: 100}
	a.Queue = model.NewActionQueue(model.PlanContext{Intent: model.IntentSleep})

	require.True(t, m.ScheduleCheck(a, w))
	assert.Equal(t, model.StateIdle, a.Activity.State)
	assert.Zero(t, a.DecisionCooldown)
}

func TestScheduleCheckRespectsDutyAwarePlans(t *testing.T) {
	m := NewMachine()
	w := testWorld(clock(1, 10, 0))
	a := employed(1)
	a.Activity = model.Activity{State: model.StateInteracting, Key: model.KeyEat, Timer: 10}
	a.Queue = model.NewActionQueue(model.PlanContext{Intent: model.IntentEat, DutyAware: true})

	assert.False(t, m.ScheduleCheck(a, w))
	assert.Equal(t, model.StateInteracting, a.Activity.State)
}

func TestScheduleCheckHolidayStopsWork(t *testing.T) {
	m := NewMachine()
	w := testWorld(clock(0, 10, 0)) // day 0 is a default holiday
	a := employed(1)
	a.Activity = model.Activity{State: model.StateInteracting, Key: model.KeyWork}

	assert.True(t, m.ScheduleCheck(a, w))
}

func TestScheduleCheckIdleAgentGetsImmediateReevaluation(t *testing.T) {
	m := NewMachine()
	w := testWorld(clock(1, 9, 0))
	a := employed(1)
	a.DecisionCooldown = 50

	assert.False(t, m.ScheduleCheck(a, w))
	assert.Zero(t, a.DecisionCooldown)
}
