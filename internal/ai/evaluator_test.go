package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/hearth/internal/model"
)

func TestEvaluateHungryAgentEats(t *testing.T) {
	e := NewEvaluator(DefaultWeights())
	w := newWorld(dayOneAt(13, 0))
	a := resident(1, 50, 50)
	a.Needs.Set(model.NeedHunger, 10)
	a.Needs.Set(model.NeedEnergy, 80)

	d := e.Evaluate(a, w)

	assert.Equal(t, model.IntentEat, d.Intent)
	assert.False(t, d.Urgent)
	assert.Equal(t, "EAT 97.2: hunger 10.0", d.Justification)
	for _, c := range d.Candidates {
		if c.Intent == model.IntentSocialize || c.Intent == model.IntentFun {
			assert.Greater(t, d.Score, c.Score, "eat must outrank %s", c.Label())
		}
	}
}

func TestEvaluateIsStable(t *testing.T) {
	e := NewEvaluator(DefaultWeights())
	w := newWorld(dayOneAt(13, 0))
	a := resident(1, 50, 50)
	a.Needs.Set(model.NeedFun, 20)

	first := e.Evaluate(a, w)
	for range 10 {
		assert.Equal(t, first, e.Evaluate(a, w))
	}
}

func TestEvaluateEmergencyHealthOverridesSchedule(t *testing.T) {
	e := NewEvaluator(DefaultWeights())
	w := newWorld(dayOneAt(10, 0))
	a := resident(1, 50, 50)
	a.Job = &model.Job{WorkplaceID: 2, Title: "clerk"}
	a.Health = 12

	d := e.Evaluate(a, w)

	assert.Equal(t, model.IntentSurvive, d.Intent)
	assert.True(t, d.Urgent)
	assert.Equal(t, "SURVIVE 1000.0: emergency health 12.0", d.Justification)
}

func TestEvaluateHealthEmergencyTreatsItsCause(t *testing.T) {
	e := NewEvaluator(DefaultWeights())
	w := newWorld(dayOneAt(13, 0))

	a := resident(1, 50, 50)
	a.Health = 12
	a.Needs.Set(model.NeedEnergy, 0)

	d := e.Evaluate(a, w)

	assert.Equal(t, model.IntentSleep, d.Intent)
	assert.Equal(t, model.NeedEnergy, d.Need)
	assert.True(t, d.Urgent)
	assert.True(t, d.Critical)
}

func TestEvaluateEmergencyNeedMapsToIntent(t *testing.T) {
	e := NewEvaluator(DefaultWeights())
	w := newWorld(dayOneAt(13, 0))

	tests := []struct {
		need   model.NeedKind
		intent model.Intent
	}{
		{model.NeedHunger, model.IntentEat},
		{model.NeedEnergy, model.IntentSleep},
		{model.NeedBladder, model.IntentNeed},
		{model.NeedHygiene, model.IntentNeed},
	}
	for _, tt := range tests {
		t.Run(tt.need.String(), func(t *testing.T) {
			a := resident(1, 50, 50)
			a.Needs.Set(tt.need, 2)

			d := e.Evaluate(a, w)

			assert.Equal(t, tt.intent, d.Intent)
			assert.Equal(t, tt.need, d.Need)
			assert.True(t, d.Urgent)
		})
	}
}

func TestEvaluateContentAgentWanders(t *testing.T) {
	e := NewEvaluator(DefaultWeights())
	w := newWorld(dayOneAt(13, 0))
	a := resident(1, 50, 50)

	d := e.Evaluate(a, w)

	assert.Equal(t, model.IntentWander, d.Intent)
	assert.Equal(t, "WANDER 0.0: nothing pressing", d.Justification)
}

func TestEvaluateWorkDuringShift(t *testing.T) {
	e := NewEvaluator(DefaultWeights())
	w := newWorld(dayOneAt(10, 0))
	a := resident(1, 50, 50)
	a.Job = &model.Job{WorkplaceID: 2, Title: "clerk"}

	d := e.Evaluate(a, w)

	assert.Equal(t, model.IntentWork, d.Intent)
	assert.True(t, d.DutyAware)
	assert.Equal(t, "WORK 52.5: shift due", d.Justification)
}

func TestEvaluateLonelyAdultSocializes(t *testing.T) {
	e := NewEvaluator(DefaultWeights())
	w := newWorld(dayOneAt(13, 0))
	a := resident(1, 50, 50)
	a.Needs.Set(model.NeedSocial, 60)

	d := e.Evaluate(a, w)
	require.Equal(t, model.IntentWander, d.Intent)

	a.LonelyMinutes = 13 * 60
	d = e.Evaluate(a, w)
	assert.Equal(t, model.IntentSocialize, d.Intent)
	assert.Contains(t, d.Justification, "lonely")

	a.Partner = 9
	d = e.Evaluate(a, w)
	assert.Equal(t, model.IntentWander, d.Intent, "partnered agents are not lonely")
}

func TestEvaluateNightFavoursSleep(t *testing.T) {
	e := NewEvaluator(DefaultWeights())
	a := resident(1, 50, 50)
	a.Needs.Set(model.NeedEnergy, 60)
	a.Needs.Set(model.NeedFun, 25)

	day := e.Evaluate(a, newWorld(dayOneAt(13, 0)))
	night := e.Evaluate(a, newWorld(dayOneAt(23, 0)))

	assert.NotEqual(t, model.IntentSleep, day.Intent)
	assert.Equal(t, model.IntentSleep, night.Intent)
}

func TestEvaluateHelperOnlyWanders(t *testing.T) {
	e := NewEvaluator(DefaultWeights())
	w := newWorld(dayOneAt(13, 0))
	a := resident(1, 50, 50)
	a.Role = model.RoleHelper
	a.Needs.Set(model.NeedFun, 20)

	assert.Equal(t, model.IntentWander, e.Evaluate(a, w).Intent)
}
