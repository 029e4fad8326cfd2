package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/hearth/internal/model"
	"github.com/udisondev/hearth/internal/policy"
	"github.com/udisondev/hearth/internal/world"
)

func homeFridge() *model.Interactable {
	it := item(1, model.UtilityFood, 100, 100)
	it.HomeID = 1
	return it
}

func cafe() *model.Interactable {
	it := item(2, model.UtilityFood, 500, 500)
	it.Cost = 5
	it.PriceTier = 2
	return it
}

func eat() Decision {
	return Decision{Intent: model.IntentEat, Need: model.NeedHunger, Score: 90, Justification: "EAT 90.0: hunger 25.0"}
}

func TestPlanWalksToBestTargetAndReserves(t *testing.T) {
	w := newWorld(dayOneAt(13, 0), homeFridge(), cafe())
	p := NewPlanner(DefaultPlannerWeights(), NewRand(1))
	a := resident(1, 50, 50)

	q := p.Plan(a, eat(), w)

	require.Equal(t, 2, q.Len())
	acts := q.Actions()
	assert.Equal(t, model.WalkTo(model.FurnitureTarget(1)), acts[0])
	assert.Equal(t, model.Interact(model.FurnitureTarget(1), model.KeyEat), acts[1])
	assert.Equal(t, model.IntentEat, q.Context.Intent)
	assert.Equal(t, "EAT 90.0: hunger 25.0", q.Context.Reason)

	fridge, _ := w.Interactable(1)
	assert.True(t, fridge.ReservedBy(1))
}

func TestPlanUrgentTakesNearest(t *testing.T) {
	weights := DefaultPlannerWeights()
	weights.Price = 100
	weights.TopN = 1
	w := newWorld(dayOneAt(13, 0), homeFridge(), cafe())
	p := NewPlanner(weights, NewRand(1))
	a := resident(1, 50, 50)
	a.Traits.Snobbery = 1

	relaxed := p.Plan(a, eat(), w)
	head, _ := relaxed.Peek()
	assert.Equal(t, model.FurnitureTarget(2), head.Target(), "a snob prefers the cafe")

	urgent := eat()
	urgent.Urgent = true
	q := p.Plan(a, urgent, w)
	head, _ = q.Peek()
	assert.Equal(t, model.FurnitureTarget(1), head.Target())
	assert.True(t, q.Context.Urgent)
}

func TestPlanSameTickReservationRace(t *testing.T) {
	shared := item(7, model.UtilityFood, 200, 200)
	w := newWorld(dayOneAt(13, 0), shared)
	p := NewPlanner(DefaultPlannerWeights(), NewRand(1))
	first := resident(1, 150, 150)
	second := resident(2, 250, 250)

	q1 := p.Plan(first, eat(), w)
	q2 := p.Plan(second, eat(), w)

	assert.True(t, q1.References(model.FurnitureTarget(7)))
	assert.False(t, q2.References(model.FurnitureTarget(7)))
	assert.Contains(t, q2.Context.Reason, "fallback")

	it, _ := w.Interactable(7)
	assert.Equal(t, []model.AgentID{1}, it.Reservations())
	assert.False(t, p.eligible(second, it, w), "taken object is filtered out")
}

func TestPlanFallbackIsNeverEmpty(t *testing.T) {
	w := newWorld(dayOneAt(13, 0))
	p := NewPlanner(DefaultPlannerWeights(), NewRand(1))
	a := resident(1, 300, 300)

	q := p.Plan(a, eat(), w)

	require.Equal(t, 2, q.Len())
	acts := q.Actions()
	assert.Equal(t, model.ActionWalk, acts[0].Kind())
	assert.True(t, w.Grid().WalkableAt(acts[0].Dest()))
	assert.Equal(t, model.Wait(DefaultPlannerWeights().FallbackWait), acts[1])
	assert.Equal(t, model.IntentEat, q.Context.Intent)
}

func TestPlanFallbackWhenBoxedIn(t *testing.T) {
	w := world.New(world.Options{
		Layout: model.Layout{Width: 100, Height: 100, CellSize: 20, Walls: []model.Rect{{W: 100, H: 100}}},
		Tables: policy.DefaultTables(),
	})
	p := NewPlanner(DefaultPlannerWeights(), NewRand(1))
	a := resident(1, 50, 50)

	q := p.Plan(a, eat(), w)

	require.Equal(t, 1, q.Len())
	head, _ := q.Peek()
	assert.Equal(t, model.ActionWait, head.Kind())
}

func TestPlanReleasesPreviousReservation(t *testing.T) {
	bed := item(3, model.UtilityBed, 300, 100)
	w := newWorld(dayOneAt(13, 0), homeFridge(), bed)
	p := NewPlanner(DefaultPlannerWeights(), NewRand(1))
	a := resident(1, 50, 50)

	p.Plan(a, eat(), w)
	p.Plan(a, Decision{Intent: model.IntentSleep, Need: model.NeedEnergy}, w)

	fridge, _ := w.Interactable(1)
	assert.Empty(t, fridge.Reservations())
	b, _ := w.Interactable(3)
	assert.True(t, b.ReservedBy(1))
}

func TestEligibility(t *testing.T) {
	tests := []struct {
		name  string
		clock float64
		agent func() *model.Agent
		item  func() *model.Interactable
		want  bool
	}{
		{
			name:  "own home",
			clock: dayOneAt(13, 0),
			agent: func() *model.Agent { return resident(1, 0, 0) },
			item:  homeFridge,
			want:  true,
		},
		{
			name:  "someone else's home",
			clock: dayOneAt(13, 0),
			agent: func() *model.Agent { a := resident(1, 0, 0); a.HomeID = 2; return a },
			item:  homeFridge,
			want:  false,
		},
		{
			name:  "unaffordable",
			clock: dayOneAt(13, 0),
			agent: func() *model.Agent { a := resident(1, 0, 0); a.Money = 1; return a },
			item:  cafe,
			want:  false,
		},
		{
			name:  "too young",
			clock: dayOneAt(13, 0),
			agent: func() *model.Agent { a := resident(1, 0, 0); a.Age = 12; return a },
			item:  func() *model.Interactable { it := cafe(); it.MinAge = 18; return it },
			want:  false,
		},
		{
			name:  "closed",
			clock: dayOneAt(23, 0),
			agent: func() *model.Agent { return resident(1, 0, 0) },
			item:  func() *model.Interactable { it := cafe(); it.OpenHour, it.CloseHour = 8, 20; return it },
			want:  false,
		},
		{
			name:  "curfew keeps children home",
			clock: dayOneAt(23, 0),
			agent: func() *model.Agent { a := resident(1, 0, 0); a.Role = model.RoleChild; a.Age = 9; return a },
			item:  cafe,
			want:  false,
		},
		{
			name:  "curfew allows own home",
			clock: dayOneAt(23, 0),
			agent: func() *model.Agent { a := resident(1, 0, 0); a.Role = model.RoleChild; a.Age = 9; return a },
			item:  homeFridge,
			want:  true,
		},
		{
			name:  "other workplace",
			clock: dayOneAt(10, 0),
			agent: func() *model.Agent {
				a := resident(1, 0, 0)
				a.Job = &model.Job{WorkplaceID: 4, Title: "clerk"}
				return a
			},
			item: func() *model.Interactable { it := item(5, model.UtilityWork, 0, 0); it.WorkplaceID = 9; return it },
			want: false,
		},
		{
			name:  "own workplace",
			clock: dayOneAt(10, 0),
			agent: func() *model.Agent {
				a := resident(1, 0, 0)
				a.Job = &model.Job{WorkplaceID: 4, Title: "clerk"}
				return a
			},
			item: func() *model.Interactable { it := item(5, model.UtilityWork, 0, 0); it.WorkplaceID = 4; return it },
			want: true,
		},
		{
			name:  "children never work",
			clock: dayOneAt(10, 0),
			agent: func() *model.Agent { a := resident(1, 0, 0); a.Role = model.RoleChild; return a },
			item:  func() *model.Interactable { return item(5, model.UtilityWork, 0, 0) },
			want:  false,
		},
		{
			name:  "adults never study",
			clock: dayOneAt(10, 0),
			agent: func() *model.Agent { return resident(1, 0, 0) },
			item:  func() *model.Interactable { return item(6, model.UtilitySchool, 0, 0) },
			want:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			it := tt.item()
			w := newWorld(tt.clock, it)
			p := NewPlanner(DefaultPlannerWeights(), NewRand(1))
			stored, _ := w.Interactable(it.ID)

			assert.Equal(t, tt.want, p.eligible(tt.agent(), stored, w))
		})
	}
}

func TestPlanSocializeApproachesPartner(t *testing.T) {
	w := newWorld(dayOneAt(13, 0))
	p := NewPlanner(DefaultPlannerWeights(), NewRand(1))
	a := resident(1, 100, 100)
	friend := resident(2, 160, 100)
	stranger := resident(3, 120, 100)
	a.Relationship(2).Affinity = 60
	w.AddAgent(a)
	w.AddAgent(friend)
	w.AddAgent(stranger)
	w.ReindexAgents()

	q := p.Plan(a, Decision{Intent: model.IntentSocialize, Need: model.NeedSocial}, w)

	require.Equal(t, 2, q.Len())
	acts := q.Actions()
	assert.Equal(t, model.WalkTo(model.AgentTarget(2)), acts[0])
	assert.Equal(t, model.Interact(model.AgentTarget(2), model.KeyTalk), acts[1])
	assert.Equal(t, model.AgentID(2), q.Context.Partner)
}

func TestPlanSocializeFallsBackToVenue(t *testing.T) {
	bar := item(8, model.UtilitySocial, 300, 300)
	w := newWorld(dayOneAt(13, 0), bar)
	p := NewPlanner(DefaultPlannerWeights(), NewRand(1))
	a := resident(1, 100, 100)
	sleeper := resident(2, 120, 100)
	sleeper.Activity = model.Activity{State: model.StateInteracting, Key: model.KeySleep}
	w.AddAgent(a)
	w.AddAgent(sleeper)
	w.ReindexAgents()

	q := p.Plan(a, Decision{Intent: model.IntentSocialize, Need: model.NeedSocial}, w)

	acts := q.Actions()
	require.Len(t, acts, 2)
	assert.Equal(t, model.Interact(model.FurnitureTarget(8), model.KeyUse), acts[1])
}

func TestPlanEscort(t *testing.T) {
	w := newWorld(dayOneAt(8, 0))
	p := NewPlanner(DefaultPlannerWeights(), NewRand(1))
	nanny := resident(1, 0, 0)
	kid := resident(2, 100, 100)
	dest := model.Pt(400, 400)

	q := p.PlanEscort(nanny, kid, model.TaskEscortSchool, dest, w)

	assert.Equal(t, []model.QueuedAction{
		model.WalkTo(model.AgentTarget(2)),
		model.Interact(model.AgentTarget(2), model.KeyEscort),
	}, q.Actions())
	assert.Equal(t, model.IntentEscort, q.Context.Intent)
	assert.Equal(t, model.TaskEscortSchool, q.Context.Task)
	assert.Equal(t, dest, q.Context.Destination)
}

// buildDeterminismCase creates a fresh world with several similar targets so
// that the random perturbation decides the pick.
func buildDeterminismCase() (*model.Agent, *world.World, *Brain) {
	var items []*model.Interactable
	for i := range 5 {
		items = append(items, item(model.InteractableID(10+i), model.UtilityFun, 300+float64(i)*40, 300))
	}
	w := newWorld(dayOneAt(13, 0), items...)
	a := resident(1, 380, 200)
	a.Needs.Set(model.NeedFun, 20)
	a.Traits.Playfulness = 0.8
	w.AddAgent(a)
	w.ReindexAgents()
	return a, w, NewBrain(DefaultConfig(), NewRand(42))
}

func TestEvaluateAndPlanDeterministicWithPinnedSeed(t *testing.T) {
	a1, w1, b1 := buildDeterminismCase()
	d1 := b1.Evaluator().Evaluate(a1, w1)
	q1 := b1.Planner().Plan(a1, d1, w1)

	for range 5 {
		a2, w2, b2 := buildDeterminismCase()
		d2 := b2.Evaluator().Evaluate(a2, w2)
		q2 := b2.Planner().Plan(a2, d2, w2)

		assert.Equal(t, d1, d2)
		assert.Equal(t, q1.Actions(), q2.Actions())
		assert.Equal(t, q1.Context, q2.Context)
	}
	assert.Equal(t, model.IntentFun, d1.Intent)
}
