package ai

import (
	"cmp"
	"log/slog"
	"slices"

	"github.com/udisondev/hearth/internal/model"
	"github.com/udisondev/hearth/internal/world"
)

// targetSpec is one way of satisfying an intent with furniture.
type targetSpec struct {
	utility model.Utility
	key     model.InteractionKey
}

// specsFor maps an intent (and need) to acceptable furniture, in preference order.
func specsFor(in model.Intent, need model.NeedKind) []targetSpec {
	switch in {
	case model.IntentSurvive:
		return []targetSpec{{model.UtilityMedical, model.KeyHeal}, {model.UtilityBed, model.KeySleep}}
	case model.IntentEat:
		return []targetSpec{{model.UtilityFood, model.KeyEat}}
	case model.IntentSleep:
		return []targetSpec{{model.UtilityBed, model.KeySleep}}
	case model.IntentWork:
		return []targetSpec{{model.UtilityWork, model.KeyWork}}
	case model.IntentSchool:
		return []targetSpec{{model.UtilitySchool, model.KeyStudy}}
	case model.IntentFun:
		return []targetSpec{{model.UtilityFun, model.KeyPlay}}
	case model.IntentSocialize:
		return []targetSpec{{model.UtilitySocial, model.KeyUse}}
	case model.IntentNeed:
		switch need {
		case model.NeedHunger:
			return specsFor(model.IntentEat, need)
		case model.NeedEnergy:
			return specsFor(model.IntentSleep, need)
		case model.NeedHygiene:
			return []targetSpec{{model.UtilityShower, model.KeyBathe}}
		case model.NeedBladder:
			return []targetSpec{{model.UtilityToilet, model.KeyRelieve}}
		case model.NeedComfort:
			return []targetSpec{{model.UtilitySeat, model.KeySit}}
		case model.NeedSocial:
			return specsFor(model.IntentSocialize, need)
		case model.NeedFun:
			return specsFor(model.IntentFun, need)
		}
	}
	return nil
}

// Planner turns decisions into action queues.
type Planner struct {
	w   PlannerWeights
	rnd Rand
}

// NewPlanner creates a planner drawing randomness only from rnd.
func NewPlanner(w PlannerWeights, rnd Rand) *Planner {
	return &Planner{w: w, rnd: rnd}
}

// Plan resolves d into an ordered queue. The queue is never empty: when no
// target qualifies the agent gets a short wander and a bounded wait.
// Any reservation from a previous plan is released first; the chosen
// furniture is reserved immediately so agents planning later in the same
// tick see it as taken.
func (p *Planner) Plan(a *model.Agent, d Decision, w *world.World) model.ActionQueue {
	w.ReleaseAll(a.ID)
	ctx := model.PlanContext{
		Intent:    d.Intent,
		Need:      d.Need,
		Urgent:    d.Urgent,
		DutyAware: d.DutyAware,
		Score:     d.Score,
		Reason:    d.Justification,
	}

	switch d.Intent {
	case model.IntentWander, model.IntentEscort:
		return p.wander(a, ctx, w)
	case model.IntentSocialize:
		if partner, ok := p.pickPartner(a, w); ok {
			ctx.Partner = partner.ID
			t := model.AgentTarget(partner.ID)
			return model.NewActionQueue(ctx, model.WalkTo(t), model.Interact(t, model.KeyTalk))
		}
	}

	for _, spec := range specsFor(d.Intent, d.Need) {
		it, ok := p.pickTarget(a, spec.utility, d.Urgent, w)
		if !ok {
			continue
		}
		if !w.Reserve(it.ID, a.ID) {
			continue
		}
		t := model.FurnitureTarget(it.ID)
		return model.NewActionQueue(ctx, model.WalkTo(t), model.Interact(t, spec.key))
	}

	slog.Info("no eligible target, falling back",
		"agent", a.ID,
		"intent", d.Intent,
		"need", d.Need)
	ctx.Reason += " (fallback)"
	return p.wander(a, ctx, w)
}

// PlanEscort builds a caregiver task: reach the ward, then lead it (or stay with it).
func (p *Planner) PlanEscort(caregiver, ward *model.Agent, task model.CaregiverTask, dest model.Point, w *world.World) model.ActionQueue {
	w.ReleaseAll(caregiver.ID)
	ctx := model.PlanContext{
		Intent:      model.IntentEscort,
		Partner:     ward.ID,
		Destination: dest,
		Task:        task,
		Reason:      "caregiver " + task.String(),
	}
	t := model.AgentTarget(ward.ID)
	return model.NewActionQueue(ctx, model.WalkTo(t), model.Interact(t, model.KeyEscort))
}

// wander returns [Walk(random nearby point), Wait] or just [Wait] when boxed in.
func (p *Planner) wander(a *model.Agent, ctx model.PlanContext, w *world.World) model.ActionQueue {
	wait := model.Wait(p.w.FallbackWait)
	if dest, ok := w.Grid().RandomWalkableNear(a.Pos, p.w.WanderRadius, p.rnd); ok {
		return model.NewActionQueue(ctx, model.Walk(dest), wait)
	}
	return model.NewActionQueue(ctx, wait)
}

type ranked struct {
	it    *model.Interactable
	dist  float64
	score float64
}

// pickTarget filters furniture of utility u and ranks the survivors.
func (p *Planner) pickTarget(a *model.Agent, u model.Utility, urgent bool, w *world.World) (*model.Interactable, bool) {
	var cands []ranked
	for _, it := range w.Interactables() {
		if it.Utility != u || !p.eligible(a, it, w) {
			continue
		}
		d := a.Pos.Distance(it.Center())
		cands = append(cands, ranked{it: it, dist: d, score: p.rank(a, it, d)})
	}
	if len(cands) == 0 {
		return nil, false
	}

	if urgent {
		nearest := slices.MinFunc(cands, func(x, y ranked) int {
			return cmp.Or(cmp.Compare(x.dist, y.dist), cmp.Compare(x.it.ID, y.it.ID))
		})
		return nearest.it, true
	}

	slices.SortFunc(cands, func(x, y ranked) int {
		return cmp.Or(cmp.Compare(y.score, x.score), cmp.Compare(x.it.ID, y.it.ID))
	})
	n := min(max(p.w.TopN, 1), len(cands))
	best := 0
	bestScore := cands[0].score + p.rnd.Float64()*p.w.Jitter
	for i := 1; i < n; i++ {
		if s := cands[i].score + p.rnd.Float64()*p.w.Jitter; s > bestScore {
			best, bestScore = i, s
		}
	}
	return cands[best].it, true
}

// rank combines distance, price tier against frugality and snobbery,
// trait affinity and mood.
func (p *Planner) rank(a *model.Agent, it *model.Interactable, dist float64) float64 {
	tier := float64(it.PriceTier)
	s := -dist * p.w.Distance
	s += (a.Traits.Snobbery - a.Traits.Frugality) * tier * p.w.Price
	s += a.Traits.Affinity[it.Utility] * p.w.Affinity
	s += (a.Mood - 50) / 50 * tier * p.w.Mood
	return s
}

// eligible applies access, affordability, occupancy and role rules.
func (p *Planner) eligible(a *model.Agent, it *model.Interactable, w *world.World) bool {
	if !it.Available(a.ID) {
		return false
	}
	ownHome := it.HomeID != 0 && it.HomeID == a.HomeID
	if it.HomeID != 0 && !ownHome {
		return false
	}
	if a.Age < it.MinAge || !it.IsOpen(w.Hour()) {
		return false
	}
	if w.Schedule().CurfewActive(a, w.Clock()) && !ownHome {
		return false
	}
	if it.Cost > 0 && !ownHome && a.Money < it.Cost {
		return false
	}

	switch it.Utility {
	case model.UtilityWork:
		if a.Role == model.RoleHelper || a.Role == model.RoleChild {
			return false
		}
		if !a.Employed() || (it.WorkplaceID != 0 && it.WorkplaceID != a.Job.WorkplaceID) {
			return false
		}
	case model.UtilitySchool:
		if a.Role != model.RoleChild || !w.Schedule().SchoolAge(a.Age) {
			return false
		}
	}
	return true
}

// pickPartner finds the best nearby agent to talk to: free, awake and not
// being escorted; friends and shorter walks first.
func (p *Planner) pickPartner(a *model.Agent, w *world.World) (*model.Agent, bool) {
	var (
		best      *model.Agent
		bestScore float64
	)
	for _, o := range w.AgentsNear(a.Pos, p.w.SocialRadius, a.ID) {
		if !available(o) {
			continue
		}
		score := -a.Pos.Distance(o.Pos) * p.w.Distance
		if r, ok := a.Relationships[o.ID]; ok {
			score += r.Affinity / 10
		}
		if best == nil || score > bestScore {
			best, bestScore = o, score
		}
	}
	return best, best != nil
}

// available reports whether o can be approached for a chat.
func available(o *model.Agent) bool {
	switch o.Activity.State {
	case model.StateIdle, model.StateMoving, model.StateWaiting:
		return true
	case model.StateInteracting:
		return o.Activity.Key == model.KeySit || o.Activity.Key == model.KeyPlay
	default:
		return false
	}
}
