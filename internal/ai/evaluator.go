package ai

import (
	"fmt"
	"math"

	"github.com/udisondev/hearth/internal/game/wellbeing"
	"github.com/udisondev/hearth/internal/model"
	"github.com/udisondev/hearth/internal/world"
)

// Candidate is one scored goal.
type Candidate struct {
	Intent model.Intent
	Need   model.NeedKind
	Score  float64
	Reason string
}

// Label is the stable display name of the candidate intent.
func (c Candidate) Label() string {
	return c.Intent.String()
}

// Decision is the evaluator's output.
type Decision struct {
	Intent model.Intent
	// Need is set for IntentNeed.
	Need  model.NeedKind
	Score float64
	// Urgent marks life-threatening decisions; the planner then picks the nearest target.
	Urgent bool
	// Critical is set when health itself is below the critical floor.
	Critical bool
	// DutyAware is set when a work or school obligation was due at evaluation time.
	DutyAware     bool
	Justification string
	// Candidates holds every scored goal in evaluation order (empty for emergencies).
	Candidates []Candidate
}

// Evaluator scores candidate goals.
type Evaluator struct {
	w Weights
}

// NewEvaluator creates an evaluator with the given weights.
func NewEvaluator(w Weights) *Evaluator {
	return &Evaluator{w: w}
}

// deficit is the nonlinear need curve: 0 when full, 100 when empty.
func (e *Evaluator) deficit(v float64) float64 {
	x := (100 - model.ClampNeed(v)) / 100
	return 100 * math.Pow(x, e.w.Exponent)
}

func (e *Evaluator) needWeight(k model.NeedKind) float64 {
	switch k {
	case model.NeedHunger:
		return e.w.Hunger
	case model.NeedEnergy:
		return e.w.Energy
	case model.NeedHygiene:
		return e.w.Hygiene
	case model.NeedBladder:
		return e.w.Bladder
	case model.NeedSocial:
		return e.w.Social
	case model.NeedFun:
		return e.w.Fun
	case model.NeedComfort:
		return e.w.Comfort
	default:
		return 0
	}
}

// emergencyIntent maps a critical need to the survival intent that fixes it.
func emergencyIntent(k model.NeedKind) model.Intent {
	switch k {
	case model.NeedHunger:
		return model.IntentEat
	case model.NeedEnergy:
		return model.IntentSleep
	default:
		return model.IntentNeed
	}
}

// Emergency returns the survival decision when the agent is in danger.
// Emergencies override schedule and every other consideration.
func (e *Evaluator) Emergency(a *model.Agent) (Decision, bool) {
	em, ok := wellbeing.CheckEmergency(a)
	if !ok {
		return Decision{}, false
	}
	d := Decision{Score: e.w.EmergencyScore, Urgent: true, Critical: em.Health}
	if em.Health && !em.Drained {
		d.Intent = model.IntentSurvive
	} else {
		d.Intent = emergencyIntent(em.Need)
		d.Need = em.Need
	}
	d.Justification = fmt.Sprintf("%s %.1f: emergency %s", d.Intent, d.Score, em)
	return d, true
}

// Evaluate picks the agent's next intent. The result depends only on agent
// and world state, so identical inputs give identical decisions.
func (e *Evaluator) Evaluate(a *model.Agent, w *world.World) Decision {
	if d, ok := e.Emergency(a); ok {
		return d
	}

	duty, dutyDue := w.Schedule().Upcoming(a, w.Clock())
	cands := e.score(a, w, duty, dutyDue)

	best := -1
	for i, c := range cands {
		if best < 0 || c.Score > cands[best].Score {
			best = i
		}
	}

	d := Decision{DutyAware: dutyDue, Candidates: cands}
	if best < 0 || cands[best].Score < e.w.MinScore {
		top := 0.0
		if best >= 0 {
			top = cands[best].Score
		}
		d.Intent = model.IntentWander
		d.Score = top
		d.Justification = fmt.Sprintf("%s %.1f: nothing pressing", model.IntentWander, top)
		return d
	}

	c := cands[best]
	d.Intent = c.Intent
	d.Need = c.Need
	d.Score = c.Score
	d.Justification = fmt.Sprintf("%s %.1f: %s", c.Label(), c.Score, c.Reason)
	return d
}

// score returns every candidate in a fixed order; earlier candidates win ties.
func (e *Evaluator) score(a *model.Agent, w *world.World, duty model.Intent, dutyDue bool) []Candidate {
	needs := &a.Needs
	cands := make([]Candidate, 0, 10)
	add := func(in model.Intent, k model.NeedKind, score float64, reason string) {
		cands = append(cands, Candidate{Intent: in, Need: k, Score: score, Reason: reason})
	}
	needReason := func(k model.NeedKind) string {
		return fmt.Sprintf("%s %.1f", k, needs.Get(k))
	}

	if a.Role == model.RoleHelper {
		return cands
	}

	add(model.IntentSurvive, 0, e.w.Health*e.deficit(a.Health), fmt.Sprintf("health %.1f", a.Health))
	add(model.IntentEat, model.NeedHunger, e.w.Hunger*e.deficit(needs.Get(model.NeedHunger)), needReason(model.NeedHunger))

	sleep := e.w.Energy * e.deficit(needs.Get(model.NeedEnergy))
	sleepReason := needReason(model.NeedEnergy)
	if h := w.Hour(); h >= 22 || h < 6 {
		sleep += e.w.NightSleep * (100 - needs.Get(model.NeedEnergy)) / 100
		sleepReason += ", night"
	}
	add(model.IntentSleep, model.NeedEnergy, sleep, sleepReason)

	if dutyDue && duty == model.IntentWork {
		add(model.IntentWork, 0, e.w.Work*(0.75+0.5*a.Traits.Diligence), "shift due")
	}
	if dutyDue && duty == model.IntentSchool {
		add(model.IntentSchool, 0, e.w.School, "school due")
	}

	social := e.w.Social * e.deficit(needs.Get(model.NeedSocial)) * (0.5 + a.Traits.Sociability)
	socialReason := needReason(model.NeedSocial)
	if w.Schedule().IsAdult(a) && a.Partner == 0 && a.LonelyMinutes >= e.w.LonelyMinutes {
		social += e.w.Loneliness
		socialReason += ", lonely"
	}
	add(model.IntentSocialize, model.NeedSocial, social, socialReason)

	fun := e.w.Fun * e.deficit(needs.Get(model.NeedFun)) * (0.5 + a.Traits.Playfulness)
	add(model.IntentFun, model.NeedFun, fun, needReason(model.NeedFun))

	for _, k := range []model.NeedKind{model.NeedHygiene, model.NeedBladder, model.NeedComfort} {
		add(model.IntentNeed, k, e.needWeight(k)*e.deficit(needs.Get(k)), needReason(k))
	}
	return cands
}
