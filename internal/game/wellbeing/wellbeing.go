// Package wellbeing implements need decay, mood aggregation and timed buffs.
package wellbeing

import (
	"fmt"
	"math"

	"github.com/udisondev/hearth/internal/model"
)

// Thresholds shared by the decision engine and the state machine.
const (
	// HealthCritical is the floor below which survival overrides everything.
	HealthCritical = 20.0
	// NeedCritical is the level below which a need is an emergency.
	NeedCritical = 5.0
	// NeedSatisfied ends need-restoring interactions early.
	NeedSatisfied = 98.0
	// NeedRecovered is the level an urgent plan's need must reach before
	// another need emergency may take over.
	NeedRecovered = 50.0
	// HealthRecovered plays the same role for survival plans.
	HealthRecovered = 40.0
)

// Rates holds per-need base decay rates in points per sim minute.
type Rates [model.NeedCount]float64

// DefaultRates returns baseline decay rates. A fully satisfied agent gets
// hungry in roughly a day and sleepy in roughly a day and a half.
func DefaultRates() Rates {
	var r Rates
	r[model.NeedHunger] = 0.07
	r[model.NeedEnergy] = 0.05
	r[model.NeedHygiene] = 0.04
	r[model.NeedBladder] = 0.09
	r[model.NeedSocial] = 0.035
	r[model.NeedFun] = 0.045
	r[model.NeedComfort] = 0.03
	return r
}

// Health dynamics in points per sim minute.
const (
	healthDrain = 0.15 // while hunger or energy is empty
	healthRegen = 0.02
)

// Model applies decay with a configurable rate table.
type Model struct {
	rates Rates
}

// New creates a model with the given base rates.
func New(rates Rates) *Model {
	return &Model{rates: rates}
}

// Default creates a model with DefaultRates.
func Default() *Model {
	return New(DefaultRates())
}

// Rate returns the base decay rate of need k.
func (m *Model) Rate(k model.NeedKind) float64 {
	return m.rates[k]
}

// Decay lowers every need by baseRate * metabolism * dt (dt in sim minutes)
// and clamps to [0,100]. Agents flagged NoDecay are left untouched.
// Negative or NaN dt is treated as zero.
func (m *Model) Decay(a *model.Agent, dt float64) {
	if a.NoDecay || !(dt > 0) {
		return
	}
	for i := range model.NeedCount {
		k := model.NeedKind(i)
		mod := a.Metabolism[i]
		if mod < 0 || math.IsNaN(mod) {
			mod = 0
		}
		a.Needs.Add(k, -m.rates[i]*mod*dt)
	}
}

// UpdateHealth drains health while hunger or energy is empty and regenerates it otherwise.
func (m *Model) UpdateHealth(a *model.Agent, dt float64) {
	if a.NoDecay || !(dt > 0) {
		return
	}
	if a.Needs.Get(model.NeedHunger) <= 0 || a.Needs.Get(model.NeedEnergy) <= 0 {
		a.Health = model.ClampNeed(a.Health - healthDrain*dt)
		return
	}
	a.Health = model.ClampNeed(a.Health + healthRegen*dt)
}

// UpdateMood sets mood to the average of all needs plus every active buff's
// signed delta, clamped to [0,100].
func UpdateMood(a *model.Agent) {
	mood := a.Needs.Average()
	for _, b := range a.Buffs {
		mood += b.Delta()
	}
	a.Mood = model.ClampNeed(mood)
}

// UpdateBuffs counts every buff down by elapsed sim minutes and drops expired ones.
func UpdateBuffs(a *model.Agent, elapsed float64) {
	if elapsed < 0 {
		elapsed = 0
	}
	kept := a.Buffs[:0]
	for _, b := range a.Buffs {
		b.Remaining -= elapsed
		if b.Remaining > 0 {
			kept = append(kept, b)
		}
	}
	clear(a.Buffs[len(kept):])
	a.Buffs = kept
}

// ApplyBuff adds b, or refreshes the duration (and magnitude) of an active buff
// with the same id. Buffs never stack.
func ApplyBuff(a *model.Agent, b model.Buff) {
	for i := range a.Buffs {
		if a.Buffs[i].ID == b.ID {
			a.Buffs[i].Remaining = b.Remaining
			a.Buffs[i].Polarity = b.Polarity
			a.Buffs[i].Magnitude = b.Magnitude
			return
		}
	}
	a.Buffs = append(a.Buffs, b)
}

// HasBuff reports whether a buff with id is active.
func HasBuff(a *model.Agent, id string) bool {
	for _, b := range a.Buffs {
		if b.ID == id {
			return true
		}
	}
	return false
}

// Emergency describes a life-threatening condition.
type Emergency struct {
	// Health is true when health is the trigger.
	Health bool
	// Need is the critical need. For a health emergency it is the empty
	// need draining health, and only meaningful when Drained is set.
	Need    model.NeedKind
	Drained bool
	Level   float64
}

// CheckEmergency reports the most severe emergency, if any.
// Health below HealthCritical wins over a depleted need; among needs the
// lowest one wins.
func CheckEmergency(a *model.Agent) (Emergency, bool) {
	if a.NoDecay {
		return Emergency{}, false
	}
	if a.Health < HealthCritical {
		e := Emergency{Health: true, Level: a.Health}
		e.Need, e.Drained = drainCause(a)
		return e, true
	}
	k, v := a.Needs.Lowest()
	if v < NeedCritical {
		return Emergency{Need: k, Level: v}, true
	}
	return Emergency{}, false
}

// drainCause returns the empty need that makes UpdateHealth drain health.
// Hunger wins a tie with energy.
func drainCause(a *model.Agent) (model.NeedKind, bool) {
	hunger, energy := a.Needs.Get(model.NeedHunger), a.Needs.Get(model.NeedEnergy)
	switch {
	case hunger <= 0 && hunger <= energy:
		return model.NeedHunger, true
	case energy <= 0:
		return model.NeedEnergy, true
	}
	return 0, false
}

// IsEmergency reports whether the agent needs immediate care and a short reason.
func IsEmergency(a *model.Agent) (bool, string) {
	e, ok := CheckEmergency(a)
	if !ok {
		return false, ""
	}
	return true, e.String()
}

func (e Emergency) String() string {
	if e.Health && e.Drained {
		return fmt.Sprintf("health %.1f (%s empty)", e.Level, e.Need)
	}
	if e.Health {
		return fmt.Sprintf("health %.1f", e.Level)
	}
	return fmt.Sprintf("%s %.1f", e.Need, e.Level)
}

// Loneliness tuning.
const (
	lonelySocialLevel = 40.0
	lonelyBuffAfter   = 12 * 60.0
)

// UpdateLoneliness accumulates minutes spent with a low social need and applies
// the lonely buff once it has lasted long enough. Talking resets the counter.
func UpdateLoneliness(a *model.Agent, dt float64) {
	if a.NoDecay || !(dt > 0) {
		return
	}
	if a.Needs.Get(model.NeedSocial) >= lonelySocialLevel {
		a.LonelyMinutes = 0
		return
	}
	a.LonelyMinutes += dt
	if a.LonelyMinutes >= lonelyBuffAfter && !HasBuff(a, BuffLonely) {
		Apply(a, BuffLonely)
	}
}
