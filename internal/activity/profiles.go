package activity

import (
	"github.com/udisondev/hearth/internal/game/wellbeing"
	"github.com/udisondev/hearth/internal/model"
)

// Profile describes what an interaction does per sim minute.
type Profile struct {
	// Duration caps the interaction in sim minutes.
	Duration float64
	// Restores adds points per minute to needs.
	Restores map[model.NeedKind]float64
	// Health adds health points per minute.
	Health float64
	// UntilSatisfied ends the interaction early once this need is full.
	UntilSatisfied bool
	Need           model.NeedKind
	// Buff is applied when the interaction completes normally.
	Buff string
	// Memory is recorded on completion ("%s" is replaced by the target label).
	Memory string
}

// maxShiftMinutes bounds work and school sessions; the schedule check ends them earlier.
const maxShiftMinutes = 12 * 60

// Profiles maps each interaction key to its effects.
var Profiles = map[model.InteractionKey]Profile{
	model.KeyEat: {
		Duration: 30, Restores: map[model.NeedKind]float64{model.NeedHunger: 4},
		UntilSatisfied: true, Need: model.NeedHunger,
		Buff: wellbeing.BuffGoodMeal, Memory: "had a meal at %s",
	},
	model.KeySleep: {
		Duration: 480, Restores: map[model.NeedKind]float64{model.NeedEnergy: 0.3, model.NeedComfort: 0.05},
		UntilSatisfied: true, Need: model.NeedEnergy,
		Buff: wellbeing.BuffWellRested,
	},
	model.KeyWork: {
		Duration: maxShiftMinutes, Restores: map[model.NeedKind]float64{model.NeedSocial: 0.02},
	},
	model.KeyStudy: {
		Duration: maxShiftMinutes, Restores: map[model.NeedKind]float64{model.NeedSocial: 0.05},
	},
	model.KeyTalk: {
		Duration: 20, Restores: map[model.NeedKind]float64{model.NeedSocial: 3, model.NeedFun: 0.5},
		UntilSatisfied: true, Need: model.NeedSocial,
		Buff: wellbeing.BuffGoodChat, Memory: "chatted with %s",
	},
	model.KeyUse: {
		Duration: 20,
	},
	model.KeyBathe: {
		Duration: 20, Restores: map[model.NeedKind]float64{model.NeedHygiene: 6},
		UntilSatisfied: true, Need: model.NeedHygiene,
		Buff: wellbeing.BuffFresh,
	},
	model.KeyRelieve: {
		Duration: 5, Restores: map[model.NeedKind]float64{model.NeedBladder: 25},
		UntilSatisfied: true, Need: model.NeedBladder,
	},
	model.KeySit: {
		Duration: 30, Restores: map[model.NeedKind]float64{model.NeedComfort: 4},
		UntilSatisfied: true, Need: model.NeedComfort,
	},
	model.KeyPlay: {
		Duration: 60, Restores: map[model.NeedKind]float64{model.NeedFun: 2.5, model.NeedSocial: 0.3},
		UntilSatisfied: true, Need: model.NeedFun,
		Buff: wellbeing.BuffHadFun, Memory: "had fun at %s",
	},
	model.KeyHeal: {
		Duration: 90, Health: 1, Restores: map[model.NeedKind]float64{model.NeedComfort: 0.5},
		Buff: wellbeing.BuffTreated, Memory: "was treated at %s",
	},
	model.KeyEscort: {
		Duration: 240,
	},
}

// UtilityNeed maps a furniture utility to the need a generic Use restores.
var UtilityNeed = map[model.Utility]model.NeedKind{
	model.UtilityFood:   model.NeedHunger,
	model.UtilityBed:    model.NeedEnergy,
	model.UtilityToilet: model.NeedBladder,
	model.UtilityShower: model.NeedHygiene,
	model.UtilitySeat:   model.NeedComfort,
	model.UtilityFun:    model.NeedFun,
	model.UtilitySocial: model.NeedSocial,
}

// useRate is the generic Use restore rate in points per minute.
const useRate = 3.0

// profileFor returns the effective profile for key on target it (nil for agent targets).
func profileFor(key model.InteractionKey, it *model.Interactable) Profile {
	p, ok := Profiles[key]
	if !ok {
		p = Profile{Duration: 10}
	}
	if key == model.KeyUse && it != nil {
		if need, ok := UtilityNeed[it.Utility]; ok {
			p.Restores = map[model.NeedKind]float64{need: useRate}
			p.UntilSatisfied = true
			p.Need = need
		}
	}
	return p
}
