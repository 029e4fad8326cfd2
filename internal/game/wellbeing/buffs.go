package wellbeing

import "github.com/udisondev/hearth/internal/model"

// Buff ids applied by the simulation.
const (
	BuffGoodMeal   = "good_meal"
	BuffWellRested = "well_rested"
	BuffFresh      = "fresh"
	BuffHadFun     = "had_fun"
	BuffGoodChat   = "good_chat"
	BuffLonely     = "lonely"
	BuffExhausted  = "exhausted"
	BuffStarving   = "starving"
	BuffTreated    = "treated"
)

// Catalog holds the default definition of every known buff.
var Catalog = map[string]model.Buff{
	BuffGoodMeal:   {ID: BuffGoodMeal, Remaining: 180, Polarity: 1, Magnitude: 6},
	BuffWellRested: {ID: BuffWellRested, Remaining: 360, Polarity: 1, Magnitude: 8},
	BuffFresh:      {ID: BuffFresh, Remaining: 240, Polarity: 1, Magnitude: 4},
	BuffHadFun:     {ID: BuffHadFun, Remaining: 240, Polarity: 1, Magnitude: 6},
	BuffGoodChat:   {ID: BuffGoodChat, Remaining: 240, Polarity: 1, Magnitude: 5},
	BuffLonely:     {ID: BuffLonely, Remaining: 480, Polarity: -1, Magnitude: 8},
	BuffExhausted:  {ID: BuffExhausted, Remaining: 120, Polarity: -1, Magnitude: 10},
	BuffStarving:   {ID: BuffStarving, Remaining: 120, Polarity: -1, Magnitude: 15},
	BuffTreated:    {ID: BuffTreated, Remaining: 600, Polarity: 1, Magnitude: 5},
}

// Apply applies the catalog buff with id. Unknown ids are ignored.
func Apply(a *model.Agent, id string) {
	if b, ok := Catalog[id]; ok {
		ApplyBuff(a, b)
	}
}
