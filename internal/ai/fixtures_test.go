package ai

import (
	"github.com/udisondev/hearth/internal/model"
	"github.com/udisondev/hearth/internal/policy"
	"github.com/udisondev/hearth/internal/world"
)

// dayOneAt returns the sim minute of hour:minute on day 1 (a working day).
func dayOneAt(hour, minute float64) float64 {
	return policy.MinutesPerDay + hour*policy.MinutesPerHour + minute
}

func item(id model.InteractableID, u model.Utility, x, y float64) *model.Interactable {
	return &model.Interactable{
		ID: id, Kind: u.String(), Utility: u, Capacity: 1,
		Bounds: model.Rect{X: x, Y: y, W: 20, H: 20},
	}
}

func newWorld(start float64, items ...*model.Interactable) *world.World {
	return world.New(world.Options{
		Layout:        model.Layout{Width: 600, Height: 600, CellSize: 20},
		Interactables: items,
		Tables:        policy.DefaultTables(),
		StartMinute:   start,
	})
}

func resident(id model.AgentID, x, y float64) *model.Agent {
	a := model.NewAgent(id, "Agent")
	a.Pos = model.Pt(x, y)
	a.HomeID = 1
	a.Money = 100
	return a
}
