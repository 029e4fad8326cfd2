package activity

import (
	"github.com/udisondev/hearth/internal/model"
	"github.com/udisondev/hearth/internal/world"
)

type idleHandler struct{}

func (idleHandler) Enter(*model.Agent, *world.World) Status            { return StatusDone }
func (idleHandler) Update(*model.Agent, *world.World, float64) Status { return StatusDone }
func (idleHandler) Exit(*model.Agent, *world.World)                    {}

type waitHandler struct{}

func (waitHandler) Enter(a *model.Agent, _ *world.World) Status {
	if a.Activity.Timer <= 0 {
		return StatusDone
	}
	return StatusRunning
}

func (waitHandler) Update(a *model.Agent, _ *world.World, dt float64) Status {
	a.Activity.Timer -= dt
	if a.Activity.Timer <= 0 {
		return StatusDone
	}
	return StatusRunning
}

func (waitHandler) Exit(*model.Agent, *world.World) {}
