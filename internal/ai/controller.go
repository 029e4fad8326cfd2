package ai

import (
	"github.com/udisondev/hearth/internal/model"
	"github.com/udisondev/hearth/internal/world"
)

// Controller drives one agent per tick. Brain is the production controller;
// tests substitute scripted ones.
type Controller interface {
	Tick(a *model.Agent, w *world.World, dt float64)
}

var _ Controller = (*Brain)(nil)
