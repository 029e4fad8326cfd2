package ai

import (
	"log/slog"
	"sync/atomic"

	"github.com/udisondev/hearth/internal/game/wellbeing"
	"github.com/udisondev/hearth/internal/world"
)

// TickManager advances every agent of a world once per tick: wellbeing first,
// then the controller. Agents are processed sequentially in id order.
type TickManager struct {
	controller Controller
	needs      *wellbeing.Model

	// lastCount is read by other goroutines for status reporting.
	lastCount atomic.Int32
}

// NewTickManager creates a manager driving c with the given need model.
func NewTickManager(c Controller, needs *wellbeing.Model) *TickManager {
	return &TickManager{controller: c, needs: needs}
}

// TickAll steps the whole population by dt sim minutes.
func (m *TickManager) TickAll(w *world.World, dt float64) {
	w.ReindexAgents()

	agents := w.Agents()
	for _, a := range agents {
		m.needs.Decay(a, dt)
		m.needs.UpdateHealth(a, dt)
		wellbeing.UpdateBuffs(a, dt)
		wellbeing.UpdateLoneliness(a, dt)
		wellbeing.UpdateMood(a)

		m.controller.Tick(a, w, dt)
	}
	m.lastCount.Store(int32(len(agents)))

	if IsDebugEnabled() {
		slog.Debug("AI tick completed", "agents", len(agents), "minute", w.Clock())
	}
}

// Count returns the number of agents processed by the last TickAll.
func (m *TickManager) Count() int {
	return int(m.lastCount.Load())
}
