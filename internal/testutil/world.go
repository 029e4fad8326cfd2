package testutil

import (
	"testing"

	"github.com/udisondev/hearth/internal/policy"
	"github.com/udisondev/hearth/internal/sim"
	"github.com/udisondev/hearth/internal/snapshot"
	"github.com/udisondev/hearth/internal/worldgen"
)

// TownStart is 10:00 on day one.
const TownStart = policy.MinutesPerDay + 10*policy.MinutesPerHour

// TownSim returns a simulation on the default generated town with the
// given number of households spawned. Run is not started.
func TownSim(tb testing.TB, households int) *sim.Simulation {
	tb.Helper()

	town := worldgen.Generate(worldgen.DefaultConfig())
	opts := sim.DefaultOptions()
	opts.World = town.NewWorld(opts.Tables, 0, TownStart)
	s := sim.New(opts)

	pop := town.Population()
	if households > len(pop) {
		tb.Fatalf("town has %d homes, asked for %d households", len(pop), households)
	}
	for _, h := range pop[:households] {
		s.Apply(h.Command())
	}
	return s
}

// SampleSave captures a town with two households.
func SampleSave(tb testing.TB) *snapshot.Save {
	tb.Helper()
	return snapshot.Capture(TownSim(tb, 2).World())
}
