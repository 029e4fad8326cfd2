// Package sim runs the simulation authority: a single goroutine that owns the
// world, applies commands at tick boundaries, steps every agent and publishes
// the hot-state table and structured events.
package sim

import (
	"context"
	"errors"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/udisondev/hearth/internal/ai"
	"github.com/udisondev/hearth/internal/game/wellbeing"
	"github.com/udisondev/hearth/internal/hotstate"
	"github.com/udisondev/hearth/internal/model"
	"github.com/udisondev/hearth/internal/policy"
	"github.com/udisondev/hearth/internal/snapshot"
	"github.com/udisondev/hearth/internal/world"
)

// ErrStopped is returned by Submit once Run has returned.
var ErrStopped = errors.New("simulation stopped")

// MaxSpeed caps SetSpeed.
const MaxSpeed = 50.0

// Options configures a Simulation.
type Options struct {
	// World is the initial world. Nil creates an empty default map.
	World *world.World
	// TickRate is the number of ticks per wall-clock second.
	TickRate int
	// TickMinutes is the sim time advanced per tick at speed 1.
	TickMinutes float64
	// HotCapacity is the number of hot-state slots.
	HotCapacity int
	// SyncEvery publishes EventSync every n ticks (0 disables).
	SyncEvery int
	// Seed pins every random decision.
	Seed          uint64
	Brain         ai.Config
	Rates         wellbeing.Rates
	Tables        policy.Tables
	MaxExpansions int
	// CommandBuffer is the capacity of the command channel.
	CommandBuffer int
	// DeliveryTimeout bounds how long the tick loop waits on a subscriber
	// for a non-droppable event before unsubscribing it.
	DeliveryTimeout time.Duration
}

// DefaultOptions returns a 10 Hz simulation advancing 0.1 sim minutes per tick.
func DefaultOptions() Options {
	return Options{
		TickRate:      10,
		TickMinutes:   0.1,
		HotCapacity:   512,
		SyncEvery:     10,
		Seed:          1,
		Brain:         ai.DefaultConfig(),
		Rates:         wellbeing.DefaultRates(),
		Tables:        policy.DefaultTables(),
		CommandBuffer:   256,
		DeliveryTimeout: 5 * time.Second,
	}
}

// Simulation is the authority. World state is touched only by the goroutine
// running Run (or by the caller of Step/Apply when Run is not active).
type Simulation struct {
	opts  Options
	world *world.World
	hot   *hotstate.Table
	brain *ai.Brain
	ticks *ai.TickManager
	rnd   *rand.Rand

	focused model.AgentID
	speed   float64
	// steps counts Step calls, paused ones included, and drives the sync cadence.
	steps uint64

	commands chan Command
	done     chan struct{}
	stopOnce sync.Once

	mu      sync.Mutex
	subs    map[int]*subscriber
	nextSub int
	closed  bool
}

// New creates a simulation. Agents already present in opts.World get hot slots.
func New(opts Options) *Simulation {
	def := DefaultOptions()
	if opts.TickRate <= 0 {
		opts.TickRate = def.TickRate
	}
	if opts.TickMinutes <= 0 {
		opts.TickMinutes = def.TickMinutes
	}
	if opts.HotCapacity <= 0 {
		opts.HotCapacity = def.HotCapacity
	}
	if opts.CommandBuffer <= 0 {
		opts.CommandBuffer = def.CommandBuffer
	}
	if opts.DeliveryTimeout <= 0 {
		opts.DeliveryTimeout = def.DeliveryTimeout
	}
	if opts.World == nil {
		opts.World = world.New(world.Options{
			Layout:        model.Layout{Width: 1000, Height: 1000},
			Tables:        opts.Tables,
			MaxExpansions: opts.MaxExpansions,
		})
	}

	brain := ai.NewBrain(opts.Brain, ai.NewRand(opts.Seed))
	s := &Simulation{
		opts:     opts,
		world:    opts.World,
		hot:      hotstate.New(opts.HotCapacity),
		brain:    brain,
		ticks:    ai.NewTickManager(brain, wellbeing.New(opts.Rates)),
		rnd:      ai.NewRand(opts.Seed + 1),
		speed:    1,
		commands: make(chan Command, opts.CommandBuffer),
		done:     make(chan struct{}),
		subs:     make(map[int]*subscriber),
	}
	for _, a := range s.world.Agents() {
		a.Slot = model.NoSlot
		s.mirror(a)
	}
	return s
}

// HotState returns the shared hot-state table. Safe for concurrent readers.
func (s *Simulation) HotState() *hotstate.Table {
	return s.hot
}

// World returns the owned world. Only the owning goroutine may use it.
func (s *Simulation) World() *world.World {
	return s.world
}

// Focused returns the selected agent (0 = none). Owner only.
func (s *Simulation) Focused() model.AgentID {
	return s.focused
}

// Speed returns the current speed multiplier. Owner only.
func (s *Simulation) Speed() float64 {
	return s.speed
}

// Run drives the tick loop until ctx is cancelled. Commands received between
// ticks are buffered and applied in arrival order before the next Step.
func (s *Simulation) Run(ctx context.Context) error {
	defer s.stop()

	interval := time.Second / time.Duration(s.opts.TickRate)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	slog.Info("simulation started",
		"tick_rate_hz", s.opts.TickRate,
		"tick_minutes", s.opts.TickMinutes,
		"agents", s.world.AgentCount(),
		"hot_capacity", s.hot.Capacity())
	s.emit(EventMapInitialized{Map: snapshot.CaptureMap(s.world)})

	var pending []Command
	for {
		select {
		case <-ctx.Done():
			slog.Info("simulation stopping", "tick", s.world.Tick())
			return ctx.Err()
		case cmd := <-s.commands:
			pending = append(pending, cmd)
		case <-ticker.C:
			// Drain what is already queued so it lands on this boundary.
			for drained := false; !drained; {
				select {
				case cmd := <-s.commands:
					pending = append(pending, cmd)
				default:
					drained = true
				}
			}
			s.Apply(pending...)
			clear(pending)
			pending = pending[:0]
			s.Step()
		}
	}
}

// Submit enqueues cmd for the next tick boundary.
func (s *Simulation) Submit(ctx context.Context, cmd Command) error {
	select {
	case <-s.done:
		return ErrStopped
	default:
	}
	select {
	case s.commands <- cmd:
		return nil
	case <-s.done:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Apply executes commands immediately, in order. Owner only.
func (s *Simulation) Apply(cmds ...Command) {
	for _, c := range cmds {
		if c != nil {
			c.apply(s)
		}
	}
}

// Step advances the world by one tick and publishes its state. Owner only.
func (s *Simulation) Step() {
	if dt := s.opts.TickMinutes * s.speed; dt > 0 {
		s.ticks.TickAll(s.world, dt)
		s.world.Advance(dt)
	}
	s.publishHot()

	s.steps++
	if n := s.opts.SyncEvery; n > 0 && s.steps%uint64(n) == 0 {
		s.emit(EventSync{Sync: snapshot.BuildSync(s.world, s.focused)})
	}
}

// publishHot mirrors every agent into its slot. Agents refused a slot
// earlier get one as soon as capacity frees up.
func (s *Simulation) publishHot() {
	tick := uint32(s.world.Tick())
	for _, a := range s.world.Agents() {
		if a.Slot == model.NoSlot {
			if s.hot.InUse() >= s.hot.Capacity() {
				continue
			}
			s.mirror(a)
		}
		s.hot.Write(hotstate.Slot(a.Slot), hotstate.Record{
			X:       float32(a.Pos.X),
			Y:       float32(a.Pos.Y),
			Code:    a.Activity.Code(),
			Facing:  uint8(a.Facing),
			Visible: a.Visible,
			Tick:    tick,
		})
	}
	s.hot.Publish()
}

// mirror allocates a hot slot for a. On exhaustion the agent keeps living
// without a slot.
func (s *Simulation) mirror(a *model.Agent) {
	slot, err := s.hot.Allocate(uint32(a.ID))
	if err != nil {
		slog.Warn("agent not mirrored to hot state",
			"agent", a.ID,
			"capacity", s.hot.Capacity(),
			"error", err)
		a.Slot = model.NoSlot
		return
	}
	a.Slot = int32(slot)
}

func (s *Simulation) unmirror(a *model.Agent) {
	if a.Slot != model.NoSlot {
		s.hot.Free(hotstate.Slot(a.Slot))
		a.Slot = model.NoSlot
	}
}

func (s *Simulation) stop() {
	s.stopOnce.Do(func() {
		close(s.done)
		s.mu.Lock()
		defer s.mu.Unlock()
		s.closed = true
		for id, sub := range s.subs {
			sub.close()
			delete(s.subs, id)
		}
	})
}
