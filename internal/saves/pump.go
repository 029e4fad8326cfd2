package saves

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/udisondev/hearth/internal/sim"
)

// DefaultSlot receives save requests that name no slot.
const DefaultSlot = "quicksave"

// Submitter accepts simulation commands.
type Submitter interface {
	Submit(ctx context.Context, cmd sim.Command) error
}

// Pump writes every EventSaveReady it sees into a store.
type Pump struct {
	store Store
}

// NewPump creates a pump over st.
func NewPump(st Store) *Pump {
	return &Pump{store: st}
}

// Run consumes events until the channel closes or ctx is cancelled. Store
// failures are logged; one bad write never stops the pump.
func (p *Pump) Run(ctx context.Context, events <-chan sim.Event) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			switch ev := ev.(type) {
			case sim.EventSaveReady:
				p.persist(ctx, ev)
			case sim.EventLoadFailed:
				slog.Warn("load refused", "error", ev.Err)
			}
		}
	}
}

func (p *Pump) persist(ctx context.Context, ev sim.EventSaveReady) {
	slot := ev.Slot
	if slot == "" {
		slot = DefaultSlot
	}
	start := time.Now()
	if err := Save(ctx, p.store, slot, ev.Save); err != nil {
		slog.Error("persisting save", "slot", slot, "error", err)
		return
	}
	slog.Info("save persisted",
		"slot", slot,
		"snapshot", ev.Save.SnapshotID,
		"agents", len(ev.Save.Agents),
		"duration", time.Since(start))
}

// Autosave requests a save into AutosaveSlot every interval until ctx is cancelled.
func Autosave(ctx context.Context, sink Submitter, interval time.Duration) error {
	if interval <= 0 {
		return nil
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := sink.Submit(ctx, sim.SaveRequest{Slot: AutosaveSlot}); err != nil {
				if errors.Is(err, sim.ErrStopped) || ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("requesting autosave: %w", err)
			}
		}
	}
}

// Restore reads slot from st and submits it as a load request. A save that
// fails to decode is reported here and never reaches the simulation.
func Restore(ctx context.Context, st Store, sink Submitter, slot string) error {
	s, err := Load(ctx, st, slot)
	if err != nil {
		return err
	}
	if err := sink.Submit(ctx, sim.LoadRequest{Save: s}); err != nil {
		return fmt.Errorf("submitting load of slot %q: %w", slot, err)
	}
	return nil
}
