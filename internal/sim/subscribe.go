package sim

import (
	"log/slog"
	"sync"
	"time"
)

type subscriber struct {
	ch       chan Event
	done     chan struct{}
	quitOnce sync.Once
	chOnce   sync.Once
	dropped  uint64
}

// quit unblocks any pending delivery.
func (sub *subscriber) quit() {
	sub.quitOnce.Do(func() { close(sub.done) })
}

// close must be called with Simulation.mu held.
func (sub *subscriber) close() {
	sub.quit()
	sub.chOnce.Do(func() { close(sub.ch) })
}

// Subscribe registers an event consumer with the given channel buffer.
// Sync events are dropped when the buffer is full; every other event waits
// for the consumer up to Options.DeliveryTimeout, after which the consumer
// is unsubscribed and its channel closed. The channel is also closed by
// cancel or when Run returns.
func (s *Simulation) Subscribe(buffer int) (<-chan Event, func()) {
	sub := &subscriber{
		ch:   make(chan Event, max(buffer, 0)),
		done: make(chan struct{}),
	}

	s.mu.Lock()
	if s.closed {
		sub.close()
		s.mu.Unlock()
		return sub.ch, func() {}
	}
	id := s.nextSub
	s.nextSub++
	s.subs[id] = sub
	s.mu.Unlock()

	cancel := func() {
		sub.quit()
		s.mu.Lock()
		defer s.mu.Unlock()
		if _, ok := s.subs[id]; ok {
			delete(s.subs, id)
			sub.close()
		}
	}
	return sub.ch, cancel
}

func (s *Simulation) emit(ev Event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, droppable := ev.(EventSync)
	for id, sub := range s.subs {
		if droppable {
			select {
			case sub.ch <- ev:
			default:
				sub.dropped++
				if sub.dropped == 1 || sub.dropped%1000 == 0 {
					slog.Debug("sync dropped for slow subscriber", "dropped", sub.dropped)
				}
			}
			continue
		}
		select {
		case sub.ch <- ev:
			continue
		case <-sub.done:
			continue
		default:
		}
		timer := time.NewTimer(s.opts.DeliveryTimeout)
		select {
		case sub.ch <- ev:
		case <-sub.done:
		case <-timer.C:
			slog.Warn("subscriber stalled, unsubscribing", "event", ev.Kind(), "timeout", s.opts.DeliveryTimeout)
			delete(s.subs, id)
			sub.close()
		}
		timer.Stop()
	}
}
