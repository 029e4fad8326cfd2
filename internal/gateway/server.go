// Package gateway bridges presentation clients to the simulation over
// websockets: client commands in, binary hot-state frames and JSON events out.
package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"

	"github.com/udisondev/hearth/internal/hotstate"
	"github.com/udisondev/hearth/internal/saves"
	"github.com/udisondev/hearth/internal/sim"
)

// Simulation is the part of sim.Simulation the gateway drives.
type Simulation interface {
	Submit(ctx context.Context, cmd sim.Command) error
	Subscribe(buffer int) (<-chan sim.Event, func())
	HotState() *hotstate.Table
}

// Options tunes the gateway.
type Options struct {
	FrameHz       int
	SendQueueSize int
	WriteTimeout  time.Duration
	// EventBuffer is the simulation subscription buffer.
	EventBuffer int
}

// DefaultOptions returns 10 frames per second and a 64 message outbox.
func DefaultOptions() Options {
	return Options{
		FrameHz:       10,
		SendQueueSize: 64,
		WriteTimeout:  5 * time.Second,
		EventBuffer:   64,
	}
}

// Server is the websocket gateway.
type Server struct {
	sim   Simulation
	store saves.Store // nil disables slot loads and listings
	opts  Options

	upgrader    websocket.Upgrader
	nextID      atomic.Uint64
	base        context.Context
	events      <-chan sim.Event
	unsubscribe func()

	mu      sync.Mutex
	clients map[*client]struct{}
	closed  bool
	mapMsg  []byte // last map_initialized message, replayed to new clients
	wg      sync.WaitGroup
}

// New creates a gateway and subscribes it to s. Create it before the
// simulation runs so the initial map reaches clients. store may be nil.
func New(s Simulation, store saves.Store, opts Options) *Server {
	def := DefaultOptions()
	if opts.FrameHz <= 0 {
		opts.FrameHz = def.FrameHz
	}
	if opts.SendQueueSize <= 0 {
		opts.SendQueueSize = def.SendQueueSize
	}
	if opts.WriteTimeout <= 0 {
		opts.WriteTimeout = def.WriteTimeout
	}
	if opts.EventBuffer <= 0 {
		opts.EventBuffer = def.EventBuffer
	}
	events, unsubscribe := s.Subscribe(opts.EventBuffer)
	return &Server{
		sim:         s,
		store:       store,
		opts:        opts,
		events:      events,
		unsubscribe: unsubscribe,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  16 * 1024,
			WriteBufferSize: 64 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true }, // dev default
		},
		base:    context.Background(),
		clients: make(map[*client]struct{}),
	}
}

// Handler routes /ws to the websocket endpoint and /healthz to a liveness probe.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.serveWS)
	mux.HandleFunc("/healthz", func(rw http.ResponseWriter, r *http.Request) {
		rw.WriteHeader(http.StatusOK)
	})
	return mux
}

// ListenAndServe listens on addr and serves until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		s.unsubscribe()
		return fmt.Errorf("listening on %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts clients on ln until ctx is cancelled or the simulation
// stops. Every client connection is closed before Serve returns.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	s.base = ctx

	defer s.unsubscribe()

	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	slog.Info("gateway listening", "addr", ln.Addr().String())

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.pumpEvents(gctx, s.events)
		cancel()
		return nil
	})
	g.Go(func() error {
		s.pumpFrames(gctx)
		return nil
	})
	g.Go(func() error {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serving gateway: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancelShutdown()
		err := srv.Shutdown(shutdownCtx)
		s.closeClients()
		if err != nil {
			return fmt.Errorf("shutting down gateway: %w", err)
		}
		return nil
	})

	err := g.Wait()
	s.closeClients()
	s.wg.Wait()
	slog.Info("gateway stopped")
	return err
}

// ClientCount returns the number of connected clients.
func (s *Server) ClientCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

// pumpEvents fans simulation events out to every client until the
// subscription closes or ctx is done.
func (s *Server) pumpEvents(ctx context.Context, events <-chan sim.Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			msg, err := EncodeEvent(ev)
			if err != nil {
				slog.Warn("encoding event", "kind", ev.Kind(), "error", err)
				continue
			}
			_, droppable := ev.(sim.EventSync)
			if _, isMap := ev.(sim.EventMapInitialized); isMap {
				s.mu.Lock()
				s.mapMsg = msg
				s.mu.Unlock()
			}
			s.broadcast(outMsg{kind: websocket.TextMessage, data: msg}, droppable)
		}
	}
}

// pumpFrames publishes the hot-state table at FrameHz whenever it changed.
func (s *Server) pumpFrames(ctx context.Context) {
	ticker := time.NewTicker(time.Second / time.Duration(s.opts.FrameHz))
	defer ticker.Stop()

	table := s.sim.HotState()
	var lastSeq uint64
	size := hotstate.FrameHeaderSize + table.Capacity()*hotstate.RecordSize
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			seq := table.Sequence()
			if seq == lastSeq || s.ClientCount() == 0 {
				continue
			}
			lastSeq = seq
			frame := table.AppendFrame(make([]byte, 0, size))
			s.broadcast(outMsg{kind: websocket.BinaryMessage, data: frame}, true)
		}
	}
}

func (s *Server) broadcast(m outMsg, droppable bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for c := range s.clients {
		c.send(m, droppable)
	}
}

// register adds c unless the server is shutting down.
func (s *Server) register(c *client) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	s.clients[c] = struct{}{}
	s.wg.Add(1)
	if s.mapMsg != nil {
		c.send(outMsg{kind: websocket.TextMessage, data: s.mapMsg}, false)
	}
	return true
}

func (s *Server) unregister(c *client) {
	s.mu.Lock()
	delete(s.clients, c)
	s.mu.Unlock()
	c.close()
	s.wg.Done()
}

func (s *Server) closeClients() {
	s.mu.Lock()
	s.closed = true
	for c := range s.clients {
		c.close()
	}
	s.mu.Unlock()
}

func (s *Server) serveWS(rw http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(rw, r, nil)
	if err != nil {
		return
	}
	c := newClient(s.nextID.Add(1), conn, s.opts.SendQueueSize)
	if !s.register(c) {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"), time.Now().Add(time.Second))
		_ = conn.Close()
		return
	}
	defer s.unregister(c)
	slog.Info("client connected", "client", c.id, "remote", r.RemoteAddr)

	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		c.writeLoop(s.opts.WriteTimeout)
	}()

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			break
		}
		if !s.handleMessage(c, msg) {
			break
		}
	}

	c.close()
	<-writerDone
	slog.Info("client disconnected", "client", c.id)
}

// handleMessage applies one client message. It returns false when the
// client should be dropped.
func (s *Server) handleMessage(c *client, msg []byte) bool {
	var env Envelope
	if err := json.Unmarshal(msg, &env); err != nil {
		s.reply(c, TypeError, ErrorPayload{Error: "malformed message"})
		return true
	}

	ctx, cancel := context.WithTimeout(s.base, s.opts.WriteTimeout)
	defer cancel()

	switch env.Type {
	case TypeListSaves:
		s.listSaves(ctx, c)
		return true
	case TypeLoad:
		var p LoadPayload
		if err := decodePayload(env, &p); err == nil && p.Slot != "" && len(p.Save) == 0 {
			return s.loadSlot(ctx, c, p.Slot)
		}
	}

	cmd, err := DecodeCommand(env)
	if err != nil {
		s.reply(c, TypeError, ErrorPayload{Request: env.Type, Error: err.Error()})
		return true
	}
	if err := s.sim.Submit(ctx, cmd); err != nil {
		return s.submitFailed(c, env.Type, err)
	}
	return true
}

func (s *Server) listSaves(ctx context.Context, c *client) {
	if s.store == nil {
		s.reply(c, TypeError, ErrorPayload{Request: TypeListSaves, Error: "no save store configured"})
		return
	}
	list, err := s.store.List(ctx)
	if err != nil {
		slog.Error("listing saves", "error", err)
		s.reply(c, TypeError, ErrorPayload{Request: TypeListSaves, Error: "listing saves failed"})
		return
	}
	s.reply(c, TypeSaves, list)
}

func (s *Server) loadSlot(ctx context.Context, c *client, slot string) bool {
	if s.store == nil {
		s.reply(c, TypeError, ErrorPayload{Request: TypeLoad, Error: "no save store configured"})
		return true
	}
	if err := saves.Restore(ctx, s.store, s.sim, slot); err != nil {
		if errors.Is(err, sim.ErrStopped) {
			return false
		}
		s.reply(c, TypeError, ErrorPayload{Request: TypeLoad, Error: err.Error()})
	}
	return true
}

func (s *Server) submitFailed(c *client, request string, err error) bool {
	if errors.Is(err, sim.ErrStopped) {
		return false
	}
	s.reply(c, TypeError, ErrorPayload{Request: request, Error: err.Error()})
	return true
}

func (s *Server) reply(c *client, typ string, payload any) {
	msg, err := encode(typ, payload)
	if err != nil {
		slog.Error("encoding reply", "type", typ, "error", err)
		return
	}
	c.send(outMsg{kind: websocket.TextMessage, data: msg}, false)
}
