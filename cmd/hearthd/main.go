package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/udisondev/hearth/internal/ai"
	"github.com/udisondev/hearth/internal/config"
	"github.com/udisondev/hearth/internal/db"
	"github.com/udisondev/hearth/internal/db/local"
	"github.com/udisondev/hearth/internal/gateway"
	"github.com/udisondev/hearth/internal/mapfile"
	"github.com/udisondev/hearth/internal/policy"
	"github.com/udisondev/hearth/internal/saves"
	"github.com/udisondev/hearth/internal/sim"
	"github.com/udisondev/hearth/internal/snapshot"
	"github.com/udisondev/hearth/internal/world"
	"github.com/udisondev/hearth/internal/worldgen"
)

func main() {
	configPath := flag.String("config", "", "path to hearth.yaml (default $"+config.EnvPath+" or "+config.DefaultPath+")")
	flag.Parse()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("shutting down", "signal", sig)
		cancel()
	}()

	if err := run(ctx, config.Path(*configPath)); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfgPath string) error {
	cfg, err := config.LoadHearth(cfgPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logLevel := parseLogLevel(cfg.LogLevel)
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})))
	ai.EnableDebugLogging(logLevel == slog.LevelDebug)

	slog.Info("hearth starting", "config", cfgPath, "log_level", cfg.LogLevel)

	tables, err := policy.Load(cfg.PolicyFile)
	if err != nil {
		return fmt.Errorf("loading policy tables: %w", err)
	}

	store, err := openStore(ctx, cfg.Storage)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			slog.Warn("closing save store", "error", err)
		}
	}()

	opts := cfg.SimOptions()
	opts.Tables = tables

	var spawn []sim.Command
	opts.World, err = restoreSlot(ctx, cfg, store, tables)
	if err != nil {
		return err
	}
	if opts.World == nil {
		opts.World, spawn, err = buildWorld(cfg, tables)
		if err != nil {
			return err
		}
	}

	s := sim.New(opts)
	s.Apply(spawn...)

	gw := gateway.New(s, store, gateway.Options{
		FrameHz:       cfg.Server.FrameHz,
		SendQueueSize: cfg.Server.SendQueueSize,
		WriteTimeout:  cfg.Server.WriteTimeout,
	})
	saveEvents, unsubscribe := s.Subscribe(16)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := s.Run(gctx); err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("simulation: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		return gw.ListenAndServe(gctx, cfg.Server.Addr())
	})

	g.Go(func() error {
		defer unsubscribe()
		return saves.NewPump(store).Run(gctx, saveEvents)
	})

	g.Go(func() error {
		return saves.Autosave(gctx, s, cfg.Storage.Autosave())
	})

	if cfg.World.MapFile != "" && cfg.World.WatchMap {
		g.Go(func() error {
			return mapfile.NewWatcher(cfg.World.MapFile, s).Run(gctx)
		})
	}

	slog.Info("hearth running",
		"addr", cfg.Server.Addr(),
		"agents", opts.World.AgentCount(),
		"storage", cfg.Storage.Backend)

	if err := g.Wait(); err != nil {
		return err
	}
	slog.Info("hearth stopped")
	return nil
}

func openStore(ctx context.Context, cfg config.StorageConfig) (saves.Store, error) {
	switch cfg.Backend {
	case config.BackendPostgres:
		repo, err := db.Open(ctx, cfg.Database.DSN())
		if err != nil {
			return nil, fmt.Errorf("opening postgres save store: %w", err)
		}
		slog.Info("database connected")
		return repo, nil
	case config.BackendSQLite:
		st, err := local.Open(cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("opening sqlite save store: %w", err)
		}
		slog.Info("save file opened", "path", cfg.SQLitePath)
		return st, nil
	default:
		slog.Info("saves kept in memory only")
		return saves.NewMemoryStore(), nil
	}
}

// restoreSlot rebuilds the world from storage.load_slot. It returns nil
// when no slot is configured or the slot does not exist yet.
func restoreSlot(ctx context.Context, cfg config.Hearth, store saves.Store, tables policy.Tables) (*world.World, error) {
	slot := cfg.Storage.LoadSlot
	if slot == "" {
		return nil, nil
	}
	save, err := saves.Load(ctx, store, slot)
	if errors.Is(err, saves.ErrSlotNotFound) {
		slog.Warn("load slot not found, starting fresh", "slot", slot)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading slot %q: %w", slot, err)
	}
	w, err := save.Restore(snapshot.RestoreOptions{
		Tables:        tables,
		MaxExpansions: cfg.Simulation.MaxPathExpansions,
	})
	if err != nil {
		return nil, fmt.Errorf("restoring slot %q: %w", slot, err)
	}
	slog.Info("world restored", "slot", slot, "snapshot", save.SnapshotID, "agents", len(save.Agents))
	return w, nil
}

// buildWorld loads the configured map file, or generates a populated town.
func buildWorld(cfg config.Hearth, tables policy.Tables) (*world.World, []sim.Command, error) {
	if cfg.World.MapFile != "" {
		m, err := mapfile.Load(cfg.World.MapFile)
		if err != nil {
			return nil, nil, fmt.Errorf("loading map: %w", err)
		}
		w := world.New(world.Options{
			Layout:        m.ModelLayout(),
			Rooms:         m.ModelRooms(),
			Interactables: m.ModelInteractables(),
			Tables:        tables,
			MaxExpansions: cfg.Simulation.MaxPathExpansions,
			StartMinute:   cfg.Simulation.StartMinute,
		})
		slog.Info("map loaded", "path", cfg.World.MapFile, "interactables", len(m.Interactables))
		return w, nil, nil
	}

	town := worldgen.Generate(cfg.World.Config)
	w := town.NewWorld(tables, cfg.Simulation.MaxPathExpansions, cfg.Simulation.StartMinute)
	var cmds []sim.Command
	for _, h := range town.Population() {
		cmds = append(cmds, h.Command())
	}
	slog.Info("town generated",
		"seed", cfg.World.Seed,
		"homes", len(town.Homes),
		"workplaces", len(town.Workplaces))
	return w, cmds, nil
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
