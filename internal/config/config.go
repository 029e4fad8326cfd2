// Package config loads the daemon configuration from YAML.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/udisondev/hearth/internal/ai"
	"github.com/udisondev/hearth/internal/game/wellbeing"
	"github.com/udisondev/hearth/internal/model"
	"github.com/udisondev/hearth/internal/sim"
	"github.com/udisondev/hearth/internal/worldgen"
)

// EnvPath names the environment variable that overrides the config path.
const EnvPath = "HEARTH_CONFIG"

// DefaultPath is used when neither a flag nor EnvPath names a file.
const DefaultPath = "config/hearth.yaml"

// Storage backends.
const (
	BackendNone     = "none"
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"
)

// ErrInvalidConfig marks settings that cannot run.
var ErrInvalidConfig = errors.New("invalid config")

// Hearth holds all configuration for the daemon.
type Hearth struct {
	LogLevel   string           `yaml:"log_level"`
	Server     ServerConfig     `yaml:"server"`
	Simulation SimulationConfig `yaml:"simulation"`
	World      WorldConfig      `yaml:"world"`
	Brain      ai.Config        `yaml:"brain"`
	Storage    StorageConfig    `yaml:"storage"`
	PolicyFile string           `yaml:"policy_file"`

	// Decay overrides per-need decay rates (points per sim minute), keyed by need name.
	Decay map[string]float64 `yaml:"decay"`
}

// ServerConfig is the websocket gateway.
type ServerConfig struct {
	BindAddress   string        `yaml:"bind_address"`
	Port          int           `yaml:"port"`
	FrameHz       int           `yaml:"frame_hz"`
	SendQueueSize int           `yaml:"send_queue_size"` // per-client outbox capacity
	WriteTimeout  time.Duration `yaml:"write_timeout"`
}

// Addr returns host:port.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.BindAddress, s.Port)
}

// SimulationConfig drives the tick loop.
type SimulationConfig struct {
	TickRateHz            int     `yaml:"tick_rate_hz"`
	TickMinutes           float64 `yaml:"tick_minutes"`
	HotCapacity           int     `yaml:"hot_capacity"`
	SyncEveryTicks        int     `yaml:"sync_every_ticks"`
	Seed                  uint64  `yaml:"seed"`
	DecisionCooldownTicks int     `yaml:"decision_cooldown_ticks"`
	MaxPathExpansions     int     `yaml:"max_path_expansions"`
	StartMinute           float64 `yaml:"start_minute"`
}

// WorldConfig picks the map. An empty MapFile generates a town.
type WorldConfig struct {
	MapFile         string `yaml:"map_file"`
	WatchMap        bool   `yaml:"watch_map"`
	worldgen.Config `yaml:",inline"`
}

// StorageConfig selects where saves go.
type StorageConfig struct {
	Backend         string         `yaml:"backend"`
	Database        DatabaseConfig `yaml:"database"`
	SQLitePath      string         `yaml:"sqlite_path"`
	AutosaveMinutes float64        `yaml:"autosave_minutes"` // wall-clock minutes, 0 disables
	// LoadSlot is restored at startup when set.
	LoadSlot string `yaml:"load_slot"`
}

// Autosave returns the autosave interval.
func (s StorageConfig) Autosave() time.Duration {
	return time.Duration(s.AutosaveMinutes * float64(time.Minute))
}

// DatabaseConfig holds PostgreSQL connection parameters.
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	SSLMode  string `yaml:"sslmode"`
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

// DefaultHearth returns Hearth config with sensible defaults.
func DefaultHearth() Hearth {
	simDef := sim.DefaultOptions()
	return Hearth{
		LogLevel: "info",
		Server: ServerConfig{
			BindAddress:   "0.0.0.0",
			Port:          8080,
			FrameHz:       10,
			SendQueueSize: 64,
			WriteTimeout:  5 * time.Second,
		},
		Simulation: SimulationConfig{
			TickRateHz:     simDef.TickRate,
			TickMinutes:    simDef.TickMinutes,
			HotCapacity:    simDef.HotCapacity,
			SyncEveryTicks: simDef.SyncEvery,
			Seed:           simDef.Seed,
			StartMinute:    8 * 60,
		},
		World: WorldConfig{Config: worldgen.DefaultConfig()},
		Brain: ai.DefaultConfig(),
		Storage: StorageConfig{
			Backend:         BackendSQLite,
			SQLitePath:      "data/saves.db",
			AutosaveMinutes: 5,
			Database: DatabaseConfig{
				Host:     "127.0.0.1",
				Port:     5432,
				User:     "hearth",
				Password: "hearth",
				DBName:   "hearth",
				SSLMode:  "disable",
			},
		},
	}
}

// Path returns explicit when set, otherwise EnvPath, otherwise DefaultPath.
func Path(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if env := os.Getenv(EnvPath); env != "" {
		return env
	}
	return DefaultPath
}

// LoadHearth loads config from a YAML file.
// If the file doesn't exist, returns defaults.
func LoadHearth(path string) (Hearth, error) {
	cfg := DefaultHearth()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects settings the daemon cannot run with.
func (h Hearth) Validate() error {
	switch h.Storage.Backend {
	case BackendNone, BackendPostgres, BackendSQLite:
	default:
		return fmt.Errorf("%w: storage backend %q", ErrInvalidConfig, h.Storage.Backend)
	}
	if h.Storage.Backend == BackendSQLite && h.Storage.SQLitePath == "" {
		return fmt.Errorf("%w: sqlite_path is empty", ErrInvalidConfig)
	}
	if h.Server.FrameHz <= 0 {
		return fmt.Errorf("%w: frame_hz must be positive", ErrInvalidConfig)
	}
	if h.Simulation.TickRateHz <= 0 {
		return fmt.Errorf("%w: tick_rate_hz must be positive", ErrInvalidConfig)
	}
	for name := range h.Decay {
		if _, ok := model.ParseNeed(name); !ok {
			return fmt.Errorf("%w: unknown need %q in decay", ErrInvalidConfig, name)
		}
	}
	return nil
}

// Rates returns the default decay rates with Decay applied on top.
func (h Hearth) Rates() wellbeing.Rates {
	r := wellbeing.DefaultRates()
	for name, v := range h.Decay {
		if k, ok := model.ParseNeed(name); ok && v >= 0 {
			r[k] = v
		}
	}
	return r
}

// SimOptions maps the simulation, brain and decay sections onto sim.Options.
// World and Tables are left for the caller.
func (h Hearth) SimOptions() sim.Options {
	brain := h.Brain
	if h.Simulation.DecisionCooldownTicks > 0 {
		brain.CooldownTicks = h.Simulation.DecisionCooldownTicks
	}
	return sim.Options{
		TickRate:      h.Simulation.TickRateHz,
		TickMinutes:   h.Simulation.TickMinutes,
		HotCapacity:   h.Simulation.HotCapacity,
		SyncEvery:     h.Simulation.SyncEveryTicks,
		Seed:          h.Simulation.Seed,
		Brain:         brain,
		Rates:         h.Rates(),
		MaxExpansions: h.Simulation.MaxPathExpansions,
	}
}
