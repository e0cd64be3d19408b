// Package config loads process configuration from defaults, an optional
// YAML file, LOTPLAN_* environment variables and command-line flags, in
// increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/go-logr/logr"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/katalvlaran/lotplan/logging"
	"github.com/katalvlaran/lotplan/planning"
	"github.com/katalvlaran/lotplan/solver"
)

const (
	// EnvPrefix prefixes every environment override, as in LOTPLAN_LOG_LEVEL.
	EnvPrefix = "LOTPLAN"

	DefaultLogLevel = logging.LevelInfo
	DefaultAddr     = ":8080"
)

// Keys.
const (
	KeyLogLevel        = "log.level"
	KeyLogDevelopment  = "log.development"
	KeySolverTolerance = "solver.tolerance"
	KeySolverInteger   = "solver.integer"
	KeySolverMaxNodes  = "solver.max_nodes"
	KeySolverTimeLimit = "solver.time_limit"
	KeyOutputDecimals  = "output.decimals"
	KeyServerAddr      = "server.addr"
)

// ErrInvalid is matched by every validation error returned from Load and
// Validate.
var ErrInvalid = errors.New("config: invalid configuration")

// Config is the merged process configuration.
type Config struct {
	Log    LogConfig    `mapstructure:"log"`
	Solver SolverConfig `mapstructure:"solver"`
	Output OutputConfig `mapstructure:"output"`
	Server ServerConfig `mapstructure:"server"`
}

// LogConfig selects the logr sink built by logging.New.
type LogConfig struct {
	Level       string `mapstructure:"level"`
	Development bool   `mapstructure:"development"`
}

// SolverConfig tunes the simplex and branch-and-bound search.
type SolverConfig struct {
	Tolerance float64       `mapstructure:"tolerance"`
	Integer   bool          `mapstructure:"integer"`
	MaxNodes  int           `mapstructure:"max_nodes"`
	TimeLimit time.Duration `mapstructure:"time_limit"` // between nodes, 0 = none
}

// OutputConfig controls how solutions are written.
type OutputConfig struct {
	Decimals int `mapstructure:"decimals"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Log:    LogConfig{Level: DefaultLogLevel},
		Solver: SolverConfig{Tolerance: solver.DefaultTolerance, MaxNodes: solver.DefaultMaxNodes},
		Output: OutputConfig{Decimals: planning.DefaultDecimals},
		Server: ServerConfig{Addr: DefaultAddr},
	}
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault(KeyLogLevel, d.Log.Level)
	v.SetDefault(KeyLogDevelopment, d.Log.Development)
	v.SetDefault(KeySolverTolerance, d.Solver.Tolerance)
	v.SetDefault(KeySolverInteger, d.Solver.Integer)
	v.SetDefault(KeySolverMaxNodes, d.Solver.MaxNodes)
	v.SetDefault(KeySolverTimeLimit, d.Solver.TimeLimit)
	v.SetDefault(KeyOutputDecimals, d.Output.Decimals)
	v.SetDefault(KeyServerAddr, d.Server.Addr)
}

// flagKeys maps flag names registered by RegisterFlags to config keys.
var flagKeys = map[string]string{
	"log-level":       KeyLogLevel,
	"log-development": KeyLogDevelopment,
	"tolerance":       KeySolverTolerance,
	"integer":         KeySolverInteger,
	"max-nodes":       KeySolverMaxNodes,
	"time-limit":      KeySolverTimeLimit,
	"decimals":        KeyOutputDecimals,
	"addr":            KeyServerAddr,
}

// RegisterFlags adds one flag per key to fs. Only flags the user sets
// override file and environment values.
func RegisterFlags(fs *pflag.FlagSet) {
	d := Default()
	fs.String("log-level", d.Log.Level, "log level: trace, debug, info, warn, error")
	fs.Bool("log-development", d.Log.Development, "human-readable logs with caller and stack traces")
	fs.Float64("tolerance", d.Solver.Tolerance, "simplex tolerance")
	fs.Bool("integer", d.Solver.Integer, "require integer production and storage quantities")
	fs.Int("max-nodes", d.Solver.MaxNodes, "branch-and-bound node limit, 0 for unlimited")
	fs.Duration("time-limit", d.Solver.TimeLimit, "abort a solve after this long, checked before the LP and between branch-and-bound nodes but not inside one simplex call; 0 for no limit")
	fs.Int("decimals", d.Output.Decimals, "decimals kept in output costs")
	fs.String("addr", d.Server.Addr, "HTTP listen address")
}

// Load resolves the configuration. path may be empty; fs may be nil.
func Load(path string, fs *pflag.FlagSet) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	if fs != nil {
		for name, key := range flagKeys {
			f := fs.Lookup(name)
			if f == nil || !f.Changed {
				continue
			}
			if err := v.BindPFlag(key, f); err != nil {
				return Config{}, fmt.Errorf("config: bind flag %s: %w", name, err)
			}
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("config: decode: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}

	return c, nil
}

// Validate reports every out-of-range value at once.
func (c Config) Validate() error {
	var errs []error
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("%w: %s: %v", ErrInvalid, KeyLogLevel, err))
	}
	if t := c.Solver.Tolerance; t < 0 || math.IsNaN(t) || math.IsInf(t, 0) {
		errs = append(errs, fmt.Errorf("%w: %s must be finite, non-negative", ErrInvalid, KeySolverTolerance))
	}
	if c.Solver.MaxNodes < 0 {
		errs = append(errs, fmt.Errorf("%w: %s must be non-negative", ErrInvalid, KeySolverMaxNodes))
	}
	if c.Solver.TimeLimit < 0 {
		errs = append(errs, fmt.Errorf("%w: %s must be non-negative", ErrInvalid, KeySolverTimeLimit))
	}
	if c.Output.Decimals < 0 || c.Output.Decimals > 9 {
		errs = append(errs, fmt.Errorf("%w: %s must be in [0, 9]", ErrInvalid, KeyOutputDecimals))
	}
	if c.Server.Addr == "" {
		errs = append(errs, fmt.Errorf("%w: %s must not be empty", ErrInvalid, KeyServerAddr))
	}

	return errors.Join(errs...)
}

// SolverOptions turns the solver section into solver options.
func (c Config) SolverOptions() []solver.Option {
	return []solver.Option{
		solver.WithTolerance(c.Solver.Tolerance),
		solver.WithMaxNodes(c.Solver.MaxNodes),
	}
}

// PlanningOptions turns the configuration into planning options on a
// Simplex built from SolverOptions. Callers add logger and recorder.
func (c Config) PlanningOptions() []planning.Option {
	return []planning.Option{
		planning.WithSolver(solver.NewSimplex(c.SolverOptions()...)),
		planning.WithInteger(c.Solver.Integer),
		planning.WithDecimals(c.Output.Decimals),
	}
}

// Logger builds the logger described by the log section.
func (c Config) Logger() (logr.Logger, error) {
	return logging.New(c.Log.Level, c.Log.Development)
}
