// Package config holds the library's tunable parameters and the yaml
// configuration loader. The solver packages consume plain structs;
// viper is confined to this package.
package config

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/khryptorgraphics/flowsched/pkg/cp"
	"github.com/khryptorgraphics/flowsched/pkg/dispatch"
	"github.com/khryptorgraphics/flowsched/pkg/ga"
)

// Config is the complete configuration for a scheduling run.
type Config struct {
	Scheduler SchedulerConfig `yaml:"scheduler" mapstructure:"scheduler"`
	GA        GAConfig        `yaml:"ga" mapstructure:"ga"`
	CP        CPConfig        `yaml:"cp" mapstructure:"cp"`
	Store     StoreConfig     `yaml:"store" mapstructure:"store"`
	Logging   LoggingConfig   `yaml:"logging" mapstructure:"logging"`
}

// SchedulerConfig holds greedy scheduler configuration.
type SchedulerConfig struct {
	// StartTimeMs is the schedule start time.
	StartTimeMs int64 `yaml:"start_time_ms" mapstructure:"start_time_ms"`
	// Rule names the primary dispatching rule; empty means static
	// priority ordering.
	Rule string `yaml:"rule" mapstructure:"rule"`
	// TieBreaker names an optional tie-breaking rule.
	TieBreaker string `yaml:"tie_breaker" mapstructure:"tie_breaker"`
	// AtcK is the ATC look-ahead parameter.
	AtcK float64 `yaml:"atc_k" mapstructure:"atc_k"`
}

// GAConfig holds genetic algorithm configuration.
type GAConfig struct {
	PopulationSize int     `yaml:"population_size" mapstructure:"population_size"`
	MaxGenerations int     `yaml:"max_generations" mapstructure:"max_generations"`
	CrossoverRate  float64 `yaml:"crossover_rate" mapstructure:"crossover_rate"`
	MutationRate   float64 `yaml:"mutation_rate" mapstructure:"mutation_rate"`
	ElitismCount   int     `yaml:"elitism_count" mapstructure:"elitism_count"`
	TournamentSize int     `yaml:"tournament_size" mapstructure:"tournament_size"`
	Seed           int64   `yaml:"seed" mapstructure:"seed"`
	Parallel       bool    `yaml:"parallel" mapstructure:"parallel"`
	Workers        int     `yaml:"workers" mapstructure:"workers"`
	// Crossover names the OSV crossover strategy (pox, lox, jox).
	Crossover string `yaml:"crossover" mapstructure:"crossover"`
	// Mutation names the OSV mutation strategy (swap, insert, invert;
	// empty means the default swap/insert mix).
	Mutation string `yaml:"mutation" mapstructure:"mutation"`
}

// CPConfig holds CP builder and solver configuration.
type CPConfig struct {
	// HorizonMs is the planning horizon.
	HorizonMs int64 `yaml:"horizon_ms" mapstructure:"horizon_ms"`
	// TimeLimitMs caps solver runtime.
	TimeLimitMs int64 `yaml:"time_limit_ms" mapstructure:"time_limit_ms"`
}

// StoreConfig holds schedule store configuration.
type StoreConfig struct {
	// Path is the leveldb directory.
	Path string `yaml:"path" mapstructure:"path"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	// Level is the zerolog level name.
	Level string `yaml:"level" mapstructure:"level"`
	// Format is "json" or "console".
	Format string `yaml:"format" mapstructure:"format"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	runner := ga.DefaultConfig()
	return &Config{
		Scheduler: SchedulerConfig{AtcK: 2.0},
		GA: GAConfig{
			PopulationSize: runner.PopulationSize,
			MaxGenerations: runner.MaxGenerations,
			CrossoverRate:  runner.CrossoverRate,
			MutationRate:   runner.MutationRate,
			ElitismCount:   runner.ElitismCount,
			TournamentSize: runner.TournamentSize,
			Crossover:      string(ga.CrossoverPOX),
		},
		CP:      CPConfig{HorizonMs: 86_400_000},
		Store:   StoreConfig{Path: "data/schedules"},
		Logging: LoggingConfig{Level: "info", Format: "json"},
	}
}

// Load reads a yaml configuration file, layered over the defaults.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg := DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for out-of-range values.
func (c *Config) Validate() error {
	if _, err := c.Scheduler.BuildEngine(); err != nil {
		return err
	}
	if c.GA.CrossoverRate < 0 || c.GA.CrossoverRate > 1 {
		return fmt.Errorf("ga crossover_rate %v out of range [0,1]", c.GA.CrossoverRate)
	}
	if c.GA.MutationRate < 0 || c.GA.MutationRate > 1 {
		return fmt.Errorf("ga mutation_rate %v out of range [0,1]", c.GA.MutationRate)
	}
	switch ga.CrossoverType(c.GA.Crossover) {
	case "", ga.CrossoverPOX, ga.CrossoverLOX, ga.CrossoverJOX:
	default:
		return fmt.Errorf("unknown ga crossover %q", c.GA.Crossover)
	}
	switch ga.MutationType(c.GA.Mutation) {
	case "", ga.MutationSwap, ga.MutationInsert, ga.MutationInvert:
	default:
		return fmt.Errorf("unknown ga mutation %q", c.GA.Mutation)
	}
	if c.CP.HorizonMs <= 0 {
		return fmt.Errorf("cp horizon_ms must be positive, got %d", c.CP.HorizonMs)
	}
	switch c.Logging.Format {
	case "", "json", "console":
	default:
		return fmt.Errorf("unknown logging format %q", c.Logging.Format)
	}
	return nil
}

// ruleByName maps configuration rule names to dispatching rules.
func (c *SchedulerConfig) ruleByName(name string) (dispatch.Rule, error) {
	switch name {
	case "spt":
		return dispatch.SPT{}, nil
	case "lpt":
		return dispatch.LPT{}, nil
	case "lwkr":
		return dispatch.LWKR{}, nil
	case "mwkr":
		return dispatch.MWKR{}, nil
	case "wspt":
		return dispatch.WSPT{}, nil
	case "edd":
		return dispatch.EDD{}, nil
	case "mst":
		return dispatch.MST{}, nil
	case "cr":
		return dispatch.CR{}, nil
	case "sro":
		return dispatch.SRO{}, nil
	case "atc":
		return dispatch.ATC{K: c.AtcK}, nil
	case "fifo":
		return dispatch.FIFO{}, nil
	case "winq":
		return dispatch.WINQ{}, nil
	case "lpul":
		return dispatch.LPUL{}, nil
	case "priority":
		return dispatch.PriorityRule{}, nil
	}
	return nil, fmt.Errorf("unknown dispatching rule %q", name)
}

// BuildEngine constructs a rule engine from the configured rule names.
// A nil engine (with nil error) means static priority ordering.
func (c *SchedulerConfig) BuildEngine() (*dispatch.Engine, error) {
	if c.Rule == "" {
		return nil, nil
	}

	primary, err := c.ruleByName(c.Rule)
	if err != nil {
		return nil, err
	}
	engine := dispatch.NewEngine().WithRule(primary)

	if c.TieBreaker != "" {
		tieBreaker, err := c.ruleByName(c.TieBreaker)
		if err != nil {
			return nil, err
		}
		engine.WithTieBreaker(tieBreaker)
	}
	return engine, nil
}

// RunnerConfig converts to the GA runner's configuration.
func (c *GAConfig) RunnerConfig() ga.Config {
	return ga.Config{
		PopulationSize: c.PopulationSize,
		MaxGenerations: c.MaxGenerations,
		CrossoverRate:  c.CrossoverRate,
		MutationRate:   c.MutationRate,
		ElitismCount:   c.ElitismCount,
		TournamentSize: c.TournamentSize,
		Seed:           c.Seed,
		Parallel:       c.Parallel,
		Workers:        c.Workers,
	}
}

// Operators converts to the GA operator configuration.
func (c *GAConfig) Operators() ga.Operators {
	return ga.Operators{
		Crossover: ga.CrossoverType(c.Crossover),
		Mutation:  ga.MutationType(c.Mutation),
	}
}

// SolverConfig converts to the cp package's solver configuration.
func (c *CPConfig) SolverConfig() cp.SolverConfig {
	return cp.SolverConfig{TimeLimitMs: c.TimeLimitMs}
}
