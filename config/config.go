// Package config provides configuration loading for the simulation.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Screen       ScreenConfig       `yaml:"screen"`
	World        WorldConfig        `yaml:"world"`
	Food         FoodConfig         `yaml:"food"`
	Organism     OrganismConfig     `yaml:"organism"`
	Reproduction ReproductionConfig `yaml:"reproduction"`
	Mutation     MutationConfig     `yaml:"mutation"`
	Neural       NeuralConfig       `yaml:"neural"`
	Sensors      SensorsConfig      `yaml:"sensors"`
	Population   PopulationConfig   `yaml:"population"`
	Simulation   SimulationConfig   `yaml:"simulation"`
	Telemetry    TelemetryConfig    `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings. Only the renderer reads these.
type ScreenConfig struct {
	CellSize  int `yaml:"cell_size"` // Pixels per grid cell
	TargetFPS int `yaml:"target_fps"`
	MenuWidth int `yaml:"menu_width"` // Width of the statistics panel right of the grid
}

// WorldConfig holds grid dimensions in cells.
type WorldConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// FoodConfig holds food production and consumption parameters.
type FoodConfig struct {
	ProducerRate       float64 `yaml:"producer_rate"`       // Chance per tick a Producer cell drops food
	Benefit            float64 `yaml:"benefit"`             // Satiety gained per meal
	DropProbability    float64 `yaml:"drop_probability"`    // Chance each cell of a corpse becomes food
	ScatterProbability float64 `yaml:"scatter_probability"` // Chance each world cell holds food at (re)seed
}

// OrganismConfig holds per-organism metabolism parameters.
type OrganismConfig struct {
	HungerRate         float64 `yaml:"hunger_rate"`         // Satiety lost per cell per tick
	InitialSatiety     float64 `yaml:"initial_satiety"`     // Satiety at birth
	LifetimeMultiplier int     `yaml:"lifetime_multiplier"` // Lifetime ticks per cell
}

// ReproductionConfig holds reproduction parameters.
type ReproductionConfig struct {
	CostMultiplier float64 `yaml:"cost_multiplier"` // Energy needed per cell before reproducing
	SpawnJitter    int     `yaml:"spawn_jitter"`    // Extra random gap between parent and child
}

// MutationConfig holds mutation parameters for anatomy and brain weights.
type MutationConfig struct {
	Rate        float64 `yaml:"rate"`         // Chance a child mutates at all
	WeightRange float64 `yaml:"weight_range"` // Weight perturbation is uniform in [-range, range)
}

// NeuralConfig holds brain network parameters.
type NeuralConfig struct {
	HiddenWidth int     `yaml:"hidden_width"` // Neurons per hidden layer
	InitRange   float64 `yaml:"init_range"`   // Fresh weights are uniform in [-range, range)
}

// SensorsConfig holds eye parameters.
type SensorsConfig struct {
	EyeDistance int `yaml:"eye_distance"` // Maximum cells an eye ray travels
}

// PopulationConfig holds population management parameters.
type PopulationConfig struct {
	ReseedCount int `yaml:"reseed_count"` // Default organisms spawned on (re)seed
	SpawnMargin int `yaml:"spawn_margin"` // Distance from the edge for seed organisms
}

// SimulationConfig holds run-wide settings.
type SimulationConfig struct {
	Seed int64 `yaml:"seed"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow int `yaml:"stats_window"` // Ticks per stats window
	PerfWindow  int `yaml:"perf_window"`  // Ticks averaged by the perf collector
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	Cells        int   // World.Width * World.Height
	GridPixelsW  int32 // Grid width in pixels
	GridPixelsH  int32 // Grid height in pixels
	WindowWidth  int32 // Grid plus menu panel
	WindowHeight int32
}

// Default returns the embedded default configuration.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults are invalid: %v", err))
	}
	return cfg
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.computeDerived()

	return cfg, nil
}

// Validate rejects configurations the simulation cannot run with.
func (c *Config) Validate() error {
	switch {
	case c.World.Width < 3 || c.World.Height < 3:
		return fmt.Errorf("world must be at least 3x3, got %dx%d", c.World.Width, c.World.Height)
	case c.Neural.HiddenWidth < 1:
		return fmt.Errorf("neural.hidden_width must be positive, got %d", c.Neural.HiddenWidth)
	case c.Organism.LifetimeMultiplier < 1:
		return fmt.Errorf("organism.lifetime_multiplier must be positive, got %d", c.Organism.LifetimeMultiplier)
	case c.Population.ReseedCount < 1:
		return fmt.Errorf("population.reseed_count must be positive, got %d", c.Population.ReseedCount)
	case c.Sensors.EyeDistance < 0:
		return fmt.Errorf("sensors.eye_distance must not be negative, got %d", c.Sensors.EyeDistance)
	case c.Reproduction.SpawnJitter < 0:
		return fmt.Errorf("reproduction.spawn_jitter must not be negative, got %d", c.Reproduction.SpawnJitter)
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	// Keep seed organisms inside the world on small grids
	maxMargin := (min(c.World.Width, c.World.Height) - 1) / 2
	if c.Population.SpawnMargin > maxMargin {
		c.Population.SpawnMargin = maxMargin
	}
	if c.Population.SpawnMargin < 1 {
		c.Population.SpawnMargin = 1
	}

	c.Derived.Cells = c.World.Width * c.World.Height
	c.Derived.GridPixelsW = int32(c.World.Width * c.Screen.CellSize)
	c.Derived.GridPixelsH = int32(c.World.Height * c.Screen.CellSize)
	c.Derived.WindowWidth = c.Derived.GridPixelsW + int32(c.Screen.MenuWidth)
	c.Derived.WindowHeight = c.Derived.GridPixelsH
}

// Clone returns an independent copy of the configuration.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// Recompute refreshes derived values after fields were changed in code.
func (c *Config) Recompute() {
	c.computeDerived()
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
