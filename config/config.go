// Package config provides configuration loading and access for the generator.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/earthnoise/noise"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all generator configuration parameters.
type Config struct {
	Noise     NoiseConfig     `yaml:"noise"`
	Fractal   FractalConfig   `yaml:"fractal"`
	Grid      GridConfig      `yaml:"grid"`
	Terrain   TerrainConfig   `yaml:"terrain"`
	Output    OutputConfig    `yaml:"output"`
	Preview   PreviewConfig   `yaml:"preview"`
	Server    ServerConfig    `yaml:"server"`
	Calibrate CalibrateConfig `yaml:"calibrate"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// NoiseConfig selects the single-octave basis.
type NoiseConfig struct {
	Basis     string `yaml:"basis"`      // perlin, opensimplex or gegl
	Seed      []int  `yaml:"seed"`       // Permutation of 0..255 (empty = canonical)
	SeedFile  string `yaml:"seed_file"`  // YAML file holding a seed list, overrides Seed
	BasisSeed int64  `yaml:"basis_seed"` // Seed for the opensimplex and gegl bases
}

// FractalConfig holds octave summation parameters.
type FractalConfig struct {
	Octaves     int     `yaml:"octaves"`
	Persistence float64 `yaml:"persistence"` // Octave i samples at persistence^i
	Gain        float64 `yaml:"gain"`        // Octave i is weighted by gain^i
	Compat      bool    `yaml:"compat"`      // Return 0 for octaves <= 0 instead of failing
}

// GridConfig maps output pixels to noise coordinates.
type GridConfig struct {
	Width      int     `yaml:"width"`
	Height     int     `yaml:"height"`
	Scale      float64 `yaml:"scale"` // Noise units per pixel
	OriginX    float64 `yaml:"origin_x"`
	OriginY    float64 `yaml:"origin_y"`
	OriginZ    float64 `yaml:"origin_z"`
	Projection string  `yaml:"projection"` // plane or sphere
}

// TerrainConfig holds classification thresholds on the normalised height.
type TerrainConfig struct {
	SeaLevel      float64 `yaml:"sea_level"`
	DeepLevel     float64 `yaml:"deep_level"`
	ShoreWidth    float64 `yaml:"shore_width"`
	MountainLevel float64 `yaml:"mountain_level"`
	SnowLevel     float64 `yaml:"snow_level"`
}

// OutputConfig holds output settings for the headless generator.
type OutputConfig struct {
	Dir        string `yaml:"dir"`
	Image      string `yaml:"image"` // png, tiff or none
	SamplesCSV bool   `yaml:"samples_csv"`
}

// PreviewConfig holds settings for the interactive preview.
type PreviewConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
	GridSize  int `yaml:"grid_size"`
}

// ServerConfig holds SSH preview server settings.
type ServerConfig struct {
	Addr    string `yaml:"addr"`
	HostKey string `yaml:"host_key"`
}

// CalibrateConfig holds targets for parameter calibration.
type CalibrateConfig struct {
	TargetStd  float64 `yaml:"target_std"`  // Desired std of the raw fractal height
	TargetLand float64 `yaml:"target_land"` // Desired land fraction after classification
	MaxEvals   int     `yaml:"max_evals"`
	GridSize   int     `yaml:"grid_size"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	Cells int   // Grid.Width * Grid.Height
	Seed  []int // Resolved permutation seed
}

// ErrInvalidConfig is wrapped by every Validate failure.
var ErrInvalidConfig = errors.New("invalid config")

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	// Start with embedded defaults
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	// Load user config if provided
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

	if err := cfg.Refresh(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Refresh recomputes derived values and validates. Call it after changing
// fields of a loaded config, e.g. from CLI flags.
func (c *Config) Refresh() error {
	if err := c.computeDerived(); err != nil {
		return err
	}
	return c.Validate()
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() error {
	c.Derived.Cells = c.Grid.Width * c.Grid.Height

	seed := c.Noise.Seed
	if c.Noise.SeedFile != "" {
		var err error
		if seed, err = readSeedFile(c.Noise.SeedFile); err != nil {
			return err
		}
	}
	if len(seed) == 0 {
		seed = noise.CanonicalSeed()
	}
	c.Derived.Seed = seed
	return nil
}

// readSeedFile loads a seed from either a bare YAML list or a {seed: [...]} map.
func readSeedFile(path string) ([]int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading seed file: %w", err)
	}
	var list []int
	if err := yaml.Unmarshal(data, &list); err == nil {
		return list, nil
	}
	var doc struct {
		Seed []int `yaml:"seed"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing seed file: %w", err)
	}
	return doc.Seed, nil
}

// Validate checks values the generator cannot work with. Fractal octaves are
// not checked here; the noise package owns that policy.
func (c *Config) Validate() error {
	switch {
	case c.Grid.Width <= 0 || c.Grid.Height <= 0:
		return fmt.Errorf("%w: grid %dx%d", ErrInvalidConfig, c.Grid.Width, c.Grid.Height)
	case c.Grid.Scale <= 0:
		return fmt.Errorf("%w: grid scale %v", ErrInvalidConfig, c.Grid.Scale)
	case c.Grid.Projection != "plane" && c.Grid.Projection != "sphere":
		return fmt.Errorf("%w: projection %q", ErrInvalidConfig, c.Grid.Projection)
	}
	switch c.Output.Image {
	case "png", "tiff", "none":
	default:
		return fmt.Errorf("%w: output image %q", ErrInvalidConfig, c.Output.Image)
	}
	switch c.Noise.Basis {
	case noise.BasisPerlin, noise.BasisOpenSimplex, noise.BasisGEGL:
	default:
		return fmt.Errorf("%w: %w: %q", ErrInvalidConfig, noise.ErrUnknownBasis, c.Noise.Basis)
	}
	if _, err := noise.BuildPermutationTable(c.Derived.Seed); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	t := c.Terrain
	if !(t.DeepLevel <= t.SeaLevel && t.SeaLevel <= t.MountainLevel && t.MountainLevel <= t.SnowLevel) {
		return fmt.Errorf("%w: terrain levels must satisfy deep <= sea <= mountain <= snow", ErrInvalidConfig)
	}
	return nil
}

// Table builds the permutation table for the resolved seed.
func (c *Config) Table() (*noise.PermutationTable, error) {
	t, err := noise.BuildPermutationTable(c.Derived.Seed)
	if err != nil {
		return nil, fmt.Errorf("building permutation table: %w", err)
	}
	return t, nil
}

// Source builds the configured single-octave basis.
func (c *Config) Source() (noise.Source, error) {
	table, err := c.Table()
	if err != nil {
		return nil, err
	}
	return noise.NewSource(c.Noise.Basis, table, c.Noise.BasisSeed)
}

// FractalParams returns the octave parameters as a noise.Fractal.
func (c *Config) FractalParams() noise.Fractal {
	return noise.Fractal{
		Octaves:     c.Fractal.Octaves,
		Persistence: c.Fractal.Persistence,
		Gain:        c.Fractal.Gain,
	}
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
