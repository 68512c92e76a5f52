// Package config loads glyphfield settings and parameter presets from
// YAML or TOML files.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/gogpu/glyphfield"
)

// DefaultFile is the file Load reads when no path is given.
const DefaultFile = ".glyphfield.yml"

// ErrUnknownPreset is returned by Preset for a name that is not defined.
var ErrUnknownPreset = errors.New("config: unknown preset")

// Config is the top-level glyphfield configuration.
type Config struct {
	// Backend names the registered backend. Empty selects the default.
	Backend string `yaml:"backend" toml:"backend"`

	// Font is a font reference understood by fontsrc.Open.
	Font string `yaml:"font" toml:"font"`

	// CacheSize is the per-session result cache size. 0 disables caching.
	CacheSize int `yaml:"cache_size" toml:"cache_size"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level" toml:"log_level"`

	// Workers is the number of parallel sessions used for batches.
	Workers int `yaml:"workers" toml:"workers"`

	// Presets are named parameter overlays.
	Presets map[string]Preset `yaml:"presets" toml:"presets"`
}

// Preset overlays the keys it sets onto glyphfield.DefaultParams.
// Unset keys keep their default values.
type Preset struct {
	Mode            *glyphfield.Mode            `yaml:"mode,omitempty" toml:"mode,omitempty"`
	PxScale         *float64                    `yaml:"px_scale,omitempty" toml:"px_scale,omitempty"`
	PxRange         *float64                    `yaml:"px_range,omitempty" toml:"px_range,omitempty"`
	PxPadding       *float64                    `yaml:"px_padding,omitempty" toml:"px_padding,omitempty"`
	Seed            *uint64                     `yaml:"seed,omitempty" toml:"seed,omitempty"`
	ErrorCorrection *glyphfield.ErrorCorrection `yaml:"error_correction,omitempty" toml:"error_correction,omitempty"`
	Overlap         *bool                       `yaml:"overlap,omitempty" toml:"overlap,omitempty"`
	Coloring        *glyphfield.Coloring        `yaml:"coloring,omitempty" toml:"coloring,omitempty"`
	AngleThreshold  *float64                    `yaml:"angle_threshold,omitempty" toml:"angle_threshold,omitempty"`
}

// Apply returns base with every key set in p replaced.
func (p Preset) Apply(base glyphfield.Params) glyphfield.Params {
	if p.Mode != nil {
		base.Mode = *p.Mode
	}
	if p.PxScale != nil {
		base.PxScale = *p.PxScale
	}
	if p.PxRange != nil {
		base.PxRange = *p.PxRange
	}
	if p.PxPadding != nil {
		base.PxPadding = *p.PxPadding
	}
	if p.Seed != nil {
		base.Seed = *p.Seed
	}
	if p.ErrorCorrection != nil {
		base.ErrorCorrection = *p.ErrorCorrection
	}
	if p.Overlap != nil {
		base.Overlap = *p.Overlap
	}
	if p.Coloring != nil {
		base.Coloring = *p.Coloring
	}
	if p.AngleThreshold != nil {
		base.AngleThreshold = *p.AngleThreshold
	}
	return base
}

// Load reads configuration from a YAML or TOML file, chosen by the
// .toml extension. If path is empty, it tries DefaultFile.
// Returns defaults if the file doesn't exist.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultFile
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Defaults(), nil
		}
		return nil, fmt.Errorf("config: %w", err)
	}

	format := "yaml"
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		format = "toml"
	}
	cfg, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes configuration data in the given format ("yaml" or "toml")
// over the defaults.
func Parse(data []byte, format string) (*Config, error) {
	cfg := Defaults()
	var err error
	switch format {
	case "yaml", "yml":
		err = yaml.Unmarshal(data, cfg)
	case "toml":
		err = toml.Unmarshal(data, cfg)
	default:
		return nil, fmt.Errorf("config: unsupported format %q", format)
	}
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// Defaults returns the configuration used when no file exists.
func Defaults() *Config {
	return &Config{
		Font:     "builtin:goregular",
		LogLevel: "info",
		Workers:  4,
		Presets:  map[string]Preset{},
	}
}

// Preset returns the validated parameters of the named preset.
func (c *Config) Preset(name string) (glyphfield.Params, error) {
	p, ok := c.Presets[name]
	if !ok {
		return glyphfield.Params{}, fmt.Errorf("%w: %q", ErrUnknownPreset, name)
	}
	params := p.Apply(glyphfield.DefaultParams())
	if err := params.Validate(); err != nil {
		return glyphfield.Params{}, fmt.Errorf("config: preset %q: %w", name, err)
	}
	return params, nil
}

// PresetNames returns the defined preset names in sorted order.
func (c *Config) PresetNames() []string {
	names := make([]string, 0, len(c.Presets))
	for name := range c.Presets {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Level parses LogLevel. An empty level is info.
func (c *Config) Level() (slog.Level, error) {
	if c.LogLevel == "" {
		return slog.LevelInfo, nil
	}
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("config: log_level: %w", err)
	}
	return l, nil
}
