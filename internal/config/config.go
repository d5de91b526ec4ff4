package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/sortviz/internal/algo"
	"github.com/san-kum/sortviz/internal/array"
	"github.com/san-kum/sortviz/internal/pacer"
)

const (
	DefaultSize        = 30
	DefaultSpeed       = 25
	DefaultFoundHoldMs = 800
	DefaultDataDir     = "./runs"
	DefaultAddr        = ":8080"
	DefaultTheme       = "default"
)

var ErrInvalidConfig = errors.New("config: invalid")

type Config struct {
	Algorithm   string       `yaml:"algorithm"`
	Size        int          `yaml:"size"`
	Sorted      bool         `yaml:"sorted"`
	Target      *int         `yaml:"target,omitempty"`
	DelayMs     int          `yaml:"delay_ms,omitempty"`
	Speed       int          `yaml:"speed"`
	Layout      string       `yaml:"layout"`
	ValueMin    int          `yaml:"value_min"`
	ValueMax    int          `yaml:"value_max"`
	Seed        int64        `yaml:"seed"`
	Theme       string       `yaml:"theme"`
	FoundHoldMs int          `yaml:"found_hold_ms"`
	DataDir     string       `yaml:"data_dir"`
	Log         LogConfig    `yaml:"log"`
	Server      ServerConfig `yaml:"server"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type ServerConfig struct {
	Addr   string `yaml:"addr"`
	DBPath string `yaml:"db_path"`
}

func DefaultConfig() *Config {
	return &Config{
		Algorithm:   "bubble",
		Size:        DefaultSize,
		Speed:       DefaultSpeed,
		Layout:      array.Expanded.String(),
		ValueMin:    array.DefaultMin,
		ValueMax:    array.DefaultMax,
		Theme:       DefaultTheme,
		FoundHoldMs: DefaultFoundHoldMs,
		DataDir:     DefaultDataDir,
		Log:         LogConfig{Level: "info", Format: "text"},
		Server:      ServerConfig{Addr: DefaultAddr},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	out := *c
	if c.Target != nil {
		t := *c.Target
		out.Target = &t
	}
	return &out
}

func (c *Config) Validate() error {
	if _, err := algo.Parse(c.Algorithm); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	layout, err := array.ParseLayout(c.Layout)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if c.Size < 1 || c.Size > layout.MaxSize() {
		return fmt.Errorf("%w: size %d outside [1,%d] for %s layout", ErrInvalidConfig, c.Size, layout.MaxSize(), layout)
	}
	if !c.Range().Valid() {
		return fmt.Errorf("%w: value_min %d above value_max %d", ErrInvalidConfig, c.ValueMin, c.ValueMax)
	}
	if c.DelayMs < 0 {
		return fmt.Errorf("%w: delay_ms must not be negative", ErrInvalidConfig)
	}
	if c.Speed != 0 && (c.Speed < pacer.MinSpeed || c.Speed > pacer.MaxSpeed) {
		return fmt.Errorf("%w: speed %d outside [%d,%d]", ErrInvalidConfig, c.Speed, pacer.MinSpeed, pacer.MaxSpeed)
	}
	if c.FoundHoldMs < 0 {
		return fmt.Errorf("%w: found_hold_ms must not be negative", ErrInvalidConfig)
	}
	switch c.Log.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("%w: log format %q", ErrInvalidConfig, c.Log.Format)
	}
	return nil
}

// AlgorithmValue parses Algorithm.
func (c *Config) AlgorithmValue() (algo.Algorithm, error) {
	return algo.Parse(c.Algorithm)
}

func (c *Config) LayoutValue() array.Layout {
	l, err := array.ParseLayout(c.Layout)
	if err != nil {
		return array.Expanded
	}
	return l
}

func (c *Config) Range() array.Range {
	return array.Range{Min: c.ValueMin, Max: c.ValueMax}
}

// Delay resolves the step delay: an explicit delay_ms wins over speed.
func (c *Config) Delay() time.Duration {
	if c.DelayMs > 0 {
		return time.Duration(c.DelayMs) * time.Millisecond
	}
	speed := c.Speed
	if speed == 0 {
		speed = DefaultSpeed
	}
	return pacer.DelayForSpeed(speed)
}

func (c *Config) FoundHold() time.Duration {
	return time.Duration(c.FoundHoldMs) * time.Millisecond
}
