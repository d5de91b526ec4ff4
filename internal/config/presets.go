package config

import "sort"

func preset(apply func(c *Config)) *Config {
	c := DefaultConfig()
	apply(c)
	return c
}

var Presets = map[string]*Config{
	"demo": preset(func(c *Config) {
		c.Algorithm, c.Size, c.Speed = "quick", 30, 25
	}),
	"fast": preset(func(c *Config) {
		c.Algorithm, c.Size, c.Speed = "merge", 60, 50
	}),
	"slow": preset(func(c *Config) {
		c.Algorithm, c.Size, c.Speed = "bubble", 12, 1
	}),
	"compact": preset(func(c *Config) {
		c.Algorithm, c.Size, c.Layout, c.Speed = "insertion", 20, "compact", 30
	}),
	"search-sorted": preset(func(c *Config) {
		c.Algorithm, c.Size, c.Sorted, c.Speed = "binary", 35, true, 20
	}),
	"stress": preset(func(c *Config) {
		c.Algorithm, c.Size, c.DelayMs, c.FoundHoldMs = "quick", 60, 1, 0
	}),
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
