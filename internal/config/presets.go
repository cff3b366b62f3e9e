package config

import "sort"

// Presets are partial overrides applied on top of DefaultConfig.
var Presets = map[string]func(*Config){
	"desktop": func(c *Config) {},
	"mobile": func(c *Config) {
		c.Particles.Count = 3200
		c.Viewport.DesktopFPS = c.Viewport.ConstrainedFPS
		c.Viewport.DesktopDPRCap = c.Viewport.ConstrainedDPRCap
	},
	"calm": func(c *Config) {
		c.Particles.Count = 2400
		c.Motion.Speed = 0.12
		c.Motion.WanderAccel = 0.004
		c.Motion.WanderAccelZ = 0.002
		c.Shimmer.Amplitude = 0.8
		c.Shimmer.PulseSize = 0.2
		c.Viewport.DesktopFPS = c.Viewport.ReducedMotionFPS
	},
	"dense": func(c *Config) {
		c.Particles.Count = 12000
		c.Viewport.GapDensity = 6
		c.Viewport.DesktopGapMin = 2
	},
}

// GetPreset returns DefaultConfig with the named preset applied, or nil.
func GetPreset(name string) *Config {
	apply, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	apply(cfg)
	return cfg
}

// ApplyPreset mutates cfg in place and reports whether the preset exists.
func ApplyPreset(cfg *Config, name string) bool {
	apply, ok := Presets[name]
	if ok {
		apply(cfg)
	}
	return ok
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
