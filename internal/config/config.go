package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultParticleCount  = 6000
	DefaultBounds         = 180.0
	DefaultSpeed          = 0.25
	DefaultArriveStrength = 0.08
	DefaultShimmerSecs    = 1.2
	DefaultLongPressMs    = 350
	DefaultMoveTolerance  = 12.0
	DefaultReleaseGraceMs = 500
	DefaultDebounceMs     = 150
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("config: invalid value")

type Config struct {
	Seed      int64           `yaml:"seed"`
	Particles ParticlesConfig `yaml:"particles"`
	Motion    MotionConfig    `yaml:"motion"`
	Shimmer   ShimmerConfig   `yaml:"shimmer"`
	Gesture   GestureConfig   `yaml:"gesture"`
	Viewport  ViewportConfig  `yaml:"viewport"`
	Text      TextConfig      `yaml:"text"`
	Render    RenderConfig    `yaml:"render"`
}

type ParticlesConfig struct {
	Count              int     `yaml:"count"`
	MobileScale        float64 `yaml:"mobile_scale"`
	ReducedMotionScale float64 `yaml:"reduced_motion_scale"`
	DepthJitter        float64 `yaml:"depth_jitter"`
}

type MotionConfig struct {
	Bounds         float64 `yaml:"bounds"`
	VerticalScale  float64 `yaml:"vertical_scale"`
	Speed          float64 `yaml:"speed"`
	WanderAccel    float64 `yaml:"wander_accel"`
	WanderAccelZ   float64 `yaml:"wander_accel_z"`
	Restitution    float64 `yaml:"restitution"`
	ArriveStrength float64 `yaml:"arrive_strength"`
	FormJitter     float64 `yaml:"form_jitter"`
	FormJitterZ    float64 `yaml:"form_jitter_z"`
}

type ShimmerConfig struct {
	Secs      float64 `yaml:"secs"`
	Amplitude float64 `yaml:"amplitude"`
	PulseHz   float64 `yaml:"pulse_hz"`
	PulseSize float64 `yaml:"pulse_size"`
	PulseFade float64 `yaml:"pulse_fade"`
}

type GestureConfig struct {
	LongPressMs     int     `yaml:"long_press_ms"`
	MoveTolerancePx float64 `yaml:"move_tolerance_px"`
	ReleaseGraceMs  int     `yaml:"release_grace_ms"`
}

type ViewportConfig struct {
	DebounceMs        int     `yaml:"debounce_ms"`
	MinElementPx      float64 `yaml:"min_element_px"`
	ConstrainedWidth  float64 `yaml:"constrained_width"`
	DesktopDPRCap     float64 `yaml:"desktop_dpr_cap"`
	ConstrainedDPRCap float64 `yaml:"constrained_dpr_cap"`
	DesktopFPS        int     `yaml:"desktop_fps"`
	ConstrainedFPS    int     `yaml:"constrained_fps"`
	ReducedMotionFPS  int     `yaml:"reduced_motion_fps"`
	GapDensity        float64 `yaml:"gap_density"`
	DesktopGapMin     float64 `yaml:"desktop_gap_min"`
	DesktopGapMax     float64 `yaml:"desktop_gap_max"`
	ConstrainedGapMin float64 `yaml:"constrained_gap_min"`
	ConstrainedGapMax float64 `yaml:"constrained_gap_max"`
	ReducedMotionGap  float64 `yaml:"reduced_motion_gap"`
	BoxWidthFrac      float64 `yaml:"box_width_frac"`
	BoxHeightFrac     float64 `yaml:"box_height_frac"`
	MinBoxHeight      float64 `yaml:"min_box_height"`
}

type TextConfig struct {
	MaxRasterScale float64 `yaml:"max_raster_scale"`
	MinFontPx      float64 `yaml:"min_font_px"`
	MaxFontPx      float64 `yaml:"max_font_px"`
	FitSteps       int     `yaml:"fit_steps"`
	LineHeight     float64 `yaml:"line_height"`
	AlphaThreshold uint8   `yaml:"alpha_threshold"`
	WorldPerPx     float64 `yaml:"world_per_px"`
}

type RenderConfig struct {
	PointSize     float64 `yaml:"point_size"`
	Opacity       float64 `yaml:"opacity"`
	BaseTint      string  `yaml:"base_tint"`
	FormingTint   string  `yaml:"forming_tint"`
	PromotedTint  string  `yaml:"promoted_tint"`
	FogColor      string  `yaml:"fog_color"`
	FogDensity    float64 `yaml:"fog_density"`
	CameraFOV     float64 `yaml:"camera_fov"`
	CameraZ       float64 `yaml:"camera_z"`
	CameraNear    float64 `yaml:"camera_near"`
	CameraFar     float64 `yaml:"camera_far"`
	IntroPhrase   string  `yaml:"intro_phrase"`
	PromotePhrase string  `yaml:"promote_phrase"`
}

func DefaultConfig() *Config {
	return &Config{
		Particles: ParticlesConfig{
			Count:              DefaultParticleCount,
			MobileScale:        0.55,
			ReducedMotionScale: 0.6,
			DepthJitter:        6,
		},
		Motion: MotionConfig{
			Bounds:         DefaultBounds,
			VerticalScale:  0.6,
			Speed:          DefaultSpeed,
			WanderAccel:    0.01,
			WanderAccelZ:   0.005,
			Restitution:    -0.98,
			ArriveStrength: DefaultArriveStrength,
			FormJitter:     0.06,
			FormJitterZ:    0.02,
		},
		Shimmer: ShimmerConfig{
			Secs:      DefaultShimmerSecs,
			Amplitude: 2.4,
			PulseHz:   2.5,
			PulseSize: 0.6,
			PulseFade: 0.25,
		},
		Gesture: GestureConfig{
			LongPressMs:     DefaultLongPressMs,
			MoveTolerancePx: DefaultMoveTolerance,
			ReleaseGraceMs:  DefaultReleaseGraceMs,
		},
		Viewport: ViewportConfig{
			DebounceMs:        DefaultDebounceMs,
			MinElementPx:      2,
			ConstrainedWidth:  768,
			DesktopDPRCap:     2,
			ConstrainedDPRCap: 1.5,
			DesktopFPS:        60,
			ConstrainedFPS:    45,
			ReducedMotionFPS:  30,
			GapDensity:        4,
			DesktopGapMin:     3,
			DesktopGapMax:     8,
			ConstrainedGapMin: 4,
			ConstrainedGapMax: 10,
			ReducedMotionGap:  1,
			BoxWidthFrac:      0.9,
			BoxHeightFrac:     0.45,
			MinBoxHeight:      260,
		},
		Text: TextConfig{
			MaxRasterScale: 3,
			MinFontPx:      8,
			MaxFontPx:      240,
			FitSteps:       14,
			LineHeight:     1.10,
			AlphaThreshold: 128,
			WorldPerPx:     0.5,
		},
		Render: RenderConfig{
			PointSize:     1.8,
			Opacity:       0.95,
			BaseTint:      "#e6e6f0",
			FormingTint:   "#8fe3ff",
			PromotedTint:  "#ff6fd8",
			FogColor:      "#0b0b10",
			FogDensity:    0.002,
			CameraFOV:     55,
			CameraZ:       420,
			CameraNear:    1,
			CameraFar:     2000,
			IntroPhrase:   "intro",
			PromotePhrase: "promoted",
		},
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

// Validate reports the first out-of-range value.
func (c *Config) Validate() error {
	switch {
	case c.Particles.Count <= 0:
		return fmt.Errorf("%w: particle count must be positive, got %d", ErrInvalidConfig, c.Particles.Count)
	case c.Motion.Bounds <= 0:
		return fmt.Errorf("%w: bounds must be positive, got %f", ErrInvalidConfig, c.Motion.Bounds)
	case c.Motion.ArriveStrength <= 0 || c.Motion.ArriveStrength >= 1:
		return fmt.Errorf("%w: arrive strength must be in (0,1), got %f", ErrInvalidConfig, c.Motion.ArriveStrength)
	case c.Motion.Restitution <= -1 || c.Motion.Restitution >= 0:
		return fmt.Errorf("%w: restitution must be in (-1,0), got %f", ErrInvalidConfig, c.Motion.Restitution)
	case c.Shimmer.Secs <= 0:
		return fmt.Errorf("%w: shimmer secs must be positive, got %f", ErrInvalidConfig, c.Shimmer.Secs)
	case c.Gesture.LongPressMs <= 0:
		return fmt.Errorf("%w: long press threshold must be positive, got %d", ErrInvalidConfig, c.Gesture.LongPressMs)
	case c.Gesture.MoveTolerancePx <= 0:
		return fmt.Errorf("%w: move tolerance must be positive, got %f", ErrInvalidConfig, c.Gesture.MoveTolerancePx)
	case c.Viewport.DesktopFPS <= 0 || c.Viewport.ConstrainedFPS <= 0 || c.Viewport.ReducedMotionFPS <= 0:
		return fmt.Errorf("%w: frame caps must be positive", ErrInvalidConfig)
	case c.Viewport.DesktopGapMin <= 0 || c.Viewport.DesktopGapMin > c.Viewport.DesktopGapMax:
		return fmt.Errorf("%w: desktop gap range [%f,%f]", ErrInvalidConfig, c.Viewport.DesktopGapMin, c.Viewport.DesktopGapMax)
	case c.Viewport.ConstrainedGapMin <= 0 || c.Viewport.ConstrainedGapMin > c.Viewport.ConstrainedGapMax:
		return fmt.Errorf("%w: constrained gap range [%f,%f]", ErrInvalidConfig, c.Viewport.ConstrainedGapMin, c.Viewport.ConstrainedGapMax)
	case c.Text.MinFontPx <= 0 || c.Text.MinFontPx >= c.Text.MaxFontPx:
		return fmt.Errorf("%w: font range [%f,%f]", ErrInvalidConfig, c.Text.MinFontPx, c.Text.MaxFontPx)
	case c.Text.FitSteps <= 0:
		return fmt.Errorf("%w: fit steps must be positive, got %d", ErrInvalidConfig, c.Text.FitSteps)
	case c.Text.WorldPerPx <= 0:
		return fmt.Errorf("%w: world units per pixel must be positive, got %f", ErrInvalidConfig, c.Text.WorldPerPx)
	}
	return nil
}

func (c *Config) LongPress() time.Duration {
	return time.Duration(c.Gesture.LongPressMs) * time.Millisecond
}

func (c *Config) ReleaseGrace() time.Duration {
	return time.Duration(c.Gesture.ReleaseGraceMs) * time.Millisecond
}

func (c *Config) ResizeDebounce() time.Duration {
	return time.Duration(c.Viewport.DebounceMs) * time.Millisecond
}

func (c *Config) ShimmerDuration() time.Duration {
	return time.Duration(c.Shimmer.Secs * float64(time.Second))
}
