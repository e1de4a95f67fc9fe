// Package config provides configuration loading and access for the viewer.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all viewer configuration parameters.
type Config struct {
	Screen      ScreenConfig      `yaml:"screen"`
	Playback    PlaybackConfig    `yaml:"playback"`
	Variants    VariantsConfig    `yaml:"variants"`
	EventCamera EventCameraConfig `yaml:"event_camera"`
	Scene       SceneConfig       `yaml:"scene"`
	Telemetry   TelemetryConfig   `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// PlaybackConfig holds settings shared by every variant's clock.
type PlaybackConfig struct {
	InitialSpeed float64 `yaml:"initial_speed"`
}

// VariantsConfig holds per-variant playback tuning.
type VariantsConfig struct {
	Orbit VariantConfig `yaml:"orbit"`
	View  VariantConfig `yaml:"view"`
	Event VariantConfig `yaml:"event"`
}

// VariantConfig tunes one presentation context.
type VariantConfig struct {
	TimeScale    float64 `yaml:"time_scale"`    // Step-duration units per wall second at 1x
	StepDuration float64 `yaml:"step_duration"` // Overrides the scenario time step (0 = use scenario)
	SpeedMin     float64 `yaml:"speed_min"`
	SpeedMax     float64 `yaml:"speed_max"`
	RenderScale  float64 `yaml:"render_scale"` // Render units per km
	FieldOfView  float64 `yaml:"fov"`          // Vertical field of view in degrees
}

// EventCameraConfig holds the event-camera filter thresholds.
type EventCameraConfig struct {
	PosThreshold  float64 `yaml:"pos_threshold"`
	NegThreshold  float64 `yaml:"neg_threshold"`
	DecayRate     float64 `yaml:"decay_rate"`
	NoiseStrength float64 `yaml:"noise_strength"`
	Seed          float64 `yaml:"seed"`
	Width         int     `yaml:"width"`  // Off-screen target width (0 = screen width)
	Height        int     `yaml:"height"` // Off-screen target height (0 = screen height)
}

// SceneConfig holds presenter settings.
type SceneConfig struct {
	EarthRadius     float64 `yaml:"earth_radius"`      // km
	MagnifyFactor   float64 `yaml:"magnify_factor"`    // Body scale when magnified
	MinBodySize     float64 `yaml:"min_body_size"`     // km, floor for tiny bodies
	OrbitAxisLength float64 `yaml:"orbit_axis_length"` // km
	BodyAxisLength  float64 `yaml:"body_axis_length"`  // km
	MinDistance     float64 `yaml:"min_distance"`      // Orbit camera limits, km
	MaxDistance     float64 `yaml:"max_distance"`
	Damping         float64 `yaml:"damping"`
	ExportDir       string  `yaml:"export_dir"`
}

// TelemetryConfig holds frame timing parameters.
type TelemetryConfig struct {
	PerfWindow     int     `yaml:"perf_window"`     // Frames averaged by the perf collector
	StatsInterval  float64 `yaml:"stats_interval"`  // Seconds between perf log lines
	SampleInterval int     `yaml:"sample_interval"` // Frames between samples.csv rows
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	ScreenW32 float32 // Screen.Width as float32
	ScreenH32 float32 // Screen.Height as float32
	EventW    int32   // Effective event target width
	EventH    int32   // Effective event target height
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
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

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg.computeDerived()

	return cfg, nil
}

// Variant returns the tuning for a named variant.
func (c *Config) Variant(name string) (VariantConfig, bool) {
	switch name {
	case "orbit":
		return c.Variants.Orbit, true
	case "view":
		return c.Variants.View, true
	case "event":
		return c.Variants.Event, true
	}
	return VariantConfig{}, false
}

// validate rejects settings that would make playback produce NaN state.
func (c *Config) validate() error {
	for _, name := range []string{"orbit", "view", "event"} {
		v, _ := c.Variant(name)
		if v.TimeScale <= 0 {
			return fmt.Errorf("variants.%s.time_scale must be positive, got %g", name, v.TimeScale)
		}
		if v.StepDuration < 0 {
			return fmt.Errorf("variants.%s.step_duration must not be negative, got %g", name, v.StepDuration)
		}
		if v.SpeedMin <= 0 || v.SpeedMax < v.SpeedMin {
			return fmt.Errorf("variants.%s speed range [%g, %g] is invalid", name, v.SpeedMin, v.SpeedMax)
		}
		if v.RenderScale <= 0 {
			return fmt.Errorf("variants.%s.render_scale must be positive, got %g", name, v.RenderScale)
		}
	}
	if c.Playback.InitialSpeed <= 0 {
		return fmt.Errorf("playback.initial_speed must be positive, got %g", c.Playback.InitialSpeed)
	}
	if c.EventCamera.DecayRate < 0 || c.EventCamera.DecayRate > 1 {
		return fmt.Errorf("event_camera.decay_rate must be in [0, 1], got %g", c.EventCamera.DecayRate)
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.ScreenW32 = float32(c.Screen.Width)
	c.Derived.ScreenH32 = float32(c.Screen.Height)

	// Event targets default to screen size if not specified
	c.Derived.EventW = int32(c.EventCamera.Width)
	if c.Derived.EventW == 0 {
		c.Derived.EventW = int32(c.Screen.Width)
	}
	c.Derived.EventH = int32(c.EventCamera.Height)
	if c.Derived.EventH == 0 {
		c.Derived.EventH = int32(c.Screen.Height)
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
