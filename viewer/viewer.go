// Package viewer hosts one scene: it turns input into playback commands,
// ticks the scene once per frame and presents the result.
package viewer

import (
	"fmt"
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/satview/camera"
	"github.com/pthm-cable/satview/config"
	"github.com/pthm-cable/satview/eventcam"
	"github.com/pthm-cable/satview/playback"
	"github.com/pthm-cable/satview/renderer"
	"github.com/pthm-cable/satview/scenario"
	"github.com/pthm-cable/satview/scene"
	"github.com/pthm-cable/satview/telemetry"
	"github.com/pthm-cable/satview/ui"
)

// orbitEye is the orbit camera's starting position, km.
var orbitEye = r3.Vec{X: 10000, Y: 10000, Z: 10000}

// sampleFlush is the number of buffered samples written at once.
const sampleFlush = 256

// Options configures a viewer run.
type Options struct {
	LogStats  bool
	OutputDir string // CSV output (empty = disabled)
	ExportDir string // Still images (empty = scene.export_dir)
}

// Viewer is the complete viewer state for one scene.
type Viewer struct {
	cfg     *config.Config
	vcfg    config.VariantConfig
	opts    Options
	variant scene.Variant

	scene   *scene.Scene
	frame   scene.Frame
	frameOK bool

	orbit     *camera.Orbit
	presenter *renderer.Presenter
	events    *renderer.EventPass
	overlays  *ui.OverlayRegistry
	panel     *ui.PlaybackPanel
	info      *ui.InfoPanel

	pending  []playback.Command
	download bool
	display  rl.Texture2D

	perf      *telemetry.PerfCollector
	output    *telemetry.OutputManager
	errLog    *telemetry.LogLimiter
	samples   []telemetry.Sample
	observed  int
	frames    int
	lastStats float64

	screenWidth, screenHeight float32
	initialized               bool
}

// New builds a viewer for scn. GPU resources are created by Init.
func New(cfg *config.Config, scn *scenario.Scenario, variant scene.Variant, opts Options) (*Viewer, error) {
	vcfg, ok := cfg.Variant(variant.Name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", scene.ErrUnknownVariant, variant.Name)
	}

	s, err := scene.New(scn, variant, scene.Options{
		TimeScale:    vcfg.TimeScale,
		StepDuration: vcfg.StepDuration,
		Speed:        clampSpeed(cfg.Playback.InitialSpeed, vcfg),
	})
	if err != nil {
		return nil, fmt.Errorf("creating %s scene: %w", variant.Name, err)
	}

	output, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		s.Close()
		return nil, err
	}
	if err := output.WriteConfig(cfg); err != nil {
		slog.Warn("failed to write config snapshot", "error", err)
	}

	if opts.ExportDir == "" {
		opts.ExportDir = cfg.Scene.ExportDir
	}

	v := &Viewer{
		cfg:          cfg,
		vcfg:         vcfg,
		opts:         opts,
		variant:      variant,
		scene:        s,
		frame:        s.Last(),
		frameOK:      true,
		perf:         telemetry.NewPerfCollector(cfg.Telemetry.PerfWindow),
		output:       output,
		errLog:       telemetry.NewLogLimiter(1),
		screenWidth:  cfg.Derived.ScreenW32,
		screenHeight: cfg.Derived.ScreenH32,
	}
	if enc := scn.Encounter; enc != nil {
		v.observed = enc.Observed
	}
	if variant.IsInteractiveOrbitView {
		v.orbit = camera.New(orbitEye, cfg.Scene.MinDistance, cfg.Scene.MaxDistance, cfg.Scene.Damping)
	}

	slog.Info("scene ready",
		"variant", variant.Name,
		"bodies", len(v.frame.Bodies),
		"steps", s.Clock().StepCount(),
		"step_duration", s.Clock().StepDuration(),
		"epoch", v.frame.EpochLabel,
	)
	return v, nil
}

// Init creates the presenter, event pass and panels (must be called after
// the raylib window is created).
func (v *Viewer) Init() {
	if v.initialized {
		return
	}
	cfg := v.cfg

	w, h := int32(cfg.Screen.Width), int32(cfg.Screen.Height)
	if v.variant.HasEventFilter {
		w, h = cfg.Derived.EventW, cfg.Derived.EventH
	}
	v.presenter = renderer.NewPresenter(w, h, v.vcfg, cfg.Scene)
	v.presenter.Init()

	if v.variant.HasEventFilter {
		v.events = renderer.NewEventPass(w, h, eventParams(cfg.EventCamera))
		v.events.Init()
		if !v.events.Ready() {
			slog.Warn("event shader failed to compile, showing unfiltered frames")
		}
	}

	v.overlays = ui.DefaultOverlays(v.variant.IsInteractiveOrbitView, v.variant.HasEventFilter)
	v.panel = ui.NewPlaybackPanel(0, 0, int32(v.screenWidth), v.vcfg.SpeedMin, v.vcfg.SpeedMax, v.overlays)
	v.info = ui.NewInfoPanel(10, 10, 260)
	v.layout()

	v.initialized = true
}

// Scene returns the hosted scene.
func (v *Viewer) Scene() *scene.Scene { return v.scene }

// Frame returns the last presented frame.
func (v *Viewer) Frame() scene.Frame { return v.frame }

// Frames returns the number of frames run so far.
func (v *Viewer) Frames() int { return v.frames }

// Unload flushes output and frees resources.
func (v *Viewer) Unload() {
	v.flushSamples()
	if err := v.output.Close(); err != nil {
		slog.Warn("failed to close output", "error", err)
	}
	if v.presenter != nil {
		v.presenter.Unload()
	}
	if v.events != nil {
		v.events.Unload()
	}
	v.scene.Close()
	v.initialized = false
}

// apply runs a command against the scene and shows its result immediately.
func (v *Viewer) apply(cmd playback.Command, wall float64) {
	f, err := v.scene.Apply(cmd, wall)
	if err != nil {
		slog.Warn("command rejected", "command", cmd.String(), "error", err)
		return
	}
	v.frame = f
	v.frameOK = true
	if _, ok := cmd.(playback.ScrubTo); ok && v.events != nil {
		v.events.Reset()
	}
}

// tick advances the scene to wall. Failed frames keep the previous one.
func (v *Viewer) tick(wall float64) {
	f, err := v.scene.Tick(wall)
	if err != nil {
		v.frameOK = false
		if ok, dropped := v.errLog.Allow(wall); ok {
			slog.Error("frame failed", "error", err, "step", v.frame.Step, "suppressed", dropped)
		}
		return
	}
	v.frame = f
	v.frameOK = true
}

// record buffers a sample every sample_interval frames.
func (v *Viewer) record(wall float64) {
	interval := v.cfg.Telemetry.SampleInterval
	if v.output == nil || interval <= 0 || v.frames%interval != 0 {
		return
	}
	v.samples = append(v.samples, telemetry.NewSample(v.frames, wall, &v.frame, v.observed))
	if len(v.samples) >= sampleFlush {
		v.flushSamples()
	}
}

func (v *Viewer) flushSamples() {
	if err := v.output.WriteSamples(v.samples); err != nil {
		slog.Warn("failed to write samples", "error", err)
	}
	v.samples = v.samples[:0]
}

// logStats emits perf stats every stats_interval seconds.
func (v *Viewer) logStats(wall float64) {
	if wall-v.lastStats < v.cfg.Telemetry.StatsInterval {
		return
	}
	v.lastStats = wall
	stats := v.perf.Stats()
	if v.opts.LogStats {
		stats.LogStats()
	}
	if err := v.output.WritePerf(stats, v.frames); err != nil {
		slog.Warn("failed to write perf", "error", err)
	}
}

// clampSpeed keeps the initial speed inside the variant's slider range.
func clampSpeed(speed float64, vcfg config.VariantConfig) float64 {
	return min(max(speed, vcfg.SpeedMin), vcfg.SpeedMax)
}

func eventParams(c config.EventCameraConfig) eventcam.Params {
	return eventcam.Params{
		PosThreshold:  c.PosThreshold,
		NegThreshold:  c.NegThreshold,
		DecayRate:     c.DecayRate,
		NoiseStrength: c.NoiseStrength,
		Seed:          c.Seed,
	}
}
