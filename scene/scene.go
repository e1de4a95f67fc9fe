// Package scene drives one trajectory playback: clock, sampler and the
// per-frame snapshot handed to the presenter.
package scene

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/mlange-42/ark/ecs"
	"github.com/soniakeys/meeus/v3/julian"
	"github.com/soniakeys/meeus/v3/sidereal"
	"github.com/soniakeys/meeus/v3/solar"

	"github.com/pthm-cable/satview/components"
	"github.com/pthm-cable/satview/playback"
	"github.com/pthm-cable/satview/scenario"
	"github.com/pthm-cable/satview/trajectory"
)

var (
	// ErrObservantMissing is returned when a first-person scene cannot find
	// the observing body or its orientation samples.
	ErrObservantMissing = errors.New("scene: observing body not found")
	// ErrClosed is returned by operations on a closed scene.
	ErrClosed = errors.New("scene: closed")
)

// AstronomicalUnit in km, used to place the sun when no samples are supplied.
const AstronomicalUnit = 149597870.7

// State is the scene lifecycle state.
type State uint8

const (
	StateUninitialized State = iota
	StateReady
	StatePlaying
	StatePaused
)

func (s State) String() string {
	switch s {
	case StateReady:
		return "ready"
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	}
	return "uninitialized"
}

// Options tunes the clock of a scene.
type Options struct {
	TimeScale    float64 // Scenario time units per wall second at 1x
	StepDuration float64 // Overrides the scenario time step when positive
	Speed        float64 // Initial speed multiplier
}

// Scene is the complete per-scene state.
type Scene struct {
	scn     *scenario.Scenario
	variant Variant
	clock   *playback.Clock
	state   State

	world  *ecs.World
	mapper *ecs.Map4[components.Identity, components.Extent, components.Track, components.Pose]
	filter *ecs.Filter4[components.Identity, components.Extent, components.Track, components.Pose]

	observant *scenario.Body
	hovered   int
	hasHover  bool

	last Frame
}

// New validates scn and builds a scene in the Ready state.
// Missing data and invalid timing refuse to start. A missing observing body
// is fatal for first-person variants and ignored otherwise.
func New(scn *scenario.Scenario, variant Variant, opts Options) (*Scene, error) {
	if scn == nil {
		return nil, scenario.ErrNoTrajectories
	}
	if err := scn.Validate(); err != nil {
		return nil, fmt.Errorf("validating scenario: %w", err)
	}

	s := &Scene{scn: scn, variant: variant}

	initial := 0
	if variant.FirstPerson {
		obs, err := findObservant(scn)
		if err != nil {
			return nil, err
		}
		s.observant = obs
		initial = scn.Encounter.IndexClosest
	} else if obs, err := findObservant(scn); err == nil {
		s.observant = obs
	}

	dur := opts.StepDuration
	if dur <= 0 {
		dur = scn.TimeStep
	}
	speed := opts.Speed
	if speed == 0 {
		speed = 1
	}
	clock, err := playback.NewClock(playback.Config{
		StepDuration: dur,
		StepCount:    scn.StepCount(),
		TimeScale:    opts.TimeScale,
		Speed:        speed,
		InitialStep:  initial,
		Playing:      variant.Autoplay,
	})
	if err != nil {
		return nil, fmt.Errorf("starting clock: %w", err)
	}
	s.clock = clock

	s.world = ecs.NewWorld()
	s.mapper = ecs.NewMap4[components.Identity, components.Extent, components.Track, components.Pose](s.world)
	s.filter = ecs.NewFilter4[components.Identity, components.Extent, components.Track, components.Pose](s.world)
	s.spawnBodies()

	s.state = StateReady
	s.last, err = s.sample(clock.Current())
	if err != nil {
		return nil, err
	}
	return s, nil
}

func findObservant(scn *scenario.Scenario) (*scenario.Body, error) {
	if scn.Encounter == nil {
		return nil, fmt.Errorf("%w: no encounter", ErrObservantMissing)
	}
	obs, ok := scn.Body(scn.Encounter.Observant)
	if !ok {
		return nil, fmt.Errorf("%w: id %d", ErrObservantMissing, scn.Encounter.Observant)
	}
	if len(obs.Coords) == 0 || len(obs.BodyAxis) == 0 {
		return nil, fmt.Errorf("%w: id %d has no position or body axis samples", ErrObservantMissing, obs.ID)
	}
	return obs, nil
}

func (s *Scene) spawnBodies() {
	for i := range s.scn.Bodies {
		b := &s.scn.Bodies[i]
		if len(b.Coords) == 0 {
			continue
		}
		id := components.Identity{
			ID:          b.ID,
			Index:       i,
			Name:        b.Name,
			Kind:        components.KindOf(b.ObjectType),
			UserCreated: b.UserCreated(),
		}
		ext := components.Extent{
			Shape:    components.ShapeOf(b.Shape),
			Length:   b.Length,
			Diameter: b.Diameter,
		}
		track := components.Track{Coords: b.Coords}
		if id.UserCreated {
			track.BodyAxis = b.BodyAxis
			track.OrbitAxis = b.OrbitAxis
		}
		pose := components.Pose{Position: b.Coords[0]}
		s.mapper.NewEntity(&id, &ext, &track, &pose)
	}
}

// Variant returns the presentation variant.
func (s *Scene) Variant() Variant { return s.variant }

// State returns the lifecycle state.
func (s *Scene) State() State { return s.state }

// Clock exposes the playback clock for read-only queries.
func (s *Scene) Clock() *playback.Clock { return s.clock }

// Scenario returns the underlying data set.
func (s *Scene) Scenario() *scenario.Scenario { return s.scn }

// Last returns the most recently computed frame. Before the first tick it
// shows the initial step.
func (s *Scene) Last() Frame { return s.last }

// Tick advances the clock to wall (seconds) and samples every body.
func (s *Scene) Tick(wall float64) (Frame, error) {
	if s.state == StateUninitialized {
		return Frame{}, ErrClosed
	}
	pos := s.clock.Advance(wall)
	f, err := s.sample(pos)
	if err != nil {
		return s.last, err
	}
	s.updateState()
	s.last = f
	return f, nil
}

// Apply dispatches a control command. The returned frame is recomputed
// immediately so a scrub is visible without waiting for the next tick.
func (s *Scene) Apply(cmd playback.Command, wall float64) (Frame, error) {
	if s.state == StateUninitialized {
		return Frame{}, ErrClosed
	}
	pos, err := s.clock.Apply(cmd, wall)
	if err != nil {
		return s.last, fmt.Errorf("applying %s: %w", cmd, err)
	}
	f, err := s.sample(pos)
	if err != nil {
		return s.last, err
	}
	if s.state != StateReady {
		s.updateState()
	}
	s.last = f
	return f, nil
}

func (s *Scene) updateState() {
	if s.clock.Playing() {
		s.state = StatePlaying
	} else {
		s.state = StatePaused
	}
}

// Close tears the scene down. Further ticks return ErrClosed.
func (s *Scene) Close() {
	s.state = StateUninitialized
	s.world = nil
	s.mapper = nil
	s.filter = nil
	s.hasHover = false
}

// Hover highlights the body with the given catalog number.
// It reports false if no tracked body has that id.
func (s *Scene) Hover(id int) bool {
	if s.Trajectory(id) == nil {
		return false
	}
	s.hovered = id
	s.hasHover = true
	return true
}

// ClearHover removes the highlight.
func (s *Scene) ClearHover() { s.hasHover = false }

// Hovered returns the highlighted body id.
func (s *Scene) Hovered() (int, bool) { return s.hovered, s.hasHover }

// Trajectory returns the full position samples of a tracked body, or nil.
func (s *Scene) Trajectory(id int) []trajectory.Vec3 {
	if s.filter == nil {
		return nil
	}
	var coords []trajectory.Vec3
	query := s.filter.Query()
	for query.Next() {
		ident, _, track, _ := query.Get()
		if ident.ID == id && coords == nil {
			coords = track.Coords
		}
	}
	return coords
}

// sample interpolates every body, the sun, the camera and the epoch at pos.
func (s *Scene) sample(pos playback.Position) (Frame, error) {
	f := Frame{
		Step:     pos.Step,
		T:        pos.T,
		Wrapped:  pos.Wrapped,
		Progress: pos.Progress(s.clock.StepCount()),
		Playing:  s.clock.Playing(),
		Speed:    s.clock.Speed(),
	}

	epoch, ok := trajectory.InterpolateEpoch(s.scn.Sun.Epochs, pos.Step, pos.T)
	if !ok {
		return Frame{}, scenario.ErrNoEpochs
	}
	f.Epoch = epoch
	f.EpochLabel = FormatEpoch(epoch)
	f.EarthRotation = EarthRotation(epoch)

	if sun, ok := trajectory.Interpolate(s.scn.Sun.Coords, pos.Step, pos.T); ok {
		f.Sun = sun
	} else {
		f.Sun = SunPosition(epoch)
	}
	f.HasSun = true

	if s.variant.FirstPerson {
		cam, ok := trajectory.SampleCameraPose(s.observant.Coords, s.observant.BodyAxis, pos.Step, pos.T)
		if !ok {
			return Frame{}, fmt.Errorf("%w: id %d", ErrObservantMissing, s.observant.ID)
		}
		f.Camera = &cam
	}

	if s.filter == nil {
		return Frame{}, ErrClosed
	}
	query := s.filter.Query()
	for query.Next() {
		ident, ext, track, pose := query.Get()

		p, ok := trajectory.Interpolate(track.Coords, pos.Step, pos.T)
		if !ok {
			continue
		}
		pose.Position = p
		if body, ok := trajectory.InterpolateAxes(track.BodyAxis, pos.Step, pos.T); ok {
			pose.BodyAxes = body
			pose.OrbitAxes, _ = trajectory.InterpolateAxes(track.OrbitAxis, pos.Step, pos.T)
			pose.HasAxes = len(track.OrbitAxis) > 0
		}

		f.Bodies = append(f.Bodies, BodyPose{
			index:     ident.Index,
			ID:        ident.ID,
			Name:      ident.Name,
			Kind:      ident.Kind,
			Shape:     ext.Shape,
			Length:    ext.Length,
			Diameter:  ext.Diameter,
			Position:  pose.Position,
			BodyAxes:  pose.BodyAxes,
			OrbitAxes: pose.OrbitAxes,
			HasAxes:   pose.HasAxes,
			Hovered:   s.hasHover && ident.ID == s.hovered,
			Observant: s.observant != nil && ident.ID == s.observant.ID,
		})
	}
	slices.SortFunc(f.Bodies, func(a, b BodyPose) int { return a.index - b.index })

	return f, nil
}

// FormatEpoch renders an epoch as ISO 8601 UTC with milliseconds.
func FormatEpoch(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z")
}

// EarthRotation returns the mean sidereal angle (radians) that rotates the
// Earth mesh from the inertial frame at epoch.
func EarthRotation(epoch time.Time) float64 {
	jd := julian.TimeToJD(epoch.UTC())
	return normalizeAngle(sidereal.Mean(jd).Angle().Rad())
}

// SunPosition returns the apparent geocentric sun position (km, inertial)
// at epoch.
func SunPosition(epoch time.Time) trajectory.Vec3 {
	jd := julian.TimeToJD(epoch.UTC())
	ra, dec := solar.ApparentEquatorial(jd)
	return trajectory.Vec3{
		X: AstronomicalUnit * dec.Cos() * ra.Cos(),
		Y: AstronomicalUnit * dec.Cos() * ra.Sin(),
		Z: AstronomicalUnit * dec.Sin(),
	}
}

// ExportFilename names a still image of f after its epoch and the encounter ids.
func (s *Scene) ExportFilename(f Frame) string {
	label := f.EpochLabel
	if label == "" {
		label = FormatEpoch(f.Epoch)
	}
	name := strings.NewReplacer(":", "-", ".", "-").Replace(label)
	if enc := s.scn.Encounter; enc != nil {
		name += "_" + strconv.Itoa(enc.Observant) + "_" + strconv.Itoa(enc.Observed)
	}
	return name + ".png"
}

// normalizeAngle wraps a to [0, 2pi).
func normalizeAngle(a float64) float64 {
	a = math.Mod(a, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	return a
}
