package scene

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/pthm-cable/satview/playback"
	"github.com/pthm-cable/satview/scenario"
	"github.com/pthm-cable/satview/trajectory"
)

var base = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

// fixture has four one-minute steps. Body 99001 is the observer.
func fixture() *scenario.Scenario {
	axes := trajectory.Axes{{Y: 1}, {Z: 1}, {X: 1}}
	return &scenario.Scenario{
		TimeStep: 60000,
		Bodies: []scenario.Body{
			{
				ID:         99001,
				Name:       "INSPECTOR-1",
				ObjectType: scenario.TypePayload,
				ObjectID:   scenario.UserCreatedID,
				Shape:      "cyl",
				Coords:     []trajectory.Vec3{{X: 7000}, {X: 7010}, {X: 7020}, {X: 7030}},
				BodyAxis:   []trajectory.Axes{axes, axes, axes, axes},
				OrbitAxis:  []trajectory.Axes{axes, axes, axes, axes},
			},
			{
				ID:         25544,
				Name:       "FRAGMENT A",
				ObjectType: scenario.TypeDebris,
				Shape:      "box",
				Coords:     []trajectory.Vec3{{Y: 100}, {Y: 200}, {Y: 300}, {Y: 400}},
			},
			{ID: 1, Name: "NO SAMPLES"},
		},
		Sun: scenario.Sun{
			Coords: []trajectory.Vec3{{X: 1e8}, {X: 1e8, Y: 10}, {X: 1e8, Y: 20}, {X: 1e8, Y: 30}},
			Epochs: []time.Time{base, base.Add(time.Minute), base.Add(2 * time.Minute), base.Add(3 * time.Minute)},
		},
		Encounter: &scenario.Encounter{Observant: 99001, Observed: 25544, IndexClosest: 2},
	}
}

var opts = Options{TimeScale: 1000, Speed: 1}

func mustScene(t *testing.T, scn *scenario.Scenario, v Variant) *Scene {
	t.Helper()
	s, err := New(scn, v, opts)
	if err != nil {
		t.Fatalf("creating %s scene: %v", v.Name, err)
	}
	return s
}

func TestNewRejectsMissingData(t *testing.T) {
	noEpochs := fixture()
	noEpochs.Sun.Epochs = nil

	noBodies := fixture()
	noBodies.Bodies = nil

	zeroStep := fixture()
	zeroStep.TimeStep = 0

	cases := []struct {
		name string
		scn  *scenario.Scenario
		want error
	}{
		{"nil scenario", nil, scenario.ErrNoTrajectories},
		{"no epochs", noEpochs, scenario.ErrNoEpochs},
		{"no bodies", noBodies, scenario.ErrNoTrajectories},
		{"zero step", zeroStep, scenario.ErrInvalidStepDuration},
	}

	for _, tc := range cases {
		for _, v := range Variants() {
			s, err := New(tc.scn, v, opts)
			if !errors.Is(err, tc.want) {
				t.Errorf("%s/%s: expected %v, got %v", tc.name, v.Name, tc.want, err)
			}
			if s != nil {
				t.Errorf("%s/%s: expected nil scene", tc.name, v.Name)
			}
		}
	}
}

func TestNewRejectsInvalidTiming(t *testing.T) {
	if _, err := New(fixture(), Orbit, Options{TimeScale: 0}); !errors.Is(err, playback.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}

	bad := fixture()
	bad.Encounter.IndexClosest = 10
	if _, err := New(bad, View, opts); !errors.Is(err, playback.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig for closest index past the end, got %v", err)
	}
}

func TestObservantLookup(t *testing.T) {
	missing := fixture()
	missing.Encounter.Observant = 12345

	noAxes := fixture()
	noAxes.Bodies[0].BodyAxis = nil

	noEncounter := fixture()
	noEncounter.Encounter = nil

	for _, scn := range []*scenario.Scenario{missing, noAxes, noEncounter} {
		for _, v := range []Variant{View, Event} {
			if _, err := New(scn, v, opts); !errors.Is(err, ErrObservantMissing) {
				t.Errorf("%s: expected ErrObservantMissing, got %v", v.Name, err)
			}
		}
		if _, err := New(scn, Orbit, opts); err != nil {
			t.Errorf("orbit should ignore a missing observer, got %v", err)
		}
	}
}

func TestStateMachine(t *testing.T) {
	s := mustScene(t, fixture(), View)
	if s.State() != StateReady {
		t.Fatalf("expected ready, got %s", s.State())
	}

	if _, err := s.Tick(0); err != nil {
		t.Fatal(err)
	}
	if s.State() != StatePaused {
		t.Errorf("view should start paused, got %s", s.State())
	}

	if _, err := s.Apply(playback.Play{}, 1); err != nil {
		t.Fatal(err)
	}
	if s.State() != StatePlaying {
		t.Errorf("expected playing, got %s", s.State())
	}

	// Scrubbing keeps the current state
	if _, err := s.Apply(playback.ScrubTo{Fraction: 0.25}, 2); err != nil {
		t.Fatal(err)
	}
	if s.State() != StatePlaying {
		t.Errorf("scrub should not change state, got %s", s.State())
	}

	s.Close()
	if s.State() != StateUninitialized {
		t.Errorf("expected uninitialized after close, got %s", s.State())
	}
	if _, err := s.Tick(3); !errors.Is(err, ErrClosed) {
		t.Errorf("expected ErrClosed, got %v", err)
	}
	if _, err := s.Apply(playback.Play{}, 3); !errors.Is(err, ErrClosed) {
		t.Errorf("expected ErrClosed, got %v", err)
	}

	orbit := mustScene(t, fixture(), Orbit)
	orbit.Tick(0)
	if orbit.State() != StatePlaying {
		t.Errorf("orbit should autoplay, got %s", orbit.State())
	}
}

func TestFirstPersonStartsAtClosestApproach(t *testing.T) {
	s := mustScene(t, fixture(), Event)

	if last := s.Last(); last.Step != 2 || last.EpochLabel != "2024-03-01T12:02:00.000Z" {
		t.Errorf("expected initial frame at step 2, got step %d label %q", last.Step, last.EpochLabel)
	}

	f, err := s.Tick(100)
	if err != nil {
		t.Fatal(err)
	}
	if f.Step != 2 || f.T != 0 {
		t.Errorf("expected step 2 at t=0, got %d/%g", f.Step, f.T)
	}
	if f.Camera == nil {
		t.Fatal("expected camera pose")
	}
	if f.Camera.Position != (trajectory.Vec3{X: 7020}) {
		t.Errorf("expected camera at observer, got %v", f.Camera.Position)
	}
	if f.Camera.Target != (trajectory.Vec3{X: 7020, Y: 1}) {
		t.Errorf("expected target along forward axis, got %v", f.Camera.Target)
	}
	if f.Camera.Up != (trajectory.Vec3{Z: -1}) {
		t.Errorf("expected flipped up axis, got %v", f.Camera.Up)
	}

	obs, _ := f.Body(99001)
	if !obs.Observant {
		t.Error("expected observer flag")
	}
}

func TestOrbitHasNoCamera(t *testing.T) {
	s := mustScene(t, fixture(), Orbit)
	f, _ := s.Tick(0)
	if f.Camera != nil {
		t.Error("orbit variant should not derive a first-person camera")
	}
	if f.Step != 0 {
		t.Errorf("orbit should start at step 0, got %d", f.Step)
	}
}

func TestTickInterpolates(t *testing.T) {
	s := mustScene(t, fixture(), Orbit)
	s.Tick(10)

	// 30 wall seconds at 1000x is half of a 60000ms step
	f, err := s.Tick(40)
	if err != nil {
		t.Fatal(err)
	}
	if f.Step != 0 || math.Abs(f.T-0.5) > 1e-9 {
		t.Fatalf("expected step 0 at t=0.5, got %d/%g", f.Step, f.T)
	}

	debris, ok := f.Body(25544)
	if !ok {
		t.Fatal("expected debris body")
	}
	if math.Abs(debris.Position.Y-150) > 1e-3 {
		t.Errorf("expected debris at y=150, got %v", debris.Position)
	}
	if math.Abs(f.Sun.Y-5) > 1e-3 || !f.HasSun {
		t.Errorf("expected interpolated sun, got %v", f.Sun)
	}
	if f.EpochLabel != "2024-03-01T12:00:30.000Z" {
		t.Errorf("unexpected epoch label %q", f.EpochLabel)
	}
	if f.Progress != 0 {
		t.Errorf("expected progress 0, got %g", f.Progress)
	}
}

func TestBodiesKeepScenarioOrder(t *testing.T) {
	s := mustScene(t, fixture(), Orbit)
	f, _ := s.Tick(0)
	if len(f.Bodies) != 2 {
		t.Fatalf("expected 2 tracked bodies, got %d", len(f.Bodies))
	}
	if f.Bodies[0].ID != 99001 || f.Bodies[1].ID != 25544 {
		t.Errorf("unexpected order %d, %d", f.Bodies[0].ID, f.Bodies[1].ID)
	}
	if !f.Bodies[0].HasAxes || f.Bodies[1].HasAxes {
		t.Error("only user-created bodies should carry axes")
	}
}

func TestScrubRecomputesImmediately(t *testing.T) {
	s := mustScene(t, fixture(), View)
	s.Tick(0)

	f, err := s.Apply(playback.ScrubTo{Fraction: 0.25}, 1)
	if err != nil {
		t.Fatal(err)
	}
	if f.Step != 1 || f.T != 0 {
		t.Errorf("expected step 1, got %d/%g", f.Step, f.T)
	}
	if f.Camera.Position != (trajectory.Vec3{X: 7010}) {
		t.Errorf("expected camera moved without a tick, got %v", f.Camera.Position)
	}
	if debris, _ := f.Body(25544); debris.Position != (trajectory.Vec3{Y: 200}) {
		t.Errorf("expected debris at step 1, got %v", debris.Position)
	}
	if s.Last().Step != 1 {
		t.Errorf("expected last frame updated, got step %d", s.Last().Step)
	}
	if f.Progress != 0.25 {
		t.Errorf("expected progress 0.25, got %g", f.Progress)
	}
}

func TestApplyRejectsInvalidSpeed(t *testing.T) {
	s := mustScene(t, fixture(), Event)
	s.Tick(0)
	if _, err := s.Apply(playback.SetSpeed{Speed: 0}, 1); !errors.Is(err, playback.ErrInvalidSpeed) {
		t.Errorf("expected ErrInvalidSpeed, got %v", err)
	}
	f, err := s.Apply(playback.SetSpeed{Speed: 25}, 1)
	if err != nil || f.Speed != 25 {
		t.Errorf("expected speed 25, got %g err=%v", f.Speed, err)
	}
}

func TestHover(t *testing.T) {
	s := mustScene(t, fixture(), Orbit)
	if s.Hover(1) {
		t.Error("bodies without samples cannot be hovered")
	}
	if !s.Hover(25544) {
		t.Fatal("expected hover to succeed")
	}
	if id, ok := s.Hovered(); !ok || id != 25544 {
		t.Errorf("expected hovered 25544, got %d %v", id, ok)
	}

	f, _ := s.Tick(0)
	if b, _ := f.Body(25544); !b.Hovered {
		t.Error("expected hovered flag in frame")
	}
	if got := len(s.Trajectory(25544)); got != 4 {
		t.Errorf("expected 4 trajectory samples, got %d", got)
	}

	s.ClearHover()
	f, _ = s.Tick(0.01)
	if b, _ := f.Body(25544); b.Hovered {
		t.Error("expected hover cleared")
	}
}

func TestExportFilename(t *testing.T) {
	s := mustScene(t, fixture(), Event)
	f := Frame{Epoch: base.Add(30*time.Second + 250*time.Millisecond)}
	f.EpochLabel = FormatEpoch(f.Epoch)

	want := "2024-03-01T12-00-30-250Z_99001_25544.png"
	if got := s.ExportFilename(f); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}

	orbitScn := fixture()
	orbitScn.Encounter = nil
	orbit := mustScene(t, orbitScn, Orbit)
	if got := orbit.ExportFilename(f); got != "2024-03-01T12-00-30-250Z.png" {
		t.Errorf("unexpected orbit filename %q", got)
	}
}

func TestEarthRotation(t *testing.T) {
	a := EarthRotation(base)
	if a < 0 || a >= 2*math.Pi {
		t.Errorf("expected angle in [0, 2pi), got %g", a)
	}

	// One hour of sidereal rotation is about 15.04 degrees
	b := EarthRotation(base.Add(time.Hour))
	d := normalizeAngle(b - a)
	if want := 15.041 * math.Pi / 180; math.Abs(d-want) > 1e-3 {
		t.Errorf("expected %g rad per hour, got %g", want, d)
	}
}

func TestSunPositionFallback(t *testing.T) {
	p := SunPosition(base)
	dist := math.Sqrt(p.X*p.X + p.Y*p.Y + p.Z*p.Z)
	if math.Abs(dist-AstronomicalUnit) > 1e-6*AstronomicalUnit {
		t.Errorf("expected sun at 1 AU, got %g km", dist)
	}

	scn := fixture()
	scn.Sun.Coords = nil
	s := mustScene(t, scn, Orbit)
	f, _ := s.Tick(0)
	if !f.HasSun || f.Sun != p {
		t.Errorf("expected computed sun %v, got %v", p, f.Sun)
	}
}

func TestVariantByName(t *testing.T) {
	for _, v := range Variants() {
		got, err := VariantByName(v.Name)
		if err != nil || got != v {
			t.Errorf("%s: expected preset, got %+v err=%v", v.Name, got, err)
		}
	}
	if _, err := VariantByName("fisheye"); !errors.Is(err, ErrUnknownVariant) {
		t.Errorf("expected ErrUnknownVariant, got %v", err)
	}
	if !Event.HasEventFilter || View.HasEventFilter || !Orbit.IsInteractiveOrbitView {
		t.Error("unexpected variant flags")
	}
}
