// Package scenario loads the precomputed trajectory set that drives playback.
package scenario

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/pthm-cable/satview/trajectory"
)

var (
	// ErrNoTrajectories is returned when no body carries position samples.
	ErrNoTrajectories = errors.New("scenario: no trajectories")
	// ErrNoEpochs is returned when the epoch sequence is empty.
	ErrNoEpochs = errors.New("scenario: no epochs")
	// ErrInvalidStepDuration is returned for a zero, negative or missing time step.
	ErrInvalidStepDuration = errors.New("scenario: step duration must be positive")
)

// UserCreatedID marks bodies defined by the user rather than a catalog.
// Only these carry orbit and body axis systems.
const UserCreatedID = "CREATED BY USER"

// Object categories.
const (
	TypeDebris     = "DEBRIS"
	TypePayload    = "PAYLOAD"
	TypeRocketBody = "ROCKET BODY"
	TypeUnknown    = "UNKNOWN"
)

// Shape tags.
const (
	ShapeSphere   = "sphere"
	ShapeCylinder = "cyl"
	ShapeBox      = "box"
	ShapeCone     = "cone"
)

// Body is one tracked object.
type Body struct {
	ID         int               `json:"NORAD_CAT_ID"`
	Name       string            `json:"OBJECT_NAME"`
	ObjectType string            `json:"OBJECT_TYPE"`
	ObjectID   string            `json:"OBJECT_ID"`
	Shape      string            `json:"shape"`
	Length     float64           `json:"length"`   // km
	Diameter   float64           `json:"diameter"` // km
	Coords     []trajectory.Vec3 `json:"-"`
	BodyAxis   []trajectory.Axes `json:"-"`
	OrbitAxis  []trajectory.Axes `json:"-"`
	RawCoords  [][3]float64      `json:"coords"`
	RawBody    [][3][3]float64   `json:"bodyaxis"`
	RawOrbit   [][3][3]float64   `json:"orbitaxis"`
}

// UserCreated reports whether the body carries axis systems.
func (b *Body) UserCreated() bool {
	return b.ObjectID == UserCreatedID
}

// NormalizedShape maps unknown shape tags to a sphere.
func (b *Body) NormalizedShape() string {
	switch s := strings.ToLower(strings.TrimSpace(b.Shape)); s {
	case ShapeCylinder, ShapeBox, ShapeCone:
		return s
	}
	return ShapeSphere
}

// Sun holds the light source samples and the epoch sequence.
type Sun struct {
	Coords    []trajectory.Vec3 `json:"-"`
	Epochs    []time.Time       `json:"-"`
	RawCoords [][3]float64      `json:"coords"`
	RawEpochs []string          `json:"epochs"`
}

// Encounter names the observing body and the closest-approach step.
type Encounter struct {
	Observant    int `json:"NORAD_CAT_ID_observant"`
	Observed     int `json:"NORAD_CAT_ID_observed"`
	IndexClosest int `json:"Index_closest"`
}

// Scenario is a complete trajectory set.
type Scenario struct {
	TimeStep  float64    `json:"time_step"` // Milliseconds per step
	Bodies    []Body     `json:"bodies"`
	Sun       Sun        `json:"sun"`
	Encounter *Encounter `json:"encounter,omitempty"`
}

// Load reads a scenario document from path.
func Load(path string) (*Scenario, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening scenario: %w", err)
	}
	defer f.Close()

	s, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Decode reads a scenario document from r. It does not validate; call Validate
// before starting playback.
func Decode(r io.Reader) (*Scenario, error) {
	var s Scenario
	if err := json.NewDecoder(r).Decode(&s); err != nil {
		return nil, fmt.Errorf("decoding scenario: %w", err)
	}

	for i := range s.Bodies {
		b := &s.Bodies[i]
		b.Coords = toVecs(b.RawCoords)
		b.BodyAxis = toAxes(b.RawBody)
		b.OrbitAxis = toAxes(b.RawOrbit)
	}

	s.Sun.Coords = toVecs(s.Sun.RawCoords)
	s.Sun.Epochs = make([]time.Time, 0, len(s.Sun.RawEpochs))
	for i, raw := range s.Sun.RawEpochs {
		t, err := ParseEpoch(raw)
		if err != nil {
			return nil, fmt.Errorf("epoch %d: %w", i, err)
		}
		s.Sun.Epochs = append(s.Sun.Epochs, t)
	}

	return &s, nil
}

var epochLayouts = []string{
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
	time.RFC3339Nano,
}

// ParseEpoch parses an ISO-like UTC timestamp with optional fractional seconds.
func ParseEpoch(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range epochLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized epoch %q", s)
}

func toVecs(raw [][3]float64) []trajectory.Vec3 {
	if len(raw) == 0 {
		return nil
	}
	out := make([]trajectory.Vec3, len(raw))
	for i, c := range raw {
		out[i] = trajectory.Vec3{X: c[0], Y: c[1], Z: c[2]}
	}
	return out
}

func toAxes(raw [][3][3]float64) []trajectory.Axes {
	if len(raw) == 0 {
		return nil
	}
	out := make([]trajectory.Axes, len(raw))
	for i, a := range raw {
		for k := range a {
			out[i][k] = trajectory.Vec3{X: a[k][0], Y: a[k][1], Z: a[k][2]}
		}
	}
	return out
}

// Validate reports whether playback can start.
func (s *Scenario) Validate() error {
	if len(s.Sun.Epochs) == 0 {
		return ErrNoEpochs
	}
	tracked := 0
	for i := range s.Bodies {
		if len(s.Bodies[i].Coords) > 0 {
			tracked++
		}
	}
	if tracked == 0 {
		return ErrNoTrajectories
	}
	if !(s.TimeStep > 0) {
		return fmt.Errorf("%w: got %g", ErrInvalidStepDuration, s.TimeStep)
	}
	return nil
}

// Body looks up a body by catalog number.
func (s *Scenario) Body(id int) (*Body, bool) {
	for i := range s.Bodies {
		if s.Bodies[i].ID == id {
			return &s.Bodies[i], true
		}
	}
	return nil, false
}

// StepCount returns the number of playback steps.
func (s *Scenario) StepCount() int {
	return len(s.Sun.Epochs)
}
