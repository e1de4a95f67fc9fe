package scenario

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pthm-cable/satview/trajectory"
)

func TestLoadFixture(t *testing.T) {
	s, err := Load(filepath.Join("testdata", "encounter.json"))
	if err != nil {
		t.Fatalf("loading fixture: %v", err)
	}
	if err := s.Validate(); err != nil {
		t.Fatalf("fixture should validate: %v", err)
	}

	if s.TimeStep != 6000 {
		t.Errorf("expected 6000ms step, got %g", s.TimeStep)
	}
	if s.StepCount() != 4 {
		t.Errorf("expected 4 steps, got %d", s.StepCount())
	}
	if s.Encounter == nil || s.Encounter.Observant != 99001 || s.Encounter.IndexClosest != 2 {
		t.Errorf("unexpected encounter %+v", s.Encounter)
	}

	obs, ok := s.Body(99001)
	if !ok {
		t.Fatal("expected observant body")
	}
	if !obs.UserCreated() {
		t.Error("expected user-created body")
	}
	if len(obs.BodyAxis) != 4 || obs.BodyAxis[1].Forward() != (trajectory.Vec3{Y: 1}) {
		t.Errorf("unexpected body axes %v", obs.BodyAxis)
	}
	if obs.Coords[0] != (trajectory.Vec3{X: 7000}) {
		t.Errorf("unexpected first sample %v", obs.Coords[0])
	}

	debris, _ := s.Body(25544)
	if debris.UserCreated() || debris.BodyAxis != nil {
		t.Error("catalog body should carry no axes")
	}

	want := time.Date(2024, 3, 1, 12, 0, 6, 0, time.UTC)
	if !s.Sun.Epochs[1].Equal(want) {
		t.Errorf("expected %v, got %v", want, s.Sun.Epochs[1])
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestValidate(t *testing.T) {
	epochs := `"sun": {"coords": [[1,0,0]], "epochs": ["2024-01-01 00:00:00"]}`
	body := `"bodies": [{"NORAD_CAT_ID": 1, "coords": [[7000,0,0]]}]`

	cases := []struct {
		name string
		doc  string
		want error
	}{
		{"valid", `{"time_step": 1000, ` + body + `, ` + epochs + `}`, nil},
		{"no epochs", `{"time_step": 1000, ` + body + `, "sun": {"epochs": []}}`, ErrNoEpochs},
		{"no bodies", `{"time_step": 1000, "bodies": [], ` + epochs + `}`, ErrNoTrajectories},
		{"bodies without samples", `{"time_step": 1000, "bodies": [{"NORAD_CAT_ID": 3}], ` + epochs + `}`, ErrNoTrajectories},
		{"zero step", `{"time_step": 0, ` + body + `, ` + epochs + `}`, ErrInvalidStepDuration},
		{"negative step", `{"time_step": -5, ` + body + `, ` + epochs + `}`, ErrInvalidStepDuration},
		{"missing step", `{` + body + `, ` + epochs + `}`, ErrInvalidStepDuration},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s, err := Decode(strings.NewReader(tc.doc))
			if err != nil {
				t.Fatalf("decoding: %v", err)
			}
			err = s.Validate()
			if tc.want == nil && err != nil {
				t.Errorf("expected no error, got %v", err)
			}
			if tc.want != nil && !errors.Is(err, tc.want) {
				t.Errorf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestDecodeRejectsBadEpoch(t *testing.T) {
	doc := `{"time_step": 1, "sun": {"epochs": ["yesterday"]}}`
	if _, err := Decode(strings.NewReader(doc)); err == nil {
		t.Error("expected error for unparseable epoch")
	}
	if _, err := Decode(strings.NewReader("{")); err == nil {
		t.Error("expected error for truncated document")
	}
}

func TestParseEpoch(t *testing.T) {
	cases := []struct {
		in   string
		want time.Time
	}{
		{"2024-03-01 12:00:00", time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)},
		{"2024-03-01 12:00:00.250", time.Date(2024, 3, 1, 12, 0, 0, 250e6, time.UTC)},
		{"2024-03-01T12:00:00.5", time.Date(2024, 3, 1, 12, 0, 0, 500e6, time.UTC)},
		{"2024-03-01T13:00:00+01:00", time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)},
	}

	for _, tc := range cases {
		got, err := ParseEpoch(tc.in)
		if err != nil {
			t.Errorf("%q: unexpected error %v", tc.in, err)
			continue
		}
		if !got.Equal(tc.want) {
			t.Errorf("%q: expected %v, got %v", tc.in, tc.want, got)
		}
	}
}

func TestNormalizedShape(t *testing.T) {
	cases := map[string]string{
		"cyl":     ShapeCylinder,
		"BOX":     ShapeBox,
		"cone":    ShapeCone,
		"sphere":  ShapeSphere,
		"":        ShapeSphere,
		"torus":   ShapeSphere,
		" cone  ": ShapeCone,
	}
	for in, want := range cases {
		b := Body{Shape: in}
		if got := b.NormalizedShape(); got != want {
			t.Errorf("shape %q: expected %q, got %q", in, want, got)
		}
	}
}
