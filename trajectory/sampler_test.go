package trajectory

import (
	"math"
	"testing"
	"time"
)

func approxEqual(a, b Vec3, eps float64) bool {
	return math.Abs(a.X-b.X) <= eps && math.Abs(a.Y-b.Y) <= eps && math.Abs(a.Z-b.Z) <= eps
}

func line(n int) []Vec3 {
	traj := make([]Vec3, n)
	for i := range traj {
		traj[i] = Vec3{X: float64(i), Y: 2 * float64(i), Z: -float64(i)}
	}
	return traj
}

func TestInterpolateBoundaries(t *testing.T) {
	traj := []Vec3{{X: 1, Y: 2, Z: 3}, {X: -4, Y: 5, Z: 0}, {X: 7, Y: 7, Z: 7}}

	for step := 0; step < 7; step++ {
		got0, ok := Interpolate(traj, step, 0)
		if !ok {
			t.Fatal("expected sample")
		}
		if got0 != traj[step%len(traj)] {
			t.Errorf("step %d t=0: expected %v, got %v", step, traj[step%len(traj)], got0)
		}
		got1, _ := Interpolate(traj, step, 1)
		if want := traj[(step+1)%len(traj)]; !approxEqual(got1, want, 1e-12) {
			t.Errorf("step %d t=1: expected %v, got %v", step, want, got1)
		}
	}
}

func TestInterpolateMonotonic(t *testing.T) {
	traj := line(5)
	prev, _ := Interpolate(traj, 2, 0)
	for i := 1; i <= 10; i++ {
		cur, _ := Interpolate(traj, 2, float64(i)/10)
		if cur.X <= prev.X || cur.Y <= prev.Y || cur.Z >= prev.Z {
			t.Errorf("expected strictly monotonic blend at t=%.1f: %v -> %v", float64(i)/10, prev, cur)
		}
		prev = cur
	}
}

func TestInterpolateSingleSample(t *testing.T) {
	only := Vec3{X: 42, Y: -1, Z: 3.5}
	traj := []Vec3{only}

	for _, step := range []int{0, 1, 5, 1000} {
		for _, tt := range []float64{0, 0.25, 0.999} {
			got, ok := Interpolate(traj, step, tt)
			if !ok || got != only {
				t.Errorf("step %d t=%f: expected %v, got %v (ok=%v)", step, tt, only, got, ok)
			}
		}
	}
}

func TestInterpolateEmpty(t *testing.T) {
	if _, ok := Interpolate(nil, 3, 0.5); ok {
		t.Error("empty trajectory should not produce a sample")
	}
	if _, ok := InterpolateAxes(nil, 3, 0.5); ok {
		t.Error("empty axes should not produce a sample")
	}
	if _, ok := InterpolateEpoch(nil, 3, 0.5); ok {
		t.Error("empty epochs should not produce a sample")
	}
}

func TestInterpolateWrapsPastEnd(t *testing.T) {
	traj := line(4)
	// Last step blends back toward the first sample
	got, _ := Interpolate(traj, 3, 0.5)
	want := Vec3{X: 1.5, Y: 3, Z: -1.5}
	if !approxEqual(got, want, 1e-12) {
		t.Errorf("expected %v, got %v", want, got)
	}

	// Trajectory shorter than the epoch sequence indexes modulo its own length
	got, _ = Interpolate(traj, 9, 0)
	if got != traj[1] {
		t.Errorf("expected %v, got %v", traj[1], got)
	}
}

func TestIndicesNegativeStep(t *testing.T) {
	i0, i1 := Indices(4, -1)
	if i0 != 3 || i1 != 0 {
		t.Errorf("expected (3, 0), got (%d, %d)", i0, i1)
	}
}

func TestEndToEndLinearTrajectory(t *testing.T) {
	traj := []Vec3{{X: 0}, {X: 1}, {X: 2}, {X: 3}}
	simTime := 1.5
	stepDuration := 1.0

	step := int(math.Floor(simTime / stepDuration))
	tt := math.Mod(simTime, stepDuration) / stepDuration

	got, _ := Interpolate(traj, step, tt)
	if !approxEqual(got, Vec3{X: 1.5}, 1e-12) {
		t.Errorf("expected (1.5, 0, 0), got %v", got)
	}
}

func TestCameraPoseFlipsUp(t *testing.T) {
	pos := Vec3{X: 7000, Y: 0, Z: 0}
	forward := Vec3{X: 0, Y: 1, Z: 0}
	up := Vec3{X: 0, Y: 0, Z: 1}

	pose := CameraPose(pos, forward, up)
	if pose.Target != (Vec3{X: 7000, Y: 1, Z: 0}) {
		t.Errorf("expected target position+forward, got %v", pose.Target)
	}
	if pose.Up != (Vec3{X: 0, Y: 0, Z: -1}) {
		t.Errorf("expected negated up axis, got %v", pose.Up)
	}
}

func TestSampleCameraPoseInterpolatesAxes(t *testing.T) {
	coords := []Vec3{{X: 0}, {X: 10}}
	axes := []Axes{
		{{X: 1}, {Z: 1}, {Y: 1}},
		{{Y: 1}, {Z: 3}, {Y: 1}},
	}

	pose, ok := SampleCameraPose(coords, axes, 0, 0.5)
	if !ok {
		t.Fatal("expected pose")
	}
	if !approxEqual(pose.Position, Vec3{X: 5}, 1e-12) {
		t.Errorf("unexpected position %v", pose.Position)
	}
	// forward = (0.5, 0.5, 0), target = position + forward
	if !approxEqual(pose.Target, Vec3{X: 5.5, Y: 0.5}, 1e-12) {
		t.Errorf("unexpected target %v", pose.Target)
	}
	if !approxEqual(pose.Up, Vec3{Z: -2}, 1e-12) {
		t.Errorf("unexpected up %v", pose.Up)
	}

	if _, ok := SampleCameraPose(coords, nil, 0, 0.5); ok {
		t.Error("missing axes should not produce a pose")
	}
}

func TestInterpolateEpoch(t *testing.T) {
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	epochs := []time.Time{base, base.Add(time.Minute), base.Add(2 * time.Minute)}

	got, ok := InterpolateEpoch(epochs, 1, 0.25)
	if !ok {
		t.Fatal("expected epoch")
	}
	if want := base.Add(75 * time.Second); !got.Equal(want) {
		t.Errorf("expected %v, got %v", want, got)
	}

	got, _ = InterpolateEpoch(epochs, 0, 0)
	if !got.Equal(base) {
		t.Errorf("expected exact first epoch, got %v", got)
	}
}
