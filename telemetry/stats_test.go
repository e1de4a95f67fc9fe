package telemetry

import (
	"math"
	"testing"

	"github.com/pthm-cable/satview/scene"
	"github.com/pthm-cable/satview/trajectory"
)

func encounterFrame(obs, tgt trajectory.Vec3) *scene.Frame {
	return &scene.Frame{
		EpochLabel: "2024-03-01T12:00:00.000Z",
		Step:       2,
		T:          0.25,
		Progress:   0.5,
		Playing:    true,
		Speed:      4,
		Bodies: []scene.BodyPose{
			{ID: 99001, Observant: true, Position: obs},
			{ID: 25544, Position: tgt},
		},
	}
}

func TestNewSampleRange(t *testing.T) {
	f := encounterFrame(trajectory.Vec3{X: 7000}, trajectory.Vec3{X: 7003, Y: 4})
	s := NewSample(7, 1.5, f, 25544)

	if s.Frame != 7 || s.Step != 2 || s.Bodies != 2 || !s.Playing || s.Speed != 4 {
		t.Errorf("unexpected sample fields: %+v", s)
	}
	if math.Abs(s.Range-5) > 1e-9 {
		t.Errorf("expected range 5, got %f", s.Range)
	}
}

func TestNewSampleUsesCameraWithoutObservantBody(t *testing.T) {
	f := encounterFrame(trajectory.Vec3{}, trajectory.Vec3{X: 10})
	f.Bodies = f.Bodies[1:]
	f.Camera = &trajectory.Pose{Position: trajectory.Vec3{X: 4}}

	if s := NewSample(0, 0, f, 25544); math.Abs(s.Range-6) > 1e-9 {
		t.Errorf("expected range 6 from the camera, got %f", s.Range)
	}
}

func TestNewSampleUnknownRange(t *testing.T) {
	f := encounterFrame(trajectory.Vec3{}, trajectory.Vec3{X: 10})
	if s := NewSample(0, 0, f, 1); s.Range != -1 {
		t.Errorf("expected unknown range -1, got %f", s.Range)
	}
}

func TestSummarizeRanges(t *testing.T) {
	samples := []Sample{
		{Epoch: "a", Range: 10},
		{Epoch: "b", Range: 2},
		{Epoch: "c", Range: -1},
		{Epoch: "d", Range: 6},
	}
	sum := SummarizeRanges(samples)

	if sum.Count != 3 {
		t.Errorf("expected 3 known ranges, got %d", sum.Count)
	}
	if sum.Min != 2 || sum.MinEpoch != "b" {
		t.Errorf("expected closest 2 at b, got %f at %s", sum.Min, sum.MinEpoch)
	}
	if math.Abs(sum.Mean-6) > 1e-9 {
		t.Errorf("expected mean 6, got %f", sum.Mean)
	}
	if math.Abs(sum.StdDev-4) > 1e-9 {
		t.Errorf("expected sample std dev 4, got %f", sum.StdDev)
	}
}

func TestSummarizeRangesEmpty(t *testing.T) {
	if sum := SummarizeRanges(nil); sum.Count != 0 || sum.Min != 0 {
		t.Errorf("expected zero summary, got %+v", sum)
	}
	if sum := SummarizeRanges([]Sample{{Range: 3}}); sum.StdDev != 0 {
		t.Errorf("expected zero std dev for one sample, got %f", sum.StdDev)
	}
}
