package telemetry

import (
	"log/slog"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/r3"
	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/satview/scene"
)

// Sample is one row of samples.csv: the playback position and encounter
// geometry of a presented frame.
type Sample struct {
	Frame    int     `csv:"frame"`
	Wall     float64 `csv:"wall"`
	Epoch    string  `csv:"epoch"`
	Step     int     `csv:"step"`
	T        float64 `csv:"t"`
	Progress float64 `csv:"progress"`
	Playing  bool    `csv:"playing"`
	Speed    float64 `csv:"speed"`
	Bodies   int     `csv:"bodies"`
	Wrapped  bool    `csv:"wrapped"`

	// Distance between the observing and observed bodies, km (-1 = unknown)
	Range float64 `csv:"range_km"`
}

// NewSample records f. observed is the catalog number of the observed body.
func NewSample(frame int, wall float64, f *scene.Frame, observed int) Sample {
	s := Sample{
		Frame:    frame,
		Wall:     wall,
		Epoch:    f.EpochLabel,
		Step:     f.Step,
		T:        f.T,
		Progress: f.Progress,
		Playing:  f.Playing,
		Speed:    f.Speed,
		Bodies:   len(f.Bodies),
		Wrapped:  f.Wrapped,
		Range:    -1,
	}

	var obs, tgt *scene.BodyPose
	for i := range f.Bodies {
		b := &f.Bodies[i]
		if b.Observant {
			obs = b
		}
		if b.ID == observed {
			tgt = b
		}
	}
	switch {
	case obs != nil && tgt != nil:
		s.Range = r3.Norm(r3.Sub(tgt.Position, obs.Position))
	case f.Camera != nil && tgt != nil:
		s.Range = r3.Norm(r3.Sub(tgt.Position, f.Camera.Position))
	}
	return s
}

// RangeSummary describes the encounter distance over a run.
type RangeSummary struct {
	Count    int
	Min      float64
	MinEpoch string
	Mean     float64
	StdDev   float64
}

// SummarizeRanges aggregates the known ranges of samples.
func SummarizeRanges(samples []Sample) RangeSummary {
	ranges := make([]float64, 0, len(samples))
	epochs := make([]string, 0, len(samples))
	for _, s := range samples {
		if s.Range >= 0 && !math.IsNaN(s.Range) {
			ranges = append(ranges, s.Range)
			epochs = append(epochs, s.Epoch)
		}
	}
	if len(ranges) == 0 {
		return RangeSummary{}
	}

	i := floats.MinIdx(ranges)
	sum := RangeSummary{
		Count:    len(ranges),
		Min:      ranges[i],
		MinEpoch: epochs[i],
	}
	sum.Mean, sum.StdDev = stat.MeanStdDev(ranges, nil)
	if len(ranges) == 1 {
		sum.StdDev = 0
	}
	return sum
}

// LogValue implements slog.LogValuer.
func (r RangeSummary) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("count", r.Count),
		slog.Float64("min_km", r.Min),
		slog.String("min_epoch", r.MinEpoch),
		slog.Float64("mean_km", r.Mean),
		slog.Float64("std_km", r.StdDev),
	)
}
