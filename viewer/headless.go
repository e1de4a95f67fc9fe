package viewer

import (
	"errors"
	"log/slog"
	"math"

	"github.com/pthm-cable/satview/playback"
	"github.com/pthm-cable/satview/telemetry"
)

// ErrInvalidFPS is returned by RunHeadless for a non-positive frame rate.
var ErrInvalidFPS = errors.New("viewer: frame rate must be positive")

// RunHeadless drives the scene with a synthetic wall clock at fps frames per
// second, without a window. maxFrames <= 0 runs one pass over the sequence.
// Paused variants are started first.
func (v *Viewer) RunHeadless(maxFrames int, fps float64) (telemetry.RangeSummary, error) {
	if fps <= 0 || math.IsNaN(fps) {
		return telemetry.RangeSummary{}, ErrInvalidFPS
	}
	clock := v.scene.Clock()
	if !clock.Playing() {
		v.apply(playback.Play{}, 0)
	}
	if maxFrames <= 0 {
		maxFrames = int(math.Ceil(clock.LoopDuration()*fps)) + 1
	}

	slog.Info("starting headless run",
		"variant", v.variant.Name,
		"frames", maxFrames,
		"fps", fps,
		"speed", clock.Speed(),
	)

	var history []telemetry.Sample
	for i := 0; i < maxFrames; i++ {
		wall := float64(i) / fps

		v.perf.StartTick()
		v.perf.StartPhase(telemetry.PhaseAdvance)
		v.tick(wall)

		v.perf.StartPhase(telemetry.PhaseOutput)
		if v.frameOK {
			history = append(history, telemetry.NewSample(v.frames, wall, &v.frame, v.observed))
			v.record(wall)
		}
		v.perf.EndTick()
		v.frames++
		v.logStats(wall)
	}
	v.flushSamples()

	summary := telemetry.SummarizeRanges(history)
	slog.Info("headless run complete", "frames", v.frames, "range", summary)
	return summary, nil
}
