// Event camera simulator - runs the CPU event filter over an ordered
// sequence of rendered frames and writes one event image per frame.
//
// Usage: go run ./cmd/eventsim -out events frames/*.png
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"

	"github.com/pthm-cable/satview/config"
	"github.com/pthm-cable/satview/eventcam"
	"github.com/pthm-cable/satview/renderer"
)

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	outDir := flag.String("out", "events", "Output directory for event images")
	pauseFrom := flag.Int("pause-from", -1, "Treat frames from this index on as paused (-1 = never)")
	fps := flag.Float64("fps", 60, "Frame rate used for the noise time input")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	paths := flag.Args()
	if len(paths) == 0 {
		slog.Error("no input frames given")
		os.Exit(1)
	}
	slices.Sort(paths)

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	ec := config.Cfg().EventCamera

	if err := os.MkdirAll(*outDir, 0755); err != nil {
		slog.Error("failed to create output directory", "error", err)
		os.Exit(1)
	}

	filter := eventcam.NewFilter(eventcam.Params{
		PosThreshold:  ec.PosThreshold,
		NegThreshold:  ec.NegThreshold,
		DecayRate:     ec.DecayRate,
		NoiseStrength: ec.NoiseStrength,
		Seed:          ec.Seed,
	})

	var previous, lastActive *eventcam.Frame
	for i, path := range paths {
		current, err := renderer.LoadFrame(path)
		if err != nil {
			slog.Error("failed to load frame", "path", path, "error", err)
			os.Exit(1)
		}

		paused := *pauseFrom >= 0 && i >= *pauseFrom
		if !paused {
			lastActive = current
		}

		events, err := filter.Compute(current, previous, lastActive, paused, float64(i) / *fps)
		if err != nil {
			slog.Error("filter failed", "path", path, "error", err)
			os.Exit(1)
		}
		previous = current

		out := filepath.Join(*outDir, fmt.Sprintf("events_%04d.png", i))
		if err := renderer.ExportEvents(events, out); err != nil {
			slog.Error("failed to write events", "path", out, "error", err)
			os.Exit(1)
		}
		slog.Info("frame filtered", "in", path, "out", out, "paused", paused, "active", activePixels(events))
	}
}

// activePixels counts pixels holding a fresh event.
func activePixels(e *eventcam.EventFrame) int {
	n := 0
	for i := range e.Pos {
		if e.Pos[i] >= 1 || e.Neg[i] >= 1 {
			n++
		}
	}
	return n
}
