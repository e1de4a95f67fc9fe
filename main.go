package main

import (
	"flag"
	"log/slog"
	"os"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/satview/config"
	"github.com/pthm-cable/satview/scenario"
	"github.com/pthm-cable/satview/scene"
	"github.com/pthm-cable/satview/viewer"
)

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	scenarioPath := flag.String("scenario", "", "Path to the encounter scenario JSON")
	variantName := flag.String("variant", "orbit", "Presentation: orbit, view or event")
	headless := flag.Bool("headless", false, "Run without graphics")
	maxFrames := flag.Int("max-frames", 0, "Stop after N frames (0 = unlimited, headless: one pass)")
	fps := flag.Float64("fps", 0, "Headless frame rate (0 = screen.target_fps)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	exportDir := flag.String("export-dir", "", "Directory for downloaded frames (empty = use config)")
	logStats := flag.Bool("log-stats", false, "Output perf stats via slog")

	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	if *scenarioPath == "" {
		slog.Error("missing -scenario")
		os.Exit(1)
	}
	scn, err := scenario.Load(*scenarioPath)
	if err != nil {
		slog.Error("failed to load scenario", "path", *scenarioPath, "error", err)
		os.Exit(1)
	}

	variant, err := scene.VariantByName(*variantName)
	if err != nil {
		slog.Error("invalid variant", "error", err)
		os.Exit(1)
	}

	opts := viewer.Options{
		LogStats:  *logStats,
		OutputDir: *outputDir,
		ExportDir: *exportDir,
	}

	if *headless {
		v, err := viewer.New(cfg, scn, variant, opts)
		if err != nil {
			slog.Error("failed to start", "error", err)
			os.Exit(1)
		}
		defer v.Unload()

		rate := *fps
		if rate == 0 {
			rate = float64(cfg.Screen.TargetFPS)
		}
		if _, err := v.RunHeadless(*maxFrames, rate); err != nil {
			slog.Error("headless run failed", "error", err)
			os.Exit(1)
		}
		return
	}

	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagMsaa4xHint)
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), "satview - "+variant.Name)
	defer rl.CloseWindow()

	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	v, err := viewer.New(cfg, scn, variant, opts)
	if err != nil {
		slog.Error("failed to start", "error", err)
		os.Exit(1)
	}
	defer v.Unload()
	v.Init()

	for !rl.WindowShouldClose() {
		v.Update()
		v.Draw()

		if *maxFrames > 0 && v.Frames() >= *maxFrames {
			slog.Info("max frames reached", "frames", v.Frames())
			break
		}
	}
}
