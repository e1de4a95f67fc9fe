// Shader debug tool - runs the GPU event pass over two frames, writes the
// result to a PNG and compares it with the CPU filter.
//
// Usage: go run ./cmd/shaderdebug -previous a.png -current b.png -out events.png
package main

import (
	"flag"
	"fmt"
	"os"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/satview/config"
	"github.com/pthm-cable/satview/eventcam"
	"github.com/pthm-cable/satview/renderer"
)

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	previousPath := flag.String("previous", "", "Previous frame PNG")
	currentPath := flag.String("current", "", "Current frame PNG")
	outPath := flag.String("out", "events.png", "Output PNG path")
	tolerance := flag.Int("tolerance", 2, "Per-channel difference (0-255) tolerated against the CPU filter")
	flag.Parse()

	if *previousPath == "" || *currentPath == "" {
		fmt.Fprintln(os.Stderr, "both -previous and -current are required")
		os.Exit(1)
	}
	if err := config.Init(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	ec := config.Cfg().EventCamera
	params := eventcam.Params{
		PosThreshold:  ec.PosThreshold,
		NegThreshold:  ec.NegThreshold,
		DecayRate:     ec.DecayRate,
		NoiseStrength: ec.NoiseStrength,
		Seed:          ec.Seed,
	}

	prevImg := rl.LoadImage(*previousPath)
	curImg := rl.LoadImage(*currentPath)
	defer rl.UnloadImage(prevImg)
	defer rl.UnloadImage(curImg)
	if prevImg.Width != curImg.Width || prevImg.Height != curImg.Height || curImg.Width == 0 {
		fmt.Fprintf(os.Stderr, "Frames must be non-empty and the same size, got %dx%d and %dx%d\n",
			prevImg.Width, prevImg.Height, curImg.Width, curImg.Height)
		os.Exit(1)
	}
	w, h := curImg.Width, curImg.Height

	// Initialize raylib with hidden window
	rl.SetConfigFlags(rl.FlagWindowHidden)
	rl.InitWindow(w, h, "Shader Debug")
	defer rl.CloseWindow()

	prev := loadTarget(prevImg)
	cur := loadTarget(curImg)
	defer rl.UnloadRenderTexture(prev)
	defer rl.UnloadRenderTexture(cur)

	pass := renderer.NewEventPass(w, h, params)
	pass.Init()
	defer pass.Unload()
	if !pass.Ready() {
		fmt.Fprintln(os.Stderr, "Failed to compile event shader")
		os.Exit(1)
	}

	// The first frame primes the comparison targets
	pass.Apply(prev, true, 0)
	out := pass.Apply(cur, true, 0)

	if err := renderer.Export(out, *outPath); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to export image: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Event pass rendered to: %s (%dx%d)\n", *outPath, w, h)

	// Same two frames through the CPU filter
	filter := eventcam.NewFilter(params)
	cpuPrev := renderer.FrameFromImage(prevImg)
	cpuCur := renderer.FrameFromImage(curImg)
	if _, err := filter.Compute(cpuPrev, nil, nil, false, 0); err != nil {
		fmt.Fprintf(os.Stderr, "CPU filter failed: %v\n", err)
		os.Exit(1)
	}
	want, err := filter.Compute(cpuCur, cpuPrev, cpuCur, false, 0)
	if err != nil {
		fmt.Fprintf(os.Stderr, "CPU filter failed: %v\n", err)
		os.Exit(1)
	}

	gotImg := rl.LoadImageFromTexture(out)
	rl.ImageFlipVertical(gotImg)
	got := renderer.FrameFromImage(gotImg)
	rl.UnloadImage(gotImg)

	wantImg := want.Image()
	mismatched := 0
	for i, c := range got.Pix {
		if absDiff(c.R, wantImg.Pix[i*4]) > *tolerance || absDiff(c.B, wantImg.Pix[i*4+2]) > *tolerance {
			mismatched++
		}
	}
	fmt.Printf("CPU comparison: %d of %d pixels differ by more than %d\n", mismatched, len(got.Pix), *tolerance)
}

// loadTarget uploads img into a render target the event pass can read.
func loadTarget(img *rl.Image) rl.RenderTexture2D {
	tex := rl.LoadTextureFromImage(img)
	defer rl.UnloadTexture(tex)

	target := rl.LoadRenderTexture(img.Width, img.Height)
	rl.BeginTextureMode(target)
	rl.ClearBackground(rl.Black)
	rl.DrawTexture(tex, 0, 0, rl.White)
	rl.EndTextureMode()
	return target
}

func absDiff(a, b uint8) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}
