package renderer

import (
	"errors"
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/satview/eventcam"
)

// ErrExport is returned when an image cannot be written.
var ErrExport = errors.New("renderer: export failed")

// Export writes a render texture to an image file, upright.
func Export(tex rl.Texture2D, path string) error {
	img := rl.LoadImageFromTexture(tex)
	defer rl.UnloadImage(img)

	// Render textures are stored bottom-up
	rl.ImageFlipVertical(img)

	if !rl.ExportImage(*img, path) {
		return fmt.Errorf("%w: %s", ErrExport, path)
	}
	return nil
}

// LoadFrame reads an image file into a filter frame.
func LoadFrame(path string) (*eventcam.Frame, error) {
	img := rl.LoadImage(path)
	if img == nil || img.Data == nil {
		return nil, fmt.Errorf("loading %s: no image data", path)
	}
	defer rl.UnloadImage(img)
	return FrameFromImage(img), nil
}

// FrameFromImage copies raylib image pixels into a filter frame.
func FrameFromImage(img *rl.Image) *eventcam.Frame {
	colors := rl.LoadImageColors(img)
	defer rl.UnloadImageColors(colors)

	f := eventcam.NewFrame(int(img.Width), int(img.Height))
	copy(f.Pix, colors)
	return f
}

// ExportEvents writes an event frame to an image file.
func ExportEvents(ev *eventcam.EventFrame, path string) error {
	img := rl.NewImageFromImage(ev.Image())
	defer rl.UnloadImage(img)

	if !rl.ExportImage(*img, path) {
		return fmt.Errorf("%w: %s", ErrExport, path)
	}
	return nil
}
