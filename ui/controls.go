package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/satview/playback"
	"github.com/pthm-cable/satview/scene"
)

// PanelActions is what the user asked for through the panel this frame.
type PanelActions struct {
	Commands []playback.Command
	Download bool
}

// PlaybackPanel renders the bottom playback controls. It never changes
// playback state itself; it returns commands for the caller to apply.
type PlaybackPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32

	speedMin, speedMax float32
	overlays           *OverlayRegistry
}

// NewPlaybackPanel creates a panel at (x, y). overlays supplies the view
// toggles shown as checkboxes.
func NewPlaybackPanel(x, y, width int32, speedMin, speedMax float64, overlays *OverlayRegistry) *PlaybackPanel {
	return &PlaybackPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
		speedMin: float32(speedMin),
		speedMax: float32(speedMax),
		overlays: overlays,
	}
}

// Height returns the panel height in pixels.
func (p *PlaybackPanel) Height() int32 {
	return p.renderer.Theme.Padding*2 + 4*rowHeight
}

// Move repositions the panel, e.g. after a window resize.
func (p *PlaybackPanel) Move(x, y, width int32) {
	p.x, p.y, p.width = x, y, width
}

// Contains reports whether a screen point lies over the panel.
func (p *PlaybackPanel) Contains(pt rl.Vector2) bool {
	return rl.CheckCollisionPointRec(pt, rl.Rectangle{
		X: float32(p.x), Y: float32(p.y), Width: float32(p.width), Height: float32(p.Height()),
	})
}

const rowHeight = 30

// Draw renders the panel for f and collects the user's actions.
func (p *PlaybackPanel) Draw(f *scene.Frame) PanelActions {
	var act PanelActions
	r := p.renderer
	pad := float32(r.Theme.Padding)

	r.DrawPanel(p.x, p.y, p.width, p.Height())

	x := float32(p.x) + pad
	y := float32(p.y) + pad
	inner := float32(p.width) - 2*pad

	// Row 1: transport and export
	label := "Play"
	if f.Playing {
		label = "Pause"
	}
	if gui.Button(rl.Rectangle{X: x, Y: y, Width: 90, Height: 24}, label) {
		act.Commands = append(act.Commands, playback.TogglePlay{})
	}
	if gui.Button(rl.Rectangle{X: x + 100, Y: y, Width: 90, Height: 24}, "Download") {
		act.Download = true
	}
	rl.DrawText(f.EpochLabel, int32(x+210), int32(y+5), r.Theme.HeaderFontSize, r.Theme.ValueColor)
	y += rowHeight

	// Row 2: speed
	rl.DrawText("Speed", int32(x), int32(y+4), r.Theme.FontSize, r.Theme.LabelColor)
	speed := float32(f.Speed)
	newSpeed := gui.SliderBar(
		rl.Rectangle{X: x + 60, Y: y, Width: inner - 140, Height: 20},
		"", "",
		speed, p.speedMin, p.speedMax,
	)
	rl.DrawText(fmt.Sprintf("x%.0f", f.Speed), int32(x+inner-70), int32(y+4), r.Theme.FontSize, r.Theme.ValueColor)
	if newSpeed != speed {
		act.Commands = append(act.Commands, playback.SetSpeed{Speed: float64(newSpeed)})
	}
	y += rowHeight

	// Row 3: progress, dragging scrubs
	rl.DrawText("Time", int32(x), int32(y+4), r.Theme.FontSize, r.Theme.LabelColor)
	progress := float32(f.Progress)
	newProgress := gui.SliderBar(
		rl.Rectangle{X: x + 60, Y: y, Width: inner - 140, Height: 20},
		"", "",
		progress, 0, 1,
	)
	rl.DrawText(fmt.Sprintf("%d", f.Step), int32(x+inner-70), int32(y+4), r.Theme.FontSize, r.Theme.ValueColor)
	if newProgress != progress {
		act.Commands = append(act.Commands, playback.ScrubTo{Fraction: float64(newProgress)})
	}
	y += rowHeight

	// Row 4: view toggles
	if p.overlays != nil {
		cx := x
		for _, desc := range p.overlays.All() {
			text := fmt.Sprintf("%s [%s]", desc.Name, desc.KeyLabel)
			on := gui.CheckBox(rl.Rectangle{X: cx, Y: y + 4, Width: 16, Height: 16}, text, p.overlays.IsEnabled(desc.ID))
			if on != p.overlays.IsEnabled(desc.ID) {
				p.overlays.SetEnabled(desc.ID, on)
			}
			cx += 140
		}
	}

	return act
}
