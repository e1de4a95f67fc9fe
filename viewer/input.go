package viewer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/satview/camera"
	"github.com/pthm-cable/satview/playback"
)

// Orbit camera sensitivities.
const (
	rotateSpeed = 0.005 // Radians per pixel dragged
	zoomStep    = 0.1   // Distance change per wheel notch
)

// handleInput turns keyboard and mouse input into commands.
func (v *Viewer) handleInput() []playback.Command {
	v.handleResize()

	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}

	var cmds []playback.Command
	if rl.IsKeyPressed(rl.KeySpace) {
		cmds = append(cmds, playback.TogglePlay{})
	}
	if rl.IsKeyPressed(rl.KeyUp) {
		cmds = append(cmds, playback.SetSpeed{Speed: clampSpeed(v.frame.Speed*2, v.vcfg)})
	}
	if rl.IsKeyPressed(rl.KeyDown) {
		cmds = append(cmds, playback.SetSpeed{Speed: clampSpeed(v.frame.Speed/2, v.vcfg)})
	}
	if rl.IsKeyPressed(rl.KeyHome) {
		cmds = append(cmds, playback.ScrubTo{Fraction: 0})
	}
	if rl.IsKeyPressed(rl.KeyP) {
		v.download = true
	}

	v.overlays.HandleKeys()
	v.handleCameraInput()

	return cmds
}

// handleResize checks for window resize and propagates new dimensions.
func (v *Viewer) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	w := float32(rl.GetScreenWidth())
	h := float32(rl.GetScreenHeight())
	if w == v.screenWidth && h == v.screenHeight {
		return
	}
	v.screenWidth = w
	v.screenHeight = h
	v.layout()
}

// layout anchors the playback panel to the bottom edge.
func (v *Viewer) layout() {
	v.panel.Move(0, int32(v.screenHeight)-v.panel.Height(), int32(v.screenWidth))
}

// handleCameraInput drives the orbit camera and hover picking.
func (v *Viewer) handleCameraInput() {
	if v.orbit == nil {
		return
	}

	mouse := rl.GetMousePosition()
	overPanel := v.panel.Contains(mouse)

	if !overPanel && rl.IsMouseButtonDown(rl.MouseButtonLeft) {
		d := rl.GetMouseDelta()
		v.orbit.Rotate(-float64(d.X)*rotateSpeed, float64(d.Y)*rotateSpeed)
	}
	if wheel := rl.GetMouseWheelMove(); wheel != 0 && !overPanel {
		v.orbit.Zoom(1 - float64(wheel)*zoomStep)
	}
	if rl.IsKeyPressed(rl.KeyR) {
		v.orbit.Reset()
	}
	v.orbit.Update()

	if overPanel {
		v.scene.ClearHover()
		return
	}
	cam := v.presenter.Camera(&v.frame, v.orbit)
	ray := v.presenter.Ray(cam, mouse, v.screenWidth, v.screenHeight)
	if id, ok := camera.Pick(ray, v.presenter.PickTargets(&v.frame, cam)); ok {
		v.scene.Hover(id)
	} else {
		v.scene.ClearHover()
	}
}
