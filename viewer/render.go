package viewer

import (
	"log/slog"
	"path/filepath"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/satview/renderer"
	"github.com/pthm-cable/satview/telemetry"
	"github.com/pthm-cable/satview/trajectory"
	"github.com/pthm-cable/satview/ui"
)

// Update runs input, pending commands and the scene tick for one frame.
func (v *Viewer) Update() {
	if !v.initialized {
		v.Init()
	}
	wall := rl.GetTime()

	v.perf.StartTick()
	v.perf.StartPhase(telemetry.PhaseInput)
	cmds := append(v.pending, v.handleInput()...)
	v.pending = nil

	v.perf.StartPhase(telemetry.PhaseAdvance)
	for _, cmd := range cmds {
		v.apply(cmd, wall)
	}
	v.tick(wall)
}

// Draw presents the current frame and the panels.
func (v *Viewer) Draw() {
	wall := rl.GetTime()

	v.perf.StartPhase(telemetry.PhasePresent)
	if v.frameOK || v.display.ID == 0 {
		v.presenter.Magnify = v.overlays.IsEnabled(ui.OverlayMagnify)
		v.presenter.ShowAxes = v.overlays.IsEnabled(ui.OverlayAxes)

		cam := v.presenter.Camera(&v.frame, v.orbit)
		v.presenter.Render(&v.frame, cam, v.trail())
		v.display = v.presenter.Target().Texture

		if v.events != nil && v.events.Ready() {
			v.perf.StartPhase(telemetry.PhaseFilter)
			out := v.events.Apply(v.presenter.Target(), v.frame.Playing, float32(wall))
			if v.overlays.IsEnabled(ui.OverlayEvents) {
				v.display = out
			}
		}
	}

	rl.BeginDrawing()
	rl.ClearBackground(rl.Black)
	renderer.Present(v.display, v.screenWidth, v.screenHeight)

	v.perf.StartPhase(telemetry.PhaseUI)
	act := v.panel.Draw(&v.frame)
	if v.overlays.IsEnabled(ui.OverlayInfo) {
		v.info.Draw(v.infoData())
	}
	rl.EndDrawing()

	v.pending = append(v.pending, act.Commands...)
	v.download = v.download || act.Download

	v.perf.StartPhase(telemetry.PhaseOutput)
	if v.download {
		v.download = false
		v.export()
	}
	v.record(wall)
	v.perf.EndTick()
	v.perf.RecordFrame()
	v.frames++
	v.logStats(wall)
}

// trail returns the hovered body's polyline in the orbit view.
func (v *Viewer) trail() []trajectory.Vec3 {
	if v.orbit == nil {
		return nil
	}
	id, ok := v.scene.Hovered()
	if !ok {
		return nil
	}
	return v.scene.Trajectory(id)
}

// export saves the displayed frame as a still image.
func (v *Viewer) export() {
	path := filepath.Join(v.opts.ExportDir, v.scene.ExportFilename(v.frame))
	if err := renderer.Export(v.display, path); err != nil {
		slog.Error("export failed", "path", path, "error", err)
		return
	}
	slog.Info("frame exported", "path", path, "epoch", v.frame.EpochLabel)
}

func (v *Viewer) infoData() *ui.InfoData {
	d := &ui.InfoData{
		Frame:   &v.frame,
		FPS:     rl.GetFPS(),
		Variant: v.variant.Name,
	}
	if id, ok := v.scene.Hovered(); ok {
		if b, ok := v.frame.Body(id); ok {
			d.Hovered = &b
		}
	}
	return d
}
