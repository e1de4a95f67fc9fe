package renderer

import (
	_ "embed"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/satview/eventcam"
)

//go:embed shaders/event.vs
var eventVS string

//go:embed shaders/event.fs
var eventFS string

// EventPass runs the event-camera filter on the GPU. It keeps the previous
// frame, the last frame rendered while playing, and a ping-pong pair of
// persistence targets.
type EventPass struct {
	width, height int32
	params        eventcam.Params

	shader        rl.Shader
	previousLoc   int32
	lastActiveLoc int32
	persistLoc    int32
	timeLoc       int32
	pausedLoc     int32

	previous   rl.RenderTexture2D
	lastActive rl.RenderTexture2D
	persist    [2]rl.RenderTexture2D
	read       int // Index of the newest persistence target

	primed      bool
	initialized bool
}

// NewEventPass creates an event pass for width x height frames.
func NewEventPass(width, height int32, params eventcam.Params) *EventPass {
	return &EventPass{width: width, height: height, params: params}
}

// Init compiles the shader and allocates targets (must be called after the
// raylib window is created).
func (e *EventPass) Init() {
	if e.initialized {
		return
	}

	e.shader = rl.LoadShaderFromMemory(eventVS, eventFS)
	e.previousLoc = rl.GetShaderLocation(e.shader, "previousFrame")
	e.lastActiveLoc = rl.GetShaderLocation(e.shader, "lastActiveFrame")
	e.persistLoc = rl.GetShaderLocation(e.shader, "persistence")
	e.timeLoc = rl.GetShaderLocation(e.shader, "time")
	e.pausedLoc = rl.GetShaderLocation(e.shader, "isPaused")

	setFloat := func(name string, v float64) {
		rl.SetShaderValue(e.shader, rl.GetShaderLocation(e.shader, name), []float32{float32(v)}, rl.ShaderUniformFloat)
	}
	setFloat("posThreshold", e.params.PosThreshold)
	setFloat("negThreshold", e.params.NegThreshold)
	setFloat("decayRate", e.params.DecayRate)
	setFloat("noiseStrength", e.params.NoiseStrength)
	setFloat("seed", e.params.Seed)

	e.previous = rl.LoadRenderTexture(e.width, e.height)
	e.lastActive = rl.LoadRenderTexture(e.width, e.height)
	e.persist[0] = rl.LoadRenderTexture(e.width, e.height)
	e.persist[1] = rl.LoadRenderTexture(e.width, e.height)

	e.initialized = true
	e.Reset()
}

// Ready reports whether the shader compiled.
func (e *EventPass) Ready() bool {
	return e.initialized && e.shader.ID != 0
}

// Reset clears the persisted events and forgets the previous frames.
func (e *EventPass) Reset() {
	if !e.initialized {
		return
	}
	for _, t := range e.persist {
		rl.BeginTextureMode(t)
		rl.ClearBackground(rl.Black)
		rl.EndTextureMode()
	}
	e.primed = false
}

// Apply filters current and returns the event frame texture. While playing
// the last-active snapshot is refreshed first; while paused it becomes the
// comparison frame.
func (e *EventPass) Apply(current rl.RenderTexture2D, playing bool, time float32) rl.Texture2D {
	if !e.initialized {
		e.Init()
	}

	if !e.primed {
		blit(e.previous, current.Texture)
		blit(e.lastActive, current.Texture)
		e.primed = true
	}
	if playing {
		blit(e.lastActive, current.Texture)
	}

	paused := float32(1)
	if playing {
		paused = 0
	}

	write := 1 - e.read
	rl.BeginTextureMode(e.persist[write])
	rl.ClearBackground(rl.Black)
	rl.BeginShaderMode(e.shader)
	rl.SetShaderValue(e.shader, e.timeLoc, []float32{time}, rl.ShaderUniformFloat)
	rl.SetShaderValue(e.shader, e.pausedLoc, []float32{paused}, rl.ShaderUniformFloat)
	rl.SetShaderValueTexture(e.shader, e.previousLoc, e.previous.Texture)
	rl.SetShaderValueTexture(e.shader, e.lastActiveLoc, e.lastActive.Texture)
	rl.SetShaderValueTexture(e.shader, e.persistLoc, e.persist[e.read].Texture)
	drawFlipped(current.Texture, e.width, e.height)
	rl.EndShaderMode()
	rl.EndTextureMode()
	e.read = write

	blit(e.previous, current.Texture)

	return e.persist[e.read].Texture
}

// Output returns the newest event frame.
func (e *EventPass) Output() rl.Texture2D {
	return e.persist[e.read].Texture
}

// Unload frees the shader and targets.
func (e *EventPass) Unload() {
	if !e.initialized {
		return
	}
	rl.UnloadShader(e.shader)
	rl.UnloadRenderTexture(e.previous)
	rl.UnloadRenderTexture(e.lastActive)
	rl.UnloadRenderTexture(e.persist[0])
	rl.UnloadRenderTexture(e.persist[1])
	e.initialized = false
}

// blit copies src into dst keeping render-target orientation.
func blit(dst rl.RenderTexture2D, src rl.Texture2D) {
	rl.BeginTextureMode(dst)
	rl.ClearBackground(rl.Blank)
	drawFlipped(src, dst.Texture.Width, dst.Texture.Height)
	rl.EndTextureMode()
}

func drawFlipped(src rl.Texture2D, w, h int32) {
	rect := rl.Rectangle{Width: float32(src.Width), Height: -float32(src.Height)}
	rl.DrawTexturePro(src, rect, rl.Rectangle{Width: float32(w), Height: float32(h)}, rl.Vector2{}, 0, rl.White)
}
