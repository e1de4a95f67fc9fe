// Package renderer draws playback frames with raylib.
package renderer

import (
	"math"
	"strconv"

	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/satview/camera"
	"github.com/pthm-cable/satview/components"
	"github.com/pthm-cable/satview/config"
	"github.com/pthm-cable/satview/scene"
	"github.com/pthm-cable/satview/trajectory"
)

// sunDistance places the sun marker just inside the far clip plane (render units).
const sunDistance = 900

// pickSlack widens hit spheres in proportion to their distance from the eye.
const pickSlack = 0.015

// Presenter draws scene frames into an off-screen target so they can be
// filtered and exported before reaching the screen.
type Presenter struct {
	width, height int32
	target        rl.RenderTexture2D
	scale         float64 // Render units per km
	fovy          float32
	style         config.SceneConfig

	// Orbit view toggles
	Magnify  bool
	ShowAxes bool

	initialized bool
}

// NewPresenter creates a presenter with a width x height target.
func NewPresenter(width, height int32, variant config.VariantConfig, style config.SceneConfig) *Presenter {
	return &Presenter{
		width:  width,
		height: height,
		scale:  variant.RenderScale,
		fovy:   float32(variant.FieldOfView),
		style:  style,
	}
}

// Init allocates the render target (must be called after the raylib window is created).
func (p *Presenter) Init() {
	if p.initialized {
		return
	}
	p.target = rl.LoadRenderTexture(p.width, p.height)
	p.initialized = true
}

// Size returns the target dimensions.
func (p *Presenter) Size() (int32, int32) { return p.width, p.height }

// Target returns the off-screen target holding the last rendered frame.
func (p *Presenter) Target() rl.RenderTexture2D { return p.target }

// Camera builds the raylib camera for f. First-person frames ride the
// observing body; otherwise the orbit camera is used.
func (p *Presenter) Camera(f *scene.Frame, orbit *camera.Orbit) rl.Camera3D {
	cam := rl.Camera3D{Fovy: p.fovy, Projection: rl.CameraPerspective}
	if f != nil && f.Camera != nil {
		eye := f.Camera.Position
		fwd := unit(r3.Sub(f.Camera.Target, eye), r3.Vec{X: 1})
		cam.Position = p.vec(eye)
		cam.Target = toRL(r3.Add(r3.Scale(p.scale, eye), fwd))
		cam.Up = toRL(unit(f.Camera.Up, r3.Vec{Z: 1}))
		return cam
	}
	if orbit != nil {
		cam.Position = p.vec(orbit.Position())
		cam.Target = p.vec(orbit.Target)
		cam.Up = toRL(orbit.Up())
	}
	return cam
}

// Render draws f into the target. trail is the hovered body's polyline.
func (p *Presenter) Render(f *scene.Frame, cam rl.Camera3D, trail []trajectory.Vec3) {
	if !p.initialized {
		p.Init()
	}

	rl.BeginTextureMode(p.target)
	rl.ClearBackground(ColorSpace)
	rl.BeginMode3D(cam)

	p.drawEarth(f.EarthRotation)
	if f.HasSun {
		p.drawSun(f.Sun, cam)
	}
	firstPerson := f.Camera != nil
	for _, b := range f.Bodies {
		if firstPerson && b.Observant {
			continue
		}
		p.drawBody(b)
		if p.ShowAxes && b.HasAxes {
			p.drawAxes(b)
		}
	}
	p.drawTrail(trail)

	rl.EndMode3D()

	for _, b := range f.Bodies {
		if b.Hovered {
			p.drawLabel(b, cam)
		}
	}
	rl.EndTextureMode()
}

func (p *Presenter) drawEarth(rotation float64) {
	radius := float32(p.style.EarthRadius * p.scale)

	rl.PushMatrix()
	rl.Rotatef(float32(rotation*180/math.Pi), 0, 0, 1)

	rl.DrawSphereEx(rl.Vector3{}, radius, 32, 32, ColorEarth)
	rl.DrawCircle3D(rl.Vector3{}, radius*1.002, rl.Vector3{X: 1}, 0, ColorEquator)

	// Prime meridian, pole to pole in the XZ plane
	const segments = 32
	r := radius * 1.003
	prev := rl.Vector3{Z: -r}
	for i := 1; i <= segments; i++ {
		lat := -math.Pi/2 + math.Pi*float64(i)/segments
		next := rl.Vector3{X: r * float32(math.Cos(lat)), Z: r * float32(math.Sin(lat))}
		rl.DrawLine3D(prev, next, ColorMeridian)
		prev = next
	}

	rl.PopMatrix()
}

func (p *Presenter) drawSun(sun trajectory.Vec3, cam rl.Camera3D) {
	dir := unit(sun, r3.Vec{X: 1})
	pos := r3.Add(fromRL(cam.Position), r3.Scale(sunDistance, dir))
	rl.DrawSphere(toRL(pos), sunDistance*0.02, ColorSun)
}

// BodyExtent returns the drawn length and radius of b in km.
func (p *Presenter) BodyExtent(b scene.BodyPose) (length, radius float64) {
	length = math.Max(b.Length, p.style.MinBodySize)
	diameter := b.Diameter
	if diameter <= 0 {
		diameter = length
	}
	radius = math.Max(diameter/2, p.style.MinBodySize/2)
	if p.Magnify {
		length *= p.style.MagnifyFactor
		radius *= p.style.MagnifyFactor
	}
	return length, radius
}

func (p *Presenter) drawBody(b scene.BodyPose) {
	length, radius := p.BodyExtent(b)
	color := KindColor(b.Kind)

	axis := r3.Vec{Z: 1}
	if b.HasAxes {
		axis = unit(b.BodyAxes.Forward(), axis)
	}
	half := r3.Scale(length/2, axis)
	tail := p.vec(r3.Sub(b.Position, half))
	head := p.vec(r3.Add(b.Position, half))
	pos := p.vec(b.Position)
	r := float32(radius * p.scale)

	switch b.Shape {
	case components.ShapeSphere:
		rl.DrawSphere(pos, r, color)
	case components.ShapeCylinder:
		rl.DrawCylinderEx(tail, head, r, r, 12, color)
	case components.ShapeCone:
		rl.DrawCylinderEx(tail, head, r, 0, 12, color)
	default:
		rl.DrawCube(pos, 2*r, 2*r, float32(length*p.scale), color)
	}

	if b.Hovered {
		rl.DrawSphereWires(pos, float32(math.Max(length/2, radius)*p.scale)*1.5, 8, 8, ColorHighlight)
	}
}

func (p *Presenter) drawAxes(b scene.BodyPose) {
	origin := p.vec(b.Position)
	for i, a := range b.BodyAxes {
		end := r3.Add(b.Position, r3.Scale(p.style.BodyAxisLength, unit(a, r3.Vec{})))
		rl.DrawLine3D(origin, p.vec(end), axisColors[i])
	}
	for i, a := range b.OrbitAxes {
		end := r3.Add(b.Position, r3.Scale(p.style.OrbitAxisLength, unit(a, r3.Vec{})))
		rl.DrawLine3D(origin, p.vec(end), dim(axisColors[i]))
	}
}

func (p *Presenter) drawTrail(trail []trajectory.Vec3) {
	for i := 1; i < len(trail); i++ {
		rl.DrawLine3D(p.vec(trail[i-1]), p.vec(trail[i]), ColorTrail)
	}
}

func (p *Presenter) drawLabel(b scene.BodyPose, cam rl.Camera3D) {
	name := b.Name
	if name == "" {
		name = strconv.Itoa(b.ID)
	}
	sp := rl.GetWorldToScreenEx(p.vec(b.Position), cam, p.width, p.height)
	rl.DrawText(name, int32(sp.X)+10, int32(sp.Y)-10, 16, ColorHighlight)
}

// PickTargets returns hit spheres (km) for every visible body in f.
func (p *Presenter) PickTargets(f *scene.Frame, cam rl.Camera3D) []camera.PickTarget {
	eye := r3.Scale(1/p.scale, fromRL(cam.Position))
	targets := make([]camera.PickTarget, 0, len(f.Bodies))
	for _, b := range f.Bodies {
		if f.Camera != nil && b.Observant {
			continue
		}
		length, radius := p.BodyExtent(b)
		r := math.Max(math.Max(length/2, radius), pickSlack*r3.Norm(r3.Sub(b.Position, eye)))
		targets = append(targets, camera.PickTarget{ID: b.ID, Center: b.Position, Radius: r})
	}
	return targets
}

// Ray casts a ray (km) through a point of the displayed target.
// screen is in pixels of a view of viewW x viewH.
func (p *Presenter) Ray(cam rl.Camera3D, screen rl.Vector2, viewW, viewH float32) camera.Ray {
	pt := rl.Vector2{
		X: screen.X * float32(p.width) / viewW,
		Y: screen.Y * float32(p.height) / viewH,
	}
	ray := rl.GetScreenToWorldRayEx(pt, cam, p.width, p.height)
	return camera.Ray{
		Origin: r3.Scale(1/p.scale, fromRL(ray.Position)),
		Dir:    fromRL(ray.Direction),
	}
}

// Unload frees the render target.
func (p *Presenter) Unload() {
	if p.initialized {
		rl.UnloadRenderTexture(p.target)
		p.initialized = false
	}
}

// Present draws a render texture onto the current framebuffer, flipped
// upright and stretched to w x h.
func Present(tex rl.Texture2D, w, h float32) {
	src := rl.Rectangle{Width: float32(tex.Width), Height: -float32(tex.Height)}
	rl.DrawTexturePro(tex, src, rl.Rectangle{Width: w, Height: h}, rl.Vector2{}, 0, rl.White)
}

func (p *Presenter) vec(v r3.Vec) rl.Vector3 {
	return toRL(r3.Scale(p.scale, v))
}

func toRL(v r3.Vec) rl.Vector3 {
	return rl.Vector3{X: float32(v.X), Y: float32(v.Y), Z: float32(v.Z)}
}

func fromRL(v rl.Vector3) r3.Vec {
	return r3.Vec{X: float64(v.X), Y: float64(v.Y), Z: float64(v.Z)}
}

// unit normalizes v, or returns fallback for a zero vector.
func unit(v, fallback r3.Vec) r3.Vec {
	n := r3.Norm(v)
	if n == 0 {
		return fallback
	}
	return r3.Scale(1/n, v)
}
