// Package camera provides an orbit camera for the external view.
package camera

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// maxPitch keeps the camera off the poles so the Z-up basis stays defined.
const maxPitch = math.Pi/2 - 0.01

// Orbit circles a target point with +Z up. Angles are radians, distances km.
type Orbit struct {
	Target   r3.Vec
	Yaw      float64 // Around +Z, from +X
	Pitch    float64 // Above the XY plane
	Distance float64

	// Distance constraints
	MinDistance, MaxDistance float64

	// Damping is the fraction of pending rotation applied per Update (1 = none)
	Damping float64

	pendingYaw, pendingPitch float64

	home placement
}

// placement is a saved camera pose.
type placement struct {
	yaw, pitch, distance float64
}

// New creates a camera looking at the origin from eye.
func New(eye r3.Vec, minDist, maxDist, damping float64) *Orbit {
	dist := r3.Norm(eye)
	yaw := math.Atan2(eye.Y, eye.X)
	pitch := 0.0
	if dist > 0 {
		pitch = math.Asin(eye.Z / dist)
	}
	if damping <= 0 || damping > 1 {
		damping = 1
	}

	c := &Orbit{
		MinDistance: minDist,
		MaxDistance: maxDist,
		Damping:     damping,
	}
	c.home = placement{yaw: yaw, pitch: clamp(pitch, -maxPitch, maxPitch), distance: clamp(dist, minDist, maxDist)}
	c.Reset()
	return c
}

// Rotate queues a rotation. Update applies it gradually.
func (c *Orbit) Rotate(dYaw, dPitch float64) {
	c.pendingYaw += dYaw
	c.pendingPitch += dPitch
}

// Zoom scales the distance by factor, clamped to the limits.
// Factors below 1 move closer.
func (c *Orbit) Zoom(factor float64) {
	if factor <= 0 {
		return
	}
	c.Distance = clamp(c.Distance*factor, c.MinDistance, c.MaxDistance)
}

// Update applies the damped share of pending rotation.
func (c *Orbit) Update() {
	dy := c.pendingYaw * c.Damping
	dp := c.pendingPitch * c.Damping
	c.Yaw = math.Mod(c.Yaw+dy, 2*math.Pi)
	c.Pitch = clamp(c.Pitch+dp, -maxPitch, maxPitch)
	c.pendingYaw -= dy
	c.pendingPitch -= dp
}

// Settled reports whether no rotation is pending.
func (c *Orbit) Settled() bool {
	return math.Abs(c.pendingYaw) < 1e-6 && math.Abs(c.pendingPitch) < 1e-6
}

// Position returns the eye position.
func (c *Orbit) Position() r3.Vec {
	cp := math.Cos(c.Pitch)
	dir := r3.Vec{
		X: cp * math.Cos(c.Yaw),
		Y: cp * math.Sin(c.Yaw),
		Z: math.Sin(c.Pitch),
	}
	return r3.Add(c.Target, r3.Scale(c.Distance, dir))
}

// Up returns the camera up vector.
func (c *Orbit) Up() r3.Vec {
	return r3.Vec{Z: 1}
}

// Reset returns the camera to its initial placement and drops pending motion.
func (c *Orbit) Reset() {
	c.Yaw = c.home.yaw
	c.Pitch = c.home.pitch
	c.Distance = c.home.distance
	c.pendingYaw = 0
	c.pendingPitch = 0
}

// clamp restricts a value to a range.
func clamp(x, min, max float64) float64 {
	if x < min {
		return min
	}
	if x > max {
		return max
	}
	return x
}
