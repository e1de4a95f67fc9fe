// Package trajectory interpolates precomputed per-step samples by playback position.
//
// Every sequence is indexed cyclically: step i reads sample i mod len and
// blends toward sample (i+1) mod len by the interpolation factor t.
package trajectory

import (
	"time"

	"gonum.org/v1/gonum/spatial/r3"
)

// Vec3 is a position or direction in the scenario frame (km).
type Vec3 = r3.Vec

// Axes is one orientation sample: [0] forward axis, [1] up axis, [2] third axis.
type Axes [3]Vec3

// Forward returns the forward (look) axis.
func (a Axes) Forward() Vec3 { return a[0] }

// Up returns the stored up axis. It points opposite the camera's up direction.
func (a Axes) Up() Vec3 { return a[1] }

// Pose is a camera placement derived from an observing body.
type Pose struct {
	Position Vec3
	Target   Vec3
	Up       Vec3
}

// Indices returns the sample pair bracketing step in a sequence of the given length.
// length must be positive.
func Indices(length, step int) (i0, i1 int) {
	i0 = step % length
	if i0 < 0 {
		i0 += length
	}
	i1 = (i0 + 1) % length
	return i0, i1
}

// Lerp blends a toward b by t.
func Lerp(a, b Vec3, t float64) Vec3 {
	return r3.Add(a, r3.Scale(t, r3.Sub(b, a)))
}

// Interpolate returns the position on traj at (step, t).
// It reports false for an empty trajectory.
func Interpolate(traj []Vec3, step int, t float64) (Vec3, bool) {
	if len(traj) == 0 {
		return Vec3{}, false
	}
	i0, i1 := Indices(len(traj), step)
	return Lerp(traj[i0], traj[i1], t), true
}

// InterpolateAxes blends each axis of an orientation sequence independently.
func InterpolateAxes(axes []Axes, step int, t float64) (Axes, bool) {
	if len(axes) == 0 {
		return Axes{}, false
	}
	i0, i1 := Indices(len(axes), step)
	var out Axes
	for k := range out {
		out[k] = Lerp(axes[i0][k], axes[i1][k], t)
	}
	return out, true
}

// CameraPose composes a first-person pose. The look-at target is the body
// position plus its forward axis; the up vector is the negated stored up axis.
func CameraPose(position, forward, up Vec3) Pose {
	return Pose{
		Position: position,
		Target:   r3.Add(position, forward),
		Up:       r3.Scale(-1, up),
	}
}

// SampleCameraPose interpolates an observing body's position and axes and
// composes its camera pose. It reports false when either sequence is empty.
func SampleCameraPose(coords []Vec3, axes []Axes, step int, t float64) (Pose, bool) {
	pos, ok := Interpolate(coords, step, t)
	if !ok {
		return Pose{}, false
	}
	a, ok := InterpolateAxes(axes, step, t)
	if !ok {
		return Pose{}, false
	}
	return CameraPose(pos, a.Forward(), a.Up()), true
}

// InterpolateEpoch blends two adjacent epochs by real elapsed time.
func InterpolateEpoch(epochs []time.Time, step int, t float64) (time.Time, bool) {
	if len(epochs) == 0 {
		return time.Time{}, false
	}
	i0, i1 := Indices(len(epochs), step)
	span := epochs[i1].Sub(epochs[i0])
	return epochs[i0].Add(time.Duration(float64(span) * t)), true
}
