package camera

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Ray is a half-line from Origin along Dir.
type Ray struct {
	Origin r3.Vec
	Dir    r3.Vec
}

// IntersectSphere returns the distance along r to the nearest point of a
// sphere in front of the origin.
func (r Ray) IntersectSphere(center r3.Vec, radius float64) (float64, bool) {
	n := r3.Norm(r.Dir)
	if n == 0 || radius <= 0 {
		return 0, false
	}
	d := r3.Scale(1/n, r.Dir)
	oc := r3.Sub(r.Origin, center)
	b := r3.Dot(oc, d)
	c := r3.Dot(oc, oc) - radius*radius
	disc := b*b - c
	if disc < 0 {
		return 0, false
	}
	sq := math.Sqrt(disc)
	t := -b - sq
	if t < 0 {
		t = -b + sq
	}
	if t < 0 {
		return 0, false
	}
	return t, true
}

// PickTarget is a hit sphere around a selectable body.
type PickTarget struct {
	ID     int
	Center r3.Vec
	Radius float64
}

// Pick returns the id of the closest target hit by r.
func Pick(r Ray, targets []PickTarget) (int, bool) {
	best := math.Inf(1)
	id, hit := 0, false
	for _, t := range targets {
		if d, ok := r.IntersectSphere(t.Center, t.Radius); ok && d < best {
			best = d
			id = t.ID
			hit = true
		}
	}
	return id, hit
}
