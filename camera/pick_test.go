package camera

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

func TestIntersectSphere(t *testing.T) {
	tests := []struct {
		name   string
		ray    Ray
		center r3.Vec
		radius float64
		want   float64
		hit    bool
	}{
		{"head on", Ray{Origin: r3.Vec{X: -10}, Dir: r3.Vec{X: 1}}, r3.Vec{}, 1, 9, true},
		{"unnormalized direction", Ray{Origin: r3.Vec{X: -10}, Dir: r3.Vec{X: 5}}, r3.Vec{}, 1, 9, true},
		{"miss", Ray{Origin: r3.Vec{X: -10, Y: 2}, Dir: r3.Vec{X: 1}}, r3.Vec{}, 1, 0, false},
		{"behind", Ray{Origin: r3.Vec{X: 10}, Dir: r3.Vec{X: 1}}, r3.Vec{}, 1, 0, false},
		{"inside", Ray{Origin: r3.Vec{}, Dir: r3.Vec{Y: 1}}, r3.Vec{}, 2, 2, true},
		{"zero direction", Ray{Origin: r3.Vec{X: -10}}, r3.Vec{}, 1, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.ray.IntersectSphere(tt.center, tt.radius)
			if ok != tt.hit {
				t.Fatalf("expected hit=%v, got %v", tt.hit, ok)
			}
			if ok && math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("expected distance %f, got %f", tt.want, got)
			}
		})
	}
}

func TestPickNearest(t *testing.T) {
	ray := Ray{Origin: r3.Vec{X: -100}, Dir: r3.Vec{X: 1}}
	targets := []PickTarget{
		{ID: 1, Center: r3.Vec{X: 50}, Radius: 5},
		{ID: 2, Center: r3.Vec{X: 10}, Radius: 5},
		{ID: 3, Center: r3.Vec{X: 0, Y: 40}, Radius: 5},
	}

	id, ok := Pick(ray, targets)
	if !ok || id != 2 {
		t.Errorf("expected body 2, got %d (hit=%v)", id, ok)
	}

	if _, ok := Pick(Ray{Origin: r3.Vec{X: -100}, Dir: r3.Vec{Y: 1}}, targets); ok {
		t.Error("expected no hit")
	}
}
