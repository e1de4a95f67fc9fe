// Package components defines ECS components for tracked bodies.
package components

import (
	"github.com/pthm-cable/satview/scenario"
	"github.com/pthm-cable/satview/trajectory"
)

// Kind is the catalog category of a body. It selects the body color.
type Kind uint8

const (
	KindOther Kind = iota
	KindDebris
	KindPayload
	KindRocketBody
	KindUnknown
)

// KindOf maps a catalog object type to a Kind.
func KindOf(objectType string) Kind {
	switch objectType {
	case scenario.TypeDebris:
		return KindDebris
	case scenario.TypePayload:
		return KindPayload
	case scenario.TypeRocketBody:
		return KindRocketBody
	case scenario.TypeUnknown:
		return KindUnknown
	}
	return KindOther
}

// String returns the catalog spelling of the kind.
func (k Kind) String() string {
	switch k {
	case KindDebris:
		return scenario.TypeDebris
	case KindPayload:
		return scenario.TypePayload
	case KindRocketBody:
		return scenario.TypeRocketBody
	case KindUnknown:
		return scenario.TypeUnknown
	}
	return "OTHER"
}

// Shape selects the body mesh.
type Shape uint8

const (
	ShapeSphere Shape = iota
	ShapeCylinder
	ShapeBox
	ShapeCone
)

// ShapeOf maps a scenario shape tag to a Shape. Unknown tags become spheres.
func ShapeOf(tag string) Shape {
	b := scenario.Body{Shape: tag}
	switch b.NormalizedShape() {
	case scenario.ShapeCylinder:
		return ShapeCylinder
	case scenario.ShapeBox:
		return ShapeBox
	case scenario.ShapeCone:
		return ShapeCone
	}
	return ShapeSphere
}

// Identity names a body.
type Identity struct {
	ID          int
	Index       int // Position in the scenario body list
	Name        string
	Kind        Kind
	UserCreated bool // Carries orbit and body axis systems
}

// Extent is the body geometry in km.
type Extent struct {
	Shape    Shape
	Length   float64
	Diameter float64
}

// Track holds the immutable per-step samples of a body.
type Track struct {
	Coords    []trajectory.Vec3
	BodyAxis  []trajectory.Axes
	OrbitAxis []trajectory.Axes
}

// Pose is the interpolated state of a body for the current frame.
type Pose struct {
	Position  trajectory.Vec3
	BodyAxes  trajectory.Axes
	OrbitAxes trajectory.Axes
	HasAxes   bool
}
