package scene

import (
	"time"

	"github.com/pthm-cable/satview/components"
	"github.com/pthm-cable/satview/trajectory"
)

// BodyPose is one body as the presenter should draw it this frame.
type BodyPose struct {
	index int

	ID       int
	Name     string
	Kind     components.Kind
	Shape    components.Shape
	Length   float64 // km
	Diameter float64 // km

	Position  trajectory.Vec3
	BodyAxes  trajectory.Axes
	OrbitAxes trajectory.Axes
	HasAxes   bool

	Hovered   bool
	Observant bool // The body carrying the first-person camera
}

// Frame is the per-frame output of a scene.
type Frame struct {
	Bodies []BodyPose
	Sun    trajectory.Vec3
	HasSun bool
	Camera *trajectory.Pose // First-person variants only

	Epoch         time.Time
	EpochLabel    string
	EarthRotation float64 // Radians about +Z

	Step     int
	T        float64
	Progress float64 // Fraction of the sequence in [0, 1)
	Wrapped  bool
	Playing  bool
	Speed    float64
}

// Body returns the pose of the body with the given id.
func (f *Frame) Body(id int) (BodyPose, bool) {
	for _, b := range f.Bodies {
		if b.ID == id {
			return b, true
		}
	}
	return BodyPose{}, false
}
