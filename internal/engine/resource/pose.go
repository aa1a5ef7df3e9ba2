package resource

import "github.com/nordlys3d/nordlys/pkg/math"

// Pose is the per-instance skeletal state of an animated model instance:
// one position and rotation per bone. Static models carry an empty pose.
type Pose struct {
	Positions []math.Vec3
	Rotations []math.Quat
}

// Resize sets the bone count, reallocating only when it changes.
func (p *Pose) Resize(count int) {
	if len(p.Positions) == count {
		return
	}
	p.Positions = make([]math.Vec3, count)
	p.Rotations = make([]math.Quat, count)
}
