package scene

import (
	"github.com/nordlys3d/nordlys/internal/engine/picking"
	"github.com/nordlys3d/nordlys/internal/engine/universe"
	"github.com/nordlys3d/nordlys/pkg/math"
)

// RayCastHit is the result of a scene ray cast. Renderable is the component
// of the hit renderable, invalid on a miss.
type RayCastHit struct {
	Hit        bool
	T          float32
	Position   math.Vec3
	Renderable universe.Component
}

// CastRay intersects a world-space ray with every renderable that has a
// model. The broad phase tests the instance's bounding sphere, radius scaled
// by the instance scale; a ray starting inside the sphere passes. Survivors
// go to the model's triangle-level cast and the closest hit wins.
func (s *Scene) CastRay(origin, dir math.Vec3) RayCastHit {
	ray := picking.Ray{Origin: origin, Direction: dir}
	hit := RayCastHit{Renderable: universe.InvalidComponent}
	for i, r := range s.renderables {
		if r.model == nil {
			continue
		}
		pos := r.matrix.Translation()
		radius := r.model.BoundingRadius() * r.scale
		if _, ok := ray.IntersectSphere(pos, radius); !ok {
			continue
		}
		modelHit := r.model.CastRay(origin, dir, r.matrix, r.scale)
		if modelHit.Hit && (!hit.Hit || modelHit.T < hit.T) {
			hit = RayCastHit{
				Hit:      true,
				T:        modelHit.T,
				Position: origin.Add(dir.Scale(modelHit.T)),
				Renderable: universe.Component{
					Entity: r.entity,
					Type:   RenderableType,
					Index:  i,
					Owner:  s,
				},
			}
		}
	}
	return hit
}
