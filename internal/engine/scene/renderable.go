package scene

import (
	"github.com/nordlys3d/nordlys/internal/engine/resource"
	"github.com/nordlys3d/nordlys/internal/engine/universe"
	"github.com/nordlys3d/nordlys/pkg/math"
)

// Renderable is a model instance attached to an entity: a shared model
// reference plus the per-instance transform, pose and scale. Renderables are
// held by pointer; the instance state is not copyable.
type Renderable struct {
	entity    universe.Entity
	model     *resource.Model
	matrix    math.Mat4
	pose      resource.Pose
	layerMask int64
	scale     float32
}

// destroy releases the renderable's model reference.
func (r *Renderable) destroy(resources *resource.Manager) {
	if r.model != nil {
		resources.UnloadModel(r.model)
		r.model = nil
	}
}

// RenderableInfo is one drawable mesh of a renderable, produced for the
// render pipeline.
type RenderableInfo struct {
	Scale    float32
	Geometry *resource.Geometry
	Mesh     *resource.Mesh
	Pose     *resource.Pose
	Model    *resource.Model
	Matrix   *math.Mat4
}

// RenderableInfos collects the drawable meshes of every renderable whose
// layer mask intersects layerMask. Renderables without a model and meshes
// whose material is not ready are skipped.
func (s *Scene) RenderableInfos(layerMask int64) []RenderableInfo {
	infos := make([]RenderableInfo, 0, len(s.renderables))
	for _, r := range s.renderables {
		if r.model == nil || r.layerMask&layerMask == 0 {
			continue
		}
		for j := 0; j < r.model.MeshCount(); j++ {
			mesh := r.model.Mesh(j)
			if mesh.Material() == nil || !mesh.Material().IsReady() {
				continue
			}
			infos = append(infos, RenderableInfo{
				Scale:    r.scale,
				Geometry: r.model.Geometry(),
				Mesh:     mesh,
				Pose:     &r.pose,
				Model:    r.model,
				Matrix:   &r.matrix,
			})
		}
	}
	return infos
}

// SetRenderablePath binds the renderable to the model at path, releasing any
// previous model and resetting the instance matrix from the entity.
func (s *Scene) SetRenderablePath(cmp universe.Component, path string) {
	r := s.renderables[cmp.Index]
	if r.model != nil {
		s.resources.UnloadModel(r.model)
	}
	r.model = s.resources.LoadModel(path)
	r.matrix = r.entity.Matrix()
}

// RenderablePath returns the path of the renderable's model, empty if no
// model is bound.
func (s *Scene) RenderablePath(cmp universe.Component) string {
	if m := s.renderables[cmp.Index].model; m != nil {
		return m.Path()
	}
	return ""
}

// RenderableModel returns the renderable's model, which may be nil.
func (s *Scene) RenderableModel(cmp universe.Component) *resource.Model {
	return s.renderables[cmp.Index].model
}

// RenderablePose returns the renderable's per-instance pose.
func (s *Scene) RenderablePose(cmp universe.Component) *resource.Pose {
	return &s.renderables[cmp.Index].pose
}

// SetRenderableLayer places the renderable on a single layer.
func (s *Scene) SetRenderableLayer(cmp universe.Component, layer int32) {
	s.renderables[cmp.Index].layerMask = int64(1) << int64(layer)
}

// SetRenderableScale sets the renderable's uniform scale factor.
func (s *Scene) SetRenderableScale(cmp universe.Component, scale float32) {
	s.renderables[cmp.Index].scale = scale
}

// RenderableScale returns the renderable's uniform scale factor.
func (s *Scene) RenderableScale(cmp universe.Component) float32 {
	return s.renderables[cmp.Index].scale
}

// RenderableMatrix returns the renderable's instance matrix.
func (s *Scene) RenderableMatrix(cmp universe.Component) math.Mat4 {
	return s.renderables[cmp.Index].matrix
}
