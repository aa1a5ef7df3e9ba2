package scene

import (
	"github.com/nordlys3d/nordlys/internal/engine/picking"
	"github.com/nordlys3d/nordlys/internal/engine/universe"
	"github.com/nordlys3d/nordlys/pkg/math"
)

// maxSlotLength bounds camera slot names; the limit is part of the save
// format.
const maxSlotLength = 30

// Camera is a viewpoint attached to an entity, looked up by a named slot
// rather than by entity.
type Camera struct {
	entity   universe.Entity
	fov      float32
	aspect   float32
	near     float32
	far      float32
	width    float32
	height   float32
	isActive bool
	slot     string
}

// CameraInSlot returns the camera whose slot matches, or an invalid
// component if none does.
func (s *Scene) CameraInSlot(slot string) universe.Component {
	for i := range s.cameras {
		if s.cameras[i].slot == slot {
			return universe.Component{
				Entity: s.cameras[i].entity,
				Type:   CameraType,
				Index:  i,
				Owner:  s,
			}
		}
	}
	return universe.InvalidComponent
}

// ProjectionMatrix returns the camera's perspective projection.
func (s *Scene) ProjectionMatrix(cmp universe.Component) math.Mat4 {
	c := &s.cameras[cmp.Index]
	return math.Perspective(math.DegToRad(c.fov), c.aspect, c.near, c.far)
}

// ApplyCamera pushes the camera's projection and view onto the render device.
func (s *Scene) ApplyCamera(cmp universe.Component, dev RenderDevice) {
	dev.SetProjection(s.ProjectionMatrix(cmp))
	dev.SetView(cmp.Entity.Matrix().Inverse())
}

// GetRay unprojects a screen point through the camera, returning a
// world-space ray from the camera position.
func (s *Scene) GetRay(cmp universe.Component, x, y float32) (origin, dir math.Vec3) {
	c := &s.cameras[cmp.Index]
	view := cmp.Entity.Matrix().Inverse()
	invViewProj := s.ProjectionMatrix(cmp).Mul(view).Inverse()
	ray := picking.ScreenToRay(x, y, c.width, c.height, invViewProj)
	return cmp.Entity.Position(), ray.Direction
}

// SetCameraSlot names the camera's slot, truncated to the slot length limit.
func (s *Scene) SetCameraSlot(cmp universe.Component, slot string) {
	if len(slot) > maxSlotLength {
		slot = slot[:maxSlotLength]
	}
	s.cameras[cmp.Index].slot = slot
}

// CameraSlot returns the camera's slot name.
func (s *Scene) CameraSlot(cmp universe.Component) string {
	return s.cameras[cmp.Index].slot
}

// SetCameraFOV sets the vertical field of view in degrees.
func (s *Scene) SetCameraFOV(cmp universe.Component, fov float32) {
	s.cameras[cmp.Index].fov = fov
}

// CameraFOV returns the vertical field of view in degrees.
func (s *Scene) CameraFOV(cmp universe.Component) float32 {
	return s.cameras[cmp.Index].fov
}

// SetCameraNearPlane sets the near clip distance.
func (s *Scene) SetCameraNearPlane(cmp universe.Component, near float32) {
	s.cameras[cmp.Index].near = near
}

// CameraNearPlane returns the near clip distance.
func (s *Scene) CameraNearPlane(cmp universe.Component) float32 {
	return s.cameras[cmp.Index].near
}

// SetCameraFarPlane sets the far clip distance.
func (s *Scene) SetCameraFarPlane(cmp universe.Component, far float32) {
	s.cameras[cmp.Index].far = far
}

// CameraFarPlane returns the far clip distance.
func (s *Scene) CameraFarPlane(cmp universe.Component) float32 {
	return s.cameras[cmp.Index].far
}

// SetCameraSize sets the viewport dimensions and recomputes the aspect ratio.
func (s *Scene) SetCameraSize(cmp universe.Component, w, h int) {
	c := &s.cameras[cmp.Index]
	c.width = float32(w)
	c.height = float32(h)
	c.aspect = float32(w) / float32(h)
}

// CameraWidth returns the viewport width.
func (s *Scene) CameraWidth(cmp universe.Component) float32 {
	return s.cameras[cmp.Index].width
}

// CameraHeight returns the viewport height.
func (s *Scene) CameraHeight(cmp universe.Component) float32 {
	return s.cameras[cmp.Index].height
}

// SetCameraActive flags the camera as the active one for its slot.
func (s *Scene) SetCameraActive(cmp universe.Component, active bool) {
	s.cameras[cmp.Index].isActive = active
}

// IsCameraActive reports whether the camera is flagged active.
func (s *Scene) IsCameraActive(cmp universe.Component) bool {
	return s.cameras[cmp.Index].isActive
}
