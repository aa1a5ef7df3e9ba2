package scene

import (
	"github.com/nordlys3d/nordlys/internal/engine/serializer"
)

// Serialize writes the complete registry state, in fixed order: cameras,
// renderables, lights, terrains. Object order within each registry is
// preserved so component indices survive a round trip.
func (s *Scene) Serialize(w *serializer.Writer) error {
	s.serializeCameras(w)
	s.serializeRenderables(w)
	s.serializeLights(w)
	s.serializeTerrains(w)
	return w.Err()
}

func (s *Scene) serializeCameras(w *serializer.Writer) {
	w.WriteInt32("camera_count", int32(len(s.cameras)))
	w.BeginArray("cameras")
	for i := range s.cameras {
		c := &s.cameras[i]
		w.ItemFloat32(c.far)
		w.ItemFloat32(c.near)
		w.ItemFloat32(c.fov)
		w.ItemBool(c.isActive)
		w.ItemFloat32(c.width)
		w.ItemFloat32(c.height)
		w.ItemInt32(c.entity.Index)
		w.ItemString(c.slot)
	}
	w.EndArray()
}

func (s *Scene) serializeRenderables(w *serializer.Writer) {
	w.WriteInt32("renderable_count", int32(len(s.renderables)))
	w.BeginArray("renderables")
	for _, r := range s.renderables {
		w.ItemInt32(r.entity.Index)
		if r.model != nil {
			w.ItemString(r.model.Path())
		} else {
			w.ItemString("")
		}
		w.ItemFloat32(r.scale)
		for _, v := range r.matrix {
			w.ItemFloat32(v)
		}
	}
	w.EndArray()
}

func (s *Scene) serializeLights(w *serializer.Writer) {
	w.WriteInt32("light_count", int32(len(s.lights)))
	w.BeginArray("lights")
	for i := range s.lights {
		w.ItemInt32(s.lights[i].entity.Index)
		w.ItemInt32(int32(s.lights[i].kind))
	}
	w.EndArray()
}

func (s *Scene) serializeTerrains(w *serializer.Writer) {
	w.WriteInt32("terrain_count", int32(len(s.terrains)))
	w.BeginArray("terrains")
	for _, t := range s.terrains {
		w.ItemInt32(t.entity.Index)
		w.ItemInt64(t.layerMask)
		if t.material != nil {
			w.ItemString(t.material.Path())
		} else {
			w.ItemString("")
		}
		w.ItemFloat32(t.xzScale)
		w.ItemFloat32(t.yScale)
	}
	w.EndArray()
}

// Deserialize restores registry state from a stream written by Serialize.
// Cameras, renderables and lights are raw field restores followed by
// re-registration with the universe; terrains instead go through the normal
// CreateComponent and SetTerrainMaterial path so the material observer and
// quadtree rebuild are wired exactly as in interactive creation. Stream
// errors surface from the serializer; no partial recovery is attempted.
func (s *Scene) Deserialize(r *serializer.Reader) error {
	s.deserializeCameras(r)
	s.deserializeRenderables(r)
	s.deserializeLights(r)
	s.deserializeTerrains(r)
	return r.Err()
}

func (s *Scene) deserializeCameras(r *serializer.Reader) {
	count := r.ReadInt32("camera_count")
	r.BeginArray("cameras")
	s.cameras = make([]Camera, count)
	for i := int32(0); i < count; i++ {
		c := &s.cameras[i]
		c.far = r.ItemFloat32()
		c.near = r.ItemFloat32()
		c.fov = r.ItemFloat32()
		c.isActive = r.ItemBool()
		c.width = r.ItemFloat32()
		c.height = r.ItemFloat32()
		c.aspect = c.width / c.height
		c.entity = s.universe.EntityByIndex(r.ItemInt32())
		c.slot = r.ItemString()
		s.universe.AddComponent(c.entity, CameraType, s, int(i))
	}
	r.EndArray()
}

func (s *Scene) deserializeRenderables(r *serializer.Reader) {
	count := int(r.ReadInt32("renderable_count"))
	r.BeginArray("renderables")
	for i := count; i < len(s.renderables); i++ {
		s.renderables[i].destroy(s.resources)
	}
	oldLen := len(s.renderables)
	if count < oldLen {
		s.renderables = s.renderables[:count]
	}
	for i := oldLen; i < count; i++ {
		s.renderables = append(s.renderables, &Renderable{layerMask: 1, scale: 1})
	}
	for i := 0; i < count; i++ {
		rb := s.renderables[i]
		rb.entity = s.universe.EntityByIndex(r.ItemInt32())
		path := r.ItemString()
		rb.scale = r.ItemFloat32()
		if rb.model != nil {
			s.resources.UnloadModel(rb.model)
			rb.model = nil
		}
		if path != "" {
			rb.model = s.resources.LoadModel(path)
		}
		for j := range rb.matrix {
			rb.matrix[j] = r.ItemFloat32()
		}
		s.universe.AddComponent(rb.entity, RenderableType, s, i)
	}
	r.EndArray()
}

func (s *Scene) deserializeLights(r *serializer.Reader) {
	count := r.ReadInt32("light_count")
	r.BeginArray("lights")
	s.lights = make([]Light, count)
	for i := int32(0); i < count; i++ {
		s.lights[i].entity = s.universe.EntityByIndex(r.ItemInt32())
		s.lights[i].kind = LightKind(r.ItemInt32())
		s.universe.AddComponent(s.lights[i].entity, LightType, s, int(i))
	}
	r.EndArray()
}

func (s *Scene) deserializeTerrains(r *serializer.Reader) {
	count := r.ReadInt32("terrain_count")
	r.BeginArray("terrains")
	for _, t := range s.terrains {
		t.destroy(s.resources)
	}
	s.terrains = s.terrains[:0]
	for i := int32(0); i < count; i++ {
		e := s.universe.EntityByIndex(r.ItemInt32())
		cmp := s.CreateComponent(TerrainType, e)
		t := s.terrains[cmp.Index]
		t.layerMask = r.ItemInt64()
		if path := r.ItemString(); path != "" {
			s.SetTerrainMaterial(cmp, path)
		}
		t.xzScale = r.ItemFloat32()
		t.yScale = r.ItemFloat32()
	}
	r.EndArray()
}
