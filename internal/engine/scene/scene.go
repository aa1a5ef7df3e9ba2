// Package scene is the scene-management layer of the renderer. It owns the
// renderables, lights, cameras and terrains attached to universe entities,
// answers per-frame render queries, casts rays against renderable models and
// keeps a transient debug-line buffer.
//
// All mutation is single-threaded and frame-driven: Update must run once per
// frame before any render-info query, and resource load callbacks are
// delivered on the same thread via resource.Manager.Pump.
package scene

import (
	"fmt"
	"hash/crc32"

	"github.com/nordlys3d/nordlys/internal/engine/resource"
	"github.com/nordlys3d/nordlys/internal/engine/universe"
	"github.com/nordlys3d/nordlys/pkg/math"
)

// Component type tags. The values are CRC-32 (IEEE) of the type names and are
// part of the save format; they must never change.
var (
	RenderableType = crc32.ChecksumIEEE([]byte("renderable"))
	LightType      = crc32.ChecksumIEEE([]byte("light"))
	CameraType     = crc32.ChecksumIEEE([]byte("camera"))
	TerrainType    = crc32.ChecksumIEEE([]byte("terrain"))
)

// componentOps is the per-type dispatch record for registry operations.
type componentOps struct {
	create func(*Scene, universe.Entity) universe.Component
}

var componentRegistry map[uint32]componentOps

func init() {
	componentRegistry = map[uint32]componentOps{
		RenderableType: {(*Scene).createRenderable},
		LightType:      {(*Scene).createLight},
		CameraType:     {(*Scene).createCamera},
		TerrainType:    {(*Scene).createTerrain},
	}
}

// RenderDevice is the slice of the render pipeline the scene drives directly:
// uniform uploads, camera setup and ranged indexed draws for terrain patches.
type RenderDevice interface {
	SetUniformFloat(name string, v float32)
	SetUniformVec3(name string, v math.Vec3)
	SetProjection(m math.Mat4)
	SetView(m math.Mat4)
	DrawIndexed(geometry *resource.Geometry, first, count int32)
}

// Scene aggregates the component registries. Registries are dense arrays that
// only grow or truncate from the end, so component indices stay stable for
// the lifetime of a session.
type Scene struct {
	universe  *universe.Universe
	resources *resource.Manager
	movedObs  universe.ObserverID

	cameras     []Camera
	renderables []*Renderable
	lights      []Light
	terrains    []*Terrain

	debugLines []DebugLine
}

// New creates a scene over the given universe and resource manager and
// subscribes to entity movement.
func New(u *universe.Universe, resources *resource.Manager) *Scene {
	s := &Scene{universe: u, resources: resources}
	s.movedObs = u.OnEntityMoved(s.onEntityMoved)
	return s
}

// Destroy unsubscribes from the universe and releases every resource the
// registries hold. The scene must not be used afterwards.
func (s *Scene) Destroy() {
	s.universe.RemoveEntityMovedObserver(s.movedObs)
	for _, r := range s.renderables {
		r.destroy(s.resources)
	}
	s.renderables = nil
	for _, t := range s.terrains {
		t.destroy(s.resources)
	}
	s.terrains = nil
}

// Universe returns the transform graph the scene is attached to.
func (s *Scene) Universe() *universe.Universe {
	return s.universe
}

// CreateComponent allocates a component of the given type for an entity,
// initializes type defaults and registers it with the universe. An unknown
// type tag is a programming error and panics.
func (s *Scene) CreateComponent(typ uint32, e universe.Entity) universe.Component {
	ops, ok := componentRegistry[typ]
	if !ok {
		panic(fmt.Sprintf("scene: unknown component type %#x", typ))
	}
	return ops.create(s, e)
}

func (s *Scene) createRenderable(e universe.Entity) universe.Component {
	r := &Renderable{
		entity:    e,
		layerMask: 1,
		scale:     1,
		matrix:    e.Matrix(),
	}
	s.renderables = append(s.renderables, r)
	cmp := s.universe.AddComponent(e, RenderableType, s, len(s.renderables)-1)
	s.universe.NotifyComponentCreated(cmp)
	return cmp
}

func (s *Scene) createLight(e universe.Entity) universe.Component {
	s.lights = append(s.lights, Light{entity: e, kind: LightDirectional})
	cmp := s.universe.AddComponent(e, LightType, s, len(s.lights)-1)
	s.universe.NotifyComponentCreated(cmp)
	return cmp
}

func (s *Scene) createCamera(e universe.Entity) universe.Component {
	s.cameras = append(s.cameras, Camera{
		entity: e,
		fov:    60,
		width:  800,
		height: 600,
		aspect: 800.0 / 600.0,
		near:   0.1,
		far:    10000,
	})
	cmp := s.universe.AddComponent(e, CameraType, s, len(s.cameras)-1)
	s.universe.NotifyComponentCreated(cmp)
	return cmp
}

func (s *Scene) createTerrain(e universe.Entity) universe.Component {
	t := newTerrain(e)
	s.terrains = append(s.terrains, t)
	cmp := s.universe.AddComponent(e, TerrainType, s, len(s.terrains)-1)
	s.universe.NotifyComponentCreated(cmp)
	return cmp
}

// onEntityMoved pushes a changed entity transform into the first renderable
// or terrain attached to it. An entity is expected to own at most one
// transform-consuming component.
func (s *Scene) onEntityMoved(e universe.Entity) {
	for _, cmp := range s.universe.ComponentsOf(e) {
		switch cmp.Type {
		case RenderableType:
			s.renderables[cmp.Index].matrix = e.Matrix()
			return
		case TerrainType:
			s.terrains[cmp.Index].matrix = e.Matrix()
			return
		}
	}
}

// Update advances per-frame state: it ages debug lines and drops expired
// ones. Call exactly once per frame before render-info queries.
func (s *Scene) Update(dt float32) {
	for i := len(s.debugLines) - 1; i >= 0; i-- {
		s.debugLines[i].Life -= dt
		if s.debugLines[i].Life < 0 {
			last := len(s.debugLines) - 1
			s.debugLines[i] = s.debugLines[last]
			s.debugLines = s.debugLines[:last]
		}
	}
}

// Light returns the component handle of the index-th light, or an invalid
// component if there is none.
func (s *Scene) Light(index int) universe.Component {
	if index >= len(s.lights) {
		return universe.InvalidComponent
	}
	return universe.Component{
		Entity: s.lights[index].entity,
		Type:   LightType,
		Index:  index,
		Owner:  s,
	}
}

// LightKind returns the variant of a light component.
func (s *Scene) LightKind(cmp universe.Component) LightKind {
	return s.lights[cmp.Index].kind
}
