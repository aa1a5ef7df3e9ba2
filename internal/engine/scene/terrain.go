package scene

import (
	"github.com/nordlys3d/nordlys/internal/engine/resource"
	"github.com/nordlys3d/nordlys/internal/engine/universe"
	"github.com/nordlys3d/nordlys/pkg/math"
)

// gridSize is the edge length, in cells, of the fixed terrain patch grid.
// The grid is assembled from four 8x8 subgrids so that each quadrant of a
// quadtree node maps to one contiguous quarter of the index buffer.
const gridSize = 16

// Terrain is a heightfield attached to an entity. It owns its patch geometry
// and quadtree; the material is shared and reference counted externally.
type Terrain struct {
	entity    universe.Entity
	matrix    math.Mat4
	layerMask int64
	xzScale   float32
	yScale    float32
	width     int32
	height    int32

	material    *resource.Material
	materialObs resource.ObserverID
	geometry    resource.Geometry
	mesh        *resource.Mesh
	root        *terrainQuad
}

func newTerrain(e universe.Entity) *Terrain {
	t := &Terrain{
		entity:    e,
		matrix:    e.Matrix(),
		layerMask: 1,
		xzScale:   1,
		yScale:    1,
	}
	t.generateGeometry()
	return t
}

// destroy releases the terrain's material reference and its load observer.
func (t *Terrain) destroy(resources *resource.Manager) {
	if t.material != nil {
		t.material.RemoveObserver(t.materialObs)
		resources.UnloadMaterial(t.material)
		t.material = nil
	}
	t.root = nil
}

// onMaterialLoaded rebuilds the quadtree once the height/color map is
// available; its width becomes the new root size. Safe to fire repeatedly,
// for example on material hot reload.
func (t *Terrain) onMaterialLoaded(old, new resource.State) {
	if new != resource.StateReady {
		return
	}
	tex := t.material.Texture()
	t.width = tex.Width
	t.height = tex.Height
	t.generateQuadTree(float32(t.width))
}

// generateQuadTree discards any previous tree and builds a fresh one
// covering a size x size footprint.
func (t *Terrain) generateQuadTree(size float32) {
	t.root = newQuadTree(size)
}

// generateSubgrid emits the cells of one 8x8 quarter of the patch grid.
// Vertex slots are addressed by global cell position; indices append in
// subgrid order, keeping each quarter's triangles contiguous.
func (t *Terrain) generateSubgrid(points []math.Vec3, indices []int32, startX, startY int) []int32 {
	for j := startY; j < startY+8; j++ {
		for i := startX; i < startX+8; i++ {
			idx := int32(4 * (i + j*gridSize))
			fi, fj := float32(i), float32(j)
			points[idx] = math.Vec3{X: fi / gridSize, Z: fj / gridSize}
			points[idx+1] = math.Vec3{X: (fi + 1) / gridSize, Z: fj / gridSize}
			points[idx+2] = math.Vec3{X: (fi + 1) / gridSize, Z: (fj + 1) / gridSize}
			points[idx+3] = math.Vec3{X: fi / gridSize, Z: (fj + 1) / gridSize}
			indices = append(indices, idx, idx+3, idx+2, idx, idx+2, idx+1)
		}
	}
	return indices
}

// generateGeometry builds the fixed unit patch grid: 16x16 cells as four
// interleaved 8x8 subgrids, 1024 vertices and 1536 indices. The vertex
// shader scales and offsets the unit grid per drawn quadrant.
func (t *Terrain) generateGeometry() {
	points := make([]math.Vec3, gridSize*gridSize*4)
	indices := make([]int32, 0, gridSize*gridSize*6)
	indices = t.generateSubgrid(points, indices, 0, 0)
	indices = t.generateSubgrid(points, indices, 8, 0)
	indices = t.generateSubgrid(points, indices, 0, 8)
	indices = t.generateSubgrid(points, indices, 8, 8)
	t.geometry.Copy(points, indices)
	t.mesh = resource.NewMesh(nil, 0, int32(len(indices)), "terrain")
}

// render draws the terrain's LOD selection. cameraPos must already be in the
// terrain's xz-scaled space.
func (t *Terrain) render(dev RenderDevice, cameraPos math.Vec3) {
	if t.root == nil {
		return
	}
	dev.SetUniformFloat("map_size", t.root.size)
	dev.SetUniformVec3("camera_pos", cameraPos)
	t.root.render(dev, t.mesh, &t.geometry, cameraPos)
}

// TerrainInfo describes one terrain to the render pipeline.
type TerrainInfo struct {
	Entity   universe.Entity
	Material *resource.Material
	Index    int
	XZScale  float32
	YScale   float32
}

// TerrainInfos collects every terrain whose layer mask intersects layerMask.
func (s *Scene) TerrainInfos(layerMask int64) []TerrainInfo {
	infos := make([]TerrainInfo, 0, len(s.terrains))
	for i, t := range s.terrains {
		if t.layerMask&layerMask == 0 {
			continue
		}
		infos = append(infos, TerrainInfo{
			Entity:   t.entity,
			Material: t.material,
			Index:    i,
			XZScale:  t.xzScale,
			YScale:   t.yScale,
		})
	}
	return infos
}

// RenderTerrain draws one terrain from a TerrainInfo. Terrains whose
// material is not ready are skipped; the camera position is brought into the
// terrain's local space by dividing out the xz scale.
func (s *Scene) RenderTerrain(info TerrainInfo, dev RenderDevice, cameraPos math.Vec3) {
	t := s.terrains[info.Index]
	if t.mesh == nil || t.mesh.Material() == nil || !t.mesh.Material().IsReady() {
		return
	}
	t.render(dev, cameraPos.Div(t.xzScale))
}

// SetTerrainMaterial binds the terrain to the material at path. The previous
// material's observer is removed and its reference released; the new
// material's ready transition rebuilds the quadtree.
func (s *Scene) SetTerrainMaterial(cmp universe.Component, path string) {
	t := s.terrains[cmp.Index]
	if t.material != nil {
		t.material.RemoveObserver(t.materialObs)
		s.resources.UnloadMaterial(t.material)
	}
	t.material = s.resources.LoadMaterial(path)
	if t.mesh != nil {
		t.mesh.SetMaterial(t.material)
		t.materialObs = t.material.AddObserver(t.onMaterialLoaded)
	}
}

// TerrainMaterial returns the path of the terrain's material, empty if no
// material is bound.
func (s *Scene) TerrainMaterial(cmp universe.Component) string {
	if m := s.terrains[cmp.Index].material; m != nil {
		return m.Path()
	}
	return ""
}

// SetTerrainXZScale sets the horizontal world scale.
func (s *Scene) SetTerrainXZScale(cmp universe.Component, scale float32) {
	s.terrains[cmp.Index].xzScale = scale
}

// TerrainXZScale returns the horizontal world scale.
func (s *Scene) TerrainXZScale(cmp universe.Component) float32 {
	return s.terrains[cmp.Index].xzScale
}

// SetTerrainYScale sets the vertical world scale.
func (s *Scene) SetTerrainYScale(cmp universe.Component, scale float32) {
	s.terrains[cmp.Index].yScale = scale
}

// TerrainYScale returns the vertical world scale.
func (s *Scene) TerrainYScale(cmp universe.Component) float32 {
	return s.terrains[cmp.Index].yScale
}

// SetTerrainLayerMask sets the terrain's layer bitmask.
func (s *Scene) SetTerrainLayerMask(cmp universe.Component, mask int64) {
	s.terrains[cmp.Index].layerMask = mask
}

// TerrainLayerMask returns the terrain's layer bitmask.
func (s *Scene) TerrainLayerMask(cmp universe.Component) int64 {
	return s.terrains[cmp.Index].layerMask
}

// TerrainSize returns the terrain's logical width and height, zero until the
// material has loaded.
func (s *Scene) TerrainSize(cmp universe.Component) (width, height int32) {
	t := s.terrains[cmp.Index]
	return t.width, t.height
}
