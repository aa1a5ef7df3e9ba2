package scene

import (
	gomath "math"

	"github.com/nordlys3d/nordlys/internal/engine/resource"
	"github.com/nordlys3d/nordlys/pkg/math"
)

// Quadtree subdivision stops at this depth or patch size, bounding memory
// and per-frame traversal cost independent of terrain resolution.
const (
	maxQuadLOD  = 8
	minQuadSize = 16
)

// Child quadrant order. Quadrant i of a node is drawn with the i-th quarter
// of the patch index buffer.
const (
	quadTopLeft = iota
	quadTopRight
	quadBottomLeft
	quadBottomRight
	quadChildCount
)

// terrainQuad is one square patch of the heightfield at a fixed LOD. A quad
// owns its four children; the children exactly partition the parent's square.
type terrainQuad struct {
	children [quadChildCount]*terrainQuad
	min      math.Vec3
	size     float32
	lod      int
}

// newQuadTree builds a tree covering [0,size)x[0,size) starting at LOD 1.
func newQuadTree(size float32) *terrainQuad {
	root := &terrainQuad{size: size, lod: 1}
	root.createChildren()
	return root
}

func (q *terrainQuad) createChildren() {
	if q.lod >= maxQuadLOD || q.size <= minQuadSize {
		return
	}
	half := q.size / 2
	mins := [quadChildCount]math.Vec3{
		quadTopLeft:     q.min,
		quadTopRight:    {X: q.min.X + half, Z: q.min.Z},
		quadBottomLeft:  {X: q.min.X, Z: q.min.Z + half},
		quadBottomRight: {X: q.min.X + half, Z: q.min.Z + half},
	}
	for i := range q.children {
		q.children[i] = &terrainQuad{min: mins[i], size: half, lod: q.lod + 1}
		q.children[i].createChildren()
	}
}

// distance returns the Euclidean distance from the camera's (x,z) projection
// to the nearest point of the quad's square footprint, zero inside it.
func (q *terrainQuad) distance(cameraPos math.Vec3) float32 {
	maxX := q.min.X + q.size
	maxZ := q.min.Z + q.size
	var dist float32
	if cameraPos.X < q.min.X {
		d := q.min.X - cameraPos.X
		dist += d * d
	}
	if cameraPos.X > maxX {
		d := maxX - cameraPos.X
		dist += d * d
	}
	if cameraPos.Z < q.min.Z {
		d := q.min.Z - cameraPos.Z
		dist += d * d
	}
	if cameraPos.Z > maxZ {
		d := maxZ - cameraPos.Z
		dist += d * d
	}
	return float32(gomath.Sqrt(float64(dist)))
}

// radiusOuter is the blend radius within which a patch of the given size is
// still too coarse and its children must be considered.
func radiusOuter(size float32) float32 {
	factor := float32(1)
	if size > 17 {
		factor = 2
	}
	return factor*float32(gomath.Sqrt(float64(2*size*size))) + size*0.25
}

// radiusInner is the inner morph boundary: one finer level's outer radius
// plus that finer patch's diagonal. Shader-side morph parameter only, never
// a branch condition.
func radiusInner(size float32) float32 {
	half := size / 2
	return radiusOuter(half) + float32(gomath.Sqrt(float64(2*half*half)))
}

// render walks the tree and draws the LOD selection. It reports whether this
// quad accepted responsibility for its footprint: a quad declines when the
// camera is beyond its outer radius, unless it is the root level, which is
// never pruned so the full terrain stays covered. Each child quadrant a
// child declines is drawn here with that quadrant's quarter of the index
// range, so every point of the footprint is drawn exactly once.
func (q *terrainQuad) render(dev RenderDevice, mesh *resource.Mesh, geometry *resource.Geometry, cameraPos math.Vec3) bool {
	dist := q.distance(cameraPos)
	outer := radiusOuter(q.size)
	if dist > outer && q.lod > 1 {
		return false
	}
	morphConst := math.Vec3{X: outer, Y: radiusInner(q.size)}
	quarter := mesh.Count() / 4
	for i := range q.children {
		if q.children[i] == nil || !q.children[i].render(dev, mesh, geometry, cameraPos) {
			dev.SetUniformVec3("morph_const", morphConst)
			dev.SetUniformFloat("quad_size", q.size)
			dev.SetUniformVec3("quad_min", q.min)
			dev.DrawIndexed(geometry, quarter*int32(i), quarter)
		}
	}
	return true
}
