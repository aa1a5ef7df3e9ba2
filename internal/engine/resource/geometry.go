package resource

import "github.com/nordlys3d/nordlys/pkg/math"

// Geometry is an indexed vertex buffer shared by one or more meshes.
// The render device uploads it on first use; the CPU copy stays resident
// for ray casting.
type Geometry struct {
	Vertices []math.Vec3
	Indices  []int32
}

// Copy replaces the geometry's buffers with copies of the given data.
func (g *Geometry) Copy(vertices []math.Vec3, indices []int32) {
	g.Vertices = append(g.Vertices[:0], vertices...)
	g.Indices = append(g.Indices[:0], indices...)
}

// Mesh is a drawable index range of a geometry bound to a material.
type Mesh struct {
	material     *Material
	materialPath string
	first        int32
	count        int32
	name         string
}

// NewMesh creates a mesh covering indices [first, first+count).
func NewMesh(material *Material, first, count int32, name string) *Mesh {
	return &Mesh{material: material, first: first, count: count, name: name}
}

// Material returns the mesh's material, which may be nil.
func (m *Mesh) Material() *Material {
	return m.material
}

// SetMaterial rebinds the mesh to a material.
func (m *Mesh) SetMaterial(mat *Material) {
	m.material = mat
}

// MaterialPath returns the material path recorded in the model file,
// empty if the mesh has no material binding.
func (m *Mesh) MaterialPath() string {
	return m.materialPath
}

// First returns the first index of the mesh's range.
func (m *Mesh) First() int32 {
	return m.first
}

// Count returns the number of indices in the mesh's range.
func (m *Mesh) Count() int32 {
	return m.count
}

// Name returns the mesh name.
func (m *Mesh) Name() string {
	return m.name
}
