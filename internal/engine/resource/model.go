package resource

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/nordlys3d/nordlys/internal/engine/picking"
	"github.com/nordlys3d/nordlys/pkg/math"
)

// modelMagic identifies a serialized model file.
var modelMagic = [4]byte{'N', 'M', 'D', 'L'}

// Model is a shared, loadable triangle mesh with precomputed bounds.
// Instances reference the model; the model itself is immutable once ready.
type Model struct {
	base
	boundingRadius float32
	geometry       Geometry
	meshes         []*Mesh
}

// BoundingRadius returns the radius of the model's bounding sphere
// around its local origin.
func (m *Model) BoundingRadius() float32 {
	return m.boundingRadius
}

// Geometry returns the model's vertex/index buffers.
func (m *Model) Geometry() *Geometry {
	return &m.geometry
}

// MeshCount returns the number of meshes.
func (m *Model) MeshCount() int {
	return len(m.meshes)
}

// Mesh returns the i-th mesh.
func (m *Model) Mesh(i int) *Mesh {
	return m.meshes[i]
}

// RayHit is the result of a narrow-phase ray cast against a model.
type RayHit struct {
	Hit bool
	T   float32
}

// CastRay intersects a world-space ray with the model's triangles.
// matrix and scale place the model in world space. Returns the nearest hit.
func (m *Model) CastRay(origin, dir math.Vec3, matrix math.Mat4, scale float32) RayHit {
	ray := picking.Ray{Origin: origin, Direction: dir}
	hit := RayHit{}

	idx := m.geometry.Indices
	verts := m.geometry.Vertices
	for i := 0; i+2 < len(idx); i += 3 {
		v0 := matrix.TransformVec3(verts[idx[i]].Scale(scale))
		v1 := matrix.TransformVec3(verts[idx[i+1]].Scale(scale))
		v2 := matrix.TransformVec3(verts[idx[i+2]].Scale(scale))

		if t, ok := ray.IntersectTriangle(v0, v1, v2); ok {
			if !hit.Hit || t < hit.T {
				hit = RayHit{Hit: true, T: t}
			}
		}
	}
	return hit
}

// load parses the binary model format: magic, bounding radius, vertices,
// indices, then per-mesh name and index range.
func (m *Model) load(data []byte) error {
	r := bytes.NewReader(data)

	var magic [4]byte
	if err := binary.Read(r, binary.LittleEndian, &magic); err != nil {
		return fmt.Errorf("reading model %s: %w", m.path, err)
	}
	if magic != modelMagic {
		return fmt.Errorf("model %s: bad magic %q", m.path, magic[:])
	}

	if err := binary.Read(r, binary.LittleEndian, &m.boundingRadius); err != nil {
		return fmt.Errorf("reading model %s: %w", m.path, err)
	}

	var vertexCount uint32
	if err := binary.Read(r, binary.LittleEndian, &vertexCount); err != nil {
		return fmt.Errorf("reading model %s: %w", m.path, err)
	}
	verts := make([]math.Vec3, vertexCount)
	for i := range verts {
		var p [3]float32
		if err := binary.Read(r, binary.LittleEndian, &p); err != nil {
			return fmt.Errorf("reading model %s vertices: %w", m.path, err)
		}
		verts[i] = math.Vec3{X: p[0], Y: p[1], Z: p[2]}
	}

	var indexCount uint32
	if err := binary.Read(r, binary.LittleEndian, &indexCount); err != nil {
		return fmt.Errorf("reading model %s: %w", m.path, err)
	}
	indices := make([]int32, indexCount)
	if err := binary.Read(r, binary.LittleEndian, &indices); err != nil {
		return fmt.Errorf("reading model %s indices: %w", m.path, err)
	}
	m.geometry.Copy(verts, indices)

	var meshCount uint16
	if err := binary.Read(r, binary.LittleEndian, &meshCount); err != nil {
		return fmt.Errorf("reading model %s: %w", m.path, err)
	}
	m.meshes = m.meshes[:0]
	for i := 0; i < int(meshCount); i++ {
		name, err := readString(r)
		if err != nil {
			return fmt.Errorf("reading model %s meshes: %w", m.path, err)
		}
		matPath, err := readString(r)
		if err != nil {
			return fmt.Errorf("reading model %s meshes: %w", m.path, err)
		}
		var first, count int32
		if err := binary.Read(r, binary.LittleEndian, &first); err != nil {
			return fmt.Errorf("reading model %s meshes: %w", m.path, err)
		}
		if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
			return fmt.Errorf("reading model %s meshes: %w", m.path, err)
		}
		mesh := NewMesh(nil, first, count, name)
		mesh.materialPath = matPath
		m.meshes = append(m.meshes, mesh)
	}
	return nil
}

func readString(r *bytes.Reader) (string, error) {
	var n uint16
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return "", err
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", err
	}
	return string(buf), nil
}
