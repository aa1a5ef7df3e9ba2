package resource

import (
	"testing"

	"github.com/nordlys3d/nordlys/pkg/math"
)

func loadTestModel(t *testing.T, spec modelSpec) *Model {
	t.Helper()
	mdl := &Model{base: base{path: "test.mdl", state: StateLoading}}
	if err := mdl.load(buildModelFile(spec)); err != nil {
		t.Fatalf("load: %v", err)
	}
	return mdl
}

func TestModelCastRay(t *testing.T) {
	// One triangle in the XY plane at z=0, facing +Z.
	mdl := loadTestModel(t, modelSpec{
		radius: 2,
		vertices: [][3]float32{
			{-1, -1, 0}, {1, -1, 0}, {0, 1, 0},
		},
		indices: []int32{0, 1, 2},
		meshes:  []meshSpec{{name: "tri", first: 0, count: 3}},
	})

	origin := math.Vec3{X: 0, Y: 0, Z: 5}
	dir := math.Vec3{X: 0, Y: 0, Z: -1}

	hit := mdl.CastRay(origin, dir, math.Identity(), 1)
	if !hit.Hit {
		t.Fatal("expected a hit")
	}
	if hit.T < 4.99 || hit.T > 5.01 {
		t.Errorf("t = %v, want 5", hit.T)
	}
}

func TestModelCastRayScaled(t *testing.T) {
	// Scaling the triangle down to a quarter moves the hit point off a
	// ray that only grazes the full-size triangle.
	mdl := loadTestModel(t, modelSpec{
		radius: 2,
		vertices: [][3]float32{
			{-1, -1, 0}, {1, -1, 0}, {0, 1, 0},
		},
		indices: []int32{0, 1, 2},
		meshes:  []meshSpec{{name: "tri", first: 0, count: 3}},
	})

	origin := math.Vec3{X: 0.9, Y: -0.9, Z: 5}
	dir := math.Vec3{X: 0, Y: 0, Z: -1}

	if hit := mdl.CastRay(origin, dir, math.Identity(), 1); !hit.Hit {
		t.Error("full-size triangle should be hit near its corner")
	}
	if hit := mdl.CastRay(origin, dir, math.Identity(), 0.25); hit.Hit {
		t.Error("quarter-size triangle should be missed")
	}
}

func TestModelCastRayTransformed(t *testing.T) {
	mdl := loadTestModel(t, modelSpec{
		radius: 2,
		vertices: [][3]float32{
			{-1, -1, 0}, {1, -1, 0}, {0, 1, 0},
		},
		indices: []int32{0, 1, 2},
		meshes:  []meshSpec{{name: "tri", first: 0, count: 3}},
	})

	// Move the triangle 3 units along -Z, shortening the hit distance.
	m := math.Identity()
	m.SetTranslation(math.Vec3{X: 0, Y: 0, Z: -3})

	hit := mdl.CastRay(math.Vec3{Z: 5}, math.Vec3{Z: -1}, m, 1)
	if !hit.Hit {
		t.Fatal("expected a hit")
	}
	if hit.T < 7.99 || hit.T > 8.01 {
		t.Errorf("t = %v, want 8", hit.T)
	}
}
