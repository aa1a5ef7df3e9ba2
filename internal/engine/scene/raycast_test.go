package scene

import (
	"testing"

	"github.com/nordlys3d/nordlys/pkg/math"
)

func TestCastRayNearestWins(t *testing.T) {
	s, u, mgr := newTestScene()
	defer s.Destroy()

	// Two triangle models on the same ray, 5 and 9 units out.
	nearE := u.CreateEntity()
	nearCmp := s.CreateComponent(RenderableType, nearE)
	s.SetRenderablePath(nearCmp, "models/tri.mdl")
	u.SetPosition(nearE, math.Vec3{})

	farE := u.CreateEntity()
	farCmp := s.CreateComponent(RenderableType, farE)
	s.SetRenderablePath(farCmp, "models/tri.mdl")
	u.SetPosition(farE, math.Vec3{Z: -4})

	mgr.Pump()

	hit := s.CastRay(math.Vec3{Z: 5}, math.Vec3{Z: -1})
	if !hit.Hit {
		t.Fatal("expected a hit")
	}
	if hit.T < 4.99 || hit.T > 5.01 {
		t.Errorf("t = %v, want 5", hit.T)
	}
	if hit.Renderable.Index != nearCmp.Index || hit.Renderable.Entity != nearE {
		t.Errorf("hit renderable = %+v, want the near one", hit.Renderable)
	}
	wantPos := math.Vec3{Z: 0}
	if hit.Position.Sub(wantPos).Length() > 0.01 {
		t.Errorf("hit position = %v, want %v", hit.Position, wantPos)
	}
}

func TestCastRayMiss(t *testing.T) {
	s, u, mgr := newTestScene()
	defer s.Destroy()

	e := u.CreateEntity()
	cmp := s.CreateComponent(RenderableType, e)
	s.SetRenderablePath(cmp, "models/tri.mdl")
	mgr.Pump()

	hit := s.CastRay(math.Vec3{Z: 5}, math.Vec3{Y: 1})
	if hit.Hit {
		t.Errorf("expected a miss, got t=%v", hit.T)
	}
	if hit.Renderable.IsValid() {
		t.Errorf("miss should carry an invalid component, got %+v", hit.Renderable)
	}
}

func TestCastRaySkipsModellessRenderables(t *testing.T) {
	s, u, _ := newTestScene()
	defer s.Destroy()

	s.CreateComponent(RenderableType, u.CreateEntity())

	if hit := s.CastRay(math.Vec3{Z: 5}, math.Vec3{Z: -1}); hit.Hit {
		t.Error("renderable without a model must not be hit")
	}
}

func TestCastRayScaledRadius(t *testing.T) {
	s, u, mgr := newTestScene()
	defer s.Destroy()

	// Scaled up 3x, the triangle reaches points the unit model misses.
	e := u.CreateEntity()
	cmp := s.CreateComponent(RenderableType, e)
	s.SetRenderablePath(cmp, "models/tri.mdl")
	s.SetRenderableScale(cmp, 3)
	mgr.Pump()

	hit := s.CastRay(math.Vec3{X: 1, Z: 5}, math.Vec3{Z: -1})
	if !hit.Hit {
		t.Fatal("scaled triangle should be hit at x=1")
	}

	s.SetRenderableScale(cmp, 1)
	if hit := s.CastRay(math.Vec3{X: 1, Z: 5}, math.Vec3{Z: -1}); hit.Hit {
		t.Error("unit triangle should be missed at x=1")
	}
}
