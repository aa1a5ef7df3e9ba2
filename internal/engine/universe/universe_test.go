package universe

import (
	"testing"

	"github.com/nordlys3d/nordlys/pkg/math"
)

func TestCreateEntity(t *testing.T) {
	u := New()
	a := u.CreateEntity()
	b := u.CreateEntity()

	if !a.IsValid() || !b.IsValid() {
		t.Fatal("created entities should be valid")
	}
	if a.Index == b.Index {
		t.Error("entities should have distinct indices")
	}
	if a.Matrix() != math.Identity() {
		t.Error("new entity should have identity transform")
	}
}

func TestSetMatrixNotifies(t *testing.T) {
	u := New()
	e := u.CreateEntity()

	var moved []int32
	id := u.OnEntityMoved(func(ent Entity) {
		moved = append(moved, ent.Index)
	})

	u.SetPosition(e, math.Vec3{X: 1, Y: 2, Z: 3})
	if len(moved) != 1 || moved[0] != e.Index {
		t.Fatalf("expected one notification for entity %d, got %v", e.Index, moved)
	}
	if e.Position() != (math.Vec3{X: 1, Y: 2, Z: 3}) {
		t.Errorf("position = %v", e.Position())
	}

	u.RemoveEntityMovedObserver(id)
	u.SetPosition(e, math.Vec3{X: 4})
	if len(moved) != 1 {
		t.Error("removed observer should not be notified")
	}
}

func TestAddComponent(t *testing.T) {
	u := New()
	e := u.CreateEntity()

	cmp := u.AddComponent(e, 42, nil, 7)
	if cmp.Type != 42 || cmp.Index != 7 || cmp.Entity != e {
		t.Errorf("unexpected component %+v", cmp)
	}

	cmps := u.ComponentsOf(e)
	if len(cmps) != 1 || cmps[0] != cmp {
		t.Errorf("ComponentsOf = %v", cmps)
	}
}

func TestComponentCreatedSignal(t *testing.T) {
	u := New()
	e := u.CreateEntity()

	var created []Component
	u.OnComponentCreated(func(c Component) {
		created = append(created, c)
	})

	cmp := u.AddComponent(e, 1, nil, 0)
	u.NotifyComponentCreated(cmp)
	if len(created) != 1 || created[0] != cmp {
		t.Errorf("created = %v", created)
	}
}

func TestEntityByIndex(t *testing.T) {
	u := New()
	e := u.EntityByIndex(5)
	if !e.IsValid() || e.Index != 5 {
		t.Fatalf("unexpected entity %+v", e)
	}

	// Subsequent creation must not reuse the restored index.
	n := u.CreateEntity()
	if n.Index <= 5 {
		t.Errorf("CreateEntity after EntityByIndex(5) returned %d", n.Index)
	}
}

func TestInvalidComponent(t *testing.T) {
	if InvalidComponent.IsValid() {
		t.Error("InvalidComponent should not be valid")
	}
}
