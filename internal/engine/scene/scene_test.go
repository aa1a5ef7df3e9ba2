package scene

import (
	"encoding/binary"
	"fmt"
	gomath "math"
	"testing"

	"github.com/nordlys3d/nordlys/internal/engine/resource"
	"github.com/nordlys3d/nordlys/internal/engine/universe"
	"github.com/nordlys3d/nordlys/pkg/math"
)

// buildTGAFile creates a minimal uncompressed 24-bit top-to-bottom TGA of the
// given dimensions.
func buildTGAFile(width, height int) []byte {
	header := make([]byte, 18)
	header[2] = 2
	header[12] = byte(width)
	header[13] = byte(width >> 8)
	header[14] = byte(height)
	header[15] = byte(height >> 8)
	header[16] = 24
	header[17] = 0x20

	data := header
	for i := 0; i < width*height; i++ {
		data = append(data, 0x30, 0x60, 0x90)
	}
	return data
}

// buildModelFile serializes a unit triangle model with the given bounding
// radius and per-mesh material path.
func buildModelFile(radius float32, materialPath string) []byte {
	var buf []byte
	le := binary.LittleEndian

	buf = append(buf, 'N', 'M', 'D', 'L')
	buf = le.AppendUint32(buf, gomath.Float32bits(radius))

	verts := [][3]float32{{-1, -1, 0}, {1, -1, 0}, {0, 1, 0}}
	buf = le.AppendUint32(buf, uint32(len(verts)))
	for _, v := range verts {
		for _, f := range v {
			buf = le.AppendUint32(buf, gomath.Float32bits(f))
		}
	}
	buf = le.AppendUint32(buf, 3)
	for _, i := range []int32{0, 1, 2} {
		buf = le.AppendUint32(buf, uint32(i))
	}
	buf = le.AppendUint16(buf, 1)
	buf = le.AppendUint16(buf, uint16(len("tri")))
	buf = append(buf, "tri"...)
	buf = le.AppendUint16(buf, uint16(len(materialPath)))
	buf = append(buf, materialPath...)
	buf = le.AppendUint32(buf, 0)
	buf = le.AppendUint32(buf, 3)
	return buf
}

// testFiles is the synthetic asset set scene tests load from.
var testFiles = map[string][]byte{
	"materials/ground.tga": buildTGAFile(64, 64),
	"materials/rock.tga":   buildTGAFile(8, 8),
	"models/tri.mdl":       buildModelFile(2, "materials/rock.tga"),
}

func newTestScene() (*Scene, *universe.Universe, *resource.Manager) {
	u := universe.New()
	mgr := resource.NewManager(func(path string) ([]byte, error) {
		if data, ok := testFiles[path]; ok {
			return data, nil
		}
		return nil, fmt.Errorf("no such file: %s", path)
	})
	return New(u, mgr), u, mgr
}

func TestCreateComponentDefaults(t *testing.T) {
	s, u, _ := newTestScene()
	defer s.Destroy()

	t.Run("camera", func(t *testing.T) {
		cmp := s.CreateComponent(CameraType, u.CreateEntity())
		if !cmp.IsValid() || cmp.Type != CameraType {
			t.Fatalf("component = %+v", cmp)
		}
		if got := s.CameraFOV(cmp); got != 60 {
			t.Errorf("fov = %v, want 60", got)
		}
		if w, h := s.CameraWidth(cmp), s.CameraHeight(cmp); w != 800 || h != 600 {
			t.Errorf("viewport = %vx%v, want 800x600", w, h)
		}
		if near := s.CameraNearPlane(cmp); near != 0.1 {
			t.Errorf("near = %v, want 0.1", near)
		}
		if far := s.CameraFarPlane(cmp); far != 10000 {
			t.Errorf("far = %v, want 10000", far)
		}
		if s.IsCameraActive(cmp) {
			t.Error("new camera should be inactive")
		}
		if slot := s.CameraSlot(cmp); slot != "" {
			t.Errorf("slot = %q, want empty", slot)
		}
	})

	t.Run("renderable", func(t *testing.T) {
		cmp := s.CreateComponent(RenderableType, u.CreateEntity())
		if s.RenderableModel(cmp) != nil {
			t.Error("new renderable should have no model")
		}
		if got := s.RenderableScale(cmp); got != 1 {
			t.Errorf("scale = %v, want 1", got)
		}
	})

	t.Run("light", func(t *testing.T) {
		cmp := s.CreateComponent(LightType, u.CreateEntity())
		if got := s.LightKind(cmp); got != LightDirectional {
			t.Errorf("kind = %v, want directional", got)
		}
	})

	t.Run("terrain", func(t *testing.T) {
		cmp := s.CreateComponent(TerrainType, u.CreateEntity())
		if xz := s.TerrainXZScale(cmp); xz != 1 {
			t.Errorf("xz scale = %v, want 1", xz)
		}
		if y := s.TerrainYScale(cmp); y != 1 {
			t.Errorf("y scale = %v, want 1", y)
		}
		if mask := s.TerrainLayerMask(cmp); mask != 1 {
			t.Errorf("layer mask = %v, want 1", mask)
		}
		if w, h := s.TerrainSize(cmp); w != 0 || h != 0 {
			t.Errorf("size = %dx%d, want 0x0 before material load", w, h)
		}
	})
}

func TestCreateComponentUnknownType(t *testing.T) {
	s, u, _ := newTestScene()
	defer s.Destroy()

	defer func() {
		if recover() == nil {
			t.Error("expected panic for unknown component type")
		}
	}()
	s.CreateComponent(0xdeadbeef, u.CreateEntity())
}

func TestCreateComponentRegistersWithUniverse(t *testing.T) {
	s, u, _ := newTestScene()
	defer s.Destroy()

	var created []universe.Component
	u.OnComponentCreated(func(cmp universe.Component) {
		created = append(created, cmp)
	})

	e := u.CreateEntity()
	cmp := s.CreateComponent(RenderableType, e)

	if len(created) != 1 || created[0] != cmp {
		t.Errorf("created signal fired with %v, want %v", created, cmp)
	}
	cmps := u.ComponentsOf(e)
	if len(cmps) != 1 || cmps[0].Type != RenderableType {
		t.Errorf("universe components = %v", cmps)
	}
}

func TestOnEntityMoved(t *testing.T) {
	s, u, _ := newTestScene()
	defer s.Destroy()

	e := u.CreateEntity()
	cmp := s.CreateComponent(RenderableType, e)

	u.SetPosition(e, math.Vec3{X: 5, Y: 6, Z: 7})

	got := s.RenderableMatrix(cmp).Translation()
	if got != (math.Vec3{X: 5, Y: 6, Z: 7}) {
		t.Errorf("renderable position = %v, want (5,6,7)", got)
	}
}

func TestCameraSlotLookup(t *testing.T) {
	s, u, _ := newTestScene()
	defer s.Destroy()

	a := s.CreateComponent(CameraType, u.CreateEntity())
	b := s.CreateComponent(CameraType, u.CreateEntity())
	s.SetCameraSlot(a, "editor")
	s.SetCameraSlot(b, "main")

	if got := s.CameraInSlot("main"); got.Index != b.Index {
		t.Errorf("CameraInSlot(main) = %+v, want index %d", got, b.Index)
	}
	if got := s.CameraInSlot("missing"); got.IsValid() {
		t.Errorf("CameraInSlot(missing) = %+v, want invalid", got)
	}
}

func TestCameraSlotTruncated(t *testing.T) {
	s, u, _ := newTestScene()
	defer s.Destroy()

	cmp := s.CreateComponent(CameraType, u.CreateEntity())
	long := "0123456789012345678901234567890123456789"
	s.SetCameraSlot(cmp, long)
	if got := s.CameraSlot(cmp); len(got) != maxSlotLength || got != long[:maxSlotLength] {
		t.Errorf("slot = %q (%d chars), want %d-char prefix", got, len(got), maxSlotLength)
	}
}

func TestLightLookup(t *testing.T) {
	s, u, _ := newTestScene()
	defer s.Destroy()

	if got := s.Light(0); got.IsValid() {
		t.Errorf("Light(0) on empty scene = %+v, want invalid", got)
	}
	e := u.CreateEntity()
	s.CreateComponent(LightType, e)
	got := s.Light(0)
	if !got.IsValid() || got.Entity != e || got.Type != LightType {
		t.Errorf("Light(0) = %+v", got)
	}
}

func TestDebugLineExpiry(t *testing.T) {
	s, _, _ := newTestScene()
	defer s.Destroy()

	s.AddDebugLine(math.Vec3{}, math.Vec3{X: 1}, math.Vec3{X: 1}, 1.0)

	s.Update(0.6)
	if got := len(s.DebugLines()); got != 1 {
		t.Fatalf("lines after update(0.6) = %d, want 1", got)
	}
	s.Update(0.5)
	if got := len(s.DebugLines()); got != 0 {
		t.Errorf("lines after update(0.5) = %d, want 0", got)
	}
}

func TestDebugCubeAndCircle(t *testing.T) {
	s, _, _ := newTestScene()
	defer s.Destroy()

	s.AddDebugCube(math.Vec3{}, 2, math.Vec3{X: 1}, 1)
	if got := len(s.DebugLines()); got != 8 {
		t.Errorf("cube lines = %d, want 8", got)
	}

	s, _, _ = newTestScene()
	s.AddDebugCircle(math.Vec3{X: 3}, 5, math.Vec3{Z: 1}, 1)
	lines := s.DebugLines()
	if len(lines) != debugCircleSegments {
		t.Fatalf("circle lines = %d, want %d", len(lines), debugCircleSegments)
	}
	for _, l := range lines {
		for _, p := range []math.Vec3{l.From, l.To} {
			r := p.Sub(math.Vec3{X: 3}).Length()
			if r < 4.99 || r > 5.01 {
				t.Fatalf("circle point %v at radius %v, want 5", p, r)
			}
		}
	}
}
