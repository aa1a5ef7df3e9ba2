package scene

import (
	gomath "math"

	"github.com/nordlys3d/nordlys/pkg/math"
)

// debugCircleSegments is the number of chords approximating a debug circle.
const debugCircleSegments = 64

// DebugLine is a time-limited visualization segment. Life is the remaining
// lifetime in seconds; Update removes lines once it drops below zero.
type DebugLine struct {
	From  math.Vec3
	To    math.Vec3
	Color math.Vec3
	Life  float32
}

// DebugLines returns the live debug lines. The slice is read-only and valid
// until the next Update or Add call.
func (s *Scene) DebugLines() []DebugLine {
	return s.debugLines
}

// AddDebugLine appends a line segment with the given remaining lifetime.
func (s *Scene) AddDebugLine(from, to, color math.Vec3, life float32) {
	s.debugLines = append(s.debugLines, DebugLine{From: from, To: to, Color: color, Life: life})
}

// AddDebugCube draws the top and bottom squares of an axis-aligned cube with
// min corner at from.
func (s *Scene) AddDebugCube(from math.Vec3, size float32, color math.Vec3, life float32) {
	a := from
	b := from
	b.X += size
	s.AddDebugLine(a, b, color, life)
	a = math.Vec3{X: b.X, Y: b.Y, Z: b.Z + size}
	s.AddDebugLine(a, b, color, life)
	b = math.Vec3{X: a.X - size, Y: a.Y, Z: a.Z}
	s.AddDebugLine(a, b, color, life)
	a = math.Vec3{X: b.X, Y: b.Y, Z: b.Z - size}
	s.AddDebugLine(a, b, color, life)

	a = from
	a.Y += size
	b = a
	b.X += size
	s.AddDebugLine(a, b, color, life)
	a = math.Vec3{X: b.X, Y: b.Y, Z: b.Z + size}
	s.AddDebugLine(a, b, color, life)
	b = math.Vec3{X: a.X - size, Y: a.Y, Z: a.Z}
	s.AddDebugLine(a, b, color, life)
	a = math.Vec3{X: b.X, Y: b.Y, Z: b.Z - size}
	s.AddDebugLine(a, b, color, life)
}

// AddDebugCircle draws a closed circle in the XZ plane as 64 chords.
func (s *Scene) AddDebugCircle(center math.Vec3, radius float32, color math.Vec3, life float32) {
	prevX := radius
	prevZ := float32(0)
	for i := 1; i <= debugCircleSegments; i++ {
		a := float64(i) / debugCircleSegments * 2 * gomath.Pi
		x := float32(gomath.Cos(a)) * radius
		z := float32(gomath.Sin(a)) * radius
		s.AddDebugLine(
			center.Add(math.Vec3{X: x, Z: z}),
			center.Add(math.Vec3{X: prevX, Z: prevZ}),
			color, life,
		)
		prevX = x
		prevZ = z
	}
}
