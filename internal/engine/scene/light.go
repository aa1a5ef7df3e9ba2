package scene

import "github.com/nordlys3d/nordlys/internal/engine/universe"

// LightKind is the light variant tag. The registry shape supports adding
// point and spot variants without changing the component contract.
type LightKind int32

const (
	LightDirectional LightKind = iota
)

// Light is a light source attached to an entity.
type Light struct {
	entity universe.Entity
	kind   LightKind
}
