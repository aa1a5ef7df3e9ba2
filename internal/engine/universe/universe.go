// Package universe owns entities and their world transforms.
// Scene systems attach components to entities and subscribe to
// transform-change notifications.
package universe

import (
	"github.com/nordlys3d/nordlys/pkg/math"
)

// Entity is a handle into a Universe. The zero Entity is invalid.
type Entity struct {
	Index    int32
	Universe *Universe
}

// IsValid reports whether the entity refers to a live universe slot.
func (e Entity) IsValid() bool {
	return e.Universe != nil && e.Index >= 0
}

// Matrix returns the entity's world transform.
func (e Entity) Matrix() math.Mat4 {
	return e.Universe.Matrix(e)
}

// Position returns the entity's world position.
func (e Entity) Position() math.Vec3 {
	return e.Universe.Matrix(e).Translation()
}

// Component ties an entity to per-system state: a type tag and an index
// into the owning system's registry for that type. Index is a weak
// reference, valid only while the entity/component pair is alive.
type Component struct {
	Entity Entity
	Type   uint32
	Index  int
	Owner  any
}

// InvalidComponent is returned by lookups that find nothing.
var InvalidComponent = Component{Index: -1}

// IsValid reports whether the component refers to a registry entry.
func (c Component) IsValid() bool {
	return c.Index >= 0
}

// ObserverID identifies a signal subscription so it can be removed.
type ObserverID int

type entityObserver struct {
	id ObserverID
	cb func(Entity)
}

type componentObserver struct {
	id ObserverID
	cb func(Component)
}

// Universe is the transform graph: it stores entity world matrices and the
// per-entity component lists, and fires movement/creation notifications.
type Universe struct {
	transforms map[int32]math.Mat4
	components map[int32][]Component
	nextEntity int32

	nextObserver     ObserverID
	movedObservers   []entityObserver
	createdObservers []componentObserver
}

// New creates an empty universe.
func New() *Universe {
	return &Universe{
		transforms: make(map[int32]math.Mat4),
		components: make(map[int32][]Component),
	}
}

// CreateEntity allocates a new entity with an identity transform.
func (u *Universe) CreateEntity() Entity {
	idx := u.nextEntity
	u.nextEntity++
	u.transforms[idx] = math.Identity()
	return Entity{Index: idx, Universe: u}
}

// EntityByIndex returns a handle for a recorded entity index, creating the
// transform slot if needed. Used when restoring serialized scenes.
func (u *Universe) EntityByIndex(index int32) Entity {
	if _, ok := u.transforms[index]; !ok {
		u.transforms[index] = math.Identity()
		if index >= u.nextEntity {
			u.nextEntity = index + 1
		}
	}
	return Entity{Index: index, Universe: u}
}

// Matrix returns the world transform of an entity.
func (u *Universe) Matrix(e Entity) math.Mat4 {
	if m, ok := u.transforms[e.Index]; ok {
		return m
	}
	return math.Identity()
}

// SetMatrix replaces an entity's world transform and notifies observers.
func (u *Universe) SetMatrix(e Entity, m math.Mat4) {
	u.transforms[e.Index] = m
	for _, o := range u.movedObservers {
		o.cb(e)
	}
}

// SetPosition moves an entity, keeping its rotation, and notifies observers.
func (u *Universe) SetPosition(e Entity, pos math.Vec3) {
	m := u.Matrix(e)
	m.SetTranslation(pos)
	u.SetMatrix(e, m)
}

// AddComponent registers a (type, index) pair for an entity and returns the
// resulting component handle.
func (u *Universe) AddComponent(e Entity, typ uint32, owner any, index int) Component {
	cmp := Component{Entity: e, Type: typ, Index: index, Owner: owner}
	u.components[e.Index] = append(u.components[e.Index], cmp)
	return cmp
}

// ComponentsOf returns the components registered for an entity.
func (u *Universe) ComponentsOf(e Entity) []Component {
	return u.components[e.Index]
}

// OnEntityMoved subscribes to transform changes.
func (u *Universe) OnEntityMoved(cb func(Entity)) ObserverID {
	u.nextObserver++
	u.movedObservers = append(u.movedObservers, entityObserver{u.nextObserver, cb})
	return u.nextObserver
}

// RemoveEntityMovedObserver drops a subscription made with OnEntityMoved.
func (u *Universe) RemoveEntityMovedObserver(id ObserverID) {
	for i, o := range u.movedObservers {
		if o.id == id {
			u.movedObservers = append(u.movedObservers[:i], u.movedObservers[i+1:]...)
			return
		}
	}
}

// OnComponentCreated subscribes to component creation.
func (u *Universe) OnComponentCreated(cb func(Component)) ObserverID {
	u.nextObserver++
	u.createdObservers = append(u.createdObservers, componentObserver{u.nextObserver, cb})
	return u.nextObserver
}

// RemoveComponentCreatedObserver drops a subscription made with OnComponentCreated.
func (u *Universe) RemoveComponentCreatedObserver(id ObserverID) {
	for i, o := range u.createdObservers {
		if o.id == id {
			u.createdObservers = append(u.createdObservers[:i], u.createdObservers[i+1:]...)
			return
		}
	}
}

// NotifyComponentCreated fires the component-created signal.
// Called by scene systems after a successful CreateComponent.
func (u *Universe) NotifyComponentCreated(cmp Component) {
	for _, o := range u.createdObservers {
		o.cb(cmp)
	}
}
