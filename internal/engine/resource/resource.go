// Package resource implements reference-counted, asynchronously loaded
// render assets: materials (with their backing textures) and models.
// Loads complete on the caller's thread when Pump is invoked, so state
// observers never fire concurrently with scene mutation.
package resource

// State describes where a resource is in its load lifecycle.
type State int32

const (
	StateEmpty State = iota
	StateLoading
	StateReady
	StateFailure
)

func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateFailure:
		return "failure"
	default:
		return "unknown"
	}
}

// ObserverID identifies a state-change subscription so it can be removed.
type ObserverID int

type stateObserver struct {
	id ObserverID
	cb func(old, new State)
}

// base carries the shared lifecycle of every resource: path, state,
// reference count and state observers. Embedded by Material and Model.
type base struct {
	path      string
	state     State
	refs      int
	observers []stateObserver
	nextObs   ObserverID
}

// Path returns the path the resource was loaded from.
func (b *base) Path() string {
	return b.path
}

// State returns the current lifecycle state.
func (b *base) State() State {
	return b.state
}

// IsReady reports whether the resource finished loading successfully.
func (b *base) IsReady() bool {
	return b.state == StateReady
}

// AddObserver subscribes to state transitions. The returned id must be
// passed to RemoveObserver before the subscriber goes away.
func (b *base) AddObserver(cb func(old, new State)) ObserverID {
	b.nextObs++
	b.observers = append(b.observers, stateObserver{b.nextObs, cb})
	return b.nextObs
}

// RemoveObserver drops a subscription made with AddObserver.
func (b *base) RemoveObserver(id ObserverID) {
	for i, o := range b.observers {
		if o.id == id {
			b.observers = append(b.observers[:i], b.observers[i+1:]...)
			return
		}
	}
}

func (b *base) setState(s State) {
	old := b.state
	if old == s {
		return
	}
	b.state = s
	// Iterate a snapshot: observers may (un)subscribe from the callback.
	for _, o := range append([]stateObserver(nil), b.observers...) {
		o.cb(old, s)
	}
}
