package resource

// loadable is the common surface Pump needs from a pending resource.
type loadable interface {
	load(data []byte) error
	setState(s State)
}

// Manager owns all loaded materials and models, deduplicated by path and
// reference counted. Reads go through the injected readFile function so
// tests can feed synthetic files.
type Manager struct {
	readFile  func(path string) ([]byte, error)
	materials map[string]*Material
	models    map[string]*Model
	pending   []pendingLoad
}

type pendingLoad struct {
	path string
	res  loadable
}

// NewManager creates a manager that reads resource files via readFile.
func NewManager(readFile func(path string) ([]byte, error)) *Manager {
	return &Manager{
		readFile:  readFile,
		materials: make(map[string]*Material),
		models:    make(map[string]*Model),
	}
}

// LoadMaterial returns the material at path, starting a load if this is the
// first reference. The returned material may not be ready yet; callers
// observe its state or poll IsReady after Pump.
func (m *Manager) LoadMaterial(path string) *Material {
	if mat, ok := m.materials[path]; ok {
		mat.refs++
		return mat
	}
	mat := &Material{base: base{path: path, state: StateLoading, refs: 1}}
	m.materials[path] = mat
	m.pending = append(m.pending, pendingLoad{path, mat})
	return mat
}

// LoadModel returns the model at path, starting a load if this is the
// first reference.
func (m *Manager) LoadModel(path string) *Model {
	if mdl, ok := m.models[path]; ok {
		mdl.refs++
		return mdl
	}
	mdl := &Model{base: base{path: path, state: StateLoading, refs: 1}}
	m.models[path] = mdl
	m.pending = append(m.pending, pendingLoad{path, mdl})
	return mdl
}

// UnloadMaterial releases one reference taken by LoadMaterial. The material
// is evicted when the last reference goes away.
func (m *Manager) UnloadMaterial(mat *Material) {
	if mat == nil {
		return
	}
	mat.refs--
	if mat.refs <= 0 {
		delete(m.materials, mat.path)
		mat.setState(StateEmpty)
	}
}

// UnloadModel releases one reference taken by LoadModel, including the
// references the model's meshes hold on their materials.
func (m *Manager) UnloadModel(mdl *Model) {
	if mdl == nil {
		return
	}
	mdl.refs--
	if mdl.refs <= 0 {
		for _, mesh := range mdl.meshes {
			m.UnloadMaterial(mesh.Material())
			mesh.SetMaterial(nil)
		}
		delete(m.models, mdl.path)
		mdl.setState(StateEmpty)
	}
}

// Pump completes every pending load on the calling thread. State observers
// fire from here, never concurrently. Loads queued by the observers
// themselves (for example mesh materials) are completed in the same call.
func (m *Manager) Pump() {
	for len(m.pending) > 0 {
		batch := m.pending
		m.pending = nil
		for _, p := range batch {
			if m.evicted(p) {
				continue
			}
			data, err := m.readFile(p.path)
			if err != nil {
				p.res.setState(StateFailure)
				continue
			}
			if err := p.res.load(data); err != nil {
				p.res.setState(StateFailure)
				continue
			}
			if mdl, ok := p.res.(*Model); ok {
				m.bindMeshMaterials(mdl)
			}
			p.res.setState(StateReady)
		}
	}
}

// evicted reports whether the resource was unloaded before its load ran.
func (m *Manager) evicted(p pendingLoad) bool {
	switch r := p.res.(type) {
	case *Material:
		return m.materials[p.path] != r
	case *Model:
		return m.models[p.path] != r
	}
	return false
}

// bindMeshMaterials resolves the material paths recorded in a model file.
// The materials are queued as pending loads and picked up by the same Pump.
func (m *Manager) bindMeshMaterials(mdl *Model) {
	for _, mesh := range mdl.meshes {
		if mesh.MaterialPath() == "" {
			continue
		}
		mesh.SetMaterial(m.LoadMaterial(mesh.MaterialPath()))
	}
}
