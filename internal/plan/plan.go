package plan

import (
	"fmt"
	"slices"
	"sync"

	"github.com/philopon/go-toposort"
)

// Edge is a declared dependency: Dependent is applied after Dependency.
type Edge struct {
	Dependent  *Handle
	Dependency *Handle
}

type node struct {
	handle   *Handle
	resource Resource
}

// Plan is a dependency graph of resources. It is safe for concurrent use.
type Plan struct {
	mu       sync.Mutex
	nodes    map[string]*node
	ids      []string
	deps     map[string][]string
	executed bool
}

// New creates an empty plan.
func New() *Plan {
	return &Plan{
		nodes: make(map[string]*node),
		deps:  make(map[string][]string),
	}
}

// Add registers a resource and returns its handle.
func (p *Plan) Add(r Resource) (*Handle, error) {
	if r == nil {
		return nil, fmt.Errorf("cannot add nil resource")
	}
	if r.Name() == "" {
		return nil, fmt.Errorf("cannot add %s resource without a name", r.Kind())
	}

	id := resourceID(r)

	p.mu.Lock()
	defer p.mu.Unlock()

	if _, exists := p.nodes[id]; exists {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateResource, id)
	}

	h := &Handle{id: id, kind: r.Kind(), name: r.Name(), namespace: r.Namespace()}
	p.nodes[id] = &node{handle: h, resource: r}
	p.ids = append(p.ids, id)
	return h, nil
}

// Lookup returns the handle of an already added resource with the same
// kind, namespace and name as r.
func (p *Plan) Lookup(r Resource) (*Handle, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	n, ok := p.nodes[resourceID(r)]
	if !ok {
		return nil, false
	}
	return n.handle, true
}

// DeclareDependency orders dependent after dependency.
//
// Declaring the same edge twice is a no-op. An edge that would create a
// cycle is rejected with a *CycleError and the graph is left unchanged.
func (p *Plan) DeclareDependency(dependent, dependency *Handle) error {
	if dependent == nil || dependency == nil {
		return fmt.Errorf("%w: nil handle", ErrUnknownHandle)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	for _, h := range []*Handle{dependent, dependency} {
		n, ok := p.nodes[h.id]
		if !ok || n.handle != h {
			return fmt.Errorf("%w: %s", ErrUnknownHandle, h.id)
		}
	}

	if dependent.id == dependency.id {
		return &CycleError{Dependent: dependent.id, Dependency: dependency.id}
	}
	if slices.Contains(p.deps[dependent.id], dependency.id) {
		return nil
	}

	p.deps[dependent.id] = append(p.deps[dependent.id], dependency.id)
	if _, ok := p.sortLocked(); !ok {
		p.deps[dependent.id] = p.deps[dependent.id][:len(p.deps[dependent.id])-1]
		if len(p.deps[dependent.id]) == 0 {
			delete(p.deps, dependent.id)
		}
		return &CycleError{Dependent: dependent.id, Dependency: dependency.id}
	}

	return nil
}

// Order returns the handles in an order that satisfies every dependency.
// Resources without constraints keep their insertion order.
func (p *Plan) Order() ([]*Handle, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	sorted, ok := p.sortLocked()
	if !ok {
		return nil, fmt.Errorf("plan dependencies are not solvable")
	}

	handles := make([]*Handle, len(sorted))
	for i, id := range sorted {
		handles[i] = p.nodes[id].handle
	}
	return handles, nil
}

// Edges returns every declared dependency in declaration order per dependent.
func (p *Plan) Edges() []Edge {
	p.mu.Lock()
	defer p.mu.Unlock()

	var edges []Edge
	for _, id := range p.ids {
		for _, dep := range p.deps[id] {
			edges = append(edges, Edge{Dependent: p.nodes[id].handle, Dependency: p.nodes[dep].handle})
		}
	}
	return edges
}

// DependenciesOf returns the handles h directly depends on.
func (p *Plan) DependenciesOf(h *Handle) []*Handle {
	p.mu.Lock()
	defer p.mu.Unlock()

	var out []*Handle
	for _, dep := range p.deps[h.id] {
		out = append(out, p.nodes[dep].handle)
	}
	return out
}

// Len returns the number of resources in the plan.
func (p *Plan) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.ids)
}

// sortLocked topologically sorts the graph. The caller must hold p.mu.
func (p *Plan) sortLocked() ([]string, bool) {
	graph := toposort.NewGraph(len(p.ids))
	for _, id := range p.ids {
		graph.AddNode(id)
	}
	for _, id := range p.ids {
		for _, dep := range p.deps[id] {
			graph.AddEdge(dep, id)
		}
	}
	return graph.Toposort()
}

// levelsLocked groups the sorted ids so that every resource sits one level
// below its deepest dependency. The caller must hold p.mu.
func (p *Plan) levelsLocked(sorted []string) [][]*node {
	depth := make(map[string]int, len(sorted))
	var levels [][]*node

	for _, id := range sorted {
		d := 0
		for _, dep := range p.deps[id] {
			if depth[dep]+1 > d {
				d = depth[dep] + 1
			}
		}
		depth[id] = d
		for len(levels) <= d {
			levels = append(levels, nil)
		}
		levels[d] = append(levels[d], p.nodes[id])
	}

	return levels
}
