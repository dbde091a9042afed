package canopy

// LinkGraph is the parent-link relation observed in the current tick.
// Tracker implements it.
type LinkGraph interface {
	Link(e Entity) (parent Entity, ok bool)
	Tagged(e Entity) bool
	Observed() int
}

// Resolver turns ParentLinks into validated parent widget handles. The
// relation is re-derived from the LinkGraph on every call; nothing about the
// tree shape is cached here.
type Resolver struct {
	graph LinkGraph
	root  WidgetHandle
}

// NewResolver creates a resolver over graph. root is returned for entities
// without a usable parent.
func NewResolver(graph LinkGraph, root WidgetHandle) *Resolver {
	return &Resolver{graph: graph, root: root}
}

// Root returns the root container handle.
func (r *Resolver) Root() WidgetHandle {
	return r.root
}

// Link returns the ParentLink target of e observed this tick.
func (r *Resolver) Link(e Entity) (Entity, bool) {
	return r.graph.Link(e)
}

// Resolve returns the widget handle e should be attached under when its
// ParentLink names parent.
//
// Errors: ErrParentMissing when parent has no GuiTag, ErrCycleDetected when
// the chain from parent leads back to e within the observed entity count,
// ErrParentNotReady when parent is tagged but not yet in table.
func (r *Resolver) Resolve(e, parent Entity, table *HandleTable) (WidgetHandle, error) {
	if !r.graph.Tagged(parent) {
		return r.root, ErrParentMissing
	}
	if r.onCycle(e, parent) {
		return r.root, ErrCycleDetected
	}
	h, ok := table.Get(parent)
	if !ok {
		return 0, ErrParentNotReady
	}
	return h, nil
}

// onCycle walks ParentLinks upward from parent and reports whether e is
// reached. The walk stops at the first untagged or unlinked entity and never
// takes more steps than there are observed entities.
func (r *Resolver) onCycle(e, parent Entity) bool {
	bound := r.graph.Observed()
	cur := parent
	for i := 0; i <= bound; i++ {
		if cur == e {
			return true
		}
		next, ok := r.graph.Link(cur)
		if !ok || !r.graph.Tagged(next) {
			return false
		}
		cur = next
	}
	return false
}

// Cycle appends the other members of the cycle that e closes, walking up
// from e's parent. It appends nothing when e is not on a cycle. The walk is
// bounded by the observed entity count.
func (r *Resolver) Cycle(e Entity, buf []Entity) []Entity {
	parent, ok := r.graph.Link(e)
	if !ok || !r.graph.Tagged(parent) || !r.onCycle(e, parent) {
		return buf
	}
	bound := r.graph.Observed()
	cur := parent
	for i := 0; i < bound && cur != e; i++ {
		buf = append(buf, cur)
		next, ok := r.graph.Link(cur)
		if !ok {
			break
		}
		cur = next
	}
	return buf
}

// Depth returns how many tagged ancestors e will have once the current
// links are applied. Entities on a cycle, and entities whose ancestors
// cannot be resolved, count from the root. The result is bounded by the
// observed entity count.
func (r *Resolver) Depth(e Entity) int {
	parent, ok := r.graph.Link(e)
	if !ok || !r.graph.Tagged(parent) || r.onCycle(e, parent) {
		return 0
	}
	bound := r.graph.Observed()
	d := 0
	cur := e
	for d < bound {
		next, ok := r.graph.Link(cur)
		if !ok || !r.graph.Tagged(next) || next == e {
			break
		}
		d++
		cur = next
	}
	return d
}
