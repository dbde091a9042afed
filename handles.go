package canopy

import "fmt"

// handleEntry is one slot of the dense handle table.
type handleEntry struct {
	used       bool
	generation uint32
	handle     WidgetHandle

	// Resolved parent as of the last structural pass. hasParent == false
	// means the widget sits directly under the root container.
	parent    Entity
	hasParent bool

	// orphaned is set while the widget is parked at the root waiting for
	// its ParentLink to become resolvable (cycle, missing or removed
	// parent). reported is set once that problem has been reported.
	orphaned bool
	reported bool
}

// HandleTable maps entities to widget handles. It is the sole owner of the
// forward association; the reverse lookup is a non-owning key used to route
// toolkit events back to entities.
//
// Storage is dense, indexed by Entity.Index, so at most one generation of a
// slot can be mapped at a time.
type HandleTable struct {
	slots    []handleEntry
	count    int
	orphaned int
	reverse  map[WidgetHandle]Entity
}

// NewHandleTable creates a table with room for capacity entity slots.
func NewHandleTable(capacity int) *HandleTable {
	return &HandleTable{
		slots:   make([]handleEntry, 0, capacity),
		reverse: make(map[WidgetHandle]Entity, capacity),
	}
}

func (t *HandleTable) entry(e Entity) *handleEntry {
	if int(e.Index) >= len(t.slots) {
		return nil
	}
	s := &t.slots[e.Index]
	if !s.used || s.generation != e.Generation {
		return nil
	}
	return s
}

// Get returns the handle mapped to e.
func (t *HandleTable) Get(e Entity) (WidgetHandle, bool) {
	if s := t.entry(e); s != nil {
		return s.handle, true
	}
	return 0, false
}

// Has reports whether e is mapped.
func (t *HandleTable) Has(e Entity) bool {
	return t.entry(e) != nil
}

// Insert maps e to h. It fails with ErrDuplicateHandle if e, or another
// generation of the same slot, is already mapped.
func (t *HandleTable) Insert(e Entity, h WidgetHandle) error {
	for int(e.Index) >= len(t.slots) {
		t.slots = append(t.slots, handleEntry{})
	}
	s := &t.slots[e.Index]
	if s.used {
		if s.generation == e.Generation {
			return ErrDuplicateHandle
		}
		return fmt.Errorf("%w: slot %d held by generation %d", ErrDuplicateHandle, e.Index, s.generation)
	}
	*s = handleEntry{used: true, generation: e.Generation, handle: h}
	t.reverse[h] = e
	t.count++
	return nil
}

// Remove unmaps e and returns the handle it held.
func (t *HandleTable) Remove(e Entity) (WidgetHandle, bool) {
	s := t.entry(e)
	if s == nil {
		return 0, false
	}
	h := s.handle
	if s.orphaned {
		t.orphaned--
	}
	*s = handleEntry{}
	delete(t.reverse, h)
	t.count--
	return h, true
}

// EntityOf returns the entity whose widget is h.
func (t *HandleTable) EntityOf(h WidgetHandle) (Entity, bool) {
	e, ok := t.reverse[h]
	return e, ok
}

// Len returns the number of mapped entities.
func (t *HandleTable) Len() int {
	return t.count
}

// Each calls fn for every mapped entity in ascending Entity order.
func (t *HandleTable) Each(fn func(e Entity, h WidgetHandle)) {
	for i := range t.slots {
		s := &t.slots[i]
		if s.used {
			fn(Entity{Index: uint32(i), Generation: s.generation}, s.handle)
		}
	}
}

// Parent returns the resolved parent of e from the last structural pass.
// ok is false when e is unmapped or sits directly under the root.
func (t *HandleTable) Parent(e Entity) (parent Entity, ok bool) {
	s := t.entry(e)
	if s == nil || !s.hasParent {
		return Entity{}, false
	}
	return s.parent, true
}

// setParent records the resolved parent of e and clears its orphan state.
func (t *HandleTable) setParent(e Entity, parent Entity, hasParent bool) {
	if s := t.entry(e); s != nil {
		s.parent = parent
		s.hasParent = hasParent
		if s.orphaned {
			t.orphaned--
		}
		s.orphaned = false
		s.reported = false
	}
}

// orphan records that e sits at the root until its link resolves. It
// returns true the first time a report is due for e.
func (t *HandleTable) orphan(e Entity, report bool) bool {
	s := t.entry(e)
	if s == nil {
		return false
	}
	s.parent = Entity{}
	s.hasParent = false
	if !s.orphaned {
		t.orphaned++
	}
	s.orphaned = true
	if report && !s.reported {
		s.reported = true
		return true
	}
	return false
}

// depth returns how many resolved ancestors e has below the root. The walk
// is bounded by the table size.
func (t *HandleTable) depth(e Entity) int {
	d := 0
	cur := e
	for d <= t.count {
		p, ok := t.Parent(cur)
		if !ok {
			return d
		}
		d++
		cur = p
	}
	return d
}

// children appends the mapped entities whose resolved parent is e.
func (t *HandleTable) children(e Entity, buf []Entity) []Entity {
	for i := range t.slots {
		s := &t.slots[i]
		if s.used && s.hasParent && s.parent == e {
			buf = append(buf, Entity{Index: uint32(i), Generation: s.generation})
		}
	}
	return buf
}

// Orphans returns the number of mapped entities parked at the root until
// their ParentLink resolves.
func (t *HandleTable) Orphans() int {
	return t.orphaned
}

// orphans appends the mapped entities that were rerouted to the root.
func (t *HandleTable) orphans(buf []Entity) []Entity {
	for i := range t.slots {
		s := &t.slots[i]
		if s.used && s.orphaned {
			buf = append(buf, Entity{Index: uint32(i), Generation: s.generation})
		}
	}
	return buf
}

// reset unmaps everything.
func (t *HandleTable) reset() {
	t.slots = t.slots[:0]
	clear(t.reverse)
	t.count = 0
	t.orphaned = 0
}
