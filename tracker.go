package canopy

import "slices"

// Op classifies a DirtyRecord.
type Op uint8

const (
	OpRemoved Op = iota // entity lost its GuiTag or was despawned
	OpCreated           // entity gained a GuiTag
	OpUpdated           // GuiTag or ParentLink changed
)

var opNames = [...]string{"removed", "created", "updated"}

func (o Op) String() string {
	if int(o) < len(opNames) {
		return opNames[o]
	}
	return "op(?)"
}

// DirtyRecord describes how one entity changed since the last folded
// snapshot. Records live for a single pass.
type DirtyRecord struct {
	Entity Entity
	Op     Op
	Fields FieldSet // changed fields; every present field for OpCreated
	Prev   State    // valid for OpUpdated and OpRemoved
	Next   State    // valid for OpCreated and OpUpdated
}

// Structural reports whether applying r requires a parent resolution.
func (r *DirtyRecord) Structural() bool {
	switch r.Op {
	case OpCreated:
		return true
	case OpUpdated:
		return r.Fields&(FieldParent|FieldKind) != 0
	}
	return false
}

// recordLess orders records removed-first, then created, then updated, and
// by ascending Entity within each group.
func recordLess(a, b *DirtyRecord) int {
	if a.Op != b.Op {
		return int(a.Op) - int(b.Op)
	}
	if a.Entity == b.Entity {
		return 0
	}
	if a.Entity.Less(b.Entity) {
		return -1
	}
	return 1
}

// Tracker computes per-tick DirtyRecords from successive world views. It
// owns the snapshot of the last applied state and the link graph observed
// in the current tick.
type Tracker struct {
	snapshot map[Entity]State

	// Current observation, rebuilt by every Observe.
	current  map[Entity]State
	links    map[Entity]Entity
	observed int

	despawned map[Entity]struct{}
	records   []DirtyRecord
}

// NewTracker creates a tracker sized for about capacity entities.
func NewTracker(capacity int) *Tracker {
	return &Tracker{
		snapshot:  make(map[Entity]State, capacity),
		current:   make(map[Entity]State, capacity),
		links:     make(map[Entity]Entity, capacity),
		despawned: make(map[Entity]struct{}),
		records:   make([]DirtyRecord, 0, capacity),
	}
}

// Diff observes view and folds every resulting record into the snapshot, so
// a second Diff over an unchanged view yields no records.
//
// The returned slice is reused by the next Observe or Diff.
func (t *Tracker) Diff(view WorldView) []DirtyRecord {
	records := t.Observe(view)
	t.Fold(records)
	return records
}

// Observe computes the records for view against the snapshot without
// folding them. Records that are never folded are produced again by the
// next Observe, reflecting whatever state the entity has by then.
//
// The returned slice is reused by the next Observe or Diff.
func (t *Tracker) Observe(view WorldView) []DirtyRecord {
	clear(t.current)
	clear(t.links)
	t.observed = 0

	view.Each(func(e Entity, tag *GuiTag, link *ParentLink) {
		if _, gone := t.despawned[e]; gone {
			return
		}
		t.observed++
		var st State
		if link != nil {
			t.links[e] = link.Parent
			st.Link = *link
			st.Linked = true
		}
		if tag != nil {
			st.Tag = *tag
			t.current[e] = st
		}
	})
	clear(t.despawned)

	t.records = t.records[:0]
	for e, prev := range t.snapshot {
		if _, ok := t.current[e]; !ok {
			t.records = append(t.records, DirtyRecord{Entity: e, Op: OpRemoved, Prev: prev})
		}
	}
	for e, next := range t.current {
		prev, ok := t.snapshot[e]
		if !ok {
			fields := FieldKind | PropertyFields
			if next.Linked {
				fields |= FieldParent
			}
			t.records = append(t.records, DirtyRecord{Entity: e, Op: OpCreated, Fields: fields, Next: next})
			continue
		}
		if fields := changedFields(&prev, &next); fields != 0 {
			t.records = append(t.records, DirtyRecord{Entity: e, Op: OpUpdated, Fields: fields, Prev: prev, Next: next})
		}
	}
	slices.SortFunc(t.records, func(a, b DirtyRecord) int { return recordLess(&a, &b) })
	return t.records
}

// Fold commits records into the snapshot. A record's Next state is what
// gets stored, so callers may fold a record whose Next differs from the
// observed state to force a partial retry.
func (t *Tracker) Fold(records []DirtyRecord) {
	for i := range records {
		t.fold(&records[i])
	}
}

func (t *Tracker) fold(r *DirtyRecord) {
	if r.Op == OpRemoved {
		delete(t.snapshot, r.Entity)
		return
	}
	t.snapshot[r.Entity] = r.Next
}

// Despawned drops e from the next observation even if the view still lists
// it. Hosts with a despawn hook can call this; polling alone also detects
// despawns because absent entities produce OpRemoved.
func (t *Tracker) Despawned(e Entity) {
	t.despawned[e] = struct{}{}
}

// Link returns the ParentLink target of e in the current observation.
func (t *Tracker) Link(e Entity) (Entity, bool) {
	p, ok := t.links[e]
	return p, ok
}

// Tagged reports whether e carried a GuiTag in the current observation.
func (t *Tracker) Tagged(e Entity) bool {
	_, ok := t.current[e]
	return ok
}

// Observed returns how many entities the current observation saw.
func (t *Tracker) Observed() int {
	return t.observed
}

// Snapshot returns the folded state of e.
func (t *Tracker) Snapshot(e Entity) (State, bool) {
	st, ok := t.snapshot[e]
	return st, ok
}

// Reset forgets the snapshot so every tagged entity is Created again.
func (t *Tracker) Reset() {
	clear(t.snapshot)
	clear(t.current)
	clear(t.links)
	clear(t.despawned)
	t.observed = 0
	t.records = t.records[:0]
}
