package canopy

import (
	"errors"
	"slices"
)

// Result summarises one Engine.Apply pass.
type Result struct {
	// Applied holds the records whose effects were committed, ready to be
	// folded into the tracker. A record whose parent attachment is still
	// pending carries its previous link in Next so the next diff retries it.
	Applied []DirtyRecord

	// Reports lists recovered data problems (cycles, missing parents).
	Reports []Report

	Created    int
	Updated    int
	Removed    int
	Rebuilt    int
	Reparented int
}

func (r *Result) reset() {
	r.Applied = r.Applied[:0]
	r.Reports = r.Reports[:0]
	r.Created = 0
	r.Updated = 0
	r.Removed = 0
	r.Rebuilt = 0
	r.Reparented = 0
}

// progress tracks how far one record got through the pass.
type progress struct {
	done        bool // effects committed; fold it
	linkPending bool // parent attachment not yet applied
	rebuilt     bool // widget recreated; all properties already set
}

// structuralItem is one entity queued for parent resolution.
type structuralItem struct {
	entity Entity
	depth  int
}

// Engine applies DirtyRecords to a Toolkit. It keeps scratch buffers between
// passes so steady-state ticks do not allocate.
type Engine struct {
	toolkit Toolkit

	progress   []progress
	order      []int
	structural []structuralItem
	queued     map[Entity]struct{}
	creating   map[Entity]struct{}
	recordOf   map[Entity]int
	depths     map[Entity]int
	childBuf   []Entity
	cycleBuf   []Entity
	result     Result
}

// NewEngine creates an engine driving toolkit.
func NewEngine(toolkit Toolkit) *Engine {
	return &Engine{
		toolkit:  toolkit,
		queued:   make(map[Entity]struct{}),
		creating: make(map[Entity]struct{}),
		recordOf: make(map[Entity]int),
		depths:   make(map[Entity]int),
	}
}

// Apply runs one synchronization pass over records in four steps: removals
// (deepest first), creations, parent resolution, property updates.
//
// A toolkit failure aborts the pass with a *SyncError. Nothing already
// committed is rolled back; Result.Applied then holds only the records
// whose effects landed, so the rest are diffed again on the next tick.
//
// The returned Result is reused by the next call.
func (g *Engine) Apply(records []DirtyRecord, table *HandleTable, res *Resolver) (*Result, error) {
	r := &g.result
	r.reset()

	g.progress = slices.Grow(g.progress[:0], len(records))[:len(records)]
	clear(g.progress)
	clear(g.creating)
	clear(g.recordOf)
	clear(g.queued)
	g.structural = g.structural[:0]

	for i := range records {
		rec := &records[i]
		g.recordOf[rec.Entity] = i
		if rec.Op == OpCreated || (rec.Op == OpUpdated && rec.Fields.Has(FieldKind)) {
			g.creating[rec.Entity] = struct{}{}
		}
	}

	err := g.apply(records, table, res)

	for i := range records {
		p := &g.progress[i]
		if !p.done {
			continue
		}
		rec := records[i]
		if p.linkPending {
			rec.Next.Link = rec.Prev.Link
			rec.Next.Linked = rec.Prev.Linked
		}
		r.Applied = append(r.Applied, rec)
	}
	return r, err
}

func (g *Engine) apply(records []DirtyRecord, table *HandleTable, res *Resolver) error {
	if err := g.removeAll(records, table, res); err != nil {
		return err
	}
	if err := g.createAll(records, table, res); err != nil {
		return err
	}
	if err := g.resolveAll(records, table, res); err != nil {
		return err
	}
	return g.updateAll(records, table)
}

// removeAll destroys widgets of removed entities, deepest first by the
// previous resolved tree.
func (g *Engine) removeAll(records []DirtyRecord, table *HandleTable, res *Resolver) error {
	g.order = g.order[:0]
	for i := range records {
		if records[i].Op == OpRemoved {
			g.order = append(g.order, i)
		}
	}
	depths := g.depths
	clear(depths)
	for _, i := range g.order {
		depths[records[i].Entity] = table.depth(records[i].Entity)
	}
	slices.SortFunc(g.order, func(a, b int) int {
		ea, eb := records[a].Entity, records[b].Entity
		if da, db := depths[ea], depths[eb]; da != db {
			return db - da
		}
		if ea.Less(eb) {
			return -1
		}
		if eb.Less(ea) {
			return 1
		}
		return 0
	})

	for _, i := range g.order {
		rec := &records[i]
		if h, ok := table.Get(rec.Entity); ok {
			if err := g.detachChildren(rec.Entity, table, res); err != nil {
				return err
			}
			g.toolkit.DestroyWidget(h)
			table.Remove(rec.Entity)
			g.result.Removed++
		}
		g.progress[i].done = true
	}
	return nil
}

// detachChildren moves the surviving children of e to the root so that
// destroying e's widget does not take them with it. They are marked
// orphaned, which queues them for resolution in every pass until they find
// a parent again.
func (g *Engine) detachChildren(e Entity, table *HandleTable, res *Resolver) error {
	g.childBuf = table.children(e, g.childBuf[:0])
	for _, child := range g.childBuf {
		h, _ := table.Get(child)
		if err := g.toolkit.SetParent(h, res.Root()); err != nil {
			return rejected("set_parent", child, err)
		}
		table.orphan(child, false)
		g.queue(child, res)
	}
	return nil
}

// createAll creates widgets for created entities and rebuilds widgets whose
// kind changed.
func (g *Engine) createAll(records []DirtyRecord, table *HandleTable, res *Resolver) error {
	for i := range records {
		rec := &records[i]
		switch {
		case rec.Op == OpCreated:
			if err := g.create(rec, table); err != nil {
				return err
			}
			g.result.Created++
		case rec.Op == OpUpdated && rec.Fields.Has(FieldKind):
			if err := g.rebuild(rec, table, res); err != nil {
				return err
			}
			g.progress[i].rebuilt = true
			g.result.Rebuilt++
		case rec.Op == OpUpdated && !table.Has(rec.Entity):
			// The snapshot knows the entity but it has no widget; build one
			// with every property rather than patching the changed fields.
			if err := g.create(rec, table); err != nil {
				return err
			}
			g.progress[i].rebuilt = true
			g.result.Rebuilt++
		default:
			continue
		}
		g.progress[i].done = true
		g.progress[i].linkPending = true
		g.queue(rec.Entity, res)
	}
	return nil
}

// rebuild replaces the widget of an entity whose kind changed. The old widget
// stays mapped until its replacement exists and its children are parked at
// the root, so a rejected call leaves the table in step with the toolkit.
func (g *Engine) rebuild(rec *DirtyRecord, table *HandleTable, res *Resolver) error {
	h, err := g.toolkit.CreateWidget(rec.Next.Tag.Kind, &rec.Next.Tag)
	if err != nil {
		return rejected("create", rec.Entity, err)
	}
	if old, ok := table.Get(rec.Entity); ok {
		if err := g.detachChildren(rec.Entity, table, res); err != nil {
			g.toolkit.DestroyWidget(h)
			return err
		}
		g.toolkit.DestroyWidget(old)
		table.Remove(rec.Entity)
	}
	if err := table.Insert(rec.Entity, h); err != nil {
		g.toolkit.DestroyWidget(h)
		return &SyncError{Op: "insert", Entity: rec.Entity, Err: err}
	}
	return nil
}

func (g *Engine) create(rec *DirtyRecord, table *HandleTable) error {
	h, err := g.toolkit.CreateWidget(rec.Next.Tag.Kind, &rec.Next.Tag)
	if err != nil {
		return rejected("create", rec.Entity, err)
	}
	if err := table.Insert(rec.Entity, h); err != nil {
		g.toolkit.DestroyWidget(h)
		return &SyncError{Op: "insert", Entity: rec.Entity, Err: err}
	}
	return nil
}

func (g *Engine) queue(e Entity, res *Resolver) {
	if _, ok := g.queued[e]; ok {
		return
	}
	g.queued[e] = struct{}{}
	g.structural = append(g.structural, structuralItem{entity: e, depth: res.Depth(e)})
}

// resolveAll attaches every queued entity to its resolved parent, parents
// before children so the toolkit never sees a transient cycle.
func (g *Engine) resolveAll(records []DirtyRecord, table *HandleTable, res *Resolver) error {
	for i := range records {
		rec := &records[i]
		if rec.Op == OpUpdated && rec.Fields.Has(FieldParent) {
			g.queue(rec.Entity, res)
			g.progress[i].linkPending = true
		}
	}
	// Anything parked at the root is retried every pass: its parent may have
	// appeared, or an aborted pass may have left it detached.
	if table.Orphans() > 0 {
		g.childBuf = table.orphans(g.childBuf[:0])
		for _, e := range g.childBuf {
			g.queue(e, res)
		}
	}

	slices.SortFunc(g.structural, func(a, b structuralItem) int {
		if a.depth != b.depth {
			return a.depth - b.depth
		}
		if a.entity.Less(b.entity) {
			return -1
		}
		if b.entity.Less(a.entity) {
			return 1
		}
		return 0
	})

	// attach may queue more entities; those are visited after the sorted ones.
	for i := 0; i < len(g.structural); i++ {
		if err := g.attach(g.structural[i].entity, table, res); err != nil {
			return err
		}
	}
	return nil
}

func (g *Engine) attach(e Entity, table *HandleTable, res *Resolver) error {
	h, ok := table.Get(e)
	if !ok {
		return nil
	}
	target := res.Root()
	var parent Entity
	hasParent := false
	var problem error

	if p, linked := res.Link(e); linked {
		ph, err := res.Resolve(e, p, table)
		switch {
		case err == nil:
			target, parent, hasParent = ph, p, true
		case errors.Is(err, ErrCycleDetected):
			problem = err
			// Every member of the cycle goes to the root, not only the one
			// whose link closed it.
			g.cycleBuf = res.Cycle(e, g.cycleBuf[:0])
			for _, m := range g.cycleBuf {
				g.queue(m, res)
			}
		case errors.Is(err, ErrParentMissing):
			problem = err
		case errors.Is(err, ErrParentNotReady):
			if _, pending := g.creating[p]; pending {
				return &SyncError{Op: "resolve", Entity: e, Err: err}
			}
			// The parent's own record was left for a later tick; keep the
			// current attachment and retry with it.
			return nil
		default:
			return &SyncError{Op: "resolve", Entity: e, Err: err}
		}
	}

	cur, curHas := table.Parent(e)
	if curHas != hasParent || cur != parent {
		if err := g.toolkit.SetParent(h, target); err != nil {
			return rejected("set_parent", e, err)
		}
		g.result.Reparented++
	}
	if problem != nil {
		if table.orphan(e, true) {
			g.result.Reports = append(g.result.Reports, Report{Entity: e, Err: problem})
		}
	} else {
		table.setParent(e, parent, hasParent)
	}

	if i, ok := g.recordOf[e]; ok {
		g.progress[i].linkPending = false
	}
	return nil
}

// updateAll applies changed property fields. Updated records that were
// rebuilt already carry every property.
func (g *Engine) updateAll(records []DirtyRecord, table *HandleTable) error {
	for i := range records {
		rec := &records[i]
		if rec.Op != OpUpdated {
			continue
		}
		p := &g.progress[i]
		if p.rebuilt {
			continue
		}
		h, ok := table.Get(rec.Entity)
		if !ok {
			continue
		}
		for _, f := range propertyFields {
			if !rec.Fields.Has(f) {
				continue
			}
			if err := g.toolkit.SetProperty(h, f, PropertyValue(&rec.Next.Tag, f)); err != nil {
				return rejected("set_property", rec.Entity, err)
			}
		}
		p.done = true
		g.result.Updated++
	}
	return nil
}
