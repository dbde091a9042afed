package canopy

import (
	"log/slog"
	"slices"
	"time"
)

// Scheduler drives one synchronization pass per render tick. It owns the
// tracker, the handle table and the engine, and is the only type a host
// needs to call.
//
// Scheduler is not safe for concurrent or re-entrant use. Tick must run on
// the same thread as the toolkit, and the ECS must not be mutated while
// Tick reads the view.
type Scheduler struct {
	cfg     Config
	log     *slog.Logger
	toolkit Toolkit
	root    WidgetHandle

	tracker  *Tracker
	table    *HandleTable
	engine   *Engine
	resolver *Resolver

	batch []DirtyRecord
	stats TickStats
	frame uint64
}

// NewScheduler registers the toolkit's root container and prepares an empty
// bridge. It fails with ErrNoRoot if the toolkit has no root yet.
func NewScheduler(toolkit Toolkit, cfg Config) (*Scheduler, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	root := toolkit.RootContainer()
	if root == 0 {
		return nil, ErrNoRoot
	}
	tracker := NewTracker(cfg.Capacity)
	return &Scheduler{
		cfg:      cfg,
		log:      cfg.logger(),
		toolkit:  toolkit,
		root:     root,
		tracker:  tracker,
		table:    NewHandleTable(cfg.Capacity),
		engine:   NewEngine(toolkit),
		resolver: NewResolver(tracker, root),
	}, nil
}

// Tick observes view, applies at most Config.Budget records to the toolkit
// and folds what was applied. Records over budget, and records left
// unapplied by an aborted pass, show up again in the next tick.
//
// Recovered data problems are logged and passed to Config.OnReport; they do
// not fail the tick. A *SyncError aborts the pass and is returned.
func (s *Scheduler) Tick(view WorldView) error {
	s.frame++
	t0 := time.Now()

	records := s.tracker.Observe(view)
	batch := s.selectBatch(records)

	t1 := time.Now()
	res, err := s.engine.Apply(batch, s.table, s.resolver)
	s.tracker.Fold(res.Applied)
	t2 := time.Now()

	s.stats = TickStats{
		Frame:      s.frame,
		Observed:   s.tracker.Observed(),
		Records:    len(records),
		Applied:    len(res.Applied),
		Deferred:   len(records) - len(batch),
		Created:    res.Created,
		Updated:    res.Updated,
		Removed:    res.Removed,
		Rebuilt:    res.Rebuilt,
		Reparented: res.Reparented,
		Reports:    len(res.Reports),
		Widgets:    s.table.Len(),
		DiffTime:   t1.Sub(t0),
		ApplyTime:  t2.Sub(t1),
	}

	for _, rep := range res.Reports {
		s.log.Warn("widget rerouted to root", "entity", rep.Entity.String(), "err", rep.Err)
		if s.cfg.OnReport != nil {
			s.cfg.OnReport(rep)
		}
	}
	if s.cfg.Debug {
		s.debugLog(s.stats)
	}
	if err != nil {
		s.log.Error("sync pass aborted", "frame", s.frame, "applied", len(res.Applied), "err", err)
		return err
	}
	return nil
}

// recordRank orders records for budgeting: removals free memory first, then
// creations, then structural updates, then property-only updates.
func recordRank(r *DirtyRecord) int {
	switch {
	case r.Op == OpRemoved:
		return 0
	case r.Op == OpCreated:
		return 1
	case r.Structural():
		return 2
	}
	return 3
}

// selectBatch returns the records to apply this tick.
func (s *Scheduler) selectBatch(records []DirtyRecord) []DirtyRecord {
	budget := s.cfg.Budget
	if budget <= 0 || len(records) <= budget {
		return records
	}
	s.batch = append(s.batch[:0], records...)
	slices.SortStableFunc(s.batch, func(a, b DirtyRecord) int {
		return recordRank(&a) - recordRank(&b)
	})
	return s.batch[:budget]
}

// Despawned tells the bridge that e was despawned. Optional: entities that
// disappear from the view are removed anyway.
func (s *Scheduler) Despawned(e Entity) {
	s.tracker.Despawned(e)
}

// Handle returns the widget of e, if any.
func (s *Scheduler) Handle(e Entity) (WidgetHandle, bool) {
	return s.table.Get(e)
}

// EntityOf maps a widget handle back to its entity. Toolkit event routing
// uses this; the result is a lookup key, not an owning reference.
func (s *Scheduler) EntityOf(h WidgetHandle) (Entity, bool) {
	return s.table.EntityOf(h)
}

// Table returns the handle table. Callers must not mutate it.
func (s *Scheduler) Table() *HandleTable {
	return s.table
}

// Root returns the registered root container.
func (s *Scheduler) Root() WidgetHandle {
	return s.root
}

// Stats returns statistics for the most recent tick.
func (s *Scheduler) Stats() TickStats {
	return s.stats
}

// Reset destroys every widget the bridge created, deepest first, and
// forgets all state so the next tick recreates the tree from scratch.
func (s *Scheduler) Reset() {
	var all []Entity
	s.table.Each(func(e Entity, _ WidgetHandle) {
		all = append(all, e)
	})
	slices.SortStableFunc(all, func(a, b Entity) int {
		return s.table.depth(b) - s.table.depth(a)
	})
	for _, e := range all {
		if h, ok := s.table.Remove(e); ok {
			s.toolkit.DestroyWidget(h)
		}
	}
	s.table.reset()
	s.tracker.Reset()
	s.log.Debug("bridge reset", "destroyed", len(all))
}
