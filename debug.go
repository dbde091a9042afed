package canopy

import "time"

// TickStats holds counters and timings for one Scheduler.Tick.
type TickStats struct {
	Frame    uint64
	Observed int // entities seen in the view
	Records  int // records diffed
	Applied  int // records folded
	Deferred int // records left for later ticks by the budget

	Created    int
	Updated    int
	Removed    int
	Rebuilt    int
	Reparented int
	Reports    int
	Widgets    int // live handles after the tick

	DiffTime  time.Duration
	ApplyTime time.Duration
}

// debugLog writes tick statistics at debug level.
func (s *Scheduler) debugLog(st TickStats) {
	s.log.Debug("tick",
		"frame", st.Frame,
		"observed", st.Observed,
		"records", st.Records,
		"applied", st.Applied,
		"deferred", st.Deferred,
		"created", st.Created,
		"updated", st.Updated,
		"removed", st.Removed,
		"rebuilt", st.Rebuilt,
		"reparented", st.Reparented,
		"widgets", st.Widgets,
		"diff", st.DiffTime,
		"apply", st.ApplyTime,
	)
}
