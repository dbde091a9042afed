package canopy

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicateHandle reports a Created record for an entity that is
	// already mapped. It is a programming error and aborts the pass.
	ErrDuplicateHandle = errors.New("canopy: entity already has a widget handle")

	// ErrToolkitRejected reports a failed toolkit call. The pass is aborted
	// and the unapplied records are retried on the next tick.
	ErrToolkitRejected = errors.New("canopy: toolkit rejected operation")

	// ErrParentNotReady reports a parent entity that is tagged but has no
	// widget yet. The engine's processing order rules this out, so seeing it
	// means an internal invariant broke.
	ErrParentNotReady = errors.New("canopy: parent widget not ready")

	// ErrCycleDetected reports a ParentLink chain that loops. The entity is
	// attached to the root container instead.
	ErrCycleDetected = errors.New("canopy: parent link cycle")

	// ErrParentMissing reports a ParentLink to an entity without a GuiTag.
	// The entity is attached to the root container instead.
	ErrParentMissing = errors.New("canopy: parent entity has no gui tag")

	// ErrNoRoot is returned when the toolkit reports no root container.
	ErrNoRoot = errors.New("canopy: toolkit has no root container")
)

// SyncError is a fatal error from one synchronization pass.
type SyncError struct {
	Op     string // toolkit or table operation: "create", "set_parent", ...
	Entity Entity
	Err    error // one of the package sentinels
	Reason error // toolkit failure reason, if any
}

func (e *SyncError) Error() string {
	if e.Reason != nil {
		return fmt.Sprintf("%v: %s entity %v: %v", e.Err, e.Op, e.Entity, e.Reason)
	}
	return fmt.Sprintf("%v: %s entity %v", e.Err, e.Op, e.Entity)
}

// Unwrap exposes both the sentinel and the toolkit reason to errors.Is/As.
func (e *SyncError) Unwrap() []error {
	if e.Reason != nil {
		return []error{e.Err, e.Reason}
	}
	return []error{e.Err}
}

func rejected(op string, ent Entity, reason error) *SyncError {
	return &SyncError{Op: op, Entity: ent, Err: ErrToolkitRejected, Reason: reason}
}

// Report is a recovered data-quality problem: the pass continued with a
// fallback (root attachment).
type Report struct {
	Entity Entity
	Err    error
}

func (r Report) String() string {
	return fmt.Sprintf("entity %v: %v", r.Entity, r.Err)
}
