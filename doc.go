// Package canopy keeps a retained-mode widget tree in sync with an ECS world.
//
// Entities that carry a [GuiTag] get a widget; a [ParentLink] places that
// widget under another tagged entity's widget. Every frame the host calls
// [Scheduler.Tick] with a read-only [WorldView]; the bridge diffs the view
// against what it applied last time and mutates the toolkit's tree through
// the narrow [Toolkit] interface. It never renders anything itself.
//
// # Quick start
//
//	screen := retained.NewScreen(retained.ScreenConfig{Width: 320, Height: 240})
//	bridge, err := canopy.NewScheduler(screen, canopy.DefaultConfig())
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// once per frame, after game systems have run:
//	if err := bridge.Tick(ecs.NewView(world)); err != nil {
//		log.Printf("sync: %v", err) // retried next tick
//	}
//
// # Pass order
//
// Each pass runs four steps in a fixed order: removed entities (deepest
// widget first, surviving children detached to the root), created
// entities, parent resolution (parents before children), then property
// updates. Only changed fields are sent to the toolkit, so toolkit-side state
// such as a scroll offset or an in-flight animation survives an update.
//
// # Budget
//
// [Config.Budget] caps how many records one tick applies. Removals go first,
// then creations, then structural updates, then property updates. Anything
// over budget stays out of the snapshot and is diffed again next tick, so a
// burst of changes is spread over several frames instead of stalling one.
//
// # Errors
//
// Toolkit failures abort the pass with a [*SyncError] wrapping
// [ErrToolkitRejected]; whatever was not applied is retried on the next
// tick. Parent-link cycles and links to untagged entities do not abort:
// the widget is attached to the root container and a [Report] is logged.
//
// The [retained] sub-package provides an Ebitengine toolkit, and [ecs]
// adapts a Donburi world.
//
// [retained]: https://pkg.go.dev/github.com/phanxgames/canopy/retained
// [ecs]: https://pkg.go.dev/github.com/phanxgames/canopy/ecs
package canopy
