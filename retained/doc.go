// Package retained is a small retained-mode widget toolkit for Ebitengine.
//
// A [Screen] owns a tree of [Widget]s (containers, labels, buttons, sliders
// and arcs) rooted at a full-screen container. It implements
// canopy.Toolkit, so a canopy.Scheduler can keep it in sync with an ECS
// world; it can also be driven directly.
//
// Usage:
//
//	screen := retained.NewScreen(retained.ScreenConfig{Width: 320, Height: 240})
//	screen.SetEventSink(sink)
//	screen.SetUpdateFunc(func() error {
//		return bridge.Tick(view)
//	})
//	if err := retained.Run(screen, retained.RunConfig{Title: "demo"}); err != nil {
//		log.Fatal(err)
//	}
//
// Widget bounds are relative to the parent widget. Pointer input (mouse or a
// single touch) presses buttons and drags sliders and arcs; the results are
// reported to the [EventSink] as [InteractionEvent]s carrying the widget
// handle. The screen shows a dragged value at once but expects the owner of
// the tree to write it back, so the ECS stays the source of truth.
//
// With ScreenConfig.Animate, values set through SetProperty ease toward
// their target using a gween tween.
package retained
