// Package ecs adapts a [Donburi] world to canopy.
//
// [NewView] presents the entities carrying the [GuiTag] or [ParentLink]
// components as a canopy.WorldView, so a canopy.Scheduler can mirror them
// into a widget tree. [NewEventSink] routes toolkit interaction events back
// into the world as [WidgetEvent]s addressed to entities. Subscribe to
// [WidgetEventType] in your ECS systems to receive them.
//
// Usage:
//
//	view := ecs.NewView(world)
//	ecs.WatchDespawns(world, bridge)
//	screen.SetEventSink(ecs.NewEventSink(world, bridge))
//
//	// each frame:
//	ecs.WidgetEventType.ProcessEvents(world)
//	if err := bridge.Tick(view); err != nil {
//		log.Printf("sync: %v", err)
//	}
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
