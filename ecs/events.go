package ecs

import (
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"

	"github.com/phanxgames/canopy"
	"github.com/phanxgames/canopy/retained"
)

// WidgetEvent is a toolkit interaction addressed to the entity whose widget
// received it.
type WidgetEvent struct {
	Type   retained.EventType
	Entity donburi.Entity
	Kind   canopy.WidgetKind
	X, Y   float64
	Value  int32
}

// WidgetEventType is the Donburi event type for widget events.
// Events are queued; call ProcessEvents once per frame to deliver them.
var WidgetEventType = events.NewEventType[WidgetEvent]()

// HandleLookup maps widget handles back to entities. *canopy.Scheduler
// implements it.
type HandleLookup interface {
	EntityOf(h canopy.WidgetHandle) (canopy.Entity, bool)
}

// EventSink publishes retained interaction events into a Donburi world.
type EventSink struct {
	world   donburi.World
	handles HandleLookup
	dropped int
}

// NewEventSink creates a sink for world. Events for widgets the bridge does
// not own (the root, or widgets already torn down) are dropped.
func NewEventSink(world donburi.World, handles HandleLookup) *EventSink {
	return &EventSink{world: world, handles: handles}
}

// EmitEvent implements retained.EventSink.
func (s *EventSink) EmitEvent(e retained.InteractionEvent) {
	ent, ok := s.handles.EntityOf(e.Handle)
	if !ok {
		s.dropped++
		return
	}
	WidgetEventType.Publish(s.world, WidgetEvent{
		Type:   e.Type,
		Entity: ToDonburi(ent),
		Kind:   e.Kind,
		X:      e.X,
		Y:      e.Y,
		Value:  e.Value,
	})
}

// Dropped returns the number of events that matched no entity.
func (s *EventSink) Dropped() int {
	return s.dropped
}
