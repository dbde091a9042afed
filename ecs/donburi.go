package ecs

import (
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/filter"

	"github.com/phanxgames/canopy"
)

// GuiTag marks an entity that should have a widget.
var GuiTag = donburi.NewComponentType[canopy.GuiTag]()

// ParentLink places an entity's widget under another entity's widget. Set it
// with SetParent so the parent is stored in canopy's entity form.
var ParentLink = donburi.NewComponentType[canopy.ParentLink]()

// Donburi keeps the entity id in the high 32 bits. The low bits hold a
// 24-bit version and a flag set on every live entity.
const (
	versionMask = 0x00FFFFFF
	readyBit    = 0x01000000
)

// FromDonburi converts a Donburi entity to canopy's form: the id becomes the
// slot index and the version the generation.
func FromDonburi(e donburi.Entity) canopy.Entity {
	v := uint64(e)
	return canopy.Entity{Index: uint32(v >> 32), Generation: uint32(v) & versionMask}
}

// ToDonburi is the inverse of FromDonburi for live entities.
func ToDonburi(e canopy.Entity) donburi.Entity {
	return donburi.Entity(uint64(e.Index)<<32 | uint64(e.Generation&versionMask) | readyBit)
}

// View is a canopy.WorldView over a Donburi world.
type View struct {
	world donburi.World
	query *donburi.Query
}

// NewView creates a view over every entity carrying GuiTag or ParentLink.
func NewView(world donburi.World) *View {
	return &View{
		world: world,
		query: donburi.NewQuery(filter.Or(filter.Contains(GuiTag), filter.Contains(ParentLink))),
	}
}

// Each implements canopy.WorldView.
func (v *View) Each(fn func(e canopy.Entity, tag *canopy.GuiTag, link *canopy.ParentLink)) {
	v.query.Each(v.world, func(entry *donburi.Entry) {
		var tag *canopy.GuiTag
		var link *canopy.ParentLink
		if entry.HasComponent(GuiTag) {
			tag = GuiTag.Get(entry)
		}
		if entry.HasComponent(ParentLink) {
			link = ParentLink.Get(entry)
		}
		fn(FromDonburi(entry.Entity()), tag, link)
	})
}

// SetParent links child to parent, adding the ParentLink component if the
// child does not have one yet.
func SetParent(world donburi.World, child, parent donburi.Entity) {
	entry := world.Entry(child)
	if !entry.HasComponent(ParentLink) {
		entry.AddComponent(ParentLink)
	}
	ParentLink.SetValue(entry, canopy.ParentLink{Parent: FromDonburi(parent)})
}

// Unlink removes child's ParentLink; its widget moves back to the root.
func Unlink(world donburi.World, child donburi.Entity) {
	entry := world.Entry(child)
	if entry.HasComponent(ParentLink) {
		entry.RemoveComponent(ParentLink)
	}
}

// Despawner is notified of removed entities.
type Despawner interface {
	Despawned(e canopy.Entity)
}

// WatchDespawns forwards Donburi's entity removal callbacks to d, so widgets
// are torn down on the next tick even if a new entity reuses the slot first.
func WatchDespawns(world donburi.World, d Despawner) {
	world.OnRemove(func(_ donburi.World, e donburi.Entity) {
		d.Despawned(FromDonburi(e))
	})
}
