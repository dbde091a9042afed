package canopy

// Toolkit is the retained-mode widget API the engine drives. Implementations
// own widget memory; the engine only holds handles.
//
// Newly created widgets must start as children of RootContainer. Failure
// reasons returned by the toolkit are opaque to the bridge and are wrapped
// in a *SyncError with ErrToolkitRejected.
type Toolkit interface {
	// CreateWidget creates a widget of the given kind initialised from tag.
	CreateWidget(kind WidgetKind, tag *GuiTag) (WidgetHandle, error)

	// DestroyWidget destroys a widget. The engine detaches surviving
	// children before calling it.
	DestroyWidget(h WidgetHandle)

	// SetProperty sets a single property field. The dynamic type of value
	// is given by PropertyValue.
	SetProperty(h WidgetHandle, field Field, value any) error

	// SetParent moves h under parent.
	SetParent(h, parent WidgetHandle) error

	// RootContainer returns the handle of the top-level container.
	RootContainer() WidgetHandle
}

// WorldView is a read-only view over the ECS world for one tick. Each calls
// fn once for every live entity carrying a GuiTag or a ParentLink; either
// pointer may be nil. The pointers are only valid for the duration of the
// call.
type WorldView interface {
	Each(fn func(e Entity, tag *GuiTag, link *ParentLink))
}

// ViewFunc adapts a plain function to WorldView.
type ViewFunc func(fn func(e Entity, tag *GuiTag, link *ParentLink))

// Each calls f(fn).
func (f ViewFunc) Each(fn func(e Entity, tag *GuiTag, link *ParentLink)) {
	f(fn)
}
