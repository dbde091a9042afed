package retained

import (
	"github.com/tanema/gween"

	"github.com/phanxgames/canopy"
)

// Widget is one element of the retained tree. A single flat struct is used
// for every kind to avoid interface dispatch while drawing and hit testing.
type Widget struct {
	// Identity
	Handle canopy.WidgetHandle
	Kind   canopy.WidgetKind

	// Hierarchy
	Parent   *Widget
	children []*Widget

	// Properties, as last set by the owner of the tree.
	Text   string
	Value  int32
	Range  canopy.Range
	Style  canopy.StyleID
	Bounds canopy.Rect

	// Visibility & interaction
	Visible      bool
	Interactable bool

	// shown is the value currently drawn; it trails Value while a tween runs.
	shown   float64
	tween   *gween.Tween
	pressed bool

	// Internal
	disposed bool
}

func newWidget(h canopy.WidgetHandle, kind canopy.WidgetKind, tag *canopy.GuiTag) *Widget {
	w := &Widget{
		Handle:       h,
		Kind:         kind,
		Visible:      true,
		Interactable: kind == canopy.KindButton || kind == canopy.KindSlider || kind == canopy.KindArc,
	}
	if tag != nil {
		w.Text = tag.Text
		w.Value = tag.Value
		w.Range = tag.Range
		w.Style = tag.Style
		w.Bounds = tag.Bounds
	}
	w.shown = float64(w.Range.Clamp(w.Value))
	return w
}

// --- Tree manipulation ---

// AddChild appends child to this widget's children.
// If child already has a parent, it is removed from that parent first.
// Panics if child is nil or child is an ancestor of this widget (cycle).
func (w *Widget) AddChild(child *Widget) {
	if child == nil {
		panic("canopy: cannot add nil child")
	}
	if globalDebug {
		debugCheckDisposed(w, "AddChild (parent)")
		debugCheckDisposed(child, "AddChild (child)")
	}
	if isAncestor(child, w) {
		panic("canopy: adding child would create a cycle")
	}
	if child.Parent != nil {
		child.Parent.removeChildByPtr(child)
	}
	child.Parent = w
	w.children = append(w.children, child)
	if globalDebug {
		debugCheckTreeDepth(child)
		debugCheckChildCount(w)
	}
}

// RemoveChild detaches child from this widget.
// Panics if child.Parent != w.
func (w *Widget) RemoveChild(child *Widget) {
	if globalDebug {
		debugCheckDisposed(w, "RemoveChild (parent)")
		debugCheckDisposed(child, "RemoveChild (child)")
	}
	if child.Parent != w {
		panic("canopy: child's parent is not this widget")
	}
	w.removeChildByPtr(child)
	child.Parent = nil
}

// RemoveFromParent detaches this widget from its parent.
// No-op if this widget has no parent.
func (w *Widget) RemoveFromParent() {
	if w.Parent == nil {
		return
	}
	w.Parent.RemoveChild(w)
}

// Children returns the child list. The returned slice MUST NOT be mutated by the caller.
func (w *Widget) Children() []*Widget {
	return w.children
}

// NumChildren returns the number of children.
func (w *Widget) NumChildren() int {
	return len(w.children)
}

// Shown returns the value currently drawn. It differs from Value only while
// a value tween is running.
func (w *Widget) Shown() float64 {
	return w.shown
}

// --- Disposal ---

// Dispose removes this widget from its parent, marks it as disposed,
// and recursively disposes all descendants.
func (w *Widget) Dispose() {
	if w.disposed {
		return
	}
	w.RemoveFromParent()
	w.dispose()
}

func (w *Widget) dispose() {
	w.disposed = true
	for _, child := range w.children {
		child.Parent = nil
		child.dispose()
	}
	w.children = nil
	w.Parent = nil
	w.tween = nil
}

// IsDisposed returns true if this widget has been disposed.
func (w *Widget) IsDisposed() bool {
	return w.disposed
}

// --- Helpers ---

// isAncestor reports whether candidate is an ancestor of (or equal to) w.
func isAncestor(candidate, w *Widget) bool {
	for p := w; p != nil; p = p.Parent {
		if p == candidate {
			return true
		}
	}
	return false
}

// removeChildByPtr removes child from w.children without clearing child.Parent.
// Uses copy+nil to avoid retaining a dangling pointer in the backing array.
func (w *Widget) removeChildByPtr(child *Widget) {
	for i, c := range w.children {
		if c == child {
			copy(w.children[i:], w.children[i+1:])
			w.children[len(w.children)-1] = nil
			w.children = w.children[:len(w.children)-1]
			return
		}
	}
}

// walk calls fn for w and every descendant, parents first.
func (w *Widget) walk(fn func(*Widget)) {
	fn(w)
	for _, c := range w.children {
		c.walk(fn)
	}
}
