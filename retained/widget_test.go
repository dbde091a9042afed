package retained

import (
	"fmt"
	"strings"
	"testing"

	"github.com/phanxgames/canopy"
)

func newTestWidget(h canopy.WidgetHandle) *Widget {
	return newWidget(h, canopy.KindContainer, nil)
}

func TestAddChildReparents(t *testing.T) {
	a, b, c := newTestWidget(1), newTestWidget(2), newTestWidget(3)
	a.AddChild(c)
	b.AddChild(c)

	if c.Parent != b {
		t.Error("c should now belong to b")
	}
	if a.NumChildren() != 0 {
		t.Errorf("a has %d children, want 0", a.NumChildren())
	}
	if b.NumChildren() != 1 || b.Children()[0] != c {
		t.Errorf("b children = %v, want [c]", b.Children())
	}
}

func TestAddChildCyclePanics(t *testing.T) {
	a, b := newTestWidget(1), newTestWidget(2)
	a.AddChild(b)

	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected panic on cycle, got none")
		}
		if msg := fmt.Sprint(r); !strings.Contains(msg, "cycle") {
			t.Errorf("panic message should mention 'cycle', got: %s", msg)
		}
	}()
	b.AddChild(a)
}

func TestRemoveChild(t *testing.T) {
	a, b, c := newTestWidget(1), newTestWidget(2), newTestWidget(3)
	a.AddChild(b)
	a.AddChild(c)
	a.RemoveChild(b)

	if b.Parent != nil {
		t.Error("removed child should have no parent")
	}
	if a.NumChildren() != 1 || a.Children()[0] != c {
		t.Errorf("a children = %v, want [c]", a.Children())
	}
	b.RemoveFromParent() // no-op
}

func TestDisposeRecursive(t *testing.T) {
	root, a, b := newTestWidget(1), newTestWidget(2), newTestWidget(3)
	root.AddChild(a)
	a.AddChild(b)
	a.Dispose()

	if !a.IsDisposed() || !b.IsDisposed() {
		t.Error("a and its child should be disposed")
	}
	if root.NumChildren() != 0 {
		t.Errorf("root has %d children, want 0", root.NumChildren())
	}
	a.Dispose() // second call is a no-op
}

func TestNewWidgetClampsShownValue(t *testing.T) {
	tag := &canopy.GuiTag{Value: 500, Range: canopy.Range{Min: 0, Max: 100}}
	w := newWidget(1, canopy.KindArc, tag)
	if w.Value != 500 {
		t.Errorf("Value = %d, want 500 (kept as set)", w.Value)
	}
	if w.Shown() != 100 {
		t.Errorf("Shown = %v, want 100", w.Shown())
	}
	if !w.Interactable {
		t.Error("arcs should be interactable")
	}
}
