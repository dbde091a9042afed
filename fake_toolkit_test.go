package canopy

import (
	"errors"
	"fmt"
	"slices"
)

// fakeWidget is one widget of the recording toolkit.
type fakeWidget struct {
	kind     WidgetKind
	props    map[Field]any
	parent   WidgetHandle
	children []WidgetHandle
}

// fakeToolkit is an in-memory Toolkit that records every call. Destroying a
// widget destroys its descendants, like a real retained toolkit does, so
// ordering mistakes in the engine show up as lost widgets.
type fakeToolkit struct {
	widgets map[WidgetHandle]*fakeWidget
	root    WidgetHandle
	next    WidgetHandle
	ops     []string

	// fail, if set, is consulted before every fallible call.
	fail func(op string, h WidgetHandle, field Field) error
}

func newFakeToolkit() *fakeToolkit {
	tk := &fakeToolkit{widgets: make(map[WidgetHandle]*fakeWidget), next: 1}
	tk.root = tk.alloc(KindContainer, nil)
	tk.ops = tk.ops[:0]
	return tk
}

func (tk *fakeToolkit) alloc(kind WidgetKind, tag *GuiTag) WidgetHandle {
	h := tk.next
	tk.next++
	w := &fakeWidget{kind: kind, props: make(map[Field]any)}
	if tag != nil {
		for _, f := range propertyFields {
			w.props[f] = PropertyValue(tag, f)
		}
	}
	tk.widgets[h] = w
	return h
}

func (tk *fakeToolkit) CreateWidget(kind WidgetKind, tag *GuiTag) (WidgetHandle, error) {
	if tk.fail != nil {
		if err := tk.fail("create", 0, 0); err != nil {
			return 0, err
		}
	}
	h := tk.alloc(kind, tag)
	tk.attach(h, tk.root)
	tk.ops = append(tk.ops, fmt.Sprintf("create %d %v", h, kind))
	return h, nil
}

func (tk *fakeToolkit) DestroyWidget(h WidgetHandle) {
	w, ok := tk.widgets[h]
	if !ok {
		return
	}
	tk.ops = append(tk.ops, fmt.Sprintf("destroy %d", h))
	tk.detach(h)
	tk.destroyTree(h, w)
}

func (tk *fakeToolkit) destroyTree(h WidgetHandle, w *fakeWidget) {
	for _, c := range w.children {
		if cw, ok := tk.widgets[c]; ok {
			tk.destroyTree(c, cw)
		}
	}
	delete(tk.widgets, h)
}

func (tk *fakeToolkit) SetProperty(h WidgetHandle, field Field, value any) error {
	if tk.fail != nil {
		if err := tk.fail("set_property", h, field); err != nil {
			return err
		}
	}
	w, ok := tk.widgets[h]
	if !ok {
		return errors.New("no such widget")
	}
	w.props[field] = value
	tk.ops = append(tk.ops, fmt.Sprintf("set %d %v", h, field))
	return nil
}

func (tk *fakeToolkit) SetParent(h, parent WidgetHandle) error {
	if tk.fail != nil {
		if err := tk.fail("set_parent", h, 0); err != nil {
			return err
		}
	}
	if _, ok := tk.widgets[h]; !ok {
		return errors.New("no such widget")
	}
	if _, ok := tk.widgets[parent]; !ok {
		return errors.New("no such parent")
	}
	for p := parent; p != 0; p = tk.widgets[p].parent {
		if p == h {
			return errors.New("cycle")
		}
	}
	tk.detach(h)
	tk.attach(h, parent)
	tk.ops = append(tk.ops, fmt.Sprintf("parent %d %d", h, parent))
	return nil
}

func (tk *fakeToolkit) RootContainer() WidgetHandle {
	return tk.root
}

func (tk *fakeToolkit) attach(h, parent WidgetHandle) {
	tk.widgets[h].parent = parent
	pw := tk.widgets[parent]
	pw.children = append(pw.children, h)
}

func (tk *fakeToolkit) detach(h WidgetHandle) {
	w := tk.widgets[h]
	if w.parent == 0 {
		return
	}
	if pw, ok := tk.widgets[w.parent]; ok {
		if i := slices.Index(pw.children, h); i >= 0 {
			pw.children = slices.Delete(pw.children, i, i+1)
		}
	}
	w.parent = 0
}

// live returns the number of widgets other than the root.
func (tk *fakeToolkit) live() int {
	return len(tk.widgets) - 1
}

// testEntity is one entity of testWorld.
type testEntity struct {
	tag  *GuiTag
	link *ParentLink
}

// testWorld is a minimal ECS stand-in implementing WorldView.
type testWorld map[Entity]*testEntity

func (w testWorld) Each(fn func(e Entity, tag *GuiTag, link *ParentLink)) {
	for e, te := range w {
		fn(e, te.tag, te.link)
	}
}

func (w testWorld) tag(e Entity, tag GuiTag) {
	te := w[e]
	if te == nil {
		te = &testEntity{}
		w[e] = te
	}
	te.tag = &tag
}

func (w testWorld) link(e, parent Entity) {
	te := w[e]
	if te == nil {
		te = &testEntity{}
		w[e] = te
	}
	te.link = &ParentLink{Parent: parent}
}

func (w testWorld) unlink(e Entity) {
	if te := w[e]; te != nil {
		te.link = nil
	}
}

func ent(index uint32) Entity {
	return Entity{Index: index}
}

func label(text string) GuiTag {
	return GuiTag{Kind: KindLabel, Text: text}
}
