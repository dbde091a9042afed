package canopy

import (
	"errors"
	"testing"
)

const testRoot WidgetHandle = 1

func observe(t *testing.T, w testWorld) *Tracker {
	t.Helper()
	tr := NewTracker(0)
	tr.Observe(w)
	return tr
}

func TestResolveValidParent(t *testing.T) {
	w := testWorld{}
	w.tag(ent(1), GuiTag{Kind: KindContainer})
	w.tag(ent(2), label("child"))
	w.link(ent(2), ent(1))
	res := NewResolver(observe(t, w), testRoot)

	tbl := NewHandleTable(0)
	if err := tbl.Insert(ent(1), 42); err != nil {
		t.Fatal(err)
	}
	h, err := res.Resolve(ent(2), ent(1), tbl)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if h != 42 {
		t.Errorf("Resolve = %d, want 42", h)
	}
}

func TestResolveParentNotReady(t *testing.T) {
	w := testWorld{}
	w.tag(ent(1), GuiTag{Kind: KindContainer})
	w.tag(ent(2), label("child"))
	w.link(ent(2), ent(1))
	res := NewResolver(observe(t, w), testRoot)

	_, err := res.Resolve(ent(2), ent(1), NewHandleTable(0))
	if !errors.Is(err, ErrParentNotReady) {
		t.Errorf("err = %v, want ErrParentNotReady", err)
	}
}

func TestResolveParentMissing(t *testing.T) {
	w := testWorld{}
	w.tag(ent(2), label("child"))
	w.link(ent(2), ent(9))
	res := NewResolver(observe(t, w), testRoot)

	h, err := res.Resolve(ent(2), ent(9), NewHandleTable(0))
	if !errors.Is(err, ErrParentMissing) {
		t.Errorf("err = %v, want ErrParentMissing", err)
	}
	if h != testRoot {
		t.Errorf("fallback handle = %d, want root %d", h, testRoot)
	}
}

func TestResolveSelfLink(t *testing.T) {
	w := testWorld{}
	w.tag(ent(1), label("loop"))
	w.link(ent(1), ent(1))
	res := NewResolver(observe(t, w), testRoot)

	h, err := res.Resolve(ent(1), ent(1), NewHandleTable(0))
	if !errors.Is(err, ErrCycleDetected) {
		t.Errorf("err = %v, want ErrCycleDetected", err)
	}
	if h != testRoot {
		t.Errorf("fallback handle = %d, want root", h)
	}
}

func TestResolveThreeCycle(t *testing.T) {
	a, b, c := ent(1), ent(2), ent(3)
	w := testWorld{}
	for _, e := range []Entity{a, b, c} {
		w.tag(e, GuiTag{Kind: KindContainer})
	}
	w.link(a, b)
	w.link(b, c)
	w.link(c, a)
	res := NewResolver(observe(t, w), testRoot)

	tbl := NewHandleTable(0)
	for i, e := range []Entity{a, b, c} {
		if err := tbl.Insert(e, WidgetHandle(10+i)); err != nil {
			t.Fatal(err)
		}
	}
	for _, pair := range [][2]Entity{{a, b}, {b, c}, {c, a}} {
		if _, err := res.Resolve(pair[0], pair[1], tbl); !errors.Is(err, ErrCycleDetected) {
			t.Errorf("Resolve(%v, %v) err = %v, want ErrCycleDetected", pair[0], pair[1], err)
		}
	}
}

func TestResolveChainIntoCycleIsNotACycle(t *testing.T) {
	a, b, c := ent(1), ent(2), ent(3)
	w := testWorld{}
	for _, e := range []Entity{a, b, c} {
		w.tag(e, GuiTag{Kind: KindContainer})
	}
	w.link(a, b)
	w.link(b, c)
	w.link(c, b)
	res := NewResolver(observe(t, w), testRoot)

	tbl := NewHandleTable(0)
	if err := tbl.Insert(b, 20); err != nil {
		t.Fatal(err)
	}
	h, err := res.Resolve(a, b, tbl)
	if err != nil {
		t.Fatalf("a is not on the cycle; Resolve err = %v", err)
	}
	if h != 20 {
		t.Errorf("Resolve = %d, want 20", h)
	}
}

func TestResolverDepth(t *testing.T) {
	a, b, c, d := ent(1), ent(2), ent(3), ent(4)
	w := testWorld{}
	for _, e := range []Entity{a, b, c, d} {
		w.tag(e, GuiTag{Kind: KindContainer})
	}
	w.link(b, a)
	w.link(c, b)
	w.link(d, d)
	res := NewResolver(observe(t, w), testRoot)

	tests := []struct {
		e    Entity
		want int
	}{
		{a, 0},
		{b, 1},
		{c, 2},
		{d, 0},
	}
	for _, tt := range tests {
		if got := res.Depth(tt.e); got != tt.want {
			t.Errorf("Depth(%v) = %d, want %d", tt.e, got, tt.want)
		}
	}
}

func TestResolverCycleMembers(t *testing.T) {
	w := testWorld{}
	for i := uint32(1); i <= 4; i++ {
		w.tag(ent(i), GuiTag{Kind: KindContainer})
	}
	w.link(ent(1), ent(2))
	w.link(ent(2), ent(3))
	w.link(ent(3), ent(1))
	w.link(ent(4), ent(1)) // hangs off the cycle
	res := NewResolver(observe(t, w), testRoot)

	got := res.Cycle(ent(3), nil)
	if len(got) != 2 || got[0] != ent(1) || got[1] != ent(2) {
		t.Errorf("Cycle(3) = %v, want [1:0 2:0]", got)
	}
	if got := res.Cycle(ent(4), nil); len(got) != 0 {
		t.Errorf("Cycle(4) = %v, want none", got)
	}
}
