package retained

import (
	"math"
	"testing"

	"github.com/phanxgames/canopy"
)

// recordSink collects emitted events.
type recordSink struct {
	events []InteractionEvent
}

func (r *recordSink) EmitEvent(e InteractionEvent) {
	r.events = append(r.events, e)
}

func (r *recordSink) ofType(t EventType) []InteractionEvent {
	var out []InteractionEvent
	for _, e := range r.events {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

// drain feeds every injected event through the pointer state machine.
func drain(s *Screen) {
	for s.processInjectedInput() {
	}
}

func TestClickButton(t *testing.T) {
	s := newTestScreen()
	sink := &recordSink{}
	s.SetEventSink(sink)
	btn := mustCreate(t, s, canopy.KindButton, canopy.GuiTag{
		Text:   "ok",
		Bounds: canopy.Rect{X: 10, Y: 10, Width: 60, Height: 20},
	})

	s.InjectClick(30, 20)
	drain(s)

	clicks := sink.ofType(EventClick)
	if len(clicks) != 1 {
		t.Fatalf("got %d clicks, want 1 (events %v)", len(clicks), sink.events)
	}
	if clicks[0].Handle != btn.Handle {
		t.Errorf("click handle = %d, want %d", clicks[0].Handle, btn.Handle)
	}
	if btn.pressed {
		t.Error("button should not stay pressed after release")
	}
}

func TestClickOutsideButton(t *testing.T) {
	s := newTestScreen()
	sink := &recordSink{}
	s.SetEventSink(sink)
	mustCreate(t, s, canopy.KindButton, canopy.GuiTag{Bounds: canopy.Rect{X: 10, Y: 10, Width: 60, Height: 20}})

	s.InjectClick(200, 200)
	drain(s)

	if len(sink.events) != 0 {
		t.Errorf("events = %v, want none", sink.events)
	}
}

func TestDragOffButtonCancelsClick(t *testing.T) {
	s := newTestScreen()
	sink := &recordSink{}
	s.SetEventSink(sink)
	mustCreate(t, s, canopy.KindButton, canopy.GuiTag{Bounds: canopy.Rect{X: 10, Y: 10, Width: 60, Height: 20}})

	s.InjectDrag(20, 20, 200, 200, 4)
	drain(s)

	if n := len(sink.ofType(EventClick)); n != 0 {
		t.Errorf("got %d clicks, want 0", n)
	}
	if n := len(sink.ofType(EventPointerUp)); n != 1 {
		t.Errorf("got %d pointer ups, want 1", n)
	}
}

func TestDragSlider(t *testing.T) {
	s := newTestScreen()
	sink := &recordSink{}
	s.SetEventSink(sink)
	sl := mustCreate(t, s, canopy.KindSlider, canopy.GuiTag{
		Range:  canopy.Range{Min: 0, Max: 100},
		Bounds: canopy.Rect{X: 0, Y: 0, Width: 200, Height: 20},
	})

	s.InjectDrag(0, 10, 150, 10, 4)
	drain(s)

	changes := sink.ofType(EventValueChanged)
	if len(changes) == 0 {
		t.Fatal("no value change events")
	}
	last := changes[len(changes)-1]
	if last.Value != 75 {
		t.Errorf("final value = %d, want 75", last.Value)
	}
	if sl.Value != 75 || sl.Shown() != 75 {
		t.Errorf("slider value = %d shown %v, want 75", sl.Value, sl.Shown())
	}
}

func TestPressArc(t *testing.T) {
	s := newTestScreen()
	sink := &recordSink{}
	s.SetEventSink(sink)
	arc := mustCreate(t, s, canopy.KindArc, canopy.GuiTag{
		Range:  canopy.Range{Min: 0, Max: 100},
		Bounds: canopy.Rect{X: 0, Y: 0, Width: 100, Height: 100},
	})

	// Straight up from the center is the middle of the sweep.
	s.InjectClick(50, 5)
	drain(s)

	changes := sink.ofType(EventValueChanged)
	if len(changes) != 1 {
		t.Fatalf("got %d value changes, want 1", len(changes))
	}
	if changes[0].Value != 50 || arc.Value != 50 {
		t.Errorf("arc value = %d (event %d), want 50", arc.Value, changes[0].Value)
	}
}

func TestArcFraction(t *testing.T) {
	tests := []struct {
		name   string
		dx, dy float64
		want   float64
	}{
		{"start", math.Cos(arcStart), math.Sin(arcStart), 0},
		{"top", 0, -1, 0.5},
		{"end", math.Cos(arcStart + arcSweep), math.Sin(arcStart + arcSweep), 1},
		{"gap near end", 0.1, 1, 1},
		{"gap near start", -0.1, 1, 0},
		{"center", 0, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := arcFraction(tt.dx, tt.dy); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("arcFraction(%v, %v) = %v, want %v", tt.dx, tt.dy, got, tt.want)
			}
		})
	}
}

func TestHitTestTopmost(t *testing.T) {
	s := newTestScreen()
	bounds := canopy.Rect{X: 0, Y: 0, Width: 50, Height: 50}
	mustCreate(t, s, canopy.KindButton, canopy.GuiTag{Bounds: bounds})
	top := mustCreate(t, s, canopy.KindButton, canopy.GuiTag{Bounds: bounds})

	if got := s.HitTest(25, 25); got != top {
		t.Errorf("HitTest = %v, want the later sibling", got)
	}
	top.Visible = false
	if got := s.HitTest(25, 25); got == top {
		t.Error("invisible widgets must not be hit")
	}
	if got := s.HitTest(100, 100); got != nil {
		t.Errorf("HitTest outside = %v, want nil", got)
	}
}

func TestHitTestNestedBounds(t *testing.T) {
	s := newTestScreen()
	panel := mustCreate(t, s, canopy.KindContainer, canopy.GuiTag{Bounds: canopy.Rect{X: 100, Y: 100, Width: 100, Height: 100}})
	btn := mustCreate(t, s, canopy.KindButton, canopy.GuiTag{Bounds: canopy.Rect{X: 10, Y: 10, Width: 20, Height: 20}})
	if err := s.SetParent(btn.Handle, panel.Handle); err != nil {
		t.Fatal(err)
	}

	if got := s.HitTest(115, 115); got != btn {
		t.Errorf("HitTest(115, 115) = %v, want nested button", got)
	}
	if got := s.HitTest(15, 15); got != nil {
		t.Errorf("HitTest(15, 15) = %v, want nil (bounds are parent-relative)", got)
	}
}

func TestDestroyDuringPress(t *testing.T) {
	s := newTestScreen()
	sink := &recordSink{}
	s.SetEventSink(sink)
	btn := mustCreate(t, s, canopy.KindButton, canopy.GuiTag{Bounds: canopy.Rect{Width: 20, Height: 20}})

	s.InjectPress(5, 5)
	drain(s)
	s.DestroyWidget(btn.Handle)
	s.InjectRelease(5, 5)
	drain(s)

	if n := len(sink.ofType(EventClick)); n != 0 {
		t.Errorf("got %d clicks on a destroyed button, want 0", n)
	}
}
