package retained

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/phanxgames/canopy"
)

// --- Pointer state ---

type pointerState struct {
	down     bool
	startX   float64
	startY   float64
	lastX    float64
	lastY    float64
	hit      *Widget
	dragging bool
	touchIDs []ebiten.TouchID
}

// SetDragDeadZone sets the minimum movement in pixels after which a press no
// longer counts as a click.
func (s *Screen) SetDragDeadZone(pixels float64) {
	s.dragDeadZone = pixels
}

// --- Hit testing ---

// collectInteractable walks the tree in painter order, appending interactable
// widgets to buf. Skips invisible subtrees.
func (s *Screen) collectInteractable(w *Widget, buf []*Widget) []*Widget {
	if !w.Visible {
		return buf
	}
	if w.Interactable {
		buf = append(buf, w)
	}
	for _, c := range w.children {
		buf = s.collectInteractable(c, buf)
	}
	return buf
}

// HitTest returns the topmost interactable widget at (x, y), or nil.
func (s *Screen) HitTest(x, y float64) *Widget {
	s.hitBuf = s.collectInteractable(s.root, s.hitBuf[:0])

	// Iterate backward (reverse painter order): topmost widget first.
	for i := len(s.hitBuf) - 1; i >= 0; i-- {
		w := s.hitBuf[i]
		if w.AbsoluteBounds().Contains(x, y) {
			return w
		}
	}
	return nil
}

// --- Input processing ---

// processInput is called from Screen.Update to handle mouse and touch input.
// Injected events take precedence over real input for the frame.
func (s *Screen) processInput() {
	if s.processInjectedInput() {
		return
	}

	mx, my := ebiten.CursorPosition()
	x, y := float64(mx), float64(my)
	pressed := ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)

	// A single touch acts as the primary pointer when the mouse is idle.
	if !pressed {
		s.pointer.touchIDs = ebiten.AppendTouchIDs(s.pointer.touchIDs[:0])
		if len(s.pointer.touchIDs) > 0 {
			tx, ty := ebiten.TouchPosition(s.pointer.touchIDs[0])
			x, y, pressed = float64(tx), float64(ty), true
		} else if s.pointer.down {
			s.pointer.touchIDs = inpututil.AppendJustReleasedTouchIDs(s.pointer.touchIDs[:0])
			if len(s.pointer.touchIDs) > 0 {
				tx, ty := inpututil.TouchPositionInPreviousTick(s.pointer.touchIDs[0])
				x, y = float64(tx), float64(ty)
			}
		}
	}

	s.processPointer(x, y, pressed)
}

// processPointer runs the pointer state machine for one sample.
func (s *Screen) processPointer(x, y float64, pressed bool) {
	ps := &s.pointer

	switch {
	case pressed && !ps.down:
		target := s.HitTest(x, y)
		ps.down = true
		ps.startX, ps.startY = x, y
		ps.lastX, ps.lastY = x, y
		ps.hit = target
		ps.dragging = false
		if target == nil {
			return
		}
		target.pressed = true
		s.emit(InteractionEvent{Type: EventPointerDown, Handle: target.Handle, Kind: target.Kind, X: x, Y: y})
		s.dragValue(target, x, y)

	case !pressed && ps.down:
		if hit := ps.hit; hit != nil && !hit.disposed {
			hit.pressed = false
			s.dragValue(hit, x, y)
			if hit.Kind == canopy.KindButton && !ps.dragging && s.HitTest(x, y) == hit {
				s.emit(InteractionEvent{Type: EventClick, Handle: hit.Handle, Kind: hit.Kind, X: x, Y: y})
			}
			s.emit(InteractionEvent{Type: EventPointerUp, Handle: hit.Handle, Kind: hit.Kind, X: x, Y: y})
		}
		ps.down = false
		ps.hit = nil
		ps.dragging = false
		ps.lastX, ps.lastY = x, y

	case pressed && ps.down:
		if x == ps.lastX && y == ps.lastY {
			return
		}
		if !ps.dragging {
			dx := x - ps.startX
			dy := y - ps.startY
			if math.Sqrt(dx*dx+dy*dy) > s.dragDeadZone {
				ps.dragging = true
			}
		}
		if hit := ps.hit; hit != nil && !hit.disposed {
			s.dragValue(hit, x, y)
		}
		ps.lastX, ps.lastY = x, y

	default:
		ps.lastX, ps.lastY = x, y
	}
}

// dragValue moves a slider or arc to the value under (x, y) and reports the
// change. The widget shows the new value at once; the owner of the tree is
// expected to write it back through SetProperty.
func (s *Screen) dragValue(w *Widget, x, y float64) {
	var f float64
	switch w.Kind {
	case canopy.KindSlider:
		r := w.AbsoluteBounds()
		if r.Width <= 0 {
			return
		}
		f = (x - r.X) / r.Width
	case canopy.KindArc:
		cx, cy, _ := arcGeometry(w.AbsoluteBounds())
		f = arcFraction(x-cx, y-cy)
	default:
		return
	}
	v := w.valueAt(f)
	if v == w.Value && w.tween == nil {
		return
	}
	w.Value = v
	w.shown = float64(v)
	w.tween = nil
	s.emit(InteractionEvent{Type: EventValueChanged, Handle: w.Handle, Kind: w.Kind, X: x, Y: y, Value: v})
}

// arcFraction maps a pointer offset from an arc's center to a position along
// its sweep. Points in the gap snap to the nearer end.
func arcFraction(dx, dy float64) float64 {
	if dx == 0 && dy == 0 {
		return 0
	}
	rel := math.Atan2(dy, dx) - arcStart
	for rel < 0 {
		rel += 2 * math.Pi
	}
	for rel >= 2*math.Pi {
		rel -= 2 * math.Pi
	}
	if rel > arcSweep {
		if rel-arcSweep < 2*math.Pi-rel {
			return 1
		}
		return 0
	}
	return rel / arcSweep
}

func (s *Screen) emit(e InteractionEvent) {
	if s.sink != nil {
		s.sink.EmitEvent(e)
	}
}
