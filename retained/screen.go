package retained

import (
	"errors"
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/tanema/gween/ease"
	"golang.org/x/image/font/basicfont"

	"github.com/phanxgames/canopy"
)

var (
	// ErrCapacity is returned by CreateWidget when the screen already holds
	// ScreenConfig.MaxWidgets widgets.
	ErrCapacity = errors.New("retained: widget capacity exhausted")

	// ErrUnknownWidget is returned for handles the screen never issued or
	// has already destroyed.
	ErrUnknownWidget = errors.New("retained: unknown widget")

	// ErrCycle is returned by SetParent when parent is the widget itself or
	// one of its descendants.
	ErrCycle = errors.New("retained: parent is a descendant")

	// ErrProperty is returned by SetProperty for fields the screen does not
	// know and values of the wrong type.
	ErrProperty = errors.New("retained: bad property")

	// ErrKind is returned by CreateWidget for unknown widget kinds.
	ErrKind = errors.New("retained: unknown widget kind")
)

// EventSink receives interaction events. It is the hook used to route toolkit
// events back into an ECS.
type EventSink interface {
	EmitEvent(event InteractionEvent)
}

// EventSinkFunc adapts a function to the EventSink interface.
type EventSinkFunc func(InteractionEvent)

// EmitEvent calls f(event).
func (f EventSinkFunc) EmitEvent(event InteractionEvent) { f(event) }

// InteractionEvent carries one pointer interaction with a widget.
type InteractionEvent struct {
	Type   EventType
	Handle canopy.WidgetHandle
	Kind   canopy.WidgetKind
	X, Y   float64
	// Value is the widget's new value (EventValueChanged only).
	Value int32
}

const (
	defaultTweenDuration = 0.25
	defaultDragDeadZone  = 2.0
)

// ScreenConfig configures a Screen.
type ScreenConfig struct {
	Width, Height int

	// MaxWidgets caps the number of live widgets, root excluded.
	// Zero means no limit.
	MaxWidgets int

	// Palette maps StyleIDs to colors. Out-of-range IDs use entry 0.
	// Nil selects DefaultPalette.
	Palette []Style

	// Animate eases slider and arc values toward newly set values instead
	// of jumping. TweenDuration is the easing time in seconds.
	Animate       bool
	TweenDuration float32

	// Debug enables disposed-widget panics and tree shape warnings.
	Debug bool
}

// Screen is a retained widget tree rendered with Ebitengine. It implements
// canopy.Toolkit; handles are never reused while the screen lives.
type Screen struct {
	cfg     ScreenConfig
	root    *Widget
	widgets map[canopy.WidgetHandle]*Widget
	next    canopy.WidgetHandle
	sink    EventSink
	debug   bool
	face    text.Face
	palette []Style
	easing  ease.TweenFunc

	// Input state
	pointer      pointerState
	hitBuf       []*Widget
	dragDeadZone float64
	injectQueue  []syntheticPointerEvent
	script       *ScriptRunner

	updateFunc func() error

	// ClearColor fills the screen before widgets are drawn. Zero alpha
	// leaves the target untouched.
	ClearColor Color
}

// NewScreen creates a screen with a pre-created root container covering
// Width x Height.
func NewScreen(cfg ScreenConfig) *Screen {
	if cfg.TweenDuration <= 0 {
		cfg.TweenDuration = defaultTweenDuration
	}
	palette := cfg.Palette
	if len(palette) == 0 {
		palette = DefaultPalette
	}
	s := &Screen{
		cfg:          cfg,
		widgets:      make(map[canopy.WidgetHandle]*Widget),
		next:         1,
		face:         text.NewGoXFace(basicfont.Face7x13),
		palette:      palette,
		easing:       ease.OutQuad,
		dragDeadZone: defaultDragDeadZone,
		ClearColor:   palette[0].Fill,
	}
	s.root = s.alloc(canopy.KindContainer, &canopy.GuiTag{
		Bounds: canopy.Rect{Width: int32(cfg.Width), Height: int32(cfg.Height)},
	})
	s.SetDebugMode(cfg.Debug)
	return s
}

func (s *Screen) alloc(kind canopy.WidgetKind, tag *canopy.GuiTag) *Widget {
	h := s.next
	s.next++
	w := newWidget(h, kind, tag)
	s.widgets[h] = w
	return w
}

// Root returns the screen's root container.
func (s *Screen) Root() *Widget {
	return s.root
}

// Widget returns the widget for h.
func (s *Screen) Widget(h canopy.WidgetHandle) (*Widget, bool) {
	w, ok := s.widgets[h]
	return w, ok
}

// Len returns the number of live widgets, root excluded.
func (s *Screen) Len() int {
	return len(s.widgets) - 1
}

// SetEventSink sets where interaction events are sent. Nil drops them.
func (s *Screen) SetEventSink(sink EventSink) {
	s.sink = sink
}

// SetDebugMode enables or disables debug mode. When enabled, disposed-widget
// access panics and tree depth and child count warnings are printed.
func (s *Screen) SetDebugMode(enabled bool) {
	s.debug = enabled
	globalDebug = enabled
}

// globalDebug mirrors the most recently set Screen debug flag so that widget
// operations (which lack a Screen pointer) can check it cheaply.
var globalDebug bool

// --- canopy.Toolkit ---

// CreateWidget creates a widget of kind with tag's properties under the root.
func (s *Screen) CreateWidget(kind canopy.WidgetKind, tag *canopy.GuiTag) (canopy.WidgetHandle, error) {
	if kind > canopy.KindArc {
		return 0, fmt.Errorf("%w: %v", ErrKind, kind)
	}
	if s.cfg.MaxWidgets > 0 && s.Len() >= s.cfg.MaxWidgets {
		return 0, fmt.Errorf("%w (%d)", ErrCapacity, s.cfg.MaxWidgets)
	}
	w := s.alloc(kind, tag)
	s.root.AddChild(w)
	return w.Handle, nil
}

// DestroyWidget destroys the widget for h and all of its descendants.
// Unknown handles and the root are ignored.
func (s *Screen) DestroyWidget(h canopy.WidgetHandle) {
	w, ok := s.widgets[h]
	if !ok || w == s.root {
		return
	}
	w.walk(func(d *Widget) {
		delete(s.widgets, d.Handle)
	})
	if s.pointer.hit != nil && s.pointer.hit.disposedBy(w) {
		s.pointer.hit = nil
	}
	w.Dispose()
}

// SetProperty sets one property of the widget for h. value must have the
// type canopy.PropertyValue returns for field.
func (s *Screen) SetProperty(h canopy.WidgetHandle, field canopy.Field, value any) error {
	w, ok := s.widgets[h]
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownWidget, h)
	}
	ok = false
	switch field {
	case canopy.FieldText:
		var v string
		if v, ok = value.(string); ok {
			w.Text = v
		}
	case canopy.FieldValue:
		var v int32
		if v, ok = value.(int32); ok {
			s.setValue(w, v)
		}
	case canopy.FieldRange:
		var v canopy.Range
		if v, ok = value.(canopy.Range); ok {
			w.Range = v
			s.setValue(w, w.Value)
		}
	case canopy.FieldStyle:
		var v canopy.StyleID
		if v, ok = value.(canopy.StyleID); ok {
			w.Style = v
		}
	case canopy.FieldBounds:
		var v canopy.Rect
		if v, ok = value.(canopy.Rect); ok {
			w.Bounds = v
		}
	default:
		return fmt.Errorf("%w: field %v", ErrProperty, field)
	}
	if !ok {
		return fmt.Errorf("%w: %v cannot be %T", ErrProperty, field, value)
	}
	return nil
}

// SetParent moves the widget for h under parent.
func (s *Screen) SetParent(h, parent canopy.WidgetHandle) error {
	w, ok := s.widgets[h]
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownWidget, h)
	}
	p, ok := s.widgets[parent]
	if !ok {
		return fmt.Errorf("%w: parent %d", ErrUnknownWidget, parent)
	}
	if isAncestor(w, p) {
		return fmt.Errorf("%w: %d under %d", ErrCycle, h, parent)
	}
	if w.Parent == p {
		return nil
	}
	p.AddChild(w)
	return nil
}

// RootContainer returns the handle of the root container.
func (s *Screen) RootContainer() canopy.WidgetHandle {
	return s.root.Handle
}

// --- Frame loop ---

// Update processes input and advances value tweens by dt seconds.
func (s *Screen) Update(dt float32) {
	s.advance(dt)
	if s.script != nil {
		s.script.step(s)
	}
	s.processInput()
}

// advance steps every running value tween by dt seconds.
func (s *Screen) advance(dt float32) {
	s.root.walk(func(w *Widget) {
		w.updateTween(dt)
	})
}

// Draw renders the tree onto dst.
func (s *Screen) Draw(dst *ebiten.Image) {
	if s.ClearColor.A > 0 {
		dst.Fill(s.ClearColor.RGBA())
	}
	s.drawWidget(dst, s.root, 0, 0)
}

func (s *Screen) style(id canopy.StyleID) *Style {
	if int(id) < len(s.palette) {
		return &s.palette[id]
	}
	return &s.palette[0]
}

// disposedBy reports whether w was removed as part of root's subtree.
func (w *Widget) disposedBy(root *Widget) bool {
	return isAncestor(root, w)
}
