package retained

import "image/color"

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
type Color struct {
	R, G, B, A float64
}

// ColorWhite is the default text color.
var ColorWhite = Color{1, 1, 1, 1}

// RGBA converts c to a premultiplied color.RGBA for ebiten's vector and text
// packages.
func (c Color) RGBA() color.RGBA {
	a := clamp01(c.A)
	return color.RGBA{
		R: uint8(clamp01(c.R)*a*255 + 0.5),
		G: uint8(clamp01(c.G)*a*255 + 0.5),
		B: uint8(clamp01(c.B)*a*255 + 0.5),
		A: uint8(a*255 + 0.5),
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Rect is an axis-aligned rectangle. The coordinate system has its origin at
// the top-left, with Y increasing downward.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// Style is one entry of a screen's palette. Widgets select an entry by the
// StyleID carried in their GuiTag.
type Style struct {
	Fill   Color // background of containers and buttons, track of sliders and arcs
	Accent Color // slider fill and knob, arc indicator, pressed button
	Border Color // zero alpha draws no border
	Text   Color
}

// DefaultPalette is used when a ScreenConfig has no palette.
var DefaultPalette = []Style{
	{
		Fill:   Color{0.137, 0.118, 0.176, 1},
		Accent: Color{0.3, 0.7, 0.9, 1},
		Text:   ColorWhite,
	},
	{
		Fill:   Color{0.22, 0.2, 0.28, 1},
		Accent: Color{1.0, 0.7, 0.2, 1},
		Border: Color{0.5, 0.5, 0.6, 1},
		Text:   ColorWhite,
	},
	{
		Fill:   Color{0.9, 0.3, 0.3, 1},
		Accent: Color{0.3, 0.9, 0.5, 1},
		Text:   Color{0.05, 0.05, 0.05, 1},
	},
}

// EventType identifies a kind of interaction event.
type EventType uint8

const (
	EventPointerDown  EventType = iota // fires when a pointer button is pressed over a widget
	EventPointerUp                     // fires when a pointer button is released
	EventClick                         // fires on press then release over the same button
	EventValueChanged                  // fires when dragging a slider or arc changes its value
)

func (t EventType) String() string {
	switch t {
	case EventPointerDown:
		return "pointer_down"
	case EventPointerUp:
		return "pointer_up"
	case EventClick:
		return "click"
	case EventValueChanged:
		return "value_changed"
	default:
		return "unknown"
	}
}
