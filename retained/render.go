package retained

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/phanxgames/canopy"
)

const (
	lineSpacing = 13 // basicfont.Face7x13 line height
	borderWidth = 1
	arcStroke   = 6
	arcSegments = 48
	knobRadius  = 6
	ellipsis    = "..."

	// Arcs sweep 270 degrees clockwise starting at the lower left.
	arcStart = 135 * math.Pi / 180
	arcSweep = 270 * math.Pi / 180
)

// drawWidget draws w and its subtree. (ox, oy) is the absolute origin of w's
// parent; widget bounds are relative to the parent.
func (s *Screen) drawWidget(dst *ebiten.Image, w *Widget, ox, oy float64) {
	if !w.Visible {
		return
	}
	r := Rect{
		X:      ox + float64(w.Bounds.X),
		Y:      oy + float64(w.Bounds.Y),
		Width:  float64(w.Bounds.Width),
		Height: float64(w.Bounds.Height),
	}
	st := s.style(w.Style)

	switch w.Kind {
	case canopy.KindContainer:
		if w != s.root {
			s.drawBox(dst, r, st.Fill, st.Border)
		}
	case canopy.KindLabel:
		s.drawText(dst, s.fitText(w.Text, r.Width), r.X, r.Y, st.Text)
	case canopy.KindButton:
		fill := st.Fill
		if w.pressed {
			fill = st.Accent
		}
		s.drawBox(dst, r, fill, st.Border)
		str := s.fitText(w.Text, r.Width)
		tw, th := text.Measure(str, s.face, lineSpacing)
		s.drawText(dst, str, r.X+(r.Width-tw)/2, r.Y+(r.Height-th)/2, st.Text)
	case canopy.KindSlider:
		s.drawSlider(dst, w, r, st)
	case canopy.KindArc:
		s.drawArc(dst, w, r, st)
	}

	for _, c := range w.children {
		s.drawWidget(dst, c, r.X, r.Y)
	}
}

func (s *Screen) drawBox(dst *ebiten.Image, r Rect, fill, border Color) {
	if r.Width <= 0 || r.Height <= 0 {
		return
	}
	if fill.A > 0 {
		vector.DrawFilledRect(dst, float32(r.X), float32(r.Y), float32(r.Width), float32(r.Height), fill.RGBA(), false)
	}
	if border.A > 0 {
		vector.StrokeRect(dst, float32(r.X), float32(r.Y), float32(r.Width), float32(r.Height), borderWidth, border.RGBA(), false)
	}
}

func (s *Screen) drawText(dst *ebiten.Image, str string, x, y float64, c Color) {
	if str == "" {
		return
	}
	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(c.RGBA())
	op.LineSpacing = lineSpacing
	text.Draw(dst, str, s.face, op)
}

// fitText shortens str with a trailing ellipsis until it fits in width.
// Zero width means unconstrained.
func (s *Screen) fitText(str string, width float64) string {
	if width <= 0 || str == "" {
		return str
	}
	if w, _ := text.Measure(str, s.face, lineSpacing); w <= width {
		return str
	}
	runes := []rune(str)
	for n := len(runes) - 1; n > 0; n-- {
		cand := string(runes[:n]) + ellipsis
		if w, _ := text.Measure(cand, s.face, lineSpacing); w <= width {
			return cand
		}
	}
	return ellipsis
}

func (s *Screen) drawSlider(dst *ebiten.Image, w *Widget, r Rect, st *Style) {
	if r.Width <= 0 {
		return
	}
	cy := r.Y + r.Height/2
	trackH := math.Max(2, r.Height/4)
	s.drawBox(dst, Rect{X: r.X, Y: cy - trackH/2, Width: r.Width, Height: trackH}, st.Fill, st.Border)

	f := w.fraction()
	fillW := r.Width * f
	if fillW > 0 {
		vector.DrawFilledRect(dst, float32(r.X), float32(cy-trackH/2), float32(fillW), float32(trackH), st.Accent.RGBA(), false)
	}
	vector.DrawFilledCircle(dst, float32(r.X+fillW), float32(cy), knobRadius, st.Accent.RGBA(), true)
}

func (s *Screen) drawArc(dst *ebiten.Image, w *Widget, r Rect, st *Style) {
	cx, cy, radius := arcGeometry(r)
	if radius <= 0 {
		return
	}
	strokeArc(dst, cx, cy, radius, arcStart, arcSweep, st.Fill)
	f := w.fraction()
	if f > 0 {
		strokeArc(dst, cx, cy, radius, arcStart, arcSweep*f, st.Accent)
	}
	kx := cx + radius*math.Cos(arcStart+arcSweep*f)
	ky := cy + radius*math.Sin(arcStart+arcSweep*f)
	vector.DrawFilledCircle(dst, float32(kx), float32(ky), knobRadius, st.Accent.RGBA(), true)

	if w.Text != "" {
		tw, th := text.Measure(w.Text, s.face, lineSpacing)
		s.drawText(dst, w.Text, cx-tw/2, cy-th/2, st.Text)
	}
}

// strokeArc approximates an arc with line segments.
func strokeArc(dst *ebiten.Image, cx, cy, radius, start, sweep float64, c Color) {
	n := int(math.Ceil(arcSegments * sweep / arcSweep))
	if n < 1 {
		n = 1
	}
	clr := c.RGBA()
	px, py := cx+radius*math.Cos(start), cy+radius*math.Sin(start)
	for i := 1; i <= n; i++ {
		a := start + sweep*float64(i)/float64(n)
		x, y := cx+radius*math.Cos(a), cy+radius*math.Sin(a)
		vector.StrokeLine(dst, float32(px), float32(py), float32(x), float32(y), arcStroke, clr, true)
		px, py = x, y
	}
}

// arcGeometry returns the center and stroke radius of an arc drawn in r.
func arcGeometry(r Rect) (cx, cy, radius float64) {
	cx = r.X + r.Width/2
	cy = r.Y + r.Height/2
	radius = math.Min(r.Width, r.Height)/2 - arcStroke
	return cx, cy, radius
}

// fraction returns the drawn value's position within Range, in [0, 1].
func (w *Widget) fraction() float64 {
	span := float64(w.Range.Max) - float64(w.Range.Min)
	if span <= 0 {
		return 0
	}
	return clamp01((w.shown - float64(w.Range.Min)) / span)
}

// valueAt maps a fraction in [0, 1] back to a value within Range.
func (w *Widget) valueAt(f float64) int32 {
	span := float64(w.Range.Max) - float64(w.Range.Min)
	return w.Range.Clamp(w.Range.Min + int32(math.Round(clamp01(f)*span)))
}

// AbsoluteBounds returns w's rectangle in screen coordinates.
func (w *Widget) AbsoluteBounds() Rect {
	r := Rect{
		X:      float64(w.Bounds.X),
		Y:      float64(w.Bounds.Y),
		Width:  float64(w.Bounds.Width),
		Height: float64(w.Bounds.Height),
	}
	for p := w.Parent; p != nil; p = p.Parent {
		r.X += float64(p.Bounds.X)
		r.Y += float64(p.Bounds.Y)
	}
	return r
}
