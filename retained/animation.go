package retained

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"

	"github.com/phanxgames/canopy"
)

// setValue stores v and, for sliders and arcs on an animating screen, starts
// easing the drawn value toward it. Any running tween is replaced from the
// value currently shown, so rapid updates never jump.
func (s *Screen) setValue(w *Widget, v int32) {
	w.Value = v
	target := float64(w.Range.Clamp(v))
	if !s.cfg.Animate || (w.Kind != canopy.KindSlider && w.Kind != canopy.KindArc) {
		w.shown = target
		w.tween = nil
		return
	}
	if w.shown == target {
		w.tween = nil
		return
	}
	w.tween = gween.New(float32(w.shown), float32(target), s.cfg.TweenDuration, s.easing)
}

// SetEasing sets the easing function used for value tweens.
func (s *Screen) SetEasing(fn ease.TweenFunc) {
	if fn != nil {
		s.easing = fn
	}
}

// updateTween advances the widget's value tween by dt seconds.
func (w *Widget) updateTween(dt float32) {
	if w.tween == nil {
		return
	}
	val, finished := w.tween.Update(dt)
	w.shown = float64(val)
	if finished {
		w.shown = float64(w.Range.Clamp(w.Value))
		w.tween = nil
	}
}

// Animating reports whether a value tween is running.
func (w *Widget) Animating() bool {
	return w.tween != nil
}
