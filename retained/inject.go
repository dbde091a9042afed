package retained

// syntheticPointerEvent represents a single injected pointer event in screen
// coordinates.
type syntheticPointerEvent struct {
	x, y    float64
	pressed bool
}

// InjectPress queues a pointer press event at the given screen coordinates.
// The event is consumed on the next Update.
func (s *Screen) InjectPress(x, y float64) {
	s.injectQueue = append(s.injectQueue, syntheticPointerEvent{x: x, y: y, pressed: true})
}

// InjectMove queues a pointer move event with the button held down. Use this
// between InjectPress and InjectRelease to simulate a drag.
func (s *Screen) InjectMove(x, y float64) {
	s.injectQueue = append(s.injectQueue, syntheticPointerEvent{x: x, y: y, pressed: true})
}

// InjectRelease queues a pointer release event at the given screen coordinates.
func (s *Screen) InjectRelease(x, y float64) {
	s.injectQueue = append(s.injectQueue, syntheticPointerEvent{x: x, y: y})
}

// InjectClick is a convenience that queues a press followed by a release
// at the same screen coordinates. Consumes two updates.
func (s *Screen) InjectClick(x, y float64) {
	s.InjectPress(x, y)
	s.InjectRelease(x, y)
}

// InjectDrag queues a full drag sequence: press at (fromX, fromY),
// linearly interpolated moves over frames-2 intermediate updates, and
// release at (toX, toY). Minimum frames is 2 (press + release).
func (s *Screen) InjectDrag(fromX, fromY, toX, toY float64, frames int) {
	if frames < 2 {
		frames = 2
	}
	s.InjectPress(fromX, fromY)
	steps := frames - 2
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps+1)
		s.InjectMove(fromX+(toX-fromX)*t, fromY+(toY-fromY)*t)
	}
	s.InjectRelease(toX, toY)
}

// Pending returns the number of injected events not yet consumed.
func (s *Screen) Pending() int {
	return len(s.injectQueue)
}

// processInjectedInput pops one event from the inject queue and feeds it
// through processPointer. Returns true if an event was consumed.
func (s *Screen) processInjectedInput() bool {
	if len(s.injectQueue) == 0 {
		return false
	}
	evt := s.injectQueue[0]
	copy(s.injectQueue, s.injectQueue[1:])
	s.injectQueue = s.injectQueue[:len(s.injectQueue)-1]

	s.processPointer(evt.x, evt.y, evt.pressed)
	return true
}
