package retained

import (
	"fmt"
	"os"
)

// debugCheckDisposed panics with a descriptive message when a disposed widget
// is used in a tree operation. In release mode callers skip this entirely.
func debugCheckDisposed(w *Widget, op string) {
	if w.disposed {
		panic(fmt.Sprintf("canopy debug: %s on disposed %v widget (handle was %d)", op, w.Kind, w.Handle))
	}
}

// debugCheckTreeDepth warns on stderr if tree depth exceeds the threshold.
const debugMaxTreeDepth = 32

func debugCheckTreeDepth(w *Widget) {
	depth := 0
	for p := w; p != nil; p = p.Parent {
		depth++
	}
	if depth > debugMaxTreeDepth {
		_, _ = fmt.Fprintf(os.Stderr, "[canopy] warning: tree depth %d exceeds %d (widget %d)\n",
			depth, debugMaxTreeDepth, w.Handle)
	}
}

// debugCheckChildCount warns on stderr if a widget has more than 1000 children.
const debugMaxChildCount = 1000

func debugCheckChildCount(w *Widget) {
	if len(w.children) > debugMaxChildCount {
		_, _ = fmt.Fprintf(os.Stderr, "[canopy] warning: widget %d has %d children (threshold %d)\n",
			w.Handle, len(w.children), debugMaxChildCount)
	}
}
