package retained

import (
	"testing"

	"github.com/phanxgames/canopy"
)

func TestLoadInputScript(t *testing.T) {
	data := []byte(`
[[steps]]
action = "click"
x = 100
y = 200

[[steps]]
action = "wait"
frames = 3

[[steps]]
action = "drag"
x = 1
y = 2
to_x = 30
to_y = 40
frames = 5
`)
	runner, err := LoadInputScript(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(runner.steps) != 3 {
		t.Fatalf("expected 3 steps, got %d", len(runner.steps))
	}
	if runner.steps[0].Action != "click" || runner.steps[0].X != 100 || runner.steps[0].Y != 200 {
		t.Error("step 0 mismatch")
	}
	if runner.steps[1].Action != "wait" || runner.steps[1].Frames != 3 {
		t.Error("step 1 mismatch")
	}
	if st := runner.steps[2]; st.ToX != 30 || st.ToY != 40 || st.Frames != 5 {
		t.Errorf("step 2 = %+v", st)
	}
}

func TestLoadInputScript_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"syntax", `not toml = = 1`},
		{"empty", `steps = []`},
		{"unknown action", "[[steps]]\naction = \"screenshot\"\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadInputScript([]byte(tt.data)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestScriptRunnerClick(t *testing.T) {
	s := newTestScreen()
	sink := &recordSink{}
	s.SetEventSink(sink)
	mustCreate(t, s, canopy.KindButton, canopy.GuiTag{Bounds: canopy.Rect{Width: 100, Height: 100}})

	runner, err := LoadInputScript([]byte("[[steps]]\naction = \"click\"\nx = 50\ny = 50\n"))
	if err != nil {
		t.Fatal(err)
	}
	s.SetScriptRunner(runner)

	// Frame 1 queues press and release and consumes the press; frame 2
	// consumes the release.
	for i := 0; i < 2; i++ {
		runner.step(s)
		s.processInjectedInput()
	}

	if n := len(sink.ofType(EventClick)); n != 1 {
		t.Errorf("got %d clicks, want 1", n)
	}
	runner.step(s)
	if !runner.Done() {
		t.Error("runner should be done")
	}
}

func TestScriptRunnerWait(t *testing.T) {
	s := newTestScreen()
	runner, err := LoadInputScript([]byte("[[steps]]\naction = \"wait\"\nframes = 3\n"))
	if err != nil {
		t.Fatal(err)
	}
	frames := 0
	for !runner.Done() && frames < 10 {
		runner.step(s)
		frames++
	}
	// Three frames of waiting, then one that notices the script ended.
	if frames != 4 {
		t.Errorf("runner finished after %d frames, want 4", frames)
	}
}
