// stress churns thousands of tagged entities every frame and lets the bridge
// catch up under a per-tick budget. Labels are spawned, renamed, reparented
// and despawned at random; the window title shows how far behind the widget
// tree is. Run with --headless to skip the window and print tick statistics,
// and with --profile to capture a pprof profile of the run.
package main

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"strconv"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/pkg/profile"
	"github.com/spf13/pflag"
	"github.com/yohamta/donburi"

	"github.com/phanxgames/canopy"
	"github.com/phanxgames/canopy/ecs"
	"github.com/phanxgames/canopy/retained"
)

const (
	screenW   = 1280
	screenH   = 720
	columns   = 8
	rowHeight = 14
	colWidth  = screenW / columns
)

type options struct {
	entities   int
	churn      int
	budget     int
	frames     int
	headless   bool
	profile    string
	profileDir string
	debug      bool
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var opt options
	flagSet := pflag.NewFlagSet("stress", pflag.ContinueOnError)
	flagSet.IntVarP(&opt.entities, "entities", "n", 2000, "number of label entities")
	flagSet.IntVar(&opt.churn, "churn", 200, "entities changed per frame")
	flagSet.IntVar(&opt.budget, "budget", 256, "max records applied per tick, 0 for unlimited")
	flagSet.IntVar(&opt.frames, "frames", 600, "frames to run in headless mode")
	flagSet.BoolVar(&opt.headless, "headless", false, "run without a window and print statistics")
	flagSet.StringVar(&opt.profile, "profile", "", "capture a profile: cpu, mem or allocs")
	flagSet.StringVar(&opt.profileDir, "profile-dir", ".", "directory for profile output")
	flagSet.BoolVar(&opt.debug, "debug", false, "log per-tick sync statistics")
	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	if opt.profile != "" {
		mode, err := profileMode(opt.profile)
		if err != nil {
			return err
		}
		p := profile.Start(mode, profile.ProfilePath(opt.profileDir), profile.NoShutdownHook)
		defer p.Stop()
	}

	level := slog.LevelWarn
	cfg := canopy.DefaultConfig()
	cfg.Budget = opt.budget
	cfg.Capacity = opt.entities + columns
	if opt.debug {
		cfg.Debug = true
		level = slog.LevelDebug
	}
	cfg.Logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	screen := retained.NewScreen(retained.ScreenConfig{Width: screenW, Height: screenH})
	bridge, err := canopy.NewScheduler(screen, cfg)
	if err != nil {
		return err
	}
	sim := newSimulation(opt)
	ecs.WatchDespawns(sim.world, bridge)
	view := ecs.NewView(sim.world)

	if opt.headless {
		return runHeadless(sim, bridge, view, opt.frames)
	}

	screen.SetUpdateFunc(func() error {
		sim.step()
		if err := bridge.Tick(view); err != nil && !errors.Is(err, canopy.ErrToolkitRejected) {
			return err
		}
		st := bridge.Stats()
		ebiten.SetWindowTitle(fmt.Sprintf("Canopy — Stress: %d widgets, %d deferred", st.Widgets, st.Deferred))
		return nil
	})
	return retained.Run(screen, retained.RunConfig{Title: "Canopy — Stress", ShowFPS: true})
}

func profileMode(name string) (func(*profile.Profile), error) {
	switch name {
	case "cpu":
		return profile.CPUProfile, nil
	case "mem":
		return profile.MemProfile, nil
	case "allocs":
		return profile.MemProfileAllocs, nil
	default:
		return nil, fmt.Errorf("unknown profile %q (want cpu, mem or allocs)", name)
	}
}

func runHeadless(sim *simulation, bridge *canopy.Scheduler, view canopy.WorldView, frames int) error {
	var applied, deferred, maxDeferred int
	var diff, apply time.Duration
	for i := 0; i < frames; i++ {
		sim.step()
		if err := bridge.Tick(view); err != nil && !errors.Is(err, canopy.ErrToolkitRejected) {
			return err
		}
		st := bridge.Stats()
		applied += st.Applied
		deferred += st.Deferred
		maxDeferred = max(maxDeferred, st.Deferred)
		diff += st.DiffTime
		apply += st.ApplyTime
	}
	st := bridge.Stats()
	fmt.Printf("frames: %d | widgets: %d | applied: %d | deferred (sum/max): %d/%d\n",
		frames, st.Widgets, applied, deferred, maxDeferred)
	fmt.Printf("diff: %v/frame | apply: %v/frame\n",
		diff/time.Duration(frames), apply/time.Duration(frames))
	return nil
}

// simulation owns the world and the random churn applied to it.
type simulation struct {
	world   donburi.World
	columns [columns]donburi.Entity
	live    []donburi.Entity
	target  int
	churn   int
	rng     *rand.Rand
	serial  int
}

func newSimulation(opt options) *simulation {
	sim := &simulation{
		world:  donburi.NewWorld(),
		target: opt.entities,
		churn:  opt.churn,
		rng:    rand.New(rand.NewPCG(1, 2)),
	}
	for i := range sim.columns {
		e := sim.world.Create(ecs.GuiTag)
		ecs.GuiTag.SetValue(sim.world.Entry(e), canopy.GuiTag{
			Kind:   canopy.KindContainer,
			Bounds: canopy.Rect{X: int32(i * colWidth), Width: colWidth, Height: screenH},
		})
		sim.columns[i] = e
	}
	for len(sim.live) < sim.target {
		sim.spawn()
	}
	return sim
}

func (sim *simulation) spawn() {
	e := sim.world.Create(ecs.GuiTag)
	sim.serial++
	ecs.GuiTag.SetValue(sim.world.Entry(e), canopy.GuiTag{
		Kind: canopy.KindLabel,
		Text: "label " + strconv.Itoa(sim.serial),
		Bounds: canopy.Rect{
			X:      4,
			Y:      int32(sim.rng.IntN(screenH/rowHeight) * rowHeight),
			Width:  colWidth - 8,
			Height: rowHeight,
		},
	})
	ecs.SetParent(sim.world, e, sim.columns[sim.rng.IntN(columns)])
	sim.live = append(sim.live, e)
}

// step applies one frame of churn: renames, moves between columns and
// despawns, then respawns back up to the target population.
func (sim *simulation) step() {
	for i := 0; i < sim.churn && len(sim.live) > 0; i++ {
		j := sim.rng.IntN(len(sim.live))
		e := sim.live[j]
		switch sim.rng.IntN(4) {
		case 0, 1:
			sim.serial++
			ecs.GuiTag.Get(sim.world.Entry(e)).Text = "label " + strconv.Itoa(sim.serial)
		case 2:
			ecs.SetParent(sim.world, e, sim.columns[sim.rng.IntN(columns)])
		case 3:
			sim.world.Remove(e)
			sim.live[j] = sim.live[len(sim.live)-1]
			sim.live = sim.live[:len(sim.live)-1]
		}
	}
	for len(sim.live) < sim.target {
		sim.spawn()
	}
}
