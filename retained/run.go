package retained

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// RunConfig configures the window opened by Run.
type RunConfig struct {
	Title         string
	Width, Height int
	ShowFPS       bool
}

// SetUpdateFunc sets a function called once per tick before the screen
// processes input. Hosts advance their ECS and run the sync pass here.
// Returning an error stops Run with that error.
func (s *Screen) SetUpdateFunc(fn func() error) {
	s.updateFunc = fn
}

// game adapts a Screen to ebiten.Game.
type game struct {
	screen  *Screen
	cfg     RunConfig
	showFPS bool
}

func (g *game) Update() error {
	if fn := g.screen.updateFunc; fn != nil {
		if err := fn(); err != nil {
			return err
		}
	}
	g.screen.Update(float32(1.0 / float64(ebiten.TPS())))
	return nil
}

func (g *game) Draw(dst *ebiten.Image) {
	g.screen.Draw(dst)
	if g.showFPS {
		ebitenutil.DebugPrint(dst, fmt.Sprintf("FPS: %.1f\nTPS: %.1f", ebiten.ActualFPS(), ebiten.ActualTPS()))
	}
}

func (g *game) Layout(_, _ int) (int, int) {
	return g.cfg.Width, g.cfg.Height
}

// Run opens a window and drives screen until the window closes or the update
// function returns an error. Width and Height default to the screen's size.
func Run(screen *Screen, cfg RunConfig) error {
	if cfg.Width <= 0 {
		cfg.Width = screen.cfg.Width
	}
	if cfg.Height <= 0 {
		cfg.Height = screen.cfg.Height
	}
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	return ebiten.RunGame(&game{screen: screen, cfg: cfg, showFPS: cfg.ShowFPS})
}
