// Package loop runs the asteroid field simulation: the entity registry, the
// per-tick update and collision passes, session state and the terminal
// frame loop that drives it all.
package loop

import (
	"context"
	"io"
	"math/rand/v2"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/asteroid-field/internal/config"
	"github.com/tomz197/asteroid-field/internal/draw"
	"github.com/tomz197/asteroid-field/internal/input"
	"github.com/tomz197/asteroid-field/internal/metrics"
)

// RunOptions configures Run. Zero values fall back to defaults.
type RunOptions struct {
	Tuning   config.Tuning
	Logger   *log.Logger
	Metrics  *metrics.Collector
	TermSize draw.TermSizeFunc
	Rand     *rand.Rand
}

// Run plays one game on a terminal with the standard Input → Update → Draw
// cycle until the player quits, r is exhausted or ctx is cancelled.
func Run(ctx context.Context, r io.Reader, w io.Writer, opts RunOptions) error {
	gameOpts := []Option{WithMetrics(opts.Metrics)}
	if opts.Logger != nil {
		gameOpts = append(gameOpts, WithLogger(opts.Logger))
	}
	if opts.Rand != nil {
		gameOpts = append(gameOpts, WithRand(opts.Rand))
	}
	game, err := NewGame(opts.Tuning, gameOpts...)
	if err != nil {
		return err
	}
	defer game.Close()

	stream := input.StartStream(r)
	view := opts.Tuning.World
	renderer := NewRenderer(w, view.ViewWidth, view.ViewHeight, opts.TermSize)

	draw.HideCursor(w)
	draw.EnableMouse(w)
	defer func() {
		draw.DisableMouse(w)
		draw.ClearScreen(w)
		draw.ShowCursor(w)
	}()

	start := time.Now()
	for {
		frameStart := time.Now()

		// ===== INPUT PHASE =====
		in := input.ReadInput(stream)
		if quit := handleEvents(game, renderer, in.Events); quit || in.Closed {
			return nil
		}

		// ===== UPDATE PHASE =====
		renderer.Resize()
		game.Tick(frameStart.Sub(start))

		// ===== DRAW PHASE =====
		if err := renderer.Draw(game.Snapshot()); err != nil {
			return err
		}

		// ===== FRAME TIMING =====
		wait := config.TargetFrameTime - time.Since(frameStart)
		if wait <= 0 {
			if ctx.Err() != nil {
				return nil
			}
			continue
		}
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(wait):
		}
	}
}

// handleEvents applies input to the game. It reports whether the player
// asked to quit.
func handleEvents(g *Game, r *Renderer, events []input.Event) (quit bool) {
	for _, ev := range events {
		switch ev.Type {
		case input.EventKey:
			switch ev.Key {
			case 'q', 'Q', input.KeyCtrlC:
				return true
			case 'p', 'P', ' ':
				g.TogglePause()
			case 'w', 'W', input.KeyTab:
				g.CycleWeapon()
			case 'r', 'R':
				g.Reset()
			case input.KeyEnter:
				if g.RestartVisible() {
					g.Reset()
				}
			}
		case input.EventPointerDown:
			if g.RestartVisible() {
				g.Reset()
				continue
			}
			g.PointerDown(r.ToView(ev.Col, ev.Row))
		case input.EventPointerMove:
			g.PointerMove(r.ToView(ev.Col, ev.Row))
		case input.EventPointerUp:
			g.PointerMove(r.ToView(ev.Col, ev.Row))
			g.PointerUp()
		}
	}
	return false
}
