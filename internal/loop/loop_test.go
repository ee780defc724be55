package loop

import (
	"bytes"
	"context"
	"io"
	"math/rand/v2"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomz197/asteroid-field/internal/config"
	"github.com/tomz197/asteroid-field/internal/input"
	"github.com/tomz197/asteroid-field/internal/object"
	"github.com/tomz197/asteroid-field/internal/weapon"
)

func fixedSize(w, h int) func() (int, int, error) {
	return func() (int, int, error) { return w, h, nil }
}

func TestHandleEvents(t *testing.T) {
	tun := emptyTuning()
	g, _ := newTestGame(t, tun)
	r := NewRenderer(io.Discard, tun.World.ViewWidth, tun.World.ViewHeight, fixedSize(120, 40))

	quit := handleEvents(g, r, []input.Event{
		{Type: input.EventKey, Key: 'w'},
		{Type: input.EventKey, Key: input.KeyTab},
	})
	assert.False(t, quit)
	assert.Equal(t, weapon.Missile, g.Weapon())

	// The middle cell of a 120x40 terminal lies inside the centre ring.
	handleEvents(g, r, []input.Event{
		{Type: input.EventPointerDown, Col: 61, Row: 21},
		{Type: input.EventPointerMove, Col: 120, Row: 21},
		{Type: input.EventPointerUp, Col: 120, Row: 21},
	})
	assert.Equal(t, tun.Ship.MaxThrustSpeed, g.Ship().TargetSpeed)
	assert.InDelta(t, 0, g.Ship().MoveAngle, 0.05, "heading roughly right")

	handleEvents(g, r, []input.Event{{Type: input.EventKey, Key: 'p'}})
	assert.Equal(t, StatePaused, g.State())

	assert.True(t, handleEvents(g, r, []input.Event{{Type: input.EventKey, Key: 'q'}}))
	assert.True(t, handleEvents(g, r, []input.Event{{Type: input.EventKey, Key: input.KeyCtrlC}}))
}

func TestClickRestartsOnlyOncePromptShows(t *testing.T) {
	tun := emptyTuning()
	g, clk := newTestGame(t, tun)
	r := NewRenderer(io.Discard, tun.World.ViewWidth, tun.World.ViewHeight, fixedSize(120, 40))
	rng := rand.New(rand.NewPCG(3, 3))

	g.Registry().Add(object.NewAsteroid(rng, g.Ship().X, g.Ship().Y, 20, tun.Asteroid))
	clk.run(g, frame, frame)
	require.Equal(t, StateGameOver, g.State())

	click := []input.Event{{Type: input.EventPointerDown, Col: 10, Row: 10}}
	handleEvents(g, r, click)
	assert.Equal(t, StateGameOver, g.State(), "prompt not shown yet")

	clk.run(g, tun.Session.DialogueDelay, frame)
	handleEvents(g, r, click)
	assert.Equal(t, StatePlaying, g.State())
}

func TestRunStopsAtEndOfInput(t *testing.T) {
	var out bytes.Buffer
	err := Run(context.Background(), strings.NewReader(""), &out, RunOptions{
		Tuning:   emptyTuning(),
		TermSize: fixedSize(120, 40),
		Rand:     rand.New(rand.NewPCG(1, 1)),
	})
	require.NoError(t, err)
	assert.Contains(t, out.String(), "\033[?1006h", "mouse reporting enabled")
	assert.Contains(t, out.String(), "\033[?1006l", "mouse reporting restored")
	assert.True(t, strings.HasSuffix(out.String(), "\033[?25h"), "cursor shown again")
}

func TestRunStopsOnContextCancel(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	var out bytes.Buffer
	err := Run(ctx, pr, &out, RunOptions{Tuning: emptyTuning(), TermSize: fixedSize(120, 40)})
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Score: 0")
}

func TestRunRejectsInvalidTuning(t *testing.T) {
	err := Run(context.Background(), strings.NewReader(""), io.Discard, RunOptions{})
	assert.ErrorIs(t, err, config.ErrInvalidTuning)
}

func TestRendererDrawsHUD(t *testing.T) {
	tun := config.Default()
	g, _ := newTestGame(t, tun)

	var out bytes.Buffer
	r := NewRenderer(&out, tun.World.ViewWidth, tun.World.ViewHeight, fixedSize(120, 40))
	require.NoError(t, r.Draw(g.Snapshot()))

	s := out.String()
	assert.Contains(t, s, "Score: 0")
	assert.Contains(t, s, "Time: 3:00")
	assert.Contains(t, s, "Weapon: laser")
	assert.Contains(t, s, "\033[38;5;", "entities are drawn in colour")
	assert.Contains(t, s, "┌"+strings.Repeat("─", minimapWidth)+"┐", "minimap frame")
}

func TestRendererDrawsDialogue(t *testing.T) {
	tun := emptyTuning()
	tun.Session.RoundTime = 100 * time.Millisecond
	g, clk := newTestGame(t, tun)
	clk.run(g, 500*time.Millisecond, 50*time.Millisecond)
	require.True(t, g.RestartVisible())

	var out bytes.Buffer
	r := NewRenderer(&out, tun.World.ViewWidth, tun.World.ViewHeight, fixedSize(120, 40))
	require.NoError(t, r.Draw(g.Snapshot()))
	assert.Contains(t, out.String(), "Time's up!")
	assert.Contains(t, out.String(), "play again")
}

func TestRendererTerminalTooSmall(t *testing.T) {
	tun := emptyTuning()
	g, _ := newTestGame(t, tun)

	var out bytes.Buffer
	r := NewRenderer(&out, tun.World.ViewWidth, tun.World.ViewHeight, fixedSize(20, 5))
	require.NoError(t, r.Draw(g.Snapshot()))
	assert.Contains(t, out.String(), "Terminal too small")
	assert.NotContains(t, out.String(), "Score:")
}

func TestClampTermSize(t *testing.T) {
	w, h, col, row := clampTermSize(config.MaxTermWidth+20, config.MaxTermHeight+10)
	assert.Equal(t, config.MaxTermWidth, w)
	assert.Equal(t, config.MaxTermHeight, h)
	assert.Equal(t, 10, col)
	assert.Equal(t, 5, row)

	w, h, col, row = clampTermSize(100, 30)
	assert.Equal(t, []int{100, 30, 0, 0}, []int{w, h, col, row})
}
