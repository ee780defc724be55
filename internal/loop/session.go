package loop

import (
	"fmt"
	"time"
)

// State is the session phase.
type State int

const (
	StatePlaying State = iota
	StatePaused
	StateGameOver
)

func (s State) String() string {
	switch s {
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	case StateGameOver:
		return "game over"
	default:
		return "unknown"
	}
}

// Why a round ended.
const (
	ReasonAsteroid = "asteroid"
	ReasonPlanet   = "planet"
	ReasonTime     = "time"
)

var gameOverText = map[string]string{
	ReasonAsteroid: "Game Over!",
	ReasonPlanet:   "Game Over!",
	ReasonTime:     "Time's up!",
}

// Dialogue is the end-of-round message box. The restart prompt appears
// once the box has been visible for delay.
type Dialogue struct {
	Text  string
	delay time.Duration
	shown time.Duration
}

// Show opens the dialogue with text.
func (d *Dialogue) Show(text string) {
	d.Text = text
	d.shown = 0
}

// Hide closes the dialogue.
func (d *Dialogue) Hide() {
	d.Text = ""
	d.shown = 0
}

// Visible reports whether the dialogue is open.
func (d *Dialogue) Visible() bool { return d.Text != "" }

// Advance counts visible time.
func (d *Dialogue) Advance(delta time.Duration) {
	if d.Visible() {
		d.shown += delta
	}
}

// RestartVisible reports whether the restart prompt is showing.
func (d *Dialogue) RestartVisible() bool {
	return d.Visible() && d.shown >= d.delay
}

// formatTimer renders a countdown as M:SS, rounding partial seconds up so
// the display reads 0:00 only when time has run out.
func formatTimer(remaining time.Duration) string {
	if remaining < 0 {
		remaining = 0
	}
	secs := int((remaining + time.Second - 1) / time.Second)
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}
