package loop

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/tomz197/asteroid-field/internal/config"
	"github.com/tomz197/asteroid-field/internal/draw"
	"github.com/tomz197/asteroid-field/internal/object"
)

// Minimap dimensions in terminal cells. Each cell holds two sub-rows.
const (
	minimapWidth   = 24
	minimapHeight  = 6
	minimapSubRows = minimapHeight * 2
)

// Renderer draws snapshots to a terminal. The canvas covers the camera view
// and is centred in terminals larger than the max render resolution.
type Renderer struct {
	canvas   *draw.Canvas
	cw       *draw.ChunkWriter
	termSize draw.TermSizeFunc
	tooSmall bool
	minimap  [minimapSubRows][minimapWidth]byte
}

// NewRenderer creates a renderer for a view of viewWidth x viewHeight
// world units.
func NewRenderer(w io.Writer, viewWidth, viewHeight float64, termSize draw.TermSizeFunc) *Renderer {
	if termSize == nil {
		termSize = draw.DefaultTermSizeFunc
	}
	r := &Renderer{
		canvas:   draw.NewScaledCanvas(config.MinTermWidth, config.MinTermHeight, viewWidth, viewHeight),
		cw:       draw.NewChunkWriter(w, 0, 0),
		termSize: termSize,
	}
	r.Resize()
	return r
}

// Resize picks up terminal size changes. Sizes that cannot be read keep
// the previous canvas.
func (r *Renderer) Resize() {
	termWidth, termHeight, err := r.termSize()
	if err != nil {
		return
	}
	r.tooSmall = termWidth < config.MinTermWidth || termHeight < config.MinTermHeight
	renderWidth, renderHeight, offsetCol, offsetRow := clampTermSize(termWidth, termHeight)
	r.canvas.Resize(renderWidth, renderHeight)
	r.canvas.SetOffset(offsetCol, offsetRow)
	r.cw.SetOffset(offsetCol, offsetRow)
}

// clampTermSize clamps terminal dimensions to the max render resolution and computes
// the centering offset for the render area.
func clampTermSize(termWidth, termHeight int) (renderWidth, renderHeight, offsetCol, offsetRow int) {
	renderWidth = min(termWidth, config.MaxTermWidth)
	renderHeight = min(termHeight, config.MaxTermHeight)
	offsetCol = (termWidth - renderWidth) / 2
	offsetRow = (termHeight - renderHeight) / 2
	return
}

// ToView converts a 1-based terminal cell to view coordinates.
func (r *Renderer) ToView(col, row int) (x, y float64) {
	return r.canvas.TerminalToLogical(col, row)
}

// Draw renders one frame.
func (r *Renderer) Draw(s Snapshot) error {
	r.cw.WriteString("\033[H\033[2J")

	if r.tooSmall {
		msg := fmt.Sprintf("Terminal too small, need %dx%d", config.MinTermWidth, config.MinTermHeight)
		r.cw.WriteAt(1, 1, msg)
		return r.cw.Flush()
	}

	c := r.canvas
	c.Clear()

	r.drawWorldBorder(s)
	r.drawDust(s)
	for _, e := range s.Entities {
		r.drawEntity(s, e)
	}
	if s.State == StatePlaying {
		r.drawControls(s)
	}

	c.Render(r.cw)
	c.RenderBorder(r.cw)
	r.drawHUD(s)
	return r.cw.Flush()
}

// drawWorldBorder outlines the world edges that fall inside the view.
func (r *Renderer) drawWorldBorder(s Snapshot) {
	x0, y0 := s.ToView(0, 0)
	x1, y1 := s.ToView(s.WorldWidth, s.WorldHeight)
	r.canvas.SetColor(draw.Navy)
	r.canvas.DrawPolygon([]draw.Point{{X: x0, Y: y0}, {X: x1, Y: y0}, {X: x1, Y: y1}, {X: x0, Y: y1}}, false)
}

func (r *Renderer) drawDust(s Snapshot) {
	r.canvas.SetColor(draw.DarkGray)
	for _, d := range s.Dust {
		if s.Visible(d.X, d.Y, d.Radius) {
			r.canvas.SetFloat(s.ToView(d.X, d.Y))
		}
	}
}

func (r *Renderer) drawEntity(s Snapshot, e EntityView) {
	c := r.canvas
	if e.Kind != object.KindBeam && !s.Visible(e.X, e.Y, e.Radius) {
		return
	}
	x, y := s.ToView(e.X, e.Y)

	switch e.Kind {
	case object.KindPlanet:
		c.SetColor(draw.Navy)
		c.DrawCircle(x, y, e.Radius, true)
		c.SetColor(draw.Cyan)
		c.DrawCircle(x, y, e.Radius, false)

	case object.KindAsteroid:
		sin, cos := math.Sincos(e.Angle)
		points := c.BorrowPoints(len(e.Outline))
		for i, v := range e.Outline {
			points[i] = draw.Point{X: x + v.X*cos - v.Y*sin, Y: y + v.X*sin + v.Y*cos}
		}
		c.SetColor(draw.HSL(e.Hue, e.Saturation, e.Lightness))
		c.DrawPolygon(points, true)

	case object.KindLaser:
		c.SetColor(draw.Red)
		dx, dy := math.Cos(e.Angle)*e.Radius*2, math.Sin(e.Angle)*e.Radius*2
		c.DrawLine(draw.Point{X: x - dx, Y: y - dy}, draw.Point{X: x + dx, Y: y + dy})

	case object.KindBullet:
		c.SetColor(draw.Yellow)
		c.DrawCircle(x, y, e.Radius, true)

	case object.KindMissile:
		c.SetColor(draw.Orange)
		c.DrawCircle(x, y, e.Radius, true)

	case object.KindBeam:
		ex, ey := s.ToView(e.EndX, e.EndY)
		c.SetColor(draw.Cyan)
		c.DrawLine(draw.Point{X: x, Y: y}, draw.Point{X: ex, Y: ey})

	case object.KindShip:
		c.SetColor(draw.Gray)
		for _, p := range e.Contrail {
			c.SetFloat(s.ToView(p.X, p.Y))
		}
		r.drawShip(x, y, e)
	}
}

// drawShip draws the ship as a triangle pointing along its facing.
func (r *Renderer) drawShip(x, y float64, e EntityView) {
	c := r.canvas
	points := c.BorrowPoints(3)
	for i, offset := range [3]float64{0, 2.4, -2.4} {
		a := e.Angle + offset
		dist := e.Radius
		if i > 0 {
			dist *= 0.8
		}
		points[i] = draw.Point{X: x + math.Cos(a)*dist, Y: y + math.Sin(a)*dist}
	}
	if e.Braking {
		c.SetColor(draw.Red)
	} else {
		c.SetColor(draw.White)
	}
	c.DrawPolygon(points, true)
}

// drawControls draws the steering ring and the aiming cursor.
func (r *Renderer) drawControls(s Snapshot) {
	c := r.canvas
	c.SetColor(draw.DarkGray)
	c.DrawCircle(s.ViewWidth/2, s.ViewHeight/2, s.CentreRingRadius, false)

	if s.PointerOverAsteroid {
		c.SetColor(draw.Red)
	} else {
		c.SetColor(draw.Gray)
	}
	const arm = 8.0
	px, py := s.PointerX, s.PointerY
	c.DrawLine(draw.Point{X: px - arm, Y: py}, draw.Point{X: px + arm, Y: py})
	c.DrawLine(draw.Point{X: px, Y: py - arm}, draw.Point{X: px, Y: py + arm})
}

// drawHUD writes the text overlay on top of the rendered canvas.
func (r *Renderer) drawHUD(s Snapshot) {
	cw := r.cw
	termWidth := r.canvas.TerminalWidth()
	termHeight := r.canvas.TerminalHeight()
	centerX := termWidth / 2
	centerY := termHeight / 2

	cw.WriteAt(2, 1, fmt.Sprintf("Score: %-6d", s.Score))
	timeText := "Time: " + s.Timer
	cw.WriteAt(termWidth-len(timeText)-1, 1, timeText)
	r.drawMinimap(s, termWidth, termHeight)

	cw.WriteAt(2, termHeight, fmt.Sprintf("Weapon: %s [w]", s.Weapon))
	keys := "[p] pause  [q] quit"
	cw.WriteAt(termWidth-len(keys)-1, termHeight, keys)

	switch {
	case s.Paused:
		title := "PAUSED"
		cw.WriteAt(centerX-len(title)/2, centerY, title)
	case s.Dialogue != "":
		r.drawDialogue(s, centerX, centerY)
	}
}

// drawDialogue draws the end-of-round box.
func (r *Renderer) drawDialogue(s Snapshot, centerX, centerY int) {
	lines := []string{s.Dialogue, fmt.Sprintf("Score: %d", s.Score)}
	if s.RestartVisible {
		lines = append(lines, "Click or press r to play again")
	}
	width := 0
	for _, l := range lines {
		width = max(width, len(l))
	}
	width += 4

	cw := r.cw
	left := centerX - width/2
	top := centerY - len(lines)/2 - 1
	cw.WriteAt(left, top, "┌"+strings.Repeat("─", width-2)+"┐")
	for i, l := range lines {
		pad := width - 2 - len(l)
		cw.WriteAt(left, top+1+i, "│"+strings.Repeat(" ", pad/2)+l+strings.Repeat(" ", pad-pad/2)+"│")
	}
	cw.WriteAt(left, top+1+len(lines), "└"+strings.Repeat("─", width-2)+"┘")
}

// drawMinimap draws a small overview of the world with every asteroid and
// the ship. Uses half-block characters (▀▄█) for 2x vertical resolution.
func (r *Renderer) drawMinimap(s Snapshot, termWidth, termHeight int) {
	if s.WorldWidth <= 0 || s.WorldHeight <= 0 {
		return
	}

	// 0=empty, 1=asteroid, 2=ship (ship overwrites)
	grid := &r.minimap
	*grid = [minimapSubRows][minimapWidth]byte{}
	for _, e := range s.Entities {
		var mark byte
		switch e.Kind {
		case object.KindShip:
			mark = 2
		case object.KindAsteroid, object.KindPlanet:
			mark = 1
		default:
			continue
		}
		col := min(max(int(e.X/s.WorldWidth*minimapWidth), 0), minimapWidth-1)
		subRow := min(max(int(e.Y/s.WorldHeight*minimapSubRows), 0), minimapSubRows-1)
		grid[subRow][col] = max(grid[subRow][col], mark)
	}

	startCol := termWidth - minimapWidth - 3
	startRow := 3
	if startCol < 1 || startRow+minimapHeight+1 > termHeight {
		return // Not enough space
	}

	cw := r.cw
	cw.WriteAt(startCol, startRow, "┌"+strings.Repeat("─", minimapWidth)+"┐")
	for termRow := 0; termRow < minimapHeight; termRow++ {
		cw.WriteAt(startCol, startRow+1+termRow, "│")
		cur := draw.NoColor
		for col := 0; col < minimapWidth; col++ {
			top := grid[termRow*2][col]
			bot := grid[termRow*2+1][col]
			want := draw.Gray
			if top == 2 || bot == 2 {
				want = draw.Cyan
			}
			var ch rune
			switch {
			case top != 0 && bot != 0:
				ch = draw.BlockFull
			case top != 0:
				ch = draw.BlockUpperHalf
			case bot != 0:
				ch = draw.BlockLowerHalf
			default:
				ch = ' '
			}
			if ch != ' ' && cur != want {
				cw.WriteString(want.Foreground())
				cur = want
			}
			cw.WriteRune(ch)
		}
		if cur != draw.NoColor {
			cw.WriteString(draw.Reset)
		}
		cw.WriteString("│")
	}
	cw.WriteAt(startCol, startRow+1+minimapHeight, "└"+strings.Repeat("─", minimapWidth)+"┘")
}
