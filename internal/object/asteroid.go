package object

import (
	"math"
	"math/rand/v2"

	"github.com/tomz197/asteroid-field/internal/config"
	"github.com/tomz197/asteroid-field/internal/physics"
)

// Vertex is an outline point relative to the asteroid centre at rotation 0.
type Vertex struct {
	X, Y float64
}

// Asteroid is a destructible space rock. Its outline is generated once and
// only rotated afterwards.
type Asteroid struct {
	physics.Body
	Angle   float64 // Current rotation angle (cosmetic)
	Spin    float64 // Rotation speed (radians/sec)
	Outline []Vertex

	// Colour in HSL, degrees and percent.
	Hue, Saturation, Lightness float64
}

// NewAsteroid creates an asteroid of radius r at (x,y) with zero velocity
// and a freshly generated irregular outline.
func NewAsteroid(rng *rand.Rand, x, y, r float64, cfg config.Asteroid) *Asteroid {
	return &Asteroid{
		Body: physics.Body{
			X:      x,
			Y:      y,
			Radius: r,
			Mass:   physics.CircleMass(r),
		},
		Angle:      rng.Float64() * physics.TwoPi,
		Spin:       (rng.Float64()*2 - 1) * cfg.MaxSpin,
		Outline:    generateOutline(rng, r, cfg),
		Hue:        rng.Float64() * 20,
		Saturation: 50 + rng.Float64()*50,
		Lightness:  20 + rng.Float64()*45,
	}
}

// SpawnAsteroid creates an asteroid at a random position in the world with a
// random radius and drift, keeping at least cfg.SpawnClearance away from
// (avoidX, avoidY) when a free spot can be found.
func SpawnAsteroid(rng *rand.Rand, world World, cfg config.Asteroid, avoidX, avoidY float64) *Asteroid {
	var x, y float64
	for range 16 {
		x = rng.Float64() * world.Width
		y = rng.Float64() * world.Height
		if physics.Distance(x, y, avoidX, avoidY) >= cfg.SpawnClearance {
			break
		}
	}

	r := cfg.SpawnMinRadius + rng.Float64()*(cfg.SpawnMaxRadius-cfg.SpawnMinRadius)
	a := NewAsteroid(rng, x, y, r, cfg)
	a.VX = (rng.Float64()*2 - 1) * cfg.MaxVelocity
	a.VY = (rng.Float64()*2 - 1) * cfg.MaxVelocity
	return a
}

func generateOutline(rng *rand.Rand, r float64, cfg config.Asteroid) []Vertex {
	sides := cfg.Sides
	if sides < 3 {
		sides = 3
	}
	outline := make([]Vertex, sides)
	step := physics.TwoPi / float64(sides)
	for i := range outline {
		angle := float64(i)*step + (rng.Float64()*2-1)*cfg.AngleJitter
		dist := r * (1 + (rng.Float64()*2-1)*cfg.VertexJitter)
		outline[i] = Vertex{X: math.Cos(angle) * dist, Y: math.Sin(angle) * dist}
	}
	return outline
}

func (a *Asteroid) Kind() Kind { return KindAsteroid }

func (a *Asteroid) Bounds() physics.Circle { return a.Circle() }

// Update drifts the asteroid, bouncing it off the world edges.
func (a *Asteroid) Update(ctx UpdateContext) bool {
	dt := ctx.Delta.Seconds()

	a.X += a.VX * dt
	a.Y += a.VY * dt

	w := ctx.World
	if (a.X < 0 && a.VX < 0) || (a.X > w.Width && a.VX > 0) {
		a.VX = -a.VX
	}
	if (a.Y < 0 && a.VY < 0) || (a.Y > w.Height && a.VY > 0) {
		a.VY = -a.VY
	}
	w.ClampPosition(&a.X, &a.Y)

	a.Angle = physics.NormalizeAngle(a.Angle + a.Spin*dt)
	return false
}

// Split breaks the asteroid into two half-size fragments at its position.
// It returns nil when the asteroid is below cfg.MinRadius or when the
// population is full. Fragments start with zero velocity; the caller sets it.
func (a *Asteroid) Split(rng *rand.Rand, cfg config.Asteroid, full bool) []*Asteroid {
	if a.Radius < cfg.MinRadius || full {
		return nil
	}
	r := a.Radius / 2
	children := make([]*Asteroid, 2)
	for i := range children {
		c := NewAsteroid(rng, a.X, a.Y, r, cfg)
		c.Angle = a.Angle
		c.Spin = a.Spin * (cfg.SplitSpinMin + rng.Float64()*(cfg.SplitSpinMax-cfg.SplitSpinMin))
		c.Hue, c.Saturation, c.Lightness = a.Hue, a.Saturation, a.Lightness
		children[i] = c
	}
	return children
}
