package object

import (
	"math"
	"time"

	"github.com/tomz197/asteroid-field/internal/config"
	"github.com/tomz197/asteroid-field/internal/physics"
)

// Beam is a stationary line segment from its origin along Angle. It is not
// consumed by hits and disappears only when its lifespan runs out.
type Beam struct {
	X, Y     float64 // Origin
	Angle    float64
	Length   float64
	Radius   float64 // Half width
	Lifespan time.Duration
}

// NewBeam creates a beam starting at (x,y).
func NewBeam(x, y, angle float64, cfg config.Beam) *Beam {
	return &Beam{
		X:        x,
		Y:        y,
		Angle:    physics.NormalizeAngle(angle),
		Length:   cfg.Length,
		Radius:   cfg.Radius,
		Lifespan: cfg.Lifespan,
	}
}

func (b *Beam) Kind() Kind { return KindBeam }

// Bounds is the circle enclosing the whole segment.
func (b *Beam) Bounds() physics.Circle {
	ex, ey := b.End()
	return physics.Circle{X: (b.X + ex) / 2, Y: (b.Y + ey) / 2, Radius: b.Length/2 + b.Radius}
}

// End returns the far end of the segment.
func (b *Beam) End() (float64, float64) {
	return b.X + math.Cos(b.Angle)*b.Length, b.Y + math.Sin(b.Angle)*b.Length
}

// Hits reports whether the beam overlaps circle c.
func (b *Beam) Hits(c physics.Circle) bool {
	ex, ey := b.End()
	return physics.SegmentCircleOverlap(b.X, b.Y, ex, ey, b.Radius, c)
}

func (b *Beam) Update(ctx UpdateContext) bool {
	b.Lifespan -= ctx.Delta
	return b.Lifespan <= 0
}
