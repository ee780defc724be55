package object

import (
	"math/rand/v2"

	"github.com/tomz197/asteroid-field/internal/config"
	"github.com/tomz197/asteroid-field/internal/physics"
)

// Particle is background dust. It drifts forever, wraps at the world edges
// and takes no part in collisions.
type Particle struct {
	X, Y   float64 // Position
	VX, VY float64 // Velocity
	Radius float64
}

// SpawnDust scatters cfg.Count particles across the world.
func SpawnDust(rng *rand.Rand, world World, cfg config.Particles) []*Particle {
	dust := make([]*Particle, cfg.Count)
	for i := range dust {
		dust[i] = &Particle{
			X:      rng.Float64() * world.Width,
			Y:      rng.Float64() * world.Height,
			VX:     (rng.Float64()*2 - 1) * cfg.MaxSpeed,
			VY:     (rng.Float64()*2 - 1) * cfg.MaxSpeed,
			Radius: rng.Float64() * cfg.MaxRadius,
		}
	}
	return dust
}

func (p *Particle) Kind() Kind { return KindParticle }

func (p *Particle) Bounds() physics.Circle {
	return physics.Circle{X: p.X, Y: p.Y, Radius: p.Radius}
}

// Update moves the particle, wrapping each axis independently.
func (p *Particle) Update(ctx UpdateContext) bool {
	dt := ctx.Delta.Seconds()
	p.X += p.VX * dt
	p.Y += p.VY * dt
	ctx.World.WrapPosition(&p.X, &p.Y)
	return false
}
