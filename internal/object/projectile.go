package object

import (
	"math"
	"time"

	"github.com/tomz197/asteroid-field/internal/config"
	"github.com/tomz197/asteroid-field/internal/physics"
)

// Projectile is a shot flying along a fixed heading: a laser, a machine gun
// bullet or a missile. Missiles accelerate over their lifetime.
type Projectile struct {
	X, Y     float64 // Position
	Angle    float64 // Heading, radians
	Speed    float64 // Units/sec
	Radius   float64
	Lifespan time.Duration // Remaining; removed at <= 0

	kind Kind
	age  time.Duration

	// Missile acceleration
	initialSpeed float64
	growth       float64
	growthStep   time.Duration
	maxSpeed     float64
}

// NewLaser creates a fast, short-lived laser shot.
func NewLaser(x, y, angle float64, cfg config.Projectile) *Projectile {
	return newProjectile(KindLaser, x, y, angle, cfg)
}

// NewBullet creates a machine gun bullet.
func NewBullet(x, y, angle float64, cfg config.Projectile) *Projectile {
	return newProjectile(KindBullet, x, y, angle, cfg)
}

// NewMissile creates a missile whose speed is multiplied by cfg.Growth every
// cfg.GrowthStep, capped at cfg.MaxSpeed.
func NewMissile(x, y, angle float64, cfg config.Missile) *Projectile {
	p := newProjectile(KindMissile, x, y, angle, cfg.Projectile)
	p.initialSpeed = cfg.Speed
	p.growth = cfg.Growth
	p.growthStep = cfg.GrowthStep
	p.maxSpeed = cfg.MaxSpeed
	return p
}

func newProjectile(kind Kind, x, y, angle float64, cfg config.Projectile) *Projectile {
	return &Projectile{
		X:        x,
		Y:        y,
		Angle:    physics.NormalizeAngle(angle),
		Speed:    cfg.Speed,
		Radius:   cfg.Radius,
		Lifespan: cfg.Lifespan,
		kind:     kind,
	}
}

func (p *Projectile) Kind() Kind { return p.kind }

func (p *Projectile) Bounds() physics.Circle {
	return physics.Circle{X: p.X, Y: p.Y, Radius: p.Radius}
}

// Mass is area based, like every other body.
func (p *Projectile) Mass() float64 {
	return physics.CircleMass(p.Radius)
}

// Velocity returns the projectile's velocity vector.
func (p *Projectile) Velocity() (vx, vy float64) {
	return math.Cos(p.Angle) * p.Speed, math.Sin(p.Angle) * p.Speed
}

// Clone returns an independent copy of the projectile.
func (p *Projectile) Clone() *Projectile {
	c := *p
	return &c
}

// Update moves the projectile and checks lifetime.
func (p *Projectile) Update(ctx UpdateContext) bool {
	p.Lifespan -= ctx.Delta
	if p.Lifespan <= 0 {
		return true
	}
	p.age += ctx.Delta

	if p.kind == KindMissile && p.growthStep > 0 {
		p.Speed = physics.Ramp(p.initialSpeed, p.growth, p.maxSpeed, int(p.age/p.growthStep))
	}

	p.X, p.Y = physics.IntegratePosition(p.X, p.Y, p.Angle, p.Speed, ctx.Delta.Seconds())
	return false
}
