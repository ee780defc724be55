package object

import (
	"math"
	"time"

	"github.com/tomz197/asteroid-field/internal/config"
	"github.com/tomz197/asteroid-field/internal/physics"
)

// Ship is the player-controlled ship. It flies along MoveAngle while its
// nose (Angle) may point elsewhere when aiming.
type Ship struct {
	X, Y        float64 // Position (center)
	Radius      float64
	Angle       float64 // Facing, radians in [0, 2π)
	MoveAngle   float64 // Direction of travel, radians in [0, 2π)
	Speed       float64 // Current speed, units/sec
	TargetSpeed float64 // Speed being eased towards
	MaxSpeed    float64
	Braking     bool
	Contrail    Contrail

	cfg        config.Ship
	brakeStart time.Duration
	brakeFrom  float64
	accelStart time.Duration
	accelFrom  float64
}

// NewShip creates a stationary ship at (x,y) facing up.
func NewShip(x, y float64, cfg config.Ship) *Ship {
	return &Ship{
		X:         x,
		Y:         y,
		Radius:    cfg.Radius,
		Angle:     3 * math.Pi / 2,
		MoveAngle: 3 * math.Pi / 2,
		MaxSpeed:  cfg.MaxThrustSpeed,
		Contrail: Contrail{
			Interval: cfg.ContrailInterval,
			Lifespan: cfg.ContrailLifespan,
		},
		cfg: cfg,
	}
}

func (s *Ship) Kind() Kind { return KindShip }

func (s *Ship) Bounds() physics.Circle {
	return physics.Circle{X: s.X, Y: s.Y, Radius: s.Radius}
}

// Update applies braking or speed easing, then moves the ship.
func (s *Ship) Update(ctx UpdateContext) bool {
	if s.Braking {
		elapsed := ctx.Now - s.brakeStart
		if elapsed >= s.cfg.BrakeTime {
			s.Speed = 0
			s.Braking = false
		} else {
			s.Speed = s.brakeFrom * (1 - float64(elapsed)/float64(s.cfg.BrakeTime))
		}
	} else if s.Speed != s.TargetSpeed {
		progress := float64(ctx.Now-s.accelStart) / float64(s.cfg.AccelTime)
		s.Speed = physics.EaseSpeed(s.accelFrom, s.TargetSpeed, progress)
	}
	s.Speed = physics.Clamp(s.Speed, 0, s.MaxSpeed)

	if s.Speed > 0 {
		s.X, s.Y = physics.IntegratePosition(s.X, s.Y, s.MoveAngle, s.Speed, ctx.Delta.Seconds())
		ctx.World.ClampPosition(&s.X, &s.Y)
		s.Contrail.Record(s.X, s.Y, ctx.Now)
	}
	return false
}

// ThrustFor maps the distance between the ship and a steering target to a
// thrust tier speed: full thrust beyond the max ring, low thrust beyond the
// low ring, otherwise none.
func (s *Ship) ThrustFor(dist float64) float64 {
	switch {
	case dist >= s.cfg.MaxRing:
		return s.cfg.MaxThrustSpeed
	case dist >= s.cfg.LowRing:
		return s.cfg.LowThrustSpeed
	default:
		return 0
	}
}

// SetTarget steers towards the world point (tx,ty). A moving ship blends
// its current motion with the requested one, so reversal is gradual.
func (s *Ship) SetTarget(tx, ty float64, now time.Duration) {
	tier := s.ThrustFor(physics.Distance(s.X, s.Y, tx, ty))
	desired := physics.AngleTo(s.X, s.Y, tx, ty)

	switch {
	case tier == 0:
		s.TargetSpeed = 0
	case s.Speed > 0:
		speed, dir := physics.ComposeVelocities(
			s.Speed, physics.Degrees(s.MoveAngle),
			tier, physics.Degrees(desired),
			s.cfg.MomentumWeight,
		)
		s.MoveAngle = physics.NormalizeAngle(physics.Radians(dir))
		s.TargetSpeed = math.Min(speed, tier)
	default:
		s.MoveAngle = desired
		s.TargetSpeed = tier
	}

	s.Angle = s.MoveAngle
	s.Braking = false
	s.accelFrom = s.Speed
	s.accelStart = now
}

// SetRotation turns the nose towards (tx,ty), limited by the rotation rate.
// Speed and direction of travel are unchanged.
func (s *Ship) SetRotation(tx, ty float64, dt time.Duration) {
	target := physics.AngleTo(s.X, s.Y, tx, ty)
	maxStep := physics.Radians(s.cfg.RotationRate) * dt.Seconds()
	s.Angle = physics.RotateToward(s.Angle, target, maxStep)
}

// Brake starts a linear deceleration to a standstill.
func (s *Ship) Brake(now time.Duration) {
	s.Braking = true
	s.brakeStart = now
	s.brakeFrom = s.Speed
	s.TargetSpeed = 0
}

// Nose returns the tip of the ship, where shots leave from.
func (s *Ship) Nose() (float64, float64) {
	return s.X + math.Cos(s.Angle)*s.Radius, s.Y + math.Sin(s.Angle)*s.Radius
}

// Velocity returns the ship's velocity vector.
func (s *Ship) Velocity() (vx, vy float64) {
	return math.Cos(s.MoveAngle) * s.Speed, math.Sin(s.MoveAngle) * s.Speed
}
