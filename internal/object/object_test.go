package object

import (
	"math"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomz197/asteroid-field/internal/config"
	"github.com/tomz197/asteroid-field/internal/physics"
)

const eps = 1e-9

var testWorld = World{Width: 1000, Height: 1000}

func newRand() *rand.Rand {
	return rand.New(rand.NewPCG(1, 2))
}

func tick(now, delta time.Duration) UpdateContext {
	return UpdateContext{Delta: delta, Now: now, World: testWorld}
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "missile", KindMissile.String())
	assert.Equal(t, "unknown", Kind(99).String())
	assert.True(t, KindBullet.IsProjectile())
	assert.False(t, KindBeam.IsProjectile())
}

func TestWorldWrapAndClamp(t *testing.T) {
	x, y := -5.0, 1003.0
	testWorld.WrapPosition(&x, &y)
	assert.InDelta(t, 995, x, eps)
	assert.InDelta(t, 3, y, eps)

	x, y = -5, 1003
	testWorld.ClampPosition(&x, &y)
	assert.Equal(t, 0.0, x)
	assert.Equal(t, 1000.0, y)
}

func TestShipThrustTiers(t *testing.T) {
	cfg := config.Default().Ship
	tests := []struct {
		name string
		dist float64
		want float64
	}{
		{"inside low ring", cfg.LowRing - 1, 0},
		{"on low ring", cfg.LowRing, cfg.LowThrustSpeed},
		{"between rings", (cfg.LowRing + cfg.MaxRing) / 2, cfg.LowThrustSpeed},
		{"beyond max ring", cfg.MaxRing + 50, cfg.MaxThrustSpeed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewShip(500, 500, cfg)
			s.SetTarget(500+tt.dist, 500, 0)
			assert.Equal(t, tt.want, s.TargetSpeed)
		})
	}
}

func TestShipEasesTowardsTarget(t *testing.T) {
	cfg := config.Default().Ship
	s := NewShip(500, 500, cfg)

	s.SetTarget(500, 500+cfg.MaxRing+10, 0)
	assert.InDelta(t, math.Pi/2, s.MoveAngle, eps)
	assert.InDelta(t, math.Pi/2, s.Angle, eps)
	require.Equal(t, cfg.MaxThrustSpeed, s.TargetSpeed)

	half := cfg.AccelTime / 2
	s.Update(tick(half, half))
	assert.InDelta(t, cfg.MaxThrustSpeed/2, s.Speed, 1e-6)
	assert.Greater(t, s.Y, 500.0)

	s.Update(tick(cfg.AccelTime, half))
	assert.Equal(t, cfg.MaxThrustSpeed, s.Speed)
}

func TestShipBlendsMomentumWhenReversing(t *testing.T) {
	cfg := config.Default().Ship
	s := NewShip(500, 500, cfg)
	s.MoveAngle = 0
	s.Speed = cfg.MaxThrustSpeed

	// hard reverse: 0.8*400 east + 400 west leaves 80 west
	s.SetTarget(500-cfg.MaxRing-10, 500, time.Second)
	assert.InDelta(t, math.Pi, s.MoveAngle, 1e-9)
	assert.InDelta(t, 80, s.TargetSpeed, 1e-9)
	assert.InDelta(t, s.MoveAngle, s.Angle, eps)

	// target inside the low ring keeps the heading and eases to a stop
	s.MoveAngle = 0
	s.SetTarget(510, 500, 2*time.Second)
	assert.Equal(t, 0.0, s.TargetSpeed)
	assert.Equal(t, 0.0, s.MoveAngle)
}

func TestShipBrakeDecaysLinearly(t *testing.T) {
	cfg := config.Default().Ship
	s := NewShip(500, 500, cfg)
	s.Speed = 300
	s.TargetSpeed = 300

	start := 5 * time.Second
	s.Brake(start)
	require.True(t, s.Braking)

	s.Update(tick(start+cfg.BrakeTime/2, cfg.BrakeTime/2))
	assert.InDelta(t, 150, s.Speed, 1e-9)
	assert.True(t, s.Braking)

	s.Update(tick(start+cfg.BrakeTime, cfg.BrakeTime/2))
	assert.Equal(t, 0.0, s.Speed)
	assert.False(t, s.Braking)

	// stays put afterwards
	x, y := s.X, s.Y
	s.Update(tick(start+2*cfg.BrakeTime, cfg.BrakeTime))
	assert.Equal(t, x, s.X)
	assert.Equal(t, y, s.Y)
}

func TestShipStaysInsideWorld(t *testing.T) {
	cfg := config.Default().Ship
	s := NewShip(995, 500, cfg)
	s.MoveAngle = 0
	s.Speed = 400
	s.TargetSpeed = 400

	s.Update(tick(time.Second, 100*time.Millisecond))
	assert.Equal(t, 1000.0, s.X)
	assert.GreaterOrEqual(t, s.Speed, 0.0)
	assert.LessOrEqual(t, s.Speed, s.MaxSpeed)
}

func TestShipSetRotationIsRateLimited(t *testing.T) {
	cfg := config.Default().Ship
	s := NewShip(500, 500, cfg)
	s.Angle = 0
	s.Speed = 100
	s.MoveAngle = 0

	s.SetRotation(500, 600, 100*time.Millisecond)
	assert.InDelta(t, physics.Radians(25), s.Angle, 1e-9)
	assert.Equal(t, 100.0, s.Speed)
	assert.Equal(t, 0.0, s.MoveAngle)

	for range 10 {
		s.SetRotation(500, 600, 100*time.Millisecond)
	}
	assert.InDelta(t, math.Pi/2, s.Angle, 1e-9)
}

func TestContrail(t *testing.T) {
	c := Contrail{Interval: 50 * time.Millisecond, Lifespan: 700 * time.Millisecond}

	for ms := 0; ms <= 1000; ms += 10 {
		c.Record(float64(ms), 0, time.Duration(ms)*time.Millisecond)
	}
	require.Len(t, c.Points, 21)
	for i := 1; i < len(c.Points); i++ {
		assert.GreaterOrEqual(t, c.Points[i].At-c.Points[i-1].At, c.Interval)
	}

	c.Prune(time.Second)
	require.NotEmpty(t, c.Points)
	for _, p := range c.Points {
		assert.LessOrEqual(t, time.Second-p.At, c.Lifespan)
	}
	assert.Equal(t, 300*time.Millisecond, c.Points[0].At)

	c.Reset()
	assert.Empty(t, c.Points)
}

func TestAsteroidBouncesOffEdges(t *testing.T) {
	cfg := config.Default().Asteroid
	a := NewAsteroid(newRand(), 5, 995, 20, cfg)
	a.VX = -100
	a.VY = 100

	a.Update(tick(0, 100*time.Millisecond))

	assert.Equal(t, 0.0, a.X)
	assert.Equal(t, 1000.0, a.Y)
	assert.Equal(t, 100.0, a.VX)
	assert.Equal(t, -100.0, a.VY)
	assert.GreaterOrEqual(t, a.Angle, 0.0)
	assert.Less(t, a.Angle, physics.TwoPi)
}

func TestAsteroidSplit(t *testing.T) {
	cfg := config.Default().Asteroid
	rng := newRand()

	t.Run("halves into two", func(t *testing.T) {
		parent := NewAsteroid(rng, 300, 400, 32, cfg)
		parent.Spin = 1
		children := parent.Split(rng, cfg, false)
		require.Len(t, children, 2)
		for _, c := range children {
			assert.Equal(t, 16.0, c.Radius)
			assert.InDelta(t, physics.CircleMass(16), c.Mass, eps)
			assert.Equal(t, parent.X, c.X)
			assert.Equal(t, parent.Y, c.Y)
			assert.Zero(t, c.VX)
			assert.Zero(t, c.VY)
			assert.GreaterOrEqual(t, c.Spin, 1.5)
			assert.Less(t, c.Spin, 2.5)
			assert.Len(t, c.Outline, cfg.Sides)
		}
	})

	t.Run("too small", func(t *testing.T) {
		a := NewAsteroid(rng, 0, 0, cfg.MinRadius-0.1, cfg)
		assert.Empty(t, a.Split(rng, cfg, false))
	})

	t.Run("population full", func(t *testing.T) {
		a := NewAsteroid(rng, 0, 0, 30, cfg)
		assert.Empty(t, a.Split(rng, cfg, true))
	})
}

func TestSpawnAsteroidKeepsClearance(t *testing.T) {
	cfg := config.Default().Asteroid
	cfg.SpawnClearance = 200
	rng := newRand()
	for range 50 {
		a := SpawnAsteroid(rng, testWorld, cfg, 500, 500)
		assert.GreaterOrEqual(t, physics.Distance(a.X, a.Y, 500, 500), 200.0)
		assert.True(t, testWorld.Contains(a.X, a.Y))
		assert.GreaterOrEqual(t, a.Radius, cfg.SpawnMinRadius)
		assert.Less(t, a.Radius, cfg.SpawnMaxRadius)
		assert.LessOrEqual(t, math.Abs(a.VX), cfg.MaxVelocity)
		assert.GreaterOrEqual(t, a.Hue, 0.0)
		assert.Less(t, a.Hue, 20.0)
	}
}

func TestProjectileLifespan(t *testing.T) {
	cfg := config.Default().Weapons.Laser
	p := NewLaser(100, 100, 0, cfg)

	assert.False(t, p.Update(tick(0, cfg.Lifespan-time.Millisecond)))
	assert.Greater(t, p.X, 100.0)
	assert.True(t, p.Update(tick(0, time.Millisecond)))
}

func TestMissileAccelerates(t *testing.T) {
	cfg := config.Default().Weapons.Missile
	m := NewMissile(0, 0, 0, cfg)
	require.Equal(t, KindMissile, m.Kind())

	step := cfg.GrowthStep
	for range 10 {
		require.False(t, m.Update(tick(0, step)))
	}
	assert.InDelta(t, cfg.Speed*math.Pow(cfg.Growth, 10), m.Speed, 1e-6)

	for range 100 {
		m.Update(tick(0, step))
	}
	assert.Equal(t, cfg.MaxSpeed, m.Speed)
}

func TestBulletKeepsSpeed(t *testing.T) {
	cfg := config.Default().Weapons.MachineGun.Projectile
	b := NewBullet(0, 0, math.Pi/2, cfg)
	b.Update(tick(0, time.Second))
	assert.Equal(t, cfg.Speed, b.Speed)
	assert.InDelta(t, cfg.Speed, b.Y, 1e-6)
}

func TestBeam(t *testing.T) {
	cfg := config.Default().Weapons.Beam
	b := NewBeam(0, 0, 0, cfg)

	assert.True(t, b.Hits(physics.Circle{X: cfg.Length / 2, Y: 10, Radius: 8}))
	assert.False(t, b.Hits(physics.Circle{X: cfg.Length / 2, Y: 20, Radius: 8}))
	assert.False(t, b.Hits(physics.Circle{X: -20, Y: 0, Radius: 8}))

	bounds := b.Bounds()
	assert.InDelta(t, cfg.Length/2, bounds.X, eps)

	assert.False(t, b.Update(tick(0, cfg.Lifespan/2)))
	assert.True(t, b.Update(tick(0, cfg.Lifespan/2)))
}

func TestParticleWraps(t *testing.T) {
	p := &Particle{X: 999, Y: 1, VX: 10, VY: -10}
	p.Update(tick(0, 200*time.Millisecond))
	assert.InDelta(t, 1, p.X, 1e-9)
	assert.InDelta(t, 999, p.Y, 1e-9)

	dust := SpawnDust(newRand(), testWorld, config.Default().Particles)
	assert.Len(t, dust, 200)
}

func TestPlanetIsStatic(t *testing.T) {
	p := &Planet{X: 10, Y: 20, Radius: 5}
	assert.False(t, p.Update(tick(time.Second, time.Second)))
	assert.Equal(t, physics.Circle{X: 10, Y: 20, Radius: 5}, p.Bounds())
}
