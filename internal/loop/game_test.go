package loop

import (
	"math/rand/v2"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomz197/asteroid-field/internal/config"
	"github.com/tomz197/asteroid-field/internal/metrics"
	"github.com/tomz197/asteroid-field/internal/object"
	"github.com/tomz197/asteroid-field/internal/physics"
	"github.com/tomz197/asteroid-field/internal/weapon"
)

const frame = 16 * time.Millisecond

// emptyTuning is the default balance without asteroids, planet or dust so
// tests can place every entity themselves.
func emptyTuning() config.Tuning {
	t := config.Default()
	t.Asteroid.InitialCount = 0
	t.Planet.Enabled = false
	t.Particles.Count = 0
	return t
}

// hostClock feeds Tick with monotonically increasing host time.
type hostClock struct {
	now time.Duration
}

func (c *hostClock) run(g *Game, total, step time.Duration) {
	for elapsed := time.Duration(0); elapsed < total; elapsed += step {
		c.now += step
		g.Tick(c.now)
	}
}

func newTestGame(t *testing.T, tun config.Tuning, opts ...Option) (*Game, *hostClock) {
	t.Helper()
	opts = append([]Option{WithRand(rand.New(rand.NewPCG(7, 7)))}, opts...)
	g, err := NewGame(tun, opts...)
	require.NoError(t, err)
	g.Tick(0)
	return g, &hostClock{}
}

func newTestMetrics() (*prometheus.Registry, *metrics.Collector) {
	reg := prometheus.NewRegistry()
	return reg, metrics.New(reg)
}

func TestNewGameRejectsInvalidTuning(t *testing.T) {
	tun := config.Default()
	tun.World.MaxEntities = 0
	_, err := NewGame(tun)
	assert.ErrorIs(t, err, config.ErrInvalidTuning)
}

func TestResetPopulatesWorld(t *testing.T) {
	tun := config.Default()
	g, _ := newTestGame(t, tun)

	r := g.Registry()
	assert.Equal(t, 1, r.CountKind(object.KindShip))
	assert.Equal(t, 1, r.CountKind(object.KindPlanet))
	assert.Len(t, r.Asteroids(), tun.Asteroid.InitialCount)
	assert.Equal(t, StatePlaying, g.State())
	assert.Equal(t, tun.Session.RoundTime, g.Remaining())

	cx, cy := tun.World.Width/2, tun.World.Height/2
	assert.Equal(t, cx, g.Ship().X)
	assert.Equal(t, cy, g.Ship().Y)
}

func TestTickClampsLongFrames(t *testing.T) {
	g, _ := newTestGame(t, emptyTuning())
	g.Tick(10 * time.Second)
	assert.Equal(t, config.Default().Session.MaxFrameDelta, g.Clock())

	g.Tick(5 * time.Second) // host time went backwards
	assert.Equal(t, config.Default().Session.MaxFrameDelta, g.Clock())
}

func TestProjectileDestroysAsteroid(t *testing.T) {
	tun := emptyTuning()
	reg, m := newTestMetrics()
	g, clk := newTestGame(t, tun, WithMetrics(m))
	rng := rand.New(rand.NewPCG(3, 3))

	ship := g.Ship()
	a := object.NewAsteroid(rng, ship.X+300, ship.Y, 20, tun.Asteroid)
	_, ok := g.Registry().Add(a)
	require.True(t, ok)
	bullet := object.NewBullet(a.X-10, a.Y, 0, tun.Weapons.MachineGun.Projectile)
	pid, ok := g.Registry().Add(bullet)
	require.True(t, ok)

	clk.run(g, frame, frame)

	assert.Equal(t, 1, g.Score())
	_, ok = g.Registry().Get(pid)
	assert.False(t, ok, "projectile is consumed")

	children := g.Registry().Asteroids()
	require.Len(t, children, 2)

	bvx, bvy := bullet.Velocity()
	wantVX, wantVY := physics.MomentumBlend(a.Mass, 0, 0, bullet.Mass(), bvx, bvy)
	half := tun.Collision.SplitJitter / 2
	for _, id := range children {
		c, ok := g.Registry().Asteroid(id)
		require.True(t, ok)
		assert.Equal(t, 10.0, c.Radius)
		assert.InDelta(t, wantVX, c.VX, half+1e-9)
		assert.InDelta(t, wantVY, c.VY, half+1e-9)
	}

	expected := `
# HELP asteroids_destroyed_total Asteroids hit, by what hit them
# TYPE asteroids_destroyed_total counter
asteroids_destroyed_total{cause="projectile"} 1
`
	assert.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "asteroids_destroyed_total"))
}

func TestSmallAsteroidLeavesNoFragments(t *testing.T) {
	tun := emptyTuning()
	g, clk := newTestGame(t, tun)
	rng := rand.New(rand.NewPCG(3, 3))

	ship := g.Ship()
	a := object.NewAsteroid(rng, ship.X+300, ship.Y, tun.Asteroid.MinRadius/2, tun.Asteroid)
	g.Registry().Add(a)
	g.Registry().Add(object.NewLaser(a.X-10, a.Y, 0, tun.Weapons.Laser))

	clk.run(g, frame, frame)

	assert.Equal(t, 1, g.Score())
	assert.Empty(t, g.Registry().Asteroids())
	assert.Empty(t, g.Registry().Projectiles())
}

func TestBeamCutsThroughAsteroids(t *testing.T) {
	tun := emptyTuning()
	g, clk := newTestGame(t, tun)
	rng := rand.New(rand.NewPCG(3, 3))

	ship := g.Ship()
	for _, dx := range []float64{200, 400} {
		g.Registry().Add(object.NewAsteroid(rng, ship.X+dx, ship.Y, 20, tun.Asteroid))
	}
	bid, _ := g.Registry().Add(object.NewBeam(ship.X+30, ship.Y, 0, tun.Weapons.Beam))

	clk.run(g, frame, frame)

	assert.Equal(t, 2, g.Score())
	assert.Len(t, g.Registry().Asteroids(), 4)
	_, ok := g.Registry().Get(bid)
	assert.True(t, ok, "beam is not consumed")

	half := tun.Collision.SplitJitter / 2
	for _, id := range g.Registry().Asteroids() {
		c, _ := g.Registry().Asteroid(id)
		assert.InDelta(t, 0, c.VX, half+1e-9)
		assert.InDelta(t, 0, c.VY, half+1e-9)
	}
}

func TestShipAsteroidCollisionEndsGameOnce(t *testing.T) {
	tun := emptyTuning()
	reg, m := newTestMetrics()
	g, clk := newTestGame(t, tun, WithMetrics(m))
	rng := rand.New(rand.NewPCG(3, 3))

	ship := g.Ship()
	g.Registry().Add(object.NewAsteroid(rng, ship.X+30, ship.Y, 20, tun.Asteroid))

	clk.run(g, frame, frame)

	assert.Equal(t, StateGameOver, g.State())
	assert.Zero(t, g.Registry().Len(), "game over clears the world")
	snap := g.Snapshot()
	assert.Equal(t, "Game Over!", snap.Dialogue)
	assert.False(t, snap.RestartVisible)

	clk.run(g, 400*time.Millisecond, frame)
	assert.True(t, g.RestartVisible())
	assert.Equal(t, StateGameOver, g.State())

	expected := `
# HELP asteroids_game_overs_total Finished rounds
# TYPE asteroids_game_overs_total counter
asteroids_game_overs_total{reason="asteroid"} 1
# HELP asteroids_entities Live entities in the registry, summed over sessions
# TYPE asteroids_entities gauge
asteroids_entities 0
`
	assert.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected),
		"asteroids_game_overs_total", "asteroids_entities"))
}

func TestShipPlanetCollision(t *testing.T) {
	tun := emptyTuning()
	tun.Planet = config.Planet{
		Enabled: true,
		X:       tun.World.Width/2 + 100,
		Y:       tun.World.Height / 2,
		Radius:  90,
	}
	reg, m := newTestMetrics()
	g, clk := newTestGame(t, tun, WithMetrics(m))

	clk.run(g, frame, frame)

	assert.Equal(t, StateGameOver, g.State())
	expected := `
# HELP asteroids_game_overs_total Finished rounds
# TYPE asteroids_game_overs_total counter
asteroids_game_overs_total{reason="planet"} 1
`
	assert.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "asteroids_game_overs_total"))
}

func TestRoundTimerExpires(t *testing.T) {
	tun := emptyTuning()
	tun.Session.RoundTime = time.Second
	g, clk := newTestGame(t, tun)

	clk.run(g, 500*time.Millisecond, 100*time.Millisecond)
	assert.Equal(t, "0:01", g.Snapshot().Timer)
	assert.Equal(t, StatePlaying, g.State())

	clk.run(g, 500*time.Millisecond, 100*time.Millisecond)
	assert.Equal(t, StateGameOver, g.State())
	assert.Equal(t, "Time's up!", g.Snapshot().Dialogue)
	assert.Zero(t, g.Remaining())
	assert.Equal(t, "0:00", g.Snapshot().Timer)
}

func TestPauseFreezesTheWorld(t *testing.T) {
	g, clk := newTestGame(t, emptyTuning())
	ship := g.Ship()
	ship.SetTarget(ship.X+1000, ship.Y, g.Clock())
	clk.run(g, 200*time.Millisecond, frame)

	x, clock, remaining := ship.X, g.Clock(), g.Remaining()
	g.TogglePause()
	assert.True(t, g.Snapshot().Paused)
	clk.run(g, time.Second, frame)

	assert.Equal(t, x, ship.X)
	assert.Equal(t, clock, g.Clock())
	assert.Equal(t, remaining, g.Remaining())

	g.TogglePause()
	assert.Equal(t, StatePlaying, g.State())
	clk.run(g, frame, frame)
	assert.Greater(t, ship.X, x)
}

func TestHoldInCentreRingBrakes(t *testing.T) {
	tun := emptyTuning()
	g, clk := newTestGame(t, tun)
	ship := g.Ship()
	ship.SetTarget(ship.X+1000, ship.Y, g.Clock())
	clk.run(g, time.Second, frame)
	require.InDelta(t, tun.Ship.MaxThrustSpeed, ship.Speed, 1e-9)

	cx, cy := tun.World.ViewWidth/2, tun.World.ViewHeight/2
	g.PointerDown(cx, cy)
	clk.run(g, 500*time.Millisecond, frame)
	assert.False(t, ship.Braking, "brake needs a longer hold")

	clk.run(g, 150*time.Millisecond, frame)
	assert.True(t, ship.Braking)
	assert.Less(t, ship.Speed, tun.Ship.MaxThrustSpeed)

	clk.run(g, tun.Ship.BrakeTime, frame)
	assert.False(t, ship.Braking)
	assert.Zero(t, ship.Speed)

	g.PointerUp()
	clk.run(g, 100*time.Millisecond, frame)
	assert.Zero(t, ship.Speed, "releasing after a brake does not steer")
}

func TestSteeringRelease(t *testing.T) {
	tun := emptyTuning()
	g, _ := newTestGame(t, tun)
	ship := g.Ship()

	cx, cy := tun.World.ViewWidth/2, tun.World.ViewHeight/2
	g.PointerDown(cx, cy)
	g.PointerMove(cx+300, cy)
	g.PointerUp()

	assert.Equal(t, tun.Ship.MaxThrustSpeed, ship.TargetSpeed)
	assert.InDelta(t, 0, ship.MoveAngle, 1e-9)
}

func TestShootingFiresAndProjectilesExpire(t *testing.T) {
	tun := emptyTuning()
	reg, m := newTestMetrics()
	g, clk := newTestGame(t, tun, WithMetrics(m))

	g.PointerDown(tun.World.ViewWidth-60, tun.World.ViewHeight/2)
	clk.run(g, frame, frame)
	require.Len(t, g.Registry().Projectiles(), 1)

	clk.run(g, 200*time.Millisecond, frame)
	assert.Len(t, g.Registry().Projectiles(), 1, "laser is still cooling down")

	g.PointerUp()
	clk.run(g, tun.Weapons.Laser.Lifespan, 50*time.Millisecond)
	assert.Empty(t, g.Registry().Projectiles())
	assert.Equal(t, 1, g.Registry().Len(), "only the ship is left")

	expected := `
# HELP asteroids_shots_fired_total Trigger pulls that passed fire control
# TYPE asteroids_shots_fired_total counter
asteroids_shots_fired_total{weapon="laser"} 1
`
	assert.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "asteroids_shots_fired_total"))
}

func TestMachineGunFiresEveryBarrel(t *testing.T) {
	tun := emptyTuning()
	g, clk := newTestGame(t, tun)
	g.CycleWeapon()
	require.Equal(t, weapon.MachineGun, g.Weapon())

	g.PointerDown(tun.World.ViewWidth-60, tun.World.ViewHeight/2)
	clk.run(g, frame, frame)
	assert.Len(t, g.Registry().Projectiles(), tun.Weapons.MachineGun.Barrels)
}

func TestNothingFiresWhenFull(t *testing.T) {
	tun := emptyTuning()
	tun.World.MaxEntities = 1
	g, clk := newTestGame(t, tun)
	require.True(t, g.Registry().Full())

	g.PointerDown(tun.World.ViewWidth-60, tun.World.ViewHeight/2)
	clk.run(g, 100*time.Millisecond, frame)
	assert.Empty(t, g.Registry().Projectiles())
	assert.Equal(t, 1, g.Registry().Len())
}

func TestCycleWeaponWraps(t *testing.T) {
	g, _ := newTestGame(t, emptyTuning())
	for range 4 {
		g.CycleWeapon()
	}
	assert.Equal(t, weapon.Laser, g.Weapon())
}

func TestResetAfterGameOver(t *testing.T) {
	tun := emptyTuning()
	g, clk := newTestGame(t, tun)
	rng := rand.New(rand.NewPCG(3, 3))
	g.CycleWeapon()

	ship := g.Ship()
	g.Registry().Add(object.NewAsteroid(rng, ship.X+300, ship.Y, 20, tun.Asteroid))
	g.Registry().Add(object.NewLaser(ship.X+290, ship.Y, 0, tun.Weapons.Laser))
	clk.run(g, frame, frame)
	require.Equal(t, 1, g.Score())

	g.Registry().Add(object.NewAsteroid(rng, g.Ship().X, g.Ship().Y, 20, tun.Asteroid))
	clk.run(g, frame, frame)
	require.Equal(t, StateGameOver, g.State())

	g.TogglePause()
	assert.Equal(t, StateGameOver, g.State(), "cannot pause a finished round")

	g.Reset()
	assert.Equal(t, StatePlaying, g.State())
	assert.Zero(t, g.Score())
	assert.Equal(t, weapon.MachineGun, g.Weapon(), "weapon choice survives a reset")
	assert.Equal(t, tun.Session.RoundTime, g.Remaining())
	assert.Equal(t, 1, g.Registry().Len())
	assert.Empty(t, g.Snapshot().Dialogue)
}

func TestSnapshot(t *testing.T) {
	tun := config.Default()
	g, _ := newTestGame(t, tun)

	s := g.Snapshot()
	assert.Equal(t, 1, s.Count(object.KindShip))
	assert.Equal(t, 1, s.Count(object.KindPlanet))
	assert.Equal(t, tun.Asteroid.InitialCount, s.Count(object.KindAsteroid))
	assert.Len(t, s.Dust, tun.Particles.Count)
	assert.Equal(t, g.Ship().X-tun.World.ViewWidth/2, s.CameraX)
	assert.Equal(t, g.Ship().Y-tun.World.ViewHeight/2, s.CameraY)
	assert.Equal(t, "3:00", s.Timer)
	assert.Equal(t, weapon.Laser, s.Weapon)
	assert.True(t, s.Visible(g.Ship().X, g.Ship().Y, g.Ship().Radius))
	assert.False(t, s.Visible(s.CameraX-100, s.CameraY, 10))
}

func TestSnapshotPointerOverAsteroid(t *testing.T) {
	tun := emptyTuning()
	g, _ := newTestGame(t, tun)
	rng := rand.New(rand.NewPCG(3, 3))

	s := g.Snapshot()
	g.Registry().Add(object.NewAsteroid(rng, s.CameraX+100, s.CameraY+100, 20, tun.Asteroid))

	g.PointerMove(105, 95)
	assert.True(t, g.Snapshot().PointerOverAsteroid)

	g.PointerMove(900, 600)
	assert.False(t, g.Snapshot().PointerOverAsteroid)
}

func TestFormatTimer(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{-time.Second, "0:00"},
		{0, "0:00"},
		{500 * time.Millisecond, "0:01"},
		{time.Second, "0:01"},
		{61 * time.Second, "1:01"},
		{3 * time.Minute, "3:00"},
	}
	for _, tt := range tests {
		t.Run(tt.in.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, formatTimer(tt.in))
		})
	}
}

func TestDialogueRestartDelay(t *testing.T) {
	d := Dialogue{delay: 300 * time.Millisecond}
	assert.False(t, d.Visible())
	d.Advance(time.Second)
	assert.False(t, d.RestartVisible(), "hidden dialogue does not count time")

	d.Show("Game Over!")
	d.Advance(299 * time.Millisecond)
	assert.False(t, d.RestartVisible())
	d.Advance(time.Millisecond)
	assert.True(t, d.RestartVisible())

	d.Hide()
	assert.False(t, d.RestartVisible())
}
