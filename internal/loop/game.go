package loop

import (
	"fmt"
	"io"
	"math/rand/v2"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/asteroid-field/internal/config"
	"github.com/tomz197/asteroid-field/internal/metrics"
	"github.com/tomz197/asteroid-field/internal/object"
	"github.com/tomz197/asteroid-field/internal/physics"
	"github.com/tomz197/asteroid-field/internal/weapon"
)

// Game is one independent round of play. It owns every entity and all
// session state and must be driven from a single goroutine.
type Game struct {
	tun     config.Tuning
	world   object.World
	rng     *rand.Rand
	log     *log.Logger
	metrics *metrics.Collector

	registry *Registry
	grid     *physics.SpatialGrid
	fire     *weapon.Control
	weapon   weapon.Kind
	ship     *object.Ship
	planet   *object.Planet
	dust     []*object.Particle

	state    State
	score    int
	clock    time.Duration // Accumulated unpaused time
	lastTick time.Duration
	ticked   bool
	deadline time.Duration // Round ends when clock reaches it
	frozen   time.Duration // Remaining round time once the round is over
	dialogue Dialogue

	camX, camY float64
	pointer    pointer

	reportedEntities int
}

// pointer tracks the single pointer (mouse or touch) in view coordinates.
type pointer struct {
	x, y      float64
	inside    bool // Pointer has reported a position
	down      bool
	steering  bool // Press started inside the centre ring
	shooting  bool // Press started outside the centre ring
	holdStart time.Duration
	braked    bool // Brake already triggered during this press
}

// Option configures a Game.
type Option func(*Game)

// WithRand sets the random source. Tests pass a seeded one.
func WithRand(rng *rand.Rand) Option {
	return func(g *Game) { g.rng = rng }
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(g *Game) { g.log = l }
}

// WithMetrics sets the metrics collector.
func WithMetrics(m *metrics.Collector) Option {
	return func(g *Game) { g.metrics = m }
}

// NewGame validates t and starts a fresh round.
func NewGame(t config.Tuning, opts ...Option) (*Game, error) {
	if err := t.Validate(); err != nil {
		return nil, fmt.Errorf("new game: %w", err)
	}

	g := &Game{
		tun:   t,
		world: object.World{Width: t.World.Width, Height: t.World.Height},
		fire:  weapon.NewControl(t.Weapons),
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.rng == nil {
		g.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if g.log == nil {
		g.log = log.New(io.Discard)
	}

	g.registry = NewRegistry(t.World.MaxEntities)
	g.grid = physics.NewSpatialGrid(t.World.Width, t.World.Height, t.Collision.GridCellSize)
	g.dialogue.delay = t.Session.DialogueDelay

	g.Reset()
	return g, nil
}

// Reset starts a new round: score, timer, ship, registry and asteroid
// population are all rebuilt. The selected weapon is kept.
func (g *Game) Reset() {
	g.registry.Clear()
	g.fire.Reset()
	g.dialogue.Hide()
	g.pointer = pointer{x: g.tun.World.ViewWidth / 2, y: g.tun.World.ViewHeight / 2}
	g.state = StatePlaying
	g.score = 0
	g.deadline = g.clock + g.tun.Session.RoundTime

	cx, cy := g.world.Centre()
	g.ship = object.NewShip(cx, cy, g.tun.Ship)
	g.registry.Add(g.ship)

	g.planet = nil
	if p := g.tun.Planet; p.Enabled {
		g.planet = &object.Planet{X: p.X, Y: p.Y, Radius: p.Radius}
		g.registry.Add(g.planet)
	}

	g.dust = object.SpawnDust(g.rng, g.world, g.tun.Particles)
	g.spawnAsteroids(g.tun.Asteroid.InitialCount)
	g.updateCamera()
	g.reportEntities()

	g.log.Info("round started",
		"asteroids", len(g.registry.Asteroids()),
		"round", g.tun.Session.RoundTime,
	)
}

func (g *Game) spawnAsteroids(n int) {
	for range n {
		a := object.SpawnAsteroid(g.rng, g.world, g.tun.Asteroid, g.ship.X, g.ship.Y)
		if _, ok := g.registry.Add(a); !ok {
			g.log.Debug("population cap reached", "cap", g.registry.Cap())
			return
		}
	}
}

// Tick advances the game to host time now. Time elapsed since the previous
// tick is clamped to MaxFrameDelta so a stalled host does not teleport
// entities. Nothing moves while paused.
func (g *Game) Tick(now time.Duration) {
	delta := time.Duration(0)
	if g.ticked {
		delta = now - g.lastTick
	}
	g.lastTick = now
	g.ticked = true
	delta = min(max(delta, 0), g.tun.Session.MaxFrameDelta)

	switch g.state {
	case StatePaused:
		return
	case StateGameOver:
		g.clock += delta
		g.dialogue.Advance(delta)
		return
	}

	start := time.Now()
	g.clock += delta
	g.update(delta)
	g.metrics.ObserveTick(time.Since(start))
	g.reportEntities()
}

func (g *Game) update(delta time.Duration) {
	ctx := object.UpdateContext{Delta: delta, Now: g.clock, World: g.world}

	g.ship.Contrail.Prune(g.clock)

	for _, p := range g.dust {
		p.Update(ctx)
	}

	g.ship.Update(ctx)
	if g.pointer.shooting {
		ax, ay := g.viewToWorld(g.pointer.x, g.pointer.y)
		g.ship.SetRotation(ax, ay, delta)
		g.tryFire()
	}

	for _, id := range g.registry.Asteroids() {
		if a, ok := g.registry.Asteroid(id); ok {
			a.Update(ctx)
		}
	}
	g.updateExpiring(ctx, g.registry.Projectiles())
	g.updateExpiring(ctx, g.registry.Beams())

	if reason, over := g.resolveCollisions(); over {
		g.gameOver(reason)
		return
	}

	if g.clock >= g.deadline {
		g.gameOver(ReasonTime)
		return
	}

	g.checkBrakeHold()
	g.updateCamera()
}

// updateExpiring updates every entity in ids and removes those whose
// lifespan ran out.
func (g *Game) updateExpiring(ctx object.UpdateContext, ids []ID) {
	var expired []ID
	for _, id := range ids {
		obj, ok := g.registry.Get(id)
		if !ok {
			continue
		}
		if obj.Update(ctx) {
			expired = append(expired, id)
		}
	}
	for _, id := range expired {
		g.registry.Remove(id)
	}
}

func (g *Game) tryFire() {
	if !g.fire.TryFire(g.weapon, g.clock, g.registry.Full()) {
		return
	}
	g.metrics.ShotFired(g.weapon.String())

	nx, ny := g.ship.Nose()
	for _, shot := range weapon.Shots(g.weapon, nx, ny, g.ship.Angle, g.tun.Weapons) {
		if _, ok := g.registry.Add(shot); !ok {
			g.log.Debug("shot dropped, population cap reached", "weapon", g.weapon)
		}
	}
}

// checkBrakeHold brakes the ship once per press when the pointer is held
// inside the centre ring for the brake hold time.
func (g *Game) checkBrakeHold() {
	p := &g.pointer
	if !p.down || !p.steering || p.braked {
		return
	}
	if !g.inCentreRing(p.x, p.y) {
		return
	}
	if g.clock-p.holdStart >= g.tun.Session.BrakeHold {
		g.ship.Brake(g.clock)
		p.braked = true
	}
}

func (g *Game) gameOver(reason string) {
	g.state = StateGameOver
	g.frozen = max(g.deadline-g.clock, 0)
	g.registry.Clear()
	g.pointer.down = false
	g.pointer.shooting = false
	g.pointer.steering = false
	g.dialogue.Show(gameOverText[reason])
	g.metrics.GameOver(reason)
	g.reportEntities()

	g.log.Info("game over", "reason", reason, "score", g.score)
}

// PointerDown handles a press at view coordinates (sx,sy). A press inside
// the centre ring starts steering; anywhere else it starts shooting at the
// pointer.
func (g *Game) PointerDown(sx, sy float64) {
	if g.state != StatePlaying {
		return
	}
	g.movePointer(sx, sy)
	p := &g.pointer
	p.down = true
	p.braked = false
	if g.inCentreRing(p.x, p.y) {
		p.steering = true
		p.shooting = false
		p.holdStart = g.clock
		return
	}
	p.steering = false
	p.shooting = true
}

// PointerMove tracks the pointer. While shooting the ship keeps turning
// towards it.
func (g *Game) PointerMove(sx, sy float64) {
	g.movePointer(sx, sy)
}

// PointerUp ends a press. Releasing a steering drag sets the ship's
// course towards the release point unless the press braked the ship.
func (g *Game) PointerUp() {
	p := &g.pointer
	if g.state == StatePlaying && p.down && p.steering && !p.braked && !g.ship.Braking {
		tx, ty := g.viewToWorld(p.x, p.y)
		g.ship.SetTarget(tx, ty, g.clock)
	}
	p.down = false
	p.steering = false
	p.shooting = false
}

func (g *Game) movePointer(sx, sy float64) {
	g.pointer.x = physics.Clamp(sx, 0, g.tun.World.ViewWidth)
	g.pointer.y = physics.Clamp(sy, 0, g.tun.World.ViewHeight)
	g.pointer.inside = true
}

// TogglePause flips between playing and paused. It does nothing once the
// round is over.
func (g *Game) TogglePause() {
	switch g.state {
	case StatePlaying:
		g.state = StatePaused
	case StatePaused:
		g.state = StatePlaying
	}
}

// CycleWeapon selects the next weapon.
func (g *Game) CycleWeapon() {
	g.weapon = g.weapon.Next()
}

// Weapon returns the selected weapon.
func (g *Game) Weapon() weapon.Kind { return g.weapon }

// State returns the session phase.
func (g *Game) State() State { return g.state }

// Score returns the number of asteroids hit this round.
func (g *Game) Score() int { return g.score }

// Clock returns the accumulated unpaused game time.
func (g *Game) Clock() time.Duration { return g.clock }

// Remaining returns the time left in the round.
func (g *Game) Remaining() time.Duration {
	if g.state == StateGameOver {
		return g.frozen
	}
	return max(g.deadline-g.clock, 0)
}

// RestartVisible reports whether the end-of-round restart prompt is shown.
func (g *Game) RestartVisible() bool {
	return g.state == StateGameOver && g.dialogue.RestartVisible()
}

// Ship returns the player's ship. After game over it is no longer part of
// the world but keeps its final state.
func (g *Game) Ship() *object.Ship { return g.ship }

// Registry returns the live entity registry.
func (g *Game) Registry() *Registry { return g.registry }

// Close releases the game's share of the metrics.
func (g *Game) Close() {
	g.metrics.AddEntities(-g.reportedEntities)
	g.reportedEntities = 0
}

func (g *Game) reportEntities() {
	n := g.registry.Len()
	g.metrics.AddEntities(n - g.reportedEntities)
	g.reportedEntities = n
}

func (g *Game) updateCamera() {
	g.camX = g.ship.X - g.tun.World.ViewWidth/2
	g.camY = g.ship.Y - g.tun.World.ViewHeight/2
}

func (g *Game) viewToWorld(sx, sy float64) (float64, float64) {
	return g.camX + sx, g.camY + sy
}

func (g *Game) inCentreRing(sx, sy float64) bool {
	return physics.PointInCircle(sx, sy,
		g.tun.World.ViewWidth/2, g.tun.World.ViewHeight/2,
		g.tun.Session.CentreRingRadius)
}
