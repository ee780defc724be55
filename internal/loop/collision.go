package loop

import (
	"slices"

	"github.com/tomz197/asteroid-field/internal/object"
	"github.com/tomz197/asteroid-field/internal/physics"
)

// resolveCollisions runs every collision check for one tick. It reports
// whether the ship was destroyed and by what; a ship hit skips the
// remaining checks.
func (g *Game) resolveCollisions() (reason string, over bool) {
	g.checkProjectileAsteroidCollisions()
	g.checkBeamAsteroidCollisions()
	if reason, over := g.checkShipCollisions(); over {
		return reason, true
	}
	g.checkAsteroidAsteroidCollisions()
	return "", false
}

// checkProjectileAsteroidCollisions lets the first overlapping projectile
// destroy each asteroid. Fragments inherit the momentum of the pair.
func (g *Game) checkProjectileAsteroidCollisions() {
	asteroids := slices.Clone(g.registry.Asteroids())
	for i := len(asteroids) - 1; i >= 0; i-- {
		aid := asteroids[i]
		a, ok := g.registry.Asteroid(aid)
		if !ok {
			continue
		}
		for _, pid := range g.registry.Projectiles() {
			p, ok := g.registry.Projectile(pid)
			if !ok || !a.Bounds().Overlaps(p.Bounds()) {
				continue
			}
			pvx, pvy := p.Velocity()
			vx, vy := physics.MomentumBlend(a.Mass, a.VX, a.VY, p.Mass(), pvx, pvy)
			g.destroyAsteroid(aid, a, vx, vy, "projectile")
			g.registry.Remove(pid)
			break
		}
	}
}

// checkBeamAsteroidCollisions destroys every asteroid a beam touches.
// Beams are not consumed and fragments keep the parent's velocity.
func (g *Game) checkBeamAsteroidCollisions() {
	beams := g.registry.Beams()
	if len(beams) == 0 {
		return
	}
	asteroids := slices.Clone(g.registry.Asteroids())
	for _, bid := range beams {
		b, ok := g.registry.Beam(bid)
		if !ok {
			continue
		}
		for _, aid := range asteroids {
			a, ok := g.registry.Asteroid(aid)
			if !ok || !b.Hits(a.Bounds()) {
				continue
			}
			g.destroyAsteroid(aid, a, a.VX, a.VY, "beam")
		}
	}
}

// destroyAsteroid scores a hit and replaces the asteroid with its
// fragments, which fly off at (vx,vy) plus a random kick.
func (g *Game) destroyAsteroid(id ID, a *object.Asteroid, vx, vy float64, cause string) {
	g.score++
	g.metrics.AsteroidDestroyed(cause)

	children := a.Split(g.rng, g.tun.Asteroid, g.registry.Full())
	g.registry.Remove(id)

	jitter := g.tun.Collision.SplitJitter
	for _, c := range children {
		c.VX = vx + (g.rng.Float64()-0.5)*jitter
		c.VY = vy + (g.rng.Float64()-0.5)*jitter
		if _, ok := g.registry.Add(c); !ok {
			g.log.Debug("fragment dropped, population cap reached")
		}
	}
}

// checkShipCollisions reports the first asteroid or the planet touching
// the ship.
func (g *Game) checkShipCollisions() (reason string, over bool) {
	ship := g.ship.Bounds()
	for _, id := range g.registry.Asteroids() {
		if a, ok := g.registry.Asteroid(id); ok && ship.Overlaps(a.Bounds()) {
			return ReasonAsteroid, true
		}
	}
	if g.planet != nil && ship.Overlaps(g.planet.Bounds()) {
		return ReasonPlanet, true
	}
	return "", false
}

// checkAsteroidAsteroidCollisions bounces overlapping asteroids off each
// other, using the spatial grid to limit checks to nearby pairs.
func (g *Game) checkAsteroidAsteroidCollisions() {
	ids := g.registry.Asteroids()
	asteroids := make([]*object.Asteroid, 0, len(ids))
	for _, id := range ids {
		if a, ok := g.registry.Asteroid(id); ok {
			asteroids = append(asteroids, a)
		}
	}

	g.grid.Clear()
	for i, a := range asteroids {
		g.grid.Insert(a.X, a.Y, i)
	}

	restitution := g.tun.Collision.Restitution
	for i, a1 := range asteroids {
		g.grid.QueryAround(a1.X, a1.Y, func(j int) bool {
			if j <= i {
				return false // Skip self and already-checked pairs
			}
			a2 := asteroids[j]
			if a1.Bounds().Overlaps(a2.Bounds()) {
				physics.ResolveElasticCollision(&a1.Body, &a2.Body, restitution)
			}
			return false
		})
	}
}
