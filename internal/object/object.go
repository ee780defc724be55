// Package object defines the game entities: the ship, asteroids, projectiles,
// beams, the planet and decorative dust.
package object

import (
	"math"
	"time"

	"github.com/tomz197/asteroid-field/internal/physics"
)

// Kind tags every entity variant. The set is closed; callers dispatch on it
// or with a type switch.
type Kind int

const (
	KindShip Kind = iota
	KindAsteroid
	KindLaser
	KindBullet
	KindMissile
	KindBeam
	KindPlanet
	KindParticle
)

var kindNames = [...]string{
	KindShip:     "ship",
	KindAsteroid: "asteroid",
	KindLaser:    "laser",
	KindBullet:   "bullet",
	KindMissile:  "missile",
	KindBeam:     "beam",
	KindPlanet:   "planet",
	KindParticle: "particle",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// IsProjectile reports whether k is one of the moving shot variants.
func (k Kind) IsProjectile() bool {
	return k == KindLaser || k == KindBullet || k == KindMissile
}

// UpdateContext provides all the information an object needs during update.
type UpdateContext struct {
	Delta time.Duration // Time since the previous tick
	Now   time.Duration // Game clock (accumulated unpaused time)
	World World
}

// Object is an updatable game entity.
type Object interface {
	Kind() Kind

	// Update advances the object by ctx.Delta. Returns true if the object
	// should be removed.
	Update(ctx UpdateContext) (remove bool)

	// Bounds is the collision extent in world coordinates.
	Bounds() physics.Circle
}

// World is the rectangular playfield, spanning [0,Width] x [0,Height].
type World struct {
	Width  float64
	Height float64
}

// WrapPosition wraps x and y coordinates around the world boundaries.
func (w World) WrapPosition(x, y *float64) {
	if w.Width > 0 {
		*x = math.Mod(*x, w.Width)
		if *x < 0 {
			*x += w.Width
		}
	}
	if w.Height > 0 {
		*y = math.Mod(*y, w.Height)
		if *y < 0 {
			*y += w.Height
		}
	}
}

// ClampPosition pulls x and y back inside the world.
func (w World) ClampPosition(x, y *float64) {
	*x = physics.Clamp(*x, 0, w.Width)
	*y = physics.Clamp(*y, 0, w.Height)
}

// Contains reports whether the point lies inside the world.
func (w World) Contains(x, y float64) bool {
	return x >= 0 && x <= w.Width && y >= 0 && y <= w.Height
}

// Centre returns the middle of the world.
func (w World) Centre() (float64, float64) {
	return w.Width / 2, w.Height / 2
}
