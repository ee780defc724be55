// Package weapon implements fire control: per-weapon cooldowns and the
// shots each weapon produces when its trigger is pulled.
package weapon

import (
	"time"

	"github.com/tomz197/asteroid-field/internal/config"
	"github.com/tomz197/asteroid-field/internal/object"
)

// Kind selects the active weapon.
type Kind int

const (
	Laser Kind = iota
	MachineGun
	Missile
	Beam
	kindCount
)

var kindNames = [kindCount]string{
	Laser:      "laser",
	MachineGun: "machine gun",
	Missile:    "missile",
	Beam:       "beam",
}

func (k Kind) String() string {
	if k >= 0 && k < kindCount {
		return kindNames[k]
	}
	return "unknown"
}

// Next returns the weapon after k, wrapping back to the first.
func (k Kind) Next() Kind {
	return (k + 1) % kindCount
}

// Control gates each weapon kind by its fire interval. A kind that never
// fired is ready.
type Control struct {
	interval [kindCount]time.Duration
	last     [kindCount]time.Duration
	fired    [kindCount]bool
}

// NewControl creates a fire control with the intervals from cfg.
func NewControl(cfg config.Weapons) *Control {
	c := &Control{}
	c.interval[Laser] = cfg.Laser.Interval
	c.interval[MachineGun] = cfg.MachineGun.Interval
	c.interval[Missile] = cfg.Missile.Interval
	c.interval[Beam] = cfg.Beam.Interval
	return c
}

// Interval returns the minimum time between two shots of kind k.
func (c *Control) Interval(k Kind) time.Duration {
	return c.interval[k]
}

// Ready reports whether kind k could fire at now, ignoring the population.
func (c *Control) Ready(k Kind, now time.Duration) bool {
	return !c.fired[k] || now-c.last[k] >= c.interval[k]
}

// TryFire reports whether kind k may fire at now. Nothing fires while the
// population is full. A permitted shot starts the kind's cooldown.
func (c *Control) TryFire(k Kind, now time.Duration, full bool) bool {
	if k < 0 || k >= kindCount || full || !c.Ready(k, now) {
		return false
	}
	c.last[k] = now
	c.fired[k] = true
	return true
}

// Reset makes every weapon ready again.
func (c *Control) Reset() {
	c.last = [kindCount]time.Duration{}
	c.fired = [kindCount]bool{}
}

// Shots builds what kind k emits from (x,y) along angle. The caller adds
// them to the world; the population cap applies to each one.
func Shots(k Kind, x, y, angle float64, cfg config.Weapons) []object.Object {
	switch k {
	case Laser:
		return []object.Object{object.NewLaser(x, y, angle, cfg.Laser)}
	case MachineGun:
		mg := cfg.MachineGun
		group := SpawnOffsetGroup(object.NewBullet(x, y, angle, mg.Projectile), mg.Barrels, mg.Spacing, mg.Spread)
		shots := make([]object.Object, len(group))
		for i, p := range group {
			shots[i] = p
		}
		return shots
	case Missile:
		return []object.Object{object.NewMissile(x, y, angle, cfg.Missile)}
	case Beam:
		return []object.Object{object.NewBeam(x, y, angle, cfg.Beam)}
	default:
		return nil
	}
}
