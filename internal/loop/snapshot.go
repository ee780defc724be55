package loop

import (
	"slices"

	"github.com/tomz197/asteroid-field/internal/object"
	"github.com/tomz197/asteroid-field/internal/weapon"
)

// EntityView is a read-only copy of one entity for rendering. Fields that
// do not apply to the entity's kind are zero.
type EntityView struct {
	ID     ID
	Kind   object.Kind
	X, Y   float64
	Radius float64
	Angle  float64 // Facing, rotation or heading

	// Asteroid. Outline is shared with the entity and must not be modified.
	Outline                    []object.Vertex
	Hue, Saturation, Lightness float64

	// Beam far end.
	EndX, EndY float64

	// Ship
	Contrail []object.TrailPoint
	Braking  bool
}

// DustView is one background particle.
type DustView struct {
	X, Y, Radius float64
}

// Snapshot is everything a renderer needs to draw one frame. Coordinates
// are world space; subtract the camera to get view space.
type Snapshot struct {
	Entities []EntityView
	Dust     []DustView

	CameraX, CameraY        float64
	ViewWidth, ViewHeight   float64
	WorldWidth, WorldHeight float64
	CentreRingRadius        float64

	Score          int
	State          State
	Paused         bool
	GameOver       bool
	Weapon         weapon.Kind
	Dialogue       string
	RestartVisible bool
	Timer          string

	// Pointer in view coordinates.
	PointerX, PointerY  float64
	PointerDown         bool
	PointerOverAsteroid bool
}

// Snapshot captures the current frame.
func (g *Game) Snapshot() Snapshot {
	s := Snapshot{
		Entities:         make([]EntityView, 0, g.registry.Len()),
		Dust:             make([]DustView, len(g.dust)),
		CameraX:          g.camX,
		CameraY:          g.camY,
		ViewWidth:        g.tun.World.ViewWidth,
		ViewHeight:       g.tun.World.ViewHeight,
		WorldWidth:       g.tun.World.Width,
		WorldHeight:      g.tun.World.Height,
		CentreRingRadius: g.tun.Session.CentreRingRadius,
		Score:            g.score,
		State:            g.state,
		Paused:           g.state == StatePaused,
		GameOver:         g.state == StateGameOver,
		Weapon:           g.weapon,
		Dialogue:         g.dialogue.Text,
		RestartVisible:   g.RestartVisible(),
		Timer:            formatTimer(g.Remaining()),
		PointerX:         g.pointer.x,
		PointerY:         g.pointer.y,
		PointerDown:      g.pointer.down,
	}

	for i, p := range g.dust {
		s.Dust[i] = DustView{X: p.X, Y: p.Y, Radius: p.Radius}
	}

	px, py := g.viewToWorld(g.pointer.x, g.pointer.y)
	g.registry.Each(func(id ID, obj object.Object) {
		b := obj.Bounds()
		v := EntityView{ID: id, Kind: obj.Kind(), X: b.X, Y: b.Y, Radius: b.Radius}

		switch o := obj.(type) {
		case *object.Ship:
			v.Angle = o.Angle
			v.Contrail = slices.Clone(o.Contrail.Points)
			v.Braking = o.Braking
		case *object.Asteroid:
			v.Angle = o.Angle
			v.Outline = o.Outline
			v.Hue, v.Saturation, v.Lightness = o.Hue, o.Saturation, o.Lightness
			if g.pointer.inside && b.Contains(px, py) {
				s.PointerOverAsteroid = true
			}
		case *object.Projectile:
			v.Angle = o.Angle
		case *object.Beam:
			v.X, v.Y = o.X, o.Y
			v.Radius = o.Radius
			v.Angle = o.Angle
			v.EndX, v.EndY = o.End()
		}
		s.Entities = append(s.Entities, v)
	})
	return s
}

// ToView converts world coordinates to view coordinates.
func (s *Snapshot) ToView(x, y float64) (float64, float64) {
	return x - s.CameraX, y - s.CameraY
}

// Visible reports whether a circle at world (x,y) with radius r intersects
// the view.
func (s *Snapshot) Visible(x, y, r float64) bool {
	vx, vy := s.ToView(x, y)
	return vx+r >= 0 && vx-r <= s.ViewWidth && vy+r >= 0 && vy-r <= s.ViewHeight
}

// Count returns how many entities of kind k the snapshot holds.
func (s *Snapshot) Count(k object.Kind) int {
	n := 0
	for _, e := range s.Entities {
		if e.Kind == k {
			n++
		}
	}
	return n
}
