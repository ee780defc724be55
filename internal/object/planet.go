package object

import "github.com/tomz197/asteroid-field/internal/physics"

// Planet is a static obstacle. Flying into it ends the game.
type Planet struct {
	X, Y   float64
	Radius float64
}

func (p *Planet) Kind() Kind { return KindPlanet }

func (p *Planet) Bounds() physics.Circle {
	return physics.Circle{X: p.X, Y: p.Y, Radius: p.Radius}
}

func (p *Planet) Update(UpdateContext) bool { return false }
