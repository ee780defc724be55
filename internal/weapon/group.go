package weapon

import (
	"math"

	"github.com/tomz197/asteroid-field/internal/object"
	"github.com/tomz197/asteroid-field/internal/physics"
)

// SpawnOffsetGroup copies template count times side by side. Copy i is
// shifted perpendicular to the heading by spacing*(i-(count-1)/2) and the
// headings fan out over spreadDeg degrees, centred on the template's.
func SpawnOffsetGroup(template *object.Projectile, count int, spacing, spreadDeg float64) []*object.Projectile {
	if count <= 0 {
		return nil
	}

	perp := template.Angle + math.Pi/2
	px, py := math.Cos(perp), math.Sin(perp)
	mid := float64(count-1) / 2
	spread := physics.Radians(spreadDeg)

	group := make([]*object.Projectile, count)
	for i := range group {
		p := template.Clone()
		offset := spacing * (float64(i) - mid)
		p.X += px * offset
		p.Y += py * offset
		if count > 1 {
			p.Angle = physics.NormalizeAngle(template.Angle + spread*(float64(i)/float64(count-1)-0.5))
		}
		group[i] = p
	}
	return group
}
