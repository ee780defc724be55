package physics

import "math"

// Body is a moving circle with mass.
type Body struct {
	X, Y   float64 // Centre
	VX, VY float64 // Velocity (units/sec)
	Radius float64
	Mass   float64
}

// Circle returns the body's collision extent.
func (b *Body) Circle() Circle {
	return Circle{X: b.X, Y: b.Y, Radius: b.Radius}
}

// ResolveElasticCollision applies an impulse along the collision normal to two
// overlapping bodies with the given restitution, then pushes them apart so
// they no longer overlap. The lighter body moves further.
// Returns false when nothing was resolved (coincident centres, zero mass or
// bodies already separating).
func ResolveElasticCollision(a, b *Body, restitution float64) bool {
	dist := Distance(a.X, a.Y, b.X, b.Y)
	if dist == 0 || a.Mass <= 0 || b.Mass <= 0 {
		return false
	}

	// Collision normal (from a to b)
	nx := (b.X - a.X) / dist
	ny := (b.Y - a.Y) / dist

	// Relative velocity of b with respect to a, along the normal
	vn := (b.VX-a.VX)*nx + (b.VY-a.VY)*ny
	if vn >= 0 {
		return false
	}

	invA := 1 / a.Mass
	invB := 1 / b.Mass
	j := -(1 + restitution) * vn / (invA + invB)

	a.VX -= j * invA * nx
	a.VY -= j * invA * ny
	b.VX += j * invB * nx
	b.VY += j * invB * ny

	overlap := a.Radius + b.Radius - dist
	if overlap > 0 {
		total := a.Mass + b.Mass
		sepA := overlap * b.Mass / total
		sepB := overlap * a.Mass / total
		a.X -= nx * sepA
		a.Y -= ny * sepA
		b.X += nx * sepB
		b.Y += ny * sepB
	}
	return true
}

// MomentumBlend returns the mass-weighted average velocity (m1v1+m2v2)/(m1+m2).
func MomentumBlend(m1, vx1, vy1, m2, vx2, vy2 float64) (vx, vy float64) {
	total := m1 + m2
	if total <= 0 {
		return 0, 0
	}
	return (m1*vx1 + m2*vx2) / total, (m1*vy1 + m2*vy2) / total
}

// SegmentPointDistance returns the distance from (px,py) to the segment
// (x1,y1)-(x2,y2) using a projection clamped onto the segment.
func SegmentPointDistance(x1, y1, x2, y2, px, py float64) float64 {
	dx := x2 - x1
	dy := y2 - y1
	lenSq := dx*dx + dy*dy
	if lenSq == 0 {
		return Distance(x1, y1, px, py)
	}
	t := Clamp(((px-x1)*dx+(py-y1)*dy)/lenSq, 0, 1)
	return math.Hypot(px-(x1+t*dx), py-(y1+t*dy))
}

// SegmentCircleOverlap reports whether a thick segment of the given half-width
// overlaps circle c.
func SegmentCircleOverlap(x1, y1, x2, y2, halfWidth float64, c Circle) bool {
	return SegmentPointDistance(x1, y1, x2, y2, c.X, c.Y) < c.Radius+halfWidth
}
