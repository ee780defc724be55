// Package physics provides collision detection, motion integration and
// impulse-based collision response.
package physics

import "math"

// TwoPi is a full turn in radians.
const TwoPi = 2 * math.Pi

// Circle is a collision extent: centre and radius.
type Circle struct {
	X, Y   float64
	Radius float64
}

// Overlaps reports whether two circles overlap (touching does not count).
func (c Circle) Overlaps(o Circle) bool {
	return CirclesOverlap(c.X, c.Y, c.Radius, o.X, o.Y, o.Radius)
}

// Contains reports whether the point lies inside or on the circle.
func (c Circle) Contains(x, y float64) bool {
	return PointInCircle(x, y, c.X, c.Y, c.Radius)
}

// Distance calculates the Euclidean distance between two points.
func Distance(x1, y1, x2, y2 float64) float64 {
	dx := x2 - x1
	dy := y2 - y1
	return math.Sqrt(dx*dx + dy*dy)
}

// DistanceSquared calculates the squared distance between two points.
// Use this when comparing distances to avoid the sqrt cost.
func DistanceSquared(x1, y1, x2, y2 float64) float64 {
	dx := x2 - x1
	dy := y2 - y1
	return dx*dx + dy*dy
}

// PointInCircle checks if a point is within radius of a target position.
func PointInCircle(px, py, cx, cy, radius float64) bool {
	return DistanceSquared(px, py, cx, cy) <= radius*radius
}

// CirclesOverlap checks if two circles overlap.
func CirclesOverlap(x1, y1, r1, x2, y2, r2 float64) bool {
	minDist := r1 + r2
	return DistanceSquared(x1, y1, x2, y2) < minDist*minDist
}

// CircleMass returns the area-based mass π·r².
func CircleMass(radius float64) float64 {
	return math.Pi * radius * radius
}

// NormalizeAngle wraps an angle in radians into [0, 2π).
func NormalizeAngle(a float64) float64 {
	a = math.Mod(a, TwoPi)
	if a < 0 {
		a += TwoPi
	}
	// math.Mod can return exactly 2π after the correction for tiny negatives
	if a >= TwoPi {
		a = 0
	}
	return a
}

// AngleTo returns the heading from (x1,y1) towards (x2,y2), normalized into [0, 2π).
func AngleTo(x1, y1, x2, y2 float64) float64 {
	return NormalizeAngle(math.Atan2(y2-y1, x2-x1))
}

// RotateToward turns current towards target by at most maxStep radians,
// taking the shorter way around. The result is normalized.
func RotateToward(current, target, maxStep float64) float64 {
	diff := math.Remainder(target-current, TwoPi)
	if maxStep < 0 {
		maxStep = 0
	}
	if math.Abs(diff) <= maxStep {
		return NormalizeAngle(target)
	}
	return NormalizeAngle(current + math.Copysign(maxStep, diff))
}

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Radians converts degrees to radians.
func Radians(deg float64) float64 {
	return deg * math.Pi / 180
}

// Degrees converts radians to degrees.
func Degrees(rad float64) float64 {
	return rad * 180 / math.Pi
}
