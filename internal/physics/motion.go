package physics

import "math"

// SpeedSnapEpsilon is how close an eased speed must get to its target
// before it snaps onto it.
const SpeedSnapEpsilon = 0.1

// IntegratePosition advances a point along heading angle (radians) at speed
// units per second for dt seconds.
func IntegratePosition(x, y, angle, speed, dt float64) (float64, float64) {
	return x + math.Cos(angle)*speed*dt, y + math.Sin(angle)*speed*dt
}

// EaseInOutExpo is the exponential ease-in-out curve over t in [0,1].
func EaseInOutExpo(t float64) float64 {
	switch {
	case t <= 0:
		return 0
	case t >= 1:
		return 1
	case t < 0.5:
		return math.Pow(2, 20*t-10) / 2
	default:
		return (2 - math.Pow(2, -20*t+10)) / 2
	}
}

// EaseSpeed interpolates from a starting speed to a target speed along
// EaseInOutExpo at the given progress (0..1), snapping onto the target
// once within SpeedSnapEpsilon.
func EaseSpeed(from, target, progress float64) float64 {
	s := from + (target-from)*EaseInOutExpo(progress)
	if math.Abs(target-s) < SpeedSnapEpsilon {
		return target
	}
	return s
}

// ComposeVelocities adds two velocity vectors given as speed and direction in
// degrees, weighting the first vector by weight1. It returns the resultant
// speed and its direction in degrees normalized into [0, 360).
func ComposeVelocities(speed1, dir1, speed2, dir2, weight1 float64) (speed, dir float64) {
	r1 := Radians(dir1)
	r2 := Radians(dir2)

	vx := speed1*weight1*math.Cos(r1) + speed2*math.Cos(r2)
	vy := speed1*weight1*math.Sin(r1) + speed2*math.Sin(r2)

	speed = math.Hypot(vx, vy)
	if speed < 1e-9 {
		return 0, math.Mod(dir2+360, 360)
	}
	return speed, Degrees(NormalizeAngle(math.Atan2(vy, vx)))
}

// Ramp multiplies a positive value by growth once per whole step elapsed,
// capped at max. Values <= 0 are returned unchanged.
func Ramp(initial, growth, max float64, steps int) float64 {
	if initial <= 0 {
		return initial
	}
	return math.Min(initial*math.Pow(growth, float64(steps)), max)
}
