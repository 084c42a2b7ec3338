package game

import "math"

// Vec2 is a 2D point or vector. Screen space is pixels with y growing
// downward; field space is meters with the origin at the centre spot.
type Vec2 struct {
	X, Y float64
}

// NormalizeAngle maps any angle onto [0, 2π).
func NormalizeAngle(a float64) float64 {
	a = math.Mod(a, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	return a
}

// AngleInRange reports whether angle lies inside [min, max], all normalized
// to [0, 2π). When min > max the range wraps past 2π and containment is
// angle >= min OR angle <= max. Bounds are inclusive on both sides.
func AngleInRange(angle, min, max float64) bool {
	angle = NormalizeAngle(angle)
	min = NormalizeAngle(min)
	max = NormalizeAngle(max)
	if min <= max {
		return angle >= min && angle <= max
	}
	return angle >= min || angle <= max
}

// Polar returns the angle and distance of p relative to origin. A zero-length
// vector yields (0, 0) so degenerate input lands in the dead zone.
func Polar(origin, p Vec2) (angle, dist float64) {
	dx := p.X - origin.X
	dy := p.Y - origin.Y
	dist = math.Hypot(dx, dy)
	if dist == 0 {
		return 0, 0
	}
	return NormalizeAngle(math.Atan2(dy, dx)), dist
}

// Dist is the Euclidean distance between a and b.
func Dist(a, b Vec2) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

// Lerp interpolates from a to b by t.
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// LerpVec interpolates from a to b by t, componentwise.
func LerpVec(a, b Vec2, t float64) Vec2 {
	return Vec2{X: Lerp(a.X, b.X, t), Y: Lerp(a.Y, b.Y, t)}
}
