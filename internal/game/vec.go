package game

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/jakecoffman/cp"
)

// The world is Y-up; everything that moves lives on the X/Z ground plane.

// Vec3 is shorthand for a world-space point or direction.
type Vec3 = mgl64.Vec3

// V3 builds a ground-level point from plane coordinates.
func V3(x, z float64) Vec3 { return Vec3{x, 0, z} }

// flat projects a world point onto the collision plane.
func flat(v Vec3) cp.Vector { return cp.Vector{X: v.X(), Y: v.Z()} }

// unflat lifts a collision-plane point back into the world at height y.
func unflat(p cp.Vector, y float64) Vec3 { return Vec3{p.X, y, p.Y} }

// dirTo returns the unit vector from a to b. ok is false when the points
// coincide and there is no meaningful direction.
func dirTo(a, b Vec3) (Vec3, bool) {
	d := b.Sub(a)
	l := d.Len()
	if l < 1e-9 {
		return Vec3{}, false
	}
	return d.Mul(1 / l), true
}

// cosDeg converts a configured angle in degrees to the cosine used for dot
// product comparisons.
func cosDeg(deg float64) float64 {
	return math.Cos(mgl64.DegToRad(deg))
}

// planeDist is the Euclidean distance between two points ignoring height.
func planeDist(a, b Vec3) float64 {
	dx := a.X() - b.X()
	dz := a.Z() - b.Z()
	return math.Sqrt(dx*dx + dz*dz)
}

// ForwardFromHeading converts a plane heading (radians, 0 = +X, pi/2 = +Z)
// into a unit forward vector.
func ForwardFromHeading(h float64) Vec3 {
	return Vec3{math.Cos(h), 0, math.Sin(h)}
}

// HeadingTo returns the plane heading in radians from a toward b.
func HeadingTo(a, b Vec3) float64 {
	return math.Atan2(b.Z()-a.Z(), b.X()-a.X())
}

// normalizeAngle wraps an angle to [-pi, pi].
func normalizeAngle(a float64) float64 {
	for a > math.Pi {
		a -= 2 * math.Pi
	}
	for a < -math.Pi {
		a += 2 * math.Pi
	}
	return a
}

// turnToward steps heading toward target by at most rate radians.
func turnToward(heading, target, rate float64) float64 {
	diff := normalizeAngle(target - heading)
	if math.Abs(diff) <= rate {
		return target
	}
	if diff > 0 {
		return normalizeAngle(heading + rate)
	}
	return normalizeAngle(heading - rate)
}

// isoRotation turns screen-space input by 45 degrees so "up" runs along the
// arena diagonal, matching an isometric camera.
var isoRotation = mgl64.Rotate3DY(mgl64.DegToRad(45))

// ToIso maps a plane input vector (x right, z up) into world space.
func ToIso(in Vec3) Vec3 {
	return isoRotation.Mul3x1(in)
}
