package vector

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

//Particle vectors. Positions travel as (x, y, z, flag) quads so one array
//carries both the coordinate and the particle kind; velocities use the same
//quad layout with an unused w.
type Vec3 = mgl64.Vec3
type Vec4 = mgl64.Vec4

//Particle kind flags stored in the w component of a position
const (
	FLUID    = 0.0
	BOUNDARY = 1.0
)

//Pack - builds a position quad from a coordinate and a particle flag
func Pack(p Vec3, flag float64) Vec4 {
	return p.Vec4(flag)
}

//Flag - particle kind stored in w
func Flag(p Vec4) float64 {
	return p[3]
}

//IsFluid - flag 0 is fluid, anything else is a fixed wall particle
func IsFluid(p Vec4) bool {
	return Flag(p) == FLUID
}

//Delta - a - b over the spatial components only
func Delta(a Vec4, b Vec4) Vec3 {
	return Vec3{a[0] - b[0], a[1] - b[1], a[2] - b[2]}
}

//DistSqr - squared spatial distance between two quads
func DistSqr(a Vec4, b Vec4) float64 {
	return Delta(a, b).LenSqr()
}

//AddScaled - returns v + s*d on the spatial components, w is preserved
func AddScaled(v Vec4, d Vec3, s float64) Vec4 {
	v[0] += d[0] * s
	v[1] += d[1] * s
	v[2] += d[2] * s
	return v
}

//IsFinite - false if any component is NaN or Inf
func IsFinite(v Vec4) bool {
	for i := 0; i < 4; i++ {
		if math.IsNaN(v[i]) || math.IsInf(v[i], 0) {
			return false
		}
	}
	return true
}

//IsFinite3 - spatial variant of IsFinite
func IsFinite3(v Vec3) bool {
	return IsFinite(v.Vec4(0))
}

//Equals - bitwise equality, used for boundary invariance checks
func Equals(a Vec4, b Vec4) bool {
	return a[0] == b[0] && a[1] == b[1] && a[2] == b[2] && a[3] == b[3]
}

func String(v Vec4) string {
	return fmt.Sprintf("[ %g, %g, %g | %g]", v[0], v[1], v[2], v[3])
}
