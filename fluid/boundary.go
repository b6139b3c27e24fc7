package fluid

import (
	"math"

	V "github.com/hoopoe/cmag/vector"
)

//Wall particles push fluid particles back with a Lennard-Jones style penalty
//(Monaghan 1994). The force only acts on the fluid side, walls never move.

const (
	BOUNDARY_P1    = 12
	BOUNDARY_P2    = 4
	BOUNDARY_FLOOR = 1e-3 //minimum separation as a fraction of r0
)

//BoundaryForce - penalty force on a fluid particle of density rho at offset
//d = xi - xj from a wall particle, r0 the cut-off distance and strength the
//coefficient D. Zero beyond r0.
func BoundaryForce(d V.Vec3, r0 float64, strength float64, rho float64) V.Vec3 {
	r := d.Len()
	if r >= r0 || r0 <= 0 {
		return V.Vec3{}
	}
	if r < BOUNDARY_FLOOR*r0 {
		r = BOUNDARY_FLOOR * r0
	}
	q := r0 / r
	return d.Mul(rho * strength * (math.Pow(q, BOUNDARY_P1) - math.Pow(q, BOUNDARY_P2)) / (r * r))
}

//boundary - wall contribution to a fluid particle at offset d from a wall
//particle
func (e *Evaluator) boundary(d V.Vec3, rho float64) V.Vec3 {
	return BoundaryForce(d, e.Fluid.Spacing, e.Fluid.BoundaryStrength, rho)
}
