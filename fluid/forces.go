package fluid

import (
	"math"

	V "github.com/hoopoe/cmag/vector"
)

//Forces - net force of every fluid particle: pressure, viscosity, wall
//penalty and the body force rho*g. Boundary particles get a zero force.
//Reads the densities and pressures of the current step.
func (e *Evaluator) Forces(p *Particles) {
	forEach(e.Workers, p.Count(), func(i int) {
		p.Forces[i] = e.Force(i, p)
	})
}

//Force - net force on particle i
func (e *Evaluator) Force(i int, p *Particles) V.Vec3 {
	xi := p.Positions[i]
	if !V.IsFluid(xi) {
		return V.Vec3{}
	}

	fl := e.Fluid
	eps := fl.DensityEpsilon()
	h2 := e.Kernel.H[2]
	vi := p.Velocities[i].Vec3()
	rhoi := p.Densities[i]
	pi := p.Pressures[i]

	pressure := V.Vec3{}
	viscosity := V.Vec3{}
	wall := V.Vec3{}

	it := e.Sampler.Candidates(xi)
	for it.Next() {
		j := it.Index()
		if j == i {
			continue
		}
		xj := p.Positions[j]
		d := e.Period.Delta(xi, xj)

		if !V.IsFluid(xj) {
			wall = wall.Add(e.boundary(d, rhoi))
		}

		r2 := d.LenSqr()
		if r2 >= h2 {
			continue
		}
		r := math.Sqrt(r2)
		rhoj := math.Max(p.Densities[j], eps)

		if r > 0 {
			grad := e.Kernel.SpikyGradient(r)
			pressure = pressure.Add(d.Mul(-fl.Mass * (pi + p.Pressures[j]) / (2 * rhoj) * grad / r))
		}

		dv := p.Velocities[j].Vec3().Sub(vi)
		viscosity = viscosity.Add(dv.Mul(fl.Mass / rhoj * e.Kernel.ViscosityLaplacian(r)))
	}

	f := pressure.Add(viscosity.Mul(fl.Viscosity)).Add(wall)
	return f.Add(e.Gravity.Mul(rhoi))
}
