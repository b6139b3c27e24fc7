package fluid

import (
	G "github.com/hoopoe/cmag/geometry"
	V "github.com/hoopoe/cmag/vector"
)

//Evaluator computes densities, pressures and net forces of a particle set.
//Every pass is data parallel over particles and only writes slot i, reading
//the previous pass outputs. Offsets between particles are minimum image
//offsets along a periodic x.
type Evaluator struct {
	Fluid   *MassFluidParticle
	Kernel  Kernel
	Gravity V.Vec3
	Sampler Sampler
	Workers int
	Period  G.Period
}

func InitEvaluator(fluid *MassFluidParticle, gravity V.Vec3, sampler Sampler, workers int) Evaluator {
	return Evaluator{
		Fluid:   fluid,
		Kernel:  InitKernel(fluid.SmoothingRadius),
		Gravity: gravity,
		Sampler: sampler,
		Workers: workers,
	}
}

//KernelSum - sum of poly6 weights over every neighbour of particle i,
//including itself
func (e *Evaluator) KernelSum(i int, positions []V.Vec4) float64 {
	sum := 0.0
	xi := positions[i]
	it := e.Sampler.Candidates(xi)
	for it.Next() {
		sum += e.Kernel.Poly6(e.Period.DistSqr(xi, positions[it.Index()]))
	}
	return sum
}

//CalibrateMass - particle mass that puts the densest particle of the layout
//exactly at rest density
func (e *Evaluator) CalibrateMass(positions []V.Vec4) float64 {
	sums := make([]float64, len(positions))
	forEach(e.Workers, len(positions), func(i int) {
		sums[i] = e.KernelSum(i, positions)
	})
	max := 0.0
	for _, s := range sums {
		if s > max {
			max = s
		}
	}
	if max == 0 {
		return 0
	}
	return e.Fluid.RestDensity / max
}

//Densities - density and EOS pressure of every particle, fluid and boundary
func (e *Evaluator) Densities(p *Particles) {
	mass := e.Fluid.Mass
	forEach(e.Workers, p.Count(), func(i int) {
		rho := mass * e.KernelSum(i, p.Positions)
		p.Densities[i] = rho
		p.Pressures[i] = e.Fluid.PressureEOS(rho)
	})
}
