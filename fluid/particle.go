package fluid

import (
	"fmt"
	"math"

	V "github.com/hoopoe/cmag/vector"
)

//MassFluidParticle - Fluid particle properties shared by the whole system.
//Mass is derived from the initial layout, Radius is the particle radius and
//Spacing the lattice spacing (2 * Radius). SmoothingRadius is the kernel
//support h which is also the hash grid cell edge.
type MassFluidParticle struct {
	Mass             float64
	Viscosity        float64
	Radius           float64
	Spacing          float64
	SmoothingRadius  float64
	RestDensity      float64
	SpeedSound       float64
	Stiffness        float64 //c^2 of the equation of state
	BoundaryStrength float64 //D of the wall penalty
	TimeStep         float64
}

//Parameters - immutable description of a constructed channel simulation
type Parameters struct {
	MassFluidParticle
	Gravity        V.Vec3
	FluidSize      [3]int
	BoundaryOffset int
	GridSize       [3]int
	Origin         V.Vec3 //world origin, also the hash grid origin
	Extent         V.Vec3 //grid extent GridSize * h
	Workers        int
}

//Measure - density and pressure of a particle
type Measure struct {
	Density  float64
	Pressure float64
}

//DensityEpsilon - floor for every density used as a divisor
func (m *MassFluidParticle) DensityEpsilon() float64 {
	return 1e-12 * m.RestDensity
}

//PressureEOS - weakly compressible equation of state, negative pressures
//are clamped to 0
func (m *MassFluidParticle) PressureEOS(density float64) float64 {
	p := m.Stiffness * (density - m.RestDensity)
	if p < 0 {
		return 0.0
	}
	return p
}

//StableTimeStep - largest step the explicit scheme tolerates: the viscous
//diffusion limit 0.125 h^2/nu and the acoustic CFL limit 0.4 h/c
func (m MassFluidParticle) StableTimeStep() float64 {
	h := m.SmoothingRadius
	dt := math.Inf(1)
	if m.Viscosity > 0 {
		dt = 0.125 * h * h * m.RestDensity / m.Viscosity
	}
	if m.SpeedSound > 0 {
		dt = math.Min(dt, 0.4*h/m.SpeedSound)
	}
	return dt
}

func (p Parameters) String() string {
	return fmt.Sprintf("r=%g d=%g h=%g m=%g rho0=%g mu=%g c=%g dt=%g g=%v grid=%v",
		p.Radius, p.Spacing, p.SmoothingRadius, p.Mass, p.RestDensity,
		p.Viscosity, p.SpeedSound, p.TimeStep, p.Gravity, p.GridSize)
}

//Particles - struct of arrays holding the per-particle state, index addressed
type Particles struct {
	Positions  []V.Vec4 //x, y, z, flag
	Velocities []V.Vec4 //x, y, z, unused
	Forces     []V.Vec3
	Densities  []float64
	Pressures  []float64
}

//AllocParticles - zeroed state for n particles
func AllocParticles(n int) Particles {
	return Particles{
		Positions:  make([]V.Vec4, n),
		Velocities: make([]V.Vec4, n),
		Forces:     make([]V.Vec3, n),
		Densities:  make([]float64, n),
		Pressures:  make([]float64, n),
	}
}

func (p *Particles) Count() int {
	return len(p.Positions)
}
