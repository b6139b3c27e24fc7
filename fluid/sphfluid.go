package fluid

import (
	"fmt"

	G "github.com/hoopoe/cmag/geometry"
	V "github.com/hoopoe/cmag/vector"
	jww "github.com/spf13/jwalterweatherman"
)

//ChannelFlow - weakly compressible SPH simulation of a Poiseuille channel.
//Owns every particle array; the query methods hand out copies. Not safe for
//concurrent use, a single caller drives Update.
type ChannelFlow struct {
	params    Parameters
	channel   G.Channel
	grid      *SpatialHashGrid
	search    GridSearch
	eval      Evaluator
	integ     Integrator
	particles Particles
	initial   []V.Vec4
	timer     Timer
	state     State
	steps     int
	clamped   int
	log       *jww.Notepad
}

//State of the controller
type State int

const (
	Initialized State = iota
	Running
)

func (s State) String() string {
	switch s {
	case Initialized:
		return "initialized"
	case Running:
		return "running"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

//NewChannelFlow - lays out the channel, calibrates the particle mass and
//computes the initial densities. Invalid configurations return ErrConfig.
func NewChannelFlow(cfg Config) (*ChannelFlow, error) {
	cfg = cfg.resolve()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	f := &ChannelFlow{log: cfg.Log}
	f.params = cfg.parameters()
	f.channel = cfg.channel()
	f.initial = f.channel.Particles()
	n := len(f.initial)

	grid, err := NewSpatialHashGrid(f.params.Origin, f.params.SmoothingRadius, f.params.GridSize, n)
	if err != nil {
		return nil, err
	}
	period := f.channel.Period()
	grid.Workers = f.params.Workers
	grid.Period = period
	f.grid = grid
	f.search = GridSearch{Grid: grid}
	f.particles = AllocParticles(n)
	f.eval = InitEvaluator(&f.params.MassFluidParticle, f.params.Gravity, &f.search, f.params.Workers)
	f.eval.Period = period
	f.integ = Integrator{Fluid: &f.params.MassFluidParticle, Workers: f.params.Workers, Period: period}
	f.timer.TS = f.params.TimeStep

	f.grid.Build(f.initial)
	f.params.Mass = f.eval.CalibrateMass(f.initial)
	if !(f.params.Mass > 0) {
		return nil, fmt.Errorf("%w: could not calibrate particle mass", ErrConfig)
	}

	f.log.INFO.Printf("channel %v fluid + %d wall layers: %d fluid, %d boundary particles",
		f.params.FluidSize, f.params.BoundaryOffset, f.channel.NumFluid(), f.channel.NumBoundary())
	f.log.INFO.Printf("parameters %s", f.params)
	if stable := f.params.StableTimeStep(); f.params.TimeStep > stable {
		f.log.WARN.Printf("time step %g exceeds the stable estimate %g", f.params.TimeStep, stable)
	}
	f.Reset()
	return f, nil
}

//Reset - restores the initial layout, zero velocities and time
func (f *ChannelFlow) Reset() {
	copy(f.particles.Positions, f.initial)
	for i := range f.particles.Velocities {
		f.particles.Velocities[i] = V.Vec4{}
		f.particles.Forces[i] = V.Vec3{}
	}
	f.timer.Reset()
	f.steps = 0
	f.state = Initialized

	f.clamped = f.grid.Build(f.particles.Positions)
	f.eval.Densities(&f.particles)
	f.log.DEBUG.Printf("reset %d particles", len(f.initial))
}

//Update - advances the simulation by exactly one time step: rebuild the
//hash grid, densities and pressures, forces, then integrate
func (f *ChannelFlow) Update() error {
	f.clamped = f.grid.Build(f.particles.Positions)
	if f.clamped > 0 {
		f.log.WARN.Printf("step %d t=%g: %d particles outside the grid clamped into edge cells",
			f.steps, f.timer.T, f.clamped)
	}

	f.eval.Densities(&f.particles)
	f.eval.Forces(&f.particles)
	if err := f.integ.Step(&f.particles); err != nil {
		return fmt.Errorf("step %d t=%g: %w", f.steps, f.timer.T, err)
	}

	f.timer.StepTime()
	f.steps++
	f.state = Running
	f.log.TRACE.Printf("step %d t=%g", f.steps, f.timer.T)
	return nil
}

func (f *ChannelFlow) State() State {
	return f.state
}

func (f *ChannelFlow) NumParticles() int {
	return f.particles.Count()
}

func (f *ChannelFlow) ElapsedTime() float64 {
	return f.timer.T
}

func (f *ChannelFlow) Steps() int {
	return f.steps
}

func (f *ChannelFlow) ParticleRadius() float64 {
	return f.params.Radius
}

func (f *ChannelFlow) Parameters() Parameters {
	return f.params
}

func (f *ChannelFlow) WorldOrigin() V.Vec3 {
	return f.params.Origin
}

//Clamped - particles clamped into the grid by the last hash build
func (f *ChannelFlow) Clamped() int {
	return f.clamped
}

//Positions - copy of (x, y, z, flag) per particle, original order
func (f *ChannelFlow) Positions() []V.Vec4 {
	return append([]V.Vec4(nil), f.particles.Positions...)
}

//Velocities - copy of the particle velocities, original order
func (f *ChannelFlow) Velocities() []V.Vec4 {
	return append([]V.Vec4(nil), f.particles.Velocities...)
}

//Measures - copy of density and pressure per particle, original order
func (f *ChannelFlow) Measures() []Measure {
	out := make([]Measure, f.particles.Count())
	for i := range out {
		out[i] = Measure{Density: f.particles.Densities[i], Pressure: f.particles.Pressures[i]}
	}
	return out
}

//Hashes - copy of the sorted cell hashes of the last grid build
func (f *ChannelFlow) Hashes() []uint32 {
	return append([]uint32(nil), f.grid.Hashes()...)
}

//Indices - copy of the original index of every sorted slot
func (f *ChannelFlow) Indices() []uint32 {
	return append([]uint32(nil), f.grid.Indices()...)
}
