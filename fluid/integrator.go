package fluid

import (
	"fmt"
	"math"

	G "github.com/hoopoe/cmag/geometry"
	V "github.com/hoopoe/cmag/vector"
)

//Timer - simulation clock, TS is the fixed step
type Timer struct {
	T        float64
	TS       float64
	TIMELAST float64
}

func (t *Timer) StepTime() {
	t.TIMELAST = t.T
	t.T = t.T + t.TS
}

func (t *Timer) Reset() {
	t.T = 0.0
	t.TIMELAST = 0.0
}

//Integrator - semi-implicit (symplectic) Euler for fluid particles. The new
//state goes to scratch buffers first so a step producing a non-finite value
//leaves positions and velocities untouched. Fluid positions leaving a
//periodic x re-enter on the other side.
type Integrator struct {
	Fluid   *MassFluidParticle
	Workers int
	Period  G.Period
	nextPos []V.Vec4
	nextVel []V.Vec4
}

//Step - v += f/rho dt, x += v dt; boundary particles are copied unchanged
func (in *Integrator) Step(p *Particles) error {
	n := p.Count()
	if len(in.nextPos) != n {
		in.nextPos = make([]V.Vec4, n)
		in.nextVel = make([]V.Vec4, n)
	}

	dt := in.Fluid.TimeStep
	eps := in.Fluid.DensityEpsilon()
	forEach(in.Workers, n, func(i int) {
		x := p.Positions[i]
		v := p.Velocities[i]
		if V.IsFluid(x) {
			rho := math.Max(p.Densities[i], eps)
			v = V.AddScaled(v, p.Forces[i], dt/rho)
			x = in.Period.Wrap(V.AddScaled(x, v.Vec3(), dt))
		}
		in.nextPos[i] = x
		in.nextVel[i] = v
	})

	for i := 0; i < n; i++ {
		if !V.IsFinite(in.nextPos[i]) || !V.IsFinite(in.nextVel[i]) {
			return fmt.Errorf("%w: particle %d position %s velocity %s", ErrNonFinite, i,
				V.String(in.nextPos[i]), V.String(in.nextVel[i]))
		}
	}

	p.Positions, in.nextPos = in.nextPos, p.Positions
	p.Velocities, in.nextVel = in.nextVel, p.Velocities
	return nil
}
