package report

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

const DEFAULT_TERMS = 100

//Analytic - series solution of start-up Poiseuille flow between plates a
//distance Height apart (Morris, Fox & Zhu 1997):
//
//	v(y,t) = F/(2nu) y(L-y) - sum_n 4FL^2/(nu pi^3 (2n+1)^3) sin(pi y (2n+1)/L) exp(-(2n+1)^2 pi^2 nu t/L^2)
type Analytic struct {
	Force     float64 //driving body acceleration along x
	Viscosity float64 //kinematic viscosity mu/rho0
	Height    float64
	Terms     int
}

//Velocity - x velocity at distance y from the lower wall at time t
func (a Analytic) Velocity(y float64, t float64) float64 {
	L, nu, F := a.Height, a.Viscosity, a.Force
	if nu <= 0 || L <= 0 {
		return F * t
	}
	terms := a.Terms
	if terms <= 0 {
		terms = DEFAULT_TERMS
	}

	v := F / (2 * nu) * y * (L - y)
	for n := 0; n < terms; n++ {
		k := float64(2*n + 1)
		c := 4 * F * L * L / (nu * math.Pi * math.Pi * math.Pi * k * k * k)
		v -= c * math.Sin(math.Pi*y*k/L) * math.Exp(-k*k*math.Pi*math.Pi*nu*t/(L*L))
	}
	return v
}

//Steady - t -> infinity parabola
func (a Analytic) Steady(y float64) float64 {
	return a.Force / (2 * a.Viscosity) * y * (a.Height - y)
}

//Profile - n evenly spaced samples across the channel at time t
func (a Analytic) Profile(t float64, n int) (ys []float64, vs []float64) {
	if n < 2 {
		n = 2
	}
	ys = make([]float64, n)
	floats.Span(ys, 0, a.Height)
	vs = make([]float64, n)
	for i, y := range ys {
		vs[i] = a.Velocity(y, t)
	}
	return ys, vs
}

//AnalyticFor - analytic solution matching a simulation's parameters
func AnalyticFor(sim Engine) Analytic {
	p := sim.Parameters()
	return Analytic{
		Force:     p.Gravity[0],
		Viscosity: p.Viscosity / p.RestDensity,
		Height:    float64(p.FluidSize[1]) * p.Spacing,
		Terms:     DEFAULT_TERMS,
	}
}
