package fluid

import (
	V "github.com/hoopoe/cmag/vector"
	"gonum.org/v1/gonum/floats"
)

//Stats - per step diagnostics over the fluid particles
type Stats struct {
	Time        float64
	Steps       int
	Fluid       int
	DensitySum  float64
	MinDensity  float64
	MaxDensity  float64
	MaxPressure float64
	MaxSpeed    float64
	MeanSpeedX  float64
	Clamped     int
	Escaped     int //fluid particles outside the channel box
}

func (f *ChannelFlow) Stats() Stats {
	p := &f.particles
	st := Stats{Time: f.timer.T, Steps: f.steps, Clamped: f.clamped}

	box := f.channel.Bounds()
	var rho, pres, speed, vx []float64
	for i, x := range p.Positions {
		if !V.IsFluid(x) {
			continue
		}
		if !box.Contains(x.Vec3()) {
			st.Escaped++
		}
		v := p.Velocities[i]
		rho = append(rho, p.Densities[i])
		pres = append(pres, p.Pressures[i])
		speed = append(speed, v.Vec3().Len())
		vx = append(vx, v[0])
	}
	st.Fluid = len(rho)
	if st.Fluid == 0 {
		return st
	}

	st.DensitySum = floats.Sum(rho)
	st.MinDensity = floats.Min(rho)
	st.MaxDensity = floats.Max(rho)
	st.MaxPressure = floats.Max(pres)
	st.MaxSpeed = floats.Max(speed)
	st.MeanSpeedX = floats.Sum(vx) / float64(len(vx))
	return st
}
