package fluid

import (
	"image/color"

	V "github.com/hoopoe/cmag/vector"
	"github.com/mazznoer/colorgrad"
)

const PALETTE_SIZE = 256

//Wall particles are drawn in a fixed grey
var BOUNDARY_COLOR = V.Vec4{0.5, 0.5, 0.5, 1.0}

var palette = viridis()

func viridis() []V.Vec4 {
	grad := colorgrad.Viridis()
	pal := make([]V.Vec4, 0, PALETTE_SIZE)
	for _, c := range grad.Colors(PALETTE_SIZE) {
		pal = append(pal, rgba(c))
	}
	return pal
}

func rgba(c color.Color) V.Vec4 {
	r, g, b, a := c.RGBA()
	return V.Vec4{float64(r) / 0xffff, float64(g) / 0xffff, float64(b) / 0xffff, float64(a) / 0xffff}
}

//SpeedColor - viridis colour of a speed normalised by max, 0 maps to the
//dark end of the gradient
func SpeedColor(speed float64, max float64) V.Vec4 {
	t := 0.0
	if max > 0 {
		t = speed / max
	}
	if !(t > 0) {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	return palette[int(t*float64(PALETTE_SIZE-1)+0.5)]
}

//ColorBuffer - RGBA per particle for a viewer: fluid coloured by speed
//relative to the fastest fluid particle, walls grey
func (f *ChannelFlow) ColorBuffer() []V.Vec4 {
	p := &f.particles
	max := 0.0
	for i, x := range p.Positions {
		if V.IsFluid(x) {
			if s := p.Velocities[i].Vec3().Len(); s > max {
				max = s
			}
		}
	}

	out := make([]V.Vec4, p.Count())
	for i, x := range p.Positions {
		if V.IsFluid(x) {
			out[i] = SpeedColor(p.Velocities[i].Vec3().Len(), max)
		} else {
			out[i] = BOUNDARY_COLOR
		}
	}
	return out
}
