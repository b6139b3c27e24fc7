package geometry

import (
	"fmt"
	"math"

	V "github.com/hoopoe/cmag/vector"
)

//channel geometry - lays out the Poiseuille channel as a block of fluid
//particles on a cubic lattice sandwiched between fixed wall layers along y.
//Walls share the x/z extent of the fluid and the flow direction (x) is
//periodic with the lattice length, so the channel is an endless pipe.

const (
	EPSILON = 1e-9
)

//Axis aligned box in world coordinates
type Box struct {
	Min V.Vec3
	Max V.Vec3
}

//InitBox - box from an origin corner and an extent
func InitBox(origin V.Vec3, size V.Vec3) Box {
	return Box{Min: origin, Max: origin.Add(size)}
}

func (b Box) Size() V.Vec3 {
	return b.Max.Sub(b.Min)
}

//Contains - closed interval test on every axis
func (b Box) Contains(p V.Vec3) bool {
	for i := 0; i < 3; i++ {
		if p[i] < b.Min[i] || p[i] > b.Max[i] {
			return false
		}
	}
	return true
}

//Encloses - true if o lies fully inside b (with EPSILON slack)
func (b Box) Encloses(o Box) bool {
	for i := 0; i < 3; i++ {
		if o.Min[i] < b.Min[i]-EPSILON || o.Max[i] > b.Max[i]+EPSILON {
			return false
		}
	}
	return true
}

func (b Box) String() string {
	return fmt.Sprintf("{%v -> %v}", b.Min, b.Max)
}

//Channel - fluid lattice plus Offset wall layers below and above it
type Channel struct {
	FluidSize [3]int
	Offset    int
	Spacing   float64
	Origin    V.Vec3
}

//InitChannel - centres the channel on y=0 and z=0 with x starting at 0
func InitChannel(fluidSize [3]int, offset int, spacing float64) Channel {
	c := Channel{FluidSize: fluidSize, Offset: offset, Spacing: spacing}
	ny := float64(fluidSize[1] + 2*offset)
	c.Origin = V.Vec3{0, -ny * spacing / 2, -float64(fluidSize[2]) * spacing / 2}
	return c
}

//Layers - lattice dimensions including both walls
func (c Channel) Layers() [3]int {
	return [3]int{c.FluidSize[0], c.FluidSize[1] + 2*c.Offset, c.FluidSize[2]}
}

func (c Channel) NumFluid() int {
	return c.FluidSize[0] * c.FluidSize[1] * c.FluidSize[2]
}

func (c Channel) NumBoundary() int {
	return 2 * c.Offset * c.FluidSize[0] * c.FluidSize[2]
}

func (c Channel) NumParticles() int {
	return c.NumFluid() + c.NumBoundary()
}

//Bounds - world box covered by the lattice cells
func (c Channel) Bounds() Box {
	l := c.Layers()
	size := V.Vec3{float64(l[0]), float64(l[1]), float64(l[2])}.Mul(c.Spacing)
	return InitBox(c.Origin, size)
}

//Height - distance between the fluid-facing wall surfaces
func (c Channel) Height() float64 {
	return float64(c.FluidSize[1]) * c.Spacing
}

//LatticePoint - cell centre of lattice layer (i, j, k); j counts from the
//bottom of the lower wall
func (c Channel) LatticePoint(i int, j int, k int) V.Vec3 {
	d := c.Spacing
	return c.Origin.Add(V.Vec3{(float64(i) + 0.5) * d, (float64(j) + 0.5) * d, (float64(k) + 0.5) * d})
}

//Particles - fluid lattice first (x fastest, then y, then z), followed by the
//lower wall and the upper wall in the same order
func (c Channel) Particles() []V.Vec4 {
	out := make([]V.Vec4, 0, c.NumParticles())
	nx, ny, nz := c.FluidSize[0], c.FluidSize[1], c.FluidSize[2]

	for k := 0; k < nz; k++ {
		for j := 0; j < ny; j++ {
			for i := 0; i < nx; i++ {
				out = append(out, V.Pack(c.LatticePoint(i, j+c.Offset, k), V.FLUID))
			}
		}
	}

	walls := [2]int{0, c.Offset + ny}
	for _, base := range walls {
		for k := 0; k < nz; k++ {
			for j := 0; j < c.Offset; j++ {
				for i := 0; i < nx; i++ {
					out = append(out, V.Pack(c.LatticePoint(i, base+j, k), V.BOUNDARY))
				}
			}
		}
	}
	return out
}

//Period - the periodic x axis of the channel: one lattice length
func (c Channel) Period() Period {
	return Period{Min: c.Origin[0], Length: float64(c.FluidSize[0]) * c.Spacing}
}

//Period - periodic x axis [Min, Min+Length). A zero Length means the axis
//is not periodic and Wrap / Delta are the identity / plain difference.
type Period struct {
	Min    float64
	Length float64
}

func (p Period) Periodic() bool {
	return p.Length > 0
}

//WrapX - x folded into [Min, Min+Length), non-finite values stay non-finite
func (p Period) WrapX(x float64) float64 {
	if !p.Periodic() {
		return x
	}
	w := x - p.Length*math.Floor((x-p.Min)/p.Length)
	if w >= p.Min+p.Length {
		w = p.Min
	}
	return w
}

//Wrap - position quad with x folded into the period
func (p Period) Wrap(q V.Vec4) V.Vec4 {
	q[0] = p.WrapX(q[0])
	return q
}

//Delta - a - b with the minimum image along x
func (p Period) Delta(a V.Vec4, b V.Vec4) V.Vec3 {
	d := V.Delta(a, b)
	if p.Periodic() {
		d[0] -= p.Length * math.Round(d[0]/p.Length)
	}
	return d
}

//DistSqr - squared minimum image distance
func (p Period) DistSqr(a V.Vec4, b V.Vec4) float64 {
	if !p.Periodic() {
		return V.DistSqr(a, b)
	}
	return p.Delta(a, b).LenSqr()
}
