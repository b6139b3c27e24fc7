package fluid

import "math"

//Müller et al. 2003 smoothing kernels. The pure functions take the smoothing
//radius h directly; Kernel caches the powers of h for the hot loops.

const PI = math.Pi

//Poly6 - density kernel, r2 is the squared distance
func Poly6(r2 float64, h float64) float64 {
	h2 := h * h
	if r2 >= h2 || r2 < 0 {
		return 0.0
	}
	x := h2 - r2
	return 315.0 / (64.0 * PI * math.Pow(h, 9)) * x * x * x
}

//SpikyGradient - scalar magnitude of the spiky kernel gradient; multiply by
//the unit vector (xi-xj)/r. Zero at r == 0 so coincident particles exert no
//pressure force on each other.
func SpikyGradient(r float64, h float64) float64 {
	if r <= 0 || r >= h {
		return 0.0
	}
	x := h - r
	return -45.0 / (PI * math.Pow(h, 6)) * x * x
}

//ViscosityLaplacian - laplacian of the viscosity kernel
func ViscosityLaplacian(r float64, h float64) float64 {
	if r >= h || r < 0 {
		return 0.0
	}
	return 45.0 / (PI * math.Pow(h, 6)) * (h - r)
}

//Kernel holds the smoothing radius powers H[n] = h^n and the three kernel
//normalisation coefficients
type Kernel struct {
	H      [10]float64
	poly6  float64
	spiky  float64
	viscos float64
}

func InitKernel(h float64) Kernel {
	K := Kernel{}
	K.H[0] = 1.0
	for i := 1; i < len(K.H); i++ {
		K.H[i] = K.H[i-1] * h
	}
	K.poly6 = 315.0 / (64.0 * PI * K.H[9])
	K.spiky = -45.0 / (PI * K.H[6])
	K.viscos = 45.0 / (PI * K.H[6])
	return K
}

func (K *Kernel) Poly6(r2 float64) float64 {
	if r2 >= K.H[2] || r2 < 0 {
		return 0.0
	}
	x := K.H[2] - r2
	return K.poly6 * x * x * x
}

func (K *Kernel) SpikyGradient(r float64) float64 {
	if r <= 0 || r >= K.H[1] {
		return 0.0
	}
	x := K.H[1] - r
	return K.spiky * x * x
}

func (K *Kernel) ViscosityLaplacian(r float64) float64 {
	if r >= K.H[1] || r < 0 {
		return 0.0
	}
	return K.viscos * (K.H[1] - r)
}
