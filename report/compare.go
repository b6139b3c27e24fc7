package report

import (
	"fmt"
	"math"

	"github.com/phil-mansfield/table"
	"gonum.org/v1/gonum/floats"
)

//Comparison - agreement of a dumped profile with the analytic solution
type Comparison struct {
	Samples     int
	RMS         float64 //root mean square velocity error
	MaxAnalytic float64 //largest analytic velocity at the sample points
	Relative    float64 //RMS / MaxAnalytic
}

//ReadProfile - reads a dump file back, dropping the header and footer lines
func ReadProfile(path string) ([]Sample, error) {
	cols, err := table.ReadTable(path, []int{0, 1}, nil)
	if err != nil {
		return nil, fmt.Errorf("report: reading %s: %w", path, err)
	}
	vx, ys := cols[0], cols[1]
	if len(vx) < 2 {
		return nil, fmt.Errorf("report: %s has no header/footer lines", path)
	}
	vx, ys = vx[1:len(vx)-1], ys[1:len(ys)-1]

	out := make([]Sample, len(vx))
	for i := range vx {
		out[i] = Sample{VX: vx[i], Y: ys[i]}
	}
	return out, nil
}

//Compare - error of samples against the analytic profile at time t
func Compare(samples []Sample, a Analytic, t float64) Comparison {
	c := Comparison{Samples: len(samples)}
	if len(samples) == 0 {
		return c
	}
	diff := make([]float64, len(samples))
	exact := make([]float64, len(samples))
	for i, s := range samples {
		exact[i] = math.Abs(a.Velocity(s.Y, t))
		diff[i] = s.VX - a.Velocity(s.Y, t)
	}
	c.RMS = floats.Norm(diff, 2) / math.Sqrt(float64(len(diff)))
	c.MaxAnalytic = floats.Max(exact)
	if c.MaxAnalytic > 0 {
		c.Relative = c.RMS / c.MaxAnalytic
	}
	return c
}

//CompareProfile - reads a dump file and compares it at time t
func CompareProfile(path string, a Analytic, t float64) (Comparison, error) {
	samples, err := ReadProfile(path)
	if err != nil {
		return Comparison{}, err
	}
	return Compare(samples, a, t), nil
}
