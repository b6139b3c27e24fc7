package report

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

const ANALYTIC_POINTS = 101

//PlotProfile - PNG (or any format gonum/plot infers from the extension) of
//the sampled profile against the analytic one at time t, velocity on x and
//channel position on y
func PlotProfile(path string, samples []Sample, a Analytic, t float64) error {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("Poiseuille flow t = %g", t)
	p.X.Label.Text = "x velocity"
	p.Y.Label.Text = "y position"

	pts := make(plotter.XYs, len(samples))
	for i, s := range samples {
		pts[i].X = s.VX
		pts[i].Y = s.Y
	}
	scatter, err := plotter.NewScatter(pts)
	if err != nil {
		return fmt.Errorf("report: plotting samples: %w", err)
	}

	ys, vs := a.Profile(t, ANALYTIC_POINTS)
	exact := make(plotter.XYs, len(ys))
	for i := range ys {
		exact[i].X = vs[i]
		exact[i].Y = ys[i]
	}
	line, err := plotter.NewLine(exact)
	if err != nil {
		return fmt.Errorf("report: plotting analytic profile: %w", err)
	}

	p.Add(line, scatter)
	p.Legend.Add("sph", scatter)
	p.Legend.Add("analytic", line)

	if err := p.Save(5*vg.Inch, 4*vg.Inch, path); err != nil {
		return fmt.Errorf("report: saving %s: %w", path, err)
	}
	return nil
}
