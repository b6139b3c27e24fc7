package report

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/hoopoe/cmag/fluid"
	V "github.com/hoopoe/cmag/vector"
	jww "github.com/spf13/jwalterweatherman"
)

//Time slice dumps of the x velocity profile across the channel. For every
//slice the simulation is advanced until its elapsed time reaches the slice,
//then the fluid particles of the first lattice column (0 < x < 2r) are
//written as "vx y" lines, y measured from the lower wall surface.

var DefaultSlices = []float64{0.0225, 0.045, 0.1125, 0.225, 1.0}

var ErrNoSlices = errors.New("report: no time slices")

const (
	HEADER = "0.0 0.0"
	FOOTER = "0.000000 0.001000"

	FILE_PREFIX = "XVelocityYPosition"
	FILE_SUFFIX = ".dat"
)

//Engine is the part of the simulation the dump loop drives
type Engine interface {
	ElapsedTime() float64
	Update() error
	Positions() []V.Vec4
	Velocities() []V.Vec4
	WorldOrigin() V.Vec3
	ParticleRadius() float64
	Parameters() fluid.Parameters
}

var _ Engine = (*fluid.ChannelFlow)(nil)

//Sample - x velocity at a channel normal position
type Sample struct {
	VX float64
	Y  float64
}

//Dumper writes one file per time slice into Dir
type Dumper struct {
	Dir    string
	Slices []float64
	Log    *jww.Notepad
	//OnSlice, if set, is called after each file is written
	OnSlice func(slice float64, path string, samples []Sample)
}

//FileName - dump file of a time slice, e.g. XVelocityYPosition0.0225.dat
func FileName(slice float64) string {
	return FILE_PREFIX + strconv.FormatFloat(slice, 'g', -1, 64) + FILE_SUFFIX
}

//SliceOf - the time slice a dump file was written at, from its name
func SliceOf(path string) (float64, error) {
	name := filepath.Base(path)
	if !strings.HasPrefix(name, FILE_PREFIX) || !strings.HasSuffix(name, FILE_SUFFIX) {
		return 0, fmt.Errorf("report: %s is not named like %s", name, FileName(0.0225))
	}
	slice, err := strconv.ParseFloat(strings.TrimSuffix(strings.TrimPrefix(name, FILE_PREFIX), FILE_SUFFIX), 64)
	if err != nil {
		return 0, fmt.Errorf("report: time slice of %s: %w", name, err)
	}
	return slice, nil
}

//SampleProfile - fluid particles with 0 < x < 2r, y shifted so the lower
//wall surface sits at 0
func SampleProfile(positions []V.Vec4, velocities []V.Vec4, origin V.Vec3, radius float64, offset int) []Sample {
	shift := math.Abs(origin[1]) - float64(offset)*2*radius
	var out []Sample
	for i, x := range positions {
		if !(x[0] > 0 && x[0] < 2*radius) || !V.IsFluid(x) {
			continue
		}
		out = append(out, Sample{VX: velocities[i][0], Y: x[1] + shift})
	}
	return out
}

//WriteProfile - dump format: header line, one "vx y" line per sample with 6
//significant digits, footer line
func WriteProfile(w io.Writer, samples []Sample) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, HEADER)
	for _, s := range samples {
		fmt.Fprintf(bw, "%s %s\n", format(s.VX), format(s.Y))
	}
	fmt.Fprintln(bw, FOOTER)
	return bw.Flush()
}

func format(v float64) string {
	return strconv.FormatFloat(v, 'g', 6, 64)
}

//Snapshot - profile samples of the current engine state
func Snapshot(sim Engine) []Sample {
	return SampleProfile(sim.Positions(), sim.Velocities(), sim.WorldOrigin(),
		sim.ParticleRadius(), sim.Parameters().BoundaryOffset)
}

//Run - advances sim through every slice in order and writes the dump files.
//Returns the written paths; engine and I/O errors stop the run.
func (d *Dumper) Run(sim Engine) ([]string, error) {
	slices := d.Slices
	if slices == nil {
		slices = DefaultSlices
	}
	if len(slices) == 0 {
		return nil, ErrNoSlices
	}
	log := d.Log
	if log == nil {
		log = fluid.DiscardLog()
	}
	if d.Dir != "" {
		if err := os.MkdirAll(d.Dir, 0755); err != nil {
			return nil, fmt.Errorf("report: creating %s: %w", d.Dir, err)
		}
	}

	var paths []string
	for _, slice := range slices {
		for sim.ElapsedTime() < slice {
			if err := sim.Update(); err != nil {
				return paths, fmt.Errorf("report: advancing to slice %g: %w", slice, err)
			}
		}

		samples := Snapshot(sim)
		path := filepath.Join(d.Dir, FileName(slice))
		if err := writeFile(path, samples); err != nil {
			return paths, err
		}
		log.INFO.Printf("slice %g (t=%g): %d samples -> %s", slice, sim.ElapsedTime(), len(samples), path)
		paths = append(paths, path)
		if d.OnSlice != nil {
			d.OnSlice(slice, path, samples)
		}
	}
	return paths, nil
}

func writeFile(path string, samples []Sample) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("report: %w", err)
	}
	if err := WriteProfile(f, samples); err != nil {
		f.Close()
		return fmt.Errorf("report: writing %s: %w", path, err)
	}
	return f.Close()
}
