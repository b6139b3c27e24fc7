package report

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hoopoe/cmag/fluid"
	V "github.com/hoopoe/cmag/vector"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

//stub engine: fixed particles, time advances by dt per update
type stubEngine struct {
	t, dt      float64
	updates    int
	positions  []V.Vec4
	velocities []V.Vec4
	params     fluid.Parameters
	fail       error
}

func (s *stubEngine) ElapsedTime() float64 { return s.t }
func (s *stubEngine) Update() error {
	if s.fail != nil {
		return s.fail
	}
	s.t += s.dt
	s.updates++
	return nil
}
func (s *stubEngine) Positions() []V.Vec4          { return s.positions }
func (s *stubEngine) Velocities() []V.Vec4         { return s.velocities }
func (s *stubEngine) WorldOrigin() V.Vec3          { return s.params.Origin }
func (s *stubEngine) ParticleRadius() float64      { return s.params.Radius }
func (s *stubEngine) Parameters() fluid.Parameters { return s.params }

func newStub() *stubEngine {
	s := &stubEngine{dt: 0.25}
	s.params.Radius = 0.5
	s.params.BoundaryOffset = 2
	s.params.Origin = V.Vec3{0, -4, 0}
	s.positions = []V.Vec4{
		{0.5, -1.5, 0, 0}, //sampled
		{0.5, 1.5, 0, 0},  //sampled
		{1.5, 0, 0, 0},    //outside the slab
		{0.5, -3.5, 0, 1}, //wall
		{0, 0, 0, 0},      //on the slab edge
	}
	s.velocities = []V.Vec4{{1, 0, 0, 0}, {2, 0, 0, 0}, {3, 0, 0, 0}, {0, 0, 0, 0}, {4, 0, 0, 0}}
	return s
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "XVelocityYPosition0.0225.dat", FileName(0.0225))
	assert.Equal(t, "XVelocityYPosition0.1125.dat", FileName(0.1125))
	assert.Equal(t, "XVelocityYPosition1.dat", FileName(1.0))

	for _, slice := range DefaultSlices {
		got, err := SliceOf(filepath.Join("out", FileName(slice)))
		require.NoError(t, err)
		assert.Equal(t, slice, got)
	}
	_, err := SliceOf("profile.dat")
	assert.Error(t, err)
	_, err = SliceOf("XVelocityYPositionabc.dat")
	assert.Error(t, err)
}

func TestSampleProfile(t *testing.T) {
	s := newStub()
	samples := Snapshot(s)
	//shift = |origin.y| - offset*2r = 4 - 2 = 2
	assert.Equal(t, []Sample{{VX: 1, Y: 0.5}, {VX: 2, Y: 3.5}}, samples)
}

func TestWriteProfile(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteProfile(&buf, []Sample{{VX: 2.5e-5, Y: 0.000431034482}, {VX: 1, Y: 0.5}}))
	assert.Equal(t, "0.0 0.0\n2.5e-05 0.000431034\n1 0.5\n0.000000 0.001000\n", buf.String())

	buf.Reset()
	require.NoError(t, WriteProfile(&buf, nil))
	assert.Equal(t, HEADER+"\n"+FOOTER+"\n", buf.String())
}

func TestDumperRun(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	s := newStub()
	var seen []float64
	d := Dumper{Dir: dir, Slices: []float64{0.5, 1.0, 1.0}, OnSlice: func(slice float64, _ string, _ []Sample) {
		seen = append(seen, slice)
	}}

	paths, err := d.Run(s)
	require.NoError(t, err)
	assert.Equal(t, 4, s.updates)
	assert.Equal(t, []float64{0.5, 1.0, 1.0}, seen)
	require.Len(t, paths, 3)
	assert.Equal(t, filepath.Join(dir, "XVelocityYPosition0.5.dat"), paths[0])

	data, err := os.ReadFile(paths[1])
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	assert.Equal(t, []string{HEADER, "1 0.5", "2 3.5", FOOTER}, lines)

	samples, err := ReadProfile(paths[1])
	require.NoError(t, err)
	assert.Equal(t, Snapshot(s), samples)
}

func TestDumperErrors(t *testing.T) {
	_, err := (&Dumper{Slices: []float64{}}).Run(newStub())
	assert.True(t, errors.Is(err, ErrNoSlices))

	boom := errors.New("boom")
	s := newStub()
	s.fail = boom
	_, err = (&Dumper{Dir: t.TempDir(), Slices: []float64{1}}).Run(s)
	assert.True(t, errors.Is(err, boom))

	file := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0644))
	_, err = (&Dumper{Dir: file, Slices: []float64{0}}).Run(newStub())
	assert.Error(t, err)
}

func TestAnalytic(t *testing.T) {
	a := Analytic{Force: 2e-4, Viscosity: 1e-6, Height: 1e-3, Terms: DEFAULT_TERMS}
	vmax := a.Steady(a.Height / 2)
	assert.InDelta(t, 2e-4/(8*1e-6)*1e-6, vmax, 1e-12)

	//starts at rest, walls never move
	for _, y := range []float64{0.1e-3, 0.5e-3, 0.9e-3} {
		assert.InDelta(t, 0, a.Velocity(y, 0), 1e-4*vmax)
	}
	assert.InDelta(t, 0, a.Velocity(0, 0.5), 1e-12)
	assert.InDelta(t, 0, a.Velocity(a.Height, 0.5), 1e-12)

	//early on the centre accelerates freely, late it reaches the parabola
	assert.InEpsilon(t, a.Force*0.01, a.Velocity(a.Height/2, 0.01), 1e-3)
	assert.InEpsilon(t, vmax, a.Velocity(a.Height/2, 10), 1e-6)

	//symmetric and increasing in time
	assert.InDelta(t, a.Velocity(0.2e-3, 0.1), a.Velocity(0.8e-3, 0.1), 1e-12)
	assert.Less(t, a.Velocity(0.3e-3, 0.05), a.Velocity(0.3e-3, 0.1))

	ys, vs := a.Profile(0.1, 11)
	require.Len(t, ys, 11)
	assert.Equal(t, 0.0, ys[0])
	assert.InDelta(t, a.Height, ys[10], 1e-18)
	assert.InDelta(t, a.Velocity(ys[5], 0.1), vs[5], 0)
}

func TestCompare(t *testing.T) {
	a := Analytic{Force: 2e-4, Viscosity: 1e-6, Height: 1e-3}
	var exact []Sample
	for _, y := range []float64{1e-4, 3e-4, 5e-4} {
		exact = append(exact, Sample{VX: a.Velocity(y, 0.2), Y: y})
	}
	c := Compare(exact, a, 0.2)
	assert.Equal(t, 3, c.Samples)
	assert.Zero(t, c.RMS)
	assert.Greater(t, c.MaxAnalytic, 0.0)

	off := append([]Sample(nil), exact...)
	for i := range off {
		off[i].VX += 1e-6
	}
	assert.InDelta(t, 1e-6, Compare(off, a, 0.2).RMS, 1e-12)
	assert.Equal(t, Comparison{}, Compare(nil, a, 0.2))
}

func TestChannelDump(t *testing.T) {
	cfg := fluid.DefaultConfig()
	cfg.GridSize = [3]int{8, 8, 4}
	cfg.FluidSize = [3]int{8, 2, 1}
	sim, err := fluid.NewChannelFlow(cfg)
	require.NoError(t, err)

	d := Dumper{Dir: t.TempDir(), Slices: []float64{1e-3}}
	paths, err := d.Run(sim)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, sim.ElapsedTime(), 1e-3)

	c, err := CompareProfile(paths[0], AnalyticFor(sim), sim.ElapsedTime())
	require.NoError(t, err)
	assert.Equal(t, 2, c.Samples, "one fluid particle per row in the first column")
	assert.Greater(t, c.MaxAnalytic, 0.0)

	png := filepath.Join(t.TempDir(), "profile.png")
	samples, err := ReadProfile(paths[0])
	require.NoError(t, err)
	require.NoError(t, PlotProfile(png, samples, AnalyticFor(sim), sim.ElapsedTime()))
	info, err := os.Stat(png)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}
