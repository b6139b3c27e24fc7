package main

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/hoopoe/cmag/app"
	F "github.com/hoopoe/cmag/fluid"
	"github.com/hoopoe/cmag/report"
	jww "github.com/spf13/jwalterweatherman"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const smallScenario = `[Scenario]
SoundSpeed = 5.77e-4
TimeStep = 5e-5
FluidX = 8
FluidY = 2
FluidZ = 1
BoundaryOffset = 3
GridX = 8
GridY = 8
GridZ = 4
Workers = 1`

//execute runs one cmag invocation, returning stdout and stderr
func execute(t *testing.T, args ...string) (string, string, error) {
	c := newCli()
	root := c.rootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetIn(strings.NewReader(""))
	root.SetArgs(args)
	err := root.Execute()
	c.close()
	return out.String(), errOut.String(), err
}

func writeScenario(t *testing.T) string {
	fname := filepath.Join(t.TempDir(), "small.cfg")
	require.NoError(t, os.WriteFile(fname, []byte(smallScenario), 0644))
	return fname
}

func TestParseLevel(t *testing.T) {
	level, err := parseLevel("WARN")
	require.NoError(t, err)
	assert.Equal(t, jww.LevelWarn, level)
	level, err = parseLevel(" trace ")
	require.NoError(t, err)
	assert.Equal(t, jww.LevelTrace, level)
	_, err = parseLevel("loud")
	assert.Error(t, err)
}

func TestParseSlices(t *testing.T) {
	slices, err := parseSlices([]string{"0.0225", "0.045,0.1125", "0.225 1"})
	require.NoError(t, err)
	assert.Equal(t, report.DefaultSlices, slices)

	_, err = parseSlices(nil)
	assert.ErrorIs(t, err, report.ErrNoSlices)
	_, err = parseSlices([]string{"-1"})
	assert.Error(t, err)
	_, err = parseSlices([]string{"soon"})
	assert.Error(t, err)
}

func TestReadKeysStopsOnCancel(t *testing.T) {
	con, err := app.ParseScenario(smallScenario)
	require.NoError(t, err)
	sph, err := F.NewChannelFlow(con.Config(nil))
	require.NoError(t, err)
	r := app.NewRunner(sph, nil, nil)

	in, keys := io.Pipe()
	defer keys.Close()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		readKeys(ctx, in, r)
		close(done)
	}()

	_, err = keys.Write([]byte(" "))
	require.NoError(t, err)
	assert.Eventually(t, func() bool {
		return r.Frame() == nil && r.Paused()
	}, time.Second, 5*time.Millisecond, "space pauses the runner")

	//stdin stays open, only the context ends the forwarding
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("readKeys still running after cancel")
	}
}

func TestReadKeysEndOfInput(t *testing.T) {
	con, err := app.ParseScenario(smallScenario)
	require.NoError(t, err)
	sph, err := F.NewChannelFlow(con.Config(nil))
	require.NoError(t, err)
	r := app.NewRunner(sph, nil, nil)
	for i := 0; i < 3; i++ {
		require.NoError(t, r.Frame())
	}

	//returns once the reader is drained, unknown keys are ignored
	readKeys(context.Background(), strings.NewReader("x1"), r)
	require.NoError(t, r.Frame())
	assert.False(t, r.Paused())
	assert.Equal(t, 1, sph.Steps(), "reset then one update")
	assert.Equal(t, con.TimeStep, sph.ElapsedTime())
}

func TestExampleConfig(t *testing.T) {
	out, _, err := execute(t, "example-config")
	require.NoError(t, err)
	assert.Equal(t, app.ExampleScenarioFile+"\n", out)

	con, err := app.ParseScenario(out)
	require.NoError(t, err)
	assert.True(t, con.UseDefaultScenario)
}

func TestConfigOverrides(t *testing.T) {
	t.Setenv("CMAG_WORKERS", "3")
	t.Setenv("CMAG_CONFIG", writeScenario(t))

	c := newCli()
	c.rootCmd()
	cfg, err := c.config()
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Workers)
	assert.Equal(t, [3]int{8, 2, 1}, cfg.FluidSize)
	assert.NotNil(t, cfg.Log)
}

func TestRunCommand(t *testing.T) {
	fname := writeScenario(t)
	_, stderr, err := execute(t, "run", "--config", fname, "--frames", "4", "--every", "2")
	require.NoError(t, err)
	assert.Contains(t, stderr, "frame 0 t=")
	assert.Contains(t, stderr, "frame 2 t=")
	assert.NotContains(t, stderr, "frame 1 t=")
	assert.NotContains(t, stderr, "frame 3 t=")

	_, _, err = execute(t, "run", "--config", fname, "--frames", "1", "--log-level", "loud")
	assert.Error(t, err)
	_, _, err = execute(t, "run", "--config", fname, "--frames", "1", "--profile", "gpu")
	assert.Error(t, err)
	_, _, err = execute(t, "run", "--config", filepath.Join(t.TempDir(), "missing.cfg"))
	assert.Error(t, err)
}

func TestDumpAndProfile(t *testing.T) {
	fname := writeScenario(t)
	dir := t.TempDir()
	out, _, err := execute(t, "dump", "--config", fname, "--out", dir, "--slices", "1e-4,2e-4",
		"--plot", "--log-level", "error")
	require.NoError(t, err)

	first := filepath.Join(dir, report.FileName(1e-4))
	second := filepath.Join(dir, report.FileName(2e-4))
	assert.Equal(t, first+"\n"+second+"\n", out)
	for _, p := range []string{first, second, plotName(first), plotName(second)} {
		_, err := os.Stat(p)
		assert.NoError(t, err, p)
	}

	out, _, err = execute(t, "profile", "--config", fname, "--log-level", "error", first, second)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "file"))
	assert.True(t, strings.HasPrefix(lines[1], first))
	assert.Contains(t, lines[1], "0.0001")

	_, _, err = execute(t, "profile", "--config", fname, filepath.Join(dir, "profile.dat"))
	assert.Error(t, err)
	_, _, err = execute(t, "profile", "--config", fname)
	assert.Error(t, err)
}
