package app

import (
	"context"
	"errors"
	"testing"

	F "github.com/hoopoe/cmag/fluid"
	U "github.com/hoopoe/cmag/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSPH(t *testing.T) *F.ChannelFlow {
	con, err := ParseScenario(smallScenario)
	require.NoError(t, err)
	sph, err := F.NewChannelFlow(con.Config(nil))
	require.NoError(t, err)
	return sph
}

func TestKeyCommand(t *testing.T) {
	assert.Equal(t, CMD_PAUSE, KeyCommand(' '))
	assert.Equal(t, CMD_STEP, KeyCommand('\r'))
	assert.Equal(t, CMD_RESET, KeyCommand('1'))
	assert.Equal(t, CMD_QUIT, KeyCommand('q'))
	assert.Equal(t, CMD_QUIT, KeyCommand('\033'))
	assert.Equal(t, CMD_NONE, KeyCommand('x'))
}

func TestRunnerFrames(t *testing.T) {
	sph := newSPH(t)
	n := sph.NumParticles()

	var seen []int
	r := NewRunner(sph, func(frame *Frame) error {
		seen = append(seen, frame.Index)
		require.Len(t, frame.Positions, n*U.COMPONENTS)
		require.Len(t, frame.Colors, n*U.COMPONENTS)
		for i, x := range frame.Positions {
			if i%U.COMPONENTS == 3 {
				continue
			}
			assert.True(t, x >= -1 && x <= 1, "component %d = %g", i, x)
		}
		for i := 0; i < n; i++ {
			assert.Equal(t, float32(1), frame.Colors[i*U.COMPONENTS+3])
		}
		assert.Equal(t, frame.Index+1, frame.Stats.Steps)
		return nil
	}, nil)

	require.NoError(t, r.Run(context.Background(), 5))
	assert.Equal(t, []int{0, 1, 2, 3, 4}, seen)
	assert.Equal(t, 5, sph.Steps())
	assert.Equal(t, 5, r.Frames())
}

func TestRunnerCommands(t *testing.T) {
	sph := newSPH(t)
	r := NewRunner(sph, nil, nil)

	r.Send(CMD_PAUSE)
	require.NoError(t, r.Frame())
	assert.True(t, r.Paused())
	assert.Equal(t, 0, sph.Steps())

	r.Send(CMD_STEP)
	r.Send(CMD_STEP)
	require.NoError(t, r.Frame())
	assert.Equal(t, 2, sph.Steps())

	r.Send(CMD_RESET)
	require.NoError(t, r.Frame())
	assert.Equal(t, 0, sph.Steps())
	assert.Equal(t, 0.0, sph.ElapsedTime())
	assert.Equal(t, F.Initialized, sph.State())

	r.Send(CMD_PAUSE)
	require.NoError(t, r.Frame())
	assert.False(t, r.Paused())
	assert.Equal(t, 1, sph.Steps())

	r.Send(CMD_QUIT)
	assert.True(t, errors.Is(r.Frame(), ErrQuit))
	assert.Equal(t, 1, sph.Steps())

	r.Send(CMD_QUIT)
	assert.NoError(t, r.Run(context.Background(), 0))
}

func TestRunnerStops(t *testing.T) {
	sph := newSPH(t)
	stop := errors.New("stop")
	r := NewRunner(sph, func(frame *Frame) error {
		if frame.Index == 2 {
			return stop
		}
		return nil
	}, nil)
	assert.True(t, errors.Is(r.Run(context.Background(), 10), stop))
	assert.Equal(t, 3, sph.Steps())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.True(t, errors.Is(r.Run(ctx, 0), context.Canceled))
	assert.Equal(t, 3, sph.Steps())
}
