package fluid

import (
	"fmt"
	"io"
	"runtime"

	G "github.com/hoopoe/cmag/geometry"
	V "github.com/hoopoe/cmag/vector"
	jww "github.com/spf13/jwalterweatherman"
)

//Canonical demo channel: 58 fluid rows between two 3 layer walls, the whole
//channel 1e-3 (fluid height) across.
const (
	DEFAULT_OFFSET          = 3
	DEFAULT_REST_DENSITY    = 1000.0
	DEFAULT_VISCOSITY       = 1e-3
	DEFAULT_SOUND_SPEED     = 5.77e-4
	DEFAULT_TIME_STEP       = 5e-5
	DEFAULT_SMOOTHING_RATIO = 1.2
)

var (
	DEFAULT_GRID    = [3]int{16, 64, 4}
	DEFAULT_FLUID   = [3]int{16, 64 - 2*DEFAULT_OFFSET, 1}
	DEFAULT_GRAVITY = V.Vec3{2e-4, 0, 0}
	DEFAULT_RADIUS  = 1.0 / (2 * float64(64-2*DEFAULT_OFFSET) * 1000)
)

//Config - construction parameters of a ChannelFlow. Zero RestDensity,
//Viscosity, SmoothingRatio, BoundaryStrength and Workers fall back to the
//defaults; Log may be nil.
type Config struct {
	FluidSize          [3]int
	BoundaryOffset     int
	GridSize           [3]int
	ParticleRadius     float64
	Gravity            V.Vec3
	SoundSpeed         float64
	TimeStep           float64
	UseDefaultScenario bool //replace the layout fields with the demo channel

	Viscosity        float64
	RestDensity      float64
	SmoothingRatio   float64 //h = SmoothingRatio * 2 * ParticleRadius
	BoundaryStrength float64 //defaults to SoundSpeed^2
	Workers          int
	Log              *jww.Notepad
}

//DefaultConfig - the canonical Poiseuille demo channel
func DefaultConfig() Config {
	return Config{
		FluidSize:      DEFAULT_FLUID,
		BoundaryOffset: DEFAULT_OFFSET,
		GridSize:       DEFAULT_GRID,
		ParticleRadius: DEFAULT_RADIUS,
		Gravity:        DEFAULT_GRAVITY,
		SoundSpeed:     DEFAULT_SOUND_SPEED,
		TimeStep:       DEFAULT_TIME_STEP,
		Viscosity:      DEFAULT_VISCOSITY,
		RestDensity:    DEFAULT_REST_DENSITY,
		SmoothingRatio: DEFAULT_SMOOTHING_RATIO,
	}
}

//DiscardLog - notepad that drops everything, used when Config.Log is nil
func DiscardLog() *jww.Notepad {
	return jww.NewNotepad(jww.LevelCritical, jww.LevelCritical, io.Discard, io.Discard, "", 0)
}

//resolve fills defaults and applies UseDefaultScenario
func (c Config) resolve() Config {
	if c.UseDefaultScenario {
		c.FluidSize = DEFAULT_FLUID
		c.BoundaryOffset = DEFAULT_OFFSET
		c.GridSize = DEFAULT_GRID
		c.ParticleRadius = DEFAULT_RADIUS
	}
	if c.RestDensity == 0 {
		c.RestDensity = DEFAULT_REST_DENSITY
	}
	if c.Viscosity == 0 {
		c.Viscosity = DEFAULT_VISCOSITY
	}
	if c.SmoothingRatio == 0 {
		c.SmoothingRatio = DEFAULT_SMOOTHING_RATIO
	}
	if c.BoundaryStrength == 0 {
		c.BoundaryStrength = c.SoundSpeed * c.SoundSpeed
	}
	if c.Workers <= 0 {
		c.Workers = runtime.GOMAXPROCS(0)
	}
	if c.Log == nil {
		c.Log = DiscardLog()
	}
	return c
}

//Validate - checks a resolved config, every failure wraps ErrConfig
func (c Config) Validate() error {
	c = c.resolve()

	for i, n := range c.FluidSize {
		if n < 1 {
			return fmt.Errorf("%w: fluid size %v has zero particles along axis %d", ErrConfig, c.FluidSize, i)
		}
	}
	for i, n := range c.GridSize {
		if n < 1 {
			return fmt.Errorf("%w: grid size %v is empty along axis %d", ErrConfig, c.GridSize, i)
		}
	}
	switch {
	case c.BoundaryOffset < 0:
		return fmt.Errorf("%w: negative boundary offset %d", ErrConfig, c.BoundaryOffset)
	case !(c.ParticleRadius > 0):
		return fmt.Errorf("%w: particle radius %g must be positive", ErrConfig, c.ParticleRadius)
	case !(c.TimeStep > 0):
		return fmt.Errorf("%w: time step %g must be positive", ErrConfig, c.TimeStep)
	case !(c.SoundSpeed > 0):
		return fmt.Errorf("%w: sound speed %g must be positive", ErrConfig, c.SoundSpeed)
	case !(c.RestDensity > 0):
		return fmt.Errorf("%w: rest density %g must be positive", ErrConfig, c.RestDensity)
	case c.Viscosity < 0:
		return fmt.Errorf("%w: negative viscosity %g", ErrConfig, c.Viscosity)
	case !(c.SmoothingRatio > 0):
		return fmt.Errorf("%w: smoothing ratio %g must be positive", ErrConfig, c.SmoothingRatio)
	case c.BoundaryStrength < 0:
		return fmt.Errorf("%w: negative boundary strength %g", ErrConfig, c.BoundaryStrength)
	case !V.IsFinite3(c.Gravity):
		return fmt.Errorf("%w: gravity %v is not finite", ErrConfig, c.Gravity)
	}

	channel := c.channel()
	if period := channel.Period(); period.Length <= 2*c.smoothingRadius() {
		return fmt.Errorf("%w: channel length %g along the periodic x axis must exceed twice the smoothing radius %g",
			ErrConfig, period.Length, c.smoothingRadius())
	}
	grid := G.InitBox(channel.Origin, c.extent())
	if !grid.Encloses(channel.Bounds()) {
		return fmt.Errorf("%w: channel %v does not fit grid %v of cell %g (%s outside %s)",
			ErrConfig, channel.Layers(), c.GridSize, c.smoothingRadius(), channel.Bounds(), grid)
	}
	return nil
}

func (c Config) spacing() float64 {
	return 2 * c.ParticleRadius
}

func (c Config) smoothingRadius() float64 {
	return c.SmoothingRatio * c.spacing()
}

func (c Config) channel() G.Channel {
	return G.InitChannel(c.FluidSize, c.BoundaryOffset, c.spacing())
}

func (c Config) extent() V.Vec3 {
	h := c.smoothingRadius()
	return V.Vec3{float64(c.GridSize[0]) * h, float64(c.GridSize[1]) * h, float64(c.GridSize[2]) * h}
}

//parameters - everything but the mass which needs the initial layout
func (c Config) parameters() Parameters {
	p := Parameters{}
	p.Viscosity = c.Viscosity
	p.Radius = c.ParticleRadius
	p.Spacing = c.spacing()
	p.SmoothingRadius = c.smoothingRadius()
	p.RestDensity = c.RestDensity
	p.SpeedSound = c.SoundSpeed
	p.Stiffness = c.SoundSpeed * c.SoundSpeed
	p.BoundaryStrength = c.BoundaryStrength
	p.TimeStep = c.TimeStep
	p.Gravity = c.Gravity
	p.FluidSize = c.FluidSize
	p.BoundaryOffset = c.BoundaryOffset
	p.GridSize = c.GridSize
	p.Origin = c.channel().Origin
	p.Extent = c.extent()
	p.Workers = c.Workers
	return p
}
