package app

import (
	"fmt"

	F "github.com/hoopoe/cmag/fluid"
	V "github.com/hoopoe/cmag/vector"
	jww "github.com/spf13/jwalterweatherman"
	"gopkg.in/gcfg.v1"
)

const (
	ExampleScenarioFile = `[Scenario]

#######################
# Required Parameters #
#######################

# Replaces FluidX/Y/Z, BoundaryOffset, GridX/Y/Z and ParticleRadius with the
# demo channel: 16 x 58 x 1 fluid particles between two walls of 3 layers in
# a 16 x 64 x 4 hash grid, 1 mm of fluid across.
UseDefaultScenario = true

# Speed of sound of the weakly compressible equation of state, p = c^2 (rho -
# rho0). Keep it well above the fastest expected flow speed.
SoundSpeed = 5.77e-4

# Fixed integration step in seconds. A warning is logged when it exceeds the
# viscous and acoustic stability estimate.
TimeStep = 5e-5

#######################
# Optional Parameters #
#######################

# Explicit channel layout, only read when UseDefaultScenario = false.
# Particle counts along x, y (across the channel) and z.
# FluidX = 16
# FluidY = 58
# FluidZ = 1
# Wall layers above and below the fluid.
# BoundaryOffset = 3
# Hash grid cells per axis, each cell is one smoothing length across.
# GridX = 16
# GridY = 64
# GridZ = 4
# Half the lattice spacing.
# ParticleRadius = 8.62e-6

# Driving acceleration. The flow runs along x, which wraps after FluidX particles.
GravityX = 2e-4
# GravityY = 0
# GravityZ = 0

# Dynamic viscosity and rest density, water by default.
Viscosity = 1e-3
RestDensity = 1000

# Smoothing length as a multiple of the lattice spacing.
SmoothingRatio = 1.2

# Wall repulsion strength. Defaults to SoundSpeed^2.
# BoundaryStrength = 3.33e-7

# Goroutines used by the data parallel passes. Defaults to GOMAXPROCS.
# Workers = 4`
)

type ScenarioConfig struct {
	// Required
	UseDefaultScenario   bool
	SoundSpeed, TimeStep float64

	// Optional
	FluidX, FluidY, FluidZ       int
	BoundaryOffset               int
	GridX, GridY, GridZ          int
	ParticleRadius               float64
	GravityX, GravityY, GravityZ float64
	Viscosity, RestDensity       float64
	SmoothingRatio               float64
	BoundaryStrength             float64
	Workers                      int
}

type ScenarioWrapper struct {
	Scenario ScenarioConfig
}

//DefaultScenarioWrapper - every field preset to the demo channel so a file
//only has to name what it changes
func DefaultScenarioWrapper() *ScenarioWrapper {
	cfg := F.DefaultConfig()
	con := ScenarioConfig{}
	con.FluidX, con.FluidY, con.FluidZ = cfg.FluidSize[0], cfg.FluidSize[1], cfg.FluidSize[2]
	con.GridX, con.GridY, con.GridZ = cfg.GridSize[0], cfg.GridSize[1], cfg.GridSize[2]
	con.BoundaryOffset = cfg.BoundaryOffset
	con.ParticleRadius = cfg.ParticleRadius
	con.GravityX, con.GravityY, con.GravityZ = cfg.Gravity[0], cfg.Gravity[1], cfg.Gravity[2]
	con.SoundSpeed = cfg.SoundSpeed
	con.TimeStep = cfg.TimeStep
	con.Viscosity = cfg.Viscosity
	con.RestDensity = cfg.RestDensity
	con.SmoothingRatio = cfg.SmoothingRatio
	return &ScenarioWrapper{con}
}

func (con *ScenarioConfig) ValidSoundSpeed() bool {
	return con.SoundSpeed > 0
}
func (con *ScenarioConfig) ValidTimeStep() bool {
	return con.TimeStep > 0
}
func (con *ScenarioConfig) ValidFluid() bool {
	return con.FluidX > 0 && con.FluidY > 0 && con.FluidZ > 0
}
func (con *ScenarioConfig) ValidGrid() bool {
	return con.GridX > 0 && con.GridY > 0 && con.GridZ > 0
}
func (con *ScenarioConfig) ValidBoundaryOffset() bool {
	return con.BoundaryOffset >= 0
}
func (con *ScenarioConfig) ValidParticleRadius() bool {
	return con.ParticleRadius > 0
}
func (con *ScenarioConfig) ValidWorkers() bool {
	return con.Workers >= 0
}

//CheckInit - reports the first invalid value by its file name, then lets the
//engine check the layout against the grid
func (con *ScenarioConfig) CheckInit() error {
	switch {
	case !con.ValidSoundSpeed():
		return fmt.Errorf("%w: invalid/non-existent 'SoundSpeed' value %g", F.ErrConfig, con.SoundSpeed)
	case !con.ValidTimeStep():
		return fmt.Errorf("%w: invalid/non-existent 'TimeStep' value %g", F.ErrConfig, con.TimeStep)
	case !con.ValidWorkers():
		return fmt.Errorf("%w: invalid 'Workers' value %d", F.ErrConfig, con.Workers)
	}

	if !con.UseDefaultScenario {
		switch {
		case !con.ValidFluid():
			return fmt.Errorf("%w: 'FluidX', 'FluidY' and 'FluidZ' must be positive, got %d %d %d",
				F.ErrConfig, con.FluidX, con.FluidY, con.FluidZ)
		case !con.ValidGrid():
			return fmt.Errorf("%w: 'GridX', 'GridY' and 'GridZ' must be positive, got %d %d %d",
				F.ErrConfig, con.GridX, con.GridY, con.GridZ)
		case !con.ValidBoundaryOffset():
			return fmt.Errorf("%w: invalid 'BoundaryOffset' value %d", F.ErrConfig, con.BoundaryOffset)
		case !con.ValidParticleRadius():
			return fmt.Errorf("%w: invalid 'ParticleRadius' value %g", F.ErrConfig, con.ParticleRadius)
		}
	}
	return con.Config(nil).Validate()
}

//Config - engine construction parameters, log may be nil
func (con *ScenarioConfig) Config(log *jww.Notepad) F.Config {
	return F.Config{
		FluidSize:          [3]int{con.FluidX, con.FluidY, con.FluidZ},
		BoundaryOffset:     con.BoundaryOffset,
		GridSize:           [3]int{con.GridX, con.GridY, con.GridZ},
		ParticleRadius:     con.ParticleRadius,
		Gravity:            V.Vec3{con.GravityX, con.GravityY, con.GravityZ},
		SoundSpeed:         con.SoundSpeed,
		TimeStep:           con.TimeStep,
		UseDefaultScenario: con.UseDefaultScenario,
		Viscosity:          con.Viscosity,
		RestDensity:        con.RestDensity,
		SmoothingRatio:     con.SmoothingRatio,
		BoundaryStrength:   con.BoundaryStrength,
		Workers:            con.Workers,
		Log:                log,
	}
}

//ReadScenario - reads and checks a [Scenario] file
func ReadScenario(fname string) (*ScenarioConfig, error) {
	wrap := DefaultScenarioWrapper()
	if err := gcfg.ReadFileInto(wrap, fname); err != nil {
		return nil, fmt.Errorf("reading %s: %w", fname, err)
	}
	con := &wrap.Scenario
	if err := con.CheckInit(); err != nil {
		return nil, fmt.Errorf("%s: %w", fname, err)
	}
	return con, nil
}

//ParseScenario - ReadScenario for an in-memory file
func ParseScenario(text string) (*ScenarioConfig, error) {
	wrap := DefaultScenarioWrapper()
	if err := gcfg.ReadStringInto(wrap, text); err != nil {
		return nil, err
	}
	con := &wrap.Scenario
	if err := con.CheckInit(); err != nil {
		return nil, err
	}
	return con, nil
}
