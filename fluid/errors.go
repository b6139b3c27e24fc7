package fluid

import "errors"

var (
	//ErrConfig - rejected configuration, no simulation is built
	ErrConfig = errors.New("fluid: invalid configuration")
	//ErrNonFinite - a particle state went NaN/Inf during a step
	ErrNonFinite = errors.New("fluid: non-finite particle state")
)
