package cvt

import "errors"

// Sentinel errors returned (wrapped) by the package. Match them with errors.Is.
var (
	// ErrInvalidInput reports malformed points, nodes, grids or masks.
	ErrInvalidInput = errors.New("cvt: invalid input")

	// ErrConvergence reports that Lloyd's iteration hit MaxIterations
	// before the node displacement dropped to Epsilon.
	ErrConvergence = errors.New("cvt: tessellation did not converge")

	// ErrPrecondition reports a grid-dependent operation invoked before
	// a pixel grid was configured.
	ErrPrecondition = errors.New("cvt: precondition not met")

	// ErrState reports derived state that could not be (re)built.
	ErrState = errors.New("cvt: inconsistent state")
)
