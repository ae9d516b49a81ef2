package FEM2D

import "errors"

// Failure taxonomy for a single solve invocation. All of these are local
// to the invocation that produced them; callers match with errors.Is and
// may retry with corrected inputs.
var (
	// ErrInvalidConfiguration is returned for bad element counts or
	// inverted domain bounds. No partial mesh is built.
	ErrInvalidConfiguration = errors.New("FEM2D: invalid configuration")

	// ErrDegenerateElement is returned when the isoparametric Jacobian
	// determinant is non-positive at a quadrature point.
	ErrDegenerateElement = errors.New("FEM2D: degenerate element")

	// ErrInconsistentConstraint is returned in strict mode when two
	// boundary sets prescribe different values at the same node.
	ErrInconsistentConstraint = errors.New("FEM2D: inconsistent dirichlet constraint")

	// ErrSingularSystem is returned when no Dirichlet constraint pins the
	// additive-constant null space, or a direct factorization fails.
	ErrSingularSystem = errors.New("FEM2D: singular system")

	// ErrConvergenceFailure is returned when the iterative solver exceeds
	// its iteration cap before the residual drops below tolerance.
	ErrConvergenceFailure = errors.New("FEM2D: convergence failure")
)
