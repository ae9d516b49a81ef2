package FEM2D

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/goheat/goheat/utils"
)

type SolverType uint

const (
	CG SolverType = iota
	Cholesky
)

var (
	SolverNames = map[string]SolverType{
		"cg":       CG,
		"cholesky": Cholesky,
	}
	SolverPrintNames = []string{"Conjugate Gradient", "Cholesky"}
)

func (st SolverType) Print() (txt string) {
	txt = SolverPrintNames[st]
	return
}

func NewSolverType(label string) (st SolverType, err error) {
	var (
		ok bool
	)
	label = strings.ToLower(strings.TrimSpace(label))
	if st, ok = SolverNames[label]; !ok {
		err = fmt.Errorf("%w: unknown solver %q", ErrInvalidConfiguration, label)
	}
	return
}

// SolveStats reports the work done by a solve.
type SolveStats struct {
	Iterations   int
	ResidualNorm float64
}

// Solve computes u from the constrained system A u = b. The matrix must
// already carry at least one Dirichlet constraint: the pure-Neumann
// operator is singular up to an additive constant, so an unconstrained
// system fails with ErrSingularSystem before any numerical work.
//
// The CG path runs conjugate gradient on the CSR form with a relative
// residual tolerance tol (default 1e-10) and an iteration cap maxIter
// (default 10x the node count); exceeding the cap fails with
// ErrConvergenceFailure carrying the last residual norm. The Cholesky
// path factorizes a dense symmetric promotion of A, suited to small
// systems, and fails with ErrSingularSystem when the factorization
// breaks down.
func (sys *System) Solve(st SolverType, tol float64, maxIter int) (u utils.Vector, stats SolveStats, err error) {
	if !sys.applied || sys.NumConstrained() == 0 {
		err = fmt.Errorf("%w: no dirichlet constraint pins the additive-constant null space",
			ErrSingularSystem)
		return
	}
	if tol <= 0 {
		tol = 1.e-10
	}
	if maxIter <= 0 {
		maxIter = 10 * sys.Mesh.Np
	}
	switch st {
	case Cholesky:
		u, stats, err = sys.solveCholesky()
	case CG:
		fallthrough
	default:
		u, stats, err = sys.solveCG(tol, maxIter)
	}
	return
}

func (sys *System) solveCholesky() (u utils.Vector, stats SolveStats, err error) {
	var (
		csr  = sys.A.ToCSR()
		A    = csr.ToSymDense()
		b    = mat.NewVecDense(sys.B.Len(), sys.B.Copy().Data())
		chol mat.Cholesky
		x    mat.VecDense
	)
	if ok := chol.Factorize(A); !ok {
		err = fmt.Errorf("%w: cholesky factorization failed, matrix is not positive definite",
			ErrSingularSystem)
		return
	}
	if sErr := chol.SolveVecTo(&x, b); sErr != nil {
		err = fmt.Errorf("%w: %v", ErrSingularSystem, sErr)
		return
	}
	u = utils.NewVector(x.Len(), x.RawVector().Data)
	// a direct solve has no iteration count, but the achieved residual
	// still tells the caller how well the factorization did
	var (
		n  = sys.B.Len()
		ax = make([]float64, n)
		r  = make([]float64, n)
	)
	csr.MulVec(u.Data(), ax)
	copy(r, sys.B.Data())
	floats.AddScaled(r, -1, ax)
	if bNorm := floats.Norm(sys.B.Data(), 2); bNorm > 0 {
		stats.ResidualNorm = floats.Norm(r, 2) / bNorm
	}
	return
}

func (sys *System) solveCG(tol float64, maxIter int) (u utils.Vector, stats SolveStats, err error) {
	var (
		A  = sys.A.ToCSR()
		n  = sys.B.Len()
		b  = sys.B.Data()
		x  = make([]float64, n)
		r  = make([]float64, n)
		p  = make([]float64, n)
		ap = make([]float64, n)
	)
	copy(r, b) // x0 = 0 so r0 = b
	copy(p, r)
	var (
		bNorm = floats.Norm(b, 2)
		rsOld = floats.Dot(r, r)
	)
	if bNorm == 0 {
		// zero RHS with constraints applied means u = 0 everywhere
		u = utils.NewVector(n, x)
		return
	}
	for iter := 1; iter <= maxIter; iter++ {
		A.MulVec(p, ap)
		alpha := rsOld / floats.Dot(p, ap)
		floats.AddScaled(x, alpha, p)
		floats.AddScaled(r, -alpha, ap)
		rsNew := floats.Dot(r, r)
		stats.Iterations = iter
		stats.ResidualNorm = floats.Norm(r, 2) / bNorm
		if stats.ResidualNorm < tol {
			u = utils.NewVector(n, x)
			return
		}
		for i := range p {
			p[i] = r[i] + (rsNew/rsOld)*p[i]
		}
		rsOld = rsNew
	}
	err = fmt.Errorf("%w: residual %g above tolerance %g after %d iterations",
		ErrConvergenceFailure, stats.ResidualNorm, tol, stats.Iterations)
	return
}
