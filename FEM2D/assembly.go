package FEM2D

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/goheat/goheat/utils"
)

// Constraint prescribes a Dirichlet value over a node set.
type Constraint struct {
	Set   NodeSet
	Value float64
}

// Conflict records a node receiving two different prescribed values from
// overlapping boundary sets. Resolution policy is last-applied-wins; the
// conflict itself is always recorded so callers can surface it.
type Conflict struct {
	Node           int
	Prior, Applied float64
	Set            string
}

func (c Conflict) String() string {
	return fmt.Sprintf("node %d: value %g overridden by %g from set %s",
		c.Node, c.Prior, c.Applied, c.Set)
}

// System is the assembled global linear system A u = b over the mesh
// nodes, one degree of freedom per node. Each solve invocation owns its
// own System; a failed invocation corrupts nothing shared.
type System struct {
	Mesh *Mesh
	A    utils.DOK
	B    utils.Vector

	prescribed map[int]float64
	conflicts  []Conflict
	applied    bool
}

type elemContrib struct {
	Ke utils.Matrix
	Fe utils.Vector
}

// Assemble scatter-adds every element's local stiffness and load into the
// global system. Overlapping contributions at shared nodes accumulate
// additively. Element matrices are computed in parallel over contiguous
// element buckets (procLimit goroutines, default NumCPU); the scatter-add
// pass runs single-threaded in ascending element order so the assembled
// system is independent of goroutine scheduling.
func Assemble(m *Mesh, kappa, source CoefFunc, procLimit int) (sys *System, err error) {
	var (
		NP = procLimit
	)
	if NP <= 0 {
		NP = runtime.NumCPU()
	}
	if NP > m.K {
		NP = m.K
	}
	var (
		pm       = utils.NewPartitionMap(NP, m.K)
		contribs = make([]elemContrib, m.K)
		errs     = make([]error, NP)
		wg       = sync.WaitGroup{}
	)
	for np := 0; np < NP; np++ {
		wg.Add(1)
		go func(np int) {
			defer wg.Done()
			kMin, kMax := pm.GetBucketRange(np)
			for k := kMin; k < kMax; k++ {
				x, y := m.ElementCoords(k)
				Ke, Fe, eErr := ElementMatrices(k, x, y, kappa, source)
				if eErr != nil {
					errs[np] = eErr
					return
				}
				contribs[k] = elemContrib{Ke: Ke, Fe: Fe}
			}
		}(np)
	}
	wg.Wait()
	for np := 0; np < NP; np++ {
		if errs[np] != nil {
			err = errs[np]
			return
		}
	}
	sys = &System{
		Mesh:       m,
		A:          utils.NewDOK(m.Np, m.Np),
		B:          utils.NewVector(m.Np),
		prescribed: make(map[int]float64),
	}
	for k := 0; k < m.K; k++ {
		verts := m.ElementNodes(k)
		for a := 0; a < 4; a++ {
			for b := 0; b < 4; b++ {
				sys.A.Accumulate(verts[a], verts[b], contribs[k].Ke.At(a, b))
			}
			sys.B.AddAt(verts[a], contribs[k].Fe.AtVec(a))
		}
	}
	return
}

// ApplyDirichlet imposes the prescribed values by symmetric elimination:
// for each constrained node i with value v, v*column_i is subtracted from
// the unconstrained right-hand-side rows, then row i and column i are
// zeroed, the diagonal set to 1 and b[i] to v. Symmetry of A survives, as
// does positive-definiteness of the unconstrained block.
//
// Constraints are applied in slice order and within a set in ascending
// node order. When overlapping sets prescribe different values at a node
// the last-applied assignment wins; the override is recorded and, with
// strict=true, escalated to ErrInconsistentConstraint.
func (sys *System) ApplyDirichlet(constraints []Constraint, strict bool) (err error) {
	if sys.applied {
		err = fmt.Errorf("%w: dirichlet constraints already applied", ErrInvalidConfiguration)
		return
	}
	for _, c := range constraints {
		for _, node := range c.Set.Index() {
			if node < 0 || node >= sys.Mesh.Np {
				err = fmt.Errorf("%w: constrained node %d outside mesh (Np=%d)",
					ErrInvalidConfiguration, node, sys.Mesh.Np)
				return
			}
			if prior, ok := sys.prescribed[node]; ok && prior != c.Value {
				conflict := Conflict{Node: node, Prior: prior, Applied: c.Value, Set: c.Set.Name}
				sys.conflicts = append(sys.conflicts, conflict)
				if strict {
					err = fmt.Errorf("%w: %s", ErrInconsistentConstraint, conflict)
					return
				}
			}
			sys.prescribed[node] = c.Value
		}
	}
	type entry struct {
		i, j int
		v    float64
	}
	var entries []entry
	sys.A.DoNonZero(func(i, j int, v float64) {
		entries = append(entries, entry{i, j, v})
	})
	for _, e := range entries {
		vj, jCon := sys.prescribed[e.j]
		_, iCon := sys.prescribed[e.i]
		if jCon && !iCon {
			sys.B.AddAt(e.i, -e.v*vj)
		}
		if iCon || jCon {
			sys.A.Set(e.i, e.j, 0)
		}
	}
	for node, val := range sys.prescribed {
		sys.A.Set(node, node, 1)
		sys.B.SetAt(node, val)
	}
	sys.applied = true
	return
}

// NumConstrained returns the count of nodes carrying a Dirichlet value.
func (sys *System) NumConstrained() int {
	return len(sys.prescribed)
}

// Conflicts returns the overridden prescriptions recorded by
// ApplyDirichlet, in application order.
func (sys *System) Conflicts() []Conflict {
	return sys.conflicts
}
