package FEM2D

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goheat/goheat/utils"
)

func TestAssembleSingleElement(t *testing.T) {
	// one element: the global system is exactly the local one
	m, err := NewMesh(1, 1, 0, 1, 0, 1)
	require.NoError(t, err)
	sys, err := Assemble(m, ConstCoef(1), ConstCoef(0), 1)
	require.NoError(t, err)
	x, y := m.ElementCoords(0)
	Ke, _, err := ElementMatrices(0, x, y, ConstCoef(1), ConstCoef(0))
	require.NoError(t, err)
	verts := m.ElementNodes(0)
	for a := 0; a < 4; a++ {
		for b := 0; b < 4; b++ {
			assert.True(t, near(sys.A.At(verts[a], verts[b]), Ke.At(a, b), 1.e-14))
		}
	}
}

func TestAssembleOrderInvariance(t *testing.T) {
	var (
		kappa  = func(x, y float64) float64 { return 1 + x + 0.5*y }
		source = func(x, y float64) float64 { return x * y }
	)
	m, err := NewMesh(5, 4, 0, 1, 0, 1)
	require.NoError(t, err)
	sys, err := Assemble(m, kappa, source, 1)
	require.NoError(t, err)

	// re-assemble by hand with a shuffled element visit order
	var (
		A    = utils.NewDOK(m.Np, m.Np)
		B    = utils.NewVector(m.Np)
		perm = rand.New(rand.NewSource(42)).Perm(m.K)
	)
	for _, k := range perm {
		x, y := m.ElementCoords(k)
		Ke, Fe, eErr := ElementMatrices(k, x, y, kappa, source)
		require.NoError(t, eErr)
		verts := m.ElementNodes(k)
		for a := 0; a < 4; a++ {
			for b := 0; b < 4; b++ {
				A.Accumulate(verts[a], verts[b], Ke.At(a, b))
			}
			B.AddAt(verts[a], Fe.AtVec(a))
		}
	}
	for i := 0; i < m.Np; i++ {
		for j := 0; j < m.Np; j++ {
			assert.True(t, near(sys.A.At(i, j), A.At(i, j), 1.e-12))
		}
		assert.True(t, near(sys.B.AtVec(i), B.AtVec(i), 1.e-12))
	}
}

func TestAssembleParallelMatchesSerial(t *testing.T) {
	m, err := NewMesh(8, 7, 0, 2, 0, 1)
	require.NoError(t, err)
	serial, err := Assemble(m, ConstCoef(2), ConstCoef(1), 1)
	require.NoError(t, err)
	parallel, err := Assemble(m, ConstCoef(2), ConstCoef(1), 4)
	require.NoError(t, err)
	for i := 0; i < m.Np; i++ {
		for j := 0; j < m.Np; j++ {
			assert.Equal(t, serial.A.At(i, j), parallel.A.At(i, j))
		}
		assert.Equal(t, serial.B.AtVec(i), parallel.B.AtVec(i))
	}
}

func TestApplyDirichlet(t *testing.T) {
	{ // symmetric elimination keeps the matrix symmetric
		m, err := NewMesh(3, 3, 0, 1, 0, 1)
		require.NoError(t, err)
		sys, err := Assemble(m, ConstCoef(1), ConstCoef(1), 1)
		require.NoError(t, err)
		err = sys.ApplyDirichlet([]Constraint{
			{Set: m.EdgeSet(MinJ), Value: 1},
			{Set: m.EdgeSet(MaxJ), Value: 0},
		}, false)
		require.NoError(t, err)
		for i := 0; i < m.Np; i++ {
			for j := i + 1; j < m.Np; j++ {
				assert.True(t, near(sys.A.At(i, j), sys.A.At(j, i), 1.e-14))
			}
		}
		// constrained rows became identity equations
		for _, node := range m.EdgeSet(MinJ).Index() {
			assert.Equal(t, 1., sys.A.At(node, node))
			assert.Equal(t, 1., sys.B.AtVec(node))
		}
		assert.Equal(t, 2*(m.Nx+1), sys.NumConstrained())
	}
	{ // corner shared by MinJ and MinI: last-applied wins, conflict recorded
		m, err := NewMesh(1, 1, 0, 1, 0, 1)
		require.NoError(t, err)
		sys, err := Assemble(m, ConstCoef(1), ConstCoef(0), 1)
		require.NoError(t, err)
		err = sys.ApplyDirichlet([]Constraint{
			{Set: m.EdgeSet(MinJ), Value: 1},
			{Set: m.EdgeSet(MinI), Value: 2},
		}, false)
		require.NoError(t, err)
		require.Len(t, sys.Conflicts(), 1)
		conflict := sys.Conflicts()[0]
		assert.Equal(t, 0, conflict.Node)
		assert.Equal(t, 1., conflict.Prior)
		assert.Equal(t, 2., conflict.Applied)
		assert.Equal(t, 2., sys.B.AtVec(0))
	}
	{ // the same overlap in strict mode is an error naming both values
		m, _ := NewMesh(1, 1, 0, 1, 0, 1)
		sys, err := Assemble(m, ConstCoef(1), ConstCoef(0), 1)
		require.NoError(t, err)
		err = sys.ApplyDirichlet([]Constraint{
			{Set: m.EdgeSet(MinJ), Value: 1},
			{Set: m.EdgeSet(MinI), Value: 2},
		}, true)
		assert.True(t, errors.Is(err, ErrInconsistentConstraint))
		assert.Contains(t, err.Error(), "node 0")
	}
	{ // equal values at the shared corner are not a conflict
		m, _ := NewMesh(1, 1, 0, 1, 0, 1)
		sys, err := Assemble(m, ConstCoef(1), ConstCoef(0), 1)
		require.NoError(t, err)
		err = sys.ApplyDirichlet([]Constraint{
			{Set: m.EdgeSet(MinJ), Value: 1},
			{Set: m.EdgeSet(MinI), Value: 1},
		}, true)
		require.NoError(t, err)
		assert.Empty(t, sys.Conflicts())
	}
	{ // constraints are one-shot per system
		m, _ := NewMesh(1, 1, 0, 1, 0, 1)
		sys, err := Assemble(m, ConstCoef(1), ConstCoef(0), 1)
		require.NoError(t, err)
		require.NoError(t, sys.ApplyDirichlet([]Constraint{{Set: m.EdgeSet(MinJ), Value: 1}}, false))
		err = sys.ApplyDirichlet([]Constraint{{Set: m.EdgeSet(MaxJ), Value: 0}}, false)
		assert.True(t, errors.Is(err, ErrInvalidConfiguration))
	}
}
