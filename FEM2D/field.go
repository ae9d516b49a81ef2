package FEM2D

import "github.com/goheat/goheat/utils"

// Field holds one scalar value per mesh node. It is owned by the caller:
// the solver writes the solution into it but callers may seed boundary
// values beforehand, and reads before a solve return whatever was last
// written.
type Field struct {
	mesh *Mesh
	U    utils.Vector
}

func NewField(m *Mesh) (f *Field) {
	f = &Field{
		mesh: m,
		U:    utils.NewVector(m.Np),
	}
	return
}

func (f *Field) Mesh() *Mesh { return f.mesh }

// At returns the field value at a node index.
func (f *Field) At(node int) float64 {
	return f.U.AtVec(node)
}

// Values exposes the backing slice, indexed by node.
func (f *Field) Values() []float64 {
	return f.U.Data()
}

// SetAll overwrites every node with val.
func (f *Field) SetAll(val float64) {
	f.U.Set(val)
}

// SetNodes overwrites the nodes of set s with val.
func (f *Field) SetNodes(s NodeSet, val float64) {
	for _, node := range s.Index() {
		f.U.SetAt(node, val)
	}
}

func (f *Field) Min() float64 { return f.U.Min() }
func (f *Field) Max() float64 { return f.U.Max() }
