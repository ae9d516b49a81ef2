package FEM2D

import (
	"fmt"
	"sort"
	"strings"

	"github.com/goheat/goheat/utils"
)

// EdgeLocation names one wall of the rectangular domain by its lattice
// extreme. MinJ is the bottom wall (minimum Y), MaxI the right wall
// (maximum X), and so on. AllWalls is the union of the four edges.
type EdgeLocation uint

const (
	MinJ EdgeLocation = iota
	MaxJ
	MinI
	MaxI
	AllWalls
)

var (
	EdgeNames = map[string]EdgeLocation{
		"minj":     MinJ,
		"bottom":   MinJ,
		"maxj":     MaxJ,
		"top":      MaxJ,
		"mini":     MinI,
		"left":     MinI,
		"maxi":     MaxI,
		"right":    MaxI,
		"allwalls": AllWalls,
		"walls":    AllWalls,
	}
	EdgePrintNames = []string{"MinJ", "MaxJ", "MinI", "MaxI", "AllWalls"}
)

func (loc EdgeLocation) Print() (txt string) {
	txt = EdgePrintNames[loc]
	return
}

func NewEdgeLocation(label string) (loc EdgeLocation, err error) {
	var (
		ok bool
	)
	label = strings.ToLower(strings.TrimSpace(label))
	if loc, ok = EdgeNames[label]; !ok {
		err = fmt.Errorf("%w: unknown edge name %q", ErrInvalidConfiguration, label)
	}
	return
}

// NodeSet is a named set of node indices. Sets have value semantics:
// Union returns a new set and never aliases the operands.
type NodeSet struct {
	Name string
	ids  map[int]struct{}
}

func NewNodeSet(name string, ids ...int) (s NodeSet) {
	s = NodeSet{Name: name, ids: make(map[int]struct{}, len(ids))}
	for _, id := range ids {
		s.ids[id] = struct{}{}
	}
	return
}

func (s NodeSet) Len() int {
	return len(s.ids)
}

func (s NodeSet) Contains(node int) bool {
	_, ok := s.ids[node]
	return ok
}

// Union is commutative and idempotent; duplicate ids collapse.
func (s NodeSet) Union(o NodeSet) (r NodeSet) {
	r = NodeSet{
		Name: s.Name + "+" + o.Name,
		ids:  make(map[int]struct{}, len(s.ids)+len(o.ids)),
	}
	for id := range s.ids {
		r.ids[id] = struct{}{}
	}
	for id := range o.ids {
		r.ids[id] = struct{}{}
	}
	return
}

// Index returns the member node indices in ascending order, so iteration
// over a set is deterministic.
func (s NodeSet) Index() (I utils.Index) {
	I = utils.NewIndex(0)
	for id := range s.ids {
		I = append(I, id)
	}
	sort.Ints(I)
	return
}

// EdgeSet returns the nodes lying on the given domain edge, computed from
// exact lattice indices - no floating point tolerance is involved.
func (m *Mesh) EdgeSet(loc EdgeLocation) (s NodeSet) {
	switch loc {
	case MinJ:
		s = NewNodeSet("MinJ")
		for i := 0; i <= m.Nx; i++ {
			s.ids[m.NodeID(i, 0)] = struct{}{}
		}
	case MaxJ:
		s = NewNodeSet("MaxJ")
		for i := 0; i <= m.Nx; i++ {
			s.ids[m.NodeID(i, m.Ny)] = struct{}{}
		}
	case MinI:
		s = NewNodeSet("MinI")
		for j := 0; j <= m.Ny; j++ {
			s.ids[m.NodeID(0, j)] = struct{}{}
		}
	case MaxI:
		s = NewNodeSet("MaxI")
		for j := 0; j <= m.Ny; j++ {
			s.ids[m.NodeID(m.Nx, j)] = struct{}{}
		}
	case AllWalls:
		s = m.EdgeSet(MinJ).Union(m.EdgeSet(MaxJ)).Union(m.EdgeSet(MinI)).Union(m.EdgeSet(MaxI))
		s.Name = "AllWalls"
	}
	return
}
