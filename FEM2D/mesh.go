package FEM2D

import (
	"fmt"

	"github.com/goheat/goheat/utils"
)

// Mesh is a structured lattice of axis-aligned quadrilateral (Q1) elements
// covering the rectangular domain [XMin,XMax] x [YMin,YMax]. Nodes are
// numbered row-major: node id for lattice position (i,j) is j*(Nx+1)+i.
// Elements reference their corner nodes counter-clockwise: bottom-left,
// bottom-right, top-right, top-left.
type Mesh struct {
	Nx, Ny                 int // element counts along I and J
	XMin, XMax, YMin, YMax float64
	Np                     int          // number of nodes, (Nx+1)*(Ny+1)
	K                      int          // number of elements, Nx*Ny
	VX, VY                 utils.Vector // node coordinates, length Np
	EToV                   utils.Matrix // element to vertex connectivity, K x 4
}

func NewMesh(nx, ny int, xmin, xmax, ymin, ymax float64) (m *Mesh, err error) {
	if nx < 1 || ny < 1 {
		err = fmt.Errorf("%w: element counts must be >= 1, got nx=%d, ny=%d",
			ErrInvalidConfiguration, nx, ny)
		return
	}
	if xmax <= xmin || ymax <= ymin {
		err = fmt.Errorf("%w: domain bounds must increase, got x=[%g,%g], y=[%g,%g]",
			ErrInvalidConfiguration, xmin, xmax, ymin, ymax)
		return
	}
	var (
		np = (nx + 1) * (ny + 1)
		kk = nx * ny
		dx = (xmax - xmin) / float64(nx)
		dy = (ymax - ymin) / float64(ny)
		vx = make([]float64, np)
		vy = make([]float64, np)
	)
	for j := 0; j <= ny; j++ {
		for i := 0; i <= nx; i++ {
			nid := j*(nx+1) + i
			vx[nid] = xmin + float64(i)*dx
			vy[nid] = ymin + float64(j)*dy
		}
	}
	etov := utils.NewMatrix(kk, 4)
	for j := 0; j < ny; j++ {
		for i := 0; i < nx; i++ {
			k := j*nx + i
			bl := j*(nx+1) + i
			etov.Set(k, 0, float64(bl))
			etov.Set(k, 1, float64(bl+1))
			etov.Set(k, 2, float64(bl+nx+2))
			etov.Set(k, 3, float64(bl+nx+1))
		}
	}
	m = &Mesh{
		Nx: nx, Ny: ny,
		XMin: xmin, XMax: xmax, YMin: ymin, YMax: ymax,
		Np:   np,
		K:    kk,
		VX:   utils.NewVector(np, vx),
		VY:   utils.NewVector(np, vy),
		EToV: etov.SetReadOnly("EToV"),
	}
	return
}

// NodeID maps a lattice position (i,j) to its node index.
func (m *Mesh) NodeID(i, j int) int {
	return j*(m.Nx+1) + i
}

// ElementNodes returns the four corner node indices of element k in
// counter-clockwise winding order.
func (m *Mesh) ElementNodes(k int) (verts [4]int) {
	for n := 0; n < 4; n++ {
		verts[n] = int(m.EToV.At(k, n))
	}
	return
}

// ElementCoords returns the x and y coordinates of element k's corners,
// ordered as in ElementNodes.
func (m *Mesh) ElementCoords(k int) (x, y [4]float64) {
	verts := m.ElementNodes(k)
	for n, v := range verts {
		x[n] = m.VX.AtVec(v)
		y[n] = m.VY.AtVec(v)
	}
	return
}

// Coords returns the coordinates of a single node, used by external
// renderers to map field values to positions.
func (m *Mesh) Coords(node int) (x, y float64) {
	return m.VX.AtVec(node), m.VY.AtVec(node)
}
