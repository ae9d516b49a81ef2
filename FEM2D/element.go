package FEM2D

import (
	"fmt"
	"math"

	"github.com/goheat/goheat/utils"
)

// CoefFunc evaluates a material or source coefficient at a physical
// location. Conductivity and the heat source are both position-evaluable;
// use ConstCoef for the uniform case.
type CoefFunc func(x, y float64) float64

func ConstCoef(val float64) CoefFunc {
	return func(x, y float64) float64 { return val }
}

// 2x2 Gauss rule on the reference square [-1,1]^2, exact for the bilinear
// products arising from Q1 shape functions on affine cells.
var (
	gaussPts2 = [2]float64{-1. / math.Sqrt(3.), 1. / math.Sqrt(3.)}
	gaussWts2 = [2]float64{1., 1.}
)

// ShapeQ1 evaluates the four bilinear shape functions at reference
// coordinates (r,s), ordered to match the element winding: BL, BR, TR, TL.
func ShapeQ1(r, s float64) (N [4]float64) {
	N[0] = 0.25 * (1. - r) * (1. - s)
	N[1] = 0.25 * (1. + r) * (1. - s)
	N[2] = 0.25 * (1. + r) * (1. + s)
	N[3] = 0.25 * (1. - r) * (1. + s)
	return
}

// GradShapeQ1 evaluates the reference-space gradients of the Q1 shape
// functions at (r,s).
func GradShapeQ1(r, s float64) (dNdr, dNds [4]float64) {
	dNdr[0] = -0.25 * (1. - s)
	dNdr[1] = 0.25 * (1. - s)
	dNdr[2] = 0.25 * (1. + s)
	dNdr[3] = -0.25 * (1. + s)
	dNds[0] = -0.25 * (1. - r)
	dNds[1] = -0.25 * (1. + r)
	dNds[2] = 0.25 * (1. + r)
	dNds[3] = 0.25 * (1. - r)
	return
}

// ElementMatrices computes the 4x4 local stiffness matrix
//
//	Ke[a][b] = Int_elem kappa * (grad Na . grad Nb) dOmega
//
// and the local load vector
//
//	Fe[a] = Int_elem source * Na dOmega
//
// for the quadrilateral with corner coordinates (x,y), using the
// isoparametric Q1 map and 2x2 Gauss quadrature. Axis-aligned rectangles -
// everything NewMesh produces - take a constant-Jacobian fast path. The
// Jacobian determinant must be strictly positive at every quadrature
// point or the element is degenerate (inverted or collapsed) and
// ErrDegenerateElement is returned; k names the offending element.
func ElementMatrices(k int, x, y [4]float64, kappa, source CoefFunc) (Ke utils.Matrix, Fe utils.Vector, err error) {
	Ke = utils.NewMatrix(4, 4)
	Fe = utils.NewVector(4)
	rect := isRectangle(x, y)
	var (
		// constant Jacobian terms, valid only when rect
		cdxdr = 0.5 * (x[1] - x[0])
		cdyds = 0.5 * (y[3] - y[0])
		cdet  = cdxdr * cdyds
	)
	if rect && cdet <= utils.NODETOL {
		err = fmt.Errorf("%w: element %d has non-positive jacobian determinant %g",
			ErrDegenerateElement, k, cdet)
		return
	}
	for qj := 0; qj < 2; qj++ {
		for qi := 0; qi < 2; qi++ {
			var (
				r, s = gaussPts2[qi], gaussPts2[qj]
				N                      = ShapeQ1(r, s)
				dNdr, dNds             = GradShapeQ1(r, s)
				dxdr, dxds, dydr, dyds float64
				xq, yq                 float64
			)
			for a := 0; a < 4; a++ {
				xq += N[a] * x[a]
				yq += N[a] * y[a]
			}
			if rect {
				dxdr, dyds = cdxdr, cdyds
			} else {
				for a := 0; a < 4; a++ {
					dxdr += dNdr[a] * x[a]
					dxds += dNds[a] * x[a]
					dydr += dNdr[a] * y[a]
					dyds += dNds[a] * y[a]
				}
			}
			det := dxdr*dyds - dydr*dxds
			if det <= utils.NODETOL {
				err = fmt.Errorf("%w: element %d has non-positive jacobian determinant %g at quadrature point (%g,%g)",
					ErrDegenerateElement, k, det, r, s)
				return
			}
			var dNdx, dNdy [4]float64
			for a := 0; a < 4; a++ {
				dNdx[a] = (dyds*dNdr[a] - dydr*dNds[a]) / det
				dNdy[a] = (dxdr*dNds[a] - dxds*dNdr[a]) / det
			}
			var (
				kq = kappa(xq, yq)
				hq = source(xq, yq)
				w  = gaussWts2[qi] * gaussWts2[qj] * det
			)
			for a := 0; a < 4; a++ {
				for b := 0; b < 4; b++ {
					Ke.AddAt(a, b, w*kq*(dNdx[a]*dNdx[b]+dNdy[a]*dNdy[b]))
				}
				Fe.AddAt(a, w*hq*N[a])
			}
		}
	}
	return
}

// isRectangle reports whether the corners describe an axis-aligned
// rectangle in the standard CCW winding.
func isRectangle(x, y [4]float64) bool {
	return y[0] == y[1] && y[2] == y[3] &&
		x[0] == x[3] && x[1] == x[2]
}
