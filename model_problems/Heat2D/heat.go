package Heat2D

import (
	"fmt"
	"io"

	"github.com/goheat/goheat/FEM2D"
)

// BC prescribes a fixed temperature on one named domain edge. BCs are
// applied in declaration order; when edges overlap at a corner with
// different values the later declaration wins (see
// FEM2D.System.ApplyDirichlet).
type BC struct {
	Edge  string
	Value float64
}

// Config collects everything one steady conduction solve needs. Nil
// coefficient functions default to unit conductivity and zero source.
type Config struct {
	Nx, Ny                 int
	XMin, XMax, YMin, YMax float64
	Conductivity           FEM2D.CoefFunc
	Source                 FEM2D.CoefFunc
	BCs                    []BC
	Solver                 FEM2D.SolverType
	Tolerance              float64
	MaxIterations          int
	StrictBCs              bool
	ProcLimit              int
}

// SteadyHeat is the staged pipeline for the steady-state heat equation
//
//	-div( k grad u ) = h
//
// on a structured quadrilateral mesh with Dirichlet walls:
// mesh build -> element operators -> global assembly -> constraint
// application -> sparse solve -> nodal field.
type SteadyHeat struct {
	Config
	Mesh      *FEM2D.Mesh
	Field     *FEM2D.Field
	Stats     FEM2D.SolveStats
	Conflicts []FEM2D.Conflict
}

func NewSteadyHeat(cfg Config) (c *SteadyHeat, err error) {
	if cfg.Conductivity == nil {
		cfg.Conductivity = FEM2D.ConstCoef(1)
	}
	if cfg.Source == nil {
		cfg.Source = FEM2D.ConstCoef(0)
	}
	for _, bc := range cfg.BCs {
		if _, err = FEM2D.NewEdgeLocation(bc.Edge); err != nil {
			return
		}
	}
	var mesh *FEM2D.Mesh
	if mesh, err = FEM2D.NewMesh(cfg.Nx, cfg.Ny, cfg.XMin, cfg.XMax, cfg.YMin, cfg.YMax); err != nil {
		return
	}
	c = &SteadyHeat{
		Config: cfg,
		Mesh:   mesh,
		Field:  FEM2D.NewField(mesh),
	}
	// Seed the field with the prescribed wall values so reads before the
	// solve see the boundary state rather than plain zeros.
	for _, bc := range cfg.BCs {
		loc, _ := FEM2D.NewEdgeLocation(bc.Edge)
		c.Field.SetNodes(mesh.EdgeSet(loc), bc.Value)
	}
	return
}

// Solve runs assembly, constraint application and the linear solve, then
// overwrites the Field with the computed temperatures. A failed solve
// leaves no partial result in the Field and the pipeline may be rerun
// with corrected inputs.
func (c *SteadyHeat) Solve() (err error) {
	var sys *FEM2D.System
	if sys, err = FEM2D.Assemble(c.Mesh, c.Conductivity, c.Source, c.ProcLimit); err != nil {
		return
	}
	constraints := make([]FEM2D.Constraint, 0, len(c.BCs))
	for _, bc := range c.BCs {
		loc, _ := FEM2D.NewEdgeLocation(bc.Edge)
		constraints = append(constraints, FEM2D.Constraint{
			Set:   c.Mesh.EdgeSet(loc),
			Value: bc.Value,
		})
	}
	if err = sys.ApplyDirichlet(constraints, c.StrictBCs); err != nil {
		return
	}
	c.Conflicts = sys.Conflicts()
	uVec, stats, err := sys.Solve(c.Solver, c.Tolerance, c.MaxIterations)
	if err != nil {
		return
	}
	c.Stats = stats
	copy(c.Field.Values(), uVec.Data())
	return
}

// WriteNodalField emits one "x,y,u" row per node, the input contract for
// an external renderer.
func (c *SteadyHeat) WriteNodalField(w io.Writer) (err error) {
	if _, err = fmt.Fprintln(w, "x,y,u"); err != nil {
		return
	}
	for node := 0; node < c.Mesh.Np; node++ {
		x, y := c.Mesh.Coords(node)
		if _, err = fmt.Fprintf(w, "%g,%g,%g\n", x, y, c.Field.At(node)); err != nil {
			return
		}
	}
	return
}
