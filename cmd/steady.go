/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/pkg/profile"
	"github.com/spf13/cobra"

	"github.com/goheat/goheat/FEM2D"
	"github.com/goheat/goheat/InputParameters"
	"github.com/goheat/goheat/model_problems/Heat2D"
)

type ModelSteady struct {
	ICFile     string
	OutputFile string
	Profile    bool
}

// steadyCmd represents the steady command
var steadyCmd = &cobra.Command{
	Use:   "steady",
	Short: "Steady-state heat conduction solver, reads a YAML case file and outputs nodal temperatures",
	Long:  `Steady-state heat conduction solver, reads a YAML case file and outputs nodal temperatures`,
	Run: func(cmd *cobra.Command, args []string) {
		var (
			err error
		)
		ms := &ModelSteady{}
		if ms.ICFile, err = cmd.Flags().GetString("inputFile"); err != nil {
			panic(err)
		}
		ms.OutputFile, _ = cmd.Flags().GetString("outputFile")
		ms.Profile, _ = cmd.Flags().GetBool("profile")
		ip := processInput(ms)
		RunSteady(ms, ip)
	},
}

func processInput(ms *ModelSteady) (ip *InputParameters.HeatParameters) {
	var (
		err error
	)
	if len(ms.ICFile) == 0 {
		err := fmt.Errorf("must supply a case file (-I, --inputFile) in YAML format")
		fmt.Printf("error: %s\n", err.Error())
		exampleFile := `
########################################
Title: "Unit Square"
Nx: 32
Ny: 32
XMin: 0.
XMax: 1.
YMin: 0.
YMax: 1.
Conductivity: 1.
Source: 0.
Solver: cg
Tolerance: 1.e-10
MaxIterations: 0 # 0 means 10x node count
BCs:
  - Edge: MinJ
    Value: 1.
  - Edge: MaxJ
    Value: 0.
########################################
`
		fmt.Printf("Example File:%s\n", exampleFile)
		os.Exit(1)
	}
	var data []byte
	if data, err = os.ReadFile(ms.ICFile); err != nil {
		panic(err)
	}
	ip = &InputParameters.HeatParameters{
		Conductivity: 1,
		Solver:       "cg",
	}
	if err = ip.Parse(data); err != nil {
		panic(err)
	}
	return
}

func init() {
	rootCmd.AddCommand(steadyCmd)
	steadyCmd.Flags().StringP("inputFile", "I", "", "YAML case file with grid, material and boundary parameters")
	steadyCmd.Flags().StringP("outputFile", "o", "", "write nodal x,y,u rows in CSV form to this file")
	steadyCmd.Flags().BoolP("profile", "p", false, "write a CPU profile for the solve")
}

func RunSteady(ms *ModelSteady, ip *InputParameters.HeatParameters) {
	ip.Print()
	st, err := FEM2D.NewSolverType(ip.Solver)
	if err != nil {
		fmt.Printf("error: %s\n", err.Error())
		os.Exit(1)
	}
	cfg := Heat2D.Config{
		Nx: ip.Nx, Ny: ip.Ny,
		XMin: ip.XMin, XMax: ip.XMax, YMin: ip.YMin, YMax: ip.YMax,
		Conductivity:  FEM2D.ConstCoef(ip.Conductivity),
		Source:        FEM2D.ConstCoef(ip.Source),
		Solver:        st,
		Tolerance:     ip.Tolerance,
		MaxIterations: ip.MaxIterations,
		StrictBCs:     ip.StrictBCs,
		ProcLimit:     ip.ProcLimit,
	}
	for _, bc := range ip.BCs {
		cfg.BCs = append(cfg.BCs, Heat2D.BC{Edge: bc.Edge, Value: bc.Value})
	}
	c, err := Heat2D.NewSteadyHeat(cfg)
	if err != nil {
		fmt.Printf("error: %s\n", err.Error())
		os.Exit(1)
	}
	if ms.Profile {
		defer profile.Start(profile.CPUProfile).Stop()
	}
	start := time.Now()
	if err = c.Solve(); err != nil {
		fmt.Printf("solve failed: %s\n", err.Error())
		os.Exit(1)
	}
	elapsed := time.Since(start)
	for _, conflict := range c.Conflicts {
		fmt.Printf("warning: overlapping boundary sets: %s\n", conflict)
	}
	if c.Stats.Iterations > 0 {
		fmt.Printf("solved %d nodes in %v, %d iterations, residual %8.2e\n",
			c.Mesh.Np, elapsed, c.Stats.Iterations, c.Stats.ResidualNorm)
	} else {
		fmt.Printf("solved %d nodes in %v (direct), residual %8.2e\n",
			c.Mesh.Np, elapsed, c.Stats.ResidualNorm)
	}
	fmt.Printf("temperature range [%g, %g]\n", c.Field.Min(), c.Field.Max())
	if len(ms.OutputFile) != 0 {
		f, err := os.Create(ms.OutputFile)
		if err != nil {
			panic(err)
		}
		defer f.Close()
		if err = c.WriteNodalField(f); err != nil {
			panic(err)
		}
		fmt.Printf("wrote nodal field to %s\n", ms.OutputFile)
	}
}
