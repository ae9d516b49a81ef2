package InputParameters

import (
	"fmt"

	"github.com/ghodss/yaml"
)

// BCSpec is one fixed-temperature wall. BCs form an ordered list in the
// YAML file: the later entry wins where edges share a corner node.
type BCSpec struct {
	Edge  string  `yaml:"Edge"`
	Value float64 `yaml:"Value"`
}

// Parameters obtained from the YAML input file
type HeatParameters struct {
	Title         string   `yaml:"Title"`
	Nx            int      `yaml:"Nx"`
	Ny            int      `yaml:"Ny"`
	XMin          float64  `yaml:"XMin"`
	XMax          float64  `yaml:"XMax"`
	YMin          float64  `yaml:"YMin"`
	YMax          float64  `yaml:"YMax"`
	Conductivity  float64  `yaml:"Conductivity"`
	Source        float64  `yaml:"Source"`
	Solver        string   `yaml:"Solver"`
	Tolerance     float64  `yaml:"Tolerance"`
	MaxIterations int      `yaml:"MaxIterations"`
	StrictBCs     bool     `yaml:"StrictBCs"`
	ProcLimit     int      `yaml:"ProcLimit"`
	BCs           []BCSpec `yaml:"BCs"`
}

func (ip *HeatParameters) Parse(data []byte) error {
	return yaml.Unmarshal(data, ip)
}

func (ip *HeatParameters) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", ip.Title)
	fmt.Printf("[%d x %d]\t\t= Elements (Nx x Ny)\n", ip.Nx, ip.Ny)
	fmt.Printf("[%g,%g] x [%g,%g]\t= Domain\n", ip.XMin, ip.XMax, ip.YMin, ip.YMax)
	fmt.Printf("%8.5f\t\t= Conductivity\n", ip.Conductivity)
	fmt.Printf("%8.5f\t\t= Source\n", ip.Source)
	fmt.Printf("[%s]\t\t\t= Solver\n", ip.Solver)
	fmt.Printf("%8.2e\t\t= Tolerance\n", ip.Tolerance)
	fmt.Printf("[%d]\t\t\t= MaxIterations\n", ip.MaxIterations)
	for _, bc := range ip.BCs {
		fmt.Printf("BC[%s] = %g\n", bc.Edge, bc.Value)
	}
}
