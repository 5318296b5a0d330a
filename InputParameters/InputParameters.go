package InputParameters

import (
	"fmt"
	"strings"

	"github.com/ghodss/yaml"
	"go.uber.org/multierr"

	"github.com/notargets/gofdtd/fields"
	"github.com/notargets/gofdtd/grid"
	"github.com/notargets/gofdtd/material"
	"github.com/notargets/gofdtd/types"
)

type PMLParameters struct {
	Thickness float64 `yaml:"Thickness"` // Length units
	Strength  float64 `yaml:"Strength"`
	Radial    bool    `yaml:"Radial"` // Also absorb at the outer radial wall
}

type PhaseInParameters struct {
	Steps   int     `yaml:"Steps"`
	Epsilon float64 `yaml:"Epsilon"`
}

type EnvelopeParameters struct {
	Type      string  `yaml:"Type"` // constant, continuous or gaussian
	Frequency float64 `yaml:"Frequency"`
	Width     float64 `yaml:"Width"`
	Start     float64 `yaml:"Start"`
	Peak      float64 `yaml:"Peak"`
}

type SourceParameters struct {
	Component string             `yaml:"Component"`
	R         int                `yaml:"R"`
	Z         int                `yaml:"Z"`
	Amplitude [2]float64         `yaml:"Amplitude"` // Real, imaginary
	Envelope  EnvelopeParameters `yaml:"Envelope"`
}

// Parameters obtained from the YAML input file
type InputParametersFDTD struct {
	Title      string             `yaml:"Title"`
	Dimension  string             `yaml:"Dimension"`
	Resolution float64            `yaml:"Resolution"` // Cells per unit length
	Nz         int                `yaml:"Nz"`
	Nr         int                `yaml:"Nr"`
	OriginR    float64            `yaml:"OriginR"`
	M          int                `yaml:"M"`
	Steps      int                `yaml:"Steps"`
	NumChunks  int                `yaml:"NumChunks"`
	Parallel   bool               `yaml:"Parallel"`
	Complex    bool               `yaml:"Complex"`
	Boundary   string             `yaml:"Boundary"`
	BlochK     float64            `yaml:"BlochK"`
	Epsilon    float64            `yaml:"Epsilon"`
	PML        PMLParameters      `yaml:"PML"`
	PhaseIn    PhaseInParameters  `yaml:"PhaseIn"`
	Sources    []SourceParameters `yaml:"Sources"`
}

func (ip *InputParametersFDTD) Parse(data []byte) error {
	return yaml.Unmarshal(data, ip)
}

func (ip *InputParametersFDTD) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", ip.Title)
	fmt.Printf("[%s]\t\t\t= Dimension\n", ip.Dimension)
	fmt.Printf("%8.5f\t\t= Resolution\n", ip.Resolution)
	fmt.Printf("[%d, %d]\t\t= Nr, Nz\n", ip.Nr, ip.Nz)
	if ip.dimension() == types.DCyl {
		fmt.Printf("%8.5f\t\t= Origin R\n", ip.OriginR)
		fmt.Printf("[%d]\t\t\t\t= Azimuthal Mode\n", ip.M)
	}
	fmt.Printf("[%d]\t\t\t\t= Steps\n", ip.Steps)
	fmt.Printf("[%d]\t\t\t\t= Chunks\n", ip.NumChunks)
	fmt.Printf("[%s]\t\t\t= Boundary\n", ip.Boundary)
	fmt.Printf("%8.5f\t\t= Epsilon\n", ip.Epsilon)
	if ip.PML.Thickness > 0 {
		fmt.Printf("PML = %+v\n", ip.PML)
	}
	if ip.PhaseIn.Steps > 0 {
		fmt.Printf("PhaseIn = %+v\n", ip.PhaseIn)
	}
	for i, s := range ip.Sources {
		fmt.Printf("Sources[%d] = %+v\n", i, s)
	}
}

func (ip *InputParametersFDTD) dimension() types.Dimension {
	return types.DimensionNameMap[strings.ToLower(ip.Dimension)]
}

func (ip *InputParametersFDTD) boundary() (bt types.BoundaryType, ok bool) {
	if ip.Boundary == "" {
		return types.Metal, true
	}
	bt, ok = types.BoundaryNameMap[strings.ToLower(ip.Boundary)]
	return
}

// Validate reports every problem of the parameters at once
func (ip *InputParametersFDTD) Validate() (err error) {
	if ip.dimension() == 0 {
		err = multierr.Append(err, fmt.Errorf("unknown dimension %q", ip.Dimension))
	} else if verr := ip.Volume().Validate(); verr != nil {
		err = multierr.Append(err, verr)
	}
	if ip.Steps < 0 {
		err = multierr.Append(err, fmt.Errorf("negative step count %d", ip.Steps))
	}
	if ip.NumChunks < 0 || ip.NumChunks > ip.Nz {
		err = multierr.Append(err, fmt.Errorf("cannot split nz = %d into %d chunks", ip.Nz, ip.NumChunks))
	}
	if _, ok := ip.boundary(); !ok {
		err = multierr.Append(err, fmt.Errorf("unknown boundary %q", ip.Boundary))
	}
	if ip.Epsilon < 0 {
		err = multierr.Append(err, fmt.Errorf("negative epsilon %g", ip.Epsilon))
	}
	if ip.PML.Thickness < 0 {
		err = multierr.Append(err, fmt.Errorf("negative PML thickness %g", ip.PML.Thickness))
	}
	if ip.PhaseIn.Steps < 0 || (ip.PhaseIn.Steps > 0 && ip.PhaseIn.Epsilon <= 0) {
		err = multierr.Append(err, fmt.Errorf("phase-in needs positive steps and epsilon, have %+v", ip.PhaseIn))
	}
	v := ip.Volume()
	for i, s := range ip.Sources {
		c, ok := types.ComponentNameMap[strings.ToLower(s.Component)]
		if !ok || !v.HasField(c) {
			err = multierr.Append(err, fmt.Errorf("source %d: no component %q on a %v volume", i, s.Component, v.Dim))
		}
		if _, eerr := s.Envelope.envelope(); eerr != nil {
			err = multierr.Append(err, fmt.Errorf("source %d: %w", i, eerr))
		}
	}
	return
}

func (ip *InputParametersFDTD) Volume() grid.Volume {
	switch ip.dimension() {
	case types.DCyl:
		return grid.NewVolumeCyl(ip.Nr, ip.Nz, ip.Resolution, ip.OriginR, ip.M)
	default:
		v := grid.NewVolume1D(ip.Nz, ip.Resolution)
		v.Dim = ip.dimension()
		return v
	}
}

func (ip *InputParametersFDTD) eps() float64 {
	if ip.Epsilon == 0 {
		return 1
	}
	return ip.Epsilon
}

// Material is the starting material, uniform with the configured absorbing
// layers
func (ip *InputParametersFDTD) Material(v grid.Volume) (ma *material.Material) {
	ma = material.NewUniform(v, ip.eps())
	ip.addPML(v, ma)
	return
}

// PhaseInMaterial is the target of the material transition, nil when none
// is configured
func (ip *InputParametersFDTD) PhaseInMaterial(v grid.Volume) (ma *material.Material) {
	if ip.PhaseIn.Steps == 0 {
		return nil
	}
	ma = material.NewUniform(v, ip.PhaseIn.Epsilon)
	ip.addPML(v, ma)
	return
}

func (ip *InputParametersFDTD) addPML(v grid.Volume, ma *material.Material) {
	if ip.PML.Thickness <= 0 {
		return
	}
	ma.UsePMLZ(v, ip.PML.Thickness, ip.PML.Strength)
	if ip.PML.Radial && v.Dim == types.DCyl {
		ma.UsePMLR(v, ip.PML.Thickness, ip.PML.Strength)
	}
}

func (ip *InputParametersFDTD) Options() fields.Options {
	bt, _ := ip.boundary()
	return fields.Options{
		NumChunks: ip.NumChunks,
		Boundary:  bt,
		BlochK:    ip.BlochK,
		Complex:   ip.Complex,
		Parallel:  ip.Parallel,
	}
}

// AddSources registers the configured sources with fs
func (ip *InputParametersFDTD) AddSources(fs *fields.FieldSet) (err error) {
	for i, s := range ip.Sources {
		var (
			env fields.Envelope
			c   = types.ComponentNameMap[strings.ToLower(s.Component)]
			amp = complex(s.Amplitude[0], s.Amplitude[1])
		)
		if env, err = s.Envelope.envelope(); err != nil {
			return fmt.Errorf("source %d: %w", i, err)
		}
		if err = fs.AddPointSource(c, s.R, s.Z, amp, env); err != nil {
			return fmt.Errorf("source %d: %w", i, err)
		}
	}
	return
}

func (ep EnvelopeParameters) envelope() (fields.Envelope, error) {
	switch strings.ToLower(ep.Type) {
	case "", "constant":
		return fields.Constant{Start: ep.Start}, nil
	case "continuous", "cw":
		return fields.Continuous{Frequency: ep.Frequency, Start: ep.Start, Width: ep.Width}, nil
	case "gaussian":
		if ep.Width <= 0 {
			return nil, fmt.Errorf("gaussian envelope needs a positive width")
		}
		return fields.Gaussian{Frequency: ep.Frequency, Width: ep.Width, Peak: ep.Peak}, nil
	}
	return nil, fmt.Errorf("unknown envelope type %q", ep.Type)
}
