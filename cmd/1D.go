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
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/notargets/gofdtd/InputParameters"
	"github.com/notargets/gofdtd/model_problems/Maxwell1D"
)

// OneDCmd represents the 1D command
var OneDCmd = &cobra.Command{
	Use:   "1D",
	Short: "One Dimensional Model Problem Solutions",
	Long: `
Launches a Gaussian pulse from the middle of a one dimensional domain
terminated by absorbing layers,

gofdtd 1D -r 20 -c 400 -s 1000 -g`,
	Run: func(cmd *cobra.Command, args []string) {
		m1d := &Model1D{}
		m1d.Resolution, _ = cmd.Flags().GetFloat64("resolution")
		m1d.Cells, _ = cmd.Flags().GetInt("cells")
		m1d.Steps, _ = cmd.Flags().GetInt("steps")
		m1d.Chunks, _ = cmd.Flags().GetInt("chunks")
		m1d.Epsilon, _ = cmd.Flags().GetFloat64("epsilon")
		m1d.Graph, _ = cmd.Flags().GetBool("graph")
		m1d.Parallel, _ = cmd.Flags().GetBool("parallel")
		dr, _ := cmd.Flags().GetInt("delay")
		m1d.Delay = time.Duration(dr) * time.Millisecond
		if err := runModel(func() error { return Run1D(m1d) }); err != nil {
			logrus.Fatal(err)
		}
	},
}

func init() {
	rootCmd.AddCommand(OneDCmd)
	OneDCmd.Flags().Float64P("resolution", "r", 20, "cells per unit length")
	OneDCmd.Flags().IntP("cells", "c", 400, "number of cells along z")
	OneDCmd.Flags().IntP("steps", "s", 1000, "number of time steps")
	OneDCmd.Flags().IntP("chunks", "k", 1, "number of chunks the domain is split into")
	OneDCmd.Flags().Float64P("epsilon", "e", 1, "relative permittivity phased in over the first 100 steps")
	OneDCmd.Flags().BoolP("graph", "g", false, "display a graph while computing solution")
	OneDCmd.Flags().BoolP("parallel", "p", false, "step chunks concurrently")
	OneDCmd.Flags().IntP("delay", "d", 0, "milliseconds of delay for plotting")
}

type Model1D struct {
	Resolution, Epsilon  float64
	Cells, Steps, Chunks int
	Delay                time.Duration
	Graph, Parallel      bool
}

// Input converts the command line settings into model parameters
func (m1d *Model1D) Input() (ip *InputParameters.InputParametersFDTD) {
	ip = &InputParameters.InputParametersFDTD{
		Title:      "1D pulse",
		Dimension:  "1D",
		Resolution: m1d.Resolution,
		Nz:         m1d.Cells,
		Steps:      m1d.Steps,
		NumChunks:  m1d.Chunks,
		Parallel:   m1d.Parallel,
		PML: InputParameters.PMLParameters{
			Thickness: 0.1 * float64(m1d.Cells) / m1d.Resolution,
			Strength:  1,
		},
		Sources: []InputParameters.SourceParameters{{
			Component: "Hy",
			Z:         m1d.Cells / 2,
			Amplitude: [2]float64{1, 0},
			Envelope: InputParameters.EnvelopeParameters{
				Type:      "gaussian",
				Frequency: 1,
				Width:     0.5,
				Peak:      2.5,
			},
		}},
	}
	if m1d.Epsilon != 1 {
		ip.PhaseIn = InputParameters.PhaseInParameters{Steps: 100, Epsilon: m1d.Epsilon}
	}
	return
}

func Run1D(m1d *Model1D) (err error) {
	var c *Maxwell1D.Maxwell
	if c, err = Maxwell1D.NewMaxwell(m1d.Input(), nil, logrus.StandardLogger()); err != nil {
		return
	}
	return c.Run(m1d.Graph, m1d.Delay)
}
