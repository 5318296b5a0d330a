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
	"net"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/notargets/gofdtd/InputParameters"
	"github.com/notargets/gofdtd/model_problems/Maxwell1D"
	"github.com/notargets/gofdtd/model_problems/MaxwellCyl"
	"github.com/notargets/gofdtd/transport"
	"github.com/notargets/gofdtd/types"
)

type ModelRun struct {
	ICFile string
	Rank   int
	Peers  []string
	Graph  bool
	Delay  time.Duration
}

// RunCmd represents the run command
var RunCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a model described by a YAML input file",
	Long: `
Runs the 1D or cylindrical model described by the input file. With --peers,
every process of the run is started with the same peer list and its own rank,

gofdtd run -I guide.yaml --peers host0:7000,host1:7000 --rank 1`,
	Run: func(cmd *cobra.Command, args []string) {
		var (
			err error
			ip  *InputParameters.InputParametersFDTD
		)
		mr := &ModelRun{}
		mr.ICFile, _ = cmd.Flags().GetString("inputConditionsFile")
		mr.Rank, _ = cmd.Flags().GetInt("rank")
		mr.Peers, _ = cmd.Flags().GetStringSlice("peers")
		mr.Graph, _ = cmd.Flags().GetBool("graph")
		dr, _ := cmd.Flags().GetInt("delay")
		mr.Delay = time.Duration(dr) * time.Millisecond
		if ip, err = processInput(mr.ICFile); err != nil {
			fmt.Printf("Example File:%s\n", exampleFile)
			logrus.Fatal(err)
		}
		ip.Print()
		if err = runModel(func() error { return Run(mr, ip) }); err != nil {
			logrus.Fatal(err)
		}
	},
}

const exampleFile = `
########################################
Title: "Dielectric waveguide"
Dimension: cyl
Resolution: 10
Nr: 20
Nz: 200
M: 1
Steps: 2000
NumChunks: 4
PML: {Thickness: 1, Strength: 1, Radial: true}
Sources:
  - Component: Er
    R: 5
    Z: 100
    Amplitude: [1, 0]
    Envelope: {Type: gaussian, Frequency: 0.8, Width: 1, Peak: 5}
########################################
`

func processInput(icFile string) (ip *InputParameters.InputParametersFDTD, err error) {
	var data []byte
	if len(icFile) == 0 {
		return nil, fmt.Errorf("must supply an input parameters file (-I, --inputConditionsFile) in YAML format")
	}
	if data, err = os.ReadFile(icFile); err != nil {
		return
	}
	ip = &InputParameters.InputParametersFDTD{}
	if err = ip.Parse(data); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", icFile, err)
	}
	return
}

func init() {
	rootCmd.AddCommand(RunCmd)
	RunCmd.Flags().StringP("inputConditionsFile", "I", "", "YAML file for input parameters like:\n\t- Dimension\n\t- Resolution\n\t- Sources")
	RunCmd.Flags().IntP("rank", "n", 0, "rank of this process in the peer list")
	RunCmd.Flags().StringSlice("peers", nil, "listen addresses of every process, in rank order")
	RunCmd.Flags().BoolP("graph", "g", false, "display a graph while computing solution")
	RunCmd.Flags().IntP("delay", "d", 0, "milliseconds of delay for plotting")
}

type Model interface {
	Run(graph bool, graphDelay ...time.Duration) error
}

// connect builds the transport of a multi-process run, nil otherwise
func connect(mr *ModelRun) (tr *transport.TCP, err error) {
	if len(mr.Peers) < 2 {
		return nil, nil
	}
	if mr.Rank < 0 || mr.Rank >= len(mr.Peers) {
		return nil, fmt.Errorf("rank %d is not in the peer list %v", mr.Rank, mr.Peers)
	}
	var ln net.Listener
	if ln, err = net.Listen("tcp", mr.Peers[mr.Rank]); err != nil {
		return
	}
	return transport.NewTCP(mr.Rank, ln, mr.Peers, logrus.StandardLogger())
}

func Run(mr *ModelRun, ip *InputParameters.InputParametersFDTD) (err error) {
	var (
		C   Model
		tc  *transport.TCP
		tr  transport.Transport
		log = logrus.StandardLogger()
	)
	if tc, err = connect(mr); err != nil {
		return
	}
	if tc != nil {
		defer tc.Close()
		tr = tc
	}
	switch types.DimensionNameMap[strings.ToLower(ip.Dimension)] {
	case types.DCyl:
		C, err = MaxwellCyl.NewMaxwell(ip, tr, log)
	default:
		C, err = Maxwell1D.NewMaxwell(ip, tr, log)
	}
	if err != nil {
		return
	}
	return C.Run(mr.Graph, mr.Delay)
}
