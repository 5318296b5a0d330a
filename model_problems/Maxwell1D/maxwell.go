package Maxwell1D

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/notargets/gofdtd/InputParameters"
	"github.com/notargets/gofdtd/fields"
	"github.com/notargets/gofdtd/transport"
	"github.com/notargets/gofdtd/types"
	"github.com/notargets/gofdtd/utils"
)

type Maxwell struct {
	IP    *InputParameters.InputParametersFDTD
	FS    *fields.FieldSet
	Steps int
	Log   logrus.FieldLogger
	chart *utils.LineChart
}

// NewMaxwell builds the 1D field set described by ip. tr may be nil for a
// single process run.
func NewMaxwell(ip *InputParameters.InputParametersFDTD, tr transport.Transport,
	log logrus.FieldLogger) (c *Maxwell, err error) {
	if log == nil {
		log = logrus.StandardLogger()
	}
	if err = ip.Validate(); err != nil {
		return nil, err
	}
	v := ip.Volume()
	if v.Dim != types.D1 {
		return nil, fmt.Errorf("Maxwell1D needs a 1D volume, have %v", v.Dim)
	}
	opts := ip.Options()
	opts.Transport, opts.Log = tr, log
	c = &Maxwell{
		IP:    ip,
		Steps: ip.Steps,
		Log:   log.WithField("model", "Maxwell1D"),
	}
	if c.FS, err = fields.NewFieldSet(v, ip.Material(v), opts); err != nil {
		return nil, err
	}
	if ma := ip.PhaseInMaterial(v); ma != nil {
		if err = c.FS.PhaseIn(ma, ip.PhaseIn.Steps); err != nil {
			return nil, err
		}
	}
	if err = ip.AddSources(c.FS); err != nil {
		return nil, err
	}
	c.Log.WithFields(logrus.Fields{
		"nz":         v.Nz,
		"resolution": v.A,
		"chunks":     len(c.FS.Chunks()),
		"steps":      c.Steps,
	}).Info("model built")
	return
}

func (c *Maxwell) Run(showGraph bool, graphDelay ...time.Duration) (err error) {
	var (
		logFrequency = 50
		v            = c.FS.Volume()
		z            = utils.Linspace(0, 1/v.A, v.Nz+1)
		delay        time.Duration
	)
	if len(graphDelay) != 0 {
		delay = graphDelay[0]
	}
	if showGraph {
		c.chart = utils.NewLineChart(1920, 1280, 0, float64(v.Nz)/v.A, -1, 1)
	}
	for tstep := 0; tstep < c.Steps; tstep++ {
		if err = c.FS.Step(); err != nil {
			return
		}
		if tstep%logFrequency == 0 || tstep == c.Steps-1 {
			ex, hy := c.FS.Gather(types.Ex, 0), c.FS.Gather(types.Hy, 0)
			utils.IsNanPanic([][]float64{ex, hy})
			c.Log.WithFields(logrus.Fields{
				"step":  tstep,
				"time":  fmt.Sprintf("%8.4f", c.FS.Time()),
				"maxEx": fmt.Sprintf("%8.6f", c.FS.MaxAbs(types.Ex)),
				"maxHy": fmt.Sprintf("%8.6f", c.FS.MaxAbs(types.Hy)),
			}).Info("stepping")
		}
		if c.chart != nil {
			c.chart.Plot(delay, z, c.FS.Gather(types.Ex, 0), -0.7, "Ex")
			c.chart.Plot(0, z, c.FS.Gather(types.Hy, 0), 0.7, "Hy")
		}
	}
	return
}
