package MaxwellCyl

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

// Maxwell steps one azimuthal mode of the fields in a cylindrical volume
type Maxwell struct {
	IP    *InputParameters.InputParametersFDTD
	FS    *fields.FieldSet
	Steps int
	Log   logrus.FieldLogger
}

func NewMaxwell(ip *InputParameters.InputParametersFDTD, tr transport.Transport,
	log logrus.FieldLogger) (c *Maxwell, err error) {
	if log == nil {
		log = logrus.StandardLogger()
	}
	if err = ip.Validate(); err != nil {
		return nil, err
	}
	v := ip.Volume()
	if v.Dim != types.DCyl {
		return nil, fmt.Errorf("MaxwellCyl needs a cylindrical volume, have %v", v.Dim)
	}
	opts := ip.Options()
	opts.Transport, opts.Log = tr, log
	c = &Maxwell{
		IP:    ip,
		Steps: ip.Steps,
		Log:   log.WithFields(logrus.Fields{"model": "MaxwellCyl", "m": v.M}),
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
		"nr":     v.Nr,
		"nz":     v.Nz,
		"chunks": len(c.FS.Chunks()),
		"real":   c.FS.Chunks()[0].IsReal(),
	}).Info("model built")
	return
}

// Run steps the model. There is no live plot for cylindrical runs, the
// arguments are accepted to satisfy the common model interface.
func (c *Maxwell) Run(showGraph bool, graphDelay ...time.Duration) (err error) {
	var (
		logFrequency = 50
		v            = c.FS.Volume()
	)
	if showGraph {
		c.Log.Warn("graphs are only available for 1D models")
	}
	for tstep := 0; tstep < c.Steps; tstep++ {
		if err = c.FS.Step(); err != nil {
			return
		}
		if tstep%logFrequency != 0 && tstep != c.Steps-1 {
			continue
		}
		var maxE, maxH float64
		for _, ft := range []types.FieldType{types.EStuff, types.HStuff} {
			for _, cc := range v.Components(ft) {
				utils.IsNanPanic([][]float64{c.FS.Gather(cc, 0), c.FS.Gather(cc, 1)})
				m := c.FS.MaxAbs(cc)
				if ft == types.EStuff {
					maxE = max(maxE, m)
				} else {
					maxH = max(maxH, m)
				}
			}
		}
		c.Log.WithFields(logrus.Fields{
			"step": tstep,
			"time": fmt.Sprintf("%8.4f", c.FS.Time()),
			"maxE": fmt.Sprintf("%8.6f", maxE),
			"maxH": fmt.Sprintf("%8.6f", maxH),
			"mem":  utils.GetMemUsage(),
		}).Info("stepping")
	}
	return
}
