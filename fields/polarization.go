package fields

// Polarization is the dispersive-material collaborator. Its call-outs are
// invoked in a fixed order relative to the H and E updates:
//
//	H update, H sources, H exchange
//	PrepareStepEnergy, HalfStepEnergy
//	E update, E sources, StepE
//	E exchange
//	HalfStepEnergy, UpdateSaturation, StepItself
type Polarization interface {
	PrepareStepEnergy()
	HalfStepEnergy()
	StepE()
	UpdateSaturation()
	StepItself()
}

// NoPolarization is used for non-dispersive runs
type NoPolarization struct{}

func (NoPolarization) PrepareStepEnergy() {}
func (NoPolarization) HalfStepEnergy()    {}
func (NoPolarization) StepE()             {}
func (NoPolarization) UpdateSaturation()  {}
func (NoPolarization) StepItself()        {}
