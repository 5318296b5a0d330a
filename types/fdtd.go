package types

import "fmt"

type Component uint8

const (
	Ex Component = iota
	Ey
	Er
	Ep
	Ez
	Hx
	Hy
	Hr
	Hp
	Hz
	NumComponents = 10
)

var componentNames = [NumComponents]string{
	"Ex", "Ey", "Er", "Ep", "Ez", "Hx", "Hy", "Hr", "Hp", "Hz",
}

func (c Component) String() string {
	if int(c) < NumComponents {
		return componentNames[c]
	}
	return fmt.Sprintf("Component(%d)", c)
}

func (c Component) FieldType() FieldType {
	switch c {
	case Ex, Ey, Er, Ep, Ez:
		return EStuff
	case Hx, Hy, Hr, Hp, Hz:
		return HStuff
	}
	panic(fmt.Sprintf("no such component: %d", c))
}

func (c Component) IsElectric() bool { return c.FieldType() == EStuff }
func (c Component) IsMagnetic() bool { return c.FieldType() == HStuff }

// HalfZ reports whether the component sits on the half-integer z lattice.
// Those components are updated on [0,nz) and receive their halo at z=nz;
// the others are updated on [1,nz] and receive their halo at z=0.
func HalfZ(c Component) bool {
	switch c {
	case Hy, Hr, Hp, Ez, Hx, Ey:
		return true
	}
	return false
}

// ComponentNameMap parses component names as written in input files
var ComponentNameMap = map[string]Component{
	"ex": Ex, "ey": Ey, "er": Er, "ep": Ep, "ez": Ez,
	"hx": Hx, "hy": Hy, "hr": Hr, "hp": Hp, "hz": Hz,
}

type FieldType uint8

const (
	EStuff FieldType = iota
	HStuff
	NumFieldTypes = 2
)

func (ft FieldType) String() string {
	switch ft {
	case EStuff:
		return "E"
	case HStuff:
		return "H"
	}
	return fmt.Sprintf("FieldType(%d)", ft)
}

type ConnectType uint8

const (
	Outgoing ConnectType = iota
	Incoming
	NumConnectTypes = 2
)

type Dimension uint8

const (
	D1 Dimension = iota + 1
	DCyl
)

func (d Dimension) String() string {
	switch d {
	case D1:
		return "1D"
	case DCyl:
		return "cyl"
	}
	return fmt.Sprintf("Dimension(%d)", d)
}

var DimensionNameMap = map[string]Dimension{
	"1d":          D1,
	"d1":          D1,
	"cyl":         DCyl,
	"cylindrical": DCyl,
}

type BoundaryType uint8

const (
	Metal BoundaryType = iota
	Periodic
)

var BoundaryNameMap = map[string]BoundaryType{
	"metal":    Metal,
	"pec":      Metal,
	"periodic": Periodic,
	"bloch":    Periodic,
}
