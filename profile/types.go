// Package profile implements StepKinematics (C8), DiveStep (C9) and
// ProfileBuilder (C10): the state machine that assembles an ordered
// sequence of DiveSteps from Parameters + GasList + SetPoints +
// (depth, time, mode), driving the TissueModel segment by segment. The
// overall shape — a plan object exposing a slice of immutable row structs,
// a Runtime()-style roll-up, and per-segment gas-consumption helpers — is
// generalized from the teacher's diveplanner.go (DivePlan/DivePlanStop),
// whose single-mix recreational model becomes the multi-gas, multi-mode
// OC/CC/Bailout technical model here.
package profile

import (
	"github.com/m5lapp/decoplanner/gas"
	"github.com/m5lapp/decoplanner/tissue"
)

// Phase identifies what kind of segment a DiveStep represents.
type Phase int

const (
	PhaseDescent Phase = iota
	PhaseBottom
	PhaseAscent
	PhaseStop
	PhaseDecoStop
	PhaseSurface
)

func (p Phase) String() string {
	switch p {
	case PhaseDescent:
		return "Descent"
	case PhaseBottom:
		return "Bottom"
	case PhaseAscent:
		return "Ascent"
	case PhaseStop:
		return "Stop"
	case PhaseDecoStop:
		return "DecoStop"
	case PhaseSurface:
		return "Surface"
	default:
		return "Unknown"
	}
}

// Mode identifies the breathing-mode in force for a DiveStep.
type Mode int

const (
	OC Mode = iota
	CC
	Bailout
)

func (m Mode) String() string {
	switch m {
	case OC:
		return "OC"
	case CC:
		return "CC"
	case Bailout:
		return "Bailout"
	default:
		return "Unknown"
	}
}

// TissueLoad is a (pN2, pHe) snapshot of one compartment for a DiveStep.
type TissueLoad struct {
	PN2 float64
	PHe float64
}

// DiveStep is one row of the profile with all derived physiological fields
// (§3).
type DiveStep struct {
	Phase      Phase
	Mode       Mode
	StartDepth float64
	EndDepth   float64
	Time       float64 // minutes
	RunTime    float64 // cumulative minutes since dive start

	PAmbMax float64
	PO2Max  float64

	O2Pct float64
	N2Pct float64
	HePct float64

	GF        float64
	GFSurface float64

	SACRate         float64
	AmbConsumption  float64
	StepConsumption float64

	GasDensity float64

	ENDWithoutO2 float64
	ENDWithO2    float64

	CNSSingle   float64
	CNSMultiple float64
	OTUTotal    float64

	TissueLoads [tissue.CompartmentCount]TissueLoad

	// Gas is the breathing gas in effect for OC/Bailout steps, or the
	// diluent for CC steps. Zero value for steps with no single
	// well-defined gas (never emitted in practice; every step picks one).
	Gas gas.Gas

	// Warning flags a step whose PO2Max exceeded the configured limit for
	// its mode/phase (§8 property 4's "explicitly flagged" escape hatch).
	Warning bool
}
