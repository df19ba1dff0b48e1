// Package params holds the configuration struct (C2): gradient factors,
// PpO2 limits, SAC rates, warning thresholds and ascent/descent rates. It is
// a read-only value snapshot passed into a build; nothing in this package
// mutates global state, matching §5's "lift global state to explicit
// context structs" design note.
package params

import "github.com/m5lapp/decoplanner/env"

// Phase identifies which part of a dive a PpO2 limit or rate applies to.
type Phase int

const (
	PhaseBottom Phase = iota
	PhaseDeco
	PhaseDiluent
)

// Parameters is the full configuration snapshot consumed by a DivePlan
// build. Field names mirror §6's documented defaults.
type Parameters struct {
	// Atmosphere is the surface pressure / water density reference.
	Atmosphere env.Atmosphere

	// GFLo and GFHi are the gradient factors applied at the first deco
	// depth and at the surface, respectively (e.g. 0.30 / 0.70).
	GFLo float64
	GFHi float64

	// PpO2MaxBottom, PpO2MaxDeco and PpO2MinDeco bound the inspired PpO2
	// for the bottom/travel phase and the deco phase.
	PpO2MaxBottom float64
	PpO2MaxDeco   float64
	PpO2MinDeco   float64

	// MaxPpO2Diluent is the fallback PpO2 used by SetPoints.EffectiveSetpoint
	// when the setpoint list is empty (§3, §8 S6).
	MaxPpO2Diluent float64

	// SACRateBottom and SACRateDeco are Surface Air Consumption rates in
	// litres/min at 1 bar for the working and decompression phases.
	SACRateBottom float64
	SACRateDeco   float64

	// WarningDensity is the gas density in g/L above which a step is
	// flagged (narcosis/work-of-breathing warning threshold).
	WarningDensity float64

	// ENDLimit is the configured Equivalent Narcotic Depth limit in metres
	// used by bestGasForDepth.
	ENDLimit float64
	// O2Narcotic indicates whether Oxygen is treated as narcotic when
	// computing END (true matches most technical-diving conventions).
	O2Narcotic bool

	// AscentRate and DescentRate are in metres/minute.
	AscentRate  float64
	DescentRate float64

	// StopInterval is the depth spacing between decompression stops,
	// typically 3m.
	StopInterval float64

	// MaxStopMinutes bounds how long a single deco stop may be extended
	// while searching for a ceiling-reducing duration before the build is
	// considered unplannable (§4.2 failure modes).
	MaxStopMinutes int

	// TankFillPressure is the tank filling pressure in bar and
	// ReserveMultiplier the contingency factor applied to a gas requirement,
	// inputs for metrics.TankEndPressure and metrics.ReserveRequirement.
	// Neither is read during a build.
	TankFillPressure float64
	ReserveMultiplier float64
}

// Default returns the documented default configuration from §6: GF 30/70,
// PpO2 1.4/1.6/0.7, SAC 20 L/min bottom and 15 L/min deco, warning density
// 6.3 g/L, END limit 30m,
// ascent 9 m/min, descent 18 m/min.
func Default() Parameters {
	return Parameters{
		Atmosphere:        env.Standard(),
		GFLo:              0.30,
		GFHi:              0.70,
		PpO2MaxBottom:     1.4,
		PpO2MaxDeco:       1.6,
		PpO2MinDeco:       0.7,
		MaxPpO2Diluent:    1.3,
		SACRateBottom:     20.0,
		SACRateDeco:       15.0,
		WarningDensity:    6.3,
		ENDLimit:          30.0,
		O2Narcotic:        true,
		AscentRate:        9.0,
		DescentRate:       18.0,
		StopInterval:      3.0,
		MaxStopMinutes:    200,
		TankFillPressure:  232.0,
		ReserveMultiplier: 1.5,
	}
}

// PpO2LimitFor returns the configured maximum PpO2 for the given phase, used
// by Gas.MOD and planner.BestGasForDepth.
func (p Parameters) PpO2LimitFor(phase Phase) float64 {
	switch phase {
	case PhaseDeco:
		return p.PpO2MaxDeco
	case PhaseDiluent:
		return p.MaxPpO2Diluent
	default:
		return p.PpO2MaxBottom
	}
}

// SACRateFor returns the configured SAC rate for bottom vs. deco phases.
func (p Parameters) SACRateFor(deco bool) float64 {
	if deco {
		return p.SACRateDeco
	}
	return p.SACRateBottom
}
