// Package metrics implements the CNS/OTU/gas-consumption roll-ups (C12)
// that annotate each DiveStep: central-nervous-system oxygen toxicity,
// pulmonary oxygen toxicity units, and breathing-gas consumption, plus the
// per-gas end-pressure estimate generalized from the teacher's
// GasAvailable/WorkingGas/MinGas machinery in diveplanner.go.
package metrics

import (
	"math"

	"github.com/m5lapp/decoplanner/env"
)

// cnsTablePoint is one (PpO2, exposure-limit-minutes) anchor of the NOAA
// CNS oxygen-exposure table, used for piecewise-linear interpolation (§4.4).
type cnsTablePoint struct {
	ppO2     float64
	limitMin float64
}

// cnsTable is the standard NOAA single-exposure oxygen time limit table,
// descending by PpO2.
var cnsTable = []cnsTablePoint{
	{1.6, 45}, {1.5, 120}, {1.4, 150}, {1.3, 180}, {1.2, 210},
	{1.1, 240}, {1.0, 300}, {0.9, 360}, {0.8, 450}, {0.7, 570}, {0.6, 720},
}

// CNSTimeLimit returns the exposure-time limit in minutes for a sustained
// PpO2, linearly interpolating between the table's anchor points. Below
// 0.6 bar, CNS is not accrued (returns +Inf, i.e. no limit). Above 1.6 bar,
// the 1.6 bar limit applies (a conservative floor, per NOAA table
// convention of not extrapolating above the charted range).
func CNSTimeLimit(ppO2 float64) float64 {
	if ppO2 < cnsTable[len(cnsTable)-1].ppO2 {
		return math.Inf(1)
	}
	if ppO2 >= cnsTable[0].ppO2 {
		return cnsTable[0].limitMin
	}
	for i := 0; i < len(cnsTable)-1; i++ {
		hi, lo := cnsTable[i], cnsTable[i+1]
		if ppO2 <= hi.ppO2 && ppO2 >= lo.ppO2 {
			frac := (ppO2 - lo.ppO2) / (hi.ppO2 - lo.ppO2)
			return lo.limitMin + frac*(hi.limitMin-lo.limitMin)
		}
	}
	return cnsTable[len(cnsTable)-1].limitMin
}

// CNSDelta returns the fractional CNS clock consumed by breathing ppO2 for
// time minutes: time / T_lim(ppO2) (§4.4).
func CNSDelta(ppO2, time float64) float64 {
	limit := CNSTimeLimit(ppO2)
	if math.IsInf(limit, 1) {
		return 0
	}
	return time / limit
}

// cnsHalfLifeMinutes is the surface-interval half-life used to decay
// cumulative CNS between dives (§4.4).
const cnsHalfLifeMinutes = 90.0

// CNSDecay applies a 90-minute half-life decay to a cumulative CNS value
// over a surface interval in minutes. A zero interval (single-dive plan)
// leaves the value unchanged.
func CNSDecay(cnsSingle, surfaceIntervalMin float64) float64 {
	if surfaceIntervalMin <= 0 {
		return cnsSingle
	}
	return cnsSingle * math.Exp(-math.Ln2*surfaceIntervalMin/cnsHalfLifeMinutes)
}

// otuExponent is the Harlan-Hamilton OTU formula's exponent (5/6).
const otuExponent = 5.0 / 6.0

// OTUDelta returns the Oxygen Tolerance Units accrued breathing ppO2 for
// time minutes, using the Harlan-Hamilton formula: OTU = t *
// ((ppO2-0.5)/0.5)^(5/6) for ppO2 > 0.5 bar, else zero (§4.4).
func OTUDelta(ppO2, time float64) float64 {
	if ppO2 <= 0.5 {
		return 0
	}
	return time * math.Pow((ppO2-0.5)/0.5, otuExponent)
}

// Consumption holds the gas-volume accounting for one segment or roll-up.
type Consumption struct {
	// AmbConsumption is the consumption rate at ambient pressure in
	// litres/minute: sacRate * meanAmbientPressure.
	AmbConsumption float64
	// StepConsumption is the total litres consumed over the segment.
	StepConsumption float64
}

// SegmentConsumption computes the gas consumption for one segment given a
// SAC rate (L/min at 1 bar), the mean ambient pressure over the segment,
// and the segment duration in minutes (§4.4).
func SegmentConsumption(sacRate, meanAmbPressure, time float64) Consumption {
	amb := sacRate * meanAmbPressure
	return Consumption{AmbConsumption: amb, StepConsumption: amb * time}
}

// MeanPressure returns the arithmetic mean ambient pressure between two
// depths, used as the representative pressure for a segment's consumption.
func MeanPressure(startDepth, endDepth float64, a env.Atmosphere) float64 {
	return (a.PressureAt(startDepth) + a.PressureAt(endDepth)) / 2.0
}

// TankEndPressure estimates the pressure remaining in a set of tanks after
// consuming totalLitres, generalizing the teacher's GasAvailable/WorkingGas
// machinery (diveplanner.go) from a single recreational mix to a per-gas
// roll-up: fillPressure - totalLitres/(tankCount*tankCapacity).
func TankEndPressure(totalLitres, fillPressure, tankCapacity float64, tankCount int) float64 {
	if tankCount <= 0 || tankCapacity <= 0 {
		return fillPressure
	}
	totalCapacity := tankCapacity * float64(tankCount)
	return fillPressure - totalLitres/totalCapacity
}

// ReserveRequirement applies a reserve multiplier (e.g. rule-of-thirds-style
// contingency) to a base gas requirement in litres, as the teacher's
// GasRequired() did for a single mix.
func ReserveRequirement(baseLitres, reserveMultiplier float64) float64 {
	return baseLitres * reserveMultiplier
}
