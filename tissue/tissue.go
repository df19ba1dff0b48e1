// Package tissue implements TissueModel (C7): the Bühlmann ZH-L16 A/B/C
// multi-compartment inert-gas loading model with a gradient-factor ceiling.
// The compartment coefficient table and the Schreiner-equation integration
// are carried directly from the teacher's buhlmann package; Load/Ceiling are
// generalized here into pure functions of an explicit State value rather
// than methods mutating a model that owns a single fixed gas mix, so a
// ProfileBuilder can switch gases/setpoints between segments (§5: no hidden
// state, pure functions of inputs).
package tissue

import (
	"math"

	"github.com/m5lapp/decoplanner/env"
)

// CompartmentCount is the number of ZH-L16 tissue compartments.
const CompartmentCount = 16

// CoefficientSet selects one of the three published ZH-L16 coefficient
// tables.
type CoefficientSet int

const (
	ZHL16A CoefficientSet = iota
	ZHL16B
	ZHL16C
)

func (ccs CoefficientSet) String() string {
	return [...]string{"ZH-L16A", "ZH-L16B", "ZH-L16C"}[ccs]
}

type coefficients struct {
	n2HalfTime float64
	n2A        float64
	n2B        float64
	heHalfTime float64
	heA        float64
	heB        float64
}

// compartmentTables holds the published ZH-L16 A/B/C half-time and
// a/b-coefficient values, verbatim from the teacher's buhlmann package.
var compartmentTables = [3][CompartmentCount]coefficients{
	{ // ZH-L16A
		{n2HalfTime: 4.0, n2A: 1.2599, n2B: 0.5050, heHalfTime: 1.5, heA: 1.7435, heB: 0.1911},
		{n2HalfTime: 8.0, n2A: 1.0000, n2B: 0.6514, heHalfTime: 3.0, heA: 1.3838, heB: 0.4295},
		{n2HalfTime: 12.5, n2A: 0.8618, n2B: 0.7222, heHalfTime: 4.7, heA: 1.1925, heB: 0.5446},
		{n2HalfTime: 18.5, n2A: 0.7562, n2B: 0.7725, heHalfTime: 7.0, heA: 1.0465, heB: 0.6265},
		{n2HalfTime: 27.0, n2A: 0.6667, n2B: 0.8125, heHalfTime: 10.2, heA: 0.9226, heB: 0.6917},
		{n2HalfTime: 38.3, n2A: 0.5933, n2B: 0.8434, heHalfTime: 14.5, heA: 0.8211, heB: 0.7420},
		{n2HalfTime: 54.3, n2A: 0.5282, n2B: 0.8693, heHalfTime: 20.5, heA: 0.7309, heB: 0.7841},
		{n2HalfTime: 77.0, n2A: 0.4701, n2B: 0.8910, heHalfTime: 29.1, heA: 0.6506, heB: 0.8195},
		{n2HalfTime: 109.0, n2A: 0.4187, n2B: 0.9092, heHalfTime: 41.1, heA: 0.5794, heB: 0.8491},
		{n2HalfTime: 146.0, n2A: 0.3798, n2B: 0.9222, heHalfTime: 55.1, heA: 0.5256, heB: 0.8703},
		{n2HalfTime: 187.0, n2A: 0.3497, n2B: 0.9319, heHalfTime: 70.6, heA: 0.4840, heB: 0.8860},
		{n2HalfTime: 239.0, n2A: 0.3223, n2B: 0.9403, heHalfTime: 90.2, heA: 0.4460, heB: 0.8997},
		{n2HalfTime: 305.0, n2A: 0.2971, n2B: 0.9477, heHalfTime: 115.1, heA: 0.4112, heB: 0.9118},
		{n2HalfTime: 390.0, n2A: 0.2737, n2B: 0.9544, heHalfTime: 147.2, heA: 0.3788, heB: 0.9226},
		{n2HalfTime: 498.0, n2A: 0.2523, n2B: 0.9602, heHalfTime: 187.9, heA: 0.3492, heB: 0.9321},
		{n2HalfTime: 635.0, n2A: 0.2327, n2B: 0.9653, heHalfTime: 239.6, heA: 0.3220, heB: 0.9404},
	},
	{ // ZH-L16B
		{n2HalfTime: 4.0, n2A: 1.2599, n2B: 0.5240, heHalfTime: 1.51, heA: 1.6189, heB: 0.4245},
		{n2HalfTime: 8.0, n2A: 1.0000, n2B: 0.6514, heHalfTime: 3.02, heA: 1.3830, heB: 0.5747},
		{n2HalfTime: 12.5, n2A: 0.8618, n2B: 0.7222, heHalfTime: 4.72, heA: 1.1919, heB: 0.6527},
		{n2HalfTime: 18.5, n2A: 0.7562, n2B: 0.7825, heHalfTime: 6.99, heA: 1.0458, heB: 0.7223},
		{n2HalfTime: 27.0, n2A: 0.6667, n2B: 0.8126, heHalfTime: 10.21, heA: 0.9220, heB: 0.7582},
		{n2HalfTime: 38.3, n2A: 0.5505, n2B: 0.8434, heHalfTime: 14.48, heA: 0.8205, heB: 0.7957},
		{n2HalfTime: 54.3, n2A: 0.4858, n2B: 0.8693, heHalfTime: 20.53, heA: 0.7305, heB: 0.8279},
		{n2HalfTime: 77.0, n2A: 0.4443, n2B: 0.8910, heHalfTime: 29.11, heA: 0.6502, heB: 0.8553},
		{n2HalfTime: 109.0, n2A: 0.4187, n2B: 0.9092, heHalfTime: 41.20, heA: 0.5950, heB: 0.8757},
		{n2HalfTime: 146.0, n2A: 0.3798, n2B: 0.9222, heHalfTime: 55.19, heA: 0.5545, heB: 0.8903},
		{n2HalfTime: 187.0, n2A: 0.3497, n2B: 0.9319, heHalfTime: 70.69, heA: 0.5333, heB: 0.8997},
		{n2HalfTime: 239.0, n2A: 0.3223, n2B: 0.9403, heHalfTime: 90.34, heA: 0.5189, heB: 0.9073},
		{n2HalfTime: 305.0, n2A: 0.2828, n2B: 0.9477, heHalfTime: 115.29, heA: 0.5181, heB: 0.9122},
		{n2HalfTime: 390.0, n2A: 0.2737, n2B: 0.9544, heHalfTime: 147.42, heA: 0.5176, heB: 0.9171},
		{n2HalfTime: 498.0, n2A: 0.2523, n2B: 0.9602, heHalfTime: 188.24, heA: 0.5172, heB: 0.9217},
		{n2HalfTime: 635.0, n2A: 0.2327, n2B: 0.9653, heHalfTime: 240.03, heA: 0.5119, heB: 0.9267},
	},
	{ // ZH-L16C
		{n2HalfTime: 4.0, n2A: 1.2599, n2B: 0.5240, heHalfTime: 1.51, heA: 1.6189, heB: 0.4245},
		{n2HalfTime: 8.0, n2A: 1.0000, n2B: 0.6514, heHalfTime: 3.02, heA: 1.3830, heB: 0.5747},
		{n2HalfTime: 12.5, n2A: 0.8618, n2B: 0.7222, heHalfTime: 4.72, heA: 1.1919, heB: 0.6527},
		{n2HalfTime: 18.5, n2A: 0.7562, n2B: 0.7825, heHalfTime: 6.99, heA: 1.0458, heB: 0.7223},
		{n2HalfTime: 27.0, n2A: 0.6667, n2B: 0.8126, heHalfTime: 10.21, heA: 0.9220, heB: 0.7582},
		{n2HalfTime: 38.3, n2A: 0.5600, n2B: 0.8434, heHalfTime: 14.48, heA: 0.8205, heB: 0.7957},
		{n2HalfTime: 54.3, n2A: 0.4947, n2B: 0.8693, heHalfTime: 20.53, heA: 0.7305, heB: 0.8279},
		{n2HalfTime: 77.0, n2A: 0.4500, n2B: 0.8910, heHalfTime: 29.11, heA: 0.6502, heB: 0.8553},
		{n2HalfTime: 109.0, n2A: 0.4187, n2B: 0.9092, heHalfTime: 41.20, heA: 0.5950, heB: 0.8757},
		{n2HalfTime: 146.0, n2A: 0.3798, n2B: 0.9222, heHalfTime: 55.19, heA: 0.5545, heB: 0.8903},
		{n2HalfTime: 187.0, n2A: 0.3497, n2B: 0.9319, heHalfTime: 70.69, heA: 0.5333, heB: 0.8997},
		{n2HalfTime: 239.0, n2A: 0.3223, n2B: 0.9403, heHalfTime: 90.34, heA: 0.5189, heB: 0.9073},
		{n2HalfTime: 305.0, n2A: 0.2850, n2B: 0.9477, heHalfTime: 115.29, heA: 0.5181, heB: 0.9122},
		{n2HalfTime: 390.0, n2A: 0.2737, n2B: 0.9544, heHalfTime: 147.42, heA: 0.5176, heB: 0.9171},
		{n2HalfTime: 498.0, n2A: 0.2523, n2B: 0.9602, heHalfTime: 188.24, heA: 0.5172, heB: 0.9217},
		{n2HalfTime: 635.0, n2A: 0.2327, n2B: 0.9653, heHalfTime: 240.03, heA: 0.5119, heB: 0.9267},
	},
}

// Compartment holds the inert-gas loading of a single tissue compartment.
type Compartment struct {
	PN2 float64
	PHe float64
}

// State is the full 16-compartment inert-gas loading snapshot at a point in
// the dive.
type State struct {
	Compartments [CompartmentCount]Compartment
}

// InitializeToSurface returns the initial tissue state: each compartment
// saturated to surface air, pHe = 0 (§4.1).
func InitializeToSurface(a env.Atmosphere) State {
	var s State
	pN2 := (a.SurfacePressure - env.PH2O) * env.AirFN2
	for i := range s.Compartments {
		s.Compartments[i] = Compartment{PN2: pN2, PHe: 0}
	}
	return s
}

const timeEpsilon = 1e-9

// schreiner solves the Schreiner equation for one compartment/gas pair.
// pAmbStart/pAmbEnd bound the ambient pressure over the segment, t is the
// segment duration in minutes, f is the inert gas fraction of the inspired
// gas, pInitial is the compartment's starting pressure for this gas, and
// halfTime is the compartment's half-time for this gas. Guards the t->0
// case with the limiting form from §4.1 to avoid dividing by zero.
func schreiner(pAmbStart, pAmbEnd, t, f, pInitial, halfTime float64) float64 {
	k := math.Log(2.0) / halfTime
	palv := (pAmbStart - env.PH2O) * f

	if t < timeEpsilon {
		return pInitial + (palv-pInitial)*(1-math.Exp(-k*t))
	}

	rate := (pAmbEnd - pAmbStart) / t
	r := rate * f
	return palv + r*(t-1.0/k) - (palv-pInitial-r/k)*math.Exp(-k*t)
}

// Load applies the Schreiner equation independently per compartment per
// inert gas over a segment running from pAmbStart to pAmbEnd over t
// minutes, breathing a gas with inert fractions fN2/fHe (§4.1).
func Load(state State, ccs CoefficientSet, pAmbStart, pAmbEnd, t, fN2, fHe float64) State {
	var out State
	table := compartmentTables[ccs]
	for i, c := range state.Compartments {
		out.Compartments[i] = Compartment{
			PN2: schreiner(pAmbStart, pAmbEnd, t, fN2, c.PN2, table[i].n2HalfTime),
			PHe: schreiner(pAmbStart, pAmbEnd, t, fHe, c.PHe, table[i].heHalfTime),
		}
	}
	return out
}

const loadEpsilon = 1e-12

// compartmentAB returns the combined a/b coefficients for a compartment,
// weighted by each inert gas's share of the total loading. Falls back to
// the Nitrogen coefficients when pN2+pHe is ~0 (§4.1 numerics guard).
func compartmentAB(c Compartment, coefs coefficients) (a, b float64) {
	sum := c.PN2 + c.PHe
	if sum <= loadEpsilon {
		return coefs.n2A, coefs.n2B
	}
	a = (coefs.n2A*c.PN2 + coefs.heA*c.PHe) / sum
	b = (coefs.n2B*c.PN2 + coefs.heB*c.PHe) / sum
	return a, b
}

// Ceiling computes the ambient-pressure ceiling of the most-loaded
// compartment under the given gradient factor, then converts it to a depth
// rounded up to the next stop interval (§4.1). gf is in [0,1]; gf=1 is the
// unmodified Bühlmann M-value ceiling.
//
// The GF-adjusted allowed tissue pressure at ambient pressure P is the
// linear interpolation between the ambient-pressure line (gf=0) and the
// M-value line a+P/b (gf=1): allowed(P) = P*(1-gf+gf/b) + gf*a. Solving
// allowed(Pceiling) = Pcompartment for Pceiling gives the formula below.
func Ceiling(state State, ccs CoefficientSet, gf float64, a env.Atmosphere, stopInterval float64) float64 {
	table := compartmentTables[ccs]
	maxPCeil := math.Inf(-1)

	for i, c := range state.Compartments {
		ca, cb := compartmentAB(c, table[i])
		loading := c.PN2 + c.PHe
		denom := 1 - gf + gf/cb
		pCeil := (loading - gf*ca) / denom
		if pCeil > maxPCeil {
			maxPCeil = pCeil
		}
	}

	depth := a.DepthAt(maxPCeil)
	if depth < 0 {
		depth = 0
	}
	return env.RoundUpToStop(depth, stopInterval)
}

// GFAt linearly interpolates the gradient factor from gfLo at
// firstDecoDepth to gfHi at the surface, clamped to [min(gfLo,gfHi),
// max(gfLo,gfHi)] (§4.1). Before a first deco depth has been established
// (firstDecoDepth <= 0), gfHi applies throughout.
func GFAt(depth, firstDecoDepth, gfLo, gfHi float64) float64 {
	if firstDecoDepth <= 0 {
		return gfHi
	}

	gf := gfHi + (gfLo-gfHi)*(depth/firstDecoDepth)

	lo, hi := gfLo, gfHi
	if lo > hi {
		lo, hi = hi, lo
	}
	if gf < lo {
		return lo
	}
	if gf > hi {
		return hi
	}
	return gf
}

// NDL estimates the No-Decompression Limit in whole minutes at the current
// state/depth by repeatedly stepping the state forward one minute at a time
// until the gf=1.0 (unmodified M-value) ceiling becomes positive, capped at
// maxMinutes. Supplemental convenience carried from the teacher's
// ZhlModel.GetNDL, generalized to take an explicit gas and coefficient set.
func NDL(state State, ccs CoefficientSet, a env.Atmosphere, depth, fN2, fHe float64, maxMinutes int) int {
	amb := a.PressureAt(depth)
	cur := state
	for i := 0; i < maxMinutes; i++ {
		cur = Load(cur, ccs, amb, amb, 1.0, fN2, fHe)
		if Ceiling(cur, ccs, 1.0, a, 0) > 0 {
			return i
		}
	}
	return maxMinutes
}
