package profile

import (
	"fmt"
	"math"

	"github.com/m5lapp/decoplanner/gas"
	"github.com/m5lapp/decoplanner/metrics"
	"github.com/m5lapp/decoplanner/params"
	"github.com/m5lapp/decoplanner/planerr"
	"github.com/m5lapp/decoplanner/setpoint"
	"github.com/m5lapp/decoplanner/stopstep"
	"github.com/m5lapp/decoplanner/tissue"
)

// UnplannableError is returned by Build/Calculate when an ascent cannot
// reduce the ceiling within MaxStopMinutes (§4.2, §7 PlanUnplannable). It
// carries the offending tissue state so a caller can inspect why.
type UnplannableError struct {
	Depth   float64
	State   tissue.State
	Minutes int
}

func (e *UnplannableError) Error() string {
	return fmt.Sprintf("%v: stop at %.1fm did not clear its ceiling after %d minutes",
		planerr.ErrPlanUnplannable, e.Depth, e.Minutes)
}

func (e *UnplannableError) Unwrap() error { return planerr.ErrPlanUnplannable }

// DivePlan is the top-level object from §3/§6: owns the step list and the
// tissue trace for the lifetime of a plan; Params/Gases/Setpoints/StopSteps
// are read-only collaborators taken as a value/pointer snapshot at Build
// entry (§5).
type DivePlan struct {
	Params         params.Parameters
	Gases          *gas.List
	Setpoints      *setpoint.List
	StopSteps      *stopstep.List
	CoefficientSet tissue.CoefficientSet

	TargetDepth float64
	BottomTime  float64
	InitialMode Mode
	GFBoosted   bool

	// InitialTissue is the tissue state at the start of this dive; use
	// tissue.InitializeToSurface(atm) for a fresh single dive, or a carried
	// state for a repetitive dive.
	InitialTissue tissue.State

	// SurfaceIntervalMin feeds metrics.CNSDecay for cumulative (multi-dive)
	// CNS; zero for a single-dive plan (§4.4).
	SurfaceIntervalMin float64

	// MinFirstStopMinutes, when > 0, forces the first Stop/DecoStop emitted
	// during Build to last at least this long, regardless of how the
	// ceiling search would otherwise have sized it. Used by
	// planner.MaxTime to probe how long the first stop can be extended
	// without exceeding a time-to-surface budget, without that package
	// needing to know whether the first stop is a user StopStep or a
	// builder-generated DecoStop.
	MinFirstStopMinutes float64

	// BailoutTriggerDepth, when > 0 and InitialMode == CC, switches the
	// plan to Bailout mode the first time the ascent reaches this depth
	// (§4.2 Bailout). Inert loads at that point are inherited unchanged
	// from the CC integration.
	BailoutTriggerDepth float64

	// Results populated by Build/Calculate.
	Steps          []DiveStep
	TissueTrace    []tissue.State
	FirstDecoDepth float64
}

// segmentSpec is the structural skeleton of one DiveStep: phase, mode and
// the depth/time bounds. Build() decides these as it goes (the ceiling
// checks that decide deco-stop placement and length require the tissue
// state to be integrated step by step); Calculate() instead replays an
// already-fixed skeleton extracted from p.Steps, recomputing every derived
// field from current Params/Gases/Setpoints without re-deciding structure.
type segmentSpec struct {
	phase      Phase
	mode       Mode
	startDepth float64
	endDepth   float64
	time       float64
}

// Build generates the step list from scratch: descent, bottom, pinned stop
// steps, then the ascent loop with dynamically generated decompression
// stops (§4.2).
func (p *DivePlan) Build() error {
	p.Steps = nil
	p.TissueTrace = nil
	p.FirstDecoDepth = 0

	state := p.InitialTissue
	mode := p.InitialMode
	bailedOut := false
	runTime := 0.0
	cnsSingle, otuTotal := 0.0, 0.0
	currentDepth := 0.0
	firstStopSeen := false

	emit := func(spec segmentSpec) error {
		if (spec.phase == PhaseStop || spec.phase == PhaseDecoStop) && !firstStopSeen {
			firstStopSeen = true
			if p.MinFirstStopMinutes > spec.time {
				spec.time = p.MinFirstStopMinutes
			}
		}
		step, newState, newCNS, newOTU, err := p.processSegment(spec, state, runTime, cnsSingle, otuTotal)
		state = newState
		cnsSingle, otuTotal = newCNS, newOTU
		runTime += spec.time
		p.Steps = append(p.Steps, step)
		p.TissueTrace = append(p.TissueTrace, state)
		currentDepth = spec.endDepth
		return err
	}

	// Descent.
	if err := emit(segmentSpec{PhaseDescent, mode, 0, p.TargetDepth, p.transitTime(0, p.TargetDepth)}); err != nil {
		return err
	}

	// Bottom.
	if err := emit(segmentSpec{PhaseBottom, mode, p.TargetDepth, p.TargetDepth, p.BottomTime}); err != nil {
		return err
	}

	// StopSteps: user-pinned waypoints, decreasing depth.
	for _, s := range p.StopSteps.Steps() {
		if s.Depth >= currentDepth || s.Depth <= 0 {
			continue
		}
		if err := emit(segmentSpec{PhaseAscent, mode, currentDepth, s.Depth, p.transitTime(currentDepth, s.Depth)}); err != nil {
			return err
		}
		if s.Time > 0 {
			if err := emit(segmentSpec{PhaseStop, mode, s.Depth, s.Depth, s.Time}); err != nil {
				return err
			}
		}
	}

	// AscentLoop.
	for currentDepth > 0 {
		if !bailedOut && p.BailoutTriggerDepth > 0 && mode == CC && currentDepth <= p.BailoutTriggerDepth {
			mode = Bailout
			bailedOut = true
		}

		gfLoCeiling := tissue.Ceiling(state, p.CoefficientSet, p.Params.GFLo, p.Params.Atmosphere, p.Params.StopInterval)
		if p.FirstDecoDepth <= 0 && gfLoCeiling > 0 {
			p.FirstDecoDepth = gfLoCeiling
		}

		gf := tissue.GFAt(currentDepth, p.FirstDecoDepth, p.Params.GFLo, p.Params.GFHi)
		ceiling := tissue.Ceiling(state, p.CoefficientSet, gf, p.Params.Atmosphere, p.Params.StopInterval)

		nextStopDepth := currentDepth - p.Params.StopInterval
		if nextStopDepth < 0 {
			nextStopDepth = 0
		}

		if ceiling > nextStopDepth {
			minutes, reachedState, ok := p.decoStopMinutes(state, mode, currentDepth, nextStopDepth)
			spec := segmentSpec{PhaseDecoStop, mode, currentDepth, currentDepth, float64(minutes)}
			if err := emit(spec); err != nil {
				return err
			}
			if !ok {
				return &UnplannableError{Depth: currentDepth, State: reachedState, Minutes: minutes}
			}
			continue
		}

		if err := emit(segmentSpec{PhaseAscent, mode, currentDepth, nextStopDepth, p.transitTime(currentDepth, nextStopDepth)}); err != nil {
			return err
		}
	}

	// Surface.
	if err := emit(segmentSpec{PhaseSurface, mode, 0, 0, 0}); err != nil {
		return err
	}

	return nil
}

// Calculate recomputes derived fields for the existing, fixed step list
// (§3 DivePlan lifecycle): used when a non-structural input changes, e.g. a
// setpoint value or a gas mix's percentages, without re-deciding where
// stops fall.
func (p *DivePlan) Calculate() error {
	if len(p.Steps) == 0 {
		return p.Build()
	}

	specs := make([]segmentSpec, len(p.Steps))
	for i, s := range p.Steps {
		specs[i] = segmentSpec{phase: s.Phase, mode: s.Mode, startDepth: s.StartDepth, endDepth: s.EndDepth, time: s.Time}
	}

	p.Steps = nil
	p.TissueTrace = nil
	p.FirstDecoDepth = 0
	state := p.InitialTissue
	runTime := 0.0
	cnsSingle, otuTotal := 0.0, 0.0

	for _, spec := range specs {
		if spec.phase == PhaseDecoStop || spec.phase == PhaseAscent {
			gfLoCeiling := tissue.Ceiling(state, p.CoefficientSet, p.Params.GFLo, p.Params.Atmosphere, p.Params.StopInterval)
			if p.FirstDecoDepth <= 0 && gfLoCeiling > 0 {
				p.FirstDecoDepth = gfLoCeiling
			}
		}
		step, newState, newCNS, newOTU, err := p.processSegment(spec, state, runTime, cnsSingle, otuTotal)
		if err != nil {
			return err
		}
		state = newState
		cnsSingle, otuTotal = newCNS, newOTU
		runTime += spec.time
		p.Steps = append(p.Steps, step)
		p.TissueTrace = append(p.TissueTrace, state)
	}
	return nil
}

// transitTime returns the minutes required to move between two depths at
// the configured ascent/descent rate.
func (p *DivePlan) transitTime(fromDepth, toDepth float64) float64 {
	delta := toDepth - fromDepth
	if delta == 0 {
		return 0
	}
	if delta > 0 {
		return delta / p.Params.DescentRate
	}
	return -delta / p.Params.AscentRate
}

// decoStopMinutes steps in 1-minute increments (starting at 1) to find
// the minimum whole-minute stop duration at currentDepth that reduces the
// ceiling below nextStopDepth (§4.2 step 2). Returns the minutes used, the
// tissue state reached, and ok=false if MaxStopMinutes was exceeded without
// success (§4.2 failure mode).
func (p *DivePlan) decoStopMinutes(state tissue.State, mode Mode, currentDepth, nextStopDepth float64) (int, tissue.State, bool) {
	fN2, fHe := p.inspiredFractions(mode, currentDepth)
	amb := p.Params.Atmosphere.PressureAt(currentDepth)

	cur := state
	for minute := 1; minute <= p.Params.MaxStopMinutes; minute++ {
		cur = tissue.Load(state, p.CoefficientSet, amb, amb, float64(minute), fN2, fHe)
		gf := tissue.GFAt(currentDepth, p.FirstDecoDepth, p.Params.GFLo, p.Params.GFHi)
		ceiling := tissue.Ceiling(cur, p.CoefficientSet, gf, p.Params.Atmosphere, p.Params.StopInterval)
		if ceiling <= nextStopDepth {
			return minute, cur, true
		}
	}
	return p.Params.MaxStopMinutes, cur, false
}

// inspiredFractions returns the N2/He inert fractions of the gas the diver
// would breathe for the given mode at the given depth: the OC/Bailout
// selection rule, or the CC setpoint/diluent derivation (§4.1).
func (p *DivePlan) inspiredFractions(mode Mode, depth float64) (fN2, fHe float64) {
	g, _, err := p.gasForSegment(mode, depth)
	if err != nil {
		return 0, 0
	}
	if mode == CC {
		_, fn2, fhe := p.ccInspired(g, depth)
		return fn2, fhe
	}
	return g.FN2(), g.FHe()
}

// gasForSegment selects the active gas (OC/Bailout) or diluent (CC) to use
// at the given depth for the given mode, and the effective CC setpoint
// (0 for OC/Bailout) (§3, §4.2 gas/setpoint switching).
func (p *DivePlan) gasForSegment(mode Mode, depth float64) (gas.Gas, float64, error) {
	if mode == CC {
		dil, err := p.Gases.SelectDiluent(depth, p.Params)
		if err != nil {
			return gas.Gas{}, 0, err
		}
		sp := p.Setpoints.EffectiveSetpoint(depth, p.GFBoosted, p.Params)
		return dil, sp, nil
	}
	g, err := p.Gases.Select(depth, p.Params)
	return g, 0, err
}

// ccInspired derives the inspired O2/N2/He fractions for CC mode from the
// diluent and the effective setpoint: inspired PpO2 is capped at
// min(setpoint, diluent's PpO2 at depth); the remaining pressure is
// apportioned between He and N2 in the diluent's own ratio (§4.1).
func (p *DivePlan) ccInspired(diluent gas.Gas, depth float64) (fo2, fn2, fhe float64) {
	amb := p.Params.Atmosphere.PressureAt(depth)
	sp := p.Setpoints.EffectiveSetpoint(depth, p.GFBoosted, p.Params)
	ppo2 := math.Min(sp, diluent.PPO2(depth, p.Params.Atmosphere))
	fo2 = ppo2 / amb
	remaining := 1 - fo2
	dilInert := diluent.FHe() + diluent.FN2()
	if dilInert <= 0 {
		return fo2, remaining, 0
	}
	fn2 = remaining * (diluent.FN2() / dilInert)
	fhe = remaining * (diluent.FHe() / dilInert)
	return fo2, fn2, fhe
}

// processSegment integrates the tissue state over one segment and builds
// its DiveStep, including all derived physiological fields (§3 DiveStep,
// §4.4 Metrics). Shared by Build's forward generation and Calculate's
// skeleton replay.
func (p *DivePlan) processSegment(spec segmentSpec, state tissue.State, runTimeSoFar, cnsSingle, otuTotal float64) (DiveStep, tissue.State, float64, float64, error) {
	g, setpointBar, err := p.gasForSegment(spec.mode, spec.endDepth)
	if err != nil {
		return DiveStep{}, state, cnsSingle, otuTotal, err
	}

	ambStart := p.Params.Atmosphere.PressureAt(spec.startDepth)
	ambEnd := p.Params.Atmosphere.PressureAt(spec.endDepth)
	ambMax := math.Max(ambStart, ambEnd)

	var fo2, fn2, fhe, ppo2Max float64
	if spec.mode == CC {
		fo2, fn2, fhe = p.ccInspired(g, spec.endDepth)
		ppo2Max = math.Min(setpointBar, g.PPO2(math.Max(spec.startDepth, spec.endDepth), p.Params.Atmosphere))
	} else {
		fo2, fn2, fhe = g.FO2(), g.FN2(), g.FHe()
		ppo2Max = fo2 * ambMax
	}

	newState := tissue.Load(state, p.CoefficientSet, ambStart, ambEnd, spec.time, fn2, fhe)

	gf := 0.0
	if spec.phase == PhaseAscent || spec.phase == PhaseDecoStop || spec.phase == PhaseStop {
		gf = tissue.GFAt(spec.endDepth, p.FirstDecoDepth, p.Params.GFLo, p.Params.GFHi)
	}

	deco := spec.phase == PhaseAscent || spec.phase == PhaseDecoStop
	sacRate := p.Params.SACRateFor(deco)
	meanAmb := metrics.MeanPressure(spec.startDepth, spec.endDepth, p.Params.Atmosphere)
	consumption := metrics.Consumption{}
	if spec.mode != CC {
		consumption = metrics.SegmentConsumption(sacRate, meanAmb, spec.time)
	}

	cnsDelta := metrics.CNSDelta(ppo2Max, spec.time)
	otuDelta := metrics.OTUDelta(ppo2Max, spec.time)
	newCNSSingle := cnsSingle + cnsDelta
	newOTUTotal := otuTotal + otuDelta
	// cns_multiple applies the surface-interval decay (§4.4); zero interval
	// (the common single-dive case) leaves it equal to cns_single.
	cnsMultiple := metrics.CNSDecay(newCNSSingle, p.SurfaceIntervalMin)

	limit := p.Params.PpO2MaxBottom
	if deco {
		limit = p.Params.PpO2MaxDeco
	}
	warning := ppo2Max > limit+1e-9

	density := g.Density(math.Max(spec.startDepth, spec.endDepth), p.Params.Atmosphere)

	step := DiveStep{
		Phase:           spec.phase,
		Mode:            spec.mode,
		StartDepth:      spec.startDepth,
		EndDepth:        spec.endDepth,
		Time:            spec.time,
		RunTime:         runTimeSoFar + spec.time,
		PAmbMax:         ambMax,
		PO2Max:          ppo2Max,
		O2Pct:           fo2 * 100.0,
		N2Pct:           fn2 * 100.0,
		HePct:           fhe * 100.0,
		GF:              gf,
		GFSurface:       p.Params.GFHi,
		SACRate:         sacRate,
		AmbConsumption:  consumption.AmbConsumption,
		StepConsumption: consumption.StepConsumption,
		GasDensity:      density,
		ENDWithoutO2:    g.END(math.Max(spec.startDepth, spec.endDepth), false),
		ENDWithO2:       g.END(math.Max(spec.startDepth, spec.endDepth), true),
		CNSSingle:       newCNSSingle,
		CNSMultiple:     cnsMultiple,
		OTUTotal:        newOTUTotal,
		Gas:             g,
		Warning:         warning,
	}
	for i, c := range newState.Compartments {
		step.TissueLoads[i] = TissueLoad{PN2: c.PN2, PHe: c.PHe}
	}

	return step, newState, newCNSSingle, newOTUTotal, nil
}

// Runtime returns the total time-to-surface of the built plan in minutes.
func (p *DivePlan) Runtime() float64 {
	if len(p.Steps) == 0 {
		return 0
	}
	return p.Steps[len(p.Steps)-1].RunTime
}

// GetStep returns the i-th step (read-only), per §6's programmatic surface.
func (p *DivePlan) GetStep(i int) DiveStep {
	return p.Steps[i]
}

// Validate checks part of the universal invariants from §8 against the built
// step list: depth contiguity between steps, non-decreasing run time,
// cns_single and otu_total, and a first and last step at depth 0. It does
// not check deco-stop ceilings, PpO2 limits, MOD compliance or gas
// sufficiency.
func (p *DivePlan) Validate() error {
	for i := 0; i+1 < len(p.Steps); i++ {
		if !almostEqual(p.Steps[i].EndDepth, p.Steps[i+1].StartDepth) {
			return fmt.Errorf("profile: step %d end depth %.2f does not match step %d start depth %.2f",
				i, p.Steps[i].EndDepth, i+1, p.Steps[i+1].StartDepth)
		}
		if p.Steps[i+1].RunTime < p.Steps[i].RunTime {
			return fmt.Errorf("profile: run time decreased at step %d", i+1)
		}
		if p.Steps[i+1].CNSSingle < p.Steps[i].CNSSingle-1e-9 {
			return fmt.Errorf("profile: cns_single decreased at step %d", i+1)
		}
		if p.Steps[i+1].OTUTotal < p.Steps[i].OTUTotal-1e-9 {
			return fmt.Errorf("profile: otu_total decreased at step %d", i+1)
		}
	}
	if len(p.Steps) > 0 {
		if !almostEqual(p.Steps[0].StartDepth, 0) {
			return fmt.Errorf("profile: first step does not start at depth 0")
		}
		last := p.Steps[len(p.Steps)-1]
		if !almostEqual(last.EndDepth, 0) {
			return fmt.Errorf("profile: last step does not end at depth 0")
		}
	}
	return nil
}

func almostEqual(a, b float64) bool {
	const eps = 1e-6
	d := a - b
	if d < 0 {
		d = -d
	}
	return d <= eps
}
