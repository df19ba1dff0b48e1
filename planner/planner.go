// Package planner implements the three planner services from C11/§4.3:
// MaxTime, optimizeDecoGas (DecoGasOptimization) and bestGasForDepth. Each
// wraps profile.DivePlan, perturbing inputs and rebuilding to minimize an
// objective, the way the teacher's diveplanner.go methods (WithinNDLs,
// DiveIsPossible) rebuild a fresh buhlmann.ZhlModel per candidate rather
// than mutating shared state.
package planner

import (
	"fmt"
	"math"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/m5lapp/decoplanner/env"
	"github.com/m5lapp/decoplanner/gas"
	"github.com/m5lapp/decoplanner/params"
	"github.com/m5lapp/decoplanner/planerr"
	"github.com/m5lapp/decoplanner/profile"
)

// CancelToken lets a long-running planner service be stopped between
// iterations without leaving any partial mutation of the caller's plan
// visible (§5 concurrency/cancellation contract).
type CancelToken interface {
	Cancelled() bool
}

// CancelFlag is a simple CancelToken backed by a bool pointer, set by the
// caller from another goroutine or the same one between calls.
type CancelFlag struct{ flag *atomic.Bool }

// NewCancelFlag returns a CancelFlag and the setter the caller uses to
// request cancellation.
func NewCancelFlag() (CancelFlag, func()) {
	f := new(atomic.Bool)
	return CancelFlag{flag: f}, func() { f.Store(true) }
}

func (c CancelFlag) Cancelled() bool {
	if c.flag == nil {
		return false
	}
	return c.flag.Load()
}

// clonePlan returns a copy of a DivePlan's inputs (never its already-built
// results) so a planner service can rebuild speculatively without mutating
// the caller's plan until it commits to a result (§5: rebuilt-or-left-alone
// atomically).
func clonePlan(p *profile.DivePlan) *profile.DivePlan {
	cp := *p
	cp.Steps = nil
	cp.TissueTrace = nil
	cp.FirstDecoDepth = 0
	return &cp
}

// MaxTimeResult is the outcome of a MaxTime search.
type MaxTimeResult struct {
	MaxFirstStopMinutes float64
	TTSAtMax            float64
}

// MaxTime extends the duration of the first Stop/DecoStop in the plan,
// rebuilding each iteration, halting when the resulting time-to-surface
// from that point exceeds budgetMinutes (typically the original TTS + 1
// minute) (§4.3). Search is monotone: a coarse doubling phase followed by
// a 1-minute refinement, so it never needs more than O(log n) rebuilds to
// bracket the boundary. Returns planerr.ErrCancelled if token fires; the
// caller's plan is left unchanged either way — MaxTime never mutates p.
func MaxTime(p *profile.DivePlan, budgetMinutes float64, token CancelToken) (MaxTimeResult, error) {
	runID := uuid.NewString()

	firstStopIdx := -1
	for i, s := range p.Steps {
		if s.Phase == profile.PhaseStop || s.Phase == profile.PhaseDecoStop {
			firstStopIdx = i
			break
		}
	}
	if firstStopIdx < 0 {
		return MaxTimeResult{}, fmt.Errorf("planner[%s]: no stop in plan to extend", runID)
	}
	baseMinutes := p.Steps[firstStopIdx].Time

	tryExtend := func(extra float64) (*profile.DivePlan, error) {
		cp := clonePlan(p)
		cp.MinFirstStopMinutes = baseMinutes + extra
		if err := cp.Build(); err != nil {
			return nil, err
		}
		return cp, nil
	}

	// Coarse doubling phase to bracket the budget boundary.
	var lastFeasible *profile.DivePlan
	var lastFeasibleExtra float64
	extra := 1.0
	for {
		if token != nil && token.Cancelled() {
			return MaxTimeResult{}, planerr.ErrCancelled
		}
		cand, err := tryExtend(extra)
		if err != nil || cand.Runtime() > budgetMinutes {
			break
		}
		lastFeasible = cand
		lastFeasibleExtra = extra
		extra *= 2
	}

	if lastFeasible == nil {
		return MaxTimeResult{MaxFirstStopMinutes: baseMinutes, TTSAtMax: p.Runtime()}, nil
	}

	// Refine in 1-minute increments from the last feasible doubling step.
	refineExtra := lastFeasibleExtra
	for {
		if token != nil && token.Cancelled() {
			return MaxTimeResult{}, planerr.ErrCancelled
		}
		next := refineExtra + 1
		cand, err := tryExtend(next)
		if err != nil || cand.Runtime() > budgetMinutes {
			break
		}
		lastFeasible = cand
		refineExtra = next
	}

	return MaxTimeResult{
		MaxFirstStopMinutes: baseMinutes + refineExtra,
		TTSAtMax:            lastFeasible.Runtime(),
	}, nil
}

// BestGasResult is the outcome of bestGasForDepth.
type BestGasResult struct {
	Gas          gas.Gas
	IsTrimixBest bool
}

// BestGasForDepth computes the O2/He fractions maximizing deco efficiency
// at a given depth for a given gas Type, per §4.3:
//   - O2 such that O2 * P_amb(depth) == PpO2_limit_for(type), floored to
//     the nearest integer percent;
//   - He such that END(depth, mix, o2Narcotic) == configured END limit,
//     floored to the nearest integer percent;
//   - N2 = remainder; refuse (return the non-trimix best, i.e. He=0) if
//     the resulting He would be negative.
func BestGasForDepth(depth float64, typ gas.Type, p params.Parameters) (BestGasResult, error) {
	limit := p.PpO2LimitFor(params.Phase(typ))
	amb := p.Atmosphere.PressureAt(depth)
	o2Pct := math.Floor(limit / amb * 100.0)

	hePct := bestHePercent(depth, o2Pct, p)
	if hePct < 0 {
		g, err := gas.New(o2Pct, 0, typ, gas.Active)
		if err != nil {
			return BestGasResult{}, err
		}
		return BestGasResult{Gas: g, IsTrimixBest: false}, nil
	}

	g, err := gas.New(o2Pct, hePct, typ, gas.Active)
	if err != nil {
		return BestGasResult{}, err
	}
	return BestGasResult{Gas: g, IsTrimixBest: hePct > 0}, nil
}

// DecoGasResult is the outcome of a DecoGasOptimization search.
type DecoGasResult struct {
	// Index is the position in the plan's GasList of the winning Deco gas.
	Index       int
	Gas         gas.Gas
	TTS         float64
	CNS         float64
	Consumption float64
}

// DecoGasOptimization implements optimizeDecoGas (§4.3): for each candidate
// Deco gas present in the plan's GasList, rebuild the plan with only that
// gas active among the Deco entries (other Deco gases temporarily
// deactivated, Bottom/Diluent entries untouched), and compare the resulting
// total time-to-surface. The gas minimizing TTS wins; ties are broken by
// lower cumulative CNS, then by lower total gas consumption. On success, the
// caller's plan's Gases field is replaced by a new list reflecting the
// winning selection (the previous *gas.List is not modified) and the plan is
// rebuilt; on failure (no Deco gas yields a buildable plan)
// the caller's plan is left unchanged.
func DecoGasOptimization(p *profile.DivePlan) (DecoGasResult, error) {
	gases := p.Gases.Gases()

	var (
		best      DecoGasResult
		bestIndex = -1
	)
	for i, g := range gases {
		if g.Type != gas.Deco {
			continue
		}

		cp := clonePlan(p)
		cp.Gases = gas.NewList(decoGasOnly(gases, i)...)
		if err := cp.Build(); err != nil {
			continue
		}

		tts := cp.Runtime()
		cns := 0.0
		consumption := 0.0
		if len(cp.Steps) > 0 {
			cns = cp.Steps[len(cp.Steps)-1].CNSMultiple
		}
		for _, s := range cp.Steps {
			consumption += s.StepConsumption
		}

		if bestIndex < 0 || better(tts, cns, consumption, best.TTS, best.CNS, best.Consumption) {
			best = DecoGasResult{Index: i, Gas: g, TTS: tts, CNS: cns, Consumption: consumption}
			bestIndex = i
		}
	}

	if bestIndex < 0 {
		return DecoGasResult{}, fmt.Errorf("planner: no Deco gas in the list yields a buildable plan: %w", planerr.ErrNoGasForDepth)
	}

	p.Gases = gas.NewList(decoGasOnly(gases, bestIndex)...)
	if err := p.Build(); err != nil {
		return DecoGasResult{}, err
	}
	return best, nil
}

// decoGasOnly returns a copy of gases where every Deco entry other than
// keepIndex is marked Inactive, leaving Bottom and Diluent entries as-is, so
// List.Select falls through to exactly one candidate Deco mix.
func decoGasOnly(gases []gas.Gas, keepIndex int) []gas.Gas {
	out := make([]gas.Gas, len(gases))
	copy(out, gases)
	for i := range out {
		if out[i].Type == gas.Deco && i != keepIndex {
			out[i].Status = gas.Inactive
		}
	}
	return out
}

// better reports whether candidate (tts, cns, consumption) beats the current
// best under optimizeDecoGas's tie-break order: lower TTS first, then lower
// CNS, then lower consumption.
func better(tts, cns, consumption, bestTTS, bestCNS, bestConsumption float64) bool {
	const eps = 1e-9
	if tts < bestTTS-eps {
		return true
	}
	if tts > bestTTS+eps {
		return false
	}
	if cns < bestCNS-eps {
		return true
	}
	if cns > bestCNS+eps {
		return false
	}
	return consumption < bestConsumption-eps
}

// bestHePercent solves for the He% that makes a mix's END equal the
// configured END limit at depth, given a fixed O2%, floored to an integer
// percent. END(depth, mix) = (depth+10)*narcoticFraction/airNarcotic - 10,
// where narcoticFraction = (100-o2-he)/100 [+ o2/100 if O2 counts as
// narcotic]. Solving for he directly avoids an iterative search.
func bestHePercent(depth, o2Pct float64, p params.Parameters) float64 {
	airNarcotic := env.AirFN2
	if p.O2Narcotic {
		airNarcotic = 1.0
	}
	targetFraction := (p.ENDLimit + 10.0) / (depth + 10.0) * airNarcotic

	// targetFraction == n2Frac [+ o2Frac if O2 is narcotic], n2Frac =
	// (100-o2-he)/100. When O2 counts as narcotic it cancels out of both
	// sides, leaving he = 100 - 100*targetFraction; otherwise
	// he = 100 - o2 - 100*targetFraction.
	var he float64
	if p.O2Narcotic {
		he = 100.0 - 100.0*targetFraction
	} else {
		he = 100.0 - o2Pct - 100.0*targetFraction
	}
	return math.Floor(he)
}
