// Package gas implements Gas (C3) and GasList (C4): an immutable breathing
// gas mix with derived MOD/END/density, and an ordered selection list. The
// derived-value formulas (MOD, PPO2, EAD-style narcotic depth) are
// generalized from the teacher's gasmix.GasMix, which modelled a single
// Nitrox/Trimix fraction set; here a Gas additionally carries a Type and
// Status so GasList can apply the spec's OC/CC/diluent selection rules.
package gas

import (
	"fmt"
	"math"

	"github.com/m5lapp/decoplanner/env"
	"github.com/m5lapp/decoplanner/params"
	"github.com/m5lapp/decoplanner/planerr"
)

// Type classifies how a gas may be used during a build.
type Type int

const (
	Bottom Type = iota
	Deco
	Diluent
)

func (t Type) String() string {
	switch t {
	case Bottom:
		return "Bottom"
	case Deco:
		return "Deco"
	case Diluent:
		return "Diluent"
	default:
		return "Unknown"
	}
}

// Status marks whether a gas is available for selection.
type Status int

const (
	Active Status = iota
	Inactive
)

func (s Status) String() string {
	if s == Active {
		return "Active"
	}
	return "Inactive"
}

// Gas is an immutable breathing gas mix. O2Pct and HePct are percentages in
// [0,100]; N2Pct is always the remainder. Invariants: 0 <= O2Pct <= 100,
// 0 <= HePct <= 100, O2Pct+HePct <= 100 (§3).
type Gas struct {
	O2Pct  float64
	HePct  float64
	Type   Type
	Status Status
}

// New validates and constructs a Gas mix, returning InvalidGasMix (§7) if
// the fractions are out of range.
func New(o2Pct, hePct float64, typ Type, status Status) (Gas, error) {
	if o2Pct < 0 || hePct < 0 || o2Pct+hePct > 100 {
		return Gas{}, fmt.Errorf("gas: %w: o2=%.1f he=%.1f", planerr.ErrInvalidGasMix, o2Pct, hePct)
	}
	return Gas{O2Pct: o2Pct, HePct: hePct, Type: typ, Status: status}, nil
}

// N2Pct returns the fraction of Nitrogen in the mix, the remainder once O2
// and He are accounted for.
func (g Gas) N2Pct() float64 {
	return 100.0 - g.O2Pct - g.HePct
}

// FO2, FHe, FN2 return the mix fractions as [0,1] values for use in the
// tissue-loading formulas.
func (g Gas) FO2() float64 { return g.O2Pct / 100.0 }
func (g Gas) FHe() float64 { return g.HePct / 100.0 }
func (g Gas) FN2() float64 { return g.N2Pct() / 100.0 }

// IsTrimix, IsHeliox, IsNitrox, IsAir classify the mix the way the teacher's
// gasmix.MixType did, generalized to percentage fields.
func (g Gas) IsAir() bool    { return env.EqualFloat64(g.O2Pct, 20.9) && g.HePct == 0 }
func (g Gas) IsHeliox() bool { return g.HePct > 0 && env.EqualFloat64(g.N2Pct(), 0) }
func (g Gas) IsTrimix() bool { return g.HePct > 0 && g.N2Pct() > 0 }
func (g Gas) IsNitrox() bool { return g.HePct == 0 && !g.IsAir() }

// PPO2 returns the partial pressure of Oxygen at the given depth, in bar.
func (g Gas) PPO2(depth float64, a env.Atmosphere) float64 {
	return a.PressureAt(depth) * g.FO2()
}

// MOD returns the Maximum Operating Depth in metres for this gas given the
// PpO2 limit configured for its Type.
func (g Gas) MOD(p params.Parameters) float64 {
	limit := p.PpO2LimitFor(params.Phase(g.Type))
	if g.FO2() <= 0 {
		return math.Inf(1)
	}
	amb := limit / g.FO2()
	return p.Atmosphere.DepthAt(amb)
}

// END returns the Equivalent Narcotic Depth of this mix at the given depth:
// the depth of an air breath carrying the same narcotic load. When
// o2Narcotic is true, Oxygen is counted alongside Nitrogen as narcotic
// (the conservative technical-diving convention); otherwise only Nitrogen
// counts.
func (g Gas) END(depth float64, o2Narcotic bool) float64 {
	narcoticFraction := g.FN2()
	if o2Narcotic {
		narcoticFraction += g.FO2()
	}
	// Air's narcotic fraction is ~1.0 (or AirFN2 if O2 excluded).
	airNarcotic := env.AirFN2
	if o2Narcotic {
		airNarcotic = 1.0
	}
	d := math.Abs(depth)
	return (d+10.0)*narcoticFraction/airNarcotic - 10.0
}

// Density returns the gas density in g/L at the given depth, used for the
// work-of-breathing warning threshold. Molar masses: O2=32, He=4, N2=28
// g/mol; at standard temperature 1 mol of ideal gas at 1 bar occupies
// ~22.4 L, scaled linearly with ambient pressure.
func (g Gas) Density(depth float64, a env.Atmosphere) float64 {
	molarMass := g.FO2()*32.0 + g.FHe()*4.0 + g.FN2()*28.0
	amb := a.PressureAt(depth)
	const molarVolumeAt1Bar = 22.414
	return (molarMass / molarVolumeAt1Bar) * amb
}

// List is an ordered set of Gas with selection rules for a depth and mode
// (C4).
type List struct {
	gases []Gas
}

// NewList constructs a GasList from the given gases, preserving order.
func NewList(gases ...Gas) *List {
	l := &List{gases: make([]Gas, len(gases))}
	copy(l.gases, gases)
	return l
}

// Gases returns the underlying ordered slice (read-only snapshot).
func (l *List) Gases() []Gas {
	out := make([]Gas, len(l.gases))
	copy(out, l.gases)
	return out
}

// Select returns the active gas (of any Type) whose MOD is >= depth,
// preferring the highest O2%, ties broken by higher He% (§3). This is used
// for OC/Bailout gas selection, where a richer Bottom or Deco mix may be
// chosen so long as it is within its own MOD at the given depth. Returns
// planerr.ErrNoGasForDepth if none qualifies.
func (l *List) Select(depth float64, p params.Parameters) (Gas, error) {
	var best Gas
	found := false
	for _, g := range l.gases {
		if g.Status != Active {
			continue
		}
		if g.MOD(p) < depth {
			continue
		}
		if !found || g.O2Pct > best.O2Pct || (g.O2Pct == best.O2Pct && g.HePct > best.HePct) {
			best = g
			found = true
		}
	}
	if !found {
		return Gas{}, fmt.Errorf("gas: %w: depth=%.1f", planerr.ErrNoGasForDepth, depth)
	}
	return best, nil
}

// SelectDiluent returns the active Diluent gas with the highest He%
// satisfying MOD(diluent, depth) >= depth, the CC-mode selection rule from
// §3.
func (l *List) SelectDiluent(depth float64, p params.Parameters) (Gas, error) {
	var best Gas
	found := false
	for _, g := range l.gases {
		if g.Status != Active || g.Type != Diluent {
			continue
		}
		if g.MOD(p) < depth {
			continue
		}
		if !found || g.HePct > best.HePct {
			best = g
			found = true
		}
	}
	if !found {
		return Gas{}, fmt.Errorf("gas: %w: depth=%.1f type=Diluent", planerr.ErrNoGasForDepth, depth)
	}
	return best, nil
}

// Add appends a gas. The "always keep at least one entry" rule is enforced
// at removal time by Remove.
func (l *List) Add(g Gas) {
	l.gases = append(l.gases, g)
}

// Remove deletes the gas at index i, refusing to remove the last remaining
// entry (§9 Open Question: "always keep at least one entry" is the
// resolved intent behind the source's self-contradictory delete rule).
func (l *List) Remove(i int) error {
	if len(l.gases) <= 1 {
		return fmt.Errorf("gas: cannot remove the last remaining gas")
	}
	if i < 0 || i >= len(l.gases) {
		return fmt.Errorf("gas: index %d out of range", i)
	}
	l.gases = append(l.gases[:i], l.gases[i+1:]...)
	return nil
}

// DefaultList returns the seed default from §6: one Bottom Active mix at
// 21% O2.
func DefaultList() *List {
	air, _ := New(21.0, 0.0, Bottom, Active)
	return NewList(air)
}
