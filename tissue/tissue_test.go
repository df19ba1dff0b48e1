package tissue

import (
	"testing"

	"github.com/m5lapp/decoplanner/env"
)

func TestInitializeToSurface(t *testing.T) {
	a := env.Standard()
	s := InitializeToSurface(a)

	want := (a.SurfacePressure - env.PH2O) * env.AirFN2
	for i, c := range s.Compartments {
		if !env.EqualFloat64(c.PN2, want) {
			t.Errorf("Compartments[%d].PN2 = %v, want %v", i, c.PN2, want)
		}
		if c.PHe != 0 {
			t.Errorf("Compartments[%d].PHe = %v, want 0", i, c.PHe)
		}
	}
}

func TestLoadAtSteadyStateConvergesTowardsInspiredPressure(t *testing.T) {
	a := env.Standard()
	state := InitializeToSurface(a)
	amb := a.PressureAt(30)

	// Run many 10-minute segments at constant depth breathing air; the
	// fastest compartment should converge close to its steady-state
	// inspired N2 pressure.
	for i := 0; i < 50; i++ {
		state = Load(state, ZHL16B, amb, amb, 10, env.AirFN2, 0)
	}

	steadyState := (amb - env.PH2O) * env.AirFN2
	got := state.Compartments[0].PN2
	if diff := got - steadyState; diff > 1e-3 || diff < -1e-3 {
		t.Errorf("after steady exposure, compartment 0 PN2 = %v, want ~%v", got, steadyState)
	}
}

func TestLoadHandlesZeroDurationSegment(t *testing.T) {
	a := env.Standard()
	state := InitializeToSurface(a)
	amb := a.PressureAt(30)

	got := Load(state, ZHL16B, amb, amb, 0, env.AirFN2, 0)
	for i := range got.Compartments {
		if got.Compartments[i] != state.Compartments[i] {
			t.Errorf("zero-duration Load mutated compartment %d: %v -> %v", i, state.Compartments[i], got.Compartments[i])
		}
	}
}

func TestCeilingIsZeroAtSurfaceEquilibrium(t *testing.T) {
	a := env.Standard()
	state := InitializeToSurface(a)

	got := Ceiling(state, ZHL16B, 1.0, a, 3.0)
	if got != 0 {
		t.Errorf("Ceiling of a surface-equilibrated state = %v, want 0", got)
	}
}

func TestCeilingRisesAfterLoadingDeep(t *testing.T) {
	a := env.Standard()
	state := InitializeToSurface(a)
	amb := a.PressureAt(60)

	state = Load(state, ZHL16B, amb, amb, 40, env.AirFN2, 0)

	got := Ceiling(state, ZHL16B, 0.3, a, 3.0)
	if got <= 0 {
		t.Errorf("Ceiling after a deep, long exposure = %v, want > 0", got)
	}
}

func TestGFAtBeforeFirstDecoDepthIsGFHi(t *testing.T) {
	got := GFAt(30, 0, 0.3, 0.7)
	if got != 0.7 {
		t.Errorf("GFAt with no first deco depth = %v, want 0.7 (GFHi)", got)
	}
}

func TestGFAtInterpolatesAndClamps(t *testing.T) {
	// At the first deco depth itself, GF should equal gfLo.
	got := GFAt(30, 30, 0.3, 0.7)
	if !env.EqualFloat64(got, 0.3) {
		t.Errorf("GFAt(depth=firstDecoDepth) = %v, want 0.3 (GFLo)", got)
	}

	// At the surface, GF should equal gfHi.
	got = GFAt(0, 30, 0.3, 0.7)
	if !env.EqualFloat64(got, 0.7) {
		t.Errorf("GFAt(depth=0) = %v, want 0.7 (GFHi)", got)
	}

	// Beyond the first deco depth, the result must clamp at gfLo, never
	// undershoot it.
	got = GFAt(60, 30, 0.3, 0.7)
	if got != 0.3 {
		t.Errorf("GFAt(depth>firstDecoDepth) = %v, want clamped at 0.3", got)
	}
}

func TestNDLCapsAtMaxMinutes(t *testing.T) {
	a := env.Standard()
	state := InitializeToSurface(a)

	got := NDL(state, ZHL16B, a, 12, env.AirFN2, 0, 5)
	if got > 5 {
		t.Errorf("NDL(maxMinutes=5) = %v, want <= 5", got)
	}
}

func TestNDLShortensWithDepth(t *testing.T) {
	a := env.Standard()
	state := InitializeToSurface(a)

	shallow := NDL(state, ZHL16B, a, 18, env.AirFN2, 0, 300)
	deep := NDL(state, ZHL16B, a, 45, env.AirFN2, 0, 300)
	if deep > shallow {
		t.Errorf("NDL(45m) = %v should be shorter than NDL(18m) = %v", deep, shallow)
	}
}
