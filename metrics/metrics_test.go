package metrics

import (
	"math"
	"testing"

	"github.com/m5lapp/decoplanner/env"
)

func TestCNSTimeLimit(t *testing.T) {
	tests := []struct {
		name  string
		ppO2  float64
		want  float64
	}{
		{"table anchor 1.6", 1.6, 45},
		{"table anchor 1.0", 1.0, 300},
		{"below 0.6 has no limit", 0.5, math.Inf(1)},
		{"above 1.6 floors at the 1.6 limit", 2.0, 45},
		{"interpolates between 1.4 and 1.3", 1.35, 165},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CNSTimeLimit(tt.ppO2)
			if math.IsInf(tt.want, 1) {
				if !math.IsInf(got, 1) {
					t.Errorf("CNSTimeLimit(%v) = %v, want +Inf", tt.ppO2, got)
				}
				return
			}
			if !env.EqualFloat64(got, tt.want) {
				t.Errorf("CNSTimeLimit(%v) = %v, want %v", tt.ppO2, got, tt.want)
			}
		})
	}
}

func TestCNSDeltaBelowThresholdIsZero(t *testing.T) {
	if got := CNSDelta(0.5, 60); got != 0 {
		t.Errorf("CNSDelta(0.5, 60) = %v, want 0", got)
	}
}

func TestCNSDeltaAccumulatesFractionally(t *testing.T) {
	got := CNSDelta(1.0, 150)
	want := 150.0 / 300.0
	if !env.EqualFloat64(got, want) {
		t.Errorf("CNSDelta(1.0, 150) = %v, want %v", got, want)
	}
}

func TestCNSDecayNoIntervalLeavesUnchanged(t *testing.T) {
	if got := CNSDecay(0.5, 0); got != 0.5 {
		t.Errorf("CNSDecay(0.5, 0) = %v, want 0.5", got)
	}
}

func TestCNSDecayHalvesAtOneHalfLife(t *testing.T) {
	got := CNSDecay(1.0, cnsHalfLifeMinutes)
	if !env.EqualFloat64(got, 0.5) {
		t.Errorf("CNSDecay(1.0, 90) = %v, want 0.5", got)
	}
}

func TestOTUDeltaBelowThresholdIsZero(t *testing.T) {
	if got := OTUDelta(0.5, 60); got != 0 {
		t.Errorf("OTUDelta(0.5, 60) = %v, want 0", got)
	}
}

func TestOTUDeltaHarlanHamilton(t *testing.T) {
	got := OTUDelta(1.0, 60)
	want := 60.0 * math.Pow((1.0-0.5)/0.5, 5.0/6.0)
	if !env.EqualFloat64(got, want) {
		t.Errorf("OTUDelta(1.0, 60) = %v, want %v", got, want)
	}
}

func TestSegmentConsumption(t *testing.T) {
	c := SegmentConsumption(20, 2.0, 10)
	if !env.EqualFloat64(c.AmbConsumption, 40) {
		t.Errorf("AmbConsumption = %v, want 40", c.AmbConsumption)
	}
	if !env.EqualFloat64(c.StepConsumption, 400) {
		t.Errorf("StepConsumption = %v, want 400", c.StepConsumption)
	}
}

func TestMeanPressure(t *testing.T) {
	a := env.Standard()
	got := MeanPressure(0, 20, a)
	want := (a.PressureAt(0) + a.PressureAt(20)) / 2.0
	if !env.EqualFloat64(got, want) {
		t.Errorf("MeanPressure(0, 20) = %v, want %v", got, want)
	}
}

func TestTankEndPressure(t *testing.T) {
	got := TankEndPressure(2000, 232, 12, 2)
	want := 232 - 2000.0/24.0
	if !env.EqualFloat64(got, want) {
		t.Errorf("TankEndPressure = %v, want %v", got, want)
	}
}

func TestTankEndPressureGuardsZeroCapacity(t *testing.T) {
	if got := TankEndPressure(2000, 232, 0, 2); got != 232 {
		t.Errorf("TankEndPressure with zero capacity = %v, want 232", got)
	}
}

func TestReserveRequirement(t *testing.T) {
	got := ReserveRequirement(1000, 1.5)
	if !env.EqualFloat64(got, 1500) {
		t.Errorf("ReserveRequirement(1000, 1.5) = %v, want 1500", got)
	}
}
