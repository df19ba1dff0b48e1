package setpoint

import (
	"testing"

	"github.com/m5lapp/decoplanner/params"
)

func TestNewListSortsDecreasingDepthThenSetpoint(t *testing.T) {
	l := NewList(
		Point{Depth: 21, Setpoint: 1.5},
		Point{Depth: 40, Setpoint: 1.3},
		Point{Depth: 40, Setpoint: 1.4},
	)

	got := l.Points()
	want := []Point{
		{Depth: 40, Setpoint: 1.4},
		{Depth: 40, Setpoint: 1.3},
		{Depth: 21, Setpoint: 1.5},
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Points()[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestEffectiveSetpointEmptyListFallsBackToConfiguredMax(t *testing.T) {
	l := NewList()
	p := params.Default()

	got := l.EffectiveSetpoint(30, true, p)
	if got != p.MaxPpO2Diluent {
		t.Errorf("EffectiveSetpoint(empty) = %v, want %v", got, p.MaxPpO2Diluent)
	}
}

func TestEffectiveSetpointNotBoostedUsesDeepest(t *testing.T) {
	l := DefaultList()
	p := params.Default()

	got := l.EffectiveSetpoint(6, false, p)
	if got != 1.3 {
		t.Errorf("EffectiveSetpoint(6, boosted=false) = %v, want 1.3 (the deepest setpoint)", got)
	}
}

func TestEffectiveSetpointBoostedLookup(t *testing.T) {
	l := DefaultList()
	p := params.Default()

	tests := []struct {
		name  string
		depth float64
		want  float64
	}{
		{"deeper than deepest point", 1200, 1.3},
		{"at the 40m boundary takes the band below 1000m", 40, 1.3},
		{"between 40 and 21", 30, 1.4},
		{"shallower than shallowest point", 3, 1.6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := l.EffectiveSetpoint(tt.depth, true, p)
			if got != tt.want {
				t.Errorf("EffectiveSetpoint(%v, boosted=true) = %v, want %v", tt.depth, got, tt.want)
			}
		})
	}
}
