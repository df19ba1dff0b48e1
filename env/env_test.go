package env

import "testing"

func TestStandardPressureAt(t *testing.T) {
	a := Standard()

	tests := []struct {
		name  string
		depth float64
		want  float64
	}{
		{name: "surface", depth: 0, want: 1.01325},
		{name: "one bar of salt water (10/1.03 m)", depth: 10.0 / 1.03, want: 2.01325},
		{name: "negative depth treated as magnitude", depth: -10.0 / 1.03, want: 2.01325},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := a.PressureAt(tt.depth)
			if !EqualFloat64(got, tt.want) {
				t.Errorf("PressureAt(%v) = %v, want %v", tt.depth, got, tt.want)
			}
		})
	}
}

func TestDepthAtIsInverseOfPressureAt(t *testing.T) {
	a := Standard()
	depths := []float64{0, 5, 18, 30, 45, 90}

	for _, d := range depths {
		p := a.PressureAt(d)
		got := a.DepthAt(p)
		if !EqualFloat64(got, d) {
			t.Errorf("DepthAt(PressureAt(%v)) = %v, want %v", d, got, d)
		}
	}
}

func TestRoundUpToStop(t *testing.T) {
	tests := []struct {
		name         string
		depth        float64
		stopInterval float64
		want         float64
	}{
		{name: "exact multiple", depth: 9.0, stopInterval: 3.0, want: 9.0},
		{name: "rounds up", depth: 10.1, stopInterval: 3.0, want: 12.0},
		{name: "zero interval is a no-op", depth: 10.1, stopInterval: 0, want: 10.1},
		{name: "zero depth", depth: 0, stopInterval: 3.0, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RoundUpToStop(tt.depth, tt.stopInterval)
			if !EqualFloat64(got, tt.want) {
				t.Errorf("RoundUpToStop(%v, %v) = %v, want %v", tt.depth, tt.stopInterval, got, tt.want)
			}
		})
	}
}

func TestUnitConversionsRoundTrip(t *testing.T) {
	if got := FeetToMetres(MetresToFeet(30)); !EqualFloat64(got, 30) {
		t.Errorf("metres round trip = %v, want 30", got)
	}
	if got := CubicFeetToLitres(LitresToCubicFeet(80)); !EqualFloat64(got, 80) {
		t.Errorf("litres round trip = %v, want 80", got)
	}
	if got := PSIToBar(BarToPSI(200)); !EqualFloat64(got, 200) {
		t.Errorf("bar round trip = %v, want 200", got)
	}
}
