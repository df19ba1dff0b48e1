package params

import "testing"

func TestDefaultMatchesDocumentedValues(t *testing.T) {
	p := Default()

	tests := []struct {
		name string
		got  float64
		want float64
	}{
		{"GFLo", p.GFLo, 0.30},
		{"GFHi", p.GFHi, 0.70},
		{"PpO2MaxBottom", p.PpO2MaxBottom, 1.4},
		{"PpO2MaxDeco", p.PpO2MaxDeco, 1.6},
		{"PpO2MinDeco", p.PpO2MinDeco, 0.7},
		{"MaxPpO2Diluent", p.MaxPpO2Diluent, 1.3},
		{"SACRateBottom", p.SACRateBottom, 20.0},
		{"SACRateDeco", p.SACRateDeco, 15.0},
		{"WarningDensity", p.WarningDensity, 6.3},
		{"ENDLimit", p.ENDLimit, 30.0},
		{"AscentRate", p.AscentRate, 9.0},
		{"DescentRate", p.DescentRate, 18.0},
		{"StopInterval", p.StopInterval, 3.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("Default().%s = %v, want %v", tt.name, tt.got, tt.want)
			}
		})
	}

	if !p.O2Narcotic {
		t.Error("Default().O2Narcotic = false, want true")
	}
}

func TestPpO2LimitFor(t *testing.T) {
	p := Default()

	tests := []struct {
		name  string
		phase Phase
		want  float64
	}{
		{"bottom", PhaseBottom, p.PpO2MaxBottom},
		{"deco", PhaseDeco, p.PpO2MaxDeco},
		{"diluent", PhaseDiluent, p.MaxPpO2Diluent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := p.PpO2LimitFor(tt.phase); got != tt.want {
				t.Errorf("PpO2LimitFor(%v) = %v, want %v", tt.phase, got, tt.want)
			}
		})
	}
}

func TestSACRateFor(t *testing.T) {
	p := Default()

	if got := p.SACRateFor(false); got != p.SACRateBottom {
		t.Errorf("SACRateFor(false) = %v, want %v", got, p.SACRateBottom)
	}
	if got := p.SACRateFor(true); got != p.SACRateDeco {
		t.Errorf("SACRateFor(true) = %v, want %v", got, p.SACRateDeco)
	}
}
