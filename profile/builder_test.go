package profile

import (
	"testing"

	"github.com/m5lapp/decoplanner/gas"
	"github.com/m5lapp/decoplanner/params"
	"github.com/m5lapp/decoplanner/setpoint"
	"github.com/m5lapp/decoplanner/stopstep"
	"github.com/m5lapp/decoplanner/tissue"
)

func basicOCPlan(t *testing.T, depth, bottomTime float64) *DivePlan {
	t.Helper()
	p := params.Default()

	air, err := gas.New(21, 0, gas.Bottom, gas.Active)
	if err != nil {
		t.Fatalf("gas.New: %v", err)
	}
	ean50, err := gas.New(50, 0, gas.Deco, gas.Active)
	if err != nil {
		t.Fatalf("gas.New: %v", err)
	}
	gases := gas.NewList(air, ean50)

	return &DivePlan{
		Params:         p,
		Gases:          gases,
		Setpoints:      setpoint.NewList(),
		StopSteps:      stopstep.NewList(),
		CoefficientSet: tissue.ZHL16B,
		TargetDepth:    depth,
		BottomTime:     bottomTime,
		InitialMode:    OC,
		InitialTissue:  tissue.InitializeToSurface(p.Atmosphere),
	}
}

func TestBuildShallowNoDecoDive(t *testing.T) {
	plan := basicOCPlan(t, 18, 20)

	if err := plan.Build(); err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	if err := plan.Validate(); err != nil {
		t.Fatalf("Validate() error: %v", err)
	}

	for _, s := range plan.Steps {
		if s.Phase == PhaseDecoStop {
			t.Errorf("shallow 18m/20min dive should not require a deco stop, got %v", s)
		}
	}

	last := plan.Steps[len(plan.Steps)-1]
	if last.Phase != PhaseSurface {
		t.Errorf("last step phase = %v, want Surface", last.Phase)
	}
}

func TestBuildDeepDiveRequiresDecoStops(t *testing.T) {
	plan := basicOCPlan(t, 45, 40)

	if err := plan.Build(); err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	if err := plan.Validate(); err != nil {
		t.Fatalf("Validate() error: %v", err)
	}

	foundDeco := false
	for _, s := range plan.Steps {
		if s.Phase == PhaseDecoStop {
			foundDeco = true
		}
	}
	if !foundDeco {
		t.Error("45m/40min dive should generate at least one deco stop")
	}
}

func TestBuildMonotonicRunTimeAndCNS(t *testing.T) {
	plan := basicOCPlan(t, 45, 40)
	if err := plan.Build(); err != nil {
		t.Fatalf("Build() error: %v", err)
	}

	for i := 1; i < len(plan.Steps); i++ {
		if plan.Steps[i].RunTime < plan.Steps[i-1].RunTime {
			t.Errorf("RunTime decreased at step %d", i)
		}
		if plan.Steps[i].CNSSingle < plan.Steps[i-1].CNSSingle-1e-9 {
			t.Errorf("CNSSingle decreased at step %d", i)
		}
	}
}

func TestBuildWithUserPinnedStopStep(t *testing.T) {
	plan := basicOCPlan(t, 30, 20)
	plan.StopSteps = stopstep.NewList(stopstep.Step{Depth: 5, Time: 3})

	if err := plan.Build(); err != nil {
		t.Fatalf("Build() error: %v", err)
	}

	found := false
	for _, s := range plan.Steps {
		if s.Phase == PhaseStop && s.StartDepth == 5 && s.Time == 3 {
			found = true
		}
	}
	if !found {
		t.Error("expected a pinned Stop step at 5m/3min")
	}
}

func TestBuildCCPlanSelectsDiluentAndSetpoint(t *testing.T) {
	p := params.Default()
	dil, err := gas.New(10, 50, gas.Diluent, gas.Active)
	if err != nil {
		t.Fatalf("gas.New: %v", err)
	}
	gases := gas.NewList(dil)

	plan := &DivePlan{
		Params:         p,
		Gases:          gases,
		Setpoints:      setpoint.DefaultList(),
		StopSteps:      stopstep.NewList(),
		CoefficientSet: tissue.ZHL16B,
		TargetDepth:    40,
		BottomTime:     20,
		InitialMode:    CC,
		GFBoosted:      true,
		InitialTissue:  tissue.InitializeToSurface(p.Atmosphere),
	}

	if err := plan.Build(); err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	if err := plan.Validate(); err != nil {
		t.Fatalf("Validate() error: %v", err)
	}

	for _, s := range plan.Steps {
		if s.Mode != CC {
			t.Errorf("expected every step in mode CC, got %v", s.Mode)
		}
	}
}

func TestBuildBailoutSwitchesModeAtTriggerDepth(t *testing.T) {
	p := params.Default()
	dil, err := gas.New(10, 50, gas.Diluent, gas.Active)
	if err != nil {
		t.Fatalf("gas.New: %v", err)
	}
	bailoutGas, err := gas.New(21, 35, gas.Bottom, gas.Active)
	if err != nil {
		t.Fatalf("gas.New: %v", err)
	}
	gases := gas.NewList(dil, bailoutGas)

	plan := &DivePlan{
		Params:              p,
		Gases:               gases,
		Setpoints:           setpoint.DefaultList(),
		StopSteps:           stopstep.NewList(),
		CoefficientSet:      tissue.ZHL16B,
		TargetDepth:         40,
		BottomTime:          20,
		InitialMode:         CC,
		GFBoosted:           true,
		BailoutTriggerDepth: 20,
		InitialTissue:       tissue.InitializeToSurface(p.Atmosphere),
	}

	if err := plan.Build(); err != nil {
		t.Fatalf("Build() error: %v", err)
	}

	sawBailout := false
	for _, s := range plan.Steps {
		if s.Mode == Bailout {
			sawBailout = true
			if s.EndDepth > 20+1e-9 {
				t.Errorf("Bailout step should be at or below the trigger depth, got end depth %v", s.EndDepth)
			}
		}
	}
	if !sawBailout {
		t.Error("expected the plan to switch to Bailout at the trigger depth")
	}
}

func TestCalculateReplaysFixedStepsWithoutChangingStructure(t *testing.T) {
	plan := basicOCPlan(t, 30, 20)
	if err := plan.Build(); err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	originalCount := len(plan.Steps)
	originalRuntime := plan.Runtime()

	if err := plan.Calculate(); err != nil {
		t.Fatalf("Calculate() error: %v", err)
	}
	if len(plan.Steps) != originalCount {
		t.Errorf("Calculate() changed step count: %d -> %d", originalCount, len(plan.Steps))
	}
	if !almostEqual(plan.Runtime(), originalRuntime) {
		t.Errorf("Calculate() changed runtime: %v -> %v", originalRuntime, plan.Runtime())
	}
}

func TestMinFirstStopMinutesExtendsFirstStop(t *testing.T) {
	plan := basicOCPlan(t, 45, 40)
	if err := plan.Build(); err != nil {
		t.Fatalf("Build() error: %v", err)
	}

	firstStopIdx := -1
	for i, s := range plan.Steps {
		if s.Phase == PhaseStop || s.Phase == PhaseDecoStop {
			firstStopIdx = i
			break
		}
	}
	if firstStopIdx < 0 {
		t.Fatal("expected at least one stop in a 45m/40min dive")
	}
	baseMinutes := plan.Steps[firstStopIdx].Time

	plan.MinFirstStopMinutes = baseMinutes + 5
	if err := plan.Build(); err != nil {
		t.Fatalf("Build() with MinFirstStopMinutes error: %v", err)
	}

	got := plan.Steps[firstStopIdx].Time
	if got != baseMinutes+5 {
		t.Errorf("first stop time = %v, want %v", got, baseMinutes+5)
	}
}
