package main

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/m5lapp/decoplanner/profile"
	"github.com/m5lapp/decoplanner/tissue"
)

var (
	planDepth      float64
	planBottomTime float64
	planMode       string
	planCCS        string
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Build a single-dive decompression profile",
	Run: func(cmd *cobra.Command, args []string) {
		st, err := loadState()
		if err != nil {
			logrus.Fatalf("decoplan: %v", err)
		}

		mode, err := parseMode(planMode)
		if err != nil {
			logrus.Fatalf("decoplan: %v", err)
		}
		ccs, err := parseCoefficientSet(planCCS)
		if err != nil {
			logrus.Fatalf("decoplan: %v", err)
		}

		plan := &profile.DivePlan{
			Params:         st.Params,
			Gases:          st.Gases,
			Setpoints:      st.Setpoints,
			CoefficientSet: ccs,
			TargetDepth:    planDepth,
			BottomTime:     planBottomTime,
			InitialMode:    mode,
			InitialTissue:  tissue.InitializeToSurface(st.Params.Atmosphere),
		}

		if err := plan.Build(); err != nil {
			logrus.Fatalf("decoplan: build failed: %v", err)
		}
		printPlan(plan)
	},
}

func printPlan(plan *profile.DivePlan) {
	fmt.Printf("%-8s %-8s %6s %6s %6s %8s %6s\n",
		"PHASE", "MODE", "START", "END", "TIME", "RUNTIME", "GF")
	for _, s := range plan.Steps {
		fmt.Printf("%-8s %-8s %6.1f %6.1f %6.1f %8.1f %6.2f\n",
			s.Phase, s.Mode, s.StartDepth, s.EndDepth, s.Time, s.RunTime, s.GF)
	}
	fmt.Printf("\nTotal time-to-surface: %.1f min\n", plan.Runtime())
}

func parseMode(s string) (profile.Mode, error) {
	switch s {
	case "oc", "OC":
		return profile.OC, nil
	case "cc", "CC":
		return profile.CC, nil
	case "bailout", "Bailout":
		return profile.Bailout, nil
	default:
		return 0, fmt.Errorf("unknown mode %q (want oc, cc or bailout)", s)
	}
}

func parseCoefficientSet(s string) (tissue.CoefficientSet, error) {
	switch s {
	case "a", "A", "zhl16a":
		return tissue.ZHL16A, nil
	case "b", "B", "zhl16b", "":
		return tissue.ZHL16B, nil
	case "c", "C", "zhl16c":
		return tissue.ZHL16C, nil
	default:
		return 0, fmt.Errorf("unknown coefficient set %q (want a, b or c)", s)
	}
}

func init() {
	planCmd.Flags().Float64Var(&planDepth, "depth", 30, "Target depth in metres")
	planCmd.Flags().Float64Var(&planBottomTime, "time", 20, "Bottom time in minutes")
	planCmd.Flags().StringVar(&planMode, "mode", "oc", "Breathing mode (oc, cc, bailout)")
	planCmd.Flags().StringVar(&planCCS, "coefficients", "b", "ZH-L16 coefficient set (a, b, c)")
}
