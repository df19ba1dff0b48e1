package main

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/m5lapp/decoplanner/planner"
	"github.com/m5lapp/decoplanner/profile"
	"github.com/m5lapp/decoplanner/tissue"
)

var (
	optimizeDecoDepth      float64
	optimizeDecoBottomTime float64
	optimizeDecoMode       string
	optimizeDecoCCS        string
	optimizeDecoSave       bool
)

var optimizeDecoCmd = &cobra.Command{
	Use:   "optimize-deco",
	Short: "Pick the Deco gas minimizing total time-to-surface",
	Run: func(cmd *cobra.Command, args []string) {
		st, err := loadState()
		if err != nil {
			logrus.Fatalf("decoplan: %v", err)
		}

		mode, err := parseMode(optimizeDecoMode)
		if err != nil {
			logrus.Fatalf("decoplan: %v", err)
		}
		ccs, err := parseCoefficientSet(optimizeDecoCCS)
		if err != nil {
			logrus.Fatalf("decoplan: %v", err)
		}

		plan := &profile.DivePlan{
			Params:         st.Params,
			Gases:          st.Gases,
			Setpoints:      st.Setpoints,
			CoefficientSet: ccs,
			TargetDepth:    optimizeDecoDepth,
			BottomTime:     optimizeDecoBottomTime,
			InitialMode:    mode,
			InitialTissue:  tissue.InitializeToSurface(st.Params.Atmosphere),
		}
		if err := plan.Build(); err != nil {
			logrus.Fatalf("decoplan: build failed: %v", err)
		}

		result, err := planner.DecoGasOptimization(plan)
		if err != nil {
			logrus.Fatalf("decoplan: optimize-deco failed: %v", err)
		}
		fmt.Printf("Best Deco gas: O2=%.0f%% He=%.0f%% (TTS %.1f min, CNS %.1f%%)\n",
			result.Gas.O2Pct, result.Gas.HePct, result.TTS, result.CNS*100)

		if optimizeDecoSave {
			if err := saveGases(plan.Gases); err != nil {
				logrus.Fatalf("decoplan: save gas list failed: %v", err)
			}
		}
	},
}

func init() {
	optimizeDecoCmd.Flags().Float64Var(&optimizeDecoDepth, "depth", 30, "Target depth in metres")
	optimizeDecoCmd.Flags().Float64Var(&optimizeDecoBottomTime, "time", 20, "Bottom time in minutes")
	optimizeDecoCmd.Flags().StringVar(&optimizeDecoMode, "mode", "oc", "Breathing mode (oc, cc, bailout)")
	optimizeDecoCmd.Flags().StringVar(&optimizeDecoCCS, "coefficients", "b", "ZH-L16 coefficient set (a, b, c)")
	optimizeDecoCmd.Flags().BoolVar(&optimizeDecoSave, "save", false, "Persist the winning gas selection")
}
