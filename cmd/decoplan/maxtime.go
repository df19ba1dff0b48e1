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
	maxTimeDepth      float64
	maxTimeBottomTime float64
	maxTimeMode       string
	maxTimeCCS        string
	maxTimeBudget     float64
)

var maxTimeCmd = &cobra.Command{
	Use:   "maxtime",
	Short: "Find the longest the first deco stop can be extended within a time budget",
	Run: func(cmd *cobra.Command, args []string) {
		st, err := loadState()
		if err != nil {
			logrus.Fatalf("decoplan: %v", err)
		}

		mode, err := parseMode(maxTimeMode)
		if err != nil {
			logrus.Fatalf("decoplan: %v", err)
		}
		ccs, err := parseCoefficientSet(maxTimeCCS)
		if err != nil {
			logrus.Fatalf("decoplan: %v", err)
		}

		plan := &profile.DivePlan{
			Params:         st.Params,
			Gases:          st.Gases,
			Setpoints:      st.Setpoints,
			CoefficientSet: ccs,
			TargetDepth:    maxTimeDepth,
			BottomTime:     maxTimeBottomTime,
			InitialMode:    mode,
			InitialTissue:  tissue.InitializeToSurface(st.Params.Atmosphere),
		}
		if err := plan.Build(); err != nil {
			logrus.Fatalf("decoplan: build failed: %v", err)
		}

		token, _ := planner.NewCancelFlag()
		result, err := planner.MaxTime(plan, maxTimeBudget, token)
		if err != nil {
			logrus.Fatalf("decoplan: maxtime failed: %v", err)
		}
		fmt.Printf("Max first-stop duration: %.0f min (TTS %.1f min)\n",
			result.MaxFirstStopMinutes, result.TTSAtMax)
	},
}

func init() {
	maxTimeCmd.Flags().Float64Var(&maxTimeDepth, "depth", 30, "Target depth in metres")
	maxTimeCmd.Flags().Float64Var(&maxTimeBottomTime, "time", 20, "Bottom time in minutes")
	maxTimeCmd.Flags().StringVar(&maxTimeMode, "mode", "oc", "Breathing mode (oc, cc, bailout)")
	maxTimeCmd.Flags().StringVar(&maxTimeCCS, "coefficients", "b", "ZH-L16 coefficient set (a, b, c)")
	maxTimeCmd.Flags().Float64Var(&maxTimeBudget, "budget", 60, "Time-to-surface budget in minutes")
}
