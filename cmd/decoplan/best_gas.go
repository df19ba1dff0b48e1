package main

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/m5lapp/decoplanner/gas"
	"github.com/m5lapp/decoplanner/planner"
)

var (
	bestGasDepth float64
	bestGasType  string
)

var bestGasCmd = &cobra.Command{
	Use:   "best-gas",
	Short: "Compute the optimal O2/He mix for a given depth",
	Run: func(cmd *cobra.Command, args []string) {
		st, err := loadState()
		if err != nil {
			logrus.Fatalf("decoplan: %v", err)
		}

		typ, err := parseGasType(bestGasType)
		if err != nil {
			logrus.Fatalf("decoplan: %v", err)
		}

		result, err := planner.BestGasForDepth(bestGasDepth, typ, st.Params)
		if err != nil {
			logrus.Fatalf("decoplan: best-gas failed: %v", err)
		}

		kind := "nitrox/air"
		if result.IsTrimixBest {
			kind = "trimix"
		}
		fmt.Printf("Best %s mix at %.1fm: O2=%.0f%% He=%.0f%% (%s)\n",
			typ, bestGasDepth, result.Gas.O2Pct, result.Gas.HePct, kind)
	},
}

func parseGasType(s string) (gas.Type, error) {
	switch s {
	case "bottom", "Bottom":
		return gas.Bottom, nil
	case "deco", "Deco":
		return gas.Deco, nil
	case "diluent", "Diluent":
		return gas.Diluent, nil
	default:
		return 0, fmt.Errorf("unknown gas type %q (want bottom, deco or diluent)", s)
	}
}

func init() {
	bestGasCmd.Flags().Float64Var(&bestGasDepth, "depth", 30, "Depth in metres")
	bestGasCmd.Flags().StringVar(&bestGasType, "type", "deco", "Gas type (bottom, deco, diluent)")
}
