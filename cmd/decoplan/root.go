// Command decoplan is a thin cobra wrapper around the
// profile/planner/store/config packages so the module is runnable
// end-to-end, in the style of the teacher's cmd/root.go: flags bound in
// init(), logrus configured from a --log flag, and the engine itself never
// importing cobra or logrus.
package main

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var logLevel string

var rootCmd = &cobra.Command{
	Use:   "decoplan",
	Short: "Decompression dive planner",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "info", "Log level (debug, info, warn, error)")

	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(maxTimeCmd)
	rootCmd.AddCommand(optimizeDecoCmd)
	rootCmd.AddCommand(bestGasCmd)
}
