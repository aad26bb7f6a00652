package main

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "gyroctl",
		Short:        "Evaluate Gyroscope pool definitions",
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config", "", "config file path")
	root.PersistentFlags().String("pool", "pool.json", "pool definition file")
	root.PersistentFlags().String("derived", "", "E-CLP derived params cache written by derive")
	root.PersistentFlags().Bool("pretty", false, "indent JSON output")
	root.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")

	invariantCmd := &cobra.Command{
		Use:   "invariant",
		Short: "Compute the invariant and spot price of the pool balances",
		RunE:  runInvariant,
	}
	root.AddCommand(invariantCmd)

	swapCmd := &cobra.Command{
		Use:   "swap",
		Short: "Quote a swap against the pool balances",
		RunE:  runSwap,
	}
	swapCmd.Flags().Int("in", 0, "index of the token paid in")
	swapCmd.Flags().Int("out", 1, "index of the token paid out")
	swapCmd.Flags().String("amount", "", "amount in token units (exact in, or exact out with --given-out)")
	swapCmd.Flags().Bool("given-out", false, "treat --amount as the exact output")
	root.AddCommand(swapCmd)

	deriveCmd := &cobra.Command{
		Use:   "derive",
		Short: "Compute E-CLP derived params",
		RunE:  runDerive,
	}
	deriveCmd.Flags().String("write", "", "write the binary derived params cache to this path")
	root.AddCommand(deriveCmd)

	return root
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevel()
	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}

	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return cfg.Build()
}
