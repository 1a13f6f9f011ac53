package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mamadbah2/assetvista/internal/app"
	"github.com/mamadbah2/assetvista/internal/config"
	"github.com/mamadbah2/assetvista/pkg/logger"
)

type options struct {
	envFile   string
	outputFmt string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "assetctl",
		Short: "Operator CLI for the asset dashboard",
		Long: `assetctl reads the asset collection from the configured backend
(BACKEND=memory|mongodb|sheets) and prints the same figures the dashboard shows.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&opts.envFile, "env", "", "Path to a .env file (default: ./.env when present)")
	root.PersistentFlags().StringVarP(&opts.outputFmt, "output", "o", "table", "Output format: table, json")

	root.AddCommand(newExportCmd(opts))
	root.AddCommand(newSummaryCmd(opts))
	root.AddCommand(newDiscrepanciesCmd(opts))
	return root
}

// openApp loads configuration and connects to the backend.
func openApp(ctx context.Context, opts *options) (*app.App, error) {
	cfg, err := config.Load(opts.envFile)
	if err != nil {
		return nil, err
	}
	log, err := logger.New(cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	a, err := app.New(ctx, cfg, log)
	if err != nil {
		return nil, fmt.Errorf("open %s backend: %w", cfg.Backend, err)
	}
	return a, nil
}
