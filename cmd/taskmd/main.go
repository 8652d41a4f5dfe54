// Package main provides the taskmd CLI: the I/O-performing caller around
// the parsing core. It reads documents, hands strings to the core, and
// persists mutated content; the core itself never touches the filesystem.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/cloud-shuttle/taskmd/internal/config"
	"github.com/cloud-shuttle/taskmd/pkg/telemetry"
)

var (
	cfg    *config.Config
	logger *zap.Logger
)

func newRootCmd() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:   "taskmd",
		Short: "Parse and manage markdown task documents",
		Long: `taskmd converts tasks.md documents and MoAI SPEC triads into typed
trees, resolves historical task-identifier dialects, and flips task
checkboxes without disturbing any other byte of the source file.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.Load()
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			if verbose {
				cfg.Verbose = true
			}

			zapCfg := zap.NewProductionConfig()
			if cfg.Verbose {
				zapCfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
			}
			logger, err = zapCfg.Build()
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				_ = logger.Sync()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")

	root.AddCommand(parseCmd())
	root.AddCommand(syncCmd())
	root.AddCommand(resolveCmd())
	root.AddCommand(checkCmd())
	root.AddCommand(uncheckCmd())
	root.AddCommand(toggleCmd())
	root.AddCommand(completeCmd())
	root.AddCommand(reportCmd())
	root.AddCommand(specCmd())

	return root
}

func main() {
	ctx := context.Background()

	shutdown, err := telemetry.Init(ctx, telemetry.DefaultConfig())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	execErr := newRootCmd().Execute()
	if err := shutdown(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
	if execErr != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", execErr)
		os.Exit(1)
	}
}
