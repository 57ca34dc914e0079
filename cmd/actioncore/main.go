// actioncore resolves model-emitted action blocks against a tool registry.
//
// The binary reads raw model output (a Thought/Action/Output block), parses
// and validates the action, dispatches the named tool method, and prints the
// resulting observation.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"actioncore/internal/logging"
)

var (
	// Persistent flags
	verbose   bool
	workspace string
	timeout   time.Duration

	// Logger
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "actioncore",
	Short: "actioncore - action resolution core for tool-using agents",
	Long: `actioncore turns raw model output into executed tool observations.

It extracts Thought/Action/Output segments from the input, validates the
action envelope and the tool's method schema, dispatches the method through
the execution boundary, and prints the resulting artifact. Failures never
escape: malformed actions resolve to diagnostic artifacts.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if workspace == "" {
			cwd, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("failed to resolve workspace: %w", err)
			}
			workspace = cwd
		}

		// Initialize logger
		config := zap.NewProductionConfig()
		if verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = config.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		if err := logging.Initialize(workspace); err != nil {
			logger.Warn("File logging unavailable", zap.Error(err))
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logging.CloseAll()
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&workspace, "workspace", "w", "", "Workspace directory (default: current)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 0, "Per-tool-call timeout (default: from config)")

	rootCmd.AddCommand(resolveCmd)
	rootCmd.AddCommand(toolsCmd)
	rootCmd.AddCommand(initCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
