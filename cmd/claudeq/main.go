// Command claudeq sends prompts to the Claude Code CLI and streams the
// typed reply.
package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/agentwire/claudesdk/safety"
)

var (
	limitsFlag string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "claudeq",
	Short: "Query Claude Code from the command line",
	Long: `Claudeq launches the Claude Code CLI in one-shot mode, reconstructs
its stream-json output under safety limits, and prints the reply.`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&limitsFlag, "limits", "", "Safety limits: preset name (default, conservative, generous) or path to a YAML file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// resolveLimits maps the --limits flag onto a limits value: empty means the
// defaults, a known preset name selects that preset, anything else is read
// as a YAML file path.
func resolveLimits() (safety.Limits, error) {
	if limitsFlag == "" {
		return safety.DefaultLimits(), nil
	}
	if limits, err := safety.ParsePreset(limitsFlag); err == nil {
		return limits, nil
	}
	return safety.LoadFile(limitsFlag)
}

// newLogger creates a structured logger with the configured verbosity.
func newLogger() *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
