package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	verbose   bool
	logFormat string
)

// Execute runs the root command
func Execute(ctx context.Context, version, commit, buildDate string) error {
	rootCmd := newRootCommand(version, commit, buildDate)
	return rootCmd.ExecuteContext(ctx)
}

func newRootCommand(version, commit, buildDate string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "nms-install",
		Short: "Cambium NMS Templates - monitoring template installer",
		Long: `nms-install deploys Cambium monitoring template bundles onto an NMS
platform. A bundle declares the inputs it needs in a requirements.yaml
document; the installer collects them (interactively or from environment
variables), connects to the Zabbix API, and reconciles the server to the
bundle's desired state.

Every step is idempotent: re-running the installer against the same
server converges to the same result.`,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildDate),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Persistent flags available to all commands
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "console", "log format (console, json)")

	rootCmd.AddCommand(newInstallCommand())
	rootCmd.AddCommand(newValidateCommand())

	return rootCmd
}

// hinter is satisfied by the module's fatal error types; each carries a
// remediation hint for the operator.
type hinter interface {
	Hint() string
}

// HintFor walks the error chain and returns the first remediation hint.
func HintFor(err error) string {
	for e := err; e != nil; e = errors.Unwrap(e) {
		if h, ok := e.(hinter); ok {
			return h.Hint()
		}
	}
	return ""
}
