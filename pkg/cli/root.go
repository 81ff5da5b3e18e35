package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/getchaosd/chaosd/internal/cliconfig"
	"github.com/getchaosd/chaosd/pkg/faults"
	"github.com/getchaosd/chaosd/pkg/logging"
)

var (
	// Persistent flags available to all subcommands
	endpoint   string
	region     string
	jsonOutput bool
	logLevel   string

	// Version is injected during build
	Version = "dev"
	// Commit is injected during build
	Commit = "none"
	// BuildDate is injected during build
	BuildDate = "unknown"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "chaosd",
	Short: "chaosd drives fault injection against a local cloud emulator",
	Long: `chaosd injects faults into a locally running cloud emulator, observes
the effect on emulated services, and removes the faults again when done.

It can inject and remove individual faults, add network latency, and run
complete chaos scenarios (outages, throttling, cascades, partitions) with
guaranteed fault cleanup on exit or interrupt.

The emulator endpoint defaults to http://localhost:4566 and can be changed
with --endpoint or the CHAOSD_ENDPOINT environment variable.`,
	// No Run function here means 'chaosd' with no args will print help text by default.
	SilenceUsage:  true,
	SilenceErrors: true, // We handle errors in Execute()
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&endpoint, "endpoint", cliconfig.GetEndpoint(), "Emulator base URL (default: http://localhost:4566)")
	rootCmd.PersistentFlags().StringVar(&region, "region", cliconfig.GetRegion(), "Region to target")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output command results in JSON format")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
}

// newClient returns a chaos API client for the selected endpoint.
func newClient() *faults.Client {
	return faults.NewClient(endpoint)
}

// newLogger builds the slog logger subcommands hand to the fault manager.
func newLogger() *slog.Logger {
	return logging.NewWithLevel(logging.ParseLevel(logLevel))
}
