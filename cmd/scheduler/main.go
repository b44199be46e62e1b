/**
 * CONTEXT:   Single binary entry point for the duty scheduler CLI
 * INPUT:     Command line arguments determining operation mode (run, report, serve, version)
 * OUTPUT:    Exit code reflecting whether the requested command succeeded
 * BUSINESS:  One binary drives both ad-hoc scheduling runs and roster reports
 * CHANGE:    Initial Go port of the single-binary CLI entry point
 * RISK:      Low - Command routing with clear error messages
 */

package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// Build information (set by build process)
var (
	Version   = "0.1.0"
	BuildTime = "development"
	GitCommit = "unknown"
)

/**
 * CONTEXT:   Color definitions for consistent CLI output
 * INPUT:     Terminal color capability detection
 * OUTPUT:    Themed color scheme for different message types
 * BUSINESS:  A consistent palette makes closers and errors easy to scan at a glance
 * CHANGE:    Carried over from the ambient CLI color theme
 * RISK:      Low - Colors with fallback for no-color terminals
 */
var (
	successColor = color.New(color.FgGreen, color.Bold)
	errorColor   = color.New(color.FgRed, color.Bold)
	warningColor = color.New(color.FgYellow, color.Bold)
	infoColor    = color.New(color.FgCyan)
	headerColor  = color.New(color.FgMagenta, color.Bold)
)

// Global flags
var (
	noColor bool
)

var rootCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "Worker duty scheduling engine",
	Long: `scheduler builds weekend closing rosters and weekday Y-task assignments
from a worker roster and a date range.

  scheduler run --workers roster.json --start 01/01/2025 --end 31/01/2025 --closers 2
  scheduler report --workers roster.json
  scheduler serve --listen localhost:8193`,
}

func main() {
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if noColor || os.Getenv("NO_COLOR") != "" {
			color.NoColor = true
		}
	}

	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)

	if err := rootCmd.Execute(); err != nil {
		errorColor.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Printf("scheduler %s (built %s, commit %s)\n", Version, BuildTime, GitCommit)
		return nil
	},
}
