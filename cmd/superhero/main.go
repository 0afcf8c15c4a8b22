// Package main is the entry point for the superhero CLI.
//
// The hero store can be used either as a library (SDK) or through this CLI,
// which drives the store against a configured collection service and can
// also run the bundled dev collection server.
//
// Usage:
//
//	superhero serve -c config.yaml      # Start the dev collection server
//	superhero list --page 2             # Load a page of heroes
//	superhero search spider             # Debounced name search
//	superhero validate -c config.yaml   # Validate configuration
//	superhero version                   # Show version info
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

// Version information - set by GoReleaser at build time via ldflags.
// Example: go build -ldflags "-X main.version=1.0.0"
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// newLogger creates a JSON logger for CLI use.
func newLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
}

// rootCmd is the base command when called without subcommands.
// It just displays help - actual functionality is in subcommands.
var rootCmd = &cobra.Command{
	Use:   "superhero",
	Short: "A client-side store for a remote hero collection",
	Long: `superhero keeps a local working set of heroes synchronized with a
remote collection service and exposes it through list, get, create,
update, delete, and debounced search commands.

Quick start:
  1. Run the dev collection server: superhero serve --seed
  2. In another terminal: superhero list
  3. Search by name: superhero search spider

By default the CLI talks to http://localhost:3000; point it elsewhere
with --api-url or a config file:

  api_url: https://heroes.example.com
  page_size: 20
  debounce: 300ms`,
	// No Run/RunE means this just shows help when called without subcommands
}

// Execute runs the root command.
// This is the main entry point called from main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		// Cobra already prints the error, just exit with code 1
		os.Exit(1)
	}
}

func main() {
	Execute()
}

// versionCmd prints version information.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Print the version, commit hash, and build date of this superhero binary.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("superhero %s\n", version)
		fmt.Printf("  commit: %s\n", commit)
		fmt.Printf("  built:  %s\n", date)
	},
}

func init() {
	// Register subcommands with root
	rootCmd.AddCommand(versionCmd)
}
