package main

import (
	"fmt"
	"sort"

	"github.com/DirtdiverIV/SuperHero/config"
	"github.com/spf13/cobra"
)

// validateCmd validates a config file without touching the network.
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a config file",
	Long: `Validate a superhero configuration file without contacting any server.

This command parses the YAML, expands environment variables, and validates
all fields. It's useful for CI/CD pipelines or pre-deployment checks.

Exit codes:
  0 - Config is valid
  1 - Config is invalid (error details printed to stderr)

Example:
  superhero validate -c config.yaml
  superhero validate --config /etc/superhero/config.yaml`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	configFile, _ := cmd.Flags().GetString("config")
	if configFile == "" {
		return fmt.Errorf("a config file is required: use --config")
	}
	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	fmt.Printf("Config is valid!\n")
	fmt.Printf("  API URL:         %s\n", cfg.APIURL)
	fmt.Printf("  Page size:       %d\n", cfg.PageSize)
	fmt.Printf("  Debounce:        %s\n", cfg.Debounce.Duration())
	fmt.Printf("  Request timeout: %s\n", cfg.RequestTimeout.Duration())
	if len(cfg.Headers) > 0 {
		names := make([]string, 0, len(cfg.Headers))
		for name := range cfg.Headers {
			names = append(names, name)
		}
		sort.Strings(names)
		fmt.Printf("  Headers:         %d (%v)\n", len(cfg.Headers), names)
	}
	fmt.Printf("  Server:          port %d, db %s\n", cfg.Server.Port, cfg.Server.DB)

	return nil
}
