package main

import (
	"fmt"
	"os"

	superhero "github.com/DirtdiverIV/SuperHero"
	"github.com/DirtdiverIV/SuperHero/config"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.PersistentFlags().StringP("config", "c", "", "path to config file (optional)")
	rootCmd.PersistentFlags().String("api-url", "", "collection service URL (overrides config)")
}

// loadConfig resolves the CLI configuration: the --config file when given,
// defaults otherwise, with --api-url overriding either.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)

	configFile, _ := cmd.Flags().GetString("config")
	if configFile != "" {
		cfg, err = config.Load(configFile)
	} else {
		cfg, err = config.Parse(nil)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if apiURL, _ := cmd.Flags().GetString("api-url"); apiURL != "" {
		cfg.APIURL = apiURL
	}
	return cfg, nil
}

// newStore builds an SDK store from the resolved configuration.
// The caller must Close the returned store.
func newStore(cmd *cobra.Command) (*superhero.Store, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	opts := append(config.BuildOptions(cfg), superhero.WithLogger(newLogger()))
	store, err := superhero.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create store: %w", err)
	}
	return store, nil
}

// printHeroes renders a hero list with the pagination footer.
func printHeroes(heroes []superhero.Hero, total int, filters superhero.Filters) {
	if len(heroes) == 0 {
		fmt.Println("No heroes found.")
		return
	}
	for _, hero := range heroes {
		printHero(hero)
	}
	fmt.Printf("Page %d (%d per page), %d total\n", filters.Page, filters.PageSize, total)
}

// printHero renders a single hero.
func printHero(hero superhero.Hero) {
	fmt.Printf("%s  %s", hero.ID, hero.Name)
	if hero.AlterEgo != "" {
		fmt.Printf(" (%s)", hero.AlterEgo)
	}
	fmt.Println()
	if hero.Publisher != "" {
		fmt.Printf("    publisher: %s\n", hero.Publisher)
	}
	if len(hero.Powers) > 0 {
		fmt.Printf("    powers:    %v\n", hero.Powers)
	}
	if !hero.FirstAppearance.IsZero() {
		fmt.Printf("    debut:     %s\n", hero.FirstAppearance.Format("2006-01-02"))
	}
}

// fail prints the store's error message and exits non-zero. Used after an
// operation when the error selector reports a failure.
func fail(message string) {
	fmt.Fprintf(os.Stderr, "Error: %s\n", message)
	os.Exit(1)
}
