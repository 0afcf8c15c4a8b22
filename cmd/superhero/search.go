package main

import (
	"context"
	"fmt"
	"time"

	superhero "github.com/DirtdiverIV/SuperHero"
	"github.com/spf13/cobra"
)

// searchCmd runs a name search through the debounce pipeline.
var searchCmd = &cobra.Command{
	Use:   "search <term>",
	Short: "Search heroes by name",
	Long: `Search the collection by hero name.

The term is fed through the store's debounce pipeline, exactly as an
interactive consumer would, and the command waits for the resulting page.
An empty term ("") clears the search and loads the unfiltered list.

Example:
  superhero search spider
  superhero search ""`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	store, err := newStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	term := args[0]

	// the pipeline dedupes against the previous term, so searching for the
	// current term (including "" on a fresh store) would never emit; load
	// the page directly in that case
	if term == store.SearchTerm() {
		ctx, cancel := context.WithTimeout(cmd.Context(), opTimeout)
		defer cancel()
		store.LoadHeroes(ctx, superhero.WithPage(1))
		if msg := store.Err(); msg != "" {
			fail(msg)
		}
		printHeroes(store.Heroes(), store.Total(), store.CurrentFilters())
		return nil
	}

	updates := store.Subscribe()
	store.SetSearchTerm(&term)

	deadline := time.After(opTimeout)
	for {
		select {
		case snap, ok := <-updates:
			if !ok {
				return fmt.Errorf("store closed before the search completed")
			}
			if snap.SearchTerm != term || snap.Loading {
				continue
			}
			if snap.Err != "" {
				fail(snap.Err)
			}
			printHeroes(snap.Heroes, snap.Total, snap.Filters)
			return nil
		case <-deadline:
			return fmt.Errorf("search timed out after %s", opTimeout)
		}
	}
}
