// Demo program: starts an in-memory collection server, points a store at
// it, and walks through the store API end to end.
//
// Run with:
//
//	go run ./example
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	superhero "github.com/DirtdiverIV/SuperHero"
	"github.com/DirtdiverIV/SuperHero/internal/heroserver"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ephemeral collection server, seeded with well-known heroes
	repo, err := heroserver.OpenRepository(":memory:")
	if err != nil {
		logger.Error("failed to open repository", "error", err)
		os.Exit(1)
	}
	defer repo.Close()

	if err := repo.Seed(ctx); err != nil {
		logger.Error("failed to seed repository", "error", err)
		os.Exit(1)
	}

	srv := heroserver.NewServer(repo, 0, logger)
	if err := srv.Start(ctx); err != nil {
		logger.Error("failed to start server", "error", err)
		os.Exit(1)
	}

	store, err := superhero.New(
		superhero.WithBaseURL("http://"+srv.Addr()),
		superhero.WithDefaultPageSize(4),
		superhero.WithDebounce(150*time.Millisecond),
		superhero.WithLogger(logger),
	)
	if err != nil {
		logger.Error("failed to create store", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	// watch every completed state update in the background
	updates := store.Subscribe()
	go func() {
		for snap := range updates {
			fmt.Printf("  [update] heroes=%d total=%d loading=%v err=%q term=%q\n",
				len(snap.Heroes), snap.Total, snap.Loading, snap.Err, snap.SearchTerm)
		}
	}()

	fmt.Println("== First page ==")
	store.LoadHeroes(ctx)
	printPage(store)

	fmt.Println("== Second page ==")
	store.LoadHeroes(ctx, superhero.WithPage(2))
	printPage(store)

	fmt.Println("== Create ==")
	store.CreateHero(ctx, superhero.HeroDraft{
		Name:      "Daredevil",
		Powers:    []string{"radar sense", "martial arts"},
		AlterEgo:  "Matt Murdock",
		Publisher: "Marvel Comics",
	})
	printPage(store)

	fmt.Println("== Select, update, deselect ==")
	heroes := store.Heroes()
	if len(heroes) > 0 {
		id := heroes[0].ID
		store.LoadHeroByID(ctx, id)
		if sel := store.SelectedHero(); sel != nil {
			fmt.Printf("  selected %s (%s)\n", sel.Name, sel.ID)
		}

		name := heroes[0].Name + " (updated)"
		store.UpdateHero(ctx, id, superhero.HeroPatch{Name: &name})
		if sel := store.SelectedHero(); sel != nil {
			fmt.Printf("  after update: %s\n", sel.Name)
		}
		store.ClearSelected()
	}

	fmt.Println("== Debounced search ==")
	// rapid keystrokes; only the final term survives the quiet window
	for _, term := range []string{"s", "sp", "spider"} {
		t := term
		store.SetSearchTerm(&t)
		time.Sleep(40 * time.Millisecond)
	}
	time.Sleep(400 * time.Millisecond)
	printPage(store)

	fmt.Println("== Reset ==")
	store.Reset()
	fmt.Printf("  heroes=%d term=%q filters=%+v\n",
		len(store.Heroes()), store.SearchTerm(), store.CurrentFilters())

	fmt.Println("== Done ==")
}

func printPage(store *superhero.Store) {
	if msg := store.Err(); msg != "" {
		fmt.Printf("  error: %s\n", msg)
		return
	}
	filters := store.CurrentFilters()
	fmt.Printf("  page %d (size %d), %d total:\n", filters.Page, filters.PageSize, store.Total())
	for _, hero := range store.Heroes() {
		fmt.Printf("  - %-14s %s\n", hero.Name, hero.Publisher)
	}
}
