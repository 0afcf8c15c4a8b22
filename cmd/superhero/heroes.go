package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	superhero "github.com/DirtdiverIV/SuperHero"
	"github.com/spf13/cobra"
)

// opTimeout bounds a single CLI-driven store operation.
const opTimeout = 30 * time.Second

// listCmd loads one page of the collection.
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Load a page of heroes",
	Long: `Load one page of the hero collection and print it.

Example:
  superhero list
  superhero list --page 2 --page-size 5`,
	RunE: runList,
}

// getCmd loads a single hero by id.
var getCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Load a single hero by id",
	Args:  cobra.ExactArgs(1),
	RunE:  runGet,
}

// createCmd creates a new hero from flags.
var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a new hero",
	Long: `Create a new hero. The server assigns the id and timestamps.

Example:
  superhero create --name "Spider-Man" --power web-slinging --power agility \
      --alter-ego "Peter Parker" --publisher "Marvel Comics"`,
	RunE: runCreate,
}

// updateCmd patches an existing hero; only changed flags are sent.
var updateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update fields of an existing hero",
	Long: `Apply a partial update to a hero. Only the flags you pass are sent;
everything else is left unchanged.

Example:
  superhero update 42 --name "Spider-Man 2099"`,
	Args: cobra.ExactArgs(1),
	RunE: runUpdate,
}

// deleteCmd removes a hero by id.
var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a hero by id",
	Args:  cobra.ExactArgs(1),
	RunE:  runDelete,
}

func init() {
	listCmd.Flags().Int("page", 0, "page number (1-based)")
	listCmd.Flags().Int("page-size", 0, "heroes per page")

	createCmd.Flags().String("name", "", "hero name (required)")
	createCmd.Flags().StringArray("power", nil, "power tag (repeatable, ordered)")
	createCmd.Flags().String("alter-ego", "", "secret identity")
	createCmd.Flags().String("publisher", "", "publishing house")
	createCmd.Flags().String("first-appearance", "", "first appearance date (YYYY-MM-DD)")
	createCmd.Flags().String("image-url", "", "image reference")
	_ = createCmd.MarkFlagRequired("name")

	updateCmd.Flags().String("name", "", "new hero name")
	updateCmd.Flags().StringArray("power", nil, "replacement power tags (repeatable)")
	updateCmd.Flags().String("alter-ego", "", "new secret identity")
	updateCmd.Flags().String("publisher", "", "new publishing house")
	updateCmd.Flags().String("first-appearance", "", "new first appearance date (YYYY-MM-DD)")
	updateCmd.Flags().String("image-url", "", "new image reference")

	rootCmd.AddCommand(listCmd, getCmd, createCmd, updateCmd, deleteCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	store, err := newStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	var opts []superhero.FilterOption
	if page, _ := cmd.Flags().GetInt("page"); page > 0 {
		opts = append(opts, superhero.WithPage(page))
	}
	if size, _ := cmd.Flags().GetInt("page-size"); size > 0 {
		opts = append(opts, superhero.WithPageSize(size))
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), opTimeout)
	defer cancel()

	store.LoadHeroes(ctx, opts...)
	if msg := store.Err(); msg != "" {
		fail(msg)
	}

	printHeroes(store.Heroes(), store.Total(), store.CurrentFilters())
	return nil
}

func runGet(cmd *cobra.Command, args []string) error {
	store, err := newStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), opTimeout)
	defer cancel()

	store.LoadHeroByID(ctx, args[0])
	if msg := store.Err(); msg != "" {
		fail(msg)
	}

	if hero := store.SelectedHero(); hero != nil {
		printHero(*hero)
	}
	return nil
}

func runCreate(cmd *cobra.Command, args []string) error {
	store, err := newStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	draft := superhero.HeroDraft{}
	draft.Name, _ = cmd.Flags().GetString("name")
	draft.Powers, _ = cmd.Flags().GetStringArray("power")
	draft.AlterEgo, _ = cmd.Flags().GetString("alter-ego")
	draft.Publisher, _ = cmd.Flags().GetString("publisher")
	draft.ImageURL, _ = cmd.Flags().GetString("image-url")

	if raw, _ := cmd.Flags().GetString("first-appearance"); raw != "" {
		date, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return fmt.Errorf("invalid first-appearance date %q (want YYYY-MM-DD)", raw)
		}
		draft.FirstAppearance = date
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), opTimeout)
	defer cancel()

	store.CreateHero(ctx, draft)
	if msg := store.Err(); msg != "" {
		fail(msg)
	}

	heroes := store.Heroes()
	if len(heroes) > 0 {
		fmt.Println("Created:")
		printHero(heroes[len(heroes)-1])
	}
	return nil
}

func runUpdate(cmd *cobra.Command, args []string) error {
	store, err := newStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	patch, err := patchFromFlags(cmd)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), opTimeout)
	defer cancel()

	store.UpdateHero(ctx, args[0], patch)
	if msg := store.Err(); msg != "" {
		fail(msg)
	}

	fmt.Printf("Updated %s\n", args[0])
	return nil
}

func runDelete(cmd *cobra.Command, args []string) error {
	store, err := newStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), opTimeout)
	defer cancel()

	store.DeleteHero(ctx, args[0])
	if msg := store.Err(); msg != "" {
		fail(msg)
	}

	fmt.Printf("Deleted %s\n", args[0])
	return nil
}

// patchFromFlags builds a partial update from the flags the user actually
// changed, so untouched fields stay untouched server-side.
func patchFromFlags(cmd *cobra.Command) (superhero.HeroPatch, error) {
	patch := superhero.HeroPatch{}

	if cmd.Flags().Changed("name") {
		name, _ := cmd.Flags().GetString("name")
		if strings.TrimSpace(name) == "" {
			return patch, fmt.Errorf("name cannot be blank")
		}
		patch.Name = &name
	}
	if cmd.Flags().Changed("power") {
		powers, _ := cmd.Flags().GetStringArray("power")
		patch.Powers = &powers
	}
	if cmd.Flags().Changed("alter-ego") {
		alterEgo, _ := cmd.Flags().GetString("alter-ego")
		patch.AlterEgo = &alterEgo
	}
	if cmd.Flags().Changed("publisher") {
		publisher, _ := cmd.Flags().GetString("publisher")
		patch.Publisher = &publisher
	}
	if cmd.Flags().Changed("first-appearance") {
		raw, _ := cmd.Flags().GetString("first-appearance")
		date, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return patch, fmt.Errorf("invalid first-appearance date %q (want YYYY-MM-DD)", raw)
		}
		patch.FirstAppearance = &date
	}
	if cmd.Flags().Changed("image-url") {
		imageURL, _ := cmd.Flags().GetString("image-url")
		patch.ImageURL = &imageURL
	}

	return patch, nil
}
