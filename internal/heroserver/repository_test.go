package heroserver

import (
	"context"
	"errors"
	"testing"
	"time"
)

func openTestRepo(t *testing.T) *Repository {
	t.Helper()
	repo, err := OpenRepository(":memory:")
	if err != nil {
		t.Fatalf("OpenRepository() error = %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func TestCreate_AssignsIDAndTimestamps(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()

	before := time.Now().UTC().Add(-time.Second)
	hero, err := repo.Create(ctx, Hero{Name: "Nova", Powers: []string{"flight"}})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if hero.ID == "" {
		t.Error("Create() assigned no id")
	}
	if hero.CreatedAt.Before(before) || hero.UpdatedAt.Before(before) {
		t.Errorf("timestamps = %v/%v, want recent", hero.CreatedAt, hero.UpdatedAt)
	}

	stored, err := repo.Get(ctx, hero.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if stored.Name != "Nova" || len(stored.Powers) != 1 || stored.Powers[0] != "flight" {
		t.Errorf("Get() = %+v, want the created record", stored)
	}
}

func TestCreate_NilPowersStoredAsEmptyList(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()

	hero, err := repo.Create(ctx, Hero{Name: "Plain"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	stored, err := repo.Get(ctx, hero.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if stored.Powers == nil || len(stored.Powers) != 0 {
		t.Errorf("Powers = %#v, want empty non-nil slice", stored.Powers)
	}
}

func TestGet_NotFound(t *testing.T) {
	repo := openTestRepo(t)

	_, err := repo.Get(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() error = %v, want ErrNotFound", err)
	}
}

func TestUpdate_ReplacesFieldsAndStampsUpdatedAt(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()

	hero, err := repo.Create(ctx, Hero{Name: "Ant-Man", Publisher: "Marvel Comics"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	hero.Name = "Giant-Man"
	hero.Powers = []string{"size manipulation"}
	updated, err := repo.Update(ctx, hero)
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	if updated.Name != "Giant-Man" {
		t.Errorf("Name = %q, want %q", updated.Name, "Giant-Man")
	}
	if updated.UpdatedAt.Before(hero.CreatedAt) {
		t.Errorf("UpdatedAt = %v, want >= CreatedAt %v", updated.UpdatedAt, hero.CreatedAt)
	}

	stored, err := repo.Get(ctx, hero.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if stored.Name != "Giant-Man" || stored.Publisher != "Marvel Comics" {
		t.Errorf("Get() = %+v, want updated name with publisher intact", stored)
	}
}

func TestUpdate_NotFound(t *testing.T) {
	repo := openTestRepo(t)

	_, err := repo.Update(context.Background(), Hero{ID: "missing", Name: "Ghost"})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Update() error = %v, want ErrNotFound", err)
	}
}

func TestDelete_RemovesRecord(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()

	hero, err := repo.Create(ctx, Hero{Name: "Doomed"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if err := repo.Delete(ctx, hero.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := repo.Get(ctx, hero.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() after delete error = %v, want ErrNotFound", err)
	}
	if err := repo.Delete(ctx, hero.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Delete() error = %v, want ErrNotFound", err)
	}
}

func TestList_PaginatesWithStableOrder(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()

	for _, name := range []string{"A", "B", "C", "D", "E"} {
		if _, err := repo.Create(ctx, Hero{Name: name}); err != nil {
			t.Fatalf("Create(%s) error = %v", name, err)
		}
	}

	page1, total, err := repo.List(ctx, 1, 2, "")
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if total != 5 {
		t.Errorf("total = %d, want 5", total)
	}
	if len(page1) != 2 {
		t.Errorf("len(page1) = %d, want 2", len(page1))
	}

	page3, _, err := repo.List(ctx, 3, 2, "")
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(page3) != 1 {
		t.Errorf("len(page3) = %d, want 1", len(page3))
	}

	// no id appears on two pages
	page2, _, err := repo.List(ctx, 2, 2, "")
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	seen := map[string]bool{}
	for _, h := range append(append(page1, page2...), page3...) {
		if seen[h.ID] {
			t.Fatalf("id %q appears on two pages", h.ID)
		}
		seen[h.ID] = true
	}
	if len(seen) != 5 {
		t.Errorf("pages cover %d heroes, want 5", len(seen))
	}
}

func TestList_PageBeyondEndIsEmpty(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()

	if _, err := repo.Create(ctx, Hero{Name: "Solo"}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	heroes, total, err := repo.List(ctx, 5, 10, "")
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if total != 1 {
		t.Errorf("total = %d, want 1", total)
	}
	if len(heroes) != 0 {
		t.Errorf("len(heroes) = %d, want 0", len(heroes))
	}
}

// TestList_NameFilterCaseInsensitiveSubstring verifies name_like semantics:
// substring match, ASCII case folded, total restricted to the filter.
func TestList_NameFilterCaseInsensitiveSubstring(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()

	for _, name := range []string{"Spider-Man", "Spider-Woman", "Batman"} {
		if _, err := repo.Create(ctx, Hero{Name: name}); err != nil {
			t.Fatalf("Create(%s) error = %v", name, err)
		}
	}

	heroes, total, err := repo.List(ctx, 1, 10, "sPiDeR")
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if total != 2 {
		t.Errorf("total = %d, want 2", total)
	}
	for _, h := range heroes {
		if h.Name == "Batman" {
			t.Errorf("filter matched %q", h.Name)
		}
	}
}

func TestList_NameFilterEscapesWildcards(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()

	for _, name := range []string{"100% Hero", "Percent"} {
		if _, err := repo.Create(ctx, Hero{Name: name}); err != nil {
			t.Fatalf("Create(%s) error = %v", name, err)
		}
	}

	_, total, err := repo.List(ctx, 1, 10, "100%")
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if total != 1 {
		t.Errorf("total = %d, want 1 (literal %% match)", total)
	}
}

func TestSeed_OnlyPopulatesEmptyCollection(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()

	if err := repo.Seed(ctx); err != nil {
		t.Fatalf("Seed() error = %v", err)
	}
	_, total, err := repo.List(ctx, 1, 100, "")
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if total == 0 {
		t.Fatal("Seed() left the collection empty")
	}

	// a second seed is a no-op
	if err := repo.Seed(ctx); err != nil {
		t.Fatalf("second Seed() error = %v", err)
	}
	_, again, err := repo.List(ctx, 1, 100, "")
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if again != total {
		t.Errorf("total after reseed = %d, want %d", again, total)
	}
}

func TestTimeRoundTrip(t *testing.T) {
	stamp := time.Date(2024, 5, 17, 8, 30, 0, 500_000_000, time.UTC)

	parsed, err := parseTime(formatTime(stamp))
	if err != nil {
		t.Fatalf("parseTime() error = %v", err)
	}
	if !parsed.Equal(stamp) {
		t.Errorf("round trip = %v, want %v", parsed, stamp)
	}

	zero, err := parseTime(formatTime(time.Time{}))
	if err != nil {
		t.Fatalf("parseTime() error = %v", err)
	}
	if !zero.IsZero() {
		t.Errorf("zero round trip = %v, want zero time", zero)
	}
}
