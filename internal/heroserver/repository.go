package heroserver

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // pure go sqlite driver
)

// ErrNotFound is returned when no hero exists with the requested id.
var ErrNotFound = errors.New("hero not found")

// Hero is the server-side hero record.
//
// JSON tags match the collection wire format consumed by the store's
// client. Powers is stored as a JSON array column in SQLite.
type Hero struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Powers          []string  `json:"powers"`
	AlterEgo        string    `json:"alterEgo,omitempty"`
	Publisher       string    `json:"publisher"`
	FirstAppearance time.Time `json:"firstAppearance"`
	ImageURL        string    `json:"imageUrl"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

const schema = `
CREATE TABLE IF NOT EXISTS heroes (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    powers TEXT NOT NULL DEFAULT '[]',
    alter_ego TEXT NOT NULL DEFAULT '',
    publisher TEXT NOT NULL DEFAULT '',
    first_appearance TEXT NOT NULL DEFAULT '',
    image_url TEXT NOT NULL DEFAULT '',
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_heroes_name ON heroes(name);
`

// Repository is the SQLite-backed hero collection.
//
// All methods are safe for concurrent use; database/sql serializes access
// to the underlying connection pool. Ids are assigned with uuid on create,
// timestamps with the server clock.
type Repository struct {
	db *sql.DB
}

// OpenRepository opens (or creates) a hero repository at the given DSN.
//
// Use ":memory:" for an in-memory collection or a file path for persistent
// storage. The schema is created on open if missing.
func OpenRepository(dsn string) (*Repository, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// a single connection keeps in-memory databases coherent: every
	// connection to ":memory:" would otherwise get its own empty database
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &Repository{db: db}, nil
}

// Close closes the underlying database.
func (r *Repository) Close() error {
	return r.db.Close()
}

// List returns one page of heroes plus the total count matching the name
// filter.
//
// name, when non-empty, is matched as a case-insensitive substring. page is
// 1-based. Results are ordered by creation time, then id, so pagination is
// stable.
func (r *Repository) List(ctx context.Context, page, pageSize int, name string) ([]Hero, int, error) {
	where := ""
	args := []any{}
	if name != "" {
		where = " WHERE name LIKE ? ESCAPE '\\'"
		args = append(args, "%"+escapeLike(name)+"%")
	}

	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM heroes"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count heroes: %w", err)
	}

	query := "SELECT id, name, powers, alter_ego, publisher, first_appearance, image_url, created_at, updated_at FROM heroes" +
		where + " ORDER BY created_at, id LIMIT ? OFFSET ?"
	args = append(args, pageSize, (page-1)*pageSize)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list heroes: %w", err)
	}
	defer func() { _ = rows.Close() }()

	heroes := []Hero{}
	for rows.Next() {
		hero, err := scanHero(rows)
		if err != nil {
			return nil, 0, err
		}
		heroes = append(heroes, hero)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to read heroes: %w", err)
	}
	return heroes, total, nil
}

// Get returns the hero with the given id, or [ErrNotFound].
func (r *Repository) Get(ctx context.Context, id string) (Hero, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT id, name, powers, alter_ego, publisher, first_appearance, image_url, created_at, updated_at FROM heroes WHERE id = ?",
		id)

	hero, err := scanHero(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Hero{}, ErrNotFound
	}
	if err != nil {
		return Hero{}, err
	}
	return hero, nil
}

// Create stores a new hero, assigning a fresh id and timestamps, and
// returns the stored record.
func (r *Repository) Create(ctx context.Context, hero Hero) (Hero, error) {
	now := time.Now().UTC()
	hero.ID = uuid.NewString()
	hero.CreatedAt = now
	hero.UpdatedAt = now
	if hero.Powers == nil {
		hero.Powers = []string{}
	}

	powers, err := json.Marshal(hero.Powers)
	if err != nil {
		return Hero{}, fmt.Errorf("failed to encode powers: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		"INSERT INTO heroes (id, name, powers, alter_ego, publisher, first_appearance, image_url, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)",
		hero.ID, hero.Name, string(powers), hero.AlterEgo, hero.Publisher,
		formatTime(hero.FirstAppearance), hero.ImageURL,
		formatTime(hero.CreatedAt), formatTime(hero.UpdatedAt))
	if err != nil {
		return Hero{}, fmt.Errorf("failed to insert hero: %w", err)
	}
	return hero, nil
}

// Update replaces the mutable fields of an existing hero and stamps a new
// update timestamp. The caller supplies the fully merged record (see the
// server's PATCH handler); id and creation timestamp are never changed.
func (r *Repository) Update(ctx context.Context, hero Hero) (Hero, error) {
	hero.UpdatedAt = time.Now().UTC()
	if hero.Powers == nil {
		hero.Powers = []string{}
	}

	powers, err := json.Marshal(hero.Powers)
	if err != nil {
		return Hero{}, fmt.Errorf("failed to encode powers: %w", err)
	}

	result, err := r.db.ExecContext(ctx,
		"UPDATE heroes SET name = ?, powers = ?, alter_ego = ?, publisher = ?, first_appearance = ?, image_url = ?, updated_at = ? WHERE id = ?",
		hero.Name, string(powers), hero.AlterEgo, hero.Publisher,
		formatTime(hero.FirstAppearance), hero.ImageURL,
		formatTime(hero.UpdatedAt), hero.ID)
	if err != nil {
		return Hero{}, fmt.Errorf("failed to update hero: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return Hero{}, fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return Hero{}, ErrNotFound
	}
	return hero, nil
}

// Delete removes the hero with the given id, or returns [ErrNotFound].
func (r *Repository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM heroes WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete hero: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// Seed populates an empty collection with a set of well-known heroes.
// A collection that already holds data is left untouched.
func (r *Repository) Seed(ctx context.Context) error {
	var count int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM heroes").Scan(&count); err != nil {
		return fmt.Errorf("failed to count heroes: %w", err)
	}
	if count > 0 {
		return nil
	}

	for _, hero := range seedHeroes() {
		if _, err := r.Create(ctx, hero); err != nil {
			return err
		}
	}
	return nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// scanHero reads one hero row, decoding the powers JSON column and parsing
// timestamp columns.
func scanHero(s scanner) (Hero, error) {
	var (
		hero                               Hero
		powers, firstApp, created, updated string
	)
	if err := s.Scan(&hero.ID, &hero.Name, &powers, &hero.AlterEgo, &hero.Publisher,
		&firstApp, &hero.ImageURL, &created, &updated); err != nil {
		return Hero{}, err
	}

	if err := json.Unmarshal([]byte(powers), &hero.Powers); err != nil {
		return Hero{}, fmt.Errorf("failed to decode powers for hero %s: %w", hero.ID, err)
	}

	var err error
	if hero.FirstAppearance, err = parseTime(firstApp); err != nil {
		return Hero{}, fmt.Errorf("invalid first_appearance for hero %s: %w", hero.ID, err)
	}
	if hero.CreatedAt, err = parseTime(created); err != nil {
		return Hero{}, fmt.Errorf("invalid created_at for hero %s: %w", hero.ID, err)
	}
	if hero.UpdatedAt, err = parseTime(updated); err != nil {
		return Hero{}, fmt.Errorf("invalid updated_at for hero %s: %w", hero.ID, err)
	}
	return hero, nil
}

// timeLayout keeps a fixed-width fractional second so the stored text
// sorts lexicographically in timestamp order (RFC3339Nano trims trailing
// zeros, which would break ORDER BY created_at).
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// formatTime stores timestamps as fixed-width RFC3339 text, the zero time
// as "".
func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(timeLayout)
}

// parseTime is the inverse of formatTime.
func parseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339Nano, s)
}

// escapeLike escapes the SQL LIKE wildcards in a user-supplied substring.
func escapeLike(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '%', '_', '\\':
			out = append(out, '\\')
		}
		out = append(out, s[i])
	}
	return string(out)
}
