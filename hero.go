package superhero

import (
	"errors"
	"time"
)

// Hero is a single domain record in the remote collection.
//
// The server assigns ID, CreatedAt, and UpdatedAt on create; ID is immutable
// once assigned. All other fields are mutable via [Store.UpdateHero].
// JSON tags match the collection API wire format.
type Hero struct {
	// ID is the opaque identifier assigned by the server.
	ID string `json:"id"`

	// Name is the hero's display name.
	Name string `json:"name"`

	// Powers is an ordered list of power tags. Duplicates are allowed.
	Powers []string `json:"powers"`

	// AlterEgo is the hero's secret identity. Empty if not known.
	AlterEgo string `json:"alterEgo,omitempty"`

	// Publisher is the publishing house the hero belongs to.
	Publisher string `json:"publisher"`

	// FirstAppearance is the date of the hero's first appearance.
	FirstAppearance time.Time `json:"firstAppearance"`

	// ImageURL is a reference to the hero's image.
	ImageURL string `json:"imageUrl"`

	// CreatedAt is the server-assigned creation timestamp.
	CreatedAt time.Time `json:"createdAt"`

	// UpdatedAt is the timestamp of the last update.
	UpdatedAt time.Time `json:"updatedAt"`
}

// HeroDraft is the input for [Store.CreateHero]: a hero without identity
// or timestamps. The server assigns those on create.
type HeroDraft struct {
	Name            string
	Powers          []string
	AlterEgo        string
	Publisher       string
	FirstAppearance time.Time
	ImageURL        string
}

// HeroPatch is a partial update for [Store.UpdateHero].
//
// Nil fields are left unchanged on the server; non-nil fields replace the
// stored value. The zero HeroPatch touches nothing but the update timestamp.
type HeroPatch struct {
	Name            *string
	Powers          *[]string
	AlterEgo        *string
	Publisher       *string
	FirstAppearance *time.Time
	ImageURL        *string
}

// Filters describes the list query sent to the collection endpoint.
//
// Page is 1-based. Name is an optional substring matched case-insensitively
// by the server; the store fills it from the current search term on every
// list load.
type Filters struct {
	Page     int
	PageSize int
	Name     string
}

// FilterOption adjusts the filters for a single [Store.LoadHeroes] call.
//
// Options are applied on top of the store's current filters, so a call with
// only [WithPage] keeps the current page size. Options return an error if
// the value would violate the filter invariants (page and page size are
// always at least 1); an invalid option makes the whole load a no-op.
type FilterOption func(*Filters) error

// WithPage sets the 1-based page number for a list load.
//
// Returns an error if page is less than 1.
func WithPage(page int) FilterOption {
	return func(f *Filters) error {
		if page < 1 {
			return errors.New("page must be at least 1")
		}
		f.Page = page
		return nil
	}
}

// WithPageSize sets the number of heroes per page for a list load.
//
// Returns an error if size is less than 1.
func WithPageSize(size int) FilterOption {
	return func(f *Filters) error {
		if size < 1 {
			return errors.New("page size must be at least 1")
		}
		f.PageSize = size
		return nil
	}
}
