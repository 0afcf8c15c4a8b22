package superhero

import (
	"context"

	"github.com/DirtdiverIV/SuperHero/internal/api"
)

// HeroPage is one page of list results together with the server-reported
// total count matching the filters.
type HeroPage struct {
	Heroes []Hero
	Total  int
}

// Client is the remote collection service the store synchronizes with.
//
// All five calls are context-aware and may fail with a transport error or a
// server error response; the store collapses either into the error state
// field without inspecting status codes. The default implementation talks
// HTTP to a paginated collection endpoint (see [WithBaseURL]); supply a
// custom implementation with [WithClient] for tests or alternative
// transports.
type Client interface {
	// List fetches one page matching the filters. Pagination and substring
	// name filtering are server-side.
	List(ctx context.Context, filters Filters) (HeroPage, error)

	// Get fetches a single hero by id.
	Get(ctx context.Context, id string) (Hero, error)

	// Create stores a new hero; the server assigns id and timestamps.
	Create(ctx context.Context, draft HeroDraft) (Hero, error)

	// Update applies a partial update and returns the updated record.
	Update(ctx context.Context, id string, patch HeroPatch) (Hero, error)

	// Delete removes a hero by id.
	Delete(ctx context.Context, id string) error
}

// apiClient adapts the internal HTTP client to the [Client] interface,
// converting between the public types and the wire types.
type apiClient struct {
	inner *api.Client
}

func (c *apiClient) List(ctx context.Context, filters Filters) (HeroPage, error) {
	page, err := c.inner.List(ctx, api.Filters{
		Page:     filters.Page,
		PageSize: filters.PageSize,
		Name:     filters.Name,
	})
	if err != nil {
		return HeroPage{}, err
	}

	heroes := make([]Hero, len(page.Data))
	for i, h := range page.Data {
		heroes[i] = fromWire(h)
	}
	return HeroPage{Heroes: heroes, Total: page.Total}, nil
}

func (c *apiClient) Get(ctx context.Context, id string) (Hero, error) {
	hero, err := c.inner.Get(ctx, id)
	if err != nil {
		return Hero{}, err
	}
	return fromWire(hero), nil
}

func (c *apiClient) Create(ctx context.Context, draft HeroDraft) (Hero, error) {
	hero, err := c.inner.Create(ctx, api.Draft{
		Name:            draft.Name,
		Powers:          draft.Powers,
		AlterEgo:        draft.AlterEgo,
		Publisher:       draft.Publisher,
		FirstAppearance: draft.FirstAppearance,
		ImageURL:        draft.ImageURL,
	})
	if err != nil {
		return Hero{}, err
	}
	return fromWire(hero), nil
}

func (c *apiClient) Update(ctx context.Context, id string, patch HeroPatch) (Hero, error) {
	hero, err := c.inner.Update(ctx, id, api.Patch{
		Name:            patch.Name,
		Powers:          patch.Powers,
		AlterEgo:        patch.AlterEgo,
		Publisher:       patch.Publisher,
		FirstAppearance: patch.FirstAppearance,
		ImageURL:        patch.ImageURL,
	})
	if err != nil {
		return Hero{}, err
	}
	return fromWire(hero), nil
}

func (c *apiClient) Delete(ctx context.Context, id string) error {
	return c.inner.Delete(ctx, id)
}

func (c *apiClient) close() {
	c.inner.Close()
}

func fromWire(h api.Hero) Hero {
	return Hero{
		ID:              h.ID,
		Name:            h.Name,
		Powers:          h.Powers,
		AlterEgo:        h.AlterEgo,
		Publisher:       h.Publisher,
		FirstAppearance: h.FirstAppearance,
		ImageURL:        h.ImageURL,
		CreatedAt:       h.CreatedAt,
		UpdatedAt:       h.UpdatedAt,
	}
}
