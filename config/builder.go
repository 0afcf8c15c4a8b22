package config

import (
	"sort"

	superhero "github.com/DirtdiverIV/SuperHero"
)

// BuildOptions converts parsed configuration into SDK store options.
//
// The returned options configure the collection URL, default page size,
// debounce window, request timeout, and any custom headers. Pass them to
// [superhero.New], optionally followed by programmatic overrides (later
// options win).
func BuildOptions(cfg *Config) []superhero.Option {
	opts := []superhero.Option{
		superhero.WithBaseURL(cfg.APIURL),
		superhero.WithDefaultPageSize(cfg.PageSize),
		superhero.WithRequestTimeout(cfg.RequestTimeout.Duration()),
	}

	if cfg.Debounce > 0 {
		opts = append(opts, superhero.WithDebounce(cfg.Debounce.Duration()))
	}

	if len(cfg.Headers) > 0 {
		opts = append(opts, superhero.WithHeaders(mapToKeyValuePairs(cfg.Headers)...))
	}

	return opts
}

// mapToKeyValuePairs converts a map to a sorted slice of key-value pairs.
func mapToKeyValuePairs(m map[string]string) []string {
	// sort keys for deterministic ordering
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(m)*2)
	for _, k := range keys {
		pairs = append(pairs, k, m[k])
	}
	return pairs
}
