package superhero

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/DirtdiverIV/SuperHero/internal/api"
)

const (
	defaultPageSize       = 10
	defaultDebounceWindow = 300 * time.Millisecond
	defaultRequestTimeout = 10 * time.Second
)

// storeConfig holds mutable state during store construction.
type storeConfig struct {
	baseURL  string
	headers  map[string]string
	client   Client
	pageSize int
	debounce time.Duration
	timeout  time.Duration
	logger   *slog.Logger
}

func defaultStoreConfig() *storeConfig {
	return &storeConfig{
		headers:  make(map[string]string),
		pageSize: defaultPageSize,
		debounce: defaultDebounceWindow,
		timeout:  defaultRequestTimeout,
	}
}

// newHTTPClient builds the default HTTP collection client from the config.
func newHTTPClient(cfg *storeConfig) *api.Client {
	return api.NewClient(cfg.baseURL, cfg.headers, cfg.timeout)
}

// Option is a function that configures a [Store] during construction.
//
// Option implements the functional options pattern, allowing optional
// configuration to be passed to [New] in a type-safe, extensible way.
// Options return an error if validation fails.
type Option func(*storeConfig) error

// WithBaseURL points the store at a remote collection service by URL.
//
// The URL is the API root; the store appends the /heroes collection path.
// Mutually exclusive with [WithClient] (the custom client wins if both are
// given).
//
// Example:
//
//	store, err := superhero.New(superhero.WithBaseURL("http://localhost:3000"))
//
// Returns an error if the URL is invalid or missing a scheme.
func WithBaseURL(rawURL string) Option {
	return func(cfg *storeConfig) error {
		parsed, err := url.Parse(rawURL)
		if err != nil {
			return fmt.Errorf("invalid base URL: %w", err)
		}
		if parsed.Scheme == "" {
			return errors.New("base URL must have a scheme (http:// or https://)")
		}
		// url.Parse reads "localhost:3000" as scheme "localhost", so an
		// empty-scheme check alone lets schemeless host:port values through
		if parsed.Scheme != "http" && parsed.Scheme != "https" {
			return fmt.Errorf("base URL scheme must be http or https, got %q", parsed.Scheme)
		}
		cfg.baseURL = rawURL
		return nil
	}
}

// WithClient supplies a custom [Client] implementation, bypassing the
// default HTTP client. Intended for tests and alternative transports.
//
// Returns an error if the client is nil.
func WithClient(c Client) Option {
	return func(cfg *storeConfig) error {
		if c == nil {
			return errors.New("client cannot be nil")
		}
		cfg.client = c
		return nil
	}
}

// WithDefaultPageSize sets the default page size used by the initial
// filters and after [Store.Reset]. Distinct from the per-call
// [WithPageSize] filter option, which adjusts a single list load.
//
// Returns an error if size is less than 1.
func WithDefaultPageSize(size int) Option {
	return func(cfg *storeConfig) error {
		if size < 1 {
			return errors.New("page size must be at least 1")
		}
		cfg.pageSize = size
		return nil
	}
}

// WithDebounce sets the search pipeline's quiet window.
//
// Search input is coalesced until no new value has arrived for this long;
// the default is 300ms. Returns an error if the window is not positive or
// exceeds 10 seconds.
func WithDebounce(window time.Duration) Option {
	return func(cfg *storeConfig) error {
		if window <= 0 {
			return errors.New("debounce window must be positive")
		}
		if window > 10*time.Second {
			return errors.New("debounce window must not exceed 10 seconds")
		}
		cfg.debounce = window
		return nil
	}
}

// WithRequestTimeout sets the per-request timeout for the default HTTP
// client. Ignored when [WithClient] is used.
//
// Returns an error if the duration is zero or negative.
func WithRequestTimeout(d time.Duration) Option {
	return func(cfg *storeConfig) error {
		if d <= 0 {
			return errors.New("request timeout must be positive")
		}
		cfg.timeout = d
		return nil
	}
}

// WithHeaders adds custom HTTP headers sent with every collection request.
//
// Use this for services that require authentication. Ignored when
// [WithClient] is used. Accepts variadic key-value pairs; the number of
// arguments must be even.
//
// Example:
//
//	store, err := superhero.New(
//	    superhero.WithBaseURL(url),
//	    superhero.WithHeaders("Authorization", "Bearer token123"),
//	)
//
// Returns an error if an odd number of arguments is provided.
func WithHeaders(keyValues ...string) Option {
	return func(cfg *storeConfig) error {
		if len(keyValues)%2 != 0 {
			return errors.New("WithHeaders requires an even number of arguments (key-value pairs)")
		}
		for i := 0; i < len(keyValues); i += 2 {
			cfg.headers[keyValues[i]] = keyValues[i+1]
		}
		return nil
	}
}

// WithLogger sets the logger for store events (failed operations, dropped
// loads). Defaults to slog.Default().
//
// Returns an error if the logger is nil.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *storeConfig) error {
		if logger == nil {
			return errors.New("logger cannot be nil")
		}
		cfg.logger = logger
		return nil
	}
}
