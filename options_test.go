package superhero

import (
	"log/slog"
	"os"
	"strings"
	"testing"
	"time"
)

func TestWithBaseURL_Valid(t *testing.T) {
	s, err := New(WithBaseURL("http://localhost:3000"))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	s.Close()
}

func TestWithBaseURL_MissingScheme(t *testing.T) {
	// "localhost:3000" parses as scheme "localhost", so both spellings of a
	// schemeless URL must be rejected
	for _, rawURL := range []string{"localhost:3000", "heroes.example.com"} {
		_, err := New(WithBaseURL(rawURL))
		if err == nil {
			t.Fatalf("New(WithBaseURL(%q)) expected error for URL without scheme, got nil", rawURL)
		}
		if !strings.Contains(err.Error(), "scheme") {
			t.Errorf("New(WithBaseURL(%q)) error = %v, want error mentioning scheme", rawURL, err)
		}
	}
}

func TestWithBaseURL_NonHTTPScheme(t *testing.T) {
	_, err := New(WithBaseURL("ftp://heroes.example.com"))
	if err == nil {
		t.Fatal("New() expected error for ftp scheme, got nil")
	}
	if !strings.Contains(err.Error(), "http") {
		t.Errorf("New() error = %v, want error naming http/https", err)
	}
}

func TestWithBaseURL_HTTPSAccepted(t *testing.T) {
	s, err := New(WithBaseURL("https://heroes.example.com"))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	s.Close()
}

func TestWithClient_Nil(t *testing.T) {
	_, err := New(WithClient(nil))
	if err == nil {
		t.Error("New() expected error for nil client, got nil")
	}
}

func TestWithDefaultPageSize_Invalid(t *testing.T) {
	for _, size := range []int{0, -1} {
		_, err := New(WithClient(newFakeClient()), WithDefaultPageSize(size))
		if err == nil {
			t.Errorf("New(WithDefaultPageSize(%d)) expected error, got nil", size)
		}
	}
}

// TestWithDefaultPageSize_DistinctFromFilterOption pins down the two page
// size knobs: the constructor option sets the default filters, the per-call
// filter option adjusts one load.
func TestWithDefaultPageSize_DistinctFromFilterOption(t *testing.T) {
	var _ Option = WithDefaultPageSize(5)
	var _ FilterOption = WithPageSize(5)

	s, err := New(WithClient(newFakeClient()), WithDefaultPageSize(5))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer s.Close()

	if got := s.CurrentFilters().PageSize; got != 5 {
		t.Errorf("default PageSize = %d, want 5", got)
	}
}

func TestWithDebounce_Bounds(t *testing.T) {
	cases := []struct {
		window  time.Duration
		wantErr bool
	}{
		{0, true},
		{-time.Second, true},
		{11 * time.Second, true},
		{time.Millisecond, false},
		{10 * time.Second, false},
	}
	for _, tc := range cases {
		s, err := New(WithClient(newFakeClient()), WithDebounce(tc.window))
		if tc.wantErr && err == nil {
			t.Errorf("New(WithDebounce(%v)) expected error, got nil", tc.window)
		}
		if !tc.wantErr {
			if err != nil {
				t.Errorf("New(WithDebounce(%v)) error = %v", tc.window, err)
				continue
			}
			s.Close()
		}
	}
}

func TestWithRequestTimeout_Invalid(t *testing.T) {
	_, err := New(WithClient(newFakeClient()), WithRequestTimeout(0))
	if err == nil {
		t.Error("New(WithRequestTimeout(0)) expected error, got nil")
	}
}

func TestWithHeaders_OddArguments(t *testing.T) {
	_, err := New(
		WithBaseURL("http://localhost:3000"),
		WithHeaders("Authorization"),
	)
	if err == nil {
		t.Error("New() expected error for odd header arguments, got nil")
	}
}

func TestWithHeaders_Pairs(t *testing.T) {
	s, err := New(
		WithBaseURL("http://localhost:3000"),
		WithHeaders("Authorization", "Bearer t", "X-Team", "platform"),
	)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	s.Close()
}

func TestWithLogger_Nil(t *testing.T) {
	_, err := New(WithClient(newFakeClient()), WithLogger(nil))
	if err == nil {
		t.Error("New(WithLogger(nil)) expected error, got nil")
	}
}

func TestWithLogger_Valid(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	s, err := New(WithClient(newFakeClient()), WithLogger(logger))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	s.Close()
}
