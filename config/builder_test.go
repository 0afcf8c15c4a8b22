package config

import "testing"

func TestBuildOptions_ProducesWorkingOptions(t *testing.T) {
	cfg, err := Parse([]byte(`
api_url: http://localhost:3000
page_size: 5
debounce: 200ms
request_timeout: 3s
headers:
  Authorization: Bearer t
`))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	opts := BuildOptions(cfg)
	if len(opts) != 5 {
		t.Errorf("len(BuildOptions()) = %d, want 5", len(opts))
	}
}

func TestBuildOptions_OmitsEmptyHeaders(t *testing.T) {
	cfg, err := Parse([]byte("api_url: http://localhost:3000"))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	opts := BuildOptions(cfg)
	if len(opts) != 4 {
		t.Errorf("len(BuildOptions()) = %d, want 4", len(opts))
	}
}

func TestMapToKeyValuePairs_SortedDeterministic(t *testing.T) {
	pairs := mapToKeyValuePairs(map[string]string{
		"X-Team":        "platform",
		"Authorization": "Bearer t",
	})

	want := []string{"Authorization", "Bearer t", "X-Team", "platform"}
	if len(pairs) != len(want) {
		t.Fatalf("len(pairs) = %d, want %d", len(pairs), len(want))
	}
	for i := range want {
		if pairs[i] != want[i] {
			t.Errorf("pairs[%d] = %q, want %q", i, pairs[i], want[i])
		}
	}
}
