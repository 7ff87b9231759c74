package config

import (
	"os"
	"testing"
)

func validConfig() Config {
	return Config{
		Index: IndexConfig{Path: "indexes/test.vecgo"},
		Runs: []RunConfig{
			{
				Topics: []string{"topics/test.jsonl"},
				Output: "runs/run.txt",
				Format: "standard",
			},
		},
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := validConfig()
	cfg.ApplyDefaults()

	if cfg.Index.Backend != "vecgo" {
		t.Errorf("backend = %q", cfg.Index.Backend)
	}
	if cfg.Search.Threads != 1 {
		t.Errorf("threads = %d", cfg.Search.Threads)
	}
	if cfg.Search.Parallelism != 8 {
		t.Errorf("parallelism = %d", cfg.Search.Parallelism)
	}

	r := cfg.Runs[0]
	if r.Hits != 1000 {
		t.Errorf("hits = %d", r.Hits)
	}
	if r.RunTag != "vecrun" {
		t.Errorf("runtag = %q", r.RunTag)
	}
	if r.TopicReader != "jsonl-vector" || r.QueryBuilder != "vector" || r.TopicField != "vector" {
		t.Errorf("variant defaults wrong: %q %q %q", r.TopicReader, r.QueryBuilder, r.TopicField)
	}
	if r.MaxPassageDelimiter != "#" || r.MaxPassageHits != 100 {
		t.Errorf("passage defaults wrong: %q %d", r.MaxPassageDelimiter, r.MaxPassageHits)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(*Config) {}, false},
		{"missing index path", func(c *Config) { c.Index.Path = "" }, true},
		{"no runs", func(c *Config) { c.Runs = nil }, true},
		{"missing output", func(c *Config) { c.Runs[0].Output = "" }, true},
		{"missing topics", func(c *Config) { c.Runs[0].Topics = nil }, true},
		{"bad format", func(c *Config) { c.Runs[0].Format = "xml" }, true},
		{"msmarco format", func(c *Config) { c.Runs[0].Format = "msmarco" }, false},
		{"bad metrics port", func(c *Config) { c.Metrics.Port = 70000 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			cfg.ApplyDefaults()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr && err == nil {
				t.Error("expected error")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestExpandEnvVars(t *testing.T) {
	os.Setenv("VECRUN_TEST_VAR", "hello")
	defer os.Unsetenv("VECRUN_TEST_VAR")

	got := string(expandEnvVars([]byte("a: ${VECRUN_TEST_VAR}\nb: ${VECRUN_UNSET:-fallback}\n")))
	want := "a: hello\nb: fallback\n"
	if got != want {
		t.Errorf("expanded = %q, want %q", got, want)
	}
}
