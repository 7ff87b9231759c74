package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the vecrun batch configuration.
type Config struct {
	Index     IndexConfig     `yaml:"index"`
	Search    SearchConfig    `yaml:"search"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Metrics   MetricsConfig   `yaml:"metrics"`
	Logging   LoggingConfig   `yaml:"logging"`
	Runs      []RunConfig     `yaml:"runs"`
}

// IndexConfig holds the shared read-only index settings.
type IndexConfig struct {
	Backend string `yaml:"backend"` // index backend name (default: vecgo)
	Path    string `yaml:"path"`
	MMap    bool   `yaml:"mmap"`
}

// SearchConfig holds the two pool bounds and the idempotency flag.
type SearchConfig struct {
	// Threads bounds the outer pool: how many run configurations execute
	// concurrently.
	Threads int `yaml:"threads"`
	// Parallelism bounds the inner pool: how many queries execute
	// concurrently within one run configuration.
	Parallelism int  `yaml:"parallelism"`
	SkipExists  bool `yaml:"skip_exists"`
}

// EmbeddingConfig holds the optional embedding provider used by the "openai"
// query builder, plus its optional Redis-backed cache.
type EmbeddingConfig struct {
	APIKey     string   `yaml:"api_key"`
	BaseURL    string   `yaml:"base_url"`
	Model      string   `yaml:"model"`
	Dimensions int      `yaml:"dimensions"`
	CacheAddrs []string `yaml:"cache_addrs"`
	CachePass  string   `yaml:"cache_password"`
}

// MetricsConfig holds the optional Prometheus endpoint settings.
type MetricsConfig struct {
	Port int `yaml:"port"` // 0 = disabled
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// RunConfig describes one run-file configuration.
type RunConfig struct {
	Topics       []string `yaml:"topics"`
	TopicReader  string   `yaml:"topic_reader"`
	QueryBuilder string   `yaml:"query_builder"`
	TopicField   string   `yaml:"topic_field"`

	Hits     int `yaml:"hits"`
	EFSearch int `yaml:"ef_search"`

	RunTag string `yaml:"runtag"`
	Output string `yaml:"output"`
	Format string `yaml:"format"` // standard, msmarco

	RemoveDups  bool `yaml:"remove_dups"`
	RemoveQuery bool `yaml:"remove_query"`

	MaxPassage          bool   `yaml:"max_passage"`
	MaxPassageDelimiter string `yaml:"max_passage_delimiter"`
	MaxPassageHits      int    `yaml:"max_passage_hits"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.Index.Backend == "" {
		c.Index.Backend = "vecgo"
	}
	if c.Search.Threads <= 0 {
		c.Search.Threads = 1
	}
	if c.Search.Parallelism <= 0 {
		c.Search.Parallelism = 8
	}
	for i := range c.Runs {
		r := &c.Runs[i]
		if r.TopicReader == "" {
			r.TopicReader = "jsonl-vector"
		}
		if r.QueryBuilder == "" {
			r.QueryBuilder = "vector"
		}
		if r.TopicField == "" {
			r.TopicField = "vector"
		}
		if r.Hits <= 0 {
			r.Hits = 1000
		}
		if r.RunTag == "" {
			r.RunTag = "vecrun"
		}
		if r.Format == "" {
			r.Format = "standard"
		}
		if r.MaxPassageDelimiter == "" {
			r.MaxPassageDelimiter = "#"
		}
		if r.MaxPassageHits <= 0 {
			r.MaxPassageHits = 100
		}
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.Index.Path == "" {
		return fmt.Errorf("index.path is required")
	}
	if c.Metrics.Port < 0 || c.Metrics.Port > 65535 {
		return fmt.Errorf("metrics.port must be between 0 and 65535, got %d", c.Metrics.Port)
	}
	if len(c.Runs) == 0 {
		return fmt.Errorf("at least one run configuration is required")
	}
	for i, r := range c.Runs {
		if r.Output == "" {
			return fmt.Errorf("runs[%d].output is required", i)
		}
		if len(r.Topics) == 0 {
			return fmt.Errorf("runs[%d].topics is required", i)
		}
		switch r.Format {
		case "standard", "msmarco":
			// ok
		default:
			return fmt.Errorf("runs[%d].format must be \"standard\" or \"msmarco\", got %q", i, r.Format)
		}
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
