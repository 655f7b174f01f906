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

// Config holds the threadsage API configuration.
type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Database DatabaseConfig `yaml:"database"`
	Reddit   RedditConfig   `yaml:"reddit"`
	LLM      LLMConfig      `yaml:"llm"`
	Cache    CacheConfig    `yaml:"cache"`
	Search   SearchConfig   `yaml:"search"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// DatabaseConfig holds Redis connection settings for the caches.
type DatabaseConfig struct {
	Addrs            []string `yaml:"addrs"`
	Password         string   `yaml:"password"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// RedditConfig holds forum client settings.
type RedditConfig struct {
	BaseURL           string `yaml:"base_url"`
	UserAgent         string `yaml:"user_agent"`
	MaxPosts          int    `yaml:"max_posts"` // hard cap per listing request
	RequestTimeoutSec int    `yaml:"request_timeout_sec"`
	BackupDelayMs     int    `yaml:"backup_delay_ms"`     // pause between backup-community calls
	RateLimitDelayMs  int    `yaml:"rate_limit_delay_ms"` // pre-query pacing wait
}

// LLMConfig holds generative backend settings.
type LLMConfig struct {
	Provider    string  `yaml:"provider"` // gemini, ollama, openai
	APIKey      string  `yaml:"api_key"`
	BaseURL     string  `yaml:"base_url"`
	Model       string  `yaml:"model"`
	Temperature float64 `yaml:"temperature"`
	MaxTokens   int     `yaml:"max_tokens"`
	TimeoutSec  int     `yaml:"timeout_sec"`
}

// CacheConfig holds TTLs for the vector and answer caches.
type CacheConfig struct {
	VectorTTLHours int `yaml:"vector_ttl_hours"`
	AnswerTTLMin   int `yaml:"answer_ttl_min"`
}

// SearchConfig holds retrieval pipeline settings.
type SearchConfig struct {
	BroadLimit   int    `yaml:"broad_limit"`   // stage-1 discovery fetch size
	FocusedLimit int    `yaml:"focused_limit"` // stage-3 focused fetch size
	ContextTopK  int    `yaml:"context_top_k"` // ranked posts kept for the prompt (3..5)
	ExcerptChars int    `yaml:"excerpt_chars"` // per-post body bound in the prompt
	RankPolicy   string `yaml:"rank_policy"`   // score (default), engagement
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
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		// Generation can take a while; leave room for a slow LLM round trip.
		c.HTTP.WriteTimeoutSec = 60
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Database.ReadinessTimeout <= 0 {
		c.Database.ReadinessTimeout = 10
	}
	if c.Reddit.BaseURL == "" {
		c.Reddit.BaseURL = "https://www.reddit.com"
	}
	if c.Reddit.UserAgent == "" {
		c.Reddit.UserAgent = "threadsage/1.0"
	}
	if c.Reddit.MaxPosts <= 0 {
		c.Reddit.MaxPosts = 25
	}
	if c.Reddit.RequestTimeoutSec <= 0 {
		c.Reddit.RequestTimeoutSec = 10
	}
	if c.Reddit.BackupDelayMs <= 0 {
		c.Reddit.BackupDelayMs = 500
	}
	if c.Reddit.RateLimitDelayMs < 0 {
		c.Reddit.RateLimitDelayMs = 0
	}
	if c.LLM.Provider == "" {
		c.LLM.Provider = "gemini"
	}
	if c.LLM.Model == "" {
		c.LLM.Model = defaultModel(c.LLM.Provider)
	}
	if c.LLM.Temperature <= 0 {
		c.LLM.Temperature = 0.7
	}
	if c.LLM.MaxTokens <= 0 {
		c.LLM.MaxTokens = 500
	}
	if c.LLM.TimeoutSec <= 0 {
		c.LLM.TimeoutSec = 60
	}
	if c.Cache.VectorTTLHours <= 0 {
		c.Cache.VectorTTLHours = 24
	}
	if c.Cache.AnswerTTLMin <= 0 {
		c.Cache.AnswerTTLMin = 10
	}
	if c.Search.BroadLimit <= 0 {
		c.Search.BroadLimit = 20
	}
	if c.Search.FocusedLimit <= 0 {
		c.Search.FocusedLimit = 15
	}
	if c.Search.ContextTopK < 3 || c.Search.ContextTopK > 5 {
		c.Search.ContextTopK = 4
	}
	if c.Search.ExcerptChars <= 0 {
		c.Search.ExcerptChars = 400
	}
	if c.Search.RankPolicy == "" {
		c.Search.RankPolicy = "score"
	}
}

func defaultModel(provider string) string {
	switch provider {
	case "ollama":
		return "llama3.1"
	case "openai":
		return "gpt-4o-mini"
	default:
		return "gemini-1.5-flash-latest"
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if len(c.Database.Addrs) == 0 {
		return fmt.Errorf("database.addrs is required")
	}
	switch c.LLM.Provider {
	case "gemini", "ollama", "openai":
		// ok
	default:
		return fmt.Errorf("llm.provider must be \"gemini\", \"ollama\" or \"openai\", got %q", c.LLM.Provider)
	}
	switch c.Search.RankPolicy {
	case "score", "engagement":
		// ok
	default:
		return fmt.Errorf("search.rank_policy must be \"score\" or \"engagement\", got %q", c.Search.RankPolicy)
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
