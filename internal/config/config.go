package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds the pustaka API configuration.
type Config struct {
	Env        string           `yaml:"-"`
	HTTP       HTTPConfig       `yaml:"http"`
	Database   DatabaseConfig   `yaml:"database"`
	Completion CompletionConfig `yaml:"completion"`
	Chat       ChatConfig       `yaml:"chat"`
	Generation GenerationConfig `yaml:"generation"`
	Auth       AuthConfig       `yaml:"auth"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds admin API authentication settings.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	Driver           string   `yaml:"driver"` // valkey, redis (default: redis)
	Addrs            []string `yaml:"addrs"`
	Password         string   `yaml:"password"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// QuotaConfig bounds how many provider calls the gateway makes per window.
type QuotaConfig struct {
	MaxRequests int64 `yaml:"max_requests"` // per window, default 60, -1 for unlimited
	WindowMin   int   `yaml:"window_min"`
	Persist     bool  `yaml:"persist"` // mirror counters to the database
}

// CompletionConfig holds text completion provider settings.
type CompletionConfig struct {
	Provider    string      `yaml:"provider"` // openai, anthropic
	APIKey      string      `yaml:"api_key"`
	BaseURL     string      `yaml:"base_url"`
	Model       string      `yaml:"model"`
	MaxTokens   int         `yaml:"max_tokens"`
	Temperature *float32    `yaml:"temperature"` // unset leaves the provider default
	TimeoutSec  int         `yaml:"timeout_sec"`
	CacheTTLSec int         `yaml:"cache_ttl_sec"`
	SharedCache bool        `yaml:"shared_cache"` // also cache responses in the database
	Quota       QuotaConfig `yaml:"quota"`
}

// ChatConfig holds chat widget settings.
type ChatConfig struct {
	LibraryName     string `yaml:"library_name"`
	ContactWhatsApp string `yaml:"contact_whatsapp"`
	LibraryContext  string `yaml:"library_context"`
	HistoryTurns    int    `yaml:"history_turns"`
}

// GenerationConfig holds batch metadata generation settings.
type GenerationConfig struct {
	BatchDelayMs int      `yaml:"batch_delay_ms"`
	MaxTokens    int      `yaml:"max_tokens"`
	Temperature  *float32 `yaml:"temperature"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
// A .env file in the working directory, if present, is loaded first.
func Load(env string) (Config, error) {
	_ = godotenv.Load() // .env is optional

	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	return Parse(data, env)
}

// Parse decodes raw YAML for env, expands ${VAR} references, applies defaults
// and validates.
func Parse(data []byte, env string) (Config, error) {
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.Env = env

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
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
		c.HTTP.WriteTimeoutSec = 60
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Database.Driver == "" {
		c.Database.Driver = "redis"
	}
	if c.Database.ReadinessTimeout <= 0 {
		c.Database.ReadinessTimeout = 10
	}
	if c.Completion.Provider == "" {
		c.Completion.Provider = "openai"
	}
	if c.Completion.MaxTokens <= 0 {
		c.Completion.MaxTokens = 1024
	}
	if c.Completion.TimeoutSec <= 0 {
		c.Completion.TimeoutSec = 20
	}
	if c.Completion.CacheTTLSec <= 0 {
		c.Completion.CacheTTLSec = 300
	}
	if c.Completion.Quota.MaxRequests == 0 {
		c.Completion.Quota.MaxRequests = 60
	}
	if c.Completion.Quota.WindowMin <= 0 {
		c.Completion.Quota.WindowMin = 60
	}
	if c.Chat.LibraryName == "" {
		c.Chat.LibraryName = "Perpustakaan"
	}
	if c.Chat.HistoryTurns <= 0 {
		c.Chat.HistoryTurns = 2
	}
	if c.Generation.BatchDelayMs <= 0 {
		c.Generation.BatchDelayMs = 900
	}
	if c.Generation.MaxTokens <= 0 {
		c.Generation.MaxTokens = 2048
	}
	if c.Generation.Temperature == nil {
		t := float32(0.4)
		c.Generation.Temperature = &t
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
	switch c.Database.Driver {
	case "redis", "valkey":
	default:
		return fmt.Errorf("database.driver must be \"redis\" or \"valkey\", got %q", c.Database.Driver)
	}
	switch c.Completion.Provider {
	case "openai", "anthropic":
	default:
		return fmt.Errorf("completion.provider must be \"openai\" or \"anthropic\", got %q", c.Completion.Provider)
	}
	if err := validTemperature("completion.temperature", c.Completion.Temperature); err != nil {
		return err
	}
	if err := validTemperature("generation.temperature", c.Generation.Temperature); err != nil {
		return err
	}
	if c.Completion.Quota.MaxRequests < -1 {
		return fmt.Errorf("completion.quota.max_requests must be positive or -1 for unlimited, got %d", c.Completion.Quota.MaxRequests)
	}
	if c.Env == "prod" && !c.Auth.HasKey() {
		return fmt.Errorf("auth.api_keys must contain a non-empty key in prod")
	}
	return nil
}

// HasKey reports whether any configured API key is non-blank.
func (a AuthConfig) HasKey() bool {
	for _, k := range a.APIKeys {
		if strings.TrimSpace(k) != "" {
			return true
		}
	}
	return false
}

func validTemperature(field string, t *float32) error {
	if t != nil && (*t < 0 || *t > 2) {
		return fmt.Errorf("%s must be between 0 and 2, got %v", field, *t)
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
		expr := string(match[2 : len(match)-1])
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
