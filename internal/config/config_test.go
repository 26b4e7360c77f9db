package config

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/pustaka-digital/pustaka/internal/domain/intent"
)

func validConfig() Config {
	cfg := Config{
		HTTP:     HTTPConfig{Port: 8080},
		Database: DatabaseConfig{Addrs: []string{"localhost:6379"}},
	}
	cfg.ApplyDefaults()
	return cfg
}

func TestValidate_InvalidProvider(t *testing.T) {
	cfg := validConfig()
	cfg.Completion.Provider = "gemini"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for unknown provider")
	}

	expected := `completion.provider must be "openai" or "anthropic", got "gemini"`
	if err.Error() != expected {
		t.Errorf("unexpected error message:\ngot:  %q\nwant: %q", err.Error(), expected)
	}
}

func TestValidate_ValidProviders(t *testing.T) {
	for _, p := range []string{"openai", "anthropic"} {
		t.Run("provider="+p, func(t *testing.T) {
			cfg := validConfig()
			cfg.Completion.Provider = p
			if err := cfg.Validate(); err != nil {
				t.Fatalf("unexpected error for provider %q: %v", p, err)
			}
		})
	}
}

func TestValidate_InvalidDriver(t *testing.T) {
	cfg := validConfig()
	cfg.Database.Driver = "postgres"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unknown driver")
	}
}

func TestValidate_MissingAddrs(t *testing.T) {
	cfg := validConfig()
	cfg.Database.Addrs = nil
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing addrs")
	}
}

func TestValidate_Port(t *testing.T) {
	cfg := validConfig()
	cfg.HTTP.Port = 70000
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for out-of-range port")
	}
}

func TestApplyDefaults(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()

	if cfg.Completion.Quota.MaxRequests != 60 {
		t.Errorf("MaxRequests = %d, want 60", cfg.Completion.Quota.MaxRequests)
	}
	if cfg.Completion.Quota.WindowMin != 60 {
		t.Errorf("WindowMin = %d, want 60", cfg.Completion.Quota.WindowMin)
	}
	if cfg.Completion.CacheTTLSec != 300 {
		t.Errorf("CacheTTLSec = %d, want 300", cfg.Completion.CacheTTLSec)
	}
	if cfg.Chat.HistoryTurns != 2 {
		t.Errorf("HistoryTurns = %d, want 2", cfg.Chat.HistoryTurns)
	}
	if cfg.Generation.BatchDelayMs != 900 {
		t.Errorf("BatchDelayMs = %d, want 900", cfg.Generation.BatchDelayMs)
	}
	if cfg.Generation.Temperature == nil || *cfg.Generation.Temperature != 0.4 {
		t.Errorf("Generation.Temperature = %v, want 0.4", cfg.Generation.Temperature)
	}
	if cfg.Completion.Temperature != nil {
		t.Errorf("Completion.Temperature = %v, want unset", *cfg.Completion.Temperature)
	}
	if cfg.Generation.MaxTokens != 2048 {
		t.Errorf("Generation.MaxTokens = %d, want 2048", cfg.Generation.MaxTokens)
	}
	if cfg.Database.Driver != "redis" {
		t.Errorf("Driver = %q, want redis", cfg.Database.Driver)
	}
}

func TestParse_ExpandsEnvVars(t *testing.T) {
	t.Setenv("PUSTAKA_TEST_KEY", "sk-test")

	raw := []byte(strings.Join([]string{
		"http:",
		"  port: 9090",
		"database:",
		"  addrs: [\"${PUSTAKA_TEST_ADDR:-localhost:6379}\"]",
		"completion:",
		"  api_key: ${PUSTAKA_TEST_KEY}",
		"  model: gpt-4o-mini",
	}, "\n"))

	cfg, err := Parse(raw, "local")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Completion.APIKey != "sk-test" {
		t.Errorf("APIKey = %q, want sk-test", cfg.Completion.APIKey)
	}
	if len(cfg.Database.Addrs) != 1 || cfg.Database.Addrs[0] != "localhost:6379" {
		t.Errorf("Addrs = %v, want [localhost:6379]", cfg.Database.Addrs)
	}
	if cfg.HTTP.Port != 9090 {
		t.Errorf("Port = %d, want 9090", cfg.HTTP.Port)
	}
}

func TestParse_ProdRequiresAPIKey(t *testing.T) {
	base := []string{
		"http:",
		"  port: 8080",
		"database:",
		"  addrs: [\"localhost:6379\"]",
	}
	tests := []struct {
		name    string
		env     string
		auth    []string
		wantErr bool
	}{
		{"prod without keys", "prod", nil, true},
		{"prod with blank key", "prod", []string{"auth:", "  api_keys: [\"${PUSTAKA_TEST_UNSET_KEY:-}\"]"}, true},
		{"prod with key", "prod", []string{"auth:", "  api_keys: [\"admin-key\"]"}, false},
		{"local without keys", "local", nil, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			raw := []byte(strings.Join(append(append([]string{}, base...), tc.auth...), "\n"))
			_, err := Parse(raw, tc.env)
			if (err != nil) != tc.wantErr {
				t.Fatalf("Parse err = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestParse_ZeroTemperatureAndUnlimitedQuota(t *testing.T) {
	raw := []byte(strings.Join([]string{
		"http:",
		"  port: 8080",
		"database:",
		"  addrs: [\"localhost:6379\"]",
		"completion:",
		"  temperature: 0",
		"  quota:",
		"    max_requests: -1",
		"generation:",
		"  temperature: 0",
	}, "\n"))

	cfg, err := Parse(raw, "local")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Completion.Temperature == nil || *cfg.Completion.Temperature != 0 {
		t.Errorf("completion temperature = %v, want 0", cfg.Completion.Temperature)
	}
	if cfg.Generation.Temperature == nil || *cfg.Generation.Temperature != 0 {
		t.Errorf("generation temperature = %v, want 0", cfg.Generation.Temperature)
	}
	if cfg.Completion.Quota.MaxRequests != -1 {
		t.Errorf("MaxRequests = %d, want -1", cfg.Completion.Quota.MaxRequests)
	}
}

func TestValidate_QuotaBelowUnlimited(t *testing.T) {
	cfg := validConfig()
	cfg.Completion.Quota.MaxRequests = -2
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for max_requests below -1")
	}
}

func TestValidate_GenerationTemperature(t *testing.T) {
	cfg := validConfig()
	hot := float32(3)
	cfg.Generation.Temperature = &hot
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for out-of-range generation temperature")
	}
}

func TestShippedConfigs_LoanPeriodMatchesBorrowingRule(t *testing.T) {
	t.Setenv("ADMIN_API_KEY", "admin-key")
	loanPeriod := regexp.MustCompile(`selama (\d+) hari`)

	var ruleDays string
	for _, r := range intent.DefaultRules("Perpustakaan", "") {
		if r.Name == intent.RuleBorrowing {
			if m := loanPeriod.FindStringSubmatch(r.Response); m != nil {
				ruleDays = m[1]
			}
		}
	}
	if ruleDays == "" {
		t.Fatal("borrowing rule states no loan period")
	}

	for _, env := range []string{"local", "prod"} {
		t.Run(env, func(t *testing.T) {
			data, err := os.ReadFile(filepath.Join("..", "..", "config", env+".yaml"))
			if err != nil {
				t.Fatalf("read config: %v", err)
			}
			cfg, err := Parse(data, env)
			if err != nil {
				t.Fatalf("Parse: %v", err)
			}
			m := loanPeriod.FindStringSubmatch(cfg.Chat.LibraryContext)
			if m == nil {
				t.Skip("library context states no loan period")
			}
			if m[1] != ruleDays {
				t.Errorf("library context says %s days, borrowing rule says %s", m[1], ruleDays)
			}
		})
	}
}
