package config

import (
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

func validConfig() Config {
	return Config{
		Server: ServerConfig{Port: 8080, RateLimitPerMinute: 120},
		Content: ContentConfig{
			Dir:               "./content",
			DefaultLanguage:   "en",
			ReadyPollInterval: 50 * time.Millisecond,
			ReadyTimeout:      2 * time.Second,
		},
		Engine: EngineConfig{
			TotalRounds:      5,
			AdvanceDelay:     1500 * time.Millisecond,
			FeedbackDuration: 2 * time.Second,
			SessionTTL:       30 * time.Minute,
			SweepInterval:    5 * time.Minute,
		},
	}
}

// Every method the API mounts must be in the default CORS allow list, or
// browsers silently block that endpoint cross-origin.
func TestDefaultCORSMethodsCoverMountedVerbs(t *testing.T) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		t.Fatalf("read defaults: %v", err)
	}

	methods := strings.Split(cfg.CORS.AllowedMethods, ",")
	for _, want := range []string{"GET", "POST", "PUT", "PATCH", "OPTIONS"} {
		if !slices.Contains(methods, want) {
			t.Errorf("default allowed_methods %q is missing %s", cfg.CORS.AllowedMethods, want)
		}
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"zero port", func(c *Config) { c.Server.Port = 0 }, true},
		{"zero rate limit", func(c *Config) { c.Server.RateLimitPerMinute = 0 }, true},
		{"empty content dir", func(c *Config) { c.Content.Dir = "" }, true},
		{"unsupported default language", func(c *Config) { c.Content.DefaultLanguage = "fr" }, true},
		{"poll interval above timeout", func(c *Config) { c.Content.ReadyTimeout = time.Millisecond }, true},
		{"zero rounds", func(c *Config) { c.Engine.TotalRounds = 0 }, true},
		{"negative advance delay", func(c *Config) { c.Engine.AdvanceDelay = -time.Second }, true},
		{"zero session ttl", func(c *Config) { c.Engine.SessionTTL = 0 }, true},
		{"short explicit secret", func(c *Config) { c.Auth.TokenSecret = "tooshort" }, true},
		{"empty secret is allowed", func(c *Config) { c.Auth.TokenSecret = "" }, false},
		{"long secret is allowed", func(c *Config) {
			c.Auth.TokenSecret = "0123456789abcdef0123456789abcdef"
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
