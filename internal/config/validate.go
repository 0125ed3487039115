package config

import (
	"fmt"

	"github.com/meadowmath/meadowmath-backend/internal/domain"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in (0, 65535] (got %d)", c.Server.Port)
	}
	if c.Server.RateLimitPerMinute <= 0 {
		return fmt.Errorf("server.rate_limit_per_minute must be > 0 (got %d)", c.Server.RateLimitPerMinute)
	}

	if c.Content.Dir == "" {
		return fmt.Errorf("content.dir must not be empty")
	}
	if _, ok := domain.ParseLanguage(c.Content.DefaultLanguage); !ok {
		return fmt.Errorf("content.default_language %q is not a supported language", c.Content.DefaultLanguage)
	}
	if c.Content.ReadyPollInterval <= 0 {
		return fmt.Errorf("content.ready_poll_interval must be > 0 (got %v)", c.Content.ReadyPollInterval)
	}
	if c.Content.ReadyTimeout < c.Content.ReadyPollInterval {
		return fmt.Errorf("content.ready_timeout must be >= ready_poll_interval")
	}

	if err := c.Engine.validate(); err != nil {
		return fmt.Errorf("engine: %w", err)
	}

	// An empty token secret is allowed (replaced with an ephemeral one at
	// startup); a short explicit secret is a configuration mistake.
	if s := c.Auth.TokenSecret; s != "" && len(s) < 32 {
		return fmt.Errorf("auth.token_secret must be at least 32 characters (got %d)", len(s))
	}

	return nil
}

func (e *EngineConfig) validate() error {
	if e.TotalRounds <= 0 {
		return fmt.Errorf("total_rounds must be > 0 (got %d)", e.TotalRounds)
	}
	if e.AdvanceDelay < 0 {
		return fmt.Errorf("advance_delay must be >= 0 (got %v)", e.AdvanceDelay)
	}
	if e.FeedbackDuration < 0 {
		return fmt.Errorf("feedback_duration must be >= 0 (got %v)", e.FeedbackDuration)
	}
	if e.SessionTTL <= 0 {
		return fmt.Errorf("session_ttl must be > 0 (got %v)", e.SessionTTL)
	}
	if e.SweepInterval <= 0 {
		return fmt.Errorf("sweep_interval must be > 0 (got %v)", e.SweepInterval)
	}
	return nil
}
