package config

import "time"

// Config is the root application configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Content  ContentConfig  `yaml:"content"`
	Engine   EngineConfig   `yaml:"engine"`
	Database DatabaseConfig `yaml:"database"`
	Auth     AuthConfig     `yaml:"auth"`
	CORS     CORSConfig     `yaml:"cors"`
	Log      LogConfig      `yaml:"log"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `yaml:"host"             env:"SERVER_HOST"             env-default:"0.0.0.0"`
	Port            int           `yaml:"port"             env:"SERVER_PORT"             env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"30s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"     env:"SERVER_IDLE_TIMEOUT"     env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`

	// RateLimitPerMinute caps mutating requests per client IP.
	RateLimitPerMinute int `yaml:"rate_limit_per_minute" env:"SERVER_RATE_LIMIT_PER_MINUTE" env-default:"120"`
}

// ContentConfig holds the static content tree and translation settings.
// Dir must contain data/<grade>.json manifests and lang/<lang>/<scope>.json
// translation bundles.
type ContentConfig struct {
	Dir               string        `yaml:"dir"                 env:"CONTENT_DIR"                 env-default:"./content"`
	DefaultLanguage   string        `yaml:"default_language"    env:"CONTENT_DEFAULT_LANGUAGE"    env-default:"en"`
	ReadyPollInterval time.Duration `yaml:"ready_poll_interval" env:"CONTENT_READY_POLL_INTERVAL" env-default:"50ms"`
	ReadyTimeout      time.Duration `yaml:"ready_timeout"       env:"CONTENT_READY_TIMEOUT"       env-default:"2s"`
}

// EngineConfig holds activity round engine defaults.
type EngineConfig struct {
	TotalRounds      int           `yaml:"total_rounds"      env:"ENGINE_TOTAL_ROUNDS"      env-default:"5"`
	AdvanceDelay     time.Duration `yaml:"advance_delay"     env:"ENGINE_ADVANCE_DELAY"     env-default:"1500ms"`
	FeedbackDuration time.Duration `yaml:"feedback_duration" env:"ENGINE_FEEDBACK_DURATION" env-default:"2s"`
	SessionTTL       time.Duration `yaml:"session_ttl"       env:"ENGINE_SESSION_TTL"       env-default:"30m"`
	SweepInterval    time.Duration `yaml:"sweep_interval"    env:"ENGINE_SWEEP_INTERVAL"    env-default:"5m"`
}

// DatabaseConfig holds PostgreSQL connection settings. An empty DSN means the
// service runs on the in-memory progress store only.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"                env-default:""`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"10"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"2"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
}

// AuthConfig holds profile token settings. An empty secret is replaced with a
// random ephemeral one at startup; profiles then do not survive restarts.
type AuthConfig struct {
	TokenSecret string        `yaml:"token_secret" env:"AUTH_TOKEN_SECRET" env-default:""`
	TokenIssuer string        `yaml:"token_issuer" env:"AUTH_TOKEN_ISSUER" env-default:"meadowmath"`
	TokenTTL    time.Duration `yaml:"token_ttl"    env:"AUTH_TOKEN_TTL"    env-default:"8760h"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins   string `yaml:"allowed_origins"   env:"CORS_ALLOWED_ORIGINS"   env-default:"*"`
	AllowedMethods   string `yaml:"allowed_methods"   env:"CORS_ALLOWED_METHODS"   env-default:"GET,POST,PUT,PATCH,OPTIONS"`
	AllowedHeaders   string `yaml:"allowed_headers"   env:"CORS_ALLOWED_HEADERS"   env-default:"Authorization,Content-Type"`
	AllowCredentials bool   `yaml:"allow_credentials" env:"CORS_ALLOW_CREDENTIALS" env-default:"false"`
	MaxAge           int    `yaml:"max_age"           env:"CORS_MAX_AGE"           env-default:"86400"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}
