package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"
)

// Environment represents different deployment environments
type Environment string

const (
	EnvDevelopment Environment = "development"
	EnvTesting     Environment = "testing"
	EnvProduction  Environment = "production"
)

// EnvPrefix is prepended to every variable name. Tagged fields also fall back to
// the bare name, so DATABASE_URL and OPENAI_API_KEY work unprefixed.
const EnvPrefix = "CHAT_SERVER"

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"

	DefaultOpenAIModel = "gpt-4o"
	DefaultGeminiModel = "gemini-2.0-flash"
)

// Config holds the configuration for the chat service.
type Config struct {
	Environment Environment `envconfig:"ENVIRONMENT" default:"development"`
	HTTPPort    int         `envconfig:"HTTP_PORT" default:"8000"`
	LogLevel    string      `envconfig:"LOG_LEVEL" default:"info"`

	// Storage
	DBDriver    string `envconfig:"DB_DRIVER" default:"postgres"`
	DatabaseURL string `envconfig:"DATABASE_URL" default:""`
	SQLitePath  string `envconfig:"SQLITE_PATH" default:""`
	AutoMigrate bool   `envconfig:"AUTO_MIGRATE" default:"true"`

	// Model provider
	LLMProvider   string `envconfig:"LLM_PROVIDER" default:"openai"`
	OpenAIAPIKey  string `envconfig:"OPENAI_API_KEY" default:""`
	OpenAIBaseURL string `envconfig:"OPENAI_BASE_URL" default:""`
	GeminiAPIKey  string `envconfig:"GEMINI_API_KEY" default:""`
	// Empty selects the provider's default model.
	ChatModel string `envconfig:"CHAT_MODEL" default:""`

	ChatTemperature float64 `envconfig:"CHAT_TEMPERATURE" default:"0.8"`
	ChatMaxTokens   int     `envconfig:"CHAT_MAX_TOKENS" default:"200"`

	EvalTemperature      float64 `envconfig:"EVAL_TEMPERATURE" default:"0.3"`
	EvalMaxTokens        int     `envconfig:"EVAL_MAX_TOKENS" default:"80"`
	EvalStructuredOutput bool    `envconfig:"EVAL_STRUCTURED_OUTPUT" default:"false"`

	IntentEnabled         bool    `envconfig:"INTENT_ENABLED" default:"true"`
	IntentTemperature     float64 `envconfig:"INTENT_TEMPERATURE" default:"0.5"`
	IntentMaxTokens       int     `envconfig:"INTENT_MAX_TOKENS" default:"50"`
	IntentCacheTTLSeconds int     `envconfig:"INTENT_CACHE_TTL_SECONDS" default:"3600"`
	// Entry bound for the in-process intent cache used when REDIS_URL is unset
	IntentCacheSize int `envconfig:"INTENT_CACHE_SIZE" default:"1024"`

	HistoryLimit int `envconfig:"HISTORY_LIMIT" default:"10"`

	// Optional Redis used to cache extracted intents
	RedisURL string `envconfig:"REDIS_URL" default:""`

	// YAML file of characters created at startup when missing
	SeedFile string `envconfig:"SEED_FILE" default:""`

	CORSAllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS" default:"*"`

	HealthIntervalSeconds     int `envconfig:"HEALTH_INTERVAL_SECONDS" default:"30"`
	HealthProbeTimeoutSeconds int `envconfig:"HEALTH_PROBE_TIMEOUT_SECONDS" default:"2"`
}

// ResolveDefaults validates driver and provider selection and checks that the
// credentials they need are present.
func (c *Config) ResolveDefaults() error {
	switch c.DBDriver {
	case DriverPostgres:
		if c.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required for the postgres driver")
		}
	case DriverSQLite:
		if c.SQLitePath == "" {
			c.SQLitePath = c.DatabaseURL
		}
		if c.SQLitePath == "" {
			return errors.New("SQLITE_PATH is required for the sqlite driver")
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER: %s", c.DBDriver)
	}

	switch c.LLMProvider {
	case ProviderOpenAI:
		if c.OpenAIAPIKey == "" {
			return errors.New("OPENAI_API_KEY is required for the openai provider")
		}
		if c.ChatModel == "" {
			c.ChatModel = DefaultOpenAIModel
		}
	case ProviderGemini:
		if c.GeminiAPIKey == "" {
			return errors.New("GEMINI_API_KEY is required for the gemini provider")
		}
		if c.ChatModel == "" {
			c.ChatModel = DefaultGeminiModel
		}
	default:
		return fmt.Errorf("unsupported LLM_PROVIDER: %s", c.LLMProvider)
	}

	if c.HistoryLimit < 0 {
		return fmt.Errorf("HISTORY_LIMIT must be >= 0, got %d", c.HistoryLimit)
	}
	if c.IntentCacheSize <= 0 {
		return fmt.Errorf("INTENT_CACHE_SIZE must be > 0, got %d", c.IntentCacheSize)
	}
	if c.HealthIntervalSeconds <= 0 {
		c.HealthIntervalSeconds = 30
	}
	if c.HealthProbeTimeoutSeconds <= 0 {
		c.HealthProbeTimeoutSeconds = 2
	}
	return nil
}

// New creates a new Config from the environment, loading .env first when present.
// Example: CHAT_SERVER_HTTP_PORT=9000, CHAT_SERVER_DB_DRIVER=sqlite
func New() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}

	if err := cfg.ResolveDefaults(); err != nil {
		return nil, err
	}

	log.Info().
		Str("environment", string(cfg.Environment)).
		Int("port", cfg.HTTPPort).
		Str("db_driver", cfg.DBDriver).
		Str("llm_provider", cfg.LLMProvider).
		Str("chat_model", cfg.ChatModel).
		Bool("intent_enabled", cfg.IntentEnabled).
		Bool("intent_cache", cfg.RedisURL != "").
		Int("history_limit", cfg.HistoryLimit).
		Msg("Configuration loaded")

	return &cfg, nil
}

// NewForTesting returns a fully resolved config backed by an in-memory SQLite database.
func NewForTesting() *Config {
	return &Config{
		Environment:               EnvTesting,
		HTTPPort:                  8000,
		LogLevel:                  "debug",
		DBDriver:                  DriverSQLite,
		SQLitePath:                "file::memory:?cache=shared",
		AutoMigrate:               true,
		LLMProvider:               ProviderOpenAI,
		OpenAIAPIKey:              "test-key",
		ChatModel:                 DefaultOpenAIModel,
		ChatTemperature:           0.8,
		ChatMaxTokens:             200,
		EvalTemperature:           0.3,
		EvalMaxTokens:             80,
		IntentEnabled:             true,
		IntentTemperature:         0.5,
		IntentMaxTokens:           50,
		IntentCacheTTLSeconds:     3600,
		IntentCacheSize:           1024,
		HistoryLimit:              10,
		CORSAllowedOrigins:        []string{"*"},
		HealthIntervalSeconds:     1,
		HealthProbeTimeoutSeconds: 1,
	}
}

// IsTesting returns true if the environment is set to testing
func (c *Config) IsTesting() bool {
	return c.Environment == EnvTesting
}

// IsProduction returns true if the environment is set to production
func (c *Config) IsProduction() bool {
	return c.Environment == EnvProduction
}

// GetHTTPAddr returns the HTTP server address
func (c *Config) GetHTTPAddr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}

func (c *Config) HealthInterval() time.Duration {
	return time.Duration(c.HealthIntervalSeconds) * time.Second
}

func (c *Config) HealthProbeTimeout() time.Duration {
	return time.Duration(c.HealthProbeTimeoutSeconds) * time.Second
}

func (c *Config) IntentCacheTTL() time.Duration {
	return time.Duration(c.IntentCacheTTLSeconds) * time.Second
}
