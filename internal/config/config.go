// internal/config/config.go

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Environment string
	Server      ServerConfig
	Database    DatabaseConfig
	NATS        NATSConfig
	Listener    ListenerConfig
	Refresh     RefreshConfig
	Aggregate   AggregateConfig
	Mastodon    MastodonConfig
	LLM         LLMConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	CorsOrigins     []string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Database     string
	MaxOpenConns int
	MaxIdleConns int
	MaxLifetime  time.Duration
	SSLMode      string
}

// NATSConfig holds NATS configuration
type NATSConfig struct {
	URL            string
	MaxReconnects  int
	ReconnectWait  time.Duration
	ConnectTimeout time.Duration
}

// ListenerConfig holds the stream listener's heuristic thresholds. The
// defaults mirror the detection policy: authors registered within MaxAuthorAge
// with at most MaxAuthorFollowers followers and MaxAuthorStatuses posts are
// the risk cohort; a tag corroborated at or under MaxTagAccounts accounts and
// MaxTagUses uses is suspicious.
type ListenerConfig struct {
	Subject             string
	EventsSubject       string
	MaxAuthorAge        time.Duration
	MaxAuthorFollowers  int
	MaxAuthorStatuses   int
	MaxTagAccounts      int
	MaxTagUses          int
	SimilarityThreshold float64
	RecheckKnownTrends  bool
}

// RefreshConfig holds the periodic snapshot refresh schedules (cron specs)
type RefreshConfig struct {
	TrendsSchedule    string
	InstancesSchedule string
}

// AggregateConfig holds endpoints for the external aggregate-trend service
// and the instances catalog
type AggregateConfig struct {
	Endpoint       string
	Token          string
	CatalogURL     string
	CatalogToken   string
	RequestTimeout time.Duration
}

// MastodonConfig holds credentials for the ingest bridge
type MastodonConfig struct {
	Endpoint    string
	AccessToken string
}

// LLMConfig holds provider credentials and model selection
type LLMConfig struct {
	OpenAIKey      string
	OpenAIModel    string
	AnthropicKey   string
	AnthropicModel string
	GoogleKey      string
	GeminiModel    string
	TogetherKey    string
	TogetherURL    string
	LlamaModel     string
}

// Load loads configuration from the environment, reading a .env file first
// when one is present.
func Load() (Config, error) {
	_ = godotenv.Load()

	config := Config{
		Environment: getEnv("APP_ENV", "development"),
		Server: ServerConfig{
			Host:            getEnv("SERVER_HOST", "0.0.0.0"),
			Port:            getEnvAsInt("SERVER_PORT", 8080),
			ReadTimeout:     getEnvAsDuration("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout:    getEnvAsDuration("SERVER_WRITE_TIMEOUT", 10*time.Second),
			ShutdownTimeout: getEnvAsDuration("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
			CorsOrigins:     getEnvAsSlice("SERVER_CORS_ORIGINS", []string{"*"}),
		},
		Database: DatabaseConfig{
			Host:         getEnv("DB_HOST", "localhost"),
			Port:         getEnvAsInt("DB_PORT", 5432),
			User:         getEnv("DB_USER", "postgres"),
			Password:     getEnv("DB_PASSWORD", "postgres"),
			Database:     getEnv("DB_NAME", "fedscope"),
			MaxOpenConns: getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns: getEnvAsInt("DB_MAX_IDLE_CONNS", 25),
			MaxLifetime:  getEnvAsDuration("DB_MAX_LIFETIME", 5*time.Minute),
			SSLMode:      getEnv("DB_SSL_MODE", "disable"),
		},
		NATS: NATSConfig{
			URL:            getEnv("NATS_URL", "nats://localhost:4222"),
			MaxReconnects:  getEnvAsInt("NATS_MAX_RECONNECTS", 10),
			ReconnectWait:  getEnvAsDuration("NATS_RECONNECT_WAIT", 1*time.Second),
			ConnectTimeout: getEnvAsDuration("NATS_CONNECT_TIMEOUT", 2*time.Second),
		},
		Listener: ListenerConfig{
			Subject:             getEnv("LISTENER_SUBJECT", "firehose.status"),
			EventsSubject:       getEnv("LISTENER_EVENTS_SUBJECT", "trend.suspicious"),
			MaxAuthorAge:        getEnvAsDuration("LISTENER_MAX_AUTHOR_AGE", 30*24*time.Hour),
			MaxAuthorFollowers:  getEnvAsInt("LISTENER_MAX_AUTHOR_FOLLOWERS", 1000),
			MaxAuthorStatuses:   getEnvAsInt("LISTENER_MAX_AUTHOR_STATUSES", 100),
			MaxTagAccounts:      getEnvAsInt("LISTENER_MAX_TAG_ACCOUNTS", 10),
			MaxTagUses:          getEnvAsInt("LISTENER_MAX_TAG_USES", 10),
			SimilarityThreshold: getEnvAsFloat("LISTENER_SIMILARITY_THRESHOLD", 0.5),
			RecheckKnownTrends:  getEnvAsBool("TREND_RECHECK_KNOWN", false),
		},
		Refresh: RefreshConfig{
			TrendsSchedule:    getEnv("REFRESH_TRENDS_SCHEDULE", "@every 1h"),
			InstancesSchedule: getEnv("REFRESH_INSTANCES_SCHEDULE", "@every 24h"),
		},
		Aggregate: AggregateConfig{
			Endpoint:       getEnv("AGGREGATE_ENDPOINT", "https://mastodon.social"),
			Token:          getEnv("AGGREGATE_TOKEN", ""),
			CatalogURL:     getEnv("INSTANCES_CATALOG_URL", "https://instances.social"),
			CatalogToken:   getEnv("INSTANCES_CATALOG_TOKEN", ""),
			RequestTimeout: getEnvAsDuration("AGGREGATE_REQUEST_TIMEOUT", 10*time.Second),
		},
		Mastodon: MastodonConfig{
			Endpoint:    getEnv("MASTODON_ENDPOINT", "https://mastodon.social"),
			AccessToken: getEnv("MASTODON_ACCESS_TOKEN", ""),
		},
		LLM: LLMConfig{
			OpenAIKey:      getEnv("OPENAI_API_KEY", ""),
			OpenAIModel:    getEnv("OPENAI_MODEL", "gpt-4o-mini"),
			AnthropicKey:   getEnv("ANTHROPIC_API_KEY", ""),
			AnthropicModel: getEnv("ANTHROPIC_MODEL", "claude-3-5-sonnet-latest"),
			GoogleKey:      getEnv("GOOGLE_API_KEY", ""),
			GeminiModel:    getEnv("GEMINI_MODEL", "gemini-1.5-flash"),
			TogetherKey:    getEnv("TOGETHER_API_KEY", ""),
			TogetherURL:    getEnv("TOGETHER_BASE_URL", "https://api.together.xyz/v1"),
			LlamaModel:     getEnv("LLAMA_MODEL", "meta-llama/Llama-3.3-70B-Instruct-Turbo"),
		},
	}

	return config, validate(config)
}

// validate checks if config is valid
func validate(config Config) error {
	if config.Listener.SimilarityThreshold < 0 || config.Listener.SimilarityThreshold > 1 {
		return fmt.Errorf("similarity threshold must be in [0,1], got %f", config.Listener.SimilarityThreshold)
	}

	return nil
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	return strings.Split(valueStr, ",")
}
