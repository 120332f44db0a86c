// internal/common/config/config.go
package config

import (
	"fmt"
	"strings"
	"time"

	"rekonet-workers/internal/readiness"
)

// Config is the main application configuration struct.
type Config struct {
	App           AppConfig               `mapstructure:"app"`
	Camunda       CamundaConfig           `mapstructure:"camunda"`
	Database      DatabaseConfig          `mapstructure:"database"`
	Workers       map[string]WorkerConfig `mapstructure:"workers"`
	Engine        EngineConfig            `mapstructure:"engine"`
	Locale        LocaleConfig            `mapstructure:"locale"`
	Cache         CacheConfig             `mapstructure:"cache"`
	Search        SearchConfig            `mapstructure:"search"`
	Catalog       CatalogConfig           `mapstructure:"catalog"`
	Logging       LoggingConfig           `mapstructure:"logging"`
	Observability ObservabilityConfig     `mapstructure:"observability"`
	Notifications NotificationConfig      `mapstructure:"notifications"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
	HealthPort  int    `mapstructure:"health_port"`
}

type CamundaConfig struct {
	BrokerAddress  string `mapstructure:"broker_address"`
	MaxJobsActive  int    `mapstructure:"max_jobs_active"`
	Timeout        int    `mapstructure:"timeout"`         // milliseconds
	RequestTimeout int    `mapstructure:"request_timeout"` // milliseconds
}

type DatabaseConfig struct {
	Postgres      PostgresConfig      `mapstructure:"postgres"`
	Elasticsearch ElasticsearchConfig `mapstructure:"elasticsearch"`
	Redis         RedisConfig         `mapstructure:"redis"`
}

type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
	MaxLifetime    int    `mapstructure:"conn_max_lifetime"` // seconds, 0 means five minutes
}

// GetDSN returns the PostgreSQL connection string
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type ElasticsearchConfig struct {
	Addresses  []string `mapstructure:"addresses"`
	Username   string   `mapstructure:"username"`
	Password   string   `mapstructure:"password"`
	SSLEnabled bool     `mapstructure:"ssl_enabled"`
	URL        string   `mapstructure:"url"` // single address, wins over Addresses
	MaxRetries int      `mapstructure:"max_retries"`
}

// GetURL returns the first address or the URL field
func (e ElasticsearchConfig) GetURL() string {
	if e.URL != "" {
		return e.URL
	}
	if len(e.Addresses) > 0 {
		return e.Addresses[0]
	}
	return ""
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	PoolSize int    `mapstructure:"pool_size"`
}

// WorkerConfig holds the core settings applicable to every worker.
type WorkerConfig struct {
	Enabled       bool `mapstructure:"enabled"`
	MaxJobsActive int  `mapstructure:"max_jobs_active"`
	Timeout       int  `mapstructure:"timeout"`     // milliseconds
	MaxRetries    int  `mapstructure:"max_retries"` // For error handling
}

// --- Readiness engine ---

// EngineConfig overrides a subset of readiness.DefaultSettings. Zero values
// keep the default.
type EngineConfig struct {
	KeywordGapMode     string             `mapstructure:"keyword_gap_mode"`
	TotalActivities    int                `mapstructure:"total_activities"`
	ReadyMatchScore    int                `mapstructure:"ready_match_score"`
	BridgeGapPenalty   int                `mapstructure:"bridge_gap_penalty"`
	ProximityMaxTravel int                `mapstructure:"proximity_max_travel"`
	MinAnswerWords     int                `mapstructure:"min_answer_words"`
	LevelScores        map[string]float64 `mapstructure:"level_scores"`
}

// Settings merges the section onto the engine defaults and validates the
// result.
func (e EngineConfig) Settings() (readiness.Settings, error) {
	s := readiness.DefaultSettings()
	if e.KeywordGapMode != "" {
		s.KeywordGapMode = readiness.KeywordGapMode(e.KeywordGapMode)
	}
	if e.ReadyMatchScore > 0 {
		s.ReadyMatchScore = e.ReadyMatchScore
	}
	if e.BridgeGapPenalty > 0 {
		s.BridgeGapPenalty = e.BridgeGapPenalty
	}
	if e.ProximityMaxTravel > 0 {
		s.ProximityMaxTravel = e.ProximityMaxTravel
	}
	if e.MinAnswerWords > 0 {
		s.MinAnswerWords = e.MinAnswerWords
	}
	// viper lowercases map keys
	for key, score := range e.LevelScores {
		code := strings.ToUpper(key)
		if _, known := s.LevelScores[code]; !known {
			return s, fmt.Errorf("engine.level_scores: unknown level %q", code)
		}
		s.LevelScores[code] = score
	}
	if err := s.Validate(); err != nil {
		return s, fmt.Errorf("engine: %w", err)
	}
	return s, nil
}

type LocaleConfig struct {
	// Dir holds YAML files that override or extend the embedded catalogs.
	Dir             string `mapstructure:"dir"`
	DefaultLanguage string `mapstructure:"default_language"`
}

type CacheConfig struct {
	RoleCatalogTTL int `mapstructure:"role_catalog_ttl"` // seconds
}

func (c CacheConfig) RoleCatalogTTLDuration() time.Duration {
	return time.Duration(c.RoleCatalogTTL) * time.Second
}

type SearchConfig struct {
	RoleIndex string `mapstructure:"role_index"`
	MaxHits   int    `mapstructure:"max_hits"`
}

// CatalogConfig points at the role catalog seed file used by the CLI.
type CatalogConfig struct {
	Path string `mapstructure:"path"`
}

// NotificationConfig holds settings for the send-result-summary worker.
type NotificationConfig struct {
	Email struct {
		Enabled   bool   `mapstructure:"enabled"`
		FromEmail string `mapstructure:"from_email"`
	} `mapstructure:"email"`
	SMS struct {
		Enabled  bool   `mapstructure:"enabled"`
		SenderID string `mapstructure:"sender_id"`
	} `mapstructure:"sms"`
	AWS struct {
		Region string `mapstructure:"region"`
	} `mapstructure:"aws"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

type ObservabilityConfig struct {
	ServiceName    string `mapstructure:"service_name"`
	TracingEnabled bool   `mapstructure:"tracing_enabled"`
	MetricsEnabled bool   `mapstructure:"metrics_enabled"`
}
