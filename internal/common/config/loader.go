// internal/common/config/loader.go
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// defaults are registered with viper so an explicit zero in YAML (for
// example cache.role_catalog_ttl: 0) survives unmarshalling.
var defaults = map[string]interface{}{
	"app.name":        "rekonet-workers",
	"app.environment": "development",
	"app.health_port": 8080,

	"camunda.max_jobs_active": 10,
	"camunda.timeout":         30000,
	"camunda.request_timeout": 30000,

	"database.postgres.port":              5432,
	"database.postgres.max_connections":   25,
	"database.postgres.max_idle":          5,
	"database.postgres.sslmode":           "disable",
	"database.postgres.conn_max_lifetime": 300,
	"database.elasticsearch.max_retries":  3,
	"database.redis.pool_size":            10,

	"engine.keyword_gap_mode": "always",
	"engine.total_activities": 6,

	"locale.default_language": "en",
	"cache.role_catalog_ttl":  300,
	"search.role_index":       "role_profiles",
	"search.max_hits":         10,
	"catalog.path":            "configs/role-catalog.yaml",

	"logging.level":  "info",
	"logging.format": "json",
	"logging.output": "stdout",

	"observability.service_name":    "rekonet-workers",
	"observability.metrics_enabled": true,
	"notifications.aws.region":      "eu-west-2",
}

// envFallbacks fill secrets commonly injected without a YAML placeholder.
var envFallbacks = map[string]string{
	"database.postgres.user":     "DB_USER",
	"database.postgres.password": "DB_PASSWORD",
	"database.redis.password":    "REDIS_PASSWORD",
	"notifications.aws.region":   "AWS_REGION",
}

// Load reads configs/config.yaml plus the config.<APP_ENVIRONMENT> overlay,
// searching the usual locations relative to the working directory.
func Load() (*Config, error) {
	loadEnvFile()

	v := newViper()
	v.SetConfigName("config")
	v.AddConfigPath("./configs")
	v.AddConfigPath("../../configs")
	v.AddConfigPath(".")
	if root := findProjectRoot(); root != "" {
		v.AddConfigPath(filepath.Join(root, "configs"))
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read base config: %w", err)
		}
	}

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}
	v.SetConfigName("config." + env)
	if err := v.MergeInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read %s overlay: %w", env, err)
		}
	}

	return decode(v)
}

// LoadFromFile reads a single config file with no environment overlay.
func LoadFromFile(path string) (*Config, error) {
	loadEnvFile()

	v := newViper()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config file %s: %w", path, err)
	}
	return decode(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	// DATABASE_POSTGRES_HOST overrides database.postgres.host
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	for key, val := range defaults {
		v.SetDefault(key, val)
	}
	return v
}

func decode(v *viper.Viper) (*Config, error) {
	expandEnvVars(v)
	for key, env := range envFallbacks {
		if val := os.Getenv(env); val != "" && (!v.InConfig(key) || v.GetString(key) == "") {
			v.Set(key, val)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if cfg.Database.Elasticsearch.URL == "" && len(cfg.Database.Elasticsearch.Addresses) > 0 {
		cfg.Database.Elasticsearch.URL = cfg.Database.Elasticsearch.Addresses[0]
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// loadEnvFile loads the first .env found in the working directory, its
// parents, or the module root.
func loadEnvFile() {
	paths := []string{".env", "../.env", "../../.env", "../../../.env"}
	if root := findProjectRoot(); root != "" {
		paths = append(paths, filepath.Join(root, ".env"))
	}
	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Load(path); err == nil {
			return
		}
	}
}

func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// expandEnvVars resolves ${VAR} placeholders in string values. A
// placeholder whose variable is unset is left as written.
func expandEnvVars(v *viper.Viper) {
	for _, key := range v.AllKeys() {
		s, ok := v.Get(key).(string)
		if !ok || !strings.Contains(s, "$") {
			continue
		}
		if expanded := os.ExpandEnv(s); expanded != "" && expanded != s {
			v.Set(key, expanded)
		}
	}
}

// validate reports every problem at once rather than the first.
func (c *Config) validate() error {
	var errs []error
	for _, field := range []struct{ key, value string }{
		{"camunda.broker_address", c.Camunda.BrokerAddress},
		{"database.postgres.host", c.Database.Postgres.Host},
		{"database.postgres.database", c.Database.Postgres.Database},
		{"database.postgres.user", c.Database.Postgres.User},
		{"database.redis.address", c.Database.Redis.Address},
	} {
		if field.value == "" {
			errs = append(errs, fmt.Errorf("%s is required", field.key))
		}
	}
	if c.Database.Elasticsearch.URL == "" {
		errs = append(errs, errors.New("database.elasticsearch.addresses or url is required"))
	}

	if c.Engine.TotalActivities < 0 {
		errs = append(errs, errors.New("engine.total_activities must not be negative"))
	}
	if _, err := c.Engine.Settings(); err != nil {
		errs = append(errs, err)
	}

	if c.Notifications.Email.Enabled && c.Notifications.Email.FromEmail == "" {
		errs = append(errs, errors.New("notifications.email.from_email is required when email is enabled"))
	}
	for taskType, w := range c.Workers {
		if w.Timeout < 0 || w.MaxJobsActive < 0 {
			errs = append(errs, fmt.Errorf("workers.%s: timeout and max_jobs_active must not be negative", taskType))
		}
	}
	return errors.Join(errs...)
}

// Worker returns the settings for a task type. Workers missing from the
// file run with the Camunda defaults and their own handler timeout.
func (c *Config) Worker(taskType string) WorkerConfig {
	w, ok := c.Workers[taskType]
	if !ok {
		w = WorkerConfig{Enabled: true}
	}
	if w.MaxJobsActive == 0 {
		w.MaxJobsActive = c.Camunda.MaxJobsActive
	}
	if w.MaxRetries == 0 {
		w.MaxRetries = 3
	}
	return w
}

// TimeoutOr returns the configured worker timeout, or fallback when the
// file leaves it unset.
func (w WorkerConfig) TimeoutOr(fallback time.Duration) time.Duration {
	if w.Timeout > 0 {
		return time.Duration(w.Timeout) * time.Millisecond
	}
	return fallback
}
