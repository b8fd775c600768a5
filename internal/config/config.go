// AngelaMos | 2026
// config.go

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	App           AppConfig           `koanf:"app"`
	Server        ServerConfig        `koanf:"server"`
	Storage       StorageConfig       `koanf:"storage"`
	Database      DatabaseConfig      `koanf:"database"`
	Redis         RedisConfig         `koanf:"redis"`
	Visitor       VisitorConfig       `koanf:"visitor"`
	Access        AccessConfig        `koanf:"access"`
	Notifications NotificationsConfig `koanf:"notifications"`
	RateLimit     RateLimitConfig     `koanf:"rate_limit"`
	CORS          CORSConfig          `koanf:"cors"`
	Metrics       MetricsConfig       `koanf:"metrics"`
	Log           LogConfig           `koanf:"log"`
	Otel          OtelConfig          `koanf:"otel"`
}

type AppConfig struct {
	Name        string `koanf:"name"`
	Version     string `koanf:"version"`
	Environment string `koanf:"environment"`
	Locale      string `koanf:"locale"`
}

type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	IdleTimeout     time.Duration `koanf:"idle_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// StorageConfig selects the key/value backend that replaces the browser's
// local storage. Backend is one of memory, redis, postgres or sqlite.
type StorageConfig struct {
	Backend    string `koanf:"backend"`
	Prefix     string `koanf:"prefix"`
	SQLitePath string `koanf:"sqlite_path"`
}

type DatabaseConfig struct {
	URL             string        `koanf:"url"`
	MaxOpenConns    int           `koanf:"max_open_conns"`
	MaxIdleConns    int           `koanf:"max_idle_conns"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `koanf:"conn_max_idle_time"`
}

type RedisConfig struct {
	URL          string `koanf:"url"`
	PoolSize     int    `koanf:"pool_size"`
	MinIdleConns int    `koanf:"min_idle_conns"`
}

// VisitorConfig controls the signed cookie that identifies a browser.
// Empty key paths make the service generate an ephemeral key pair on start.
type VisitorConfig struct {
	CookieName     string        `koanf:"cookie_name"`
	PrivateKeyPath string        `koanf:"private_key_path"`
	TTL            time.Duration `koanf:"ttl"`
	Issuer         string        `koanf:"issuer"`
	Audience       string        `koanf:"audience"`
	SecureCookie   bool          `koanf:"secure_cookie"`
}

type CredentialConfig struct {
	Identifier string `koanf:"identifier"`
	Secret     string `koanf:"secret"`
}

// AccessConfig holds the switches around course gating.
//
// TestMode unconditionally grants page access and fills in a demo session.
// It is a debugging override and must stay off outside local development.
//
// NavigationCheck is "target" (check the page being navigated to) or
// "adjacent" (check module current±1 literally, which never reaches the
// dashboard).
type AccessConfig struct {
	TestMode           bool               `koanf:"test_mode"`
	NavigationCheck    string             `koanf:"navigation_check"`
	EnforceUnlockOrder bool               `koanf:"enforce_unlock_order"`
	HashedCredentials  bool               `koanf:"hashed_credentials"`
	Credentials        []CredentialConfig `koanf:"credentials"`
}

type NotificationsConfig struct {
	DefaultDuration    time.Duration `koanf:"default_duration"`
	CompletionDuration time.Duration `koanf:"completion_duration"`
}

type RateLimitConfig struct {
	Requests int           `koanf:"requests"`
	Window   time.Duration `koanf:"window"`
	Burst    int           `koanf:"burst"`
}

type CORSConfig struct {
	AllowedOrigins   []string `koanf:"allowed_origins"`
	AllowedMethods   []string `koanf:"allowed_methods"`
	AllowedHeaders   []string `koanf:"allowed_headers"`
	AllowCredentials bool     `koanf:"allow_credentials"`
	MaxAge           int      `koanf:"max_age"`
}

type MetricsConfig struct {
	Enabled bool   `koanf:"enabled"`
	Path    string `koanf:"path"`
}

type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

type OtelConfig struct {
	Endpoint    string  `koanf:"endpoint"`
	ServiceName string  `koanf:"service_name"`
	Enabled     bool    `koanf:"enabled"`
	Insecure    bool    `koanf:"insecure"`
	SampleRate  float64 `koanf:"sample_rate"`
}

const (
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"

	NavigationCheckTarget   = "target"
	NavigationCheckAdjacent = "adjacent"
)

var (
	cfg  *Config
	once sync.Once
)

// DotEnvFile is read before the environment provider when present. Values
// already exported in the process win over the file.
const DotEnvFile = ".env"

func Load(configPath string) (*Config, error) {
	var loadErr error

	once.Do(func() {
		cfg, loadErr = load(configPath)
	})

	if loadErr != nil {
		return nil, loadErr
	}

	return cfg, nil
}

func load(configPath string) (*Config, error) {
	k := koanf.New(".")

	if err := loadDefaults(k); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file: %w", err)
		}
	}

	if err := godotenv.Load(DotEnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load %s: %w", DotEnvFile, err)
	}

	if err := k.Load(env.Provider("", ".", envKeyReplacer), nil); err != nil {
		return nil, fmt.Errorf("load env vars: %w", err)
	}

	c := &Config{}
	if err := k.Unmarshal("", c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := validate(c); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return c, nil
}

func Get() *Config {
	if cfg == nil {
		panic("config not loaded: call Load() first")
	}
	return cfg
}

func loadDefaults(k *koanf.Koanf) error {
	defaults := map[string]any{
		"app.name":        "Course Gate",
		"app.version":     "1.0.0",
		"app.environment": "development",
		"app.locale":      "en",

		"server.host":             "0.0.0.0",
		"server.port":             8080,
		"server.read_timeout":     "30s",
		"server.write_timeout":    "30s",
		"server.idle_timeout":     "120s",
		"server.shutdown_timeout": "15s",

		"storage.backend":     BackendMemory,
		"storage.prefix":      "coursegate",
		"storage.sqlite_path": "data/coursegate.db",

		"database.max_open_conns":     25,
		"database.max_idle_conns":     5,
		"database.conn_max_lifetime":  "1h",
		"database.conn_max_idle_time": "30m",

		"redis.pool_size":      10,
		"redis.min_idle_conns": 5,

		"visitor.cookie_name":   "cg_visitor",
		"visitor.ttl":           "8760h",
		"visitor.issuer":        "course-gate",
		"visitor.audience":      "course-gate-site",
		"visitor.secure_cookie": false,

		"access.test_mode":            false,
		"access.navigation_check":     NavigationCheckTarget,
		"access.enforce_unlock_order": false,
		"access.hashed_credentials":   false,

		"notifications.default_duration":    "3s",
		"notifications.completion_duration": "4s",

		"rate_limit.requests": 100,
		"rate_limit.window":   "1m",
		"rate_limit.burst":    20,

		"cors.allowed_origins": []string{"http://localhost:3000"},
		"cors.allowed_methods": []string{
			"GET",
			"POST",
			"PUT",
			"DELETE",
			"OPTIONS",
		},
		"cors.allowed_headers": []string{
			"Accept",
			"Content-Type",
			"X-Request-ID",
		},
		"cors.allow_credentials": true,
		"cors.max_age":           300,

		"metrics.enabled": true,
		"metrics.path":    "/metrics",

		"log.level":  "info",
		"log.format": "json",

		"otel.enabled":      false,
		"otel.insecure":     true,
		"otel.sample_rate":  0.1,
		"otel.service_name": "course-gate",
	}

	for key, value := range defaults {
		if err := k.Set(key, value); err != nil {
			return fmt.Errorf("set default %s: %w", key, err)
		}
	}

	return nil
}

var envKeyMap = map[string]string{
	"STORAGE_BACKEND":             "storage.backend",
	"STORAGE_PREFIX":              "storage.prefix",
	"SQLITE_PATH":                 "storage.sqlite_path",
	"DATABASE_URL":                "database.url",
	"REDIS_URL":                   "redis.url",
	"ENVIRONMENT":                 "app.environment",
	"LOCALE":                      "app.locale",
	"HOST":                        "server.host",
	"PORT":                        "server.port",
	"LOG_LEVEL":                   "log.level",
	"LOG_FORMAT":                  "log.format",
	"VISITOR_COOKIE_NAME":         "visitor.cookie_name",
	"VISITOR_PRIVATE_KEY_PATH":    "visitor.private_key_path",
	"VISITOR_TTL":                 "visitor.ttl",
	"VISITOR_SECURE_COOKIE":       "visitor.secure_cookie",
	"ACCESS_TEST_MODE":            "access.test_mode",
	"ACCESS_NAVIGATION_CHECK":     "access.navigation_check",
	"ACCESS_ENFORCE_UNLOCK_ORDER": "access.enforce_unlock_order",
	"RATE_LIMIT_REQUESTS":         "rate_limit.requests",
	"RATE_LIMIT_WINDOW":           "rate_limit.window",
	"RATE_LIMIT_BURST":            "rate_limit.burst",
	"METRICS_ENABLED":             "metrics.enabled",
	"METRICS_PATH":                "metrics.path",
	"OTEL_ENDPOINT":               "otel.endpoint",
	"OTEL_EXPORTER_OTLP_ENDPOINT": "otel.endpoint",
	"OTEL_SERVICE_NAME":           "otel.service_name",
	"OTEL_ENABLED":                "otel.enabled",
	"OTEL_INSECURE":               "otel.insecure",
	"OTEL_SAMPLE_RATE":            "otel.sample_rate",
}

func envKeyReplacer(s string) string {
	if mapped, ok := envKeyMap[s]; ok {
		return mapped
	}
	return ""
}

func validate(c *Config) error {
	switch c.Storage.Backend {
	case BackendMemory:
	case BackendRedis:
		if c.Redis.URL == "" {
			return fmt.Errorf("REDIS_URL is required for the redis backend")
		}
	case BackendPostgres:
		if c.Database.URL == "" {
			return fmt.Errorf("DATABASE_URL is required for the postgres backend")
		}
	case BackendSQLite:
		if c.Storage.SQLitePath == "" {
			return fmt.Errorf("SQLITE_PATH is required for the sqlite backend")
		}
	default:
		return fmt.Errorf("unknown storage backend %q", c.Storage.Backend)
	}

	if c.Storage.Backend != BackendMemory && c.Visitor.PrivateKeyPath == "" {
		return fmt.Errorf(
			"visitor.private_key_path is required for the %s backend; "+
				"without it visitor cookies stop verifying after a restart",
			c.Storage.Backend,
		)
	}

	switch c.Access.NavigationCheck {
	case NavigationCheckTarget, NavigationCheckAdjacent:
	default:
		return fmt.Errorf(
			"access.navigation_check must be %q or %q",
			NavigationCheckTarget,
			NavigationCheckAdjacent,
		)
	}

	if c.Access.HashedCredentials && len(c.Access.Credentials) == 0 {
		return fmt.Errorf("access.hashed_credentials needs access.credentials")
	}

	for i, cred := range c.Access.Credentials {
		if cred.Identifier == "" || cred.Secret == "" {
			return fmt.Errorf("access.credentials[%d] needs identifier and secret", i)
		}
	}

	if c.CORS.AllowCredentials {
		for _, origin := range c.CORS.AllowedOrigins {
			if origin == "*" {
				return fmt.Errorf(
					"CORS wildcard '*' cannot be used with AllowCredentials",
				)
			}
		}
	}

	if c.App.Environment == "production" {
		if c.Otel.Enabled && c.Otel.Insecure {
			return fmt.Errorf("OTEL_INSECURE must be false in production")
		}
		if c.Access.TestMode {
			return fmt.Errorf("ACCESS_TEST_MODE cannot be enabled in production")
		}
	}

	if c.Metrics.Enabled && (c.Metrics.Path == "" || c.Metrics.Path[0] != '/') {
		return fmt.Errorf("metrics.path must start with /")
	}

	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("server.read_timeout must be positive")
	}

	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("server.write_timeout must be positive")
	}

	return nil
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

func (s *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}
