// AngelaMos | 2026
// config_test.go

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	c, err := load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if c.Storage.Backend != BackendMemory {
		t.Errorf("backend = %q", c.Storage.Backend)
	}
	if c.Access.TestMode {
		t.Errorf("test mode on by default")
	}
	if c.Access.NavigationCheck != NavigationCheckTarget {
		t.Errorf("navigation check = %q", c.Access.NavigationCheck)
	}
	if c.Visitor.CookieName != "cg_visitor" || c.Visitor.TTL != 8760*time.Hour {
		t.Errorf("visitor = %+v", c.Visitor)
	}
	if c.Notifications.CompletionDuration != 4*time.Second {
		t.Errorf("completion duration = %v", c.Notifications.CompletionDuration)
	}
}

func TestLoadFileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `
app:
  locale: es
storage:
  backend: sqlite
  sqlite_path: /tmp/course.db
visitor:
  private_key_path: /tmp/visitor.pem
access:
  enforce_unlock_order: true
  credentials:
    - identifier: ana@curso.com
      secret: clave
notifications:
  default_duration: 2s
`
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatal(err)
	}

	t.Setenv("ACCESS_NAVIGATION_CHECK", "adjacent")
	t.Setenv("LOCALE", "en")

	c, err := load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if c.Storage.Backend != BackendSQLite || c.Storage.SQLitePath != "/tmp/course.db" {
		t.Errorf("storage = %+v", c.Storage)
	}
	if !c.Access.EnforceUnlockOrder || c.Access.NavigationCheck != NavigationCheckAdjacent {
		t.Errorf("access = %+v", c.Access)
	}
	if len(c.Access.Credentials) != 1 || c.Access.Credentials[0].Identifier != "ana@curso.com" {
		t.Errorf("credentials = %+v", c.Access.Credentials)
	}
	if c.App.Locale != "en" {
		t.Errorf("env should override file locale, got %q", c.App.Locale)
	}
	if c.Notifications.DefaultDuration != 2*time.Second {
		t.Errorf("default duration = %v", c.Notifications.DefaultDuration)
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, DotEnvFile), []byte("METRICS_PATH=/internal/metrics\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Chdir(dir)

	t.Setenv("METRICS_PATH", "")
	if err := os.Unsetenv("METRICS_PATH"); err != nil {
		t.Fatal(err)
	}

	c, err := load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.Metrics.Path != "/internal/metrics" {
		t.Fatalf("metrics path = %q", c.Metrics.Path)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "defaults",
			mutate: func(*Config) {},
		},
		{
			name:    "unknown backend",
			mutate:  func(c *Config) { c.Storage.Backend = "etcd" },
			wantErr: "unknown storage backend",
		},
		{
			name:    "redis without url",
			mutate:  func(c *Config) { c.Storage.Backend = BackendRedis },
			wantErr: "REDIS_URL",
		},
		{
			name: "durable backend without visitor key",
			mutate: func(c *Config) {
				c.Storage.Backend = BackendSQLite
				c.Storage.SQLitePath = "data/course.db"
			},
			wantErr: "visitor.private_key_path",
		},
		{
			name: "durable backend with visitor key",
			mutate: func(c *Config) {
				c.Storage.Backend = BackendRedis
				c.Redis.URL = "redis://localhost:6379/0"
				c.Visitor.PrivateKeyPath = "data/visitor.pem"
			},
		},
		{
			name:    "postgres without url",
			mutate:  func(c *Config) { c.Storage.Backend = BackendPostgres },
			wantErr: "DATABASE_URL",
		},
		{
			name:    "bad navigation check",
			mutate:  func(c *Config) { c.Access.NavigationCheck = "sideways" },
			wantErr: "navigation_check",
		},
		{
			name:    "hashed without credentials",
			mutate:  func(c *Config) { c.Access.HashedCredentials = true },
			wantErr: "hashed_credentials",
		},
		{
			name: "credential missing secret",
			mutate: func(c *Config) {
				c.Access.Credentials = []CredentialConfig{{Identifier: "a"}}
			},
			wantErr: "credentials[0]",
		},
		{
			name: "test mode in production",
			mutate: func(c *Config) {
				c.App.Environment = "production"
				c.Otel.Insecure = false
				c.Access.TestMode = true
			},
			wantErr: "ACCESS_TEST_MODE",
		},
		{
			name:    "relative metrics path",
			mutate:  func(c *Config) { c.Metrics.Path = "metrics" },
			wantErr: "metrics.path",
		},
		{
			name:    "wildcard origin with credentials",
			mutate:  func(c *Config) { c.CORS.AllowedOrigins = []string{"*"} },
			wantErr: "wildcard",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := load("")
			if err != nil {
				t.Fatalf("load: %v", err)
			}
			tt.mutate(c)

			err = validate(c)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("validate: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("validate = %v, want %q", err, tt.wantErr)
			}
		})
	}
}
