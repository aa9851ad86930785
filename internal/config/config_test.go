package config

import (
	"os"
	"strings"
	"testing"
	"time"
)

func unsetEnv() {
	for _, k := range []string{
		"HTTP_ADDR", "DATABASE_DSN", "AUTO_MIGRATE", "JWT_SECRET", "TOKEN_TTL",
		"REDIS_URL", "PURGE_SCHEDULE", "TIMEZONE", "LOG_DIR", "LOG_JSON", "DEBUG",
	} {
		_ = os.Unsetenv(EnvPrefix + "_" + k)
	}
}

func TestConfigLoad_Defaults(t *testing.T) {
	unsetEnv()

	cfg, err := New()
	if err != nil {
		t.Fatalf("config load: %v", err)
	}
	if cfg.HTTPAddr != ":8080" || cfg.PurgeSchedule != "@every 24h" || !cfg.AutoMigrate {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.TokenTTL != 720*time.Hour {
		t.Fatalf("unexpected token ttl: %v", cfg.TokenTTL)
	}
	if cfg.LeaseEnabled() {
		t.Fatal("lease should be disabled without a redis url")
	}
}

func TestConfigLoad_EnvOverride(t *testing.T) {
	unsetEnv()
	t.Setenv("MOMENTUM_HTTP_ADDR", "127.0.0.1:9000")
	t.Setenv("MOMENTUM_REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("MOMENTUM_PURGE_SCHEDULE", "0 3 * * *")
	t.Setenv("MOMENTUM_DEBUG", "true")

	cfg, err := New()
	if err != nil {
		t.Fatalf("config load: %v", err)
	}
	if cfg.HTTPAddr != "127.0.0.1:9000" || !cfg.Debug || !cfg.LeaseEnabled() {
		t.Fatalf("env override failed: %+v", cfg)
	}
	if err := cfg.ValidateSchedule(); err != nil {
		t.Fatalf("ValidateSchedule() error = %v", err)
	}
}

func TestConfigLoad_BadValue(t *testing.T) {
	unsetEnv()
	t.Setenv("MOMENTUM_TOKEN_TTL", "soon")

	if _, err := New(); err == nil {
		t.Fatal("expected an error for an unparseable duration")
	}
}

func TestValidateServe(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"short secret", func(c *Config) { c.JWTSecret = "short" }, true},
		{"empty addr", func(c *Config) { c.HTTPAddr = "" }, true},
		{"bad schedule", func(c *Config) { c.PurgeSchedule = "whenever" }, true},
		{"cron spec", func(c *Config) { c.PurgeSchedule = "30 2 * * *" }, false},
		{"long secret", func(c *Config) { c.JWTSecret = strings.Repeat("s", 64) }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewForTesting()
			tt.mutate(cfg)
			if err := cfg.ValidateServe(); (err != nil) != tt.wantErr {
				t.Errorf("ValidateServe() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateTimezone(t *testing.T) {
	tests := []struct {
		tz      string
		wantErr bool
	}{
		{"", false},
		{"Local", false},
		{"UTC", false},
		{"Europe/Berlin", false},
		{"Mars/Olympus", true},
	}

	for _, tt := range tests {
		cfg := NewForTesting()
		cfg.Timezone = tt.tz
		if err := cfg.ValidateTimezone(); (err != nil) != tt.wantErr {
			t.Errorf("ValidateTimezone(%q) error = %v, wantErr %v", tt.tz, err, tt.wantErr)
		}
	}
}
