package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
)

func newTestViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	return v
}

func TestDefaults(t *testing.T) {
	cfg, err := fromViper(newTestViper())
	if err != nil {
		t.Fatalf("fromViper() error = %v", err)
	}

	if cfg.Port != "8082" || cfg.GinMode != "release" || cfg.DevMode {
		t.Errorf("unexpected server defaults: %+v", cfg)
	}
	if cfg.CacheTTL != time.Minute {
		t.Errorf("CacheTTL = %v, want 1m", cfg.CacheTTL)
	}
	if cfg.Database != filepath.Join("data", "rankcraft.db") {
		t.Errorf("Database = %q", cfg.Database)
	}
	if cfg.StatisticsPath() != filepath.Join("data", "statistics.json") {
		t.Errorf("StatisticsPath() = %q", cfg.StatisticsPath())
	}
	if cfg.RateLimitRPS != 2 || cfg.RateLimitBurst != 5 {
		t.Errorf("rate limit = %v/%v, want 2/5", cfg.RateLimitRPS, cfg.RateLimitBurst)
	}
	if cfg.LLM.Model != "mistral-saba-24b" {
		t.Errorf("LLM.Model = %q", cfg.LLM.Model)
	}
	if cfg.AllowPrivateFetch {
		t.Error("private network fetches should be off by default")
	}
}

func TestOverrides(t *testing.T) {
	v := newTestViper()
	v.Set("port", "9000")
	v.Set("dev_mode", "true")
	v.Set("cache_ttl_seconds", "300")
	v.Set("database_path", "/tmp/x.db")

	cfg, err := fromViper(v)
	if err != nil {
		t.Fatalf("fromViper() error = %v", err)
	}
	if cfg.Port != "9000" || !cfg.DevMode || cfg.CacheTTL != 5*time.Minute || cfg.Database != "/tmp/x.db" {
		t.Errorf("overrides not applied: %+v", cfg)
	}
}

func TestValidate(t *testing.T) {
	v := newTestViper()
	v.Set("rate_limit_rps", 0)
	v.Set("cache_ttl_seconds", -1)

	if _, err := fromViper(v); err == nil {
		t.Error("expected validation errors")
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("PORT", "7070")
	t.Setenv("JWT_SECRET", "s3cret")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Port != "7070" || cfg.JWTSecret != "s3cret" {
		t.Errorf("Load() = %+v", cfg)
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	t.Setenv("PORT", "")
	t.Setenv("GROQ_MODEL", "")
	path := filepath.Join(dir, "rankcraft.yaml")
	if err := os.WriteFile(path, []byte("port: \"6060\"\ngroq_model: llama3\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Port != "6060" || cfg.LLM.Model != "llama3" {
		t.Errorf("Load() = %+v", cfg)
	}
}

// chdir mirrors testing.T.Chdir (Go 1.24+) for older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
