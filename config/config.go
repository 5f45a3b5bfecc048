package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/rankcraft/backend/logging"
)

type Config struct {
	Port      string
	GinMode   string
	DevMode   bool
	LogLevel  string
	DataDir   string
	Database  string
	JWTSecret string

	RedisURL string
	CacheTTL time.Duration

	RateLimitRPS   float64
	RateLimitBurst float64

	LLM        LLMConfig
	SuggestURL string

	// AllowPrivateFetch lets URL analysis reach loopback and private networks
	AllowPrivateFetch bool
}

type LLMConfig struct {
	APIKey  string
	BaseURL string
	Model   string
}

// StatisticsPath is where request statistics are persisted
func (c Config) StatisticsPath() string {
	return filepath.Join(c.DataDir, "statistics.json")
}

// loadEnv reads .env.development first, then .env
func loadEnv() {
	if err := godotenv.Load(".env.development"); err != nil {
		if err := godotenv.Load(); err != nil {
			logging.Log.Debug("no .env file found, using environment variables")
		}
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8082")
	v.SetDefault("gin_mode", "release")
	v.SetDefault("dev_mode", false)
	v.SetDefault("log_level", "info")
	v.SetDefault("data_dir", "./data")
	v.SetDefault("database_path", "")
	v.SetDefault("jwt_secret", "")
	v.SetDefault("redis_url", "")
	v.SetDefault("cache_ttl_seconds", 60)
	v.SetDefault("rate_limit_rps", 2.0)
	v.SetDefault("rate_limit_burst", 5.0)
	v.SetDefault("groq_api_key", "")
	v.SetDefault("groq_base_url", "https://api.groq.com/openai/v1")
	v.SetDefault("groq_model", "mistral-saba-24b")
	v.SetDefault("suggest_url", "https://suggestqueries.google.com/complete/search")
	v.SetDefault("allow_private_fetch", false)
}

// Load reads configuration from .env files, the environment and an optional
// config file (empty path skips it)
func Load(configFile string) (Config, error) {
	loadEnv()

	v := viper.New()
	setDefaults(v)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	return fromViper(v)
}

func fromViper(v *viper.Viper) (Config, error) {
	cfg := Config{
		Port:           v.GetString("port"),
		GinMode:        v.GetString("gin_mode"),
		DevMode:        v.GetBool("dev_mode"),
		LogLevel:       v.GetString("log_level"),
		DataDir:        v.GetString("data_dir"),
		Database:       v.GetString("database_path"),
		JWTSecret:      v.GetString("jwt_secret"),
		RedisURL:       v.GetString("redis_url"),
		CacheTTL:       time.Duration(v.GetInt("cache_ttl_seconds")) * time.Second,
		RateLimitRPS:   v.GetFloat64("rate_limit_rps"),
		RateLimitBurst: v.GetFloat64("rate_limit_burst"),
		LLM: LLMConfig{
			APIKey:  v.GetString("groq_api_key"),
			BaseURL: v.GetString("groq_base_url"),
			Model:   v.GetString("groq_model"),
		},
		SuggestURL:        v.GetString("suggest_url"),
		AllowPrivateFetch: v.GetBool("allow_private_fetch"),
	}
	if cfg.Database == "" {
		cfg.Database = filepath.Join(cfg.DataDir, "rankcraft.db")
	}

	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	var errs []error
	if c.Port == "" {
		errs = append(errs, errors.New("PORT must not be empty"))
	}
	if c.CacheTTL <= 0 {
		errs = append(errs, errors.New("CACHE_TTL_SECONDS must be positive"))
	}
	if c.RateLimitRPS <= 0 {
		errs = append(errs, errors.New("RATE_LIMIT_RPS must be positive"))
	}
	if c.RateLimitBurst < 1 {
		errs = append(errs, errors.New("RATE_LIMIT_BURST must be at least 1"))
	}
	return errors.Join(errs...)
}
