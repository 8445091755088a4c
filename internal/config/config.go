package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v2"
)

const (
	defaultConfigPath       = "config/config.yaml"
	defaultAddress          = ":4001"
	defaultBackendURL       = "http://localhost:8000"
	defaultBackendTimeout   = 15 * time.Second
	defaultStorageDriver    = "memory"
	defaultRatesSchedule    = "5 0 * * *"
	defaultTimezone         = "Europe/Moscow"
	defaultTokenTTL         = 24 * time.Hour
	defaultPageThreshold    = 10
	defaultTransitionDelay  = 100 * time.Millisecond
	defaultSessionTTL       = 30 * time.Minute
	defaultCleanerInterval  = time.Minute
	defaultSuggestPerSecond = 5
	defaultSuggestBurst     = 10
	writeTimeoutMargin      = 5 * time.Second
)

type Config struct {
	Server struct {
		Address         string        `yaml:"address"`
		AllowedOrigins  []string      `yaml:"allowed_origins"`
		// TrustedProxies lists proxy addresses or CIDRs whose
		// X-Forwarded-For header is believed.
		TrustedProxies  []string      `yaml:"trusted_proxies"`
		CleanerInterval time.Duration `yaml:"cleaner_interval"`
	} `yaml:"server"`
	Backend struct {
		BaseURL string        `yaml:"base_url"`
		Timeout time.Duration `yaml:"timeout"`
	} `yaml:"backend"`
	Storage struct {
		// Driver is one of memory, redis, mysql, pgx or s3.
		Driver string `yaml:"driver"`
		URL    string `yaml:"url"`
		Redis  struct {
			Addr     string `yaml:"addr"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
			Prefix   string `yaml:"prefix"`
		} `yaml:"redis"`
		S3 struct {
			Bucket    string `yaml:"bucket"`
			Region    string `yaml:"region"`
			Endpoint  string `yaml:"endpoint"`
			AccessKey string `yaml:"access_key"`
			SecretKey string `yaml:"secret_key"`
			Prefix    string `yaml:"prefix"`
		} `yaml:"s3"`
	} `yaml:"storage"`
	Currency struct {
		URL      string `yaml:"url"`
		Schedule string `yaml:"schedule"`
		Timezone string `yaml:"timezone"`
	} `yaml:"currency"`
	Auth struct {
		Secret   string        `yaml:"secret"`
		TokenTTL time.Duration `yaml:"token_ttl"`
	} `yaml:"auth"`
	Search struct {
		PageThreshold   int           `yaml:"page_threshold"`
		LegacyHasMore   bool          `yaml:"legacy_has_more"`
		CityFallback    bool          `yaml:"city_fallback"`
		TransitionDelay time.Duration `yaml:"transition_delay"`
		SessionTTL      time.Duration `yaml:"session_ttl"`
	} `yaml:"search"`
	Suggestions struct {
		PerSecond int `yaml:"per_second"`
		Burst     int `yaml:"burst"`
	} `yaml:"suggestions"`
}

// Load reads the YAML file named by CONFIG_PATH (a missing default file is
// fine), applies environment overrides and fills defaults.
func Load() (Config, error) {
	var cfg Config
	// bare array pages and city-only searches behave like the results page
	// unless the file or environment turns them off
	cfg.Search.LegacyHasMore = true
	cfg.Search.CityFallback = true

	path := os.Getenv("CONFIG_PATH")
	explicit := path != ""
	if !explicit {
		path = defaultConfigPath
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
	default:
		return Config{}, fmt.Errorf("read %s: %w", path, err)
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	applyDefaults(&cfg)
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	if v := os.Getenv("PORT"); v != "" {
		cfg.Server.Address = ":" + v
	}
	setString(&cfg.Backend.BaseURL, "BACKEND_URL")
	setString(&cfg.Storage.Driver, "STORAGE_DRIVER")
	setString(&cfg.Storage.URL, "DATABASE_URL")
	setString(&cfg.Storage.Redis.Addr, "REDIS_ADDR")
	setString(&cfg.Storage.Redis.Password, "REDIS_PASSWORD")
	setString(&cfg.Storage.S3.Bucket, "S3_BUCKET")
	setString(&cfg.Storage.S3.Region, "S3_REGION")
	setString(&cfg.Storage.S3.Endpoint, "S3_ENDPOINT")
	setString(&cfg.Storage.S3.AccessKey, "S3_ACCESS_KEY")
	setString(&cfg.Storage.S3.SecretKey, "S3_SECRET_KEY")
	setString(&cfg.Currency.URL, "CBR_URL")
	setString(&cfg.Currency.Schedule, "RATES_SCHEDULE")
	setString(&cfg.Currency.Timezone, "RATES_TIMEZONE")
	setString(&cfg.Auth.Secret, "JWT_SECRET")

	if v := os.Getenv("ALLOWED_ORIGINS"); v != "" {
		cfg.Server.AllowedOrigins = splitList(v)
	}
	if v := os.Getenv("TRUSTED_PROXIES"); v != "" {
		cfg.Server.TrustedProxies = splitList(v)
	}

	if v, err := readIntEnv("REDIS_DB"); err != nil {
		return fmt.Errorf("parse REDIS_DB: %w", err)
	} else if v != nil {
		cfg.Storage.Redis.DB = *v
	}

	if v, err := readIntEnv("SEARCH_PAGE_THRESHOLD"); err != nil {
		return fmt.Errorf("parse SEARCH_PAGE_THRESHOLD: %w", err)
	} else if v != nil {
		cfg.Search.PageThreshold = *v
	}

	if v, err := readIntEnv("SUGGEST_PER_SECOND"); err != nil {
		return fmt.Errorf("parse SUGGEST_PER_SECOND: %w", err)
	} else if v != nil {
		cfg.Suggestions.PerSecond = *v
	}

	if v := os.Getenv("SEARCH_LEGACY_HAS_MORE"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("parse SEARCH_LEGACY_HAS_MORE: %w", err)
		}
		cfg.Search.LegacyHasMore = b
	}

	if v := os.Getenv("SEARCH_CITY_FALLBACK"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("parse SEARCH_CITY_FALLBACK: %w", err)
		}
		cfg.Search.CityFallback = b
	}

	if v := os.Getenv("BACKEND_TIMEOUT_SECONDS"); v != "" {
		secs, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("parse BACKEND_TIMEOUT_SECONDS: %w", err)
		}
		cfg.Backend.Timeout = time.Duration(secs) * time.Second
	}

	if v := os.Getenv("JWT_TTL_HOURS"); v != "" {
		hours, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("parse JWT_TTL_HOURS: %w", err)
		}
		cfg.Auth.TokenTTL = time.Duration(hours) * time.Hour
	}
	return nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Address == "" {
		cfg.Server.Address = defaultAddress
	}
	if len(cfg.Server.AllowedOrigins) == 0 {
		cfg.Server.AllowedOrigins = []string{"http://localhost:3000", "http://localhost:5173"}
	}
	if cfg.Server.CleanerInterval <= 0 {
		cfg.Server.CleanerInterval = defaultCleanerInterval
	}
	if cfg.Backend.BaseURL == "" {
		cfg.Backend.BaseURL = defaultBackendURL
	}
	if cfg.Backend.Timeout <= 0 {
		cfg.Backend.Timeout = defaultBackendTimeout
	}
	if cfg.Storage.Driver == "" {
		cfg.Storage.Driver = defaultStorageDriver
	}
	cfg.Storage.Driver = strings.ToLower(strings.TrimSpace(cfg.Storage.Driver))
	if cfg.Currency.Schedule == "" {
		cfg.Currency.Schedule = defaultRatesSchedule
	}
	if cfg.Currency.Timezone == "" {
		cfg.Currency.Timezone = defaultTimezone
	}
	if cfg.Auth.TokenTTL <= 0 {
		cfg.Auth.TokenTTL = defaultTokenTTL
	}
	if cfg.Search.PageThreshold <= 0 {
		cfg.Search.PageThreshold = defaultPageThreshold
	}
	if cfg.Search.TransitionDelay <= 0 {
		cfg.Search.TransitionDelay = defaultTransitionDelay
	}
	if cfg.Search.SessionTTL <= 0 {
		cfg.Search.SessionTTL = defaultSessionTTL
	}
	if cfg.Suggestions.PerSecond <= 0 {
		cfg.Suggestions.PerSecond = defaultSuggestPerSecond
	}
	if cfg.Suggestions.Burst <= 0 {
		cfg.Suggestions.Burst = defaultSuggestBurst
	}
}

func (cfg Config) validate() error {
	switch cfg.Storage.Driver {
	case "memory":
	case "redis":
		if cfg.Storage.Redis.Addr == "" {
			return fmt.Errorf("storage.redis.addr is required for the redis driver")
		}
	case "mysql", "pgx":
		if cfg.Storage.URL == "" {
			return fmt.Errorf("storage.url is required for the %s driver", cfg.Storage.Driver)
		}
	case "s3":
		if cfg.Storage.S3.Bucket == "" {
			return fmt.Errorf("storage.s3.bucket is required for the s3 driver")
		}
	default:
		return fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
	if cfg.Auth.Secret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if _, err := time.LoadLocation(cfg.Currency.Timezone); err != nil {
		return fmt.Errorf("currency timezone: %w", err)
	}
	return nil
}

// WriteTimeout bounds a response. It outlasts the slowest search request:
// the URL transition delay plus a train attempt and the air fallback.
func (cfg Config) WriteTimeout() time.Duration {
	return cfg.Search.TransitionDelay + 2*cfg.Backend.Timeout + writeTimeoutMargin
}

// Location returns the zone in which exchange rate days begin.
func (cfg Config) Location() *time.Location {
	loc, err := time.LoadLocation(cfg.Currency.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func setString(dst *string, name string) {
	if v := os.Getenv(name); v != "" {
		*dst = v
	}
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func readIntEnv(name string) (*int, error) {
	val := os.Getenv(name)
	if val == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(val)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
