package conf

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	HttpAddr    string   `koanf:"http_addr"`
	Env         string   `koanf:"env"`
	CorsOrigins []string `koanf:"cors_origins"`

	CfApiURL             string `koanf:"cf_api_url"`
	CfProblemURL         string `koanf:"cf_problem_url"`
	CfRequestTimeoutSecs int    `koanf:"cf_request_timeout_secs"`
	CfMinIntervalMs      int    `koanf:"cf_min_interval_ms"`

	// CacheTTL is the catalog lifetime in seconds.
	CacheTTL              int    `koanf:"cache_ttl"`
	CatalogSnapshotBucket string `koanf:"catalog_snapshot_bucket"`
	AwsRegion             string `koanf:"aws_region"`

	OtelEnabled     bool    `koanf:"otel_enabled"`
	OtelEndpoint    string  `koanf:"otel_exporter_otlp_endpoint"`
	OtelInsecure    bool    `koanf:"otel_exporter_otlp_insecure"`
	OtelSampleRatio float64 `koanf:"otel_sampler_ratio"`
}

func defaultConfig() Config {
	return Config{
		HttpAddr:             ":8080",
		Env:                  "dev",
		CorsOrigins:          []string{"http://localhost:3000"},
		CfApiURL:             "https://codeforces.com/api/",
		CfProblemURL:         "https://codeforces.com/problemset/problem/",
		CfRequestTimeoutSecs: 20,
		CfMinIntervalMs:      2000,
		CacheTTL:             3600,
		AwsRegion:            "eu-central-1",
		OtelSampleRatio:      0.1,
	}
}

var sliceKeys = []string{"cors_origins"}

// Load reads an optional .env file and then the process environment on top
// of the defaults.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}
	return load()
}

func load() (*Config, error) {
	k := koanf.New(".")

	defaults := defaultConfig()
	if err := k.Load(structs.Provider(&defaults, "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	known := make(map[string]struct{})
	for _, key := range k.Keys() {
		known[key] = struct{}{}
	}
	// unrelated variables like PATH and empty values are skipped
	envProvider := env.ProviderWithValue("", ".", func(key, value string) (string, any) {
		key = strings.ToLower(key)
		if _, ok := known[key]; !ok || strings.TrimSpace(value) == "" {
			return "", nil
		}
		return key, value
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := splitSliceKeys(k); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func splitSliceKeys(k *koanf.Koanf) error {
	for _, key := range sliceKeys {
		s, ok := k.Get(key).(string)
		if !ok {
			continue
		}
		parts := make([]string, 0)
		for _, p := range strings.Split(s, ",") {
			if p = strings.TrimSpace(p); p != "" {
				parts = append(parts, p)
			}
		}
		if err := k.Set(key, parts); err != nil {
			return fmt.Errorf("failed to set %s: %w", key, err)
		}
	}
	return nil
}

// Validate checks the numeric limits and normalises base URLs to end in "/".
func (c *Config) Validate() error {
	var errs []error
	if c.CacheTTL <= 0 {
		errs = append(errs, fmt.Errorf("CACHE_TTL must be positive, got %d", c.CacheTTL))
	}
	if c.CfRequestTimeoutSecs <= 0 {
		errs = append(errs, fmt.Errorf("CF_REQUEST_TIMEOUT_SECS must be positive, got %d", c.CfRequestTimeoutSecs))
	}
	if c.CfMinIntervalMs < 0 {
		errs = append(errs, fmt.Errorf("CF_MIN_INTERVAL_MS must not be negative, got %d", c.CfMinIntervalMs))
	}
	if c.CfApiURL == "" {
		errs = append(errs, errors.New("CF_API_URL must not be empty"))
	}
	if c.OtelSampleRatio < 0 || c.OtelSampleRatio > 1 {
		errs = append(errs, fmt.Errorf("OTEL_SAMPLER_RATIO must be within [0,1], got %v", c.OtelSampleRatio))
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	c.CfApiURL = withTrailingSlash(c.CfApiURL)
	c.CfProblemURL = withTrailingSlash(c.CfProblemURL)
	return nil
}

func (c *Config) IsDev() bool {
	return c.Env == "dev"
}

func (c *Config) CatalogTTL() time.Duration {
	return time.Duration(c.CacheTTL) * time.Second
}

func (c *Config) CfRequestTimeout() time.Duration {
	return time.Duration(c.CfRequestTimeoutSecs) * time.Second
}

func (c *Config) CfMinInterval() time.Duration {
	return time.Duration(c.CfMinIntervalMs) * time.Millisecond
}

func withTrailingSlash(u string) string {
	if u != "" && !strings.HasSuffix(u, "/") {
		return u + "/"
	}
	return u
}
