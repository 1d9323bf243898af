package config

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	EnvProduction  = "production"
	EnvDevelopment = "development"

	// DevExpiryFactor stretches the cache expiry while iterating locally.
	DevExpiryFactor = 7

	DefaultFeedURL   = "https://docs.google.com/spreadsheets/d/e/2PACX-1vRtDDaI5kVRkOUWqJb8GRksylMr-wsKKbKB6O4XQ1rhVs5weqq_7NZPltfsniDND5C17kFatv2mUtyp/pub?gid=0&single=true&output=tsv"
	DefaultReferer   = "https://www.minifantasy.net/"
	DefaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/134.0.0.0 Safari/537.36"
)

// Duration reads and writes Go duration strings ("24h", "30s") in YAML.
type Duration struct{ time.Duration }

func (d Duration) MarshalYAML() (interface{}, error) { return d.String(), nil }

func (d *Duration) UnmarshalYAML(n *yaml.Node) error {
	var s string
	if err := n.Decode(&s); err != nil {
		return err
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	d.Duration = v
	return nil
}

type Config struct {
	Env       string      `yaml:"env"`
	FeedURL   string      `yaml:"feed_url"`
	Referer   string      `yaml:"referer"`
	UserAgent string      `yaml:"user_agent"`
	Cache     CacheConfig `yaml:"cache"`
	Store     StoreConfig `yaml:"store"`
	HTTP      HTTPConfig  `yaml:"http"`
	Serve     ServeConfig `yaml:"serve"`
}

type CacheConfig struct {
	Expiry Duration `yaml:"expiry"`
}

type StoreConfig struct {
	Backend string `yaml:"backend"`
	Dir     string `yaml:"dir"`
}

type HTTPConfig struct {
	Timeout  Duration `yaml:"timeout"`
	MaxBytes int64    `yaml:"max_bytes"`
}

type ServeConfig struct {
	Addr         string `yaml:"addr"`
	RefreshEvery string `yaml:"refresh_every"`
}

func Default() Config {
	return Config{
		Env:       EnvProduction,
		FeedURL:   DefaultFeedURL,
		Referer:   DefaultReferer,
		UserAgent: DefaultUserAgent,
		Cache:     CacheConfig{Expiry: Duration{24 * time.Hour}},
		Store:     StoreConfig{Backend: "file", Dir: DefaultDataDir()},
		HTTP:      HTTPConfig{Timeout: Duration{30 * time.Second}, MaxBytes: 16 << 20},
		Serve:     ServeConfig{Addr: "127.0.0.1:7777"},
	}
}

// IsDev reports whether the development profile is active.
func (c Config) IsDev() bool { return c.Env == EnvDevelopment }

// EffectiveExpiry is the staleness threshold after the environment factor.
func (c Config) EffectiveExpiry() time.Duration {
	if c.IsDev() {
		return c.Cache.Expiry.Duration * DevExpiryFactor
	}
	return c.Cache.Expiry.Duration
}

// RequestHeaders are sent with every feed request.
func (c Config) RequestHeaders() map[string]string {
	return map[string]string{
		"accept":          "*/*",
		"accept-language": "en-US,en;q=0.9",
		"Referer":         c.Referer,
		"user-agent":      c.UserAgent,
	}
}

func (c Config) Validate() error {
	switch c.Env {
	case EnvProduction, EnvDevelopment:
	default:
		return fmt.Errorf("env must be %q or %q, got %q", EnvProduction, EnvDevelopment, c.Env)
	}
	if c.FeedURL == "" {
		return fmt.Errorf("feed_url is required")
	}
	if c.Cache.Expiry.Duration <= 0 {
		return fmt.Errorf("cache.expiry must be positive")
	}
	if c.HTTP.Timeout.Duration <= 0 {
		return fmt.Errorf("http.timeout must be positive")
	}
	if c.Store.Dir == "" {
		return fmt.Errorf("store.dir is required")
	}
	return nil
}
