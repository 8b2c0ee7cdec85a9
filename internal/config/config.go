// Package config handles loading and validating the application
// configuration from YAML files with environment variable substitution.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/mkmtools/mkmprice/internal/mkm"
	domain "github.com/mkmtools/mkmprice/pkg/types"
)

// Config is the top-level application configuration.
type Config struct {
	API     APIConfig     `yaml:"api"`
	Pricing PricingConfig `yaml:"pricing"`
	Logging LoggingConfig `yaml:"logging"`
}

// APIConfig defines Cardmarket API settings. The four tokens come from a
// dedicated-app registration on the marketplace.
type APIConfig struct {
	BaseURL           string          `yaml:"base_url"`
	AppToken          string          `yaml:"app_token"`
	AppSecret         string          `yaml:"app_secret"`
	AccessToken       string          `yaml:"access_token"`
	AccessTokenSecret string          `yaml:"access_token_secret"`
	RateLimit         RateLimitConfig `yaml:"rate_limit"`
}

// Credentials returns the OAuth credentials for the request signer.
func (a *APIConfig) Credentials() mkm.Credentials {
	return mkm.Credentials{
		AppToken:          a.AppToken,
		AppSecret:         a.AppSecret,
		AccessToken:       a.AccessToken,
		AccessTokenSecret: a.AccessTokenSecret,
	}
}

// RateLimitConfig defines client-side request pacing.
type RateLimitConfig struct {
	PerSecond float64 `yaml:"per_second"`
	Burst     int     `yaml:"burst"`
}

// PricingConfig defines the pricing policy.
type PricingConfig struct {
	// PriceLimitByRarity maps rarity (lowercased) to the minimum price
	// increment. The "default" entry is required and is used for
	// unrecognized rarities.
	PriceLimitByRarity map[string]float64 `yaml:"price_limit_by_rarity"`

	// Language narrows foil competition to one marketplace language.
	Language string `yaml:"language"`

	// GameID scopes stock searches; 1 is Magic.
	GameID int `yaml:"game_id"`
}

// LoggingConfig defines logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text, json
}

const defaultRarityKey = "default"

// Load reads and parses a YAML config file, performing environment variable
// substitution and validation.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // config path from trusted CLI flag
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	// Expand environment variables in the YAML content.
	expanded := os.ExpandEnv(string(data))

	cfg := &Config{}
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("parsing config YAML: %w", err)
	}

	applyDefaults(cfg)

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// RoundingPolicy builds the rarity rounding policy from the configured
// steps. Load has already validated the default entry.
func (c *Config) RoundingPolicy() (*domain.RoundingPolicy, error) {
	overrides := make(map[string]float64, len(c.Pricing.PriceLimitByRarity))
	for rarity, step := range c.Pricing.PriceLimitByRarity {
		if rarity == defaultRarityKey {
			continue
		}
		overrides[rarity] = step
	}
	return domain.NewRoundingPolicy(c.Pricing.PriceLimitByRarity[defaultRarityKey], overrides)
}

// LanguageID resolves the configured search language.
func (c *Config) LanguageID() (int, error) {
	return mkm.LanguageID(c.Pricing.Language)
}

func applyDefaults(cfg *Config) {
	applyAPIDefaults(&cfg.API)
	applyPricingDefaults(&cfg.Pricing)
	applyLoggingDefaults(&cfg.Logging)
}

func applyAPIDefaults(a *APIConfig) {
	if a.RateLimit.PerSecond == 0 {
		a.RateLimit.PerSecond = 2.0
	}
	if a.RateLimit.Burst == 0 {
		a.RateLimit.Burst = 4
	}
}

func applyPricingDefaults(p *PricingConfig) {
	if p.Language == "" {
		p.Language = "English"
	}
	if p.GameID == 0 {
		p.GameID = 1
	}
}

func applyLoggingDefaults(l *LoggingConfig) {
	if l.Level == "" {
		l.Level = "info"
	}
	if l.Format == "" {
		l.Format = "text"
	}
}

func validate(cfg *Config) error {
	var errs []error

	if cfg.API.AppToken == "" {
		errs = append(errs, fmt.Errorf("api.app_token is required"))
	}
	if cfg.API.AppSecret == "" {
		errs = append(errs, fmt.Errorf("api.app_secret is required"))
	}
	if cfg.API.AccessToken == "" {
		errs = append(errs, fmt.Errorf("api.access_token is required"))
	}
	if cfg.API.AccessTokenSecret == "" {
		errs = append(errs, fmt.Errorf("api.access_token_secret is required"))
	}

	def, ok := cfg.Pricing.PriceLimitByRarity[defaultRarityKey]
	if !ok {
		errs = append(errs, fmt.Errorf("pricing.price_limit_by_rarity.default is required"))
	} else if def <= 0 {
		errs = append(errs, fmt.Errorf("pricing.price_limit_by_rarity.default must be positive"))
	}
	for rarity, step := range cfg.Pricing.PriceLimitByRarity {
		if rarity != defaultRarityKey && step <= 0 {
			errs = append(errs, fmt.Errorf("pricing.price_limit_by_rarity.%s must be positive", rarity))
		}
	}

	if _, err := mkm.LanguageID(cfg.Pricing.Language); err != nil {
		errs = append(errs, fmt.Errorf("pricing.language: %w", err))
	}

	return errors.Join(errs...)
}
