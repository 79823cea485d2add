package config

import (
	"fmt"
	"sort"
	"time"

	"github.com/kbukum/adapterkit/adapter"
)

// AdapterProfile is one adapter section of a config file. Zero-valued fields
// inherit from the layer below, so a profile only states what it changes.
// MaxRetries and the enable flags are pointers because their zero values
// ("no retries", "off") are themselves meaningful settings.
type AdapterProfile struct {
	Timeout                 time.Duration `yaml:"timeout" mapstructure:"timeout"`
	ConnectTimeout          time.Duration `yaml:"connect_timeout" mapstructure:"connect_timeout"`
	MaxRetries              *int          `yaml:"max_retries" mapstructure:"max_retries"`
	RetryBaseDelay          time.Duration `yaml:"retry_base_delay" mapstructure:"retry_base_delay"`
	RetryMaxDelay           time.Duration `yaml:"retry_max_delay" mapstructure:"retry_max_delay"`
	RetryExponentialBase    float64       `yaml:"retry_exponential_base" mapstructure:"retry_exponential_base"`
	CircuitFailureThreshold int           `yaml:"circuit_failure_threshold" mapstructure:"circuit_failure_threshold"`
	CircuitRecoveryTimeout  time.Duration `yaml:"circuit_recovery_timeout" mapstructure:"circuit_recovery_timeout"`
	CircuitHalfOpenMaxCalls int           `yaml:"circuit_half_open_max_calls" mapstructure:"circuit_half_open_max_calls"`
	RateLimitPerSecond      float64       `yaml:"rate_limit_per_second" mapstructure:"rate_limit_per_second"`
	RateLimitBurst          int           `yaml:"rate_limit_burst" mapstructure:"rate_limit_burst"`
	CacheEnabled            *bool         `yaml:"cache_enabled" mapstructure:"cache_enabled"`
	CacheTTL                time.Duration `yaml:"cache_ttl" mapstructure:"cache_ttl"`
	FallbackEnabled         *bool         `yaml:"fallback_enabled" mapstructure:"fallback_enabled"`
}

// apply overlays the profile's set fields onto base and returns the result.
func (p AdapterProfile) apply(base adapter.Config) adapter.Config {
	if p.Timeout != 0 {
		base.Timeout = p.Timeout
	}
	if p.ConnectTimeout != 0 {
		base.ConnectTimeout = p.ConnectTimeout
	}
	if p.MaxRetries != nil {
		base.MaxRetries = *p.MaxRetries
	}
	if p.RetryBaseDelay != 0 {
		base.RetryBaseDelay = p.RetryBaseDelay
	}
	if p.RetryMaxDelay != 0 {
		base.RetryMaxDelay = p.RetryMaxDelay
	}
	if p.RetryExponentialBase != 0 {
		base.RetryExponentialBase = p.RetryExponentialBase
	}
	if p.CircuitFailureThreshold != 0 {
		base.CircuitFailureThreshold = p.CircuitFailureThreshold
	}
	if p.CircuitRecoveryTimeout != 0 {
		base.CircuitRecoveryTimeout = p.CircuitRecoveryTimeout
	}
	if p.CircuitHalfOpenMaxCalls != 0 {
		base.CircuitHalfOpenMaxCalls = p.CircuitHalfOpenMaxCalls
	}
	if p.RateLimitPerSecond != 0 {
		base.RateLimitPerSecond = p.RateLimitPerSecond
	}
	if p.RateLimitBurst != 0 {
		base.RateLimitBurst = p.RateLimitBurst
	}
	if p.CacheEnabled != nil {
		base.CacheEnabled = *p.CacheEnabled
	}
	if p.CacheTTL != 0 {
		base.CacheTTL = p.CacheTTL
	}
	if p.FallbackEnabled != nil {
		base.FallbackEnabled = *p.FallbackEnabled
	}
	return base
}

// AdaptersConfig is the adapters section of a service config file: a shared
// defaults profile plus named per-adapter profiles layered over it.
//
//	adapters:
//	  defaults:
//	    timeout: 10s
//	    max_retries: 2
//	  profiles:
//	    payment-api:
//	      timeout: 3s
//	      cache_enabled: false
type AdaptersConfig struct {
	Defaults AdapterProfile            `yaml:"defaults" mapstructure:"defaults"`
	Profiles map[string]AdapterProfile `yaml:"profiles" mapstructure:"profiles"`
}

// Profile resolves the effective config for one adapter: the library
// defaults, overlaid by the defaults section, overlaid by the named profile
// when one exists.
func (c AdaptersConfig) Profile(name string) adapter.Config {
	cfg := c.Defaults.apply(adapter.DefaultConfig())
	if p, ok := c.Profiles[name]; ok {
		cfg = p.apply(cfg)
	}
	return cfg
}

// Names returns the named profiles in sorted order.
func (c AdaptersConfig) Names() []string {
	names := make([]string, 0, len(c.Profiles))
	for name := range c.Profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Validate resolves every profile, including the bare defaults, and runs the
// adapter config validation on each.
func (c AdaptersConfig) Validate() error {
	defaults := c.Profile("")
	if err := defaults.Validate(); err != nil {
		return fmt.Errorf("adapters.defaults: %w", err)
	}
	for _, name := range c.Names() {
		resolved := c.Profile(name)
		if err := resolved.Validate(); err != nil {
			return fmt.Errorf("adapters.profiles.%s: %w", name, err)
		}
	}
	return nil
}
