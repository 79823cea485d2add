package adapter

import (
	"time"

	"github.com/kbukum/adapterkit/errors"
	"github.com/kbukum/adapterkit/validation"
)

const (
	defaultTimeout                 = 30 * time.Second
	defaultConnectTimeout          = 10 * time.Second
	defaultRetryBaseDelay          = 1 * time.Second
	defaultRetryMaxDelay           = 30 * time.Second
	defaultRetryExponentialBase    = 2.0
	defaultCircuitFailureThreshold = 5
	defaultCircuitRecoveryTimeout  = 60 * time.Second
	defaultCircuitHalfOpenMaxCalls = 3
	defaultRateLimitPerSecond      = 10.0
	defaultRateLimitBurst          = 20
	defaultCacheTTL                = 5 * time.Minute
	defaultMaxRetries              = 3
)

// Config holds the per-adapter protection settings. It is immutable after
// construction; New validates it and rejects the adapter on violation.
//
// The zero value is not usable directly: start from DefaultConfig, or rely
// on ApplyDefaults to fill the zero numeric fields. MaxRetries, CacheEnabled
// and FallbackEnabled keep their zero values so that "no retries" and
// "disabled" remain expressible.
type Config struct {
	// Timeout bounds each individual execution attempt.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout" validate:"gte=0"`

	// ConnectTimeout bounds connection establishment inside Execute for
	// hooks that distinguish it (advisory, enforced by the hook).
	ConnectTimeout time.Duration `yaml:"connect_timeout" mapstructure:"connect_timeout" validate:"gte=0"`

	// MaxRetries is the number of retries after the first attempt.
	// Zero disables retries.
	MaxRetries int `yaml:"max_retries" mapstructure:"max_retries" validate:"gte=0"`

	// RetryBaseDelay is the backoff before the first retry.
	RetryBaseDelay time.Duration `yaml:"retry_base_delay" mapstructure:"retry_base_delay" validate:"gte=0"`

	// RetryMaxDelay caps the exponential backoff growth.
	RetryMaxDelay time.Duration `yaml:"retry_max_delay" mapstructure:"retry_max_delay" validate:"gte=0"`

	// RetryExponentialBase is the backoff growth factor per attempt.
	RetryExponentialBase float64 `yaml:"retry_exponential_base" mapstructure:"retry_exponential_base" validate:"gte=0"`

	// CircuitFailureThreshold is the damped failure count that opens the circuit.
	CircuitFailureThreshold int `yaml:"circuit_failure_threshold" mapstructure:"circuit_failure_threshold" validate:"gte=0"`

	// CircuitRecoveryTimeout is the cooldown before an open circuit probes again.
	CircuitRecoveryTimeout time.Duration `yaml:"circuit_recovery_timeout" mapstructure:"circuit_recovery_timeout" validate:"gte=0"`

	// CircuitHalfOpenMaxCalls is the successful probe count that closes the circuit.
	CircuitHalfOpenMaxCalls int `yaml:"circuit_half_open_max_calls" mapstructure:"circuit_half_open_max_calls" validate:"gte=0"`

	// RateLimitPerSecond is the token bucket refill rate.
	RateLimitPerSecond float64 `yaml:"rate_limit_per_second" mapstructure:"rate_limit_per_second" validate:"gte=0"`

	// RateLimitBurst is the token bucket capacity.
	RateLimitBurst int `yaml:"rate_limit_burst" mapstructure:"rate_limit_burst" validate:"gte=0"`

	// CacheEnabled turns the per-adapter result cache on.
	CacheEnabled bool `yaml:"cache_enabled" mapstructure:"cache_enabled"`

	// CacheTTL is how long a cached response stays valid.
	CacheTTL time.Duration `yaml:"cache_ttl" mapstructure:"cache_ttl" validate:"gte=0"`

	// FallbackEnabled allows serving the hook's fallback response when the
	// primary path is unavailable.
	FallbackEnabled bool `yaml:"fallback_enabled" mapstructure:"fallback_enabled"`
}

// DefaultConfig returns the documented defaults: caching and fallback on,
// three retries with exponential backoff, a 5-failure breaker with a 60s
// cooldown, and a 10/s-20-burst token bucket.
func DefaultConfig() Config {
	return Config{
		Timeout:                 defaultTimeout,
		ConnectTimeout:          defaultConnectTimeout,
		MaxRetries:              defaultMaxRetries,
		RetryBaseDelay:          defaultRetryBaseDelay,
		RetryMaxDelay:           defaultRetryMaxDelay,
		RetryExponentialBase:    defaultRetryExponentialBase,
		CircuitFailureThreshold: defaultCircuitFailureThreshold,
		CircuitRecoveryTimeout:  defaultCircuitRecoveryTimeout,
		CircuitHalfOpenMaxCalls: defaultCircuitHalfOpenMaxCalls,
		RateLimitPerSecond:      defaultRateLimitPerSecond,
		RateLimitBurst:          defaultRateLimitBurst,
		CacheEnabled:            true,
		CacheTTL:                defaultCacheTTL,
		FallbackEnabled:         true,
	}
}

// ApplyDefaults fills exact-zero fields whose zero makes no sense with the
// documented defaults. Fields where zero is meaningful (MaxRetries, the
// enable flags) are left alone, and negative values are left for Validate
// to reject rather than silently repaired.
func (c *Config) ApplyDefaults() {
	if c.Timeout == 0 {
		c.Timeout = defaultTimeout
	}
	if c.ConnectTimeout == 0 {
		c.ConnectTimeout = defaultConnectTimeout
	}
	if c.RetryBaseDelay == 0 {
		c.RetryBaseDelay = defaultRetryBaseDelay
	}
	if c.RetryMaxDelay == 0 {
		c.RetryMaxDelay = defaultRetryMaxDelay
	}
	if c.RetryExponentialBase == 0 {
		c.RetryExponentialBase = defaultRetryExponentialBase
	}
	if c.CircuitFailureThreshold == 0 {
		c.CircuitFailureThreshold = defaultCircuitFailureThreshold
	}
	if c.CircuitRecoveryTimeout == 0 {
		c.CircuitRecoveryTimeout = defaultCircuitRecoveryTimeout
	}
	if c.CircuitHalfOpenMaxCalls == 0 {
		c.CircuitHalfOpenMaxCalls = defaultCircuitHalfOpenMaxCalls
	}
	if c.RateLimitPerSecond == 0 {
		c.RateLimitPerSecond = defaultRateLimitPerSecond
	}
	if c.RateLimitBurst == 0 {
		c.RateLimitBurst = defaultRateLimitBurst
	}
	if c.CacheTTL == 0 {
		c.CacheTTL = defaultCacheTTL
	}
}

// Validate checks the configuration invariants. It returns an AppError with
// code INVALID_CONFIG; this is the only error an adapter raises rather than
// reporting through a Result.
func (c *Config) Validate() error {
	if err := validation.Validate(c); err != nil {
		return err
	}
	if c.RetryMaxDelay < c.RetryBaseDelay {
		return errors.InvalidConfig("retry_max_delay must not be smaller than retry_base_delay").
			WithDetail("retry_base_delay", c.RetryBaseDelay.String()).
			WithDetail("retry_max_delay", c.RetryMaxDelay.String())
	}
	if c.RetryExponentialBase < 1 {
		return errors.InvalidConfig("retry_exponential_base must be at least 1").
			WithDetail("retry_exponential_base", c.RetryExponentialBase)
	}
	return nil
}
