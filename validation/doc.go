// Package validation provides struct tag validation for framework
// configuration, built on the go-playground validator.
//
//	type Config struct {
//	    MaxRetries int `mapstructure:"max_retries" validate:"gte=0"`
//	}
//	err := validation.Validate(cfg)
//
// Violations are reported as a single *errors.AppError with code
// INVALID_CONFIG and per-field details.
package validation
