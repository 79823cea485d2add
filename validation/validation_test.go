package validation

import (
	"strings"
	"testing"

	"github.com/kbukum/adapterkit/errors"
)

type sampleConfig struct {
	MaxRetries int     `mapstructure:"max_retries" validate:"gte=0"`
	Rate       float64 `mapstructure:"rate" validate:"gte=0"`
	Mode       string  `mapstructure:"mode" validate:"omitempty,oneof=strict lenient"`
}

func TestValidate_Valid(t *testing.T) {
	cfg := sampleConfig{MaxRetries: 3, Rate: 10, Mode: "strict"}
	if err := Validate(cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_NegativeField(t *testing.T) {
	cfg := sampleConfig{MaxRetries: -1, Rate: 1}
	err := Validate(cfg)
	if err == nil {
		t.Fatal("expected validation error")
	}

	appErr, ok := errors.AsAppError(err)
	if !ok {
		t.Fatalf("expected AppError, got %T", err)
	}
	if appErr.Code != errors.ErrCodeInvalidConfig {
		t.Errorf("expected INVALID_CONFIG, got %s", appErr.Code)
	}
	if !strings.Contains(appErr.Message, "max_retries") {
		t.Errorf("expected mapstructure tag name in message, got %q", appErr.Message)
	}
}

func TestValidate_MultipleViolations(t *testing.T) {
	cfg := sampleConfig{MaxRetries: -1, Rate: -2, Mode: "chaotic"}
	err := Validate(cfg)
	if err == nil {
		t.Fatal("expected validation error")
	}

	appErr, _ := errors.AsAppError(err)
	fields, ok := appErr.Details["fields"].([]FieldError)
	if !ok {
		t.Fatalf("expected []FieldError details, got %T", appErr.Details["fields"])
	}
	if len(fields) != 3 {
		t.Errorf("expected 3 field errors, got %d: %v", len(fields), fields)
	}
}

func TestValidate_OneOfMessage(t *testing.T) {
	cfg := sampleConfig{Mode: "chaotic"}
	err := Validate(cfg)
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !strings.Contains(err.Error(), "must be one of") {
		t.Errorf("expected oneof message, got %q", err.Error())
	}
}

func TestToSnakeCase(t *testing.T) {
	tests := []struct{ in, want string }{
		{"MaxRetries", "max_retries"},
		{"Rate", "rate"},
		{"CacheTTL", "cache_t_t_l"},
	}
	for _, tt := range tests {
		if got := toSnakeCase(tt.in); got != tt.want {
			t.Errorf("toSnakeCase(%s) = %s, want %s", tt.in, got, tt.want)
		}
	}
}
