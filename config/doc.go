// Package config loads service configuration from YAML files, .env files and
// environment variables, each layer overriding the one before.
//
// Services declare a struct embedding ServiceConfig, add their own sections,
// and hand it to Load:
//
//	type GatewayConfig struct {
//	    config.ServiceConfig `yaml:",inline" mapstructure:",squash"`
//	    Adapters config.AdaptersConfig `yaml:"adapters" mapstructure:"adapters"`
//	}
//
//	var cfg GatewayConfig
//	if err := config.Load("gateway", &cfg); err != nil {
//	    return err
//	}
//	cfg.ApplyDefaults()
//	if err := cfg.Validate(); err != nil {
//	    return err
//	}
//
// The adapters section resolves per-adapter protection settings through
// AdaptersConfig.Profile, layering a named profile over the shared defaults.
package config
