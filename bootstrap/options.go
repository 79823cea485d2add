package bootstrap

import (
	"time"

	"github.com/kbukum/adapterkit/logger"
	"github.com/kbukum/adapterkit/observability"
	"github.com/kbukum/adapterkit/server"
)

// Option configures the App during creation. Options are non-generic so
// one set works with any config type.
type Option func(*appOptions)

type appOptions struct {
	logger          *logger.Logger
	serverCfg       *server.Config
	tracerCfg       *observability.TracerConfig
	meterCfg        *observability.MeterConfig
	gracefulTimeout *time.Duration
}

func resolveOptions(opts []Option) *appOptions {
	o := &appOptions{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithLogger sets a custom logger. Without it the logger is built from the
// config's logging section and installed as the global logger.
func WithLogger(l *logger.Logger) Option {
	return func(o *appOptions) { o.logger = l }
}

// WithServer enables the ops HTTP server. The config's Enabled flag still
// applies, so the section can be passed through unconditionally and toggled
// from YAML.
func WithServer(cfg server.Config) Option {
	return func(o *appOptions) { o.serverCfg = &cfg }
}

// WithTracing initializes OpenTelemetry tracing during startup.
func WithTracing(cfg observability.TracerConfig) Option {
	return func(o *appOptions) { o.tracerCfg = &cfg }
}

// WithMetrics initializes OpenTelemetry metrics during startup and exposes
// the adapter instruments through App.Metrics.
func WithMetrics(cfg observability.MeterConfig) Option {
	return func(o *appOptions) { o.meterCfg = &cfg }
}

// WithGracefulTimeout caps how long shutdown may take.
func WithGracefulTimeout(d time.Duration) Option {
	return func(o *appOptions) { o.gracefulTimeout = &d }
}
