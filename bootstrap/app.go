package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/kbukum/adapterkit/adapter"
	"github.com/kbukum/adapterkit/config"
	"github.com/kbukum/adapterkit/logger"
	"github.com/kbukum/adapterkit/observability"
	"github.com/kbukum/adapterkit/server"
)

// Config is the constraint for application config types. Any struct
// embedding config.ServiceConfig satisfies it through promoted methods.
type Config interface {
	GetServiceConfig() *config.ServiceConfig
	ApplyDefaults()
	Validate() error
}

// App owns the pieces of a running adapter service: the registry the
// adapters live in, the ops server publishing their health, and the
// telemetry providers. The type parameter keeps Cfg fully typed inside
// OnConfigure callbacks.
type App[C Config] struct {
	Name    string
	Version string
	Cfg     C
	Logger  *logger.Logger

	// Registry holds the service's adapters. OnConfigure callbacks
	// populate it; shutdown closes whatever is left in it.
	Registry *adapter.Registry

	// Server is the ops HTTP server, nil unless WithServer enabled it.
	Server *server.Server

	// Metrics carries the otel instruments for adapter construction.
	// Nil unless WithMetrics enabled telemetry; nil is safe to pass on.
	Metrics *observability.Metrics

	tracerCfg      *observability.TracerConfig
	meterCfg       *observability.MeterConfig
	tracerProvider *sdktrace.TracerProvider
	meterProvider  *sdkmetric.MeterProvider

	gracefulTimeout time.Duration
	onConfigure     []func(ctx context.Context, app *App[C]) error
	onStart         []Hook
	onStop          []Hook
}

// NewApp defaults and validates the config, initializes logging, and
// prepares the registry and the configured ops server. Nothing starts
// running until Run or RunTask.
func NewApp[C Config](cfg C, opts ...Option) (*App[C], error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	base := cfg.GetServiceConfig()
	o := resolveOptions(opts)

	app := &App[C]{
		Name:            base.Name,
		Version:         base.Version,
		Cfg:             cfg,
		tracerCfg:       o.tracerCfg,
		meterCfg:        o.meterCfg,
		gracefulTimeout: 15 * time.Second,
	}
	if o.gracefulTimeout != nil {
		app.gracefulTimeout = *o.gracefulTimeout
	}

	if o.logger != nil {
		app.Logger = o.logger
	} else {
		app.Logger = logger.New(&base.Logging, base.Name)
		logger.SetGlobalLogger(app.Logger)
	}

	app.Registry = adapter.NewRegistry(adapter.WithRegistryLogger(app.Logger))

	if o.serverCfg != nil && o.serverCfg.Enabled {
		if err := o.serverCfg.Validate(); err != nil {
			return nil, fmt.Errorf("server config: %w", err)
		}
		app.Server = server.New(*o.serverCfg, app.Registry, app.Logger)
	}

	return app, nil
}

// OnConfigure registers a callback that runs during startup, after
// telemetry is up and before the ops server starts serving. Adapters are
// registered here.
func (a *App[C]) OnConfigure(fn func(ctx context.Context, app *App[C]) error) {
	a.onConfigure = append(a.onConfigure, fn)
}

// ReadyCheck reports an error when the registry is degraded.
func (a *App[C]) ReadyCheck() error {
	h := a.Registry.AllHealth()
	if h.OverallHealth != adapter.HealthLabelHealthy {
		return fmt.Errorf("registry degraded: %d/%d adapters healthy", h.HealthyCount, h.TotalCount)
	}
	return nil
}

// Run starts the service and blocks until a shutdown signal or context
// cancellation, then shuts down within the graceful timeout.
func (a *App[C]) Run(ctx context.Context) error {
	if err := a.startup(ctx); err != nil {
		return err
	}
	a.WaitForSignal(ctx)
	return a.stop()
}

// RunTask runs a finite task with the full lifecycle around it: startup,
// signal-aware execution, graceful shutdown. Meant for batch jobs and CLI
// tools that call adapters without serving forever.
func (a *App[C]) RunTask(ctx context.Context, task func(ctx context.Context) error) error {
	if err := a.startup(ctx); err != nil {
		return err
	}

	taskCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	go func() {
		select {
		case sig := <-sigCh:
			a.Logger.Info("signal received, cancelling task", logger.Fields(
				"signal", sig.String(),
			))
			cancel()
		case <-taskCtx.Done():
		}
	}()

	taskErr := task(taskCtx)
	if stopErr := a.stop(); stopErr != nil {
		return errors.Join(taskErr, stopErr)
	}
	return taskErr
}

// WaitForSignal blocks until SIGINT/SIGTERM or context cancellation.
func (a *App[C]) WaitForSignal(ctx context.Context) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case sig := <-sigCh:
		a.Logger.Info("shutdown signal received", logger.Fields(
			"signal", sig.String(),
		))
	case <-ctx.Done():
		a.Logger.Info("context cancelled, shutting down")
	}
}

// Shutdown tears the service down outside Run's signal loop. Use it when
// managing the lifecycle by hand.
func (a *App[C]) Shutdown() error {
	return a.stop()
}

// startup runs the boot sequence: telemetry, OnConfigure callbacks, ops
// server, OnStart hooks.
func (a *App[C]) startup(ctx context.Context) error {
	start := time.Now()
	a.Logger.Info("starting service", logger.Fields(
		"name", a.Name,
		"version", a.Version,
	))

	if err := a.initTelemetry(ctx); err != nil {
		return err
	}

	for _, fn := range a.onConfigure {
		if err := fn(ctx, a); err != nil {
			return fmt.Errorf("configure: %w", err)
		}
	}

	if err := a.ReadyCheck(); err != nil {
		a.Logger.Warn("ready check reported issues", logger.Fields(
			logger.FieldError, err.Error(),
		))
	}

	if a.Server != nil {
		if err := a.Server.Start(ctx); err != nil {
			return fmt.Errorf("start ops server: %w", err)
		}
	}

	if err := runHooks(ctx, a.onStart); err != nil {
		return fmt.Errorf("start hook: %w", err)
	}

	a.logStartupSummary(time.Since(start))
	return nil
}

// initTelemetry brings up the configured otel providers and the adapter
// instruments they feed.
func (a *App[C]) initTelemetry(ctx context.Context) error {
	if a.tracerCfg != nil {
		tp, err := observability.InitTracer(ctx, *a.tracerCfg)
		if err != nil {
			return fmt.Errorf("init tracer: %w", err)
		}
		a.tracerProvider = tp
	}
	if a.meterCfg != nil {
		mp, err := observability.InitMeter(ctx, *a.meterCfg)
		if err != nil {
			return fmt.Errorf("init meter: %w", err)
		}
		a.meterProvider = mp

		m, err := observability.NewMetrics(observability.Meter(a.Name))
		if err != nil {
			return fmt.Errorf("create adapter instruments: %w", err)
		}
		a.Metrics = m
	}
	return nil
}

// stop tears everything down in reverse start order within the graceful
// timeout: OnStop hooks, ops server, adapters, telemetry providers.
func (a *App[C]) stop() error {
	a.Logger.Info("shutting down", logger.Fields(
		"timeout", a.gracefulTimeout.String(),
	))

	ctx, cancel := context.WithTimeout(context.Background(), a.gracefulTimeout)
	defer cancel()

	var errs []error
	if err := runHooks(ctx, a.onStop); err != nil {
		errs = append(errs, fmt.Errorf("stop hook: %w", err))
	}
	if a.Server != nil {
		if err := a.Server.Stop(ctx); err != nil {
			errs = append(errs, fmt.Errorf("stop ops server: %w", err))
		}
	}
	if err := a.Registry.CloseAll(ctx); err != nil {
		errs = append(errs, fmt.Errorf("close adapters: %w", err))
	}
	if a.meterProvider != nil {
		if err := a.meterProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("shutdown meter provider: %w", err))
		}
	}
	if a.tracerProvider != nil {
		if err := a.tracerProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("shutdown tracer provider: %w", err))
		}
	}

	if err := errors.Join(errs...); err != nil {
		a.Logger.Error("shutdown completed with errors", logger.Fields(
			logger.FieldError, err.Error(),
		))
		return err
	}
	a.Logger.Info("shutdown complete")
	return nil
}

func (a *App[C]) logStartupSummary(took time.Duration) {
	fields := map[string]interface{}{
		"name":               a.Name,
		"version":            a.Version,
		"adapters":           a.Registry.Len(),
		logger.FieldDuration: took.Milliseconds(),
	}
	if a.Server != nil {
		fields["addr"] = a.Server.Addr()
	}
	a.Logger.Info("service started", fields)
}
