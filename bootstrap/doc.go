// Package bootstrap wires an adapter service together. NewApp defaults and
// validates the config and sets up logging; Run brings up the optional
// OpenTelemetry providers and ops server, runs the OnConfigure callbacks
// that register adapters, and blocks until a shutdown signal, then tears
// everything down in reverse order within a graceful timeout.
//
//	type gatewayConfig struct {
//	    config.ServiceConfig `yaml:",inline" mapstructure:",squash"`
//	    Adapters config.AdaptersConfig `yaml:"adapters" mapstructure:"adapters"`
//	    Server   server.Config         `yaml:"server" mapstructure:"server"`
//	}
//
//	app, err := bootstrap.NewApp(&cfg, bootstrap.WithServer(cfg.Server))
//	if err != nil {
//	    return err
//	}
//	app.OnConfigure(func(ctx context.Context, a *bootstrap.App[*gatewayConfig]) error {
//	    _, err := a.Registry.GetOrCreate("geocoder", func() (adapter.Managed, error) {
//	        return adapter.New[GeoQuery, GeoFix]("geocoder", geoHooks{},
//	            a.Cfg.Adapters.Profile("geocoder"),
//	            adapter.WithLogger(a.Logger), adapter.WithMetrics(a.Metrics))
//	    })
//	    return err
//	})
//	return app.Run(context.Background())
//
// RunTask runs the same lifecycle around a finite task instead of blocking
// on signals, for batch jobs and CLI tools that call adapters.
package bootstrap
