// Package bserveapp provides batteries-included wiring for a bserve server:
// env-struct configuration, a zap logger, a sqlite connection pool, an
// OpenTelemetry tracer provider and fx lifecycle management.
package bserveapp

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/advdv/bserve"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// App wraps an fx.App for lifecycle management.
type App struct {
	app *fx.App
}

// AppConfig holds configuration for the app.
type AppConfig struct {
	FxOptions []fx.Option
}

// Option configures the App.
type Option func(*AppConfig)

// WithFx adds fx options for dependency injection.
func WithFx(fxOpts ...fx.Option) Option {
	return func(c *AppConfig) {
		c.FxOptions = append(c.FxOptions, fxOpts...)
	}
}

// NewApp creates a batteries-included app. The configure function derives the
// shared handler configuration V from the parsed environment E; the routing
// function registers routes on the constructed server.
//
// Example:
//
//	type Env struct{ bserveapp.BaseEnvironment }
//	type Config struct{ Version string }
//
//	bserveapp.NewApp[Env](
//	    func(e Env) Config { return Config{Version: "1"} },
//	    func(s *bserve.Server[Config]) {
//	        s.RegisterFunc(bserve.Get, "/users", listUsers)
//	    },
//	).Run()
func NewApp[E Environment, V any](
	configure func(E) V,
	routing func(*bserve.Server[V]),
	opts ...Option,
) *App {
	return &App{
		app: fx.New(FxOptions[E, V](configure, routing, opts...)...),
	}
}

// FxOptions returns the full dependency graph [NewApp] is built from, so test
// harnesses can construct the identical graph with fxtest.
func FxOptions[E Environment, V any](
	configure func(E) V,
	routing func(*bserve.Server[V]),
	opts ...Option,
) []fx.Option {
	var cfg AppConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	baseOpts := make([]fx.Option, 0, 9+len(cfg.FxOptions))
	baseOpts = append(baseOpts, []fx.Option{
		fx.NopLogger,
		fx.Provide(ParseEnv[E]()),
		fx.Provide(func(e E) Environment { return e }),
		fx.Provide(func(e E) (*zap.Logger, error) { return NewLogger(e) }),
		fx.Provide(NewTracerProvider),
		fx.Provide(NewPool),
		fx.Provide(newServer[E, V](configure)),
		fx.Invoke(routing),
		fx.Invoke(startServerHook[V]),
	}...)

	return append(baseOpts, cfg.FxOptions...)
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() {
	a.app.Run()
}

// Start starts the application with the given context and blocks until it is
// canceled, then stops.
func (a *App) Start(ctx context.Context) error {
	if err := a.app.Start(ctx); err != nil {
		return err
	}

	<-ctx.Done()

	stopCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), a.app.StopTimeout())
	defer cancel()

	return a.app.Stop(stopCtx)
}

func newServer[E Environment, V any](configure func(E) V) func(
	e E, pool *sql.DB, logs *zap.Logger, tp trace.TracerProvider,
) *bserve.Server[V] {
	return func(e E, pool *sql.DB, logs *zap.Logger, tp trace.TracerProvider) *bserve.Server[V] {
		srv := bserve.New(configure(e), pool,
			bserve.WithLogger[V](logs),
			bserve.WithTracerProvider[V](tp),
			bserve.WithReadTimeout[V](e.readTimeout()),
			bserve.WithMaxConns[V](e.maxConns()),
		)
		srv.SetCORS(e.corsOrigin(), e.corsHeaders())

		return srv
	}
}

// startServerHook runs the accept loop for the app's lifetime.
func startServerHook[V any](
	lc fx.Lifecycle, srv *bserve.Server[V], env Environment, logs *zap.Logger,
) {
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			addr := fmt.Sprintf(":%d", env.port())
			logs.Info("starting server", zap.String("addr", addr))

			go func() {
				if err := srv.ListenAndServe(context.Background(), addr); err != nil {
					logs.Error("server error", zap.Error(err))
				}
			}()

			return nil
		},
		OnStop: func(ctx context.Context) error {
			logs.Info("stopping server")
			return srv.Shutdown(ctx)
		},
	})
}
