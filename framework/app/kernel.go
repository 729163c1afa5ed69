package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/moss-engine/moss/framework/config"
	"github.com/moss-engine/moss/framework/container"
	"github.com/moss-engine/moss/framework/logging"
	"github.com/moss-engine/moss/framework/providers"
	"github.com/moss-engine/moss/framework/routing"
)

const version = "0.1.0"

const shutdownTimeout = 5 * time.Second

// Options configures New.
type Options struct {
	// ConfigPath is an optional YAML or JSON file.
	ConfigPath string
	// EnvFiles are loaded into the environment before the config; default ".env".
	EnvFiles []string
	// LogWriter receives every log line; default stderr.
	LogWriter io.Writer
}

// Application is the top-level application container.
// It embeds the Container and its ProviderRegistry so callers can register
// keys and providers on it directly.
type Application struct {
	*container.Container
	Providers *container.ProviderRegistry
}

// New loads the configuration and registers the framework providers.
//
//	application, err := app.New(app.Options{ConfigPath: "config.yaml"})
//	if err != nil {
//	    return err
//	}
//	application.Register(&MyServiceProvider{})
//	return application.Boot()
func New(opts Options) (*Application, error) {
	cfg, err := config.Load(opts.ConfigPath, opts.EnvFiles...)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	w := opts.LogWriter
	if w == nil {
		w = os.Stderr
	}

	c := container.New(container.WithLogger(logging.New(w, cfg, "container")))
	registry := container.NewProviderRegistry(c)

	app := &Application{
		Container: c,
		Providers: registry,
	}

	// Inspect goes before anything resolves so the recorder sees every key.
	for _, p := range []container.ServiceProvider{
		&providers.InspectServiceProvider{},
		&providers.ConfigServiceProvider{Config: cfg},
		&providers.LoggingServiceProvider{Writer: w},
		&providers.RoutingServiceProvider{},
	} {
		if err := registry.Register(p); err != nil {
			return nil, err
		}
	}
	return app, nil
}

// Register adds a ServiceProvider to the application.
func (a *Application) Register(provider container.ServiceProvider) error {
	return a.Providers.Register(provider)
}

// Boot runs the Boot() phase on all providers.
func (a *Application) Boot() error {
	return a.Providers.Boot()
}

// Config returns the configuration New loaded.
func (a *Application) Config() *config.Config {
	return container.MustResolve[*config.Config](a.Container)
}

// Logger resolves the application logger.
func (a *Application) Logger() (zerolog.Logger, error) {
	return container.Resolve[zerolog.Logger](a.Container)
}

// Router resolves the HTTP router.
func (a *Application) Router() (*routing.Router, error) {
	return container.Resolve[*routing.Router](a.Container)
}

// Serve boots the application if needed and serves the router on
// inspect.addr until ctx is cancelled.
func (a *Application) Serve(ctx context.Context) error {
	if !a.Providers.Booted() {
		if err := a.Boot(); err != nil {
			return err
		}
	}
	log, err := a.Logger()
	if err != nil {
		return err
	}
	router, err := a.Router()
	if err != nil {
		return err
	}

	cfg := a.Config()
	srv := &http.Server{
		Addr:              cfg.Inspect.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	log.Info().Str("addr", cfg.Inspect.Addr).Str("env", cfg.App.Env).Msg("inspector listening")

	select {
	case err := <-errCh:
		return fmt.Errorf("serve %s: %w", cfg.Inspect.Addr, err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve %s: %w", cfg.Inspect.Addr, err)
	}
	log.Info().Msg("inspector stopped")
	return nil
}

// Environment returns the app.env value.
func (a *Application) Environment() string { return a.Config().App.Env }
func (a *Application) IsLocal() bool       { return a.Environment() == "local" }
func (a *Application) IsProduction() bool  { return a.Environment() == "production" }
func (a *Application) IsTesting() bool     { return a.Environment() == "testing" }
func (a *Application) IsDebug() bool       { return a.Config().App.Debug }
func (a *Application) Version() string     { return version }
