package providers

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"

	"github.com/moss-engine/moss/framework/config"
	"github.com/moss-engine/moss/framework/container"
	"github.com/moss-engine/moss/framework/inspect"
	"github.com/moss-engine/moss/framework/logging"
	"github.com/moss-engine/moss/framework/routing"
)

// ── ConfigServiceProvider ─────────────────────────────────────────────────────

// ConfigServiceProvider binds the application configuration.
//
// Bound keys:
//   - *config.Config
//
// When Config is nil the configuration is loaded from Path and EnvFiles the
// first time it is resolved.
type ConfigServiceProvider struct {
	container.BaseProvider
	Config   *config.Config
	Path     string
	EnvFiles []string
}

func (p *ConfigServiceProvider) Register(app *container.Container) {
	if p.Config != nil {
		container.RegisterInstance(app, p.Config)
		return
	}
	path, envFiles := p.Path, p.EnvFiles
	container.RegisterFactory(app, func(*container.Container) (*config.Config, error) {
		return config.Load(path, envFiles...)
	})
}

// ── LoggingServiceProvider ────────────────────────────────────────────────────

// LoggingServiceProvider binds the application logger.
//
// Bound keys:
//   - zerolog.Logger  (component = app.name)
//
// Writer defaults to stderr.
type LoggingServiceProvider struct {
	container.BaseProvider
	Writer io.Writer
}

func (p *LoggingServiceProvider) Register(app *container.Container) {
	w := p.Writer
	if w == nil {
		w = os.Stderr
	}
	container.RegisterFactory(app, func(c *container.Container) (zerolog.Logger, error) {
		cfg, err := container.Resolve[*config.Config](c)
		if err != nil {
			return zerolog.Nop(), err
		}
		return logging.New(w, cfg, cfg.App.Name), nil
	})
}

func (p *LoggingServiceProvider) Boot(app *container.Container) error {
	log, err := container.Resolve[zerolog.Logger](app)
	if err != nil {
		return fmt.Errorf("resolve logger: %w", err)
	}
	log.Debug().Msg("application booted")
	return nil
}

// ── InspectServiceProvider ────────────────────────────────────────────────────

// InspectServiceProvider records the container's resolutions from the moment
// it is registered and binds the HTTP handler serving them.
//
// Bound keys:
//   - *inspect.Recorder
//   - *inspect.Handler
type InspectServiceProvider struct {
	container.BaseProvider
}

func (p *InspectServiceProvider) Register(app *container.Container) {
	container.RegisterInstance(app, inspect.NewRecorder(app))
	container.RegisterFactory(app, func(c *container.Container) (*inspect.Handler, error) {
		rec, err := container.Resolve[*inspect.Recorder](c)
		if err != nil {
			return nil, err
		}
		return inspect.NewHandler(c, rec), nil
	})
}

// ── RoutingServiceProvider ────────────────────────────────────────────────────

// RoutingServiceProvider registers the HTTP router with the inspection routes
// mounted.
//
// Bound keys:
//   - *routing.Router
type RoutingServiceProvider struct {
	container.BaseProvider
}

func (p *RoutingServiceProvider) Register(app *container.Container) {
	container.RegisterFactory(app, func(c *container.Container) (*routing.Router, error) {
		log, err := container.Resolve[zerolog.Logger](c)
		if err != nil {
			return nil, err
		}
		handler, err := container.Resolve[*inspect.Handler](c)
		if err != nil {
			return nil, err
		}
		r := routing.New(log)
		handler.Routes(r)
		return r, nil
	})
}
