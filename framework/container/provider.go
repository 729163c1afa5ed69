package container

import "fmt"

// ── ServiceProvider interface ─────────────────────────────────────────────────

// ServiceProvider groups the registrations of one part of an application.
//
// Register is called first, for every provider. Boot is called after all
// providers have been registered, making it safe to resolve other keys there.
//
//	type MailProvider struct{ container.BaseProvider }
//
//	func (p *MailProvider) Register(app *container.Container) {
//	    container.RegisterFactory(app, func(c *container.Container) (Mailer, error) {
//	        cfg, err := container.Resolve[*config.Config](c)
//	        if err != nil {
//	            return nil, err
//	        }
//	        return mail.NewSMTP(cfg.Mail), nil
//	    })
//	}
type ServiceProvider interface {
	// Register binds factories and instances into the container.
	// Do not resolve other keys here; use Boot for that.
	Register(app *Container)

	// Boot is called after all providers are registered.
	Boot(app *Container) error

	// Provides lists the keys this provider registers. Only deferred
	// providers need it.
	Provides() []Key

	// IsDeferred reports whether Register should wait until one of the
	// Provides keys is first resolved.
	IsDeferred() bool
}

// ── BaseProvider ──────────────────────────────────────────────────────────────

// BaseProvider is an embeddable struct with no-op Boot, Provides and IsDeferred.
//
//	type MyProvider struct{ container.BaseProvider }
//	func (p *MyProvider) Register(app *container.Container) { ... }
type BaseProvider struct{}

func (p *BaseProvider) Boot(_ *Container) error { return nil }
func (p *BaseProvider) Provides() []Key         { return nil }
func (p *BaseProvider) IsDeferred() bool        { return false }

// ── ProviderRegistry ──────────────────────────────────────────────────────────

// ProviderRegistry manages registration and booting of ServiceProviders,
// including deferred ones.
type ProviderRegistry struct {
	app        *Container
	eager      []ServiceProvider
	deferred   map[Key]ServiceProvider // key → provider not loaded yet
	booted     bool
	registered map[ServiceProvider]bool
	failed     map[ServiceProvider]error // deferred providers whose Boot failed
}

// NewProviderRegistry creates a registry bound to app.
func NewProviderRegistry(app *Container) *ProviderRegistry {
	return &ProviderRegistry{
		app:        app,
		deferred:   make(map[Key]ServiceProvider),
		registered: make(map[ServiceProvider]bool),
		failed:     make(map[ServiceProvider]error),
	}
}

// Register adds a provider. Eager providers are registered immediately, and
// booted immediately when the registry has already booted. Deferred providers
// are registered the first time one of their keys is resolved. Registering
// the same provider twice is a no-op.
func (r *ProviderRegistry) Register(provider ServiceProvider) error {
	if r.registered[provider] {
		return nil
	}
	r.registered[provider] = true

	if provider.IsDeferred() {
		for _, key := range provider.Provides() {
			r.deferred[key] = provider
			r.app.installLoader(key, r.intercept(key, provider))
		}
		return nil
	}

	provider.Register(r.app)
	r.eager = append(r.eager, provider)

	if r.booted {
		return boot(provider, r.app)
	}
	return nil
}

// intercept returns a factory that loads a deferred provider, then builds key
// from whatever the provider registered for it.
func (r *ProviderRegistry) intercept(key Key, provider ServiceProvider) Factory {
	return func(c *Container) (any, error) {
		if err := r.load(provider); err != nil {
			return nil, err
		}
		if instance, ok := c.instances[key]; ok {
			return instance, nil
		}
		factory, ok := c.factories[key]
		if !ok || factory == nil {
			return nil, newResolveError(key, c.stack[:len(c.stack)-1], ErrUnregisteredType)
		}
		return factory(c)
	}
}

// load runs Register (and Boot, once booted) of a deferred provider. The
// provider's loaders are removed first so that only its real registrations
// remain; keys registered by someone else since are left alone. When Boot
// fails the loaders are put back and every later load returns the same error.
func (r *ProviderRegistry) load(provider ServiceProvider) error {
	if err := r.failed[provider]; err != nil {
		return err
	}

	pending := false
	var released []Key
	for key, p := range r.deferred {
		if p != provider {
			continue
		}
		pending = true
		delete(r.deferred, key)
		if r.app.releaseLoader(key) {
			released = append(released, key)
		}
	}
	if !pending {
		return nil
	}

	provider.Register(r.app)
	if !r.booted {
		return nil
	}
	if err := boot(provider, r.app); err != nil {
		r.failed[provider] = err
		for _, key := range released {
			r.deferred[key] = provider
			r.app.restoreLoader(key, r.intercept(key, provider))
		}
		return err
	}
	return nil
}

// Boot calls Boot on all eager providers in registration order. It stops at
// the first error. Calling Boot again is a no-op.
func (r *ProviderRegistry) Boot() error {
	if r.booted {
		return nil
	}
	r.booted = true
	for _, provider := range r.eager {
		if err := boot(provider, r.app); err != nil {
			return err
		}
	}
	return nil
}

func boot(provider ServiceProvider, app *Container) error {
	if err := provider.Boot(app); err != nil {
		return fmt.Errorf("boot %T: %w", provider, err)
	}
	return nil
}

// Booted returns true if Boot has been called.
func (r *ProviderRegistry) Booted() bool { return r.booted }

// Providers returns all registered eager providers.
func (r *ProviderRegistry) Providers() []ServiceProvider { return r.eager }
