// Package container provides a type-keyed service container and a Service
// Provider system for Go.
//
// # Overview
//
// The container maps each abstract type, identified by a Key, to a shared
// instance. Instances are either registered up front or built on demand by a
// factory, which may itself resolve other keys from the same container.
// Every key is built at most once; the result is cached for the lifetime of
// the container. There is no auto-wiring: all wiring is explicit.
//
// # Container Lifecycle
//
//  1. Create: c := container.New()
//  2. Register providers: registry.Register(&MyProvider{})
//  3. Boot: registry.Boot()        (everything is resolvable after this)
//  4. Use the resolved services
//
// # Registering
//
//	// Factory: built on first Resolve, then cached
//	container.RegisterFactory(c, func(c *container.Container) (Cache, error) {
//	    cfg, err := container.Resolve[*config.Config](c)
//	    if err != nil {
//	        return nil, err
//	    }
//	    return cache.NewRedis(cfg), nil
//	})
//
//	// Pre-built value; wins over a factory for the same key
//	container.RegisterInstance[*config.Config](c, cfg)
//
// Untyped equivalents are c.Singleton(key, factory) and c.Instance(key, v),
// with keys built by container.KeyOf[T]().
//
// # Resolving
//
//	cache, err := container.Resolve[Cache](c)
//	if errors.Is(err, container.ErrCyclicDependency) {
//	    // Cache transitively depends on itself
//	}
//
// Resolution fails with ErrUnregisteredType when nothing is registered for a
// key, ErrCyclicDependency when a key is requested while it is still being
// built, and ErrFactoryFailed when a factory returns its own error. Failures
// are returned as *ResolveError carrying the resolution chain; they never
// leave the container in a half-resolved state.
//
// Registering over a key that has already been resolved is ignored.
//
// # Service Providers
//
//	type AppServiceProvider struct{ container.BaseProvider }
//
//	func (p *AppServiceProvider) Register(app *container.Container) {
//	    container.RegisterFactory(app, newMailer)
//	}
//
//	func (p *AppServiceProvider) Boot(app *container.Container) error {
//	    _, err := container.Resolve[Mailer](app)
//	    return err
//	}
//
//	registry := container.NewProviderRegistry(c)
//	registry.Register(&AppServiceProvider{})
//	err := registry.Boot()
//
// # Deferred Providers
//
//	type HeavyProvider struct{ container.BaseProvider }
//
//	func (p *HeavyProvider) IsDeferred() bool { return true }
//	func (p *HeavyProvider) Provides() []container.Key {
//	    return []container.Key{container.KeyOf[*Heavy]()}
//	}
//	func (p *HeavyProvider) Register(app *container.Container) {
//	    container.RegisterFactory(app, newHeavy) // only called on first Resolve[*Heavy]
//	}
package container
