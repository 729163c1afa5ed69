package container

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ── Registration types ────────────────────────────────────────────────────────

// Factory builds the instance for a key. It receives the container so it can
// resolve its own dependencies; resolution errors should be returned as they
// are or wrapped with %w.
type Factory func(c *Container) (any, error)

// Option configures a Container.
type Option func(*Container)

// WithLogger sets the logger used to trace registrations and constructions.
func WithLogger(log zerolog.Logger) Option {
	return func(c *Container) {
		c.log = log
	}
}

// ── Container ─────────────────────────────────────────────────────────────────

// Container is a type-keyed registry of shared instances.
//
// Every key maps to at most one factory and at most one instance. Resolving a
// key returns its instance, building it with the factory on first use. Once a
// key has been resolved its instance is permanent.
//
// A Container is not safe for concurrent use.
type Container struct {
	id  string
	log zerolog.Logger

	// key → factory
	factories map[Key]Factory

	// key → shared instance
	instances map[Key]any

	// keys handed out at least once
	resolved map[Key]bool

	// keys whose factory is still a deferred provider's loader
	loaders map[Key]bool

	// keys under construction, outermost first
	stack []Key

	afterResolving []func(Key, any)
}

// New creates a container holding only itself, under KeyOf[*Container]().
func New(opts ...Option) *Container {
	c := &Container{
		id:        uuid.NewString(),
		log:       zerolog.Nop(),
		factories: make(map[Key]Factory),
		instances: make(map[Key]any),
		resolved:  make(map[Key]bool),
		loaders:   make(map[Key]bool),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.log = c.log.With().Str("container", c.id).Logger()

	c.Instance(KeyOf[*Container](), c)
	return c
}

// ID returns the unique id attached to the container's log lines.
func (c *Container) ID() string { return c.id }

// ── Registration ──────────────────────────────────────────────────────────────

// Instance registers a pre-built value under key. Instances take precedence
// over factories for the same key. Registering over a resolved key is ignored.
//
//	c.Instance(container.KeyOf[*config.Config](), cfg)
func (c *Container) Instance(key Key, instance any) {
	if c.frozen(key, "instance") {
		return
	}
	c.instances[key] = instance
	delete(c.loaders, key)
	c.log.Debug().Stringer("key", key).Msg("instance registered")
}

// Singleton registers a factory under key. The factory runs at most once, the
// first time key is resolved. Registering over a resolved key is ignored.
//
//	c.Singleton(container.KeyOf[Cache](), func(c *container.Container) (any, error) {
//	    cfg, err := container.Resolve[*config.Config](c)
//	    if err != nil {
//	        return nil, err
//	    }
//	    return cache.New(cfg), nil
//	})
func (c *Container) Singleton(key Key, factory Factory) {
	if c.frozen(key, "factory") {
		return
	}
	c.factories[key] = factory
	delete(c.loaders, key)
	c.log.Debug().Stringer("key", key).Msg("factory registered")
}

// installLoader registers the factory that loads a deferred provider for key.
// Any later Instance or Singleton for key replaces it.
func (c *Container) installLoader(key Key, loader Factory) {
	if c.frozen(key, "deferred provider") {
		return
	}
	c.factories[key] = loader
	c.loaders[key] = true
}

// releaseLoader removes key's loader if it is still the registered factory.
func (c *Container) releaseLoader(key Key) bool {
	if !c.loaders[key] {
		return false
	}
	delete(c.loaders, key)
	delete(c.factories, key)
	return true
}

// restoreLoader puts key's loader back after its provider failed to load,
// dropping whatever the provider registered or built for key.
func (c *Container) restoreLoader(key Key, loader Factory) {
	delete(c.instances, key)
	delete(c.resolved, key)
	c.factories[key] = loader
	c.loaders[key] = true
}

func (c *Container) frozen(key Key, kind string) bool {
	if !c.resolved[key] {
		return false
	}
	c.log.Warn().Stringer("key", key).Str("kind", kind).Msg("registration ignored, key already resolved")
	return true
}

// ── Resolution ────────────────────────────────────────────────────────────────

// Make resolves key to its shared instance.
//
// A cached instance is returned as is. Otherwise the key's factory is invoked
// and its result cached. Make fails with ErrCyclicDependency when key is
// already under construction, with ErrUnregisteredType when nothing is
// registered for it, with ErrFactoryFailed when the factory returns its
// own error and with ErrTypeMismatch when the instance is not of the key's
// type. A failed Make leaves the container as it found it.
func (c *Container) Make(key Key) (any, error) {
	if instance, ok := c.instances[key]; ok {
		if !key.accepts(instance) {
			err := newResolveError(key, c.stack, fmt.Errorf("%w: instance is %T", ErrTypeMismatch, instance))
			c.log.Debug().Err(err).Msg("resolution aborted")
			return nil, err
		}
		c.markResolved(key, instance)
		return instance, nil
	}

	if slices.Contains(c.stack, key) {
		err := newResolveError(key, c.stack, ErrCyclicDependency)
		c.log.Debug().Err(err).Msg("resolution aborted")
		return nil, err
	}

	factory, ok := c.factories[key]
	if !ok || factory == nil {
		err := newResolveError(key, c.stack, ErrUnregisteredType)
		c.log.Debug().Err(err).Msg("resolution aborted")
		return nil, err
	}

	instance, err := c.build(key, factory)
	if err != nil {
		return nil, err
	}

	c.instances[key] = instance
	c.markResolved(key, instance)
	return instance, nil
}

// build runs factory with key pushed on the stack. The key is popped however
// the factory returns, including by panic.
func (c *Container) build(key Key, factory Factory) (any, error) {
	c.stack = append(c.stack, key)
	depth := len(c.stack)
	defer func() {
		c.stack = c.stack[:depth-1]
	}()

	c.log.Debug().Stringer("key", key).Int("depth", depth).Msg("constructing")

	instance, err := factory(c)
	if err != nil {
		var resolveErr *ResolveError
		if errors.As(err, &resolveErr) {
			return nil, err
		}
		return nil, newResolveError(key, c.stack[:depth-1], fmt.Errorf("%w: %w", ErrFactoryFailed, err))
	}
	if !key.accepts(instance) {
		return nil, newResolveError(key, c.stack[:depth-1], fmt.Errorf("%w: factory returned %T", ErrTypeMismatch, instance))
	}

	c.log.Debug().Stringer("key", key).Int("depth", depth).Msg("constructed")
	return instance, nil
}

func (c *Container) markResolved(key Key, instance any) {
	if c.resolved[key] {
		return
	}
	c.resolved[key] = true
	for _, cb := range c.afterResolving {
		cb(key, instance)
	}
}

// ── Helpers ───────────────────────────────────────────────────────────────────

// Bound reports whether key has a factory or an instance.
func (c *Container) Bound(key Key) bool {
	_, hasFactory := c.factories[key]
	_, hasInstance := c.instances[key]
	return hasFactory || hasInstance
}

// Resolved reports whether key has been handed out by Make at least once.
func (c *Container) Resolved(key Key) bool {
	return c.resolved[key]
}

// Keys returns every registered key, sorted by name.
func (c *Container) Keys() []Key {
	out := make([]Key, 0, len(c.factories)+len(c.instances))
	for k := range c.factories {
		out = append(out, k)
	}
	for k := range c.instances {
		if _, already := c.factories[k]; !already {
			out = append(out, k)
		}
	}
	slices.SortFunc(out, func(a, b Key) int {
		return strings.Compare(a.String(), b.String())
	})
	return out
}

// Resolving returns a copy of the keys currently under construction,
// outermost first. It is empty outside of a Make call.
func (c *Container) Resolving() []Key {
	return slices.Clone(c.stack)
}

// ── Callbacks ─────────────────────────────────────────────────────────────────

// AfterResolving registers a callback fired the first time each key is
// resolved, whether its instance was built or registered up front.
func (c *Container) AfterResolving(cb func(key Key, instance any)) {
	c.afterResolving = append(c.afterResolving, cb)
}
