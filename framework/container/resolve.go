package container

import "fmt"

// ── Generics helpers ──────────────────────────────────────────────────────────

// RegisterInstance registers instance under KeyOf[T]().
//
//	container.RegisterInstance[*config.Config](c, cfg)
func RegisterInstance[T any](c *Container, instance T) {
	c.Instance(KeyOf[T](), instance)
}

// RegisterFactory registers factory under KeyOf[T]().
//
//	container.RegisterFactory(c, func(c *container.Container) (Mailer, error) {
//	    cfg, err := container.Resolve[*config.Config](c)
//	    if err != nil {
//	        return nil, err
//	    }
//	    return mail.NewSMTP(cfg.Mail), nil
//	})
func RegisterFactory[T any](c *Container, factory func(c *Container) (T, error)) {
	c.Singleton(KeyOf[T](), func(c *Container) (any, error) {
		instance, err := factory(c)
		if err != nil {
			return nil, err
		}
		return instance, nil
	})
}

// Resolve resolves KeyOf[T]() and returns the instance as a T.
//
//	// Instead of: v, err := c.Make(container.KeyOf[*config.Config]())
//	cfg, err := container.Resolve[*config.Config](c)
func Resolve[T any](c *Container) (T, error) {
	var zero T
	key := KeyOf[T]()

	instance, err := c.Make(key)
	if err != nil {
		return zero, err
	}
	if instance == nil {
		return zero, nil
	}
	typed, ok := instance.(T)
	if !ok {
		return zero, newResolveError(key, c.Resolving(), fmt.Errorf("%w: got %T", ErrTypeMismatch, instance))
	}
	return typed, nil
}

// MustResolve is like Resolve but panics on error. Use it only where a
// failure should stop the program, such as start-up wiring in main.
func MustResolve[T any](c *Container) T {
	instance, err := Resolve[T](c)
	if err != nil {
		panic(err)
	}
	return instance
}
