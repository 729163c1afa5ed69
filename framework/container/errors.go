package container

import (
	"errors"
	"strings"
)

var (
	// ErrUnregisteredType is returned when a key has neither a factory nor an instance.
	ErrUnregisteredType = errors.New("unregistered type")

	// ErrCyclicDependency is returned when a key is requested while it is
	// still being constructed further up the same resolution chain.
	ErrCyclicDependency = errors.New("cyclic dependency")

	// ErrFactoryFailed wraps an error returned by a factory itself.
	ErrFactoryFailed = errors.New("factory failed")

	// ErrTypeMismatch is returned by Resolve when the stored instance is not a T.
	ErrTypeMismatch = errors.New("type mismatch")
)

// ResolveError describes a failed resolution.
//
// Chain holds the resolution stack at the point of failure, ending with Key.
// For a cycle Key appears twice in Chain.
type ResolveError struct {
	Key   Key
	Chain []Key
	Err   error
}

func (e *ResolveError) Error() string {
	var b strings.Builder
	b.WriteString("container: resolve ")
	b.WriteString(e.Key.String())
	b.WriteString(": ")
	b.WriteString(e.Err.Error())
	if len(e.Chain) > 1 {
		b.WriteString(" (")
		for i, k := range e.Chain {
			if i > 0 {
				b.WriteString(" -> ")
			}
			b.WriteString(k.String())
		}
		b.WriteString(")")
	}
	return b.String()
}

func (e *ResolveError) Unwrap() error { return e.Err }

func newResolveError(key Key, stack []Key, err error) *ResolveError {
	chain := make([]Key, 0, len(stack)+1)
	chain = append(chain, stack...)
	chain = append(chain, key)
	return &ResolveError{Key: key, Chain: chain, Err: err}
}
