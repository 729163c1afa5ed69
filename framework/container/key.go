package container

import "reflect"

// Key identifies an abstract type inside a Container.
//
// Two keys are equal when they name the same Go type, no matter how many times
// KeyOf is called, so a Key can be compared with == and used as a map key.
//
//	var loggerKey = container.KeyOf[Logger]()
//	c.Singleton(loggerKey, newLogger)
type Key struct {
	typ reflect.Type
}

// KeyOf returns the Key naming T. Interface types are the usual choice:
//
//	container.KeyOf[Repository]()   // interface
//	container.KeyOf[*config.Config]() // concrete pointer
func KeyOf[T any]() Key {
	return Key{typ: reflect.TypeOf((*T)(nil)).Elem()}
}

// IsZero reports whether k is the zero Key.
func (k Key) IsZero() bool { return k.typ == nil }

// String returns the package-qualified type name, e.g. "*config.Config".
func (k Key) String() string {
	if k.typ == nil {
		return "<nil>"
	}
	return k.typ.String()
}

// accepts reports whether v may be stored under k.
func (k Key) accepts(v any) bool {
	if k.typ == nil {
		return true
	}
	if v == nil {
		switch k.typ.Kind() {
		case reflect.Interface, reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
			return true
		}
		return false
	}
	return reflect.TypeOf(v).AssignableTo(k.typ)
}
