// Package try wraps (value, error) pairs so tests can unwrap them in
// a single expression.
package try

// Fataler is anything with Fatal, like *testing.T or log.Logger.
type Fataler interface {
	Fatal(...any)
}

// Either holds the outcome of a call returning (T, error).
type Either[T any] struct {
	value T
	err   error
}

// To wraps the two return values of a call:
//
//	conf := try.To(LoadServerConfig(path)).OrFatal(t)
func To[T any](value T, err error) Either[T] {
	if err != nil {
		return Either[T]{err: err}
	}
	return Either[T]{value: value}
}

// Get returns the wrapped pair. When the Either holds an error, the
// value is T's zero value.
func (e Either[T]) Get() (T, error) {
	if e.err != nil {
		return *new(T), e.err
	}
	return e.value, nil
}

// OrFatal returns the value, or calls ftl.Fatal with the error.
// When ftl has a Helper method (as *testing.T does), it is called
// first so the failure points at the caller.
func (e Either[T]) OrFatal(ftl Fataler) T {
	if e.err == nil {
		return e.value
	}
	if h, ok := ftl.(interface{ Helper() }); ok {
		h.Helper()
	}
	ftl.Fatal(e.err)
	return *new(T)
}

// OrDefault returns the value, or d when the Either holds an error.
func (e Either[T]) OrDefault(d T) T {
	if e.err != nil {
		return d
	}
	return e.value
}
