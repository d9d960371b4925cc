// Package args adapts parse-functions into flag.Value implementations.
package args

// Adapter makes a flag.Value out of a parser for T. It remembers
// whether the flag appeared on the command line, so callers can tell
// "not set" apart from "set to the zero value".
type Adapter[T interface{ String() string }] struct {
	parse func(string) (T, error)
	value T
	seen  bool
}

// Parser wraps parse for use with flag.Var:
//
//	policy := args.Parser(recurring.ParsePolicy)
//	flag.Var(policy, "policy", "...")
func Parser[T interface{ String() string }](parse func(string) (T, error)) *Adapter[T] {
	return &Adapter[T]{parse: parse}
}

func (a *Adapter[T]) Set(s string) error {
	v, err := a.parse(s)
	if err != nil {
		return err
	}
	a.value = v
	a.seen = true
	return nil
}

func (a *Adapter[T]) String() string {
	if !a.seen {
		return ""
	}
	return a.value.String()
}

// Value returns the parsed value. Meaningless unless IsSet.
func (a *Adapter[T]) Value() T {
	return a.value
}

// IsSet reports whether Set has succeeded at least once.
func (a *Adapter[T]) IsSet() bool {
	return a.seen
}
