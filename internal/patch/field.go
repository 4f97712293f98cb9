// Package patch holds the optional-field wrapper used by partial updates.
//
// A Field that never appeared in the request body is not Set and leaves the
// stored value alone. A field sent as JSON null is Set with the zero value, so
// clearing a value always needs an explicit "" or null from the caller.
package patch

import (
	"bytes"
	"encoding/json"
)

type Field[T any] struct {
	Value T
	Set   bool
}

func Some[T any](v T) Field[T] { return Field[T]{Value: v, Set: true} }

func (f *Field[T]) UnmarshalJSON(b []byte) error {
	f.Set = true
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		var zero T
		f.Value = zero
		return nil
	}
	return json.Unmarshal(b, &f.Value)
}

func (f Field[T]) MarshalJSON() ([]byte, error) {
	if !f.Set {
		return []byte("null"), nil
	}
	return json.Marshal(f.Value)
}

// Apply copies the value into dst when the field was present.
func (f Field[T]) Apply(dst *T) {
	if f.Set {
		*dst = f.Value
	}
}

func (f Field[T]) Or(def T) T {
	if f.Set {
		return f.Value
	}
	return def
}
