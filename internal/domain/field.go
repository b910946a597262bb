package domain

import (
	"bytes"
	"encoding/json"
)

// Field is a tri-state value for sparse updates: omitted (Set == false),
// explicitly cleared (Set && Null) or set to Value.
type Field[T any] struct {
	Set   bool
	Null  bool
	Value T
}

// SetTo returns a field holding v
func SetTo[T any](v T) Field[T] {
	return Field[T]{Set: true, Value: v}
}

// Cleared returns a field that explicitly writes null
func Cleared[T any]() Field[T] {
	return Field[T]{Set: true, Null: true}
}

// Ptr returns the value as a pointer, nil when cleared or omitted
func (f Field[T]) Ptr() *T {
	if !f.Set || f.Null {
		return nil
	}
	v := f.Value
	return &v
}

// UnmarshalJSON is only invoked when the key is present, so an absent key stays omitted.
func (f *Field[T]) UnmarshalJSON(data []byte) error {
	f.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		f.Null = true
		var zero T
		f.Value = zero
		return nil
	}
	f.Null = false
	return json.Unmarshal(data, &f.Value)
}

// MarshalJSON writes null for cleared and omitted fields
func (f Field[T]) MarshalJSON() ([]byte, error) {
	if !f.Set || f.Null {
		return []byte("null"), nil
	}
	return json.Marshal(f.Value)
}
