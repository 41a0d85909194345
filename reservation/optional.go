package reservation

import (
	"bytes"
	"encoding/json"
)

// Optional wraps a field value together with an explicit "provided" flag, so
// a legitimate zero value (empty name, zero guests) is never confused with a
// field nobody has supplied yet. The JSON form is the plain value, or null
// when unset.
type Optional[T any] struct {
	value T
	set   bool
}

func Some[T any](v T) Optional[T] {
	return Optional[T]{value: v, set: true}
}

func None[T any]() Optional[T] {
	return Optional[T]{}
}

func (o Optional[T]) IsSet() bool {
	return o.set
}

// Get returns the wrapped value and whether it has been provided.
func (o Optional[T]) Get() (T, bool) {
	return o.value, o.set
}

// Or returns the wrapped value, or fallback when unset.
func (o Optional[T]) Or(fallback T) T {
	if o.set {
		return o.value
	}
	return fallback
}

var jsonNull = []byte("null")

func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.set {
		return jsonNull, nil
	}
	return json.Marshal(o.value)
}

func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), jsonNull) {
		*o = Optional[T]{}
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*o = Optional[T]{value: v, set: true}
	return nil
}
