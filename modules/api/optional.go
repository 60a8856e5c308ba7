package api

import "encoding/json"

// Optional is a JSON field that tells an omitted value apart from an
// explicit null. Set is true whenever the key was present in the body.
type Optional[T any] struct {
	Value T
	Set   bool
	Null  bool
}

// UnmarshalJSON is only invoked when the key is present.
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		var zero T
		o.Value = zero
		o.Null = true
		return nil
	}
	o.Null = false
	return json.Unmarshal(data, &o.Value)
}

// ptr returns the value when it was sent and not null.
func (o Optional[T]) ptr() *T {
	if !o.Set || o.Null {
		return nil
	}
	v := o.Value
	return &v
}

// validationValue exposes the wrapped value to the validator; nil means
// there is nothing to validate.
func (o Optional[T]) validationValue() any {
	if !o.Set || o.Null {
		return nil
	}
	return o.Value
}
