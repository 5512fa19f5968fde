package extract

import "encoding/json"

// Value is a loosely typed JSON scalar. The model is instructed to emit
// date fields as integers or strings and to leave unknown fields blank,
// but responses routinely mix the three, so each field keeps its raw JSON
// until the transform stage collapses it.
type Value struct {
	raw json.RawMessage
}

// NewValue wraps a raw JSON scalar. Used by tests and the normalizer.
func NewValue(raw json.RawMessage) Value {
	return Value{raw: raw}
}

// IntValue returns a Value holding a JSON integer.
func IntValue(n int) Value {
	raw, _ := json.Marshal(n)
	return Value{raw: raw}
}

// StringValue returns a Value holding a JSON string.
func StringValue(s string) Value {
	raw, _ := json.Marshal(s)
	return Value{raw: raw}
}

// Present reports whether the field carried any non-null JSON value.
func (v Value) Present() bool {
	return len(v.raw) > 0 && string(v.raw) != "null"
}

// Int returns the value as an integer. The second return is false when
// the value is absent, a string, or a non-integral number.
func (v Value) Int() (int, bool) {
	if !v.Present() {
		return 0, false
	}
	var n int
	if err := json.Unmarshal(v.raw, &n); err != nil {
		return 0, false
	}
	return n, true
}

// Str returns the value as a string. The second return is false when the
// value is absent or not a JSON string.
func (v Value) Str() (string, bool) {
	if !v.Present() {
		return "", false
	}
	var s string
	if err := json.Unmarshal(v.raw, &s); err != nil {
		return "", false
	}
	return s, true
}

// RawEvent is one validated but untransformed event record from a model
// response. Date fields may still be strings, integers, or blank.
type RawEvent struct {
	Year  Value
	Month Value
	Day   Value
	Event string
}
