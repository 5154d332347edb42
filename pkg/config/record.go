package config

import (
	"fmt"
	"strconv"
)

// Record is an insertion-ordered mapping of field name to value. Values are
// string, int, float64, bool, nil, []any or nested Record. Records produced by
// Parse are never mutated afterwards.
type Record struct {
	keys   []string
	values map[string]any
}

// NewRecord creates an empty record. Use Set to populate it in tests or when
// assembling configuration programmatically.
func NewRecord() Record {
	return Record{values: make(map[string]any)}
}

// Set stores value under key, keeping the first position of an existing key.
func (r *Record) Set(key string, value any) *Record {
	if r.values == nil {
		r.values = make(map[string]any)
	}
	if _, exists := r.values[key]; !exists {
		r.keys = append(r.keys, key)
	}
	r.values[key] = value
	return r
}

// Keys returns the field names in document order.
func (r Record) Keys() []string {
	return append([]string(nil), r.keys...)
}

// Len reports the number of fields.
func (r Record) Len() int {
	return len(r.keys)
}

// Has reports whether key is present, even when its value is null.
func (r Record) Has(key string) bool {
	_, ok := r.values[key]
	return ok
}

// Get returns the raw value stored under key.
func (r Record) Get(key string) (any, bool) {
	value, ok := r.values[key]
	return value, ok
}

// Scalar returns the textual form of a scalar value. The boolean is false when
// the key is missing, null, or holds a list or mapping.
func (r Record) Scalar(key string) (string, bool) {
	value, ok := r.values[key]
	if !ok {
		return "", false
	}
	return ScalarString(value)
}

// String returns the scalar stored under key, or def when the key is missing,
// null, empty, or not a scalar.
func (r Record) String(key, def string) string {
	if value, ok := r.Scalar(key); ok && value != "" {
		return value
	}
	return def
}

// Bool returns the boolean stored under key. Strings "true"/"false" (any case
// accepted by strconv.ParseBool) are converted; anything else yields def.
func (r Record) Bool(key string, def bool) bool {
	switch value := r.values[key].(type) {
	case bool:
		return value
	case string:
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return def
}

// List returns the sequence stored under key. A missing or non-list value
// yields nil.
func (r Record) List(key string) []any {
	if items, ok := r.values[key].([]any); ok {
		return items
	}
	return nil
}

// Record returns the nested mapping stored under key.
func (r Record) Record(key string) (Record, bool) {
	nested, ok := r.values[key].(Record)
	return nested, ok
}

// Strings returns the scalars stored under key. A single scalar is promoted to
// a one-element slice; non-scalar list items are skipped.
func (r Record) Strings(key string) []string {
	value, ok := r.values[key]
	if !ok || value == nil {
		return nil
	}
	if items, ok := value.([]any); ok {
		out := make([]string, 0, len(items))
		for _, item := range items {
			if text, ok := ScalarString(item); ok && text != "" {
				out = append(out, text)
			}
		}
		return out
	}
	if text, ok := ScalarString(value); ok && text != "" {
		return []string{text}
	}
	return nil
}

// Map converts the record into a plain map, recursively. Useful for JSON
// encoding and template contexts.
func (r Record) Map() map[string]any {
	out := make(map[string]any, len(r.keys))
	for _, key := range r.keys {
		out[key] = plain(r.values[key])
	}
	return out
}

func plain(value any) any {
	switch typed := value.(type) {
	case Record:
		return typed.Map()
	case []any:
		out := make([]any, len(typed))
		for i, item := range typed {
			out[i] = plain(item)
		}
		return out
	default:
		return value
	}
}

// ScalarString renders scalar values as text. Lists, mappings and nil report
// false.
func ScalarString(value any) (string, bool) {
	switch typed := value.(type) {
	case string:
		return typed, true
	case int:
		return strconv.Itoa(typed), true
	case int64:
		return strconv.FormatInt(typed, 10), true
	case uint64:
		return strconv.FormatUint(typed, 10), true
	case float64:
		return strconv.FormatFloat(typed, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(typed), true
	case nil, Record, []any:
		return "", false
	default:
		return fmt.Sprint(typed), true
	}
}
