/*
Package journal
File: event.go
Description:
    Defines the parsed journal Event and its field-access helpers. An event
    is immutable once parsed: the projector reads it, never mutates it.
*/
package journal

import "time"

// Event is one parsed line of the line-delimited journal. Kind is the
// "event" discriminator (e.g. "FSDJump"); Fields holds the full decoded
// payload, including Timestamp and Kind themselves, so handlers can pull
// any kind-specific field on demand without a 150-case struct catalog.
type Event struct {
	Timestamp time.Time
	Kind      string
	Fields    map[string]any
}

// Str returns Fields[key] as a string, or "" if absent/wrong type.
func (e *Event) Str(key string) string {
	if v, ok := e.Fields[key].(string); ok {
		return v
	}
	return ""
}

// Bool returns Fields[key] as a bool, or false if absent/wrong type.
func (e *Event) Bool(key string) bool {
	if v, ok := e.Fields[key].(bool); ok {
		return v
	}
	return false
}

// Float returns Fields[key] as a float64. encoding/json decodes all JSON
// numbers into float64, so this is also the path for ints.
func (e *Event) Float(key string) float64 {
	if v, ok := e.Fields[key].(float64); ok {
		return v
	}
	return 0
}

// Int returns Fields[key] truncated to an int.
func (e *Event) Int(key string) int {
	return int(e.Float(key))
}

// Int64 returns Fields[key] truncated to an int64.
func (e *Event) Int64(key string) int64 {
	return int64(e.Float(key))
}

// Has reports whether key is present in Fields at all, distinguishing an
// explicit null/zero from absence.
func (e *Event) Has(key string) bool {
	_, ok := e.Fields[key]
	return ok
}

// Map returns Fields[key] as a nested object, or nil if absent/wrong type.
func (e *Event) Map(key string) map[string]any {
	if v, ok := e.Fields[key].(map[string]any); ok {
		return v
	}
	return nil
}

// Slice returns Fields[key] as a JSON array, or nil if absent/wrong type.
func (e *Event) Slice(key string) []any {
	if v, ok := e.Fields[key].([]any); ok {
		return v
	}
	return nil
}
