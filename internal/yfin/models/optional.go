// Package models defines the request-scoped data model for yfin-mcp.
// Nothing here is persisted; every value is built fresh from upstream data
// for a single tool call and discarded with the response.
package models

import "encoding/json"

// Unavailable is the literal rendered for any field the upstream did not supply.
const Unavailable = "N/A"

// Opt wraps a value that may be absent from an upstream record. Absence is a
// first-class value: optional fields are always present in JSON output,
// marshalled as the Unavailable marker rather than omitted.
type Opt[T any] struct {
	Value   T
	Present bool
}

// Some returns a present Opt holding v.
func Some[T any](v T) Opt[T] { return Opt[T]{Value: v, Present: true} }

// None returns an absent Opt.
func None[T any]() Opt[T] { return Opt[T]{} }

// FromPtr lifts a possibly-nil pointer into an Opt.
func FromPtr[T any](p *T) Opt[T] {
	if p == nil {
		return Opt[T]{}
	}
	return Some(*p)
}

// Or returns the wrapped value when present, otherwise fallback.
func (o Opt[T]) Or(fallback T) T {
	if o.Present {
		return o.Value
	}
	return fallback
}

// MarshalJSON emits the wrapped value, or the Unavailable marker when absent.
func (o Opt[T]) MarshalJSON() ([]byte, error) {
	if !o.Present {
		return json.Marshal(Unavailable)
	}
	return json.Marshal(o.Value)
}
