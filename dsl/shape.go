package dsl

import (
	"maps"
	"slices"

	toolskema "github.com/reoring/toolskema"
)

// Shape maps field names to field validators. It is the declarative input of
// FromShape and is never mutated by it.
type Shape map[string]AnyAdapter

// Keys returns the field names in ascending order.
func (s Shape) Keys() []string { return slices.Sorted(maps.Keys(s)) }

// Extend returns a new Shape holding s overlaid with other.
func (s Shape) Extend(other Shape) Shape {
	out := make(Shape, len(s)+len(other))
	maps.Copy(out, s)
	maps.Copy(out, other)
	return out
}

// FromShape composes a Shape into an object schema. Every key is a known
// field, required unless its validator was marked Optional. A nil shape is
// treated as an empty one. Unknown keys follow the Object() default.
//
// FromShape never fails and does not inspect the validators; a malformed
// validator is reported when data is validated against the result.
func FromShape(shape Shape) toolskema.Schema[map[string]any] {
	return fromShape(shape, Object())
}

// FromShapeWith is FromShape with an explicit unknown-key policy. Passthrough
// keeps unknown keys at the top level of the parsed value.
func FromShapeWith(shape Shape, policy toolskema.UnknownPolicy) toolskema.Schema[map[string]any] {
	b := Object()
	switch policy {
	case toolskema.UnknownStrip:
		b.UnknownStrip()
	case toolskema.UnknownPassthrough:
		b.UnknownPassthrough("")
	}
	return fromShape(shape, b)
}

func fromShape(shape Shape, b *objectBuilder) toolskema.Schema[map[string]any] {
	if shape == nil {
		shape = Shape{}
	}
	for name, ad := range shape {
		step := b.Field(name, ad)
		if !ad.optional {
			step.Required()
		}
	}
	return b.build()
}

// ShapeOf adapts FromShape(shape) for nesting inside another Shape.
func ShapeOf(shape Shape) AnyAdapter {
	return anyAdapterFromSchema[map[string]any](FromShape(shape))
}
