package dsl

import (
	"context"
	"strconv"

	toolskema "github.com/reoring/toolskema"
	"github.com/reoring/toolskema/i18n"
	js "github.com/reoring/toolskema/jsonschema"
)

// ArrayBuilder exposes chaining methods for array schemas while implementing Schema[[]E].
type ArrayBuilder[E any] interface {
	toolskema.Schema[[]E]
	Min(n int) ArrayBuilder[E]
	Max(n int) ArrayBuilder[E]
}

// Array returns an array schema with the given element schema.
func Array[E any](elem toolskema.Schema[E]) ArrayBuilder[E] {
	return arraySchema[E]{elem: elem, minLen: -1, maxLen: -1}
}

// ArrayOf adapts Array[E] to AnyAdapter for use in object builders and shapes.
// Example: Field("tags", dsl.ArrayOf[string](dsl.String()))
func ArrayOf[E any](elem toolskema.Schema[E]) AnyAdapter {
	return anyAdapterFromSchema[[]E](Array[E](elem))
}

// ArrayOfSchema converts a constrained ArrayBuilder[E] into an AnyAdapter.
// Example: Field("tags", dsl.ArrayOfSchema[string](dsl.Array[string](dsl.String()).Min(2)))
func ArrayOfSchema[E any](ab ArrayBuilder[E]) AnyAdapter { return anyAdapterFromSchema[[]E](ab) }

type arraySchema[E any] struct {
	elem   toolskema.Schema[E]
	minLen int
	maxLen int
}

func (a arraySchema[E]) Min(n int) ArrayBuilder[E] { a.minLen = n; return a }
func (a arraySchema[E]) Max(n int) ArrayBuilder[E] { a.maxLen = n; return a }

func (a arraySchema[E]) Parse(ctx context.Context, v any) ([]E, error) {
	switch src := v.(type) {
	case []E:
		if err := a.ValidateValue(ctx, src); err != nil {
			return nil, err
		}
		return src, nil
	case []any:
		res := make([]E, 0, len(src))
		var iss toolskema.Issues
		for i := range src {
			ev, err := a.elem.Parse(ctx, src[i])
			if err != nil {
				iss = toolskema.AppendIssues(iss, childIssues("/"+strconv.Itoa(i), err)...)
				if toolskema.IsFailFast(ctx) {
					return nil, iss
				}
				continue
			}
			res = append(res, ev)
		}
		if len(iss) > 0 {
			return nil, iss
		}
		if err := a.checkLen(len(res)); err != nil {
			return nil, err
		}
		return res, nil
	default:
		return nil, invalidType("array")
	}
}

func (a arraySchema[E]) TypeCheck(ctx context.Context, v any) error {
	switch v.(type) {
	case []E, []any:
		return nil
	default:
		return invalidType("array")
	}
}

func (a arraySchema[E]) RuleCheck(ctx context.Context, v any) error {
	switch t := v.(type) {
	case []E:
		return a.ValidateValue(ctx, t)
	case []any:
		_, err := a.Parse(ctx, t)
		return err
	}
	return nil
}

func (a arraySchema[E]) Validate(ctx context.Context, v any) error {
	if err := a.TypeCheck(ctx, v); err != nil {
		return err
	}
	return a.RuleCheck(ctx, v)
}

func (a arraySchema[E]) ValidateValue(ctx context.Context, v []E) error {
	if err := a.checkLen(len(v)); err != nil {
		return err
	}
	for i := range v {
		if err := a.elem.ValidateValue(ctx, v[i]); err != nil {
			return childIssues("/"+strconv.Itoa(i), err)
		}
	}
	return nil
}

func (a arraySchema[E]) checkLen(n int) error {
	if a.minLen >= 0 && n < a.minLen {
		return toolskema.Issues{{Path: "/", Code: toolskema.CodeTooShort, Message: i18n.T(toolskema.CodeTooShort, nil), Hint: "array is shorter than min", Params: map[string]any{"min": a.minLen, "got": n}}}
	}
	if a.maxLen >= 0 && n > a.maxLen {
		return toolskema.Issues{{Path: "/", Code: toolskema.CodeTooLong, Message: i18n.T(toolskema.CodeTooLong, nil), Hint: "array is longer than max", Params: map[string]any{"max": a.maxLen, "got": n}}}
	}
	return nil
}

func (a arraySchema[E]) JSONSchema() (*js.Schema, error) {
	es, err := a.elem.JSONSchema()
	if err != nil {
		return nil, err
	}
	s := &js.Schema{Type: "array", Items: es}
	if a.minLen >= 0 {
		n := a.minLen
		s.MinItems = &n
	}
	if a.maxLen >= 0 {
		n := a.maxLen
		s.MaxItems = &n
	}
	return s, nil
}

// AsSchema exposes an AnyAdapter as a Schema[any], e.g. to use it as an
// array element: dsl.Array(dsl.AsSchema(dsl.StringOf[string]())).
func AsSchema(ad AnyAdapter) toolskema.Schema[any] { return adapterSchema{ad: ad} }

type adapterSchema struct{ ad AnyAdapter }

func (s adapterSchema) Parse(ctx context.Context, v any) (any, error) {
	if s.ad.parse == nil {
		return nil, malformed()
	}
	return s.ad.parse(ctx, v)
}
func (s adapterSchema) TypeCheck(ctx context.Context, v any) error { return nil }
func (s adapterSchema) RuleCheck(ctx context.Context, v any) error {
	_, err := s.Parse(ctx, v)
	return err
}
func (s adapterSchema) Validate(ctx context.Context, v any) error { return s.RuleCheck(ctx, v) }
func (s adapterSchema) ValidateValue(ctx context.Context, v any) error {
	if s.ad.validateValue == nil {
		return malformed()
	}
	return s.ad.validateValue(ctx, v)
}
func (s adapterSchema) JSONSchema() (*js.Schema, error) { return callJSON(s.ad.jsonSchema) }

// childIssues converts a child error into Issues rooted at base.
func childIssues(base string, err error) toolskema.Issues {
	if iss, ok := toolskema.AsIssues(err); ok {
		return iss.Rebase(base)
	}
	return toolskema.Issues{{Path: base, Code: toolskema.CodeParseError, Message: err.Error(), Cause: err}}
}
