package dsl

import (
	"context"
	"encoding/json"
	"strconv"

	toolskema "github.com/reoring/toolskema"
	"github.com/reoring/toolskema/i18n"
	js "github.com/reoring/toolskema/jsonschema"
)

// AnyAdapter adapts Schema[T] to an any-typed field validator so schemas of
// different T can sit side by side in an object builder or a Shape.
// The zero value is a malformed validator: it is accepted everywhere but
// reports parse_error when data is validated against it.
type AnyAdapter struct {
	parse         func(context.Context, any) (any, error)
	validateValue func(context.Context, any) error
	applyDefault  func(context.Context) (any, error)
	jsonSchema    func() (*js.Schema, error)
	optional      bool
	orig          any
}

// anyAdapterFromSchema wraps a strongly typed Schema[T] as AnyAdapter.
func anyAdapterFromSchema[T any](s toolskema.Schema[T]) AnyAdapter {
	return AnyAdapter{
		parse: func(ctx context.Context, v any) (any, error) { return s.Parse(ctx, v) },
		validateValue: func(ctx context.Context, v any) error {
			tv, ok := v.(T)
			if !ok {
				// a nil interface only matches T when T itself is an interface
				var zero T
				if v != nil || any(zero) != nil {
					return invalidType("")
				}
			}
			return s.ValidateValue(ctx, tv)
		},
		jsonSchema: s.JSONSchema,
		orig:       s,
	}
}

// SchemaOf converts an arbitrary Schema[T] into an AnyAdapter.
func SchemaOf[T any](s toolskema.Schema[T]) AnyAdapter { return anyAdapterFromSchema[T](s) }

// Orig returns the schema this adapter was created from (nil for the zero value).
func (ad AnyAdapter) Orig() any { return ad.orig }

// IsOptional reports whether the adapter was marked with Optional.
func (ad AnyAdapter) IsOptional() bool { return ad.optional }

// Optional marks the field as not required when the adapter is placed in a Shape.
func Optional(ad AnyAdapter) AnyAdapter {
	ad.optional = true
	return ad
}

// Optional enables fluent chaining: dsl.StringOf[string]().Optional()
func (ad AnyAdapter) Optional() AnyAdapter { return Optional(ad) }

// Nullable wraps an AnyAdapter to accept JSON null for both parse and validate.
func Nullable(ad AnyAdapter) AnyAdapter {
	prevParse := ad.parse
	prevValidate := ad.validateValue
	prevJSON := ad.jsonSchema
	out := ad
	out.parse = func(ctx context.Context, v any) (any, error) {
		if v == nil {
			return nil, nil
		}
		if prevParse == nil {
			return nil, malformed()
		}
		return prevParse(ctx, v)
	}
	out.validateValue = func(ctx context.Context, v any) error {
		if v == nil {
			return nil
		}
		if prevValidate == nil {
			return malformed()
		}
		return prevValidate(ctx, v)
	}
	out.jsonSchema = func() (*js.Schema, error) {
		s, err := callJSON(prevJSON)
		if err != nil {
			return nil, err
		}
		s.Nullable = true
		return s, nil
	}
	return out
}

// Nullable enables fluent chaining: dsl.StringOf[string]().Nullable()
func (ad AnyAdapter) Nullable() AnyAdapter { return Nullable(ad) }

// Describe attaches a description that is exported to JSON Schema.
func (ad AnyAdapter) Describe(text string) AnyAdapter {
	prev := ad.jsonSchema
	ad.jsonSchema = func() (*js.Schema, error) {
		s, err := callJSON(prev)
		if err != nil {
			return nil, err
		}
		s.Description = text
		return s, nil
	}
	return ad
}

// Default sets a value used when the field is missing. The value is parsed
// through the adapter so it obeys the same rules as input.
func (ad AnyAdapter) Default(v any) AnyAdapter {
	parse := ad.parse
	ad.applyDefault = func(ctx context.Context) (any, error) {
		if parse == nil {
			return nil, malformed()
		}
		return parse(ctx, v)
	}
	prev := ad.jsonSchema
	ad.jsonSchema = func() (*js.Schema, error) {
		s, err := callJSON(prev)
		if err != nil {
			return nil, err
		}
		s.Default = v
		return s, nil
	}
	return ad
}

// Min sets a numeric minimum (inclusive) constraint at runtime and in JSON Schema.
// Non-numeric values are ignored by this guard (type errors are handled elsewhere).
func (ad AnyAdapter) Min(n float64) AnyAdapter {
	return ad.numericGuard(func(f float64) bool { return f >= n }, toolskema.CodeTooSmall, "min", n,
		func(s *js.Schema) { s.Minimum = &n })
}

// Max sets a numeric maximum (inclusive) constraint at runtime and in JSON Schema.
func (ad AnyAdapter) Max(n float64) AnyAdapter {
	return ad.numericGuard(func(f float64) bool { return f <= n }, toolskema.CodeTooBig, "max", n,
		func(s *js.Schema) { s.Maximum = &n })
}

func (ad AnyAdapter) numericGuard(ok func(float64) bool, code, param string, bound float64, annotate func(*js.Schema)) AnyAdapter {
	check := func(v any) error {
		f, isNum := asFloat(v)
		if !isNum || ok(f) {
			return nil
		}
		return toolskema.Issues{{Path: "/", Code: code, Message: i18n.T(code, nil), Params: map[string]any{param: bound, "got": f}}}
	}
	prevParse := ad.parse
	prevValidate := ad.validateValue
	prevJSON := ad.jsonSchema
	out := ad
	out.parse = func(ctx context.Context, v any) (any, error) {
		if prevParse == nil {
			return nil, malformed()
		}
		val, err := prevParse(ctx, v)
		if err != nil {
			return nil, err
		}
		if err := check(val); err != nil {
			return nil, err
		}
		return val, nil
	}
	out.validateValue = func(ctx context.Context, v any) error {
		if prevValidate == nil {
			return malformed()
		}
		if err := prevValidate(ctx, v); err != nil {
			return err
		}
		return check(v)
	}
	out.jsonSchema = func() (*js.Schema, error) {
		s, err := callJSON(prevJSON)
		if err != nil {
			return nil, err
		}
		annotate(s)
		if s.Type == "" {
			s.Type = "number"
		}
		return s, nil
	}
	return out
}

// ---- helpers ----

func callJSON(fn func() (*js.Schema, error)) (*js.Schema, error) {
	if fn == nil {
		return &js.Schema{}, nil
	}
	s, err := fn()
	if err != nil {
		return nil, err
	}
	if s == nil {
		s = &js.Schema{}
	}
	return s, nil
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	case json.Number:
		f, err := strconv.ParseFloat(string(n), 64)
		return f, err == nil
	}
	return 0, false
}

func invalidType(expected string) toolskema.Issues {
	if expected == "" {
		return toolskema.Issues{{Path: "/", Code: toolskema.CodeInvalidType, Message: i18n.T(toolskema.CodeInvalidType, nil)}}
	}
	data := map[string]string{"expected": expected}
	return toolskema.Issues{{Path: "/", Code: toolskema.CodeInvalidType, Message: i18n.T(toolskema.CodeInvalidType, data), Hint: "expected " + expected}}
}

func malformed() toolskema.Issues {
	return toolskema.Issues{{Path: "/", Code: toolskema.CodeParseError, Message: i18n.T(toolskema.CodeParseError, nil), Hint: "field validator is not initialized"}}
}
