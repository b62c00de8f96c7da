package dsl

import (
	"context"
	"encoding/json"
	"math"
	"regexp"
	"slices"
	"strconv"
	"unicode/utf8"

	toolskema "github.com/reoring/toolskema"
	"github.com/reoring/toolskema/i18n"
	js "github.com/reoring/toolskema/jsonschema"
)

// ---------------- string ----------------

// StringBuilder exposes chaining options for string schemas while implementing Schema[string].
type StringBuilder interface {
	toolskema.Schema[string]
	Min(n int) StringBuilder
	Max(n int) StringBuilder
	Pattern(re *regexp.Regexp) StringBuilder
}

// String returns a string schema. Lengths are counted in runes.
func String() StringBuilder { return stringSchema{minLen: -1, maxLen: -1} }

type stringSchema struct {
	minLen  int
	maxLen  int
	pattern *regexp.Regexp
}

func (s stringSchema) Min(n int) StringBuilder { s.minLen = n; return s }
func (s stringSchema) Max(n int) StringBuilder { s.maxLen = n; return s }
func (s stringSchema) Pattern(re *regexp.Regexp) StringBuilder {
	s.pattern = re
	return s
}

func (s stringSchema) Parse(ctx context.Context, v any) (string, error) {
	str, ok := v.(string)
	if !ok {
		return "", invalidType("string")
	}
	if err := s.ValidateValue(ctx, str); err != nil {
		return "", err
	}
	return str, nil
}

func (s stringSchema) TypeCheck(ctx context.Context, v any) error {
	if _, ok := v.(string); !ok {
		return invalidType("string")
	}
	return nil
}

func (s stringSchema) RuleCheck(ctx context.Context, v any) error {
	str, ok := v.(string)
	if !ok {
		return nil
	}
	return s.ValidateValue(ctx, str)
}

func (s stringSchema) Validate(ctx context.Context, v any) error {
	if err := s.TypeCheck(ctx, v); err != nil {
		return err
	}
	return s.RuleCheck(ctx, v)
}

func (s stringSchema) ValidateValue(ctx context.Context, v string) error {
	n := utf8.RuneCountInString(v)
	if s.minLen >= 0 && n < s.minLen {
		return toolskema.Issues{{Path: "/", Code: toolskema.CodeTooShort, Message: i18n.T(toolskema.CodeTooShort, nil), Params: map[string]any{"min": s.minLen, "got": n}}}
	}
	if s.maxLen >= 0 && n > s.maxLen {
		return toolskema.Issues{{Path: "/", Code: toolskema.CodeTooLong, Message: i18n.T(toolskema.CodeTooLong, nil), Params: map[string]any{"max": s.maxLen, "got": n}}}
	}
	if s.pattern != nil && !s.pattern.MatchString(v) {
		return toolskema.Issues{{Path: "/", Code: toolskema.CodePattern, Message: i18n.T(toolskema.CodePattern, nil), Hint: s.pattern.String()}}
	}
	return nil
}

func (s stringSchema) JSONSchema() (*js.Schema, error) {
	out := &js.Schema{Type: "string"}
	if s.minLen >= 0 {
		out.MinLength = &s.minLen
	}
	if s.maxLen >= 0 {
		out.MaxLength = &s.maxLen
	}
	if s.pattern != nil {
		out.Pattern = s.pattern.String()
	}
	return out, nil
}

// stringAsSchema projects a string schema to a domain type T with underlying string.
type stringAsSchema[T ~string] struct{ inner toolskema.Schema[string] }

func (s stringAsSchema[T]) Parse(ctx context.Context, v any) (T, error) {
	if tv, ok := v.(T); ok {
		v = string(tv)
	}
	str, err := s.inner.Parse(ctx, v)
	return T(str), err
}
func (s stringAsSchema[T]) TypeCheck(ctx context.Context, v any) error {
	return s.inner.TypeCheck(ctx, v)
}
func (s stringAsSchema[T]) RuleCheck(ctx context.Context, v any) error {
	return s.inner.RuleCheck(ctx, v)
}
func (s stringAsSchema[T]) Validate(ctx context.Context, v any) error {
	return s.inner.Validate(ctx, v)
}
func (s stringAsSchema[T]) ValidateValue(ctx context.Context, v T) error {
	return s.inner.ValidateValue(ctx, string(v))
}
func (s stringAsSchema[T]) JSONSchema() (*js.Schema, error) { return s.inner.JSONSchema() }

// StringOf returns an AnyAdapter for a string wire value projected to domain type T.
func StringOf[T ~string]() AnyAdapter {
	ad := anyAdapterFromSchema[T](stringAsSchema[T]{inner: String()})
	ad.orig = String()
	return ad
}

// StringWith is StringOf over a constrained string schema:
// dsl.StringWith[string](dsl.String().Min(1))
func StringWith[T ~string](s StringBuilder) AnyAdapter {
	ad := anyAdapterFromSchema[T](stringAsSchema[T]{inner: s})
	ad.orig = s
	return ad
}

// ---------------- bool ----------------

// Bool returns the bool schema.
func Bool() toolskema.Schema[bool] { return boolSchema{} }

type boolSchema struct{}

func (boolSchema) Parse(ctx context.Context, v any) (bool, error) {
	b, ok := v.(bool)
	if !ok {
		return false, invalidType("boolean")
	}
	return b, nil
}

func (boolSchema) TypeCheck(ctx context.Context, v any) error {
	if _, ok := v.(bool); !ok {
		return invalidType("boolean")
	}
	return nil
}

func (boolSchema) RuleCheck(ctx context.Context, v any) error { return nil }

func (s boolSchema) Validate(ctx context.Context, v any) error { return s.TypeCheck(ctx, v) }

func (boolSchema) ValidateValue(ctx context.Context, v bool) error { return nil }

func (boolSchema) JSONSchema() (*js.Schema, error) { return &js.Schema{Type: "boolean"}, nil }

type boolAsSchema[T ~bool] struct{}

func (boolAsSchema[T]) Parse(ctx context.Context, v any) (T, error) {
	if tv, ok := v.(T); ok {
		return tv, nil
	}
	b, err := (boolSchema{}).Parse(ctx, v)
	return T(b), err
}
func (boolAsSchema[T]) TypeCheck(ctx context.Context, v any) error {
	if _, ok := v.(T); ok {
		return nil
	}
	return (boolSchema{}).TypeCheck(ctx, v)
}
func (boolAsSchema[T]) RuleCheck(ctx context.Context, v any) error   { return nil }
func (s boolAsSchema[T]) Validate(ctx context.Context, v any) error  { return s.TypeCheck(ctx, v) }
func (boolAsSchema[T]) ValidateValue(ctx context.Context, v T) error { return nil }
func (boolAsSchema[T]) JSONSchema() (*js.Schema, error)              { return (boolSchema{}).JSONSchema() }

// BoolOf returns an AnyAdapter for a bool wire value projected to domain type T.
func BoolOf[T ~bool]() AnyAdapter {
	ad := anyAdapterFromSchema[T](boolAsSchema[T]{})
	ad.orig = boolSchema{}
	return ad
}

// ---------------- number ----------------

// NumberBuilder exposes chaining options for number schemas while implementing Schema[json.Number].
type NumberBuilder interface {
	toolskema.Schema[json.Number]
	CoerceFromString() NumberBuilder
	Min(n float64) NumberBuilder
	Max(n float64) NumberBuilder
}

// NumberJSON returns a json.Number schema. Go numeric values and json.Number
// are accepted; strings only after CoerceFromString.
func NumberJSON() NumberBuilder { return numberJSONSchema{} }

type numberJSONSchema struct {
	coerceFromString bool
	min, max         *float64
}

func (n numberJSONSchema) CoerceFromString() NumberBuilder {
	n.coerceFromString = true
	return n
}
func (n numberJSONSchema) Min(f float64) NumberBuilder { n.min = &f; return n }
func (n numberJSONSchema) Max(f float64) NumberBuilder { n.max = &f; return n }

func (n numberJSONSchema) Parse(ctx context.Context, v any) (json.Number, error) {
	num, ok := toNumber(v, n.coerceFromString)
	if !ok {
		return "", invalidType("number")
	}
	if err := n.ValidateValue(ctx, num); err != nil {
		return "", err
	}
	return num, nil
}

func (n numberJSONSchema) TypeCheck(ctx context.Context, v any) error {
	if _, ok := toNumber(v, n.coerceFromString); !ok {
		return invalidType("number")
	}
	return nil
}

func (n numberJSONSchema) RuleCheck(ctx context.Context, v any) error {
	num, ok := toNumber(v, n.coerceFromString)
	if !ok {
		return nil
	}
	return n.ValidateValue(ctx, num)
}

func (n numberJSONSchema) Validate(ctx context.Context, v any) error {
	if err := n.TypeCheck(ctx, v); err != nil {
		return err
	}
	return n.RuleCheck(ctx, v)
}

func (n numberJSONSchema) ValidateValue(ctx context.Context, v json.Number) error {
	f, err := strconv.ParseFloat(string(v), 64)
	if err != nil {
		return invalidType("number")
	}
	return checkRange(f, n.min, n.max)
}

func (n numberJSONSchema) JSONSchema() (*js.Schema, error) {
	return &js.Schema{Type: "number", Minimum: n.min, Maximum: n.max}, nil
}

func checkRange(f float64, lo, hi *float64) error {
	if lo != nil && f < *lo {
		return toolskema.Issues{{Path: "/", Code: toolskema.CodeTooSmall, Message: i18n.T(toolskema.CodeTooSmall, nil), Params: map[string]any{"min": *lo, "got": f}}}
	}
	if hi != nil && f > *hi {
		return toolskema.Issues{{Path: "/", Code: toolskema.CodeTooBig, Message: i18n.T(toolskema.CodeTooBig, nil), Params: map[string]any{"max": *hi, "got": f}}}
	}
	return nil
}

func toNumber(v any, coerce bool) (json.Number, bool) {
	switch t := v.(type) {
	case json.Number:
		if _, err := strconv.ParseFloat(string(t), 64); err != nil {
			return "", false
		}
		return t, true
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return "", false
		}
		return json.Number(strconv.FormatFloat(t, 'f', -1, 64)), true
	case float32:
		f := float64(t)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return "", false
		}
		return json.Number(strconv.FormatFloat(f, 'f', -1, 32)), true
	case int:
		return json.Number(strconv.Itoa(t)), true
	case int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		f, _ := asFloat(t)
		return json.Number(strconv.FormatFloat(f, 'f', -1, 64)), true
	case string:
		if !coerce {
			return "", false
		}
		if _, err := strconv.ParseFloat(t, 64); err != nil {
			return "", false
		}
		return json.Number(t), true
	}
	return "", false
}

type numberAsSchema[T ~string] struct{ inner NumberBuilder }

func (s numberAsSchema[T]) Parse(ctx context.Context, v any) (T, error) {
	if tv, ok := v.(T); ok {
		v = json.Number(string(tv))
	}
	num, err := s.inner.Parse(ctx, v)
	return T(string(num)), err
}
func (s numberAsSchema[T]) TypeCheck(ctx context.Context, v any) error {
	return s.inner.TypeCheck(ctx, v)
}
func (s numberAsSchema[T]) RuleCheck(ctx context.Context, v any) error {
	return s.inner.RuleCheck(ctx, v)
}
func (s numberAsSchema[T]) Validate(ctx context.Context, v any) error {
	return s.inner.Validate(ctx, v)
}
func (s numberAsSchema[T]) ValidateValue(ctx context.Context, v T) error {
	return s.inner.ValidateValue(ctx, json.Number(string(v)))
}
func (s numberAsSchema[T]) JSONSchema() (*js.Schema, error) { return s.inner.JSONSchema() }

// NumberOf returns an AnyAdapter for a JSON number projected to domain type T.
// json.Number is defined over string, so the projection goes through string.
func NumberOf[T ~string]() AnyAdapter { return NumberWith[T](NumberJSON()) }

// NumberWith is NumberOf over a configured number schema.
func NumberWith[T ~string](n NumberBuilder) AnyAdapter {
	ad := anyAdapterFromSchema[T](numberAsSchema[T]{inner: n})
	ad.orig = n
	return ad
}

// ---------------- integer ----------------

// Int returns an integer schema. JSON numbers with a fractional part are rejected.
func Int() toolskema.Schema[int64] { return intSchema{} }

type intSchema struct{}

func (intSchema) Parse(ctx context.Context, v any) (int64, error) {
	i, ok := toInt(v)
	if !ok {
		return 0, invalidType("integer")
	}
	return i, nil
}

func (intSchema) TypeCheck(ctx context.Context, v any) error {
	if _, ok := toInt(v); !ok {
		return invalidType("integer")
	}
	return nil
}

func (intSchema) RuleCheck(ctx context.Context, v any) error       { return nil }
func (s intSchema) Validate(ctx context.Context, v any) error      { return s.TypeCheck(ctx, v) }
func (intSchema) ValidateValue(ctx context.Context, v int64) error { return nil }
func (intSchema) JSONSchema() (*js.Schema, error)                  { return &js.Schema{Type: "integer"}, nil }

func toInt(v any) (int64, bool) {
	switch t := v.(type) {
	case int:
		return int64(t), true
	case int8:
		return int64(t), true
	case int16:
		return int64(t), true
	case int32:
		return int64(t), true
	case int64:
		return t, true
	case uint8:
		return int64(t), true
	case uint16:
		return int64(t), true
	case uint32:
		return int64(t), true
	case json.Number:
		if i, err := strconv.ParseInt(string(t), 10, 64); err == nil {
			return i, true
		}
		f, err := strconv.ParseFloat(string(t), 64)
		if err != nil {
			return 0, false
		}
		return floatToInt(f)
	case float64:
		return floatToInt(t)
	case float32:
		return floatToInt(float64(t))
	}
	return 0, false
}

func floatToInt(f float64) (int64, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, false
	}
	if f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, false
	}
	return int64(f), true
}

// IntOf returns an AnyAdapter producing int64 values.
func IntOf() AnyAdapter { return anyAdapterFromSchema[int64](intSchema{}) }

// ---------------- enum ----------------

// Enum returns a string schema accepting only the listed values.
func Enum(values ...string) toolskema.Schema[string] {
	return enumSchema{values: slices.Clone(values)}
}

// EnumOf adapts Enum to AnyAdapter.
func EnumOf(values ...string) AnyAdapter { return anyAdapterFromSchema[string](Enum(values...)) }

type enumSchema struct{ values []string }

func (e enumSchema) Parse(ctx context.Context, v any) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", invalidType("string")
	}
	if err := e.ValidateValue(ctx, s); err != nil {
		return "", err
	}
	return s, nil
}

func (e enumSchema) TypeCheck(ctx context.Context, v any) error {
	if _, ok := v.(string); !ok {
		return invalidType("string")
	}
	return nil
}

func (e enumSchema) RuleCheck(ctx context.Context, v any) error {
	if s, ok := v.(string); ok {
		return e.ValidateValue(ctx, s)
	}
	return nil
}

func (e enumSchema) Validate(ctx context.Context, v any) error {
	if err := e.TypeCheck(ctx, v); err != nil {
		return err
	}
	return e.RuleCheck(ctx, v)
}

func (e enumSchema) ValidateValue(ctx context.Context, v string) error {
	if slices.Contains(e.values, v) {
		return nil
	}
	return toolskema.Issues{{Path: "/", Code: toolskema.CodeInvalidEnum, Message: i18n.T(toolskema.CodeInvalidEnum, nil), Params: map[string]any{"allowed": slices.Clone(e.values), "got": v}}}
}

func (e enumSchema) JSONSchema() (*js.Schema, error) {
	enum := make([]any, len(e.values))
	for i, v := range e.values {
		enum[i] = v
	}
	return &js.Schema{Type: "string", Enum: enum}, nil
}

// ---------------- any ----------------

// Any accepts every value, including null.
func Any() toolskema.Schema[any] { return anySchema{} }

// AnyOf adapts Any to AnyAdapter.
func AnyOf() AnyAdapter { return anyAdapterFromSchema[any](anySchema{}) }

type anySchema struct{}

func (anySchema) Parse(ctx context.Context, v any) (any, error)  { return v, nil }
func (anySchema) TypeCheck(ctx context.Context, v any) error     { return nil }
func (anySchema) RuleCheck(ctx context.Context, v any) error     { return nil }
func (anySchema) Validate(ctx context.Context, v any) error      { return nil }
func (anySchema) ValidateValue(ctx context.Context, v any) error { return nil }
func (anySchema) JSONSchema() (*js.Schema, error)                { return &js.Schema{}, nil }
