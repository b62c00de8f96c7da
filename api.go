package toolskema

import (
	"context"

	js "github.com/reoring/toolskema/jsonschema"
)

// Schema is the contract every validator in this module satisfies. T is the
// Go type a successful Parse yields.
type Schema[T any] interface {
	// Parse converts decoded JSON (map[string]any, []any, json.Number, ...)
	// into T. Failures are reported as Issues.
	Parse(ctx context.Context, v any) (T, error)

	// TypeCheck reports whether v has the right JSON kind.
	TypeCheck(ctx context.Context, v any) error

	// RuleCheck runs the constraint checks (required, bounds, enum, format).
	// Callers run TypeCheck first.
	RuleCheck(ctx context.Context, v any) error

	// Validate is TypeCheck then RuleCheck.
	Validate(ctx context.Context, v any) error

	// ValidateValue checks an already typed value.
	ValidateValue(ctx context.Context, v T) error

	JSONSchema() (*js.Schema, error)
}

// Refiner is implemented by schemas that run cross-field checks after all
// fields parsed successfully.
type Refiner[T any] interface {
	Refine(ctx context.Context, v T) error
}

// ApplyRefine runs s.Refine when s implements Refiner[T].
func ApplyRefine[T any](ctx context.Context, v T, s Schema[T]) error {
	if r, ok := any(s).(Refiner[T]); ok {
		return r.Refine(ctx, v)
	}
	return nil
}

// SafeParse is Parse without the error detail.
func SafeParse[T any](ctx context.Context, s Schema[T], v any) (T, bool) {
	val, err := s.Parse(ctx, v)
	if err != nil {
		var zero T
		return zero, false
	}
	return val, true
}

// Is reports whether v passes s.Validate.
func Is[T any](ctx context.Context, s Schema[T], v any) bool {
	return s.Validate(ctx, v) == nil
}

type failFastKey struct{}

// WithFailFast marks ctx so that schemas stop at the first issue.
func WithFailFast(ctx context.Context, enabled bool) context.Context {
	return context.WithValue(ctx, failFastKey{}, enabled)
}

// IsFailFast reports the flag set by WithFailFast (or ParseOpt.FailFast).
func IsFailFast(ctx context.Context) bool {
	b, _ := ctx.Value(failFastKey{}).(bool)
	return b
}
