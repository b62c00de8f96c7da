package dsl

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"

	toolskema "github.com/reoring/toolskema"
	"github.com/reoring/toolskema/i18n"
	js "github.com/reoring/toolskema/jsonschema"
)

// validate is shared; validator caches parsed tags and is safe for concurrent use.
var validate = validator.New()

// formats maps validator tags onto JSON Schema "format" names.
var formats = map[string]string{
	"email":    "email",
	"uuid":     "uuid",
	"uuid4":    "uuid",
	"url":      "uri",
	"uri":      "uri",
	"ipv4":     "ipv4",
	"ipv6":     "ipv6",
	"hostname": "hostname",
	"datetime": "date-time",
}

// Tag returns a string field validator that additionally checks the value
// against a go-playground/validator tag such as "email" or "uuid4".
// An unknown tag is reported as parse_error when data is validated.
func Tag(rule string) AnyAdapter { return TagWith(String(), rule) }

// TagWith applies the validator tag on top of a configured string schema.
func TagWith(base StringBuilder, rule string) AnyAdapter {
	return anyAdapterFromSchema[string](tagSchema{StringBuilder: base, rule: rule})
}

// CheckTag reports whether rule is a tag the validator knows. Tag and TagWith
// accept any rule, so callers building validators from external definitions
// use this to reject typos up front.
func CheckTag(rule string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("invalid validator tag %q: %v", rule, r)
		}
	}()
	// only a panic matters here; a failed check on the empty value is fine
	_ = validate.Var("", rule)
	return nil
}

type tagSchema struct {
	StringBuilder
	rule string
}

func (t tagSchema) Parse(ctx context.Context, v any) (string, error) {
	s, err := t.StringBuilder.Parse(ctx, v)
	if err != nil {
		return "", err
	}
	if err := t.check(s); err != nil {
		return "", err
	}
	return s, nil
}

func (t tagSchema) RuleCheck(ctx context.Context, v any) error {
	if err := t.StringBuilder.RuleCheck(ctx, v); err != nil {
		return err
	}
	if s, ok := v.(string); ok {
		return t.check(s)
	}
	return nil
}

func (t tagSchema) Validate(ctx context.Context, v any) error {
	if err := t.TypeCheck(ctx, v); err != nil {
		return err
	}
	return t.RuleCheck(ctx, v)
}

func (t tagSchema) ValidateValue(ctx context.Context, v string) error {
	if err := t.StringBuilder.ValidateValue(ctx, v); err != nil {
		return err
	}
	return t.check(v)
}

func (t tagSchema) JSONSchema() (*js.Schema, error) {
	s, err := t.StringBuilder.JSONSchema()
	if err != nil {
		return nil, err
	}
	if f, ok := formats[t.rule]; ok {
		s.Format = f
	}
	return s, nil
}

func (t tagSchema) check(s string) (err error) {
	// validator panics on tags it does not know
	defer func() {
		if r := recover(); r != nil {
			err = toolskema.Issues{{Path: "/", Code: toolskema.CodeParseError, Message: i18n.T(toolskema.CodeParseError, nil), Hint: fmt.Sprintf("invalid validator tag %q", t.rule)}}
		}
	}()
	if verr := validate.Var(s, t.rule); verr != nil {
		return toolskema.Issues{{Path: "/", Code: toolskema.CodeInvalidFormat, Message: i18n.T(toolskema.CodeInvalidFormat, nil), Hint: t.rule, Cause: verr, Params: map[string]any{"rule": t.rule}}}
	}
	return nil
}
