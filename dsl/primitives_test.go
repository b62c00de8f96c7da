package dsl_test

import (
	"context"
	"encoding/json"
	"math"
	"regexp"
	"testing"

	toolskema "github.com/reoring/toolskema"
	g "github.com/reoring/toolskema/dsl"
)

func TestPrimitives_String(t *testing.T) {
	ctx := context.Background()
	if v, err := g.String().Parse(ctx, "hello"); err != nil || v != "hello" {
		t.Fatalf("string parse ok expected, got v=%v err=%v", v, err)
	}
	if _, err := g.String().Parse(ctx, 1); err == nil {
		t.Fatalf("expected invalid_type for non-string")
	}

	s := g.String().Min(2).Max(4)
	if it := firstIssue(t, s.Validate(ctx, "a")); it.Code != toolskema.CodeTooShort {
		t.Fatalf("expected too_short, got %+v", it)
	}
	if it := firstIssue(t, s.Validate(ctx, "abcde")); it.Code != toolskema.CodeTooLong {
		t.Fatalf("expected too_long, got %+v", it)
	}
	// runes, not bytes
	if err := s.Validate(ctx, "日本語"); err != nil {
		t.Fatalf("expected 3 runes to pass, got %v", err)
	}

	p := g.String().Pattern(regexp.MustCompile(`^[a-z]+$`))
	if it := firstIssue(t, p.ValidateValue(ctx, "ABC")); it.Code != toolskema.CodePattern {
		t.Fatalf("expected pattern, got %+v", it)
	}
}

func TestPrimitives_Bool(t *testing.T) {
	ctx := context.Background()
	if v, err := g.Bool().Parse(ctx, true); err != nil || v != true {
		t.Fatalf("bool parse ok expected, got v=%v err=%v", v, err)
	}
	if _, err := g.Bool().Parse(ctx, "nope"); err == nil {
		t.Fatalf("expected invalid_type for non-bool")
	}
}

func TestPrimitives_NumberJSON(t *testing.T) {
	ctx := context.Background()
	if v, err := g.NumberJSON().Parse(ctx, 1.5); err != nil || v != "1.5" {
		t.Fatalf("number from float64: v=%v err=%v", v, err)
	}
	if v, err := g.NumberJSON().Parse(ctx, 7); err != nil || v != "7" {
		t.Fatalf("number from int: v=%v err=%v", v, err)
	}
	if _, err := g.NumberJSON().Parse(ctx, "1.0"); err == nil {
		t.Fatalf("expected invalid_type for string input without coercion")
	}
	if v, err := g.NumberJSON().CoerceFromString().Parse(ctx, "1.0"); err != nil || v != "1.0" {
		t.Fatalf("coerced string: v=%v err=%v", v, err)
	}
	if _, err := g.NumberJSON().Parse(ctx, math.NaN()); err == nil {
		t.Fatalf("expected NaN to be rejected")
	}
	if _, err := g.NumberJSON().Parse(ctx, json.Number("abc")); err == nil {
		t.Fatalf("expected malformed json.Number to be rejected")
	}

	r := g.NumberJSON().Min(1).Max(10)
	if it := firstIssue(t, r.Validate(ctx, 0)); it.Code != toolskema.CodeTooSmall {
		t.Fatalf("expected too_small, got %+v", it)
	}
	if it := firstIssue(t, r.Validate(ctx, json.Number("11"))); it.Code != toolskema.CodeTooBig {
		t.Fatalf("expected too_big, got %+v", it)
	}
}

func TestPrimitives_Int(t *testing.T) {
	ctx := context.Background()
	for _, in := range []any{3, int64(3), json.Number("3"), 3.0, json.Number("3.0")} {
		if v, err := g.Int().Parse(ctx, in); err != nil || v != 3 {
			t.Fatalf("int from %#v: v=%v err=%v", in, v, err)
		}
	}
	for _, in := range []any{3.5, json.Number("3.5"), "3", nil} {
		if _, err := g.Int().Parse(ctx, in); err == nil {
			t.Fatalf("expected invalid_type for %#v", in)
		}
	}
}

func TestPrimitives_Enum(t *testing.T) {
	ctx := context.Background()
	e := g.Enum("red", "green")
	if v, err := e.Parse(ctx, "red"); err != nil || v != "red" {
		t.Fatalf("enum ok expected: v=%v err=%v", v, err)
	}
	it := firstIssue(t, e.Validate(ctx, "blue"))
	if it.Code != toolskema.CodeInvalidEnum {
		t.Fatalf("expected invalid_enum, got %+v", it)
	}
	js, _ := e.JSONSchema()
	if len(js.Enum) != 2 {
		t.Fatalf("expected enum in json schema, got %+v", js)
	}
}

func TestPrimitives_AnyAcceptsNull(t *testing.T) {
	ctx := context.Background()
	s := g.FromShape(g.Shape{"payload": g.AnyOf()})
	if _, err := s.Parse(ctx, map[string]any{"payload": nil}); err != nil {
		t.Fatalf("expected null payload to pass, got %v", err)
	}
	if err := s.ValidateValue(ctx, map[string]any{"payload": nil}); err != nil {
		t.Fatalf("expected ValidateValue to accept null for any, got %v", err)
	}
}

func TestAdapter_MinMax(t *testing.T) {
	ctx := context.Background()
	s := g.FromShape(g.Shape{"age": g.IntOf().Min(0).Max(150)})
	if _, err := s.Parse(ctx, map[string]any{"age": json.Number("30")}); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	it := firstIssue(t, s.Validate(ctx, map[string]any{"age": json.Number("-1")}))
	if it.Code != toolskema.CodeTooSmall || it.Path != "/age" {
		t.Fatalf("expected too_small at /age, got %+v", it)
	}
	js, _ := s.JSONSchema()
	if p := js.Properties["age"]; p.Minimum == nil || *p.Minimum != 0 || p.Maximum == nil || *p.Maximum != 150 {
		t.Fatalf("expected bounds in json schema, got %+v", p)
	}
}

func TestAdapter_DescribeAndDefault(t *testing.T) {
	ctx := context.Background()
	s := g.FromShape(g.Shape{
		"mode": g.EnumOf("fast", "slow").Default("fast").Describe("execution mode"),
	})
	v, err := s.Parse(ctx, map[string]any{})
	if err != nil || v["mode"] != "fast" {
		t.Fatalf("expected default applied, got v=%#v err=%v", v, err)
	}
	js, _ := s.JSONSchema()
	if js.Properties["mode"].Description != "execution mode" || js.Properties["mode"].Default != "fast" {
		t.Fatalf("unexpected json schema: %+v", js.Properties["mode"])
	}
}
