package dsl_test

import (
	"context"
	"errors"
	"reflect"
	"testing"

	toolskema "github.com/reoring/toolskema"
	g "github.com/reoring/toolskema/dsl"
)

// TestObject_Required_Optional_Default exercises required, optional, and
// default handling on builder objects.
func TestObject_Required_Optional_Default(t *testing.T) {
	ctx := context.Background()
	user, err := g.Object().
		Field("id", g.StringOf[string]()).
		Field("name", g.StringOf[string]()).
		Field("nickname", g.StringOf[string]()).
		Field("admin", g.BoolOf[bool]()).Default(false).
		Require("id", "name").
		UnknownStrict().
		Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	v, err := user.Parse(ctx, map[string]any{"id": "u_1", "name": "Reo"})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if v["admin"] != false {
		t.Fatalf("expected default admin=false, got: %#v", v)
	}

	if _, err := user.Parse(ctx, map[string]any{"id": "u_1"}); err == nil {
		t.Fatalf("expected required error for missing name")
	}
}

func TestObject_CollectVsFailFast(t *testing.T) {
	ctx := context.Background()
	obj := g.Object().
		Field("a", g.StringOf[string]()).Required().
		Field("b", g.StringOf[string]()).Required().
		MustBuild()

	_, err := obj.Parse(ctx, map[string]any{"zzz": 1})
	iss, _ := toolskema.AsIssues(err)
	if len(iss) != 3 {
		t.Fatalf("expected 3 issues in collect mode, got %v", iss)
	}
	// deterministic: known keys first in key order, then unknowns
	if iss[0].Path != "/a" || iss[1].Path != "/b" || iss[2].Path != "/zzz" {
		t.Fatalf("unexpected order: %v", iss)
	}

	_, err = obj.Parse(toolskema.WithFailFast(ctx, true), map[string]any{"zzz": 1})
	iss, _ = toolskema.AsIssues(err)
	if len(iss) != 1 {
		t.Fatalf("expected a single issue in fail-fast mode, got %v", iss)
	}
}

func TestObject_UnknownPassthroughTarget(t *testing.T) {
	ctx := context.Background()
	obj, err := g.Object().
		Field("name", g.StringOf[string]()).Required().
		Field("extra", g.SchemaOf[map[string]any](g.FromShapeWith(nil, toolskema.UnknownPassthrough))).
		UnknownPassthrough("extra").
		Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	v, err := obj.Parse(ctx, map[string]any{"name": "a", "x": 1})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !reflect.DeepEqual(v["extra"], map[string]any{"x": 1}) {
		t.Fatalf("expected unknowns under extra, got %#v", v)
	}

	if _, err := g.Object().UnknownPassthrough("missing").Build(); err == nil {
		t.Fatalf("expected build error for missing passthrough target")
	}
}

func TestObject_Refine(t *testing.T) {
	ctx := context.Background()
	obj := g.Object().
		Field("min", g.IntOf()).Required().
		Field("max", g.IntOf()).Required().
		Refine("min<=max", func(ctx context.Context, m map[string]any) error {
			if m["min"].(int64) > m["max"].(int64) {
				return errors.New("min exceeds max")
			}
			return nil
		}).
		MustBuild()

	if _, err := obj.Parse(ctx, map[string]any{"min": 1, "max": 2}); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	it := firstIssue(t, func() error { _, err := obj.Parse(ctx, map[string]any{"min": 3, "max": 2}); return err }())
	if it.Code != toolskema.CodeCustom || it.Hint != "min<=max" {
		t.Fatalf("expected custom issue from refine, got %+v", it)
	}
}

func TestObject_ValidateValueAndTypeCheck(t *testing.T) {
	ctx := context.Background()
	obj := g.FromShape(g.Shape{"name": g.StringOf[string]()})
	if err := obj.TypeCheck(ctx, []any{}); err == nil {
		t.Fatalf("expected invalid_type for array")
	}
	if err := obj.ValidateValue(ctx, map[string]any{"name": "x"}); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if it := firstIssue(t, obj.ValidateValue(ctx, map[string]any{"name": 1})); it.Path != "/name" {
		t.Fatalf("expected issue at /name, got %+v", it)
	}
	if it := firstIssue(t, obj.ValidateValue(ctx, map[string]any{"name": "x", "q": 1})); it.Code != toolskema.CodeUnknownKey {
		t.Fatalf("expected unknown_key, got %+v", it)
	}
	if !toolskema.Is(ctx, obj, map[string]any{"name": "x"}) {
		t.Fatalf("expected Is to accept a valid object")
	}
	if _, ok := toolskema.SafeParse(ctx, obj, map[string]any{}); ok {
		t.Fatalf("expected SafeParse to report failure")
	}
}

func TestObject_KeyWithSlashIsEscaped(t *testing.T) {
	ctx := context.Background()
	_, err := g.FromShape(g.Shape{"a/b": g.StringOf[string]()}).Parse(ctx, map[string]any{})
	if it := firstIssue(t, err); it.Path != "/a~1b" {
		t.Fatalf("expected escaped pointer, got %q", it.Path)
	}
}

func TestObject_JSONSchemaAdditionalProperties(t *testing.T) {
	strict, _ := g.FromShape(nil).JSONSchema()
	if strict.AdditionalProperties != false {
		t.Fatalf("expected additionalProperties=false for strict, got %v", strict.AdditionalProperties)
	}
	strip, _ := g.FromShapeWith(nil, toolskema.UnknownStrip).JSONSchema()
	if strip.AdditionalProperties != true {
		t.Fatalf("expected additionalProperties=true for strip, got %v", strip.AdditionalProperties)
	}
}
