package dsl_test

import (
	"context"
	"testing"

	toolskema "github.com/reoring/toolskema"
	g "github.com/reoring/toolskema/dsl"
)

func TestTag_Email(t *testing.T) {
	ctx := context.Background()
	s := g.FromShape(g.Shape{"email": g.Tag("email")})
	if _, err := s.Parse(ctx, map[string]any{"email": "a@example.com"}); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	_, err := s.Parse(ctx, map[string]any{"email": "not-an-email"})
	it := firstIssue(t, err)
	if it.Code != toolskema.CodeInvalidFormat || it.Path != "/email" || it.Hint != "email" {
		t.Fatalf("expected invalid_format at /email, got %+v", it)
	}
	js, _ := s.JSONSchema()
	if js.Properties["email"].Format != "email" {
		t.Fatalf("expected format=email, got %+v", js.Properties["email"])
	}
}

func TestTag_WithBaseConstraints(t *testing.T) {
	ctx := context.Background()
	s := g.FromShape(g.Shape{"id": g.TagWith(g.String().Max(8), "alphanum")})
	if it := firstIssue(t, s.Validate(ctx, map[string]any{"id": "abcdefghij"})); it.Code != toolskema.CodeTooLong {
		t.Fatalf("expected too_long, got %+v", it)
	}
	if it := firstIssue(t, s.Validate(ctx, map[string]any{"id": "ab-c"})); it.Code != toolskema.CodeInvalidFormat {
		t.Fatalf("expected invalid_format, got %+v", it)
	}
}

func TestTag_UnknownRuleIsReportedNotPanicking(t *testing.T) {
	ctx := context.Background()
	s := g.FromShape(g.Shape{"x": g.Tag("definitely_not_a_rule")})
	it := firstIssue(t, s.Validate(ctx, map[string]any{"x": "v"}))
	if it.Code != toolskema.CodeParseError || it.Path != "/x" {
		t.Fatalf("expected parse_error at /x, got %+v", it)
	}
}

func TestCheckTag(t *testing.T) {
	for _, rule := range []string{"email", "uuid4", "alphanum,max=3"} {
		if err := g.CheckTag(rule); err != nil {
			t.Fatalf("CheckTag(%q) unexpected err: %v", rule, err)
		}
	}
	if err := g.CheckTag("definitely_not_a_rule"); err == nil {
		t.Fatalf("expected error for unknown tag")
	}
}
