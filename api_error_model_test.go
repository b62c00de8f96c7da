package toolskema_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	toolskema "github.com/reoring/toolskema"
	g "github.com/reoring/toolskema/dsl"
)

// TestErrorModel_CollectVsFailFast_And_AsIssues compares Collect versus
// Fail-Fast behavior and exercises both AsIssues and errors.As helpers.
func TestErrorModel_CollectVsFailFast_And_AsIssues(t *testing.T) {
	ctx := context.Background()
	user := g.FromShape(g.Shape{
		"id":    g.StringOf[string](),
		"email": g.StringOf[string](),
	})

	js := []byte(`{"email": 1, "zzz": true}`)

	_, err := toolskema.ParseFrom(ctx, user, toolskema.JSONBytes(js))
	var iss toolskema.Issues
	if !errors.As(err, &iss) {
		t.Fatalf("expected errors.As to extract Issues, got: %v", err)
	}
	if len(iss) != 3 {
		t.Fatalf("expected 3 issues (email, id, zzz), got: %v", iss)
	}

	_, err = toolskema.ParseFrom(ctx, user, toolskema.JSONBytes(js), toolskema.ParseOpt{FailFast: true})
	iss2, ok := toolskema.AsIssues(err)
	if !ok || len(iss2) != 1 {
		t.Fatalf("expected a single fail-fast issue, got: %v", err)
	}
}

// TestErrorModel_DeterministicOrder checks that issues come out in key order
// with unknown keys last.
func TestErrorModel_DeterministicOrder(t *testing.T) {
	ctx := context.Background()
	s := g.FromShape(g.Shape{"b": g.StringOf[string](), "a": g.StringOf[string]()})
	for range 5 {
		_, err := s.Parse(ctx, map[string]any{"z": 1, "y": 2})
		iss, _ := toolskema.AsIssues(err)
		var paths []string
		for _, it := range iss {
			paths = append(paths, it.Path)
		}
		if strings.Join(paths, ",") != "/a,/b,/y,/z" {
			t.Fatalf("unexpected order: %v", paths)
		}
	}
}

func TestIssues_ErrorSummary(t *testing.T) {
	iss := toolskema.Issues{
		{Path: "/a", Code: toolskema.CodeRequired},
		{Path: "/b", Code: toolskema.CodeInvalidType},
		{Path: "/c", Code: toolskema.CodeUnknownKey},
		{Path: "/d", Code: toolskema.CodeUnknownKey},
	}
	want := "required at /a; invalid_type at /b; unknown_key at /c; ... (total 4)"
	if got := iss.Error(); got != want {
		t.Fatalf("Error() = %q, want %q", got, want)
	}
	if toolskema.Issues(nil).Error() != "" {
		t.Fatalf("empty Issues should render as empty string")
	}
}

func TestIssues_Rebase(t *testing.T) {
	iss := toolskema.Issues{{Path: "/"}, {Path: ""}, {Path: "/x/0"}, {Path: "y"}}
	got := iss.Rebase("/user")
	want := []string{"/user", "/user", "/user/x/0", "/user/y"}
	for i, it := range got {
		if it.Path != want[i] {
			t.Fatalf("Rebase[%d] = %q, want %q", i, it.Path, want[i])
		}
	}
	if iss[2].Path != "/x/0" {
		t.Fatalf("Rebase must not modify the receiver")
	}
}

func TestAsIssues_WrappedAndPlain(t *testing.T) {
	wrapped := errors.Join(errors.New("context"), toolskema.Issues{{Path: "/a", Code: toolskema.CodeRequired}})
	if iss, ok := toolskema.AsIssues(wrapped); !ok || len(iss) != 1 {
		t.Fatalf("expected Issues through wrapping, got %v %v", iss, ok)
	}
	if _, ok := toolskema.AsIssues(errors.New("plain")); ok {
		t.Fatalf("plain errors are not Issues")
	}
	if _, ok := toolskema.AsIssues(nil); ok {
		t.Fatalf("nil is not Issues")
	}
}

func TestPointerToken(t *testing.T) {
	if got := toolskema.PointerToken("a/b~c"); got != "a~1b~0c" {
		t.Fatalf("PointerToken = %q", got)
	}
}
