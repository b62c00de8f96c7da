package engine

import (
	"encoding/json"
	"errors"
	"io"
	"reflect"
	"testing"
)

func TestDecodeAnyFromSource_Tree(t *testing.T) {
	v, err := DecodeAnyFromSource(NewJSONBytes([]byte(`{"a":[1,"x",true,null,{}],"b":{"c":2.5}}`)))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	want := map[string]any{
		"a": []any{json.Number("1"), "x", true, nil, map[string]any{}},
		"b": map[string]any{"c": json.Number("2.5")},
	}
	if !reflect.DeepEqual(v, want) {
		t.Fatalf("got %#v\nwant %#v", v, want)
	}
}

func TestDecodeAnyFromSourceAsFloat64(t *testing.T) {
	v, err := DecodeAnyFromSourceAsFloat64(NewJSONBytes([]byte(`[1, 2.5]`)))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !reflect.DeepEqual(v, []any{1.0, 2.5}) {
		t.Fatalf("got %#v", v)
	}
}

func TestDecodeAnyFromSource_EmptyArrayIsNotNil(t *testing.T) {
	v, err := DecodeAnyFromSource(NewJSONBytes([]byte(`[]`)))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if arr, ok := v.([]any); !ok || arr == nil {
		t.Fatalf("expected empty non-nil []any, got %#v", v)
	}
}

func TestLocationAdvances(t *testing.T) {
	src := NewJSONBytes([]byte(`{"a":1}`))
	if _, err := DecodeAnyFromSource(src); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if src.Location() <= 0 {
		t.Fatalf("expected consumed bytes > 0, got %d", src.Location())
	}
}

func enforced(data string, opt EnforceOptions) error {
	_, err := DecodeAnyFromSource(WrapWithEnforcement(NewJSONBytes([]byte(data)), opt))
	return err
}

func TestEnforce_Paths(t *testing.T) {
	tests := []struct {
		name string
		data string
		opt  EnforceOptions
		code string
		path string
	}{
		{"duplicate", `{"a":1,"a":2}`, EnforceOptions{OnDuplicate: DupError}, "duplicate_key", "/a"},
		{"nested duplicate", `[{"a":1,"a":2}]`, EnforceOptions{OnDuplicate: DupError}, "duplicate_key", "/0/a"},
		{"escaped key", `{"x/y":{"k":1,"k":2}}`, EnforceOptions{OnDuplicate: DupError}, "duplicate_key", "/x~1y/k"},
		{"warn promoted by fail-fast", `{"a":1,"a":2}`, EnforceOptions{OnDuplicate: DupWarn, FailFast: true}, "duplicate_key", "/a"},
		{"depth", `{"a":{"b":{"c":1}}}`, EnforceOptions{MaxDepth: 2}, "parse_error", "/a/b"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := enforced(tc.data, tc.opt)
			var ie IssueError
			if !errors.As(err, &ie) {
				t.Fatalf("expected IssueError, got %v", err)
			}
			if ie.Code != tc.code || ie.Path != tc.path {
				t.Fatalf("got %s at %s, want %s at %s", ie.Code, ie.Path, tc.code, tc.path)
			}
		})
	}
}

func TestEnforce_WarnSink(t *testing.T) {
	var got []SimpleIssue
	err := enforced(`{"a":1,"a":2,"b":{"c":1,"c":2}}`, EnforceOptions{
		OnDuplicate: DupWarn,
		IssueSink:   func(si SimpleIssue) { got = append(got, si) },
	})
	if err != nil {
		t.Fatalf("warn mode must not fail: %v", err)
	}
	if len(got) != 2 || got[0].Path != "/a" || got[1].Path != "/b/c" {
		t.Fatalf("unexpected warnings: %+v", got)
	}
}

func TestEnforce_MaxBytes(t *testing.T) {
	err := enforced(`{"long":"xxxxxxxxxxxxxxxxxxxxxxxx"}`, EnforceOptions{MaxBytes: 8})
	var ie IssueError
	if !errors.As(err, &ie) || ie.Code != "truncated" {
		t.Fatalf("expected truncated, got %v", err)
	}
}

func TestEnforce_WithinLimits(t *testing.T) {
	if err := enforced(`{"a":{"b":1}}`, EnforceOptions{MaxDepth: 2, MaxBytes: 1 << 10, OnDuplicate: DupError}); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
}

// scripted replays a fixed token list, then io.EOF.
type scripted struct{ toks []Token }

func (s *scripted) NextToken() (Token, error) {
	if len(s.toks) == 0 {
		return Token{}, io.EOF
	}
	t := s.toks[0]
	s.toks = s.toks[1:]
	return t, nil
}
func (s *scripted) Location() int64 { return -1 }

func TestDecodeAnyFromSource_EndOfInputInsideValue(t *testing.T) {
	tests := map[string][]Token{
		"empty":        nil,
		"after key":    {{Kind: KindBeginObject}, {Kind: KindKey, String: "a"}},
		"open object":  {{Kind: KindBeginObject}, {Kind: KindKey, String: "a"}, {Kind: KindNumber, Number: "1"}},
		"open array":   {{Kind: KindBeginArray}, {Kind: KindNumber, Number: "1"}},
		"nested array": {{Kind: KindBeginArray}, {Kind: KindBeginArray}, {Kind: KindEndArray}},
	}
	for name, toks := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := DecodeAnyFromSource(&scripted{toks: toks})
			if !errors.Is(err, io.ErrUnexpectedEOF) {
				t.Fatalf("expected io.ErrUnexpectedEOF, got %v", err)
			}
		})
	}
}

func TestDecodeAnyFromSource_TrailingData(t *testing.T) {
	toks := []Token{{Kind: KindBeginObject}, {Kind: KindEndObject}, {Kind: KindBeginObject}}
	if _, err := DecodeAnyFromSource(&scripted{toks: toks}); !errors.Is(err, ErrTrailingData) {
		t.Fatalf("expected ErrTrailingData, got %v", err)
	}
	for _, in := range []string{`{"a":1} {"b":2}`, `1 2`, `"x" null`} {
		if _, err := DecodeAnyFromSource(NewJSONBytes([]byte(in))); err == nil {
			t.Fatalf("%q: expected trailing data to fail", in)
		}
	}
	if _, err := DecodeAnyFromSourceAsFloat64(NewJSONBytes([]byte("[1] \n"))); err != nil {
		t.Fatalf("trailing whitespace must be accepted, got %v", err)
	}
}
