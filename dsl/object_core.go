package dsl

import (
	"context"
	"maps"
	"slices"

	toolskema "github.com/reoring/toolskema"
	"github.com/reoring/toolskema/i18n"
	js "github.com/reoring/toolskema/jsonschema"
)

type objectSchema struct {
	fields        map[string]AnyAdapter
	required      map[string]struct{}
	unknownPolicy toolskema.UnknownPolicy
	unknownTarget string
	refines       []objRefine
	sortedKeys    []string
}

var _ toolskema.Schema[map[string]any] = (*objectSchema)(nil)

type objRefine struct {
	name string
	fn   func(context.Context, map[string]any) error
}

func fieldPath(k string) string { return "/" + toolskema.PointerToken(k) }

func requiredIssue(k string) toolskema.Issue {
	return toolskema.Issue{Path: fieldPath(k), Code: toolskema.CodeRequired, Message: i18n.T(toolskema.CodeRequired, nil), Hint: "required property missing"}
}

// parseField runs the field adapter and rebases child issues under "/k".
func parseField(ctx context.Context, k string, ad AnyAdapter, val any) (any, toolskema.Issues) {
	if ad.parse == nil {
		return nil, malformed().Rebase(fieldPath(k))
	}
	parsed, err := ad.parse(ctx, val)
	if err != nil {
		return nil, childIssues(fieldPath(k), err)
	}
	return parsed, nil
}

// collectKnown parses known fields in key order, applies defaults and enforces required.
func (o *objectSchema) collectKnown(ctx context.Context, src map[string]any) (map[string]any, toolskema.Issues) {
	out := make(map[string]any, len(src))
	var iss toolskema.Issues
	for _, k := range o.sortedKeys {
		ad := o.fields[k]
		if val, exists := src[k]; exists {
			parsed, i2 := parseField(ctx, k, ad, val)
			if len(i2) > 0 {
				iss = toolskema.AppendIssues(iss, i2...)
				if toolskema.IsFailFast(ctx) {
					return out, iss
				}
				continue
			}
			out[k] = parsed
			continue
		}
		if ad.applyDefault != nil {
			dv, err := ad.applyDefault(ctx)
			if err != nil {
				iss = toolskema.AppendIssues(iss, childIssues(fieldPath(k), err)...)
				if toolskema.IsFailFast(ctx) {
					return out, iss
				}
				continue
			}
			out[k] = dv
			continue
		}
		if _, req := o.required[k]; req {
			iss = toolskema.AppendIssues(iss, requiredIssue(k))
			if toolskema.IsFailFast(ctx) {
				return out, iss
			}
		}
	}
	return out, iss
}

// collectUnknown processes unknown keys according to unknownPolicy and may write into out.
func (o *objectSchema) collectUnknown(ctx context.Context, src map[string]any, out map[string]any) toolskema.Issues {
	var iss toolskema.Issues
	uks := make([]string, 0)
	for k := range src {
		if _, known := o.fields[k]; !known {
			uks = append(uks, k)
		}
	}
	slices.Sort(uks)
	for _, k := range uks {
		switch o.unknownPolicy {
		case toolskema.UnknownStrict:
			iss = toolskema.AppendIssues(iss, toolskema.Issue{Path: fieldPath(k), Code: toolskema.CodeUnknownKey, Message: i18n.T(toolskema.CodeUnknownKey, nil)})
			if toolskema.IsFailFast(ctx) {
				return iss
			}
		case toolskema.UnknownStrip:
		case toolskema.UnknownPassthrough:
			if o.unknownTarget == "" {
				out[k] = src[k]
				continue
			}
			extra, _ := out[o.unknownTarget].(map[string]any)
			if extra == nil {
				extra = map[string]any{}
			}
			extra[k] = src[k]
			out[o.unknownTarget] = extra
		}
	}
	return iss
}

func (o *objectSchema) parseMap(ctx context.Context, src map[string]any) (map[string]any, error) {
	out, iss := o.collectKnown(ctx, src)
	if toolskema.IsFailFast(ctx) && len(iss) > 0 {
		return nil, iss
	}
	iss = toolskema.AppendIssues(iss, o.collectUnknown(ctx, src, out)...)
	if len(iss) > 0 {
		return nil, iss
	}
	if err := toolskema.ApplyRefine[map[string]any](ctx, out, o); err != nil {
		return nil, err
	}
	return out, nil
}

func (o *objectSchema) Parse(ctx context.Context, v any) (map[string]any, error) {
	src, ok := v.(map[string]any)
	if !ok {
		return nil, invalidType("object")
	}
	return o.parseMap(ctx, src)
}

func (o *objectSchema) TypeCheck(ctx context.Context, v any) error {
	if _, ok := v.(map[string]any); !ok {
		return invalidType("object")
	}
	return nil
}

// RuleCheck runs required, unknown-key and per-field checks; it accepts
// exactly what Parse accepts.
func (o *objectSchema) RuleCheck(ctx context.Context, v any) error {
	m, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	_, err := o.parseMap(ctx, m)
	return err
}

func (o *objectSchema) Validate(ctx context.Context, v any) error {
	if err := o.TypeCheck(ctx, v); err != nil {
		return err
	}
	return o.RuleCheck(ctx, v)
}

// ValidateValue checks v without converting it. Fields with a default may be
// absent, as Parse would fill them.
func (o *objectSchema) ValidateValue(ctx context.Context, v map[string]any) error {
	for _, k := range o.sortedKeys {
		ad := o.fields[k]
		val, ok := v[k]
		if !ok {
			// Parse would fill the default, so the field is not missing.
			if _, req := o.required[k]; req && ad.applyDefault == nil {
				return toolskema.Issues{requiredIssue(k)}
			}
			continue
		}
		if ad.validateValue == nil {
			return malformed().Rebase(fieldPath(k))
		}
		if err := ad.validateValue(ctx, val); err != nil {
			return childIssues(fieldPath(k), err)
		}
	}
	if o.unknownPolicy == toolskema.UnknownStrict {
		if iss := o.collectUnknown(ctx, v, nil); len(iss) > 0 {
			return iss
		}
	}
	return nil
}

func (o *objectSchema) JSONSchema() (*js.Schema, error) {
	props := make(map[string]*js.Schema, len(o.fields))
	for _, k := range o.sortedKeys {
		ps, err := callJSON(o.fields[k].jsonSchema)
		if err != nil {
			return nil, err
		}
		props[k] = ps
	}
	req := slices.Sorted(maps.Keys(o.required))
	var additional any
	switch o.unknownPolicy {
	case toolskema.UnknownStrict:
		additional = false
	case toolskema.UnknownStrip, toolskema.UnknownPassthrough:
		// accepted at runtime, so allowed in JSON Schema terms
		additional = true
	}
	return &js.Schema{Type: "object", Properties: props, Required: req, AdditionalProperties: additional}, nil
}

// Refine implements toolskema.Refiner[map[string]any] using builder-registered hooks.
func (o *objectSchema) Refine(ctx context.Context, v map[string]any) error {
	var iss toolskema.Issues
	for _, r := range o.refines {
		if err := r.fn(ctx, v); err != nil {
			if i2, ok := toolskema.AsIssues(err); ok {
				iss = toolskema.AppendIssues(iss, i2...)
			} else {
				iss = toolskema.AppendIssues(iss, toolskema.Issue{Path: "/", Code: toolskema.CodeCustom, Message: err.Error(), Hint: r.name, Cause: err})
			}
			if toolskema.IsFailFast(ctx) {
				return iss
			}
		}
	}
	if len(iss) > 0 {
		return iss
	}
	return nil
}
