package dsl

import (
	"context"
	"maps"
	"slices"

	toolskema "github.com/reoring/toolskema"
	"github.com/reoring/toolskema/i18n"
)

type objectBuilder struct {
	fields        map[string]AnyAdapter
	required      map[string]struct{}
	unknownPolicy toolskema.UnknownPolicy
	unknownTarget string
	refines       []objRefine
}

type fieldStep struct {
	b    *objectBuilder
	name string
}

// Object creates a new object builder with safe defaults (UnknownStrict).
func Object() *objectBuilder {
	return &objectBuilder{
		fields:        map[string]AnyAdapter{},
		required:      map[string]struct{}{},
		unknownPolicy: toolskema.UnknownStrict,
	}
}

// Field registers a field with its adapter.
func (b *objectBuilder) Field(name string, ad AnyAdapter) *fieldStep {
	b.fields[name] = ad
	return &fieldStep{b: b, name: name}
}

// Required marks the field as required and returns the builder.
func (f *fieldStep) Required() *objectBuilder {
	f.b.required[f.name] = struct{}{}
	return f.b
}

// Optional marks the field as optional (default) and returns the builder.
func (f *fieldStep) Optional() *objectBuilder {
	delete(f.b.required, f.name)
	return f.b
}

// Default sets a default for the current field and exports it to JSON Schema.
func (f *fieldStep) Default(v any) *objectBuilder {
	f.b.fields[f.name] = f.b.fields[f.name].Default(v)
	return f.b
}

func (f *fieldStep) Field(name string, ad AnyAdapter) *fieldStep { return f.b.Field(name, ad) }
func (f *fieldStep) Require(names ...string) *objectBuilder      { return f.b.Require(names...) }
func (f *fieldStep) UnknownStrict() *objectBuilder               { return f.b.UnknownStrict() }
func (f *fieldStep) UnknownStrip() *objectBuilder                { return f.b.UnknownStrip() }
func (f *fieldStep) UnknownPassthrough(target string) *objectBuilder {
	return f.b.UnknownPassthrough(target)
}
func (f *fieldStep) Refine(name string, fn func(context.Context, map[string]any) error) *objectBuilder {
	return f.b.Refine(name, fn)
}
func (f *fieldStep) Build() (toolskema.Schema[map[string]any], error) { return f.b.Build() }
func (f *fieldStep) MustBuild() toolskema.Schema[map[string]any]      { return f.b.MustBuild() }

// Require marks one or more fields as required.
func (b *objectBuilder) Require(names ...string) *objectBuilder {
	for _, n := range names {
		b.required[n] = struct{}{}
	}
	return b
}

// UnknownStrict sets unknown policy to Strict.
func (b *objectBuilder) UnknownStrict() *objectBuilder {
	b.unknownPolicy = toolskema.UnknownStrict
	b.unknownTarget = ""
	return b
}

// UnknownStrip sets unknown policy to Strip.
func (b *objectBuilder) UnknownStrip() *objectBuilder {
	b.unknownPolicy = toolskema.UnknownStrip
	b.unknownTarget = ""
	return b
}

// UnknownPassthrough keeps unknown keys. With a target they are collected
// into that field as a map; with "" they stay at the top level of the output.
func (b *objectBuilder) UnknownPassthrough(target string) *objectBuilder {
	b.unknownPolicy = toolskema.UnknownPassthrough
	b.unknownTarget = target
	return b
}

// Refine adds an object-level refine function. It runs after all fields parsed.
func (b *objectBuilder) Refine(name string, fn func(context.Context, map[string]any) error) *objectBuilder {
	if fn == nil {
		return b
	}
	b.refines = append(b.refines, objRefine{name: name, fn: fn})
	return b
}

// Build validates the builder and returns a Schema.
func (b *objectBuilder) Build() (toolskema.Schema[map[string]any], error) {
	if b.unknownPolicy == toolskema.UnknownPassthrough && b.unknownTarget != "" {
		ad, ok := b.fields[b.unknownTarget]
		if !ok {
			return nil, toolskema.Issues{{Path: "/", Code: toolskema.CodeParseError, Message: i18n.T(toolskema.CodeParseError, nil), Hint: "unknown_target missing for passthrough"}}
		}
		if ad.validateValue == nil || ad.validateValue(context.Background(), map[string]any{}) != nil {
			return nil, toolskema.Issues{{Path: "/" + toolskema.PointerToken(b.unknownTarget), Code: toolskema.CodeInvalidType, Message: i18n.T(toolskema.CodeInvalidType, nil), Hint: "unknown_target must be map[string]any"}}
		}
	}
	return b.build(), nil
}

// MustBuild is like Build but panics on error.
func (b *objectBuilder) MustBuild() toolskema.Schema[map[string]any] {
	s, err := b.Build()
	if err != nil {
		panic(err)
	}
	return s
}

// build snapshots the builder so later builder calls do not leak into the schema.
func (b *objectBuilder) build() *objectSchema {
	return &objectSchema{
		fields:        maps.Clone(b.fields),
		required:      maps.Clone(b.required),
		unknownPolicy: b.unknownPolicy,
		unknownTarget: b.unknownTarget,
		refines:       slices.Clone(b.refines),
		sortedKeys:    slices.Sorted(maps.Keys(b.fields)),
	}
}
