// Package dsl provides the schema DSL for toolskema.
//
// Overview
//   - Shape/FromShape: compose a map of field validators into an object schema.
//     This is the entry point used for tool inputs.
//   - Object(): builder for full control (required/default/refine/unknown policy).
//   - Primitives: String()/Bool()/NumberJSON()/Int()/Enum()/Any(), Array(elem).
//   - AnyAdapter: adapts Schema[T] to a field validator via SchemaOf[T](s) or the
//     *Of helpers (StringOf, NumberOf, IntOf, EnumOf, ArrayOf, ShapeOf, Tag).
//
// File layout (roles)
//   - adapter.go: AnyAdapter and its wrappers (Optional/Nullable/Describe/Default/Min/Max).
//   - primitives.go: string/bool/number/integer/enum/any schemas.
//   - array.go: array schema and AsSchema for adapter elements.
//   - object_builder.go: objectBuilder/fieldStep and Build/MustBuild.
//   - object_core.go: objectSchema (Parse/Validate/JSONSchema).
//   - shape.go: Shape, FromShape, FromShapeWith, ShapeOf.
//   - tag.go: go-playground/validator tags as string field validators.
//
// Example
//
//	in := dsl.FromShape(dsl.Shape{
//		"name":  dsl.StringOf[string](),
//		"email": dsl.Tag("email").Optional(),
//		"count": dsl.NumberOf[json.Number](),
//	})
//	v, err := in.Parse(ctx, map[string]any{"name": "a", "count": json.Number("1")})
package dsl
