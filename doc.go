// Package toolskema composes declarative field maps into object validators.
//
// The root package carries the public model shared by every schema:
//
//   - Schema[T] with Parse/TypeCheck/RuleCheck/Validate/ValidateValue/JSONSchema
//   - Issues, a stable error model (JSON Pointer, code, message)
//   - Source/ParseFrom/StreamParse for validating raw JSON with duplicate-key,
//     depth, and size enforcement
//
// Schemas are built with the dsl package. The usual entry point for tool
// inputs is dsl.FromShape, which turns a map of field validators into an
// object schema:
//
//	s := dsl.FromShape(dsl.Shape{
//		"name":  dsl.StringOf[string](),
//		"count": dsl.NumberOf[json.Number](),
//	})
//	v, err := toolskema.ParseFrom(ctx, s, toolskema.JSONBytes(data))
//
// Tool definitions loaded from YAML/JSON live in the tooldef package and the
// CLI under cmd/toolskema.
package toolskema
