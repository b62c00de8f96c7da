// Package tooldef loads tool definitions from YAML or JSON and compiles their
// parameter lists into object schemas with dsl.FromShape.
//
// A definition file holds either a single tool:
//
//	name: search
//	parameters:
//	  query: {type: string, minLength: 1}
//	  limit: {type: integer, min: 1, max: 100, optional: true}
//
// or several under a "tools" key. An object parameter without properties
// accepts any members, as an array parameter without items accepts any
// elements; once properties are listed, unknown members are rejected. Unknown
// types, bad patterns and unknown format tags fail at registration.
//
// Registry keeps the compiled schemas and
// validates raw JSON input by tool name.
package tooldef
