// Package typedef implements the type descriptor grammar used by contracts.
//
// A descriptor describes the expected shape of a value in one of four forms:
//
//   - Primitive: one of [KindText], [KindNumber] or [KindBoolean]
//   - Primitive-extended: a primitive plus a required flag and an optional default
//   - Array: a homogeneous list of exactly one inner descriptor (arrays may not nest directly)
//   - Object: an ordered set of named member descriptors
//
// Descriptors are built either with the constructors in this package or by
// classifying raw declaration data (decoded YAML or JSON) with [Parse]:
//
//	d, err := typedef.Parse(typedef.Mapping{
//	    {Name: "id", Value: "Number"},
//	    {Name: "tags", Value: []any{"String"}},
//	    {Name: "note", Value: typedef.Mapping{
//	        {Name: "kind", Value: "String"},
//	        {Name: "required", Value: false},
//	    }},
//	})
//
// [Check] tests a runtime value against a descriptor without coercion, and
// [Convert] coerces string input (query, path and header values) into the
// declared type before checking. Runtime values are JSON-like: strings, Go
// numeric types, booleans, slices, string-keyed maps and nil.
//
// All failures are reported with the types in the contracterrors package and
// render the same message text as the contract runtime always has, e.g.
//
//	object field a: object field c: value "x" is not conform to type define Number
package typedef
