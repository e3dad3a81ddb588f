package contract

import (
	"context"
)

// HandlerFunc implements a contract. It receives the resolved parameters in
// declaration order and returns the result value.
type HandlerFunc func(ctx context.Context, args Args) (any, error)

// Declaration is the raw description of an endpoint.
type Declaration struct {
	// Name uniquely identifies the contract.
	Name string
	// URL is the route template, e.g. /users/:id or /users/{id}.
	URL string
	// Method is the HTTP method; it is normalised to upper case.
	Method string
	// Description is free text.
	Description string
	// Params are the parameters in positional order.
	Params []Param
	// Result is a descriptor (raw or *typedef.Descriptor), a Result, or a raw
	// mapping with "kind" and optional "filter" and "description" members.
	Result any
	// Handler implements the endpoint.
	Handler HandlerFunc
	// SkipResultValidation disables checking of handler results. Filtering
	// still applies.
	SkipResultValidation bool
}

// Param declares one parameter.
type Param struct {
	// Name is the parameter name, also the key looked up in its source.
	Name string
	// Kind is the type descriptor, raw or *typedef.Descriptor.
	Kind any
	// Source is where the value is read from.
	Source Source
	// Required defaults to true when nil.
	Required *bool
	// Default is substituted when an optional parameter is absent. A nil
	// Default means none.
	Default any
	// Description is free text.
	Description string
}

// Result declares the result of a contract with an optional filter.
type Result struct {
	// Kind is the type descriptor, raw or *typedef.Descriptor.
	Kind any
	// Filter reduces the handler's value before validation.
	Filter Filter
	// Description is free text.
	Description string
}

// Filter selects result fields. Fields applies to the whole result (each
// element when the result is an array). Nested applies to the value of a
// top-level field (each element when that value is an array). Fields takes
// precedence when both are set.
type Filter struct {
	Fields []string
	Nested map[string][]string
}

// IsZero reports whether f selects nothing.
func (f Filter) IsZero() bool {
	return f.Fields == nil && f.Nested == nil
}

// Bool returns a pointer to b, for Param.Required.
func Bool(b bool) *bool {
	return &b
}
