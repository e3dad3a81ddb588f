package contract

import (
	"context"
	"fmt"
	"strings"

	"github.com/erraggy/apicontract/contracterrors"
	"github.com/erraggy/apicontract/typedef"
)

// Contract is a validated endpoint declaration bound to its handler.
// It is immutable once returned by New.
type Contract struct {
	// Name uniquely identifies the contract.
	Name string
	// URL is the route template.
	URL string
	// Method is the upper-case HTTP method.
	Method string
	// Description is free text.
	Description string
	// Params are the resolved parameters in positional order.
	Params []Parameter
	// Result is the resolved result definition.
	Result ResultDef
	// SkipResultValidation disables checking of handler results.
	SkipResultValidation bool

	handler HandlerFunc
}

// Parameter is a parameter whose descriptor has been parsed.
type Parameter struct {
	Name        string
	Type        *typedef.Descriptor
	Source      Source
	Required    bool
	Default     any
	Description string
}

// ResultDef is a result whose descriptor has been parsed.
type ResultDef struct {
	Type        *typedef.Descriptor
	Filter      Filter
	Description string
}

// New validates decl and returns the Contract it describes.
//
// Name, URL, Method, Result and Handler are mandatory. Each parameter must
// have a name, a kind and a recognized source; its kind must be a legal
// descriptor and a declared default must conform to it. Failures are
// reported as *contracterrors.ContractError naming the contract and the
// parameter (or the result).
func New(decl Declaration) (*Contract, error) {
	switch {
	case decl.Name == "":
		return nil, &contracterrors.MissingFieldError{Field: "name"}
	case decl.URL == "":
		return nil, &contracterrors.MissingFieldError{Field: "url"}
	case decl.Method == "":
		return nil, &contracterrors.MissingFieldError{Field: "method"}
	case decl.Result == nil:
		return nil, &contracterrors.MissingFieldError{Field: "result"}
	case decl.Handler == nil:
		return nil, &contracterrors.MissingFieldError{Field: "handler"}
	}

	c := &Contract{
		Name:                 decl.Name,
		URL:                  decl.URL,
		Method:               strings.ToUpper(decl.Method),
		Description:          decl.Description,
		Params:               make([]Parameter, 0, len(decl.Params)),
		SkipResultValidation: decl.SkipResultValidation,
		handler:              decl.Handler,
	}

	seen := make(map[string]struct{}, len(decl.Params))
	for _, p := range decl.Params {
		if _, dup := seen[p.Name]; dup {
			return nil, &contracterrors.ContractError{
				Contract: c.Name,
				Param:    p.Name,
				Cause:    &contracterrors.ParamDefinitionError{Source: string(p.Source), Message: "param is declared more than once"},
			}
		}
		seen[p.Name] = struct{}{}

		param, err := buildParameter(p)
		if err != nil {
			return nil, &contracterrors.ContractError{Contract: c.Name, Param: p.Name, Cause: err}
		}
		c.Params = append(c.Params, param)
	}

	result, err := buildResult(decl.Result)
	if err != nil {
		return nil, &contracterrors.ContractError{Contract: c.Name, Result: true, Cause: err}
	}
	c.Result = result

	return c, nil
}

// MustNew is like New but panics on error.
func MustNew(decl Declaration) *Contract {
	c, err := New(decl)
	if err != nil {
		panic(err)
	}
	return c
}

func buildParameter(p Param) (Parameter, error) {
	if p.Name == "" {
		return Parameter{}, &contracterrors.ParamDefinitionError{Source: string(p.Source), Message: "param name is empty"}
	}
	if p.Kind == nil || p.Source == "" || !p.Source.Valid() {
		return Parameter{}, &contracterrors.ParamDefinitionError{Source: string(p.Source)}
	}
	d, err := typedef.Parse(p.Kind)
	if err != nil {
		return Parameter{}, err
	}
	if p.Default != nil {
		if err := typedef.Check(d, p.Default); err != nil {
			return Parameter{}, err
		}
	}
	required := true
	if p.Required != nil {
		required = *p.Required
	}
	return Parameter{
		Name:        p.Name,
		Type:        d,
		Source:      p.Source,
		Required:    required,
		Default:     p.Default,
		Description: p.Description,
	}, nil
}

func buildResult(raw any) (ResultDef, error) {
	var r Result
	switch v := raw.(type) {
	case Result:
		r = v
	case *Result:
		if v == nil {
			return ResultDef{}, &contracterrors.DescriptorError{}
		}
		r = *v
	default:
		wrapped, ok, err := resultWrapper(raw)
		if err != nil {
			return ResultDef{}, err
		}
		if ok {
			r = wrapped
		} else {
			r = Result{Kind: raw}
		}
	}

	d, err := typedef.Parse(r.Kind)
	if err != nil {
		return ResultDef{}, err
	}
	return ResultDef{Type: d, Filter: r.Filter, Description: r.Description}, nil
}

// resultWrapper recognizes a raw {kind, filter, description} result mapping.
// A mapping whose kind member is a primitive token and that carries neither a
// filter nor a description is left to be parsed as a descriptor.
func resultWrapper(raw any) (Result, bool, error) {
	if !typedef.IsMapping(raw) {
		return Result{}, false, nil
	}
	kind, ok := typedef.Lookup(raw, "kind")
	if !ok {
		kind, ok = typedef.Lookup(raw, "TYPE")
	}
	if !ok {
		return Result{}, false, nil
	}
	rawFilter, hasFilter := typedef.Lookup(raw, "filter")
	rawDesc, hasDesc := typedef.Lookup(raw, "description")
	if _, primitive := kind.(string); primitive && !hasFilter && !hasDesc {
		if _, isKind := typedef.ParseKind(kind.(string)); isKind {
			return Result{}, false, nil
		}
	}

	r := Result{Kind: kind}
	if hasFilter {
		f, err := ParseFilter(rawFilter)
		if err != nil {
			return Result{}, false, err
		}
		r.Filter = f
	}
	if hasDesc {
		r.Description = fmt.Sprint(rawDesc)
	}
	return r, true, nil
}

// Invoke calls the handler with already resolved arguments.
func (c *Contract) Invoke(ctx context.Context, args Args) (any, error) {
	return c.handler(ctx, args)
}

// Param returns the parameter with the given name.
func (c *Contract) Param(name string) (Parameter, bool) {
	for _, p := range c.Params {
		if p.Name == name {
			return p, true
		}
	}
	return Parameter{}, false
}

// ParamsFrom returns the parameters read from source, in order.
func (c *Contract) ParamsFrom(source Source) []Parameter {
	var out []Parameter
	for _, p := range c.Params {
		if p.Source == source {
			out = append(out, p)
		}
	}
	return out
}

// String returns "METHOD URL (name)".
func (c *Contract) String() string {
	return fmt.Sprintf("%s %s (%s)", c.Method, c.URL, c.Name)
}
