package contract

import (
	"net/http"
	"net/url"

	"github.com/erraggy/apicontract/contracterrors"
	"github.com/erraggy/apicontract/typedef"
)

// ExtractParameters resolves every declared parameter from the request parts,
// in declaration order.
//
// query holds the multi-valued query string; for non-array parameters only the
// first value is used. path holds the matched route template parameters. body
// is the decoded request body (nil when there is none). header is matched
// case-insensitively.
//
// String values from path, query and header are coerced to the declared type
// first. A present value is checked against its descriptor; an absent one
// takes the declared default when the parameter is optional and fails with
// *contracterrors.MissingParamError otherwise. Every failure is wrapped in a
// *contracterrors.ParamError naming the parameter.
func (c *Contract) ExtractParameters(query url.Values, path map[string]string, body any, header http.Header) (Args, error) {
	args := Args{
		names:  make([]string, len(c.Params)),
		values: make([]any, len(c.Params)),
	}
	for i, p := range c.Params {
		v, err := p.resolve(query, path, body, header)
		if err != nil {
			return Args{}, &contracterrors.ParamError{Name: p.Name, Source: string(p.Source), Cause: err}
		}
		args.names[i] = p.Name
		args.values[i] = v
	}
	return args, nil
}

func (p Parameter) resolve(query url.Values, path map[string]string, body any, header http.Header) (any, error) {
	raw, present := p.lookup(query, path, body, header)
	if !present {
		if !p.Required {
			return p.Default, nil
		}
		return nil, &contracterrors.MissingParamError{Name: p.Name, Source: string(p.Source)}
	}

	if p.Source.Converts() {
		converted, err := typedef.Convert(p.Type, raw)
		if err != nil {
			return nil, err
		}
		raw = converted
	}
	if err := typedef.Check(p.Type, raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// lookup returns the raw value for p and whether one was supplied.
func (p Parameter) lookup(query url.Values, path map[string]string, body any, header http.Header) (any, bool) {
	switch p.Source {
	case SourceQuery:
		vals, ok := query[p.Name]
		if !ok || len(vals) == 0 {
			return nil, false
		}
		if p.Type.IsArray() {
			return vals, true
		}
		return vals[0], true
	case SourcePath:
		v, ok := path[p.Name]
		return v, ok
	case SourceBody:
		return typedef.Lookup(body, p.Name)
	case SourceWholeBody:
		return body, body != nil
	case SourceHeader:
		if vals := header.Values(p.Name); len(vals) > 0 {
			return vals[0], true
		}
		if vals, ok := header[p.Name]; ok && len(vals) > 0 {
			return vals[0], true
		}
		return nil, false
	default:
		return nil, false
	}
}
