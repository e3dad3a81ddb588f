package contract

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"reflect"

	"github.com/erraggy/apicontract/contracterrors"
	"github.com/erraggy/apicontract/typedef"
)

// ProcessResult filters v according to the result filter and then, unless
// result validation is skipped, checks the filtered value against the result
// descriptor. Validation failures are *contracterrors.ResultError values.
//
// Values that are not JSON-like (structs, typed slices and maps) are first
// normalised through encoding/json. v itself is never modified.
func (c *Contract) ProcessResult(v any) (any, error) {
	v, err := normalize(v)
	if err != nil {
		return nil, &contracterrors.ResultError{Cause: err}
	}

	v = applyFilter(c.Result.Filter, v)

	if !c.SkipResultValidation {
		if err := typedef.Check(c.Result.Type, v); err != nil {
			return nil, &contracterrors.ResultError{Cause: err}
		}
	}
	return v, nil
}

// Call extracts the parameters, invokes the handler and processes its result.
// Handler errors are returned unchanged.
func (c *Contract) Call(ctx context.Context, query url.Values, path map[string]string, body any, header http.Header) (any, error) {
	args, err := c.ExtractParameters(query, path, body, header)
	if err != nil {
		return nil, err
	}
	out, err := c.Invoke(ctx, args)
	if err != nil {
		return nil, err
	}
	return c.ProcessResult(out)
}

// ParseFilter converts raw filter data: a list of field names, or a mapping
// from a top-level field name to a list of field names.
func ParseFilter(raw any) (Filter, error) {
	switch v := raw.(type) {
	case nil:
		return Filter{}, nil
	case Filter:
		return v, nil
	case []string:
		return Filter{Fields: v}, nil
	case map[string][]string:
		return Filter{Nested: v}, nil
	}

	if typedef.IsMapping(raw) {
		m, err := mappingOf(raw)
		if err != nil {
			return Filter{}, err
		}
		nested := make(map[string][]string, len(m))
		for _, mem := range m {
			fields, err := stringList(mem.Value)
			if err != nil {
				return Filter{}, fmt.Errorf("filter %s: %w", mem.Name, err)
			}
			nested[mem.Name] = fields
		}
		return Filter{Nested: nested}, nil
	}

	fields, err := stringList(raw)
	if err != nil {
		return Filter{}, fmt.Errorf("filter: %w", err)
	}
	return Filter{Fields: fields}, nil
}

func mappingOf(raw any) (typedef.Mapping, error) {
	switch v := raw.(type) {
	case typedef.Mapping:
		return v, nil
	case map[string]any:
		m := make(typedef.Mapping, 0, len(v))
		for k, val := range v {
			m = append(m, typedef.Member{Name: k, Value: val})
		}
		return m, nil
	}
	return nil, fmt.Errorf("unsupported filter mapping %T", raw)
}

func stringList(raw any) ([]string, error) {
	switch v := raw.(type) {
	case []string:
		return v, nil
	case []any:
		out := make([]string, len(v))
		for i, e := range v {
			s, ok := e.(string)
			if !ok {
				return nil, fmt.Errorf("field name %v is not a string", e)
			}
			out[i] = s
		}
		return out, nil
	}
	return nil, fmt.Errorf("expected a list of field names, got %T", raw)
}

func applyFilter(f Filter, v any) any {
	if f.Fields != nil {
		return filterFields(v, f.Fields)
	}
	if f.Nested == nil {
		return v
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return v
	}
	var out map[string]any
	for name, fields := range f.Nested {
		target, ok := obj[name]
		if fields == nil || !ok || !truthy(target) {
			continue
		}
		if out == nil {
			out = make(map[string]any, len(obj))
			for k, val := range obj {
				out[k] = val
			}
		}
		out[name] = filterFields(target, fields)
	}
	if out == nil {
		return v
	}
	return out
}

// filterFields picks fields from an object, or from each element of an array.
func filterFields(v any, fields []string) any {
	if elems, ok := v.([]any); ok {
		out := make([]any, len(elems))
		for i, e := range elems {
			out[i] = pick(e, fields)
		}
		return out
	}
	return pick(v, fields)
}

func pick(v any, fields []string) map[string]any {
	out := make(map[string]any, len(fields))
	obj, ok := v.(map[string]any)
	if !ok {
		return out
	}
	for _, f := range fields {
		if val, ok := obj[f]; ok {
			out[f] = val
		}
	}
	return out
}

func truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case string:
		return x != ""
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() != 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return rv.Uint() != 0
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		return f != 0 && !math.IsNaN(f)
	default:
		return true
	}
}

// normalize converts v into the JSON-like value space: nil, string, bool,
// float64, []any and map[string]any. Values already in that space are
// returned as is.
func normalize(v any) (any, error) {
	if jsonLike(v) {
		return v, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func jsonLike(v any) bool {
	switch x := v.(type) {
	case nil, string, bool, float64:
		return true
	case []any:
		for _, e := range x {
			if !jsonLike(e) {
				return false
			}
		}
		return x != nil
	case map[string]any:
		for _, e := range x {
			if !jsonLike(e) {
				return false
			}
		}
		return x != nil
	}
	switch reflect.ValueOf(v).Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32:
		return true
	default:
		return false
	}
}
