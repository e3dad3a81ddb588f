package contract

import (
	"encoding/json"

	"github.com/erraggy/apicontract/typedef"
)

// Args are the resolved parameter values of one request, in declaration order.
type Args struct {
	names  []string
	values []any
}

// NewArgs pairs names with values positionally. It is mostly useful in tests
// that call a HandlerFunc directly.
func NewArgs(names []string, values []any) Args {
	n := min(len(names), len(values))
	return Args{names: names[:n], values: values[:n]}
}

// Len returns the number of arguments.
func (a Args) Len() int {
	return len(a.values)
}

// At returns the i-th argument.
func (a Args) At(i int) any {
	return a.values[i]
}

// Values returns a copy of the positional argument list.
func (a Args) Values() []any {
	return append([]any(nil), a.values...)
}

// Names returns the parameter names in order.
func (a Args) Names() []string {
	return append([]string(nil), a.names...)
}

// Get returns the argument for the named parameter.
func (a Args) Get(name string) (any, bool) {
	for i, n := range a.names {
		if n == name {
			return a.values[i], true
		}
	}
	return nil, false
}

// String returns the named argument as a string, or "" when it is not one.
func (a Args) String(name string) string {
	v, _ := a.Get(name)
	s, _ := v.(string)
	return s
}

// Number returns the named argument as a float64, or 0 when it is not numeric.
func (a Args) Number(name string) float64 {
	v, _ := a.Get(name)
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case int32:
		return float64(n)
	case uint:
		return float64(n)
	case uint64:
		return float64(n)
	case json.Number:
		f, _ := n.Float64()
		return f
	default:
		return 0
	}
}

// Bool returns the named argument as a bool, or false when it is not one.
func (a Args) Bool(name string) bool {
	v, _ := a.Get(name)
	b, _ := v.(bool)
	return b
}

// Map returns the arguments keyed by parameter name.
func (a Args) Map() map[string]any {
	m := make(map[string]any, len(a.names))
	for i, n := range a.names {
		m[n] = a.values[i]
	}
	return m
}

// Mapping returns the arguments as an ordered mapping.
func (a Args) Mapping() typedef.Mapping {
	m := make(typedef.Mapping, len(a.names))
	for i, n := range a.names {
		m[i] = typedef.Member{Name: n, Value: a.values[i]}
	}
	return m
}

// MarshalJSON encodes the arguments as an object in declaration order.
func (a Args) MarshalJSON() ([]byte, error) {
	return a.Mapping().MarshalJSON()
}
