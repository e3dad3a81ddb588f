package typedef

import (
	"reflect"
	"sort"

	"github.com/erraggy/apicontract/contracterrors"
)

// Marker member names that turn a mapping into a primitive-extended descriptor.
// "TYPE" is accepted for declarations that use a "type" object member.
const (
	memberKind     = "kind"
	memberKindAlt  = "TYPE"
	memberRequired = "required"
	memberDefault  = "default"
)

// Parse classifies raw declaration data into a Descriptor. Accepted inputs:
//
//   - a primitive token ("String", "Text", "Number", "Boolean"; any case) or a Kind
//   - a mapping with a "kind" member naming a primitive, optionally with a
//     boolean "required" and a "default" matching that primitive
//   - a sequence holding exactly one inner descriptor
//   - any other mapping, as an object whose members are descriptors
//   - a *Descriptor, which is validated and returned as is
//
// Mappings are Mapping (order preserved) or string-keyed Go maps (members
// visited in sorted order). Failures are *contracterrors.DescriptorError
// values naming the member path to the offending descriptor.
func Parse(raw any) (*Descriptor, error) {
	switch v := raw.(type) {
	case *Descriptor:
		if err := Validate(v); err != nil {
			return nil, err
		}
		return v, nil
	case Descriptor:
		return Parse(&v)
	case nil:
		return nil, invalid()
	}

	if k, ok := kindOf(raw); ok {
		return Primitive(k), nil
	}
	if m, ok := asMapping(raw); ok {
		if d, ok := parseExt(m); ok {
			return d, nil
		}
		return parseObject(m)
	}
	if elems, ok := asSequence(raw); ok {
		return parseArray(elems)
	}
	return nil, invalid()
}

// MustParse is like Parse but panics on error. It is intended for
// package-level descriptor declarations.
func MustParse(raw any) *Descriptor {
	d, err := Parse(raw)
	if err != nil {
		panic(err)
	}
	return d
}

func invalid() *contracterrors.DescriptorError {
	return &contracterrors.DescriptorError{}
}

func parseExt(m Mapping) (*Descriptor, bool) {
	raw, ok := m.Get(memberKind)
	if !ok {
		raw, ok = m.Get(memberKindAlt)
	}
	if !ok {
		return nil, false
	}
	k, ok := kindOf(raw)
	if !ok {
		return nil, false
	}
	d := &Descriptor{Form: FormPrimitiveExt, Kind: k, Required: true}
	if r, ok := m.Get(memberRequired); ok {
		b, isBool := r.(bool)
		if !isBool {
			return nil, false
		}
		d.Required = b
	}
	if def, ok := m.Get(memberDefault); ok {
		if !isKindValue(k, def) {
			return nil, false
		}
		d.Default = def
		d.HasDefault = true
	}
	return d, true
}

func parseArray(elems []any) (*Descriptor, error) {
	if len(elems) != 1 {
		return nil, invalid()
	}
	elem, err := Parse(elems[0])
	if err != nil {
		return nil, err
	}
	if elem.Form == FormArray {
		return nil, invalid()
	}
	return ArrayOf(elem), nil
}

func parseObject(m Mapping) (*Descriptor, error) {
	d := &Descriptor{Form: FormObject, Fields: make([]Field, 0, len(m))}
	seen := make(map[string]struct{}, len(m))
	for _, mem := range m {
		if _, dup := seen[mem.Name]; dup {
			return nil, &contracterrors.DescriptorError{
				Members: []string{mem.Name},
				Message: "member is declared more than once",
			}
		}
		seen[mem.Name] = struct{}{}

		inner, err := Parse(mem.Value)
		if err != nil {
			return nil, inMember(err, mem.Name)
		}
		d.Fields = append(d.Fields, Field{Name: mem.Name, Type: inner})
	}
	return d, nil
}

func inMember(err error, name string) error {
	if de, ok := err.(*contracterrors.DescriptorError); ok {
		return de.InMember(name)
	}
	return err
}

// asMapping normalises raw mapping data into an ordered Mapping.
func asMapping(raw any) (Mapping, bool) {
	switch v := raw.(type) {
	case Mapping:
		return v, true
	case map[string]any:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		m := make(Mapping, len(keys))
		for i, k := range keys {
			m[i] = Member{Name: k, Value: v[k]}
		}
		return m, true
	}

	rv := reflect.ValueOf(raw)
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return nil, false
	}
	keys := rv.MapKeys()
	sort.Slice(keys, func(i, j int) bool { return keys[i].String() < keys[j].String() })
	m := make(Mapping, len(keys))
	for i, k := range keys {
		m[i] = Member{Name: k.String(), Value: rv.MapIndex(k).Interface()}
	}
	return m, true
}

// asSequence normalises raw sequence data into []any.
func asSequence(raw any) ([]any, bool) {
	switch v := raw.(type) {
	case []any:
		return v, true
	case []string:
		out := make([]any, len(v))
		for i, s := range v {
			out[i] = s
		}
		return out, true
	case Mapping:
		return nil, false
	}

	rv := reflect.ValueOf(raw)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}
