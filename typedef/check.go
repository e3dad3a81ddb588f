package typedef

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/erraggy/apicontract/contracterrors"
	"github.com/erraggy/apicontract/internal/jsontext"
)

// Check reports whether v conforms to d. No coercion is applied: a numeric
// string does not satisfy Number. Failures are *contracterrors.MismatchError
// values whose Fields trace the object members leading to the failing value.
//
// d is presumed well formed; use Validate or Parse first for untrusted input.
func Check(d *Descriptor, v any) error {
	return check(d, v, true)
}

// CheckMissing reports whether an absent value (as opposed to a null one) is
// acceptable for d. Only an optional primitive-extended descriptor accepts it.
func CheckMissing(d *Descriptor) error {
	return check(d, nil, false)
}

func check(d *Descriptor, v any, present bool) error {
	if d == nil {
		return &contracterrors.MismatchError{Detail: "type define is invalid"}
	}
	switch d.Form {
	case FormPrimitive:
		if present && isKindValue(d.Kind, v) {
			return nil
		}
		return &contracterrors.MismatchError{
			Detail: fmt.Sprintf("value %s is not conform to type define %s", stringify(v, present), d.Kind),
		}
	case FormPrimitiveExt:
		if present && isKindValue(d.Kind, v) {
			return nil
		}
		if (!present || isNil(v)) && !d.Required {
			return nil
		}
		return &contracterrors.MismatchError{
			Detail: fmt.Sprintf("value %s is not conform to type define %s or is required", stringify(v, present), d.Kind),
		}
	case FormArray:
		return checkArray(d, v, present)
	case FormObject:
		return checkObject(d, v, present)
	default:
		return &contracterrors.MismatchError{
			Detail: fmt.Sprintf("%s is not qualified", d),
		}
	}
}

func checkArray(d *Descriptor, v any, present bool) error {
	elems, ok := sequenceValue(v)
	if !present || !ok {
		return &contracterrors.MismatchError{
			Detail: fmt.Sprintf("type is array, but value=%s is not array", display(v, present)),
		}
	}
	for _, e := range elems {
		// Element position is not part of the reported path.
		if err := check(d.Elem, e, true); err != nil {
			return err
		}
	}
	return nil
}

func checkObject(d *Descriptor, v any, present bool) error {
	lookup, ok := objectValue(v)
	if !present || !ok {
		return &contracterrors.MismatchError{
			Detail: fmt.Sprintf("type is object, but value=%s is not object", display(v, present)),
		}
	}
	for _, f := range d.Fields {
		mv, mp := lookup(f.Name)
		if err := check(f.Type, mv, mp); err != nil {
			if mm, ok := err.(*contracterrors.MismatchError); ok {
				return mm.InField(f.Name)
			}
			return err
		}
	}
	return nil
}

func stringify(v any, present bool) string {
	return jsontext.Stringify(plain(v), present)
}

func display(v any, present bool) string {
	return jsontext.Display(plain(v), present)
}

// isKindValue reports whether v is a runtime value of kind k.
func isKindValue(k Kind, v any) bool {
	switch v.(type) {
	case nil:
		return false
	case json.Number:
		return k == KindNumber
	case Mapping:
		return false
	}
	switch reflect.ValueOf(v).Kind() {
	case reflect.String:
		return k == KindText
	case reflect.Bool:
		return k == KindBoolean
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return k == KindNumber
	default:
		return false
	}
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface:
		return rv.IsNil()
	default:
		return false
	}
}

// sequenceValue returns the elements of an array-like runtime value.
func sequenceValue(v any) ([]any, bool) {
	switch x := v.(type) {
	case nil, Mapping, string, json.Number:
		return nil, false
	case []any:
		return x, x != nil
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	if rv.Kind() == reflect.Slice && rv.IsNil() {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

// objectValue returns a member lookup for a mapping-like runtime value.
func objectValue(v any) (func(string) (any, bool), bool) {
	switch x := v.(type) {
	case nil:
		return nil, false
	case map[string]any:
		if x == nil {
			return nil, false
		}
		return func(name string) (any, bool) {
			mv, ok := x[name]
			return mv, ok
		}, true
	case Mapping:
		return x.Get, true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String || rv.IsNil() {
		return nil, false
	}
	keyType := rv.Type().Key()
	return func(name string) (any, bool) {
		mv := rv.MapIndex(reflect.ValueOf(name).Convert(keyType))
		if !mv.IsValid() {
			return nil, false
		}
		return mv.Interface(), true
	}, true
}

// Lookup returns the member name of a mapping-like runtime value. It
// reports false when v is not a mapping or has no such member.
func Lookup(v any, name string) (any, bool) {
	lookup, ok := objectValue(v)
	if !ok {
		return nil, false
	}
	return lookup(name)
}

// IsMapping reports whether v is a mapping-like runtime value.
func IsMapping(v any) bool {
	_, ok := objectValue(v)
	return ok
}
