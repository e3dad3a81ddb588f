// Package jsontext renders runtime values the way contract error messages
// quote them.
package jsontext

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
)

// Undefined is the rendering used for a value that is absent altogether,
// as opposed to one that is present and nil ("null").
const Undefined = "undefined"

// Stringify renders v as compact JSON text without HTML escaping.
// When present is false the value is absent and "undefined" is returned.
// Values that cannot be encoded fall back to their fmt representation.
func Stringify(v any, present bool) string {
	if !present {
		return Undefined
	}
	switch x := v.(type) {
	case nil:
		return "null"
	case float64:
		return formatFloat(x)
	case float32:
		return formatFloat(float64(x))
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Sprintf("%v", v)
	}
	return strings.TrimSuffix(buf.String(), "\n")
}

// Display renders v the way string interpolation of a dynamic value reads:
// strings appear unquoted, mappings collapse to "[object Object]" and
// sequences list their elements separated by commas.
func Display(v any, present bool) string {
	if !present {
		return Undefined
	}
	if v == nil {
		return "null"
	}
	switch x := v.(type) {
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case float64:
		return formatFloat(x)
	case float32:
		return formatFloat(float64(x))
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Map, reflect.Struct:
		return "[object Object]"
	case reflect.Slice, reflect.Array:
		parts := make([]string, rv.Len())
		for i := range parts {
			elem := rv.Index(i).Interface()
			if elem == nil {
				continue
			}
			parts[i] = Display(elem, true)
		}
		return strings.Join(parts, ",")
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return "null"
		}
		return Display(rv.Elem().Interface(), true)
	default:
		return fmt.Sprintf("%v", v)
	}
}

func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "null"
	case math.IsInf(f, 0):
		return "null"
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
