package typedef

import (
	"encoding/json"

	"github.com/erraggy/apicontract/contracterrors"
)

// Convert coerces a raw string value into the type declared by d. Values
// that are not strings are returned unchanged. Number accepts anything a
// numeric literal may spell (decimal, exponent, 0x/0o/0b prefixes,
// Infinity; surrounding space ignored; empty means 0); Boolean accepts only
// "true" and "false"; array and object descriptors parse the string as JSON.
// Text values pass through.
//
// The converted value is not checked against d; callers follow up with Check.
func Convert(d *Descriptor, raw any) (any, error) {
	s, ok := raw.(string)
	if !ok || d == nil {
		return raw, nil
	}
	switch d.Form {
	case FormPrimitive, FormPrimitiveExt:
		return convertKind(d.Kind, s)
	case FormArray, FormObject:
		return parseJSON(d, s)
	default:
		return raw, nil
	}
}

func convertKind(k Kind, s string) (any, error) {
	switch k {
	case KindNumber:
		n, ok := ParseNumber(s)
		if !ok {
			return nil, &contracterrors.ConversionError{Value: s, Kind: k.String()}
		}
		return n, nil
	case KindBoolean:
		switch s {
		case "true":
			return true, nil
		case "false":
			return false, nil
		}
		return nil, &contracterrors.ConversionError{Value: s, Kind: k.String()}
	default:
		return s, nil
	}
}

func parseJSON(d *Descriptor, s string) (any, error) {
	var v any
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		return nil, &contracterrors.ConversionError{Value: s, Kind: d.Form.String(), Cause: err}
	}
	return v, nil
}
