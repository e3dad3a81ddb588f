package typedef

import (
	"github.com/erraggy/apicontract/contracterrors"
)

// Validate reports whether a built descriptor is well formed. It applies
// the same rules as Parse: known kinds, conforming ext defaults, exactly
// one non-array element for arrays and unique object member names.
func Validate(d *Descriptor) error {
	if d == nil {
		return invalid()
	}
	switch d.Form {
	case FormPrimitive:
		if !d.Kind.Valid() {
			return invalid()
		}
	case FormPrimitiveExt:
		if !d.Kind.Valid() {
			return invalid()
		}
		if d.HasDefault && !isKindValue(d.Kind, d.Default) {
			return invalid()
		}
	case FormArray:
		if d.Elem == nil || d.Elem.Form == FormArray {
			return invalid()
		}
		return Validate(d.Elem)
	case FormObject:
		seen := make(map[string]struct{}, len(d.Fields))
		for _, f := range d.Fields {
			if _, dup := seen[f.Name]; dup {
				return &contracterrors.DescriptorError{
					Members: []string{f.Name},
					Message: "member is declared more than once",
				}
			}
			seen[f.Name] = struct{}{}
			if err := Validate(f.Type); err != nil {
				return inMember(err, f.Name)
			}
		}
	default:
		return invalid()
	}
	return nil
}
