package typedef

import (
	"strings"
)

// Form is the syntactic form of a descriptor.
type Form uint8

const (
	// FormInvalid is the zero Form; a descriptor with it never validates.
	FormInvalid Form = iota
	// FormPrimitive is a bare primitive kind.
	FormPrimitive
	// FormPrimitiveExt is a primitive with a required flag and optional default.
	FormPrimitiveExt
	// FormArray is a list of values conforming to Elem.
	FormArray
	// FormObject is a record whose members conform to Fields.
	FormObject
)

// String returns a lower-case name for the form.
func (f Form) String() string {
	switch f {
	case FormPrimitive:
		return "primitive"
	case FormPrimitiveExt:
		return "primitive-ext"
	case FormArray:
		return "array"
	case FormObject:
		return "object"
	default:
		return "invalid"
	}
}

// Descriptor is a parsed type descriptor. Only the fields relevant to Form
// are meaningful. Descriptors are immutable once built and safe to share.
type Descriptor struct {
	// Form selects which of the remaining fields apply.
	Form Form

	// Kind is set for FormPrimitive and FormPrimitiveExt.
	Kind Kind

	// Required applies to FormPrimitiveExt. An absent or null value passes
	// Check only when Required is false.
	Required bool
	// Default applies to FormPrimitiveExt when HasDefault is true.
	Default any
	// HasDefault distinguishes a nil default from no default.
	HasDefault bool

	// Elem is the element descriptor for FormArray.
	Elem *Descriptor

	// Fields are the members of a FormObject in declaration order.
	Fields []Field
}

// Field is a named member of an object descriptor.
type Field struct {
	Name string
	Type *Descriptor
}

// ExtOption configures a primitive-extended descriptor.
type ExtOption func(*Descriptor)

// Optional marks the value as not required.
func Optional() ExtOption {
	return func(d *Descriptor) { d.Required = false }
}

// WithDefault sets the default value consulted by parameter extraction.
func WithDefault(v any) ExtOption {
	return func(d *Descriptor) {
		d.Default = v
		d.HasDefault = true
	}
}

// Text returns the String primitive descriptor.
func Text() *Descriptor { return &Descriptor{Form: FormPrimitive, Kind: KindText} }

// Number returns the Number primitive descriptor.
func Number() *Descriptor { return &Descriptor{Form: FormPrimitive, Kind: KindNumber} }

// Boolean returns the Boolean primitive descriptor.
func Boolean() *Descriptor { return &Descriptor{Form: FormPrimitive, Kind: KindBoolean} }

// Primitive returns the primitive descriptor for k.
func Primitive(k Kind) *Descriptor { return &Descriptor{Form: FormPrimitive, Kind: k} }

// Ext returns a primitive-extended descriptor. Values are required unless
// Optional is given.
func Ext(k Kind, opts ...ExtOption) *Descriptor {
	d := &Descriptor{Form: FormPrimitiveExt, Kind: k, Required: true}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// ArrayOf returns an array descriptor with the given element descriptor.
func ArrayOf(elem *Descriptor) *Descriptor {
	return &Descriptor{Form: FormArray, Elem: elem}
}

// ObjectOf returns an object descriptor with the given members in order.
func ObjectOf(fields ...Field) *Descriptor {
	return &Descriptor{Form: FormObject, Fields: fields}
}

// FieldOf pairs a member name with its descriptor for ObjectOf.
func FieldOf(name string, d *Descriptor) Field {
	return Field{Name: name, Type: d}
}

// IsArray reports whether d is an array descriptor.
func (d *Descriptor) IsArray() bool {
	return d != nil && d.Form == FormArray
}

// IsObject reports whether d is an object descriptor.
func (d *Descriptor) IsObject() bool {
	return d != nil && d.Form == FormObject
}

// Field returns the member descriptor with the given name.
func (d *Descriptor) Field(name string) (*Descriptor, bool) {
	if d == nil {
		return nil, false
	}
	for _, f := range d.Fields {
		if f.Name == name {
			return f.Type, true
		}
	}
	return nil, false
}

// String renders d in a compact notation, e.g. {id: Number, tags: [String]}.
func (d *Descriptor) String() string {
	var sb strings.Builder
	d.writeTo(&sb)
	return sb.String()
}

func (d *Descriptor) writeTo(sb *strings.Builder) {
	if d == nil {
		sb.WriteString("<nil>")
		return
	}
	switch d.Form {
	case FormPrimitive:
		sb.WriteString(d.Kind.String())
	case FormPrimitiveExt:
		sb.WriteString(d.Kind.String())
		if !d.Required {
			sb.WriteByte('?')
		}
	case FormArray:
		sb.WriteByte('[')
		d.Elem.writeTo(sb)
		sb.WriteByte(']')
	case FormObject:
		sb.WriteByte('{')
		for i, f := range d.Fields {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(f.Name)
			sb.WriteString(": ")
			f.Type.writeTo(sb)
		}
		sb.WriteByte('}')
	default:
		sb.WriteString("<invalid>")
	}
}

// Raw returns the declaration form of d: kind tokens, Mapping and []any.
// Parse(d.Raw()) yields a descriptor equal to d.
func (d *Descriptor) Raw() any {
	if d == nil {
		return nil
	}
	switch d.Form {
	case FormPrimitive:
		return d.Kind.String()
	case FormPrimitiveExt:
		m := Mapping{{Name: "kind", Value: d.Kind.String()}}
		if !d.Required {
			m = append(m, Member{Name: "required", Value: false})
		}
		if d.HasDefault {
			m = append(m, Member{Name: "default", Value: d.Default})
		}
		return m
	case FormArray:
		return []any{d.Elem.Raw()}
	case FormObject:
		m := make(Mapping, 0, len(d.Fields))
		for _, f := range d.Fields {
			m = append(m, Member{Name: f.Name, Value: f.Type.Raw()})
		}
		return m
	default:
		return nil
	}
}

// MarshalJSON encodes the declaration form of d.
func (d *Descriptor) MarshalJSON() ([]byte, error) {
	return marshalRaw(d.Raw())
}
