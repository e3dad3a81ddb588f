package generator

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/erraggy/apicontract/contract"
	"github.com/erraggy/apicontract/internal/naming"
	"github.com/erraggy/apicontract/typedef"
)

// maxDescriptionLength is the maximum length for descriptions in Go comments
// before truncation.
const maxDescriptionLength = 200

// typeDecl is one generated named type.
type typeDecl struct {
	Name    string
	Comment string
	// Struct types list Fields; other types use Underlying.
	Struct     bool
	Fields     []fieldDecl
	Underlying string
}

type fieldDecl struct {
	Name    string
	Type    string
	Tag     string
	Comment string
}

// typeBuilder collects the named types needed by a set of contracts.
type typeBuilder struct {
	used  map[string]bool
	decls []typeDecl
	issue func(path, msg string)
}

func newTypeBuilder(issue func(path, msg string)) *typeBuilder {
	return &typeBuilder{used: make(map[string]bool), issue: issue}
}

// goType returns the Go type for d, declaring structs named after hint.
func (b *typeBuilder) goType(d *typedef.Descriptor, hint, path string) string {
	switch d.Form {
	case typedef.FormPrimitive, typedef.FormPrimitiveExt:
		return kindType(d.Kind)
	case typedef.FormArray:
		return "[]" + b.goType(d.Elem, hint+"Item", path+"[]")
	case typedef.FormObject:
		return b.structType(d.Fields, hint, "", path)
	default:
		return "any"
	}
}

func kindType(k typedef.Kind) string {
	switch k {
	case typedef.KindText:
		return "string"
	case typedef.KindNumber:
		return "float64"
	case typedef.KindBoolean:
		return "bool"
	default:
		return "any"
	}
}

// structType declares a struct for an object descriptor and returns its name.
func (b *typeBuilder) structType(fields []typedef.Field, name, comment, path string) string {
	name = b.declare(name, path)
	idx := len(b.decls)
	b.decls = append(b.decls, typeDecl{Name: name, Comment: comment, Struct: true})

	usedFields := make(map[string]bool, len(fields))
	for _, f := range fields {
		goName := b.fieldName(f.Name, usedFields, path+"."+f.Name)
		typ := b.goType(f.Type, name+goName, path+"."+f.Name)
		tag := f.Name
		optional := f.Type.Form == typedef.FormPrimitiveExt && !f.Type.Required
		if optional {
			typ = "*" + typ
			tag += ",omitempty"
		}
		b.decls[idx].Fields = append(b.decls[idx].Fields, fieldDecl{
			Name:    goName,
			Type:    typ,
			Tag:     tag,
			Comment: defaultComment(f.Type),
		})
	}
	return name
}

// paramsType declares the params struct of c.
func (b *typeBuilder) paramsType(c *contract.Contract, base string) string {
	name := b.declare(base+"Params", c.Name+".params")
	idx := len(b.decls)
	b.decls = append(b.decls, typeDecl{
		Name:    name,
		Comment: fmt.Sprintf("holds the resolved params of %s.", c.Name),
		Struct:  true,
	})

	usedFields := make(map[string]bool, len(c.Params))
	for _, p := range c.Params {
		path := c.Name + ".params." + p.Name
		goName := b.fieldName(p.Name, usedFields, path)
		typ := b.goType(p.Type, name+goName, path)
		tag := p.Name
		if !p.Required && p.Default == nil {
			if !p.Type.IsArray() {
				typ = "*" + typ
			}
			tag += ",omitempty"
		}
		comment := "From " + sourceText(p.Source) + "."
		if p.Description != "" {
			comment = cleanDescription(p.Description)
		}
		if p.Default != nil {
			comment += " Default: " + jsonText(p.Default) + "."
		}
		b.decls[idx].Fields = append(b.decls[idx].Fields, fieldDecl{
			Name:    goName,
			Type:    typ,
			Tag:     tag,
			Comment: comment,
		})
	}
	return name
}

// resultType declares the result type of c.
func (b *typeBuilder) resultType(c *contract.Contract, base string) string {
	d := c.Result.Type
	comment := fmt.Sprintf("is the result of %s.", c.Name)
	if c.Result.Description != "" {
		comment = cleanDescription(c.Result.Description)
	}
	if d.IsObject() {
		return b.structType(d.Fields, base+"Result", comment, c.Name+".result")
	}

	name := b.declare(base+"Result", c.Name+".result")
	idx := len(b.decls)
	b.decls = append(b.decls, typeDecl{Name: name, Comment: comment})
	b.decls[idx].Underlying = b.goType(d, name, c.Name+".result")
	return name
}

// declare reserves a type name, renaming on collision.
func (b *typeBuilder) declare(name, path string) string {
	unique := naming.Unique(name, b.used)
	if unique != name {
		b.issue(path, fmt.Sprintf("type name %s is already used; generated %s", name, unique))
	}
	return unique
}

func (b *typeBuilder) fieldName(raw string, used map[string]bool, path string) string {
	goName := naming.ToPascalCase(raw)
	if goName == "" {
		goName = "Field"
	}
	unique := naming.Unique(goName, used)
	if unique != goName {
		b.issue(path, fmt.Sprintf("field %q maps to %s, which is already used; generated %s", raw, goName, unique))
	}
	return unique
}

func defaultComment(d *typedef.Descriptor) string {
	if d.Form != typedef.FormPrimitiveExt || !d.HasDefault {
		return ""
	}
	return "Default: " + jsonText(d.Default) + "."
}

func sourceText(s contract.Source) string {
	switch s {
	case contract.SourceWholeBody:
		return "the whole request body"
	case contract.SourceBody:
		return "the request body"
	default:
		return "the " + string(s)
	}
}

func jsonText(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(data)
}

// cleanDescription flattens a description to one line, truncating long text.
func cleanDescription(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if runes := []rune(s); len(runes) > maxDescriptionLength {
		s = string(runes[:maxDescriptionLength-3]) + "..."
	}
	return s
}
