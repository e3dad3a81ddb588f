package generator

import (
	"bytes"
	"embed"
	"strconv"
	"strings"
	"text/template"

	"golang.org/x/tools/imports"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var templates = template.Must(template.New("").
	Funcs(template.FuncMap{"quote": strconv.Quote}).
	ParseFS(templateFS, "templates/*.tmpl"))

// fileData is the input of every file template.
type fileData struct {
	Package   string
	Types     []typeDecl
	Contracts []contractData
}

// contractData describes one contract to the handler templates.
type contractData struct {
	Name        string
	GoName      string
	Method      string
	URL         string
	Description string
	ParamsType  string
	ResultType  string
}

// executeTemplate executes a template by name and returns the formatted bytes.
// Unformattable output is returned as is so it can be inspected.
func executeTemplate(name string, data fileData) ([]byte, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return nil, err
	}
	formatted, err := formatAndFixImports(strings.TrimSuffix(name, ".tmpl"), buf.Bytes())
	if err != nil {
		return buf.Bytes(), err
	}
	return formatted, nil
}

// formatAndFixImports formats Go source code and fixes its imports.
func formatAndFixImports(filename string, src []byte) ([]byte, error) {
	return imports.Process(filename, src, nil)
}
