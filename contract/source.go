package contract

// Source identifies where in a request a parameter's value is read from.
type Source string

const (
	// SourcePath reads a path template parameter.
	SourcePath Source = "path"
	// SourceQuery reads the query string.
	SourceQuery Source = "query"
	// SourceBody reads the member of the decoded body with the parameter's name.
	SourceBody Source = "body"
	// SourceWholeBody binds the entire decoded body.
	SourceWholeBody Source = "@body"
	// SourceHeader reads a request header.
	SourceHeader Source = "header"
)

// Sources lists every recognized source.
var Sources = []Source{SourcePath, SourceQuery, SourceBody, SourceWholeBody, SourceHeader}

// Valid reports whether s is a recognized source.
func (s Source) Valid() bool {
	switch s {
	case SourcePath, SourceQuery, SourceBody, SourceWholeBody, SourceHeader:
		return true
	default:
		return false
	}
}

// Converts reports whether string values from s are coerced to the declared type.
func (s Source) Converts() bool {
	return s == SourcePath || s == SourceQuery || s == SourceHeader
}

// FromBody reports whether s reads the request body.
func (s Source) FromBody() bool {
	return s == SourceBody || s == SourceWholeBody
}
