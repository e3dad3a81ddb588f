// Package issues provides the issue type reported when linting contract
// declarations.
package issues

import (
	"fmt"
	"sort"

	"github.com/erraggy/apicontract/internal/severity"
)

// Issue represents a single problem found in a contract declaration.
type Issue struct {
	// Path locates the problem within the declaration set
	// (e.g., "getUser.params.id")
	Path string `json:"path"`
	// Message is a human-readable description of the issue
	Message string `json:"message"`
	// Severity indicates the severity level of the issue
	Severity severity.Severity `json:"severity"`
	// Rule identifies the check that reported the issue (e.g., "path-param-unbound")
	Rule string `json:"rule,omitempty"`
	// Contract is the name of the contract the issue belongs to
	Contract string `json:"contract,omitempty"`
	// Field is the specific param or member name that has the issue
	Field string `json:"field,omitempty"`
	// Value is the problematic value (optional)
	Value any `json:"value,omitempty"`
	// Hint suggests a fix (optional)
	Hint string `json:"hint,omitempty"`
	// Line is the 1-based line number in the source file (0 if unknown)
	Line int `json:"line,omitempty"`
	// Column is the 1-based column number in the source file (0 if unknown)
	Column int `json:"column,omitempty"`
	// File is the source file path
	File string `json:"file,omitempty"`
}

// String returns a formatted string representation of the issue.
// Uses different symbols based on severity level:
// - "✗" for Error severity
// - "⚠" for Warning severity
// - "ℹ" for Info severity
func (i Issue) String() string {
	var symbol string
	switch i.Severity {
	case severity.SeverityError:
		symbol = "✗"
	case severity.SeverityWarning:
		symbol = "⚠"
	case severity.SeverityInfo:
		symbol = "ℹ"
	default:
		symbol = "?"
	}

	var result string
	if i.Line > 0 {
		result = fmt.Sprintf("%s %s (line %d, col %d): %s", symbol, i.Path, i.Line, i.Column, i.Message)
	} else {
		result = fmt.Sprintf("%s %s: %s", symbol, i.Path, i.Message)
	}
	if i.Rule != "" {
		result += " [" + i.Rule + "]"
	}
	if i.Hint != "" {
		result += fmt.Sprintf("\n    Hint: %s", i.Hint)
	}
	return result
}

// Location returns the source location in IDE-friendly format.
// Returns "file:line:column" if file is set, "line:column" if only line is set,
// or the path if location is unknown.
func (i Issue) Location() string {
	if i.Line == 0 {
		return i.Path
	}
	if i.File != "" {
		return fmt.Sprintf("%s:%d:%d", i.File, i.Line, i.Column)
	}
	return fmt.Sprintf("%d:%d", i.Line, i.Column)
}

// HasLocation returns true if this issue has source location information.
func (i Issue) HasLocation() bool {
	return i.Line > 0
}

// Sort orders issues by file, line, column, and then path, keeping the
// relative order of issues at the same location.
func Sort(list []Issue) {
	sort.SliceStable(list, func(a, b int) bool {
		x, y := list[a], list[b]
		if x.File != y.File {
			return x.File < y.File
		}
		if x.Line != y.Line {
			return x.Line < y.Line
		}
		if x.Column != y.Column {
			return x.Column < y.Column
		}
		return x.Path < y.Path
	})
}

// Count returns how many issues have severity s.
func Count(list []Issue, s severity.Severity) int {
	n := 0
	for _, i := range list {
		if i.Severity == s {
			n++
		}
	}
	return n
}
