// Package severity provides the severity levels of issues reported about
// contract declarations.
//
// The levels are ordered from least to most severe: Info < Warning < Error.
package severity

import "fmt"

// Severity indicates how serious an issue is.
type Severity int

const (
	// SeverityError marks a declaration that cannot be turned into a contract.
	SeverityError Severity = iota

	// SeverityWarning marks a declaration that works but is likely a mistake
	// or breaks a convention.
	SeverityWarning

	// SeverityInfo marks an informational note.
	SeverityInfo
)

// String returns the string representation of the severity level.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

// Rank orders severities from least (0) to most severe.
func (s Severity) Rank() int {
	switch s {
	case SeverityInfo:
		return 0
	case SeverityWarning:
		return 1
	default:
		return 2
	}
}

// MarshalText encodes the severity by name.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a severity name.
func (s *Severity) UnmarshalText(text []byte) error {
	switch string(text) {
	case "info":
		*s = SeverityInfo
	case "warning":
		*s = SeverityWarning
	case "error":
		*s = SeverityError
	default:
		return fmt.Errorf("unknown severity %q", text)
	}
	return nil
}
