package typedef

import (
	"golang.org/x/text/cases"
)

// Kind identifies one of the three primitive value types.
type Kind uint8

const (
	// KindText matches string values.
	KindText Kind = iota + 1
	// KindNumber matches numeric values of any Go numeric type.
	KindNumber
	// KindBoolean matches bool values.
	KindBoolean
)

// String returns the name used for the kind in error messages.
func (k Kind) String() string {
	switch k {
	case KindText:
		return "String"
	case KindNumber:
		return "Number"
	case KindBoolean:
		return "Boolean"
	default:
		return "Invalid"
	}
}

// Valid reports whether k is one of the declared kinds.
func (k Kind) Valid() bool {
	return k >= KindText && k <= KindBoolean
}

var kindTokens = map[string]Kind{
	"string":  KindText,
	"text":    KindText,
	"number":  KindNumber,
	"boolean": KindBoolean,
}

// ParseKind resolves a primitive type token such as "String" or "number".
// Tokens are matched case-insensitively; "Text" is accepted as an alias of "String".
func ParseKind(token string) (Kind, bool) {
	k, ok := kindTokens[cases.Fold().String(token)]
	return k, ok
}

// kindOf resolves raw declaration data that names a primitive kind.
func kindOf(raw any) (Kind, bool) {
	switch v := raw.(type) {
	case Kind:
		return v, v.Valid()
	case string:
		return ParseKind(v)
	default:
		return 0, false
	}
}
