package naming

import (
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// initialisms are written in upper case inside identifiers.
var initialisms = map[string]bool{
	"API": true, "ASCII": true, "CPU": true, "CSS": true, "DNS": true, "EOF": true,
	"GUID": true, "HTML": true, "HTTP": true, "HTTPS": true, "ID": true, "IP": true,
	"JSON": true, "OS": true, "RPC": true, "SQL": true, "SSH": true, "TCP": true,
	"TLS": true, "TTL": true, "UI": true, "UID": true, "URI": true, "URL": true,
	"UTF8": true, "UUID": true, "XML": true,
}

// reserved holds the Go keywords.
var reserved = map[string]bool{
	"break": true, "case": true, "chan": true, "const": true, "continue": true,
	"default": true, "defer": true, "else": true, "fallthrough": true, "for": true,
	"func": true, "go": true, "goto": true, "if": true, "import": true,
	"interface": true, "map": true, "package": true, "range": true, "return": true,
	"select": true, "struct": true, "switch": true, "type": true, "var": true,
}

// Words splits s into words. Any rune that is neither a letter nor a digit
// separates words, and so does a lower-case letter or digit followed by an
// upper-case letter.
// Example: "getUser_by-ID" -> ["get", "User", "by", "ID"]
func Words(s string) []string {
	var words []string
	var cur []rune
	flush := func() {
		if len(cur) > 0 {
			words = append(words, string(cur))
			cur = cur[:0]
		}
	}
	var prev rune
	for _, r := range s {
		switch {
		case !unicode.IsLetter(r) && !unicode.IsDigit(r):
			flush()
		case unicode.IsUpper(r) && (unicode.IsLower(prev) || unicode.IsDigit(prev)):
			flush()
			cur = append(cur, r)
		default:
			cur = append(cur, r)
		}
		prev = r
	}
	flush()
	return words
}

// ToPascalCase converts s to an exported Go identifier.
// Example: "user_id" -> "UserID"
// Example: "get-user" -> "GetUser"
func ToPascalCase(s string) string {
	name := strings.Join(goWords(s), "")
	if name == "" {
		return ""
	}
	if !unicode.IsLetter([]rune(name)[0]) {
		name = "X" + name
	}
	return name
}

// ToCamelCase converts s to an unexported Go identifier, escaping keywords
// with a trailing underscore.
// Example: "UserID" -> "userID"
// Example: "type" -> "type_"
func ToCamelCase(s string) string {
	words := goWords(s)
	if len(words) == 0 {
		return ""
	}
	first := words[0]
	if initialisms[first] {
		first = strings.ToLower(first)
	} else {
		runes := []rune(first)
		runes[0] = unicode.ToLower(runes[0])
		first = string(runes)
	}
	name := first + strings.Join(words[1:], "")
	if !unicode.IsLetter([]rune(name)[0]) {
		name = "x" + name
	}
	if reserved[name] {
		return name + "_"
	}
	return name
}

// goWords returns the words of s, title-cased or upper-cased initialisms.
func goWords(s string) []string {
	titler := cases.Title(language.Und, cases.NoLower)
	words := Words(s)
	for i, w := range words {
		if up := strings.ToUpper(w); initialisms[up] {
			words[i] = up
			continue
		}
		words[i] = titler.String(w)
	}
	return words
}

// IsReserved reports whether s is a Go keyword.
func IsReserved(s string) bool {
	return reserved[s]
}

// Unique returns name, or name followed by the smallest number >= 2 that is
// not in used. The returned name is added to used.
func Unique(name string, used map[string]bool) string {
	candidate := name
	for i := 2; used[candidate]; i++ {
		candidate = name + strconv.Itoa(i)
	}
	used[candidate] = true
	return candidate
}
