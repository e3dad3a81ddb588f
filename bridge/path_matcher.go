package bridge

import (
	"fmt"
	"net/url"
	"regexp"
	"sort"
	"strings"
)

// PathMatcher matches request paths against a contract URL template and
// extracts the path parameter values. Templates name parameters either as
// ":name" segments or as "{name}" placeholders:
//
//	/users/:id/posts/{postId}
type PathMatcher struct {
	// template is the URL template as declared (e.g., "/users/:id")
	template string

	regex *regexp.Regexp

	// paramNames are the parameter names in order of appearance
	paramNames []string

	// specificity is used for sorting matchers (higher = more specific)
	specificity int
}

// NewPathMatcher creates a PathMatcher from a URL template.
//
// Returns an error if the template is malformed (unclosed braces, empty or
// duplicate parameter names).
func NewPathMatcher(template string) (*PathMatcher, error) {
	if template == "" {
		return nil, fmt.Errorf("path template cannot be empty")
	}

	var regexBuf strings.Builder
	regexBuf.WriteString("^")

	paramNames := []string{}
	specificity := 0

	addParam := func(name string, pos int) error {
		if name == "" {
			return fmt.Errorf("empty path parameter at position %d in template %q", pos, template)
		}
		for _, existing := range paramNames {
			if existing == name {
				return fmt.Errorf("duplicate path parameter %q in template %q", name, template)
			}
		}
		paramNames = append(paramNames, name)
		regexBuf.WriteString("([^/]+)")
		specificity--
		return nil
	}

	i := 0
	for i < len(template) {
		c := template[i]
		switch {
		case c == '{':
			end := strings.IndexByte(template[i:], '}')
			if end == -1 {
				return nil, fmt.Errorf("unclosed path parameter at position %d in template %q", i, template)
			}
			if err := addParam(template[i+1:i+end], i); err != nil {
				return nil, err
			}
			i += end + 1
		case c == ':' && (i == 0 || template[i-1] == '/'):
			end := i + 1
			for end < len(template) && isParamChar(template[end]) {
				end++
			}
			if err := addParam(template[i+1:end], i); err != nil {
				return nil, err
			}
			i = end
		default:
			if strings.IndexByte(`\.+*?()|[]{}^$`, c) >= 0 {
				regexBuf.WriteByte('\\')
			}
			regexBuf.WriteByte(c)
			i++
			if c != '/' {
				specificity++
			}
		}
	}

	regexBuf.WriteString("$")

	regex, err := regexp.Compile(regexBuf.String())
	if err != nil {
		return nil, fmt.Errorf("failed to compile path pattern for template %q: %w", template, err)
	}

	return &PathMatcher{
		template:    template,
		regex:       regex,
		paramNames:  paramNames,
		specificity: specificity,
	}, nil
}

func isParamChar(c byte) bool {
	return c == '_' || c == '-' ||
		('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || ('0' <= c && c <= '9')
}

// Match checks if the given escaped path matches this template. Parameter
// values are unescaped before they are returned.
func (pm *PathMatcher) Match(path string) (bool, map[string]string) {
	matches := pm.regex.FindStringSubmatch(path)
	if matches == nil || len(matches) != len(pm.paramNames)+1 {
		return false, nil
	}

	params := make(map[string]string, len(pm.paramNames))
	for i, name := range pm.paramNames {
		v, err := url.PathUnescape(matches[i+1])
		if err != nil {
			return false, nil
		}
		params[name] = v
	}
	return true, params
}

// Template returns the original URL template.
func (pm *PathMatcher) Template() string {
	return pm.template
}

// ParamNames returns the list of parameter names in order of appearance.
func (pm *PathMatcher) ParamNames() []string {
	return pm.paramNames
}

// PathParams returns the parameter names declared by a URL template.
func PathParams(template string) ([]string, error) {
	pm, err := NewPathMatcher(template)
	if err != nil {
		return nil, err
	}
	return pm.ParamNames(), nil
}

// sortMatchers orders by specificity (highest first), then by template length
// (longest first), then alphabetically for stability.
func sortMatchers[T any](items []T, matcher func(T) *PathMatcher) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := matcher(items[i]), matcher(items[j])
		if a.specificity != b.specificity {
			return a.specificity > b.specificity
		}
		if len(a.template) != len(b.template) {
			return len(a.template) > len(b.template)
		}
		return a.template < b.template
	})
}
