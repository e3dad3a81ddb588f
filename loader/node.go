package loader

import (
	"fmt"

	"go.yaml.in/yaml/v4"

	"github.com/erraggy/apicontract/typedef"
)

// value converts a YAML node into declaration data: typedef.Mapping for
// mappings, []any for sequences and decoded scalars.
func value(n *yaml.Node) (any, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil
		}
		return value(n.Content[0])
	case yaml.AliasNode:
		if n.Alias == nil {
			return nil, nil
		}
		return value(n.Alias)
	case yaml.MappingNode:
		m := make(typedef.Mapping, 0, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			k, v := n.Content[i], n.Content[i+1]
			if k.Kind != yaml.ScalarNode {
				return nil, nodeError(k, "mapping keys must be scalars")
			}
			inner, err := value(v)
			if err != nil {
				return nil, err
			}
			m = append(m, typedef.Member{Name: k.Value, Value: inner})
		}
		return m, nil
	case yaml.SequenceNode:
		s := make([]any, 0, len(n.Content))
		for _, c := range n.Content {
			inner, err := value(c)
			if err != nil {
				return nil, err
			}
			s = append(s, inner)
		}
		return s, nil
	case yaml.ScalarNode:
		var v any
		if err := n.Decode(&v); err != nil {
			return nil, nodeError(n, err.Error())
		}
		return v, nil
	default:
		return nil, nodeError(n, fmt.Sprintf("unsupported node kind %d", n.Kind))
	}
}

// plain converts declaration data into runtime values (map[string]any
// instead of typedef.Mapping), as used for parameter defaults.
func plain(v any) any {
	switch x := v.(type) {
	case typedef.Mapping:
		return x.Map()
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = plain(e)
		}
		return out
	default:
		return v
	}
}

// nodeErr carries the position of the node a decoding failure refers to.
type nodeErr struct {
	line, column int
	msg          string
}

func (e *nodeErr) Error() string { return e.msg }

func nodeError(n *yaml.Node, msg string) error {
	return &nodeErr{line: n.Line, column: n.Column, msg: msg}
}

// member returns the value node for key in a mapping node.
func member(n *yaml.Node, keys ...string) (*yaml.Node, string) {
	for i := 0; i+1 < len(n.Content); i += 2 {
		for _, key := range keys {
			if n.Content[i].Value == key {
				return n.Content[i+1], key
			}
		}
	}
	return nil, ""
}

func resolve(n *yaml.Node) *yaml.Node {
	for n != nil && n.Kind == yaml.AliasNode {
		n = n.Alias
	}
	return n
}
