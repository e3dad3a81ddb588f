package loader

import (
	"errors"
	"fmt"

	"go.yaml.in/yaml/v4"

	"github.com/erraggy/apicontract/contract"
	"github.com/erraggy/apicontract/contracterrors"
	"github.com/erraggy/apicontract/logging"
)

// Entry is one decoded contract declaration and where it came from.
type Entry struct {
	// Declaration is ready for contract.New once Handler is bound.
	Declaration contract.Declaration
	// HandlerName is the value of the handler member, if any.
	HandlerName string
	// Source is the file path or source name.
	Source string
	// Line and Column locate the declaration in Source (1-based).
	Line   int
	Column int
}

const (
	nullTag = "!!null"
	boolTag = "!!bool"
)

type decoder struct {
	source string
	logger logging.Logger
}

// decode parses one YAML or JSON document into entries.
func (d *decoder) decode(data []byte) ([]Entry, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, &contracterrors.LoadError{Path: d.source, Message: "failed to parse YAML/JSON", Cause: err}
	}
	if root.IsZero() {
		return nil, nil
	}
	doc := resolve(&root)
	if doc.Kind == yaml.DocumentNode {
		if len(doc.Content) == 0 {
			return nil, nil
		}
		doc = resolve(doc.Content[0])
	}

	var items []*yaml.Node
	switch doc.Kind {
	case yaml.SequenceNode:
		items = doc.Content
	case yaml.MappingNode:
		if list, _ := member(doc, "contracts"); list != nil {
			list = resolve(list)
			if list.Kind != yaml.SequenceNode {
				return nil, d.loadError(nodeError(list, "contracts must be a list"))
			}
			items = list.Content
		} else {
			items = []*yaml.Node{doc}
		}
	case yaml.ScalarNode:
		if doc.ShortTag() == nullTag {
			return nil, nil
		}
		fallthrough
	default:
		return nil, d.loadError(nodeError(doc, "expected a contract, a list of contracts or a mapping with a contracts list"))
	}

	entries := make([]Entry, 0, len(items))
	for _, item := range items {
		e, err := d.entry(resolve(item))
		if err != nil {
			return nil, d.loadError(err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func (d *decoder) loadError(err error) error {
	le := &contracterrors.LoadError{Path: d.source, Message: err.Error()}
	var ne *nodeErr
	if errors.As(err, &ne) {
		le.Line = ne.line
		le.Column = ne.column
	}
	return le
}

func (d *decoder) entry(n *yaml.Node) (Entry, error) {
	if n.Kind != yaml.MappingNode {
		return Entry{}, nodeError(n, "contract must be a mapping")
	}
	e := Entry{Source: d.source, Line: n.Line, Column: n.Column}
	decl := &e.Declaration

	for i := 0; i+1 < len(n.Content); i += 2 {
		k, v := n.Content[i], resolve(n.Content[i+1])
		var err error
		switch k.Value {
		case "name":
			decl.Name, err = scalarString(v, "name")
		case "url":
			decl.URL, err = scalarString(v, "url")
		case "method":
			decl.Method, err = scalarString(v, "method")
		case "description":
			decl.Description, err = scalarString(v, "description")
		case "handler":
			e.HandlerName, err = scalarString(v, "handler")
		case "skipResultValidation", "novalidate":
			decl.SkipResultValidation, err = scalarBool(v, k.Value)
		case "result":
			decl.Result, err = value(v)
		case "params":
			decl.Params, err = d.params(v)
		default:
			d.logger.Warn("ignoring unknown contract member",
				"source", d.source, "line", k.Line, "member", k.Value)
		}
		if err != nil {
			return Entry{}, err
		}
	}
	return e, nil
}

func (d *decoder) params(n *yaml.Node) ([]contract.Param, error) {
	switch n.Kind {
	case yaml.MappingNode:
		out := make([]contract.Param, 0, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			p, err := d.param(n.Content[i].Value, resolve(n.Content[i+1]))
			if err != nil {
				return nil, err
			}
			out = append(out, p)
		}
		return out, nil
	case yaml.SequenceNode:
		out := make([]contract.Param, 0, len(n.Content))
		for _, item := range n.Content {
			item = resolve(item)
			if item.Kind != yaml.MappingNode {
				return nil, nodeError(item, "param must be a mapping")
			}
			nameNode, _ := member(item, "name")
			if nameNode == nil {
				return nil, nodeError(item, "param has no name")
			}
			name, err := scalarString(resolve(nameNode), "name")
			if err != nil {
				return nil, err
			}
			p, err := d.param(name, item)
			if err != nil {
				return nil, err
			}
			out = append(out, p)
		}
		return out, nil
	case yaml.ScalarNode:
		if n.ShortTag() == nullTag {
			return nil, nil
		}
	}
	return nil, nodeError(n, "params must be a mapping or a list")
}

func (d *decoder) param(name string, n *yaml.Node) (contract.Param, error) {
	p := contract.Param{Name: name}
	if n.Kind != yaml.MappingNode {
		return p, nodeError(n, fmt.Sprintf("param %s must be a mapping", name))
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		k, v := n.Content[i], resolve(n.Content[i+1])
		var err error
		switch k.Value {
		case "kind", "TYPE":
			p.Kind, err = value(v)
		case "source", "from":
			var s string
			s, err = scalarString(v, k.Value)
			p.Source = contract.Source(s)
		case "required", "require":
			var b bool
			b, err = scalarBool(v, k.Value)
			p.Required = contract.Bool(b)
		case "default":
			var raw any
			raw, err = value(v)
			p.Default = plain(raw)
		case "description":
			p.Description, err = scalarString(v, "description")
		case "name":
		default:
			d.logger.Warn("ignoring unknown param member",
				"source", d.source, "line", k.Line, "param", name, "member", k.Value)
		}
		if err != nil {
			return p, err
		}
	}
	return p, nil
}

func scalarString(n *yaml.Node, field string) (string, error) {
	if n.Kind != yaml.ScalarNode || n.ShortTag() == nullTag {
		return "", nodeError(n, field+" must be a string")
	}
	return n.Value, nil
}

func scalarBool(n *yaml.Node, field string) (bool, error) {
	var b bool
	if n.Kind != yaml.ScalarNode || n.ShortTag() != boolTag {
		return false, nodeError(n, field+" must be a boolean")
	}
	if err := n.Decode(&b); err != nil {
		return false, nodeError(n, err.Error())
	}
	return b, nil
}
