package typedef

import (
	"bytes"
	"encoding/json"
)

// Member is one entry of an ordered Mapping.
type Member struct {
	Name  string
	Value any
}

// Mapping is an insertion-ordered string-keyed mapping. Declaration loaders
// produce it so that object members and parameters keep the order in which
// they were written.
type Mapping []Member

// Get returns the value stored under name.
func (m Mapping) Get(name string) (any, bool) {
	for _, mem := range m {
		if mem.Name == name {
			return mem.Value, true
		}
	}
	return nil, false
}

// Keys returns the member names in order.
func (m Mapping) Keys() []string {
	keys := make([]string, len(m))
	for i, mem := range m {
		keys[i] = mem.Name
	}
	return keys
}

// Map converts m into a map, recursively converting nested Mappings.
func (m Mapping) Map() map[string]any {
	out := make(map[string]any, len(m))
	for _, mem := range m {
		out[mem.Name] = plain(mem.Value)
	}
	return out
}

func plain(v any) any {
	switch x := v.(type) {
	case Mapping:
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

// MarshalJSON encodes m as a JSON object preserving member order.
func (m Mapping) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, mem := range m {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(mem.Name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := marshalRaw(mem.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func marshalRaw(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}
