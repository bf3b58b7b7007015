package mapx

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Marshalling needs no custom code: String, List and Map marshal to their
// natural JSON forms through encoding/json. Unmarshalling does, because the
// concrete node types have to be rebuilt from the untyped decode result.

// UnmarshalJSON decodes a JSON object into the tree representation.
func (m *Map) UnmarshalJSON(b []byte) error {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()

	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return err
	}

	out := make(Map, len(raw))
	for k, v := range raw {
		node, err := fromAny(v)
		if err != nil {
			return fmt.Errorf("key %q: %w", k, err)
		}
		out[k] = node
	}
	*m = out
	return nil
}

func fromAny(v any) (Value, error) {
	switch value := v.(type) {
	case nil:
		return nil, nil
	case string:
		return String(value), nil
	case json.Number:
		// Numbers only appear when the column was written outside this
		// service; keep the literal text.
		return String(value.String()), nil
	case bool:
		return String(fmt.Sprintf("%t", value)), nil
	case []any:
		out := make(List, len(value))
		for i, item := range value {
			node, err := fromAny(item)
			if err != nil {
				return nil, fmt.Errorf("index %d: %w", i, err)
			}
			out[i] = node
		}
		return out, nil
	case map[string]any:
		out := make(Map, len(value))
		for k, item := range value {
			node, err := fromAny(item)
			if err != nil {
				return nil, fmt.Errorf("key %q: %w", k, err)
			}
			out[k] = node
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported JSON value %T", v)
	}
}
