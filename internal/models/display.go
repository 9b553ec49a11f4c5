package models

import (
	"bytes"
	"encoding/json"
	"sort"
)

// DisplayMap maps keys to display-formatted values. The backend sends
// loosely-typed values; anything that is not a JSON string is kept as its
// compact JSON text so consumers only ever deal with strings.
type DisplayMap map[string]string

// UnmarshalJSON implements json.Unmarshaler.
func (m *DisplayMap) UnmarshalJSON(data []byte) error {
	out, err := decodeDisplay(data)
	if err != nil {
		return err
	}
	*m = out
	return nil
}

// Keys returns the map keys in sorted order.
func (m DisplayMap) Keys() []string {
	return sortedKeys(m)
}

func decodeDisplay(data []byte) (map[string]string, error) {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil, nil
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	out := make(map[string]string, len(raw))
	for k, v := range raw {
		v = bytes.TrimSpace(v)
		if len(v) == 0 || bytes.Equal(v, []byte("null")) {
			continue
		}
		var s string
		if err := json.Unmarshal(v, &s); err == nil {
			out[k] = s
			continue
		}
		var buf bytes.Buffer
		if err := json.Compact(&buf, v); err != nil {
			return nil, err
		}
		out[k] = buf.String()
	}
	return out, nil
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
