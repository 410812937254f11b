// Package payload converts raw data-tool outputs into canonical records.
//
// Tools return JSON that is often double-encoded, wrapped in an envelope
// object, or slightly malformed. Decoding is lenient: standard JSON first,
// then a repaired document, then Hjson.
package payload

import (
	"bytes"
	"encoding/json"
	"fmt"

	jsonrepair "github.com/RealAlexandreAI/json-repair"
	hjson "github.com/hjson/hjson-go/v4"

	"github.com/newthinker/fisher/internal/core"
)

// maxDepth bounds how many string or envelope layers are peeled off a payload
const maxDepth = 4

// Parse decodes data into v, falling back to JSON repair and then Hjson
func Parse(data []byte, v any) error {
	err := json.Unmarshal(data, v)
	if err == nil {
		return nil
	}

	if repaired, rerr := jsonrepair.RepairJSON(string(data)); rerr == nil {
		if json.Unmarshal([]byte(repaired), v) == nil {
			return nil
		}
	}

	if normalized, herr := hjsonToJSON(data); herr == nil {
		if json.Unmarshal(normalized, v) == nil {
			return nil
		}
	}

	return core.WrapError(core.ErrDecodeFailed, err)
}

func hjsonToJSON(data []byte) ([]byte, error) {
	var generic any
	if err := hjson.Unmarshal(data, &generic); err != nil {
		return nil, fmt.Errorf("hjson: %w", err)
	}
	return json.Marshal(generic)
}

// isNull reports whether raw is empty or the JSON null literal
func isNull(raw []byte) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

// unwrap peels string encoding and envelope objects until a list remains.
// An object without any of keys is returned as a one-element list.
func unwrap(raw []byte, keys []string, depth int) ([]byte, error) {
	trimmed := bytes.TrimSpace(raw)
	if isNull(trimmed) {
		return nil, nil
	}
	if depth == 0 {
		return trimmed, nil
	}

	switch trimmed[0] {
	case '"':
		var inner string
		if err := json.Unmarshal(trimmed, &inner); err != nil {
			return nil, core.WrapError(core.ErrDecodeFailed, err)
		}
		return unwrap([]byte(inner), keys, depth-1)
	case '{':
		var obj map[string]json.RawMessage
		if err := Parse(trimmed, &obj); err != nil {
			return nil, err
		}
		for _, k := range keys {
			if inner, ok := obj[k]; ok {
				return unwrap(inner, keys, depth-1)
			}
		}
		list := make([]byte, 0, len(trimmed)+2)
		list = append(list, '[')
		list = append(list, trimmed...)
		return append(list, ']'), nil
	}
	return trimmed, nil
}

// decodeRecords unwraps raw and decodes it as a list of loosely typed records
func decodeRecords(raw []byte, keys ...string) ([]map[string]json.RawMessage, error) {
	list, err := unwrap(raw, keys, maxDepth)
	if err != nil || list == nil {
		return nil, err
	}
	var records []map[string]json.RawMessage
	if err := Parse(list, &records); err != nil {
		return nil, err
	}
	return records, nil
}
