package xrange

import (
	"encoding/json"
	"fmt"

	"github.com/npillmayer/hilite/dom"
)

// Sniff determines the kind of a stored range value and returns a Range
// which can be normalized. It understands
//
//   - *Browser, *Normalized and *Serialized ranges, and values of Serialized
//   - live DOM ranges (*dom.Range), which are treated as browser ranges
//   - maps with keys "start", "startOffset", "end", "endOffset", as produced
//     by decoding JSON or YAML
//   - raw JSON messages of such maps
//
// Serialized ranges are always copied, so callers may adapt the result
// without touching the stored value.
func Sniff(v any) (Range, error) {
	switch r := v.(type) {
	case *Serialized:
		if r == nil {
			break
		}
		cp := *r
		return &cp, nil
	case Serialized:
		return &r, nil
	case *Browser:
		return r, nil
	case *Normalized:
		return r, nil
	case *dom.Range:
		if r == nil {
			break
		}
		return NewBrowser(r), nil
	case map[string]any:
		return serializedFromMap(r)
	case json.RawMessage:
		return serializedFromJSON(r)
	case []byte:
		return serializedFromJSON(r)
	}
	return nil, fmt.Errorf("%w: %T", ErrNotSniffable, v)
}

func serializedFromJSON(raw []byte) (Range, error) {
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotSniffable, err)
	}
	return serializedFromMap(m)
}

func serializedFromMap(m map[string]any) (Range, error) {
	start, ok1 := m["start"].(string)
	end, ok2 := m["end"].(string)
	if !ok1 || !ok2 {
		return nil, fmt.Errorf("%w: map lacks string fields start/end", ErrNotSniffable)
	}
	startOffset, err := toInt(m["startOffset"])
	if err != nil {
		return nil, fmt.Errorf("%w: startOffset: %v", ErrNotSniffable, err)
	}
	endOffset, err := toInt(m["endOffset"])
	if err != nil {
		return nil, fmt.Errorf("%w: endOffset: %v", ErrNotSniffable, err)
	}
	return &Serialized{
		Start:       start,
		StartOffset: startOffset,
		End:         end,
		EndOffset:   endOffset,
	}, nil
}

func toInt(v any) (int, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case uint64:
		return int(n), nil
	case float64:
		return int(n), nil
	case json.Number:
		i, err := n.Int64()
		return int(i), err
	}
	return 0, fmt.Errorf("not a number: %v", v)
}
