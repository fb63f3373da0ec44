// Package commerce implements the order source adapters for the WeareCloud
// scraped feed and the JumpSeller commerce platform.
package commerce

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// maxResponseSize is the maximum allowed response size from either platform (10MB).
const maxResponseSize = 10 * 1024 * 1024

// payloadShape is the closed set of response shapes both platforms are known
// to produce for order listings. The shape is resolved at the adapter
// boundary so the rest of the pipeline only ever sees []Order.
type payloadShape int

const (
	// payloadShapeList is a bare JSON array of orders.
	payloadShapeList payloadShape = iota
	// payloadShapeWrapped is an object wrapping the array in a named field.
	payloadShapeWrapped
	// payloadShapeSingleton is a single order object standing in for a list.
	payloadShapeSingleton
	// payloadShapeUnrecognized is anything else.
	payloadShapeUnrecognized
)

// String returns a short name for logging.
func (s payloadShape) String() string {
	switch s {
	case payloadShapeList:
		return "list"
	case payloadShapeWrapped:
		return "wrapped"
	case payloadShapeSingleton:
		return "singleton"
	default:
		return "unrecognized"
	}
}

// splitOrderPayload normalizes a response body into raw order elements.
// wrapField names the field the platform uses when it wraps the list
// (e.g. "orders", "pedidos"). A singleton object is returned as a
// one-element slice; an empty body yields an empty slice.
func splitOrderPayload(body []byte, wrapField string) ([]json.RawMessage, payloadShape) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, payloadShapeList
	}

	switch trimmed[0] {
	case '[':
		var elements []json.RawMessage
		if err := json.Unmarshal(trimmed, &elements); err != nil {
			return nil, payloadShapeUnrecognized
		}
		return elements, payloadShapeList
	case '{':
		var wrapper map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &wrapper); err != nil {
			return nil, payloadShapeUnrecognized
		}
		if inner, ok := wrapper[wrapField]; ok {
			var elements []json.RawMessage
			if err := json.Unmarshal(inner, &elements); err == nil {
				return elements, payloadShapeWrapped
			}
			// Wrapped singleton: {"pedidos": {...}}
			if len(bytes.TrimSpace(inner)) > 0 && bytes.TrimSpace(inner)[0] == '{' {
				return []json.RawMessage{inner}, payloadShapeWrapped
			}
			return nil, payloadShapeUnrecognized
		}
		// A lone object is treated as a single-order response.
		return []json.RawMessage{trimmed}, payloadShapeSingleton
	default:
		return nil, payloadShapeUnrecognized
	}
}

// looseString decodes a JSON value that is sometimes a string and sometimes
// a number (both feeds are inconsistent about ids and amounts).
type looseString string

// UnmarshalJSON implements json.Unmarshaler.
func (s *looseString) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*s = ""
		return nil
	}
	if trimmed[0] == '"' {
		var str string
		if err := json.Unmarshal(trimmed, &str); err != nil {
			return err
		}
		*s = looseString(str)
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(trimmed, &num); err != nil {
		return err
	}
	*s = looseString(num.String())
	return nil
}

// String returns the decoded value.
func (s looseString) String() string {
	return string(s)
}

// formatInt renders a numeric platform id as a string, empty for zero.
func formatInt(v int64) string {
	if v == 0 {
		return ""
	}
	return strconv.FormatInt(v, 10)
}
