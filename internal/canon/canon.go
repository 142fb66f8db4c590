// Package canon implements the canonicalization engine behind the public
// dto package: normalization of arbitrary Go values into JSON trees, the
// sorted-key canonical writer, deep copy and deep equality.
package canon

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"

	gojson "github.com/goccy/go-json"
)

// Normalize converts v into a JSON tree built from map[string]any, []any,
// string, json.Number, bool and nil. Struct values, typed maps and typed
// slices all collapse into the same tree shape, which is what makes derived
// forms independent of the Go representation of the validated data. Numbers
// are preserved as json.Number so canonical text round-trips digits exactly.
func Normalize(v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	// Fast path: already a normalized tree node.
	if isTree(v) {
		return v, nil
	}
	data, err := gojson.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("canon: normalize: %w", err)
	}
	dec := gojson.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var out any
	if err := dec.Decode(&out); err != nil {
		return nil, fmt.Errorf("canon: normalize: %w", err)
	}
	return out, nil
}

// isTree reports whether v is already a pure normalized tree. Maps and
// slices require a full walk; the walk is still cheaper than a marshal
// round-trip when it succeeds.
func isTree(v any) bool {
	switch t := v.(type) {
	case nil, string, bool, json.Number:
		return true
	case map[string]any:
		for _, e := range t {
			if !isTree(e) {
				return false
			}
		}
		return true
	case []any:
		for _, e := range t {
			if !isTree(e) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// Append writes the canonical JSON text of a normalized tree to dst: object
// keys sorted lexicographically at every nesting level, array order
// preserved, go-json string escaping. When pretty is true the output is
// indented with two spaces; indentation never affects ordering or content.
func Append(dst []byte, v any, pretty bool) ([]byte, error) {
	return appendValue(dst, v, pretty, 0)
}

// Marshal is Append into a fresh buffer.
func Marshal(v any, pretty bool) ([]byte, error) {
	return appendValue(nil, v, pretty, 0)
}

func appendValue(dst []byte, v any, pretty bool, depth int) ([]byte, error) {
	switch t := v.(type) {
	case nil:
		return append(dst, "null"...), nil
	case bool:
		if t {
			return append(dst, "true"...), nil
		}
		return append(dst, "false"...), nil
	case json.Number:
		if t == "" {
			return append(dst, '0'), nil
		}
		return append(dst, t...), nil
	case string:
		return appendString(dst, t)
	case map[string]any:
		return appendObject(dst, t, pretty, depth)
	case []any:
		return appendArray(dst, t, pretty, depth)
	default:
		return nil, fmt.Errorf("canon: unexpected tree node %T", v)
	}
}

func appendString(dst []byte, s string) ([]byte, error) {
	b, err := gojson.Marshal(s)
	if err != nil {
		return nil, err
	}
	return append(dst, b...), nil
}

func appendObject(dst []byte, m map[string]any, pretty bool, depth int) ([]byte, error) {
	if len(m) == 0 {
		return append(dst, "{}"...), nil
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var err error
	dst = append(dst, '{')
	for i, k := range keys {
		if i > 0 {
			dst = append(dst, ',')
		}
		if pretty {
			dst = appendNewlineIndent(dst, depth+1)
		}
		if dst, err = appendString(dst, k); err != nil {
			return nil, err
		}
		dst = append(dst, ':')
		if pretty {
			dst = append(dst, ' ')
		}
		if dst, err = appendValue(dst, m[k], pretty, depth+1); err != nil {
			return nil, err
		}
	}
	if pretty {
		dst = appendNewlineIndent(dst, depth)
	}
	return append(dst, '}'), nil
}

func appendArray(dst []byte, a []any, pretty bool, depth int) ([]byte, error) {
	if len(a) == 0 {
		return append(dst, "[]"...), nil
	}
	var err error
	dst = append(dst, '[')
	for i, e := range a {
		if i > 0 {
			dst = append(dst, ',')
		}
		if pretty {
			dst = appendNewlineIndent(dst, depth+1)
		}
		if dst, err = appendValue(dst, e, pretty, depth+1); err != nil {
			return nil, err
		}
	}
	if pretty {
		dst = appendNewlineIndent(dst, depth)
	}
	return append(dst, ']'), nil
}

func appendNewlineIndent(dst []byte, depth int) []byte {
	dst = append(dst, '\n')
	for i := 0; i < depth; i++ {
		dst = append(dst, ' ', ' ')
	}
	return dst
}
