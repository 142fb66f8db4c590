package dto

import (
	"context"
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/objkit/dto/internal/canon"
)

// JSONOpt bundles canonical JSON rendering options.
type JSONOpt struct {
	// Pretty switches to 2-space indented output. Indentation affects
	// whitespace only, never key ordering or value content.
	Pretty bool
}

// HashAlgorithm selects the digest used by Hash.
type HashAlgorithm string

const (
	SHA1   HashAlgorithm = "sha1" // default
	MD5    HashAlgorithm = "md5"
	SHA256 HashAlgorithm = "sha256"
)

// JSON serializes the validated data as canonical JSON: object keys sorted
// lexicographically at every nesting level, array order preserved. Two
// instances whose validated data is deep-equal produce byte-identical text
// regardless of the order keys were supplied at construction. Triggers
// validation, with the failure semantics of Data. When multiple opts are
// given the last one wins.
func (d *DTO[T]) JSON(ctx context.Context, opts ...JSONOpt) (string, error) {
	var opt JSONOpt
	if len(opts) > 0 {
		opt = opts[len(opts)-1]
	}
	tree, err := d.canonicalTree(ctx)
	if err != nil {
		return "", err
	}
	b, err := canon.Marshal(tree, opt.Pretty)
	if err != nil {
		return "", singleIssue(CodeParseError, err.Error())
	}
	return string(b), nil
}

// Hash returns the lowercase hex digest of the compact canonical JSON text.
// The default algorithm is SHA-1; pass MD5 or SHA256 to select another.
// Because the input is canonical, the digest is stable across
// construction-order permutations of the raw input.
func (d *DTO[T]) Hash(ctx context.Context, algo ...HashAlgorithm) (string, error) {
	text, err := d.JSON(ctx)
	if err != nil {
		return "", err
	}
	a := SHA1
	if len(algo) > 0 {
		a = algo[len(algo)-1]
	}
	var sum []byte
	switch a {
	case SHA1, "":
		h := sha1.Sum([]byte(text))
		sum = h[:]
	case MD5:
		h := md5.Sum([]byte(text))
		sum = h[:]
	case SHA256:
		h := sha256.Sum256([]byte(text))
		sum = h[:]
	default:
		return "", fmt.Errorf("dto: unsupported hash algorithm %q", a)
	}
	return hex.EncodeToString(sum), nil
}

// Param is one key/value pair of a query-string rendering.
type Param struct {
	Key   string
	Value string
}

// Params is an ordered list of query-string pairs.
type Params []Param

// Encode renders the pairs as key=value joined with "&", percent-encoding
// both sides.
func (ps Params) Encode() string {
	var b strings.Builder
	for i, p := range ps {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(p.Key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(p.Value))
	}
	return b.String()
}

// SearchParams flattens the top-level fields of the validated data into
// string-coerced key/value pairs in canonical (sorted) key order, so the
// rendering is deterministic across construction-order permutations like
// every other derived form. Scalars coerce to their JSON scalar text
// (strings verbatim, without quotes); composite values coerce to their
// compact canonical JSON. Triggers validation.
func (d *DTO[T]) SearchParams(ctx context.Context) (Params, error) {
	tree, err := d.canonicalTree(ctx)
	if err != nil {
		return nil, err
	}
	obj, ok := tree.(map[string]any)
	if !ok {
		return nil, singleIssue(CodeInvalidType, "validated data is not an object")
	}
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make(Params, 0, len(keys))
	for _, k := range keys {
		s, err := coerceParamValue(obj[k])
		if err != nil {
			return nil, singleIssue(CodeParseError, err.Error())
		}
		out = append(out, Param{Key: k, Value: s})
	}
	return out, nil
}

func coerceParamValue(v any) (string, error) {
	switch t := v.(type) {
	case nil:
		return "", nil
	case string:
		return t, nil
	case bool:
		if t {
			return "true", nil
		}
		return "false", nil
	case json.Number:
		return t.String(), nil
	default:
		b, err := canon.Marshal(t, false)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
}

// YAML renders the canonical tree as YAML with the same sorted key order as
// the canonical JSON form. Triggers validation.
func (d *DTO[T]) YAML(ctx context.Context) (string, error) {
	tree, err := d.canonicalTree(ctx)
	if err != nil {
		return "", err
	}
	node, err := yamlNode(tree)
	if err != nil {
		return "", singleIssue(CodeParseError, err.Error())
	}
	b, err := yaml.Marshal(node)
	if err != nil {
		return "", singleIssue(CodeParseError, err.Error())
	}
	return string(b), nil
}

// yamlNode builds a yaml.Node from a normalized tree, sorting mapping keys
// so the YAML and JSON derived forms agree on ordering. Strings are tagged
// !!str so numeric-looking text stays a string when re-read.
func yamlNode(v any) (*yaml.Node, error) {
	switch t := v.(type) {
	case nil:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}, nil
	case bool:
		val := "false"
		if t {
			val = "true"
		}
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: val}, nil
	case json.Number:
		return &yaml.Node{Kind: yaml.ScalarNode, Value: t.String()}, nil
	case string:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: t}, nil
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		n := &yaml.Node{Kind: yaml.MappingNode}
		for _, k := range keys {
			child, err := yamlNode(t[k])
			if err != nil {
				return nil, err
			}
			n.Content = append(n.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k},
				child)
		}
		return n, nil
	case []any:
		n := &yaml.Node{Kind: yaml.SequenceNode}
		for _, e := range t {
			child, err := yamlNode(e)
			if err != nil {
				return nil, err
			}
			n.Content = append(n.Content, child)
		}
		return n, nil
	default:
		return nil, fmt.Errorf("dto: unexpected tree node %T", v)
	}
}

// canonicalTree validates and normalizes in one step; every derived form
// starts here.
func (d *DTO[T]) canonicalTree(ctx context.Context) (any, error) {
	v, err := d.Data(ctx)
	if err != nil {
		return nil, err
	}
	tree, err := canon.Normalize(v)
	if err != nil {
		return nil, singleIssue(CodeParseError, err.Error())
	}
	return tree, nil
}
