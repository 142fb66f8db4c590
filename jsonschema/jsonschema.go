// Package jsonschema adapts a compiled JSON Schema into the dto.Schema
// contract, flattening the validator's cause tree into dto.Issues.
package jsonschema

import (
	"context"
	"strings"

	sj "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/objkit/dto"
	"github.com/objkit/dto/internal/canon"
)

// Contract wraps a compiled schema as a dto.Schema[map[string]any]. The
// raw input is normalized into a JSON tree before validation, so struct
// and typed-map inputs are accepted alongside decoded JSON.
func Contract(s *sj.Schema) dto.Schema[map[string]any] {
	return &contract{schema: s}
}

// Compile compiles src (a JSON Schema document) under the given resource
// name and returns it as a contract. Format assertions are enabled, since
// format checks are the point of using a schema here.
func Compile(name, src string) (dto.Schema[map[string]any], error) {
	c := sj.NewCompiler()
	c.AssertFormat = true
	if err := c.AddResource(name, strings.NewReader(src)); err != nil {
		return nil, err
	}
	s, err := c.Compile(name)
	if err != nil {
		return nil, err
	}
	return Contract(s), nil
}

// MustCompile is Compile but panics on error. Intended for package-level
// schema variables.
func MustCompile(name, src string) dto.Schema[map[string]any] {
	s, err := Compile(name, src)
	if err != nil {
		panic(err)
	}
	return s
}

type contract struct{ schema *sj.Schema }

func (c *contract) Parse(ctx context.Context, raw any) (map[string]any, error) {
	tree, err := canon.Normalize(raw)
	if err != nil {
		return nil, dto.Issues{{Path: "/", Code: dto.CodeParseError, Message: err.Error(), Cause: err}}
	}
	if err := c.schema.Validate(tree); err != nil {
		if ve, ok := err.(*sj.ValidationError); ok {
			return nil, flatten(ve)
		}
		return nil, dto.Issues{{Path: "/", Code: dto.CodeParseError, Message: err.Error(), Cause: err}}
	}
	obj, ok := tree.(map[string]any)
	if !ok {
		return nil, dto.Issues{{Path: "/", Code: dto.CodeInvalidType, Message: "expected object"}}
	}
	return obj, nil
}

// flatten walks the cause tree and emits one Issue per leaf cause, the
// validator's most specific diagnostics.
func flatten(ve *sj.ValidationError) dto.Issues {
	var iss dto.Issues
	var walk func(e *sj.ValidationError)
	walk = func(e *sj.ValidationError) {
		if len(e.Causes) == 0 {
			iss = dto.AppendIssues(iss, dto.Issue{
				Path:    pointer(e.InstanceLocation),
				Code:    codeFor(e.KeywordLocation),
				Message: e.Message,
				Params:  map[string]any{"keywordLocation": e.KeywordLocation},
			})
			return
		}
		for _, c := range e.Causes {
			walk(c)
		}
	}
	walk(ve)
	return iss
}

func pointer(loc string) string {
	if loc == "" {
		return "/"
	}
	return loc
}

// codeFor maps the trailing keyword of a keyword location onto the issue
// codes the rest of the module uses; unmapped keywords pass through as-is.
func codeFor(keywordLocation string) string {
	kw := keywordLocation
	if i := strings.LastIndexByte(kw, '/'); i >= 0 {
		kw = kw[i+1:]
	}
	switch kw {
	case "type":
		return dto.CodeInvalidType
	case "required":
		return dto.CodeRequired
	case "additionalProperties":
		return dto.CodeUnknownKey
	case "minLength":
		return dto.CodeTooShort
	case "maxLength":
		return dto.CodeTooLong
	case "minimum", "exclusiveMinimum", "minItems":
		return dto.CodeTooSmall
	case "maximum", "exclusiveMaximum", "maxItems":
		return dto.CodeTooBig
	case "pattern":
		return dto.CodePattern
	case "enum", "const":
		return dto.CodeInvalidEnum
	case "format":
		return dto.CodeInvalidFormat
	case "":
		return dto.CodeParseError
	default:
		return kw
	}
}
