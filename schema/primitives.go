package schema

import (
	"context"
	"encoding/json"
	"fmt"
	"net/mail"
	"regexp"
	"strconv"
	"unicode/utf8"

	"github.com/objkit/dto"
)

// AnySchema is the untyped view of a field schema consumed by the Object
// builder. Typed schemas implement it alongside dto.Schema[T].
type AnySchema interface {
	ParseAny(ctx context.Context, v any) (any, error)
}

// Of adapts any typed dto.Schema for use as an object field.
func Of[T any](s dto.Schema[T]) AnySchema {
	return anyAdapter[T]{s: s}
}

type anyAdapter[T any] struct{ s dto.Schema[T] }

func (a anyAdapter[T]) ParseAny(ctx context.Context, v any) (any, error) {
	out, err := a.s.Parse(ctx, v)
	if err != nil {
		return nil, err
	}
	return any(out), nil
}

// ---- String ----

// StringSchema validates string values with optional length, pattern and
// format rules. Lengths are counted in runes.
type StringSchema struct {
	min, max   int
	minSet     bool
	maxSet     bool
	pattern    *regexp.Regexp
	patternErr error
	email      bool
}

// String creates a string schema with no rules.
func String() *StringSchema { return &StringSchema{} }

// Min sets the minimum rune length (inclusive).
func (s *StringSchema) Min(n int) *StringSchema { s.min, s.minSet = n, true; return s }

// Max sets the maximum rune length (inclusive).
func (s *StringSchema) Max(n int) *StringSchema { s.max, s.maxSet = n, true; return s }

// Pattern requires the value to match the given regular expression. A
// non-compiling expression surfaces as a parse_error issue at Parse time
// rather than a panic at build time.
func (s *StringSchema) Pattern(expr string) *StringSchema {
	s.pattern, s.patternErr = regexp.Compile(expr)
	return s
}

// Email requires the value to be an address acceptable to net/mail.
func (s *StringSchema) Email() *StringSchema { s.email = true; return s }

// Parse implements dto.Schema[string].
func (s *StringSchema) Parse(ctx context.Context, v any) (string, error) {
	str, ok := v.(string)
	if !ok {
		return "", dto.Issues{{Path: "/", Code: dto.CodeInvalidType, Message: "expected string", Params: map[string]any{"got": fmt.Sprintf("%T", v)}}}
	}
	var iss dto.Issues
	n := utf8.RuneCountInString(str)
	if s.minSet && n < s.min {
		iss = dto.AppendIssues(iss, dto.IssueAt("/", dto.CodeTooShort, fmt.Sprintf("length must be at least %d", s.min), map[string]any{"min": s.min, "got": n}))
	}
	if s.maxSet && n > s.max {
		iss = dto.AppendIssues(iss, dto.IssueAt("/", dto.CodeTooLong, fmt.Sprintf("length must be at most %d", s.max), map[string]any{"max": s.max, "got": n}))
	}
	if s.patternErr != nil {
		iss = dto.AppendIssues(iss, dto.Issue{Path: "/", Code: dto.CodeParseError, Message: "invalid pattern", Cause: s.patternErr})
	} else if s.pattern != nil && !s.pattern.MatchString(str) {
		iss = dto.AppendIssues(iss, dto.IssueAt("/", dto.CodePattern, "value does not match pattern", map[string]any{"pattern": s.pattern.String()}))
	}
	if s.email {
		if _, err := mail.ParseAddress(str); err != nil {
			iss = dto.AppendIssues(iss, dto.Issue{Path: "/", Code: dto.CodeInvalidFormat, Message: "invalid email address", Hint: "email", Cause: err})
		}
	}
	if len(iss) > 0 {
		return "", iss
	}
	return str, nil
}

// ParseAny implements AnySchema.
func (s *StringSchema) ParseAny(ctx context.Context, v any) (any, error) {
	out, err := s.Parse(ctx, v)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ---- Number ----

// NumberSchema validates numeric values (json.Number, float64 or the
// common integer kinds) with optional range and integrality rules. The
// parsed value is a float64.
type NumberSchema struct {
	min, max float64
	minSet   bool
	maxSet   bool
	integer  bool
}

// Number creates a number schema with no rules.
func Number() *NumberSchema { return &NumberSchema{} }

// Min sets the minimum value (inclusive).
func (s *NumberSchema) Min(n float64) *NumberSchema { s.min, s.minSet = n, true; return s }

// Max sets the maximum value (inclusive).
func (s *NumberSchema) Max(n float64) *NumberSchema { s.max, s.maxSet = n, true; return s }

// Int requires the value to be integral.
func (s *NumberSchema) Int() *NumberSchema { s.integer = true; return s }

// Parse implements dto.Schema[float64].
func (s *NumberSchema) Parse(ctx context.Context, v any) (float64, error) {
	f, ok := toFloat(v)
	if !ok {
		return 0, dto.Issues{{Path: "/", Code: dto.CodeInvalidType, Message: "expected number", Params: map[string]any{"got": fmt.Sprintf("%T", v)}}}
	}
	var iss dto.Issues
	if s.minSet && f < s.min {
		iss = dto.AppendIssues(iss, dto.IssueAt("/", dto.CodeTooSmall, fmt.Sprintf("must be at least %v", s.min), map[string]any{"min": s.min, "got": f}))
	}
	if s.maxSet && f > s.max {
		iss = dto.AppendIssues(iss, dto.IssueAt("/", dto.CodeTooBig, fmt.Sprintf("must be at most %v", s.max), map[string]any{"max": s.max, "got": f}))
	}
	if s.integer && f != float64(int64(f)) {
		iss = dto.AppendIssues(iss, dto.IssueAt("/", dto.CodeInvalidType, "expected integer", map[string]any{"got": f}))
	}
	if len(iss) > 0 {
		return 0, iss
	}
	return f, nil
}

// ParseAny implements AnySchema.
func (s *NumberSchema) ParseAny(ctx context.Context, v any) (any, error) {
	out, err := s.Parse(ctx, v)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

// ---- Bool ----

// BoolSchema validates boolean values.
type BoolSchema struct{}

// Bool creates a boolean schema.
func Bool() *BoolSchema { return &BoolSchema{} }

// Parse implements dto.Schema[bool].
func (*BoolSchema) Parse(ctx context.Context, v any) (bool, error) {
	b, ok := v.(bool)
	if !ok {
		return false, dto.Issues{{Path: "/", Code: dto.CodeInvalidType, Message: "expected bool", Params: map[string]any{"got": fmt.Sprintf("%T", v)}}}
	}
	return b, nil
}

// ParseAny implements AnySchema.
func (s *BoolSchema) ParseAny(ctx context.Context, v any) (any, error) {
	out, err := s.Parse(ctx, v)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ---- Enum ----

// EnumSchema validates string values against a fixed set.
type EnumSchema struct{ values []string }

// Enum creates a schema accepting exactly the given string values.
func Enum(values ...string) *EnumSchema { return &EnumSchema{values: values} }

// Parse implements dto.Schema[string].
func (s *EnumSchema) Parse(ctx context.Context, v any) (string, error) {
	str, ok := v.(string)
	if !ok {
		return "", dto.Issues{{Path: "/", Code: dto.CodeInvalidType, Message: "expected string", Params: map[string]any{"got": fmt.Sprintf("%T", v)}}}
	}
	for _, e := range s.values {
		if str == e {
			return str, nil
		}
	}
	return "", dto.Issues{{Path: "/", Code: dto.CodeInvalidEnum, Message: "value not in enum " + strconv.Quote(str), Params: map[string]any{"values": s.values}}}
}

// ParseAny implements AnySchema.
func (s *EnumSchema) ParseAny(ctx context.Context, v any) (any, error) {
	out, err := s.Parse(ctx, v)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ---- Any ----

// AnyValue accepts any value unchanged.
type AnyValue struct{}

// Any creates a schema that accepts everything.
func Any() *AnyValue { return &AnyValue{} }

// Parse implements dto.Schema[any].
func (*AnyValue) Parse(ctx context.Context, v any) (any, error) { return v, nil }

// ParseAny implements AnySchema.
func (s *AnyValue) ParseAny(ctx context.Context, v any) (any, error) { return v, nil }
