package schema

import (
	"context"
	"sort"

	"github.com/objkit/dto"
)

// UnknownPolicy controls how keys without a declared field are handled.
type UnknownPolicy int

const (
	UnknownStrict UnknownPolicy = iota // Reject unknown keys with an error.
	UnknownStrip                       // Drop unknown keys.
)

// Builder accumulates object fields; Schema freezes it into a contract.
type Builder struct {
	fields   map[string]AnySchema
	required map[string]struct{}
	unknown  UnknownPolicy
}

// FieldStep scopes modifiers to the most recently added field.
type FieldStep struct {
	b    *Builder
	name string
}

// Object creates a new object builder with safe defaults (UnknownStrict).
func Object() *Builder {
	return &Builder{
		fields:   map[string]AnySchema{},
		required: map[string]struct{}{},
		unknown:  UnknownStrict,
	}
}

// Field registers a field with its schema.
func (b *Builder) Field(name string, s AnySchema) *FieldStep {
	b.fields[name] = s
	return &FieldStep{b: b, name: name}
}

// Required marks the field as required and returns the builder.
func (f *FieldStep) Required() *Builder {
	f.b.required[f.name] = struct{}{}
	return f.b
}

// Optional marks the field as optional (the default) and returns the builder.
func (f *FieldStep) Optional() *Builder {
	delete(f.b.required, f.name)
	return f.b
}

// Builder methods are forwarded so chains need not detour through Required
// or Optional before continuing.
func (f *FieldStep) Field(name string, s AnySchema) *FieldStep { return f.b.Field(name, s) }
func (f *FieldStep) Require(names ...string) *Builder          { return f.b.Require(names...) }
func (f *FieldStep) UnknownStrict() *Builder                   { return f.b.UnknownStrict() }
func (f *FieldStep) UnknownStrip() *Builder                    { return f.b.UnknownStrip() }
func (f *FieldStep) Schema() dto.Schema[map[string]any]        { return f.b.Schema() }

// Require marks multiple fields as required at once.
func (b *Builder) Require(names ...string) *Builder {
	for _, n := range names {
		b.required[n] = struct{}{}
	}
	return b
}

// UnknownStrict rejects keys without a declared field.
func (b *Builder) UnknownStrict() *Builder { b.unknown = UnknownStrict; return b }

// UnknownStrip drops keys without a declared field.
func (b *Builder) UnknownStrip() *Builder { b.unknown = UnknownStrip; return b }

// Schema freezes the builder into a dto.Schema[map[string]any]. The builder
// may be reused afterwards; the contract keeps its own copies.
func (b *Builder) Schema() dto.Schema[map[string]any] {
	fields := make(map[string]AnySchema, len(b.fields))
	for k, v := range b.fields {
		fields[k] = v
	}
	required := make(map[string]struct{}, len(b.required))
	for k := range b.required {
		required[k] = struct{}{}
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return &objectSchema{fields: fields, required: required, unknown: b.unknown, sortedKeys: keys}
}

type objectSchema struct {
	fields     map[string]AnySchema
	required   map[string]struct{}
	unknown    UnknownPolicy
	sortedKeys []string
}

var _ dto.Schema[map[string]any] = (*objectSchema)(nil)

// Parse validates every declared field, accumulating issues instead of
// stopping at the first one. Fields are visited in sorted key order so the
// issue list is deterministic regardless of map iteration order.
func (o *objectSchema) Parse(ctx context.Context, v any) (map[string]any, error) {
	src, ok := v.(map[string]any)
	if !ok {
		return nil, dto.Issues{{Path: "/", Code: dto.CodeInvalidType, Message: "expected object"}}
	}
	out := make(map[string]any, len(src))
	var iss dto.Issues
	for _, k := range o.sortedKeys {
		val, exists := src[k]
		if !exists {
			if _, req := o.required[k]; req {
				iss = dto.AppendIssues(iss, dto.Issue{Path: "/" + k, Code: dto.CodeRequired, Message: "required property missing"})
			}
			continue
		}
		parsed, err := o.fields[k].ParseAny(ctx, val)
		if err != nil {
			iss = dto.AppendIssues(iss, rebase("/"+k, err)...)
			continue
		}
		out[k] = parsed
	}
	iss = dto.AppendIssues(iss, o.collectUnknown(src, out)...)
	if len(iss) > 0 {
		return nil, iss
	}
	return out, nil
}

// collectUnknown processes unknown keys according to the policy, visiting
// them in sorted order for deterministic issue output.
func (o *objectSchema) collectUnknown(src, out map[string]any) dto.Issues {
	var uks []string
	for k := range src {
		if _, known := o.fields[k]; !known {
			uks = append(uks, k)
		}
	}
	if len(uks) == 0 {
		return nil
	}
	sort.Strings(uks)
	var iss dto.Issues
	for _, k := range uks {
		switch o.unknown {
		case UnknownStrict:
			iss = dto.AppendIssues(iss, dto.Issue{Path: "/" + k, Code: dto.CodeUnknownKey, Message: "unknown key"})
		case UnknownStrip:
			// dropped
		}
	}
	return iss
}

// rebase prefixes child issue paths with the field's pointer segment;
// non-Issues errors wrap into a parse_error at the field.
func rebase(base string, err error) dto.Issues {
	child, ok := dto.AsIssues(err)
	if !ok {
		return dto.Issues{{Path: base, Code: dto.CodeParseError, Message: err.Error(), Cause: err}}
	}
	out := make(dto.Issues, 0, len(child))
	for _, it := range child {
		p := it.Path
		switch {
		case p == "" || p == "/":
			p = base
		case p[0] == '/':
			p = base + p
		default:
			p = base + "/" + p
		}
		out = append(out, dto.Issue{Path: p, Code: it.Code, Message: it.Message, Hint: it.Hint, Cause: it.Cause, Params: it.Params})
	}
	return out
}
