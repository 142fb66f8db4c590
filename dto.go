package dto

import (
	"context"
	"sync"
	"time"

	"github.com/objkit/dto/internal/canon"
)

// DTO is an immutable carrier of schema-validated data. Raw input is stored
// verbatim at construction and validated lazily: the first successful Data
// call memoizes the validated value for the instance's lifetime, failures
// are never cached. All mutation-shaped operations (Clone, With) produce
// new instances with fresh identities.
type DTO[T any] struct {
	def       *Definition[T]
	id        string
	createdAt time.Time
	raw       any

	// cache guard: concurrent first-time Data calls converge on a single
	// validation run and a single cached result.
	mu        sync.Mutex
	validated T
	cached    bool
}

// ID returns the instance identity assigned at construction. Identities are
// unique per instance, including instances produced by Clone and With.
func (d *DTO[T]) ID() string { return d.id }

// CreatedAt returns the creation timestamp assigned at construction.
func (d *DTO[T]) CreatedAt() time.Time { return d.createdAt }

// Definition returns the shared type-level definition of this instance.
func (d *DTO[T]) Definition() *Definition[T] { return d.def }

// UnsafeData returns the stored raw input verbatim. No validation is
// performed and no error is possible. Callers must not mutate the result.
func (d *DTO[T]) UnsafeData() any { return d.raw }

// Data returns the validated value, running the schema contract against the
// raw input on first demand. Success is memoized: subsequent calls return
// the cached value without re-invoking the contract. Failures are not
// cached; a later call retries validation from scratch (safe because raw
// input is never mutated). The returned error has passed through the
// definition's error transform when one is configured.
func (d *DTO[T]) Data(ctx context.Context) (T, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.cached {
		return d.validated, nil
	}
	v, err := d.def.schema.Parse(ctx, d.raw)
	if err != nil {
		var zero T
		return zero, d.def.remap(err, d.raw)
	}
	d.validated = v
	d.cached = true
	return v, nil
}

// DataItem returns a single top-level field of the validated data. It goes
// through the same lazy-validate-and-cache path as Data, so it can raise
// the same failures. Map-typed validated data is indexed directly, so the
// field comes back exactly as the schema produced it; other representations
// (structs, typed maps) are viewed through canonical normalization first,
// which renders numbers as json.Number. Indexing non-object data yields an
// invalid_type issue; an absent field yields (nil, nil).
func (d *DTO[T]) DataItem(ctx context.Context, field string) (any, error) {
	v, err := d.Data(ctx)
	if err != nil {
		return nil, err
	}
	if obj, ok := any(v).(map[string]any); ok {
		return obj[field], nil
	}
	tree, err := canon.Normalize(v)
	if err != nil {
		return nil, singleIssue(CodeParseError, err.Error())
	}
	obj, ok := tree.(map[string]any)
	if !ok {
		return nil, singleIssue(CodeInvalidType, "validated data is not an object")
	}
	return obj[field], nil
}

// Err re-runs the schema contract and returns the (possibly transformed)
// failure without raising, or nil when validation would succeed. It is an
// inspection API: it neither consults nor populates the validated-data
// cache, so it may run the contract redundantly relative to Data.
func (d *DTO[T]) Err(ctx context.Context) error {
	_, err := d.def.schema.Parse(ctx, d.raw)
	return d.def.remap(err, d.raw)
}

// DataAny exposes the validated data untyped; it exists so instances of
// different definitions satisfy Carrier and can be compared with Equals.
func (d *DTO[T]) DataAny(ctx context.Context) (any, error) {
	v, err := d.Data(ctx)
	if err != nil {
		return nil, err
	}
	return any(v), nil
}
