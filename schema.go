package dto

import "context"

// Schema is the opaque validation contract a DTO definition is bound to.
// Parse transforms an unknown input into T, returning an error when the
// input does not satisfy the contract. Implementations should surface
// failures as Issues (reachable via errors.As) so callers can enumerate
// field paths and reasons, but any error value is accepted.
//
// Parse must be a pure function of its input: DTO instances call it again
// after a failure, relying on identical raw input producing an identical
// outcome.
type Schema[T any] interface {
	Parse(ctx context.Context, raw any) (T, error)
}

// SchemaFunc adapts a plain function to the Schema contract.
type SchemaFunc[T any] func(ctx context.Context, raw any) (T, error)

// Parse implements Schema[T].
func (f SchemaFunc[T]) Parse(ctx context.Context, raw any) (T, error) { return f(ctx, raw) }
